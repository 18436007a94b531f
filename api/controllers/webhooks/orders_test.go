package webhooks

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/tagdeck/backend/internal/ingest"
	pkgerrors "github.com/tagdeck/backend/pkg/errors"
)

const orderPayload = `{
  "id": 5678901234567,
  "order_number": 1042,
  "total_price": "149.90",
  "payment_gateway_names": ["shopify_payments"],
  "tags": "new, vip",
  "shipping_address": {"address1": "1 Main St", "country": "United States"},
  "customer": {"id": 987654321, "first_name": "Pat", "last_name": "Doe", "email": "pat@example.com"}
}`

type fakeIngestService struct {
	calls int
	err   error
	last  *ingest.NormalizedPayload
}

func (f *fakeIngestService) ApplyOrderWebhook(ctx context.Context, payload *ingest.NormalizedPayload) error {
	f.calls++
	f.last = payload
	return f.err
}

type fakeSecrets struct {
	secret string
}

func (f *fakeSecrets) SigningSecret() string { return f.secret }

type inMemoryStore struct {
	mu   sync.Mutex
	keys map[string]string
}

func newInMemoryStore() *inMemoryStore {
	return &inMemoryStore{keys: make(map[string]string)}
}

func (s *inMemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[key], nil
}

func (s *inMemoryStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[key]; ok {
		return false, nil
	}
	s.keys[key] = "1"
	return true, nil
}

func (s *inMemoryStore) IdempotencyKey(scope, id string) string {
	return "td:idempotency:" + scope + ":" + id
}

func (s *inMemoryStore) Del(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.keys, key)
	}
	return nil
}

func signPayload(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func newGuard(t *testing.T) *ingest.IdempotencyGuard {
	t.Helper()
	guard, err := ingest.NewIdempotencyGuard(newInMemoryStore(), time.Minute, "order-webhook")
	if err != nil {
		t.Fatalf("guard setup: %v", err)
	}
	return guard
}

func postWebhook(t *testing.T, handler http.Handler, payload []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/orders", bytes.NewReader(payload))
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestOrdersWebhook_SuccessAndIdempotent(t *testing.T) {
	payload := []byte(orderPayload)
	service := &fakeIngestService{}
	handler := OrdersWebhook(service, &fakeSecrets{secret: "secret"}, newGuard(t), nil)

	headers := map[string]string{
		hmacHeader:      signPayload(payload, "secret"),
		topicHeader:     "orders/updated",
		shopHeader:      "demo.myshopify.com",
		webhookIDHeader: "delivery-1",
	}

	rec := postWebhook(t, handler, payload, headers)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if service.calls != 1 {
		t.Fatalf("expected service called once, got %d", service.calls)
	}
	if service.last.OrderID != "5678901234567" {
		t.Fatalf("unexpected normalized order id %q", service.last.OrderID)
	}

	rec2 := postWebhook(t, handler, payload, headers)
	if rec2.Code != http.StatusOK {
		t.Fatalf("expected 200 on duplicate, got %d", rec2.Code)
	}
	if service.calls != 1 {
		t.Fatalf("duplicate delivery should not increment calls, got %d", service.calls)
	}
}

func TestOrdersWebhook_InvalidSignature(t *testing.T) {
	payload := []byte(orderPayload)
	service := &fakeIngestService{}
	handler := OrdersWebhook(service, &fakeSecrets{secret: "secret"}, newGuard(t), nil)

	rec := postWebhook(t, handler, payload, map[string]string{hmacHeader: "invalid"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid signature, got %d", rec.Code)
	}
	if service.calls != 0 {
		t.Fatalf("service should not be invoked on invalid signature")
	}
}

func TestOrdersWebhook_MissingSignature(t *testing.T) {
	handler := OrdersWebhook(&fakeIngestService{}, &fakeSecrets{secret: "secret"}, newGuard(t), nil)

	rec := postWebhook(t, handler, []byte(orderPayload), nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for missing signature, got %d", rec.Code)
	}
}

func TestOrdersWebhook_IngestFailureReleasesGuard(t *testing.T) {
	payload := []byte(orderPayload)
	service := &fakeIngestService{
		err: pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("db down"), "ingest order webhook"),
	}
	handler := OrdersWebhook(service, &fakeSecrets{secret: "secret"}, newGuard(t), nil)

	headers := map[string]string{
		hmacHeader:      signPayload(payload, "secret"),
		webhookIDHeader: "delivery-1",
	}

	rec := postWebhook(t, handler, payload, headers)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 on ingestion failure, got %d", rec.Code)
	}

	// The guard released the mark, so the redelivery reaches the service.
	service.err = nil
	rec2 := postWebhook(t, handler, payload, headers)
	if rec2.Code != http.StatusOK {
		t.Fatalf("expected 200 on redelivery, got %d", rec2.Code)
	}
	if service.calls != 2 {
		t.Fatalf("expected redelivery to reach the service, got %d calls", service.calls)
	}
}

func TestOrdersWebhook_MalformedPayload(t *testing.T) {
	payload := []byte(`{"order_number": 1}`)
	service := &fakeIngestService{}
	handler := OrdersWebhook(service, &fakeSecrets{secret: "secret"}, newGuard(t), nil)

	rec := postWebhook(t, handler, payload, map[string]string{
		hmacHeader: signPayload(payload, "secret"),
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for payload without ids, got %d", rec.Code)
	}
	if service.calls != 0 {
		t.Fatalf("service should not be invoked for invalid payloads")
	}
}

func TestOrdersWebhook_FallsBackToBodyDigestForDedup(t *testing.T) {
	payload := []byte(orderPayload)
	service := &fakeIngestService{}
	handler := OrdersWebhook(service, &fakeSecrets{secret: "secret"}, newGuard(t), nil)

	headers := map[string]string{hmacHeader: signPayload(payload, "secret")}

	if rec := postWebhook(t, handler, payload, headers); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := postWebhook(t, handler, payload, headers); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on duplicate, got %d", rec.Code)
	}
	if service.calls != 1 {
		t.Fatalf("expected body-digest dedup to suppress the duplicate, got %d calls", service.calls)
	}

	// A changed payload for the same order is a new delivery, not a duplicate.
	updated := bytes.Replace(payload, []byte(`"new, vip"`), []byte(`"new, vip, wholesale"`), 1)
	rec := postWebhook(t, handler, updated, map[string]string{hmacHeader: signPayload(updated, "secret")})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for updated payload, got %d", rec.Code)
	}
	if service.calls != 2 {
		t.Fatalf("expected updated payload to reach the service, got %d calls", service.calls)
	}
	if service.last.Tags != "new, vip, wholesale" {
		t.Fatalf("unexpected tags on updated payload: %q", service.last.Tags)
	}
}
