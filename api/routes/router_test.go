package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagdeck/backend/internal/ingest"
	"github.com/tagdeck/backend/internal/orders"
	"github.com/tagdeck/backend/internal/tags"
	"github.com/tagdeck/backend/pkg/config"
	"github.com/tagdeck/backend/pkg/logger"
	"github.com/tagdeck/backend/pkg/pagination"
	"github.com/tagdeck/backend/pkg/shopify"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubOrdersService struct{}

func (stubOrdersService) ListOrders(ctx context.Context, params pagination.Params) (*orders.OrderList, error) {
	return &orders.OrderList{Orders: []orders.OrderSummary{}}, nil
}
func (stubOrdersService) ExportRows(ctx context.Context) ([][]string, error) {
	return [][]string{{"order_id"}}, nil
}
func (stubOrdersService) OpenTagSession(ctx context.Context, orderID string) (tags.OptionList, error) {
	return tags.OptionList{}, nil
}
func (stubOrdersService) TagOptions(ctx context.Context, orderID, query string) (tags.OptionList, error) {
	return tags.OptionList{}, nil
}
func (stubOrdersService) ToggleTag(ctx context.Context, orderID, tag, query string) (tags.OptionList, error) {
	return tags.OptionList{}, nil
}
func (stubOrdersService) CancelTagSession(ctx context.Context, orderID string) {}
func (stubOrdersService) SaveTags(ctx context.Context, orderID string) (*orders.SaveTagsResult, error) {
	return &orders.SaveTagsResult{OrderID: orderID}, nil
}

type stubIngestService struct{}

func (stubIngestService) ApplyOrderWebhook(ctx context.Context, payload *ingest.NormalizedPayload) error {
	return nil
}

type stubStore struct {
	mu   sync.Mutex
	keys map[string]string
}

func (s *stubStore) Get(ctx context.Context, key string) (string, error) { return "", nil }
func (s *stubStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keys == nil {
		s.keys = make(map[string]string)
	}
	if _, ok := s.keys[key]; ok {
		return false, nil
	}
	s.keys[key] = "1"
	return true, nil
}
func (s *stubStore) IdempotencyKey(scope, id string) string { return scope + ":" + id }
func (s *stubStore) Del(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.keys, key)
	}
	return nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "tagdeck-test", Output: io.Discard})

	client, err := shopify.NewClient(context.Background(), config.ShopifyConfig{
		ShopDomain:    "demo.myshopify.com",
		AdminToken:    "token",
		APIVersion:    "2025-07",
		WebhookSecret: "secret",
	}, logg)
	require.NoError(t, err)

	guard, err := ingest.NewIdempotencyGuard(&stubStore{}, time.Minute, "order-webhook")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.App.Env = "test"

	return NewRouter(cfg, logg, stubPinger{}, stubPinger{}, stubOrdersService{}, stubIngestService{}, client, guard)
}

func TestRouterRoutes(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health/live", http.StatusOK},
		{http.MethodGet, "/health/ready", http.StatusOK},
		{http.MethodGet, "/api/v1/orders", http.StatusOK},
		{http.MethodGet, "/api/v1/orders/export", http.StatusOK},
		{http.MethodPost, "/api/v1/orders/100/tags/session", http.StatusOK},
		{http.MethodGet, "/api/v1/orders/100/tags/options", http.StatusOK},
		{http.MethodDelete, "/api/v1/orders/100/tags/session", http.StatusOK},
		{http.MethodPost, "/api/v1/orders/100/tags/save", http.StatusOK},
		{http.MethodPost, "/api/v1/webhooks/orders", http.StatusUnauthorized},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, tc.status, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRouterSetsRequestID(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
