package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	keys map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{keys: make(map[string]string)}
}

func (m *memoryStore) Get(ctx context.Context, key string) (string, error) {
	return m.keys[key], nil
}

func (m *memoryStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, ok := m.keys[key]; ok {
		return false, nil
	}
	m.keys[key] = "1"
	return true, nil
}

func (m *memoryStore) IdempotencyKey(scope, id string) string {
	return "td:idempotency:" + scope + ":" + id
}

func (m *memoryStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.keys, key)
	}
	return nil
}

func TestIdempotencyGuardCheckAndMark(t *testing.T) {
	guard, err := NewIdempotencyGuard(newMemoryStore(), time.Hour, "order-webhook")
	require.NoError(t, err)

	seen, err := guard.CheckAndMark(context.Background(), "delivery-1")
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = guard.CheckAndMark(context.Background(), "delivery-1")
	require.NoError(t, err)
	assert.True(t, seen)

	// Releasing the mark lets a redelivery through again.
	require.NoError(t, guard.Delete(context.Background(), "delivery-1"))
	seen, err = guard.CheckAndMark(context.Background(), "delivery-1")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestIdempotencyGuardRequiresID(t *testing.T) {
	guard, err := NewIdempotencyGuard(newMemoryStore(), time.Hour, "order-webhook")
	require.NoError(t, err)

	_, err = guard.CheckAndMark(context.Background(), "")
	require.Error(t, err)
	require.Error(t, guard.Delete(context.Background(), ""))
}

func TestNewIdempotencyGuardValidation(t *testing.T) {
	_, err := NewIdempotencyGuard(nil, time.Hour, "order-webhook")
	require.Error(t, err)

	_, err = NewIdempotencyGuard(newMemoryStore(), time.Hour, "")
	require.Error(t, err)

	_, err = NewIdempotencyGuard(newMemoryStore(), -time.Second, "order-webhook")
	require.Error(t, err)
}
