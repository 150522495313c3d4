package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	store, err := NewRedisStore("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store, mr
}

func TestRedisStore_GetSet(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	err := store.Set(ctx, KeyThemeMode, []byte("dark"))
	assert.NoError(t, err)

	value, err := store.Get(ctx, KeyThemeMode)
	assert.NoError(t, err)
	assert.Equal(t, []byte("dark"), value)
}

func TestRedisStore_NoExpiration(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyOrders, []byte("[]")))
	assert.Zero(t, mr.TTL(KeyOrders))
}

func TestRedisStore_GetNotFound(t *testing.T) {
	store, _ := newTestRedisStore(t)

	_, err := store.Get(context.Background(), "non_existent_key")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "non_existent_key")
}

func TestRedisStore_Delete(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyAuthToken, []byte("token")))
	assert.NoError(t, store.Delete(ctx, KeyAuthToken))

	_, err := store.Get(ctx, KeyAuthToken)
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting twice is fine
	assert.NoError(t, store.Delete(ctx, KeyAuthToken))
}

func TestRedisStore_Ping(t *testing.T) {
	store, mr := newTestRedisStore(t)

	assert.NoError(t, store.Ping(context.Background()))

	mr.Close()
	err := store.Ping(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping failed")
}

func TestRedisStore_InvalidURL(t *testing.T) {
	_, err := NewRedisStore("invalid://url")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse Redis URL")
}
