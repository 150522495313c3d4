package storage

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type failingStore struct {
	*MemoryStore
}

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection reset")
}

func TestLoadList_Missing(t *testing.T) {
	list, err := LoadList[record](context.Background(), NewMemoryStore(), KeyAddresses)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestLoadList_Undecodable(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, KeyAddresses, []byte("{not json")))

	list, err := LoadList[record](ctx, store, KeyAddresses)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestLoadList_NullBlob(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, KeyAddresses, []byte("null")))

	list, err := LoadList[record](ctx, store, KeyAddresses)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestLoadList_StoreError(t *testing.T) {
	_, err := LoadList[record](context.Background(), failingStore{NewMemoryStore()}, KeyAddresses)
	assert.Error(t, err)
}

func TestSaveList_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	in := []record{{ID: "1", Name: "home"}, {ID: "2", Name: "work"}}
	require.NoError(t, SaveList(ctx, store, KeyAddresses, in))

	out, err := LoadList[record](ctx, store, KeyAddresses)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestSaveList_NilWritesEmptyArray(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, SaveList[record](ctx, store, KeyAddresses, nil))

	raw, err := store.Get(ctx, KeyAddresses)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestLoadValue(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var out record
	found, err := LoadValue(ctx, store, KeyAppSettings, &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SaveValue(ctx, store, KeyAppSettings, record{ID: "x"}))
	found, err = LoadValue(ctx, store, KeyAppSettings, &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "x", out.ID)

	require.NoError(t, store.Set(ctx, KeyAppSettings, []byte("garbage")))
	found, err = LoadValue(ctx, store, KeyAppSettings, &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	value := []byte("light")
	require.NoError(t, store.Set(ctx, KeyThemeMode, value))
	value[0] = 'X'

	got, err := store.Get(ctx, KeyThemeMode)
	require.NoError(t, err)
	assert.Equal(t, "light", string(got))
}

func TestOpen(t *testing.T) {
	s, err := Open(config.StorageConfig{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(config.StorageConfig{Driver: "redis", RedisURL: "redis://localhost:6379/0"})
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, s)
	s.Close()

	_, err = Open(config.StorageConfig{Driver: "bolt"})
	assert.Error(t, err)
}
