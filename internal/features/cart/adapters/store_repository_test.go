package adapters

import (
	"context"
	"testing"

	"storefront/internal/core/storage"
	"storefront/internal/features/cart/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreCartRepository_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := storage.NewRedisStore("redis://" + mr.Addr())
	require.NoError(t, err)
	defer store.Close()

	repo := NewStoreCartRepository(store)
	ctx := context.Background()

	items, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	want := []domain.CartItem{{ProductID: "p1", Name: "Tee", Price: 12.5, Quantity: 2, Color: "red"}}
	require.NoError(t, repo.Save(ctx, want))

	raw, err := mr.Get(storage.KeyCart)
	require.NoError(t, err)
	assert.Contains(t, raw, `"productId":"p1"`)

	items, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, items)
}
