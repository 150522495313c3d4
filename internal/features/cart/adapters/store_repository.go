package adapters

import (
	"context"
	"fmt"

	"storefront/internal/core/storage"
	"storefront/internal/features/cart/domain"
)

// StoreCartRepository keeps the cart as a JSON array under storage.KeyCart.
type StoreCartRepository struct {
	store storage.Store
}

// NewStoreCartRepository creates a new StoreCartRepository.
func NewStoreCartRepository(s storage.Store) *StoreCartRepository {
	return &StoreCartRepository{store: s}
}

func (r *StoreCartRepository) Load(ctx context.Context) ([]domain.CartItem, error) {
	items, err := storage.LoadList[domain.CartItem](ctx, r.store, storage.KeyCart)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return items, nil
}

func (r *StoreCartRepository) Save(ctx context.Context, items []domain.CartItem) error {
	if err := storage.SaveList(ctx, r.store, storage.KeyCart, items); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}
