package adapters

import (
	"context"
	"fmt"

	"storefront/internal/core/storage"
	"storefront/internal/features/orders/domain"
)

// StoreOrderRepository keeps every order in one JSON array under storage.KeyOrders.
type StoreOrderRepository struct {
	store storage.Store
}

// NewStoreOrderRepository creates a new StoreOrderRepository.
func NewStoreOrderRepository(s storage.Store) *StoreOrderRepository {
	return &StoreOrderRepository{store: s}
}

func (r *StoreOrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	list, err := storage.LoadList[domain.Order](ctx, r.store, storage.KeyOrders)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	return list, nil
}

// Append adds order to the end of the stored list.
func (r *StoreOrderRepository) Append(ctx context.Context, order domain.Order) error {
	list, err := r.List(ctx)
	if err != nil {
		return err
	}
	return r.ReplaceAll(ctx, append(list, order))
}

func (r *StoreOrderRepository) ReplaceAll(ctx context.Context, orders []domain.Order) error {
	if err := storage.SaveList(ctx, r.store, storage.KeyOrders, orders); err != nil {
		return fmt.Errorf("failed to save orders: %w", err)
	}
	return nil
}
