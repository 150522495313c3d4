package adapters

import (
	"context"
	"fmt"

	"storefront/internal/core/storage"
	"storefront/internal/features/addresses/domain"
)

// StoreAddressRepository keeps the address book as one JSON array under storage.KeyAddresses.
type StoreAddressRepository struct {
	store storage.Store
}

// NewStoreAddressRepository creates a new StoreAddressRepository.
func NewStoreAddressRepository(s storage.Store) *StoreAddressRepository {
	return &StoreAddressRepository{store: s}
}

// List returns the saved addresses; an absent or corrupt blob reads as empty.
func (r *StoreAddressRepository) List(ctx context.Context) ([]domain.ShippingAddress, error) {
	list, err := storage.LoadList[domain.ShippingAddress](ctx, r.store, storage.KeyAddresses)
	if err != nil {
		return nil, fmt.Errorf("failed to load addresses: %w", err)
	}
	return list, nil
}

// ReplaceAll overwrites the stored list.
func (r *StoreAddressRepository) ReplaceAll(ctx context.Context, addresses []domain.ShippingAddress) error {
	if err := storage.SaveList(ctx, r.store, storage.KeyAddresses, addresses); err != nil {
		return fmt.Errorf("failed to save addresses: %w", err)
	}
	return nil
}
