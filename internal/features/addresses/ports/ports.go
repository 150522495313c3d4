package ports

import (
	"context"

	"storefront/internal/features/addresses/domain"
)

// AddressRepository persists the address list as a whole.
type AddressRepository interface {
	List(ctx context.Context) ([]domain.ShippingAddress, error)
	ReplaceAll(ctx context.Context, addresses []domain.ShippingAddress) error
}
