package ports

import (
	"context"

	"storefront/internal/features/cart/domain"
)

// CartRepository persists the cart lines.
type CartRepository interface {
	Load(ctx context.Context) ([]domain.CartItem, error)
	Save(ctx context.Context, items []domain.CartItem) error
}
