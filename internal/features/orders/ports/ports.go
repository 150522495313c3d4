package ports

import (
	"context"

	"storefront/internal/features/orders/domain"
)

// OrderRepository persists the order history.
// This is a Secondary Port (Driven Port).
type OrderRepository interface {
	List(ctx context.Context) ([]domain.Order, error)
	Append(ctx context.Context, order domain.Order) error
	ReplaceAll(ctx context.Context, orders []domain.Order) error
}
