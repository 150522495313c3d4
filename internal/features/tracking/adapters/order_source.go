package adapters

import (
	"context"
	"errors"
	"fmt"

	orderdomain "storefront/internal/features/orders/domain"
	orderservice "storefront/internal/features/orders/service"
	"storefront/internal/features/tracking/ports"
)

// OrderLookup is the part of the order service tracking reads from.
type OrderLookup interface {
	GetOrder(ctx context.Context, id string) (*orderdomain.Order, error)
}

// OrderServiceSource adapts the order service to ports.OrderSource.
type OrderServiceSource struct {
	orders OrderLookup
}

// NewOrderServiceSource creates a new OrderServiceSource.
func NewOrderServiceSource(orders OrderLookup) *OrderServiceSource {
	return &OrderServiceSource{orders: orders}
}

func (s *OrderServiceSource) GetOrder(ctx context.Context, id string) (*orderdomain.Order, error) {
	order, err := s.orders.GetOrder(ctx, id)
	if errors.Is(err, orderservice.ErrOrderNotFound) {
		return nil, fmt.Errorf("%w: %s", ports.ErrTrackingNotFound, id)
	}
	return order, err
}
