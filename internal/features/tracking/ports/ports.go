package ports

import (
	"context"
	"errors"

	orderdomain "storefront/internal/features/orders/domain"
	"storefront/internal/features/tracking/domain"
)

// ErrTrackingNotFound is returned when no order matches the requested id.
var ErrTrackingNotFound = errors.New("tracking not found")

// OrderSource reads the order a tracking view is derived from.
// Implementations return ErrTrackingNotFound for unknown ids.
type OrderSource interface {
	GetOrder(ctx context.Context, id string) (*orderdomain.Order, error)
}

// TrackingProvider yields the tracking view of an order, locally or over the network.
type TrackingProvider interface {
	GetTracking(ctx context.Context, orderID string) (*domain.OrderTracking, error)
}
