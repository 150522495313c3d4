package service

import (
	"context"
	"strings"
	"time"

	"storefront/internal/core/latency"
	"storefront/internal/core/logger"
	orderdomain "storefront/internal/features/orders/domain"
	"storefront/internal/features/tracking/domain"
	"storefront/internal/features/tracking/ports"

	"go.uber.org/zap"
)

const (
	carrierName  = "Storefront Logistics"
	carrierPhone = "+1 800 555 0100"
	pickupName   = "Store Pickup"
)

var courier = domain.Driver{Name: "Azamat K.", Phone: "+996 555 010 203", Vehicle: "White van, 01KG123ABC"}

// orderStatusOf maps timeline stages onto the order status that marks them.
var orderStatusOf = map[domain.StatusCode]orderdomain.OrderStatus{
	domain.StatusOrderPlaced: orderdomain.OrderStatusPending,
	domain.StatusProcessing:  orderdomain.OrderStatusProcessing,
	domain.StatusShipped:     orderdomain.OrderStatusShipped,
	domain.StatusDelivered:   orderdomain.OrderStatusDelivered,
	domain.StatusCancelled:   orderdomain.OrderStatusCancelled,
}

// TrackingService is the mock tracking backend. It derives the timeline from the
// stored order and, when stageDuration is set, advances the order one stage per
// period since placement.
type TrackingService struct {
	orders        ports.OrderSource
	delay         *latency.Simulator
	stageDuration time.Duration
	now           func() time.Time
	log           *zap.Logger
}

// NewTrackingService creates a new TrackingService.
func NewTrackingService(orders ports.OrderSource, delay *latency.Simulator, stageDuration time.Duration) *TrackingService {
	return &TrackingService{
		orders:        orders,
		delay:         delay,
		stageDuration: stageDuration,
		now:           time.Now,
		log:           logger.Named("tracking"),
	}
}

// GetTracking returns the tracking view of the order.
func (s *TrackingService) GetTracking(ctx context.Context, orderID string) (*domain.OrderTracking, error) {
	if err := s.delay.Wait(ctx); err != nil {
		return nil, err
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	t := s.build(order, s.now().UTC())
	s.log.Debug("Tracking built",
		zap.String("order_id", orderID),
		zap.String("status", string(t.Status)),
		zap.Int("progress", t.Progress),
	)
	return t, nil
}

func (s *TrackingService) build(order *orderdomain.Order, now time.Time) *domain.OrderTracking {
	codes, current := s.position(order, now)
	code := codes[current]

	reached := make(map[domain.StatusCode]domain.Stop, current+1)
	for i := 0; i <= current; i++ {
		reached[codes[i]] = domain.Stop{
			At:       s.reachedAt(order, codes[i], i, now),
			Location: locationOf(order, codes[i]),
		}
	}

	t := &domain.OrderTracking{
		ID:              trackingNumber(order),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		Timeline:        domain.BuildTimeline(order.ID, codes, current, reached),
		Status:          code,
		Progress:        code.Progress(),
		Carrier:         carrierOf(order),
		CurrentLocation: reached[code].Location,
		UpdatedAt:       now,
	}

	if code == domain.StatusOutForDelivery {
		d := courier
		t.Driver = &d
	}
	if code != domain.StatusCancelled {
		day := order.EstimatedDelivery
		t.DeliveryWindow = &domain.DeliveryWindow{
			From: time.Date(day.Year(), day.Month(), day.Day(), 9, 0, 0, 0, day.Location()),
			To:   time.Date(day.Year(), day.Month(), day.Day(), 18, 0, 0, 0, day.Location()),
		}
	}
	return t
}

// position returns the timeline codes and the index of the current stage.
func (s *TrackingService) position(order *orderdomain.Order, now time.Time) ([]domain.StatusCode, int) {
	if order.Status == orderdomain.OrderStatusCancelled {
		return []domain.StatusCode{domain.StatusOrderPlaced, domain.StatusCancelled}, 1
	}

	idx := 0
	switch order.Status {
	case orderdomain.OrderStatusProcessing:
		idx = 1
	case orderdomain.OrderStatusShipped:
		idx = 2
		if !now.Before(order.EstimatedDelivery.Add(-24 * time.Hour)) {
			idx = 3
		}
	case orderdomain.OrderStatusDelivered:
		idx = 4
	}

	if s.stageDuration > 0 {
		simulated := int(now.Sub(order.CreatedAt) / s.stageDuration)
		if simulated > idx {
			idx = simulated
		}
	}

	last := len(domain.Stages) - 1
	if idx > last {
		idx = last
	}
	return domain.Stages, idx
}

// reachedAt picks the recorded transition time, then the simulated one, then now.
func (s *TrackingService) reachedAt(order *orderdomain.Order, code domain.StatusCode, i int, now time.Time) time.Time {
	if status, ok := orderStatusOf[code]; ok {
		if at, ok := order.EnteredAt(status); ok {
			return at
		}
	}
	if code == domain.StatusOrderPlaced {
		return order.CreatedAt
	}
	if s.stageDuration > 0 {
		at := order.CreatedAt.Add(time.Duration(i) * s.stageDuration)
		if at.Before(now) {
			return at
		}
	}
	return now
}

func locationOf(order *orderdomain.Order, code domain.StatusCode) string {
	a := order.ShippingAddress
	switch code {
	case domain.StatusOrderPlaced:
		return "Online store"
	case domain.StatusProcessing:
		return "Fulfilment center"
	case domain.StatusShipped:
		return strings.TrimSpace("Sorting hub " + a.City)
	case domain.StatusOutForDelivery:
		return a.City
	case domain.StatusDelivered:
		if a.Address == "" {
			return a.City
		}
		return a.Address + ", " + a.City
	}
	return ""
}

func carrierOf(order *orderdomain.Order) domain.Carrier {
	name := carrierName
	if order.ShippingMethod.ID == "pickup" {
		name = pickupName
	}
	return domain.Carrier{Name: name, TrackingNumber: trackingNumber(order), Phone: carrierPhone}
}

func trackingNumber(order *orderdomain.Order) string {
	if order.OrderNumber == "" {
		return "TRK" + order.ID
	}
	return "TRK" + strings.TrimPrefix(order.OrderNumber, "ORD-")
}

var _ ports.TrackingProvider = (*TrackingService)(nil)
