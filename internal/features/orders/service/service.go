package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"storefront/internal/core/latency"
	"storefront/internal/core/logger"
	"storefront/internal/core/validation"
	"storefront/internal/features/orders/domain"
	"storefront/internal/features/orders/ports"
	paymentdomain "storefront/internal/features/payments/domain"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrOrderNotFound is returned when the order does not exist.
	ErrOrderNotFound = errors.New("order not found")
	// ErrEmptyOrder is returned when an order is placed without items.
	ErrEmptyOrder = errors.New("order has no items")
	// ErrUnknownShippingMethod is returned when the shipping method ID is not in the catalog.
	ErrUnknownShippingMethod = errors.New("unknown shipping method")
	// ErrUnknownPaymentMethod is returned when the payment method ID is not in the catalog.
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
	// ErrInvalidTransition is returned when a status change is not allowed.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// OrderService is the mock order backend.
type OrderService struct {
	repo     ports.OrderRepository
	delay    *latency.Simulator
	validate *validatorv10.Validate
	taxRate  float64
	now      func() time.Time
	newID    func() string
	log      *zap.Logger

	// mu serializes read-modify-write cycles on the order list.
	mu sync.Mutex
}

// NewOrderService creates a new OrderService.
func NewOrderService(repo ports.OrderRepository, delay *latency.Simulator, v *validatorv10.Validate, taxRate float64) *OrderService {
	return &OrderService{
		repo:     repo,
		delay:    delay,
		validate: v,
		taxRate:  taxRate,
		now:      time.Now,
		newID:    uuid.NewString,
		log:      logger.Named("orders"),
	}
}

// TaxRate returns the rate applied by PlaceOrder.
func (s *OrderService) TaxRate() float64 {
	return s.taxRate
}

// GetShippingMethods returns the shipping catalog.
func (s *OrderService) GetShippingMethods(ctx context.Context) ([]domain.ShippingMethod, error) {
	if err := s.delay.Wait(ctx); err != nil {
		return nil, err
	}
	return domain.ShippingMethods(), nil
}

// PlaceOrder prices and stores a new pending order.
func (s *OrderService) PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (*domain.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if err := validation.Check(s.validate, req); err != nil {
		return nil, err
	}

	shipping, ok := domain.FindShippingMethod(req.ShippingMethodID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownShippingMethod, req.ShippingMethodID)
	}
	payment, ok := paymentdomain.FindPaymentMethod(req.PaymentMethodID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPaymentMethod, req.PaymentMethodID)
	}

	if err := s.delay.Wait(ctx); err != nil {
		return nil, err
	}

	placed := s.now().UTC()
	items := make([]domain.OrderItem, len(req.Items))
	for i, it := range req.Items {
		if it.ID == "" {
			it.ID = strconv.Itoa(i + 1)
		}
		items[i] = it
	}

	order := domain.Order{
		ID:                s.newID(),
		OrderNumber:       domain.OrderNumber(placed),
		UserID:            req.UserID,
		Items:             items,
		ShippingAddress:   req.ShippingAddress,
		ShippingMethod:    shipping,
		PaymentMethod:     payment,
		TransactionID:     req.TransactionID,
		Totals:            domain.CalculateTotals(items, &shipping, s.taxRate),
		Status:            domain.OrderStatusPending,
		History:           []domain.StatusChange{{Status: domain.OrderStatusPending, At: placed}},
		CreatedAt:         placed,
		EstimatedDelivery: shipping.EstimatedDelivery(placed),
	}

	s.mu.Lock()
	err := s.repo.Append(ctx, order)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("service: failed to place order: %w", err)
	}

	s.log.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total", order.Total),
	)
	return &order, nil
}

// GetOrder returns the order with the given ID.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if err := s.delay.Wait(ctx); err != nil {
		return nil, err
	}

	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, ErrOrderNotFound
}

// ListOrders returns the orders placed by userID, newest first.
// Guest orders carry an empty user ID.
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	if err := s.delay.Wait(ctx); err != nil {
		return nil, err
	}

	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Order, 0, len(list))
	for _, o := range list {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// UpdateStatus moves the order to status if the transition table allows it.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if err := s.delay.Wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range list {
		if list[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrOrderNotFound
	}

	if err := list[idx].Advance(status, s.now().UTC()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}

	if err := s.repo.ReplaceAll(ctx, list); err != nil {
		return nil, fmt.Errorf("service: failed to update order: %w", err)
	}

	s.log.Info("Order status changed", zap.String("order_id", id), zap.String("status", string(status)))
	updated := list[idx]
	return &updated, nil
}

// CancelOrder cancels a pending or processing order.
func (s *OrderService) CancelOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.UpdateStatus(ctx, id, domain.OrderStatusCancelled)
}
