package domain

import (
	"fmt"
	"time"

	addressdomain "storefront/internal/features/addresses/domain"
	paymentdomain "storefront/internal/features/payments/domain"
)

// OrderStatus represents the current state of an order.
type OrderStatus string

const (
	// OrderStatusPending is the state of a freshly placed order.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusProcessing indicates the order is being packed.
	OrderStatusProcessing OrderStatus = "processing"
	// OrderStatusShipped indicates the order has been handed to the carrier.
	OrderStatusShipped OrderStatus = "shipped"
	// OrderStatusDelivered indicates the order reached the buyer.
	OrderStatusDelivered OrderStatus = "delivered"
	// OrderStatusCancelled indicates the order was cancelled before shipping.
	OrderStatusCancelled OrderStatus = "cancelled"
)

var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

// CanTransition reports whether an order may move from s to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderItem is a line of an order, captured from the cart when the order is placed.
type OrderItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Image     string  `json:"image,omitempty"`
	Price     float64 `json:"price" validate:"gte=0"`
	Quantity  int     `json:"quantity" validate:"gt=0"`
	Color     string  `json:"color,omitempty"`
	Size      string  `json:"size,omitempty"`
}

// StatusChange records when an order entered a status.
type StatusChange struct {
	Status OrderStatus `json:"status"`
	At     time.Time   `json:"at"`
}

// Order is a placed order. Items, address and methods never change after placement;
// only Status grows through History.
type Order struct {
	ID                string                        `json:"id"`
	OrderNumber       string                        `json:"orderNumber"`
	UserID            string                        `json:"userId,omitempty"`
	Items             []OrderItem                   `json:"items"`
	ShippingAddress   addressdomain.ShippingAddress `json:"shippingAddress"`
	ShippingMethod    ShippingMethod                `json:"shippingMethod"`
	PaymentMethod     paymentdomain.PaymentMethod   `json:"paymentMethod"`
	TransactionID     string                        `json:"transactionId,omitempty"`
	Totals
	Status            OrderStatus    `json:"status"`
	History           []StatusChange `json:"history"`
	CreatedAt         time.Time      `json:"createdAt"`
	EstimatedDelivery time.Time      `json:"estimatedDelivery"`
}

// EnteredAt returns when the order entered status, if it did.
func (o *Order) EnteredAt(status OrderStatus) (time.Time, bool) {
	for _, h := range o.History {
		if h.Status == status {
			return h.At, true
		}
	}
	return time.Time{}, false
}

// Advance moves the order to next, recording the change at the given time.
func (o *Order) Advance(next OrderStatus, at time.Time) error {
	if !o.Status.CanTransition(next) {
		return fmt.Errorf("%s -> %s", o.Status, next)
	}
	o.Status = next
	o.History = append(o.History, StatusChange{Status: next, At: at})
	return nil
}

// PlaceOrderRequest carries everything checkout collected.
type PlaceOrderRequest struct {
	UserID           string                        `json:"-"`
	Items            []OrderItem                   `json:"items" validate:"dive"`
	ShippingAddress  addressdomain.ShippingAddress `json:"shippingAddress"`
	ShippingMethodID string                        `json:"shippingMethodId" validate:"required"`
	PaymentMethodID  string                        `json:"paymentMethodId" validate:"required"`
	TransactionID    string                        `json:"transactionId,omitempty"`
}

// OrderNumber derives the display number from the placement time: ORD- and the
// last eight digits of the Unix milliseconds.
func OrderNumber(at time.Time) string {
	return fmt.Sprintf("ORD-%08d", at.UnixMilli()%100000000)
}
