package domain

import (
	addressdomain "storefront/internal/features/addresses/domain"
	orderdomain "storefront/internal/features/orders/domain"
	paymentdomain "storefront/internal/features/payments/domain"
)

// Step is the position of a checkout session.
type Step int

const (
	StepShipping     Step = 1
	StepConfirmation Step = 2
	StepSuccess      Step = 3
)

func (s Step) String() string {
	switch s {
	case StepShipping:
		return "shipping"
	case StepConfirmation:
		return "confirmation"
	case StepSuccess:
		return "success"
	}
	return "unknown"
}

// Exit actions offered once the order is placed.
const (
	ExitContinueShopping = "continue_shopping"
	ExitTrackOrder       = "track_order"
)

// Exit is a way out of a finished checkout.
type Exit struct {
	Action string `json:"action"`
	Route  string `json:"route"`
}

// Exits returns the only two ways out of the success step.
func Exits(orderID string) []Exit {
	return []Exit{
		{Action: ExitContinueShopping, Route: "/"},
		{Action: ExitTrackOrder, Route: "/tracking/" + orderID},
	}
}

// View is a snapshot of a session.
type View struct {
	ID             string                         `json:"id"`
	Step           Step                           `json:"step"`
	StepName       string                         `json:"stepName"`
	Address        *addressdomain.ShippingAddress `json:"address,omitempty"`
	ShippingMethod *orderdomain.ShippingMethod    `json:"shippingMethod,omitempty"`
	PaymentMethod  *paymentdomain.PaymentMethod   `json:"paymentMethod,omitempty"`
	CardID         string                         `json:"cardId,omitempty"`
	Submitting     bool                           `json:"submitting"`
	// CanPlaceOrder is true at confirmation with both methods chosen and nothing in flight.
	CanPlaceOrder bool   `json:"canPlaceOrder"`
	OrderID       string `json:"orderId,omitempty"`
	OrderNumber   string `json:"orderNumber,omitempty"`
	Exits         []Exit `json:"exits,omitempty"`
}
