package ports

import (
	"context"

	addressdomain "storefront/internal/features/addresses/domain"
	cartdomain "storefront/internal/features/cart/domain"
	orderdomain "storefront/internal/features/orders/domain"
	paymentdomain "storefront/internal/features/payments/domain"
)

// OrderPlacer stores the final order.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req orderdomain.PlaceOrderRequest) (*orderdomain.Order, error)
}

// PaymentProcessor charges the order total.
type PaymentProcessor interface {
	ProcessPayment(ctx context.Context, req paymentdomain.PaymentRequest) (*paymentdomain.PaymentResponse, error)
}

// Cart supplies the items being bought and is emptied after a successful order.
type Cart interface {
	Items(ctx context.Context) ([]cartdomain.CartItem, error)
	Clear(ctx context.Context) error
}

// AddressBook resolves saved addresses.
type AddressBook interface {
	GetSavedAddresses(ctx context.Context) ([]addressdomain.ShippingAddress, error)
}
