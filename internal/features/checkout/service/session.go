package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	addressdomain "storefront/internal/features/addresses/domain"
	cartdomain "storefront/internal/features/cart/domain"
	"storefront/internal/features/checkout/domain"
	orderdomain "storefront/internal/features/orders/domain"
	paymentdomain "storefront/internal/features/payments/domain"

	"go.uber.org/zap"
)

var (
	// ErrAddressRequired is returned when leaving the shipping step without an address.
	ErrAddressRequired = errors.New("shipping address required")
	// ErrAddressNotFound is returned when the selected address is not saved.
	ErrAddressNotFound = errors.New("address not found")
	// ErrShippingMethodRequired is returned when placing an order without a shipping method.
	ErrShippingMethodRequired = errors.New("shipping method required")
	// ErrPaymentMethodRequired is returned when placing an order without a payment method.
	ErrPaymentMethodRequired = errors.New("payment method required")
	// ErrUnknownShippingMethod is returned for IDs outside the shipping catalog.
	ErrUnknownShippingMethod = errors.New("unknown shipping method")
	// ErrUnknownPaymentMethod is returned for IDs outside the payment catalog.
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
	// ErrEmptyCart is returned when placing an order with nothing in the cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrSubmissionInFlight is returned while a previous placement has not finished.
	ErrSubmissionInFlight = errors.New("order placement already in progress")
	// ErrPaymentDeclined is returned when the gateway declines the charge.
	ErrPaymentDeclined = errors.New("payment declined")
	// ErrWrongStep is returned for actions the current step does not offer.
	ErrWrongStep = errors.New("action not available at this step")
)

// PaymentDeclinedError carries the failed transaction of a declined charge.
type PaymentDeclinedError struct {
	Response paymentdomain.PaymentResponse
}

func (e *PaymentDeclinedError) Error() string {
	return fmt.Sprintf("payment declined: transaction %s", e.Response.TransactionID)
}

func (e *PaymentDeclinedError) Unwrap() error {
	return ErrPaymentDeclined
}

// Session is one pass through checkout: Shipping -> Confirmation -> Success.
// Confirmation may go back to Shipping; Success is final.
type Session struct {
	id     string
	userID string
	deps   *dependencies

	mu         sync.Mutex
	step       domain.Step
	address    *addressdomain.ShippingAddress
	shipping   *orderdomain.ShippingMethod
	payment    *paymentdomain.PaymentMethod
	cardID     string
	submitting bool
	order      *orderdomain.Order
	// charge is the approved payment of a placement whose order was not stored.
	charge *charge
}

// charge is an approved transaction and what it paid for.
type charge struct {
	transactionID string
	methodID      string
	cardID        string
	amount        float64
}

func (c *charge) covers(methodID, cardID string, amount float64) bool {
	return c != nil && c.methodID == methodID && c.cardID == cardID && c.amount == amount
}

func newSession(id, userID string, deps *dependencies) *Session {
	return &Session{id: id, userID: userID, deps: deps, step: domain.StepShipping}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// UserID returns the owner of the session, "" for guests.
func (s *Session) UserID() string { return s.userID }

// Step returns the current step.
func (s *Session) Step() domain.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// SetAddress chooses the shipping address. Only the shipping step accepts it.
func (s *Session) SetAddress(a addressdomain.ShippingAddress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != domain.StepShipping {
		return ErrWrongStep
	}
	s.address = &a
	return nil
}

// SelectAddress chooses a saved address by id.
func (s *Session) SelectAddress(ctx context.Context, id string) error {
	list, err := s.deps.addresses.GetSavedAddresses(ctx)
	if err != nil {
		return err
	}
	for _, a := range list {
		if a.ID == id {
			return s.SetAddress(a)
		}
	}
	return fmt.Errorf("%w: %s", ErrAddressNotFound, id)
}

// Next advances from shipping to confirmation. Without an address the session stays put.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != domain.StepShipping {
		return ErrWrongStep
	}
	if s.address == nil {
		return ErrAddressRequired
	}
	s.step = domain.StepConfirmation
	return nil
}

// Back returns from confirmation to shipping.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != domain.StepConfirmation {
		return ErrWrongStep
	}
	if s.submitting {
		return ErrSubmissionInFlight
	}
	s.step = domain.StepShipping
	return nil
}

// SelectShippingMethod picks a method from the shipping catalog.
func (s *Session) SelectShippingMethod(id string) error {
	m, ok := orderdomain.FindShippingMethod(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownShippingMethod, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editable(); err != nil {
		return err
	}
	s.shipping = &m
	return nil
}

// SelectPaymentMethod picks a method from the payment catalog and, for cards, a saved card.
func (s *Session) SelectPaymentMethod(id, cardID string) error {
	m, ok := paymentdomain.FindPaymentMethod(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPaymentMethod, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editable(); err != nil {
		return err
	}
	s.payment = &m
	s.cardID = ""
	s.charge = nil
	if m.Type == paymentdomain.PaymentTypeCard {
		s.cardID = cardID
	}
	return nil
}

func (s *Session) editable() error {
	if s.step == domain.StepSuccess {
		return ErrWrongStep
	}
	if s.submitting {
		return ErrSubmissionInFlight
	}
	return nil
}

// Totals prices the current cart with the selected shipping method.
func (s *Session) Totals(ctx context.Context) (orderdomain.Totals, error) {
	items, err := s.deps.cart.Items(ctx)
	if err != nil {
		return orderdomain.Totals{}, err
	}

	s.mu.Lock()
	shipping := s.shipping
	s.mu.Unlock()

	return orderdomain.CalculateTotals(toOrderItems(items), shipping, s.deps.taxRate), nil
}

// PlaceOrder charges the total when the payment method needs a gateway and stores
// the order. Only one placement runs at a time; on any failure the session stays
// at confirmation and may be retried. A retry reuses an approved charge while the
// method, card and total are unchanged.
func (s *Session) PlaceOrder(ctx context.Context) (*orderdomain.Order, error) {
	s.mu.Lock()
	switch {
	case s.step != domain.StepConfirmation:
		s.mu.Unlock()
		return nil, ErrWrongStep
	case s.submitting:
		s.mu.Unlock()
		return nil, ErrSubmissionInFlight
	case s.shipping == nil:
		s.mu.Unlock()
		return nil, ErrShippingMethodRequired
	case s.payment == nil:
		s.mu.Unlock()
		return nil, ErrPaymentMethodRequired
	}
	s.submitting = true
	address, shipping, payment, cardID, paid := *s.address, *s.shipping, *s.payment, s.cardID, s.charge
	s.mu.Unlock()

	order, paid, err := s.place(ctx, address, shipping, payment, cardID, paid)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	s.charge = paid
	if err != nil {
		return nil, err
	}
	s.charge = nil
	s.order = order
	s.step = domain.StepSuccess
	return order, nil
}

func (s *Session) place(
	ctx context.Context,
	address addressdomain.ShippingAddress,
	shipping orderdomain.ShippingMethod,
	payment paymentdomain.PaymentMethod,
	cardID string,
	paid *charge,
) (*orderdomain.Order, *charge, error) {
	log := s.deps.log.With(zap.String("session_id", s.id))

	cartItems, err := s.deps.cart.Items(ctx)
	if err != nil {
		return nil, paid, err
	}
	if len(cartItems) == 0 {
		return nil, paid, ErrEmptyCart
	}
	items := toOrderItems(cartItems)

	var transactionID string
	if payment.RequiresGateway() {
		totals := orderdomain.CalculateTotals(items, &shipping, s.deps.taxRate)
		if paid.covers(payment.ID, cardID, totals.Total) {
			log.Info("Reusing approved payment", zap.String("transaction_id", paid.transactionID))
		} else {
			resp, err := s.deps.payments.ProcessPayment(ctx, paymentdomain.PaymentRequest{
				Amount:   totals.Total,
				MethodID: payment.ID,
				CardID:   cardID,
			})
			if err != nil {
				return nil, paid, fmt.Errorf("checkout: payment failed: %w", err)
			}
			if !resp.Approved() {
				log.Warn("Payment declined", zap.String("transaction_id", resp.TransactionID))
				return nil, paid, &PaymentDeclinedError{Response: *resp}
			}
			paid = &charge{transactionID: resp.TransactionID, methodID: payment.ID, cardID: cardID, amount: totals.Total}
		}
		transactionID = paid.transactionID
	}

	order, err := s.deps.orders.PlaceOrder(ctx, orderdomain.PlaceOrderRequest{
		UserID:           s.userID,
		Items:            items,
		ShippingAddress:  address,
		ShippingMethodID: shipping.ID,
		PaymentMethodID:  payment.ID,
		TransactionID:    transactionID,
	})
	if err != nil {
		return nil, paid, fmt.Errorf("checkout: %w", err)
	}

	if err := s.deps.cart.Clear(ctx); err != nil {
		log.Warn("Failed to clear cart after order", zap.String("order_id", order.ID), zap.Error(err))
	}

	log.Info("Checkout completed", zap.String("order_id", order.ID), zap.String("transaction_id", transactionID))
	return order, nil, nil
}

// Exits returns the ways out of a finished checkout, nil before success.
func (s *Session) Exits() []domain.Exit {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != domain.StepSuccess {
		return nil
	}
	return domain.Exits(s.order.ID)
}

// View returns a snapshot of the session.
func (s *Session) View() domain.View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := domain.View{
		ID:             s.id,
		Step:           s.step,
		StepName:       s.step.String(),
		Address:        s.address,
		ShippingMethod: s.shipping,
		PaymentMethod:  s.payment,
		CardID:         s.cardID,
		Submitting:     s.submitting,
		CanPlaceOrder:  s.step == domain.StepConfirmation && s.shipping != nil && s.payment != nil && !s.submitting,
	}
	if s.order != nil {
		v.OrderID = s.order.ID
		v.OrderNumber = s.order.OrderNumber
		v.Exits = domain.Exits(s.order.ID)
	}
	return v
}

func toOrderItems(items []cartdomain.CartItem) []orderdomain.OrderItem {
	out := make([]orderdomain.OrderItem, len(items))
	for i, it := range items {
		out[i] = orderdomain.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Image:     it.Image,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Color:     it.Color,
			Size:      it.Size,
		}
	}
	return out
}
