package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"storefront/internal/core/latency"
	"storefront/internal/core/storage"
	"storefront/internal/core/validation"
	addressadapters "storefront/internal/features/addresses/adapters"
	addressdomain "storefront/internal/features/addresses/domain"
	addressservice "storefront/internal/features/addresses/service"
	cartadapters "storefront/internal/features/cart/adapters"
	cartdomain "storefront/internal/features/cart/domain"
	cartservice "storefront/internal/features/cart/service"
	"storefront/internal/features/checkout/domain"
	"storefront/internal/features/checkout/ports"
	orderadapters "storefront/internal/features/orders/adapters"
	orderdomain "storefront/internal/features/orders/domain"
	orderservice "storefront/internal/features/orders/service"
	paymentadapters "storefront/internal/features/payments/adapters"
	paymentdomain "storefront/internal/features/payments/domain"
	paymentports "storefront/internal/features/payments/ports"
	paymentservice "storefront/internal/features/payments/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	manager   *Manager
	orders    *orderservice.OrderService
	payments  *paymentservice.PaymentService
	cart      *cartservice.Store
	addresses *addressservice.AddressBook
}

func newFixture(t *testing.T, approver paymentports.Approver) *fixture {
	t.Helper()
	store := storage.NewMemoryStore()
	v := validation.New()

	f := &fixture{
		orders: orderservice.NewOrderService(orderadapters.NewStoreOrderRepository(store), latency.None(), v, orderdomain.DefaultTaxRate),
		payments: paymentservice.NewPaymentService(
			paymentadapters.NewStoreCardRepository(store),
			paymentadapters.NewStoreTransactionRepository(store),
			approver, latency.None(), v,
		),
		cart:      cartservice.NewStore(cartadapters.NewStoreCartRepository(store), v),
		addresses: addressservice.NewAddressBook(addressadapters.NewStoreAddressRepository(store), latency.None(), v),
	}
	f.manager = NewManager(f.orders, f.payments, f.cart, f.addresses, orderdomain.DefaultTaxRate)
	return f
}

func (f *fixture) fillCart(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := f.cart.Add(ctx, cartdomain.CartItem{ProductID: "p1", Name: "Mug", Price: 10, Quantity: 2})
	require.NoError(t, err)
	_, err = f.cart.Add(ctx, cartdomain.CartItem{ProductID: "p2", Name: "Spoon", Price: 5, Quantity: 1})
	require.NoError(t, err)
}

func (f *fixture) saveAddress(t *testing.T, isDefault bool) addressdomain.ShippingAddress {
	t.Helper()
	saved, err := f.addresses.SaveAddress(context.Background(), addressdomain.ShippingAddress{
		FullName:    "Aida",
		PhoneNumber: "+996555123456",
		Email:       "aida@example.com",
		Address:     "Chui Ave 1",
		City:        "Bishkek",
		State:       "Chui",
		ZipCode:     "720000",
		Country:     "KG",
		IsDefault:   isDefault,
	})
	require.NoError(t, err)
	return *saved
}

// confirmation returns a session at the confirmation step with both methods chosen.
func (f *fixture) confirmation(t *testing.T, paymentID string) *Session {
	t.Helper()
	f.fillCart(t)
	f.saveAddress(t, true)

	s, err := f.manager.Create(context.Background(), "user-1")
	require.NoError(t, err)
	require.NoError(t, s.Next())
	require.NoError(t, s.SelectShippingMethod("standard"))
	require.NoError(t, s.SelectPaymentMethod(paymentID, ""))
	return s
}

func TestSession_NextRequiresAddress(t *testing.T) {
	f := newFixture(t, paymentservice.FixedApprover(true))

	s, err := f.manager.Create(context.Background(), "")
	require.NoError(t, err)

	assert.ErrorIs(t, s.Next(), ErrAddressRequired)
	assert.Equal(t, domain.StepShipping, s.Step())

	addr := f.saveAddress(t, false)
	require.NoError(t, s.SelectAddress(context.Background(), addr.ID))
	require.NoError(t, s.Next())
	assert.Equal(t, domain.StepConfirmation, s.Step())
}

func TestSession_SelectUnknownAddress(t *testing.T) {
	f := newFixture(t, paymentservice.FixedApprover(true))
	s, err := f.manager.Create(context.Background(), "")
	require.NoError(t, err)

	assert.ErrorIs(t, s.SelectAddress(context.Background(), "missing"), ErrAddressNotFound)
}

func TestSession_Totals(t *testing.T) {
	f := newFixture(t, paymentservice.FixedApprover(true))
	f.fillCart(t)

	s, err := f.manager.Create(context.Background(), "")
	require.NoError(t, err)
	require.NoError(t, s.SelectShippingMethod("standard"))

	totals, err := s.Totals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25.0, totals.Subtotal)
	assert.Equal(t, 2.5, totals.Tax)
	assert.Equal(t, 10.0, totals.ShippingCost)
	assert.Equal(t, 37.5, totals.Total)
}

func TestSession_Back(t *testing.T) {
	f := newFixture(t, paymentservice.FixedApprover(true))
	s := f.confirmation(t, "cod")

	require.NoError(t, s.Back())
	assert.Equal(t, domain.StepShipping, s.Step())
	assert.ErrorIs(t, s.Back(), ErrWrongStep)

	require.NoError(t, s.Next())
	_, err := s.PlaceOrder(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, s.Back(), ErrWrongStep)
	assert.ErrorIs(t, s.SelectShippingMethod("express"), ErrWrongStep)
	assert.Equal(t, domain.StepSuccess, s.Step())
}

func TestSession_PlaceOrderRequiresMethods(t *testing.T) {
	f := newFixture(t, paymentservice.FixedApprover(true))
	f.fillCart(t)
	f.saveAddress(t, true)
	ctx := context.Background()

	s, err := f.manager.Create(ctx, "")
	require.NoError(t, err)

	_, err = s.PlaceOrder(ctx)
	assert.ErrorIs(t, err, ErrWrongStep)

	require.NoError(t, s.Next())
	assert.False(t, s.View().CanPlaceOrder)

	_, err = s.PlaceOrder(ctx)
	assert.ErrorIs(t, err, ErrShippingMethodRequired)

	require.NoError(t, s.SelectShippingMethod("express"))
	_, err = s.PlaceOrder(ctx)
	assert.ErrorIs(t, err, ErrPaymentMethodRequired)

	assert.ErrorIs(t, s.SelectShippingMethod("teleport"), ErrUnknownShippingMethod)
	assert.ErrorIs(t, s.SelectPaymentMethod("barter", ""), ErrUnknownPaymentMethod)
	assert.Equal(t, domain.StepConfirmation, s.Step())
}

func TestSession_PlaceOrderWithCard(t *testing.T) {
	f := newFixture(t, paymentservice.FixedApprover(true))
	s := f.confirmation(t, "card")
	ctx := context.Background()

	order, err := s.PlaceOrder(ctx)
	require.NoError(t, err)

	assert.Equal(t, 37.5, order.Total)
	assert.Equal(t, "user-1", order.UserID)
	assert.NotEmpty(t, order.TransactionID)
	assert.Equal(t, domain.StepSuccess, s.Step())

	txs, err := f.payments.GetTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, 37.5, txs[0].Amount)
	assert.Equal(t, order.TransactionID, txs[0].TransactionID)

	items, err := f.cart.Items(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	exits := s.Exits()
	require.Len(t, exits, 2)
	assert.Equal(t, domain.ExitContinueShopping, exits[0].Action)
	assert.Equal(t, "/", exits[0].Route)
	assert.Equal(t, domain.ExitTrackOrder, exits[1].Action)
	assert.Equal(t, "/tracking/"+order.ID, exits[1].Route)

	view := s.View()
	assert.Equal(t, order.ID, view.OrderID)
	assert.Equal(t, "success", view.StepName)
}

func TestSession_CashOnDeliverySkipsGateway(t *testing.T) {
	f := newFixture(t, paymentservice.FixedApprover(false))
	s := f.confirmation(t, "cod")
	ctx := context.Background()

	order, err := s.PlaceOrder(ctx)
	require.NoError(t, err)
	assert.Empty(t, order.TransactionID)

	txs, err := f.payments.GetTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestSession_PaymentDeclinedAllowsRetry(t *testing.T) {
	calls := 0
	f := newFixture(t, paymentservice.ApproverFunc(func(paymentdomain.PaymentRequest) bool {
		calls++
		return calls > 1
	}))
	s := f.confirmation(t, "paypal")
	ctx := context.Background()

	_, err := s.PlaceOrder(ctx)
	require.ErrorIs(t, err, ErrPaymentDeclined)

	var declined *PaymentDeclinedError
	require.True(t, errors.As(err, &declined))
	assert.Equal(t, paymentdomain.PaymentStatusFailed, declined.Response.Status)
	assert.Equal(t, domain.StepConfirmation, s.Step())
	assert.True(t, s.View().CanPlaceOrder)

	orders, err := f.orders.ListOrders(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, orders)

	order, err := s.PlaceOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StepSuccess, s.Step())

	txs, err := f.payments.GetTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, txs, 2)
	assert.Equal(t, txs[1].TransactionID, order.TransactionID)
}

func TestSession_EmptyCart(t *testing.T) {
	f := newFixture(t, paymentservice.FixedApprover(true))
	f.saveAddress(t, true)
	ctx := context.Background()

	s, err := f.manager.Create(ctx, "")
	require.NoError(t, err)
	require.NoError(t, s.Next())
	require.NoError(t, s.SelectShippingMethod("standard"))
	require.NoError(t, s.SelectPaymentMethod("cod", ""))

	_, err = s.PlaceOrder(ctx)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, domain.StepConfirmation, s.Step())
}

// gatedOrders holds every placement until release is closed.
type gatedOrders struct {
	next    ports.OrderPlacer
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedOrders) PlaceOrder(ctx context.Context, req orderdomain.PlaceOrderRequest) (*orderdomain.Order, error) {
	g.once.Do(func() { close(g.started) })
	<-g.release
	return g.next.PlaceOrder(ctx, req)
}

func TestSession_DuplicateSubmissionPlacesOneOrder(t *testing.T) {
	f := newFixture(t, paymentservice.FixedApprover(true))
	gate := &gatedOrders{next: f.orders, started: make(chan struct{}), release: make(chan struct{})}
	f.manager = NewManager(gate, f.payments, f.cart, f.addresses, orderdomain.DefaultTaxRate)

	s := f.confirmation(t, "cod")
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := s.PlaceOrder(ctx)
		done <- err
	}()

	<-gate.started
	assert.True(t, s.View().Submitting)
	assert.False(t, s.View().CanPlaceOrder)

	_, err := s.PlaceOrder(ctx)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
	assert.ErrorIs(t, s.Back(), ErrSubmissionInFlight)

	close(gate.release)
	require.NoError(t, <-done)

	orders, err := f.orders.ListOrders(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

// flakyOrders fails the first placement and delegates the rest.
type flakyOrders struct {
	next  ports.OrderPlacer
	calls int
}

func (f *flakyOrders) PlaceOrder(ctx context.Context, req orderdomain.PlaceOrderRequest) (*orderdomain.Order, error) {
	f.calls++
	if f.calls == 1 {
		return nil, errors.New("store down")
	}
	return f.next.PlaceOrder(ctx, req)
}

func TestSession_RetryAfterOrderFailureReusesCharge(t *testing.T) {
	f := newFixture(t, paymentservice.FixedApprover(true))
	f.manager = NewManager(&flakyOrders{next: f.orders}, f.payments, f.cart, f.addresses, orderdomain.DefaultTaxRate)
	s := f.confirmation(t, "paypal")
	ctx := context.Background()

	_, err := s.PlaceOrder(ctx)
	require.Error(t, err)
	assert.Equal(t, domain.StepConfirmation, s.Step())

	order, err := s.PlaceOrder(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StepSuccess, s.Step())

	txs, err := f.payments.GetTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, txs[0].TransactionID, order.TransactionID)
}

func TestSession_ChangedTotalChargesAgain(t *testing.T) {
	f := newFixture(t, paymentservice.FixedApprover(true))
	f.manager = NewManager(&flakyOrders{next: f.orders}, f.payments, f.cart, f.addresses, orderdomain.DefaultTaxRate)
	s := f.confirmation(t, "paypal")
	ctx := context.Background()

	_, err := s.PlaceOrder(ctx)
	require.Error(t, err)

	require.NoError(t, s.SelectShippingMethod("express"))
	order, err := s.PlaceOrder(ctx)
	require.NoError(t, err)

	txs, err := f.payments.GetTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, 52.5, txs[1].Amount)
	assert.Equal(t, txs[1].TransactionID, order.TransactionID)
}
