package service

import (
	"context"
	"testing"
	"time"

	"storefront/internal/features/checkout/domain"
	orderdomain "storefront/internal/features/orders/domain"
	paymentservice "storefront/internal/features/payments/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_CreatePreselectsDefaultAddress(t *testing.T) {
	f := newFixture(t, paymentservice.FixedApprover(true))
	f.saveAddress(t, false)
	def := f.saveAddress(t, true)

	s, err := f.manager.Create(context.Background(), "user-1")
	require.NoError(t, err)

	view := s.View()
	require.NotNil(t, view.Address)
	assert.Equal(t, def.ID, view.Address.ID)
	assert.Equal(t, domain.StepShipping, view.Step)
	assert.Equal(t, "user-1", s.UserID())
}

func TestManager_GetAndDiscard(t *testing.T) {
	f := newFixture(t, paymentservice.FixedApprover(true))

	s, err := f.manager.Create(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, f.manager.Len())

	got, err := f.manager.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	f.manager.Discard(s.ID())
	_, err = f.manager.Get(s.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	f.manager.Discard("unknown")
	assert.Zero(t, f.manager.Len())
}

func TestManager_DropsIdleSessions(t *testing.T) {
	f := newFixture(t, paymentservice.FixedApprover(true))
	now := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	f.manager = NewManager(f.orders, f.payments, f.cart, f.addresses, orderdomain.DefaultTaxRate,
		WithSessionTTL(10*time.Minute),
		WithManagerClock(func() time.Time { return now }),
	)
	ctx := context.Background()

	idle, err := f.manager.Create(ctx, "")
	require.NoError(t, err)
	active, err := f.manager.Create(ctx, "")
	require.NoError(t, err)

	now = now.Add(8 * time.Minute)
	_, err = f.manager.Get(active.ID())
	require.NoError(t, err)

	now = now.Add(5 * time.Minute)
	_, err = f.manager.Get(idle.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	got, err := f.manager.Get(active.ID())
	require.NoError(t, err)
	assert.Same(t, active, got)
	assert.Equal(t, 1, f.manager.Len())
}

func TestManager_CreateSweepsFinishedSessions(t *testing.T) {
	f := newFixture(t, paymentservice.FixedApprover(true))
	now := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	f.manager = NewManager(f.orders, f.payments, f.cart, f.addresses, orderdomain.DefaultTaxRate,
		WithSessionTTL(time.Minute),
		WithManagerClock(func() time.Time { return now }),
	)

	done := f.confirmation(t, "cod")
	_, err := done.PlaceOrder(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.StepSuccess, done.Step())

	now = now.Add(2 * time.Minute)
	_, err = f.manager.Create(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 1, f.manager.Len())
	_, err = f.manager.Get(done.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
