package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateTotals(t *testing.T) {
	items := []OrderItem{
		{ProductID: "p1", Price: 10, Quantity: 2},
		{ProductID: "p2", Price: 5, Quantity: 1},
	}
	standard, ok := FindShippingMethod("standard")
	require.True(t, ok)

	got := CalculateTotals(items, &standard, DefaultTaxRate)
	assert.Equal(t, 25.0, got.Subtotal)
	assert.Equal(t, 2.5, got.Tax)
	assert.Equal(t, 10.0, got.ShippingCost)
	assert.Equal(t, 37.5, got.Total)
	assert.Zero(t, got.Discount)
}

func TestCalculateTotals_RoundsTaxToCents(t *testing.T) {
	items := []OrderItem{{ProductID: "p1", Price: 19.99, Quantity: 3}}
	express, _ := FindShippingMethod("express")

	got := CalculateTotals(items, &express, DefaultTaxRate)
	assert.Equal(t, 59.97, got.Subtotal)
	assert.Equal(t, 6.0, got.Tax)
	assert.Equal(t, 90.97, got.Total)
}

func TestCalculateTotals_NoShippingYet(t *testing.T) {
	got := CalculateTotals([]OrderItem{{Price: 4, Quantity: 1}}, nil, 0.25)
	assert.Equal(t, 1.0, got.Tax)
	assert.Equal(t, 5.0, got.Total)
}

func TestOrderStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusProcessing, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransition(tt.to), "%s -> %s", tt.from, tt.to)
	}

	assert.True(t, OrderStatusDelivered.Terminal())
	assert.True(t, OrderStatusCancelled.Terminal())
	assert.False(t, OrderStatusShipped.Terminal())
	assert.False(t, OrderStatus("lost").Valid())
}

func TestOrder_Advance(t *testing.T) {
	placed := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	o := Order{Status: OrderStatusPending, History: []StatusChange{{Status: OrderStatusPending, At: placed}}}

	require.NoError(t, o.Advance(OrderStatusProcessing, placed.Add(time.Hour)))
	assert.Error(t, o.Advance(OrderStatusDelivered, placed.Add(2*time.Hour)))
	assert.Equal(t, OrderStatusProcessing, o.Status)
	assert.Len(t, o.History, 2)

	at, ok := o.EnteredAt(OrderStatusProcessing)
	assert.True(t, ok)
	assert.Equal(t, placed.Add(time.Hour), at)

	_, ok = o.EnteredAt(OrderStatusShipped)
	assert.False(t, ok)
}

func TestOrderNumber(t *testing.T) {
	at := time.UnixMilli(1741608000123)
	assert.Equal(t, "ORD-08000123", OrderNumber(at))
}

func TestShippingMethod_EstimatedDelivery(t *testing.T) {
	placed := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	standard, _ := FindShippingMethod("standard")
	assert.Equal(t, placed.AddDate(0, 0, 7), standard.EstimatedDelivery(placed))

	_, ok := FindShippingMethod("teleport")
	assert.False(t, ok)
	assert.Len(t, ShippingMethods(), 4)
}

func TestOrder_MarshalJSON(t *testing.T) {
	o := Order{
		ID:          "o-1",
		OrderNumber: "ORD-00000001",
		Totals:      Totals{Subtotal: 25, Tax: 2.5, ShippingCost: 10, Total: 37.5},
		Status:      OrderStatusPending,
	}

	data, err := json.Marshal(o)
	require.NoError(t, err)

	s := string(data)
	assert.Contains(t, s, `"orderNumber":"ORD-00000001"`)
	assert.Contains(t, s, `"total":37.5`)
	assert.Contains(t, s, `"shippingCost":10`)
	assert.Contains(t, s, `"status":"pending"`)
}
