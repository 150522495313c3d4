package domain

import "time"

// ShippingMethod is an entry of the static shipping catalog.
type ShippingMethod struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	EstimatedDays string  `json:"estimatedDays"`
	Icon          string  `json:"icon"`
	// MaxDays bounds the estimated delivery date.
	MaxDays int `json:"-"`
}

// EstimatedDelivery returns the latest expected delivery for an order placed at placed.
func (m ShippingMethod) EstimatedDelivery(placed time.Time) time.Time {
	return placed.AddDate(0, 0, m.MaxDays)
}

var shippingMethods = []ShippingMethod{
	{ID: "standard", Name: "Standard Shipping", Description: "Delivered by regular post", Price: 10, EstimatedDays: "5-7", Icon: "car-outline", MaxDays: 7},
	{ID: "express", Name: "Express Shipping", Description: "Priority courier delivery", Price: 25, EstimatedDays: "2-3", Icon: "rocket-outline", MaxDays: 3},
	{ID: "overnight", Name: "Overnight Shipping", Description: "Next business day", Price: 45, EstimatedDays: "1", Icon: "flash-outline", MaxDays: 1},
	{ID: "pickup", Name: "Store Pickup", Description: "Collect at the store", Price: 0, EstimatedDays: "0-1", Icon: "storefront-outline", MaxDays: 1},
}

// ShippingMethods returns a copy of the shipping catalog.
func ShippingMethods() []ShippingMethod {
	return append([]ShippingMethod(nil), shippingMethods...)
}

// FindShippingMethod looks a method up by ID.
func FindShippingMethod(id string) (ShippingMethod, bool) {
	for _, m := range shippingMethods {
		if m.ID == id {
			return m, true
		}
	}
	return ShippingMethod{}, false
}
