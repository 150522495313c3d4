package domain

import "github.com/shopspring/decimal"

// DefaultTaxRate is the sales tax applied to the subtotal.
const DefaultTaxRate = 0.10

// Totals is the price breakdown of an order.
type Totals struct {
	Subtotal     float64 `json:"subtotal"`
	ShippingCost float64 `json:"shippingCost"`
	Tax          float64 `json:"tax"`
	Discount     float64 `json:"discount"`
	Total        float64 `json:"total"`
}

// CalculateTotals prices items: tax is the subtotal times rate rounded to cents, and
// total = subtotal + tax + shipping. A nil method means no shipping has been chosen yet.
func CalculateTotals(items []OrderItem, method *ShippingMethod, rate float64) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		line := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		subtotal = subtotal.Add(line)
	}

	shipping := decimal.Zero
	if method != nil {
		shipping = decimal.NewFromFloat(method.Price)
	}

	tax := subtotal.Mul(decimal.NewFromFloat(rate)).Round(2)
	total := subtotal.Add(tax).Add(shipping)

	return Totals{
		Subtotal:     subtotal.InexactFloat64(),
		ShippingCost: shipping.InexactFloat64(),
		Tax:          tax.InexactFloat64(),
		Total:        total.InexactFloat64(),
	}
}
