package domain

// CartItem is a product line in the cart. Lines are keyed by product, color and size.
type CartItem struct {
	ProductID string  `json:"productId" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Price     float64 `json:"price" validate:"gte=0"`
	Quantity  int     `json:"quantity" validate:"gt=0"`
	Color     string  `json:"color,omitempty"`
	Size      string  `json:"size,omitempty"`
	Image     string  `json:"image,omitempty"`
}

// Line identifies a cart line.
type Line struct {
	ProductID string
	Color     string
	Size      string
}

// Line returns the key of the item.
func (i CartItem) Line() Line {
	return Line{ProductID: i.ProductID, Color: i.Color, Size: i.Size}
}

// Add merges item into items: a line already present gains the quantity, otherwise it is appended.
func Add(items []CartItem, item CartItem) []CartItem {
	out := append([]CartItem(nil), items...)
	for i := range out {
		if out[i].Line() == item.Line() {
			out[i].Quantity += item.Quantity
			return out
		}
	}
	return append(out, item)
}

// SetQuantity changes the quantity of a line. Zero or less removes it.
func SetQuantity(items []CartItem, line Line, qty int) []CartItem {
	if qty <= 0 {
		return Remove(items, line)
	}
	out := append([]CartItem(nil), items...)
	for i := range out {
		if out[i].Line() == line {
			out[i].Quantity = qty
		}
	}
	return out
}

// Remove drops a line.
func Remove(items []CartItem, line Line) []CartItem {
	out := make([]CartItem, 0, len(items))
	for _, it := range items {
		if it.Line() != line {
			out = append(out, it)
		}
	}
	return out
}

// Subtotal is the sum of price times quantity.
func Subtotal(items []CartItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Price * float64(it.Quantity)
	}
	return sum
}

// Count is the number of units in the cart.
func Count(items []CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
