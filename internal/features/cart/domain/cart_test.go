package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdd_MergesSameLine(t *testing.T) {
	items := Add(nil, CartItem{ProductID: "p1", Name: "Tee", Price: 10, Quantity: 1, Size: "M"})
	items = Add(items, CartItem{ProductID: "p1", Name: "Tee", Price: 10, Quantity: 2, Size: "M"})
	items = Add(items, CartItem{ProductID: "p1", Name: "Tee", Price: 10, Quantity: 1, Size: "L"})

	assert.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 4, Count(items))
	assert.Equal(t, 40.0, Subtotal(items))
}

func TestSetQuantity(t *testing.T) {
	items := []CartItem{{ProductID: "p1", Quantity: 1}, {ProductID: "p2", Quantity: 1}}

	items = SetQuantity(items, Line{ProductID: "p1"}, 5)
	assert.Equal(t, 5, items[0].Quantity)

	items = SetQuantity(items, Line{ProductID: "p2"}, 0)
	assert.Len(t, items, 1)

	items = Remove(items, Line{ProductID: "p1"})
	assert.Empty(t, items)
}
