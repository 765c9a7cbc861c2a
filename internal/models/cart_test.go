package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func item(productID, size, color string, price float64, qty int) CartItem {
	return CartItem{ProductID: productID, Size: size, Color: color, Price: price, Quantity: qty}
}

func TestMergeCartItems(t *testing.T) {
	t.Run("doublons de triplet fusionnés", func(t *testing.T) {
		out := MergeCartItems([]CartItem{
			item("A", "M", "noir", 49.90, 2),
			item("A", "M", "noir", 49.90, 3),
		})
		assert.Len(t, out, 1)
		assert.Equal(t, 5, out[0].Quantity)
	})

	t.Run("tailles et couleurs distinctes conservées", func(t *testing.T) {
		out := MergeCartItems([]CartItem{
			item("A", "M", "noir", 49.90, 1),
			item("A", "L", "noir", 49.90, 1),
			item("A", "M", "écru", 49.90, 1),
		})
		assert.Len(t, out, 3)
	})

	t.Run("ordre d'insertion préservé", func(t *testing.T) {
		out := MergeCartItems([]CartItem{
			item("B", "38", "camel", 89.00, 1),
			item("A", "M", "noir", 49.90, 1),
			item("B", "38", "camel", 89.00, 2),
		})
		assert.Equal(t, "B", out[0].ProductID)
		assert.Equal(t, 3, out[0].Quantity)
		assert.Equal(t, "A", out[1].ProductID)
	})
}

func TestCartTotals(t *testing.T) {
	count, total := CartTotals([]CartItem{
		item("A", "M", "noir", 100, 2),
		item("B", "38", "camel", 50, 1),
	})
	assert.Equal(t, 3, count)
	assert.InDelta(t, 250.0, total, 1e-9)
}
