package cartsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeLine(t *testing.T) {
	base := []CartLine{line("A", "M", "noir", 49.90, 3)}

	t.Run("triplet existant incrémente", func(t *testing.T) {
		out := MergeLine(base, line("A", "M", "noir", 49.90, 2))
		assert.Len(t, out, 1)
		assert.Equal(t, 5, out[0].Quantity)
		assert.Equal(t, 3, base[0].Quantity, "l'entrée n'est pas modifiée")
	})

	t.Run("taille différente ajoute", func(t *testing.T) {
		out := MergeLine(base, line("A", "L", "noir", 49.90, 1))
		assert.Len(t, out, 2)
	})

	t.Run("ordre d'insertion préservé", func(t *testing.T) {
		out := MergeLine(base, line("B", "38", "camel", 89.00, 1))
		assert.Equal(t, "A", out[0].ProductID)
		assert.Equal(t, "B", out[1].ProductID)
	})
}

func TestSetQuantity(t *testing.T) {
	base := []CartLine{
		line("A", "M", "noir", 49.90, 3),
		line("B", "38", "camel", 89.00, 1),
	}

	out := SetQuantity(base, LineKey{ProductID: "B", Size: "38", Color: "camel"}, 4)
	assert.Equal(t, 3, out[0].Quantity)
	assert.Equal(t, 4, out[1].Quantity)

	// Triplet inconnu : ensemble inchangé.
	out = SetQuantity(base, LineKey{ProductID: "C", Size: "S", Color: "noir"}, 9)
	assert.Equal(t, base, out)
}

func TestRemoveLine(t *testing.T) {
	base := []CartLine{
		line("A", "M", "noir", 49.90, 3),
		line("A", "M", "écru", 49.90, 1),
	}

	out := RemoveLine(base, LineKey{ProductID: "A", Size: "M", Color: "noir"})
	assert.Len(t, out, 1)
	assert.Equal(t, "écru", out[0].Color)
}

func TestTotals(t *testing.T) {
	lines := []CartLine{
		{Price: 100, Quantity: 2},
		{Price: 50, Quantity: 1},
	}
	assert.Equal(t, 3, TotalItems(lines))
	assert.InDelta(t, 250.0, TotalPrice(lines), 1e-9)

	assert.Zero(t, TotalItems(nil))
	assert.Zero(t, TotalPrice(nil))
}
