package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInventoryAvailable(t *testing.T) {
	inv := &Inventory{Quantity: 10, Reserved: 3}
	assert.Equal(t, 7, inv.Available())
}

func TestInventoryCanReserve(t *testing.T) {
	inv := &Inventory{Quantity: 10, Reserved: 8}

	assert.True(t, inv.CanReserve(2))
	assert.False(t, inv.CanReserve(3))
	assert.False(t, inv.CanReserve(0))
	assert.False(t, inv.CanReserve(-1))
}

func TestInventoryIsLowStock(t *testing.T) {
	inv := &Inventory{Quantity: 10, Reserved: 5, LowStockThreshold: 5}
	assert.True(t, inv.IsLowStock())

	inv.Reserved = 4
	assert.False(t, inv.IsLowStock())
}

func TestInventoryTransactionDeltas(t *testing.T) {
	cases := []struct {
		entryType     InventoryTransactionType
		quantity      int
		wantQuantity  int
		wantReserved  int
	}{
		{InventoryTransactionIn, 5, 5, 0},
		{InventoryTransactionOut, 5, -5, 0},
		{InventoryTransactionAdjustment, -3, -3, 0},
		{InventoryTransactionReserved, 2, 0, 2},
		{InventoryTransactionUnreserved, 2, 0, -2},
	}

	for _, tc := range cases {
		entry := &InventoryTransaction{Type: tc.entryType, Quantity: tc.quantity}
		assert.Equal(t, tc.wantQuantity, entry.QuantityDelta(), "quantity delta for %s", tc.entryType)
		assert.Equal(t, tc.wantReserved, entry.ReservedDelta(), "reserved delta for %s", tc.entryType)
	}
}
