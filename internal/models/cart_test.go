package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCartRecalculate(t *testing.T) {
	cart := &Cart{
		Items: []CartItem{
			{ProductID: uuid.New(), Quantity: 2, UnitPrice: 19.99},
			{ProductID: uuid.New(), Quantity: 3, UnitPrice: 5.00},
		},
	}

	cart.Recalculate()

	assert.InDelta(t, 54.98, cart.Subtotal, 0.001)
	assert.InDelta(t, 54.98, cart.Total, 0.001)
}

func TestCartRecalculateWithCharges(t *testing.T) {
	cart := &Cart{
		TaxAmount:      4.50,
		ShippingAmount: 7.00,
		DiscountAmount: 10.00,
		Items: []CartItem{
			{ProductID: uuid.New(), Quantity: 1, UnitPrice: 100.00},
		},
	}

	cart.Recalculate()

	assert.InDelta(t, 100.00, cart.Subtotal, 0.001)
	assert.InDelta(t, 101.50, cart.Total, 0.001)
}

func TestCartRecalculateNeverNegative(t *testing.T) {
	cart := &Cart{
		DiscountAmount: 50.00,
		Items: []CartItem{
			{ProductID: uuid.New(), Quantity: 1, UnitPrice: 10.00},
		},
	}

	cart.Recalculate()

	assert.Equal(t, 0.0, cart.Total)
}

func TestCartRecalculateEmpty(t *testing.T) {
	cart := &Cart{Subtotal: 99.0, Total: 99.0}

	cart.Recalculate()

	assert.Equal(t, 0.0, cart.Subtotal)
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, 0, cart.ItemCount())
}

func TestCartItemCount(t *testing.T) {
	cart := &Cart{
		Items: []CartItem{
			{Quantity: 2},
			{Quantity: 3},
		},
	}

	assert.Equal(t, 5, cart.ItemCount())
	assert.False(t, cart.IsEmpty())
}

func TestCartItemLineTotal(t *testing.T) {
	item := &CartItem{Quantity: 4, UnitPrice: 2.50}
	assert.InDelta(t, 10.0, item.LineTotal(), 0.001)
}

func TestGuestCartSnapshotIsExpired(t *testing.T) {
	now := time.Now()

	fresh := &GuestCartSnapshot{ExpiresAt: now.Add(24 * time.Hour)}
	assert.False(t, fresh.IsExpired(now))

	stale := &GuestCartSnapshot{ExpiresAt: now.Add(-time.Minute)}
	assert.True(t, stale.IsExpired(now))

	// Zero expiry means no horizon was set
	unset := &GuestCartSnapshot{}
	assert.False(t, unset.IsExpired(now))
}
