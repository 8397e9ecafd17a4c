package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merchkit/storefront-backend/internal/models"
)

func TestMergeQuantitiesSumsMatchingLines(t *testing.T) {
	productID := uuid.New()
	itemID := uuid.New()

	existing := []models.CartItem{
		{BaseModel: models.BaseModel{ID: itemID}, ProductID: productID, Quantity: 2, UnitPrice: 10.00},
	}
	guest := []models.GuestCartItem{
		{ProductID: productID, Quantity: 3, UnitPrice: 9.00, AddedAt: time.Now()},
	}

	ops := MergeQuantities(existing, guest)

	require.Len(t, ops, 1)
	assert.Equal(t, 5, ops[0].Quantity)
	require.NotNil(t, ops[0].ExistingItemID)
	assert.Equal(t, itemID, *ops[0].ExistingItemID)
	// The account cart's captured price wins over the guest price
	assert.InDelta(t, 10.00, ops[0].UnitPrice, 0.001)
}

func TestMergeQuantitiesIntoEmptyCart(t *testing.T) {
	guest := []models.GuestCartItem{
		{ProductID: uuid.New(), Quantity: 2, UnitPrice: 5.00},
		{ProductID: uuid.New(), Quantity: 1, UnitPrice: 7.50},
	}

	ops := MergeQuantities(nil, guest)

	require.Len(t, ops, 2)
	for i, op := range ops {
		assert.Nil(t, op.ExistingItemID)
		assert.Equal(t, guest[i].ProductID, op.ProductID)
		assert.Equal(t, guest[i].Quantity, op.Quantity)
		assert.InDelta(t, guest[i].UnitPrice, op.UnitPrice, 0.001)
	}
}

func TestMergeQuantitiesSkipsInvalidGuestLines(t *testing.T) {
	guest := []models.GuestCartItem{
		{ProductID: uuid.New(), Quantity: 0, UnitPrice: 5.00},
		{ProductID: uuid.New(), Quantity: -2, UnitPrice: 5.00},
		{ProductID: uuid.New(), Quantity: 1, UnitPrice: 5.00},
	}

	ops := MergeQuantities(nil, guest)

	require.Len(t, ops, 1)
	assert.Equal(t, 1, ops[0].Quantity)
}

func TestMergeQuantitiesMixedLines(t *testing.T) {
	shared := uuid.New()
	existingOnly := uuid.New()
	guestOnly := uuid.New()

	existing := []models.CartItem{
		{BaseModel: models.BaseModel{ID: uuid.New()}, ProductID: shared, Quantity: 1, UnitPrice: 20.00},
		{BaseModel: models.BaseModel{ID: uuid.New()}, ProductID: existingOnly, Quantity: 4, UnitPrice: 3.00},
	}
	guest := []models.GuestCartItem{
		{ProductID: shared, Quantity: 2, UnitPrice: 18.00},
		{ProductID: guestOnly, Quantity: 1, UnitPrice: 6.00},
	}

	ops := MergeQuantities(existing, guest)

	// Existing-only lines are untouched; only guest lines produce ops
	require.Len(t, ops, 2)
	assert.Equal(t, 3, ops[0].Quantity)
	assert.NotNil(t, ops[0].ExistingItemID)
	assert.Equal(t, guestOnly, ops[1].ProductID)
	assert.Nil(t, ops[1].ExistingItemID)
}
