package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merchkit/storefront-backend/internal/models"
)

func checkoutRequest() *CheckoutRequest {
	return &CheckoutRequest{
		ShippingAddress: map[string]interface{}{"line1": "1 Main St", "city": "Springfield"},
	}
}

func cartWithLines(lines ...models.CartItem) *models.Cart {
	cart := &models.Cart{Items: lines}
	cart.Recalculate()
	return cart
}

func TestOrderFromCartEmptyCart(t *testing.T) {
	userID := uuid.New()

	_, err := orderFromCart(&models.Cart{}, userID, checkoutRequest())
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = orderFromCart(nil, userID, checkoutRequest())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestOrderFromCartSnapshotsLines(t *testing.T) {
	userID := uuid.New()
	mugID := uuid.New()
	cart := cartWithLines(
		models.CartItem{
			ProductID: mugID,
			Quantity:  2,
			UnitPrice: 19.99,
			Product:   &models.Product{Name: "Mug", SKU: "MUG-01"},
		},
	)

	order, err := orderFromCart(cart, userID, checkoutRequest())
	require.NoError(t, err)

	assert.Equal(t, userID, order.UserID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, cart.Subtotal, order.Subtotal)

	require.Len(t, order.Items, 1)
	line := order.Items[0]
	assert.Equal(t, mugID, line.ProductID)
	assert.Equal(t, "Mug", line.ProductName)
	assert.Equal(t, "MUG-01", line.ProductSKU)
	assert.Equal(t, 19.99, line.UnitPrice)
	assert.Equal(t, 2, line.Quantity)
}

func TestOrderFromCartMissingProduct(t *testing.T) {
	cart := cartWithLines(models.CartItem{ProductID: uuid.New(), Quantity: 1, UnitPrice: 5})

	_, err := orderFromCart(cart, uuid.New(), checkoutRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing product")
}

func TestSettleGuard(t *testing.T) {
	tests := []struct {
		name          string
		status        models.OrderStatus
		paymentStatus models.PaymentStatus
		wantErr       bool
	}{
		{"pending order awaiting payment", models.OrderStatusPending, models.PaymentStatusPending, false},
		{"cancelled order cannot settle", models.OrderStatusCancelled, models.PaymentStatusPending, true},
		{"already paid", models.OrderStatusPaid, models.PaymentStatusPaid, true},
		{"cancelled and paid", models.OrderStatusCancelled, models.PaymentStatusPaid, true},
		{"failed payment is final", models.OrderStatusPending, models.PaymentStatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &models.Order{Status: tt.status, PaymentStatus: tt.paymentStatus}
			err := settleGuard(order)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrOrderNotPayable)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCommitsReservations(t *testing.T) {
	tests := []struct {
		name string
		from models.OrderStatus
		to   models.OrderStatus
		want bool
	}{
		{"paid to shipped", models.OrderStatusPaid, models.OrderStatusShipped, true},
		{"paid straight to delivered", models.OrderStatusPaid, models.OrderStatusDelivered, true},
		{"shipped to delivered already committed", models.OrderStatusShipped, models.OrderStatusDelivered, false},
		{"pending to paid", models.OrderStatusPending, models.OrderStatusPaid, false},
		{"shipped to shipped", models.OrderStatusShipped, models.OrderStatusShipped, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, commitsReservations(tt.from, tt.to))
		})
	}
}
