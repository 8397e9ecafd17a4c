package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v74"

	"github.com/merchkit/storefront-backend/internal/models"
)

func TestVerifyIntentBinding(t *testing.T) {
	order := &models.Order{Total: 54.98}
	order.ID = uuid.New()

	intent := func(orderID string, amount int64) *stripe.PaymentIntent {
		return &stripe.PaymentIntent{
			Amount:   amount,
			Metadata: map[string]string{"order_id": orderID},
		}
	}

	assert.NoError(t, verifyIntentBinding(intent(order.ID.String(), 5498), order))

	// An intent created for a different order must not settle this one.
	assert.ErrorIs(t, verifyIntentBinding(intent(uuid.New().String(), 5498), order), ErrPaymentMismatch)

	// A cheaper intent must not settle a more expensive order.
	assert.ErrorIs(t, verifyIntentBinding(intent(order.ID.String(), 100), order), ErrPaymentMismatch)

	// Intents without metadata never match.
	bare := &stripe.PaymentIntent{Amount: 5498}
	assert.ErrorIs(t, verifyIntentBinding(bare, order), ErrPaymentMismatch)
}
