package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/merchkit/storefront-backend/internal/config"
	"github.com/merchkit/storefront-backend/internal/models"
)

func newGuestCartServiceForTest() *GuestCartService {
	return NewGuestCartService(nil, nil, &config.CartConfig{
		GuestTTLDays:  30,
		SessionHeader: "X-Session-ID",
		EventChannel:  "cart_events",
	})
}

func TestGuestCartSubtotal(t *testing.T) {
	s := newGuestCartServiceForTest()

	snapshot := &models.GuestCartSnapshot{
		Items: []models.GuestCartItem{
			{ProductID: uuid.New(), Quantity: 2, UnitPrice: 9.99},
			{ProductID: uuid.New(), Quantity: 1, UnitPrice: 30.02},
		},
	}

	assert.InDelta(t, 50.00, s.Subtotal(snapshot), 0.001)
}

func TestGuestCartSubtotalEmpty(t *testing.T) {
	s := newGuestCartServiceForTest()
	assert.Equal(t, 0.0, s.Subtotal(&models.GuestCartSnapshot{}))
}

func TestGuestCartTTL(t *testing.T) {
	s := newGuestCartServiceForTest()
	assert.Equal(t, 30*24*time.Hour, s.ttl())

	// A zero config falls back to the 30 day default
	s = NewGuestCartService(nil, nil, &config.CartConfig{})
	assert.Equal(t, 30*24*time.Hour, s.ttl())
}

func TestGuestCartKeyIncludesSession(t *testing.T) {
	s := newGuestCartServiceForTest()
	assert.Equal(t, "guest_cart:sess_abc", s.key("sess_abc"))
}
