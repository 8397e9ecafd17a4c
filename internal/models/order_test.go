package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderIsCancellable(t *testing.T) {
	cases := []struct {
		status OrderStatus
		want   bool
	}{
		{OrderStatusPending, true},
		{OrderStatusPaid, true},
		{OrderStatusShipped, false},
		{OrderStatusDelivered, false},
		{OrderStatusCancelled, false},
	}

	for _, tc := range cases {
		order := &Order{Status: tc.status}
		assert.Equal(t, tc.want, order.IsCancellable(), "status %s", tc.status)
	}
}

func TestOrderItemLineTotal(t *testing.T) {
	item := &OrderItem{Quantity: 3, UnitPrice: 12.50}
	assert.InDelta(t, 37.50, item.LineTotal(), 0.001)
}
