package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestDiscountIsWithinWindow(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	open := &Discount{}
	assert.True(t, open.IsWithinWindow(now))

	active := &Discount{StartsAt: &past, EndsAt: &future}
	assert.True(t, active.IsWithinWindow(now))

	notStarted := &Discount{StartsAt: &future}
	assert.False(t, notStarted.IsWithinWindow(now))

	ended := &Discount{EndsAt: &past}
	assert.False(t, ended.IsWithinWindow(now))
}

func TestDiscountHasUsesLeft(t *testing.T) {
	unlimited := &Discount{UsageLimit: 0, UsedCount: 9999}
	assert.True(t, unlimited.HasUsesLeft())

	limited := &Discount{UsageLimit: 10, UsedCount: 9}
	assert.True(t, limited.HasUsesLeft())

	exhausted := &Discount{UsageLimit: 10, UsedCount: 10}
	assert.False(t, exhausted.HasUsesLeft())
}

func TestDiscountAppliesToUser(t *testing.T) {
	userID := uuid.New()
	otherID := uuid.New()

	anyUser := &Discount{}
	assert.True(t, anyUser.AppliesToUser(userID))

	scoped := &Discount{UserIDs: pq.StringArray{userID.String()}}
	assert.True(t, scoped.AppliesToUser(userID))
	assert.False(t, scoped.AppliesToUser(otherID))
}

func TestDiscountAmountForPercentage(t *testing.T) {
	d := &Discount{Type: DiscountTypePercentage, Value: 25}
	assert.InDelta(t, 25.0, d.AmountFor(100.0), 0.001)
}

func TestDiscountAmountForFixed(t *testing.T) {
	d := &Discount{Type: DiscountTypeFixed, Value: 15}
	assert.InDelta(t, 15.0, d.AmountFor(100.0), 0.001)
}

func TestDiscountAmountCappedAtSubtotal(t *testing.T) {
	d := &Discount{Type: DiscountTypeFixed, Value: 50}
	assert.InDelta(t, 20.0, d.AmountFor(20.0), 0.001)
}
