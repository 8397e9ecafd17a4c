// internal/models/discount.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Discount is a code-based promotion with a validity window, usage limit and
// optional applicability lists. UsedCount must track discount_usage row count.
type Discount struct {
	BaseModel
	Code           string         `json:"code" gorm:"uniqueIndex;size:50;not null"`
	Description    string         `json:"description" gorm:"type:text"`
	Type           DiscountType   `json:"type" gorm:"type:varchar(20);not null"`
	Value          float64        `json:"value" gorm:"type:decimal(10,2);not null"`
	MinOrderAmount float64        `json:"min_order_amount" gorm:"type:decimal(10,2);default:0"`
	UsageLimit     int            `json:"usage_limit" gorm:"default:0"`
	UsedCount      int            `json:"used_count" gorm:"default:0"`
	StartsAt       *time.Time     `json:"starts_at"`
	EndsAt         *time.Time     `json:"ends_at"`
	IsActive       bool           `json:"is_active" gorm:"default:true"`
	CategoryIDs    pq.StringArray `json:"category_ids" gorm:"type:text[]"`
	ProductIDs     pq.StringArray `json:"product_ids" gorm:"type:text[]"`
	UserIDs        pq.StringArray `json:"user_ids" gorm:"type:text[]"`

	// Relationships
	Usages []DiscountUsage `json:"usages,omitempty" gorm:"foreignKey:DiscountID"`
}

// IsWithinWindow reports whether the code is usable at the given instant.
func (d *Discount) IsWithinWindow(now time.Time) bool {
	if d.StartsAt != nil && now.Before(*d.StartsAt) {
		return false
	}
	if d.EndsAt != nil && now.After(*d.EndsAt) {
		return false
	}
	return true
}

// HasUsesLeft reports whether the usage limit allows another redemption.
// A zero limit means unlimited.
func (d *Discount) HasUsesLeft() bool {
	return d.UsageLimit == 0 || d.UsedCount < d.UsageLimit
}

// AppliesToUser checks the optional user applicability list.
func (d *Discount) AppliesToUser(userID uuid.UUID) bool {
	if len(d.UserIDs) == 0 {
		return true
	}
	id := userID.String()
	for _, u := range d.UserIDs {
		if u == id {
			return true
		}
	}
	return false
}

// AmountFor computes the discount amount for a given subtotal, capped at the
// subtotal itself.
func (d *Discount) AmountFor(subtotal float64) float64 {
	var amount float64
	switch d.Type {
	case DiscountTypePercentage:
		amount = subtotal * (d.Value / 100)
	case DiscountTypeFixed:
		amount = d.Value
	}
	if amount > subtotal {
		amount = subtotal
	}
	if amount < 0 {
		amount = 0
	}
	return amount
}

// DiscountUsage records a single redemption of a discount code.
type DiscountUsage struct {
	BaseModel
	DiscountID uuid.UUID  `json:"discount_id" gorm:"type:uuid;not null;index"`
	UserID     uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	OrderID    *uuid.UUID `json:"order_id" gorm:"type:uuid;index"`
	Amount     float64    `json:"amount" gorm:"type:decimal(10,2);not null"`

	// Relationships
	Discount *Discount `json:"discount,omitempty" gorm:"foreignKey:DiscountID"`
	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
