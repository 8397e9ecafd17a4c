// internal/models/cart.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart holds line items for exactly one identity: a signed-in user or an
// anonymous session, never both.
type Cart struct {
	BaseModel
	UserID         *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	SessionID      *string    `json:"session_id" gorm:"size:64;index"`
	Subtotal       float64    `json:"subtotal" gorm:"type:decimal(10,2);default:0"`
	TaxAmount      float64    `json:"tax_amount" gorm:"type:decimal(10,2);default:0"`
	ShippingAmount float64    `json:"shipping_amount" gorm:"type:decimal(10,2);default:0"`
	DiscountAmount float64    `json:"discount_amount" gorm:"type:decimal(10,2);default:0"`
	Total          float64    `json:"total" gorm:"type:decimal(10,2);default:0"`
	DiscountCode   string     `json:"discount_code" gorm:"size:50"`

	// Relationships
	User  *User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Items []CartItem `json:"items,omitempty" gorm:"foreignKey:CartID"`
}

// CartItem is one product line in a cart. Uniqueness on (cart_id, product_id)
// means adding an existing product increments quantity instead of inserting
// a duplicate row. UnitPrice is captured at add time.
type CartItem struct {
	BaseModel
	CartID    uuid.UUID `json:"cart_id" gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	Quantity  int       `json:"quantity" gorm:"not null;default:1"`
	UnitPrice float64   `json:"unit_price" gorm:"type:decimal(10,2);not null"`

	// Relationships
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// LineTotal returns quantity times the captured unit price.
func (ci *CartItem) LineTotal() float64 {
	return float64(ci.Quantity) * ci.UnitPrice
}

// Recalculate recomputes the derived totals from the cart's items.
// total = subtotal + tax + shipping - discount.
func (c *Cart) Recalculate() {
	subtotal := 0.0
	for i := range c.Items {
		subtotal += c.Items[i].LineTotal()
	}
	c.Subtotal = subtotal
	c.Total = c.Subtotal + c.TaxAmount + c.ShippingAmount - c.DiscountAmount
	if c.Total < 0 {
		c.Total = 0
	}
}

// ItemCount returns the summed quantity across lines.
func (c *Cart) ItemCount() int {
	count := 0
	for i := range c.Items {
		count += c.Items[i].Quantity
	}
	return count
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// GuestCartSnapshot is the JSON blob the guest cart adapter persists under a
// session key. Every mutation rewrites the whole snapshot.
type GuestCartSnapshot struct {
	Items     []GuestCartItem `json:"items"`
	ExpiresAt time.Time       `json:"expires_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type GuestCartItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	AddedAt   time.Time `json:"added_at"`
}

// IsExpired reports whether the snapshot's expiry horizon has passed.
func (s *GuestCartSnapshot) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
