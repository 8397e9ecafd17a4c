// internal/models/order.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Order is an immutable snapshot of a cart at checkout time.
type Order struct {
	BaseModel
	OrderNumber     string        `json:"order_number" gorm:"uniqueIndex;size:32;not null"`
	UserID          uuid.UUID     `json:"user_id" gorm:"type:uuid;not null;index"`
	Status          OrderStatus   `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	PaymentStatus   PaymentStatus `json:"payment_status" gorm:"type:varchar(20);default:'pending';index"`
	PaymentIntentID string        `json:"payment_intent_id" gorm:"size:255"`
	Subtotal        float64       `json:"subtotal" gorm:"type:decimal(10,2);not null"`
	TaxAmount       float64       `json:"tax_amount" gorm:"type:decimal(10,2);default:0"`
	ShippingAmount  float64       `json:"shipping_amount" gorm:"type:decimal(10,2);default:0"`
	DiscountAmount  float64       `json:"discount_amount" gorm:"type:decimal(10,2);default:0"`
	Total           float64       `json:"total" gorm:"type:decimal(10,2);not null"`
	DiscountCode    string        `json:"discount_code" gorm:"size:50"`
	ShippingAddress JSONB         `json:"shipping_address" gorm:"type:jsonb"`
	Notes           string        `json:"notes" gorm:"type:text"`
	PaidAt          *time.Time    `json:"paid_at"`
	CancelledAt     *time.Time    `json:"cancelled_at"`

	// Relationships
	User  *User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem captures product name, SKU and price as of purchase time,
// decoupled from later product mutation.
type OrderItem struct {
	BaseModel
	OrderID     uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	ProductName string    `json:"product_name" gorm:"size:255;not null"`
	ProductSKU  string    `json:"product_sku" gorm:"size:64;not null"`
	UnitPrice   float64   `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Quantity    int       `json:"quantity" gorm:"not null"`

	// Relationships
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// LineTotal returns quantity times the captured unit price.
func (oi *OrderItem) LineTotal() float64 {
	return float64(oi.Quantity) * oi.UnitPrice
}

// IsCancellable reports whether the order can still be cancelled and its
// inventory reservations released.
func (o *Order) IsCancellable() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusPaid
}
