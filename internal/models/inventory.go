// internal/models/inventory.go
package models

import (
	"github.com/google/uuid"
)

// Inventory tracks on-hand and reserved stock for a single product.
// Available stock is always derived from quantity and reserved, never stored.
type Inventory struct {
	BaseModel
	ProductID         uuid.UUID `json:"product_id" gorm:"type:uuid;uniqueIndex;not null"`
	Quantity          int       `json:"quantity" gorm:"not null;default:0"`
	Reserved          int       `json:"reserved" gorm:"not null;default:0"`
	LowStockThreshold int       `json:"low_stock_threshold" gorm:"not null;default:5"`
	ReorderPoint      int       `json:"reorder_point" gorm:"not null;default:10"`

	// Relationships
	Product      *Product               `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Transactions []InventoryTransaction `json:"transactions,omitempty" gorm:"foreignKey:ProductID;references:ProductID"`
}

// Available returns the sellable stock: on-hand minus reserved.
func (i *Inventory) Available() int {
	return i.Quantity - i.Reserved
}

// CanReserve reports whether reserving qty would keep available non-negative.
func (i *Inventory) CanReserve(qty int) bool {
	return qty > 0 && i.Available() >= qty
}

// IsLowStock reports whether available stock dropped to the threshold.
func (i *Inventory) IsLowStock() bool {
	return i.Available() <= i.LowStockThreshold
}

// InventoryTransaction is an append-only ledger entry recording why stock
// changed. The sum of ledger deltas for a product must reconcile with the
// current (quantity, reserved) pair.
type InventoryTransaction struct {
	BaseModel
	ProductID   uuid.UUID                `json:"product_id" gorm:"type:uuid;not null;index"`
	Type        InventoryTransactionType `json:"type" gorm:"type:varchar(20);not null;index"`
	Quantity    int                      `json:"quantity" gorm:"not null"`
	Reference   string                   `json:"reference" gorm:"size:100;index"`
	Note        string                   `json:"note" gorm:"type:text"`
	CreatedByID *uuid.UUID               `json:"created_by_id" gorm:"type:uuid"`

	// Relationships
	Product   *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	CreatedBy *User    `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID"`
}

// QuantityDelta returns the entry's effect on on-hand quantity.
func (t *InventoryTransaction) QuantityDelta() int {
	switch t.Type {
	case InventoryTransactionIn:
		return t.Quantity
	case InventoryTransactionOut:
		return -t.Quantity
	case InventoryTransactionAdjustment:
		return t.Quantity
	}
	return 0
}

// ReservedDelta returns the entry's effect on reserved quantity.
func (t *InventoryTransaction) ReservedDelta() int {
	switch t.Type {
	case InventoryTransactionReserved:
		return t.Quantity
	case InventoryTransactionUnreserved:
		return -t.Quantity
	}
	return 0
}
