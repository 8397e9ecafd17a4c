// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Category struct {
	BaseModel
	Name        string     `json:"name" gorm:"size:100;not null"`
	Slug        string     `json:"slug" gorm:"uniqueIndex;size:120;not null"`
	Description string     `json:"description" gorm:"type:text"`
	ParentID    *uuid.UUID `json:"parent_id" gorm:"type:uuid;index"`
	IsActive    bool       `json:"is_active" gorm:"default:true"`

	// Relationships
	Parent   *Category  `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
	Children []Category `json:"children,omitempty" gorm:"foreignKey:ParentID"`
	Products []Product  `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}

type Product struct {
	BaseModel
	Name           string         `json:"name" gorm:"size:255;not null"`
	Slug           string         `json:"slug" gorm:"uniqueIndex;size:280;not null"`
	SKU            string         `json:"sku" gorm:"uniqueIndex;size:64;not null"`
	Description    string         `json:"description" gorm:"type:text"`
	Price          float64        `json:"price" gorm:"type:decimal(10,2);not null"`
	CompareAtPrice *float64       `json:"compare_at_price" gorm:"type:decimal(10,2)"`
	CategoryID     *uuid.UUID     `json:"category_id" gorm:"type:uuid;index"`
	Images         pq.StringArray `json:"images" gorm:"type:text[]"`
	Tags           pq.StringArray `json:"tags" gorm:"type:text[]"`
	Specifications JSONB          `json:"specifications" gorm:"type:jsonb"`
	Status         ProductStatus  `json:"status" gorm:"type:varchar(20);default:'draft';index"`
	Featured       bool           `json:"featured" gorm:"default:false"`
	ViewCount      int64          `json:"view_count" gorm:"default:0"`
	SalesCount     int64          `json:"sales_count" gorm:"default:0"`
	Rating         float64        `json:"rating" gorm:"type:decimal(3,2);default:0"`
	ReviewCount    int64          `json:"review_count" gorm:"default:0"`

	// Relationships
	Category  *Category  `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Inventory *Inventory `json:"inventory,omitempty" gorm:"foreignKey:ProductID"`
	Reviews   []Review   `json:"reviews,omitempty" gorm:"foreignKey:ProductID"`
}

// IsPurchasable reports whether the product can be added to a cart.
func (p *Product) IsPurchasable() bool {
	return p.Status == ProductStatusActive
}
