// internal/models/review.go
package models

import (
	"github.com/google/uuid"
)

// Review is one user's rating of one product. Uniqueness on
// (product_id, user_id) rejects duplicate reviews.
type Review struct {
	BaseModel
	ProductID  uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_reviews_product_user"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_reviews_product_user"`
	Rating     int       `json:"rating" gorm:"not null"`
	Title      string    `json:"title" gorm:"size:255"`
	Comment    string    `json:"comment" gorm:"type:text"`
	IsVerified bool      `json:"is_verified" gorm:"default:false"`

	// Relationships
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Wishlist marks a product saved by a user.
type Wishlist struct {
	BaseModel
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_wishlists_user_product"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_wishlists_user_product"`

	// Relationships
	User    *User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
