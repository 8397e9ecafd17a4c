// internal/services/wishlist_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/merchkit/storefront-backend/internal/models"
	"github.com/merchkit/storefront-backend/internal/utils"
)

// WishlistService manages saved products. Adding an already saved product is
// a no-op rather than an error.
type WishlistService struct {
	db *gorm.DB
}

func NewWishlistService(db *gorm.DB) *WishlistService {
	return &WishlistService{db: db}
}

func (s *WishlistService) Add(userID, productID uuid.UUID) (*models.Wishlist, error) {
	var product models.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var entry models.Wishlist
	err := s.db.Where("user_id = ? AND product_id = ?", userID, productID).
		First(&entry).Error
	if err == nil {
		return &entry, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	entry = models.Wishlist{UserID: userID, ProductID: productID}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to add to wishlist: %w", err)
	}

	s.db.Preload("Product").First(&entry, entry.ID)
	return &entry, nil
}

func (s *WishlistService) Remove(userID, productID uuid.UUID) error {
	result := s.db.Unscoped().
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Wishlist{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove from wishlist: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("wishlist entry not found")
	}
	return nil
}

func (s *WishlistService) List(userID uuid.UUID, params utils.PaginationParams) ([]models.Wishlist, int64, error) {
	query := s.db.Model(&models.Wishlist{}).
		Where("user_id = ?", userID).
		Preload("Product").Preload("Product.Inventory")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count wishlist: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at"})
	query = utils.ApplyPagination(query, params)

	var entries []models.Wishlist
	if err := query.Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch wishlist: %w", err)
	}
	return entries, total, nil
}

// Contains reports whether the user has saved the product.
func (s *WishlistService) Contains(userID, productID uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Wishlist{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("database error: %w", err)
	}
	return count > 0, nil
}
