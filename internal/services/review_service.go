// internal/services/review_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/merchkit/storefront-backend/internal/models"
	"github.com/merchkit/storefront-backend/internal/utils"
)

// ReviewService manages product reviews and keeps the denormalized rating
// aggregate on the product row in sync.
type ReviewService struct {
	db *gorm.DB
}

type CreateReviewRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Rating    int       `json:"rating" validate:"required,min=1,max=5"`
	Title     string    `json:"title,omitempty" validate:"omitempty,max=255"`
	Comment   string    `json:"comment,omitempty"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Title   *string `json:"title,omitempty" validate:"omitempty,max=255"`
	Comment *string `json:"comment,omitempty"`
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// CreateReview records a review. One review per user per product; a review is
// marked verified when the reviewer has a paid order containing the product.
func (s *ReviewService) CreateReview(userID uuid.UUID, req *CreateReviewRequest) (*models.Review, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var existing int64
	if err := s.db.Model(&models.Review{}).
		Where("product_id = ? AND user_id = ?", req.ProductID, userID).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if existing > 0 {
		return nil, ErrDuplicateReview
	}

	review := &models.Review{
		ProductID:  req.ProductID,
		UserID:     userID,
		Rating:     req.Rating,
		Title:      req.Title,
		Comment:    req.Comment,
		IsVerified: s.hasPurchased(userID, req.ProductID),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}
		return s.refreshProductRating(tx, req.ProductID)
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("User").First(review, review.ID)
	return review, nil
}

func (s *ReviewService) UpdateReview(reviewID uuid.UUID, userID uuid.UUID, req *UpdateReviewRequest) (*models.Review, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var review models.Review
	if err := s.db.Where("id = ? AND user_id = ?", reviewID, userID).
		First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("review not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Comment != nil {
		updates["comment"] = *req.Comment
	}

	if len(updates) > 0 {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&review).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update review: %w", err)
			}
			return s.refreshProductRating(tx, review.ProductID)
		})
		if err != nil {
			return nil, err
		}
	}

	s.db.Preload("User").First(&review, reviewID)
	return &review, nil
}

// DeleteReview removes a review. Admins can delete any review, users only
// their own.
func (s *ReviewService) DeleteReview(reviewID uuid.UUID, userID uuid.UUID, isAdmin bool) error {
	query := s.db.Where("id = ?", reviewID)
	if !isAdmin {
		query = query.Where("user_id = ?", userID)
	}

	var review models.Review
	if err := query.First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("review not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&review).Error; err != nil {
			return fmt.Errorf("failed to delete review: %w", err)
		}
		return s.refreshProductRating(tx, review.ProductID)
	})
}

// ListProductReviews returns a page of reviews for a product, newest first.
func (s *ReviewService) ListProductReviews(productID uuid.UUID, params utils.PaginationParams) ([]models.Review, int64, error) {
	query := s.db.Model(&models.Review{}).
		Where("product_id = ?", productID).
		Preload("User")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	allowedSortFields := []string{"created_at", "rating"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var reviews []models.Review
	if err := query.Find(&reviews).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch reviews: %w", err)
	}
	return reviews, total, nil
}

func (s *ReviewService) hasPurchased(userID, productID uuid.UUID) bool {
	var count int64
	s.db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND order_items.product_id = ? AND orders.payment_status = ?",
			userID, productID, models.PaymentStatusPaid).
		Count(&count)
	return count > 0
}

// refreshProductRating recomputes the product's average rating and review
// count from the surviving reviews.
func (s *ReviewService) refreshProductRating(tx *gorm.DB, productID uuid.UUID) error {
	var agg struct {
		Avg   float64
		Count int64
	}
	if err := tx.Model(&models.Review{}).
		Where("product_id = ?", productID).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Scan(&agg).Error; err != nil {
		return fmt.Errorf("failed to aggregate reviews: %w", err)
	}

	return tx.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"rating":       agg.Avg,
			"review_count": agg.Count,
		}).Error
}
