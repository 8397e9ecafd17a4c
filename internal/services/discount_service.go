// internal/services/discount_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/merchkit/storefront-backend/internal/models"
	"github.com/merchkit/storefront-backend/internal/utils"
)

// DiscountService manages promotion codes and their redemption. Redemption
// runs inside the checkout transaction with the discount row locked, so the
// usage limit holds under concurrent checkouts.
type DiscountService struct {
	db *gorm.DB
}

type CreateDiscountRequest struct {
	Code           string              `json:"code" validate:"required,discount_code"`
	Description    string              `json:"description,omitempty"`
	Type           models.DiscountType `json:"type" validate:"required,oneof=percentage fixed"`
	Value          float64             `json:"value" validate:"required,gt=0"`
	MinOrderAmount float64             `json:"min_order_amount,omitempty" validate:"omitempty,gte=0"`
	UsageLimit     int                 `json:"usage_limit,omitempty" validate:"omitempty,gte=0"`
	StartsAt       *time.Time          `json:"starts_at,omitempty"`
	EndsAt         *time.Time          `json:"ends_at,omitempty"`
	CategoryIDs    []string            `json:"category_ids,omitempty"`
	ProductIDs     []string            `json:"product_ids,omitempty"`
	UserIDs        []string            `json:"user_ids,omitempty"`
}

type UpdateDiscountRequest struct {
	Description    *string    `json:"description,omitempty"`
	Value          *float64   `json:"value,omitempty" validate:"omitempty,gt=0"`
	MinOrderAmount *float64   `json:"min_order_amount,omitempty" validate:"omitempty,gte=0"`
	UsageLimit     *int       `json:"usage_limit,omitempty" validate:"omitempty,gte=0"`
	StartsAt       *time.Time `json:"starts_at,omitempty"`
	EndsAt         *time.Time `json:"ends_at,omitempty"`
	IsActive       *bool      `json:"is_active,omitempty"`
}

// DiscountQuote is the result of a dry-run validation against a cart.
type DiscountQuote struct {
	Code     string  `json:"code"`
	Amount   float64 `json:"amount"`
	Subtotal float64 `json:"subtotal"`
}

func NewDiscountService(db *gorm.DB) *DiscountService {
	return &DiscountService{db: db}
}

// CreateDiscount registers a new promotion code (admin only).
func (s *DiscountService) CreateDiscount(req *CreateDiscountRequest) (*models.Discount, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.StartsAt != nil && req.EndsAt != nil && req.EndsAt.Before(*req.StartsAt) {
		return nil, errors.New("ends_at must be after starts_at")
	}

	discount := &models.Discount{
		Code:           strings.ToUpper(req.Code),
		Description:    req.Description,
		Type:           req.Type,
		Value:          req.Value,
		MinOrderAmount: req.MinOrderAmount,
		UsageLimit:     req.UsageLimit,
		StartsAt:       req.StartsAt,
		EndsAt:         req.EndsAt,
		IsActive:       true,
		CategoryIDs:    req.CategoryIDs,
		ProductIDs:     req.ProductIDs,
		UserIDs:        req.UserIDs,
	}

	if req.Type == models.DiscountTypePercentage && req.Value > 100 {
		return nil, errors.New("percentage discounts cannot exceed 100")
	}

	if err := s.db.Create(discount).Error; err != nil {
		return nil, fmt.Errorf("failed to create discount: %w", err)
	}
	return discount, nil
}

// UpdateDiscount patches mutable fields of an existing code.
func (s *DiscountService) UpdateDiscount(discountID uuid.UUID, req *UpdateDiscountRequest) (*models.Discount, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	discount, err := s.getByID(discountID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Value != nil {
		updates["value"] = *req.Value
	}
	if req.MinOrderAmount != nil {
		updates["min_order_amount"] = *req.MinOrderAmount
	}
	if req.UsageLimit != nil {
		updates["usage_limit"] = *req.UsageLimit
	}
	if req.StartsAt != nil {
		updates["starts_at"] = *req.StartsAt
	}
	if req.EndsAt != nil {
		updates["ends_at"] = *req.EndsAt
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(discount).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update discount: %w", err)
		}
	}
	return s.getByID(discountID)
}

// DeleteDiscount soft-deletes a code. Past usage records stay intact.
func (s *DiscountService) DeleteDiscount(discountID uuid.UUID) error {
	result := s.db.Delete(&models.Discount{}, discountID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete discount: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrDiscountNotFound
	}
	return nil
}

// ListDiscounts returns a page of codes for the admin console.
func (s *DiscountService) ListDiscounts(params utils.PaginationParams) ([]models.Discount, int64, error) {
	query := s.db.Model(&models.Discount{})

	if params.Search != "" {
		query = query.Where("code ILIKE ? OR description ILIKE ?", "%"+params.Search+"%", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count discounts: %w", err)
	}

	allowedSortFields := []string{"created_at", "code", "used_count", "ends_at"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var discounts []models.Discount
	if err := query.Find(&discounts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch discounts: %w", err)
	}
	return discounts, total, nil
}

// Quote validates a code against a cart without consuming a use. Handlers call
// this when the customer applies a code before checkout.
func (s *DiscountService) Quote(code string, userID uuid.UUID, cart *models.Cart) (*DiscountQuote, error) {
	discount, err := s.getByCode(s.db, code, false)
	if err != nil {
		return nil, err
	}

	if err := s.check(discount, userID, cart); err != nil {
		return nil, err
	}

	return &DiscountQuote{
		Code:     discount.Code,
		Amount:   discount.AmountFor(cart.Subtotal),
		Subtotal: cart.Subtotal,
	}, nil
}

// RedeemTx validates a code inside the caller's transaction, locks the row,
// increments used_count and returns the computed amount. The caller records
// the usage against the created order via AttachUsageToOrder.
func (s *DiscountService) RedeemTx(tx *gorm.DB, code string, userID uuid.UUID, cart *models.Cart) (float64, *models.Discount, error) {
	discount, err := s.getByCode(tx, code, true)
	if err != nil {
		return 0, nil, err
	}

	if err := s.check(discount, userID, cart); err != nil {
		return 0, nil, err
	}

	if err := tx.Model(discount).
		Update("used_count", gorm.Expr("used_count + 1")).Error; err != nil {
		return 0, nil, fmt.Errorf("failed to increment discount usage: %w", err)
	}

	return discount.AmountFor(cart.Subtotal), discount, nil
}

// AttachUsageToOrder writes the usage row once the order exists.
func (s *DiscountService) AttachUsageToOrder(tx *gorm.DB, order *models.Order) error {
	discount, err := s.getByCode(tx, order.DiscountCode, false)
	if err != nil {
		return err
	}

	usage := &models.DiscountUsage{
		DiscountID: discount.ID,
		UserID:     order.UserID,
		OrderID:    &order.ID,
		Amount:     order.DiscountAmount,
	}
	if err := tx.Create(usage).Error; err != nil {
		return fmt.Errorf("failed to record discount usage: %w", err)
	}
	return nil
}

func (s *DiscountService) check(discount *models.Discount, userID uuid.UUID, cart *models.Cart) error {
	now := time.Now()

	if !discount.IsActive || !discount.IsWithinWindow(now) {
		return ErrDiscountNotValid
	}
	if !discount.HasUsesLeft() {
		return ErrDiscountExhausted
	}
	if !discount.AppliesToUser(userID) {
		return ErrDiscountNotValid
	}
	if cart.Subtotal < discount.MinOrderAmount {
		return ErrDiscountNotValid
	}
	if len(discount.ProductIDs) > 0 || len(discount.CategoryIDs) > 0 {
		if !s.cartMatchesScope(discount, cart) {
			return ErrDiscountNotValid
		}
	}
	return nil
}

// cartMatchesScope checks whether at least one cart line falls inside the
// discount's product or category lists.
func (s *DiscountService) cartMatchesScope(discount *models.Discount, cart *models.Cart) bool {
	products := make(map[string]bool, len(discount.ProductIDs))
	for _, id := range discount.ProductIDs {
		products[id] = true
	}
	categories := make(map[string]bool, len(discount.CategoryIDs))
	for _, id := range discount.CategoryIDs {
		categories[id] = true
	}

	for i := range cart.Items {
		item := &cart.Items[i]
		if products[item.ProductID.String()] {
			return true
		}
		if item.Product != nil && item.Product.CategoryID != nil && categories[item.Product.CategoryID.String()] {
			return true
		}
	}
	return false
}

func (s *DiscountService) getByID(discountID uuid.UUID) (*models.Discount, error) {
	var discount models.Discount
	if err := s.db.First(&discount, discountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiscountNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &discount, nil
}

func (s *DiscountService) getByCode(db *gorm.DB, code string, lock bool) (*models.Discount, error) {
	query := db.Where("code = ?", strings.ToUpper(code))
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var discount models.Discount
	if err := query.First(&discount).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiscountNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &discount, nil
}
