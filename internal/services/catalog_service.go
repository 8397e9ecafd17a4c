// internal/services/catalog_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/merchkit/storefront-backend/internal/models"
	"github.com/merchkit/storefront-backend/internal/utils"
)

// CatalogService manages products and categories. Product creation also
// provisions the inventory record so every purchasable product has a ledger.
type CatalogService struct {
	db               *gorm.DB
	inventoryService *InventoryService
}

type CreateProductRequest struct {
	Name            string                 `json:"name" validate:"required,min=3,max=255"`
	SKU             string                 `json:"sku" validate:"required,min=2,max=64"`
	Description     string                 `json:"description,omitempty"`
	Price           float64                `json:"price" validate:"required,min=0.01"`
	CompareAtPrice  *float64               `json:"compare_at_price,omitempty" validate:"omitempty,gt=0"`
	CategoryID      *uuid.UUID             `json:"category_id,omitempty"`
	Images          []string               `json:"images,omitempty"`
	Tags            []string               `json:"tags,omitempty"`
	Specifications  map[string]interface{} `json:"specifications,omitempty"`
	InitialQuantity int                    `json:"initial_quantity,omitempty" validate:"omitempty,min=0"`
	Featured        bool                   `json:"featured,omitempty"`
}

type UpdateProductRequest struct {
	Name           *string                `json:"name,omitempty" validate:"omitempty,min=3,max=255"`
	Description    *string                `json:"description,omitempty"`
	Price          *float64               `json:"price,omitempty" validate:"omitempty,min=0.01"`
	CompareAtPrice *float64               `json:"compare_at_price,omitempty" validate:"omitempty,gt=0"`
	CategoryID     *uuid.UUID             `json:"category_id,omitempty"`
	Images         []string               `json:"images,omitempty"`
	Tags           []string               `json:"tags,omitempty"`
	Specifications map[string]interface{} `json:"specifications,omitempty"`
	Status         *models.ProductStatus  `json:"status,omitempty" validate:"omitempty,oneof=draft active inactive"`
	Featured       *bool                  `json:"featured,omitempty"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	CategoryID *uuid.UUID            `json:"category_id,omitempty"`
	Status     *models.ProductStatus `json:"status,omitempty"`
	PriceMin   *float64              `json:"price_min,omitempty"`
	PriceMax   *float64              `json:"price_max,omitempty"`
	Tags       []string              `json:"tags,omitempty"`
	InStock    *bool                 `json:"in_stock,omitempty"`
	Featured   *bool                 `json:"featured,omitempty"`
}

type CategoryRequest struct {
	Name        string     `json:"name" validate:"required,min=2,max=100"`
	Description string     `json:"description,omitempty"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
}

func NewCatalogService(db *gorm.DB, inventoryService *InventoryService) *CatalogService {
	return &CatalogService{
		db:               db,
		inventoryService: inventoryService,
	}
}

// CreateProduct adds a catalog entry together with its inventory record. New
// products start as drafts and become visible once activated.
func (s *CatalogService) CreateProduct(req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.CategoryID != nil {
		if _, err := s.GetCategory(*req.CategoryID); err != nil {
			return nil, err
		}
	}

	slug := utils.UniqueSlug(req.Name, func(candidate string) bool {
		var count int64
		s.db.Model(&models.Product{}).Where("slug = ?", candidate).Count(&count)
		return count > 0
	})

	product := &models.Product{
		Name:           req.Name,
		Slug:           slug,
		SKU:            strings.ToUpper(req.SKU),
		Description:    req.Description,
		Price:          req.Price,
		CompareAtPrice: req.CompareAtPrice,
		CategoryID:     req.CategoryID,
		Images:         req.Images,
		Tags:           req.Tags,
		Specifications: models.JSONB(req.Specifications),
		Status:         models.ProductStatusDraft,
		Featured:       req.Featured,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return s.inventoryService.EnsureRecord(tx, product.ID, req.InitialQuantity)
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Category").Preload("Inventory").First(product, product.ID)
	return product, nil
}

// GetProduct fetches one product by id. Drafts and inactive products are only
// visible to admins.
func (s *CatalogService) GetProduct(id uuid.UUID, isAdmin bool) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Category").Preload("Inventory").
		First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if product.Status != models.ProductStatusActive && !isAdmin {
		return nil, ErrProductNotFound
	}

	if !isAdmin {
		go s.incrementViewCount(product.ID)
	}
	return &product, nil
}

// GetProductBySlug is the storefront-facing lookup.
func (s *CatalogService) GetProductBySlug(slug string) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Category").Preload("Inventory").
		Where("slug = ? AND status = ?", slug, models.ProductStatusActive).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	go s.incrementViewCount(product.ID)
	return &product, nil
}

func (s *CatalogService) UpdateProduct(id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.CompareAtPrice != nil {
		updates["compare_at_price"] = *req.CompareAtPrice
	}
	if req.CategoryID != nil {
		if _, err := s.GetCategory(*req.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.Images != nil {
		updates["images"] = pq.StringArray(req.Images)
	}
	if req.Tags != nil {
		updates["tags"] = pq.StringArray(req.Tags)
	}
	if req.Specifications != nil {
		updates["specifications"] = models.JSONB(req.Specifications)
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Featured != nil {
		updates["featured"] = *req.Featured
	}

	if len(updates) > 0 {
		if err := s.db.Model(&product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	s.db.Preload("Category").Preload("Inventory").First(&product, id)
	return &product, nil
}

// DeleteProduct soft-deletes a product. Products that appear on orders are
// retired instead, keeping order item references resolvable.
func (s *CatalogService) DeleteProduct(id uuid.UUID) error {
	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	var orderedCount int64
	if err := s.db.Model(&models.OrderItem{}).
		Where("product_id = ?", id).
		Count(&orderedCount).Error; err != nil {
		return fmt.Errorf("failed to check order history: %w", err)
	}

	if orderedCount > 0 {
		return s.db.Model(&product).Update("status", models.ProductStatusInactive).Error
	}
	return s.db.Delete(&product).Error
}

// SearchProducts returns a page of products matching the criteria object.
// Anonymous callers only ever see active products.
func (s *CatalogService) SearchProducts(params ProductSearchParams, isAdmin bool) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).Preload("Category").Preload("Inventory")

	if params.Status != nil && isAdmin {
		query = query.Where("status = ?", *params.Status)
	} else if !isAdmin {
		query = query.Where("status = ?", models.ProductStatusActive)
	}

	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}
	if params.Category != "" {
		query = query.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", params.Category)
	}
	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ?", searchTerm, searchTerm)
	}
	if params.PriceMin != nil {
		query = query.Where("price >= ?", *params.PriceMin)
	}
	if params.PriceMax != nil {
		query = query.Where("price <= ?", *params.PriceMax)
	}
	if len(params.Tags) > 0 {
		query = query.Where("tags && ?", pq.StringArray(params.Tags))
	}
	if params.Tag != "" {
		query = query.Where("? = ANY(tags)", params.Tag)
	}
	if params.Featured != nil {
		query = query.Where("featured = ?", *params.Featured)
	}
	if params.InStock != nil && *params.InStock {
		query = query.Joins("JOIN inventories ON inventories.product_id = products.id").
			Where("inventories.quantity - inventories.reserved > 0")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "price", "sales_count", "rating"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, total, nil
}

func (s *CatalogService) GetPopularProducts(limit int) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Where("status = ?", models.ProductStatusActive).
		Order("sales_count DESC, rating DESC, view_count DESC").
		Limit(limit).
		Preload("Category").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch popular products: %w", err)
	}
	return products, nil
}

func (s *CatalogService) GetFeaturedProducts(limit int) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Where("status = ? AND featured = ?", models.ProductStatusActive, true).
		Order("created_at DESC").
		Limit(limit).
		Preload("Category").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch featured products: %w", err)
	}
	return products, nil
}

// CreateCategory adds a category, slugged from its name.
func (s *CatalogService) CreateCategory(req *CategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.ParentID != nil {
		if _, err := s.GetCategory(*req.ParentID); err != nil {
			return nil, err
		}
	}

	slug := utils.UniqueSlug(req.Name, func(candidate string) bool {
		var count int64
		s.db.Model(&models.Category{}).Where("slug = ?", candidate).Count(&count)
		return count > 0
	})

	category := &models.Category{
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		ParentID:    req.ParentID,
		IsActive:    true,
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *CatalogService) UpdateCategory(id uuid.UUID, req *CategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
	}
	if req.ParentID != nil {
		if *req.ParentID == id {
			return nil, errors.New("category cannot be its own parent")
		}
		updates["parent_id"] = *req.ParentID
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := s.db.Model(category).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return s.GetCategory(id)
}

// DeleteCategory soft-deletes a category. Products keep their category_id but
// the reference stops resolving in listings.
func (s *CatalogService) DeleteCategory(id uuid.UUID) error {
	var childCount int64
	if err := s.db.Model(&models.Category{}).
		Where("parent_id = ?", id).
		Count(&childCount).Error; err != nil {
		return fmt.Errorf("failed to check child categories: %w", err)
	}
	if childCount > 0 {
		return errors.New("category has child categories")
	}

	result := s.db.Delete(&models.Category{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("category not found")
	}
	return nil
}

func (s *CatalogService) GetCategory(id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := s.db.Preload("Children").First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("category not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &category, nil
}

// ListCategories returns the active category tree as a flat list with parent
// references.
func (s *CatalogService) ListCategories(includeInactive bool) ([]models.Category, error) {
	query := s.db.Order("name ASC")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var categories []models.Category
	if err := query.Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

func (s *CatalogService) incrementViewCount(productID uuid.UUID) {
	s.db.Model(&models.Product{}).Where("id = ?", productID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
}
