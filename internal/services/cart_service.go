// internal/services/cart_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/merchkit/storefront-backend/internal/models"
	"github.com/merchkit/storefront-backend/internal/utils"
)

// CartService holds line items for one identity and keeps the derived totals
// consistent: every item mutation recomputes subtotal and total in the same
// transaction rather than lazily on read.
type CartService struct {
	db               *gorm.DB
	guestCartService *GuestCartService
}

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func NewCartService(db *gorm.DB, guestCartService *GuestCartService) *CartService {
	return &CartService{
		db:               db,
		guestCartService: guestCartService,
	}
}

// GetOrCreateCart returns the user's cart, creating an empty one if absent.
func (s *CartService) GetOrCreateCart(userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := s.db.Preload("Items").Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	cart = models.Cart{UserID: &userID}
	if err := s.db.Create(&cart).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	cart.Items = []models.CartItem{}
	return &cart, nil
}

// AddItem adds a product to the user's cart. An existing line for the same
// product increments its quantity; a new line captures the product's current
// price so later price changes do not rewrite the cart.
func (s *CartService) AddItem(userID uuid.UUID, req *AddCartItemRequest) (*models.Cart, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var cartID uuid.UUID
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Preload("Inventory").First(&product, req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if !product.IsPurchasable() {
			return errors.New("product is not available for purchase")
		}

		cart, err := s.getOrCreateCartTx(tx, userID)
		if err != nil {
			return err
		}
		cartID = cart.ID

		var item models.CartItem
		err = tx.Where("cart_id = ? AND product_id = ?", cart.ID, req.ProductID).First(&item).Error
		switch {
		case err == nil:
			requested := item.Quantity + req.Quantity
			if product.Inventory != nil && product.Inventory.Available() < requested {
				return ErrInsufficientStock
			}
			if err := tx.Model(&item).Update("quantity", requested).Error; err != nil {
				return fmt.Errorf("failed to update cart item: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if product.Inventory != nil && product.Inventory.Available() < req.Quantity {
				return ErrInsufficientStock
			}
			item = models.CartItem{
				CartID:    cart.ID,
				ProductID: req.ProductID,
				Quantity:  req.Quantity,
				UnitPrice: product.Price,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to add cart item: %w", err)
			}
		default:
			return fmt.Errorf("database error: %w", err)
		}

		return s.recalculateTx(tx, cart.ID)
	})

	if err != nil {
		return nil, err
	}
	return s.getCartByID(cartID)
}

// UpdateQuantity sets a line's quantity. A quantity of zero or below is
// defined as removal, not an error.
func (s *CartService) UpdateQuantity(userID, itemID uuid.UUID, qty int) (*models.Cart, error) {
	var cartID uuid.UUID
	err := s.db.Transaction(func(tx *gorm.DB) error {
		item, cart, err := s.findOwnedItem(tx, userID, itemID)
		if err != nil {
			return err
		}
		cartID = cart.ID

		if qty <= 0 {
			if err := tx.Unscoped().Delete(item).Error; err != nil {
				return fmt.Errorf("failed to remove cart item: %w", err)
			}
		} else {
			if err := tx.Model(item).Update("quantity", qty).Error; err != nil {
				return fmt.Errorf("failed to update cart item: %w", err)
			}
		}

		return s.recalculateTx(tx, cart.ID)
	})

	if err != nil {
		return nil, err
	}
	return s.getCartByID(cartID)
}

// RemoveItem deletes a line entirely.
func (s *CartService) RemoveItem(userID, itemID uuid.UUID) (*models.Cart, error) {
	return s.UpdateQuantity(userID, itemID, 0)
}

// Clear removes every line and zeroes totals.
func (s *CartService) Clear(userID uuid.UUID) (*models.Cart, error) {
	var cartID uuid.UUID
	err := s.db.Transaction(func(tx *gorm.DB) error {
		cart, err := s.getOrCreateCartTx(tx, userID)
		if err != nil {
			return err
		}
		cartID = cart.ID

		if err := tx.Unscoped().Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}

		return s.recalculateTx(tx, cart.ID)
	})

	if err != nil {
		return nil, err
	}
	return s.getCartByID(cartID)
}

// MergeGuestCart folds a guest session's snapshot into the user's cart at
// login. For each guest line: a matching product line sums quantities (the
// user quantity is the base, the guest quantity is added, never used to
// overwrite); an unmatched line is appended at the guest's captured price.
// The whole merge is one transaction; the guest snapshot is deleted only
// after the merge commits.
func (s *CartService) MergeGuestCart(ctx context.Context, userID uuid.UUID, sessionID string) (*models.Cart, error) {
	snapshot, err := s.guestCartService.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if len(snapshot.Items) == 0 {
		// Nothing to merge; still drop any stored state for the session.
		if err := s.guestCartService.Clear(ctx, sessionID); err != nil {
			logrus.WithError(err).WithField("session_id", sessionID).Warn("Failed to clear empty guest cart")
		}
		return s.GetOrCreateCart(userID)
	}

	var cartID uuid.UUID
	err = s.db.Transaction(func(tx *gorm.DB) error {
		cart, err := s.getOrCreateCartTx(tx, userID)
		if err != nil {
			return err
		}
		cartID = cart.ID

		var existing []models.CartItem
		if err := tx.Where("cart_id = ?", cart.ID).Find(&existing).Error; err != nil {
			return fmt.Errorf("failed to load cart items: %w", err)
		}

		merged := MergeQuantities(existing, snapshot.Items)
		for _, op := range merged {
			if op.ExistingItemID != nil {
				if err := tx.Model(&models.CartItem{}).
					Where("id = ?", *op.ExistingItemID).
					Updates(map[string]interface{}{
						"quantity":   op.Quantity,
						"updated_at": time.Now(),
					}).Error; err != nil {
					return fmt.Errorf("failed to merge cart item: %w", err)
				}
			} else {
				item := models.CartItem{
					CartID:    cart.ID,
					ProductID: op.ProductID,
					Quantity:  op.Quantity,
					UnitPrice: op.UnitPrice,
				}
				if err := tx.Create(&item).Error; err != nil {
					return fmt.Errorf("failed to append merged cart item: %w", err)
				}
			}
		}

		return s.recalculateTx(tx, cart.ID)
	})

	if err != nil {
		return nil, err
	}

	// Guest state is discarded only after a successful merge.
	if err := s.guestCartService.Clear(ctx, sessionID); err != nil {
		logrus.WithError(err).WithField("session_id", sessionID).Warn("Merged guest cart could not be cleared")
	}

	return s.getCartByID(cartID)
}

// MergeOp describes one resulting line of a guest cart merge.
type MergeOp struct {
	ProductID      uuid.UUID
	ExistingItemID *uuid.UUID
	Quantity       int
	UnitPrice      float64
}

// MergeQuantities computes the line-level outcome of folding guest items
// into an existing set of cart lines. Matching products sum quantities;
// unmatched guest lines become inserts at the guest's captured unit price.
func MergeQuantities(existing []models.CartItem, guest []models.GuestCartItem) []MergeOp {
	byProduct := make(map[uuid.UUID]*models.CartItem, len(existing))
	for i := range existing {
		byProduct[existing[i].ProductID] = &existing[i]
	}

	ops := make([]MergeOp, 0, len(guest))
	for _, g := range guest {
		if g.Quantity < 1 {
			continue
		}
		if current, ok := byProduct[g.ProductID]; ok {
			id := current.ID
			ops = append(ops, MergeOp{
				ProductID:      g.ProductID,
				ExistingItemID: &id,
				Quantity:       current.Quantity + g.Quantity,
				UnitPrice:      current.UnitPrice,
			})
		} else {
			ops = append(ops, MergeOp{
				ProductID: g.ProductID,
				Quantity:  g.Quantity,
				UnitPrice: g.UnitPrice,
			})
		}
	}
	return ops
}

// Helper methods

func (s *CartService) getOrCreateCartTx(tx *gorm.DB, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := tx.Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	cart = models.Cart{UserID: &userID}
	if err := tx.Create(&cart).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return &cart, nil
}

func (s *CartService) getCartByID(cartID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := s.db.Preload("Items").Preload("Items.Product").First(&cart, cartID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &cart, nil
}

func (s *CartService) findOwnedItem(tx *gorm.DB, userID, itemID uuid.UUID) (*models.CartItem, *models.Cart, error) {
	var item models.CartItem
	if err := tx.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCartItemNotFound
		}
		return nil, nil, fmt.Errorf("database error: %w", err)
	}

	var cart models.Cart
	if err := tx.First(&cart, item.CartID).Error; err != nil {
		return nil, nil, fmt.Errorf("database error: %w", err)
	}

	if cart.UserID == nil || *cart.UserID != userID {
		return nil, nil, ErrCartItemNotFound
	}
	return &item, &cart, nil
}

// recalculateTx recomputes the cart's derived totals from its current lines.
func (s *CartService) recalculateTx(tx *gorm.DB, cartID uuid.UUID) error {
	var cart models.Cart
	if err := tx.Preload("Items").First(&cart, cartID).Error; err != nil {
		return fmt.Errorf("failed to reload cart: %w", err)
	}

	cart.Recalculate()

	return tx.Model(&cart).Updates(map[string]interface{}{
		"subtotal": cart.Subtotal,
		"total":    cart.Total,
	}).Error
}
