// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/merchkit/storefront-backend/internal/database"
	"github.com/merchkit/storefront-backend/internal/models"
	"github.com/merchkit/storefront-backend/internal/utils"
)

// OrderService freezes a cart into an immutable order. Line snapshots,
// inventory reservations, discount redemption, the order number and the cart
// wipe all commit in a single transaction, so a failed checkout leaves no
// visible intermediate state.
type OrderService struct {
	db                  *gorm.DB
	cartService         *CartService
	inventoryService    *InventoryService
	discountService     *DiscountService
	notificationService *NotificationService
}

type CheckoutRequest struct {
	ShippingAddress map[string]interface{} `json:"shipping_address" validate:"required"`
	DiscountCode    string                 `json:"discount_code,omitempty"`
	Notes           string                 `json:"notes,omitempty"`
}

type OrderSearchParams struct {
	utils.PaginationParams
	UserID        *uuid.UUID            `json:"user_id,omitempty"`
	Status        *models.OrderStatus   `json:"status,omitempty"`
	PaymentStatus *models.PaymentStatus `json:"payment_status,omitempty"`
}

func NewOrderService(db *gorm.DB, cartService *CartService, inventoryService *InventoryService, discountService *DiscountService, notificationService *NotificationService) *OrderService {
	return &OrderService{
		db:                  db,
		cartService:         cartService,
		inventoryService:    inventoryService,
		discountService:     discountService,
		notificationService: notificationService,
	}
}

// Checkout materializes the user's cart into an order.
func (s *OrderService) Checkout(userID uuid.UUID, req *CheckoutRequest) (*models.Order, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var order *models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Preload("Items").Preload("Items.Product").
			Where("user_id = ?", userID).
			First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmptyCart
			}
			return fmt.Errorf("database error: %w", err)
		}

		// Nothing is written before this guard passes, so an empty cart
		// aborts with the transaction untouched.
		var err error
		order, err = orderFromCart(&cart, userID, req)
		if err != nil {
			return err
		}

		number, err := database.NextOrderNumber(tx)
		if err != nil {
			return err
		}
		order.OrderNumber = FormatOrderNumber(time.Now(), number)

		// Discount redemption happens against the frozen subtotal.
		if req.DiscountCode != "" {
			amount, discount, err := s.discountService.RedeemTx(tx, req.DiscountCode, userID, &cart)
			if err != nil {
				return err
			}
			order.DiscountAmount = amount
			order.DiscountCode = discount.Code
		}

		order.Total = order.Subtotal + order.TaxAmount + order.ShippingAmount - order.DiscountAmount
		if order.Total < 0 {
			order.Total = 0
		}

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		// Reserve inventory per line as an effect of order-line creation.
		for i := range order.Items {
			if err := s.inventoryService.Reserve(tx, order.Items[i].ProductID, order.Items[i].Quantity, order.OrderNumber); err != nil {
				return err
			}
		}

		if req.DiscountCode != "" {
			if err := s.discountService.AttachUsageToOrder(tx, order); err != nil {
				return err
			}
		}

		// The materialized cart is spent.
		if err := tx.Unscoped().Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		if err := tx.Model(&cart).Updates(map[string]interface{}{
			"subtotal":        0,
			"tax_amount":      0,
			"shipping_amount": 0,
			"discount_amount": 0,
			"total":           0,
			"discount_code":   "",
		}).Error; err != nil {
			return fmt.Errorf("failed to reset cart totals: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"user_id":      userID,
		"total":        order.Total,
	}).Info("Order created")

	if s.notificationService != nil {
		go s.notificationService.SendOrderConfirmation(order)
	}

	return s.GetOrder(order.ID, &userID)
}

// orderFromCart freezes cart lines into a pending order. Line snapshots
// copy name, SKU and unit price so later product edits cannot reach
// into placed orders. An empty cart yields ErrEmptyCart.
func orderFromCart(cart *models.Cart, userID uuid.UUID, req *CheckoutRequest) (*models.Order, error) {
	if cart == nil || cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	order := &models.Order{
		UserID:          userID,
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		Subtotal:        cart.Subtotal,
		TaxAmount:       cart.TaxAmount,
		ShippingAmount:  cart.ShippingAmount,
		ShippingAddress: models.JSONB(req.ShippingAddress),
		Notes:           req.Notes,
	}

	for i := range cart.Items {
		item := &cart.Items[i]
		if item.Product == nil {
			return nil, fmt.Errorf("cart item %s references a missing product", item.ID)
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			ProductSKU:  item.Product.SKU,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		})
	}
	return order, nil
}

// GetOrder fetches one order. A non-nil userID scopes the lookup to that
// owner; admins pass nil.
func (s *OrderService) GetOrder(orderID uuid.UUID, userID *uuid.UUID) (*models.Order, error) {
	query := s.db.Preload("Items").Preload("Items.Product").Preload("User")
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}

	var order models.Order
	if err := query.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}

// TrackByNumber is the public lookup used by the order tracking page. It
// returns a reduced view without customer details.
func (s *OrderService) TrackByNumber(orderNumber string) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").
		Where("order_number = ?", orderNumber).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	order.User = nil
	order.ShippingAddress = nil
	order.Notes = ""
	return &order, nil
}

// ListOrders returns a page of orders matching the criteria object.
func (s *OrderService) ListOrders(params OrderSearchParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Preload("Items")

	if params.UserID != nil {
		query = query.Where("user_id = ?", *params.UserID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *params.PaymentStatus)
	}
	if params.Search != "" {
		query = query.Where("order_number ILIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "total", "status"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}

// Cancel aborts a pending or paid order and releases its reservations,
// appending unreserved ledger entries per line.
func (s *OrderService) Cancel(orderID uuid.UUID, userID *uuid.UUID) (*models.Order, error) {
	var order *models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		query := tx.Preload("Items")
		if userID != nil {
			query = query.Where("user_id = ?", *userID)
		}

		var o models.Order
		if err := query.First(&o, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if !o.IsCancellable() {
			return ErrOrderNotCancellable
		}

		for i := range o.Items {
			if err := s.inventoryService.Release(tx, o.Items[i].ProductID, o.Items[i].Quantity, o.OrderNumber); err != nil {
				return err
			}
		}

		now := time.Now()
		if err := tx.Model(&o).Updates(map[string]interface{}{
			"status":       models.OrderStatusCancelled,
			"cancelled_at": now,
		}).Error; err != nil {
			return fmt.Errorf("failed to cancel order: %w", err)
		}

		o.Status = models.OrderStatusCancelled
		o.CancelledAt = &now
		order = &o
		return nil
	})

	if err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateStatus moves an order along the fulfillment path (admin action).
// Shipping an order commits its reservations as outbound stock.
func (s *OrderService) UpdateStatus(orderID uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	var order *models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var o models.Order
		if err := tx.Preload("Items").First(&o, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if o.Status == models.OrderStatusCancelled {
			return errors.New("cancelled orders cannot change status")
		}

		if commitsReservations(o.Status, status) {
			for i := range o.Items {
				if err := s.inventoryService.Commit(tx, o.Items[i].ProductID, o.Items[i].Quantity, o.OrderNumber); err != nil {
					return err
				}
			}
		}

		if err := tx.Model(&o).Update("status", status).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}

		o.Status = status
		order = &o
		return nil
	})

	if err != nil {
		return nil, err
	}
	return order, nil
}

// commitsReservations reports whether a status transition is the first
// move into fulfillment. Shipping an order normally commits its
// reserved stock as outbound, but an admin may jump a paid order
// straight to delivered and the commit must still happen exactly once.
func commitsReservations(from, to models.OrderStatus) bool {
	fulfilled := func(st models.OrderStatus) bool {
		return st == models.OrderStatusShipped || st == models.OrderStatusDelivered
	}
	return fulfilled(to) && !fulfilled(from)
}

// settleGuard rejects settling payment on an order that is not awaiting
// it. Cancelled orders keep payment_status pending after their
// reservations are released, so a late intent confirmation must not
// bring them back to life.
func settleGuard(o *models.Order) error {
	if o.Status == models.OrderStatusCancelled {
		return ErrOrderNotPayable
	}
	if o.PaymentStatus != models.PaymentStatusPending {
		return ErrOrderNotPayable
	}
	return nil
}

// MarkPaid records a successful payment against an order.
func (s *OrderService) MarkPaid(orderID uuid.UUID, paymentIntentID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var o models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&o, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if err := settleGuard(&o); err != nil {
			return err
		}

		if err := tx.Model(&o).Updates(map[string]interface{}{
			"payment_status":    models.PaymentStatusPaid,
			"payment_intent_id": paymentIntentID,
			"status":            models.OrderStatusPaid,
			"paid_at":           time.Now(),
		}).Error; err != nil {
			return fmt.Errorf("failed to mark order paid: %w", err)
		}
		return nil
	})
}

// FormatOrderNumber renders a sequence value as a customer-facing number.
func FormatOrderNumber(t time.Time, seq int64) string {
	return fmt.Sprintf("ORD-%s-%06d", t.Format("20060102"), seq)
}
