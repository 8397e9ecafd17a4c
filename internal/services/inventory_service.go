// internal/services/inventory_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/merchkit/storefront-backend/internal/models"
)

// InventoryService maintains on-hand and reserved stock per product and the
// append-only transaction ledger that is the sole audit trail for stock
// changes. Every mutation and its ledger entry commit in one transaction.
type InventoryService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type AdjustInventoryRequest struct {
	Delta  int    `json:"delta" validate:"required"`
	Reason string `json:"reason" validate:"required,min=3,max=255"`
}

// ReconcileResult reports whether the ledger replays to the current state.
type ReconcileResult struct {
	ProductID        uuid.UUID `json:"product_id"`
	LedgerQuantity   int       `json:"ledger_quantity"`
	LedgerReserved   int       `json:"ledger_reserved"`
	CurrentQuantity  int       `json:"current_quantity"`
	CurrentReserved  int       `json:"current_reserved"`
	QuantityDrift    int       `json:"quantity_drift"`
	ReservedDrift    int       `json:"reserved_drift"`
	Consistent       bool      `json:"consistent"`
	TransactionCount int64     `json:"transaction_count"`
}

func NewInventoryService(db *gorm.DB, notificationService *NotificationService) *InventoryService {
	return &InventoryService{
		db:                  db,
		notificationService: notificationService,
	}
}

// Reserve commits qty units of a product to an open order. It fails with
// ErrInsufficientStock when the reservation would drive available negative.
func (s *InventoryService) Reserve(tx *gorm.DB, productID uuid.UUID, qty int, reference string) error {
	if qty <= 0 {
		return errors.New("reserve quantity must be positive")
	}

	inv, err := s.lockInventory(tx, productID)
	if err != nil {
		return err
	}

	if !inv.CanReserve(qty) {
		return ErrInsufficientStock
	}

	if err := tx.Model(inv).UpdateColumn("reserved",
		gorm.Expr("reserved + ?", qty)).Error; err != nil {
		return fmt.Errorf("failed to reserve inventory: %w", err)
	}

	if err := s.appendLedger(tx, productID, models.InventoryTransactionReserved, qty, reference, "", nil); err != nil {
		return err
	}

	inv.Reserved += qty
	s.checkLowStock(inv)
	return nil
}

// Release returns previously reserved units, clamped so reserved never goes
// negative (order cancellation or line edit).
func (s *InventoryService) Release(tx *gorm.DB, productID uuid.UUID, qty int, reference string) error {
	if qty <= 0 {
		return errors.New("release quantity must be positive")
	}

	inv, err := s.lockInventory(tx, productID)
	if err != nil {
		return err
	}

	if qty > inv.Reserved {
		qty = inv.Reserved
	}
	if qty == 0 {
		return nil
	}

	if err := tx.Model(inv).UpdateColumn("reserved",
		gorm.Expr("reserved - ?", qty)).Error; err != nil {
		return fmt.Errorf("failed to release inventory: %w", err)
	}

	return s.appendLedger(tx, productID, models.InventoryTransactionUnreserved, qty, reference, "", nil)
}

// Commit converts a reservation into an outbound movement at fulfillment:
// on-hand and reserved both drop by qty.
func (s *InventoryService) Commit(tx *gorm.DB, productID uuid.UUID, qty int, reference string) error {
	if qty <= 0 {
		return errors.New("commit quantity must be positive")
	}

	inv, err := s.lockInventory(tx, productID)
	if err != nil {
		return err
	}

	if qty > inv.Reserved || qty > inv.Quantity {
		return fmt.Errorf("cannot commit %d units: %d reserved, %d on hand", qty, inv.Reserved, inv.Quantity)
	}

	if err := tx.Model(inv).UpdateColumns(map[string]interface{}{
		"quantity": gorm.Expr("quantity - ?", qty),
		"reserved": gorm.Expr("reserved - ?", qty),
	}).Error; err != nil {
		return fmt.Errorf("failed to commit inventory: %w", err)
	}

	if err := s.appendLedger(tx, productID, models.InventoryTransactionUnreserved, qty, reference, "fulfillment", nil); err != nil {
		return err
	}
	return s.appendLedger(tx, productID, models.InventoryTransactionOut, qty, reference, "fulfillment", nil)
}

// Adjust changes on-hand quantity directly (restock, manual correction).
// The delta may be negative but may not take quantity below reserved.
func (s *InventoryService) Adjust(productID uuid.UUID, delta int, reason string, adminID *uuid.UUID) (*models.Inventory, error) {
	if delta == 0 {
		return nil, errors.New("adjustment delta must be non-zero")
	}
	if reason == "" {
		return nil, errors.New("adjustment reason is required")
	}

	var result *models.Inventory
	err := s.db.Transaction(func(tx *gorm.DB) error {
		inv, err := s.lockInventory(tx, productID)
		if err != nil {
			return err
		}

		newQuantity := inv.Quantity + delta
		if newQuantity < inv.Reserved {
			return fmt.Errorf("adjustment would leave %d on hand below %d reserved", newQuantity, inv.Reserved)
		}

		if err := tx.Model(inv).UpdateColumn("quantity",
			gorm.Expr("quantity + ?", delta)).Error; err != nil {
			return fmt.Errorf("failed to adjust inventory: %w", err)
		}

		// Adjustment entries carry the signed delta.
		if err := s.appendLedger(tx, productID, models.InventoryTransactionAdjustment, delta, "", reason, adminID); err != nil {
			return err
		}

		inv.Quantity = newQuantity
		result = inv
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.checkLowStock(result)
	return result, nil
}

// SetLevel sets the absolute on-hand quantity, recording the implied
// delta as an adjustment entry. Used for stocktake corrections where
// the counted total is known rather than the difference.
func (s *InventoryService) SetLevel(productID uuid.UUID, quantity int, reason string, adminID *uuid.UUID) (*models.Inventory, error) {
	if quantity < 0 {
		return nil, errors.New("quantity must not be negative")
	}
	if reason == "" {
		return nil, errors.New("adjustment reason is required")
	}

	var result *models.Inventory
	err := s.db.Transaction(func(tx *gorm.DB) error {
		inv, err := s.lockInventory(tx, productID)
		if err != nil {
			return err
		}

		if quantity < inv.Reserved {
			return fmt.Errorf("level %d is below %d reserved", quantity, inv.Reserved)
		}

		delta := quantity - inv.Quantity
		if delta == 0 {
			result = inv
			return nil
		}

		if err := tx.Model(inv).UpdateColumn("quantity", quantity).Error; err != nil {
			return fmt.Errorf("failed to set inventory level: %w", err)
		}
		if err := s.appendLedger(tx, productID, models.InventoryTransactionAdjustment, delta, "", reason, adminID); err != nil {
			return err
		}

		inv.Quantity = quantity
		result = inv
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.checkLowStock(result)
	return result, nil
}

// GetByProduct returns the inventory row for a product.
func (s *InventoryService) GetByProduct(productID uuid.UUID) (*models.Inventory, error) {
	var inv models.Inventory
	if err := s.db.Where("product_id = ?", productID).First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInventoryNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &inv, nil
}

// GetLedger returns the transaction history for a product, newest first.
func (s *InventoryService) GetLedger(productID uuid.UUID, limit int) ([]models.InventoryTransaction, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var entries []models.InventoryTransaction
	if err := s.db.Where("product_id = ?", productID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch inventory ledger: %w", err)
	}
	return entries, nil
}

// Reconcile replays the full ledger for a product and compares the summed
// deltas against the stored (quantity, reserved) pair.
func (s *InventoryService) Reconcile(productID uuid.UUID) (*ReconcileResult, error) {
	inv, err := s.GetByProduct(productID)
	if err != nil {
		return nil, err
	}

	var entries []models.InventoryTransaction
	if err := s.db.Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch inventory ledger: %w", err)
	}

	result := &ReconcileResult{
		ProductID:        productID,
		CurrentQuantity:  inv.Quantity,
		CurrentReserved:  inv.Reserved,
		TransactionCount: int64(len(entries)),
	}

	for i := range entries {
		result.LedgerQuantity += entries[i].QuantityDelta()
		result.LedgerReserved += entries[i].ReservedDelta()
	}

	result.QuantityDrift = result.CurrentQuantity - result.LedgerQuantity
	result.ReservedDrift = result.CurrentReserved - result.LedgerReserved
	result.Consistent = result.QuantityDrift == 0 && result.ReservedDrift == 0

	if !result.Consistent {
		logrus.WithFields(logrus.Fields{
			"product_id":     productID,
			"quantity_drift": result.QuantityDrift,
			"reserved_drift": result.ReservedDrift,
		}).Warn("Inventory ledger drift detected")
	}

	return result, nil
}

// EnsureRecord creates the inventory row for a new product. Only an
// actual insert seeds the ledger; an existing row must keep its history
// intact or reconciliation drifts.
func (s *InventoryService) EnsureRecord(tx *gorm.DB, productID uuid.UUID, initialQuantity int) error {
	inv := &models.Inventory{
		ProductID: productID,
		Quantity:  initialQuantity,
	}
	res := tx.Where("product_id = ?", productID).FirstOrCreate(inv)
	if res.Error != nil {
		return fmt.Errorf("failed to create inventory record: %w", res.Error)
	}

	if needsInitialLedgerEntry(res.RowsAffected > 0, initialQuantity) {
		return s.appendLedger(tx, productID, models.InventoryTransactionIn, initialQuantity, "", "initial stock", nil)
	}
	return nil
}

// needsInitialLedgerEntry reports whether EnsureRecord should post the
// opening stock movement. Created is true only when FirstOrCreate
// inserted a row rather than finding one.
func needsInitialLedgerEntry(created bool, initialQuantity int) bool {
	return created && initialQuantity > 0
}

// Helper methods

func (s *InventoryService) lockInventory(tx *gorm.DB, productID uuid.UUID) (*models.Inventory, error) {
	var inv models.Inventory
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ?", productID).
		First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInventoryNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &inv, nil
}

func (s *InventoryService) appendLedger(tx *gorm.DB, productID uuid.UUID, entryType models.InventoryTransactionType, qty int, reference, note string, createdBy *uuid.UUID) error {
	entry := &models.InventoryTransaction{
		ProductID:   productID,
		Type:        entryType,
		Quantity:    qty,
		Reference:   reference,
		Note:        note,
		CreatedByID: createdBy,
	}
	if err := tx.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append inventory ledger entry: %w", err)
	}
	return nil
}

func (s *InventoryService) checkLowStock(inv *models.Inventory) {
	if inv == nil || !inv.IsLowStock() {
		return
	}
	if s.notificationService != nil {
		go s.notificationService.SendLowStockNotification(inv)
	}
}
