// internal/services/guest_cart_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/merchkit/storefront-backend/internal/config"
	"github.com/merchkit/storefront-backend/internal/models"
)

const guestCartKeyPrefix = "guest_cart:"

// GuestCartService gives unauthenticated visitors cart continuity. The cart
// lives in Redis as a single JSON snapshot keyed by session ID with a fixed
// expiry horizon; every mutation rewrites the whole snapshot and broadcasts
// a change event for listeners (cart badges and the like).
type GuestCartService struct {
	db  *gorm.DB
	rdb *redis.Client
	cfg *config.CartConfig
}

func NewGuestCartService(db *gorm.DB, rdb *redis.Client, cfg *config.CartConfig) *GuestCartService {
	return &GuestCartService{
		db:  db,
		rdb: rdb,
		cfg: cfg,
	}
}

// Get loads the snapshot for a session. An expired snapshot is discarded and
// treated as empty, matching a fresh visitor.
func (s *GuestCartService) Get(ctx context.Context, sessionID string) (*models.GuestCartSnapshot, error) {
	data, err := s.rdb.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return s.emptySnapshot(), nil
		}
		return nil, fmt.Errorf("failed to load guest cart: %w", err)
	}

	var snapshot models.GuestCartSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		logrus.WithError(err).WithField("session_id", sessionID).Warn("Discarding unreadable guest cart snapshot")
		s.rdb.Del(ctx, s.key(sessionID))
		return s.emptySnapshot(), nil
	}

	if snapshot.IsExpired(time.Now()) {
		if err := s.rdb.Del(ctx, s.key(sessionID)).Err(); err != nil {
			logrus.WithError(err).WithField("session_id", sessionID).Warn("Failed to clear expired guest cart")
		}
		return s.emptySnapshot(), nil
	}

	return &snapshot, nil
}

// AddItem appends or increments a product line at the product's current
// price, then rewrites the snapshot.
func (s *GuestCartService) AddItem(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*models.GuestCartSnapshot, error) {
	if qty < 1 {
		return nil, errors.New("quantity must be at least 1")
	}

	var product models.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !product.IsPurchasable() {
		return nil, errors.New("product is not available for purchase")
	}

	snapshot, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range snapshot.Items {
		if snapshot.Items[i].ProductID == productID {
			snapshot.Items[i].Quantity += qty
			found = true
			break
		}
	}
	if !found {
		snapshot.Items = append(snapshot.Items, models.GuestCartItem{
			ProductID: productID,
			Quantity:  qty,
			UnitPrice: product.Price,
			AddedAt:   time.Now(),
		})
	}

	if err := s.save(ctx, sessionID, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// UpdateQuantity sets a line's quantity; zero or below removes the line.
func (s *GuestCartService) UpdateQuantity(ctx context.Context, sessionID string, productID uuid.UUID, qty int) (*models.GuestCartSnapshot, error) {
	snapshot, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	updated := snapshot.Items[:0]
	found := false
	for _, item := range snapshot.Items {
		if item.ProductID == productID {
			found = true
			if qty <= 0 {
				continue
			}
			item.Quantity = qty
		}
		updated = append(updated, item)
	}
	if !found {
		return nil, ErrCartItemNotFound
	}
	snapshot.Items = updated

	if err := s.save(ctx, sessionID, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// RemoveItem drops a product line from the snapshot.
func (s *GuestCartService) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*models.GuestCartSnapshot, error) {
	return s.UpdateQuantity(ctx, sessionID, productID, 0)
}

// Clear deletes the session's snapshot entirely.
func (s *GuestCartService) Clear(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear guest cart: %w", err)
	}
	s.broadcast(ctx, sessionID)
	return nil
}

// Subtotal sums line totals; guests have no tax/shipping/discount components.
func (s *GuestCartService) Subtotal(snapshot *models.GuestCartSnapshot) float64 {
	subtotal := 0.0
	for i := range snapshot.Items {
		subtotal += float64(snapshot.Items[i].Quantity) * snapshot.Items[i].UnitPrice
	}
	return subtotal
}

// Helper methods

func (s *GuestCartService) key(sessionID string) string {
	return guestCartKeyPrefix + sessionID
}

func (s *GuestCartService) ttl() time.Duration {
	days := s.cfg.GuestTTLDays
	if days <= 0 {
		days = 30
	}
	return time.Duration(days) * 24 * time.Hour
}

func (s *GuestCartService) emptySnapshot() *models.GuestCartSnapshot {
	return &models.GuestCartSnapshot{
		Items:     []models.GuestCartItem{},
		ExpiresAt: time.Now().Add(s.ttl()),
		UpdatedAt: time.Now(),
	}
}

// save rewrites the complete snapshot under the session key. No partial
// patches: the stored value is always a full representation.
func (s *GuestCartService) save(ctx context.Context, sessionID string, snapshot *models.GuestCartSnapshot) error {
	snapshot.UpdatedAt = time.Now()
	snapshot.ExpiresAt = time.Now().Add(s.ttl())

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode guest cart: %w", err)
	}

	if err := s.rdb.Set(ctx, s.key(sessionID), data, s.ttl()).Err(); err != nil {
		return fmt.Errorf("failed to store guest cart: %w", err)
	}

	s.broadcast(ctx, sessionID)
	return nil
}

func (s *GuestCartService) broadcast(ctx context.Context, sessionID string) {
	if err := s.rdb.Publish(ctx, s.cfg.EventChannel, sessionID).Err(); err != nil {
		logrus.WithError(err).WithField("session_id", sessionID).Debug("Failed to broadcast cart change")
	}
}
