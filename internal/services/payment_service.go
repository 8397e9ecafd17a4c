// internal/services/payment_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"github.com/stripe/stripe-go/v74/refund"
	"gorm.io/gorm"

	"github.com/merchkit/storefront-backend/internal/config"
	"github.com/merchkit/storefront-backend/internal/models"
	"github.com/merchkit/storefront-backend/internal/utils"
)

// PaymentService fronts Stripe for order payments. Orders are created pending
// at checkout; payment confirmation marks them paid, and refunds ride along
// with cancellation of paid orders.
type PaymentService struct {
	db                  *gorm.DB
	config              *config.Config
	orderService        *OrderService
	notificationService *NotificationService
}

type CreatePaymentIntentRequest struct {
	OrderID  uuid.UUID `json:"order_id" validate:"required"`
	Currency string    `json:"currency,omitempty"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"client_secret"`
	PaymentID    string `json:"payment_id"`
	Status       string `json:"status"`
}

type ConfirmPaymentRequest struct {
	PaymentIntentID string    `json:"payment_intent_id" validate:"required"`
	OrderID         uuid.UUID `json:"order_id" validate:"required"`
}

type RefundRequest struct {
	OrderID uuid.UUID `json:"order_id" validate:"required"`
	Amount  float64   `json:"amount,omitempty"`
	Reason  string    `json:"reason" validate:"required"`
}

func NewPaymentService(db *gorm.DB, config *config.Config, orderService *OrderService, notificationService *NotificationService) *PaymentService {
	stripe.Key = config.Payment.StripeSecretKey

	return &PaymentService{
		db:                  db,
		config:              config,
		orderService:        orderService,
		notificationService: notificationService,
	}
}

// CreatePaymentIntent opens a Stripe intent for a pending order. The amount
// always comes from the stored order total, never from the client.
func (s *PaymentService) CreatePaymentIntent(userID uuid.UUID, req *CreatePaymentIntentRequest) (*PaymentIntentResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	order, err := s.orderService.GetOrder(req.OrderID, &userID)
	if err != nil {
		return nil, err
	}

	if err := settleGuard(order); err != nil {
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	amountInCents := int64(order.Total * 100)

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountInCents),
		Currency: stripe.String(currency),
	}
	params.AddMetadata("order_id", order.ID.String())
	params.AddMetadata("order_number", order.OrderNumber)
	params.AddMetadata("user_id", userID.String())

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &PaymentIntentResponse{
		ClientSecret: pi.ClientSecret,
		PaymentID:    pi.ID,
		Status:       string(pi.Status),
	}, nil
}

// verifyIntentBinding checks that a Stripe intent actually pays for
// this order. The order ID written into the intent metadata at creation
// and the charged amount must both match, otherwise a succeeded intent
// for one order could settle a different one.
func verifyIntentBinding(pi *stripe.PaymentIntent, order *models.Order) error {
	if pi.Metadata["order_id"] != order.ID.String() {
		return ErrPaymentMismatch
	}
	if pi.Amount != int64(order.Total*100) {
		return ErrPaymentMismatch
	}
	return nil
}

// ConfirmPayment verifies intent status with Stripe and settles the
// caller's order. The lookup is scoped to the caller and the intent is
// checked against the stored order before any state changes.
func (s *PaymentService) ConfirmPayment(userID uuid.UUID, req *ConfirmPaymentRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	order, err := s.orderService.GetOrder(req.OrderID, &userID)
	if err != nil {
		return err
	}

	pi, err := paymentintent.Get(req.PaymentIntentID, nil)
	if err != nil {
		return fmt.Errorf("failed to get payment intent: %w", err)
	}

	if err := verifyIntentBinding(pi, order); err != nil {
		return err
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		if err := s.orderService.MarkPaid(req.OrderID, pi.ID); err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"order_id":          req.OrderID,
			"payment_intent_id": pi.ID,
		}).Info("Payment confirmed")
		return nil

	case stripe.PaymentIntentStatusRequiresAction, stripe.PaymentIntentStatusRequiresConfirmation:
		return errors.New("payment requires further action")

	default:
		if err := s.db.Model(&models.Order{}).
			Where("id = ?", req.OrderID).
			Update("payment_status", models.PaymentStatusFailed).Error; err != nil {
			return fmt.Errorf("failed to record payment failure: %w", err)
		}
		return errors.New("payment did not succeed")
	}
}

// ProcessRefund refunds a paid order through Stripe and marks it refunded.
func (s *PaymentService) ProcessRefund(req *RefundRequest, adminID *uuid.UUID) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	order, err := s.orderService.GetOrder(req.OrderID, nil)
	if err != nil {
		return err
	}

	if order.PaymentStatus != models.PaymentStatusPaid {
		return errors.New("can only refund paid orders")
	}

	refundAmount := req.Amount
	if refundAmount <= 0 || refundAmount > order.Total {
		refundAmount = order.Total
	}

	if order.PaymentIntentID != "" {
		params := &stripe.RefundParams{
			PaymentIntent: stripe.String(order.PaymentIntentID),
			Amount:        stripe.Int64(int64(refundAmount * 100)),
			Reason:        stripe.String("requested_by_customer"),
		}
		if _, err := refund.New(params); err != nil {
			return fmt.Errorf("failed to process refund: %w", err)
		}
	}

	if err := s.db.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("payment_status", models.PaymentStatusRefunded).Error; err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"amount":   refundAmount,
		"admin_id": adminID,
	}).Info("Refund processed")

	if s.notificationService != nil {
		go s.notificationService.SendRefundNotification(order, req.Reason)
	}

	return nil
}
