// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/merchkit/storefront-backend/internal/config"
	"github.com/merchkit/storefront-backend/internal/models"
)

// NotificationService sends customer emails over SMTP and records in-app
// alerts for the admin console. With no SMTP host configured it degrades to
// logging, which is the mode the test environment runs in.
type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

type NotificationRequest struct {
	UserID    uuid.UUID              `json:"user_id" validate:"required"`
	Type      string                 `json:"type" validate:"required"`
	Title     string                 `json:"title" validate:"required"`
	Message   string                 `json:"message" validate:"required"`
	Data      map[string]interface{} `json:"data,omitempty"`
	SendEmail bool                   `json:"send_email,omitempty"`
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

func (s *NotificationService) SendEmailVerification(user *models.User, verificationToken string) error {
	tmpl := s.getEmailTemplate("email_verification")

	data := map[string]interface{}{
		"Username":        user.Username,
		"VerificationURL": fmt.Sprintf("%s/verify-email?token=%s", s.config.Frontend.BaseURL, verificationToken),
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, tmpl.Subject, body)
}

func (s *NotificationService) SendPasswordResetEmail(user *models.User, resetToken string) error {
	tmpl := s.getEmailTemplate("password_reset")

	data := map[string]interface{}{
		"Username":  user.Username,
		"ResetURL":  fmt.Sprintf("%s/reset-password?token=%s", s.config.Frontend.BaseURL, resetToken),
		"ExpiresIn": "1 hour",
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, tmpl.Subject, body)
}

// SendOrderConfirmation emails the customer after checkout. The order must
// carry its User preload; it is re-fetched when missing.
func (s *NotificationService) SendOrderConfirmation(order *models.Order) error {
	user := order.User
	if user == nil {
		var u models.User
		if err := s.db.First(&u, order.UserID).Error; err != nil {
			return fmt.Errorf("user not found: %w", err)
		}
		user = &u
	}

	tmpl := s.getEmailTemplate("order_confirmation")

	data := map[string]interface{}{
		"Username":    user.Username,
		"OrderNumber": order.OrderNumber,
		"Total":       fmt.Sprintf("%.2f", order.Total),
		"ItemCount":   len(order.Items),
		"TrackingURL": fmt.Sprintf("%s/orders/track/%s", s.config.Frontend.BaseURL, order.OrderNumber),
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, tmpl.Subject+" - "+order.OrderNumber, body)
}

func (s *NotificationService) SendOrderShipped(order *models.Order) error {
	var user models.User
	if err := s.db.First(&user, order.UserID).Error; err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	tmpl := s.getEmailTemplate("order_shipped")

	data := map[string]interface{}{
		"Username":    user.Username,
		"OrderNumber": order.OrderNumber,
		"TrackingURL": fmt.Sprintf("%s/orders/track/%s", s.config.Frontend.BaseURL, order.OrderNumber),
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, tmpl.Subject+" - "+order.OrderNumber, body)
}

func (s *NotificationService) SendRefundNotification(order *models.Order, reason string) error {
	var user models.User
	if err := s.db.First(&user, order.UserID).Error; err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	tmpl := s.getEmailTemplate("refund_notification")

	data := map[string]interface{}{
		"Username":    user.Username,
		"OrderNumber": order.OrderNumber,
		"Amount":      fmt.Sprintf("%.2f", order.Total),
		"Reason":      reason,
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, tmpl.Subject+" - "+order.OrderNumber, body)
}

// SendLowStockNotification files an admin alert when available stock falls
// below the inventory record's threshold. No customer email is involved.
func (s *NotificationService) SendLowStockNotification(inv *models.Inventory) error {
	var product models.Product
	if err := s.db.First(&product, inv.ProductID).Error; err != nil {
		return fmt.Errorf("product not found: %w", err)
	}

	notification := &models.AdminNotification{
		Type:                models.NotificationTypeLowStock,
		Title:               "Low stock: " + product.Name,
		Message:             fmt.Sprintf("Product %s (%s) has %d units available, threshold is %d", product.Name, product.SKU, inv.Available(), inv.LowStockThreshold),
		Priority:            models.NotificationPriorityHigh,
		RelatedResourceType: "product",
		RelatedResourceID:   &product.ID,
	}

	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"product_id": inv.ProductID,
		"available":  inv.Available(),
		"threshold":  inv.LowStockThreshold,
	}).Warn("Low stock alert")

	return nil
}

func (s *NotificationService) SendUserStatusChangeNotification(user *models.User, oldStatus models.UserStatus, reason string) error {
	tmpl := s.getEmailTemplate("user_status_change")

	data := map[string]interface{}{
		"Username":  user.Username,
		"NewStatus": user.Status,
		"OldStatus": oldStatus,
		"Reason":    reason,
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, tmpl.Subject, body)
}

func (s *NotificationService) SendCustomNotification(req *NotificationRequest) error {
	notification := &models.AdminNotification{
		Type:    req.Type,
		Title:   req.Title,
		Message: req.Message,
	}

	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	if req.SendEmail {
		var user models.User
		if err := s.db.First(&user, req.UserID).Error; err != nil {
			return fmt.Errorf("user not found: %w", err)
		}
		return s.sendEmail(user.Email, req.Title, req.Message)
	}

	return nil
}

func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("Email delivery skipped, SMTP not configured")
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)
	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body))
	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	templates := map[string]EmailTemplate{
		"email_verification": {
			Subject: "Verify your email",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Welcome {{.Username}}!</h2>
	<p>Please verify your email address by clicking the link below:</p>
	<a href="{{.VerificationURL}}">Verify Email</a>
</body>
</html>`,
		},
		"password_reset": {
			Subject: "Password Reset Request",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.Username}},</h2>
	<p>We received a request to reset your password. This link expires in {{.ExpiresIn}}.</p>
	<a href="{{.ResetURL}}">Reset Password</a>
	<p>If you did not request this, you can ignore this email.</p>
</body>
</html>`,
		},
		"order_confirmation": {
			Subject: "Order Confirmation",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Thank you for your order, {{.Username}}!</h2>
	<p>Order {{.OrderNumber}} with {{.ItemCount}} item(s) has been received. Total: {{.Total}}.</p>
	<a href="{{.TrackingURL}}">Track your order</a>
</body>
</html>`,
		},
		"order_shipped": {
			Subject: "Your order has shipped",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Good news, {{.Username}}!</h2>
	<p>Order {{.OrderNumber}} is on its way.</p>
	<a href="{{.TrackingURL}}">Track your order</a>
</body>
</html>`,
		},
		"refund_notification": {
			Subject: "Refund Processed",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.Username}},</h2>
	<p>A refund of {{.Amount}} for order {{.OrderNumber}} has been processed.</p>
	<p>Reason: {{.Reason}}</p>
</body>
</html>`,
		},
		"user_status_change": {
			Subject: "Account Status Update",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.Username}},</h2>
	<p>Your account status changed from {{.OldStatus}} to {{.NewStatus}}.</p>
	<p>{{.Reason}}</p>
</body>
</html>`,
		},
	}

	if tmpl, exists := templates[templateType]; exists {
		return tmpl
	}

	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>{{.Message}}</p>",
	}
}
