// internal/services/admin_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/merchkit/storefront-backend/internal/models"
	"github.com/merchkit/storefront-backend/internal/utils"
)

// AdminService backs the admin console: dashboard stats, user management,
// settings and sales rollups. Every state-changing action writes an audit
// log row.
type AdminService struct {
	db                  *gorm.DB
	notificationService *NotificationService
	inventoryService    *InventoryService
}

type AdminDashboardStats struct {
	TotalUsers        int64   `json:"total_users"`
	ActiveUsers       int64   `json:"active_users"`
	NewUsersThisMonth int64   `json:"new_users_this_month"`
	TotalRevenue      float64 `json:"total_revenue"`
	MonthlyRevenue    float64 `json:"monthly_revenue"`
	TotalProducts     int64   `json:"total_products"`
	LowStockProducts  int64   `json:"low_stock_products"`
	TotalOrders       int64   `json:"total_orders"`
	PendingOrders     int64   `json:"pending_orders"`
	PublishedPosts    int64   `json:"published_posts"`
	UserGrowth        float64 `json:"user_growth"`
	RevenueGrowth     float64 `json:"revenue_growth"`
}

type AdminUserFilter struct {
	utils.PaginationParams
	Role          *models.UserRole   `json:"role,omitempty"`
	Status        *models.UserStatus `json:"status,omitempty"`
	CreatedAfter  *time.Time         `json:"created_after,omitempty"`
	CreatedBefore *time.Time         `json:"created_before,omitempty"`
}

func NewAdminService(db *gorm.DB, notificationService *NotificationService, inventoryService *InventoryService) *AdminService {
	return &AdminService{
		db:                  db,
		notificationService: notificationService,
		inventoryService:    inventoryService,
	}
}

// GetDashboardStats aggregates the console landing-page numbers. Revenue
// counts paid orders only.
func (s *AdminService) GetDashboardStats() (*AdminDashboardStats, error) {
	stats := &AdminDashboardStats{}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	s.db.Model(&models.User{}).Count(&stats.TotalUsers)
	s.db.Model(&models.User{}).Where("status = ?", models.UserStatusActive).Count(&stats.ActiveUsers)
	s.db.Model(&models.User{}).Where("created_at >= ?", monthStart).Count(&stats.NewUsersThisMonth)

	s.db.Model(&models.Order{}).
		Where("payment_status = ?", models.PaymentStatusPaid).
		Select("COALESCE(SUM(total), 0)").Scan(&stats.TotalRevenue)

	s.db.Model(&models.Order{}).
		Where("payment_status = ? AND created_at >= ?", models.PaymentStatusPaid, monthStart).
		Select("COALESCE(SUM(total), 0)").Scan(&stats.MonthlyRevenue)

	s.db.Model(&models.Product{}).Where("status = ?", models.ProductStatusActive).Count(&stats.TotalProducts)

	s.db.Model(&models.Inventory{}).
		Where("quantity - reserved <= low_stock_threshold").
		Count(&stats.LowStockProducts)

	s.db.Model(&models.Order{}).Count(&stats.TotalOrders)
	s.db.Model(&models.Order{}).Where("status = ?", models.OrderStatusPending).Count(&stats.PendingOrders)

	s.db.Model(&models.Post{}).Where("status = ?", models.PostStatusPublished).Count(&stats.PublishedPosts)

	var lastMonthUsers int64
	s.db.Model(&models.User{}).
		Where("created_at >= ? AND created_at < ?", lastMonthStart, monthStart).
		Count(&lastMonthUsers)

	var lastMonthRevenue float64
	s.db.Model(&models.Order{}).
		Where("payment_status = ? AND created_at >= ? AND created_at < ?",
			models.PaymentStatusPaid, lastMonthStart, monthStart).
		Select("COALESCE(SUM(total), 0)").Scan(&lastMonthRevenue)

	if lastMonthUsers > 0 {
		stats.UserGrowth = float64(stats.NewUsersThisMonth-lastMonthUsers) / float64(lastMonthUsers) * 100
	}
	if lastMonthRevenue > 0 {
		stats.RevenueGrowth = (stats.MonthlyRevenue - lastMonthRevenue) / lastMonthRevenue * 100
	}

	return stats, nil
}

// User Management
func (s *AdminService) GetUsers(filter AdminUserFilter) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{})

	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		query = query.Where("username ILIKE ? OR email ILIKE ?", searchTerm, searchTerm)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "username", "email", "role", "status"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	return users, total, nil
}

func (s *AdminService) UpdateUserStatus(userID uuid.UUID, status models.UserStatus, adminID uuid.UUID, reason string) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("user not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	// Admins cannot suspend each other through this path.
	if user.IsAdmin() && user.ID != adminID {
		return errors.New("cannot modify admin user status")
	}

	oldStatus := user.Status
	user.Status = status

	if err := s.db.Save(&user).Error; err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}

	go s.createAuditLog(adminID, "UPDATE_USER_STATUS", "user", &userID,
		map[string]interface{}{"status": oldStatus},
		map[string]interface{}{"status": status, "reason": reason})

	if s.notificationService != nil {
		go s.notificationService.SendUserStatusChangeNotification(&user, oldStatus, reason)
	}

	return nil
}

// UpdateUserRole promotes or demotes an account. The last remaining admin
// cannot be demoted.
func (s *AdminService) UpdateUserRole(userID uuid.UUID, role models.UserRole, adminID uuid.UUID) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("user not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if user.IsAdmin() && role != models.UserRoleAdmin {
		var adminCount int64
		s.db.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&adminCount)
		if adminCount <= 1 {
			return errors.New("cannot demote the last admin")
		}
	}

	oldRole := user.Role
	user.Role = role

	if err := s.db.Save(&user).Error; err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}

	go s.createAuditLog(adminID, "UPDATE_USER_ROLE", "user", &userID,
		map[string]interface{}{"role": oldRole},
		map[string]interface{}{"role": role})

	return nil
}

// Inventory Management

// AdjustInventory applies a manual stock correction on behalf of an admin and
// audit-logs it alongside the ledger entry.
func (s *AdminService) AdjustInventory(productID uuid.UUID, delta int, reason string, adminID uuid.UUID) (*models.Inventory, error) {
	inv, err := s.inventoryService.Adjust(productID, delta, reason, &adminID)
	if err != nil {
		return nil, err
	}

	go s.createAuditLog(adminID, "ADJUST_INVENTORY", "inventory", &inv.ID, nil,
		map[string]interface{}{"delta": delta, "reason": reason})

	return inv, nil
}

// Settings Management
func (s *AdminService) GetSettings() (map[string]models.AdminSettings, error) {
	var settings []models.AdminSettings
	if err := s.db.Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch settings: %w", err)
	}

	settingsMap := make(map[string]models.AdminSettings)
	for _, setting := range settings {
		key := fmt.Sprintf("%s.%s", setting.Category, setting.Key)
		settingsMap[key] = setting
	}

	return settingsMap, nil
}

func (s *AdminService) UpdateSetting(category, key string, value interface{}, dataType string, adminID uuid.UUID) error {
	var setting models.AdminSettings
	err := s.db.Where("category = ? AND key = ?", category, key).First(&setting).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = models.AdminSettings{
			Category:  category,
			Key:       key,
			Value:     models.JSONB{"value": value},
			DataType:  dataType,
			UpdatedBy: adminID,
		}
		if err := s.db.Create(&setting).Error; err != nil {
			return fmt.Errorf("failed to create setting: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("database error: %w", err)
	} else {
		oldValue := setting.Value
		setting.Value = models.JSONB{"value": value}
		setting.DataType = dataType
		setting.UpdatedBy = adminID

		if err := s.db.Save(&setting).Error; err != nil {
			return fmt.Errorf("failed to update setting: %w", err)
		}

		go s.createAuditLog(adminID, "UPDATE_SETTING", "admin_setting", &setting.ID,
			map[string]interface{}{"value": oldValue},
			map[string]interface{}{"value": setting.Value})
	}

	return nil
}

// Analytics and Reporting
func (s *AdminService) GetAnalytics(startDate, endDate time.Time, metrics []string) (map[string]interface{}, error) {
	analytics := make(map[string]interface{})

	for _, metric := range metrics {
		switch metric {
		case "user_registrations":
			var count int64
			s.db.Model(&models.User{}).
				Where("created_at BETWEEN ? AND ?", startDate, endDate).
				Count(&count)
			analytics["user_registrations"] = count

		case "orders":
			var count int64
			s.db.Model(&models.Order{}).
				Where("created_at BETWEEN ? AND ?", startDate, endDate).
				Count(&count)
			analytics["orders"] = count

		case "units_sold":
			var units int64
			s.db.Model(&models.OrderItem{}).
				Joins("JOIN orders ON orders.id = order_items.order_id").
				Where("orders.payment_status = ? AND orders.created_at BETWEEN ? AND ?",
					models.PaymentStatusPaid, startDate, endDate).
				Select("COALESCE(SUM(order_items.quantity), 0)").Scan(&units)
			analytics["units_sold"] = units

		case "revenue":
			var revenue float64
			s.db.Model(&models.Order{}).
				Where("payment_status = ? AND created_at BETWEEN ? AND ?",
					models.PaymentStatusPaid, startDate, endDate).
				Select("COALESCE(SUM(total), 0)").Scan(&revenue)
			analytics["revenue"] = revenue

		case "reviews":
			var count int64
			s.db.Model(&models.Review{}).
				Where("created_at BETWEEN ? AND ?", startDate, endDate).
				Count(&count)
			analytics["reviews"] = count
		}
	}

	return analytics, nil
}

// RecordDailySalesMetrics rolls yesterday's paid orders into sales_metrics.
// Intended to run from a daily scheduler; re-running a day replaces its rows.
func (s *AdminService) RecordDailySalesMetrics(day time.Time) error {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var revenue float64
	s.db.Model(&models.Order{}).
		Where("payment_status = ? AND created_at >= ? AND created_at < ?",
			models.PaymentStatusPaid, dayStart, dayEnd).
		Select("COALESCE(SUM(total), 0)").Scan(&revenue)

	var orderCount int64
	s.db.Model(&models.Order{}).
		Where("payment_status = ? AND created_at >= ? AND created_at < ?",
			models.PaymentStatusPaid, dayStart, dayEnd).
		Count(&orderCount)

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("metric_date = ? AND metric_period = ?", dayStart, "daily").
			Delete(&models.SalesMetric{}).Error; err != nil {
			return fmt.Errorf("failed to clear existing metrics: %w", err)
		}

		metrics := []models.SalesMetric{
			{MetricName: "revenue", MetricValue: revenue, MetricDate: dayStart, MetricPeriod: "daily"},
			{MetricName: "orders", MetricValue: float64(orderCount), MetricDate: dayStart, MetricPeriod: "daily"},
		}
		if err := tx.Create(&metrics).Error; err != nil {
			return fmt.Errorf("failed to record sales metrics: %w", err)
		}
		return nil
	})
}

// Notifications
func (s *AdminService) GetNotifications(params utils.PaginationParams, unreadOnly bool) ([]models.AdminNotification, int64, error) {
	query := s.db.Model(&models.AdminNotification{})
	if unreadOnly {
		query = query.Where("status = ?", models.NotificationStatusUnread)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	allowedSortFields := []string{"created_at", "priority"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var notifications []models.AdminNotification
	if err := query.Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	return notifications, total, nil
}

func (s *AdminService) MarkNotificationRead(notificationID uuid.UUID) error {
	now := time.Now()
	result := s.db.Model(&models.AdminNotification{}).
		Where("id = ?", notificationID).
		Updates(map[string]interface{}{
			"status":  models.NotificationStatusRead,
			"read_at": now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("notification not found")
	}
	return nil
}

// Audit Logs
func (s *AdminService) GetAuditLogs(params utils.PaginationParams) ([]models.AuditLog, int64, error) {
	query := s.db.Model(&models.AuditLog{}).Preload("User")

	if params.Search != "" {
		searchTerm := "%" + params.Search + "%"
		query = query.Where("action ILIKE ? OR resource_type ILIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	allowedSortFields := []string{"created_at", "action", "resource_type"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var logs []models.AuditLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}

	return logs, total, nil
}

func (s *AdminService) createAuditLog(userID uuid.UUID, action, resourceType string, resourceID *uuid.UUID, oldValues, newValues map[string]interface{}) {
	auditLog := &models.AuditLog{
		UserID:       &userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		OldValues:    models.JSONB(oldValues),
		NewValues:    models.JSONB(newValues),
	}

	s.db.Create(auditLog)
}
