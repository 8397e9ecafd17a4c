// internal/handlers/admin.go
package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/merchkit/storefront-backend/internal/i18n"
	"github.com/merchkit/storefront-backend/internal/models"
	"github.com/merchkit/storefront-backend/internal/services"
	"github.com/merchkit/storefront-backend/internal/utils"
)

type AdminHandler struct {
	adminService     *services.AdminService
	inventoryService *services.InventoryService
}

func NewAdminHandler(adminService *services.AdminService, inventoryService *services.InventoryService) *AdminHandler {
	return &AdminHandler{
		adminService:     adminService,
		inventoryService: inventoryService,
	}
}

// GET /admin/dashboard/stats
func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"stats": stats,
	})
}

// GET /admin/users
func (h *AdminHandler) GetUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := services.AdminUserFilter{
		PaginationParams: params,
	}

	if role := c.Query("role"); role != "" {
		uRole := models.UserRole(role)
		filter.Role = &uRole
	}

	if status := c.Query("status"); status != "" {
		uStatus := models.UserStatus(status)
		filter.Status = &uStatus
	}

	if createdAfter := c.Query("created_after"); createdAfter != "" {
		if t, err := time.Parse("2006-01-02", createdAfter); err == nil {
			filter.CreatedAfter = &t
		}
	}

	if createdBefore := c.Query("created_before"); createdBefore != "" {
		if t, err := time.Parse("2006-01-02", createdBefore); err == nil {
			filter.CreatedBefore = &t
		}
	}

	users, total, err := h.adminService.GetUsers(filter)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(users, total, params)
	utils.PaginatedResponse(c, result)
}

// PUT /admin/users/:id/status
func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	adminID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req struct {
		Status models.UserStatus `json:"status" validate:"required"`
		Reason string            `json:"reason,omitempty"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := h.adminService.UpdateUserStatus(userID, req.Status, adminID, req.Reason); err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.KeyUserNotFound)
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAdminActionSuccess),
	})
}

// PUT /admin/users/:id/role
func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	adminID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req struct {
		Role models.UserRole `json:"role" validate:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := h.adminService.UpdateUserRole(userID, req.Role, adminID); err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, i18n.KeyUserNotFound)
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAdminActionSuccess),
	})
}

// POST /admin/inventory/:productId/adjust
func (h *AdminHandler) AdjustInventory(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	adminID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req struct {
		Delta  int    `json:"delta" validate:"required"`
		Reason string `json:"reason" validate:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	inventory, err := h.adminService.AdjustInventory(productID, req.Delta, req.Reason, adminID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInventoryNotFound):
			utils.NotFoundResponse(c, i18n.KeyInventoryNotFound)
		case errors.Is(err, services.ErrInsufficientStock):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyInventoryInsufficient), nil)
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":   i18n.T(lang, i18n.KeyInventoryAdjusted),
		"inventory": inventory,
	})
}

// PUT /admin/inventory/:productId/level
// Sets the counted on-hand total after a stocktake. The ledger records
// the implied delta.
func (h *AdminHandler) SetInventoryLevel(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	adminID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req struct {
		Quantity int    `json:"quantity" validate:"min=0"`
		Reason   string `json:"reason" validate:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	inventory, err := h.inventoryService.SetLevel(productID, req.Quantity, req.Reason, &adminID)
	if err != nil {
		if errors.Is(err, services.ErrInventoryNotFound) {
			utils.NotFoundResponse(c, i18n.KeyInventoryNotFound)
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":   i18n.T(lang, i18n.KeyInventoryAdjusted),
		"inventory": inventory,
	})
}

// GET /admin/inventory/:productId
func (h *AdminHandler) GetInventory(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	inventory, err := h.inventoryService.GetByProduct(productID)
	if err != nil {
		if errors.Is(err, services.ErrInventoryNotFound) {
			utils.NotFoundResponse(c, i18n.KeyInventoryNotFound)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"inventory": inventory})
}

// GET /admin/inventory/:productId/ledger
func (h *AdminHandler) GetInventoryLedger(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	limit := parseLimit(c, 50, 200)

	entries, err := h.inventoryService.GetLedger(productID, limit)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"ledger": entries})
}

// POST /admin/inventory/:productId/reconcile
func (h *AdminHandler) ReconcileInventory(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	result, err := h.inventoryService.Reconcile(productID)
	if err != nil {
		if errors.Is(err, services.ErrInventoryNotFound) {
			utils.NotFoundResponse(c, i18n.KeyInventoryNotFound)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"reconciliation": result})
}

// GET /admin/settings
func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.adminService.GetSettings()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"settings": settings})
}

// PUT /admin/settings
func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req struct {
		Category string      `json:"category" validate:"required"`
		Key      string      `json:"key" validate:"required"`
		Value    interface{} `json:"value" validate:"required"`
		DataType string      `json:"data_type,omitempty"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := h.adminService.UpdateSetting(req.Category, req.Key, req.Value, req.DataType, adminID); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAdminSettingsUpdated),
	})
}

// GET /admin/analytics
func (h *AdminHandler) GetAnalytics(c *gin.Context) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, -1, 0)

	if startStr := c.Query("start_date"); startStr != "" {
		if t, err := time.Parse("2006-01-02", startStr); err == nil {
			startDate = t
		}
	}

	if endStr := c.Query("end_date"); endStr != "" {
		if t, err := time.Parse("2006-01-02", endStr); err == nil {
			endDate = t
		}
	}

	metrics := []string{"user_registrations", "orders", "revenue"}
	if metricsStr := c.Query("metrics"); metricsStr != "" {
		metrics = strings.Split(metricsStr, ",")
	}

	analytics, err := h.adminService.GetAnalytics(startDate, endDate, metrics)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"analytics": analytics})
}

// POST /admin/analytics/record-daily
func (h *AdminHandler) RecordDailySalesMetrics(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	day := time.Now()
	if dayStr := c.Query("day"); dayStr != "" {
		if t, err := time.Parse("2006-01-02", dayStr); err == nil {
			day = t
		}
	}

	if err := h.adminService.RecordDailySalesMetrics(day); err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAdminActionSuccess),
	})
}

// GET /admin/notifications
func (h *AdminHandler) GetNotifications(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	unreadOnly := false
	if v, err := strconv.ParseBool(c.DefaultQuery("unread_only", "false")); err == nil {
		unreadOnly = v
	}

	notifications, total, err := h.adminService.GetNotifications(params, unreadOnly)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(notifications, total, params)
	utils.PaginatedResponse(c, result)
}

// PUT /admin/notifications/:id/read
func (h *AdminHandler) MarkNotificationRead(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid notification ID", nil)
		return
	}

	if err := h.adminService.MarkNotificationRead(notificationID); err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "Notification not found")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeySuccess),
	})
}

// GET /admin/audit-logs
func (h *AdminHandler) GetAuditLogs(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	logs, total, err := h.adminService.GetAuditLogs(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(logs, total, params)
	utils.PaginatedResponse(c, result)
}
