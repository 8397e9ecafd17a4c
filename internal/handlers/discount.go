// internal/handlers/discount.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/merchkit/storefront-backend/internal/i18n"
	"github.com/merchkit/storefront-backend/internal/services"
	"github.com/merchkit/storefront-backend/internal/utils"
)

// DiscountHandler exposes the admin surface of promotion codes. Customers
// interact with discounts through the cart quote and checkout endpoints.
type DiscountHandler struct {
	discountService *services.DiscountService
}

func NewDiscountHandler(discountService *services.DiscountService) *DiscountHandler {
	return &DiscountHandler{discountService: discountService}
}

// GET /admin/discounts
func (h *DiscountHandler) ListDiscounts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	discounts, total, err := h.discountService.ListDiscounts(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(discounts, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /admin/discounts
func (h *DiscountHandler) CreateDiscount(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	discount, err := h.discountService.CreateDiscount(&req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyDiscountCreated),
		"discount": discount,
	})
}

// PUT /admin/discounts/:id
func (h *DiscountHandler) UpdateDiscount(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid discount ID", nil)
		return
	}

	var req services.UpdateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	discount, err := h.discountService.UpdateDiscount(id, &req)
	if err != nil {
		if errors.Is(err, services.ErrDiscountNotFound) {
			utils.NotFoundResponse(c, i18n.KeyDiscountNotFound)
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeySuccess),
		"discount": discount,
	})
}

// DELETE /admin/discounts/:id
func (h *DiscountHandler) DeleteDiscount(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid discount ID", nil)
		return
	}

	if err := h.discountService.DeleteDiscount(id); err != nil {
		if errors.Is(err, services.ErrDiscountNotFound) {
			utils.NotFoundResponse(c, i18n.KeyDiscountNotFound)
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeySuccess),
	})
}
