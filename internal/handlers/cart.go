// internal/handlers/cart.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/merchkit/storefront-backend/internal/i18n"
	"github.com/merchkit/storefront-backend/internal/services"
	"github.com/merchkit/storefront-backend/internal/utils"
)

// CartHandler serves both authenticated carts (database backed) and guest
// carts (Redis snapshots keyed by session ID). Routes are registered behind
// OptionalAuth: a valid bearer token selects the user cart, otherwise the
// X-Session-ID header selects the guest one.
type CartHandler struct {
	cartService      *services.CartService
	guestCartService *services.GuestCartService
	discountService  *services.DiscountService
}

func NewCartHandler(cartService *services.CartService, guestCartService *services.GuestCartService, discountService *services.DiscountService) *CartHandler {
	return &CartHandler{
		cartService:      cartService,
		guestCartService: guestCartService,
		discountService:  discountService,
	}
}

// GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	if userID, ok := h.authenticatedUser(c); ok {
		cart, err := h.cartService.GetOrCreateCart(userID)
		if err != nil {
			utils.InternalErrorResponse(c, err.Error())
			return
		}
		utils.SuccessResponse(c, gin.H{"cart": cart})
		return
	}

	sessionID, ok := h.requireSession(c)
	if !ok {
		return
	}

	snapshot, err := h.guestCartService.Get(c.Request.Context(), sessionID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"cart":     snapshot,
		"subtotal": h.guestCartService.Subtotal(snapshot),
	})
}

// POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	if userID, ok := h.authenticatedUser(c); ok {
		cart, err := h.cartService.AddItem(userID, &req)
		if err != nil {
			h.respondCartError(c, lang, err)
			return
		}
		utils.SuccessResponse(c, gin.H{
			"message": i18n.T(lang, i18n.KeyCartItemAdded),
			"cart":    cart,
		})
		return
	}

	sessionID, ok := h.requireSession(c)
	if !ok {
		return
	}

	snapshot, err := h.guestCartService.AddItem(c.Request.Context(), sessionID, req.ProductID, req.Quantity)
	if err != nil {
		h.respondCartError(c, lang, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartItemAdded),
		"cart":    snapshot,
	})
}

// PUT /cart/items/:id
//
// For authenticated carts :id is the cart item ID; for guest carts it is the
// product ID, since guest snapshots key lines by product.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid item ID", nil)
		return
	}

	var req services.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if userID, ok := h.authenticatedUser(c); ok {
		cart, err := h.cartService.UpdateQuantity(userID, id, req.Quantity)
		if err != nil {
			h.respondCartError(c, lang, err)
			return
		}
		utils.SuccessResponse(c, gin.H{
			"message": i18n.T(lang, i18n.KeyCartItemUpdated),
			"cart":    cart,
		})
		return
	}

	sessionID, ok := h.requireSession(c)
	if !ok {
		return
	}

	snapshot, err := h.guestCartService.UpdateQuantity(c.Request.Context(), sessionID, id, req.Quantity)
	if err != nil {
		h.respondCartError(c, lang, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartItemUpdated),
		"cart":    snapshot,
	})
}

// DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid item ID", nil)
		return
	}

	if userID, ok := h.authenticatedUser(c); ok {
		cart, err := h.cartService.RemoveItem(userID, id)
		if err != nil {
			h.respondCartError(c, lang, err)
			return
		}
		utils.SuccessResponse(c, gin.H{
			"message": i18n.T(lang, i18n.KeyCartItemRemoved),
			"cart":    cart,
		})
		return
	}

	sessionID, ok := h.requireSession(c)
	if !ok {
		return
	}

	snapshot, err := h.guestCartService.RemoveItem(c.Request.Context(), sessionID, id)
	if err != nil {
		h.respondCartError(c, lang, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartItemRemoved),
		"cart":    snapshot,
	})
}

// DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	if userID, ok := h.authenticatedUser(c); ok {
		cart, err := h.cartService.Clear(userID)
		if err != nil {
			utils.InternalErrorResponse(c, err.Error())
			return
		}
		utils.SuccessResponse(c, gin.H{
			"message": i18n.T(lang, i18n.KeyCartCleared),
			"cart":    cart,
		})
		return
	}

	sessionID, ok := h.requireSession(c)
	if !ok {
		return
	}

	if err := h.guestCartService.Clear(c.Request.Context(), sessionID); err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartCleared),
	})
}

// POST /cart/merge
func (h *CartHandler) MergeCart(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := h.authenticatedUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	sessionID, exists := utils.GetSessionIDFromContext(c)
	if !exists {
		utils.BadRequestResponse(c, "Missing session ID", nil)
		return
	}

	cart, err := h.cartService.MergeGuestCart(c.Request.Context(), userID, sessionID)
	if err != nil {
		h.respondCartError(c, lang, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartMerged),
		"cart":    cart,
	})
}

// POST /cart/discount-quote
func (h *CartHandler) QuoteDiscount(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := h.authenticatedUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "code"), err.Error())
		return
	}

	cart, err := h.cartService.GetOrCreateCart(userID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	quote, err := h.discountService.Quote(req.Code, userID, cart)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDiscountNotFound):
			utils.NotFoundResponse(c, i18n.KeyDiscountNotFound)
		case errors.Is(err, services.ErrDiscountExhausted):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyDiscountUsedUp), nil)
		case errors.Is(err, services.ErrDiscountNotValid):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyDiscountInvalid), nil)
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyDiscountApplied),
		"quote":   quote,
	})
}

func (h *CartHandler) authenticatedUser(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

func (h *CartHandler) requireSession(c *gin.Context) (string, bool) {
	sessionID, exists := utils.GetSessionIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "Session ID required for guest carts")
		return "", false
	}
	return sessionID, true
}

func (h *CartHandler) respondCartError(c *gin.Context, lang string, err error) {
	switch {
	case errors.Is(err, services.ErrProductNotFound):
		utils.NotFoundResponse(c, i18n.KeyProductNotFound)
	case errors.Is(err, services.ErrCartItemNotFound):
		utils.NotFoundResponse(c, i18n.KeyCartItemNotFound)
	case errors.Is(err, services.ErrCartNotFound):
		utils.NotFoundResponse(c, i18n.KeyCartNotFound)
	case errors.Is(err, services.ErrInsufficientStock):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyProductOutOfStock), nil)
	default:
		utils.BadRequestResponse(c, err.Error(), nil)
	}
}
