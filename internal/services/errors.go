// internal/services/errors.go
package services

import "errors"

// Sentinel errors callers are expected to match on.
var (
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInsufficientStock   = errors.New("insufficient inventory")
	ErrCartNotFound        = errors.New("cart not found")
	ErrCartItemNotFound    = errors.New("cart item not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrInventoryNotFound   = errors.New("inventory record not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrDiscountNotFound    = errors.New("discount code not found")
	ErrDiscountNotValid    = errors.New("discount code is not valid")
	ErrDiscountExhausted   = errors.New("discount code usage limit reached")
	ErrDuplicateReview     = errors.New("product already reviewed by this user")
	ErrOrderNotCancellable = errors.New("order can no longer be cancelled")
	ErrOrderNotPayable     = errors.New("order is not awaiting payment")
	ErrPaymentMismatch     = errors.New("payment intent does not match order")
)
