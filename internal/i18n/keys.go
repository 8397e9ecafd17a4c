// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess           = "success"
	KeyError             = "error"
	KeyWarning           = "warning"
	KeyInfo              = "info"
	KeyRateLimitExceeded = "rate_limit_exceeded"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserNotFound       = "auth.user_not_found"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthEmailNotVerified   = "auth.email_not_verified"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAuthPasswordReset      = "auth.password_reset"

	// User Management
	KeyUserProfileUpdated = "user.profile_updated"
	KeyUserNotFound       = "user.not_found"
	KeyUserSuspended      = "user.suspended"

	// Products
	KeyProductCreated    = "product.created"
	KeyProductUpdated    = "product.updated"
	KeyProductDeleted    = "product.deleted"
	KeyProductNotFound   = "product.not_found"
	KeyProductOutOfStock = "product.out_of_stock"

	// Categories
	KeyCategoryCreated  = "category.created"
	KeyCategoryUpdated  = "category.updated"
	KeyCategoryDeleted  = "category.deleted"
	KeyCategoryNotFound = "category.not_found"

	// Inventory
	KeyInventoryAdjusted     = "inventory.adjusted"
	KeyInventoryInsufficient = "inventory.insufficient"
	KeyInventoryNotFound     = "inventory.not_found"
	KeyInventoryLowStock     = "inventory.low_stock"

	// Cart
	KeyCartItemAdded    = "cart.item_added"
	KeyCartItemUpdated  = "cart.item_updated"
	KeyCartItemRemoved  = "cart.item_removed"
	KeyCartCleared      = "cart.cleared"
	KeyCartMerged       = "cart.merged"
	KeyCartEmpty        = "cart.empty"
	KeyCartNotFound     = "cart.not_found"
	KeyCartItemNotFound = "cart.item_not_found"

	// Orders
	KeyOrderCreated   = "order.created"
	KeyOrderNotFound  = "order.not_found"
	KeyOrderCancelled = "order.cancelled"
	KeyOrderUpdated   = "order.updated"

	// Discounts
	KeyDiscountCreated  = "discount.created"
	KeyDiscountApplied  = "discount.applied"
	KeyDiscountInvalid  = "discount.invalid"
	KeyDiscountExpired  = "discount.expired"
	KeyDiscountNotFound = "discount.not_found"
	KeyDiscountUsedUp   = "discount.used_up"

	// Posts
	KeyPostCreated   = "post.created"
	KeyPostUpdated   = "post.updated"
	KeyPostDeleted   = "post.deleted"
	KeyPostPublished = "post.published"
	KeyPostNotFound  = "post.not_found"

	// Reviews
	KeyReviewCreated   = "review.created"
	KeyReviewDeleted   = "review.deleted"
	KeyReviewDuplicate = "review.duplicate"
	KeyReviewNotFound  = "review.not_found"

	// Wishlist
	KeyWishlistAdded    = "wishlist.added"
	KeyWishlistRemoved  = "wishlist.removed"
	KeyWishlistNotFound = "wishlist.not_found"

	// Payments
	KeyPaymentSuccess       = "payment.success"
	KeyPaymentFailed        = "payment.failed"
	KeyPaymentPending       = "payment.pending"
	KeyPaymentRefunded      = "payment.refunded"
	KeyPaymentInvalidAmount = "payment.invalid_amount"

	// Admin
	KeyAdminActionSuccess   = "admin.action_success"
	KeyAdminAccessDenied    = "admin.access_denied"
	KeyAdminUserSuspended   = "admin.user_suspended"
	KeyAdminUserUnsuspended = "admin.user_unsuspended"
	KeyAdminSettingsUpdated = "admin.settings_updated"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationTooShort = "validation.too_short"
	KeyValidationTooLong  = "validation.too_long"
	KeyValidationEmail    = "validation.invalid_email"
	KeyValidationPassword = "validation.invalid_password"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"

	// Notifications
	KeyNotificationSent   = "notification.sent"
	KeyNotificationFailed = "notification.failed"
)
