// Project Structure Overview
/*
storefront-backend/
├── cmd/
│   └── server/
│       └── main.go
├── internal/
│   ├── config/
│   │   └── config.go
│   ├── models/
│   │   ├── user.go
│   │   ├── product.go
│   │   ├── inventory.go
│   │   ├── cart.go
│   │   ├── order.go
│   │   ├── discount.go
│   │   ├── post.go
│   │   ├── review.go
│   │   ├── admin.go
│   │   └── common.go
│   ├── handlers/
│   │   ├── auth.go
│   │   ├── user.go
│   │   ├── product.go
│   │   ├── category.go
│   │   ├── cart.go
│   │   ├── order.go
│   │   ├── payment.go
│   │   ├── post.go
│   │   ├── review.go
│   │   ├── wishlist.go
│   │   ├── discount.go
│   │   └── admin.go
│   ├── services/
│   │   ├── auth_service.go
│   │   ├── user_service.go
│   │   ├── catalog_service.go
│   │   ├── inventory_service.go
│   │   ├── cart_service.go
│   │   ├── guest_cart_service.go
│   │   ├── order_service.go
│   │   ├── discount_service.go
│   │   ├── payment_service.go
│   │   ├── post_service.go
│   │   ├── review_service.go
│   │   ├── wishlist_service.go
│   │   ├── admin_service.go
│   │   ├── notification_service.go
│   │   └── storage_service.go
│   ├── middleware/
│   │   ├── auth.go
│   │   ├── session.go
│   │   ├── rate_limit.go
│   │   ├── i18n.go
│   │   └── logging.go
│   ├── cache/
│   │   └── redis.go
│   ├── database/
│   │   └── connection.go
│   ├── i18n/
│   │   ├── i18n.go
│   │   ├── locales/
│   │   │   ├── en.json
│   │   │   └── zh_TW.json
│   │   └── keys.go
│   ├── utils/
│   │   ├── jwt.go
│   │   ├── validator.go
│   │   ├── crypto.go
│   │   ├── slug.go
│   │   ├── pagination.go
│   │   └── response.go
│   └── router/
│       └── router.go
├── go.mod
└── go.sum
*/

package storefront

// This file shows the project structure and main entry point
// The actual implementation will be in separate files as shown in the structure above
