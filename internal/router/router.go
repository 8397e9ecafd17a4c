// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/merchkit/storefront-backend/internal/cache"
	"github.com/merchkit/storefront-backend/internal/config"
	"github.com/merchkit/storefront-backend/internal/handlers"
	"github.com/merchkit/storefront-backend/internal/middleware"
	"github.com/merchkit/storefront-backend/internal/services"
	"github.com/merchkit/storefront-backend/internal/utils"
)

func Initialize(db *gorm.DB, cacheClient *cache.Client, cfg *config.Config) *gin.Engine {
	// Initialize services in dependency order
	storageService, _ := services.NewStorageService(cfg)
	notificationService := services.NewNotificationService(db, cfg)
	inventoryService := services.NewInventoryService(db, notificationService)
	guestCartService := services.NewGuestCartService(db, cacheClient.Redis(), &cfg.Cart)
	cartService := services.NewCartService(db, guestCartService)
	discountService := services.NewDiscountService(db)
	orderService := services.NewOrderService(db, cartService, inventoryService, discountService, notificationService)
	paymentService := services.NewPaymentService(db, cfg, orderService, notificationService)
	catalogService := services.NewCatalogService(db, inventoryService)
	postService := services.NewPostService(db, storageService)
	reviewService := services.NewReviewService(db)
	wishlistService := services.NewWishlistService(db)
	authService := services.NewAuthService(db, cfg, notificationService)
	userService := services.NewUserService(db, storageService)
	adminService := services.NewAdminService(db, notificationService, inventoryService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cartService)
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(catalogService, storageService)
	categoryHandler := handlers.NewCategoryHandler(catalogService)
	cartHandler := handlers.NewCartHandler(cartService, guestCartService, discountService)
	orderHandler := handlers.NewOrderHandler(orderService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	postHandler := handlers.NewPostHandler(postService, storageService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)
	discountHandler := handlers.NewDiscountHandler(discountService)
	adminHandler := handlers.NewAdminHandler(adminService, inventoryService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(corsMiddleware(cfg))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GuestSession(cfg))
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
			auth.GET("/verify-email/:token", authHandler.VerifyEmail)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// User routes
		users := v1.Group("/users")
		{
			users.GET("/:id/public", userHandler.GetPublicProfile)

			protected := users.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.PUT("/profile", userHandler.UpdateProfile)
				protected.POST("/upload-avatar", middleware.UploadRateLimit(), userHandler.UploadAvatar)
				protected.DELETE("/account", userHandler.DeleteAccount)
			}
		}

		// Product catalog routes (public, admin sees drafts)
		products := v1.Group("/products")
		{
			products.GET("", middleware.OptionalAuth(), productHandler.GetProducts)
			products.GET("/popular", productHandler.GetPopularProducts)
			products.GET("/featured", productHandler.GetFeaturedProducts)
			products.GET("/slug/:slug", productHandler.GetProductBySlug)
			products.GET("/:id", middleware.OptionalAuth(), productHandler.GetProduct)
			products.GET("/:id/reviews", reviewHandler.ListProductReviews)
		}

		// Category routes
		categories := v1.Group("/categories")
		{
			categories.GET("", middleware.OptionalAuth(), categoryHandler.ListCategories)
			categories.GET("/:id", categoryHandler.GetCategory)
		}

		// Cart routes: authenticated users get their stored cart, guests are
		// served from Redis via the session header.
		cart := v1.Group("/cart")
		cart.Use(middleware.OptionalAuth())
		{
			cart.GET("", cartHandler.GetCart)
			cart.DELETE("", cartHandler.ClearCart)
			cart.POST("/items", cartHandler.AddItem)
			cart.PUT("/items/:id", cartHandler.UpdateItem)
			cart.DELETE("/items/:id", cartHandler.RemoveItem)
			cart.POST("/merge", middleware.AuthRequired(), cartHandler.MergeCart)
			cart.POST("/discount-quote", middleware.AuthRequired(), cartHandler.QuoteDiscount)
		}

		// Order routes
		orders := v1.Group("/orders")
		{
			orders.GET("/track/:number", orderHandler.TrackOrder)

			protected := orders.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("/checkout", middleware.CheckoutRateLimit(), orderHandler.Checkout)
				protected.GET("", orderHandler.ListOrders)
				protected.GET("/:id", orderHandler.GetOrder)
				protected.POST("/:id/cancel", orderHandler.CancelOrder)
			}
		}

		// Payment routes
		payments := v1.Group("/payments")
		payments.Use(middleware.AuthRequired())
		{
			payments.POST("/create-intent", middleware.CheckoutRateLimit(), paymentHandler.CreatePaymentIntent)
			payments.POST("/confirm", paymentHandler.ConfirmPayment)
		}

		// Blog routes
		posts := v1.Group("/posts")
		{
			posts.GET("", middleware.OptionalAuth(), postHandler.GetPosts)
			posts.GET("/slug/:slug", postHandler.GetPostBySlug)
			posts.GET("/:id", middleware.OptionalAuth(), postHandler.GetPost)
		}

		// Review routes
		reviews := v1.Group("/reviews")
		reviews.Use(middleware.AuthRequired())
		{
			reviews.POST("", reviewHandler.CreateReview)
			reviews.PUT("/:id", reviewHandler.UpdateReview)
			reviews.DELETE("/:id", reviewHandler.DeleteReview)
		}

		// Wishlist routes
		wishlist := v1.Group("/wishlist")
		wishlist.Use(middleware.AuthRequired())
		{
			wishlist.GET("", wishlistHandler.ListWishlist)
			wishlist.POST("/:productId", wishlistHandler.AddToWishlist)
			wishlist.DELETE("/:productId", wishlistHandler.RemoveFromWishlist)
			wishlist.GET("/:productId/contains", wishlistHandler.ContainsProduct)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			dashboard := admin.Group("/dashboard")
			{
				dashboard.GET("/stats", adminHandler.GetDashboardStats)
			}

			adminUsers := admin.Group("/users")
			{
				adminUsers.GET("", adminHandler.GetUsers)
				adminUsers.PUT("/:id/status", adminHandler.UpdateUserStatus)
				adminUsers.PUT("/:id/role", adminHandler.UpdateUserRole)
			}

			adminProducts := admin.Group("/products")
			{
				adminProducts.POST("", productHandler.CreateProduct)
				adminProducts.PUT("/:id", productHandler.UpdateProduct)
				adminProducts.DELETE("/:id", productHandler.DeleteProduct)
				adminProducts.POST("/upload-images", middleware.UploadRateLimit(), productHandler.UploadProductImages)
			}

			adminCategories := admin.Group("/categories")
			{
				adminCategories.POST("", categoryHandler.CreateCategory)
				adminCategories.PUT("/:id", categoryHandler.UpdateCategory)
				adminCategories.DELETE("/:id", categoryHandler.DeleteCategory)
			}

			adminInventory := admin.Group("/inventory")
			{
				adminInventory.GET("/:productId", adminHandler.GetInventory)
				adminInventory.POST("/:productId/adjust", adminHandler.AdjustInventory)
				adminInventory.PUT("/:productId/level", adminHandler.SetInventoryLevel)
				adminInventory.GET("/:productId/ledger", adminHandler.GetInventoryLedger)
				adminInventory.POST("/:productId/reconcile", adminHandler.ReconcileInventory)
			}

			adminOrders := admin.Group("/orders")
			{
				adminOrders.GET("", orderHandler.AdminListOrders)
				adminOrders.GET("/:id", orderHandler.AdminGetOrder)
				adminOrders.PUT("/:id/status", orderHandler.UpdateOrderStatus)
			}

			adminDiscounts := admin.Group("/discounts")
			{
				adminDiscounts.GET("", discountHandler.ListDiscounts)
				adminDiscounts.POST("", discountHandler.CreateDiscount)
				adminDiscounts.PUT("/:id", discountHandler.UpdateDiscount)
				adminDiscounts.DELETE("/:id", discountHandler.DeleteDiscount)
			}

			adminPosts := admin.Group("/posts")
			{
				adminPosts.POST("", postHandler.CreatePost)
				adminPosts.PUT("/:id", postHandler.UpdatePost)
				adminPosts.DELETE("/:id", postHandler.DeletePost)
				adminPosts.POST("/:id/publish", postHandler.PublishPost)
				adminPosts.POST("/:id/unpublish", postHandler.UnpublishPost)
				adminPosts.POST("/upload-cover", middleware.UploadRateLimit(), postHandler.UploadCoverImage)
			}

			adminPayments := admin.Group("/payments")
			{
				adminPayments.POST("/refund", paymentHandler.ProcessRefund)
			}

			adminAnalytics := admin.Group("/analytics")
			{
				adminAnalytics.GET("", adminHandler.GetAnalytics)
				adminAnalytics.POST("/record-daily", adminHandler.RecordDailySalesMetrics)
			}

			adminSettings := admin.Group("/settings")
			{
				adminSettings.GET("", adminHandler.GetSettings)
				adminSettings.PUT("", adminHandler.UpdateSetting)
			}

			adminNotifications := admin.Group("/notifications")
			{
				adminNotifications.GET("", adminHandler.GetNotifications)
				adminNotifications.PUT("/:id/read", adminHandler.MarkNotificationRead)
			}

			admin.GET("/audit-logs", adminHandler.GetAuditLogs)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept-Language", cfg.Cart.SessionHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if cfg.Environment == "development" {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = []string{cfg.Frontend.BaseURL}
	}

	return cors.New(corsConfig)
}
