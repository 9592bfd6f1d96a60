package routes

import (
	"time"

	"velora-backend/gueststate"
	"velora-backend/handlers"
	"velora-backend/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, guestStorage gueststate.Storage) {
	// Initialize handlers
	authHandler := &handlers.AuthHandler{DB: db, GuestStorage: guestStorage}
	productHandler := &handlers.ProductHandler{DB: db}
	categoryHandler := &handlers.CategoryHandler{DB: db}
	cartHandler := &handlers.CartHandler{DB: db}
	wishlistHandler := &handlers.WishlistHandler{DB: db}
	guestHandler := &handlers.GuestHandler{DB: db, Storage: guestStorage}
	orderHandler := &handlers.OrderHandler{DB: db}
	settingsHandler := &handlers.SettingsHandler{DB: db}

	// Throttle auth and OTP endpoints
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	api := r.Group("/api/v1")

	// Auth routes
	auth := api.Group("/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/signup/", authHandler.Signup)
		auth.POST("/verify-otp/", authHandler.VerifyOTP)
		auth.POST("/resend-otp/", authHandler.ResendOTP)
		auth.POST("/login/", authHandler.Login)
		auth.POST("/refresh/", authHandler.RefreshTokenHandler)
		auth.POST("/forgot-password/", authHandler.ForgotPassword)
		auth.POST("/reset-password/", authHandler.ResetPassword)
	}

	// Public catalog routes
	{
		api.GET("/product/item/", productHandler.GetProducts)
		api.GET("/product/item/:id/", productHandler.GetProduct)
		api.GET("/category/", categoryHandler.GetCategories)
		api.GET("/category/:id/", categoryHandler.GetCategory)
		api.GET("/delivery-info/", settingsHandler.GetDeliveryInfo)
	}

	// Guest routes (no auth; state keyed by an opaque session id)
	guest := api.Group("/guest")
	{
		guest.POST("/session/", guestHandler.CreateSession)
		guest.GET("/:guestId/cart/", guestHandler.GetCart)
		guest.POST("/:guestId/cart/", guestHandler.AddCartItem)
		guest.DELETE("/:guestId/cart/", guestHandler.ClearCart)
		guest.PATCH("/:guestId/cart/:productId/:sizeId/", guestHandler.UpdateCartItem)
		guest.DELETE("/:guestId/cart/:productId/:sizeId/", guestHandler.RemoveCartItem)
		guest.GET("/:guestId/wishlist/", guestHandler.GetWishlist)
		guest.POST("/:guestId/wishlist/toggle/", guestHandler.ToggleWishlist)
	}

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/profile/", authHandler.GetProfile)
		protected.PATCH("/auth/profile/", authHandler.UpdateProfile)
		protected.POST("/auth/change-password/", authHandler.ChangePassword)

		protected.GET("/cart/", cartHandler.GetCart)
		protected.POST("/cart/", cartHandler.AddItem)
		protected.DELETE("/cart/", cartHandler.ClearCart)
		protected.PATCH("/cart/:cartUid/items/:itemId/", cartHandler.UpdateItem)
		protected.DELETE("/cart/:cartUid/items/:itemId/", cartHandler.RemoveItem)

		protected.GET("/wishlist/", wishlistHandler.GetWishlist)
		protected.POST("/wishlist/", wishlistHandler.AddItem)
		protected.DELETE("/wishlist/:id/", wishlistHandler.RemoveItem)
		protected.POST("/wishlist/toggle/", wishlistHandler.Toggle)

		protected.POST("/orders/", orderHandler.CreateOrder)
		protected.GET("/orders/", orderHandler.GetOrders)
		protected.GET("/orders/:id/", orderHandler.GetOrder)
		protected.POST("/orders/:id/cancel/", orderHandler.CancelOrder)
	}

	// Admin routes (require admin role)
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	admin.Use(middleware.AdminMiddleware())
	{
		admin.POST("/product/item/", productHandler.CreateProduct)
		admin.PATCH("/product/item/:id/", productHandler.UpdateProduct)
		admin.DELETE("/product/item/:id/", productHandler.DeleteProduct)
		admin.POST("/product/item/:id/sizes/", productHandler.AddSize)
		admin.PATCH("/product/item/:id/sizes/:sizeId/", productHandler.UpdateSize)
		admin.DELETE("/product/item/:id/sizes/:sizeId/", productHandler.DeleteSize)
		admin.POST("/product/item/:id/images/", productHandler.AddImage)
		admin.DELETE("/product/item/:id/images/:imageId/", productHandler.DeleteImage)

		admin.POST("/category/", categoryHandler.CreateCategory)
		admin.PATCH("/category/:id/", categoryHandler.UpdateCategory)
		admin.DELETE("/category/:id/", categoryHandler.DeleteCategory)

		admin.GET("/orders/", orderHandler.GetOrders)
		admin.GET("/orders/:id/", orderHandler.GetOrder)
		admin.PATCH("/orders/:id/status/", orderHandler.UpdateOrderStatus)
		admin.GET("/orders/transitions/", orderHandler.GetOrderTransitions)

		admin.GET("/users/", authHandler.ListUsers)
		admin.PATCH("/users/:id/", authHandler.UpdateUser)

		admin.GET("/settings/", settingsHandler.GetSettings)
		admin.PATCH("/settings/", settingsHandler.UpdateSettings)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
