package routes

import (
	"modessa_back_end/internal/handlers/admin"
	"modessa_back_end/internal/handlers/product"
	"modessa_back_end/internal/handlers/user"
	"modessa_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	api.Use(middleware.APIRateLimit())

	// Auth
	auth := api.Group("/auth")
	{
		auth.POST("/register", user.Register)
		auth.POST("/login", middleware.LoginRateLimit(), user.Login)
		auth.POST("/logout", user.Logout)
		auth.GET("/check-session", middleware.AuthOptional(), user.CheckSession)
	}

	// Panier (toutes les routes exigent une session)
	cart := api.Group("/cart")
	cart.Use(middleware.AuthRequired())
	{
		cart.GET("", user.GetCart)
		cart.PUT("", middleware.CartRateLimit(), user.ReplaceCart)
		cart.DELETE("", user.ClearCart)
		cart.GET("/ws", user.CartWebSocket)
	}

	// Catalogue (public)
	products := api.Group("/products")
	{
		products.GET("", product.GetAllProducts)
		products.GET("/search", middleware.SearchRateLimit(), product.SearchProducts)
		products.GET("/:id", product.GetProductByID)
		products.GET("/:id/variants", product.ListVariants)
	}
	api.GET("/categories", product.GetAllCategories)
	api.GET("/categories/:id/products", product.GetProductsByCategory)

	// Commandes
	orders := api.Group("/orders")
	orders.Use(middleware.AuthRequired())
	{
		orders.GET("", user.GetMyOrders)
		orders.GET("/:id", user.GetOrderByID)
		orders.POST("/:id/reorder", user.Reorder)
	}
	api.POST("/checkout", middleware.AuthRequired(), user.Checkout)

	// Wishlist
	wishlist := api.Group("/wishlist")
	wishlist.Use(middleware.AuthRequired())
	{
		wishlist.GET("", user.GetWishlist)
		wishlist.POST("/:productId", user.AddToWishlist)
		wishlist.DELETE("/:productId", user.RemoveFromWishlist)
	}

	// Adresses
	addresses := api.Group("/addresses")
	addresses.Use(middleware.AuthRequired())
	{
		addresses.GET("", user.ListMyAddresses)
		addresses.POST("", user.CreateAddress)
		addresses.POST("/:id/default", user.MakeDefaultAddress)
		addresses.DELETE("/:id", user.DeleteAddress)
	}

	// Back-office
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AuthRequired(), middleware.RequireAdmin)
	{
		adminGroup.GET("/dashboard", admin.Dashboard)
		adminGroup.GET("/orders", admin.ListOrders)
		adminGroup.PATCH("/orders/:id/status", admin.UpdateOrderStatus)
		adminGroup.GET("/orders/:id/invoice", admin.DownloadInvoice)
		adminGroup.GET("/users", admin.ListUsers)
		adminGroup.PATCH("/users/:id/role", admin.UpdateUserRole)
		adminGroup.DELETE("/users/:id", admin.DeleteUser)

		adminGroup.POST("/products", product.CreateProduct)
		adminGroup.PUT("/products/:id", product.UpdateProduct)
		adminGroup.DELETE("/products/:id", product.DeleteProduct)
		adminGroup.PUT("/products/:id/variants", product.UpsertVariant)
		adminGroup.PATCH("/products/:id/variants/stock", product.SetVariantStock)
		adminGroup.POST("/products/:id/images", product.UploadImage)
		adminGroup.POST("/categories", product.CreateCategory)
	}
}
