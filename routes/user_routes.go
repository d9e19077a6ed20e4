package routes

import (
	"github.com/Govind-619/Threadly/controllers"
	"github.com/Govind-619/Threadly/middleware"
	"github.com/gin-gonic/gin"
)

// initUserRoutes initializes all storefront routes
func initUserRoutes(router *gin.RouterGroup) {
	// Catalog
	router.GET("/products", controllers.ListProducts)
	router.GET("/products/:id", controllers.GetProductDetails)
	router.GET("/fetch", controllers.FetchCatalog)

	// Auth
	user := router.Group("/user")
	{
		user.POST("/register", controllers.RegisterUser)
		user.POST("/verify-otp", controllers.VerifyOTP)
		user.POST("/resend-otp", controllers.ResendOTP)
		user.POST("/login", controllers.LoginUser)
		user.POST("/login/otp", controllers.RequestLoginOTP)
		user.POST("/login/otp/verify", controllers.VerifyLoginOTP)
		user.POST("/forgot-password", controllers.ForgotPassword)
		user.POST("/reset-password", controllers.ResetPassword)
	}

	protected := router.Group("/user")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/me", controllers.GetProfile)
		protected.PUT("/me", controllers.UpdateProfile)
		protected.POST("/logout", controllers.LogoutUser)

		protected.GET("/addresses", controllers.GetAddresses)
		protected.POST("/addresses", controllers.AddAddress)
		protected.GET("/addresses/selected", controllers.GetSelectedAddress)
		protected.PUT("/addresses/:id", controllers.UpdateAddress)
		protected.DELETE("/addresses/:id", controllers.DeleteAddress)
		protected.PUT("/addresses/:id/select", controllers.SelectAddress)
	}

	// Guest cart
	router.POST("/guest-cart/session", controllers.CreateGuestSession)
	guest := router.Group("/guest-cart")
	guest.Use(middleware.GuestSessionMiddleware())
	{
		guest.GET("", controllers.GetGuestCart)
		guest.POST("/add", controllers.AddToGuestCart)
		guest.PUT("/update", controllers.UpdateGuestCartItem)
		guest.DELETE("/remove/:productId", controllers.RemoveFromGuestCart)
		guest.DELETE("/clear", controllers.ClearGuestCart)
	}

	// Cart
	cart := router.Group("/cart")
	cart.Use(middleware.AuthMiddleware())
	{
		cart.GET("", controllers.GetCart)
		cart.POST("/add", controllers.AddToCart)
		cart.PUT("/update", controllers.UpdateCartItem)
		cart.DELETE("/remove/:productId", controllers.RemoveFromCart)
		cart.DELETE("/clear", controllers.ClearCart)
		cart.POST("/merge", controllers.MergeGuestCart)
	}

	// Checkout and orders
	orders := router.Group("/orders")
	orders.Use(middleware.AuthMiddleware())
	{
		orders.GET("/summary", controllers.GetOrderSummary)
		orders.POST("", controllers.PlaceOrder)
		orders.GET("", controllers.GetOrders)
		orders.GET("/:id", controllers.GetOrderDetails)
		orders.GET("/:id/invoice", controllers.DownloadInvoice)
	}

	// Payment
	payment := router.Group("/payment")
	payment.Use(middleware.AuthMiddleware())
	{
		payment.GET("/upi/:orderId", controllers.GetUPIPayment)
		payment.GET("/upi/:orderId/qr", controllers.GetUPIQRCode)
		payment.POST("/verify", controllers.VerifyPayment)
	}
}
