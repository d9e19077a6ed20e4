package routes

import (
	"github.com/Govind-619/Threadly/controllers"
	"github.com/Govind-619/Threadly/middleware"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes all back-office routes
func initAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	{
		admin.POST("/login", controllers.AdminLogin)

		protected := admin.Group("")
		protected.Use(middleware.AdminAuthMiddleware())
		{
			protected.GET("/session", controllers.AdminSession)
			protected.POST("/logout", controllers.LogoutUser)
			protected.GET("/dashboard", controllers.GetDashboardOverview)
			protected.GET("/audit-logs", controllers.AdminListAuditLogs)

			users := protected.Group("/users")
			{
				users.GET("", controllers.AdminListUsers)
				users.PATCH("/:id/block", controllers.AdminSetUserBlocked)
			}

			products := protected.Group("/products")
			{
				products.GET("", controllers.AdminListProducts)
				products.POST("", controllers.AdminCreateProduct)
				products.POST("/bulk-delete", controllers.AdminBulkDeleteProducts)
				products.PATCH("/bulk-update", controllers.AdminBulkUpdateProducts)
				products.PUT("/:id", controllers.AdminUpdateProduct)
				products.DELETE("/:id", controllers.AdminDeleteProduct)
			}

			orders := protected.Group("/orders")
			{
				orders.GET("", controllers.AdminListOrders)
				orders.GET("/export", controllers.AdminExportOrders)
				orders.PATCH("/bulk-status", controllers.AdminBulkUpdateOrderStatus)
				orders.POST("/bulk-delete", controllers.AdminBulkDeleteOrders)
				orders.GET("/:id", controllers.AdminGetOrder)
				orders.PATCH("/:id/status", controllers.AdminUpdateOrderStatus)
			}
		}
	}
}
