package routes

import (
	"github.com/gin-gonic/gin"

	"resto-api/controllers"
	"resto-api/middlewares"
)

func RegisterRoutes(r *gin.Engine) {

	r.POST("/login", controllers.Login)

	// Catalog (reads open to all staff, writes admin/manager)
	catalog := r.Group("/catalog")
	catalog.Use(middlewares.AuthMiddleware())
	{
		catalog.GET("/products", controllers.GetProducts)
		catalog.GET("/products/:id", controllers.GetProductByID)
		catalog.GET("/products/:id/cost", controllers.GetProductCost)
		catalog.GET("/ingredients", controllers.GetIngredients)
		catalog.GET("/preparations", controllers.GetPreparations)

		admin := catalog.Group("")
		admin.Use(middlewares.RoleMiddleware("admin", "manager"))
		{
			admin.POST("/products", controllers.CreateProduct)
			admin.PUT("/products/:id", controllers.UpdateProduct)
			admin.DELETE("/products/:id", controllers.DeleteProduct)
			admin.POST("/ingredients", controllers.CreateIngredient)
			admin.PUT("/ingredients/:id", controllers.UpdateIngredient)
			admin.POST("/preparations", controllers.CreatePreparation)
		}
	}

	// Orders
	orders := r.Group("/orders")
	orders.Use(middlewares.AuthMiddleware())
	{
		orders.POST("/", controllers.CreateOrder)
		orders.GET("/", controllers.ListOrders)
		orders.GET("/:id", controllers.GetOrder)
		orders.PATCH("/:id", controllers.UpdateOrder)
		orders.POST("/:id/accept", controllers.AcceptOrder)
		orders.POST("/:id/reject", controllers.RejectOrder)
		orders.POST("/:id/cancel", controllers.CancelOrder)
		orders.POST("/:id/deliver", controllers.DeliverOrder)
		orders.POST("/:id/checkout", controllers.CheckoutOrder)
	}

	// Sales
	sales := r.Group("/sales")
	sales.Use(middlewares.AuthMiddleware())
	{
		sales.GET("/", controllers.ListSales)
		sales.GET("/:id", controllers.GetSale)
		sales.POST("/from-order/:orderId", controllers.CreateSaleFromOrder)
		sales.POST("/:id/pay", controllers.PaySale)
		sales.POST("/:id/void", controllers.VoidSale)
	}

	// Stock ledger
	stock := r.Group("/stock")
	stock.Use(middlewares.AuthMiddleware())
	{
		stock.GET("/balances", controllers.GetStockBalances)
		stock.GET("/movements", controllers.GetStockMovements)
		stock.POST("/manual", middlewares.RoleMiddleware("admin", "manager"), controllers.CreateManualMovements)
		stock.POST("/movements/:id/reverse", middlewares.RoleMiddleware("admin", "manager"), controllers.ReverseStockMovement)
	}

	// Cash sessions
	cash := r.Group("/cash-sessions")
	cash.Use(middlewares.AuthMiddleware())
	{
		cash.POST("/", controllers.OpenCashSession)
		cash.GET("/current", controllers.GetCurrentCashSession)
		cash.POST("/close", controllers.CloseCashSession)
	}

	// Attendance (admin only)
	attendance := r.Group("/attendance")
	attendance.Use(middlewares.AuthMiddleware(), middlewares.RoleMiddleware("admin"))
	{
		attendance.GET("/", controllers.GetAttendances)
		attendance.POST("/", controllers.CreateAttendance)
		attendance.GET("/today", controllers.GetTodayAttendance)
		attendance.GET("/history", controllers.GetAttendanceHistory)
	}

	// Weekly updates (admin + manager)
	updates := r.Group("/updates")
	updates.Use(middlewares.AuthMiddleware(), middlewares.RoleMiddleware("admin", "manager"))
	{
		updates.GET("/", controllers.ListUpdateThreads)
		updates.POST("/", controllers.CreateUpdateThread)
		updates.POST("/:id/messages", controllers.ReplyUpdateThread)
	}

	// Dashboard
	dashboard := r.Group("/dashboard")
	dashboard.Use(middlewares.AuthMiddleware())
	{
		dashboard.GET("/", controllers.GetDashboard)
	}

	// Users (admin only)
	users := r.Group("/users")
	users.Use(middlewares.AuthMiddleware(), middlewares.RoleMiddleware("admin"))
	{
		users.GET("/", controllers.GetUsers)
	}
}
