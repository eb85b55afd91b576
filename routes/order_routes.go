package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/junaidrashid-git/marketplace-api/controllers/order"
	"github.com/junaidrashid-git/marketplace-api/middleware"
)

func registerOrderRoutes(r *gin.Engine, deps Deps) {
	orders := r.Group("/orders", middleware.ValidateToken())
	{
		orders.POST("", orderControllers.CreateOrderHandler(deps.DB, deps.Bus, deps.Currency))
		orders.GET("/my", orderControllers.GetMyOrdersHandler(deps.DB))
		orders.GET("/:orderID", orderControllers.GetOrderHandler(deps.DB))
		orders.PUT("/:orderID/pay", orderControllers.MarkPaidHandler(deps.DB, deps.Bus))
		orders.PUT("/:orderID/deliver", orderControllers.MarkDeliveredHandler(deps.DB, deps.Bus))
	}

	seller := r.Group("/seller/orders", middleware.ValidateToken(), middleware.RequireSeller())
	{
		seller.GET("", orderControllers.GetSellerOrdersHandler(deps.DB))
	}

	admin := r.Group("/admin/orders", middleware.ValidateToken(), middleware.RequireAdmin())
	{
		admin.GET("", orderControllers.GetAllOrdersHandler(deps.DB))
		admin.PUT("/:orderID/status", orderControllers.UpdateStatusHandler(deps.DB, deps.Bus))
	}
}
