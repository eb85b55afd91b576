package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/junaidrashid-git/marketplace-api/controllers/cart"
	"github.com/junaidrashid-git/marketplace-api/middleware"
)

func registerCartRoutes(r *gin.Engine, deps Deps) {
	cart := r.Group("/cart", middleware.ValidateToken())
	{
		cart.GET("", cartControllers.GetCartHandler(deps.DB))
		cart.POST("/items", cartControllers.AddItemHandler(deps.DB))
		cart.PUT("/items/:itemID", cartControllers.UpdateItemHandler(deps.DB))
		cart.DELETE("/items/:itemID", cartControllers.RemoveItemHandler(deps.DB))
		cart.DELETE("", cartControllers.ClearCartHandler(deps.DB))
	}
}
