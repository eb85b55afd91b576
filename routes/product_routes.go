package routes

import (
	"github.com/gin-gonic/gin"

	productControllers "github.com/junaidrashid-git/marketplace-api/controllers/product"
	"github.com/junaidrashid-git/marketplace-api/middleware"
)

func registerProductRoutes(r *gin.Engine, deps Deps) {
	products := r.Group("/products")
	{
		products.GET("", productControllers.ListProductsHandler(deps.DB))
		products.GET("/:productID", productControllers.GetProductHandler(deps.DB))
		products.POST("/:productID/like", middleware.ValidateToken(), productControllers.ToggleLikeHandler(deps.DB))
		products.GET("/:productID/reviews", productControllers.ListReviewsHandler(deps.DB))
		products.POST("/:productID/reviews", middleware.ValidateToken(), productControllers.AddReviewHandler(deps.DB))
		products.DELETE("/:productID/reviews", middleware.ValidateToken(), productControllers.DeleteReviewHandler(deps.DB))
	}

	seller := r.Group("/seller/products", middleware.ValidateToken(), middleware.RequireSeller())
	{
		seller.GET("", productControllers.ListSellerProductsHandler(deps.DB))
		seller.POST("", productControllers.CreateProductHandler(deps.DB))
		seller.PUT("/:productID", productControllers.UpdateProductHandler(deps.DB))
		seller.DELETE("/:productID", productControllers.DeleteProductHandler(deps.DB))
	}
}
