package routes

import (
	"github.com/gin-gonic/gin"

	variantControllers "github.com/junaidrashid-git/marketplace-api/controllers/variant"
	"github.com/junaidrashid-git/marketplace-api/middleware"
)

func registerVariantRoutes(r *gin.Engine, deps Deps) {
	products := r.Group("/products/:productID")
	{
		products.GET("/variants", variantControllers.ListVariantsHandler(deps.DB))
		products.GET("/attributes", variantControllers.AttributeOptionsHandler(deps.DB))
		products.POST("/variants/resolve", variantControllers.ResolveHandler(deps.DB))
	}

	variants := r.Group("/variants")
	{
		variants.GET("/:variantID", variantControllers.GetVariantHandler(deps.DB))
		variants.GET("/:variantID/stock", variantControllers.StockHandler(deps.DB))
	}

	seller := r.Group("/seller", middleware.ValidateToken(), middleware.RequireSeller())
	{
		seller.POST("/products/:productID/variants", variantControllers.CreateVariantHandler(deps.DB))
		seller.PUT("/variants/:variantID", variantControllers.UpdateVariantHandler(deps.DB))
		seller.GET("/variants/low-stock", variantControllers.LowStockHandler(deps.DB))
	}
}
