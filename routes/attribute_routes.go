package routes

import (
	"github.com/gin-gonic/gin"

	attributeControllers "github.com/junaidrashid-git/marketplace-api/controllers/attribute"
	"github.com/junaidrashid-git/marketplace-api/middleware"
)

func registerAttributeRoutes(r *gin.Engine, deps Deps) {
	r.GET("/attributes", attributeControllers.ListAttributesHandler(deps.DB))

	admin := r.Group("/admin/attributes", middleware.ValidateToken(), middleware.RequireAdmin())
	{
		admin.POST("", attributeControllers.CreateAttributeHandler(deps.DB))
		admin.POST("/:attributeID/values", attributeControllers.AddValueHandler(deps.DB))
		admin.DELETE("/:attributeID", attributeControllers.DeleteAttributeHandler(deps.DB))
	}
}
