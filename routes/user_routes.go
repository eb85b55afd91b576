package routes

import (
	"github.com/gin-gonic/gin"

	userControllers "github.com/junaidrashid-git/marketplace-api/controllers/user"
	"github.com/junaidrashid-git/marketplace-api/middleware"
)

func registerUserRoutes(r *gin.Engine, deps Deps) {
	users := r.Group("/users")
	{
		users.POST("/register", userControllers.RegisterHandler(deps.DB))
		users.POST("/login", userControllers.LoginHandler(deps.DB))

		me := users.Group("", middleware.ValidateToken())
		{
			me.GET("/me", userControllers.ProfileHandler(deps.DB))
			me.PUT("/me", userControllers.UpdateProfileHandler(deps.DB))
		}
	}

	admin := r.Group("/admin/users", middleware.ValidateToken(), middleware.RequireAdmin())
	{
		admin.GET("", userControllers.ListUsersHandler(deps.DB))
		admin.PUT("/:userID/role", userControllers.UpdateRoleHandler(deps.DB))
	}
}
