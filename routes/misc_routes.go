package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	bannerControllers "github.com/junaidrashid-git/marketplace-api/controllers/banner"
	currencyControllers "github.com/junaidrashid-git/marketplace-api/controllers/currency"
	notificationControllers "github.com/junaidrashid-git/marketplace-api/controllers/notification"
	"github.com/junaidrashid-git/marketplace-api/middleware"
	"github.com/junaidrashid-git/marketplace-api/notifications"
)

func registerMiscRoutes(r *gin.Engine, deps Deps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/banners", bannerControllers.ListBannersHandler(deps.DB))
	r.GET("/currencies", currencyControllers.ListCurrenciesHandler(deps.DB))
	r.GET("/currencies/convert", currencyControllers.ConvertHandler(deps.Currency))

	auth := r.Group("", middleware.ValidateToken())
	{
		auth.GET("/ws/notifications", notifications.ServeWS(deps.Hub))
		auth.GET("/notifications", notificationControllers.ListNotificationsHandler(deps.DB))
		auth.PUT("/notifications/read-all", notificationControllers.MarkAllReadHandler(deps.DB))
		auth.PUT("/notifications/:notificationID/read", notificationControllers.MarkReadHandler(deps.DB))
	}

	admin := r.Group("/admin", middleware.ValidateToken(), middleware.RequireAdmin())
	{
		admin.POST("/banners", bannerControllers.CreateBannerHandler(deps.DB))
		admin.DELETE("/banners/:bannerID", bannerControllers.DeleteBannerHandler(deps.DB))
		admin.PUT("/currencies", currencyControllers.UpsertCurrencyHandler(deps.DB, deps.Currency))
	}

	// Cron surface guarded by a static key rather than a user session.
	ops := r.Group("/ops", middleware.ValidateAPIKey())
	{
		ops.POST("/banners/expire", func(c *gin.Context) {
			n, err := bannerControllers.ExpireBanners(deps.DB, time.Now())
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"expired": n})
		})
	}
}
