package bannerControllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/marketplace-api/models"
)

type BannerInput struct {
	Title     string     `json:"title" binding:"required"`
	ImageURL  string     `json:"image_url" binding:"required"`
	Link      string     `json:"link"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// ExpireBanners deactivates every active banner whose expiry has passed.
// Returns how many rows were flipped.
func ExpireBanners(db *gorm.DB, now time.Time) (int64, error) {
	res := db.Model(&models.Banner{}).
		Where("is_active = ? AND expires_at IS NOT NULL AND expires_at < ?", true, now).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

// -------- Handlers --------

// GET /banners
func ListBannersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var banners []models.Banner
		err := db.Where("is_active = ?", true).
			Where("expires_at IS NULL OR expires_at >= ?", time.Now()).
			Order("created_at DESC").
			Find(&banners).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, banners)
	}
}

// POST /admin/banners
func CreateBannerHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in BannerInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		banner := models.Banner{
			Title:     in.Title,
			ImageURL:  in.ImageURL,
			Link:      in.Link,
			IsActive:  true,
			ExpiresAt: in.ExpiresAt,
		}
		if err := db.Create(&banner).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, banner)
	}
}

// DELETE /admin/banners/:bannerID
func DeleteBannerHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Delete(&models.Banner{}, "id = ?", c.Param("bannerID"))
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "banner not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Banner deleted"})
	}
}
