package notificationControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/marketplace-api/models"
)

// GET /notifications
func ListNotificationsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		query := db.Where("user_id = ?", userID)
		if c.Query("unread") == "true" {
			query = query.Where("is_read = ?", false)
		}
		var notifications []models.Notification
		if err := query.Order("created_at DESC").Limit(100).Find(&notifications).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, notifications)
	}
}

// PUT /notifications/:notificationID/read
func MarkReadHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Model(&models.Notification{}).
			Where("id = ? AND user_id = ?", c.Param("notificationID"), c.GetUint("user_id")).
			Update("is_read", true)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Marked as read"})
	}
}

// PUT /notifications/read-all
func MarkAllReadHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := db.Model(&models.Notification{}).
			Where("user_id = ? AND is_read = ?", c.GetUint("user_id"), false).
			Update("is_read", true).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "All marked as read"})
	}
}
