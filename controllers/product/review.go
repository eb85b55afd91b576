package productControllers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/marketplace-api/models"
)

type ReviewInput struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// AddReview writes or replaces the caller's review of a product and refreshes
// the denormalized rating aggregate in the same transaction.
func AddReview(db *gorm.DB, userID, productID uint, in ReviewInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", models.ErrValidation)
	}

	var product models.Product
	if err := db.Where("id = ? AND is_active = ?", productID, true).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", models.ErrNotFound, productID)
		}
		return nil, err
	}

	var review models.Review
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("product_id = ? AND user_id = ?", productID, userID).First(&review).Error
		switch {
		case err == nil:
			review.Rating = in.Rating
			review.Comment = in.Comment
			if err := tx.Save(&review).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			review = models.Review{ProductID: productID, UserID: userID, Rating: in.Rating, Comment: in.Comment}
			if err := tx.Create(&review).Error; err != nil {
				return err
			}
		default:
			return err
		}
		return recomputeProductRating(tx, productID)
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteReview removes the caller's own review and refreshes the aggregate.
func DeleteReview(db *gorm.DB, userID, productID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("product_id = ? AND user_id = ?", productID, userID).
			Delete(&models.Review{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: review of product %d", models.ErrNotFound, productID)
		}
		return recomputeProductRating(tx, productID)
	})
}

func recomputeProductRating(tx *gorm.DB, productID uint) error {
	var agg struct {
		Avg sql.NullFloat64
		Cnt int64
	}
	err := tx.Model(&models.Review{}).
		Select("AVG(rating) AS avg, COUNT(*) AS cnt").
		Where("product_id = ?", productID).
		Scan(&agg).Error
	if err != nil {
		return err
	}
	rating := 0.0
	if agg.Avg.Valid {
		rating = agg.Avg.Float64
	}
	return RecomputeRating(tx, productID, rating, int(agg.Cnt))
}

// -------- Handlers --------

// GET /products/:productID/reviews
func ListReviewsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := paramID(c, "productID")
		if !ok {
			return
		}
		var reviews []models.Review
		err := db.Where("product_id = ?", productID).
			Order("created_at DESC").
			Find(&reviews).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}

// POST /products/:productID/reviews
func AddReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := paramID(c, "productID")
		if !ok {
			return
		}
		var in ReviewInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		review, err := AddReview(db, c.GetUint("user_id"), productID, in)
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, review)
	}
}

// DELETE /products/:productID/reviews
func DeleteReviewHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := paramID(c, "productID")
		if !ok {
			return
		}
		if err := DeleteReview(db, c.GetUint("user_id"), productID); err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
	}
}
