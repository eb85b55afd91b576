package productControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/marketplace-api/models"
)

type ProductInput struct {
	Name        string                `json:"name" binding:"required"`
	Description string                `json:"description"`
	Brand       string                `json:"brand"`
	Images      []string              `json:"images"`
	Translation models.TranslationMap `json:"translations"`
	Tags        []string              `json:"tags"`
	IsActive    *bool                 `json:"is_active"`
}

// ProductView augments a product with the data derived from its variants.
type ProductView struct {
	models.Product
	Translated     models.ProductTranslation `json:"translated"`
	PriceMin       float64                   `json:"price_min"`
	PriceMax       float64                   `json:"price_max"`
	TotalStock     int                       `json:"total_stock"`
	DefaultVariant *models.ProductVariant    `json:"default_variant,omitempty"`
}

func productView(p *models.Product, lang string) ProductView {
	view := ProductView{
		Product:        *p,
		Translated:     p.Translated(lang),
		TotalStock:     p.TotalStock(),
		DefaultVariant: p.DefaultVariant(),
	}
	if min, max, ok := p.PriceRange(""); ok {
		view.PriceMin = min
		view.PriceMax = max
	}
	return view
}

// -------- Core Logic --------

func CreateProduct(db *gorm.DB, sellerID uint, in ProductInput) (*models.Product, error) {
	product := models.Product{
		UserID:      sellerID,
		Name:        in.Name,
		Description: in.Description,
		Brand:       in.Brand,
		Images:      in.Images,
		Translation: in.Translation,
		Tags:        in.Tags,
		IsActive:    true,
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	if err := db.Create(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func UpdateProduct(db *gorm.DB, sellerID uint, isAdmin bool, productID uint, in ProductInput) (*models.Product, error) {
	product, err := ownedProduct(db, sellerID, isAdmin, productID)
	if err != nil {
		return nil, err
	}

	product.Name = in.Name
	product.Description = in.Description
	product.Brand = in.Brand
	if in.Images != nil {
		product.Images = in.Images
	}
	if in.Translation != nil {
		product.Translation = in.Translation
	}
	if in.Tags != nil {
		product.Tags = in.Tags
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	if err := db.Omit("Variants").Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct soft-deletes a product; its variants cascade at the
// database level once the row is hard-deleted.
func DeleteProduct(db *gorm.DB, sellerID uint, isAdmin bool, productID uint) error {
	product, err := ownedProduct(db, sellerID, isAdmin, productID)
	if err != nil {
		return err
	}
	return db.Delete(product).Error
}

// ToggleLike flips the caller's like on a product, keeping the count and
// the liker set consistent.
func ToggleLike(db *gorm.DB, userID, productID uint) (*models.Product, error) {
	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", models.ErrNotFound, productID)
		}
		return nil, err
	}

	if product.LikedBy.Contains(userID) {
		next := make(models.UintList, 0, len(product.LikedBy)-1)
		for _, id := range product.LikedBy {
			if id != userID {
				next = append(next, id)
			}
		}
		product.LikedBy = next
	} else {
		product.LikedBy = append(product.LikedBy, userID)
	}
	product.Likes = len(product.LikedBy)

	if err := db.Model(&product).Select("Likes", "LikedBy").Updates(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// RecomputeRating refreshes the denormalized review aggregate. Called by
// the review flow after a review is written or removed.
func RecomputeRating(db *gorm.DB, productID uint, rating float64, numReviews int) error {
	return db.Model(&models.Product{}).Where("id = ?", productID).
		Updates(map[string]interface{}{"rating": rating, "num_reviews": numReviews}).Error
}

func ownedProduct(db *gorm.DB, sellerID uint, isAdmin bool, productID uint) (*models.Product, error) {
	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", models.ErrNotFound, productID)
		}
		return nil, err
	}
	if !isAdmin && product.UserID != sellerID {
		return nil, fmt.Errorf("%w: not your product", models.ErrNotAuthorized)
	}
	return &product, nil
}

// -------- Handlers --------

// GET /products/:productID
func GetProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := paramID(c, "productID")
		if !ok {
			return
		}
		var product models.Product
		err := db.Where("is_active = ?", true).
			Preload("Variants", "is_active = ?", true).
			Preload("Variants.Attributes.Attribute").
			Preload("Variants.Attributes.AttributeValue").
			First(&product, productID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, productView(&product, c.Query("lang")))
	}
}

// GET /products
func ListProductsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Where("is_active = ?", true)
		if tag := c.Query("tag"); tag != "" {
			query = query.Where("tags LIKE ?", "%\""+tag+"\"%")
		}
		if search := c.Query("search"); search != "" {
			query = query.Where("name LIKE ?", "%"+search+"%")
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if limit < 1 || limit > 100 {
			limit = 20
		}

		var products []models.Product
		err := query.Preload("Variants", "is_active = ?", true).
			Order("created_at DESC").
			Offset((page - 1) * limit).Limit(limit).
			Find(&products).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		lang := c.Query("lang")
		views := make([]ProductView, 0, len(products))
		for i := range products {
			views = append(views, productView(&products[i], lang))
		}
		c.JSON(http.StatusOK, gin.H{"page": page, "products": views})
	}
}

// GET /seller/products
func ListSellerProductsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		err := db.Where("user_id = ?", c.GetUint("user_id")).
			Preload("Variants").
			Order("created_at DESC").
			Find(&products).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// POST /seller/products
func CreateProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in ProductInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		product, err := CreateProduct(db, c.GetUint("user_id"), in)
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// PUT /seller/products/:productID
func UpdateProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := paramID(c, "productID")
		if !ok {
			return
		}
		var in ProductInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		product, err := UpdateProduct(db, c.GetUint("user_id"), isAdminCtx(c), productID, in)
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// DELETE /seller/products/:productID
func DeleteProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := paramID(c, "productID")
		if !ok {
			return
		}
		if err := DeleteProduct(db, c.GetUint("user_id"), isAdminCtx(c), productID); err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}

// POST /products/:productID/like
func ToggleLikeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := paramID(c, "productID")
		if !ok {
			return
		}
		product, err := ToggleLike(db, c.GetUint("user_id"), productID)
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"likes": product.Likes, "liked": product.LikedBy.Contains(c.GetUint("user_id"))})
	}
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be numeric"})
		return 0, false
	}
	return uint(id64), true
}

func isAdminCtx(c *gin.Context) bool {
	return c.GetString("role") == string(models.RoleAdmin)
}
