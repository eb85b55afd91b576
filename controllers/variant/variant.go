package variantControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/marketplace-api/models"
)

type BindingInput struct {
	AttributeID      uint    `json:"attribute_id" binding:"required"`
	AttributeValueID *uint   `json:"attribute_value_id"`
	CustomValue      *string `json:"custom_value"`
}

type VariantInput struct {
	SKU            *string         `json:"sku"`
	Currency       string          `json:"currency"`
	Price          float64         `json:"price" binding:"required"`
	DiscountPrice  *float64        `json:"discount_price"`
	Prices         models.PriceMap `json:"prices"`
	DiscountPrices models.PriceMap `json:"discount_prices"`
	CountInStock   int             `json:"count_in_stock"`
	MinStockLevel  *int            `json:"min_stock_level"`
	IsActive       *bool           `json:"is_active"`
	IsDefault      bool            `json:"is_default"`
	SortOrder      int             `json:"sort_order"`
	Images         []string        `json:"images"`
	Attributes     []BindingInput  `json:"attributes"`
}

// VariantView augments a variant with its derived pricing and stock signals.
type VariantView struct {
	models.ProductVariant
	EffectivePrice     float64 `json:"effective_price"`
	DiscountPercentage int     `json:"discount_percentage"`
	InStock            bool    `json:"in_stock"`
	LowStock           bool    `json:"low_stock"`
}

func variantView(v *models.ProductVariant) VariantView {
	effective, _ := v.EffectivePrice(v.Currency)
	return VariantView{
		ProductVariant:     *v,
		EffectivePrice:     effective,
		DiscountPercentage: v.DiscountPercentage(v.Currency),
		InStock:            v.InStock(),
		LowStock:           v.LowStock(),
	}
}

// -------- Core Logic --------

// CreateVariant adds a variant to a product the seller owns. Integrity rules
// (discount strictly below price, one binding per attribute) reject the
// write instead of being patched up later; flagging the variant default
// clears the flag on its siblings so at most one default survives.
func CreateVariant(db *gorm.DB, sellerID uint, isAdmin bool, productID uint, in VariantInput) (*models.ProductVariant, error) {
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

	variant := models.ProductVariant{
		ProductID:      productID,
		SKU:            in.SKU,
		Currency:       in.Currency,
		Price:          in.Price,
		DiscountPrice:  in.DiscountPrice,
		Prices:         in.Prices,
		DiscountPrices: in.DiscountPrices,
		CountInStock:   in.CountInStock,
		IsActive:       true,
		IsDefault:      in.IsDefault,
		SortOrder:      in.SortOrder,
		Images:         in.Images,
	}
	if variant.Currency == "" {
		variant.Currency = models.BaseCurrency
	}
	if in.MinStockLevel != nil {
		variant.MinStockLevel = *in.MinStockLevel
	} else {
		variant.MinStockLevel = 5
	}
	if in.IsActive != nil {
		variant.IsActive = *in.IsActive
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&variant).Error; err != nil {
			return err
		}
		if err := applyBindings(tx, &variant, in.Attributes); err != nil {
			return err
		}
		if variant.IsDefault {
			return clearSiblingDefaults(tx, productID, variant.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reloadVariant(db, variant.ID)
}

// UpdateVariant rewrites a variant's fields and bindings.
func UpdateVariant(db *gorm.DB, sellerID uint, isAdmin bool, variantID uint, in VariantInput) (*models.ProductVariant, error) {
	variant, err := reloadVariant(db, variantID)
	if err != nil {
		return nil, err
	}
	var product models.Product
	if err := db.First(&product, variant.ProductID).Error; err != nil {
		return nil, err
	}
	if !isAdmin && product.UserID != sellerID {
		return nil, fmt.Errorf("%w: not your product", models.ErrNotAuthorized)
	}

	variant.SKU = in.SKU
	if in.Currency != "" {
		variant.Currency = in.Currency
	}
	variant.Price = in.Price
	variant.DiscountPrice = in.DiscountPrice
	variant.Prices = in.Prices
	variant.DiscountPrices = in.DiscountPrices
	variant.CountInStock = in.CountInStock
	if in.MinStockLevel != nil {
		variant.MinStockLevel = *in.MinStockLevel
	}
	if in.IsActive != nil {
		variant.IsActive = *in.IsActive
	}
	variant.IsDefault = in.IsDefault
	variant.SortOrder = in.SortOrder
	if in.Images != nil {
		variant.Images = in.Images
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Attributes").Save(variant).Error; err != nil {
			return err
		}
		if in.Attributes != nil {
			if err := tx.Where("variant_id = ?", variant.ID).
				Delete(&models.ProductVariantAttribute{}).Error; err != nil {
				return err
			}
			if err := applyBindings(tx, variant, in.Attributes); err != nil {
				return err
			}
		}
		if variant.IsDefault {
			return clearSiblingDefaults(tx, variant.ProductID, variant.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reloadVariant(db, variant.ID)
}

// applyBindings attaches attribute bindings, rejecting a duplicate attribute
// on the same variant.
func applyBindings(tx *gorm.DB, variant *models.ProductVariant, bindings []BindingInput) error {
	seen := make(map[uint]bool, len(bindings))
	for _, b := range bindings {
		if seen[b.AttributeID] {
			return fmt.Errorf("%w: attribute %d bound twice on variant", models.ErrIntegrity, b.AttributeID)
		}
		seen[b.AttributeID] = true

		var attr models.ProductAttribute
		if err := tx.First(&attr, b.AttributeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: attribute %d", models.ErrNotFound, b.AttributeID)
			}
			return err
		}
		if b.AttributeValueID != nil {
			var value models.AttributeValue
			err := tx.Where("id = ? AND attribute_id = ?", *b.AttributeValueID, b.AttributeID).
				First(&value).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: value %d of attribute %d", models.ErrNotFound, *b.AttributeValueID, b.AttributeID)
				}
				return err
			}
		}

		binding := models.ProductVariantAttribute{
			VariantID:        variant.ID,
			AttributeID:      b.AttributeID,
			AttributeValueID: b.AttributeValueID,
			CustomValue:      b.CustomValue,
		}
		if err := tx.Create(&binding).Error; err != nil {
			return err
		}
	}
	return nil
}

func clearSiblingDefaults(tx *gorm.DB, productID, keepID uint) error {
	return tx.Model(&models.ProductVariant{}).
		Where("product_id = ? AND id <> ? AND is_default = ?", productID, keepID, true).
		UpdateColumn("is_default", false).Error
}

func reloadVariant(db *gorm.DB, variantID uint) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := db.Preload("Attributes.Attribute").
		Preload("Attributes.AttributeValue").
		First(&variant, variantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: variant %d", models.ErrNotFound, variantID)
		}
		return nil, err
	}
	return &variant, nil
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be numeric"})
		return 0, false
	}
	return uint(id64), true
}

// -------- Handlers --------

// GET /variants/:variantID
func GetVariantHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		variantID, ok := paramID(c, "variantID")
		if !ok {
			return
		}
		variant, err := reloadVariant(db, variantID)
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, variantView(variant))
	}
}

// GET /products/:productID/variants
func ListVariantsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := paramID(c, "productID")
		if !ok {
			return
		}
		query := db.Where("product_id = ? AND is_active = ?", productID, true)
		if c.Query("in_stock") == "true" {
			query = query.Where("count_in_stock > 0")
		}
		switch c.Query("sort_by") {
		case "price_asc":
			query = query.Order("price ASC")
		case "price_desc":
			query = query.Order("price DESC")
		case "stock_desc":
			query = query.Order("count_in_stock DESC")
		default:
			query = query.Order("is_default DESC").Order("sort_order ASC")
		}

		var variants []models.ProductVariant
		err := query.Preload("Attributes.Attribute").
			Preload("Attributes.AttributeValue").
			Find(&variants).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		views := make([]VariantView, 0, len(variants))
		for i := range variants {
			views = append(views, variantView(&variants[i]))
		}
		c.JSON(http.StatusOK, views)
	}
}

// GET /variants/:variantID/stock
func StockHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		variantID, ok := paramID(c, "variantID")
		if !ok {
			return
		}
		var variant models.ProductVariant
		if err := db.First(&variant, variantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "variant not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"variant_id":      variant.ID,
			"count_in_stock":  variant.CountInStock,
			"min_stock_level": variant.MinStockLevel,
			"in_stock":        variant.InStock(),
			"low_stock":       variant.LowStock(),
		})
	}
}

// POST /seller/products/:productID/variants
func CreateVariantHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := paramID(c, "productID")
		if !ok {
			return
		}
		var in VariantInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		variant, err := CreateVariant(db, c.GetUint("user_id"), isAdminCtx(c), productID, in)
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, variantView(variant))
	}
}

// PUT /seller/variants/:variantID
func UpdateVariantHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		variantID, ok := paramID(c, "variantID")
		if !ok {
			return
		}
		var in VariantInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		variant, err := UpdateVariant(db, c.GetUint("user_id"), isAdminCtx(c), variantID, in)
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, variantView(variant))
	}
}

// GET /seller/variants/low-stock
func LowStockHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID := c.GetUint("user_id")
		var variants []models.ProductVariant
		err := db.Joins("JOIN products ON products.id = product_variants.product_id").
			Where("products.user_id = ? AND product_variants.is_active = ?", sellerID, true).
			Where("product_variants.count_in_stock <= product_variants.min_stock_level").
			Find(&variants).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, variants)
	}
}

func isAdminCtx(c *gin.Context) bool {
	return c.GetString("role") == string(models.RoleAdmin)
}
