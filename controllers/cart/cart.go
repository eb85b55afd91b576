package cartControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/marketplace-api/models"
)

type AddItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	VariantID uint `json:"variant_id" binding:"required"`
	Qty       int  `json:"qty" binding:"required,min=1"`
}

type UpdateQtyInput struct {
	Qty int `json:"qty" binding:"required,min=1"`
}

// -------- Core Logic --------

// AddItem puts a variant into the user's cart. A variant already present has
// its quantity incremented instead of getting a second row; a fresh row gets
// the point-in-time snapshot of the variant's price, image and attributes.
func AddItem(db *gorm.DB, userID uint, in AddItemInput) (*models.Cart, error) {
	if in.Qty <= 0 {
		return nil, fmt.Errorf("%w: qty must be positive", models.ErrValidation)
	}

	var product models.Product
	if err := db.Where("id = ? AND is_active = ?", in.ProductID, true).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", models.ErrNotFound, in.ProductID)
		}
		return nil, err
	}

	// The variant must belong to the requested product; a variant id from a
	// different product is treated as not found, never silently accepted.
	var variant models.ProductVariant
	err := db.Where("id = ? AND product_id = ? AND is_active = ?", in.VariantID, in.ProductID, true).
		Preload("Attributes.Attribute").
		Preload("Attributes.AttributeValue").
		First(&variant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: variant %d of product %d", models.ErrNotFound, in.VariantID, in.ProductID)
		}
		return nil, err
	}

	cart, err := getOrCreateCart(db, userID)
	if err != nil {
		return nil, err
	}

	var item models.CartItem
	err = db.Where("cart_id = ? AND variant_id = ?", cart.ID, variant.ID).First(&item).Error
	switch {
	case err == nil:
		newQty := item.Qty + in.Qty
		if variant.CountInStock < newQty {
			// Stock may have dropped below what the cart already holds.
			available := variant.CountInStock - item.Qty
			if available < 0 {
				available = 0
			}
			return nil, &models.InsufficientStockError{
				VariantID: variant.ID,
				Requested: in.Qty,
				Available: available,
			}
		}
		item.Qty = newQty
		if err := db.Save(&item).Error; err != nil {
			return nil, err
		}

	case errors.Is(err, gorm.ErrRecordNotFound):
		if variant.CountInStock < in.Qty {
			return nil, &models.InsufficientStockError{
				VariantID: variant.ID,
				Requested: in.Qty,
				Available: variant.CountInStock,
			}
		}
		price, _ := variant.EffectivePrice(variant.Currency)
		item = models.CartItem{
			CartID:        cart.ID,
			ProductID:     product.ID,
			VariantID:     variant.ID,
			Name:          product.Name,
			Image:         itemImage(&variant, &product),
			SKU:           variant.SKU,
			Price:         price,
			OriginalPrice: variant.Price,
			Qty:           in.Qty,
			Attributes:    variant.AttributeMap(),
			AddedAt:       time.Now(),
		}
		if err := db.Create(&item).Error; err != nil {
			return nil, err
		}

	default:
		return nil, err
	}

	return loadCart(db, userID)
}

// UpdateItemQty replaces an item's quantity, revalidating against the
// variant's current stock rather than the add-time snapshot.
func UpdateItemQty(db *gorm.DB, userID, itemID uint, qty int) (*models.Cart, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: qty must be positive", models.ErrValidation)
	}

	cart, item, err := findUserItem(db, userID, itemID)
	if err != nil {
		return nil, err
	}

	var variant models.ProductVariant
	if err := db.First(&variant, item.VariantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: variant %d", models.ErrNotFound, item.VariantID)
		}
		return nil, err
	}
	if variant.CountInStock < qty {
		return nil, &models.InsufficientStockError{
			VariantID: variant.ID,
			Requested: qty,
			Available: variant.CountInStock,
		}
	}

	item.Qty = qty
	if err := db.Save(item).Error; err != nil {
		return nil, err
	}
	return loadCart(db, cart.UserID)
}

// RemoveItem deletes one item from the user's own cart.
func RemoveItem(db *gorm.DB, userID, itemID uint) (*models.Cart, error) {
	cart, item, err := findUserItem(db, userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := db.Delete(item).Error; err != nil {
		return nil, err
	}
	return loadCart(db, cart.UserID)
}

// Clear removes every item from the user's cart.
func Clear(db *gorm.DB, userID uint) error {
	var cart models.Cart
	if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: cart", models.ErrNotFound)
		}
		return err
	}
	return db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
}

func getOrCreateCart(db *gorm.DB, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := db.Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID}
		err = db.Create(&cart).Error
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func loadCart(db *gorm.DB, userID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// findUserItem resolves an item id against the caller's own cart, so one
// user can never touch another user's rows.
func findUserItem(db *gorm.DB, userID, itemID uint) (*models.Cart, *models.CartItem, error) {
	var cart models.Cart
	if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: cart", models.ErrNotFound)
		}
		return nil, nil, err
	}
	var item models.CartItem
	if err := db.Where("id = ? AND cart_id = ?", itemID, cart.ID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: cart item %d", models.ErrNotFound, itemID)
		}
		return nil, nil, err
	}
	return &cart, &item, nil
}

func itemImage(variant *models.ProductVariant, product *models.Product) string {
	if len(variant.Images) > 0 {
		return variant.Images[0]
	}
	if len(product.Images) > 0 {
		return product.Images[0]
	}
	return ""
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

// GET /cart
func GetCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := loadCart(db, c.GetUint("user_id"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusOK, gin.H{"items": []models.CartItem{}})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// POST /cart
func AddItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in AddItemInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		cart, err := AddItem(db, c.GetUint("user_id"), in)
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// PUT /cart/:itemID
func UpdateItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := paramID(c, "itemID")
		if !ok {
			return
		}
		var in UpdateQtyInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		cart, err := UpdateItemQty(db, c.GetUint("user_id"), itemID, in.Qty)
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// DELETE /cart/:itemID
func RemoveItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := paramID(c, "itemID")
		if !ok {
			return
		}
		cart, err := RemoveItem(db, c.GetUint("user_id"), itemID)
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// DELETE /cart
func ClearCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := Clear(db, c.GetUint("user_id")); err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
