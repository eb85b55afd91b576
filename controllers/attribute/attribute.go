package attributeControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/marketplace-api/models"
)

type AttributeInput struct {
	Name         string `json:"name" binding:"required"`
	DisplayName  string `json:"display_name" binding:"required"`
	Type         string `json:"type"`
	IsRequired   bool   `json:"is_required"`
	IsFilterable *bool  `json:"is_filterable"`
	SortOrder    int    `json:"sort_order"`
	Unit         string `json:"unit"`
	Description  string `json:"description"`
}

type ValueInput struct {
	Value        string `json:"value" binding:"required"`
	DisplayValue string `json:"display_value"`
	ColorCode    string `json:"color_code"`
	ImageURL     string `json:"image_url"`
	SortOrder    int    `json:"sort_order"`
	IsActive     *bool  `json:"is_active"`
}

// -------- Core Logic --------

// CreateAttribute registers a catalog attribute. Names are the unique
// machine keys variants bind against.
func CreateAttribute(db *gorm.DB, in AttributeInput) (*models.ProductAttribute, error) {
	if in.Type == "" {
		in.Type = string(models.AttributeTypeText)
	}
	if !models.ValidAttributeType(in.Type) {
		return nil, fmt.Errorf("%w: unknown attribute type %q", models.ErrValidation, in.Type)
	}

	var existing models.ProductAttribute
	err := db.Where("name = ?", in.Name).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: attribute %q already exists", models.ErrIntegrity, in.Name)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	attr := models.ProductAttribute{
		Name:         in.Name,
		DisplayName:  in.DisplayName,
		Type:         models.AttributeType(in.Type),
		IsRequired:   in.IsRequired,
		IsFilterable: true,
		SortOrder:    in.SortOrder,
		Unit:         in.Unit,
		Description:  in.Description,
	}
	if in.IsFilterable != nil {
		attr.IsFilterable = *in.IsFilterable
	}
	if err := db.Create(&attr).Error; err != nil {
		return nil, err
	}
	return &attr, nil
}

// AddValue appends an enumerated value to an attribute. (attribute, value)
// pairs are unique.
func AddValue(db *gorm.DB, attributeID uint, in ValueInput) (*models.AttributeValue, error) {
	var attr models.ProductAttribute
	if err := db.First(&attr, attributeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: attribute %d", models.ErrNotFound, attributeID)
		}
		return nil, err
	}

	var existing models.AttributeValue
	err := db.Where("attribute_id = ? AND value = ?", attributeID, in.Value).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: value %q already exists on attribute %q", models.ErrIntegrity, in.Value, attr.Name)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	value := models.AttributeValue{
		AttributeID:  attributeID,
		Value:        in.Value,
		DisplayValue: in.DisplayValue,
		ColorCode:    in.ColorCode,
		ImageURL:     in.ImageURL,
		SortOrder:    in.SortOrder,
		IsActive:     true,
	}
	if in.IsActive != nil {
		value.IsActive = *in.IsActive
	}
	if err := db.Create(&value).Error; err != nil {
		return nil, err
	}
	return &value, nil
}

// DeleteAttribute removes an attribute unless variants still bind it.
func DeleteAttribute(db *gorm.DB, attributeID uint) error {
	var bound int64
	if err := db.Model(&models.ProductVariantAttribute{}).
		Where("attribute_id = ?", attributeID).
		Count(&bound).Error; err != nil {
		return err
	}
	if bound > 0 {
		return fmt.Errorf("%w: attribute %d is still bound by %d variant(s)", models.ErrIntegrity, attributeID, bound)
	}
	res := db.Delete(&models.ProductAttribute{}, attributeID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: attribute %d", models.ErrNotFound, attributeID)
	}
	return nil
}

// -------- Handlers --------

// GET /attributes
func ListAttributesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var attrs []models.ProductAttribute
		err := db.Preload("Values", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("sort_order ASC")
		}).Order("sort_order ASC").Find(&attrs).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, attrs)
	}
}

// POST /admin/attributes
func CreateAttributeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in AttributeInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		attr, err := CreateAttribute(db, in)
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, attr)
	}
}

// POST /admin/attributes/:attributeID/values
func AddValueHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		attributeID, ok := paramID(c, "attributeID")
		if !ok {
			return
		}
		var in ValueInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		value, err := AddValue(db, attributeID, in)
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, value)
	}
}

// DELETE /admin/attributes/:attributeID
func DeleteAttributeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		attributeID, ok := paramID(c, "attributeID")
		if !ok {
			return
		}
		if err := DeleteAttribute(db, attributeID); err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Attribute deleted"})
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
