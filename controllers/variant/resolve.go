package variantControllers

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/marketplace-api/models"
)

type ResolveInput struct {
	Attributes map[string]string `json:"attributes" binding:"required"`
}

// AttributeGroup is one attribute with the distinct values the product's
// variants actually offer, for the filter UI.
type AttributeGroup struct {
	ID          uint                  `json:"id"`
	Name        string                `json:"name"`
	DisplayName string                `json:"display_name"`
	Type        models.AttributeType  `json:"type"`
	Unit        string                `json:"unit,omitempty"`
	Values      []AttributeGroupValue `json:"values"`
}

type AttributeGroupValue struct {
	Value        string `json:"value"`
	DisplayValue string `json:"display_value"`
	ColorCode    string `json:"color_code,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
	SortOrder    int    `json:"sort_order"`
}

// -------- Core Logic --------

// ResolveByAttributes finds the single variant of a product matching every
// requested attribute name/value pair. The match is conjunctive, never
// fuzzy. When more than one variant matches, the default-flagged one wins;
// an ambiguous match with no default is a catalog integrity problem, not
// something resolved by silently picking the first row.
func ResolveByAttributes(db *gorm.DB, productID uint, want map[string]string) (*models.ProductVariant, error) {
	if len(want) == 0 {
		return nil, fmt.Errorf("%w: attributes are required", models.ErrValidation)
	}

	variants, err := activeVariants(db, productID)
	if err != nil {
		return nil, err
	}

	var matches []*models.ProductVariant
	for i := range variants {
		if variantMatches(&variants[i], want) {
			matches = append(matches, &variants[i])
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: no variant with the requested attributes", models.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		for _, m := range matches {
			if m.IsDefault {
				return m, nil
			}
		}
		return nil, &models.AmbiguousVariantError{ProductID: productID, Matched: len(matches)}
	}
}

func variantMatches(v *models.ProductVariant, want map[string]string) bool {
	for name, value := range want {
		found := false
		for i := range v.Attributes {
			b := &v.Attributes[i]
			if b.Attribute != nil && b.Attribute.Name == name && b.ResolvedValue() == value {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// AttributeOptions builds the filter view: every filterable attribute bound
// by the product's in-stock active variants, with deduplicated values sorted
// by the catalog sort order.
func AttributeOptions(db *gorm.DB, productID uint) ([]AttributeGroup, error) {
	var variants []models.ProductVariant
	err := db.Where("product_id = ? AND is_active = ? AND count_in_stock > 0", productID, true).
		Preload("Attributes.Attribute").
		Preload("Attributes.AttributeValue").
		Find(&variants).Error
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*AttributeGroup)
	var order []string
	for i := range variants {
		for j := range variants[i].Attributes {
			b := &variants[i].Attributes[j]
			if b.Attribute == nil || !b.Attribute.IsFilterable {
				continue
			}
			name := b.Attribute.Name
			group, ok := groups[name]
			if !ok {
				group = &AttributeGroup{
					ID:          b.Attribute.ID,
					Name:        name,
					DisplayName: b.Attribute.DisplayName,
					Type:        b.Attribute.Type,
					Unit:        b.Attribute.Unit,
				}
				groups[name] = group
				order = append(order, name)
			}

			value := AttributeGroupValue{
				Value:        b.ResolvedValue(),
				DisplayValue: b.ResolvedDisplayValue(),
			}
			if b.AttributeValue != nil {
				value.ColorCode = b.AttributeValue.ColorCode
				value.ImageURL = b.AttributeValue.ImageURL
				value.SortOrder = b.AttributeValue.SortOrder
			}
			duplicate := false
			for _, existing := range group.Values {
				if existing.Value == value.Value {
					duplicate = true
					break
				}
			}
			if !duplicate {
				group.Values = append(group.Values, value)
			}
		}
	}

	result := make([]AttributeGroup, 0, len(order))
	for _, name := range order {
		group := groups[name]
		sort.SliceStable(group.Values, func(i, j int) bool {
			return group.Values[i].SortOrder < group.Values[j].SortOrder
		})
		result = append(result, *group)
	}
	return result, nil
}

func activeVariants(db *gorm.DB, productID uint) ([]models.ProductVariant, error) {
	var variants []models.ProductVariant
	err := db.Where("product_id = ? AND is_active = ?", productID, true).
		Preload("Attributes.Attribute").
		Preload("Attributes.AttributeValue").
		Order("is_default DESC").Order("sort_order ASC").
		Find(&variants).Error
	return variants, err
}

// -------- Handlers --------

// POST /products/:productID/variants/resolve
func ResolveHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := paramID(c, "productID")
		if !ok {
			return
		}
		var in ResolveInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		variant, err := ResolveByAttributes(db, productID, in.Attributes)
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, variantView(variant))
	}
}

// GET /products/:productID/attributes
func AttributeOptionsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := paramID(c, "productID")
		if !ok {
			return
		}
		groups, err := AttributeOptions(db, productID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, groups)
	}
}
