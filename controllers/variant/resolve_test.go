package variantControllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/marketplace-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.Product{}, &models.ProductVariant{},
		&models.ProductAttribute{}, &models.AttributeValue{}, &models.ProductVariantAttribute{},
	))
	return db
}

// seedShirt builds a product with a color and size attribute and three
// variants: red/M, red/L, blue/M.
func seedShirt(t *testing.T, db *gorm.DB) (models.Product, map[string]models.ProductVariant) {
	t.Helper()

	product := models.Product{UserID: 1, Name: "Shirt", IsActive: true}
	require.NoError(t, db.Create(&product).Error)

	color := models.ProductAttribute{Name: "color", DisplayName: "Color", Type: models.AttributeTypeColor, IsFilterable: true}
	size := models.ProductAttribute{Name: "size", DisplayName: "Size", Type: models.AttributeTypeSize, IsFilterable: true}
	require.NoError(t, db.Create(&color).Error)
	require.NoError(t, db.Create(&size).Error)

	values := map[string]models.AttributeValue{}
	for _, v := range []struct {
		attrID uint
		value  string
		sort   int
	}{
		{color.ID, "red", 1}, {color.ID, "blue", 2},
		{size.ID, "M", 1}, {size.ID, "L", 2},
	} {
		av := models.AttributeValue{AttributeID: v.attrID, Value: v.value, SortOrder: v.sort, IsActive: true}
		require.NoError(t, db.Create(&av).Error)
		values[v.value] = av
	}

	variants := map[string]models.ProductVariant{}
	for _, combo := range []struct {
		key   string
		color string
		size  string
		stock int
	}{
		{"red-M", "red", "M", 10},
		{"red-L", "red", "L", 4},
		{"blue-M", "blue", "M", 0},
	} {
		variant := models.ProductVariant{
			ProductID: product.ID, Currency: "UZS", Price: 100000,
			CountInStock: combo.stock, IsActive: true,
		}
		require.NoError(t, db.Create(&variant).Error)
		for _, value := range []models.AttributeValue{values[combo.color], values[combo.size]} {
			valueID := value.ID
			binding := models.ProductVariantAttribute{
				VariantID: variant.ID, AttributeID: value.AttributeID, AttributeValueID: &valueID,
			}
			require.NoError(t, db.Create(&binding).Error)
		}
		variants[combo.key] = variant
	}
	return product, variants
}

func TestResolveByAttributesExactMatch(t *testing.T) {
	db := newTestDB(t)
	product, variants := seedShirt(t, db)

	got, err := ResolveByAttributes(db, product.ID, map[string]string{"color": "red", "size": "L"})
	require.NoError(t, err)
	assert.Equal(t, variants["red-L"].ID, got.ID)
}

func TestResolveByAttributesNoMatch(t *testing.T) {
	db := newTestDB(t)
	product, _ := seedShirt(t, db)

	_, err := ResolveByAttributes(db, product.ID, map[string]string{"color": "green"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	// A partial combination nothing offers.
	_, err = ResolveByAttributes(db, product.ID, map[string]string{"color": "blue", "size": "L"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestResolveByAttributesRequiresInput(t *testing.T) {
	db := newTestDB(t)
	product, _ := seedShirt(t, db)

	_, err := ResolveByAttributes(db, product.ID, map[string]string{})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestResolveByAttributesAmbiguous(t *testing.T) {
	db := newTestDB(t)
	product, variants := seedShirt(t, db)

	// "color=red" matches red-M and red-L, neither is the default.
	_, err := ResolveByAttributes(db, product.ID, map[string]string{"color": "red"})
	var ambiguous *models.AmbiguousVariantError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, 2, ambiguous.Matched)
	assert.ErrorIs(t, err, models.ErrIntegrity)

	// Flagging one of them default breaks the tie.
	require.NoError(t, db.Model(&models.ProductVariant{}).
		Where("id = ?", variants["red-M"].ID).
		UpdateColumn("is_default", true).Error)

	got, err := ResolveByAttributes(db, product.ID, map[string]string{"color": "red"})
	require.NoError(t, err)
	assert.Equal(t, variants["red-M"].ID, got.ID)
}

func TestResolveIgnoresInactiveVariants(t *testing.T) {
	db := newTestDB(t)
	product, variants := seedShirt(t, db)

	require.NoError(t, db.Model(&models.ProductVariant{}).
		Where("id = ?", variants["red-L"].ID).
		UpdateColumn("is_active", false).Error)

	got, err := ResolveByAttributes(db, product.ID, map[string]string{"color": "red"})
	require.NoError(t, err)
	assert.Equal(t, variants["red-M"].ID, got.ID, "only one active red variant remains")
}

func TestAttributeOptions(t *testing.T) {
	db := newTestDB(t)
	product, _ := seedShirt(t, db)

	groups, err := AttributeOptions(db, product.ID)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	byName := map[string]AttributeGroup{}
	for _, g := range groups {
		byName[g.Name] = g
	}

	// blue-M is out of stock, so blue never shows up.
	color := byName["color"]
	require.Len(t, color.Values, 1)
	assert.Equal(t, "red", color.Values[0].Value)

	// red-M and red-L both carry size; values deduplicate and sort.
	size := byName["size"]
	require.Len(t, size.Values, 2)
	assert.Equal(t, "M", size.Values[0].Value)
	assert.Equal(t, "L", size.Values[1].Value)
}
