package attributeControllers

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
		&models.ProductAttribute{}, &models.AttributeValue{},
		&models.ProductVariant{}, &models.ProductVariantAttribute{},
	))
	return db
}

func TestCreateAttribute(t *testing.T) {
	db := newTestDB(t)

	attr, err := CreateAttribute(db, AttributeInput{Name: "color", DisplayName: "Color", Type: "color"})
	require.NoError(t, err)
	assert.Equal(t, models.AttributeTypeColor, attr.Type)
	assert.True(t, attr.IsFilterable)

	// Untyped attributes default to text.
	attr, err = CreateAttribute(db, AttributeInput{Name: "material", DisplayName: "Material"})
	require.NoError(t, err)
	assert.Equal(t, models.AttributeTypeText, attr.Type)

	_, err = CreateAttribute(db, AttributeInput{Name: "color", DisplayName: "Colour"})
	assert.ErrorIs(t, err, models.ErrIntegrity, "attribute names are unique")

	_, err = CreateAttribute(db, AttributeInput{Name: "weird", DisplayName: "Weird", Type: "hologram"})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCreateAttributeExplicitlyUnfilterable(t *testing.T) {
	db := newTestDB(t)

	unfilterable := false
	attr, err := CreateAttribute(db, AttributeInput{
		Name: "batch", DisplayName: "Batch", IsFilterable: &unfilterable,
	})
	require.NoError(t, err)

	var reloaded models.ProductAttribute
	require.NoError(t, db.First(&reloaded, attr.ID).Error)
	assert.False(t, reloaded.IsFilterable, "explicit false must survive the insert")
}

func TestAddValueExplicitlyInactive(t *testing.T) {
	db := newTestDB(t)
	attr, err := CreateAttribute(db, AttributeInput{Name: "size", DisplayName: "Size", Type: "size"})
	require.NoError(t, err)

	inactive := false
	value, err := AddValue(db, attr.ID, ValueInput{Value: "XS", IsActive: &inactive})
	require.NoError(t, err)

	var reloaded models.AttributeValue
	require.NoError(t, db.First(&reloaded, value.ID).Error)
	assert.False(t, reloaded.IsActive)
}

func TestAddValue(t *testing.T) {
	db := newTestDB(t)
	attr, err := CreateAttribute(db, AttributeInput{Name: "size", DisplayName: "Size", Type: "size"})
	require.NoError(t, err)

	value, err := AddValue(db, attr.ID, ValueInput{Value: "M", DisplayValue: "Medium"})
	require.NoError(t, err)
	assert.Equal(t, "Medium", value.Display())

	_, err = AddValue(db, attr.ID, ValueInput{Value: "M"})
	assert.ErrorIs(t, err, models.ErrIntegrity, "(attribute, value) pairs are unique")

	_, err = AddValue(db, attr.ID+99, ValueInput{Value: "L"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteAttribute(t *testing.T) {
	db := newTestDB(t)
	attr, err := CreateAttribute(db, AttributeInput{Name: "color", DisplayName: "Color", Type: "color"})
	require.NoError(t, err)

	// Bind it to a variant, then deletion must refuse.
	variant := models.ProductVariant{ProductID: 1, Currency: "UZS", Price: 100, IsActive: true}
	require.NoError(t, db.Create(&variant).Error)
	custom := "red"
	require.NoError(t, db.Create(&models.ProductVariantAttribute{
		VariantID: variant.ID, AttributeID: attr.ID, CustomValue: &custom,
	}).Error)

	err = DeleteAttribute(db, attr.ID)
	assert.ErrorIs(t, err, models.ErrIntegrity)

	require.NoError(t, db.Where("attribute_id = ?", attr.ID).Delete(&models.ProductVariantAttribute{}).Error)
	require.NoError(t, DeleteAttribute(db, attr.ID))

	assert.ErrorIs(t, DeleteAttribute(db, attr.ID), models.ErrNotFound)
}
