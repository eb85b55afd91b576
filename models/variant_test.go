package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&Product{}, &ProductVariant{}, &ProductAttribute{}, &AttributeValue{}, &ProductVariantAttribute{},
	))
	return db
}

func floatPtr(f float64) *float64 { return &f }

func TestEffectivePrice(t *testing.T) {
	v := ProductVariant{
		Currency:      "UZS",
		Price:         100000,
		DiscountPrice: floatPtr(80000),
		Prices:        PriceMap{"USD": 10},
	}

	price, ok := v.EffectivePrice("UZS")
	assert.True(t, ok)
	assert.Equal(t, 80000.0, price)

	// USD has a price override but no discount override.
	price, ok = v.EffectivePrice("USD")
	assert.True(t, ok)
	assert.Equal(t, 10.0, price)

	// Not separately priced in EUR.
	_, ok = v.EffectivePrice("EUR")
	assert.False(t, ok)

	// Empty code means the variant's own currency.
	price, ok = v.EffectivePrice("")
	assert.True(t, ok)
	assert.Equal(t, 80000.0, price)
}

func TestEffectivePriceIgnoresInvalidDiscount(t *testing.T) {
	v := ProductVariant{
		Currency:      "UZS",
		Price:         50000,
		DiscountPrice: floatPtr(50000),
	}
	price, ok := v.EffectivePrice("UZS")
	assert.True(t, ok)
	assert.Equal(t, 50000.0, price, "a discount equal to the price is no discount")
}

func TestDiscountPercentage(t *testing.T) {
	v := ProductVariant{
		Currency:      "UZS",
		Price:         100000,
		DiscountPrice: floatPtr(75000),
	}
	assert.Equal(t, 25, v.DiscountPercentage("UZS"))
	assert.Equal(t, 0, v.DiscountPercentage("USD"), "no price in USD, no percentage")

	noDiscount := ProductVariant{Currency: "UZS", Price: 100000}
	assert.Equal(t, 0, noDiscount.DiscountPercentage("UZS"))

	// 1/3 off rounds to 33.
	third := ProductVariant{Currency: "UZS", Price: 300, DiscountPrice: floatPtr(200)}
	assert.Equal(t, 33, third.DiscountPercentage("UZS"))
}

func TestVariantBeforeSaveRejections(t *testing.T) {
	db := newTestDB(t)
	product := Product{UserID: 1, Name: "Shirt", IsActive: true}
	require.NoError(t, db.Create(&product).Error)

	err := db.Create(&ProductVariant{ProductID: product.ID, Currency: "UZS", Price: -1}).Error
	assert.ErrorIs(t, err, ErrValidation)

	err = db.Create(&ProductVariant{ProductID: product.ID, Currency: "UZS", Price: 100, CountInStock: -5}).Error
	assert.ErrorIs(t, err, ErrValidation)

	err = db.Create(&ProductVariant{
		ProductID: product.ID, Currency: "UZS", Price: 100, DiscountPrice: floatPtr(100),
	}).Error
	assert.ErrorIs(t, err, ErrIntegrity)

	err = db.Create(&ProductVariant{
		ProductID: product.ID, Currency: "UZS", Price: 100,
		Prices:         PriceMap{"USD": 10},
		DiscountPrices: PriceMap{"USD": 12},
	}).Error
	assert.ErrorIs(t, err, ErrIntegrity)

	// An override discount without the matching price override is dangling.
	err = db.Create(&ProductVariant{
		ProductID: product.ID, Currency: "UZS", Price: 100,
		DiscountPrices: PriceMap{"USD": 5},
	}).Error
	assert.ErrorIs(t, err, ErrIntegrity)

	err = db.Create(&ProductVariant{
		ProductID: product.ID, Currency: "UZS", Price: 100, DiscountPrice: floatPtr(80), CountInStock: 3,
	}).Error
	assert.NoError(t, err)
}

func TestBindingBeforeSave(t *testing.T) {
	db := newTestDB(t)
	product := Product{UserID: 1, Name: "Shirt", IsActive: true}
	require.NoError(t, db.Create(&product).Error)
	variant := ProductVariant{ProductID: product.ID, Currency: "UZS", Price: 100}
	require.NoError(t, db.Create(&variant).Error)
	attr := ProductAttribute{Name: "color", DisplayName: "Color", Type: AttributeTypeColor}
	require.NoError(t, db.Create(&attr).Error)

	err := db.Create(&ProductVariantAttribute{VariantID: variant.ID, AttributeID: attr.ID}).Error
	assert.ErrorIs(t, err, ErrValidation, "binding with neither catalog nor custom value")

	custom := "midnight"
	err = db.Create(&ProductVariantAttribute{
		VariantID: variant.ID, AttributeID: attr.ID, CustomValue: &custom,
	}).Error
	assert.NoError(t, err)
}

func TestLowStockAndInStock(t *testing.T) {
	v := ProductVariant{CountInStock: 5, MinStockLevel: 5}
	assert.True(t, v.InStock())
	assert.True(t, v.LowStock())

	v.CountInStock = 6
	assert.False(t, v.LowStock())

	v.CountInStock = 0
	assert.False(t, v.InStock())
	assert.True(t, v.LowStock())
}
