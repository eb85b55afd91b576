package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslatedFallback(t *testing.T) {
	p := Product{
		Name:        "Shirt",
		Description: "Plain cotton shirt",
		Brand:       "Acme",
		Translation: TranslationMap{
			"ru": {Name: "Рубашка", Description: "Хлопковая рубашка"},
			"uz": {Name: "Ko'ylak"},
		},
	}

	ru := p.Translated("ru")
	assert.Equal(t, "Рубашка", ru.Name)

	// Partial translation fills holes from the base fields.
	uz := p.Translated("uz")
	assert.Equal(t, "Ko'ylak", uz.Name)
	assert.Equal(t, "Plain cotton shirt", uz.Description)

	// Unknown language falls back entirely.
	de := p.Translated("de")
	assert.Equal(t, "Shirt", de.Name)
	assert.Equal(t, "Acme", de.Brand)
}

func TestDefaultVariant(t *testing.T) {
	p := Product{Variants: []ProductVariant{
		{ID: 1, IsActive: true},
		{ID: 2, IsActive: false, IsDefault: true},
		{ID: 3, IsActive: true, IsDefault: true},
	}}
	assert.Equal(t, uint(3), p.DefaultVariant().ID, "inactive defaults do not count")

	noDefault := Product{Variants: []ProductVariant{
		{ID: 4, IsActive: false},
		{ID: 5, IsActive: true},
	}}
	assert.Equal(t, uint(5), noDefault.DefaultVariant().ID, "first active is the fallback")

	empty := Product{}
	assert.Nil(t, empty.DefaultVariant())
}

func TestTotalStockAndPriceRange(t *testing.T) {
	discount := 60000.0
	p := Product{Variants: []ProductVariant{
		{Currency: "UZS", Price: 100000, CountInStock: 4, IsActive: true},
		{Currency: "UZS", Price: 80000, DiscountPrice: &discount, CountInStock: 2, IsActive: true},
		{Currency: "UZS", Price: 10, CountInStock: 100, IsActive: false},
	}}

	assert.Equal(t, 6, p.TotalStock())

	min, max, ok := p.PriceRange("UZS")
	assert.True(t, ok)
	assert.Equal(t, 60000.0, min, "range uses effective prices")
	assert.Equal(t, 100000.0, max)

	_, _, ok = p.PriceRange("USD")
	assert.False(t, ok, "no active variant priced in USD")
}
