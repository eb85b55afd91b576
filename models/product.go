package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is a translatable, taggable aggregate of variants. Price range,
// total stock and the default variant are derived from the variants; a
// product with zero active variants stays valid but cannot be purchased.
type Product struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"` // owning seller
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description,omitempty"`
	Brand       string         `json:"brand,omitempty"`
	Images      StringList     `gorm:"type:json" json:"images"`
	Translation TranslationMap `gorm:"type:json;column:translations" json:"translations"`
	Tags        StringList     `gorm:"type:json" json:"tags"`
	IsActive    bool           `gorm:"index" json:"is_active"`

	// Denormalized review aggregate, recomputed when a review changes.
	Rating     float64 `json:"rating"`
	NumReviews int     `json:"num_reviews"`

	// Likes: count plus the set of liker ids.
	Likes   int      `gorm:"default:0" json:"likes"`
	LikedBy UintList `gorm:"type:json" json:"liked_by"`

	Variants  []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (Product) TableName() string { return "products" }

// Translated returns the product name/description for a language code,
// falling back to the base fields when no translation exists.
func (p *Product) Translated(lang string) ProductTranslation {
	if t, ok := p.Translation[lang]; ok {
		if t.Name == "" {
			t.Name = p.Name
		}
		if t.Description == "" {
			t.Description = p.Description
		}
		return t
	}
	return ProductTranslation{Name: p.Name, Description: p.Description, Brand: p.Brand}
}

// DefaultVariant picks the variant flagged default, falling back to the
// first active one. Variants must be preloaded.
func (p *Product) DefaultVariant() *ProductVariant {
	var firstActive *ProductVariant
	for i := range p.Variants {
		v := &p.Variants[i]
		if !v.IsActive {
			continue
		}
		if v.IsDefault {
			return v
		}
		if firstActive == nil {
			firstActive = v
		}
	}
	return firstActive
}

// TotalStock sums stock across active variants.
func (p *Product) TotalStock() int {
	total := 0
	for i := range p.Variants {
		if p.Variants[i].IsActive {
			total += p.Variants[i].CountInStock
		}
	}
	return total
}

// PriceRange returns the min/max effective price across active variants in
// the given currency. ok is false when no active variant is priced in it.
func (p *Product) PriceRange(currency string) (min, max float64, ok bool) {
	for i := range p.Variants {
		v := &p.Variants[i]
		if !v.IsActive {
			continue
		}
		price, priced := v.EffectivePrice(currency)
		if !priced {
			continue
		}
		if !ok || price < min {
			min = price
		}
		if !ok || price > max {
			max = price
		}
		ok = true
	}
	return min, max, ok
}
