package models

import (
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"
)

// ProductVariant is a priced, stocked unit of a product. It owns the
// authoritative stock count; order creation is the only place that
// decrements it.
type ProductVariant struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint    `gorm:"not null;index" json:"product_id"`
	SKU       *string `gorm:"uniqueIndex" json:"sku,omitempty"`

	// Currency is the base currency this variant is priced in. Prices and
	// DiscountPrices carry per-currency overrides; a currency missing from
	// the map is not separately priced and must be converted by the caller.
	Currency       string   `gorm:"type:VARCHAR(3);not null;default:'UZS'" json:"currency"`
	Price          float64  `gorm:"not null" json:"price"`
	DiscountPrice  *float64 `json:"discount_price,omitempty"`
	Prices         PriceMap `gorm:"type:json" json:"prices"`
	DiscountPrices PriceMap `gorm:"type:json" json:"discount_prices"`

	// Defaults for these live in the create paths, not in column defaults:
	// a column default would silently overwrite an explicit false/zero on
	// insert because gorm omits zero-valued fields.
	CountInStock  int  `gorm:"not null" json:"count_in_stock"`
	MinStockLevel int  `json:"min_stock_level"`
	IsActive      bool `gorm:"index" json:"is_active"`
	IsDefault     bool `gorm:"index" json:"is_default"`
	SortOrder     int  `gorm:"default:0" json:"sort_order"`

	Images     StringList                `gorm:"type:json" json:"images"`
	Attributes []ProductVariantAttribute `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE" json:"attributes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ProductVariant) TableName() string { return "product_variants" }

// BeforeSave rejects integrity violations at write time rather than
// papering over them at read time: a discount must be strictly below the
// price it discounts, and stock can never be written negative.
func (v *ProductVariant) BeforeSave(tx *gorm.DB) error {
	if v.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if v.CountInStock < 0 {
		return fmt.Errorf("%w: countInStock must not be negative", ErrValidation)
	}
	if v.DiscountPrice != nil && *v.DiscountPrice >= v.Price {
		return fmt.Errorf("%w: discount price %.2f must be less than price %.2f",
			ErrIntegrity, *v.DiscountPrice, v.Price)
	}
	for code, discount := range v.DiscountPrices {
		base, ok := v.Prices[code]
		if !ok {
			return fmt.Errorf("%w: discount override for %s without a price override", ErrIntegrity, code)
		}
		if discount >= base {
			return fmt.Errorf("%w: discount price %.2f must be less than price %.2f in %s",
				ErrIntegrity, discount, base, code)
		}
	}
	return nil
}

// PriceInCurrency returns the variant's base price in the given currency.
// The second return is false when the variant is not separately priced in
// that currency.
func (v *ProductVariant) PriceInCurrency(code string) (float64, bool) {
	if code == "" || code == v.Currency {
		return v.Price, true
	}
	p, ok := v.Prices[code]
	return p, ok
}

func (v *ProductVariant) discountInCurrency(code string) (float64, bool) {
	if code == "" || code == v.Currency {
		if v.DiscountPrice == nil {
			return 0, false
		}
		return *v.DiscountPrice, true
	}
	d, ok := v.DiscountPrices[code]
	return d, ok
}

// EffectivePrice resolves the one unambiguous price charged for this variant
// in the given currency: the discount when present and valid, the base price
// otherwise. ok is false when the variant carries no price for the currency
// at all, in which case the caller converts via the currency service.
func (v *ProductVariant) EffectivePrice(code string) (price float64, ok bool) {
	base, ok := v.PriceInCurrency(code)
	if !ok {
		return 0, false
	}
	if d, has := v.discountInCurrency(code); has && d < base {
		return d, true
	}
	return base, true
}

// DiscountPercentage is round((base-effective)/base*100); zero when there is
// no valid discount in the currency.
func (v *ProductVariant) DiscountPercentage(code string) int {
	base, ok := v.PriceInCurrency(code)
	if !ok || base <= 0 {
		return 0
	}
	effective, _ := v.EffectivePrice(code)
	if effective >= base {
		return 0
	}
	return int(math.Round((base - effective) / base * 100))
}

func (v *ProductVariant) InStock() bool { return v.CountInStock > 0 }

// LowStock signals that stock fell to the reorder threshold. Signal only,
// never enforced.
func (v *ProductVariant) LowStock() bool { return v.CountInStock <= v.MinStockLevel }

// AttributeMap flattens the variant's bindings into name -> snapshot value
// pairs. Associations must be preloaded.
func (v *ProductVariant) AttributeMap() AttributeSnapshot {
	snap := make(AttributeSnapshot, len(v.Attributes))
	for _, b := range v.Attributes {
		if b.Attribute == nil {
			continue
		}
		snap[b.Attribute.Name] = SnapshotValue{
			Value:        b.ResolvedValue(),
			DisplayValue: b.ResolvedDisplayValue(),
			DisplayName:  b.Attribute.DisplayName,
		}
	}
	return snap
}

// ProductVariantAttribute binds a variant to one attribute, holding either a
// catalog value or a free-text custom value. A variant cannot declare the
// same attribute twice.
type ProductVariantAttribute struct {
	ID               uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	VariantID        uint              `gorm:"not null;uniqueIndex:idx_variant_attr" json:"variant_id"`
	AttributeID      uint              `gorm:"not null;uniqueIndex:idx_variant_attr" json:"attribute_id"`
	AttributeValueID *uint             `json:"attribute_value_id,omitempty"`
	CustomValue      *string           `json:"custom_value,omitempty"`
	Attribute        *ProductAttribute `gorm:"foreignKey:AttributeID" json:"attribute,omitempty"`
	AttributeValue   *AttributeValue   `gorm:"foreignKey:AttributeValueID;constraint:OnDelete:SET NULL" json:"attribute_value,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

func (ProductVariantAttribute) TableName() string { return "product_variant_attributes" }

// BeforeSave: a binding must resolve to something.
func (b *ProductVariantAttribute) BeforeSave(tx *gorm.DB) error {
	if b.AttributeValueID == nil && (b.CustomValue == nil || *b.CustomValue == "") {
		return fmt.Errorf("%w: attribute binding needs a catalog value or a custom value", ErrValidation)
	}
	return nil
}

// ResolvedValue is the machine value of the binding: the catalog value when
// bound to one, the custom value otherwise.
func (b *ProductVariantAttribute) ResolvedValue() string {
	if b.AttributeValue != nil {
		return b.AttributeValue.Value
	}
	if b.CustomValue != nil {
		return *b.CustomValue
	}
	return ""
}

func (b *ProductVariantAttribute) ResolvedDisplayValue() string {
	if b.AttributeValue != nil {
		return b.AttributeValue.Display()
	}
	if b.CustomValue != nil {
		return *b.CustomValue
	}
	return ""
}
