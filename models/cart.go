package models

import "time"

// Cart is the per-user staging area. Exactly one per user, created lazily on
// the first add-to-cart.
type Cart struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Cart) TableName() string { return "carts" }

// TotalPrice sums the snapshot prices of all items.
func (c *Cart) TotalPrice() float64 {
	var total float64
	for i := range c.Items {
		total += c.Items[i].TotalPrice()
	}
	return total
}

// CartItem pins one variant in a cart. The name/image/price/attribute fields
// are a point-in-time snapshot taken when the item was first added; they are
// deliberately never refreshed when the variant later changes. A variant
// appears at most once per cart, re-adding increments qty instead.
type CartItem struct {
	ID        uint `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    uint `gorm:"not null;uniqueIndex:idx_cart_variant;index" json:"cart_id"`
	ProductID uint `gorm:"not null;index" json:"product_id"`
	VariantID uint `gorm:"not null;uniqueIndex:idx_cart_variant" json:"variant_id"`

	Name          string            `gorm:"not null" json:"name"`
	Image         string            `json:"image,omitempty"`
	SKU           *string           `json:"sku,omitempty"`
	Price         float64           `gorm:"not null" json:"price"`
	OriginalPrice float64           `json:"original_price"`
	Qty           int               `gorm:"not null" json:"qty"`
	Attributes    AttributeSnapshot `gorm:"type:json" json:"attributes"`

	AddedAt   time.Time `json:"added_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CartItem) TableName() string { return "cart_items" }

func (i *CartItem) TotalPrice() float64 {
	return i.Price * float64(i.Qty)
}

// DiscountAmount is how much the snapshot discount saves across the line.
func (i *CartItem) DiscountAmount() float64 {
	if i.OriginalPrice <= i.Price {
		return 0
	}
	return (i.OriginalPrice - i.Price) * float64(i.Qty)
}
