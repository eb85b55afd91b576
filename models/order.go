package models

import "time"

type OrderStatus string
type PaymentMethod string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"

	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodOnline PaymentMethod = "online"
)

func ValidPaymentMethod(m string) bool {
	switch PaymentMethod(m) {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodOnline:
		return true
	}
	return false
}

// orderTransitions is the allowed status machine:
// pending -> processing -> shipped -> delivered (terminal),
// pending -> cancelled (terminal),
// -> refunded (terminal, only from a paid state, checked in CanTransition).
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusRefunded},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusRefunded},
	OrderStatusDelivered:  {OrderStatusRefunded},
}

// Order is an immutable record created from cart lines. Currency, exchange
// rate and every line price are frozen at creation time.
type Order struct {
	ID     uint `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint `gorm:"not null;index" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	OrderRef string `gorm:"uniqueIndex" json:"order_ref"`

	Currency     string  `gorm:"type:VARCHAR(3);not null;default:'UZS';index" json:"currency"`
	ExchangeRate float64 `gorm:"not null" json:"exchange_rate"`
	Language     string  `gorm:"type:VARCHAR(5);not null;default:'uz'" json:"language"`

	ShippingAddress JSONMap       `gorm:"type:json" json:"shipping_address"`
	PaymentMethod   PaymentMethod `gorm:"type:VARCHAR(10);not null" json:"payment_method"`
	PaymentResult   JSONMap       `gorm:"type:json" json:"payment_result,omitempty"`

	TaxPrice      float64 `json:"tax_price"`
	ShippingPrice float64 `json:"shipping_price"`
	TotalPrice    float64 `gorm:"not null" json:"total_price"`
	// Total in the platform base currency, kept for cross-currency reporting.
	BaseCurrencyTotalPrice float64 `gorm:"not null" json:"base_currency_total_price"`

	IsPaid      bool       `gorm:"default:false;index" json:"is_paid"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	IsDelivered bool       `gorm:"default:false;index" json:"is_delivered"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`

	Status         OrderStatus `gorm:"type:VARCHAR(20);not null;default:'pending';index" json:"status"`
	TrackingNumber string      `json:"tracking_number,omitempty"`
	Notes          string      `json:"notes,omitempty"`

	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

// CanTransition reports whether the order may move to the given status.
// Refunds are only reachable once the order has been paid.
func (o *Order) CanTransition(to OrderStatus) bool {
	if to == OrderStatusRefunded && !o.IsPaid {
		return false
	}
	for _, next := range orderTransitions[o.Status] {
		if next == to {
			return true
		}
	}
	return false
}

// SellerIDs returns the distinct sellers attributed on the order's lines.
// Items must be preloaded.
func (o *Order) SellerIDs() []uint {
	seen := make(map[uint]bool, len(o.Items))
	var ids []uint
	for _, item := range o.Items {
		if !seen[item.SellerID] {
			seen[item.SellerID] = true
			ids = append(ids, item.SellerID)
		}
	}
	return ids
}

// HasSeller reports whether the given user sold at least one line of the
// order. Items must be preloaded.
func (o *Order) HasSeller(userID uint) bool {
	for _, item := range o.Items {
		if item.SellerID == userID {
			return true
		}
	}
	return false
}

// OrderItem is one frozen line of an order. SellerID is the product owner at
// order time; a later ownership change never rewrites history.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	VariantID uint            `gorm:"not null;index" json:"variant_id"`
	SellerID  uint            `gorm:"not null;index" json:"seller_id"`
	Qty       int             `gorm:"not null" json:"qty"`
	Price     float64         `gorm:"not null" json:"price"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Variant   *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func (OrderItem) TableName() string { return "order_items" }
