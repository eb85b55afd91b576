package orderControllers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/marketplace-api/events"
	"github.com/junaidrashid-git/marketplace-api/models"
)

// RateSource resolves exchange rates at order-creation time. The currency
// service implements it; a nil source means everything is priced in the
// platform base currency.
type RateSource interface {
	Rate(ctx context.Context, code string) (float64, error)
	Convert(ctx context.Context, amount float64, from, to string) (float64, error)
}

// -------- Request Structs --------

type OrderLineInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	VariantID uint `json:"variant_id" binding:"required"`
	Qty       int  `json:"qty" binding:"required,min=1"`
}

type CreateOrderInput struct {
	Items           []OrderLineInput `json:"order_items" binding:"required,min=1,dive"`
	ShippingAddress models.JSONMap   `json:"shipping_address"`
	PaymentMethod   string           `json:"payment_method" binding:"required"`
	Currency        string           `json:"currency"`
	Language        string           `json:"language"`
}

// -------- Helpers --------

// generateOrderRef builds a unique human-scannable order reference.
func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// isConflictErr recognizes serialization and deadlock failures the storage
// engine reports when two transactions fight over the same rows. These are
// the only transient failures in the core and are retried once.
func isConflictErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, models.ErrConflict) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "40001") ||
		strings.Contains(msg, "40P01") ||
		strings.Contains(msg, "could not serialize") ||
		strings.Contains(msg, "deadlock detected")
}

// sanePrice guards the total against malformed stored prices: a negative or
// non-finite price contributes 0 rather than poisoning the whole total.
// Confirmed business policy; the anomaly is flagged on the emitted event.
func sanePrice(p float64) (float64, bool) {
	if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return 0, false
	}
	return p, true
}

// -------- Core Logic --------

// CreateOrder turns a list of {product, variant, qty} lines into an
// immutable order. The whole operation is one transaction: every line's
// stock is decremented through an atomic conditional update, and any failing
// line rolls back all earlier decrements so no partial order ever persists.
// Serialization conflicts are retried once before surfacing.
func CreateOrder(db *gorm.DB, bus *events.Bus, rates RateSource, userID uint, in CreateOrderInput) (*models.Order, error) {
	if !models.ValidPaymentMethod(in.PaymentMethod) {
		return nil, fmt.Errorf("%w: payment method must be one of cash, card, online", models.ErrValidation)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: no order items", models.ErrValidation)
	}
	for _, line := range in.Items {
		if line.Qty <= 0 {
			return nil, fmt.Errorf("%w: qty must be positive", models.ErrValidation)
		}
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", models.ErrNotFound, userID)
		}
		return nil, err
	}

	orderCurrency := in.Currency
	if orderCurrency == "" {
		orderCurrency = user.PreferredCurrency
	}
	if orderCurrency == "" {
		orderCurrency = models.BaseCurrency
	}
	orderLanguage := in.Language
	if orderLanguage == "" {
		orderLanguage = user.PreferredLanguage
	}
	if orderLanguage == "" {
		orderLanguage = "uz"
	}

	ctx := context.Background()
	exchangeRate := 1.0
	if rates != nil {
		rate, err := rates.Rate(ctx, orderCurrency)
		if err != nil {
			return nil, err
		}
		exchangeRate = rate
	}

	var order *models.Order
	var anomaly bool
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		order, anomaly, err = createOrderTx(db, rates, &user, in, orderCurrency, orderLanguage, exchangeRate)
		if err == nil || !isConflictErr(err) {
			break
		}
	}
	if err != nil {
		if isConflictErr(err) && !errors.Is(err, models.ErrConflict) {
			return nil, fmt.Errorf("%w: %v", models.ErrConflict, err)
		}
		return nil, err
	}

	bus.Publish(events.TopicOrderCreated, events.OrderCreated{
		OrderID:       order.ID,
		UserID:        userID,
		SellerIDs:     order.SellerIDs(),
		PaymentMethod: string(order.PaymentMethod),
		TotalPrice:    order.TotalPrice,
		Currency:      order.Currency,
		Language:      order.Language,
		ItemCount:     len(order.Items),
		PriceAnomaly:  anomaly,
	})
	return order, nil
}

func createOrderTx(db *gorm.DB, rates RateSource, user *models.User, in CreateOrderInput,
	currency, language string, exchangeRate float64) (*models.Order, bool, error) {

	var order *models.Order
	anomaly := false

	err := db.Transaction(func(tx *gorm.DB) error {
		var orderItems []models.OrderItem
		var variantIDs []uint
		var total float64

		for _, line := range in.Items {
			var product models.Product
			if err := tx.Where("id = ? AND is_active = ?", line.ProductID, true).First(&product).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: product %d", models.ErrNotFound, line.ProductID)
				}
				return err
			}

			var variant models.ProductVariant
			err := tx.Where("id = ? AND product_id = ? AND is_active = ?", line.VariantID, line.ProductID, true).
				First(&variant).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: variant %d of product %d", models.ErrNotFound, line.VariantID, line.ProductID)
				}
				return err
			}

			// Atomic check-and-decrement: the WHERE guard makes the stock
			// check and the mutation a single statement, so two concurrent
			// orders can never both pass the check and oversell.
			res := tx.Model(&models.ProductVariant{}).
				Where("id = ? AND count_in_stock >= ?", variant.ID, line.Qty).
				UpdateColumn("count_in_stock", gorm.Expr("count_in_stock - ?", line.Qty))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				var current models.ProductVariant
				if err := tx.Select("count_in_stock").First(&current, variant.ID).Error; err != nil {
					return err
				}
				return &models.InsufficientStockError{
					VariantID: variant.ID,
					Requested: line.Qty,
					Available: current.CountInStock,
				}
			}

			price, err := linePrice(tx.Statement.Context, rates, &variant, currency)
			if err != nil {
				return err
			}
			price, ok := sanePrice(price)
			if !ok {
				anomaly = true
			}

			total += price * float64(line.Qty)
			variantIDs = append(variantIDs, variant.ID)
			orderItems = append(orderItems, models.OrderItem{
				ProductID: product.ID,
				VariantID: variant.ID,
				SellerID:  product.UserID,
				Qty:       line.Qty,
				Price:     price,
			})
		}

		if t, ok := sanePrice(total); !ok {
			total = t
			anomaly = true
		}

		baseTotal := total
		if currency != models.BaseCurrency && exchangeRate > 0 {
			baseTotal = total / exchangeRate
		}

		status := models.OrderStatusPending
		isPaid := false
		var paidAt *time.Time
		// Online payment is confirmed at creation; no gateway round-trip is
		// modeled. Cash and card stay pending until an explicit mark-paid.
		if models.PaymentMethod(in.PaymentMethod) == models.PaymentMethodOnline {
			isPaid = true
			status = models.OrderStatusProcessing
			now := time.Now()
			paidAt = &now
		}

		order = &models.Order{
			UserID:                 user.ID,
			OrderRef:               generateOrderRef(),
			Currency:               currency,
			ExchangeRate:           exchangeRate,
			Language:               language,
			ShippingAddress:        in.ShippingAddress,
			PaymentMethod:          models.PaymentMethod(in.PaymentMethod),
			TotalPrice:             total,
			BaseCurrencyTotalPrice: baseTotal,
			IsPaid:                 isPaid,
			PaidAt:                 paidAt,
			Status:                 status,
			Items:                  orderItems,
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		// Checkout consumes the cart: ordered variants leave the cart in the
		// same transaction that created the order.
		var cart models.Cart
		err := tx.Where("user_id = ?", user.ID).First(&cart).Error
		if err == nil {
			if err := tx.Where("cart_id = ? AND variant_id IN ?", cart.ID, variantIDs).
				Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return order, anomaly, nil
}

// linePrice resolves the unit price charged for a variant in the order
// currency: the variant's own price when it is separately priced there,
// otherwise the base effective price converted through the rate source.
func linePrice(ctx context.Context, rates RateSource, variant *models.ProductVariant, currency string) (float64, error) {
	if price, ok := variant.EffectivePrice(currency); ok {
		return price, nil
	}
	base, _ := variant.EffectivePrice(variant.Currency)
	if rates == nil {
		return base, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return rates.Convert(ctx, base, variant.Currency, currency)
}

// -------- Queries --------

// GetOrder loads an order the caller may see: its owner, an admin, or a
// seller attributed on one of its lines.
func GetOrder(db *gorm.DB, orderID, actorID uint, isAdmin bool) (*models.Order, error) {
	var order models.Order
	err := db.Preload("Items").Preload("Items.Product").Preload("Items.Variant").
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", models.ErrNotFound, orderID)
		}
		return nil, err
	}
	if order.UserID != actorID && !isAdmin && !order.HasSeller(actorID) {
		return nil, fmt.Errorf("%w: not your order", models.ErrNotAuthorized)
	}
	return &order, nil
}

// -------- Handlers --------

// POST /orders
func CreateOrderHandler(db *gorm.DB, bus *events.Bus, rates RateSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in CreateOrderInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		order, err := CreateOrder(db, bus, rates, c.GetUint("user_id"), in)
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

// GET /orders/:orderID
func GetOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := paramID(c, "orderID")
		if !ok {
			return
		}
		order, err := GetOrder(db, orderID, c.GetUint("user_id"), isAdminCtx(c))
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GET /orders/my
func GetMyOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		err := db.Where("user_id = ?", c.GetUint("user_id")).
			Preload("Items").Preload("Items.Product").Preload("Items.Variant").
			Order("created_at DESC").
			Find(&orders).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /admin/orders
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		err := db.Preload("User").Preload("Items").Preload("Items.Product").Preload("Items.Variant").
			Order("created_at DESC").
			Find(&orders).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
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

func isAdminCtx(c *gin.Context) bool {
	return c.GetString("role") == string(models.RoleAdmin)
}
