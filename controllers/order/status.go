package orderControllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/marketplace-api/events"
	"github.com/junaidrashid-git/marketplace-api/models"
)

type UpdateStatusInput struct {
	Status string `json:"status" binding:"required"`
}

type MarkPaidInput struct {
	PaymentResult models.JSONMap `json:"payment_result"`
}

// -------- Core Logic --------

// UpdateStatus moves an order along the status machine. Cancelling a pending
// order returns its reserved stock in the same transaction. The status write
// is guarded on the status the transition was checked against, so two
// concurrent transitions can never both win: the loser's update matches zero
// rows and the side effects (restock, event) fire exactly once.
func UpdateStatus(db *gorm.DB, bus *events.Bus, orderID uint, to models.OrderStatus) (*models.Order, error) {
	var order models.Order
	if err := db.Preload("Items").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", models.ErrNotFound, orderID)
		}
		return nil, err
	}

	if !order.CanTransition(to) {
		return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, order.Status, to)
	}
	from := order.Status

	err := db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": to}
		if to == models.OrderStatusDelivered {
			updates["is_delivered"] = true
			updates["delivered_at"] = time.Now()
		}
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, from).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: order %d left %s while the transition ran", models.ErrConflict, order.ID, from)
		}

		if to == models.OrderStatusCancelled {
			for _, item := range order.Items {
				restock := tx.Model(&models.ProductVariant{}).
					Where("id = ?", item.VariantID).
					UpdateColumn("count_in_stock", gorm.Expr("count_in_stock + ?", item.Qty))
				if restock.Error != nil {
					return restock.Error
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	order.Status = to
	if to == models.OrderStatusDelivered {
		order.IsDelivered = true
	}

	bus.Publish(events.TopicOrderStatusChanged, events.OrderStatusChanged{
		OrderID:   order.ID,
		UserID:    order.UserID,
		SellerIDs: order.SellerIDs(),
		From:      string(from),
		To:        string(to),
	})
	return &order, nil
}

// MarkPaid confirms payment on the caller's own order. A second call on an
// already-paid order is rejected, so the side effects fire at most once.
func MarkPaid(db *gorm.DB, bus *events.Bus, userID, orderID uint, paymentResult models.JSONMap) (*models.Order, error) {
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", models.ErrNotFound, orderID)
		}
		return nil, err
	}

	if order.UserID != userID {
		return nil, fmt.Errorf("%w: not your order", models.ErrNotAuthorized)
	}
	if order.IsPaid {
		return nil, models.ErrAlreadyPaid
	}
	if order.PaymentMethod == models.PaymentMethodOnline && len(paymentResult) == 0 {
		return nil, fmt.Errorf("%w: payment result is required for online payments", models.ErrValidation)
	}
	if !order.CanTransition(models.OrderStatusProcessing) {
		return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, order.Status, models.OrderStatusProcessing)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"is_paid":        true,
		"paid_at":        now,
		"status":         models.OrderStatusProcessing,
		"payment_result": paymentResult,
	}
	// Guarded on is_paid so a concurrent double-pay loses cleanly and the
	// paid event fires at most once.
	res := db.Model(&models.Order{}).
		Where("id = ? AND is_paid = ?", order.ID, false).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, models.ErrAlreadyPaid
	}
	order.IsPaid = true
	order.PaidAt = &now
	order.Status = models.OrderStatusProcessing
	order.PaymentResult = paymentResult

	bus.Publish(events.TopicOrderPaid, events.OrderPaid{
		OrderID:       order.ID,
		UserID:        order.UserID,
		PaymentMethod: string(order.PaymentMethod),
		TotalPrice:    order.TotalPrice,
		Currency:      order.Currency,
	})
	return &order, nil
}

// MarkDelivered completes a shipped order. Only an admin or a seller who
// owns at least one line of the order may do it.
func MarkDelivered(db *gorm.DB, bus *events.Bus, actorID uint, isAdmin bool, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := db.Preload("Items").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", models.ErrNotFound, orderID)
		}
		return nil, err
	}

	if !isAdmin && !order.HasSeller(actorID) {
		return nil, fmt.Errorf("%w: only an admin or a seller on this order may deliver it", models.ErrNotAuthorized)
	}
	if !order.CanTransition(models.OrderStatusDelivered) {
		return nil, fmt.Errorf("%w: %s -> %s", models.ErrInvalidTransition, order.Status, models.OrderStatusDelivered)
	}
	from := order.Status

	now := time.Now()
	updates := map[string]interface{}{
		"status":       models.OrderStatusDelivered,
		"is_delivered": true,
		"delivered_at": now,
	}
	res := db.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, from).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: order %d left %s while the transition ran", models.ErrConflict, order.ID, from)
	}
	order.Status = models.OrderStatusDelivered
	order.IsDelivered = true
	order.DeliveredAt = &now

	bus.Publish(events.TopicOrderStatusChanged, events.OrderStatusChanged{
		OrderID:   order.ID,
		UserID:    order.UserID,
		SellerIDs: order.SellerIDs(),
		From:      string(from),
		To:        string(models.OrderStatusDelivered),
	})
	return &order, nil
}

// -------- Handlers --------

// PUT /admin/orders/:orderID/status
func UpdateStatusHandler(db *gorm.DB, bus *events.Bus) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := paramID(c, "orderID")
		if !ok {
			return
		}
		var in UpdateStatusInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		order, err := UpdateStatus(db, bus, orderID, models.OrderStatus(in.Status))
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// PUT /orders/:orderID/pay
func MarkPaidHandler(db *gorm.DB, bus *events.Bus) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := paramID(c, "orderID")
		if !ok {
			return
		}
		var in MarkPaidInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		order, err := MarkPaid(db, bus, c.GetUint("user_id"), orderID, in.PaymentResult)
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order paid successfully", "order": order})
	}
}

// PUT /orders/:orderID/deliver
func MarkDeliveredHandler(db *gorm.DB, bus *events.Bus) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := paramID(c, "orderID")
		if !ok {
			return
		}
		order, err := MarkDelivered(db, bus, c.GetUint("user_id"), isAdminCtx(c), orderID)
		if err != nil {
			c.JSON(models.HTTPStatus(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GET /seller/orders - orders containing at least one of the seller's lines
func GetSellerOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID := c.GetUint("user_id")
		var orderIDs []uint
		if err := db.Model(&models.OrderItem{}).
			Where("seller_id = ?", sellerID).
			Distinct("order_id").
			Pluck("order_id", &orderIDs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		var orders []models.Order
		if len(orderIDs) > 0 {
			if err := db.Where("id IN ?", orderIDs).
				Preload("Items", "seller_id = ?", sellerID).
				Preload("Items.Product").Preload("Items.Variant").
				Order("created_at DESC").
				Find(&orders).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, orders)
	}
}
