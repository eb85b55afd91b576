package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/marketplace-api/events"
	"github.com/junaidrashid-git/marketplace-api/models"
)

// orderMessages holds the per-language customer texts. Unknown languages
// fall back to uz, matching user defaults.
var orderMessages = map[string]struct {
	created string
	paid    string
}{
	"uz": {
		created: "Sizning #%d raqamli buyurtmangiz muvaffaqiyatli qabul qilindi!",
		paid:    "Buyurtmangiz to'landi! Buyurtma ID: %d",
	},
	"ru": {
		created: "Ваш заказ #%d успешно размещен!",
		paid:    "Ваш заказ оплачен! ID заказа: %d",
	},
	"en": {
		created: "Your order #%d has been placed successfully!",
		paid:    "Your order has been paid! Order ID: %d",
	},
}

// Dispatcher consumes order events, persists Notification rows and pushes
// them over the hub. Every failure is logged and swallowed: notification
// delivery must never fail the operation that emitted the event.
type Dispatcher struct {
	db  *gorm.DB
	hub *Hub
	bus *events.Bus
}

func NewDispatcher(db *gorm.DB, hub *Hub, bus *events.Bus) *Dispatcher {
	return &Dispatcher{db: db, hub: hub, bus: bus}
}

// Run subscribes to all order topics and consumes until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	topics := map[string]func(*message.Message){
		events.TopicOrderCreated:       d.handleOrderCreated,
		events.TopicOrderPaid:          d.handleOrderPaid,
		events.TopicOrderStatusChanged: d.handleStatusChanged,
	}
	for topic, handle := range topics {
		ch, err := d.bus.Subscribe(ctx, topic)
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
		go func(handle func(*message.Message)) {
			for msg := range ch {
				handle(msg)
				msg.Ack()
			}
		}(handle)
	}
	return nil
}

func (d *Dispatcher) handleOrderCreated(msg *message.Message) {
	var ev events.OrderCreated
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		log.Printf("notifications: bad order.created payload: %v", err)
		return
	}

	texts, ok := orderMessages[ev.Language]
	if !ok {
		texts = orderMessages["uz"]
	}
	d.deliver(models.Notification{
		UserID:            ev.UserID,
		Title:             "Order Confirmed",
		Message:           fmt.Sprintf(texts.created, ev.OrderID),
		Type:              "order",
		Priority:          "high",
		RelatedEntityType: "order",
		RelatedEntityID:   ev.OrderID,
		Link:              fmt.Sprintf("/orders/%d", ev.OrderID),
		Metadata: models.JSONMap{
			"paymentMethod": ev.PaymentMethod,
			"totalPrice":    ev.TotalPrice,
			"currency":      ev.Currency,
			"itemCount":     ev.ItemCount,
			"priceAnomaly":  ev.PriceAnomaly,
		},
	})

	for _, sellerID := range ev.SellerIDs {
		d.deliver(models.Notification{
			UserID:            sellerID,
			Title:             "New Order Received",
			Message:           fmt.Sprintf("You have received a new order #%d. Payment method: %s", ev.OrderID, ev.PaymentMethod),
			Type:              "seller_notification",
			Priority:          "high",
			RelatedEntityType: "order",
			RelatedEntityID:   ev.OrderID,
			Link:              fmt.Sprintf("/seller/orders/%d", ev.OrderID),
		})
	}
}

func (d *Dispatcher) handleOrderPaid(msg *message.Message) {
	var ev events.OrderPaid
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		log.Printf("notifications: bad order.paid payload: %v", err)
		return
	}
	d.deliver(models.Notification{
		UserID:            ev.UserID,
		Title:             "Payment Confirmed",
		Message:           fmt.Sprintf("Order #%d has been paid (%s).", ev.OrderID, ev.PaymentMethod),
		Type:              "payment",
		Priority:          "high",
		RelatedEntityType: "order",
		RelatedEntityID:   ev.OrderID,
		Link:              fmt.Sprintf("/orders/%d", ev.OrderID),
	})
}

func (d *Dispatcher) handleStatusChanged(msg *message.Message) {
	var ev events.OrderStatusChanged
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		log.Printf("notifications: bad order.status_changed payload: %v", err)
		return
	}
	d.deliver(models.Notification{
		UserID:            ev.UserID,
		Title:             "Order Status Updated",
		Message:           fmt.Sprintf("Order #%d moved from %s to %s.", ev.OrderID, ev.From, ev.To),
		Type:              "order_status",
		RelatedEntityType: "order",
		RelatedEntityID:   ev.OrderID,
		Link:              fmt.Sprintf("/orders/%d", ev.OrderID),
	})
}

// deliver persists the notification and pushes it to any open connection.
func (d *Dispatcher) deliver(n models.Notification) {
	if err := d.db.Create(&n).Error; err != nil {
		log.Printf("notifications: persist for user %d: %v", n.UserID, err)
		return
	}
	d.hub.SendToUser(n.UserID, n)
}
