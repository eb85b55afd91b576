// Package events carries order lifecycle events between the core and the
// notification dispatcher over an in-process pub/sub bus. Publishing is
// fire-and-forget: a dispatch failure is logged and never fails or rolls
// back the operation that emitted the event.
package events

import (
	"context"
	"encoding/json"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const (
	TopicOrderCreated       = "order.created"
	TopicOrderPaid          = "order.paid"
	TopicOrderStatusChanged = "order.status_changed"
)

// OrderCreated is published after an order commits.
type OrderCreated struct {
	OrderID       uint    `json:"order_id"`
	UserID        uint    `json:"user_id"`
	SellerIDs     []uint  `json:"seller_ids"`
	PaymentMethod string  `json:"payment_method"`
	TotalPrice    float64 `json:"total_price"`
	Currency      string  `json:"currency"`
	Language      string  `json:"language"`
	ItemCount     int     `json:"item_count"`
	// PriceAnomaly flags that at least one line's stored price was malformed
	// and contributed 0 to the total.
	PriceAnomaly bool `json:"price_anomaly,omitempty"`
}

// OrderPaid is published when payment is confirmed.
type OrderPaid struct {
	OrderID       uint    `json:"order_id"`
	UserID        uint    `json:"user_id"`
	PaymentMethod string  `json:"payment_method"`
	TotalPrice    float64 `json:"total_price"`
	Currency      string  `json:"currency"`
}

// OrderStatusChanged is published on every status transition.
type OrderStatusChanged struct {
	OrderID   uint   `json:"order_id"`
	UserID    uint   `json:"user_id"`
	SellerIDs []uint `json:"seller_ids,omitempty"`
	From      string `json:"from"`
	To        string `json:"to"`
}

// Bus wraps a gochannel pub/sub. A nil *Bus is valid and drops everything,
// which keeps the core testable without wiring.
type Bus struct {
	pubSub *gochannel.GoChannel
}

func NewBus() *Bus {
	return &Bus{
		pubSub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			watermill.NewStdLogger(false, false),
		),
	}
}

// Publish marshals the payload and hands it to the bus. Errors are logged
// locally only.
func (b *Bus) Publish(topic string, payload interface{}) {
	if b == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("events: marshal %s payload: %v", topic, err)
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := b.pubSub.Publish(topic, msg); err != nil {
		log.Printf("events: publish %s: %v", topic, err)
	}
}

// Subscribe returns the message stream for a topic.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubSub.Subscribe(ctx, topic)
}

func (b *Bus) Close() error {
	if b == nil {
		return nil
	}
	return b.pubSub.Close()
}
