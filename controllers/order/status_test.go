package orderControllers

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junaidrashid-git/marketplace-api/models"
)

func TestMarkPaidOnce(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	p, v := seedVariant(t, db, 7, 100000, 5)

	order, err := CreateOrder(db, nil, nil, user.ID, CreateOrderInput{
		Items:         []OrderLineInput{{ProductID: p.ID, VariantID: v.ID, Qty: 1}},
		PaymentMethod: "card",
	})
	require.NoError(t, err)

	paid, err := MarkPaid(db, nil, user.ID, order.ID, nil)
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	assert.Equal(t, models.OrderStatusProcessing, paid.Status)

	_, err = MarkPaid(db, nil, user.ID, order.ID, nil)
	assert.ErrorIs(t, err, models.ErrAlreadyPaid)
}

func TestMarkPaidOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	p, v := seedVariant(t, db, 7, 100000, 5)

	order, err := CreateOrder(db, nil, nil, user.ID, CreateOrderInput{
		Items:         []OrderLineInput{{ProductID: p.ID, VariantID: v.ID, Qty: 1}},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	_, err = MarkPaid(db, nil, user.ID+1, order.ID, nil)
	assert.ErrorIs(t, err, models.ErrNotAuthorized)
}

func TestMarkPaidOnlineRequiresResult(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	p, v := seedVariant(t, db, 7, 100000, 5)

	// An online order must carry the gateway payload when marked paid.
	order := models.Order{
		UserID: user.ID, OrderRef: "ref-online", Currency: "UZS", ExchangeRate: 1,
		PaymentMethod: models.PaymentMethodOnline, TotalPrice: 100, BaseCurrencyTotalPrice: 100,
		Status: models.OrderStatusPending,
		Items:  []models.OrderItem{{ProductID: p.ID, VariantID: v.ID, SellerID: 7, Qty: 1, Price: 100}},
	}
	require.NoError(t, db.Create(&order).Error)

	_, err := MarkPaid(db, nil, user.ID, order.ID, nil)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = MarkPaid(db, nil, user.ID, order.ID, models.JSONMap{"transaction_id": "tx-1"})
	assert.NoError(t, err)
}

func TestUpdateStatusInvalidTransition(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	p, v := seedVariant(t, db, 7, 100000, 5)

	order, err := CreateOrder(db, nil, nil, user.ID, CreateOrderInput{
		Items:         []OrderLineInput{{ProductID: p.ID, VariantID: v.ID, Qty: 1}},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	_, err = UpdateStatus(db, nil, order.ID, models.OrderStatusDelivered)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	_, err = UpdateStatus(db, nil, order.ID, models.OrderStatusRefunded)
	assert.ErrorIs(t, err, models.ErrInvalidTransition, "refund needs a paid order")
}

func TestCancelRestocks(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	p, v := seedVariant(t, db, 7, 100000, 5)

	order, err := CreateOrder(db, nil, nil, user.ID, CreateOrderInput{
		Items:         []OrderLineInput{{ProductID: p.ID, VariantID: v.ID, Qty: 3}},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	require.Equal(t, 2, stockOf(t, db, v.ID))

	cancelled, err := UpdateStatus(db, nil, order.ID, models.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, 5, stockOf(t, db, v.ID), "cancellation returns reserved stock")

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, cancelled.ID).Error)
	assert.Equal(t, models.OrderStatusCancelled, reloaded.Status)
}

func TestCancelRestocksExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	p, v := seedVariant(t, db, 7, 100000, 5)

	order, err := CreateOrder(db, nil, nil, user.ID, CreateOrderInput{
		Items:         []OrderLineInput{{ProductID: p.ID, VariantID: v.ID, Qty: 3}},
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	require.Equal(t, 2, stockOf(t, db, v.ID))

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := UpdateStatus(db, nil, order.ID, models.OrderStatusCancelled)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, failed int
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		failed++
		assert.True(t,
			errors.Is(err, models.ErrInvalidTransition) || errors.Is(err, models.ErrConflict),
			"loser must surface a transition or conflict error, got %v", err)
	}
	assert.Equal(t, 1, succeeded, "exactly one cancel wins")
	assert.Equal(t, 1, failed)
	assert.Equal(t, 5, stockOf(t, db, v.ID), "stock restocked once, never inflated")
}

func TestMarkDeliveredAuthorization(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db)
	p, v := seedVariant(t, db, 7, 100000, 5)

	order, err := CreateOrder(db, nil, nil, user.ID, CreateOrderInput{
		Items:         []OrderLineInput{{ProductID: p.ID, VariantID: v.ID, Qty: 1}},
		PaymentMethod: "online",
	})
	require.NoError(t, err)

	// Not shipped yet.
	_, err = MarkDelivered(db, nil, 7, false, order.ID)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	_, err = UpdateStatus(db, nil, order.ID, models.OrderStatusShipped)
	require.NoError(t, err)

	// A seller not on the order may not deliver it.
	_, err = MarkDelivered(db, nil, 99, false, order.ID)
	assert.ErrorIs(t, err, models.ErrNotAuthorized)

	delivered, err := MarkDelivered(db, nil, 7, false, order.ID)
	require.NoError(t, err)
	assert.True(t, delivered.IsDelivered)
	assert.NotNil(t, delivered.DeliveredAt)
}
