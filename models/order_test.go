package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from   OrderStatus
		paid   bool
		to     OrderStatus
		expect bool
	}{
		{OrderStatusPending, false, OrderStatusProcessing, true},
		{OrderStatusPending, false, OrderStatusCancelled, true},
		{OrderStatusPending, false, OrderStatusShipped, false},
		{OrderStatusPending, false, OrderStatusDelivered, false},
		{OrderStatusProcessing, true, OrderStatusShipped, true},
		{OrderStatusProcessing, true, OrderStatusRefunded, true},
		{OrderStatusProcessing, false, OrderStatusRefunded, false},
		{OrderStatusProcessing, true, OrderStatusCancelled, false},
		{OrderStatusShipped, true, OrderStatusDelivered, true},
		{OrderStatusDelivered, true, OrderStatusRefunded, true},
		{OrderStatusDelivered, false, OrderStatusRefunded, false},
		{OrderStatusCancelled, false, OrderStatusProcessing, false},
		{OrderStatusRefunded, true, OrderStatusPending, false},
	}
	for _, tc := range cases {
		o := Order{Status: tc.from, IsPaid: tc.paid}
		assert.Equalf(t, tc.expect, o.CanTransition(tc.to), "%s -> %s (paid=%v)", tc.from, tc.to, tc.paid)
	}
}

func TestSellerIDs(t *testing.T) {
	o := Order{Items: []OrderItem{
		{SellerID: 7}, {SellerID: 3}, {SellerID: 7}, {SellerID: 9},
	}}
	assert.Equal(t, []uint{7, 3, 9}, o.SellerIDs())
	assert.True(t, o.HasSeller(3))
	assert.False(t, o.HasSeller(4))
}

func TestValidPaymentMethod(t *testing.T) {
	assert.True(t, ValidPaymentMethod("cash"))
	assert.True(t, ValidPaymentMethod("card"))
	assert.True(t, ValidPaymentMethod("online"))
	assert.False(t, ValidPaymentMethod("crypto"))
	assert.False(t, ValidPaymentMethod(""))
}
