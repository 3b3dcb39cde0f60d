package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderPending, OrderProcessing, true},
		{OrderPending, OrderCancelled, true},
		{OrderPending, OrderShipped, false},
		{OrderPending, OrderDelivered, false},
		{OrderProcessing, OrderShipped, true},
		{OrderProcessing, OrderDelivered, true},
		{OrderProcessing, OrderCancelled, true},
		{OrderProcessing, OrderPending, false},
		{OrderShipped, OrderDelivered, true},
		{OrderShipped, OrderCancelled, false},
		{OrderDelivered, OrderCancelled, false},
		{OrderDelivered, OrderShipped, false},
		{OrderCancelled, OrderPending, false},
		{OrderCancelled, OrderProcessing, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	all := []OrderStatus{OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled}
	for _, to := range all {
		assert.False(t, CanTransition(OrderDelivered, to))
		assert.False(t, CanTransition(OrderCancelled, to))
	}
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(OrderPending))
	assert.True(t, ValidStatus(OrderCancelled))
	assert.False(t, ValidStatus("REFUNDED"))
	assert.False(t, ValidStatus(""))
}
