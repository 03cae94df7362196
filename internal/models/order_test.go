package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"pending to accepted", OrderStatusPending, OrderStatusAccepted, true},
		{"pending to rejected", OrderStatusPending, OrderStatusRejected, true},
		{"pending to printing skips acceptance", OrderStatusPending, OrderStatusPrinting, false},
		{"accepted to printing", OrderStatusAccepted, OrderStatusPrinting, true},
		{"accepted to rejected", OrderStatusAccepted, OrderStatusRejected, true},
		{"printing to completed", OrderStatusPrinting, OrderStatusCompleted, true},
		{"printing to rejected", OrderStatusPrinting, OrderStatusRejected, false},
		{"completed is terminal", OrderStatusCompleted, OrderStatusPending, false},
		{"rejected is terminal", OrderStatusRejected, OrderStatusAccepted, false},
		{"same status", OrderStatusPending, OrderStatusPending, false},
		{"unknown target", OrderStatusPending, "shipped", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &Order{Status: tt.from}
			assert.Equal(t, tt.want, order.CanTransitionTo(tt.to))
		})
	}
}

func TestIsValidOrderStatus(t *testing.T) {
	for _, s := range []string{OrderStatusPending, OrderStatusAccepted, OrderStatusPrinting, OrderStatusCompleted, OrderStatusRejected} {
		assert.True(t, IsValidOrderStatus(s), s)
	}
	assert.False(t, IsValidOrderStatus(""))
	assert.False(t, IsValidOrderStatus("In attesa"))
}

func TestOrder_Clone(t *testing.T) {
	file := "dragon_v2.stl"
	order := &Order{ID: 1, FileName: &file, Material: MaterialPLA, Quantity: 1, Status: OrderStatusPending}

	c := order.Clone()
	require.NotNil(t, c)
	require.NotNil(t, c.FileName)

	*c.FileName = "changed.stl"
	c.Status = OrderStatusRejected

	assert.Equal(t, "dragon_v2.stl", *order.FileName)
	assert.Equal(t, OrderStatusPending, order.Status)
	assert.True(t, order.IsFileBased())
	assert.Nil(t, (*Order)(nil).Clone())
}
