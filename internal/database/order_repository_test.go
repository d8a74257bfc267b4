package database

import (
	"testing"
	"time"

	"delivery-system/internal/catalog"
	"delivery-system/internal/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() order.Order {
	created := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	return order.Order{
		Totals: order.Totals{
			Subtotal:    decimal.RequireFromString("70.80"),
			DeliveryFee: decimal.RequireFromString("8.90"),
			Discount:    decimal.Zero,
			Total:       decimal.RequireFromString("79.70"),
		},
		ID:           "order-1",
		CustomerID:   "client-1",
		CustomerName: "João Silva",
		RestaurantID: "rest-1",
		Lines: []order.Line{
			{
				ProductID:     "prod-1",
				ProductName:   "Pizza Margherita",
				VariationID:   "var-1-3",
				VariationName: "Grande",
				Addons: []catalog.Addon{
					{ID: "addon-1", Name: "Borda recheada", Price: decimal.RequireFromString("8.00")},
				},
				Quantity:  1,
				UnitPrice: decimal.RequireFromString("57.90"),
				Subtotal:  decimal.RequireFromString("57.90"),
			},
			{
				ProductID:     "prod-4",
				ProductName:   "Coca-Cola 2L",
				VariationID:   "var-4-1",
				VariationName: "Unidade",
				Quantity:      1,
				UnitPrice:     decimal.RequireFromString("12.90"),
				Subtotal:      decimal.RequireFromString("12.90"),
			},
		},
		Status: order.StatusPreparing,
		Address: order.Address{
			Street: "Rua das Flores", Number: "123", Neighborhood: "Centro",
			City: "São Paulo", State: "SP", ZipCode: "01000-000",
		},
		PaymentMethod: order.PaymentPix,
		History: []order.StatusChange{
			{To: order.StatusReceived, At: created, By: "client-1"},
			{From: order.StatusReceived, To: order.StatusPreparing, At: created.Add(5 * time.Minute), By: "employee-1"},
		},
		CreatedAt: created,
		UpdatedAt: created.Add(5 * time.Minute),
		Version:   2,
	}
}

func TestRecordConversionKeepsOrder(t *testing.T) {
	o := sampleOrder()
	rec := toRecord(o)

	assert.Equal(t, "preparing", rec.Status)
	assert.Nil(t, rec.CouponCode)
	assert.Nil(t, rec.Address.Complement)
	require.Len(t, rec.Lines, 2)
	assert.Equal(t, 1, rec.Lines[1].Position)
	assert.Equal(t, "order-1", rec.Lines[0].OrderID)
	assert.Empty(t, rec.Lines[1].Addons)

	assert.Equal(t, o, toOrder(rec))
}

func TestRecordConversionOptionalFields(t *testing.T) {
	o := sampleOrder()
	o.CouponCode = "PIZZA10"
	o.Observations = "sem cebola"
	o.Address.Complement = "apto 42"

	rec := toRecord(o)
	require.NotNil(t, rec.CouponCode)
	assert.Equal(t, "PIZZA10", *rec.CouponCode)
	assert.Equal(t, "sem cebola", *rec.Observations)
	assert.Equal(t, "apto 42", *rec.Address.Complement)

	back := toOrder(rec)
	assert.Equal(t, "PIZZA10", back.CouponCode)
	assert.Equal(t, "apto 42", back.Address.Complement)
}
