package model

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct_PriceValidation(t *testing.T) {
	for _, price := range []string{"0", "0.01", "10.99", "100000"} {
		p, err := NewProduct("Mouse", "SKU1", "Peripherals", decimal.RequireFromString(price), "")
		require.NoError(t, err, price)
		assert.True(t, p.Price.Equal(decimal.RequireFromString(price)))
	}

	for _, price := range []string{"-0.01", "-1", "-999.5"} {
		_, err := NewProduct("Mouse", "SKU1", "Peripherals", decimal.RequireFromString(price), "")
		assert.True(t, errors.Is(err, apperror.ErrInvalidArgument), price)
	}
}

func TestProduct_SetPriceNegativeKeepsOldPrice(t *testing.T) {
	p, err := NewProduct("Mouse", "SKU1", "", decimal.NewFromInt(5), "")
	require.NoError(t, err)

	err = p.SetPrice(decimal.NewFromInt(-1))
	assert.True(t, errors.Is(err, apperror.ErrInvalidArgument))
	assert.True(t, p.Price.Equal(decimal.NewFromInt(5)))
}

func TestNewProduct_SKUTrimmedCasePreserved(t *testing.T) {
	p, err := NewProduct("Mouse", "  sku-Ab1 ", "", decimal.Zero, "")
	require.NoError(t, err)
	assert.Equal(t, "sku-Ab1", p.SKU)

	_, err = NewProduct("Mouse", "   ", "", decimal.Zero, "")
	assert.True(t, errors.Is(err, apperror.ErrInvalidArgument))
}

func TestInventoryItem_UpdateStock(t *testing.T) {
	tests := []struct {
		name    string
		start   int
		delta   int
		want    int
		wantErr bool
	}{
		{"increase", 0, 5, 5, false},
		{"decrease to zero", 5, -5, 0, false},
		{"below zero", 5, -10, 5, true},
		{"empty below zero", 0, -1, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &InventoryItem{ProductID: 1, Quantity: tt.start}
			err := item.UpdateStock(tt.delta)
			if tt.wantErr {
				assert.True(t, errors.Is(err, apperror.ErrInvariantViolation))
				assert.Equal(t, "stock cannot go below zero", err.Error())
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, item.Quantity)
		})
	}
}

func TestInventoryItem_UpdateStockUpperBound(t *testing.T) {
	item := &InventoryItem{ProductID: 1, Quantity: MaxQuantity - 1}
	err := item.UpdateStock(5)
	assert.True(t, errors.Is(err, apperror.ErrInvalidArgument))
	assert.Equal(t, MaxQuantity-1, item.Quantity)

	require.NoError(t, item.UpdateStock(1))
	assert.Equal(t, MaxQuantity, item.Quantity)

	empty := &InventoryItem{ProductID: 2}
	assert.True(t, errors.Is(empty.UpdateStock(3_000_000_000), apperror.ErrInvalidArgument))
	assert.True(t, errors.Is(empty.UpdateStock(math.MaxInt), apperror.ErrInvalidArgument))
	assert.True(t, errors.Is(empty.UpdateStock(math.MinInt), apperror.ErrInvariantViolation))
	assert.Equal(t, 0, empty.Quantity)
}

func TestNewInventoryItem(t *testing.T) {
	item, err := NewInventoryItem(3, 0, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultLocation, item.Location)

	_, err = NewInventoryItem(3, -1, "A1")
	assert.True(t, errors.Is(err, apperror.ErrInvalidArgument))

	_, err = NewInventoryItem(3, MaxQuantity+1, "A1")
	assert.True(t, errors.Is(err, apperror.ErrInvalidArgument))
}

func TestOrder_AddItemRequiresPositiveQuantity(t *testing.T) {
	p := &Product{ID: 1, SKU: "SKU1", Name: "Mouse", Price: decimal.NewFromFloat(2.5)}
	o := NewOrder(1, time.Now())
	assert.Equal(t, OrderStatusPending, o.Status)

	assert.True(t, errors.Is(o.AddItem(NewOrderItem(p, 0)), apperror.ErrInvalidArgument))
	assert.True(t, errors.Is(o.AddItem(NewOrderItem(p, -3)), apperror.ErrInvalidArgument))
	assert.True(t, errors.Is(o.AddItem(NewOrderItem(p, MaxQuantity+1)), apperror.ErrInvalidArgument))
	assert.Empty(t, o.Items)

	require.NoError(t, o.AddItem(NewOrderItem(p, 4)))
	assert.Len(t, o.Items, 1)
	assert.Equal(t, "SKU1", o.Items[0].ProductSKU)
	assert.True(t, o.Total().Equal(decimal.NewFromInt(10)))
}

func TestOrder_StatusMovesForwardOnly(t *testing.T) {
	o := NewOrder(1, time.Now())

	changed, err := o.Complete()
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = o.Complete()
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = o.Cancel()
	assert.True(t, errors.Is(err, apperror.ErrInvariantViolation))
	assert.Equal(t, OrderStatusCompleted, o.Status)

	p := &Product{ID: 1, SKU: "SKU1"}
	assert.True(t, errors.Is(o.AddItem(NewOrderItem(p, 1)), apperror.ErrInvariantViolation))
}

func TestOrder_Cancel(t *testing.T) {
	o := NewOrder(1, time.Now())

	changed, err := o.Cancel()
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = o.Cancel()
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = o.Complete()
	assert.True(t, errors.Is(err, apperror.ErrInvariantViolation))
	assert.Equal(t, OrderStatusCancelled, o.Status)
}

func TestSupplier(t *testing.T) {
	_, err := NewSupplier("  ", "a@b.c", "1")
	assert.True(t, errors.Is(err, apperror.ErrInvalidArgument))

	s, err := NewSupplier("Acme", "sales@acme.test", "555")
	require.NoError(t, err)
	s.AddProduct(Product{SKU: "SKU1"})
	s.AddProduct(Product{SKU: "SKU1"})
	s.AddProduct(Product{SKU: "SKU2"})
	assert.Len(t, s.Products, 2)
}
