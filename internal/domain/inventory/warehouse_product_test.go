package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestWarehouseProduct_Quantities(t *testing.T) {
	wp := NewWarehouseProduct(uuid.New(), uuid.New(), uuid.New())
	assert.True(t, wp.Quantity.IsZero())

	require.NoError(t, wp.SetQuantity(d(10)))
	assert.True(t, wp.Quantity.Equal(d(10)))

	err := wp.SetQuantity(d(-1))
	assert.Equal(t, "INVALID_QUANTITY", shared.CodeOf(err))

	require.NoError(t, wp.Adjust(d(-4)))
	assert.True(t, wp.Quantity.Equal(d(6)))

	err = wp.Adjust(d(-7))
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.True(t, wp.Quantity.Equal(d(6)), "failed adjustment leaves quantity untouched")

	require.NoError(t, wp.Decrease(d(6)))
	assert.True(t, wp.Quantity.IsZero())

	assert.Error(t, wp.Increase(d(0)))
	require.NoError(t, wp.Increase(d(3)))
	assert.True(t, wp.CanFulfill(d(3)))
	assert.False(t, wp.CanFulfill(d(4)))
}

func TestWarehouseProduct_SetQuantityRestoresRow(t *testing.T) {
	wp := NewWarehouseProduct(uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, wp.Deactivate())
	assert.False(t, wp.CanFulfill(d(0)))

	require.NoError(t, wp.SetQuantity(d(2)))
	assert.True(t, wp.IsActive)
}

func TestStockLine(t *testing.T) {
	lines := []StockLine{
		{WarehouseProduct: WarehouseProduct{Quantity: d(2)}, MinStock: d(5)},
		{WarehouseProduct: WarehouseProduct{Quantity: d(5)}, MinStock: d(5)},
	}
	assert.True(t, lines[0].IsLow())
	assert.False(t, lines[1].IsLow())
	assert.True(t, TotalQuantity(lines).Equal(d(7)))
}
