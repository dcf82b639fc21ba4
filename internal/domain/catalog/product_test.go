package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDetails() ProductDetails {
	return ProductDetails{Name: "Arroz Costeño 5kg", Category: "Abarrotes", Unit: "und", Barcode: "7751234567890"}
}

func TestNewProduct(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates product with valid inputs", func(t *testing.T) {
		product, err := NewProduct(tenantID, "sku-001", validDetails())
		require.NoError(t, err)

		assert.Equal(t, tenantID, product.TenantID)
		assert.Equal(t, "SKU-001", product.Code)
		assert.Equal(t, "Arroz Costeño 5kg", product.Name)
		assert.Equal(t, "UND", product.Unit)
		assert.True(t, product.IsActive)
		assert.True(t, product.SalePrice.IsZero())
		assert.Equal(t, 1, product.GetVersion())

		events := product.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductCreated, events[0].EventType())
	})

	t.Run("defaults the unit", func(t *testing.T) {
		d := validDetails()
		d.Unit = ""
		product, err := NewProduct(tenantID, "SKU-002", d)
		require.NoError(t, err)
		assert.Equal(t, DefaultUnit, product.Unit)
	})

	tests := []struct {
		name    string
		code    string
		mutate  func(*ProductDetails)
		errCode string
	}{
		{"empty code", "", nil, "INVALID_CODE"},
		{"invalid code characters", "SKU@001", nil, "INVALID_CODE"},
		{"empty name", "SKU-1", func(d *ProductDetails) { d.Name = "  " }, "INVALID_NAME"},
		{"long barcode", "SKU-1", func(d *ProductDetails) { d.Barcode = string(make([]byte, 51)) }, "INVALID_BARCODE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDetails()
			if tt.mutate != nil {
				tt.mutate(&d)
			}
			_, err := NewProduct(tenantID, tt.code, d)
			require.Error(t, err)
			assert.Equal(t, tt.errCode, shared.CodeOf(err))
		})
	}

	t.Run("requires organization", func(t *testing.T) {
		_, err := NewProduct(uuid.Nil, "SKU-1", validDetails())
		assert.ErrorIs(t, err, shared.ErrTenantRequired)
	})
}

func TestProduct_SetPrices(t *testing.T) {
	product, err := NewProduct(uuid.New(), "SKU-1", validDetails())
	require.NoError(t, err)

	require.NoError(t, product.SetPrices(decimal.NewFromInt(80), decimal.NewFromInt(100)))
	assert.True(t, product.GetProfitMargin().Equal(decimal.NewFromInt(25)))

	err = product.SetPrices(decimal.NewFromInt(-1), decimal.NewFromInt(100))
	assert.Equal(t, "INVALID_PRICE", shared.CodeOf(err))

	err = product.SetMinStock(decimal.NewFromInt(-5))
	assert.Equal(t, "INVALID_MIN_STOCK", shared.CodeOf(err))
}

func TestProduct_SoftDelete(t *testing.T) {
	product, err := NewProduct(uuid.New(), "SKU-1", validDetails())
	require.NoError(t, err)
	product.ClearDomainEvents()

	require.NoError(t, product.Deactivate())
	assert.False(t, product.IsActive)
	assert.ErrorIs(t, product.Deactivate(), shared.ErrAlreadyInactive)

	require.NoError(t, product.Activate())
	assert.True(t, product.IsActive)
	require.Len(t, product.GetDomainEvents(), 2)
	assert.Equal(t, EventTypeProductActivated, product.GetDomainEvents()[1].EventType())
}

func TestValidateAllocations(t *testing.T) {
	wh := uuid.New()

	assert.NoError(t, ValidateAllocations(nil))
	assert.NoError(t, ValidateAllocations([]StockAllocation{{WarehouseID: wh, Quantity: decimal.Zero}}))

	err := ValidateAllocations([]StockAllocation{{WarehouseID: wh, Quantity: decimal.NewFromInt(-1)}})
	assert.Equal(t, "INVALID_QUANTITY", shared.CodeOf(err))

	err = ValidateAllocations([]StockAllocation{{WarehouseID: wh, Quantity: decimal.NewFromInt(1)}, {WarehouseID: wh, Quantity: decimal.NewFromInt(2)}})
	assert.Equal(t, "DUPLICATE_WAREHOUSE", shared.CodeOf(err))

	err = ValidateAllocations([]StockAllocation{{Quantity: decimal.NewFromInt(1)}})
	assert.Equal(t, "INVALID_WAREHOUSE", shared.CodeOf(err))
}
