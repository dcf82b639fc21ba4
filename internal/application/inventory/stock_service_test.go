package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/catalog"
	"github.com/negocio/backoffice/internal/domain/inventory"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stockFixture struct {
	stock      *MockStockRepository
	warehouses *MockWarehouseRepository
	products   *MockProductRepository
	svc        *StockService
	tenantID   uuid.UUID
	warehouse  *inventory.Warehouse
	product    *catalog.Product
}

func newStockFixture() *stockFixture {
	f := &stockFixture{
		stock:      new(MockStockRepository),
		warehouses: new(MockWarehouseRepository),
		products:   new(MockProductRepository),
		tenantID:   uuid.New(),
	}
	f.warehouse = newTestWarehouse(f.tenantID, "ALM-01")
	f.product = newTestProduct(f.tenantID, "P-001")
	f.svc = NewStockService(NewNoOpTransactionScope(f.stock), f.stock, f.warehouses, f.products, zap.NewNop())
	return f
}

func (f *stockFixture) expectCatalog(ctx context.Context) {
	f.warehouses.On("FindByID", ctx, f.tenantID, f.warehouse.ID).Return(f.warehouse, nil)
	f.products.On("FindByID", ctx, f.tenantID, f.product.ID).Return(f.product, nil)
}

func TestStockService_SetStock_CreatesRow(t *testing.T) {
	f := newStockFixture()
	ctx := context.Background()
	f.expectCatalog(ctx)
	f.stock.On("FindForUpdate", ctx, f.tenantID, f.warehouse.ID, f.product.ID).Return(nil, shared.ErrNotFound)
	f.stock.On("Save", ctx, mock.MatchedBy(func(wp *inventory.WarehouseProduct) bool {
		return wp.Quantity.Equal(qty("25")) && wp.TenantID == f.tenantID
	})).Return(nil)

	resp, err := f.svc.SetStock(ctx, f.tenantID, f.warehouse.ID, f.product.ID, SetStockRequest{Quantity: qty("25")})
	require.NoError(t, err)
	assert.True(t, qty("25").Equal(resp.Quantity))
	f.stock.AssertExpectations(t)
}

func TestStockService_SetStock_Negative(t *testing.T) {
	f := newStockFixture()
	ctx := context.Background()
	f.expectCatalog(ctx)
	f.stock.On("FindForUpdate", ctx, f.tenantID, f.warehouse.ID, f.product.ID).Return(nil, shared.ErrNotFound)

	_, err := f.svc.SetStock(ctx, f.tenantID, f.warehouse.ID, f.product.ID, SetStockRequest{Quantity: qty("-1")})
	assert.Equal(t, "INVALID_QUANTITY", shared.CodeOf(err))
	f.stock.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestStockService_AdjustStock(t *testing.T) {
	f := newStockFixture()
	ctx := context.Background()
	f.expectCatalog(ctx)
	row := inventory.NewWarehouseProduct(f.tenantID, f.warehouse.ID, f.product.ID)
	require.NoError(t, row.SetQuantity(qty("10")))
	f.stock.On("FindForUpdate", ctx, f.tenantID, f.warehouse.ID, f.product.ID).Return(row, nil)
	f.stock.On("Save", ctx, row).Return(nil)

	resp, err := f.svc.AdjustStock(ctx, f.tenantID, f.warehouse.ID, f.product.ID, AdjustStockRequest{Delta: qty("-4")})
	require.NoError(t, err)
	assert.True(t, qty("6").Equal(resp.Quantity))

	_, err = f.svc.AdjustStock(ctx, f.tenantID, f.warehouse.ID, f.product.ID, AdjustStockRequest{Delta: qty("-7")})
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.True(t, qty("6").Equal(row.Quantity))
}

func TestStockService_AdjustStock_InactiveWarehouse(t *testing.T) {
	f := newStockFixture()
	ctx := context.Background()
	require.NoError(t, f.warehouse.Deactivate())
	f.warehouses.On("FindByID", ctx, f.tenantID, f.warehouse.ID).Return(f.warehouse, nil)

	_, err := f.svc.AdjustStock(ctx, f.tenantID, f.warehouse.ID, f.product.ID, AdjustStockRequest{Delta: qty("1")})
	assert.Equal(t, "INVALID_WAREHOUSE", shared.CodeOf(err))
}

func TestStockService_AdjustStock_RequiresOrganization(t *testing.T) {
	f := newStockFixture()
	_, err := f.svc.AdjustStock(context.Background(), uuid.Nil, f.warehouse.ID, f.product.ID, AdjustStockRequest{Delta: qty("1")})
	assert.ErrorIs(t, err, shared.ErrTenantRequired)
}

func TestStockService_SyncProductStock_ContinuesAfterFailure(t *testing.T) {
	f := newStockFixture()
	ctx := context.Background()
	missing := uuid.New()
	f.warehouses.On("FindByID", ctx, f.tenantID, missing).Return(nil, shared.ErrNotFound)
	f.warehouses.On("FindByID", ctx, f.tenantID, f.warehouse.ID).Return(f.warehouse, nil)
	f.stock.On("FindForUpdate", ctx, f.tenantID, f.warehouse.ID, f.product.ID).Return(nil, shared.ErrNotFound)
	f.stock.On("Save", ctx, mock.AnythingOfType("*inventory.WarehouseProduct")).Return(nil)

	err := f.svc.SyncProductStock(ctx, f.tenantID, f.product.ID, []catalog.StockAllocation{
		{WarehouseID: missing, Quantity: qty("3")},
		{WarehouseID: f.warehouse.ID, Quantity: qty("5")},
	})
	require.Error(t, err)
	assert.Equal(t, "INVALID_WAREHOUSE", shared.CodeOf(err))
	f.stock.AssertNumberOfCalls(t, "Save", 1)
}

func TestStockService_SyncProductStock_SaveFailure(t *testing.T) {
	f := newStockFixture()
	ctx := context.Background()
	f.warehouses.On("FindByID", ctx, f.tenantID, f.warehouse.ID).Return(f.warehouse, nil)
	f.stock.On("FindForUpdate", ctx, f.tenantID, f.warehouse.ID, f.product.ID).Return(nil, shared.ErrNotFound)
	f.stock.On("Save", ctx, mock.Anything).Return(errors.New("deadlock detected"))

	err := f.svc.SyncProductStock(ctx, f.tenantID, f.product.ID, []catalog.StockAllocation{
		{WarehouseID: f.warehouse.ID, Quantity: qty("5")},
	})
	assert.EqualError(t, err, "deadlock detected")
}

func TestStockService_ListLowStock(t *testing.T) {
	f := newStockFixture()
	ctx := context.Background()
	filter := shared.Filter{}.Normalize()
	line := inventory.StockLine{
		WarehouseProduct: *inventory.NewWarehouseProduct(f.tenantID, f.warehouse.ID, f.product.ID),
		ProductCode:      "P-001",
		MinStock:         qty("5"),
	}
	f.stock.On("ListLowStock", ctx, f.tenantID, filter).Return([]inventory.StockLine{line}, int64(1), nil)

	page, err := f.svc.ListLowStock(ctx, f.tenantID, shared.Filter{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.True(t, page.Items[0].IsLow)
	assert.Equal(t, "P-001", page.Items[0].ProductCode)
}
