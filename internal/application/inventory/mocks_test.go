package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/catalog"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/domain/inventory"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockWarehouseRepository is a mock implementation of inventory.WarehouseRepository
type MockWarehouseRepository struct {
	mock.Mock
}

func (m *MockWarehouseRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*inventory.Warehouse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Warehouse), args.Error(1)
}

func (m *MockWarehouseRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.Warehouse, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]inventory.Warehouse), args.Get(1).(int64), args.Error(2)
}

func (m *MockWarehouseRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, code, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWarehouseRepository) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWarehouseRepository) Save(ctx context.Context, warehouse *inventory.Warehouse) error {
	args := m.Called(ctx, warehouse)
	return args.Error(0)
}

// MockStockRepository is a mock implementation of inventory.WarehouseProductRepository
type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) Find(ctx context.Context, tenantID, warehouseID, productID uuid.UUID) (*inventory.WarehouseProduct, error) {
	args := m.Called(ctx, tenantID, warehouseID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.WarehouseProduct), args.Error(1)
}

func (m *MockStockRepository) FindForUpdate(ctx context.Context, tenantID, warehouseID, productID uuid.UUID) (*inventory.WarehouseProduct, error) {
	args := m.Called(ctx, tenantID, warehouseID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.WarehouseProduct), args.Error(1)
}

func (m *MockStockRepository) ListByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID, filter shared.Filter) ([]inventory.StockLine, int64, error) {
	args := m.Called(ctx, tenantID, warehouseID, filter)
	return args.Get(0).([]inventory.StockLine), args.Get(1).(int64), args.Error(2)
}

func (m *MockStockRepository) ListByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]inventory.StockLine, error) {
	args := m.Called(ctx, tenantID, productID)
	return args.Get(0).([]inventory.StockLine), args.Error(1)
}

func (m *MockStockRepository) ListLowStock(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.StockLine, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]inventory.StockLine), args.Get(1).(int64), args.Error(2)
}

func (m *MockStockRepository) CountLowStock(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStockRepository) Save(ctx context.Context, stock *inventory.WarehouseProduct) error {
	args := m.Called(ctx, stock)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID, code, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

// MockQuotaChecker is a mock implementation of QuotaChecker
type MockQuotaChecker struct {
	mock.Mock
}

func (m *MockQuotaChecker) CheckQuota(ctx context.Context, orgID uuid.UUID, resource identity.QuotaResource, current int64) error {
	args := m.Called(ctx, orgID, resource, current)
	return args.Error(0)
}

func newTestWarehouse(tenantID uuid.UUID, code string) *inventory.Warehouse {
	w, err := inventory.NewWarehouse(tenantID, code, code+" warehouse")
	if err != nil {
		panic(err)
	}
	w.ClearDomainEvents()
	return w
}

func newTestProduct(tenantID uuid.UUID, code string) *catalog.Product {
	p, err := catalog.NewProduct(tenantID, code, catalog.ProductDetails{Name: code + " product"})
	if err != nil {
		panic(err)
	}
	p.ClearDomainEvents()
	return p
}

func qty(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
