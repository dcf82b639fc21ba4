package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/shared"
)

// WarehouseRepository defines the interface for warehouse persistence.
// A uuid.Nil tenantID means unscoped access.
type WarehouseRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Warehouse, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Warehouse, int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string, excludeID uuid.UUID) (bool, error)
	CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Save(ctx context.Context, warehouse *Warehouse) error
}

// WarehouseProductRepository defines the interface for per-warehouse stock
type WarehouseProductRepository interface {
	// Find returns the stock row of a product in a warehouse, or shared.ErrNotFound
	Find(ctx context.Context, tenantID, warehouseID, productID uuid.UUID) (*WarehouseProduct, error)
	// FindForUpdate is Find with a row lock held until the surrounding transaction ends
	FindForUpdate(ctx context.Context, tenantID, warehouseID, productID uuid.UUID) (*WarehouseProduct, error)
	ListByWarehouse(ctx context.Context, tenantID, warehouseID uuid.UUID, filter shared.Filter) ([]StockLine, int64, error)
	ListByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]StockLine, error)
	// ListLowStock returns active rows whose quantity is below the product's min stock
	ListLowStock(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockLine, int64, error)
	CountLowStock(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Save(ctx context.Context, stock *WarehouseProduct) error
}
