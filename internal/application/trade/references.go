package trade

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/catalog"
	"github.com/negocio/backoffice/internal/domain/inventory"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OperationRecorder counts business operations by outcome
type OperationRecorder interface {
	RecordOperation(operation string, err error)
}

type nopRecorder struct{}

func (nopRecorder) RecordOperation(string, error) {}

// references checks that the warehouse and products of a document exist
// and are active in the tenant
type references struct {
	warehouses inventory.WarehouseRepository
	products   catalog.ProductRepository
}

func (r references) activeWarehouse(ctx context.Context, tenantID, id uuid.UUID) error {
	warehouse, err := r.warehouses.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse not found")
		}
		return err
	}
	if !warehouse.IsActive {
		return shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse is inactive")
	}
	return nil
}

func (r references) activeProducts(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]catalog.Product, error) {
	found, err := r.products.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]catalog.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Product not found: "+id.String())
		}
		if !p.IsActive {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Product is inactive: "+p.Code)
		}
	}
	return byID, nil
}

// stockMove is the quantity of one product entering or leaving a warehouse
type stockMove struct {
	productID   uuid.UUID
	productCode string
	quantity    decimal.Decimal
}

// applyStock moves stock for every line inside the current transaction.
// Rows are locked in product id order so concurrent documents touching
// the same products cannot deadlock. A missing row counts as zero stock.
func applyStock(ctx context.Context, repo inventory.WarehouseProductRepository, tenantID, warehouseID uuid.UUID, moves []stockMove, increase bool) error {
	sorted := make([]stockMove, len(moves))
	copy(sorted, moves)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].productID.String() < sorted[j].productID.String()
	})

	for _, m := range sorted {
		row, err := repo.FindForUpdate(ctx, tenantID, warehouseID, m.productID)
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return err
			}
			row = inventory.NewWarehouseProduct(tenantID, warehouseID, m.productID)
		}
		if increase {
			err = row.Increase(m.quantity)
		} else {
			err = row.Decrease(m.quantity)
		}
		if err != nil {
			if errors.Is(err, shared.ErrInsufficientStock) {
				return shared.NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock for product "+m.productCode)
			}
			return err
		}
		if err := repo.Save(ctx, row); err != nil {
			return err
		}
	}
	return nil
}
