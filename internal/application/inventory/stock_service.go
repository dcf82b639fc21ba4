package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/catalog"
	"github.com/negocio/backoffice/internal/domain/inventory"
	"github.com/negocio/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// StockService manages the quantity of each product held in each warehouse
type StockService struct {
	txScope       TransactionScope
	stockRepo     inventory.WarehouseProductRepository
	warehouseRepo inventory.WarehouseRepository
	productRepo   catalog.ProductRepository
	logger        *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(
	txScope TransactionScope,
	stockRepo inventory.WarehouseProductRepository,
	warehouseRepo inventory.WarehouseRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *StockService {
	return &StockService{
		txScope:       txScope,
		stockRepo:     stockRepo,
		warehouseRepo: warehouseRepo,
		productRepo:   productRepo,
		logger:        logger,
	}
}

// ListStock returns the stock rows of a warehouse
func (s *StockService) ListStock(ctx context.Context, tenantID, warehouseID uuid.UUID, filter shared.Filter) (*shared.Paginated[StockLineResponse], error) {
	if _, err := s.warehouseRepo.FindByID(ctx, tenantID, warehouseID); err != nil {
		return nil, err
	}
	filter = filter.Normalize()
	lines, total, err := s.stockRepo.ListByWarehouse(ctx, tenantID, warehouseID, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(ToStockLineResponses(lines), total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListLowStock returns the rows whose quantity is below the product's minimum stock
func (s *StockService) ListLowStock(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[StockLineResponse], error) {
	filter = filter.Normalize()
	lines, total, err := s.stockRepo.ListLowStock(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(ToStockLineResponses(lines), total, filter.Page, filter.PageSize)
	return &result, nil
}

// SetStock sets the absolute quantity of a product in a warehouse,
// creating the row when it does not exist yet.
func (s *StockService) SetStock(ctx context.Context, tenantID, warehouseID, productID uuid.UUID, req SetStockRequest) (*StockResponse, error) {
	warehouse, err := s.activeWarehouse(ctx, tenantID, warehouseID)
	if err != nil {
		return nil, err
	}
	if _, err := s.activeProduct(ctx, warehouse.TenantID, productID); err != nil {
		return nil, err
	}

	var stock *inventory.WarehouseProduct
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		stock, err = lockedRow(ctx, repos.StockRepo(), warehouse.TenantID, warehouseID, productID)
		if err != nil {
			return err
		}
		if err := stock.SetQuantity(req.Quantity); err != nil {
			return err
		}
		return repos.StockRepo().Save(ctx, stock)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock set",
		zap.String("warehouse_id", warehouseID.String()),
		zap.String("product_id", productID.String()),
		zap.String("quantity", req.Quantity.String()))

	resp := ToStockResponse(stock)
	return &resp, nil
}

// AdjustStock applies a signed delta. The resulting quantity may not be
// negative (INSUFFICIENT_STOCK).
func (s *StockService) AdjustStock(ctx context.Context, tenantID, warehouseID, productID uuid.UUID, req AdjustStockRequest) (*StockResponse, error) {
	if req.Delta.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment cannot be zero")
	}
	warehouse, err := s.activeWarehouse(ctx, tenantID, warehouseID)
	if err != nil {
		return nil, err
	}
	if _, err := s.activeProduct(ctx, warehouse.TenantID, productID); err != nil {
		return nil, err
	}

	var stock *inventory.WarehouseProduct
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		stock, err = lockedRow(ctx, repos.StockRepo(), warehouse.TenantID, warehouseID, productID)
		if err != nil {
			return err
		}
		if err := stock.Adjust(req.Delta); err != nil {
			return err
		}
		return repos.StockRepo().Save(ctx, stock)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock adjusted",
		zap.String("warehouse_id", warehouseID.String()),
		zap.String("product_id", productID.String()),
		zap.String("delta", req.Delta.String()),
		zap.String("reason", req.Reason))

	resp := ToStockResponse(stock)
	return &resp, nil
}

// SyncProductStock upserts the quantity of each allocation of a product.
// Every allocation is attempted; the failures are returned joined.
func (s *StockService) SyncProductStock(ctx context.Context, tenantID, productID uuid.UUID, allocations []catalog.StockAllocation) error {
	if err := catalog.ValidateAllocations(allocations); err != nil {
		return err
	}

	var errs []error
	for _, a := range allocations {
		if err := s.syncAllocation(ctx, tenantID, productID, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *StockService) syncAllocation(ctx context.Context, tenantID, productID uuid.UUID, a catalog.StockAllocation) error {
	if _, err := s.activeWarehouse(ctx, tenantID, a.WarehouseID); err != nil {
		return err
	}
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		stock, err := lockedRow(ctx, repos.StockRepo(), tenantID, a.WarehouseID, productID)
		if err != nil {
			return err
		}
		if err := stock.SetQuantity(a.Quantity); err != nil {
			return err
		}
		return repos.StockRepo().Save(ctx, stock)
	})
}

func (s *StockService) activeWarehouse(ctx context.Context, tenantID, id uuid.UUID) (*inventory.Warehouse, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantRequired
	}
	warehouse, err := s.warehouseRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse not found")
		}
		return nil, err
	}
	if !warehouse.IsActive {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse is inactive")
	}
	return warehouse, nil
}

func (s *StockService) activeProduct(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Product not found")
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product is inactive")
	}
	return product, nil
}

// lockedRow loads the stock row for update, or a new empty row when the
// product has never been stocked in the warehouse.
func lockedRow(ctx context.Context, repo inventory.WarehouseProductRepository, tenantID, warehouseID, productID uuid.UUID) (*inventory.WarehouseProduct, error) {
	stock, err := repo.FindForUpdate(ctx, tenantID, warehouseID, productID)
	if err == nil {
		return stock, nil
	}
	if errors.Is(err, shared.ErrNotFound) {
		return inventory.NewWarehouseProduct(tenantID, warehouseID, productID), nil
	}
	return nil, err
}
