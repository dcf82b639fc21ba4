package catalog

import (
	"context"

	"github.com/google/uuid"
	appevent "github.com/negocio/backoffice/internal/application/event"
	appinventory "github.com/negocio/backoffice/internal/application/inventory"
	"github.com/negocio/backoffice/internal/domain/catalog"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/domain/inventory"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// QuotaChecker enforces plan limits before a resource is created
type QuotaChecker interface {
	CheckQuota(ctx context.Context, orgID uuid.UUID, resource identity.QuotaResource, current int64) error
}

// StockSyncer writes the warehouse quantities given with a product
type StockSyncer interface {
	SyncProductStock(ctx context.Context, tenantID, productID uuid.UUID, allocations []catalog.StockAllocation) error
}

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	stockRepo   inventory.WarehouseProductRepository
	stockSync   StockSyncer
	quota       QuotaChecker
	events      shared.EventPublisher
	logger      *zap.Logger
}

// ProductServiceDeps groups the collaborators of ProductService.
// StockSync and Quota are optional.
type ProductServiceDeps struct {
	Products  catalog.ProductRepository
	Stock     inventory.WarehouseProductRepository
	StockSync StockSyncer
	Quota     QuotaChecker
	Events    shared.EventPublisher
	Logger    *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(deps ProductServiceDeps) *ProductService {
	return &ProductService{
		productRepo: deps.Products,
		stockRepo:   deps.Stock,
		stockSync:   deps.StockSync,
		quota:       deps.Quota,
		events:      deps.Events,
		logger:      deps.Logger,
	}
}

// Create creates a new product and places its initial stock
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantRequired
	}
	if s.quota != nil {
		count, err := s.productRepo.CountActive(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		if err := s.quota.CheckQuota(ctx, tenantID, identity.QuotaProducts, count); err != nil {
			return nil, err
		}
	}

	product, err := catalog.NewProduct(tenantID, req.Code, catalog.ProductDetails{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Unit:        req.Unit,
		Barcode:     req.Barcode,
	})
	if err != nil {
		return nil, err
	}

	// Check if code already exists
	exists, err := s.productRepo.ExistsByCode(ctx, tenantID, product.Code, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this code already exists")
	}

	purchasePrice, salePrice := decimal.Zero, decimal.Zero
	if req.PurchasePrice != nil {
		purchasePrice = *req.PurchasePrice
	}
	if req.SalePrice != nil {
		salePrice = *req.SalePrice
	}
	if err := product.SetPrices(purchasePrice, salePrice); err != nil {
		return nil, err
	}
	if req.MinStock != nil {
		if err := product.SetMinStock(*req.MinStock); err != nil {
			return nil, err
		}
	}

	allocations := toAllocations(req.Stock)
	if err := catalog.ValidateAllocations(allocations); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	appevent.Flush(ctx, s.events, product)

	s.logger.Info("product created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("product_id", product.ID.String()),
		zap.String("code", product.Code))

	s.syncStock(ctx, product, allocations)

	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List returns one page of products. Search matches code, name, barcode
// and category; Filters[catalog.FilterCategory] narrows to one category.
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[ProductResponse], error) {
	filter = filter.Normalize()
	products, total, err := s.productRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]ProductResponse, len(products))
	for i := range products {
		items[i] = ToProductResponse(&products[i])
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update changes the given fields of a product and syncs the given stock
func (s *ProductService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Code != nil {
		if err := product.UpdateCode(*req.Code); err != nil {
			return nil, err
		}
		exists, err := s.productRepo.ExistsByCode(ctx, product.TenantID, product.Code, product.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this code already exists")
		}
	}

	details := catalog.ProductDetails{
		Name:        product.Name,
		Description: product.Description,
		Category:    product.Category,
		Unit:        product.Unit,
		Barcode:     product.Barcode,
	}
	if req.Name != nil {
		details.Name = *req.Name
	}
	if req.Description != nil {
		details.Description = *req.Description
	}
	if req.Category != nil {
		details.Category = *req.Category
	}
	if req.Unit != nil {
		details.Unit = *req.Unit
	}
	if req.Barcode != nil {
		details.Barcode = *req.Barcode
	}
	if err := product.Update(details); err != nil {
		return nil, err
	}

	if req.PurchasePrice != nil || req.SalePrice != nil {
		purchasePrice, salePrice := product.PurchasePrice, product.SalePrice
		if req.PurchasePrice != nil {
			purchasePrice = *req.PurchasePrice
		}
		if req.SalePrice != nil {
			salePrice = *req.SalePrice
		}
		if err := product.SetPrices(purchasePrice, salePrice); err != nil {
			return nil, err
		}
	}
	if req.MinStock != nil {
		if err := product.SetMinStock(*req.MinStock); err != nil {
			return nil, err
		}
	}

	allocations := toAllocations(req.Stock)
	if err := catalog.ValidateAllocations(allocations); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	appevent.Flush(ctx, s.events, product)

	s.syncStock(ctx, product, allocations)

	resp := ToProductResponse(product)
	return &resp, nil
}

// Deactivate soft-deletes a product
func (s *ProductService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := product.Deactivate(); err != nil {
		return err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return err
	}
	appevent.Flush(ctx, s.events, product)

	s.logger.Info("product deactivated", zap.String("product_id", id.String()))
	return nil
}

// Activate restores a soft-deleted product
func (s *ProductService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := product.Activate(); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	appevent.Flush(ctx, s.events, product)

	resp := ToProductResponse(product)
	return &resp, nil
}

// GetStock returns the stock of a product in every warehouse and the total
func (s *ProductService) GetStock(ctx context.Context, tenantID, id uuid.UUID) (*ProductStockResponse, error) {
	product, err := s.productRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	lines, err := s.stockRepo.ListByProduct(ctx, product.TenantID, product.ID)
	if err != nil {
		return nil, err
	}
	return &ProductStockResponse{
		ProductID:  product.ID,
		Code:       product.Code,
		Name:       product.Name,
		Total:      inventory.TotalQuantity(lines),
		Warehouses: appinventory.ToStockLineResponses(lines),
	}, nil
}

// syncStock writes the allocations of a saved product. The product is
// already persisted, so a failure here is logged and not returned.
func (s *ProductService) syncStock(ctx context.Context, product *catalog.Product, allocations []catalog.StockAllocation) {
	if s.stockSync == nil || len(allocations) == 0 {
		return
	}
	if err := s.stockSync.SyncProductStock(ctx, product.TenantID, product.ID, allocations); err != nil {
		s.logger.Warn("warehouse stock sync failed, product saved without it",
			zap.String("product_id", product.ID.String()),
			zap.Int("allocations", len(allocations)),
			zap.Error(err))
	}
}
