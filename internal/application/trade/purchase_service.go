package trade

import (
	"context"
	"errors"

	"github.com/google/uuid"
	appevent "github.com/negocio/backoffice/internal/application/event"
	"github.com/negocio/backoffice/internal/domain/catalog"
	"github.com/negocio/backoffice/internal/domain/inventory"
	"github.com/negocio/backoffice/internal/domain/partner"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/negocio/backoffice/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ServiceDeps groups the collaborators shared by PurchaseService and SaleService.
// Events and Metrics are optional.
type ServiceDeps struct {
	TxScope    TransactionScope
	Purchases  trade.PurchaseRepository
	Sales      trade.SaleRepository
	Suppliers  partner.SupplierRepository
	Clients    partner.ClientRepository
	Warehouses inventory.WarehouseRepository
	Products   catalog.ProductRepository
	Events     shared.EventPublisher
	Metrics    OperationRecorder
	TaxRate    decimal.Decimal
	Currency   string // ISO 4217 code stamped on document responses
	Logger     *zap.Logger
}

func (d ServiceDeps) recorder() OperationRecorder {
	if d.Metrics == nil {
		return nopRecorder{}
	}
	return d.Metrics
}

// PurchaseService registers goods received from suppliers
type PurchaseService struct {
	txScope      TransactionScope
	purchaseRepo trade.PurchaseRepository
	supplierRepo partner.SupplierRepository
	refs         references
	events       shared.EventPublisher
	metrics      OperationRecorder
	taxRate      decimal.Decimal
	currency     string
	logger       *zap.Logger
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(deps ServiceDeps) *PurchaseService {
	return &PurchaseService{
		txScope:      deps.TxScope,
		purchaseRepo: deps.Purchases,
		supplierRepo: deps.Suppliers,
		refs:         references{warehouses: deps.Warehouses, products: deps.Products},
		events:       deps.Events,
		metrics:      deps.recorder(),
		taxRate:      deps.TaxRate,
		currency:     deps.Currency,
		logger:       deps.Logger,
	}
}

// Create registers a purchase. The number, header, items and stock
// increase are written in one transaction.
func (s *PurchaseService) Create(ctx context.Context, tenantID uuid.UUID, req CreatePurchaseRequest) (resp *PurchaseResponse, err error) {
	defer func() { s.metrics.RecordOperation("purchase_created", err) }()

	header := trade.PurchaseHeader{
		SupplierID:     req.SupplierID,
		WarehouseID:    req.WarehouseID,
		UserID:         req.UserID,
		DocumentNumber: req.DocumentNumber,
		Notes:          req.Notes,
	}
	if req.PurchaseDate != nil {
		header.PurchaseDate = *req.PurchaseDate
	}
	purchase, err := trade.NewPurchase(tenantID, header)
	if err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "At least one item is required")
	}

	if err := s.activeSupplier(ctx, tenantID, req.SupplierID); err != nil {
		return nil, err
	}
	if err := s.refs.activeWarehouse(ctx, tenantID, req.WarehouseID); err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(req.Items))
	for i, it := range req.Items {
		ids[i] = it.ProductID
	}
	products, err := s.refs.activeProducts(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}

	moves := make([]stockMove, 0, len(req.Items))
	for _, it := range req.Items {
		p := products[it.ProductID]
		if err := purchase.AddItem(p.ID, p.Code, p.Name, it.Quantity, it.UnitCost); err != nil {
			return nil, err
		}
		moves = append(moves, stockMove{productID: p.ID, productCode: p.Code, quantity: it.Quantity})
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		seq, err := repos.SequenceRepo().Next(ctx, tenantID, trade.SequencePurchase)
		if err != nil {
			return err
		}
		if err := purchase.Finalize(trade.FormatDocumentNumber(trade.PurchaseNumberPrefix, seq), s.taxRate); err != nil {
			return err
		}
		if err := repos.PurchaseRepo().Create(ctx, purchase); err != nil {
			return err
		}
		return applyStock(ctx, repos.StockRepo(), tenantID, purchase.WarehouseID, moves, true)
	})
	if err != nil {
		return nil, err
	}
	appevent.Flush(ctx, s.events, purchase)

	s.logger.Info("purchase created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("purchase_id", purchase.ID.String()),
		zap.String("number", purchase.Number),
		zap.String("total", purchase.Total.String()))

	r := s.respond(purchase)
	return &r, nil
}

// GetByID retrieves a purchase with its items
func (s *PurchaseService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*PurchaseResponse, error) {
	purchase, err := s.purchaseRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := s.respond(purchase)
	return &resp, nil
}

// List returns one page of purchase headers
func (s *PurchaseService) List(ctx context.Context, tenantID uuid.UUID, listFilter PurchaseListFilter) (*shared.Paginated[PurchaseResponse], error) {
	filter := listFilter.ToFilter().Normalize()
	purchases, total, err := s.purchaseRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]PurchaseResponse, len(purchases))
	for i := range purchases {
		items[i] = s.respond(&purchases[i])
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Annul soft-deletes a purchase and takes its quantities back out of the
// warehouse. It fails with INSUFFICIENT_STOCK when the goods were already sold.
func (s *PurchaseService) Annul(ctx context.Context, tenantID, id uuid.UUID) (err error) {
	defer func() { s.metrics.RecordOperation("purchase_annulled", err) }()

	var purchase *trade.Purchase
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		if purchase, err = repos.PurchaseRepo().FindForUpdate(ctx, tenantID, id); err != nil {
			return err
		}
		if err := purchase.Annul(); err != nil {
			return err
		}

		moves := make([]stockMove, len(purchase.Items))
		for i, it := range purchase.Items {
			moves[i] = stockMove{productID: it.ProductID, productCode: it.ProductCode, quantity: it.Quantity}
		}
		if err := applyStock(ctx, repos.StockRepo(), purchase.TenantID, purchase.WarehouseID, moves, false); err != nil {
			return err
		}
		return repos.PurchaseRepo().Save(ctx, purchase)
	})
	if err != nil {
		return err
	}
	appevent.Flush(ctx, s.events, purchase)

	s.logger.Info("purchase annulled",
		zap.String("purchase_id", purchase.ID.String()),
		zap.String("number", purchase.Number))
	return nil
}

func (s *PurchaseService) activeSupplier(ctx context.Context, tenantID, id uuid.UUID) error {
	supplier, err := s.supplierRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_SUPPLIER", "Supplier not found")
		}
		return err
	}
	if !supplier.IsActive {
		return shared.NewDomainError("INVALID_SUPPLIER", "Supplier is inactive")
	}
	return nil
}

func (s *PurchaseService) respond(p *trade.Purchase) PurchaseResponse {
	resp := ToPurchaseResponse(p)
	resp.Currency = s.currency
	return resp
}
