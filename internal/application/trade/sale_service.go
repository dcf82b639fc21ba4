package trade

import (
	"context"
	"errors"

	"github.com/google/uuid"
	appevent "github.com/negocio/backoffice/internal/application/event"
	"github.com/negocio/backoffice/internal/domain/partner"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/negocio/backoffice/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaleService registers sales out of a warehouse
type SaleService struct {
	txScope    TransactionScope
	saleRepo   trade.SaleRepository
	clientRepo partner.ClientRepository
	refs       references
	events     shared.EventPublisher
	metrics    OperationRecorder
	taxRate    decimal.Decimal
	currency   string
	logger     *zap.Logger
}

// NewSaleService creates a new SaleService
func NewSaleService(deps ServiceDeps) *SaleService {
	return &SaleService{
		txScope:    deps.TxScope,
		saleRepo:   deps.Sales,
		clientRepo: deps.Clients,
		refs:       references{warehouses: deps.Warehouses, products: deps.Products},
		events:     deps.Events,
		metrics:    deps.recorder(),
		taxRate:    deps.TaxRate,
		currency:   deps.Currency,
		logger:     deps.Logger,
	}
}

// Create registers a sale. Every line must be covered by the stock of the
// sale warehouse; the number, header, items and stock decrease are written
// in one transaction.
func (s *SaleService) Create(ctx context.Context, tenantID uuid.UUID, req CreateSaleRequest) (resp *SaleResponse, err error) {
	defer func() { s.metrics.RecordOperation("sale_created", err) }()

	header := trade.SaleHeader{
		ClientID:      req.ClientID,
		WarehouseID:   req.WarehouseID,
		UserID:        req.UserID,
		PaymentMethod: trade.PaymentMethod(req.PaymentMethod),
		Notes:         req.Notes,
	}
	if req.SaleDate != nil {
		header.SaleDate = *req.SaleDate
	}
	if req.Discount != nil {
		header.Discount = *req.Discount
	}
	sale, err := trade.NewSale(tenantID, header)
	if err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "At least one item is required")
	}

	if !sale.IsWalkIn() {
		if err := s.activeClient(ctx, tenantID, *sale.ClientID); err != nil {
			return nil, err
		}
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
		price := p.SalePrice
		if it.UnitPrice != nil {
			price = *it.UnitPrice
		}
		if err := sale.AddItem(p.ID, p.Code, p.Name, it.Quantity, price); err != nil {
			return nil, err
		}
		moves = append(moves, stockMove{productID: p.ID, productCode: p.Code, quantity: it.Quantity})
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		seq, err := repos.SequenceRepo().Next(ctx, tenantID, trade.SequenceSale)
		if err != nil {
			return err
		}
		if err := sale.Finalize(trade.FormatDocumentNumber(trade.SaleNumberPrefix, seq), s.taxRate); err != nil {
			return err
		}
		if err := repos.SaleRepo().Create(ctx, sale); err != nil {
			return err
		}
		return applyStock(ctx, repos.StockRepo(), tenantID, sale.WarehouseID, moves, false)
	})
	if err != nil {
		return nil, err
	}
	appevent.Flush(ctx, s.events, sale)

	s.logger.Info("sale created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("sale_id", sale.ID.String()),
		zap.String("number", sale.Number),
		zap.String("total", sale.Total.String()),
		zap.Bool("walk_in", sale.IsWalkIn()))

	r := s.respond(sale)
	return &r, nil
}

// GetByID retrieves a sale with its items
func (s *SaleService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := s.respond(sale)
	return &resp, nil
}

// List returns one page of sale headers
func (s *SaleService) List(ctx context.Context, tenantID uuid.UUID, listFilter SaleListFilter) (*shared.Paginated[SaleResponse], error) {
	filter := listFilter.ToFilter().Normalize()
	sales, total, err := s.saleRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]SaleResponse, len(sales))
	for i := range sales {
		items[i] = s.respond(&sales[i])
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Annul soft-deletes a sale and returns its quantities to the warehouse.
// The header is re-read under lock, so only one of two overlapping calls
// restores the stock; the other gets ALREADY_ANNULLED.
func (s *SaleService) Annul(ctx context.Context, tenantID, id uuid.UUID) (err error) {
	defer func() { s.metrics.RecordOperation("sale_annulled", err) }()

	var sale *trade.Sale
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		if sale, err = repos.SaleRepo().FindForUpdate(ctx, tenantID, id); err != nil {
			return err
		}
		if err := sale.Annul(); err != nil {
			return err
		}

		moves := make([]stockMove, len(sale.Items))
		for i, it := range sale.Items {
			moves[i] = stockMove{productID: it.ProductID, productCode: it.ProductCode, quantity: it.Quantity}
		}
		if err := applyStock(ctx, repos.StockRepo(), sale.TenantID, sale.WarehouseID, moves, true); err != nil {
			return err
		}
		return repos.SaleRepo().Save(ctx, sale)
	})
	if err != nil {
		return err
	}
	appevent.Flush(ctx, s.events, sale)

	s.logger.Info("sale annulled",
		zap.String("sale_id", sale.ID.String()),
		zap.String("number", sale.Number))
	return nil
}

func (s *SaleService) activeClient(ctx context.Context, tenantID, id uuid.UUID) error {
	client, err := s.clientRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_CLIENT", "Client not found")
		}
		return err
	}
	if !client.IsActive {
		return shared.NewDomainError("INVALID_CLIENT", "Client is inactive")
	}
	return nil
}

func (s *SaleService) respond(sale *trade.Sale) SaleResponse {
	resp := ToSaleResponse(sale)
	resp.Currency = s.currency
	return resp
}
