package trade

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/catalog"
	"github.com/negocio/backoffice/internal/domain/inventory"
	"github.com/negocio/backoffice/internal/domain/partner"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/negocio/backoffice/internal/domain/trade"
	"github.com/shopspring/decimal"
)

type stockKey struct {
	warehouseID uuid.UUID
	productID   uuid.UUID
}

// memStock keeps stock rows by value so a snapshot can be restored
type memStock struct {
	inventory.WarehouseProductRepository
	rows    map[stockKey]inventory.WarehouseProduct
	saveErr error
}

func newMemStock() *memStock {
	return &memStock{rows: make(map[stockKey]inventory.WarehouseProduct)}
}

func (m *memStock) FindForUpdate(_ context.Context, _, warehouseID, productID uuid.UUID) (*inventory.WarehouseProduct, error) {
	row, ok := m.rows[stockKey{warehouseID, productID}]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &row, nil
}

func (m *memStock) Save(_ context.Context, stock *inventory.WarehouseProduct) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.rows[stockKey{stock.WarehouseID, stock.ProductID}] = *stock
	return nil
}

func (m *memStock) put(tenantID, warehouseID, productID uuid.UUID, qty int64) {
	row := inventory.NewWarehouseProduct(tenantID, warehouseID, productID)
	row.Quantity = decimal.NewFromInt(qty)
	m.rows[stockKey{warehouseID, productID}] = *row
}

func (m *memStock) quantity(warehouseID, productID uuid.UUID) decimal.Decimal {
	return m.rows[stockKey{warehouseID, productID}].Quantity
}

type memSequences struct {
	next map[string]int64
}

func (m *memSequences) Next(_ context.Context, tenantID uuid.UUID, kind string) (int64, error) {
	if m.next == nil {
		m.next = make(map[string]int64)
	}
	key := tenantID.String() + "/" + kind
	m.next[key]++
	return m.next[key], nil
}

type memPurchases struct {
	byID map[uuid.UUID]*trade.Purchase
}

func (m *memPurchases) FindByID(_ context.Context, _, id uuid.UUID) (*trade.Purchase, error) {
	if p, ok := m.byID[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (m *memPurchases) FindAll(context.Context, uuid.UUID, shared.Filter) ([]trade.Purchase, int64, error) {
	out := make([]trade.Purchase, 0, len(m.byID))
	for _, p := range m.byID {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (m *memPurchases) Create(_ context.Context, p *trade.Purchase) error {
	if m.byID == nil {
		m.byID = make(map[uuid.UUID]*trade.Purchase)
	}
	m.byID[p.ID] = p
	return nil
}

// FindForUpdate hands out a copy so a rolled back annul leaves the stored purchase alone
func (m *memPurchases) FindForUpdate(_ context.Context, _, id uuid.UUID) (*trade.Purchase, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPurchases) Save(_ context.Context, p *trade.Purchase) error {
	if stored, ok := m.byID[p.ID]; !ok || stored.Version != p.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	m.byID[p.ID] = p
	return nil
}

type memSales struct {
	byID       map[uuid.UUID]*trade.Sale
	lastQuery  shared.Filter
	beforeSave func()
}

func (m *memSales) FindByID(_ context.Context, _, id uuid.UUID) (*trade.Sale, error) {
	if s, ok := m.byID[id]; ok {
		return s, nil
	}
	return nil, shared.ErrNotFound
}

func (m *memSales) FindAll(_ context.Context, _ uuid.UUID, filter shared.Filter) ([]trade.Sale, int64, error) {
	m.lastQuery = filter
	return nil, 0, nil
}

func (m *memSales) Create(_ context.Context, s *trade.Sale) error {
	if m.byID == nil {
		m.byID = make(map[uuid.UUID]*trade.Sale)
	}
	m.byID[s.ID] = s
	return nil
}

func (m *memSales) FindForUpdate(_ context.Context, _, id uuid.UUID) (*trade.Sale, error) {
	s, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSales) Save(_ context.Context, s *trade.Sale) error {
	if m.beforeSave != nil {
		m.beforeSave()
	}
	if stored, ok := m.byID[s.ID]; !ok || stored.Version != s.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	m.byID[s.ID] = s
	return nil
}

func (m *memSales) Summarize(context.Context, uuid.UUID, time.Time, time.Time) (trade.SalesSummary, error) {
	return trade.SalesSummary{}, nil
}

// rollbackScope restores every fake repository when fn fails
type rollbackScope struct {
	mu        sync.Mutex
	stock     *memStock
	sequences *memSequences
	purchases *memPurchases
	sales     *memSales
}

func (s *rollbackScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stock := make(map[stockKey]inventory.WarehouseProduct, len(s.stock.rows))
	for k, v := range s.stock.rows {
		stock[k] = v
	}
	seq := make(map[string]int64, len(s.sequences.next))
	for k, v := range s.sequences.next {
		seq[k] = v
	}
	purchases := make(map[uuid.UUID]*trade.Purchase, len(s.purchases.byID))
	for k, v := range s.purchases.byID {
		purchases[k] = v
	}
	sales := make(map[uuid.UUID]*trade.Sale, len(s.sales.byID))
	for k, v := range s.sales.byID {
		sales[k] = v
	}

	if err := fn(s); err != nil {
		s.stock.rows = stock
		s.sequences.next = seq
		s.purchases.byID = purchases
		s.sales.byID = sales
		return err
	}
	return nil
}

func (s *rollbackScope) PurchaseRepo() trade.PurchaseRepository         { return s.purchases }
func (s *rollbackScope) SaleRepo() trade.SaleRepository                 { return s.sales }
func (s *rollbackScope) SequenceRepo() trade.SequenceRepository         { return s.sequences }
func (s *rollbackScope) StockRepo() inventory.WarehouseProductRepository { return s.stock }

type memWarehouses struct {
	inventory.WarehouseRepository
	byID map[uuid.UUID]*inventory.Warehouse
}

func (m *memWarehouses) FindByID(_ context.Context, _, id uuid.UUID) (*inventory.Warehouse, error) {
	if w, ok := m.byID[id]; ok {
		return w, nil
	}
	return nil, shared.ErrNotFound
}

type memProducts struct {
	catalog.ProductRepository
	byID map[uuid.UUID]*catalog.Product
}

func (m *memProducts) FindByIDs(_ context.Context, _ uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

type memSuppliers struct {
	partner.SupplierRepository
	byID map[uuid.UUID]*partner.Supplier
}

func (m *memSuppliers) FindByID(_ context.Context, _, id uuid.UUID) (*partner.Supplier, error) {
	if s, ok := m.byID[id]; ok {
		return s, nil
	}
	return nil, shared.ErrNotFound
}

type memClients struct {
	partner.ClientRepository
	byID map[uuid.UUID]*partner.Client
}

func (m *memClients) FindByID(_ context.Context, _, id uuid.UUID) (*partner.Client, error) {
	if c, ok := m.byID[id]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

type recordedOp struct {
	name string
	err  error
}

type opRecorder struct {
	ops []recordedOp
}

func (r *opRecorder) RecordOperation(operation string, err error) {
	r.ops = append(r.ops, recordedOp{operation, err})
}

var errDiskFull = errors.New("could not extend file: No space left on device")
