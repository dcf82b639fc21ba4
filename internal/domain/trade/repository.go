package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Filter keys understood by the trade repositories
const (
	FilterSupplierID    = "supplier_id"
	FilterClientID      = "client_id"
	FilterWarehouseID   = "warehouse_id"
	FilterPaymentMethod = "payment_method"
	FilterDateFrom      = "date_from"
	FilterDateTo        = "date_to"
)

// Sequence kinds for document numbering
const (
	SequencePurchase = "purchase"
	SequenceSale     = "sale"
)

// SequenceRepository hands out per-tenant document sequences.
// Next must run inside the transaction that stores the document.
type SequenceRepository interface {
	Next(ctx context.Context, tenantID uuid.UUID, kind string) (int64, error)
}

// PurchaseRepository defines the interface for purchase persistence.
// A uuid.Nil tenantID means unscoped access.
type PurchaseRepository interface {
	// FindByID loads the purchase with its items
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Purchase, error)
	// FindAll returns headers only
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Purchase, int64, error)
	// FindForUpdate loads the purchase and locks its header until the
	// surrounding transaction ends
	FindForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Purchase, error)
	// Create inserts the header and its items
	Create(ctx context.Context, purchase *Purchase) error
	// Save updates the header. It fails with shared.ErrConcurrencyConflict
	// when the stored version moved since the purchase was loaded.
	Save(ctx context.Context, purchase *Purchase) error
}

// SalesSummary aggregates the active sales of a period
type SalesSummary struct {
	Count int64
	Total decimal.Decimal
}

// SaleRepository defines the interface for sale persistence
type SaleRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Sale, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Sale, int64, error)
	FindForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Sale, error)
	Create(ctx context.Context, sale *Sale) error
	// Save fails with shared.ErrConcurrencyConflict on a stale version
	Save(ctx context.Context, sale *Sale) error
	// Summarize counts and totals active sales dated in [from, to)
	Summarize(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (SalesSummary, error)
}
