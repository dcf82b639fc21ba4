package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/shared"
)

// ClientRepository defines the interface for client persistence.
// A uuid.Nil tenantID means unscoped access.
type ClientRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Client, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Client, int64, error)
	ExistsByDocument(ctx context.Context, tenantID uuid.UUID, number string, excludeID uuid.UUID) (bool, error)
	CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Save(ctx context.Context, client *Client) error
}

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Supplier, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Supplier, int64, error)
	ExistsByTaxID(ctx context.Context, tenantID uuid.UUID, taxID string, excludeID uuid.UUID) (bool, error)
	CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Save(ctx context.Context, supplier *Supplier) error
}
