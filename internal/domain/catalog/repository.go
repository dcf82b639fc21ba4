package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/shared"
)

// Filter keys understood by ProductRepository.FindAll
const (
	FilterCategory = "category"
)

// ProductRepository defines the interface for product persistence.
// A uuid.Nil tenantID means unscoped access.
type ProductRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Product, error)
	// FindAll returns one page of products and the total count matching the filter
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string, excludeID uuid.UUID) (bool, error)
	CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Save(ctx context.Context, product *Product) error
}
