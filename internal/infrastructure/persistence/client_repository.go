package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/partner"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/negocio/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var clientQuery = listQuery{
	searchFields: []string{"name", "document_number", "email"},
	sortFields:   ClientSortFields,
	defaultSort:  "name",
}

// GormClientRepository implements partner.ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByID finds a client by ID within an organization
func (r *GormClientRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*partner.Client, error) {
	var m models.ClientModel
	query := clientQuery.scopeTenant(r.db.WithContext(ctx), tenantID)
	if err := query.First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindAll returns one page of clients
func (r *GormClientRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Client, int64, error) {
	query := clientQuery.scopeTenant(r.db.WithContext(ctx).Model(&models.ClientModel{}), tenantID)
	query = clientQuery.apply(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ClientModel
	if err := clientQuery.page(query, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	clients := make([]partner.Client, len(rows))
	for i := range rows {
		clients[i] = *rows[i].ToDomain()
	}
	return clients, total, nil
}

// ExistsByDocument checks if another client of the organization has the document number
func (r *GormClientRepository) ExistsByDocument(ctx context.Context, tenantID uuid.UUID, number string, excludeID uuid.UUID) (bool, error) {
	return existsInTenant(ctx, r.db, &models.ClientModel{}, tenantID, "document_number", strings.ToUpper(strings.TrimSpace(number)), excludeID)
}

// CountActive counts the active clients of an organization
func (r *GormClientRepository) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return countActive(ctx, r.db, &models.ClientModel{}, tenantID)
}

// Save creates or updates a client
func (r *GormClientRepository) Save(ctx context.Context, client *partner.Client) error {
	return r.db.WithContext(ctx).Save(models.ClientModelFromDomain(client)).Error
}

var _ partner.ClientRepository = (*GormClientRepository)(nil)
