package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/negocio/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var organizationQuery = listQuery{
	searchFields: []string{"name", "tax_id", "email"},
	sortFields:   OrganizationSortFields,
	defaultSort:  "created_at",
}

// GormOrganizationRepository implements identity.OrganizationRepository using GORM
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewGormOrganizationRepository creates a new GormOrganizationRepository
func NewGormOrganizationRepository(db *gorm.DB) *GormOrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

// FindByID finds an organization by its ID
func (r *GormOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Organization, error) {
	var m models.OrganizationModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindAll returns one page of organizations
func (r *GormOrganizationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Organization, int64, error) {
	query := organizationQuery.apply(r.db.WithContext(ctx).Model(&models.OrganizationModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.OrganizationModel
	if err := organizationQuery.page(query, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	orgs := make([]identity.Organization, len(rows))
	for i := range rows {
		orgs[i] = *rows[i].ToDomain()
	}
	return orgs, total, nil
}

// FindActiveIDs returns the ids of every active organization
func (r *GormOrganizationRepository) FindActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.OrganizationModel{}).
		Where("is_active = ?", true).
		Pluck("id", &ids).Error
	return ids, err
}

// ExistsByTaxID checks whether another organization uses taxID
func (r *GormOrganizationRepository) ExistsByTaxID(ctx context.Context, taxID string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.OrganizationModel{}).Where("tax_id = ?", taxID)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an organization
func (r *GormOrganizationRepository) Save(ctx context.Context, org *identity.Organization) error {
	return r.db.WithContext(ctx).Save(models.OrganizationModelFromDomain(org)).Error
}

var _ identity.OrganizationRepository = (*GormOrganizationRepository)(nil)
