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

var supplierQuery = listQuery{
	searchFields: []string{"name", "tax_id", "contact_name"},
	sortFields:   SupplierSortFields,
	defaultSort:  "name",
}

// GormSupplierRepository implements partner.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByID finds a supplier by ID within an organization
func (r *GormSupplierRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*partner.Supplier, error) {
	var m models.SupplierModel
	query := supplierQuery.scopeTenant(r.db.WithContext(ctx), tenantID)
	if err := query.First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindAll returns one page of suppliers
func (r *GormSupplierRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Supplier, int64, error) {
	query := supplierQuery.scopeTenant(r.db.WithContext(ctx).Model(&models.SupplierModel{}), tenantID)
	query = supplierQuery.apply(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.SupplierModel
	if err := supplierQuery.page(query, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	suppliers := make([]partner.Supplier, len(rows))
	for i := range rows {
		suppliers[i] = *rows[i].ToDomain()
	}
	return suppliers, total, nil
}

// ExistsByTaxID checks if another supplier of the organization has the tax id
func (r *GormSupplierRepository) ExistsByTaxID(ctx context.Context, tenantID uuid.UUID, taxID string, excludeID uuid.UUID) (bool, error) {
	return existsInTenant(ctx, r.db, &models.SupplierModel{}, tenantID, "tax_id", strings.ToUpper(strings.TrimSpace(taxID)), excludeID)
}

// CountActive counts the active suppliers of an organization
func (r *GormSupplierRepository) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return countActive(ctx, r.db, &models.SupplierModel{}, tenantID)
}

// Save creates or updates a supplier
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *partner.Supplier) error {
	return r.db.WithContext(ctx).Save(models.SupplierModelFromDomain(supplier)).Error
}

var _ partner.SupplierRepository = (*GormSupplierRepository)(nil)
