package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/inventory"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/negocio/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var warehouseQuery = listQuery{
	searchFields: []string{"code", "name", "address"},
	sortFields:   WarehouseSortFields,
	defaultSort:  "code",
}

// GormWarehouseRepository implements inventory.WarehouseRepository using GORM
type GormWarehouseRepository struct {
	db *gorm.DB
}

// NewGormWarehouseRepository creates a new GormWarehouseRepository
func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

// FindByID finds a warehouse by ID within an organization
func (r *GormWarehouseRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*inventory.Warehouse, error) {
	var m models.WarehouseModel
	query := warehouseQuery.scopeTenant(r.db.WithContext(ctx), tenantID)
	if err := query.First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindAll returns one page of warehouses
func (r *GormWarehouseRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.Warehouse, int64, error) {
	query := warehouseQuery.scopeTenant(r.db.WithContext(ctx).Model(&models.WarehouseModel{}), tenantID)
	query = warehouseQuery.apply(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.WarehouseModel
	if err := warehouseQuery.page(query, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	warehouses := make([]inventory.Warehouse, len(rows))
	for i := range rows {
		warehouses[i] = *rows[i].ToDomain()
	}
	return warehouses, total, nil
}

// ExistsByCode checks if another warehouse of the organization uses code
func (r *GormWarehouseRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string, excludeID uuid.UUID) (bool, error) {
	return existsInTenant(ctx, r.db, &models.WarehouseModel{}, tenantID, "code", strings.ToUpper(strings.TrimSpace(code)), excludeID)
}

// CountActive counts the active warehouses of an organization
func (r *GormWarehouseRepository) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return countActive(ctx, r.db, &models.WarehouseModel{}, tenantID)
}

// Save creates or updates a warehouse
func (r *GormWarehouseRepository) Save(ctx context.Context, warehouse *inventory.Warehouse) error {
	return r.db.WithContext(ctx).Save(models.WarehouseModelFromDomain(warehouse)).Error
}

var _ inventory.WarehouseRepository = (*GormWarehouseRepository)(nil)
