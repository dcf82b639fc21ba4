package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/catalog"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/negocio/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var productQuery = listQuery{
	searchFields: []string{"code", "name", "barcode", "category"},
	sortFields:   ProductSortFields,
	defaultSort:  "created_at",
}

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by ID within an organization
func (r *GormProductRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	var m models.ProductModel
	query := productQuery.scopeTenant(r.db.WithContext(ctx), tenantID)
	if err := query.First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindByIDs finds the products with the given ids
func (r *GormProductRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var rows []models.ProductModel
	query := productQuery.scopeTenant(r.db.WithContext(ctx), tenantID)
	if err := query.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products, nil
}

// FindAll returns one page of products. The category filter matches
// case-insensitively.
func (r *GormProductRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, int64, error) {
	query := productQuery.scopeTenant(r.db.WithContext(ctx).Model(&models.ProductModel{}), tenantID)
	query = productQuery.apply(query, filter)
	if category, ok := filter.Filters[catalog.FilterCategory].(string); ok && strings.TrimSpace(category) != "" {
		query = query.Where("LOWER(category) = LOWER(?)", strings.TrimSpace(category))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ProductModel
	if err := productQuery.page(query, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products, total, nil
}

// ExistsByCode checks if another product of the organization uses code
func (r *GormProductRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string, excludeID uuid.UUID) (bool, error) {
	return existsInTenant(ctx, r.db, &models.ProductModel{}, tenantID, "code", strings.ToUpper(strings.TrimSpace(code)), excludeID)
}

// CountActive counts the active products of an organization
func (r *GormProductRepository) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return countActive(ctx, r.db, &models.ProductModel{}, tenantID)
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(models.ProductModelFromDomain(product)).Error
}

// existsInTenant checks a per-organization unique column, ignoring excludeID
func existsInTenant(ctx context.Context, db *gorm.DB, model any, tenantID uuid.UUID, column, value string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := db.WithContext(ctx).Model(model).Where("tenant_id = ? AND "+column+" = ?", tenantID, value)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
