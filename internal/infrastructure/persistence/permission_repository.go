package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/negocio/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var permissionQuery = listQuery{
	searchFields: []string{"code", "description"},
	sortFields:   PermissionSortFields,
	defaultSort:  "code",
}

// GormPermissionRepository implements identity.PermissionRepository using GORM
type GormPermissionRepository struct {
	db *gorm.DB
}

// NewGormPermissionRepository creates a new GormPermissionRepository
func NewGormPermissionRepository(db *gorm.DB) *GormPermissionRepository {
	return &GormPermissionRepository{db: db}
}

// FindAll returns one page of the permission catalog
func (r *GormPermissionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Permission, int64, error) {
	query := permissionQuery.apply(r.db.WithContext(ctx).Model(&models.PermissionModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.PermissionModel
	if err := permissionQuery.page(query, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return permissionsFromModels(rows), total, nil
}

// FindByIDs finds permissions by id
func (r *GormPermissionRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]identity.Permission, error) {
	if len(ids) == 0 {
		return []identity.Permission{}, nil
	}
	var rows []models.PermissionModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return permissionsFromModels(rows), nil
}

// FindByCodes finds permissions by code
func (r *GormPermissionRepository) FindByCodes(ctx context.Context, codes []string) ([]identity.Permission, error) {
	if len(codes) == 0 {
		return []identity.Permission{}, nil
	}
	var rows []models.PermissionModel
	if err := r.db.WithContext(ctx).Where("code IN ?", codes).Find(&rows).Error; err != nil {
		return nil, err
	}
	return permissionsFromModels(rows), nil
}

// FindAllActive returns every active permission
func (r *GormPermissionRepository) FindAllActive(ctx context.Context) ([]identity.Permission, error) {
	var rows []models.PermissionModel
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("code").Find(&rows).Error; err != nil {
		return nil, err
	}
	return permissionsFromModels(rows), nil
}

// Save creates or updates a permission
func (r *GormPermissionRepository) Save(ctx context.Context, perm *identity.Permission) error {
	return r.db.WithContext(ctx).Save(models.PermissionModelFromDomain(perm)).Error
}

func permissionsFromModels(rows []models.PermissionModel) []identity.Permission {
	out := make([]identity.Permission, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ identity.PermissionRepository = (*GormPermissionRepository)(nil)
