package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRolePermissionRepository implements identity.RolePermissionRepository using GORM
type GormRolePermissionRepository struct {
	db *gorm.DB
}

// NewGormRolePermissionRepository creates a new GormRolePermissionRepository
func NewGormRolePermissionRepository(db *gorm.DB) *GormRolePermissionRepository {
	return &GormRolePermissionRepository{db: db}
}

// FindByRole returns every join row of a role, active or revoked
func (r *GormRolePermissionRepository) FindByRole(ctx context.Context, tenantID, roleID uuid.UUID) ([]identity.RolePermission, error) {
	var rows []models.RolePermissionModel
	query := r.db.WithContext(ctx).Where("role_id = ?", roleID)
	if tenantID != uuid.Nil {
		query = query.Where("tenant_id = ?", tenantID)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]identity.RolePermission, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// FindActivePermissions returns the active permissions granted to a role
// through active joins
func (r *GormRolePermissionRepository) FindActivePermissions(ctx context.Context, roleID uuid.UUID) ([]identity.Permission, error) {
	var rows []models.PermissionModel
	err := r.db.WithContext(ctx).
		Table("permissions AS p").
		Select("p.*").
		Joins("JOIN role_permissions rp ON rp.permission_id = p.id").
		Where("rp.role_id = ? AND rp.is_active = ? AND p.is_active = ?", roleID, true, true).
		Order("p.code").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return permissionsFromModels(rows), nil
}

// SaveAll upserts the given join rows
func (r *GormRolePermissionRepository) SaveAll(ctx context.Context, rows []*identity.RolePermission) error {
	if len(rows) == 0 {
		return nil
	}
	db := r.db.WithContext(ctx)
	for _, rp := range rows {
		if err := db.Save(models.RolePermissionModelFromDomain(rp)).Error; err != nil {
			return err
		}
	}
	return nil
}

var _ identity.RolePermissionRepository = (*GormRolePermissionRepository)(nil)
