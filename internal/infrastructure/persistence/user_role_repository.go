package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserRoleRepository implements identity.UserRoleRepository using GORM
type GormUserRoleRepository struct {
	db *gorm.DB
}

// NewGormUserRoleRepository creates a new GormUserRoleRepository
func NewGormUserRoleRepository(db *gorm.DB) *GormUserRoleRepository {
	return &GormUserRoleRepository{db: db}
}

// FindAssignments returns every assignment of a user together with its role.
// Revoked assignments and inactive roles are included; callers derive the
// active role from them.
func (r *GormUserRoleRepository) FindAssignments(ctx context.Context, tenantID, userID uuid.UUID) ([]identity.RoleAssignment, error) {
	var joins []models.UserRoleModel
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if tenantID != uuid.Nil {
		query = query.Where("tenant_id = ?", tenantID)
	}
	if err := query.Order("assigned_at DESC").Find(&joins).Error; err != nil {
		return nil, err
	}
	if len(joins) == 0 {
		return []identity.RoleAssignment{}, nil
	}

	roleIDs := make([]uuid.UUID, len(joins))
	for i := range joins {
		roleIDs[i] = joins[i].RoleID
	}
	var roleRows []models.RoleModel
	if err := r.db.WithContext(ctx).Where("id IN ?", roleIDs).Find(&roleRows).Error; err != nil {
		return nil, err
	}
	roles := make(map[uuid.UUID]*identity.Role, len(roleRows))
	for i := range roleRows {
		roles[roleRows[i].ID] = roleRows[i].ToDomain()
	}

	out := make([]identity.RoleAssignment, len(joins))
	for i := range joins {
		out[i] = identity.RoleAssignment{UserRole: joins[i].ToDomain(), Role: roles[joins[i].RoleID]}
	}
	return out, nil
}

// FindByUserAndRole finds the join row of a user and a role
func (r *GormUserRoleRepository) FindByUserAndRole(ctx context.Context, tenantID, userID, roleID uuid.UUID) (*identity.UserRole, error) {
	var m models.UserRoleModel
	query := r.db.WithContext(ctx).Where("user_id = ? AND role_id = ?", userID, roleID)
	if tenantID != uuid.Nil {
		query = query.Where("tenant_id = ?", tenantID)
	}
	if err := query.First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	ur := m.ToDomain()
	return &ur, nil
}

// FindUserIDsByRole returns the users holding a role through an active join
func (r *GormUserRoleRepository) FindUserIDsByRole(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.UserRoleModel{}).
		Where("role_id = ? AND is_active = ?", roleID, true).
		Pluck("user_id", &ids).Error
	return ids, err
}

// Save creates or updates an assignment
func (r *GormUserRoleRepository) Save(ctx context.Context, ur *identity.UserRole) error {
	return r.db.WithContext(ctx).Save(models.UserRoleModelFromDomain(ur)).Error
}

var _ identity.UserRoleRepository = (*GormUserRoleRepository)(nil)
