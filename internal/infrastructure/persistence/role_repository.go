package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/negocio/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var roleQuery = listQuery{
	searchFields: []string{"code", "name", "description"},
	sortFields:   RoleSortFields,
	defaultSort:  "code",
}

// GormRoleRepository implements identity.RoleRepository using GORM
type GormRoleRepository struct {
	db *gorm.DB
}

// NewGormRoleRepository creates a new GormRoleRepository
func NewGormRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

// FindByID finds a role by ID within an organization
func (r *GormRoleRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.Role, error) {
	var m models.RoleModel
	query := roleQuery.scopeTenant(r.db.WithContext(ctx), tenantID)
	if err := query.First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindByCode finds a role by code within an organization
func (r *GormRoleRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*identity.Role, error) {
	var m models.RoleModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(strings.TrimSpace(code))).
		First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindByIDs finds the roles with the given ids
func (r *GormRoleRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]identity.Role, error) {
	if len(ids) == 0 {
		return []identity.Role{}, nil
	}
	var rows []models.RoleModel
	query := roleQuery.scopeTenant(r.db.WithContext(ctx), tenantID)
	if err := query.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	roles := make([]identity.Role, len(rows))
	for i := range rows {
		roles[i] = *rows[i].ToDomain()
	}
	return roles, nil
}

// FindAll returns one page of roles
func (r *GormRoleRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.Role, int64, error) {
	query := roleQuery.scopeTenant(r.db.WithContext(ctx).Model(&models.RoleModel{}), tenantID)
	query = roleQuery.apply(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.RoleModel
	if err := roleQuery.page(query, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	roles := make([]identity.Role, len(rows))
	for i := range rows {
		roles[i] = *rows[i].ToDomain()
	}
	return roles, total, nil
}

// ExistsByCode checks if a role code is taken in the organization
func (r *GormRoleRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.RoleModel{}).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a role
func (r *GormRoleRepository) Save(ctx context.Context, role *identity.Role) error {
	return r.db.WithContext(ctx).Save(models.RoleModelFromDomain(role)).Error
}

var _ identity.RoleRepository = (*GormRoleRepository)(nil)
