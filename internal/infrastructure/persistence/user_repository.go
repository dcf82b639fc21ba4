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

var userQuery = listQuery{
	searchFields: []string{"username", "email", "first_name", "last_name"},
	sortFields:   UserSortFields,
	defaultSort:  "created_at",
}

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID within an organization
func (r *GormUserRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	var m models.UserModel
	query := userQuery.scopeTenant(r.db.WithContext(ctx), tenantID)
	if err := query.First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindByLogin finds a user by username or email
func (r *GormUserRepository) FindByLogin(ctx context.Context, login string) (*identity.User, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	var m models.UserModel
	if err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", login, login).
		First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindAll returns one page of users
func (r *GormUserRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.User, int64, error) {
	query := userQuery.scopeTenant(r.db.WithContext(ctx).Model(&models.UserModel{}), tenantID)
	query = userQuery.apply(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.UserModel
	if err := userQuery.page(query, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	users := make([]identity.User, len(rows))
	for i := range rows {
		users[i] = *rows[i].ToDomain()
	}
	return users, total, nil
}

// ExistsByUsername checks if a username is taken
func (r *GormUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("username = ?", strings.ToLower(strings.TrimSpace(username))).
		Count(&count).Error
	return count > 0, err
}

// ExistsByEmail checks if another user has the email
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email)))
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// CountActive counts the active users of an organization
func (r *GormUserRepository) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return countActive(ctx, r.db, &models.UserModel{}, tenantID)
}

// FindIDs lists the ids of an organization's users
func (r *GormUserRepository) FindIDs(ctx context.Context, tenantID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("tenant_id = ?", tenantID).
		Pluck("id", &ids).Error
	return ids, err
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return r.db.WithContext(ctx).Save(models.UserModelFromDomain(user)).Error
}

// countActive counts active rows of a tenant-scoped table
func countActive(ctx context.Context, db *gorm.DB, model any, tenantID uuid.UUID) (int64, error) {
	var count int64
	query := db.WithContext(ctx).Model(model).Where("is_active = ?", true)
	if tenantID != uuid.Nil {
		query = query.Where("tenant_id = ?", tenantID)
	}
	err := query.Count(&count).Error
	return count, err
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
