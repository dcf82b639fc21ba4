package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/negocio/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var planQuery = listQuery{
	searchFields: []string{"code", "name", "description"},
	sortFields:   PlanSortFields,
	defaultSort:  "price",
}

// GormPlanRepository implements identity.PlanRepository using GORM
type GormPlanRepository struct {
	db *gorm.DB
}

// NewGormPlanRepository creates a new GormPlanRepository
func NewGormPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

// FindByID finds a plan by its ID
func (r *GormPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Plan, error) {
	var m models.PlanModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindByCode finds a plan by its code
func (r *GormPlanRepository) FindByCode(ctx context.Context, code string) (*identity.Plan, error) {
	var m models.PlanModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindAll returns one page of plans
func (r *GormPlanRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Plan, int64, error) {
	query := planQuery.apply(r.db.WithContext(ctx).Model(&models.PlanModel{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.PlanModel
	if err := planQuery.page(query, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	plans := make([]identity.Plan, len(rows))
	for i := range rows {
		plans[i] = *rows[i].ToDomain()
	}
	return plans, total, nil
}

// ExistsByCode checks if a plan code is taken
func (r *GormPlanRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PlanModel{}).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a plan
func (r *GormPlanRepository) Save(ctx context.Context, plan *identity.Plan) error {
	return r.db.WithContext(ctx).Save(models.PlanModelFromDomain(plan)).Error
}

// GormOrganizationPlanRepository implements identity.OrganizationPlanRepository using GORM
type GormOrganizationPlanRepository struct {
	db *gorm.DB
}

// NewGormOrganizationPlanRepository creates a new GormOrganizationPlanRepository
func NewGormOrganizationPlanRepository(db *gorm.DB) *GormOrganizationPlanRepository {
	return &GormOrganizationPlanRepository{db: db}
}

// FindActive returns the active assignment of an organization
func (r *GormOrganizationPlanRepository) FindActive(ctx context.Context, tenantID uuid.UUID) (*identity.OrganizationPlan, error) {
	var m models.OrganizationPlanModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("start_date DESC").
		First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return m.ToDomain(), nil
}

// FindHistory returns every assignment of an organization, newest first
func (r *GormOrganizationPlanRepository) FindHistory(ctx context.Context, tenantID uuid.UUID) ([]identity.OrganizationPlan, error) {
	var rows []models.OrganizationPlanModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("start_date DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]identity.OrganizationPlan, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// FindExpired returns active assignments whose end date is not after now
func (r *GormOrganizationPlanRepository) FindExpired(ctx context.Context, now time.Time) ([]identity.OrganizationPlan, error) {
	var rows []models.OrganizationPlanModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ? AND end_date <= ?", true, now).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]identity.OrganizationPlan, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates an assignment
func (r *GormOrganizationPlanRepository) Save(ctx context.Context, op *identity.OrganizationPlan) error {
	return r.db.WithContext(ctx).Save(models.OrganizationPlanModelFromDomain(op)).Error
}

var (
	_ identity.PlanRepository             = (*GormPlanRepository)(nil)
	_ identity.OrganizationPlanRepository = (*GormOrganizationPlanRepository)(nil)
)
