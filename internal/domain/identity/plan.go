package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// QuotaResource names a resource limited by subscription plans
type QuotaResource string

const (
	QuotaUsers      QuotaResource = "users"
	QuotaProducts   QuotaResource = "products"
	QuotaWarehouses QuotaResource = "warehouses"
)

// Plan is a subscription plan. A zero limit means unlimited.
type Plan struct {
	shared.BaseAggregateRoot
	shared.Activatable
	Code          string
	Name          string
	Description   string
	Price         decimal.Decimal
	DurationDays  int
	MaxUsers      int
	MaxProducts   int
	MaxWarehouses int
}

// PlanLimits groups the quota values of a plan
type PlanLimits struct {
	MaxUsers      int
	MaxProducts   int
	MaxWarehouses int
}

// NewPlan creates a new active plan
func NewPlan(code, name string, price decimal.Decimal, durationDays int) (*Plan, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_PLAN_CODE", "Plan code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_PLAN_CODE", "Plan code cannot exceed 50 characters")
	}

	p := &Plan{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Activatable:       shared.NewActivatable(),
		Code:              code,
	}
	if err := p.Update(name, "", price, durationDays); err != nil {
		return nil, err
	}
	p.Version = 1
	return p, nil
}

// Update changes the commercial data of the plan
func (p *Plan) Update(name, description string, price decimal.Decimal, durationDays int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_PLAN_NAME", "Plan name cannot be empty")
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PLAN_PRICE", "Plan price cannot be negative")
	}
	if durationDays <= 0 {
		return shared.NewDomainError("INVALID_PLAN_DURATION", "Plan duration must be positive")
	}

	p.Name = name
	p.Description = strings.TrimSpace(description)
	p.Price = price
	p.DurationDays = durationDays
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetLimits sets the quotas. Negative values are rejected, zero is unlimited.
func (p *Plan) SetLimits(limits PlanLimits) error {
	if limits.MaxUsers < 0 || limits.MaxProducts < 0 || limits.MaxWarehouses < 0 {
		return shared.NewDomainError("INVALID_PLAN_LIMIT", "Plan limits cannot be negative")
	}
	p.MaxUsers = limits.MaxUsers
	p.MaxProducts = limits.MaxProducts
	p.MaxWarehouses = limits.MaxWarehouses
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Limit returns the quota for a resource (0 = unlimited)
func (p *Plan) Limit(resource QuotaResource) int {
	switch resource {
	case QuotaUsers:
		return p.MaxUsers
	case QuotaProducts:
		return p.MaxProducts
	case QuotaWarehouses:
		return p.MaxWarehouses
	default:
		return 0
	}
}

// AllowsAnother reports whether one more resource fits given the current count
func (p *Plan) AllowsAnother(resource QuotaResource, current int64) bool {
	limit := p.Limit(resource)
	return limit == 0 || current < int64(limit)
}

// Deactivate soft-deletes the plan
func (p *Plan) Deactivate() error {
	if err := p.Activatable.Deactivate(); err != nil {
		return err
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Activate restores the plan
func (p *Plan) Activate() error {
	if err := p.Activatable.Activate(); err != nil {
		return err
	}
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// OrganizationPlan is a subscription of an organization to a plan for a period.
// At most one assignment per organization is active.
type OrganizationPlan struct {
	shared.BaseEntity
	shared.Activatable
	TenantID  uuid.UUID
	PlanID    uuid.UUID
	StartDate time.Time
	EndDate   time.Time
}

// NewOrganizationPlan subscribes tenantID to plan starting at start
func NewOrganizationPlan(tenantID uuid.UUID, plan *Plan, start time.Time) (*OrganizationPlan, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantRequired
	}
	if plan == nil {
		return nil, shared.NewDomainError("INVALID_PLAN", "Plan is required")
	}
	if !plan.IsActive {
		return nil, shared.NewDomainError("PLAN_INACTIVE", "Plan is not available")
	}
	if start.IsZero() {
		start = time.Now()
	}

	return &OrganizationPlan{
		BaseEntity:  shared.NewBaseEntity(),
		Activatable: shared.NewActivatable(),
		TenantID:    tenantID,
		PlanID:      plan.ID,
		StartDate:   start,
		EndDate:     start.AddDate(0, 0, plan.DurationDays),
	}, nil
}

// IsExpired reports whether the subscription period has ended at now
func (op *OrganizationPlan) IsExpired(now time.Time) bool {
	return !now.Before(op.EndDate)
}

// End deactivates the assignment
func (op *OrganizationPlan) End() {
	op.IsActive = false
	op.UpdatedAt = time.Now()
}
