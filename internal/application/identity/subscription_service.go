package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// SubscriptionService assigns plans to organizations and enforces plan quotas
type SubscriptionService struct {
	txScope TransactionScope
	repos   Repositories
	now     func() time.Time
	logger  *zap.Logger
}

// NewSubscriptionService creates a new SubscriptionService. repos must
// provide Organizations, Plans and OrganizationPlans.
func NewSubscriptionService(txScope TransactionScope, repos Repositories, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{
		txScope: txScope,
		repos:   repos,
		now:     time.Now,
		logger:  logger,
	}
}

// AssignPlan ends the current assignment of the organization, if any, and
// subscribes it to the given plan from the requested start date.
func (s *SubscriptionService) AssignPlan(ctx context.Context, orgID uuid.UUID, req AssignPlanRequest) (*OrganizationPlanResponse, error) {
	if orgID == uuid.Nil {
		return nil, shared.ErrTenantRequired
	}
	start := s.now()
	if req.StartDate != nil {
		start = *req.StartDate
	}

	var (
		assignment *identity.OrganizationPlan
		plan       *identity.Plan
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		if _, err = repos.OrganizationRepo().FindByID(ctx, orgID); err != nil {
			return err
		}
		if plan, err = repos.PlanRepo().FindByID(ctx, req.PlanID); err != nil {
			return err
		}
		assignment, err = assignPlan(ctx, repos.OrganizationPlanRepo(), orgID, plan, start)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("plan assigned",
		zap.String("organization_id", orgID.String()),
		zap.String("plan_code", plan.Code),
		zap.Time("end_date", assignment.EndDate))

	resp := ToOrganizationPlanResponse(assignment, plan)
	return &resp, nil
}

// assignPlan replaces the active assignment of orgID. The current one is
// saved first so that at most one assignment is active at any time.
func assignPlan(ctx context.Context, repo identity.OrganizationPlanRepository, orgID uuid.UUID, plan *identity.Plan, start time.Time) (*identity.OrganizationPlan, error) {
	current, err := repo.FindActive(ctx, orgID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
	case err != nil:
		return nil, err
	default:
		current.End()
		if err := repo.Save(ctx, current); err != nil {
			return nil, err
		}
	}

	assignment, err := identity.NewOrganizationPlan(orgID, plan, start)
	if err != nil {
		return nil, err
	}
	if err := repo.Save(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

// GetActive returns the active assignment of an organization with its plan
func (s *SubscriptionService) GetActive(ctx context.Context, orgID uuid.UUID) (*OrganizationPlanResponse, error) {
	op, err := s.repos.OrganizationPlans.FindActive(ctx, orgID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "The organization has no active plan")
		}
		return nil, err
	}
	plan, err := s.repos.Plans.FindByID(ctx, op.PlanID)
	if err != nil {
		return nil, err
	}
	resp := ToOrganizationPlanResponse(op, plan)
	return &resp, nil
}

// History returns every assignment of an organization, newest first
func (s *SubscriptionService) History(ctx context.Context, orgID uuid.UUID) ([]OrganizationPlanResponse, error) {
	history, err := s.repos.OrganizationPlans.FindHistory(ctx, orgID)
	if err != nil {
		return nil, err
	}

	plans := make(map[uuid.UUID]*identity.Plan)
	out := make([]OrganizationPlanResponse, len(history))
	for i := range history {
		plan, ok := plans[history[i].PlanID]
		if !ok {
			plan, err = s.repos.Plans.FindByID(ctx, history[i].PlanID)
			if err != nil && !errors.Is(err, shared.ErrNotFound) {
				return nil, err
			}
			plans[history[i].PlanID] = plan
		}
		out[i] = ToOrganizationPlanResponse(&history[i], plan)
	}
	return out, nil
}

// ExpirePlans deactivates every active assignment whose end date has passed
// and returns how many were expired. A failing row is logged and skipped.
func (s *SubscriptionService) ExpirePlans(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.repos.OrganizationPlans.FindExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("find expired plans: %w", err)
	}

	count := 0
	for i := range expired {
		op := &expired[i]
		op.End()
		if err := s.repos.OrganizationPlans.Save(ctx, op); err != nil {
			s.logger.Error("failed to expire plan assignment",
				zap.String("organization_id", op.TenantID.String()),
				zap.String("assignment_id", op.ID.String()),
				zap.Error(err))
			continue
		}
		count++
	}

	if count > 0 {
		s.logger.Info("plan assignments expired", zap.Int("count", count))
	}
	return count, nil
}

// CheckQuota fails with PLAN_LIMIT_EXCEEDED when adding one more resource
// would exceed the limit of the active plan. No active plan means no limit.
func (s *SubscriptionService) CheckQuota(ctx context.Context, orgID uuid.UUID, resource identity.QuotaResource, current int64) error {
	op, err := s.repos.OrganizationPlans.FindActive(ctx, orgID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if op.IsExpired(s.now()) {
		return nil
	}
	plan, err := s.repos.Plans.FindByID(ctx, op.PlanID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if !plan.AllowsAnother(resource, current) {
		return shared.NewDomainError("PLAN_LIMIT_EXCEEDED",
			fmt.Sprintf("The %s plan allows at most %d %s", plan.Name, plan.Limit(resource), resource))
	}
	return nil
}
