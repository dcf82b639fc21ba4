package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// PlanService manages the subscription plan catalog
type PlanService struct {
	planRepo identity.PlanRepository
	logger   *zap.Logger
}

// NewPlanService creates a new PlanService
func NewPlanService(planRepo identity.PlanRepository, logger *zap.Logger) *PlanService {
	return &PlanService{planRepo: planRepo, logger: logger}
}

// Create creates a new plan
func (s *PlanService) Create(ctx context.Context, req CreatePlanRequest) (*PlanResponse, error) {
	plan, err := identity.NewPlan(req.Code, req.Name, req.Price, req.DurationDays)
	if err != nil {
		return nil, err
	}
	exists, err := s.planRepo.ExistsByCode(ctx, plan.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A plan with this code already exists")
	}

	if err := plan.Update(req.Name, req.Description, req.Price, req.DurationDays); err != nil {
		return nil, err
	}
	if err := plan.SetLimits(identity.PlanLimits{
		MaxUsers:      req.MaxUsers,
		MaxProducts:   req.MaxProducts,
		MaxWarehouses: req.MaxWarehouses,
	}); err != nil {
		return nil, err
	}

	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}
	s.logger.Info("plan created", zap.String("plan_code", plan.Code))

	resp := ToPlanResponse(plan)
	return &resp, nil
}

// GetByID returns a plan
func (s *PlanService) GetByID(ctx context.Context, id uuid.UUID) (*PlanResponse, error) {
	plan, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPlanResponse(plan)
	return &resp, nil
}

// List returns plans matching filter
func (s *PlanService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[PlanResponse], error) {
	filter = filter.Normalize()
	plans, total, err := s.planRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]PlanResponse, len(plans))
	for i := range plans {
		items[i] = ToPlanResponse(&plans[i])
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update applies a partial update to a plan. Existing assignments keep their
// end dates.
func (s *PlanService) Update(ctx context.Context, id uuid.UUID, req UpdatePlanRequest) (*PlanResponse, error) {
	plan, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name, description, price, duration := plan.Name, plan.Description, plan.Price, plan.DurationDays
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.Price != nil {
		price = *req.Price
	}
	if req.DurationDays != nil {
		duration = *req.DurationDays
	}
	if err := plan.Update(name, description, price, duration); err != nil {
		return nil, err
	}

	limits := identity.PlanLimits{
		MaxUsers:      plan.MaxUsers,
		MaxProducts:   plan.MaxProducts,
		MaxWarehouses: plan.MaxWarehouses,
	}
	if req.MaxUsers != nil {
		limits.MaxUsers = *req.MaxUsers
	}
	if req.MaxProducts != nil {
		limits.MaxProducts = *req.MaxProducts
	}
	if req.MaxWarehouses != nil {
		limits.MaxWarehouses = *req.MaxWarehouses
	}
	if err := plan.SetLimits(limits); err != nil {
		return nil, err
	}

	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}
	resp := ToPlanResponse(plan)
	return &resp, nil
}

// Deactivate withdraws a plan from sale
func (s *PlanService) Deactivate(ctx context.Context, id uuid.UUID) error {
	plan, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := plan.Deactivate(); err != nil {
		return err
	}
	return s.planRepo.Save(ctx, plan)
}

// Activate restores a plan
func (s *PlanService) Activate(ctx context.Context, id uuid.UUID) (*PlanResponse, error) {
	plan, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := plan.Activate(); err != nil {
		return nil, err
	}
	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}
	resp := ToPlanResponse(plan)
	return &resp, nil
}
