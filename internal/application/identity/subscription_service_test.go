package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestPlan(code string, days int, limits identity.PlanLimits) *identity.Plan {
	p, err := identity.NewPlan(code, code+" plan", decimal.NewFromInt(10), days)
	if err != nil {
		panic(err)
	}
	if err := p.SetLimits(limits); err != nil {
		panic(err)
	}
	return p
}

func newSubscriptionService(r *mockRepos) *SubscriptionService {
	return NewSubscriptionService(r.txScope(), r.repositories(), zap.NewNop())
}

func TestSubscriptionService_AssignPlan_EndsCurrent(t *testing.T) {
	r := newMockRepos()
	svc := newSubscriptionService(r)
	ctx := context.Background()

	org, err := identity.NewOrganization("Bodega Sur", "20123456789")
	require.NoError(t, err)
	free := newTestPlan("FREE", 3650, identity.PlanLimits{MaxUsers: 2})
	pro := newTestPlan("PRO", 30, identity.PlanLimits{})
	current, err := identity.NewOrganizationPlan(org.ID, free, time.Now().AddDate(0, -1, 0))
	require.NoError(t, err)

	var saved []*identity.OrganizationPlan
	r.orgs.On("FindByID", ctx, org.ID).Return(org, nil)
	r.plans.On("FindByID", ctx, pro.ID).Return(pro, nil)
	r.orgPlans.On("FindActive", ctx, org.ID).Return(current, nil)
	r.orgPlans.On("Save", ctx, mock.AnythingOfType("*identity.OrganizationPlan")).
		Run(func(args mock.Arguments) {
			saved = append(saved, args.Get(1).(*identity.OrganizationPlan))
		}).Return(nil)

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	resp, err := svc.AssignPlan(ctx, org.ID, AssignPlanRequest{PlanID: pro.ID, StartDate: &start})
	require.NoError(t, err)

	require.Len(t, saved, 2)
	assert.Same(t, current, saved[0], "current assignment is ended first")
	assert.False(t, current.IsActive)
	assert.True(t, saved[1].IsActive)
	assert.Equal(t, start.AddDate(0, 0, 30), resp.EndDate)
	require.NotNil(t, resp.Plan)
	assert.Equal(t, "PRO", resp.Plan.Code)
}

func TestSubscriptionService_AssignPlan_FirstPlan(t *testing.T) {
	r := newMockRepos()
	svc := newSubscriptionService(r)
	ctx := context.Background()
	orgID := uuid.New()
	plan := newTestPlan("BASIC", 30, identity.PlanLimits{})

	r.orgs.On("FindByID", ctx, orgID).Return(&identity.Organization{}, nil)
	r.plans.On("FindByID", ctx, plan.ID).Return(plan, nil)
	r.orgPlans.On("FindActive", ctx, orgID).Return(nil, shared.ErrNotFound)
	r.orgPlans.On("Save", ctx, mock.AnythingOfType("*identity.OrganizationPlan")).Return(nil).Once()

	_, err := svc.AssignPlan(ctx, orgID, AssignPlanRequest{PlanID: plan.ID})
	require.NoError(t, err)
	r.orgPlans.AssertExpectations(t)
}

func TestSubscriptionService_AssignPlan_InactivePlan(t *testing.T) {
	r := newMockRepos()
	svc := newSubscriptionService(r)
	ctx := context.Background()
	orgID := uuid.New()
	plan := newTestPlan("OLD", 30, identity.PlanLimits{})
	require.NoError(t, plan.Deactivate())

	r.orgs.On("FindByID", ctx, orgID).Return(&identity.Organization{}, nil)
	r.plans.On("FindByID", ctx, plan.ID).Return(plan, nil)
	r.orgPlans.On("FindActive", ctx, orgID).Return(nil, shared.ErrNotFound)

	_, err := svc.AssignPlan(ctx, orgID, AssignPlanRequest{PlanID: plan.ID})
	assert.Equal(t, "PLAN_INACTIVE", shared.CodeOf(err))
}

func TestSubscriptionService_CheckQuota(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	plan := newTestPlan("FREE", 3650, identity.PlanLimits{MaxUsers: 2, MaxProducts: 0})
	active, err := identity.NewOrganizationPlan(orgID, plan, time.Now())
	require.NoError(t, err)

	r := newMockRepos()
	r.orgPlans.On("FindActive", ctx, orgID).Return(active, nil)
	r.plans.On("FindByID", ctx, plan.ID).Return(plan, nil)
	svc := newSubscriptionService(r)

	assert.NoError(t, svc.CheckQuota(ctx, orgID, identity.QuotaUsers, 1))
	err = svc.CheckQuota(ctx, orgID, identity.QuotaUsers, 2)
	assert.ErrorIs(t, err, shared.ErrPlanLimitExceeded)
	assert.NoError(t, svc.CheckQuota(ctx, orgID, identity.QuotaProducts, 100000), "zero means unlimited")
}

func TestSubscriptionService_CheckQuota_NoPlan(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	r := newMockRepos()
	r.orgPlans.On("FindActive", ctx, orgID).Return(nil, shared.ErrNotFound)

	assert.NoError(t, newSubscriptionService(r).CheckQuota(ctx, orgID, identity.QuotaWarehouses, 50))
}

func TestSubscriptionService_ExpirePlans(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	plan := newTestPlan("BASIC", 30, identity.PlanLimits{})
	a, _ := identity.NewOrganizationPlan(uuid.New(), plan, now.AddDate(0, -2, 0))
	b, _ := identity.NewOrganizationPlan(uuid.New(), plan, now.AddDate(0, -3, 0))

	r := newMockRepos()
	r.orgPlans.On("FindExpired", ctx, now).Return([]identity.OrganizationPlan{*a, *b}, nil)
	r.orgPlans.On("Save", ctx, mock.MatchedBy(func(op *identity.OrganizationPlan) bool { return op.ID == a.ID })).Return(nil)
	r.orgPlans.On("Save", ctx, mock.MatchedBy(func(op *identity.OrganizationPlan) bool { return op.ID == b.ID })).
		Return(errors.New("connection reset"))

	count, err := newSubscriptionService(r).ExpirePlans(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "a failing row is skipped")
}

func TestSubscriptionService_GetActive_None(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New()
	r := newMockRepos()
	r.orgPlans.On("FindActive", ctx, orgID).Return(nil, shared.ErrNotFound)

	_, err := newSubscriptionService(r).GetActive(ctx, orgID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
