package identity

import (
	"context"
	"testing"

	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPlanService_Create(t *testing.T) {
	repo := new(MockPlanRepository)
	ctx := context.Background()
	repo.On("ExistsByCode", ctx, "BASIC").Return(false, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*identity.Plan")).Return(nil)

	resp, err := NewPlanService(repo, zap.NewNop()).Create(ctx, CreatePlanRequest{
		Code:          "BASIC",
		Name:          "Basic",
		Description:   "Small shops",
		Price:         decimal.RequireFromString("49.90"),
		DurationDays:  30,
		MaxUsers:      5,
		MaxProducts:   1000,
		MaxWarehouses: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "BASIC", resp.Code)
	assert.Equal(t, "Small shops", resp.Description)
	assert.True(t, decimal.RequireFromString("49.90").Equal(resp.Price))
	assert.Equal(t, 3, resp.MaxWarehouses)
}

func TestPlanService_Create_DuplicateCode(t *testing.T) {
	repo := new(MockPlanRepository)
	ctx := context.Background()
	repo.On("ExistsByCode", ctx, "BASIC").Return(true, nil)

	_, err := NewPlanService(repo, zap.NewNop()).Create(ctx, CreatePlanRequest{
		Code: "BASIC", Name: "Basic", DurationDays: 30,
	})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestPlanService_Update_Partial(t *testing.T) {
	repo := new(MockPlanRepository)
	ctx := context.Background()
	plan := newTestPlan("BASIC", 30, identity.PlanLimits{MaxUsers: 5, MaxProducts: 1000, MaxWarehouses: 3})
	repo.On("FindByID", ctx, plan.ID).Return(plan, nil)
	repo.On("Save", ctx, plan).Return(nil)

	users := 10
	resp, err := NewPlanService(repo, zap.NewNop()).Update(ctx, plan.ID, UpdatePlanRequest{MaxUsers: &users})
	require.NoError(t, err)
	assert.Equal(t, 10, resp.MaxUsers)
	assert.Equal(t, 1000, resp.MaxProducts)
	assert.Equal(t, 30, resp.DurationDays)
	assert.Equal(t, plan.Name, resp.Name)
}

func TestPlanService_DeactivateActivate(t *testing.T) {
	repo := new(MockPlanRepository)
	ctx := context.Background()
	svc := NewPlanService(repo, zap.NewNop())
	plan := newTestPlan("PRO", 30, identity.PlanLimits{})
	repo.On("FindByID", ctx, plan.ID).Return(plan, nil)
	repo.On("Save", ctx, plan).Return(nil)

	require.NoError(t, svc.Deactivate(ctx, plan.ID))
	assert.False(t, plan.IsActive)

	resp, err := svc.Activate(ctx, plan.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsActive)
}
