package identity

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	identity.PasswordHashCost = bcrypt.MinCost
	os.Exit(m.Run())
}

// MockOrganizationRepository is a mock implementation of identity.OrganizationRepository
type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Organization, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.Organization), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrganizationRepository) FindActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockOrganizationRepository) ExistsByTaxID(ctx context.Context, taxID string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, taxID, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrganizationRepository) Save(ctx context.Context, org *identity.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByLogin(ctx context.Context, login string) (*identity.User, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.User, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) FindIDs(ctx context.Context, tenantID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockRoleRepository is a mock implementation of identity.RoleRepository
type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.Role, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Role), args.Error(1)
}

func (m *MockRoleRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*identity.Role, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Role), args.Error(1)
}

func (m *MockRoleRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]identity.Role, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]identity.Role), args.Error(1)
}

func (m *MockRoleRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.Role, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]identity.Role), args.Get(1).(int64), args.Error(2)
}

func (m *MockRoleRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockRoleRepository) Save(ctx context.Context, role *identity.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

// MockPermissionRepository is a mock implementation of identity.PermissionRepository
type MockPermissionRepository struct {
	mock.Mock
}

func (m *MockPermissionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Permission, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.Permission), args.Get(1).(int64), args.Error(2)
}

func (m *MockPermissionRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]identity.Permission, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]identity.Permission), args.Error(1)
}

func (m *MockPermissionRepository) FindByCodes(ctx context.Context, codes []string) ([]identity.Permission, error) {
	args := m.Called(ctx, codes)
	return args.Get(0).([]identity.Permission), args.Error(1)
}

func (m *MockPermissionRepository) FindAllActive(ctx context.Context) ([]identity.Permission, error) {
	args := m.Called(ctx)
	return args.Get(0).([]identity.Permission), args.Error(1)
}

func (m *MockPermissionRepository) Save(ctx context.Context, perm *identity.Permission) error {
	args := m.Called(ctx, perm)
	return args.Error(0)
}

// MockRolePermissionRepository is a mock implementation of identity.RolePermissionRepository
type MockRolePermissionRepository struct {
	mock.Mock
}

func (m *MockRolePermissionRepository) FindByRole(ctx context.Context, tenantID, roleID uuid.UUID) ([]identity.RolePermission, error) {
	args := m.Called(ctx, tenantID, roleID)
	return args.Get(0).([]identity.RolePermission), args.Error(1)
}

func (m *MockRolePermissionRepository) FindActivePermissions(ctx context.Context, roleID uuid.UUID) ([]identity.Permission, error) {
	args := m.Called(ctx, roleID)
	return args.Get(0).([]identity.Permission), args.Error(1)
}

func (m *MockRolePermissionRepository) SaveAll(ctx context.Context, rows []*identity.RolePermission) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

// MockUserRoleRepository is a mock implementation of identity.UserRoleRepository
type MockUserRoleRepository struct {
	mock.Mock
}

func (m *MockUserRoleRepository) FindAssignments(ctx context.Context, tenantID, userID uuid.UUID) ([]identity.RoleAssignment, error) {
	args := m.Called(ctx, tenantID, userID)
	return args.Get(0).([]identity.RoleAssignment), args.Error(1)
}

func (m *MockUserRoleRepository) FindByUserAndRole(ctx context.Context, tenantID, userID, roleID uuid.UUID) (*identity.UserRole, error) {
	args := m.Called(ctx, tenantID, userID, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.UserRole), args.Error(1)
}

func (m *MockUserRoleRepository) FindUserIDsByRole(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, roleID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockUserRoleRepository) Save(ctx context.Context, ur *identity.UserRole) error {
	args := m.Called(ctx, ur)
	return args.Error(0)
}

// MockPlanRepository is a mock implementation of identity.PlanRepository
type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Plan), args.Error(1)
}

func (m *MockPlanRepository) FindByCode(ctx context.Context, code string) (*identity.Plan, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Plan), args.Error(1)
}

func (m *MockPlanRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Plan, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.Plan), args.Get(1).(int64), args.Error(2)
}

func (m *MockPlanRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlanRepository) Save(ctx context.Context, plan *identity.Plan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

// MockOrganizationPlanRepository is a mock implementation of identity.OrganizationPlanRepository
type MockOrganizationPlanRepository struct {
	mock.Mock
}

func (m *MockOrganizationPlanRepository) FindActive(ctx context.Context, tenantID uuid.UUID) (*identity.OrganizationPlan, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.OrganizationPlan), args.Error(1)
}

func (m *MockOrganizationPlanRepository) FindHistory(ctx context.Context, tenantID uuid.UUID) ([]identity.OrganizationPlan, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]identity.OrganizationPlan), args.Error(1)
}

func (m *MockOrganizationPlanRepository) FindExpired(ctx context.Context, now time.Time) ([]identity.OrganizationPlan, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]identity.OrganizationPlan), args.Error(1)
}

func (m *MockOrganizationPlanRepository) Save(ctx context.Context, op *identity.OrganizationPlan) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}

// MockQuotaChecker is a mock implementation of QuotaChecker
type MockQuotaChecker struct {
	mock.Mock
}

func (m *MockQuotaChecker) CheckQuota(ctx context.Context, orgID uuid.UUID, resource identity.QuotaResource, current int64) error {
	args := m.Called(ctx, orgID, resource, current)
	return args.Error(0)
}

// recordingPublisher captures published events
type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

// mockRepos bundles a full set of mocks
type mockRepos struct {
	orgs      *MockOrganizationRepository
	users     *MockUserRepository
	roles     *MockRoleRepository
	perms     *MockPermissionRepository
	rolePerms *MockRolePermissionRepository
	userRoles *MockUserRoleRepository
	plans     *MockPlanRepository
	orgPlans  *MockOrganizationPlanRepository
}

func newMockRepos() *mockRepos {
	return &mockRepos{
		orgs:      new(MockOrganizationRepository),
		users:     new(MockUserRepository),
		roles:     new(MockRoleRepository),
		perms:     new(MockPermissionRepository),
		rolePerms: new(MockRolePermissionRepository),
		userRoles: new(MockUserRoleRepository),
		plans:     new(MockPlanRepository),
		orgPlans:  new(MockOrganizationPlanRepository),
	}
}

func (r *mockRepos) repositories() Repositories {
	return Repositories{
		Organizations:     r.orgs,
		Users:             r.users,
		Roles:             r.roles,
		Permissions:       r.perms,
		RolePermissions:   r.rolePerms,
		UserRoles:         r.userRoles,
		Plans:             r.plans,
		OrganizationPlans: r.orgPlans,
	}
}

func (r *mockRepos) txScope() *NoOpTransactionScope {
	return NewNoOpTransactionScope(r.repositories())
}

func newTestUser(tenantID uuid.UUID, username string) *identity.User {
	u, err := identity.NewUser(tenantID, username, username+"@example.com", "secret123")
	if err != nil {
		panic(err)
	}
	u.ClearDomainEvents()
	return u
}

func newTestRole(tenantID uuid.UUID, code string) *identity.Role {
	r, err := identity.NewRole(tenantID, code, code+" role")
	if err != nil {
		panic(err)
	}
	r.ClearDomainEvents()
	return r
}

func newTestPermission(code string) identity.Permission {
	p, err := identity.NewPermissionFromCode(code, "")
	if err != nil {
		panic(err)
	}
	return *p
}
