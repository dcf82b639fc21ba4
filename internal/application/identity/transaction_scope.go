package identity

import (
	"context"

	"github.com/negocio/backoffice/internal/domain/identity"
)

// TransactionScope runs identity writes spanning several aggregates
// (organization signup) atomically.
type TransactionScope interface {
	// Execute runs fn within a database transaction. An error returned by fn
	// rolls the transaction back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes identity repositories bound to one
// transaction.
type TransactionalRepositories interface {
	OrganizationRepo() identity.OrganizationRepository
	UserRepo() identity.UserRepository
	RoleRepo() identity.RoleRepository
	PermissionRepo() identity.PermissionRepository
	RolePermissionRepo() identity.RolePermissionRepository
	UserRoleRepo() identity.UserRoleRepository
	PlanRepo() identity.PlanRepository
	OrganizationPlanRepo() identity.OrganizationPlanRepository
}

// Repositories groups the identity repositories. It also serves as a
// TransactionScope without a real transaction, for tests.
type Repositories struct {
	Organizations     identity.OrganizationRepository
	Users             identity.UserRepository
	Roles             identity.RoleRepository
	Permissions       identity.PermissionRepository
	RolePermissions   identity.RolePermissionRepository
	UserRoles         identity.UserRoleRepository
	Plans             identity.PlanRepository
	OrganizationPlans identity.OrganizationPlanRepository
}

// NoOpTransactionScope executes the function directly against the given
// repositories.
type NoOpTransactionScope struct {
	repos Repositories
}

// NewNoOpTransactionScope creates a NoOpTransactionScope.
func NewNoOpTransactionScope(repos Repositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) OrganizationRepo() identity.OrganizationRepository {
	return s.repos.Organizations
}

func (s *NoOpTransactionScope) UserRepo() identity.UserRepository { return s.repos.Users }

func (s *NoOpTransactionScope) RoleRepo() identity.RoleRepository { return s.repos.Roles }

func (s *NoOpTransactionScope) PermissionRepo() identity.PermissionRepository {
	return s.repos.Permissions
}

func (s *NoOpTransactionScope) RolePermissionRepo() identity.RolePermissionRepository {
	return s.repos.RolePermissions
}

func (s *NoOpTransactionScope) UserRoleRepo() identity.UserRoleRepository { return s.repos.UserRoles }

func (s *NoOpTransactionScope) PlanRepo() identity.PlanRepository { return s.repos.Plans }

func (s *NoOpTransactionScope) OrganizationPlanRepo() identity.OrganizationPlanRepository {
	return s.repos.OrganizationPlans
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
