package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/shared"
)

// Tenant-scoped finders take the organization id first. uuid.Nil means
// unscoped access and is only passed for superadmin requests.

// OrganizationRepository persists organizations
type OrganizationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Organization, int64, error)
	FindActiveIDs(ctx context.Context) ([]uuid.UUID, error)
	ExistsByTaxID(ctx context.Context, taxID string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, org *Organization) error
}

// UserRepository persists users
type UserRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*User, error)
	// FindByLogin looks a user up by username or email across organizations
	FindByLogin(ctx context.Context, login string) (*User, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
	CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error)
	// FindIDs lists the ids of every user of an organization, active or not
	FindIDs(ctx context.Context, tenantID uuid.UUID) ([]uuid.UUID, error)
	Save(ctx context.Context, user *User) error
}

// RoleRepository persists roles
type RoleRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Role, error)
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Role, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Role, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Role, int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, role *Role) error
}

// PermissionRepository reads the global permission catalog
type PermissionRepository interface {
	FindAll(ctx context.Context, filter shared.Filter) ([]Permission, int64, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Permission, error)
	FindByCodes(ctx context.Context, codes []string) ([]Permission, error)
	FindAllActive(ctx context.Context) ([]Permission, error)
	Save(ctx context.Context, perm *Permission) error
}

// RolePermissionRepository persists role <-> permission joins
type RolePermissionRepository interface {
	// FindByRole returns every join row of the role, active or not
	FindByRole(ctx context.Context, tenantID, roleID uuid.UUID) ([]RolePermission, error)
	// FindActivePermissions returns active permissions granted through active joins
	FindActivePermissions(ctx context.Context, roleID uuid.UUID) ([]Permission, error)
	SaveAll(ctx context.Context, rows []*RolePermission) error
}

// UserRoleRepository persists user <-> role joins
type UserRoleRepository interface {
	// FindAssignments returns every assignment row of a user joined with its role
	FindAssignments(ctx context.Context, tenantID, userID uuid.UUID) ([]RoleAssignment, error)
	FindByUserAndRole(ctx context.Context, tenantID, userID, roleID uuid.UUID) (*UserRole, error)
	// FindUserIDsByRole returns users holding the role through an active join
	FindUserIDsByRole(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error)
	Save(ctx context.Context, ur *UserRole) error
}

// PlanRepository persists subscription plans
type PlanRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Plan, error)
	FindByCode(ctx context.Context, code string) (*Plan, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Plan, int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Save(ctx context.Context, plan *Plan) error
}

// OrganizationPlanRepository persists plan assignments
type OrganizationPlanRepository interface {
	FindActive(ctx context.Context, tenantID uuid.UUID) (*OrganizationPlan, error)
	FindHistory(ctx context.Context, tenantID uuid.UUID) ([]OrganizationPlan, error)
	// FindExpired returns active assignments whose end date is not after now
	FindExpired(ctx context.Context, now time.Time) ([]OrganizationPlan, error)
	Save(ctx context.Context, op *OrganizationPlan) error
}
