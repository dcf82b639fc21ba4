package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/shared"
)

// Built-in role codes
const (
	RoleCodeAdmin  = "ADMIN"
	RoleCodeSeller = "SELLER"
)

var roleCodeRegex = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// Role represents a role in the RBAC system.
// Its permissions live in the role_permissions join table.
type Role struct {
	shared.TenantAggregateRoot
	Code        string
	Name        string
	Description string
	IsSystem    bool // System roles cannot be deactivated
}

// NewRole creates a new role with required fields
func NewRole(tenantID uuid.UUID, code, name string) (*Role, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantRequired
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if err := validateRoleCode(code); err != nil {
		return nil, err
	}
	if err := validateRoleName(name); err != nil {
		return nil, err
	}

	role := &Role{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                strings.TrimSpace(name),
	}
	role.AddDomainEvent(NewRoleEvent(EventTypeRoleCreated, role))

	return role, nil
}

// NewSystemRole creates a role that cannot be deactivated
func NewSystemRole(tenantID uuid.UUID, code, name string) (*Role, error) {
	role, err := NewRole(tenantID, code, name)
	if err != nil {
		return nil, err
	}
	role.IsSystem = true
	return role, nil
}

// Update changes the role's name and description
func (r *Role) Update(name, description string) error {
	if err := validateRoleName(name); err != nil {
		return err
	}

	r.Name = strings.TrimSpace(name)
	r.Description = strings.TrimSpace(description)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	r.AddDomainEvent(NewRoleEvent(EventTypeRoleUpdated, r))

	return nil
}

// Deactivate soft-deletes the role. System roles are protected.
func (r *Role) Deactivate() error {
	if r.IsSystem {
		return shared.NewDomainError("SYSTEM_ROLE_PROTECTED", "System roles cannot be deleted")
	}
	if err := r.TenantAggregateRoot.Deactivate(); err != nil {
		return err
	}
	r.AddDomainEvent(NewRoleEvent(EventTypeRoleDeactivated, r))
	return nil
}

// Activate restores a soft-deleted role
func (r *Role) Activate() error {
	if err := r.TenantAggregateRoot.Activate(); err != nil {
		return err
	}
	r.AddDomainEvent(NewRoleEvent(EventTypeRoleActivated, r))
	return nil
}

// MarkPermissionsChanged records that the role's permission set was replaced
func (r *Role) MarkPermissionsChanged() {
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	r.AddDomainEvent(NewRoleEvent(EventTypeRolePermissionsChanged, r))
}

func validateRoleCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_ROLE_CODE", "Role code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_ROLE_CODE", "Role code cannot exceed 50 characters")
	}
	if !roleCodeRegex.MatchString(code) {
		return shared.NewDomainError("INVALID_ROLE_CODE", "Role code must start with a letter and contain only letters, numbers, and underscores")
	}
	return nil
}

func validateRoleName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot exceed 100 characters")
	}
	return nil
}
