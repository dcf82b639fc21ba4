package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/shared"
)

// UserRole is a row of the user <-> role join table.
// A user may hold several roles; exactly one of them is in effect at a time
// (see DeriveActiveRole).
type UserRole struct {
	shared.BaseEntity
	shared.Activatable
	TenantID   uuid.UUID
	UserID     uuid.UUID
	RoleID     uuid.UUID
	AssignedAt time.Time
}

// NewUserRole creates an active assignment stamped now
func NewUserRole(tenantID, userID, roleID uuid.UUID) *UserRole {
	now := time.Now()
	return &UserRole{
		BaseEntity:  shared.NewBaseEntity(),
		Activatable: shared.NewActivatable(),
		TenantID:    tenantID,
		UserID:      userID,
		RoleID:      roleID,
		AssignedAt:  now,
	}
}

// Reassign reactivates the assignment and makes it the most recent one
func (ur *UserRole) Reassign() {
	now := time.Now()
	ur.IsActive = true
	ur.AssignedAt = now
	ur.UpdatedAt = now
}

// Revoke deactivates the assignment
func (ur *UserRole) Revoke() error {
	if err := ur.Activatable.Deactivate(); err != nil {
		return shared.NewDomainError("ROLE_NOT_ASSIGNED", "User does not hold this role")
	}
	ur.UpdatedAt = time.Now()
	return nil
}

// RoleAssignment joins an assignment row with its role
type RoleAssignment struct {
	UserRole UserRole
	Role     *Role
}

// DeriveActiveRole returns the role currently in effect for a user.
// Assignments whose join row or role is inactive are ignored; among the
// rest the most recently assigned wins. Returns nil when none remain.
func DeriveActiveRole(assignments []RoleAssignment) *Role {
	var (
		active *Role
		latest time.Time
	)
	for _, a := range assignments {
		if !a.UserRole.IsActive || a.Role == nil || !a.Role.IsActive {
			continue
		}
		if active == nil || a.UserRole.AssignedAt.After(latest) {
			active = a.Role
			latest = a.UserRole.AssignedAt
		}
	}
	return active
}

// ActiveAssignments filters assignments down to active rows of active roles
func ActiveAssignments(assignments []RoleAssignment) []RoleAssignment {
	out := make([]RoleAssignment, 0, len(assignments))
	for _, a := range assignments {
		if a.UserRole.IsActive && a.Role != nil && a.Role.IsActive {
			out = append(out, a)
		}
	}
	return out
}
