package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/shared"
)

// RolePermission is a row of the role <-> permission join table.
// Revoking a permission deactivates the row instead of deleting it.
type RolePermission struct {
	shared.BaseEntity
	shared.Activatable
	TenantID     uuid.UUID
	RoleID       uuid.UUID
	PermissionID uuid.UUID
}

// NewRolePermission creates an active grant
func NewRolePermission(tenantID, roleID, permissionID uuid.UUID) *RolePermission {
	return &RolePermission{
		BaseEntity:   shared.NewBaseEntity(),
		Activatable:  shared.NewActivatable(),
		TenantID:     tenantID,
		RoleID:       roleID,
		PermissionID: permissionID,
	}
}

// PermissionChanges is the outcome of replacing a role's permission set
type PermissionChanges struct {
	Create     []*RolePermission
	Reactivate []*RolePermission
	Revoke     []*RolePermission
}

// IsEmpty reports whether nothing changes
func (c PermissionChanges) IsEmpty() bool {
	return len(c.Create) == 0 && len(c.Reactivate) == 0 && len(c.Revoke) == 0
}

// Changed returns every join row that must be persisted
func (c PermissionChanges) Changed() []*RolePermission {
	out := make([]*RolePermission, 0, len(c.Create)+len(c.Reactivate)+len(c.Revoke))
	out = append(out, c.Create...)
	out = append(out, c.Reactivate...)
	out = append(out, c.Revoke...)
	return out
}

// DiffPermissions computes the join-row changes needed to make role hold exactly
// the desired permissions. Existing rows are reused: inactive rows for desired
// permissions are reactivated, active rows for undesired ones are revoked.
func DiffPermissions(role *Role, existing []RolePermission, desired []uuid.UUID) PermissionChanges {
	want := make(map[uuid.UUID]bool, len(desired))
	for _, id := range desired {
		want[id] = true
	}

	var changes PermissionChanges
	seen := make(map[uuid.UUID]bool, len(existing))
	now := time.Now()

	for i := range existing {
		rp := existing[i]
		seen[rp.PermissionID] = true
		switch {
		case want[rp.PermissionID] && !rp.IsActive:
			rp.IsActive = true
			rp.UpdatedAt = now
			changes.Reactivate = append(changes.Reactivate, &rp)
		case !want[rp.PermissionID] && rp.IsActive:
			rp.IsActive = false
			rp.UpdatedAt = now
			changes.Revoke = append(changes.Revoke, &rp)
		}
	}

	for _, id := range desired {
		if seen[id] {
			continue
		}
		seen[id] = true
		changes.Create = append(changes.Create, NewRolePermission(role.TenantID, role.ID, id))
	}

	return changes
}
