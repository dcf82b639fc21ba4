package identity

import (
	"context"

	"github.com/google/uuid"
)

// Access is the resolved authorization of a user: the superadmin flag
// and the permissions granted by the active role.
type Access struct {
	UserID         uuid.UUID  `json:"user_id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	IsSuperadmin   bool       `json:"is_superadmin"`
	ActiveRoleID   *uuid.UUID `json:"active_role_id,omitempty"`
	ActiveRoleCode string     `json:"active_role_code,omitempty"`
	Permissions    []string   `json:"permissions"`
}

// NewAccess resolves access for user given the active role.
// permissions must be the active permissions of the active role.
func NewAccess(user *User, activeRole *Role, permissions []Permission) *Access {
	a := &Access{
		UserID:         user.ID,
		OrganizationID: user.TenantID,
		IsSuperadmin:   user.IsSuperadmin,
		Permissions:    make([]string, 0, len(permissions)),
	}
	if activeRole != nil {
		id := activeRole.ID
		a.ActiveRoleID = &id
		a.ActiveRoleCode = activeRole.Code
		for _, p := range permissions {
			if p.IsActive {
				a.Permissions = append(a.Permissions, p.Code)
			}
		}
	}
	return a
}

func (a *Access) Allows(code string) bool {
	return a.IsSuperadmin || NewPermissionSet(a.Permissions...).Has(code)
}

func (a *Access) AllowsAny(codes ...string) bool {
	return a.IsSuperadmin || NewPermissionSet(a.Permissions...).HasAny(codes...)
}

func (a *Access) AllowsAll(codes ...string) bool {
	return a.IsSuperadmin || NewPermissionSet(a.Permissions...).HasAll(codes...)
}

// AccessCache stores resolved access per user. Get returns nil on a miss.
type AccessCache interface {
	Get(ctx context.Context, userID uuid.UUID) (*Access, error)
	Set(ctx context.Context, access *Access) error
	Invalidate(ctx context.Context, userIDs ...uuid.UUID) error
}
