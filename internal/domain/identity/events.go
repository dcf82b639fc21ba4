package identity

import (
	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/shared"
)

// Aggregate types
const (
	AggregateTypeOrganization = "Organization"
	AggregateTypeRole         = "Role"
	AggregateTypeUser         = "User"
)

// Event types
const (
	EventTypeOrganizationCreated     = "OrganizationCreated"
	EventTypeOrganizationDeactivated = "OrganizationDeactivated"

	EventTypeRoleCreated            = "RoleCreated"
	EventTypeRoleUpdated            = "RoleUpdated"
	EventTypeRoleActivated          = "RoleActivated"
	EventTypeRoleDeactivated        = "RoleDeactivated"
	EventTypeRolePermissionsChanged = "RolePermissionsChanged"

	EventTypeUserCreated           = "UserCreated"
	EventTypeUserDeactivated       = "UserDeactivated"
	EventTypeUserPasswordChanged   = "UserPasswordChanged"
	EventTypeUserSuperadminToggled = "UserSuperadminToggled"
	EventTypeUserRolesChanged      = "UserRolesChanged"
)

// OrganizationEvent is published on organization lifecycle changes
type OrganizationEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewOrganizationEvent creates an organization event
func NewOrganizationEvent(eventType string, org *Organization) *OrganizationEvent {
	return &OrganizationEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeOrganization, org.ID, org.ID),
		Name:            org.Name,
	}
}

// RoleEvent is published on role changes
type RoleEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
}

// NewRoleEvent creates a role event
func NewRoleEvent(eventType string, role *Role) *RoleEvent {
	return &RoleEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeRole, role.ID, role.TenantID),
		Code:            role.Code,
	}
}

// UserEvent is published on user changes
type UserEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
}

// NewUserEvent creates a user event
func NewUserEvent(eventType string, user *User) *UserEvent {
	return &UserEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeUser, user.ID, user.TenantID),
		Username:        user.Username,
	}
}

// UserRolesChangedEvent is published when a user's role assignments change
type UserRolesChangedEvent struct {
	shared.BaseDomainEvent
	RoleID uuid.UUID `json:"role_id"`
}

// NewUserRolesChangedEvent creates a user roles changed event
func NewUserRolesChangedEvent(tenantID, userID, roleID uuid.UUID) *UserRolesChangedEvent {
	return &UserRolesChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRolesChanged, AggregateTypeUser, userID, tenantID),
		RoleID:          roleID,
	}
}
