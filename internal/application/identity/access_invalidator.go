package identity

import (
	"context"
	"fmt"

	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/domain/shared"
)

// AccessInvalidator drops cached access when roles or assignments change.
// Role events invalidate every holder of the role, user events the user and
// organization deactivation every member.
type AccessInvalidator struct {
	resolver     *AccessResolver
	userRoleRepo identity.UserRoleRepository
}

// NewAccessInvalidator creates the event handler
func NewAccessInvalidator(resolver *AccessResolver, userRoleRepo identity.UserRoleRepository) *AccessInvalidator {
	return &AccessInvalidator{resolver: resolver, userRoleRepo: userRoleRepo}
}

var (
	roleEventTypes = []string{
		identity.EventTypeRoleUpdated,
		identity.EventTypeRoleActivated,
		identity.EventTypeRoleDeactivated,
		identity.EventTypeRolePermissionsChanged,
	}
	userEventTypes = []string{
		identity.EventTypeUserRolesChanged,
		identity.EventTypeUserSuperadminToggled,
		identity.EventTypeUserDeactivated,
	}
	organizationEventTypes = []string{
		identity.EventTypeOrganizationDeactivated,
	}
)

// EventTypes implements shared.EventHandler
func (h *AccessInvalidator) EventTypes() []string {
	out := make([]string, 0, len(roleEventTypes)+len(userEventTypes)+len(organizationEventTypes))
	out = append(out, roleEventTypes...)
	out = append(out, userEventTypes...)
	return append(out, organizationEventTypes...)
}

// Handle implements shared.EventHandler
func (h *AccessInvalidator) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch event.AggregateType() {
	case identity.AggregateTypeRole:
		userIDs, err := h.userRoleRepo.FindUserIDsByRole(ctx, event.AggregateID())
		if err != nil {
			return fmt.Errorf("find role holders: %w", err)
		}
		h.resolver.Invalidate(ctx, userIDs...)
	case identity.AggregateTypeUser:
		h.resolver.Invalidate(ctx, event.AggregateID())
	case identity.AggregateTypeOrganization:
		return h.resolver.InvalidateOrganization(ctx, event.AggregateID())
	}
	return nil
}

var _ shared.EventHandler = (*AccessInvalidator)(nil)

