package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/negocio/backoffice/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// AccessResolver resolves the effective authorization of a user: the
// superadmin flag plus the permissions of the active role. Deactivated users
// and users of deactivated organizations resolve to an error. Results are
// cached per user and dropped by AccessInvalidator.
type AccessResolver struct {
	orgRepo      identity.OrganizationRepository
	userRepo     identity.UserRepository
	userRoleRepo identity.UserRoleRepository
	rolePermRepo identity.RolePermissionRepository
	cache        identity.AccessCache
	logger       *zap.Logger
}

// NewAccessResolver creates a new AccessResolver. cache may be nil.
func NewAccessResolver(
	orgRepo identity.OrganizationRepository,
	userRepo identity.UserRepository,
	userRoleRepo identity.UserRoleRepository,
	rolePermRepo identity.RolePermissionRepository,
	cache identity.AccessCache,
	logger *zap.Logger,
) *AccessResolver {
	return &AccessResolver{
		orgRepo:      orgRepo,
		userRepo:     userRepo,
		userRoleRepo: userRoleRepo,
		rolePermRepo: rolePermRepo,
		cache:        cache,
		logger:       logger,
	}
}

// Resolve returns the access of userID. Cache failures degrade to a
// database lookup.
func (r *AccessResolver) Resolve(ctx context.Context, userID uuid.UUID) (*identity.Access, error) {
	if r.cache != nil {
		cached, err := r.cache.Get(ctx, userID)
		if err != nil {
			logger.Enrich(ctx, r.logger).Warn("access cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	access, err := r.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, access); err != nil {
			logger.Enrich(ctx, r.logger).Warn("access cache write failed", zap.Error(err))
		}
	}
	return access, nil
}

func (r *AccessResolver) load(ctx context.Context, userID uuid.UUID) (*identity.Access, error) {
	user, err := r.userRepo.FindByID(ctx, uuid.Nil, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !user.CanLogin() {
		return nil, errAccountInactive
	}
	org, err := r.orgRepo.FindByID(ctx, user.TenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, fmt.Errorf("load organization: %w", err)
	}
	if !org.IsActive {
		return nil, errOrganizationClosed
	}
	return r.resolveFor(ctx, user)
}

func (r *AccessResolver) resolveFor(ctx context.Context, user *identity.User) (*identity.Access, error) {
	assignments, err := r.userRoleRepo.FindAssignments(ctx, user.TenantID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load role assignments: %w", err)
	}
	role := identity.DeriveActiveRole(assignments)
	if role == nil {
		return identity.NewAccess(user, nil, nil), nil
	}
	perms, err := r.rolePermRepo.FindActivePermissions(ctx, role.ID)
	if err != nil {
		return nil, fmt.Errorf("load role permissions: %w", err)
	}
	return identity.NewAccess(user, role, perms), nil
}

// HasPermission reports whether the user holds code
func (r *AccessResolver) HasPermission(ctx context.Context, userID uuid.UUID, code string) (bool, error) {
	access, err := r.Resolve(ctx, userID)
	if err != nil {
		return false, err
	}
	return access.Allows(code), nil
}

// HasAnyPermission reports whether the user holds at least one of codes
func (r *AccessResolver) HasAnyPermission(ctx context.Context, userID uuid.UUID, codes ...string) (bool, error) {
	access, err := r.Resolve(ctx, userID)
	if err != nil {
		return false, err
	}
	return access.AllowsAny(codes...), nil
}

// HasAllPermissions reports whether the user holds every one of codes
func (r *AccessResolver) HasAllPermissions(ctx context.Context, userID uuid.UUID, codes ...string) (bool, error) {
	access, err := r.Resolve(ctx, userID)
	if err != nil {
		return false, err
	}
	return access.AllowsAll(codes...), nil
}

// InvalidateOrganization drops cached access of every user of orgID
func (r *AccessResolver) InvalidateOrganization(ctx context.Context, orgID uuid.UUID) error {
	if r.cache == nil {
		return nil
	}
	userIDs, err := r.userRepo.FindIDs(ctx, orgID)
	if err != nil {
		return fmt.Errorf("find organization users: %w", err)
	}
	r.Invalidate(ctx, userIDs...)
	return nil
}

// Invalidate drops cached access of the given users
func (r *AccessResolver) Invalidate(ctx context.Context, userIDs ...uuid.UUID) {
	if r.cache == nil || len(userIDs) == 0 {
		return
	}
	if err := r.cache.Invalidate(ctx, userIDs...); err != nil {
		logger.Enrich(ctx, r.logger).Warn("access cache invalidation failed",
			zap.Int("users", len(userIDs)), zap.Error(err))
	}
}
