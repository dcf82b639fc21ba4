package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	appevent "github.com/negocio/backoffice/internal/application/event"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// QuotaChecker enforces plan limits before a resource is created
type QuotaChecker interface {
	CheckQuota(ctx context.Context, orgID uuid.UUID, resource identity.QuotaResource, current int64) error
}

// SessionRevoker invalidates every outstanding token of a user
type SessionRevoker interface {
	RevokeUser(ctx context.Context, userID string, ttl time.Duration) error
}

// UserService manages the users of an organization.
// tenantID is the caller's organization scope; uuid.Nil is unscoped.
type UserService struct {
	userRepo     identity.UserRepository
	roleRepo     identity.RoleRepository
	userRoleRepo identity.UserRoleRepository
	quota        QuotaChecker
	sessions     SessionRevoker
	sessionTTL   time.Duration
	events       shared.EventPublisher
	logger       *zap.Logger
}

// UserServiceDeps groups the collaborators of UserService. SessionTTL bounds
// how long a revocation must be remembered: the refresh token lifetime.
type UserServiceDeps struct {
	Users      identity.UserRepository
	Roles      identity.RoleRepository
	UserRoles  identity.UserRoleRepository
	Quota      QuotaChecker
	Sessions   SessionRevoker
	SessionTTL time.Duration
	Events     shared.EventPublisher
	Logger     *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(deps UserServiceDeps) *UserService {
	return &UserService{
		userRepo:     deps.Users,
		roleRepo:     deps.Roles,
		userRoleRepo: deps.UserRoles,
		quota:        deps.Quota,
		sessions:     deps.Sessions,
		sessionTTL:   deps.SessionTTL,
		events:       deps.Events,
		logger:       deps.Logger,
	}
}

// Create creates a user inside the caller's organization. The user gets a
// password straight away; no token is issued, so the calling administrator
// keeps their own session.
func (s *UserService) Create(ctx context.Context, tenantID uuid.UUID, req CreateUserRequest) (*UserResponse, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantRequired
	}

	if s.quota != nil {
		count, err := s.userRepo.CountActive(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		if err := s.quota.CheckQuota(ctx, tenantID, identity.QuotaUsers, count); err != nil {
			return nil, err
		}
	}

	if err := s.ensureUnique(ctx, req.Username, req.Email, uuid.Nil); err != nil {
		return nil, err
	}

	user, err := identity.NewUser(tenantID, req.Username, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if err := user.SetProfile(req.FirstName, req.LastName, req.Phone); err != nil {
		return nil, err
	}

	var role *identity.Role
	if req.RoleID != nil {
		role, err = s.activeRole(ctx, tenantID, *req.RoleID)
		if err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	appevent.Flush(ctx, s.events, user)

	var assignments []identity.RoleAssignment
	if role != nil {
		ur := identity.NewUserRole(tenantID, user.ID, role.ID)
		if err := s.userRoleRepo.Save(ctx, ur); err != nil {
			return nil, err
		}
		assignments = []identity.RoleAssignment{{UserRole: *ur, Role: role}}
	}

	s.logger.Info("user created",
		zap.String("organization_id", tenantID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	resp := ToUserResponse(user, assignments)
	return &resp, nil
}

func (s *UserService) ensureUnique(ctx context.Context, username, email string, excludeID uuid.UUID) error {
	if username != "" {
		exists, err := s.userRepo.ExistsByUsername(ctx, username)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("USERNAME_EXISTS", "Username is already taken")
		}
	}
	if email != "" {
		exists, err := s.userRepo.ExistsByEmail(ctx, email, excludeID)
		if err != nil {
			return err
		}
		if exists {
			return shared.NewDomainError("EMAIL_EXISTS", "Email is already registered")
		}
	}
	return nil
}

// GetByID returns a user with their roles
func (s *UserService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	assignments, err := s.userRoleRepo.FindAssignments(ctx, user.TenantID, user.ID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user, assignments)
	return &resp, nil
}

// List returns users matching filter; search covers username, email and names
func (s *UserService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[UserResponse], error) {
	filter = filter.Normalize()
	users, total, err := s.userRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]UserResponse, len(users))
	for i := range users {
		items[i] = ToUserResponse(&users[i], nil)
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update changes the profile of a user
func (s *UserService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		if err := s.ensureUnique(ctx, "", *req.Email, user.ID); err != nil {
			return nil, err
		}
		if err := user.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}

	first, last, phone := user.FirstName, user.LastName, user.Phone
	if req.FirstName != nil {
		first = *req.FirstName
	}
	if req.LastName != nil {
		last = *req.LastName
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if err := user.SetProfile(first, last, phone); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, user.TenantID, user.ID)
}

// Deactivate soft-deletes a user and revokes their sessions. Users cannot
// deactivate themselves.
func (s *UserService) Deactivate(ctx context.Context, tenantID, actorID, id uuid.UUID) error {
	if actorID == id {
		return shared.NewDomainError("CANNOT_DEACTIVATE_SELF", "You cannot deactivate your own account")
	}
	user, err := s.userRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := user.Deactivate(); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	appevent.Flush(ctx, s.events, user)
	s.revokeSessions(ctx, user)

	s.logger.Info("user deactivated", zap.String("user_id", id.String()))
	return nil
}

// Activate restores a soft-deleted user
func (s *UserService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := user.Activate(); err != nil {
		return nil, err
	}
	if s.quota != nil {
		count, err := s.userRepo.CountActive(ctx, user.TenantID)
		if err != nil {
			return nil, err
		}
		if err := s.quota.CheckQuota(ctx, user.TenantID, identity.QuotaUsers, count); err != nil {
			return nil, err
		}
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, user.TenantID, user.ID)
}

// ChangePassword verifies the current password of userID and replaces it.
// Every token issued before the change is revoked.
func (s *UserService) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, uuid.Nil, userID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	appevent.Flush(ctx, s.events, user)
	s.revokeSessions(ctx, user)

	s.logger.Info("password changed", zap.String("user_id", userID.String()))
	return nil
}

// ToggleSuperadmin flips the superadmin flag of a user. Only a superadmin may
// do it and never on their own account.
func (s *UserService) ToggleSuperadmin(ctx context.Context, actor *identity.Access, id uuid.UUID) (*UserResponse, error) {
	if actor == nil || !actor.IsSuperadmin {
		return nil, shared.NewDomainError("FORBIDDEN", "Only a superadmin can change superadmin access")
	}
	if actor.UserID == id {
		return nil, shared.NewDomainError("CANNOT_TOGGLE_SELF", "You cannot change your own superadmin access")
	}

	user, err := s.userRepo.FindByID(ctx, uuid.Nil, id)
	if err != nil {
		return nil, err
	}
	enabled := user.ToggleSuperadmin()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	appevent.Flush(ctx, s.events, user)

	s.logger.Warn("superadmin access changed",
		zap.String("actor_id", actor.UserID.String()),
		zap.String("user_id", id.String()),
		zap.Bool("is_superadmin", enabled))

	return s.GetByID(ctx, uuid.Nil, id)
}

// AssignRole grants a role to a user. Re-assigning a held or revoked role
// reactivates it and makes it the active role.
func (s *UserService) AssignRole(ctx context.Context, tenantID, userID, roleID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	role, err := s.activeRole(ctx, user.TenantID, roleID)
	if err != nil {
		return nil, err
	}

	ur, err := s.userRoleRepo.FindByUserAndRole(ctx, user.TenantID, user.ID, role.ID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		ur = identity.NewUserRole(user.TenantID, user.ID, role.ID)
	case err != nil:
		return nil, err
	default:
		ur.Reassign()
	}
	if err := s.userRoleRepo.Save(ctx, ur); err != nil {
		return nil, err
	}
	s.publishRolesChanged(ctx, user, role.ID)

	return s.GetByID(ctx, user.TenantID, user.ID)
}

// RemoveRole revokes a role from a user. The join row is kept inactive.
func (s *UserService) RemoveRole(ctx context.Context, tenantID, userID, roleID uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	ur, err := s.userRoleRepo.FindByUserAndRole(ctx, user.TenantID, user.ID, roleID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("ROLE_NOT_ASSIGNED", "User does not hold this role")
		}
		return err
	}
	if err := ur.Revoke(); err != nil {
		return err
	}
	if err := s.userRoleRepo.Save(ctx, ur); err != nil {
		return err
	}
	s.publishRolesChanged(ctx, user, roleID)
	return nil
}

// GetActiveRole returns the role currently in effect for a user
func (s *UserService) GetActiveRole(ctx context.Context, tenantID, userID uuid.UUID) (*RoleResponse, error) {
	user, err := s.userRepo.FindByID(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	assignments, err := s.userRoleRepo.FindAssignments(ctx, user.TenantID, user.ID)
	if err != nil {
		return nil, err
	}
	role := identity.DeriveActiveRole(assignments)
	if role == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "User has no active role")
	}
	resp := ToRoleResponse(role)
	return &resp, nil
}

// SetActiveRole switches the active role to one the user already holds
func (s *UserService) SetActiveRole(ctx context.Context, tenantID, userID, roleID uuid.UUID) (*RoleResponse, error) {
	user, err := s.userRepo.FindByID(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	ur, err := s.userRoleRepo.FindByUserAndRole(ctx, user.TenantID, user.ID, roleID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("ROLE_NOT_ASSIGNED", "User does not hold this role")
		}
		return nil, err
	}
	if !ur.IsActive {
		return nil, shared.NewDomainError("ROLE_NOT_ASSIGNED", "User does not hold this role")
	}
	role, err := s.activeRole(ctx, user.TenantID, roleID)
	if err != nil {
		return nil, err
	}

	ur.Reassign()
	if err := s.userRoleRepo.Save(ctx, ur); err != nil {
		return nil, err
	}
	s.publishRolesChanged(ctx, user, roleID)

	resp := ToRoleResponse(role)
	return &resp, nil
}

func (s *UserService) activeRole(ctx context.Context, tenantID, roleID uuid.UUID) (*identity.Role, error) {
	role, err := s.roleRepo.FindByID(ctx, tenantID, roleID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_ROLE", "Role not found")
		}
		return nil, err
	}
	if !role.IsActive {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role is inactive")
	}
	return role, nil
}

func (s *UserService) publishRolesChanged(ctx context.Context, user *identity.User, roleID uuid.UUID) {
	if s.events == nil {
		return
	}
	_ = s.events.Publish(ctx, identity.NewUserRolesChangedEvent(user.TenantID, user.ID, roleID))
}

func (s *UserService) revokeSessions(ctx context.Context, user *identity.User) {
	if s.sessions == nil {
		return
	}
	if err := s.sessions.RevokeUser(ctx, user.ID.String(), s.sessionTTL); err != nil {
		s.logger.Error("failed to revoke user sessions",
			zap.String("user_id", user.ID.String()), zap.Error(err))
	}
}
