package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	appevent "github.com/negocio/backoffice/internal/application/event"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/negocio/backoffice/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// TokenService issues and validates session tokens
type TokenService interface {
	GenerateTokenPair(subject auth.Subject) (*auth.TokenPair, error)
	ValidateRefreshToken(token string) (*auth.Claims, error)
	RefreshTokenPair(refreshToken string, subject auth.Subject) (*auth.TokenPair, error)
	RemainingTTL(claims *auth.Claims) time.Duration
}

var (
	errInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	errAccountInactive    = shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	errOrganizationClosed = shared.NewDomainError("ORGANIZATION_INACTIVE", "Organization has been deactivated")
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	// DefaultPlanCode is assigned to organizations created through Register.
	// Signup proceeds without a plan when the code does not exist.
	DefaultPlanCode string
}

// AuthService handles sign in, session refresh and self-service signup
type AuthService struct {
	txScope   TransactionScope
	repos     Repositories
	resolver  *AccessResolver
	tokens    TokenService
	blacklist auth.TokenBlacklist
	events    shared.EventPublisher
	config    AuthServiceConfig
	logger    *zap.Logger
}

// AuthServiceDeps groups the collaborators of AuthService
type AuthServiceDeps struct {
	TxScope   TransactionScope
	Repos     Repositories
	Resolver  *AccessResolver
	Tokens    TokenService
	Blacklist auth.TokenBlacklist
	Events    shared.EventPublisher
	Config    AuthServiceConfig
	Logger    *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(deps AuthServiceDeps) *AuthService {
	return &AuthService{
		txScope:   deps.TxScope,
		repos:     deps.Repos,
		resolver:  deps.Resolver,
		tokens:    deps.Tokens,
		blacklist: deps.Blacklist,
		events:    deps.Events,
		config:    deps.Config,
		logger:    deps.Logger,
	}
}

// Login authenticates by username or email and opens a session
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*SessionResponse, error) {
	user, err := s.repos.Users.FindByLogin(ctx, req.Login)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			identity.VerifyAbsentPassword(req.Password)
			s.logger.Warn("login with unknown account", zap.String("login", req.Login))
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !user.VerifyPassword(req.Password) {
		s.logger.Warn("invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, errInvalidCredentials
	}
	if !user.CanLogin() {
		s.logger.Warn("login attempt for deactivated account", zap.String("user_id", user.ID.String()))
		return nil, errAccountInactive
	}

	org, err := s.repos.Organizations.FindByID(ctx, user.TenantID)
	if err != nil {
		return nil, err
	}
	if !org.IsActive {
		s.logger.Warn("login attempt for deactivated organization",
			zap.String("user_id", user.ID.String()),
			zap.String("organization_id", org.ID.String()))
		return nil, errOrganizationClosed
	}

	user.RecordLogin()
	if err := s.repos.Users.Save(ctx, user); err != nil {
		return nil, err
	}

	session, err := s.openSession(ctx, user, org)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("organization_id", org.ID.String()),
		zap.Bool("is_superadmin", user.IsSuperadmin))
	return session, nil
}

// Refresh exchanges a refresh token for a new pair. The user is reloaded so
// status and superadmin changes apply; the old refresh token is revoked.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*SessionResponse, error) {
	claims, err := s.tokens.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}

	userID, err := claims.UserUUID()
	if err != nil {
		return nil, mapTokenError(err)
	}
	user, err := s.repos.Users.FindByID(ctx, uuid.Nil, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, mapTokenError(auth.ErrInvalidClaims)
		}
		return nil, err
	}
	if !user.CanLogin() {
		return nil, errAccountInactive
	}
	org, err := s.repos.Organizations.FindByID(ctx, user.TenantID)
	if err != nil {
		return nil, err
	}
	if !org.IsActive {
		return nil, errOrganizationClosed
	}

	pair, err := s.tokens.RefreshTokenPair(req.RefreshToken, subjectOf(user))
	if err != nil {
		return nil, mapTokenError(err)
	}
	if s.blacklist != nil {
		if err := s.blacklist.Revoke(ctx, claims.ID, s.tokens.RemainingTTL(claims)); err != nil {
			s.logger.Error("failed to revoke rotated refresh token", zap.Error(err))
		}
	}

	s.resolver.Invalidate(ctx, user.ID)
	return s.session(ctx, user, org, pair)
}

// Logout revokes the access token and, when given, the refresh token
func (s *AuthService) Logout(ctx context.Context, access *auth.Claims, refreshToken string) error {
	if s.blacklist == nil || access == nil {
		return nil
	}
	if err := s.blacklist.Revoke(ctx, access.ID, s.tokens.RemainingTTL(access)); err != nil {
		return err
	}
	if refreshToken != "" {
		if refresh, err := s.tokens.ValidateRefreshToken(refreshToken); err == nil && refresh.UserID == access.UserID {
			if err := s.blacklist.Revoke(ctx, refresh.ID, s.tokens.RemainingTTL(refresh)); err != nil {
				return err
			}
		}
	}
	s.logger.Info("user logged out", zap.String("user_id", access.UserID))
	return nil
}

// Me returns the caller with their organization, role and permissions
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*SessionResponse, error) {
	user, err := s.repos.Users.FindByID(ctx, uuid.Nil, userID)
	if err != nil {
		return nil, err
	}
	org, err := s.repos.Organizations.FindByID(ctx, user.TenantID)
	if err != nil {
		return nil, err
	}
	return s.session(ctx, user, org, nil)
}

// Register creates an organization with an ADMIN system role holding every
// permission, its owner user and the default plan assignment, atomically,
// then opens a session for the owner.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*SessionResponse, error) {
	var (
		org  *identity.Organization
		role *identity.Role
		user *identity.User
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := s.ensureRegistrable(ctx, repos, req); err != nil {
			return err
		}

		var err error
		if org, err = identity.NewOrganization(req.OrganizationName, req.TaxID); err != nil {
			return err
		}
		if err := org.SetContact(req.Email, "", ""); err != nil {
			return err
		}
		if err := repos.OrganizationRepo().Save(ctx, org); err != nil {
			return err
		}

		if role, err = identity.NewSystemRole(org.ID, identity.RoleCodeAdmin, "Administrator"); err != nil {
			return err
		}
		if err := repos.RoleRepo().Save(ctx, role); err != nil {
			return err
		}
		perms, err := repos.PermissionRepo().FindAllActive(ctx)
		if err != nil {
			return err
		}
		ids := make([]uuid.UUID, len(perms))
		for i := range perms {
			ids[i] = perms[i].ID
		}
		if len(ids) > 0 {
			if err := repos.RolePermissionRepo().SaveAll(ctx, identity.DiffPermissions(role, nil, ids).Changed()); err != nil {
				return err
			}
		}

		if user, err = identity.NewUser(org.ID, req.Username, req.Email, req.Password); err != nil {
			return err
		}
		if err := user.SetProfile(req.FirstName, req.LastName, ""); err != nil {
			return err
		}
		if err := repos.UserRepo().Save(ctx, user); err != nil {
			return err
		}
		if err := repos.UserRoleRepo().Save(ctx, identity.NewUserRole(org.ID, user.ID, role.ID)); err != nil {
			return err
		}

		return s.assignDefaultPlan(ctx, repos, org.ID)
	})
	if err != nil {
		return nil, err
	}
	appevent.Flush(ctx, s.events, org, role, user)

	s.logger.Info("organization registered",
		zap.String("organization_id", org.ID.String()),
		zap.String("user_id", user.ID.String()))

	return s.openSession(ctx, user, org)
}

func (s *AuthService) ensureRegistrable(ctx context.Context, repos TransactionalRepositories, req RegisterRequest) error {
	exists, err := repos.UserRepo().ExistsByUsername(ctx, req.Username)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("USERNAME_EXISTS", "Username is already taken")
	}
	exists, err = repos.UserRepo().ExistsByEmail(ctx, req.Email, uuid.Nil)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("EMAIL_EXISTS", "Email is already registered")
	}
	exists, err = repos.OrganizationRepo().ExistsByTaxID(ctx, req.TaxID, uuid.Nil)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "An organization with this tax id already exists")
	}
	return nil
}

func (s *AuthService) assignDefaultPlan(ctx context.Context, repos TransactionalRepositories, orgID uuid.UUID) error {
	if s.config.DefaultPlanCode == "" {
		return nil
	}
	plan, err := repos.PlanRepo().FindByCode(ctx, s.config.DefaultPlanCode)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("default plan not found, organization registered without plan",
				zap.String("plan_code", s.config.DefaultPlanCode))
			return nil
		}
		return err
	}
	_, err = assignPlan(ctx, repos.OrganizationPlanRepo(), orgID, plan, time.Now())
	return err
}

func (s *AuthService) openSession(ctx context.Context, user *identity.User, org *identity.Organization) (*SessionResponse, error) {
	pair, err := s.tokens.GenerateTokenPair(subjectOf(user))
	if err != nil {
		return nil, err
	}
	s.resolver.Invalidate(ctx, user.ID)
	return s.session(ctx, user, org, pair)
}

func (s *AuthService) session(ctx context.Context, user *identity.User, org *identity.Organization, pair *auth.TokenPair) (*SessionResponse, error) {
	access, err := s.resolver.Resolve(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	assignments, err := s.repos.UserRoles.FindAssignments(ctx, user.TenantID, user.ID)
	if err != nil {
		return nil, err
	}

	orgResp := ToOrganizationResponse(org)
	resp := &SessionResponse{
		User:         ToUserResponse(user, assignments),
		Organization: &orgResp,
		Permissions:  access.Permissions,
		IsSuperadmin: access.IsSuperadmin,
	}
	if pair != nil {
		resp.Token = &TokenResponse{
			AccessToken:           pair.AccessToken,
			RefreshToken:          pair.RefreshToken,
			TokenType:             pair.TokenType,
			AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		}
	}
	return resp, nil
}

func (s *AuthService) checkRevoked(ctx context.Context, claims *auth.Claims) error {
	if s.blacklist == nil {
		return nil
	}
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return err
	}
	if !revoked && claims.IssuedAt != nil {
		revoked, err = s.blacklist.IsUserRevoked(ctx, claims.UserID, claims.IssuedAt.Time)
		if err != nil {
			return err
		}
	}
	if revoked {
		return mapTokenError(auth.ErrTokenBlacklisted)
	}
	return nil
}

func subjectOf(user *identity.User) auth.Subject {
	return auth.Subject{
		OrganizationID: user.TenantID,
		UserID:         user.ID,
		Username:       user.Username,
		IsSuperadmin:   user.IsSuperadmin,
	}
}

// mapTokenError converts token failures into domain errors with stable codes
func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("REFRESH_LIMIT_EXCEEDED", "Session must be renewed by signing in again")
	case errors.Is(err, auth.ErrTokenBlacklisted):
		return shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked")
	default:
		return shared.NewDomainError("INVALID_TOKEN", "Invalid token")
	}
}
