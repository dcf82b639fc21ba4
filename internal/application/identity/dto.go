package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Organizations
// ---------------------------------------------------------------------------

// CreateOrganizationRequest represents a request to create an organization
type CreateOrganizationRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	TaxID   string `json:"tax_id" binding:"required,min=1,max=20"`
	Email   string `json:"email" binding:"omitempty,email,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Address string `json:"address" binding:"max=500"`
}

// UpdateOrganizationRequest represents a partial organization update
type UpdateOrganizationRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=200"`
	TaxID   *string `json:"tax_id" binding:"omitempty,min=1,max=20"`
	Email   *string `json:"email" binding:"omitempty,max=200"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	Address *string `json:"address" binding:"omitempty,max=500"`
}

// OrganizationResponse represents an organization in API responses
type OrganizationResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToOrganizationResponse converts a domain Organization
func ToOrganizationResponse(o *identity.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:        o.ID,
		Name:      o.Name,
		TaxID:     o.TaxID,
		Email:     o.Email,
		Phone:     o.Phone,
		Address:   o.Address,
		IsActive:  o.IsActive,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

// CreateUserRequest represents a request by an administrator to create a user
type CreateUserRequest struct {
	Username  string     `json:"username" binding:"required,min=3,max=100"`
	Email     string     `json:"email" binding:"required,email,max=200"`
	Password  string     `json:"password" binding:"required,min=8,max=72"`
	FirstName string     `json:"first_name" binding:"max=100"`
	LastName  string     `json:"last_name" binding:"max=100"`
	Phone     string     `json:"phone" binding:"max=50"`
	RoleID    *uuid.UUID `json:"role_id"`
}

// UpdateUserRequest represents a partial user update
type UpdateUserRequest struct {
	Email     *string `json:"email" binding:"omitempty,email,max=200"`
	FirstName *string `json:"first_name" binding:"omitempty,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,max=100"`
	Phone     *string `json:"phone" binding:"omitempty,max=50"`
}

// ChangePasswordRequest changes the caller's password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}

// RoleIDRequest carries a role id (assign role, set active role)
type RoleIDRequest struct {
	RoleID uuid.UUID `json:"role_id" binding:"required"`
}

// RoleSummary is a role held by a user
type RoleSummary struct {
	ID         uuid.UUID `json:"id"`
	Code       string    `json:"code"`
	Name       string    `json:"name"`
	AssignedAt time.Time `json:"assigned_at"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID             uuid.UUID     `json:"id"`
	OrganizationID uuid.UUID     `json:"organization_id"`
	Username       string        `json:"username"`
	Email          string        `json:"email"`
	FirstName      string        `json:"first_name"`
	LastName       string        `json:"last_name"`
	FullName       string        `json:"full_name"`
	Phone          string        `json:"phone"`
	IsSuperadmin   bool          `json:"is_superadmin"`
	IsActive       bool          `json:"is_active"`
	LastLoginAt    *time.Time    `json:"last_login_at,omitempty"`
	ActiveRole     *RoleSummary  `json:"active_role,omitempty"`
	Roles          []RoleSummary `json:"roles,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// ToUserResponse converts a domain User. assignments may be nil for list views.
func ToUserResponse(u *identity.User, assignments []identity.RoleAssignment) UserResponse {
	resp := UserResponse{
		ID:             u.ID,
		OrganizationID: u.TenantID,
		Username:       u.Username,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		FullName:       u.FullName(),
		Phone:          u.Phone,
		IsSuperadmin:   u.IsSuperadmin,
		IsActive:       u.IsActive,
		LastLoginAt:    u.LastLoginAt,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
	active := identity.ActiveAssignments(assignments)
	if len(active) == 0 {
		return resp
	}
	resp.Roles = make([]RoleSummary, 0, len(active))
	for _, a := range active {
		resp.Roles = append(resp.Roles, toRoleSummary(a))
	}
	if role := identity.DeriveActiveRole(active); role != nil {
		for _, a := range active {
			if a.Role.ID == role.ID {
				s := toRoleSummary(a)
				resp.ActiveRole = &s
				break
			}
		}
	}
	return resp
}

func toRoleSummary(a identity.RoleAssignment) RoleSummary {
	return RoleSummary{
		ID:         a.Role.ID,
		Code:       a.Role.Code,
		Name:       a.Role.Name,
		AssignedAt: a.UserRole.AssignedAt,
	}
}

// ---------------------------------------------------------------------------
// Roles and permissions
// ---------------------------------------------------------------------------

// CreateRoleRequest represents a request to create a role
type CreateRoleRequest struct {
	Code          string      `json:"code" binding:"required,min=2,max=50"`
	Name          string      `json:"name" binding:"required,min=1,max=100"`
	Description   string      `json:"description" binding:"max=500"`
	PermissionIDs []uuid.UUID `json:"permission_ids"`
}

// UpdateRoleRequest represents a role update
type UpdateRoleRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
}

// SetPermissionsRequest replaces the permission set of a role. Permissions
// may be given by id, by code or both.
type SetPermissionsRequest struct {
	PermissionIDs   []uuid.UUID `json:"permission_ids"`
	PermissionCodes []string    `json:"permission_codes"`
}

// RoleResponse represents a role in API responses
type RoleResponse struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	IsSystem       bool      `json:"is_system"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToRoleResponse converts a domain Role
func ToRoleResponse(r *identity.Role) RoleResponse {
	return RoleResponse{
		ID:             r.ID,
		OrganizationID: r.TenantID,
		Code:           r.Code,
		Name:           r.Name,
		Description:    r.Description,
		IsSystem:       r.IsSystem,
		IsActive:       r.IsActive,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// PermissionResponse represents a catalog permission
type PermissionResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Resource    string    `json:"resource"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
}

// ToPermissionResponse converts a domain Permission
func ToPermissionResponse(p *identity.Permission) PermissionResponse {
	return PermissionResponse{
		ID:          p.ID,
		Code:        p.Code,
		Resource:    p.Resource,
		Action:      p.Action,
		Description: p.Description,
		IsActive:    p.IsActive,
	}
}

// ---------------------------------------------------------------------------
// Plans
// ---------------------------------------------------------------------------

// CreatePlanRequest represents a request to create a plan
type CreatePlanRequest struct {
	Code          string          `json:"code" binding:"required,min=1,max=50"`
	Name          string          `json:"name" binding:"required,min=1,max=100"`
	Description   string          `json:"description" binding:"max=500"`
	Price         decimal.Decimal `json:"price"`
	DurationDays  int             `json:"duration_days" binding:"required,min=1"`
	MaxUsers      int             `json:"max_users" binding:"min=0"`
	MaxProducts   int             `json:"max_products" binding:"min=0"`
	MaxWarehouses int             `json:"max_warehouses" binding:"min=0"`
}

// UpdatePlanRequest represents a partial plan update
type UpdatePlanRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Description   *string          `json:"description" binding:"omitempty,max=500"`
	Price         *decimal.Decimal `json:"price"`
	DurationDays  *int             `json:"duration_days" binding:"omitempty,min=1"`
	MaxUsers      *int             `json:"max_users" binding:"omitempty,min=0"`
	MaxProducts   *int             `json:"max_products" binding:"omitempty,min=0"`
	MaxWarehouses *int             `json:"max_warehouses" binding:"omitempty,min=0"`
}

// PlanResponse represents a plan in API responses
type PlanResponse struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	DurationDays  int             `json:"duration_days"`
	MaxUsers      int             `json:"max_users"`
	MaxProducts   int             `json:"max_products"`
	MaxWarehouses int             `json:"max_warehouses"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToPlanResponse converts a domain Plan
func ToPlanResponse(p *identity.Plan) PlanResponse {
	return PlanResponse{
		ID:            p.ID,
		Code:          p.Code,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		DurationDays:  p.DurationDays,
		MaxUsers:      p.MaxUsers,
		MaxProducts:   p.MaxProducts,
		MaxWarehouses: p.MaxWarehouses,
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// AssignPlanRequest subscribes an organization to a plan
type AssignPlanRequest struct {
	PlanID    uuid.UUID  `json:"plan_id" binding:"required"`
	StartDate *time.Time `json:"start_date"`
}

// OrganizationPlanResponse represents a plan assignment
type OrganizationPlanResponse struct {
	ID             uuid.UUID     `json:"id"`
	OrganizationID uuid.UUID     `json:"organization_id"`
	PlanID         uuid.UUID     `json:"plan_id"`
	StartDate      time.Time     `json:"start_date"`
	EndDate        time.Time     `json:"end_date"`
	IsActive       bool          `json:"is_active"`
	Plan           *PlanResponse `json:"plan,omitempty"`
}

// ToOrganizationPlanResponse converts an assignment; plan may be nil.
func ToOrganizationPlanResponse(op *identity.OrganizationPlan, plan *identity.Plan) OrganizationPlanResponse {
	resp := OrganizationPlanResponse{
		ID:             op.ID,
		OrganizationID: op.TenantID,
		PlanID:         op.PlanID,
		StartDate:      op.StartDate,
		EndDate:        op.EndDate,
		IsActive:       op.IsActive,
	}
	if plan != nil {
		p := ToPlanResponse(plan)
		resp.Plan = &p
	}
	return resp
}

// ---------------------------------------------------------------------------
// Authentication
// ---------------------------------------------------------------------------

// LoginRequest signs in with a username or an email
type LoginRequest struct {
	Login    string `json:"login" binding:"required,max=200"`
	Password string `json:"password" binding:"required,max=72"`
}

// RefreshRequest exchanges a refresh token for a new pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RegisterRequest is the self-service signup of an organization and its owner
type RegisterRequest struct {
	OrganizationName string `json:"organization_name" binding:"required,min=1,max=200"`
	TaxID            string `json:"tax_id" binding:"required,min=1,max=20"`
	Username         string `json:"username" binding:"required,min=3,max=100"`
	Email            string `json:"email" binding:"required,email,max=200"`
	Password         string `json:"password" binding:"required,min=8,max=72"`
	FirstName        string `json:"first_name" binding:"max=100"`
	LastName         string `json:"last_name" binding:"max=100"`
}

// TokenResponse carries a token pair
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	TokenType             string    `json:"token_type"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
}

// SessionResponse is returned by login, register and me
type SessionResponse struct {
	Token        *TokenResponse        `json:"token,omitempty"`
	User         UserResponse          `json:"user"`
	Organization *OrganizationResponse `json:"organization,omitempty"`
	Permissions  []string              `json:"permissions"`
	IsSuperadmin bool                  `json:"is_superadmin"`
}
