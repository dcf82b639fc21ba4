package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/identity"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrganizationModel is the persistence model for organizations
type OrganizationModel struct {
	AggregateModel
	Name     string `gorm:"type:varchar(200);not null"`
	TaxID    string `gorm:"type:varchar(20);not null;uniqueIndex"`
	Email    string `gorm:"type:varchar(200)"`
	Phone    string `gorm:"type:varchar(50)"`
	Address  string `gorm:"type:varchar(500)"`
	IsActive bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (OrganizationModel) TableName() string {
	return "organizations"
}

// ToDomain converts the model to a domain Organization
func (m *OrganizationModel) ToDomain() *identity.Organization {
	return &identity.Organization{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Activatable:       shared.Activatable{IsActive: m.IsActive},
		Name:              m.Name,
		TaxID:             m.TaxID,
		Email:             m.Email,
		Phone:             m.Phone,
		Address:           m.Address,
	}
}

// OrganizationModelFromDomain builds the model of an organization
func OrganizationModelFromDomain(o *identity.Organization) *OrganizationModel {
	m := &OrganizationModel{
		Name:     o.Name,
		TaxID:    o.TaxID,
		Email:    o.Email,
		Phone:    o.Phone,
		Address:  o.Address,
		IsActive: o.IsActive,
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	return m
}

// UserModel is the persistence model for users
type UserModel struct {
	TenantAggregateModel
	Username     string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Email        string `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	FirstName    string `gorm:"type:varchar(100)"`
	LastName     string `gorm:"type:varchar(100)"`
	Phone        string `gorm:"type:varchar(50)"`
	IsSuperadmin bool   `gorm:"not null;default:false"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Username:            m.Username,
		Email:               m.Email,
		PasswordHash:        m.PasswordHash,
		FirstName:           m.FirstName,
		LastName:            m.LastName,
		Phone:               m.Phone,
		IsSuperadmin:        m.IsSuperadmin,
		LastLoginAt:         m.LastLoginAt,
	}
}

// UserModelFromDomain builds the model of a user
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Phone:        u.Phone,
		IsSuperadmin: u.IsSuperadmin,
		LastLoginAt:  u.LastLoginAt,
	}
	m.FromDomainTenantAggregateRoot(u.TenantAggregateRoot)
	return m
}

// RoleModel is the persistence model for roles
type RoleModel struct {
	TenantAggregateModel
	Code        string `gorm:"type:varchar(50);not null;index"`
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:varchar(500)"`
	IsSystem    bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (RoleModel) TableName() string {
	return "roles"
}

// ToDomain converts the model to a domain Role
func (m *RoleModel) ToDomain() *identity.Role {
	return &identity.Role{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
		Description:         m.Description,
		IsSystem:            m.IsSystem,
	}
}

// RoleModelFromDomain builds the model of a role
func RoleModelFromDomain(r *identity.Role) *RoleModel {
	m := &RoleModel{
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
		IsSystem:    r.IsSystem,
	}
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	return m
}

// PermissionModel is the persistence model of the global permission catalog
type PermissionModel struct {
	BaseModel
	Code        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Resource    string `gorm:"type:varchar(50);not null;index"`
	Action      string `gorm:"type:varchar(50);not null"`
	Description string `gorm:"type:varchar(500)"`
	IsActive    bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (PermissionModel) TableName() string {
	return "permissions"
}

// ToDomain converts the model to a domain Permission
func (m *PermissionModel) ToDomain() *identity.Permission {
	return &identity.Permission{
		BaseEntity:  m.BaseModel.ToDomain(),
		Activatable: shared.Activatable{IsActive: m.IsActive},
		Code:        m.Code,
		Resource:    m.Resource,
		Action:      m.Action,
		Description: m.Description,
	}
}

// PermissionModelFromDomain builds the model of a permission
func PermissionModelFromDomain(p *identity.Permission) *PermissionModel {
	m := &PermissionModel{
		Code:        p.Code,
		Resource:    p.Resource,
		Action:      p.Action,
		Description: p.Description,
		IsActive:    p.IsActive,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}

// RolePermissionModel is the role <-> permission join
type RolePermissionModel struct {
	BaseModel
	TenantID     uuid.UUID `gorm:"type:uuid;not null;index"`
	RoleID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_role_permission,priority:1"`
	PermissionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_role_permission,priority:2"`
	IsActive     bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (RolePermissionModel) TableName() string {
	return "role_permissions"
}

// ToDomain converts the model to a domain RolePermission
func (m *RolePermissionModel) ToDomain() identity.RolePermission {
	return identity.RolePermission{
		BaseEntity:   m.BaseModel.ToDomain(),
		Activatable:  shared.Activatable{IsActive: m.IsActive},
		TenantID:     m.TenantID,
		RoleID:       m.RoleID,
		PermissionID: m.PermissionID,
	}
}

// RolePermissionModelFromDomain builds the model of a role permission join
func RolePermissionModelFromDomain(rp *identity.RolePermission) *RolePermissionModel {
	m := &RolePermissionModel{
		TenantID:     rp.TenantID,
		RoleID:       rp.RoleID,
		PermissionID: rp.PermissionID,
		IsActive:     rp.IsActive,
	}
	m.FromDomainBaseEntity(rp.BaseEntity)
	return m
}

// UserRoleModel is the user <-> role join
type UserRoleModel struct {
	BaseModel
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_role,priority:1"`
	RoleID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_role,priority:2"`
	IsActive   bool      `gorm:"not null;default:true"`
	AssignedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserRoleModel) TableName() string {
	return "user_roles"
}

// ToDomain converts the model to a domain UserRole
func (m *UserRoleModel) ToDomain() identity.UserRole {
	return identity.UserRole{
		BaseEntity:  m.BaseModel.ToDomain(),
		Activatable: shared.Activatable{IsActive: m.IsActive},
		TenantID:    m.TenantID,
		UserID:      m.UserID,
		RoleID:      m.RoleID,
		AssignedAt:  m.AssignedAt,
	}
}

// UserRoleModelFromDomain builds the model of a user role join
func UserRoleModelFromDomain(ur *identity.UserRole) *UserRoleModel {
	m := &UserRoleModel{
		TenantID:   ur.TenantID,
		UserID:     ur.UserID,
		RoleID:     ur.RoleID,
		IsActive:   ur.IsActive,
		AssignedAt: ur.AssignedAt,
	}
	m.FromDomainBaseEntity(ur.BaseEntity)
	return m
}

// PlanModel is the persistence model for subscription plans
type PlanModel struct {
	AggregateModel
	Code          string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name          string          `gorm:"type:varchar(100);not null"`
	Description   string          `gorm:"type:varchar(500)"`
	Price         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DurationDays  int             `gorm:"not null"`
	MaxUsers      int             `gorm:"not null;default:0"`
	MaxProducts   int             `gorm:"not null;default:0"`
	MaxWarehouses int             `gorm:"not null;default:0"`
	IsActive      bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (PlanModel) TableName() string {
	return "plans"
}

// ToDomain converts the model to a domain Plan
func (m *PlanModel) ToDomain() *identity.Plan {
	return &identity.Plan{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Activatable:       shared.Activatable{IsActive: m.IsActive},
		Code:              m.Code,
		Name:              m.Name,
		Description:       m.Description,
		Price:             m.Price,
		DurationDays:      m.DurationDays,
		MaxUsers:          m.MaxUsers,
		MaxProducts:       m.MaxProducts,
		MaxWarehouses:     m.MaxWarehouses,
	}
}

// PlanModelFromDomain builds the model of a plan
func PlanModelFromDomain(p *identity.Plan) *PlanModel {
	m := &PlanModel{
		Code:          p.Code,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		DurationDays:  p.DurationDays,
		MaxUsers:      p.MaxUsers,
		MaxProducts:   p.MaxProducts,
		MaxWarehouses: p.MaxWarehouses,
		IsActive:      p.IsActive,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}

// OrganizationPlanModel is a plan assignment of an organization
type OrganizationPlanModel struct {
	BaseModel
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	PlanID    uuid.UUID `gorm:"type:uuid;not null;index"`
	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null;index"`
	IsActive  bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (OrganizationPlanModel) TableName() string {
	return "organization_plans"
}

// ToDomain converts the model to a domain OrganizationPlan
func (m *OrganizationPlanModel) ToDomain() *identity.OrganizationPlan {
	return &identity.OrganizationPlan{
		BaseEntity:  m.BaseModel.ToDomain(),
		Activatable: shared.Activatable{IsActive: m.IsActive},
		TenantID:    m.TenantID,
		PlanID:      m.PlanID,
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
	}
}

// OrganizationPlanModelFromDomain builds the model of a plan assignment
func OrganizationPlanModelFromDomain(op *identity.OrganizationPlan) *OrganizationPlanModel {
	m := &OrganizationPlanModel{
		TenantID:  op.TenantID,
		PlanID:    op.PlanID,
		StartDate: op.StartDate,
		EndDate:   op.EndDate,
		IsActive:  op.IsActive,
	}
	m.FromDomainBaseEntity(op.BaseEntity)
	return m
}
