// Package models contains the GORM persistence models. Domain types never
// carry gorm tags; each model converts to and from its domain counterpart.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/shared"
)

// BaseModel maps shared.BaseEntity
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel adds the optimistic locking version
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// ToAggregateRoot rebuilds the domain aggregate root fields
func (m *AggregateModel) ToAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{BaseEntity: m.BaseModel.ToDomain(), Version: m.Version}
}

// TenantAggregateModel holds the fields of an organization-scoped,
// soft-deletable aggregate
type TenantAggregateModel struct {
	AggregateModel
	TenantID uuid.UUID `gorm:"type:uuid;not null;index"`
	IsActive bool      `gorm:"not null;default:true;index"`
}

// FromDomainTenantAggregateRoot populates TenantAggregateModel from domain TenantAggregateRoot
func (m *TenantAggregateModel) FromDomainTenantAggregateRoot(t shared.TenantAggregateRoot) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.TenantID = t.TenantID
	m.IsActive = t.IsActive
}

// ToTenantAggregateRoot rebuilds the domain TenantAggregateRoot
func (m *TenantAggregateModel) ToTenantAggregateRoot() shared.TenantAggregateRoot {
	return shared.TenantAggregateRoot{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Activatable:       shared.Activatable{IsActive: m.IsActive},
		TenantID:          m.TenantID,
	}
}

// All lists every model in dependency order, for schema bootstrapping in tests
func All() []any {
	return []any{
		&OrganizationModel{},
		&UserModel{},
		&RoleModel{},
		&PermissionModel{},
		&RolePermissionModel{},
		&UserRoleModel{},
		&PlanModel{},
		&OrganizationPlanModel{},
		&ProductModel{},
		&WarehouseModel{},
		&WarehouseProductModel{},
		&ClientModel{},
		&SupplierModel{},
		&PurchaseModel{},
		&PurchaseItemModel{},
		&SaleModel{},
		&SaleItemModel{},
		&DocumentSequenceModel{},
	}
}
