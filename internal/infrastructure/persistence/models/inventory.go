package models

import (
	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/inventory"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// WarehouseModel is the persistence model for warehouses
type WarehouseModel struct {
	TenantAggregateModel
	Code    string `gorm:"type:varchar(50);not null;index"`
	Name    string `gorm:"type:varchar(100);not null"`
	Address string `gorm:"type:varchar(500)"`
	Phone   string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (WarehouseModel) TableName() string {
	return "warehouses"
}

// ToDomain converts the model to a domain Warehouse
func (m *WarehouseModel) ToDomain() *inventory.Warehouse {
	return &inventory.Warehouse{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
		Address:             m.Address,
		Phone:               m.Phone,
	}
}

// WarehouseModelFromDomain builds the model of a warehouse
func WarehouseModelFromDomain(w *inventory.Warehouse) *WarehouseModel {
	m := &WarehouseModel{
		Code:    w.Code,
		Name:    w.Name,
		Address: w.Address,
		Phone:   w.Phone,
	}
	m.FromDomainTenantAggregateRoot(w.TenantAggregateRoot)
	return m
}

// WarehouseProductModel is the stock of a product in a warehouse
type WarehouseProductModel struct {
	BaseModel
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_warehouse_product,priority:1"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_warehouse_product,priority:2"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IsActive    bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (WarehouseProductModel) TableName() string {
	return "warehouse_products"
}

// ToDomain converts the model to a domain WarehouseProduct
func (m *WarehouseProductModel) ToDomain() *inventory.WarehouseProduct {
	return &inventory.WarehouseProduct{
		BaseEntity:  m.BaseModel.ToDomain(),
		Activatable: shared.Activatable{IsActive: m.IsActive},
		TenantID:    m.TenantID,
		WarehouseID: m.WarehouseID,
		ProductID:   m.ProductID,
		Quantity:    m.Quantity,
	}
}

// WarehouseProductModelFromDomain builds the model of a stock row
func WarehouseProductModelFromDomain(wp *inventory.WarehouseProduct) *WarehouseProductModel {
	m := &WarehouseProductModel{
		TenantID:    wp.TenantID,
		WarehouseID: wp.WarehouseID,
		ProductID:   wp.ProductID,
		Quantity:    wp.Quantity,
		IsActive:    wp.IsActive,
	}
	m.FromDomainBaseEntity(wp.BaseEntity)
	return m
}

// StockLineRow is the result row of the stock queries joining products and warehouses
type StockLineRow struct {
	WarehouseProductModel
	ProductCode   string
	ProductName   string
	Unit          string
	MinStock      decimal.Decimal
	WarehouseCode string
	WarehouseName string
}

// ToDomain converts the row to a domain StockLine
func (r *StockLineRow) ToDomain() inventory.StockLine {
	return inventory.StockLine{
		WarehouseProduct: *r.WarehouseProductModel.ToDomain(),
		ProductCode:      r.ProductCode,
		ProductName:      r.ProductName,
		Unit:             r.Unit,
		MinStock:         r.MinStock,
		WarehouseCode:    r.WarehouseCode,
		WarehouseName:    r.WarehouseName,
	}
}
