package models

import (
	"github.com/negocio/backoffice/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for products
type ProductModel struct {
	TenantAggregateModel
	Code          string          `gorm:"type:varchar(50);not null;index"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Description   string          `gorm:"type:text"`
	Category      string          `gorm:"type:varchar(100);index"`
	Unit          string          `gorm:"type:varchar(20);not null"`
	Barcode       string          `gorm:"type:varchar(50);index"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinStock      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Code:                m.Code,
		Name:                m.Name,
		Description:         m.Description,
		Category:            m.Category,
		Unit:                m.Unit,
		Barcode:             m.Barcode,
		PurchasePrice:       m.PurchasePrice,
		SalePrice:           m.SalePrice,
		MinStock:            m.MinStock,
	}
}

// ProductModelFromDomain builds the model of a product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		Code:          p.Code,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		Unit:          p.Unit,
		Barcode:       p.Barcode,
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		MinStock:      p.MinStock,
	}
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	return m
}
