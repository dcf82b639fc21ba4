package models

import (
	"github.com/negocio/backoffice/internal/domain/partner"
)

// ClientModel is the persistence model for clients.
// First and last name are stored together in Name.
type ClientModel struct {
	TenantAggregateModel
	DocumentType   string `gorm:"type:varchar(20);not null;default:'OTHER'"`
	DocumentNumber string `gorm:"type:varchar(20);index"`
	Name           string `gorm:"type:varchar(200);not null"`
	Email          string `gorm:"type:varchar(200)"`
	Phone          string `gorm:"type:varchar(50)"`
	Address        string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the model to a domain Client
func (m *ClientModel) ToDomain() *partner.Client {
	return &partner.Client{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		DocumentType:        partner.DocumentType(m.DocumentType),
		DocumentNumber:      m.DocumentNumber,
		Name:                m.Name,
		Email:               m.Email,
		Phone:               m.Phone,
		Address:             m.Address,
	}
}

// ClientModelFromDomain builds the model of a client
func ClientModelFromDomain(c *partner.Client) *ClientModel {
	m := &ClientModel{
		DocumentType:   string(c.DocumentType),
		DocumentNumber: c.DocumentNumber,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		Address:        c.Address,
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}

// SupplierModel is the persistence model for suppliers
type SupplierModel struct {
	TenantAggregateModel
	TaxID       string `gorm:"type:varchar(20);not null;index"`
	Name        string `gorm:"type:varchar(200);not null"`
	ContactName string `gorm:"type:varchar(200)"`
	Email       string `gorm:"type:varchar(200)"`
	Phone       string `gorm:"type:varchar(50)"`
	Address     string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the model to a domain Supplier
func (m *SupplierModel) ToDomain() *partner.Supplier {
	return &partner.Supplier{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		TaxID:               m.TaxID,
		Name:                m.Name,
		ContactName:         m.ContactName,
		Email:               m.Email,
		Phone:               m.Phone,
		Address:             m.Address,
	}
}

// SupplierModelFromDomain builds the model of a supplier
func SupplierModelFromDomain(s *partner.Supplier) *SupplierModel {
	m := &SupplierModel{
		TaxID:       s.TaxID,
		Name:        s.Name,
		ContactName: s.ContactName,
		Email:       s.Email,
		Phone:       s.Phone,
		Address:     s.Address,
	}
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	return m
}
