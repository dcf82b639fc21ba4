package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// PurchaseModel is the persistence model of a purchase header
type PurchaseModel struct {
	TenantAggregateModel
	Number         string              `gorm:"type:varchar(20);not null;index"`
	SupplierID     uuid.UUID           `gorm:"type:uuid;not null;index"`
	WarehouseID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	UserID         uuid.UUID           `gorm:"type:uuid;not null"`
	DocumentNumber string              `gorm:"type:varchar(50)"`
	PurchaseDate   time.Time           `gorm:"not null;index"`
	Notes          string              `gorm:"type:text"`
	Subtotal       decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Tax            decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Total          decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Items          []PurchaseItemModel `gorm:"foreignKey:PurchaseID"`
}

// TableName returns the table name for GORM
func (PurchaseModel) TableName() string {
	return "purchases"
}

// ToDomain converts the model (and any loaded items) to a domain Purchase
func (m *PurchaseModel) ToDomain() *trade.Purchase {
	p := &trade.Purchase{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Number:              m.Number,
		SupplierID:          m.SupplierID,
		WarehouseID:         m.WarehouseID,
		UserID:              m.UserID,
		DocumentNumber:      m.DocumentNumber,
		PurchaseDate:        m.PurchaseDate,
		Notes:               m.Notes,
		Subtotal:            m.Subtotal,
		Tax:                 m.Tax,
		Total:               m.Total,
	}
	for i := range m.Items {
		p.Items = append(p.Items, m.Items[i].ToDomain())
	}
	return p
}

// PurchaseModelFromDomain builds the header model of a purchase; items are
// converted separately.
func PurchaseModelFromDomain(p *trade.Purchase) *PurchaseModel {
	m := &PurchaseModel{
		Number:         p.Number,
		SupplierID:     p.SupplierID,
		WarehouseID:    p.WarehouseID,
		UserID:         p.UserID,
		DocumentNumber: p.DocumentNumber,
		PurchaseDate:   p.PurchaseDate,
		Notes:          p.Notes,
		Subtotal:       p.Subtotal,
		Tax:            p.Tax,
		Total:          p.Total,
	}
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	return m
}

// PurchaseItemModel is a purchase line
type PurchaseItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PurchaseID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductCode string          `gorm:"type:varchar(50);not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseItemModel) TableName() string {
	return "purchase_items"
}

// ToDomain converts the model to a domain PurchaseItem
func (m *PurchaseItemModel) ToDomain() trade.PurchaseItem {
	return trade.PurchaseItem{
		ID:          m.ID,
		PurchaseID:  m.PurchaseID,
		ProductID:   m.ProductID,
		ProductCode: m.ProductCode,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		UnitCost:    m.UnitCost,
		Subtotal:    m.Subtotal,
		CreatedAt:   m.CreatedAt,
	}
}

// PurchaseItemModelsFromDomain converts the lines of a purchase
func PurchaseItemModelsFromDomain(p *trade.Purchase) []PurchaseItemModel {
	out := make([]PurchaseItemModel, 0, len(p.Items))
	for _, it := range p.Items {
		out = append(out, PurchaseItemModel{
			ID:          it.ID,
			PurchaseID:  p.ID,
			ProductID:   it.ProductID,
			ProductCode: it.ProductCode,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitCost:    it.UnitCost,
			Subtotal:    it.Subtotal,
			CreatedAt:   it.CreatedAt,
		})
	}
	return out
}

// SaleModel is the persistence model of a sale header
type SaleModel struct {
	TenantAggregateModel
	Number        string          `gorm:"type:varchar(20);not null;index"`
	ClientID      *uuid.UUID      `gorm:"type:uuid;index"`
	WarehouseID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null"`
	SaleDate      time.Time       `gorm:"not null;index"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"`
	Notes         string          `gorm:"type:text"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Discount      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Tax           decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Total         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Items         []SaleItemModel `gorm:"foreignKey:SaleID"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the model (and any loaded items) to a domain Sale
func (m *SaleModel) ToDomain() *trade.Sale {
	s := &trade.Sale{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Number:              m.Number,
		ClientID:            m.ClientID,
		WarehouseID:         m.WarehouseID,
		UserID:              m.UserID,
		SaleDate:            m.SaleDate,
		PaymentMethod:       trade.PaymentMethod(m.PaymentMethod),
		Notes:               m.Notes,
		Subtotal:            m.Subtotal,
		Discount:            m.Discount,
		Tax:                 m.Tax,
		Total:               m.Total,
	}
	for i := range m.Items {
		s.Items = append(s.Items, m.Items[i].ToDomain())
	}
	return s
}

// SaleModelFromDomain builds the header model of a sale
func SaleModelFromDomain(s *trade.Sale) *SaleModel {
	m := &SaleModel{
		Number:        s.Number,
		ClientID:      s.ClientID,
		WarehouseID:   s.WarehouseID,
		UserID:        s.UserID,
		SaleDate:      s.SaleDate,
		PaymentMethod: string(s.PaymentMethod),
		Notes:         s.Notes,
		Subtotal:      s.Subtotal,
		Discount:      s.Discount,
		Tax:           s.Tax,
		Total:         s.Total,
	}
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	return m
}

// SaleItemModel is a sale line
type SaleItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SaleID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductCode string          `gorm:"type:varchar(50);not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleItemModel) TableName() string {
	return "sale_items"
}

// ToDomain converts the model to a domain SaleItem
func (m *SaleItemModel) ToDomain() trade.SaleItem {
	return trade.SaleItem{
		ID:          m.ID,
		SaleID:      m.SaleID,
		ProductID:   m.ProductID,
		ProductCode: m.ProductCode,
		ProductName: m.ProductName,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		Subtotal:    m.Subtotal,
		CreatedAt:   m.CreatedAt,
	}
}

// SaleItemModelsFromDomain converts the lines of a sale
func SaleItemModelsFromDomain(s *trade.Sale) []SaleItemModel {
	out := make([]SaleItemModel, 0, len(s.Items))
	for _, it := range s.Items {
		out = append(out, SaleItemModel{
			ID:          it.ID,
			SaleID:      s.ID,
			ProductID:   it.ProductID,
			ProductCode: it.ProductCode,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
			CreatedAt:   it.CreatedAt,
		})
	}
	return out
}

// DocumentSequenceModel holds the last number issued per organization and kind
type DocumentSequenceModel struct {
	TenantID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind      string    `gorm:"type:varchar(20);primaryKey"`
	Value     int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DocumentSequenceModel) TableName() string {
	return "document_sequences"
}
