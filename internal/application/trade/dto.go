package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/negocio/backoffice/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Purchase DTOs
// =============================================================================

// PurchaseItemInput represents one line of a new purchase
type PurchaseItemInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseRequest represents a request to register a purchase.
// UserID is set from the JWT context, not from the request body.
type CreatePurchaseRequest struct {
	SupplierID     uuid.UUID           `json:"supplier_id" binding:"required"`
	WarehouseID    uuid.UUID           `json:"warehouse_id" binding:"required"`
	DocumentNumber string              `json:"document_number" binding:"max=50"`
	PurchaseDate   *time.Time          `json:"purchase_date"`
	Notes          string              `json:"notes" binding:"max=1000"`
	Items          []PurchaseItemInput `json:"items" binding:"required,min=1,dive"`
	UserID         uuid.UUID           `json:"-"`
}

// PurchaseListFilter represents filter options for the purchase list
// include_annulled is accepted as an alias of include_inactive.
type PurchaseListFilter struct {
	Search          string     `form:"search"`
	SupplierID      *uuid.UUID `form:"-"`
	WarehouseID     *uuid.UUID `form:"-"`
	DateFrom        *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo          *time.Time `form:"date_to" time_format:"2006-01-02"`
	IncludeInactive bool       `form:"include_inactive"`
	IncludeAnnulled bool       `form:"include_annulled"`
	Page            int        `form:"page" binding:"omitempty,min=1"`
	PageSize        int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy         string     `form:"order_by"`
	OrderDir        string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToFilter converts the list filter to a repository filter
func (f PurchaseListFilter) ToFilter() shared.Filter {
	filter := shared.Filter{
		Page:            f.Page,
		PageSize:        f.PageSize,
		OrderBy:         f.OrderBy,
		OrderDir:        f.OrderDir,
		Search:          f.Search,
		IncludeInactive: f.IncludeInactive || f.IncludeAnnulled,
		Filters:         make(map[string]interface{}),
	}
	if f.SupplierID != nil {
		filter.Filters[trade.FilterSupplierID] = *f.SupplierID
	}
	if f.WarehouseID != nil {
		filter.Filters[trade.FilterWarehouseID] = *f.WarehouseID
	}
	setDateRange(filter.Filters, f.DateFrom, f.DateTo)
	return filter
}

// PurchaseItemResponse represents a purchase line in API responses
type PurchaseItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// PurchaseResponse represents a purchase in API responses.
// Items is empty in list responses.
type PurchaseResponse struct {
	ID             uuid.UUID              `json:"id"`
	TenantID       uuid.UUID              `json:"tenant_id"`
	Number         string                 `json:"number"`
	SupplierID     uuid.UUID              `json:"supplier_id"`
	WarehouseID    uuid.UUID              `json:"warehouse_id"`
	UserID         uuid.UUID              `json:"user_id"`
	DocumentNumber string                 `json:"document_number"`
	PurchaseDate   time.Time              `json:"purchase_date"`
	Notes          string                 `json:"notes"`
	Subtotal       decimal.Decimal        `json:"subtotal"`
	Tax            decimal.Decimal        `json:"tax"`
	Total          decimal.Decimal        `json:"total"`
	Currency       string                 `json:"currency"`
	IsActive       bool                   `json:"is_active"`
	Items          []PurchaseItemResponse `json:"items,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// ToPurchaseResponse converts a domain Purchase to PurchaseResponse
func ToPurchaseResponse(p *trade.Purchase) PurchaseResponse {
	resp := PurchaseResponse{
		ID:             p.ID,
		TenantID:       p.TenantID,
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
		IsActive:       p.IsActive,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	for _, it := range p.Items {
		resp.Items = append(resp.Items, PurchaseItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductCode: it.ProductCode,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitCost:    it.UnitCost,
			Subtotal:    it.Subtotal,
		})
	}
	return resp
}

// =============================================================================
// Sale DTOs
// =============================================================================

// SaleItemInput represents one line of a new sale. A nil UnitPrice uses
// the product's sale price.
type SaleItemInput struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest represents a request to register a sale.
// A nil ClientID records a walk-in sale.
type CreateSaleRequest struct {
	ClientID      *uuid.UUID       `json:"client_id"`
	WarehouseID   uuid.UUID        `json:"warehouse_id" binding:"required"`
	SaleDate      *time.Time       `json:"sale_date"`
	PaymentMethod string           `json:"payment_method" binding:"omitempty,oneof=CASH CARD TRANSFER OTHER"`
	Discount      *decimal.Decimal `json:"discount"`
	Notes         string           `json:"notes" binding:"max=1000"`
	Items         []SaleItemInput  `json:"items" binding:"required,min=1,dive"`
	UserID        uuid.UUID        `json:"-"`
}

// SaleListFilter represents filter options for the sale list
// include_annulled is accepted as an alias of include_inactive.
type SaleListFilter struct {
	Search          string     `form:"search"`
	ClientID        *uuid.UUID `form:"-"`
	WarehouseID     *uuid.UUID `form:"-"`
	PaymentMethod   string     `form:"payment_method" binding:"omitempty,oneof=CASH CARD TRANSFER OTHER"`
	DateFrom        *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo          *time.Time `form:"date_to" time_format:"2006-01-02"`
	IncludeInactive bool       `form:"include_inactive"`
	IncludeAnnulled bool       `form:"include_annulled"`
	Page            int        `form:"page" binding:"omitempty,min=1"`
	PageSize        int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy         string     `form:"order_by"`
	OrderDir        string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToFilter converts the list filter to a repository filter
func (f SaleListFilter) ToFilter() shared.Filter {
	filter := shared.Filter{
		Page:            f.Page,
		PageSize:        f.PageSize,
		OrderBy:         f.OrderBy,
		OrderDir:        f.OrderDir,
		Search:          f.Search,
		IncludeInactive: f.IncludeInactive || f.IncludeAnnulled,
		Filters:         make(map[string]interface{}),
	}
	if f.ClientID != nil {
		filter.Filters[trade.FilterClientID] = *f.ClientID
	}
	if f.WarehouseID != nil {
		filter.Filters[trade.FilterWarehouseID] = *f.WarehouseID
	}
	if f.PaymentMethod != "" {
		filter.Filters[trade.FilterPaymentMethod] = f.PaymentMethod
	}
	setDateRange(filter.Filters, f.DateFrom, f.DateTo)
	return filter
}

// SaleItemResponse represents a sale line in API responses
type SaleItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID            uuid.UUID          `json:"id"`
	TenantID      uuid.UUID          `json:"tenant_id"`
	Number        string             `json:"number"`
	ClientID      *uuid.UUID         `json:"client_id"`
	WarehouseID   uuid.UUID          `json:"warehouse_id"`
	UserID        uuid.UUID          `json:"user_id"`
	SaleDate      time.Time          `json:"sale_date"`
	PaymentMethod string             `json:"payment_method"`
	Notes         string             `json:"notes"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Discount      decimal.Decimal    `json:"discount"`
	Tax           decimal.Decimal    `json:"tax"`
	Total         decimal.Decimal    `json:"total"`
	Currency      string             `json:"currency"`
	IsActive      bool               `json:"is_active"`
	Items         []SaleItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// ToSaleResponse converts a domain Sale to SaleResponse
func ToSaleResponse(s *trade.Sale) SaleResponse {
	resp := SaleResponse{
		ID:            s.ID,
		TenantID:      s.TenantID,
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
		IsActive:      s.IsActive,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	for _, it := range s.Items {
		resp.Items = append(resp.Items, SaleItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductCode: it.ProductCode,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	return resp
}

// setDateRange stores an inclusive day range. DateTo covers the whole day.
func setDateRange(filters map[string]interface{}, from, to *time.Time) {
	if from != nil && !from.IsZero() {
		filters[trade.FilterDateFrom] = *from
	}
	if to != nil && !to.IsZero() {
		filters[trade.FilterDateTo] = to.Add(24*time.Hour - time.Nanosecond)
	}
}
