package catalog

import (
	"time"

	"github.com/google/uuid"
	appinventory "github.com/negocio/backoffice/internal/application/inventory"
	"github.com/negocio/backoffice/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// StockAllocationRequest places a quantity of the product in a warehouse
type StockAllocationRequest struct {
	WarehouseID uuid.UUID       `json:"warehouse_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Code          string                   `json:"code" binding:"required,min=1,max=50"`
	Name          string                   `json:"name" binding:"required,min=1,max=200"`
	Description   string                   `json:"description" binding:"max=2000"`
	Category      string                   `json:"category" binding:"max=100"`
	Unit          string                   `json:"unit" binding:"max=20"`
	Barcode       string                   `json:"barcode" binding:"max=50"`
	PurchasePrice *decimal.Decimal         `json:"purchase_price"`
	SalePrice     *decimal.Decimal         `json:"sale_price"`
	MinStock      *decimal.Decimal         `json:"min_stock"`
	Stock         []StockAllocationRequest `json:"stock" binding:"omitempty,dive"`
}

// UpdateProductRequest represents a partial product update.
// Stock, when present, replaces the quantities of the listed warehouses.
type UpdateProductRequest struct {
	Code          *string                  `json:"code" binding:"omitempty,min=1,max=50"`
	Name          *string                  `json:"name" binding:"omitempty,min=1,max=200"`
	Description   *string                  `json:"description" binding:"omitempty,max=2000"`
	Category      *string                  `json:"category" binding:"omitempty,max=100"`
	Unit          *string                  `json:"unit" binding:"omitempty,max=20"`
	Barcode       *string                  `json:"barcode" binding:"omitempty,max=50"`
	PurchasePrice *decimal.Decimal         `json:"purchase_price"`
	SalePrice     *decimal.Decimal         `json:"sale_price"`
	MinStock      *decimal.Decimal         `json:"min_stock"`
	Stock         []StockAllocationRequest `json:"stock" binding:"omitempty,dive"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit"`
	Barcode       string          `json:"barcode"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	MinStock      decimal.Decimal `json:"min_stock"`
	ProfitMargin  decimal.Decimal `json:"profit_margin"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// ProductStockResponse is the stock of a product across warehouses
type ProductStockResponse struct {
	ProductID  uuid.UUID                        `json:"product_id"`
	Code       string                           `json:"code"`
	Name       string                           `json:"name"`
	Total      decimal.Decimal                  `json:"total"`
	Warehouses []appinventory.StockLineResponse `json:"warehouses"`
}

// ToProductResponse converts a domain Product
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		TenantID:      p.TenantID,
		Code:          p.Code,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		Unit:          p.Unit,
		Barcode:       p.Barcode,
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		MinStock:      p.MinStock,
		ProfitMargin:  p.GetProfitMargin(),
		IsActive:      p.IsActive,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Version:       p.Version,
	}
}

func toAllocations(reqs []StockAllocationRequest) []catalog.StockAllocation {
	if len(reqs) == 0 {
		return nil
	}
	out := make([]catalog.StockAllocation, len(reqs))
	for i, r := range reqs {
		out[i] = catalog.StockAllocation{WarehouseID: r.WarehouseID, Quantity: r.Quantity}
	}
	return out
}
