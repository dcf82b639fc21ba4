package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// CreateWarehouseRequest represents a request to create a warehouse
type CreateWarehouseRequest struct {
	Code    string `json:"code" binding:"required,min=1,max=50"`
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Address string `json:"address" binding:"max=500"`
	Phone   string `json:"phone" binding:"max=50"`
}

// UpdateWarehouseRequest represents a partial warehouse update
type UpdateWarehouseRequest struct {
	Code    *string `json:"code" binding:"omitempty,min=1,max=50"`
	Name    *string `json:"name" binding:"omitempty,min=1,max=200"`
	Address *string `json:"address" binding:"omitempty,max=500"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
}

// WarehouseResponse represents a warehouse in API responses
type WarehouseResponse struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// ToWarehouseResponse converts a domain Warehouse
func ToWarehouseResponse(w *inventory.Warehouse) WarehouseResponse {
	return WarehouseResponse{
		ID:        w.ID,
		TenantID:  w.TenantID,
		Code:      w.Code,
		Name:      w.Name,
		Address:   w.Address,
		Phone:     w.Phone,
		IsActive:  w.IsActive,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
		Version:   w.Version,
	}
}

// SetStockRequest sets the absolute quantity of a product in a warehouse
type SetStockRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// AdjustStockRequest applies a signed quantity change
type AdjustStockRequest struct {
	Delta  decimal.Decimal `json:"delta"`
	Reason string          `json:"reason" binding:"max=200"`
}

// StockResponse is a stock row of a product in a warehouse
type StockResponse struct {
	ID          uuid.UUID       `json:"id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	IsActive    bool            `json:"is_active"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToStockResponse converts a domain WarehouseProduct
func ToStockResponse(wp *inventory.WarehouseProduct) StockResponse {
	return StockResponse{
		ID:          wp.ID,
		WarehouseID: wp.WarehouseID,
		ProductID:   wp.ProductID,
		Quantity:    wp.Quantity,
		IsActive:    wp.IsActive,
		UpdatedAt:   wp.UpdatedAt,
	}
}

// StockLineResponse is a stock row with product and warehouse details
type StockLineResponse struct {
	StockResponse
	ProductCode   string          `json:"product_code"`
	ProductName   string          `json:"product_name"`
	Unit          string          `json:"unit"`
	MinStock      decimal.Decimal `json:"min_stock"`
	WarehouseCode string          `json:"warehouse_code"`
	WarehouseName string          `json:"warehouse_name"`
	IsLow         bool            `json:"is_low"`
}

// ToStockLineResponse converts a domain StockLine
func ToStockLineResponse(l inventory.StockLine) StockLineResponse {
	return StockLineResponse{
		StockResponse: ToStockResponse(&l.WarehouseProduct),
		ProductCode:   l.ProductCode,
		ProductName:   l.ProductName,
		Unit:          l.Unit,
		MinStock:      l.MinStock,
		WarehouseCode: l.WarehouseCode,
		WarehouseName: l.WarehouseName,
		IsLow:         l.IsLow(),
	}
}

// ToStockLineResponses converts a slice of domain StockLines
func ToStockLineResponses(lines []inventory.StockLine) []StockLineResponse {
	out := make([]StockLineResponse, len(lines))
	for i := range lines {
		out[i] = ToStockLineResponse(lines[i])
	}
	return out
}
