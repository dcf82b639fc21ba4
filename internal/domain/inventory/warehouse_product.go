package inventory

import (
	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// WarehouseProduct is the stock of one product in one warehouse.
// There is at most one row per (warehouse, product) pair.
type WarehouseProduct struct {
	shared.BaseEntity
	shared.Activatable
	TenantID    uuid.UUID
	WarehouseID uuid.UUID
	ProductID   uuid.UUID
	Quantity    decimal.Decimal
}

// NewWarehouseProduct creates an empty stock row
func NewWarehouseProduct(tenantID, warehouseID, productID uuid.UUID) *WarehouseProduct {
	return &WarehouseProduct{
		BaseEntity:  shared.NewBaseEntity(),
		Activatable: shared.NewActivatable(),
		TenantID:    tenantID,
		WarehouseID: warehouseID,
		ProductID:   productID,
		Quantity:    decimal.Zero,
	}
}

// SetQuantity sets an absolute quantity. A soft-deleted row is restored.
func (wp *WarehouseProduct) SetQuantity(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock quantity cannot be negative")
	}
	wp.Quantity = quantity
	wp.IsActive = true
	wp.Touch()
	return nil
}

// Adjust applies a signed delta. The result may not go below zero.
func (wp *WarehouseProduct) Adjust(delta decimal.Decimal) error {
	next := wp.Quantity.Add(delta)
	if next.IsNegative() {
		return shared.ErrInsufficientStock
	}
	wp.Quantity = next
	wp.IsActive = true
	wp.Touch()
	return nil
}

// Increase adds a positive quantity
func (wp *WarehouseProduct) Increase(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return wp.Adjust(quantity)
}

// Decrease removes a positive quantity, failing when stock is short
func (wp *WarehouseProduct) Decrease(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return wp.Adjust(quantity.Neg())
}

// CanFulfill reports whether quantity can be taken from this row
func (wp *WarehouseProduct) CanFulfill(quantity decimal.Decimal) bool {
	return wp.IsActive && wp.Quantity.GreaterThanOrEqual(quantity)
}

// StockLine is a stock row joined with its product and warehouse for display
type StockLine struct {
	WarehouseProduct
	ProductCode   string
	ProductName   string
	Unit          string
	MinStock      decimal.Decimal
	WarehouseCode string
	WarehouseName string
}

// IsLow reports whether the quantity is below the product's minimum stock
func (s StockLine) IsLow() bool {
	return s.Quantity.LessThan(s.MinStock)
}

// TotalQuantity sums the quantities of the given lines
func TotalQuantity(lines []StockLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Quantity)
	}
	return total
}
