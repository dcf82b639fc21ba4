package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is a sellable item of an organization's catalog.
// Stock is not held here; it lives per warehouse in inventory.WarehouseProduct.
type Product struct {
	shared.TenantAggregateRoot
	Code          string
	Name          string
	Description   string
	Category      string
	Unit          string // e.g. "UND", "KG", "CAJA"
	Barcode       string
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	MinStock      decimal.Decimal // low stock alert threshold
}

// ProductDetails carries the editable descriptive fields of a product
type ProductDetails struct {
	Name        string
	Description string
	Category    string
	Unit        string
	Barcode     string
}

// StockAllocation is a quantity of a product placed in a warehouse
type StockAllocation struct {
	WarehouseID uuid.UUID
	Quantity    decimal.Decimal
}

// NewProduct creates a new active product
func NewProduct(tenantID uuid.UUID, code string, details ProductDetails) (*Product, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantRequired
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if err := validateProductCode(code); err != nil {
		return nil, err
	}

	product := &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		PurchasePrice:       decimal.Zero,
		SalePrice:           decimal.Zero,
		MinStock:            decimal.Zero,
	}
	if err := product.applyDetails(details); err != nil {
		return nil, err
	}

	product.AddDomainEvent(NewProductEvent(EventTypeProductCreated, product))
	return product, nil
}

// Update replaces the descriptive fields
func (p *Product) Update(details ProductDetails) error {
	if err := p.applyDetails(details); err != nil {
		return err
	}
	p.Touch()
	p.IncrementVersion()
	p.AddDomainEvent(NewProductEvent(EventTypeProductUpdated, p))
	return nil
}

// UpdateCode changes the product code
func (p *Product) UpdateCode(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if err := validateProductCode(code); err != nil {
		return err
	}
	p.Code = code
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetPrices sets the purchase and sale prices
func (p *Product) SetPrices(purchasePrice, salePrice decimal.Decimal) error {
	if purchasePrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Purchase price cannot be negative")
	}
	if salePrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Sale price cannot be negative")
	}

	p.PurchasePrice = purchasePrice
	p.SalePrice = salePrice
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetMinStock sets the minimum stock level for alerts
func (p *Product) SetMinStock(minStock decimal.Decimal) error {
	if minStock.IsNegative() {
		return shared.NewDomainError("INVALID_MIN_STOCK", "Minimum stock cannot be negative")
	}

	p.MinStock = minStock
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Deactivate soft-deletes the product
func (p *Product) Deactivate() error {
	if err := p.TenantAggregateRoot.Deactivate(); err != nil {
		return err
	}
	p.AddDomainEvent(NewProductEvent(EventTypeProductDeactivated, p))
	return nil
}

// Activate restores the product
func (p *Product) Activate() error {
	if err := p.TenantAggregateRoot.Activate(); err != nil {
		return err
	}
	p.AddDomainEvent(NewProductEvent(EventTypeProductActivated, p))
	return nil
}

// GetProfitMargin returns the profit margin percentage.
// Returns 0 if purchase price is zero.
func (p *Product) GetProfitMargin() decimal.Decimal {
	if p.PurchasePrice.IsZero() {
		return decimal.Zero
	}
	profit := p.SalePrice.Sub(p.PurchasePrice)
	return profit.Div(p.PurchasePrice).Mul(decimal.NewFromInt(100)).Round(2)
}

func (p *Product) applyDetails(d ProductDetails) error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	unit := strings.ToUpper(strings.TrimSpace(d.Unit))
	if unit == "" {
		unit = DefaultUnit
	}
	if len(unit) > 20 {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot exceed 20 characters")
	}
	barcode := strings.TrimSpace(d.Barcode)
	if len(barcode) > 50 {
		return shared.NewDomainError("INVALID_BARCODE", "Barcode cannot exceed 50 characters")
	}
	category := strings.TrimSpace(d.Category)
	if len(category) > 100 {
		return shared.NewDomainError("INVALID_CATEGORY", "Category cannot exceed 100 characters")
	}

	p.Name = name
	p.Description = strings.TrimSpace(d.Description)
	p.Category = category
	p.Unit = unit
	p.Barcode = barcode
	return nil
}

// DefaultUnit is used when a product is saved without a unit
const DefaultUnit = "UND"

func validateProductCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Product code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

// ValidateAllocations checks a list of stock allocations.
// Quantities must be non-negative and each warehouse may appear once.
func ValidateAllocations(allocations []StockAllocation) error {
	seen := make(map[uuid.UUID]bool, len(allocations))
	for _, a := range allocations {
		if a.WarehouseID == uuid.Nil {
			return shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse is required for every stock allocation")
		}
		if a.Quantity.IsNegative() {
			return shared.NewDomainError("INVALID_QUANTITY", "Stock quantity cannot be negative")
		}
		if seen[a.WarehouseID] {
			return shared.NewDomainError("DUPLICATE_WAREHOUSE", "A warehouse can only be allocated once")
		}
		seen[a.WarehouseID] = true
	}
	return nil
}
