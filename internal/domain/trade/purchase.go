package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PurchaseItem is a line of a purchase
type PurchaseItem struct {
	ID          uuid.UUID
	PurchaseID  uuid.UUID
	ProductID   uuid.UUID
	ProductCode string
	ProductName string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	Subtotal    decimal.Decimal
	CreatedAt   time.Time
}

// Purchase records goods received from a supplier into a warehouse.
// Creating it increases stock; annulling it reverses the increase.
type Purchase struct {
	shared.TenantAggregateRoot
	Number         string
	SupplierID     uuid.UUID
	WarehouseID    uuid.UUID
	UserID         uuid.UUID
	DocumentNumber string // supplier invoice number
	PurchaseDate   time.Time
	Notes          string
	Subtotal       decimal.Decimal
	Tax            decimal.Decimal
	Total          decimal.Decimal
	Items          []PurchaseItem
}

// PurchaseHeader carries the header fields of a new purchase
type PurchaseHeader struct {
	SupplierID     uuid.UUID
	WarehouseID    uuid.UUID
	UserID         uuid.UUID
	DocumentNumber string
	PurchaseDate   time.Time
	Notes          string
}

// NewPurchase creates an empty purchase. Items are added with AddItem and
// totals computed with Finalize.
func NewPurchase(tenantID uuid.UUID, h PurchaseHeader) (*Purchase, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantRequired
	}
	if h.SupplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier is required")
	}
	if h.WarehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse is required")
	}
	if len(strings.TrimSpace(h.DocumentNumber)) > 50 {
		return nil, shared.NewDomainError("INVALID_DOCUMENT_NUMBER", "Document number cannot exceed 50 characters")
	}
	if h.PurchaseDate.IsZero() {
		h.PurchaseDate = time.Now()
	}

	return &Purchase{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SupplierID:          h.SupplierID,
		WarehouseID:         h.WarehouseID,
		UserID:              h.UserID,
		DocumentNumber:      strings.TrimSpace(h.DocumentNumber),
		PurchaseDate:        h.PurchaseDate,
		Notes:               strings.TrimSpace(h.Notes),
		Subtotal:            decimal.Zero,
		Tax:                 decimal.Zero,
		Total:               decimal.Zero,
	}, nil
}

// AddItem appends a line. A product may appear only once.
func (p *Purchase) AddItem(productID uuid.UUID, productCode, productName string, quantity, unitCost decimal.Decimal) error {
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product is required")
	}
	for _, it := range p.Items {
		if it.ProductID == productID {
			return shared.NewDomainError("DUPLICATE_PRODUCT", "Product appears more than once")
		}
	}
	subtotal, err := lineSubtotal(quantity, unitCost)
	if err != nil {
		return err
	}

	p.Items = append(p.Items, PurchaseItem{
		ID:          uuid.New(),
		PurchaseID:  p.ID,
		ProductID:   productID,
		ProductCode: productCode,
		ProductName: productName,
		Quantity:    quantity,
		UnitCost:    unitCost,
		Subtotal:    subtotal,
		CreatedAt:   time.Now(),
	})
	return nil
}

// Finalize numbers the purchase and computes its totals
func (p *Purchase) Finalize(number string, taxRate decimal.Decimal) error {
	if len(p.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "At least one item is required")
	}
	subtotals := make([]decimal.Decimal, len(p.Items))
	for i, it := range p.Items {
		subtotals[i] = it.Subtotal
	}
	totals, err := ComputeTotals(subtotals, decimal.Zero, taxRate)
	if err != nil {
		return err
	}

	p.Number = number
	p.Subtotal = totals.Subtotal
	p.Tax = totals.Tax
	p.Total = totals.Total
	p.AddDomainEvent(NewTradeEvent(EventTypePurchaseCreated, AggregateTypePurchase, p.ID, p.TenantID, p.eventData()))
	return nil
}

// Annul soft-deletes the purchase. The caller reverses the stock.
func (p *Purchase) Annul() error {
	if err := p.Deactivate(); err != nil {
		return shared.NewDomainError("ALREADY_ANNULLED", "Purchase is already annulled")
	}
	p.AddDomainEvent(NewTradeEvent(EventTypePurchaseAnnulled, AggregateTypePurchase, p.ID, p.TenantID, p.eventData()))
	return nil
}

func (p *Purchase) eventData() TradeEventData {
	ids := make([]uuid.UUID, 0, len(p.Items))
	for _, it := range p.Items {
		ids = append(ids, it.ProductID)
	}
	return TradeEventData{Number: p.Number, Total: p.Total, WarehouseID: p.WarehouseID, ProductIDs: ids}
}
