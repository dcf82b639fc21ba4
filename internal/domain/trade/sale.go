package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how a sale was paid
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodOther    PaymentMethod = "OTHER"
)

// IsValid checks if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodOther:
		return true
	}
	return false
}

// SaleItem is a line of a sale
type SaleItem struct {
	ID          uuid.UUID
	SaleID      uuid.UUID
	ProductID   uuid.UUID
	ProductCode string
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
	CreatedAt   time.Time
}

// Sale records goods sold from a warehouse.
// A nil ClientID is a walk-in customer.
type Sale struct {
	shared.TenantAggregateRoot
	Number        string
	ClientID      *uuid.UUID
	WarehouseID   uuid.UUID
	UserID        uuid.UUID
	SaleDate      time.Time
	PaymentMethod PaymentMethod
	Notes         string
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
	Items         []SaleItem
}

// SaleHeader carries the header fields of a new sale
type SaleHeader struct {
	ClientID      *uuid.UUID
	WarehouseID   uuid.UUID
	UserID        uuid.UUID
	SaleDate      time.Time
	PaymentMethod PaymentMethod
	Discount      decimal.Decimal
	Notes         string
}

// NewSale creates an empty sale
func NewSale(tenantID uuid.UUID, h SaleHeader) (*Sale, error) {
	if tenantID == uuid.Nil {
		return nil, shared.ErrTenantRequired
	}
	if h.WarehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse is required")
	}
	if h.PaymentMethod == "" {
		h.PaymentMethod = PaymentMethodCash
	}
	h.PaymentMethod = PaymentMethod(strings.ToUpper(string(h.PaymentMethod)))
	if !h.PaymentMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}
	if h.Discount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if h.ClientID != nil && *h.ClientID == uuid.Nil {
		h.ClientID = nil
	}
	if h.SaleDate.IsZero() {
		h.SaleDate = time.Now()
	}

	return &Sale{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ClientID:            h.ClientID,
		WarehouseID:         h.WarehouseID,
		UserID:              h.UserID,
		SaleDate:            h.SaleDate,
		PaymentMethod:       h.PaymentMethod,
		Notes:               strings.TrimSpace(h.Notes),
		Subtotal:            decimal.Zero,
		Discount:            h.Discount,
		Tax:                 decimal.Zero,
		Total:               decimal.Zero,
	}, nil
}

// AddItem appends a line. A product may appear only once.
func (s *Sale) AddItem(productID uuid.UUID, productCode, productName string, quantity, unitPrice decimal.Decimal) error {
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product is required")
	}
	for _, it := range s.Items {
		if it.ProductID == productID {
			return shared.NewDomainError("DUPLICATE_PRODUCT", "Product appears more than once")
		}
	}
	subtotal, err := lineSubtotal(quantity, unitPrice)
	if err != nil {
		return err
	}

	s.Items = append(s.Items, SaleItem{
		ID:          uuid.New(),
		SaleID:      s.ID,
		ProductID:   productID,
		ProductCode: productCode,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Subtotal:    subtotal,
		CreatedAt:   time.Now(),
	})
	return nil
}

// Finalize numbers the sale and computes its totals
func (s *Sale) Finalize(number string, taxRate decimal.Decimal) error {
	if len(s.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "At least one item is required")
	}
	subtotals := make([]decimal.Decimal, len(s.Items))
	for i, it := range s.Items {
		subtotals[i] = it.Subtotal
	}
	totals, err := ComputeTotals(subtotals, s.Discount, taxRate)
	if err != nil {
		return err
	}

	s.Number = number
	s.Subtotal = totals.Subtotal
	s.Discount = totals.Discount
	s.Tax = totals.Tax
	s.Total = totals.Total
	s.AddDomainEvent(NewTradeEvent(EventTypeSaleCreated, AggregateTypeSale, s.ID, s.TenantID, s.eventData()))
	return nil
}

// IsWalkIn reports whether the sale has no registered client
func (s *Sale) IsWalkIn() bool {
	return s.ClientID == nil
}

// Annul soft-deletes the sale. The caller restores the stock.
func (s *Sale) Annul() error {
	if err := s.Deactivate(); err != nil {
		return shared.NewDomainError("ALREADY_ANNULLED", "Sale is already annulled")
	}
	s.AddDomainEvent(NewTradeEvent(EventTypeSaleAnnulled, AggregateTypeSale, s.ID, s.TenantID, s.eventData()))
	return nil
}

func (s *Sale) eventData() TradeEventData {
	ids := make([]uuid.UUID, 0, len(s.Items))
	for _, it := range s.Items {
		ids = append(ids, it.ProductID)
	}
	return TradeEventData{Number: s.Number, Total: s.Total, WarehouseID: s.WarehouseID, ProductIDs: ids}
}
