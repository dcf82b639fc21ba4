package trade

import (
	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate types
const (
	AggregateTypePurchase = "Purchase"
	AggregateTypeSale     = "Sale"
)

// Event types
const (
	EventTypePurchaseCreated  = "PurchaseCreated"
	EventTypePurchaseAnnulled = "PurchaseAnnulled"
	EventTypeSaleCreated      = "SaleCreated"
	EventTypeSaleAnnulled     = "SaleAnnulled"
)

// TradeEvent is published when a purchase or sale is registered or annulled.
// ProductIDs lists the products whose stock moved in WarehouseID.
type TradeEvent struct {
	shared.BaseDomainEvent
	Number      string          `json:"number"`
	Total       decimal.Decimal `json:"total"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	ProductIDs  []uuid.UUID     `json:"product_ids"`
}

// TradeEventData is the document summary carried by a TradeEvent
type TradeEventData struct {
	Number      string
	Total       decimal.Decimal
	WarehouseID uuid.UUID
	ProductIDs  []uuid.UUID
}

// NewTradeEvent creates a trade event
func NewTradeEvent(eventType, aggType string, id, tenantID uuid.UUID, data TradeEventData) *TradeEvent {
	return &TradeEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, aggType, id, tenantID),
		Number:          data.Number,
		Total:           data.Total,
		WarehouseID:     data.WarehouseID,
		ProductIDs:      data.ProductIDs,
	}
}
