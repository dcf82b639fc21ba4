package catalog

import (
	"github.com/negocio/backoffice/internal/domain/shared"
)

// AggregateTypeProduct is the aggregate type of product events
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated     = "ProductCreated"
	EventTypeProductUpdated     = "ProductUpdated"
	EventTypeProductDeactivated = "ProductDeactivated"
	EventTypeProductActivated   = "ProductActivated"
)

// ProductEvent is published on product lifecycle changes
type ProductEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewProductEvent creates a product event of the given type
func NewProductEvent(eventType string, product *Product) *ProductEvent {
	return &ProductEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeProduct, product.ID, product.TenantID),
		Code:            product.Code,
		Name:            product.Name,
	}
}
