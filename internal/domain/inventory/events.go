package inventory

import "github.com/negocio/backoffice/internal/domain/shared"

// AggregateTypeWarehouse is the aggregate type of warehouse events
const AggregateTypeWarehouse = "Warehouse"

// Event type constants
const (
	EventTypeWarehouseCreated     = "WarehouseCreated"
	EventTypeWarehouseUpdated     = "WarehouseUpdated"
	EventTypeWarehouseDeactivated = "WarehouseDeactivated"
)

// WarehouseEvent is published on warehouse lifecycle changes
type WarehouseEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewWarehouseEvent creates a warehouse event
func NewWarehouseEvent(eventType string, w *Warehouse) *WarehouseEvent {
	return &WarehouseEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeWarehouse, w.ID, w.TenantID),
		Code:            w.Code,
		Name:            w.Name,
	}
}
