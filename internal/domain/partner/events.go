package partner

import (
	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/shared"
)

// Aggregate types
const (
	AggregateTypeClient   = "Client"
	AggregateTypeSupplier = "Supplier"
)

// Event types
const (
	EventTypeClientCreated       = "ClientCreated"
	EventTypeClientDeactivated   = "ClientDeactivated"
	EventTypeSupplierCreated     = "SupplierCreated"
	EventTypeSupplierDeactivated = "SupplierDeactivated"
)

// PartnerEvent is published on client and supplier lifecycle changes
type PartnerEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewPartnerEvent creates a partner event
func NewPartnerEvent(eventType, aggType string, id, tenantID uuid.UUID, name string) *PartnerEvent {
	return &PartnerEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, aggType, id, tenantID),
		Name:            name,
	}
}
