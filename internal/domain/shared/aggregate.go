package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version      int
	domainEvents []DomainEvent
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// TenantAggregateRoot extends BaseAggregateRoot with organization scoping.
// Every tenant-scoped aggregate is also soft-deletable.
type TenantAggregateRoot struct {
	BaseAggregateRoot
	Activatable
	TenantID uuid.UUID
}

// NewTenantAggregateRoot creates a new tenant-scoped, active aggregate root
func NewTenantAggregateRoot(tenantID uuid.UUID) TenantAggregateRoot {
	return TenantAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		Activatable:       NewActivatable(),
		TenantID:          tenantID,
	}
}

// BelongsTo reports whether the aggregate is owned by tenantID.
// uuid.Nil means unscoped access and always matches.
func (t *TenantAggregateRoot) BelongsTo(tenantID uuid.UUID) bool {
	return tenantID == uuid.Nil || t.TenantID == tenantID
}

// Deactivate soft-deletes the aggregate
func (t *TenantAggregateRoot) Deactivate() error {
	if err := t.Activatable.Deactivate(); err != nil {
		return err
	}
	t.Touch()
	t.IncrementVersion()
	return nil
}

// Activate restores a soft-deleted aggregate
func (t *TenantAggregateRoot) Activate() error {
	if err := t.Activatable.Activate(); err != nil {
		return err
	}
	t.Touch()
	t.IncrementVersion()
	return nil
}
