package event

import (
	"context"

	"github.com/negocio/backoffice/internal/domain/shared"
)

// Source is anything collecting domain events until it is persisted,
// typically an aggregate root.
type Source interface {
	GetDomainEvents() []shared.DomainEvent
	ClearDomainEvents()
}

// Flush publishes the pending events of every source and clears them.
// It is called after the sources were saved; a nil publisher only clears.
// Handler failures are logged by the bus and never reach the caller.
func Flush(ctx context.Context, publisher shared.EventPublisher, sources ...Source) {
	var events []shared.DomainEvent
	for _, src := range sources {
		if src == nil {
			continue
		}
		events = append(events, src.GetDomainEvents()...)
		src.ClearDomainEvents()
	}
	if publisher == nil || len(events) == 0 {
		return
	}
	_ = publisher.Publish(ctx, events...)
}
