package event

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

type recordingPublisher struct {
	published []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.published = append(p.published, events...)
	return nil
}

func newAggregate(eventTypes ...string) *shared.BaseAggregateRoot {
	root := shared.NewBaseAggregateRoot()
	for _, t := range eventTypes {
		ev := shared.NewBaseDomainEvent(t, "Test", root.ID, uuid.New())
		root.AddDomainEvent(&ev)
	}
	return &root
}

func TestFlush_PublishesAndClears(t *testing.T) {
	pub := &recordingPublisher{}
	a := newAggregate("A1", "A2")
	b := newAggregate("B1")

	Flush(context.Background(), pub, a, b)

	assert.Len(t, pub.published, 3)
	assert.Equal(t, "A1", pub.published[0].EventType())
	assert.Equal(t, "B1", pub.published[2].EventType())
	assert.Empty(t, a.GetDomainEvents())
	assert.Empty(t, b.GetDomainEvents())
}

func TestFlush_NilPublisherStillClears(t *testing.T) {
	a := newAggregate("A1")
	Flush(context.Background(), nil, a)
	assert.Empty(t, a.GetDomainEvents())
}

func TestFlush_NothingToPublish(t *testing.T) {
	pub := &recordingPublisher{}
	Flush(context.Background(), pub, newAggregate(), nil)
	assert.Empty(t, pub.published)
}
