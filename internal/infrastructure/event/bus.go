package event

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/negocio/backoffice/internal/infrastructure/logger"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// InMemoryEventBus dispatches domain events synchronously to the handlers
// subscribed to their type. Handler failures are logged and never reach the
// publisher: the state change that raised the event is already committed.
type InMemoryEventBus struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	logger   *zap.Logger
	running  atomic.Bool
	handled  *prometheus.CounterVec
}

type Option func(*InMemoryEventBus)

// WithMetrics counts handled events by type and outcome.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(b *InMemoryEventBus) {
		b.handled = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "backoffice",
			Name:      "domain_events_handled_total",
			Help:      "Domain events delivered to handlers.",
		}, []string{"event_type", "outcome"})
		reg.MustRegister(b.handled)
	}
}

func NewInMemoryEventBus(l *zap.Logger, opts ...Option) *InMemoryEventBus {
	if l == nil {
		l = zap.NewNop()
	}
	b := &InMemoryEventBus{
		handlers: make(map[string][]shared.EventHandler),
		logger:   l,
	}
	b.running.Store(true)
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if !b.running.Load() {
		b.logger.Warn("event bus stopped, dropping events", zap.Int("count", len(events)))
		return nil
	}
	log := logger.Enrich(ctx, b.logger)
	for _, ev := range events {
		for _, h := range b.handlersFor(ev.EventType()) {
			outcome := "ok"
			if err := dispatch(ctx, h, ev); err != nil {
				outcome = "error"
				log.Error("event handler failed",
					zap.String("event_type", ev.EventType()),
					zap.String("event_id", ev.EventID().String()),
					zap.String("aggregate_id", ev.AggregateID().String()),
					zap.Error(err),
				)
			}
			if b.handled != nil {
				b.handled.WithLabelValues(ev.EventType(), outcome).Inc()
			}
		}
	}
	return nil
}

// Subscribe registers handler for eventTypes, or for handler.EventTypes()
// when none are given.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range eventTypes {
		b.handlers[t] = append(b.handlers[t], handler)
	}
	b.logger.Debug("event handler subscribed", zap.Strings("event_types", eventTypes))
}

func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for t, hs := range b.handlers {
		kept := hs[:0]
		for _, h := range hs {
			if h != handler {
				kept = append(kept, h)
			}
		}
		if len(kept) == 0 {
			delete(b.handlers, t)
		} else {
			b.handlers[t] = kept
		}
	}
}

func (b *InMemoryEventBus) Start(context.Context) error {
	b.running.Store(true)
	b.logger.Info("event bus started")
	return nil
}

func (b *InMemoryEventBus) Stop(context.Context) error {
	b.running.Store(false)
	b.logger.Info("event bus stopped")
	return nil
}

func (b *InMemoryEventBus) handlersFor(eventType string) []shared.EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]shared.EventHandler(nil), b.handlers[eventType]...)
}

func dispatch(ctx context.Context, h shared.EventHandler, ev shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h.Handle(ctx, ev)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
