package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/negocio/backoffice/internal/domain/shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Test", uuid.New(), uuid.New()),
	}
}

type testHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panics     bool
}

func (h *testHandler) Handle(_ context.Context, ev shared.DomainEvent) error {
	h.mu.Lock()
	h.handled = append(h.handled, ev)
	h.mu.Unlock()
	if h.panics {
		panic("boom")
	}
	return h.err
}

func (h *testHandler) EventTypes() []string { return h.eventTypes }

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestPublish_RoutesByType(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	roles := &testHandler{eventTypes: []string{"RoleUpdated", "RoleDeactivated"}}
	users := &testHandler{eventTypes: []string{"UserCreated"}}
	bus.Subscribe(roles)
	bus.Subscribe(users)

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent("RoleUpdated"),
		newTestEvent("RoleDeactivated"),
		newTestEvent("SaleCreated"),
	))

	assert.Equal(t, 2, roles.count())
	assert.Equal(t, 0, users.count())
}

func TestPublish_ExplicitTypesOverrideHandlerTypes(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &testHandler{eventTypes: []string{"A"}}
	bus.Subscribe(h, "B")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("A"), newTestEvent("B")))
	assert.Equal(t, 1, h.count())
}

func TestPublish_HandlerFailuresAreIsolated(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	reg := prometheus.NewRegistry()
	bus := NewInMemoryEventBus(zap.New(core), WithMetrics(reg))

	failing := &testHandler{err: errors.New("cache down")}
	panicking := &testHandler{panics: true}
	healthy := &testHandler{}
	bus.Subscribe(failing, "UserCreated")
	bus.Subscribe(panicking, "UserCreated")
	bus.Subscribe(healthy, "UserCreated")

	err := bus.Publish(context.Background(), newTestEvent("UserCreated"))
	require.NoError(t, err)

	assert.Equal(t, 1, healthy.count())
	assert.Equal(t, 2, logs.FilterMessage("event handler failed").Len())
	assert.Equal(t, float64(2), testutil.ToFloat64(bus.handled.WithLabelValues("UserCreated", "error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(bus.handled.WithLabelValues("UserCreated", "ok")))
}

func TestUnsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := &testHandler{}
	other := &testHandler{}
	bus.Subscribe(h, "X", "Y")
	bus.Subscribe(other, "X")

	bus.Unsubscribe(h)
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("X"), newTestEvent("Y")))

	assert.Equal(t, 0, h.count())
	assert.Equal(t, 1, other.count())
}

func TestStop_DropsEvents(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	h := &testHandler{}
	bus.Subscribe(h, "X")

	require.NoError(t, bus.Stop(context.Background()))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("X")))
	assert.Equal(t, 0, h.count())

	require.NoError(t, bus.Start(context.Background()))
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("X")))
	assert.Equal(t, 1, h.count())
}
