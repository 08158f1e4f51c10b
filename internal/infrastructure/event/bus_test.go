package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/quickmemo/backend/internal/domain/shared"
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
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "PrintJob", uuid.New(), uuid.New()),
	}
}

type testHandler struct {
	eventTypes []string
	err        error
	panics     bool
	mu         sync.Mutex
	handled    []shared.DomainEvent
}

func (h *testHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	h.handled = append(h.handled, event)
	h.mu.Unlock()
	if h.panics {
		panic("boom")
	}
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	types := make([]string, len(h.handled))
	for i, e := range h.handled {
		types[i] = e.EventType()
	}
	return types
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(nil)

	failed := &testHandler{eventTypes: []string{"PrintJobFailed"}}
	bus.Subscribe(failed)
	explicit := &testHandler{}
	bus.Subscribe(explicit, "PrintJobCompleted")
	all := &testHandler{}
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent("PrintJobCreated"),
		newTestEvent("PrintJobCompleted"),
		newTestEvent("PrintJobFailed"),
	))

	assert.Equal(t, []string{"PrintJobFailed"}, failed.types())
	assert.Equal(t, []string{"PrintJobCompleted"}, explicit.types())
	assert.Equal(t, []string{"PrintJobCreated", "PrintJobCompleted", "PrintJobFailed"}, all.types())
}

func TestInMemoryEventBus_HandlerErrorsAreIsolated(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	failing := &testHandler{eventTypes: []string{"PrintJobFailed"}, err: errors.New("sink down")}
	panicking := &testHandler{eventTypes: []string{"PrintJobFailed"}, panics: true}
	healthy := &testHandler{eventTypes: []string{"PrintJobFailed"}}
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("PrintJobFailed")))

	assert.Len(t, healthy.types(), 1)
	assert.Equal(t, 1, logs.FilterMessage("handler failed to process event").Len())
	assert.Equal(t, 1, logs.FilterMessage("handler panicked").Len())
}

func TestInMemoryEventBus_NoHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	assert.NoError(t, bus.Publish(context.Background(), newTestEvent("PrintJobCreated")))
	assert.NoError(t, bus.Publish(context.Background()))
}
