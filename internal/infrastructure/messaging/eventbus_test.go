package messaging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/study-hub/study-tracker-hub/internal/domain/shared"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{})

	var received []shared.Event
	assert.NoError(t, bus.Subscribe(shared.EventSessionLogged, func(event shared.Event) error {
		received = append(received, event)
		return nil
	}))

	event := shared.NewSessionLoggedEvent("acc", 1, "2026-01-15", 0, 30, 0, 0, "manual")
	assert.NoError(t, bus.Publish(event))

	assert.Len(t, received, 1)
	assert.Equal(t, shared.EventSessionLogged, received[0].EventType())
	assert.Equal(t, "acc", received[0].AggregateID())
}

func TestPublishSkipsOtherEventTypes(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{})

	var calls int
	assert.NoError(t, bus.Subscribe(shared.EventTopicAdded, func(shared.Event) error {
		calls++
		return nil
	}))

	assert.NoError(t, bus.Publish(shared.NewSessionDeletedEvent("acc", 1)))

	assert.Equal(t, 0, calls)
}

func TestSubscribeAllSeesEverything(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{})

	var types []shared.EventType
	assert.NoError(t, bus.SubscribeAll(func(event shared.Event) error {
		types = append(types, event.EventType())
		return nil
	}))

	assert.NoError(t, bus.Publish(shared.NewSessionDeletedEvent("acc", 1)))
	assert.NoError(t, bus.Publish(shared.NewGoalsUpdatedEvent("acc", 60, 300)))

	assert.Equal(t, []shared.EventType{shared.EventSessionDeleted, shared.EventGoalsUpdated}, types)
}

func TestSubscribeNilHandler(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{})

	assert.Error(t, bus.Subscribe(shared.EventSessionLogged, nil))
	assert.Error(t, bus.SubscribeAll(nil))
}

func TestClosedBusRejectsOperations(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{})
	assert.NoError(t, bus.Close())

	err := bus.Publish(shared.NewSessionDeletedEvent("acc", 1))
	assert.ErrorIs(t, err, ErrEventBusClosed)

	err = bus.Subscribe(shared.EventSessionLogged, func(shared.Event) error { return nil })
	assert.ErrorIs(t, err, ErrEventBusClosed)
}

func TestHandlerErrorDoesNotStopDelivery(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{})

	var delivered int
	assert.NoError(t, bus.Subscribe(shared.EventSessionLogged, func(shared.Event) error {
		return errors.New("handler failed")
	}))
	assert.NoError(t, bus.Subscribe(shared.EventSessionLogged, func(shared.Event) error {
		delivered++
		return nil
	}))

	event := shared.NewSessionLoggedEvent("acc", 1, "2026-01-15", 0, 30, 0, 0, "manual")
	assert.NoError(t, bus.Publish(event))

	assert.Equal(t, 1, delivered)
}

func TestMetricsCountDeliveries(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{})

	assert.NoError(t, bus.Subscribe(shared.EventSessionLogged, func(shared.Event) error {
		return nil
	}))
	assert.NoError(t, bus.Subscribe(shared.EventSessionLogged, func(shared.Event) error {
		return errors.New("boom")
	}))

	event := shared.NewSessionLoggedEvent("acc", 1, "2026-01-15", 0, 30, 0, 0, "manual")
	assert.NoError(t, bus.Publish(event))
	assert.NoError(t, bus.Publish(event))

	metrics := bus.Metrics()
	assert.Equal(t, int64(2), metrics.Published)
	assert.Equal(t, int64(2), metrics.Delivered)
	assert.Equal(t, int64(2), metrics.Failed)
}
