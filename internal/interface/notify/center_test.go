package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/study-hub/study-tracker-hub/internal/domain/shared"
	"github.com/study-hub/study-tracker-hub/internal/infrastructure/messaging"
)

func newTestCenter(cfg Config) (*Center, *time.Time) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	clock := &now
	center := NewCenter(cfg, nil).WithClock(func() time.Time { return *clock })
	return center, clock
}

func TestCenterCollectsAchievementUnlocks(t *testing.T) {
	center, _ := newTestCenter(Config{})
	bus := messaging.NewInMemoryEventBus(messaging.InMemoryEventBusConfig{})
	assert.NoError(t, center.Register(bus))

	event := shared.NewAchievementUnlockedEvent("acc", "first-session", "Primeira Sessão", "Registre sua primeira sessão de estudo", "🎯")
	assert.NoError(t, bus.Publish(event))

	entries := center.Recent()
	assert.Len(t, entries, 1)
	assert.Equal(t, KindAchievement, entries[0].Kind)
	assert.Equal(t, "Conquista desbloqueada: Primeira Sessão", entries[0].Title)
	assert.Equal(t, "🎯", entries[0].Icon)
	assert.NotEmpty(t, entries[0].ID)
}

func TestCenterCollectsPomodoroCompletion(t *testing.T) {
	center, _ := newTestCenter(Config{})
	bus := messaging.NewInMemoryEventBus(messaging.InMemoryEventBusConfig{})
	assert.NoError(t, center.Register(bus))

	assert.NoError(t, bus.Publish(shared.NewPomodoroCompletedEvent("acc", 7, 3, 26)))

	entries := center.Recent()
	assert.Len(t, entries, 1)
	assert.Equal(t, KindPomodoro, entries[0].Kind)
	assert.Equal(t, "Sessão de 26 min registrada", entries[0].Message)
}

func TestCenterCollectsPushFailures(t *testing.T) {
	center, _ := newTestCenter(Config{})
	bus := messaging.NewInMemoryEventBus(messaging.InMemoryEventBusConfig{})
	assert.NoError(t, center.Register(bus))

	assert.NoError(t, bus.Publish(shared.NewSnapshotPushFailedEvent("acc", "connection refused")))

	entries := center.Recent()
	assert.Len(t, entries, 1)
	assert.Equal(t, KindWarning, entries[0].Kind)
	assert.Equal(t, "connection refused", entries[0].Message)
}

// jsonDecodedEvent mimics an event re-delivered through the Redis
// mirror, where the JSON round trip turns numbers into float64.
type jsonDecodedEvent struct {
	shared.BaseEvent
	payload map[string]interface{}
}

func (e jsonDecodedEvent) Payload() map[string]interface{} { return e.payload }

func TestCenterHandlesMirroredCompletionEvents(t *testing.T) {
	center, _ := newTestCenter(Config{})
	bus := messaging.NewInMemoryEventBus(messaging.InMemoryEventBusConfig{})
	assert.NoError(t, center.Register(bus))

	event := jsonDecodedEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventPomodoroCompleted, "acc"),
		payload:   map[string]interface{}{"elapsed_minutes": float64(26)},
	}
	assert.NoError(t, bus.Publish(event))

	entries := center.Recent()
	assert.Len(t, entries, 1)
	assert.Equal(t, "Sessão de 26 min registrada", entries[0].Message)
}

func TestCenterIgnoresOtherEvents(t *testing.T) {
	center, _ := newTestCenter(Config{})
	bus := messaging.NewInMemoryEventBus(messaging.InMemoryEventBusConfig{})
	assert.NoError(t, center.Register(bus))

	assert.NoError(t, bus.Publish(shared.NewSessionDeletedEvent("acc", 1)))

	assert.Empty(t, center.Recent())
}

func TestCenterExpiresEntries(t *testing.T) {
	center, clock := newTestCenter(Config{TTL: time.Minute})
	bus := messaging.NewInMemoryEventBus(messaging.InMemoryEventBusConfig{})
	assert.NoError(t, center.Register(bus))

	assert.NoError(t, bus.Publish(shared.NewPomodoroCompletedEvent("acc", 7, 3, 25)))
	assert.Len(t, center.Recent(), 1)

	*clock = clock.Add(2 * time.Minute)
	assert.Empty(t, center.Recent())
}

func TestCenterBoundsFeedSize(t *testing.T) {
	center, clock := newTestCenter(Config{MaxEntries: 3})
	bus := messaging.NewInMemoryEventBus(messaging.InMemoryEventBusConfig{})
	assert.NoError(t, center.Register(bus))

	for i := 0; i < 5; i++ {
		*clock = clock.Add(time.Second)
		assert.NoError(t, bus.Publish(shared.NewPomodoroCompletedEvent("acc", 7, int64(i+1), i+1)))
	}

	entries := center.Recent()
	assert.Len(t, entries, 3)
	// Newest first; the two oldest were dropped.
	assert.Equal(t, "Sessão de 5 min registrada", entries[0].Message)
	assert.Equal(t, "Sessão de 3 min registrada", entries[2].Message)
}
