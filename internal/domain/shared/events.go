// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types - these drive the event-driven architecture.
// Each event represents something significant that happened in the domain.
const (
	// Log events
	EventSessionLogged      EventType = "tracker.session_logged"
	EventSessionDeleted     EventType = "tracker.session_deleted"
	EventTopicAdded         EventType = "tracker.topic_added"
	EventTopicUpdated       EventType = "tracker.topic_updated"
	EventTopicDeleted       EventType = "tracker.topic_deleted"
	EventTopicStatusChanged EventType = "tracker.topic_status_changed"
	EventGoalsUpdated       EventType = "tracker.goals_updated"

	// Achievement events
	EventAchievementUnlocked EventType = "achievement.unlocked"

	// Pomodoro events
	EventPomodoroStarted   EventType = "pomodoro.started"
	EventPomodoroPaused    EventType = "pomodoro.paused"
	EventPomodoroCompleted EventType = "pomodoro.completed"

	// System events
	EventSnapshotPushed     EventType = "system.snapshot_pushed"
	EventSnapshotPushFailed EventType = "system.snapshot_push_failed"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
	Version     int       `json:"version"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event with a fresh unique ID.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		ID:          uuid.NewString(),
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Log Events
// ═══════════════════════════════════════════════════════════════════════════

// SessionLoggedEvent is emitted when a study session is added to the log.
type SessionLoggedEvent struct {
	BaseEvent
	SessionID       int64  `json:"session_id"`
	Date            string `json:"date"`
	TopicID         int64  `json:"topic_id"`
	DurationMinutes int    `json:"duration_minutes"`
	Exercises       int    `json:"exercises"`
	Pages           int    `json:"pages"`
	Source          string `json:"source"` // "manual" or "pomodoro"
}

// Payload implements Event interface.
func (e SessionLoggedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id":       e.SessionID,
		"date":             e.Date,
		"topic_id":         e.TopicID,
		"duration_minutes": e.DurationMinutes,
		"exercises":        e.Exercises,
		"pages":            e.Pages,
		"source":           e.Source,
	}
}

// NewSessionLoggedEvent creates a new SessionLoggedEvent.
func NewSessionLoggedEvent(accountID string, sessionID int64, date string, topicID int64, minutes, exercises, pages int, source string) SessionLoggedEvent {
	return SessionLoggedEvent{
		BaseEvent:       NewBaseEvent(EventSessionLogged, accountID),
		SessionID:       sessionID,
		Date:            date,
		TopicID:         topicID,
		DurationMinutes: minutes,
		Exercises:       exercises,
		Pages:           pages,
		Source:          source,
	}
}

// SessionDeletedEvent is emitted when a session is removed from the log.
type SessionDeletedEvent struct {
	BaseEvent
	SessionID int64 `json:"session_id"`
}

// Payload implements Event interface.
func (e SessionDeletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id": e.SessionID,
	}
}

// NewSessionDeletedEvent creates a new SessionDeletedEvent.
func NewSessionDeletedEvent(accountID string, sessionID int64) SessionDeletedEvent {
	return SessionDeletedEvent{
		BaseEvent: NewBaseEvent(EventSessionDeleted, accountID),
		SessionID: sessionID,
	}
}

// TopicChangedEvent is emitted for topic lifecycle changes
// (added, updated, deleted, status transition).
type TopicChangedEvent struct {
	BaseEvent
	TopicID int64  `json:"topic_id"`
	Name    string `json:"name,omitempty"`
	Status  string `json:"status,omitempty"`
}

// Payload implements Event interface.
func (e TopicChangedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"topic_id": e.TopicID,
		"name":     e.Name,
		"status":   e.Status,
	}
}

// NewTopicChangedEvent creates a new TopicChangedEvent of the given type.
func NewTopicChangedEvent(eventType EventType, accountID string, topicID int64, name, status string) TopicChangedEvent {
	return TopicChangedEvent{
		BaseEvent: NewBaseEvent(eventType, accountID),
		TopicID:   topicID,
		Name:      name,
		Status:    status,
	}
}

// GoalsUpdatedEvent is emitted when the account's study goals change.
type GoalsUpdatedEvent struct {
	BaseEvent
	DailyMinutes  int `json:"daily_minutes"`
	WeeklyMinutes int `json:"weekly_minutes"`
}

// Payload implements Event interface.
func (e GoalsUpdatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"daily_minutes":  e.DailyMinutes,
		"weekly_minutes": e.WeeklyMinutes,
	}
}

// NewGoalsUpdatedEvent creates a new GoalsUpdatedEvent.
func NewGoalsUpdatedEvent(accountID string, daily, weekly int) GoalsUpdatedEvent {
	return GoalsUpdatedEvent{
		BaseEvent:     NewBaseEvent(EventGoalsUpdated, accountID),
		DailyMinutes:  daily,
		WeeklyMinutes: weekly,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Achievement Events
// ═══════════════════════════════════════════════════════════════════════════

// AchievementUnlockedEvent is emitted exactly once per achievement,
// the first time its metric crosses the threshold.
type AchievementUnlockedEvent struct {
	BaseEvent
	AchievementID string `json:"achievement_id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Icon          string `json:"icon"`
}

// Payload implements Event interface.
func (e AchievementUnlockedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"achievement_id": e.AchievementID,
		"name":           e.Name,
		"description":    e.Description,
		"icon":           e.Icon,
	}
}

// NewAchievementUnlockedEvent creates a new AchievementUnlockedEvent.
func NewAchievementUnlockedEvent(accountID, achievementID, name, description, icon string) AchievementUnlockedEvent {
	return AchievementUnlockedEvent{
		BaseEvent:     NewBaseEvent(EventAchievementUnlocked, accountID),
		AchievementID: achievementID,
		Name:          name,
		Description:   description,
		Icon:          icon,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Pomodoro Events
// ═══════════════════════════════════════════════════════════════════════════

// PomodoroStartedEvent is emitted when the focus timer starts or resumes.
type PomodoroStartedEvent struct {
	BaseEvent
	TopicID          int64 `json:"topic_id"`
	RemainingSeconds int   `json:"remaining_seconds"`
	Resumed          bool  `json:"resumed"`
}

// Payload implements Event interface.
func (e PomodoroStartedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"topic_id":          e.TopicID,
		"remaining_seconds": e.RemainingSeconds,
		"resumed":           e.Resumed,
	}
}

// NewPomodoroStartedEvent creates a new PomodoroStartedEvent.
func NewPomodoroStartedEvent(accountID string, topicID int64, remaining int, resumed bool) PomodoroStartedEvent {
	return PomodoroStartedEvent{
		BaseEvent:        NewBaseEvent(EventPomodoroStarted, accountID),
		TopicID:          topicID,
		RemainingSeconds: remaining,
		Resumed:          resumed,
	}
}

// PomodoroPausedEvent is emitted when the countdown is suspended.
type PomodoroPausedEvent struct {
	BaseEvent
	TopicID          int64 `json:"topic_id"`
	RemainingSeconds int   `json:"remaining_seconds"`
}

// Payload implements Event interface.
func (e PomodoroPausedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"topic_id":          e.TopicID,
		"remaining_seconds": e.RemainingSeconds,
	}
}

// NewPomodoroPausedEvent creates a new PomodoroPausedEvent.
func NewPomodoroPausedEvent(accountID string, topicID int64, remaining int) PomodoroPausedEvent {
	return PomodoroPausedEvent{
		BaseEvent:        NewBaseEvent(EventPomodoroPaused, accountID),
		TopicID:          topicID,
		RemainingSeconds: remaining,
	}
}

// PomodoroCompletedEvent is emitted when the countdown reaches zero and
// the elapsed time has been logged as a session.
type PomodoroCompletedEvent struct {
	BaseEvent
	TopicID        int64 `json:"topic_id"`
	SessionID      int64 `json:"session_id"`
	ElapsedMinutes int   `json:"elapsed_minutes"`
}

// Payload implements Event interface.
func (e PomodoroCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"topic_id":        e.TopicID,
		"session_id":      e.SessionID,
		"elapsed_minutes": e.ElapsedMinutes,
	}
}

// NewPomodoroCompletedEvent creates a new PomodoroCompletedEvent.
func NewPomodoroCompletedEvent(accountID string, topicID, sessionID int64, elapsedMinutes int) PomodoroCompletedEvent {
	return PomodoroCompletedEvent{
		BaseEvent:      NewBaseEvent(EventPomodoroCompleted, accountID),
		TopicID:        topicID,
		SessionID:      sessionID,
		ElapsedMinutes: elapsedMinutes,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// System Events
// ═══════════════════════════════════════════════════════════════════════════

// SnapshotPushedEvent is emitted after a snapshot is written to the
// external store.
type SnapshotPushedEvent struct {
	BaseEvent
	Sessions int `json:"sessions"`
	Topics   int `json:"topics"`
}

// Payload implements Event interface.
func (e SnapshotPushedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"sessions": e.Sessions,
		"topics":   e.Topics,
	}
}

// NewSnapshotPushedEvent creates a new SnapshotPushedEvent.
func NewSnapshotPushedEvent(accountID string, sessions, topics int) SnapshotPushedEvent {
	return SnapshotPushedEvent{
		BaseEvent: NewBaseEvent(EventSnapshotPushed, accountID),
		Sessions:  sessions,
		Topics:    topics,
	}
}

// SnapshotPushFailedEvent is emitted when a fire-and-forget snapshot push
// to the external store fails. The failure is logged, never retried.
type SnapshotPushFailedEvent struct {
	BaseEvent
	Reason string `json:"reason"`
}

// Payload implements Event interface.
func (e SnapshotPushFailedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"reason": e.Reason,
	}
}

// NewSnapshotPushFailedEvent creates a new SnapshotPushFailedEvent.
func NewSnapshotPushFailedEvent(accountID, reason string) SnapshotPushFailedEvent {
	return SnapshotPushFailedEvent{
		BaseEvent: NewBaseEvent(EventSnapshotPushFailed, accountID),
		Reason:    reason,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Envelope (for serialization and transport)
// ═══════════════════════════════════════════════════════════════════════════

// EventEnvelope wraps an event for transport/storage.
type EventEnvelope struct {
	ID          string          `json:"id"`
	Type        EventType       `json:"type"`
	AggregateID string          `json:"aggregate_id"`
	Timestamp   time.Time       `json:"timestamp"`
	Version     int             `json:"version"`
	Payload     json.RawMessage `json:"payload"`
}

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
