// Package notify keeps a short-lived feed of user-facing notifications
// derived from domain events. The feed is in-memory only: it exists so
// the UI can show toasts for unlocks and finished pomodoros, and it
// forgets entries after their display window passes.
package notify

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/study-hub/study-tracker-hub/internal/domain/shared"
)

// Kind classifies a notification for the UI.
type Kind string

const (
	// KindAchievement - разблокировано достижение.
	KindAchievement Kind = "achievement"
	// KindPomodoro - завершена pomodoro-сессия.
	KindPomodoro Kind = "pomodoro"
	// KindWarning - фоновая операция завершилась с ошибкой.
	KindWarning Kind = "warning"
)

// Notification is a single feed entry.
type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Icon      string    `json:"icon,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Config contains notification feed configuration.
type Config struct {
	// TTL is how long an entry stays in the feed.
	TTL time.Duration

	// MaxEntries bounds the feed size.
	MaxEntries int
}

// DefaultConfig returns default feed configuration.
func DefaultConfig() Config {
	return Config{
		TTL:        5 * time.Minute,
		MaxEntries: 50,
	}
}

// Center collects notifications from the event bus.
type Center struct {
	mu      sync.Mutex
	cfg     Config
	entries []Notification
	logger  *slog.Logger
	clock   func() time.Time
}

// NewCenter creates a notification center.
func NewCenter(cfg Config, logger *slog.Logger) *Center {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultConfig().TTL
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultConfig().MaxEntries
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Center{
		cfg:    cfg,
		logger: logger,
		clock:  func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source. Used by tests.
func (c *Center) WithClock(clock func() time.Time) *Center {
	c.clock = clock
	return c
}

// Register subscribes the center to the events it surfaces.
func (c *Center) Register(bus shared.EventSubscriber) error {
	if err := bus.Subscribe(shared.EventAchievementUnlocked, c.onEvent); err != nil {
		return err
	}
	if err := bus.Subscribe(shared.EventPomodoroCompleted, c.onEvent); err != nil {
		return err
	}
	return bus.Subscribe(shared.EventSnapshotPushFailed, c.onEvent)
}

// onEvent converts a domain event into a feed entry.
func (c *Center) onEvent(event shared.Event) error {
	payload := event.Payload()

	switch event.EventType() {
	case shared.EventAchievementUnlocked:
		name, _ := payload["name"].(string)
		description, _ := payload["description"].(string)
		icon, _ := payload["icon"].(string)
		c.add(Notification{
			Kind:    KindAchievement,
			Title:   "Conquista desbloqueada: " + name,
			Message: description,
			Icon:    icon,
		})

	case shared.EventPomodoroCompleted:
		minutes := payloadInt(payload["elapsed_minutes"])
		c.add(Notification{
			Kind:    KindPomodoro,
			Title:   "Pomodoro concluído",
			Message: fmt.Sprintf("Sessão de %d min registrada", minutes),
			Icon:    "🍅",
		})

	case shared.EventSnapshotPushFailed:
		reason, _ := payload["reason"].(string)
		c.add(Notification{
			Kind:    KindWarning,
			Title:   "Falha ao salvar progresso",
			Message: reason,
			Icon:    "⚠️",
		})
	}

	return nil
}

// payloadInt reads a numeric payload value. Locally published events
// carry int; events re-delivered through the Redis mirror went through
// JSON and carry float64.
func payloadInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

func (c *Center) add(n Notification) {
	now := c.clock()
	n.ID = uuid.NewString()
	n.CreatedAt = now
	n.ExpiresAt = now.Add(c.cfg.TTL)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneLocked(now)
	c.entries = append(c.entries, n)
	if len(c.entries) > c.cfg.MaxEntries {
		c.entries = c.entries[len(c.entries)-c.cfg.MaxEntries:]
	}
}

// Recent returns live entries, newest first.
func (c *Center) Recent() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneLocked(c.clock())

	out := make([]Notification, len(c.entries))
	copy(out, c.entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// pruneLocked drops expired entries. Caller holds the lock.
func (c *Center) pruneLocked(now time.Time) {
	live := c.entries[:0]
	for _, n := range c.entries {
		if n.ExpiresAt.After(now) {
			live = append(live, n)
		}
	}
	c.entries = live
}
