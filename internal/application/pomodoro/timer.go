// Package pomodoro implements the focus-timer state machine. The timer
// counts down from a fixed duration and, on completion, logs the
// wall-clock elapsed time as a study session.
package pomodoro

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/study-hub/study-tracker-hub/internal/application/command"
	"github.com/study-hub/study-tracker-hub/internal/domain/shared"
)

// Phase represents the timer phase.
type Phase string

const (
	// PhaseIdle - таймер остановлен, готов к запуску.
	PhaseIdle Phase = "idle"
	// PhaseRunning - идёт отсчёт.
	PhaseRunning Phase = "running"
	// PhasePaused - отсчёт приостановлен, остаток сохранён.
	PhasePaused Phase = "paused"
	// PhaseCompleted - отсчёт дошёл до нуля; переходное состояние,
	// сразу за ним следует автоматический Reset.
	PhaseCompleted Phase = "completed"
)

// DefaultDurationSeconds is the classic 25-minute pomodoro.
const DefaultDurationSeconds = 1500

// SessionNote marks sessions synthesized by the timer.
const SessionNote = "Sessão Pomodoro"

// State is a snapshot of the timer. Ephemeral, never persisted.
type State struct {
	Phase            Phase      `json:"phase"`
	RemainingSeconds int        `json:"remainingSeconds"`
	SelectedTopicID  int64      `json:"selectedTopicId"`
	StartedAt        *time.Time `json:"startedAt,omitempty"`
}

// SessionLogger is the slice of the command layer the timer needs to
// log its completion session.
type SessionLogger interface {
	Handle(ctx context.Context, cmd command.LogSessionCommand) (*command.LogSessionResult, error)
}

// Config contains timer configuration.
type Config struct {
	// DurationSeconds is the countdown length.
	DurationSeconds int

	// TickInterval is the decrement period.
	TickInterval time.Duration

	// CompletionTimeout bounds the completion side effect.
	CompletionTimeout time.Duration
}

// DefaultConfig returns default timer configuration.
func DefaultConfig() Config {
	return Config{
		DurationSeconds:   DefaultDurationSeconds,
		TickInterval:      time.Second,
		CompletionTimeout: 5 * time.Second,
	}
}

// Timer is the focus-timer state machine. A single instance exists per
// running client. At most one tick subscription is live at any time:
// every transition out of Running cancels it before completing.
type Timer struct {
	mu        sync.Mutex
	cfg       Config
	state     State
	sub       TickSubscription
	scheduler TickScheduler
	sessions  SessionLogger
	publisher shared.EventPublisher
	logger    *slog.Logger
	clock     func() time.Time
	accountID string
}

// New creates an idle timer.
func New(
	cfg Config,
	accountID string,
	sessions SessionLogger,
	scheduler TickScheduler,
	publisher shared.EventPublisher,
	logger *slog.Logger,
) *Timer {
	if cfg.DurationSeconds <= 0 {
		cfg.DurationSeconds = DefaultConfig().DurationSeconds
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultConfig().TickInterval
	}
	if cfg.CompletionTimeout <= 0 {
		cfg.CompletionTimeout = DefaultConfig().CompletionTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Timer{
		cfg: cfg,
		state: State{
			Phase:            PhaseIdle,
			RemainingSeconds: cfg.DurationSeconds,
		},
		scheduler: scheduler,
		sessions:  sessions,
		publisher: publisher,
		logger:    logger,
		clock:     func() time.Time { return time.Now().UTC() },
		accountID: accountID,
	}
}

// WithClock replaces the time source. Used by tests.
func (t *Timer) WithClock(clock func() time.Time) *Timer {
	t.clock = clock
	return t
}

// State returns a snapshot of the timer state.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	snapshot := t.state
	if t.state.StartedAt != nil {
		startedAt := *t.state.StartedAt
		snapshot.StartedAt = &startedAt
	}
	return snapshot
}

// ══════════════════════════════════════════════════════════════════════════════
// TRANSITIONS
// ══════════════════════════════════════════════════════════════════════════════

// Start launches the countdown from Idle or resumes it from Paused.
// A missing topic is a validation error and leaves the state unchanged.
// StartedAt is set only on the first start from Idle and is preserved
// across pause/resume, so paused time counts toward elapsed time.
func (t *Timer) Start(topicID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if topicID <= 0 {
		return shared.ErrNoTopicSelected
	}
	if t.state.Phase == PhaseRunning {
		return shared.ErrTimerAlreadyActive
	}

	resumed := t.state.Phase == PhasePaused
	if !resumed {
		now := t.clock()
		t.state.StartedAt = &now
		t.state.RemainingSeconds = t.cfg.DurationSeconds
	}
	t.state.SelectedTopicID = topicID
	t.state.Phase = PhaseRunning

	t.cancelLocked()
	t.sub = t.scheduler.Schedule(t.cfg.TickInterval, t.Tick)

	t.publish(shared.NewPomodoroStartedEvent(
		t.accountID, topicID, t.state.RemainingSeconds, resumed))
	return nil
}

// Pause suspends a running countdown. RemainingSeconds is kept as-is
// and StartedAt is not adjusted.
func (t *Timer) Pause() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.Phase != PhaseRunning {
		return shared.ErrTimerNotRunning
	}

	t.cancelLocked()
	t.state.Phase = PhasePaused

	t.publish(shared.NewPomodoroPausedEvent(
		t.accountID, t.state.SelectedTopicID, t.state.RemainingSeconds))
	return nil
}

// Reset returns the timer to Idle from any phase. The selected topic
// is preserved so the same topic can be restarted immediately.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetLocked()
}

// Close cancels any live tick subscription on process teardown.
func (t *Timer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
}

func (t *Timer) resetLocked() {
	t.cancelLocked()
	t.state.Phase = PhaseIdle
	t.state.RemainingSeconds = t.cfg.DurationSeconds
	t.state.StartedAt = nil
}

// cancelLocked cancels the live tick subscription, if any. Called on
// every exit path from Running so duplicate decrements or a
// double-fired completion cannot happen.
func (t *Timer) cancelLocked() {
	if t.sub != nil {
		t.sub.Cancel()
		t.sub = nil
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// TICK AND COMPLETION
// ══════════════════════════════════════════════════════════════════════════════

// Tick decrements the countdown. It only acts while Running; a stale
// tick arriving after pause or reset is ignored.
func (t *Timer) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.Phase != PhaseRunning {
		return
	}

	t.state.RemainingSeconds--
	if t.state.RemainingSeconds > 0 {
		return
	}

	t.cancelLocked()
	t.state.Phase = PhaseCompleted
	t.completeLocked()
	t.resetLocked()
}

// completeLocked runs the completion side effect: log the wall-clock
// elapsed time since the original start (paused time included, since
// StartedAt is never adjusted) as a session, then announce completion.
func (t *Timer) completeLocked() {
	now := t.clock()

	elapsedMinutes := 0
	if t.state.StartedAt != nil {
		elapsedMinutes = int(math.Round(now.Sub(*t.state.StartedAt).Minutes()))
	}
	if elapsedMinutes < 0 {
		elapsedMinutes = 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), t.cfg.CompletionTimeout)
	defer cancel()

	var sessionID int64
	result, err := t.sessions.Handle(ctx, command.LogSessionCommand{
		Date:            shared.DayOf(now),
		TopicID:         t.state.SelectedTopicID,
		DurationMinutes: elapsedMinutes,
		Exercises:       0,
		Pages:           0,
		Notes:           SessionNote,
		Source:          command.SourcePomodoro,
	})
	if err != nil {
		t.logger.Error("pomodoro completion session not logged",
			"topic_id", t.state.SelectedTopicID,
			"elapsed_minutes", elapsedMinutes,
			"error", err)
	} else {
		sessionID = result.Session.ID
	}

	t.publish(shared.NewPomodoroCompletedEvent(
		t.accountID, t.state.SelectedTopicID, sessionID, elapsedMinutes))
}

func (t *Timer) publish(event shared.Event) {
	if t.publisher == nil {
		return
	}
	if err := t.publisher.Publish(event); err != nil {
		t.logger.Warn("pomodoro event publish failed",
			"event_type", string(event.EventType()),
			"error", err)
	}
}
