package pomodoro

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/study-hub/study-tracker-hub/internal/application/command"
	"github.com/study-hub/study-tracker-hub/internal/domain/shared"
	"github.com/study-hub/study-tracker-hub/internal/domain/tracker"
)

// fakeScheduler hands ticks to the test instead of running a ticker.
type fakeScheduler struct {
	tick      func()
	cancelled int
}

type fakeSubscription struct {
	s *fakeScheduler
}

func (f *fakeSubscription) Cancel() {
	f.s.cancelled++
	f.s.tick = nil
}

func (f *fakeScheduler) Schedule(_ time.Duration, tick func()) TickSubscription {
	f.tick = tick
	return &fakeSubscription{s: f}
}

type fakeSessionLogger struct {
	commands []command.LogSessionCommand
	err      error
}

func (f *fakeSessionLogger) Handle(_ context.Context, cmd command.LogSessionCommand) (*command.LogSessionResult, error) {
	f.commands = append(f.commands, cmd)
	if f.err != nil {
		return nil, f.err
	}
	return &command.LogSessionResult{
		Session:    tracker.Session{ID: int64(len(f.commands)), Date: cmd.Date, TopicID: cmd.TopicID, DurationMinutes: cmd.DurationMinutes},
		RecordedAt: time.Now().UTC(),
	}, nil
}

type capturingPublisher struct {
	events []shared.Event
}

func (p *capturingPublisher) Publish(event shared.Event) error {
	p.events = append(p.events, event)
	return nil
}

func (p *capturingPublisher) byType(t shared.EventType) []shared.Event {
	var out []shared.Event
	for _, e := range p.events {
		if e.EventType() == t {
			out = append(out, e)
		}
	}
	return out
}

func newTestTimer(durationSeconds int) (*Timer, *fakeScheduler, *fakeSessionLogger, *capturingPublisher, *time.Time) {
	scheduler := &fakeScheduler{}
	sessions := &fakeSessionLogger{}
	publisher := &capturingPublisher{}
	now := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	clock := &now

	timer := New(Config{DurationSeconds: durationSeconds, TickInterval: time.Second, CompletionTimeout: time.Second},
		"default", sessions, scheduler, publisher, slog.Default())
	timer.WithClock(func() time.Time { return *clock })

	return timer, scheduler, sessions, publisher, clock
}

func TestStartRequiresTopic(t *testing.T) {
	timer, scheduler, _, _, _ := newTestTimer(3)

	err := timer.Start(0)

	assert.ErrorIs(t, err, shared.ErrNoTopicSelected)
	assert.Equal(t, PhaseIdle, timer.State().Phase)
	assert.Nil(t, scheduler.tick)
}

func TestStartFromIdle(t *testing.T) {
	timer, scheduler, _, publisher, clock := newTestTimer(1500)

	assert.NoError(t, timer.Start(7))

	state := timer.State()
	assert.Equal(t, PhaseRunning, state.Phase)
	assert.Equal(t, 1500, state.RemainingSeconds)
	assert.Equal(t, int64(7), state.SelectedTopicID)
	assert.NotNil(t, state.StartedAt)
	assert.Equal(t, *clock, *state.StartedAt)
	assert.NotNil(t, scheduler.tick)
	assert.Len(t, publisher.byType(shared.EventPomodoroStarted), 1)
}

func TestStartWhileRunning(t *testing.T) {
	timer, _, _, _, _ := newTestTimer(1500)
	assert.NoError(t, timer.Start(7))

	err := timer.Start(8)

	assert.ErrorIs(t, err, shared.ErrTimerAlreadyActive)
	// The running countdown is untouched.
	assert.Equal(t, int64(7), timer.State().SelectedTopicID)
}

func TestPauseKeepsRemainderAndStart(t *testing.T) {
	timer, scheduler, _, publisher, _ := newTestTimer(1500)
	assert.NoError(t, timer.Start(7))
	startedAt := *timer.State().StartedAt

	scheduler.tick()
	scheduler.tick()
	assert.NoError(t, timer.Pause())

	state := timer.State()
	assert.Equal(t, PhasePaused, state.Phase)
	assert.Equal(t, 1498, state.RemainingSeconds)
	assert.Equal(t, startedAt, *state.StartedAt)
	assert.Equal(t, 1, scheduler.cancelled)
	assert.Len(t, publisher.byType(shared.EventPomodoroPaused), 1)
}

func TestPauseWhenNotRunning(t *testing.T) {
	timer, _, _, _, _ := newTestTimer(1500)

	assert.ErrorIs(t, timer.Pause(), shared.ErrTimerNotRunning)
}

func TestResumeContinuesCountdown(t *testing.T) {
	timer, scheduler, _, publisher, _ := newTestTimer(1500)
	assert.NoError(t, timer.Start(7))
	startedAt := *timer.State().StartedAt

	scheduler.tick()
	assert.NoError(t, timer.Pause())
	assert.NoError(t, timer.Start(7))

	state := timer.State()
	assert.Equal(t, PhaseRunning, state.Phase)
	assert.Equal(t, 1499, state.RemainingSeconds)
	assert.Equal(t, startedAt, *state.StartedAt)

	started := publisher.byType(shared.EventPomodoroStarted)
	assert.Len(t, started, 2)
	assert.Equal(t, true, started[1].Payload()["resumed"])
}

func TestStaleTickIgnored(t *testing.T) {
	timer, scheduler, _, _, _ := newTestTimer(1500)
	assert.NoError(t, timer.Start(7))
	tick := scheduler.tick

	assert.NoError(t, timer.Pause())
	tick()

	assert.Equal(t, 1500, timer.State().RemainingSeconds)
}

func TestResetFromAnyPhase(t *testing.T) {
	timer, scheduler, _, _, _ := newTestTimer(1500)
	assert.NoError(t, timer.Start(7))
	scheduler.tick()

	timer.Reset()

	state := timer.State()
	assert.Equal(t, PhaseIdle, state.Phase)
	assert.Equal(t, 1500, state.RemainingSeconds)
	assert.Nil(t, state.StartedAt)
	// Selected topic survives so the same topic restarts immediately.
	assert.Equal(t, int64(7), state.SelectedTopicID)
}

func TestCompletionLogsWallClockElapsed(t *testing.T) {
	timer, scheduler, sessions, publisher, clock := newTestTimer(2)
	assert.NoError(t, timer.Start(7))

	// 26 minutes of wall clock pass before the countdown runs out
	// (pauses do not stop the clock).
	*clock = clock.Add(26 * time.Minute)
	scheduler.tick()
	scheduler.tick()

	assert.Len(t, sessions.commands, 1)
	logged := sessions.commands[0]
	assert.Equal(t, int64(7), logged.TopicID)
	assert.Equal(t, 26, logged.DurationMinutes)
	assert.Equal(t, SessionNote, logged.Notes)
	assert.Equal(t, command.SourcePomodoro, logged.Source)
	assert.Equal(t, shared.DayOf(*clock), logged.Date)

	completed := publisher.byType(shared.EventPomodoroCompleted)
	assert.Len(t, completed, 1)
	assert.Equal(t, 26, completed[0].Payload()["elapsed_minutes"])

	// Auto-reset back to idle.
	state := timer.State()
	assert.Equal(t, PhaseIdle, state.Phase)
	assert.Equal(t, 2, state.RemainingSeconds)
	assert.Nil(t, state.StartedAt)
}

func TestCompletionRoundsElapsedMinutes(t *testing.T) {
	timer, scheduler, sessions, _, clock := newTestTimer(1)
	assert.NoError(t, timer.Start(3))

	*clock = clock.Add(24*time.Minute + 40*time.Second)
	scheduler.tick()

	assert.Len(t, sessions.commands, 1)
	assert.Equal(t, 25, sessions.commands[0].DurationMinutes)
}

func TestCompletionSurvivesLoggerFailure(t *testing.T) {
	timer, scheduler, sessions, publisher, clock := newTestTimer(1)
	sessions.err = errors.New("store unavailable")
	assert.NoError(t, timer.Start(7))

	*clock = clock.Add(25 * time.Minute)
	scheduler.tick()

	// The completion event still goes out with a zero session id.
	completed := publisher.byType(shared.EventPomodoroCompleted)
	assert.Len(t, completed, 1)
	assert.Equal(t, int64(0), completed[0].Payload()["session_id"])
	assert.Equal(t, PhaseIdle, timer.State().Phase)
}

func TestCompletionFiresOnce(t *testing.T) {
	timer, scheduler, sessions, _, _ := newTestTimer(1)
	assert.NoError(t, timer.Start(7))
	tick := scheduler.tick

	tick()
	// A stale tick after the auto-reset must not complete again.
	tick()

	assert.Len(t, sessions.commands, 1)
}
