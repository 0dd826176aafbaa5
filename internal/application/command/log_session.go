// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"fmt"
	"time"

	"github.com/study-hub/study-tracker-hub/internal/application/store"
	"github.com/study-hub/study-tracker-hub/internal/domain/shared"
	"github.com/study-hub/study-tracker-hub/internal/domain/tracker"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOG SESSION COMMAND
// Appends a study session to the log. Used for manual entries and for
// sessions synthesized by the pomodoro timer on completion.
// ══════════════════════════════════════════════════════════════════════════════

// Session sources.
const (
	SourceManual   = "manual"
	SourcePomodoro = "pomodoro"
)

// LogSessionCommand contains the data to log a study session.
type LogSessionCommand struct {
	// Date is the calendar day of the session.
	Date shared.Day

	// TopicID references a topic; zero means no topic. A reference to
	// a since-deleted topic is accepted and rendered as "no topic".
	TopicID int64

	// DurationMinutes is the session length in minutes.
	DurationMinutes int

	// Exercises is the number of exercises solved.
	Exercises int

	// Pages is the number of pages read.
	Pages int

	// Notes is free-form user text.
	Notes string

	// Source marks where the session came from (manual, pomodoro).
	Source string
}

// Validate validates the command.
func (c LogSessionCommand) Validate() error {
	if c.Date.IsZero() {
		return shared.ErrInvalidSessionDate
	}
	if c.DurationMinutes < 0 {
		return shared.ErrNegativeDuration
	}
	if c.Exercises < 0 {
		return shared.ErrNegativeExercises
	}
	if c.Pages < 0 {
		return shared.ErrNegativePages
	}
	return nil
}

// LogSessionResult contains the result of logging a session.
type LogSessionResult struct {
	// Session is the stored session with its assigned id.
	Session tracker.Session

	// RecordedAt is when the command was handled.
	RecordedAt time.Time
}

// LogSessionHandler handles the LogSessionCommand.
type LogSessionHandler struct {
	store *store.Store
}

// NewLogSessionHandler creates a new LogSessionHandler.
func NewLogSessionHandler(st *store.Store) *LogSessionHandler {
	return &LogSessionHandler{store: st}
}

// Handle executes the log session command.
func (h *LogSessionHandler) Handle(ctx context.Context, cmd LogSessionCommand) (*LogSessionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("log_session: validation failed: %w", err)
	}

	source := cmd.Source
	if source == "" {
		source = SourceManual
	}

	result := &LogSessionResult{RecordedAt: time.Now().UTC()}
	err := h.store.Update(ctx, func(log *tracker.StudyLog) ([]shared.Event, error) {
		session, err := log.AddSession(tracker.SessionInput{
			Date:            cmd.Date,
			TopicID:         cmd.TopicID,
			DurationMinutes: cmd.DurationMinutes,
			Exercises:       cmd.Exercises,
			Pages:           cmd.Pages,
			Notes:           cmd.Notes,
		})
		if err != nil {
			return nil, err
		}
		result.Session = session
		return []shared.Event{
			shared.NewSessionLoggedEvent(
				h.store.AccountID(),
				session.ID,
				session.Date.String(),
				session.TopicID,
				session.DurationMinutes,
				session.Exercises,
				session.Pages,
				source,
			),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
