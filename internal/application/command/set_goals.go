package command

import (
	"context"
	"fmt"

	"github.com/study-hub/study-tracker-hub/internal/application/store"
	"github.com/study-hub/study-tracker-hub/internal/domain/shared"
	"github.com/study-hub/study-tracker-hub/internal/domain/tracker"
)

// ══════════════════════════════════════════════════════════════════════════════
// SET GOALS COMMAND
// Replaces the account's daily/weekly study-time goals.
// ══════════════════════════════════════════════════════════════════════════════

// SetGoalsCommand contains the new goal values.
type SetGoalsCommand struct {
	DailyMinutes  int
	WeeklyMinutes int
}

// Validate validates the command.
func (c SetGoalsCommand) Validate() error {
	if c.DailyMinutes < 0 || c.WeeklyMinutes < 0 {
		return shared.ErrNegativeGoal
	}
	return nil
}

// SetGoalsHandler handles the SetGoalsCommand.
type SetGoalsHandler struct {
	store *store.Store
}

// NewSetGoalsHandler creates a new SetGoalsHandler.
func NewSetGoalsHandler(st *store.Store) *SetGoalsHandler {
	return &SetGoalsHandler{store: st}
}

// Handle executes the set goals command.
func (h *SetGoalsHandler) Handle(ctx context.Context, cmd SetGoalsCommand) (tracker.Goals, error) {
	if err := cmd.Validate(); err != nil {
		return tracker.Goals{}, fmt.Errorf("set_goals: validation failed: %w", err)
	}

	goals := tracker.Goals{
		DailyMinutes:  cmd.DailyMinutes,
		WeeklyMinutes: cmd.WeeklyMinutes,
	}
	err := h.store.Update(ctx, func(log *tracker.StudyLog) ([]shared.Event, error) {
		if err := log.SetGoals(goals); err != nil {
			return nil, err
		}
		return []shared.Event{
			shared.NewGoalsUpdatedEvent(h.store.AccountID(),
				goals.DailyMinutes, goals.WeeklyMinutes),
		}, nil
	})
	return goals, err
}
