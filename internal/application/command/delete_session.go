package command

import (
	"context"
	"fmt"

	"github.com/study-hub/study-tracker-hub/internal/application/store"
	"github.com/study-hub/study-tracker-hub/internal/domain/shared"
	"github.com/study-hub/study-tracker-hub/internal/domain/tracker"
)

// ══════════════════════════════════════════════════════════════════════════════
// DELETE SESSION COMMAND
// Removes a session from the log. An absent id is a no-op, not an error.
// ══════════════════════════════════════════════════════════════════════════════

// DeleteSessionCommand contains the id of the session to delete.
type DeleteSessionCommand struct {
	SessionID int64
}

// Validate validates the command.
func (c DeleteSessionCommand) Validate() error {
	if c.SessionID <= 0 {
		return shared.NewDomainError("command", "DeleteSession", shared.ErrInvalidID, "session id is required")
	}
	return nil
}

// DeleteSessionResult contains the result of deleting a session.
type DeleteSessionResult struct {
	// Removed reports whether a session with the given id existed.
	Removed bool
}

// DeleteSessionHandler handles the DeleteSessionCommand.
type DeleteSessionHandler struct {
	store *store.Store
}

// NewDeleteSessionHandler creates a new DeleteSessionHandler.
func NewDeleteSessionHandler(st *store.Store) *DeleteSessionHandler {
	return &DeleteSessionHandler{store: st}
}

// Handle executes the delete session command.
func (h *DeleteSessionHandler) Handle(ctx context.Context, cmd DeleteSessionCommand) (*DeleteSessionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("delete_session: validation failed: %w", err)
	}

	result := &DeleteSessionResult{}
	err := h.store.Update(ctx, func(log *tracker.StudyLog) ([]shared.Event, error) {
		result.Removed = log.DeleteSession(cmd.SessionID)
		if !result.Removed {
			return nil, nil
		}
		return []shared.Event{
			shared.NewSessionDeletedEvent(h.store.AccountID(), cmd.SessionID),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
