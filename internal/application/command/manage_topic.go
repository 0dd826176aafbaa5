package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/study-hub/study-tracker-hub/internal/application/store"
	"github.com/study-hub/study-tracker-hub/internal/domain/shared"
	"github.com/study-hub/study-tracker-hub/internal/domain/tracker"
)

// ══════════════════════════════════════════════════════════════════════════════
// MANAGE TOPIC COMMANDS
// Topic lifecycle: create, full replace by id, status transition, delete.
// Deleting a topic never cascades to its sessions.
// ══════════════════════════════════════════════════════════════════════════════

// SaveTopicCommand creates a topic (TopicID == 0) or fully replaces an
// existing one (TopicID > 0, id preserved).
type SaveTopicCommand struct {
	TopicID  int64
	Name     string
	Category string
	Status   tracker.TopicStatus
	Color    string
}

// Validate validates the command.
func (c SaveTopicCommand) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return shared.ErrEmptyTopicName
	}
	if c.Status != "" && !c.Status.IsValid() {
		return shared.ErrInvalidTopicStatus
	}
	return nil
}

// SaveTopicResult contains the stored topic.
type SaveTopicResult struct {
	Topic   tracker.Topic
	Created bool
}

// SaveTopicHandler handles the SaveTopicCommand.
type SaveTopicHandler struct {
	store *store.Store
}

// NewSaveTopicHandler creates a new SaveTopicHandler.
func NewSaveTopicHandler(st *store.Store) *SaveTopicHandler {
	return &SaveTopicHandler{store: st}
}

// Handle executes the save topic command.
func (h *SaveTopicHandler) Handle(ctx context.Context, cmd SaveTopicCommand) (*SaveTopicResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("save_topic: validation failed: %w", err)
	}

	input := tracker.TopicInput{
		Name:     cmd.Name,
		Category: cmd.Category,
		Status:   cmd.Status,
		Color:    cmd.Color,
	}

	result := &SaveTopicResult{Created: cmd.TopicID == 0}
	err := h.store.Update(ctx, func(log *tracker.StudyLog) ([]shared.Event, error) {
		var (
			topic     tracker.Topic
			err       error
			eventType shared.EventType
		)
		if cmd.TopicID == 0 {
			topic, err = log.AddTopic(input)
			eventType = shared.EventTopicAdded
		} else {
			topic, err = log.UpdateTopic(cmd.TopicID, input)
			eventType = shared.EventTopicUpdated
		}
		if err != nil {
			return nil, err
		}
		result.Topic = topic
		return []shared.Event{
			shared.NewTopicChangedEvent(eventType, h.store.AccountID(),
				topic.ID, topic.Name, topic.Status.String()),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SET TOPIC STATUS
// ══════════════════════════════════════════════════════════════════════════════

// SetTopicStatusCommand transitions a topic to a new lifecycle status.
type SetTopicStatusCommand struct {
	TopicID int64
	Status  tracker.TopicStatus
}

// Validate validates the command.
func (c SetTopicStatusCommand) Validate() error {
	if c.TopicID <= 0 {
		return shared.NewDomainError("command", "SetTopicStatus", shared.ErrInvalidID, "topic id is required")
	}
	if !c.Status.IsValid() {
		return shared.ErrInvalidTopicStatus
	}
	return nil
}

// SetTopicStatusHandler handles the SetTopicStatusCommand.
type SetTopicStatusHandler struct {
	store *store.Store
}

// NewSetTopicStatusHandler creates a new SetTopicStatusHandler.
func NewSetTopicStatusHandler(st *store.Store) *SetTopicStatusHandler {
	return &SetTopicStatusHandler{store: st}
}

// Handle executes the set topic status command.
func (h *SetTopicStatusHandler) Handle(ctx context.Context, cmd SetTopicStatusCommand) (tracker.Topic, error) {
	if err := cmd.Validate(); err != nil {
		return tracker.Topic{}, fmt.Errorf("set_topic_status: validation failed: %w", err)
	}

	var updated tracker.Topic
	err := h.store.Update(ctx, func(log *tracker.StudyLog) ([]shared.Event, error) {
		topic, err := log.SetTopicStatus(cmd.TopicID, cmd.Status)
		if err != nil {
			return nil, err
		}
		updated = topic
		return []shared.Event{
			shared.NewTopicChangedEvent(shared.EventTopicStatusChanged,
				h.store.AccountID(), topic.ID, topic.Name, topic.Status.String()),
		}, nil
	})
	return updated, err
}

// ══════════════════════════════════════════════════════════════════════════════
// DELETE TOPIC
// ══════════════════════════════════════════════════════════════════════════════

// DeleteTopicCommand removes a topic. Sessions referencing it keep
// their TopicID and degrade to the "no topic" label.
type DeleteTopicCommand struct {
	TopicID int64
}

// Validate validates the command.
func (c DeleteTopicCommand) Validate() error {
	if c.TopicID <= 0 {
		return shared.NewDomainError("command", "DeleteTopic", shared.ErrInvalidID, "topic id is required")
	}
	return nil
}

// DeleteTopicHandler handles the DeleteTopicCommand.
type DeleteTopicHandler struct {
	store *store.Store
}

// NewDeleteTopicHandler creates a new DeleteTopicHandler.
func NewDeleteTopicHandler(st *store.Store) *DeleteTopicHandler {
	return &DeleteTopicHandler{store: st}
}

// Handle executes the delete topic command.
func (h *DeleteTopicHandler) Handle(ctx context.Context, cmd DeleteTopicCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("delete_topic: validation failed: %w", err)
	}

	return h.store.Update(ctx, func(log *tracker.StudyLog) ([]shared.Event, error) {
		if err := log.DeleteTopic(cmd.TopicID); err != nil {
			return nil, err
		}
		return []shared.Event{
			shared.NewTopicChangedEvent(shared.EventTopicDeleted,
				h.store.AccountID(), cmd.TopicID, "", ""),
		}, nil
	})
}
