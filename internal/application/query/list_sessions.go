package query

import (
	"context"

	"github.com/study-hub/study-tracker-hub/internal/application/store"
	"github.com/study-hub/study-tracker-hub/internal/domain/shared"
	"github.com/study-hub/study-tracker-hub/internal/domain/tracker"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST SESSIONS / LIST TOPICS QUERIES
// ══════════════════════════════════════════════════════════════════════════════

// ListSessionsQuery contains pagination for the session list.
type ListSessionsQuery struct {
	Pagination shared.Pagination
}

// ListSessionsResult contains one page of sessions, newest first,
// joined with display topic names.
type ListSessionsResult struct {
	Sessions []tracker.SessionView `json:"sessions"`
	Total    int                   `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"pageSize"`
}

// ListSessionsHandler handles session list queries.
type ListSessionsHandler struct {
	store *store.Store
}

// NewListSessionsHandler creates a new ListSessionsHandler.
func NewListSessionsHandler(st *store.Store) *ListSessionsHandler {
	return &ListSessionsHandler{store: st}
}

// Handle executes the list sessions query.
func (h *ListSessionsHandler) Handle(ctx context.Context, q ListSessionsQuery) (*ListSessionsResult, error) {
	page := shared.NewPagination(q.Pagination.Page, q.Pagination.PageSize)
	result := &ListSessionsResult{
		Page:     page.Page,
		PageSize: page.Limit(),
	}
	err := h.store.View(ctx, func(log *tracker.StudyLog) {
		result.Total = len(log.Sessions)

		offset := page.Offset()
		if offset >= len(log.Sessions) {
			result.Sessions = []tracker.SessionView{}
			return
		}
		end := offset + page.Limit()
		if end > len(log.Sessions) {
			end = len(log.Sessions)
		}
		views := tracker.RecentSessions(log, end)
		result.Sessions = views[offset:]
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListTopicsResult contains all topics of the account.
type ListTopicsResult struct {
	Topics []tracker.Topic `json:"topics"`
}

// ListTopicsHandler handles topic list queries.
type ListTopicsHandler struct {
	store *store.Store
}

// NewListTopicsHandler creates a new ListTopicsHandler.
func NewListTopicsHandler(st *store.Store) *ListTopicsHandler {
	return &ListTopicsHandler{store: st}
}

// Handle executes the list topics query.
func (h *ListTopicsHandler) Handle(ctx context.Context) (*ListTopicsResult, error) {
	result := &ListTopicsResult{}
	err := h.store.View(ctx, func(log *tracker.StudyLog) {
		topics := make([]tracker.Topic, len(log.Topics))
		copy(topics, log.Topics)
		result.Topics = topics
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
