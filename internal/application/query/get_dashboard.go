// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"time"

	"github.com/study-hub/study-tracker-hub/internal/application/store"
	"github.com/study-hub/study-tracker-hub/internal/domain/tracker"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET DASHBOARD QUERY
// The dashboard joins every derived view the home screen needs:
// streak, goal progress, accumulated totals and the latest sessions.
// All of it is recomputed from the log on each request.
// ══════════════════════════════════════════════════════════════════════════════

// DefaultRecentSessions is how many recent sessions the dashboard shows.
const DefaultRecentSessions = 10

// DashboardResult contains the derived views for the dashboard.
type DashboardResult struct {
	Streak         tracker.StreakResult  `json:"streak"`
	Goals          tracker.Goals         `json:"goals"`
	GoalsProgress  tracker.GoalsProgress `json:"goalsProgress"`
	Totals         tracker.Totals        `json:"totals"`
	RecentSessions []tracker.SessionView `json:"recentSessions"`
	GeneratedAt    time.Time             `json:"generatedAt"`
}

// GetDashboardHandler handles dashboard queries.
type GetDashboardHandler struct {
	store *store.Store
	clock func() time.Time
}

// NewGetDashboardHandler creates a new GetDashboardHandler.
func NewGetDashboardHandler(st *store.Store) *GetDashboardHandler {
	return &GetDashboardHandler{
		store: st,
		clock: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source. Used by tests.
func (h *GetDashboardHandler) WithClock(clock func() time.Time) *GetDashboardHandler {
	h.clock = clock
	return h
}

// Handle executes the dashboard query.
func (h *GetDashboardHandler) Handle(ctx context.Context) (*DashboardResult, error) {
	now := h.clock()
	result := &DashboardResult{GeneratedAt: now}
	err := h.store.View(ctx, func(log *tracker.StudyLog) {
		result.Streak = tracker.CalculateStreak(log.Sessions, now)
		result.Goals = log.Goals
		result.GoalsProgress = tracker.CalculateGoalsProgress(log.Sessions, log.Goals, now)
		result.Totals = tracker.CalculateTotals(log.Sessions)
		result.RecentSessions = tracker.RecentSessions(log, DefaultRecentSessions)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
