package query

import (
	"context"
	"time"

	"github.com/study-hub/study-tracker-hub/internal/application/store"
	"github.com/study-hub/study-tracker-hub/internal/domain/tracker"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET ANALYTICS QUERY
// The three analytical views: 7-day series, topic distribution and the
// 91-day heat map. Recomputed per request, no incremental cache.
// ══════════════════════════════════════════════════════════════════════════════

// AnalyticsResult contains the three analytics views.
type AnalyticsResult struct {
	Week        []tracker.DayPoint    `json:"week"`
	Topics      []tracker.TopicSlice  `json:"topics"`
	Heatmap     []tracker.HeatmapCell `json:"heatmap"`
	GeneratedAt time.Time             `json:"generatedAt"`
}

// GetAnalyticsHandler handles analytics queries.
type GetAnalyticsHandler struct {
	store *store.Store
	clock func() time.Time
}

// NewGetAnalyticsHandler creates a new GetAnalyticsHandler.
func NewGetAnalyticsHandler(st *store.Store) *GetAnalyticsHandler {
	return &GetAnalyticsHandler{
		store: st,
		clock: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source. Used by tests.
func (h *GetAnalyticsHandler) WithClock(clock func() time.Time) *GetAnalyticsHandler {
	h.clock = clock
	return h
}

// Handle executes the analytics query.
func (h *GetAnalyticsHandler) Handle(ctx context.Context) (*AnalyticsResult, error) {
	now := h.clock()
	result := &AnalyticsResult{GeneratedAt: now}
	err := h.store.View(ctx, func(log *tracker.StudyLog) {
		result.Week = tracker.WeekSeries(log.Sessions, now)
		result.Topics = tracker.TopicDistribution(log)
		result.Heatmap = tracker.Heatmap(log.Sessions, now)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
