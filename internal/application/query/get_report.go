package query

import (
	"context"
	"time"

	"github.com/study-hub/study-tracker-hub/internal/application/store"
	"github.com/study-hub/study-tracker-hub/internal/domain/shared"
	"github.com/study-hub/study-tracker-hub/internal/domain/tracker"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET REPORT DATA QUERY
// Assembles every computed value the plain-text report consumes:
// 30-day period stats, streak, top topics and the topic list. The
// export layer only formats this data; it computes nothing itself.
// ══════════════════════════════════════════════════════════════════════════════

// Report window and size defaults.
const (
	ReportPeriodDays = 30
	ReportTopTopics  = 5
)

// ReportData contains the computed values for the report template.
type ReportData struct {
	GeneratedAt time.Time
	PeriodDays  int

	// Period stats over the trailing window.
	PeriodSessions int
	PeriodTotals   tracker.Totals
	Streak         tracker.StreakResult
	TopTopics      []tracker.TopicSlice
	Topics         []tracker.Topic
}

// GetReportDataHandler assembles report data.
type GetReportDataHandler struct {
	store *store.Store
	clock func() time.Time
}

// NewGetReportDataHandler creates a new GetReportDataHandler.
func NewGetReportDataHandler(st *store.Store) *GetReportDataHandler {
	return &GetReportDataHandler{
		store: st,
		clock: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source. Used by tests.
func (h *GetReportDataHandler) WithClock(clock func() time.Time) *GetReportDataHandler {
	h.clock = clock
	return h
}

// Handle executes the report data query.
func (h *GetReportDataHandler) Handle(ctx context.Context) (*ReportData, error) {
	now := h.clock()
	data := &ReportData{
		GeneratedAt: now,
		PeriodDays:  ReportPeriodDays,
	}
	err := h.store.View(ctx, func(log *tracker.StudyLog) {
		from := shared.DayOf(now).AddDays(-(ReportPeriodDays - 1))
		period := tracker.SessionsSince(log.Sessions, from)

		data.PeriodSessions = len(period)
		data.PeriodTotals = tracker.CalculateTotals(period)
		data.Streak = tracker.CalculateStreak(log.Sessions, now)
		data.TopTopics = tracker.TopTopics(log, ReportTopTopics)

		topics := make([]tracker.Topic, len(log.Topics))
		copy(topics, log.Topics)
		data.Topics = topics
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}
