package query

import (
	"context"

	"github.com/study-hub/study-tracker-hub/internal/application/store"
	"github.com/study-hub/study-tracker-hub/internal/domain/tracker"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET ACHIEVEMENTS QUERY
// The static catalog joined with the account's unlock set.
// ══════════════════════════════════════════════════════════════════════════════

// AchievementsResult contains the joined catalog.
type AchievementsResult struct {
	Achievements []tracker.AchievementView `json:"achievements"`
	Unlocked     int                       `json:"unlocked"`
	Total        int                       `json:"total"`
}

// GetAchievementsHandler handles achievement queries.
type GetAchievementsHandler struct {
	store *store.Store
}

// NewGetAchievementsHandler creates a new GetAchievementsHandler.
func NewGetAchievementsHandler(st *store.Store) *GetAchievementsHandler {
	return &GetAchievementsHandler{store: st}
}

// Handle executes the achievements query.
func (h *GetAchievementsHandler) Handle(ctx context.Context) (*AchievementsResult, error) {
	result := &AchievementsResult{}
	err := h.store.View(ctx, func(log *tracker.StudyLog) {
		result.Achievements = tracker.CatalogWithUnlocks(log)
	})
	if err != nil {
		return nil, err
	}
	result.Total = len(result.Achievements)
	for _, a := range result.Achievements {
		if a.Unlocked {
			result.Unlocked++
		}
	}
	return result, nil
}
