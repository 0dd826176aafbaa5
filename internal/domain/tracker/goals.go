package tracker

import (
	"time"

	"github.com/study-hub/study-tracker-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GOAL PROGRESS (Прогресс по целям)
// ══════════════════════════════════════════════════════════════════════════════

// GoalProgress - прогресс по одной цели.
type GoalProgress struct {
	// CurrentMinutes - набранные минуты в окне цели.
	CurrentMinutes int `json:"currentMinutes"`

	// GoalMinutes - целевые минуты.
	GoalMinutes int `json:"goalMinutes"`

	// Percentage - процент выполнения, всегда в [0, 100].
	Percentage int `json:"percentage"`
}

// GoalsProgress - прогресс по дневной и недельной цели.
type GoalsProgress struct {
	Daily  GoalProgress `json:"daily"`
	Weekly GoalProgress `json:"weekly"`
}

// CalculateGoalsProgress вычисляет прогресс по целям на данный момент.
// Чистая функция, ничего не кэширует.
func CalculateGoalsProgress(sessions []Session, goals Goals, now time.Time) GoalsProgress {
	today := shared.DayOf(now)
	weekStart := today.AddDays(-6)

	var dailyMinutes, weeklyMinutes int
	for _, s := range sessions {
		if s.Date == today {
			dailyMinutes += s.DurationMinutes
		}
		if !s.Date.Before(weekStart) && !s.Date.After(today) {
			weeklyMinutes += s.DurationMinutes
		}
	}

	return GoalsProgress{
		Daily:  newGoalProgress(dailyMinutes, goals.DailyMinutes),
		Weekly: newGoalProgress(weeklyMinutes, goals.WeeklyMinutes),
	}
}

// newGoalProgress строит прогресс с ограничением процента в [0, 100].
// Нулевая цель даёт 0%, а не деление на ноль.
func newGoalProgress(current, goal int) GoalProgress {
	percentage := 0
	if goal > 0 {
		percentage = (current*100 + goal/2) / goal
		if percentage > 100 {
			percentage = 100
		}
	}
	return GoalProgress{
		CurrentMinutes: current,
		GoalMinutes:    goal,
		Percentage:     percentage,
	}
}
