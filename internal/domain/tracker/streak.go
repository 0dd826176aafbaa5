package tracker

import (
	"sort"
	"time"

	"github.com/study-hub/study-tracker-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// STREAK (Серия учебных дней)
// ══════════════════════════════════════════════════════════════════════════════

// StreakResult - результат вычисления серий.
type StreakResult struct {
	// Current - текущая серия подряд идущих учебных дней,
	// заканчивающаяся сегодня или вчера.
	Current int `json:"current"`

	// Best - лучшая серия за всю историю. Всегда >= Current.
	Best int `json:"best"`
}

// CalculateStreak вычисляет текущую и лучшую серию учебных дней.
// Чистая функция: результат не зависит от порядка сессий во входе.
// Несколько сессий в один день считаются одним днём.
func CalculateStreak(sessions []Session, now time.Time) StreakResult {
	dates := distinctDatesDesc(sessions)
	if len(dates) == 0 {
		return StreakResult{}
	}

	today := shared.DayOf(now)
	yesterday := today.AddDays(-1)

	// Текущая серия: стартует только если последний учебный день -
	// сегодня или вчера, и тянется пока разрыв между соседними
	// датами ровно один день.
	current := 0
	if dates[0] == today || dates[0] == yesterday {
		current = 1
		for i := 1; i < len(dates); i++ {
			if dates[i].DaysUntil(dates[i-1]) == 1 {
				current++
			} else {
				break
			}
		}
	}

	// Лучшая серия: один проход по всем датам.
	best := 0
	temp := 1
	for i := 1; i < len(dates); i++ {
		if dates[i].DaysUntil(dates[i-1]) == 1 {
			temp++
		} else {
			if temp > best {
				best = temp
			}
			temp = 1
		}
	}
	if temp > best {
		best = temp
	}
	if current > best {
		best = current
	}

	return StreakResult{Current: current, Best: best}
}

// distinctDatesDesc возвращает уникальные даты сессий,
// отсортированные по убыванию (самая свежая первой).
func distinctDatesDesc(sessions []Session) []shared.Day {
	seen := make(map[shared.Day]struct{}, len(sessions))
	dates := make([]shared.Day, 0, len(sessions))
	for _, s := range sessions {
		if _, ok := seen[s.Date]; ok {
			continue
		}
		seen[s.Date] = struct{}{}
		dates = append(dates, s.Date)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[j].Before(dates[i])
	})
	return dates
}
