package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/study-hub/study-tracker-hub/internal/domain/shared"
)

func sessionOn(id int64, day shared.Day, minutes int) Session {
	return Session{ID: id, Date: day, DurationMinutes: minutes}
}

func TestCalculateStreakEmptyLog(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	result := CalculateStreak(nil, now)

	assert.Equal(t, 0, result.Current)
	assert.Equal(t, 0, result.Best)
}

func TestCalculateStreakSeededByToday(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	today := shared.DayOf(now)

	sessions := []Session{
		sessionOn(3, today, 30),
		sessionOn(2, today.AddDays(-1), 45),
		sessionOn(1, today.AddDays(-2), 60),
	}

	result := CalculateStreak(sessions, now)

	assert.Equal(t, 3, result.Current)
	assert.Equal(t, 3, result.Best)
}

func TestCalculateStreakSeededByYesterday(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	yesterday := shared.DayOf(now).AddDays(-1)

	sessions := []Session{
		sessionOn(2, yesterday, 30),
		sessionOn(1, yesterday.AddDays(-1), 30),
	}

	result := CalculateStreak(sessions, now)

	assert.Equal(t, 2, result.Current)
	assert.Equal(t, 2, result.Best)
}

func TestCalculateStreakBrokenByGap(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	today := shared.DayOf(now)

	// Last study day was two days ago, so no live streak.
	sessions := []Session{
		sessionOn(2, today.AddDays(-2), 30),
		sessionOn(1, today.AddDays(-3), 30),
	}

	result := CalculateStreak(sessions, now)

	assert.Equal(t, 0, result.Current)
	assert.Equal(t, 2, result.Best)
}

func TestCalculateStreakBestSurvivesBreaks(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	today := shared.DayOf(now)

	// A five-day run in the past, then a gap, then today alone.
	sessions := []Session{sessionOn(99, today, 20)}
	for i := 0; i < 5; i++ {
		sessions = append(sessions, sessionOn(int64(i+1), today.AddDays(-10-i), 30))
	}

	result := CalculateStreak(sessions, now)

	assert.Equal(t, 1, result.Current)
	assert.Equal(t, 5, result.Best)
}

func TestCalculateStreakOrderIndependent(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	today := shared.DayOf(now)

	ordered := []Session{
		sessionOn(3, today, 30),
		sessionOn(2, today.AddDays(-1), 30),
		sessionOn(1, today.AddDays(-2), 30),
	}
	shuffled := []Session{ordered[1], ordered[2], ordered[0]}

	assert.Equal(t, CalculateStreak(ordered, now), CalculateStreak(shuffled, now))
}

func TestCalculateStreakMultipleSessionsSameDay(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	today := shared.DayOf(now)

	sessions := []Session{
		sessionOn(3, today, 30),
		sessionOn(2, today, 45),
		sessionOn(1, today.AddDays(-1), 60),
	}

	result := CalculateStreak(sessions, now)

	assert.Equal(t, 2, result.Current)
	assert.Equal(t, 2, result.Best)
}

func TestCalculateStreakBestNeverBelowCurrent(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	today := shared.DayOf(now)

	sessions := []Session{
		sessionOn(2, today, 30),
		sessionOn(1, today.AddDays(-1), 30),
	}

	result := CalculateStreak(sessions, now)

	assert.GreaterOrEqual(t, result.Best, result.Current)
}
