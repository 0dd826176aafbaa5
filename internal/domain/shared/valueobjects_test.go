package shared

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayOfTruncatesTime(t *testing.T) {
	day := DayOf(time.Date(2026, 1, 15, 23, 59, 58, 0, time.UTC))

	assert.Equal(t, NewDay(2026, 1, 15), day)
	assert.Equal(t, "2026-01-15", day.String())
}

func TestDayComparesWithEquality(t *testing.T) {
	a := DayOf(time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC))
	b := DayOf(time.Date(2026, 1, 15, 20, 0, 0, 0, time.UTC))

	assert.True(t, a == b)
}

func TestParseDay(t *testing.T) {
	day, err := ParseDay("2026-01-15")
	assert.NoError(t, err)
	assert.Equal(t, NewDay(2026, 1, 15), day)

	day, err = ParseDay("  2026-01-15 ")
	assert.NoError(t, err)
	assert.Equal(t, NewDay(2026, 1, 15), day)

	_, err = ParseDay("15/01/2026")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = ParseDay("")
	assert.Error(t, err)
}

func TestDayArithmetic(t *testing.T) {
	day := NewDay(2026, 1, 15)

	assert.Equal(t, NewDay(2026, 1, 18), day.AddDays(3))
	assert.Equal(t, NewDay(2026, 1, 12), day.AddDays(-3))
	assert.Equal(t, 3, day.DaysUntil(NewDay(2026, 1, 18)))
	assert.Equal(t, -3, NewDay(2026, 1, 18).DaysUntil(day))
	assert.True(t, day.Before(NewDay(2026, 1, 16)))
	assert.True(t, day.After(NewDay(2026, 1, 14)))
}

func TestDayJSONRoundTrip(t *testing.T) {
	day := NewDay(2026, 1, 15)

	data, err := json.Marshal(day)
	assert.NoError(t, err)
	assert.Equal(t, `"2026-01-15"`, string(data))

	var decoded Day
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, day, decoded)
}

func TestDayUnmarshalRejectsBadFormat(t *testing.T) {
	var day Day

	assert.Error(t, json.Unmarshal([]byte(`"15/01/2026"`), &day))
}

func TestParseIntOrZero(t *testing.T) {
	assert.Equal(t, 42, ParseIntOrZero("42"))
	assert.Equal(t, 42, ParseIntOrZero(" 42 "))
	assert.Equal(t, 0, ParseIntOrZero(""))
	assert.Equal(t, 0, ParseIntOrZero("abc"))
	assert.Equal(t, 0, ParseIntOrZero("-5"))
	assert.Equal(t, 0, ParseIntOrZero("4.5"))
}

func TestParseTopicRef(t *testing.T) {
	assert.Equal(t, int64(7), ParseTopicRef("7"))
	assert.Equal(t, int64(0), ParseTopicRef(""))
	assert.Equal(t, int64(0), ParseTopicRef("none"))
	assert.Equal(t, int64(0), ParseTopicRef("-3"))
}

func TestParseID(t *testing.T) {
	id, err := ParseID("15")
	assert.NoError(t, err)
	assert.Equal(t, int64(15), id)

	_, err = ParseID("0")
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = ParseID("abc")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestPaginationDefaults(t *testing.T) {
	p := NewPagination(0, 0)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Equal(t, 0, p.Offset())
	assert.Equal(t, DefaultPageSize, p.Limit())
}

func TestPaginationCapsPageSize(t *testing.T) {
	p := NewPagination(2, 500)

	assert.Equal(t, MaxPageSize, p.Limit())
	assert.Equal(t, MaxPageSize, p.Offset())
}

func TestPaginationOffset(t *testing.T) {
	p := NewPagination(3, 10)

	assert.Equal(t, 20, p.Offset())
	assert.Equal(t, 10, p.Limit())
}

func TestDomainErrorMatching(t *testing.T) {
	assert.ErrorIs(t, ErrTopicNotFound, ErrNotFound)
	assert.True(t, IsNotFound(ErrSnapshotNotFound))
	assert.True(t, IsValidation(ErrEmptyTopicName))
	assert.True(t, IsValidation(ErrNegativeDuration))
	assert.True(t, IsStateTransition(ErrTimerAlreadyActive))
	assert.False(t, IsNotFound(ErrNegativeGoal))
}
