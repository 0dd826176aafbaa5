// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"strconv"
	"strings"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════
// Day Value Object
// ═══════════════════════════════════════════════════════════════════════════

// DayFormat is the wire format for calendar days (YYYY-MM-DD).
const DayFormat = "2006-01-02"

// Day represents a calendar day with no time component.
// Stored internally as UTC midnight so days compare with ==.
type Day struct {
	t time.Time
}

// DayOf truncates a time to its calendar day.
func DayOf(t time.Time) Day {
	u := t.UTC()
	return Day{t: time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

// NewDay creates a Day from year, month, day.
func NewDay(year, month, day int) Day {
	return Day{t: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(value string) (Day, error) {
	t, err := time.ParseInLocation(DayFormat, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return Day{}, WrapError("shared", "ParseDay", ErrInvalidFormat, "invalid day format, expected YYYY-MM-DD", err)
	}
	return Day{t: t}, nil
}

// IsZero checks if the day is the zero value.
func (d Day) IsZero() bool {
	return d.t.IsZero()
}

// Time returns the day as UTC midnight.
func (d Day) Time() time.Time {
	return d.t
}

// String returns the YYYY-MM-DD representation.
func (d Day) String() string {
	return d.t.Format(DayFormat)
}

// AddDays returns the day n days later. Negative n goes back.
func (d Day) AddDays(n int) Day {
	return Day{t: d.t.AddDate(0, 0, n)}
}

// Before reports whether d is before other.
func (d Day) Before(other Day) bool {
	return d.t.Before(other.t)
}

// After reports whether d is after other.
func (d Day) After(other Day) bool {
	return d.t.After(other.t)
}

// DaysUntil returns the signed number of days from d to other.
func (d Day) DaysUntil(other Day) int {
	return int(other.t.Sub(d.t).Hours() / 24)
}

// MarshalJSON encodes the day as a YYYY-MM-DD string.
func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Day) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Form Input Parsing
// ═══════════════════════════════════════════════════════════════════════════

// Numeric identifiers and counters arrive from forms as text. They are
// parsed explicitly with an agreed fallback instead of relying on
// cross-type equality between stored numbers and text references.

// ParseIntOrZero parses a text numeric field, falling back to 0 on
// empty or unparsable input.
func ParseIntOrZero(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ParseTopicRef parses a topic reference from a form. Empty or
// unparsable input means "no topic" (0).
func ParseTopicRef(value string) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// ParseID parses a numeric entity id from a path segment.
func ParseID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, NewDomainError("shared", "ParseID", ErrInvalidID, "invalid numeric id")
	}
	return id, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Pagination Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Pagination represents pagination parameters for list views.
type Pagination struct {
	Page     int
	PageSize int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Offset returns the offset into the full list.
func (p Pagination) Offset() int {
	if p.Page <= 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}

// Limit returns the effective page size.
func (p Pagination) Limit() int {
	if p.PageSize <= 0 {
		return DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		return MaxPageSize
	}
	return p.PageSize
}

// NewPagination creates a new Pagination with defaults.
func NewPagination(page, pageSize int) Pagination {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Pagination{Page: page, PageSize: pageSize}
}
