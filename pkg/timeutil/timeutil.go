// Package timeutil provides the time formatting helpers shared by the
// computed views and the exported report. Calendar-day arithmetic lives
// on the Day value object; this package only formats.
package timeutil

import "fmt"

// Common date/time formats.
const (
	// FormatDate is the standard date format (YYYY-MM-DD).
	FormatDate = "2006-01-02"
	// FormatReportStamp is the timestamp format used in exported reports.
	FormatReportStamp = "02/01/2006 15:04"
)

// FormatHours renders fractional hours the way the exported report does:
// "2h" for whole hours, "2h 30m" otherwise.
func FormatHours(hours float64) string {
	h := int(hours)
	m := int((hours - float64(h)) * 60)
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// RoundHours converts minutes to hours rounded to one decimal place.
func RoundHours(minutes int) float64 {
	return float64(int(float64(minutes)/60*10+0.5)) / 10
}
