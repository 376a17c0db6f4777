package core

import (
	"fmt"
	"time"
)

// ISODateLayout is the canonical storage and comparison key for due dates.
// Month bucketing always goes through the calendar year+month parsed from
// this key, never through timestamp arithmetic, so timezones cannot shift
// an entry into a neighboring bucket.
const ISODateLayout = "2006-01-02"

// Period identifies one (year, month) bucket.
type Period struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// PeriodOf returns the bucket a time falls in.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Contains reports whether the given due date key falls in this period.
// Unparseable keys are never contained.
func (p Period) Contains(dueDate string) bool {
	t, err := ParseISODate(dueDate)
	if err != nil {
		return false
	}
	return t.Year() == p.Year && t.Month() == p.Month
}

// DaysInMonth returns the number of calendar days in the month. The zero
// day of the following month is the last day of this one, so leap years
// fall out of the calendar arithmetic for free.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDayToMonth returns the date for day in the given month, with day
// clamped into [1, DaysInMonth]. A due day of 31 degrades to Feb 28/29
// instead of rolling over into March. Months outside 1..12 normalize
// across year boundaries first, so callers can walk months by adding
// offsets to a base month.
func ClampDayToMonth(year int, month time.Month, day int) time.Time {
	norm := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	year, month = norm.Year(), norm.Month()
	if day < 1 {
		day = 1
	}
	if dim := DaysInMonth(year, month); day > dim {
		day = dim
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// FormatISODate renders a date as the canonical zero-padded key.
func FormatISODate(t time.Time) string {
	return t.Format(ISODateLayout)
}

// ParseISODate parses the canonical key back into a UTC date.
func ParseISODate(s string) (time.Time, error) {
	t, err := time.Parse(ISODateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse due date %q: %w", s, err)
	}
	return t, nil
}

// MonthWindow returns count consecutive periods ending at p, walking
// backward. The result is ordered from p back in time: index 0 is p
// itself, index 1 the month before, and so on.
func MonthWindow(p Period, count int) []Period {
	if count < 1 {
		return nil
	}
	window := make([]Period, 0, count)
	for k := 0; k < count; k++ {
		d := time.Date(p.Year, p.Month-time.Month(k), 1, 0, 0, 0, 0, time.UTC)
		window = append(window, Period{Year: d.Year(), Month: d.Month()})
	}
	return window
}
