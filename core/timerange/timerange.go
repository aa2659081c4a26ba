package timerange

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Range is a half-open time interval [Start, End).
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// New builds a range, rejecting degenerate or inverted windows.
func New(start, end time.Time) (Range, error) {
	if !end.After(start) {
		return Range{}, fmt.Errorf("end %s must be after start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return Range{Start: start, End: end}, nil
}

// ParseClock combines a calendar date ("2006-01-02") with a wall clock
// ("15:04") into a single UTC timestamp.
func ParseClock(date string, clock string) (time.Time, error) {
	t, err := time.Parse(DateLayout+" "+ClockLayout, date+" "+clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q %q: %w", date, clock, err)
	}
	return t, nil
}

// ParseDate parses a calendar date at midnight UTC.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// Overlaps reports whether two half-open ranges intersect. Back-to-back
// ranges where one ends exactly when the other starts do not overlap.
func (r Range) Overlaps(other Range) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Contains reports whether t falls within [Start, End).
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// ContainsDate reports whether the calendar day of t falls within the
// inclusive [Start, End] date span of the range.
func (r Range) ContainsDate(t time.Time) bool {
	day := truncateToDay(t)
	return !day.Before(truncateToDay(r.Start)) && !day.After(truncateToDay(r.End))
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
