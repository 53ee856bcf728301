package period

import (
	"fmt"
	"time"
)

// Kind selects a reporting bucket. Ranges are always half-open: [Start, End).
type Kind string

const (
	Daily   Kind = "daily"
	Weekly  Kind = "weekly"
	Monthly Kind = "monthly"
)

// ParseKind validates a user-supplied bucket name.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Daily, Weekly, Monthly:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown period kind %q", s)
}

// Range is a half-open time interval.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Of returns the bucket of the given kind containing ref.
//
// Daily is the calendar day of ref. Weekly is the ISO week: Monday 00:00
// through the following Monday, so reports are reproducible regardless of the
// day they are generated on. Monthly is the calendar month.
func Of(kind Kind, ref time.Time) (Range, error) {
	y, m, d := ref.Date()
	loc := ref.Location()

	switch kind {
	case Daily:
		start := time.Date(y, m, d, 0, 0, 0, 0, loc)
		return Range{Start: start, End: start.AddDate(0, 0, 1)}, nil
	case Weekly:
		day := time.Date(y, m, d, 0, 0, 0, 0, loc)
		// time.Weekday has Sunday == 0; shift so Monday opens the week.
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		return Range{Start: start, End: start.AddDate(0, 0, 7)}, nil
	case Monthly:
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return Range{Start: start, End: start.AddDate(0, 1, 0)}, nil
	}
	return Range{}, fmt.Errorf("unknown period kind %q", kind)
}
