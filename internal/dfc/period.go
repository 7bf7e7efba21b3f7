package dfc

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const dateFormat = "2006-01-02"

// Period is an inclusive range of calendar days.
type Period struct {
	Start, End time.Time
}

// NewPeriod truncates both bounds to their calendar day.
func NewPeriod(start, end time.Time) Period {
	return Period{Start: Day(start), End: Day(end)}
}

// Day drops the time of day, keeping the calendar date in t's location
// and returning it at midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether t falls on a day within the period, bounds
// included.
func (p Period) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(p.Start) && !d.After(p.End)
}

// Before reports whether t falls on a day strictly before the period.
func (p Period) Before(t time.Time) bool {
	return Day(t).Before(p.Start)
}

func (p Period) String() string {
	return fmt.Sprintf("%s..%s", p.Start.Format(dateFormat), p.End.Format(dateFormat))
}

// ErrInvertedPeriod is returned by ParsePeriod when from is after to.
var ErrInvertedPeriod = errors.New("period start is after its end")

// ParsePeriod parses two YYYY-MM-DD dates into a period.
func ParsePeriod(from, to string) (Period, error) {
	start, err := time.Parse(dateFormat, strings.TrimSpace(from))
	if err != nil {
		return Period{}, fmt.Errorf("invalid start date %q: want YYYY-MM-DD", from)
	}
	end, err := time.Parse(dateFormat, strings.TrimSpace(to))
	if err != nil {
		return Period{}, fmt.Errorf("invalid end date %q: want YYYY-MM-DD", to)
	}
	if start.After(end) {
		return Period{}, fmt.Errorf("%s > %s: %w", from, to, ErrInvertedPeriod)
	}
	return NewPeriod(start, end), nil
}
