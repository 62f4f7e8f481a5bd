// Package dayclock provides wall-clock minute arithmetic: parsing "HH:MM"
// strings, minute-of-day extraction, and midnight-wrap-aware ranges.
package dayclock

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay is the number of minutes in one calendar day.
const MinutesPerDay = 24 * 60

// MinutesPerWeek is the number of minutes in one week.
const MinutesPerWeek = 7 * MinutesPerDay

// ParseClock converts an "HH:MM" wall-clock string into a minute-of-day
// value in [0, 1439]. Hours are 0-23, minutes 0-59.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q: want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: bad hour: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: bad minute: %w", s, err)
	}
	if h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid clock time %q: hour out of range", s)
	}
	if m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock time %q: minute out of range", s)
	}
	return h*60 + m, nil
}

// FormatClock renders a minute-of-day value as "HH:MM".
func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// MinuteOf returns the minute-of-day for an instant, in its location.
func MinuteOf(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// Range is a half-open window of minutes within a day. End <= Start denotes
// a window that wraps past midnight; Start == End covers the whole day.
type Range struct {
	Start int // minute-of-day, inclusive
	End   int // minute-of-day, exclusive
}

// NewRange parses "HH:MM" start and end strings into a Range.
func NewRange(start, end string) (Range, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Range{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: s, End: e}, nil
}

// Validate checks that both endpoints are legal minute-of-day values.
func (r Range) Validate() error {
	if r.Start < 0 || r.Start >= MinutesPerDay {
		return fmt.Errorf("range start %d out of [0,%d)", r.Start, MinutesPerDay)
	}
	if r.End < 0 || r.End >= MinutesPerDay {
		return fmt.Errorf("range end %d out of [0,%d)", r.End, MinutesPerDay)
	}
	return nil
}

// Wraps reports whether the range crosses midnight.
func (r Range) Wraps() bool {
	return r.End <= r.Start
}

// Contains reports whether a minute-of-day falls inside the range.
// For wrapping ranges membership is: minute >= Start OR minute < End.
func (r Range) Contains(minute int) bool {
	if r.Wraps() {
		return minute >= r.Start || minute < r.End
	}
	return minute >= r.Start && minute < r.End
}

// Width returns the number of minutes the range covers within one day.
// A wrapping range covers the tail of one day plus the head of the next;
// Start == End covers the full day.
func (r Range) Width() int {
	if r.Wraps() {
		return MinutesPerDay - r.Start + r.End
	}
	return r.End - r.Start
}

// ContainsNow is a convenience for Contains(MinuteOf(t)).
func (r Range) ContainsNow(t time.Time) bool {
	return r.Contains(MinuteOf(t))
}

// String renders the range as "HH:MM-HH:MM".
func (r Range) String() string {
	return FormatClock(r.Start) + "-" + FormatClock(r.End)
}

// DateKey returns the local calendar-day key used for per-day usage
// counters, formatted as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
