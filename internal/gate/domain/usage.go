package domain

import (
	"time"
)

// UsageCounters tracks per-host, per-calendar-day usage. Date keys are
// local calendar days formatted YYYY-MM-DD and are never retroactively
// rewritten; historical keys persist for display but the evaluator only
// ever reads "today".
type UsageCounters struct {
	VisitsByDate   map[string]int `json:"visitsByDate"`
	TimeSpentToday int            `json:"timeSpentToday"`
	// TimeDate records which calendar day TimeSpentToday belongs to, so a
	// rollover resets the accumulator instead of carrying it into the new
	// day.
	TimeDate      string     `json:"timeDate,omitempty"`
	LastVisitTime *time.Time `json:"lastVisitTime"`
}

// NewUsageCounters returns empty counters ready for use.
func NewUsageCounters() UsageCounters {
	return UsageCounters{VisitsByDate: make(map[string]int)}
}

// VisitsOn returns the visit count recorded for the given date key.
func (u UsageCounters) VisitsOn(date string) int {
	return u.VisitsByDate[date]
}

// TimeSpentOn returns the minutes accumulated for the given date key.
// Calendar rollover is implicit: a date other than TimeDate reads as zero.
func (u UsageCounters) TimeSpentOn(date string) int {
	if u.TimeDate != date {
		return 0
	}
	return u.TimeSpentToday
}

// RecordVisit increments the visit count for the given date and stamps the
// last visit time.
func (u *UsageCounters) RecordVisit(date string, at time.Time) {
	if u.VisitsByDate == nil {
		u.VisitsByDate = make(map[string]int)
	}
	u.VisitsByDate[date]++
	t := at
	u.LastVisitTime = &t
}

// AddTime accumulates minutes spent for the given date, resetting the
// accumulator when the calendar day has rolled over.
func (u *UsageCounters) AddTime(date string, minutes int) {
	if u.TimeDate != date {
		u.TimeDate = date
		u.TimeSpentToday = 0
	}
	u.TimeSpentToday += minutes
}
