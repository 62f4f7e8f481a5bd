// Package schedule evaluates time-based blocking policies. IsActive is a
// pure function over well-typed input and cannot fault; malformed
// configuration is rejected at the write boundary before it gets here.
package schedule

import (
	"time"

	"github.com/sitegate/sitegate/internal/gate/common/dayclock"
	"github.com/sitegate/sitegate/internal/gate/domain"
)

// IsActive reports whether blocking applies at the given instant.
//
// A nil schedule means maximum restriction: always active. Every ambiguous
// case (empty custom day set, missing per-day entry) fails safe to active
// rather than silently unblocking a protected site.
func IsActive(s domain.Schedule, now time.Time) bool {
	if s == nil {
		return true
	}
	minute := dayclock.MinuteOf(now)
	day := now.Weekday()

	switch v := s.(type) {
	case domain.Always:
		return true
	case domain.Vacation:
		return false
	case domain.WorkHours:
		if day == time.Saturday || day == time.Sunday {
			return false
		}
		return v.Hours.Contains(minute)
	case domain.Weekends:
		return day == time.Saturday || day == time.Sunday
	case domain.Custom:
		if len(v.Days) == 0 {
			return true // fail safe
		}
		return v.HasDay(day) && v.Hours.Contains(minute)
	case domain.PerDay:
		pol, ok := v.Days[day]
		if !ok {
			return true // fail safe
		}
		switch pol.Kind {
		case domain.DayAlways:
			return true
		case domain.DayVacation:
			return false
		case domain.DayWindow:
			return pol.Hours.Contains(minute)
		default:
			return true
		}
	default:
		return true
	}
}

// WeeklyActiveMinutes returns how many minutes per week the schedule keeps
// blocking active. Used by the strictness scorer; a nil schedule counts as
// the full week.
func WeeklyActiveMinutes(s domain.Schedule) int {
	if s == nil {
		return dayclock.MinutesPerWeek
	}
	switch v := s.(type) {
	case domain.Always:
		return dayclock.MinutesPerWeek
	case domain.Vacation:
		return 0
	case domain.WorkHours:
		return 5 * v.Hours.Width()
	case domain.Weekends:
		return 2 * dayclock.MinutesPerDay
	case domain.Custom:
		if len(v.Days) == 0 {
			return dayclock.MinutesPerWeek // fail safe, matches IsActive
		}
		return len(v.Days) * v.Hours.Width()
	case domain.PerDay:
		total := 0
		for d := time.Sunday; d <= time.Saturday; d++ {
			pol, ok := v.Days[d]
			if !ok {
				total += dayclock.MinutesPerDay // fail safe, matches IsActive
				continue
			}
			switch pol.Kind {
			case domain.DayAlways:
				total += dayclock.MinutesPerDay
			case domain.DayVacation:
				// nothing
			case domain.DayWindow:
				total += pol.Hours.Width()
			}
		}
		return total
	default:
		return dayclock.MinutesPerWeek
	}
}
