package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/sitegate/sitegate/internal/gate/common/dayclock"
)

// ScheduleMode identifies the variant of a Schedule.
type ScheduleMode uint8

const (
	// ScheduleAlways blocks at every instant.
	ScheduleAlways ScheduleMode = iota
	// ScheduleVacation suspends blocking entirely.
	ScheduleVacation
	// ScheduleWorkHours blocks Monday-Friday within one daily window.
	ScheduleWorkHours
	// ScheduleWeekends blocks all day Saturday and Sunday.
	ScheduleWeekends
	// ScheduleCustom blocks on a chosen set of weekdays within one window.
	ScheduleCustom
	// SchedulePerDay blocks per-weekday with an independent policy each day.
	SchedulePerDay
)

// String returns the stable wire name of the mode.
func (m ScheduleMode) String() string {
	switch m {
	case ScheduleAlways:
		return "always"
	case ScheduleVacation:
		return "vacation"
	case ScheduleWorkHours:
		return "work_hours"
	case ScheduleWeekends:
		return "weekends"
	case ScheduleCustom:
		return "custom"
	case SchedulePerDay:
		return "per_day"
	default:
		return fmt.Sprintf("ScheduleMode(%d)", m)
	}
}

// ParseScheduleMode converts a wire name into a ScheduleMode.
func ParseScheduleMode(s string) (ScheduleMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "always":
		return ScheduleAlways, nil
	case "vacation":
		return ScheduleVacation, nil
	case "work_hours":
		return ScheduleWorkHours, nil
	case "weekends":
		return ScheduleWeekends, nil
	case "custom":
		return ScheduleCustom, nil
	case "per_day":
		return SchedulePerDay, nil
	default:
		return 0, fmt.Errorf("unsupported ScheduleMode: %q", s)
	}
}

// Schedule is a time-based blocking policy. Each variant carries exactly the
// fields its mode needs; there are no optional fields that only apply to
// some modes. A nil Schedule on a site means "always blocked".
type Schedule interface {
	Mode() ScheduleMode
	Validate() error
}

// Always blocks at every instant.
type Always struct{}

func (Always) Mode() ScheduleMode { return ScheduleAlways }
func (Always) Validate() error    { return nil }

// Vacation suspends blocking entirely until the schedule is changed back.
type Vacation struct{}

func (Vacation) Mode() ScheduleMode { return ScheduleVacation }
func (Vacation) Validate() error    { return nil }

// WorkHours blocks Monday through Friday within one daily window.
type WorkHours struct {
	Hours dayclock.Range
}

func (WorkHours) Mode() ScheduleMode { return ScheduleWorkHours }

func (s WorkHours) Validate() error {
	if err := s.Hours.Validate(); err != nil {
		return fmt.Errorf("work_hours: %w", err)
	}
	return nil
}

// Weekends blocks all day Saturday and Sunday.
type Weekends struct{}

func (Weekends) Mode() ScheduleMode { return ScheduleWeekends }
func (Weekends) Validate() error    { return nil }

// Custom blocks on a chosen set of weekdays within one daily window.
// An empty Days set fails safe: the schedule is treated as active at every
// instant rather than never.
type Custom struct {
	Days  []time.Weekday
	Hours dayclock.Range
}

func (Custom) Mode() ScheduleMode { return ScheduleCustom }

func (s Custom) Validate() error {
	for _, d := range s.Days {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("custom: weekday %d out of range 0-6", d)
		}
	}
	if err := s.Hours.Validate(); err != nil {
		return fmt.Errorf("custom: %w", err)
	}
	return nil
}

// HasDay reports whether the given weekday is in the custom day set.
func (s Custom) HasDay(d time.Weekday) bool {
	for _, day := range s.Days {
		if day == d {
			return true
		}
	}
	return false
}

// DayPolicyKind identifies the variant of one weekday's policy in a PerDay
// schedule.
type DayPolicyKind uint8

const (
	// DayAlways blocks the whole day.
	DayAlways DayPolicyKind = iota
	// DayVacation leaves the whole day unblocked.
	DayVacation
	// DayWindow blocks within one window on that day.
	DayWindow
)

// String returns the stable wire name of the day-policy kind.
func (k DayPolicyKind) String() string {
	switch k {
	case DayAlways:
		return "always"
	case DayVacation:
		return "vacation"
	case DayWindow:
		return "window"
	default:
		return fmt.Sprintf("DayPolicyKind(%d)", k)
	}
}

// ParseDayPolicyKind converts a wire name into a DayPolicyKind.
func ParseDayPolicyKind(s string) (DayPolicyKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "always":
		return DayAlways, nil
	case "vacation":
		return DayVacation, nil
	case "window":
		return DayWindow, nil
	default:
		return 0, fmt.Errorf("unsupported DayPolicyKind: %q", s)
	}
}

// DayPolicy is one weekday's entry in a PerDay schedule. Hours is only
// meaningful when Kind is DayWindow.
type DayPolicy struct {
	Kind  DayPolicyKind
	Hours dayclock.Range
}

// Validate checks the day policy for supported kinds and legal hours.
func (p DayPolicy) Validate() error {
	switch p.Kind {
	case DayAlways, DayVacation:
		return nil
	case DayWindow:
		return p.Hours.Validate()
	default:
		return fmt.Errorf("unsupported DayPolicyKind: %d", p.Kind)
	}
}

// PerDay blocks per-weekday, each day carrying its own policy. A weekday
// with no entry fails safe to blocked all day.
type PerDay struct {
	Days map[time.Weekday]DayPolicy
}

func (PerDay) Mode() ScheduleMode { return SchedulePerDay }

func (s PerDay) Validate() error {
	for d, p := range s.Days {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("per_day: weekday %d out of range 0-6", d)
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("per_day[%d]: %w", d, err)
		}
	}
	return nil
}
