package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/sitegate/sitegate/internal/gate/common/dayclock"
)

// scheduleEnvelope is the wire form of a Schedule: an explicit mode
// discriminant plus mode-specific fields. Time-of-day fields are "HH:MM"
// strings; weekday fields are integers 0-6 with 0 = Sunday.
type scheduleEnvelope struct {
	Mode   string                       `json:"mode"`
	Start  string                       `json:"start,omitempty"`
	End    string                       `json:"end,omitempty"`
	Days   []int                        `json:"days,omitempty"`
	PerDay map[string]dayPolicyEnvelope `json:"perDay,omitempty"`
}

type dayPolicyEnvelope struct {
	Mode  string `json:"mode"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// MarshalScheduleJSON encodes a Schedule as its tagged-union wire form.
// A nil schedule encodes as JSON null.
func MarshalScheduleJSON(s Schedule) ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	env := scheduleEnvelope{Mode: s.Mode().String()}
	switch v := s.(type) {
	case Always, Vacation, Weekends:
		// discriminant only
	case WorkHours:
		env.Start = dayclock.FormatClock(v.Hours.Start)
		env.End = dayclock.FormatClock(v.Hours.End)
	case Custom:
		days := make([]int, 0, len(v.Days))
		for _, d := range v.Days {
			days = append(days, int(d))
		}
		sort.Ints(days)
		env.Days = days
		env.Start = dayclock.FormatClock(v.Hours.Start)
		env.End = dayclock.FormatClock(v.Hours.End)
	case PerDay:
		env.PerDay = make(map[string]dayPolicyEnvelope, len(v.Days))
		for d, p := range v.Days {
			dp := dayPolicyEnvelope{Mode: p.Kind.String()}
			if p.Kind == DayWindow {
				dp.Start = dayclock.FormatClock(p.Hours.Start)
				dp.End = dayclock.FormatClock(p.Hours.End)
			}
			env.PerDay[strconv.Itoa(int(d))] = dp
		}
	default:
		return nil, fmt.Errorf("unsupported Schedule type %T", s)
	}
	return json.Marshal(env)
}

// UnmarshalScheduleJSON decodes the tagged-union wire form into a Schedule.
// JSON null decodes as a nil Schedule (meaning always blocked).
func UnmarshalScheduleJSON(data []byte) (Schedule, error) {
	if string(data) == "null" {
		return nil, nil
	}
	var env scheduleEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}
	mode, err := ParseScheduleMode(env.Mode)
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}
	switch mode {
	case ScheduleAlways:
		return Always{}, nil
	case ScheduleVacation:
		return Vacation{}, nil
	case ScheduleWeekends:
		return Weekends{}, nil
	case ScheduleWorkHours:
		r, err := envelopeRange(env.Start, env.End)
		if err != nil {
			return nil, fmt.Errorf("schedule work_hours: %w", err)
		}
		return WorkHours{Hours: r}, nil
	case ScheduleCustom:
		r, err := envelopeRange(env.Start, env.End)
		if err != nil {
			return nil, fmt.Errorf("schedule custom: %w", err)
		}
		days := make([]time.Weekday, 0, len(env.Days))
		for _, d := range env.Days {
			if d < 0 || d > 6 {
				return nil, fmt.Errorf("schedule custom: weekday %d out of range 0-6", d)
			}
			days = append(days, time.Weekday(d))
		}
		return Custom{Days: days, Hours: r}, nil
	case SchedulePerDay:
		out := PerDay{Days: make(map[time.Weekday]DayPolicy, len(env.PerDay))}
		for key, dp := range env.PerDay {
			d, err := strconv.Atoi(key)
			if err != nil || d < 0 || d > 6 {
				return nil, fmt.Errorf("schedule per_day: weekday key %q out of range 0-6", key)
			}
			kind, err := ParseDayPolicyKind(dp.Mode)
			if err != nil {
				return nil, fmt.Errorf("schedule per_day[%s]: %w", key, err)
			}
			pol := DayPolicy{Kind: kind}
			if kind == DayWindow {
				r, err := envelopeRange(dp.Start, dp.End)
				if err != nil {
					return nil, fmt.Errorf("schedule per_day[%s]: %w", key, err)
				}
				pol.Hours = r
			}
			out.Days[time.Weekday(d)] = pol
		}
		return out, nil
	default:
		return nil, fmt.Errorf("schedule: unsupported mode %q", env.Mode)
	}
}

func envelopeRange(start, end string) (dayclock.Range, error) {
	if start == "" || end == "" {
		return dayclock.Range{}, fmt.Errorf("missing start/end time")
	}
	return dayclock.NewRange(start, end)
}
