package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitegate/sitegate/internal/gate/common/dayclock"
	"github.com/sitegate/sitegate/internal/gate/domain"
)

// 2025-08-06 is a Wednesday, 2025-08-09 a Saturday, 2025-08-10 a Sunday.
func at(day int, hour, min int) time.Time {
	return time.Date(2025, 8, day, hour, min, 0, 0, time.UTC)
}

func mustRange(t *testing.T, start, end string) dayclock.Range {
	t.Helper()
	r, err := dayclock.NewRange(start, end)
	require.NoError(t, err)
	return r
}

func TestIsActive_NilSchedule(t *testing.T) {
	// nil means maximum restriction, never "unblocked"
	assert.True(t, IsActive(nil, at(6, 12, 0)))
	assert.True(t, IsActive(nil, at(9, 3, 0)))
}

func TestIsActive_AlwaysAndVacation(t *testing.T) {
	assert.True(t, IsActive(domain.Always{}, at(6, 12, 0)))
	assert.False(t, IsActive(domain.Vacation{}, at(6, 12, 0)))
}

func TestIsActive_WorkHours(t *testing.T) {
	wh := domain.WorkHours{Hours: mustRange(t, "09:00", "18:00")}

	assert.True(t, IsActive(wh, at(6, 12, 0)), "Wednesday noon")
	assert.False(t, IsActive(wh, at(9, 12, 0)), "Saturday noon")
	assert.False(t, IsActive(wh, at(10, 12, 0)), "Sunday noon")
	assert.False(t, IsActive(wh, at(6, 20, 0)), "Wednesday evening")
	assert.True(t, IsActive(wh, at(6, 9, 0)), "start inclusive")
	assert.False(t, IsActive(wh, at(6, 18, 0)), "end exclusive")
}

func TestIsActive_Weekends(t *testing.T) {
	assert.False(t, IsActive(domain.Weekends{}, at(6, 12, 0)), "Wednesday")
	assert.True(t, IsActive(domain.Weekends{}, at(9, 12, 0)), "Saturday")
	assert.True(t, IsActive(domain.Weekends{}, at(10, 3, 0)), "Sunday")
}

func TestIsActive_Custom(t *testing.T) {
	c := domain.Custom{
		Days:  []time.Weekday{time.Monday, time.Wednesday},
		Hours: mustRange(t, "10:00", "14:00"),
	}
	assert.True(t, IsActive(c, at(6, 12, 0)), "Wednesday in window")
	assert.False(t, IsActive(c, at(6, 15, 0)), "Wednesday outside window")
	assert.False(t, IsActive(c, at(7, 12, 0)), "Thursday not in day set")
}

func TestIsActive_Custom_EmptyDaysFailsSafe(t *testing.T) {
	c := domain.Custom{Hours: mustRange(t, "10:00", "14:00")}
	assert.True(t, IsActive(c, at(6, 3, 0)))
	assert.True(t, IsActive(c, at(9, 23, 0)))
}

func TestIsActive_Custom_MidnightWrap(t *testing.T) {
	c := domain.Custom{
		Days:  []time.Weekday{time.Wednesday},
		Hours: mustRange(t, "22:00", "02:00"),
	}
	assert.True(t, IsActive(c, at(6, 23, 30)))
	assert.True(t, IsActive(c, at(6, 1, 0)))
	assert.False(t, IsActive(c, at(6, 10, 0)))
}

func TestIsActive_PerDay(t *testing.T) {
	s := domain.PerDay{Days: map[time.Weekday]domain.DayPolicy{
		time.Wednesday: {Kind: domain.DayWindow, Hours: mustRange(t, "09:00", "17:00")},
		time.Saturday:  {Kind: domain.DayVacation},
		time.Sunday:    {Kind: domain.DayAlways},
	}}

	assert.True(t, IsActive(s, at(6, 10, 0)), "Wednesday in window")
	assert.False(t, IsActive(s, at(6, 18, 0)), "Wednesday outside window")
	assert.False(t, IsActive(s, at(9, 12, 0)), "Saturday vacation")
	assert.True(t, IsActive(s, at(10, 12, 0)), "Sunday always")
	assert.True(t, IsActive(s, at(7, 12, 0)), "Thursday missing entry fails safe")
}

func TestWeeklyActiveMinutes(t *testing.T) {
	assert.Equal(t, dayclock.MinutesPerWeek, WeeklyActiveMinutes(nil))
	assert.Equal(t, dayclock.MinutesPerWeek, WeeklyActiveMinutes(domain.Always{}))
	assert.Equal(t, 0, WeeklyActiveMinutes(domain.Vacation{}))
	assert.Equal(t, 2*dayclock.MinutesPerDay, WeeklyActiveMinutes(domain.Weekends{}))

	wh := domain.WorkHours{Hours: mustRange(t, "09:00", "18:00")}
	assert.Equal(t, 5*9*60, WeeklyActiveMinutes(wh))

	c := domain.Custom{
		Days:  []time.Weekday{time.Monday, time.Wednesday, time.Friday},
		Hours: mustRange(t, "22:00", "02:00"),
	}
	assert.Equal(t, 3*4*60, WeeklyActiveMinutes(c))

	empty := domain.Custom{Hours: mustRange(t, "10:00", "14:00")}
	assert.Equal(t, dayclock.MinutesPerWeek, WeeklyActiveMinutes(empty), "empty day set scores like always, matching IsActive")

	pd := domain.PerDay{Days: map[time.Weekday]domain.DayPolicy{
		time.Monday:  {Kind: domain.DayWindow, Hours: mustRange(t, "09:00", "10:00")},
		time.Tuesday: {Kind: domain.DayVacation},
		time.Friday:  {Kind: domain.DayAlways},
	}}
	// Mon 60 + Tue 0 + Fri 1440 + four missing days at 1440 each
	assert.Equal(t, 60+dayclock.MinutesPerDay+4*dayclock.MinutesPerDay, WeeklyActiveMinutes(pd))
}
