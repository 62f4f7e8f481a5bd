package strictness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitegate/sitegate/internal/gate/common/dayclock"
	"github.com/sitegate/sitegate/internal/gate/domain"
)

func mustRange(t *testing.T, start, end string) dayclock.Range {
	t.Helper()
	r, err := dayclock.NewRange(start, end)
	require.NoError(t, err)
	return r
}

func TestScheduleScore_Extremes(t *testing.T) {
	assert.Equal(t, float64(MaxScheduleScore), ScheduleScore(nil))
	assert.Equal(t, float64(MaxScheduleScore), ScheduleScore(domain.Always{}))
	assert.Equal(t, ScheduleScore(nil), ScheduleScore(domain.Always{}))
	assert.Equal(t, 0.0, ScheduleScore(domain.Vacation{}))
}

func TestScheduleScore_Modes(t *testing.T) {
	wh := domain.WorkHours{Hours: mustRange(t, "09:00", "18:00")}
	assert.Equal(t, float64(5*9*60), ScheduleScore(wh))

	assert.Equal(t, float64(2*24*60), ScheduleScore(domain.Weekends{}))

	c := domain.Custom{
		Days:  []time.Weekday{time.Saturday, time.Sunday},
		Hours: mustRange(t, "20:00", "23:00"),
	}
	assert.Equal(t, float64(2*3*60), ScheduleScore(c))
}

func TestRuleScore_MonotonicallyDecreasing(t *testing.T) {
	assert.Equal(t, 900.0, RuleScore(domain.VisitsPerDay{Max: 1, Enabled: true}))
	assert.Equal(t, 700.0, RuleScore(domain.VisitsPerDay{Max: 3, Enabled: true}))
	assert.Equal(t, 0.0, RuleScore(domain.VisitsPerDay{Max: 10, Enabled: true}))
	assert.Equal(t, 0.0, RuleScore(domain.VisitsPerDay{Max: 50, Enabled: true}), "loose thresholds asymptote to zero")

	assert.Equal(t, 1990.0, RuleScore(domain.TimeLimit{MaxMinutes: 1, Enabled: true}))
	assert.Equal(t, 1400.0, RuleScore(domain.TimeLimit{MaxMinutes: 60, Enabled: true}))
	assert.Equal(t, 0.0, RuleScore(domain.TimeLimit{MaxMinutes: 200, Enabled: true}))
	assert.Equal(t, 0.0, RuleScore(domain.TimeLimit{MaxMinutes: 10000, Enabled: true}))
}

func TestRuleScore_DisabledScoresZero(t *testing.T) {
	assert.Equal(t, 0.0, RuleScore(domain.VisitsPerDay{Max: 1, Enabled: false}))
	assert.Equal(t, 0.0, RuleScore(nil))
}

func TestRulesScore_SumsEnabled(t *testing.T) {
	rules := []domain.ConditionalRule{
		domain.VisitsPerDay{Max: 3, Enabled: true},    // 700
		domain.TimeLimit{MaxMinutes: 60, Enabled: true}, // 1400
		domain.VisitsPerDay{Max: 1, Enabled: false},   // disabled
	}
	assert.Equal(t, 2100.0, RulesScore(rules))
	assert.Equal(t, 0.0, RulesScore(nil))
}

func TestCombined(t *testing.T) {
	rules := []domain.ConditionalRule{domain.TimeLimit{MaxMinutes: 60, Enabled: true}}
	got := Combined(domain.Weekends{}, rules, DefaultRulesWeight)
	assert.InDelta(t, 2880+0.10*1400, got, 1e-9)
}

func TestCompare_ToleranceBand(t *testing.T) {
	assert.Equal(t, Same, Compare(1000, 960), "4% drop stays within tolerance")
	assert.Equal(t, Same, Compare(1000, 1040))
	assert.Equal(t, Same, Compare(1000, 1000))
	assert.Equal(t, LessStrict, Compare(1000, 800))
	assert.Equal(t, Stricter, Compare(1000, 1200))
}

func TestCompare_ZeroOldScore(t *testing.T) {
	assert.Equal(t, Stricter, Compare(0, 100))
	assert.Equal(t, Same, Compare(0, 0))
	assert.Equal(t, Same, Compare(0, 1), "absolute floor keeps a one-point wiggle classified as same")
}

func TestCompareSchedules(t *testing.T) {
	wh := domain.WorkHours{Hours: mustRange(t, "09:00", "18:00")}
	assert.Equal(t, LessStrict, CompareSchedules(domain.Always{}, wh))
	assert.Equal(t, Stricter, CompareSchedules(wh, domain.Always{}))
	assert.Equal(t, LessStrict, CompareSchedules(wh, domain.Vacation{}))
	assert.Equal(t, Same, CompareSchedules(nil, domain.Always{}))
}

func TestCompareRules(t *testing.T) {
	tight := []domain.ConditionalRule{domain.VisitsPerDay{Max: 1, Enabled: true}}
	loose := []domain.ConditionalRule{domain.VisitsPerDay{Max: 8, Enabled: true}}
	assert.Equal(t, LessStrict, CompareRules(tight, loose))
	assert.Equal(t, Stricter, CompareRules(loose, tight))
}

func TestShouldChallenge(t *testing.T) {
	assert.True(t, ShouldChallenge(1000, 800))
	assert.False(t, ShouldChallenge(1000, 960))
	assert.False(t, ShouldChallenge(1000, 1200))
}

func TestVerdictStringRoundTrip(t *testing.T) {
	for _, v := range []Verdict{Same, Stricter, LessStrict} {
		parsed, err := ParseVerdict(v.String())
		require.NoError(t, err)
		assert.Equal(t, v, parsed)
	}
	_, err := ParseVerdict("weaker")
	assert.Error(t, err)
}
