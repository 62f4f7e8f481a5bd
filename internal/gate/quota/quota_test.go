package quota

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sitegate/sitegate/internal/gate/domain"
)

const today = "2025-08-06"

func usageWith(visits int, minutes int) domain.UsageCounters {
	u := domain.NewUsageCounters()
	u.VisitsByDate[today] = visits
	if minutes > 0 {
		u.AddTime(today, minutes)
	}
	return u
}

func TestShouldBlock_NoRules(t *testing.T) {
	// Absence of live rules means maximally blocked.
	assert.True(t, ShouldBlock(nil, usageWith(0, 0), today))
	assert.True(t, ShouldBlock([]domain.ConditionalRule{}, usageWith(0, 0), today))
}

func TestShouldBlock_AllDisabled(t *testing.T) {
	rules := []domain.ConditionalRule{
		domain.VisitsPerDay{Max: 3, Enabled: false},
		domain.TimeLimit{MaxMinutes: 30, Enabled: false},
	}
	assert.True(t, ShouldBlock(rules, usageWith(100, 100), today))
}

func TestShouldBlock_VisitsPerDay(t *testing.T) {
	rules := []domain.ConditionalRule{domain.VisitsPerDay{Max: 3, Enabled: true}}

	assert.False(t, ShouldBlock(rules, usageWith(0, 0), today))
	assert.False(t, ShouldBlock(rules, usageWith(2, 0), today))
	assert.True(t, ShouldBlock(rules, usageWith(3, 0), today))
	assert.True(t, ShouldBlock(rules, usageWith(4, 0), today))
}

func TestShouldBlock_VisitsOtherDayDoNotCount(t *testing.T) {
	rules := []domain.ConditionalRule{domain.VisitsPerDay{Max: 1, Enabled: true}}
	u := domain.NewUsageCounters()
	u.VisitsByDate["2025-08-05"] = 10
	assert.False(t, ShouldBlock(rules, u, today))
}

func TestShouldBlock_TimeLimit(t *testing.T) {
	rules := []domain.ConditionalRule{domain.TimeLimit{MaxMinutes: 30, Enabled: true}}

	assert.False(t, ShouldBlock(rules, usageWith(0, 0), today))
	assert.False(t, ShouldBlock(rules, usageWith(0, 29), today))
	assert.True(t, ShouldBlock(rules, usageWith(0, 30), today))
	assert.True(t, ShouldBlock(rules, usageWith(0, 31), today))
}

func TestShouldBlock_FirstEnabledRuleDecidesOutright(t *testing.T) {
	// The visit quota still has room, so the navigation is allowed even
	// though the time limit behind it is spent. Rules are not combined.
	rules := []domain.ConditionalRule{
		domain.VisitsPerDay{Max: 5, Enabled: true},
		domain.TimeLimit{MaxMinutes: 10, Enabled: true},
	}
	assert.False(t, ShouldBlock(rules, usageWith(1, 600), today))

	// And the inverse: the first rule blocks even if the second would allow.
	rules = []domain.ConditionalRule{
		domain.TimeLimit{MaxMinutes: 10, Enabled: true},
		domain.VisitsPerDay{Max: 5, Enabled: true},
	}
	assert.True(t, ShouldBlock(rules, usageWith(1, 600), today))
}

func TestShouldBlock_DisabledRulesSkipped(t *testing.T) {
	rules := []domain.ConditionalRule{
		domain.VisitsPerDay{Max: 1, Enabled: false},
		domain.TimeLimit{MaxMinutes: 60, Enabled: true},
	}
	// The disabled visit rule would block; the enabled time rule allows.
	assert.False(t, ShouldBlock(rules, usageWith(5, 10), today))
}

func TestShouldBlock_NilRuleEntriesSkipped(t *testing.T) {
	rules := []domain.ConditionalRule{nil, domain.VisitsPerDay{Max: 3, Enabled: true}}
	assert.False(t, ShouldBlock(rules, usageWith(1, 0), today))
}
