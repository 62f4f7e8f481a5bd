// Package strictness converts schedules and rule sets into comparable
// numeric scores, so a configuration edit that would weaken protection can
// be told apart from one that keeps it equal or stronger.
package strictness

import (
	"fmt"
	"strings"

	"github.com/sitegate/sitegate/internal/gate/domain"
	"github.com/sitegate/sitegate/internal/gate/schedule"
)

// MaxScheduleScore is the score of a schedule that blocks every minute of
// the week (nil and Always both score this).
const MaxScheduleScore = 7 * 24 * 60

// Tolerance is the relative band around the old score within which a change
// classifies as Same, avoiding flapping on negligible edits.
const Tolerance = 0.05

// DefaultRulesWeight is the share of the rules score blended into a
// combined site score. The exact weighting is a tunable policy parameter,
// not a load-bearing constant.
const DefaultRulesWeight = 0.10

// Verdict classifies a proposed configuration change.
type Verdict uint8

const (
	// Same: the change keeps strictness within tolerance of the old value.
	Same Verdict = iota
	// Stricter: the change tightens protection.
	Stricter
	// LessStrict: the change weakens protection and should be challenged.
	LessStrict
)

// String returns a stable string representation of the verdict.
func (v Verdict) String() string {
	switch v {
	case Same:
		return "same"
	case Stricter:
		return "stricter"
	case LessStrict:
		return "less_strict"
	default:
		return fmt.Sprintf("Verdict(%d)", v)
	}
}

// ParseVerdict converts a string into a Verdict.
func ParseVerdict(s string) (Verdict, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "same":
		return Same, nil
	case "stricter":
		return Stricter, nil
	case "less_strict":
		return LessStrict, nil
	default:
		return 0, fmt.Errorf("unsupported Verdict: %q", s)
	}
}

// ScheduleScore scores a schedule by minutes blocked per week. A nil
// schedule is maximum restriction and scores the same as Always; Vacation
// scores zero.
func ScheduleScore(s domain.Schedule) float64 {
	return float64(schedule.WeeklyActiveMinutes(s))
}

// RuleScore scores a single rule with a monotonically decreasing function
// of its threshold: tighter thresholds score higher, looser ones asymptote
// to zero. Disabled rules score zero.
func RuleScore(r domain.ConditionalRule) float64 {
	if r == nil || !r.IsEnabled() {
		return 0
	}
	switch v := r.(type) {
	case domain.VisitsPerDay:
		return max(0, 1000-100*float64(v.Max))
	case domain.TimeLimit:
		return max(0, 2000-10*float64(v.MaxMinutes))
	default:
		return 0
	}
}

// RulesScore sums the scores of all enabled rules in a set.
func RulesScore(rules []domain.ConditionalRule) float64 {
	var total float64
	for _, r := range rules {
		total += RuleScore(r)
	}
	return total
}

// Combined blends a site's schedule and rules scores with the given rules
// weight. Pass DefaultRulesWeight unless policy says otherwise.
func Combined(s domain.Schedule, rules []domain.ConditionalRule, rulesWeight float64) float64 {
	return ScheduleScore(s) + rulesWeight*RulesScore(rules)
}

// Compare classifies a score change, applying a tolerance band of
// Tolerance x old around the old score (with an absolute floor of 1 so a
// zero old score still classifies strictly).
func Compare(old, new float64) Verdict {
	band := Tolerance * old
	if band < 1 {
		band = 1
	}
	switch {
	case new > old+band:
		return Stricter
	case new < old-band:
		return LessStrict
	default:
		return Same
	}
}

// CompareSchedules classifies a schedule edit.
func CompareSchedules(old, new domain.Schedule) Verdict {
	return Compare(ScheduleScore(old), ScheduleScore(new))
}

// CompareRules classifies a rule-set edit.
func CompareRules(old, new []domain.ConditionalRule) Verdict {
	return Compare(RulesScore(old), RulesScore(new))
}

// ShouldChallenge reports whether a proposed change must force a
// re-confirmation step before the weaker configuration is persisted.
func ShouldChallenge(old, new float64) bool {
	return Compare(old, new) == LessStrict
}
