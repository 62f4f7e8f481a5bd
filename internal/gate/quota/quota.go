// Package quota evaluates usage-quota rules against a host's counters.
// ShouldBlock is a pure function; counters are passed in explicitly, keyed
// by host and date, so no simulated clock singleton is needed in tests.
package quota

import (
	"github.com/sitegate/sitegate/internal/gate/domain"
)

// ShouldBlock reports whether usage-based blocking applies right now.
//
// No enabled rule means maximally blocked: a site with neither a live
// schedule nor live rules stays denied. Otherwise rules are scanned in
// stored order, skipping disabled ones, and the first applicable rule
// decides the outcome outright - quota rules express allowances and are not
// combined with AND/OR. An exhausted scan defaults to allow.
func ShouldBlock(rules []domain.ConditionalRule, usage domain.UsageCounters, today string) bool {
	enabledSeen := false
	for _, r := range rules {
		if r == nil || !r.IsEnabled() {
			continue
		}
		enabledSeen = true
		switch v := r.(type) {
		case domain.VisitsPerDay:
			return usage.VisitsOn(today) >= v.Max
		case domain.TimeLimit:
			return usage.TimeSpentOn(today) >= v.MaxMinutes
		}
	}
	if !enabledSeen {
		return true
	}
	return false
}
