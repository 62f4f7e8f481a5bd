package domain

import "fmt"

// DecisionReason explains why a navigation was allowed or blocked.
type DecisionReason uint8

const (
	// ReasonNotProtected: the host is under no policy at all.
	ReasonNotProtected DecisionReason = iota
	// ReasonWhitelisted: a live temporary whitelist entry covers the host.
	ReasonWhitelisted
	// ReasonScheduleInactive: the site's schedule is not active right now.
	ReasonScheduleInactive
	// ReasonScheduleActive: blocked because the schedule is active and the
	// site carries no quota rules.
	ReasonScheduleActive
	// ReasonQuotaExceeded: blocked because a quota rule's allowance is spent.
	ReasonQuotaExceeded
	// ReasonQuotaAvailable: allowed because quota remains.
	ReasonQuotaAvailable
	// ReasonStorageFailure: blocked because the usage write could not be
	// made durable; the decision fails closed rather than granting a free
	// visit.
	ReasonStorageFailure
)

// String returns a stable string representation of the reason.
func (r DecisionReason) String() string {
	switch r {
	case ReasonNotProtected:
		return "not_protected"
	case ReasonWhitelisted:
		return "whitelisted"
	case ReasonScheduleInactive:
		return "schedule_inactive"
	case ReasonScheduleActive:
		return "schedule_active"
	case ReasonQuotaExceeded:
		return "quota_exceeded"
	case ReasonQuotaAvailable:
		return "quota_available"
	case ReasonStorageFailure:
		return "storage_failure"
	default:
		return fmt.Sprintf("DecisionReason(%d)", r)
	}
}

// NavDecision is the outcome of evaluating one navigation. Pure value type.
type NavDecision struct {
	Blocked bool
	Reason  DecisionReason
	// MatchedHost is the configured host whose policy applied; equal to the
	// navigated host for exact matches, a parent for subdomain matches.
	MatchedHost string
}

// Allowed is a convenience accessor.
func (d NavDecision) Allowed() bool { return !d.Blocked }

// AllowNavigation returns an allow decision with the given reason.
func AllowNavigation(reason DecisionReason, matched string) NavDecision {
	return NavDecision{Blocked: false, Reason: reason, MatchedHost: matched}
}

// BlockNavigation returns a block decision with the given reason.
func BlockNavigation(reason DecisionReason, matched string) NavDecision {
	return NavDecision{Blocked: true, Reason: reason, MatchedHost: matched}
}
