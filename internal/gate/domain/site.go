package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ProtectedSite is one host under policy.
//
// Invariants:
// - Host is canonical (lowercase, no trailing dot) and unique across the set.
// - A nil Schedule means "always blocked" - the maximum restriction, never
//   "unblocked".
// - Rules evaluation order is slice order.
type ProtectedSite struct {
	Host     string
	Schedule Schedule
	Rules    []ConditionalRule
}

// NewProtectedSite constructs a ProtectedSite and validates its fields.
func NewProtectedSite(host string, schedule Schedule, rules []ConditionalRule) (ProtectedSite, error) {
	s := ProtectedSite{
		Host:     strings.TrimSpace(host),
		Schedule: schedule,
		Rules:    rules,
	}
	if err := s.Validate(); err != nil {
		return ProtectedSite{}, err
	}
	return s, nil
}

// Validate checks the site record at the write boundary, producing
// field-level reasons so malformed configuration never reaches the
// evaluators.
func (s ProtectedSite) Validate() error {
	if s.Host == "" {
		return fmt.Errorf("host: must not be empty")
	}
	if strings.ContainsAny(s.Host, " /:") {
		return fmt.Errorf("host: %q must be a bare host name", s.Host)
	}
	if s.Schedule != nil {
		if err := s.Schedule.Validate(); err != nil {
			return fmt.Errorf("schedule: %w", err)
		}
	}
	for i, r := range s.Rules {
		if r == nil {
			return fmt.Errorf("conditionalRules[%d]: must not be null", i)
		}
		if err := r.Validate(); err != nil {
			return fmt.Errorf("conditionalRules[%d]: %w", i, err)
		}
	}
	return nil
}

// HasRules reports whether the site carries any conditional rules at all.
// Such sites cannot be enforced by the static matcher and are always routed
// to dynamic evaluation, regardless of the enabled flags.
func (s ProtectedSite) HasRules() bool {
	return len(s.Rules) > 0
}

// siteEnvelope is the wire form of a ProtectedSite.
type siteEnvelope struct {
	Host     string            `json:"host"`
	Schedule json.RawMessage   `json:"schedule,omitempty"`
	Rules    []json.RawMessage `json:"conditionalRules,omitempty"`
}

// MarshalJSON encodes the site with its schedule and rules in tagged-union
// wire form.
func (s ProtectedSite) MarshalJSON() ([]byte, error) {
	env := siteEnvelope{Host: s.Host}
	sched, err := MarshalScheduleJSON(s.Schedule)
	if err != nil {
		return nil, err
	}
	if string(sched) != "null" {
		env.Schedule = sched
	}
	for i, r := range s.Rules {
		raw, err := MarshalRuleJSON(r)
		if err != nil {
			return nil, fmt.Errorf("conditionalRules[%d]: %w", i, err)
		}
		env.Rules = append(env.Rules, raw)
	}
	return json.Marshal(env)
}

// UnmarshalJSON decodes the wire form, including nested tagged unions.
// Decoded sites still require Validate before use.
func (s *ProtectedSite) UnmarshalJSON(data []byte) error {
	var env siteEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	site := ProtectedSite{Host: strings.TrimSpace(env.Host)}
	if len(env.Schedule) > 0 {
		sched, err := UnmarshalScheduleJSON(env.Schedule)
		if err != nil {
			return err
		}
		site.Schedule = sched
	}
	for i, raw := range env.Rules {
		r, err := UnmarshalRuleJSON(raw)
		if err != nil {
			return fmt.Errorf("conditionalRules[%d]: %w", i, err)
		}
		site.Rules = append(site.Rules, r)
	}
	*s = site
	return nil
}
