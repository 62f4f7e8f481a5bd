package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RuleType identifies the variant of a ConditionalRule.
type RuleType uint8

const (
	// RuleVisitsPerDay allows up to N qualifying visits per calendar day.
	RuleVisitsPerDay RuleType = iota
	// RuleTimeLimit allows up to N minutes of use per calendar day.
	RuleTimeLimit
)

// String returns the stable wire name of the rule type.
func (t RuleType) String() string {
	switch t {
	case RuleVisitsPerDay:
		return "visits_per_day"
	case RuleTimeLimit:
		return "time_limit"
	default:
		return fmt.Sprintf("RuleType(%d)", t)
	}
}

// ParseRuleType converts a wire name into a RuleType.
func ParseRuleType(s string) (RuleType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "visits_per_day":
		return RuleVisitsPerDay, nil
	case "time_limit":
		return RuleTimeLimit, nil
	default:
		return 0, fmt.Errorf("unsupported RuleType: %q", s)
	}
}

// ConditionalRule is a usage-quota policy. Rules express allowances: a site
// carrying one is only blocked once the quota is spent. A site may hold
// several; evaluation order is array order and the first enabled rule's
// verdict applies.
type ConditionalRule interface {
	Type() RuleType
	IsEnabled() bool
	Validate() error
}

// VisitsPerDay allows up to Max qualifying visits per calendar day.
type VisitsPerDay struct {
	Max     int
	Enabled bool
}

func (VisitsPerDay) Type() RuleType { return RuleVisitsPerDay }

func (r VisitsPerDay) IsEnabled() bool { return r.Enabled }

func (r VisitsPerDay) Validate() error {
	if r.Max < 1 {
		return fmt.Errorf("visits_per_day: max must be >= 1, got %d", r.Max)
	}
	return nil
}

// TimeLimit allows up to MaxMinutes of accumulated use per calendar day.
type TimeLimit struct {
	MaxMinutes int
	Enabled    bool
}

func (TimeLimit) Type() RuleType { return RuleTimeLimit }

func (r TimeLimit) IsEnabled() bool { return r.Enabled }

func (r TimeLimit) Validate() error {
	if r.MaxMinutes < 1 {
		return fmt.Errorf("time_limit: maxMinutes must be >= 1, got %d", r.MaxMinutes)
	}
	return nil
}

// ruleEnvelope is the wire form of a ConditionalRule: an explicit type
// discriminant plus type-specific fields.
type ruleEnvelope struct {
	Type       string `json:"type"`
	Max        int    `json:"max,omitempty"`
	MaxMinutes int    `json:"maxMinutes,omitempty"`
	Enabled    bool   `json:"enabled"`
}

// MarshalRuleJSON encodes a ConditionalRule as its tagged-union wire form.
func MarshalRuleJSON(r ConditionalRule) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("cannot marshal nil ConditionalRule")
	}
	env := ruleEnvelope{Type: r.Type().String(), Enabled: r.IsEnabled()}
	switch v := r.(type) {
	case VisitsPerDay:
		env.Max = v.Max
	case TimeLimit:
		env.MaxMinutes = v.MaxMinutes
	default:
		return nil, fmt.Errorf("unsupported ConditionalRule type %T", r)
	}
	return json.Marshal(env)
}

// UnmarshalRuleJSON decodes the tagged-union wire form into a ConditionalRule.
func UnmarshalRuleJSON(data []byte) (ConditionalRule, error) {
	var env ruleEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("rule: %w", err)
	}
	t, err := ParseRuleType(env.Type)
	if err != nil {
		return nil, fmt.Errorf("rule: %w", err)
	}
	switch t {
	case RuleVisitsPerDay:
		return VisitsPerDay{Max: env.Max, Enabled: env.Enabled}, nil
	case RuleTimeLimit:
		return TimeLimit{MaxMinutes: env.MaxMinutes, Enabled: env.Enabled}, nil
	default:
		return nil, fmt.Errorf("rule: unsupported type %q", env.Type)
	}
}
