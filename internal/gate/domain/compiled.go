package domain

import "fmt"

const (
	// MinCompiledRuleID is the first ID in the range reserved for compiled
	// blocking rules in the host matcher.
	MinCompiledRuleID = 1000
	// MaxCompiledRuleID is the last reserved ID. Sites that would compile
	// beyond it are skipped and reported, non-fatally.
	MaxCompiledRuleID = 4999
)

// RuleAction is the action a compiled rule instructs the matcher to take.
type RuleAction uint8

const (
	// ActionBlock denies the navigation.
	ActionBlock RuleAction = iota
)

// String returns a stable string representation of the action.
func (a RuleAction) String() string {
	switch a {
	case ActionBlock:
		return "block"
	default:
		return fmt.Sprintf("RuleAction(%d)", a)
	}
}

// CompiledRule is a static matcher rule generated from a site's current
// schedule state. Compiled rules are ephemeral: each rebuild recomputes the
// whole set and swaps it wholesale, never diffing incrementally.
type CompiledRule struct {
	ID      int
	Pattern string
	Action  RuleAction
}

// NewCompiledRule constructs a CompiledRule and validates its fields.
func NewCompiledRule(id int, pattern string) (CompiledRule, error) {
	r := CompiledRule{ID: id, Pattern: pattern, Action: ActionBlock}
	if err := r.Validate(); err != nil {
		return CompiledRule{}, err
	}
	return r, nil
}

// Validate checks the rule ID against the reserved range.
func (r CompiledRule) Validate() error {
	if r.ID < MinCompiledRuleID || r.ID > MaxCompiledRuleID {
		return fmt.Errorf("rule id %d outside reserved range [%d,%d]", r.ID, MinCompiledRuleID, MaxCompiledRuleID)
	}
	if r.Pattern == "" {
		return fmt.Errorf("rule pattern must not be empty")
	}
	return nil
}
