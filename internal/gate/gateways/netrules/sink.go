package netrules

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/sitegate/sitegate/internal/gate/domain"
)

// RuleSink is where compiled rule sets are installed. The real sink is the
// host platform's declarative matcher; installation always replaces the
// whole set, never patches it. A failed install must leave the previously
// installed set in place (fail static, never fail open).
type RuleSink interface {
	// Install atomically replaces the full rule set.
	Install(rules []domain.CompiledRule) error

	// Installed returns a copy of the currently installed rule set.
	Installed() []domain.CompiledRule
}

// compiledMatcher pairs an installed rule with its regexp matcher.
type compiledMatcher struct {
	rule domain.CompiledRule
	re   *regexp.Regexp
}

// MemorySink is an in-process RuleSink. It validates each rule and matches
// navigations with the regexp equivalent of the declarative pattern, making
// it usable both as a test double and as the enforcement point when no
// platform matcher is attached.
type MemorySink struct {
	mu       sync.RWMutex
	rules    []domain.CompiledRule
	matchers []compiledMatcher
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Install validates and swaps in the new rule set. On any validation error
// the previous set stays installed untouched.
func (s *MemorySink) Install(rules []domain.CompiledRule) error {
	matchers := make([]compiledMatcher, 0, len(rules))
	seen := make(map[int]struct{}, len(rules))
	for i, r := range rules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("rules[%d]: %w", i, err)
		}
		if _, dup := seen[r.ID]; dup {
			return fmt.Errorf("rules[%d]: duplicate rule id %d", i, r.ID)
		}
		seen[r.ID] = struct{}{}
		host, ok := hostFromPattern(r.Pattern)
		if !ok {
			return fmt.Errorf("rules[%d]: unsupported pattern %q", i, r.Pattern)
		}
		re, err := CompilePattern(host)
		if err != nil {
			return fmt.Errorf("rules[%d]: %w", i, err)
		}
		matchers = append(matchers, compiledMatcher{rule: r, re: re})
	}

	copied := make([]domain.CompiledRule, len(rules))
	copy(copied, rules)

	s.mu.Lock()
	s.rules = copied
	s.matchers = matchers
	s.mu.Unlock()
	return nil
}

// Installed returns a copy of the current rule set.
func (s *MemorySink) Installed() []domain.CompiledRule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CompiledRule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Match returns the first installed rule whose pattern matches the URL.
func (s *MemorySink) Match(url string) (domain.CompiledRule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.matchers {
		if m.re.MatchString(url) {
			return m.rule, true
		}
	}
	return domain.CompiledRule{}, false
}

// hostFromPattern extracts the host from an anchored "||host^" pattern.
func hostFromPattern(pattern string) (string, bool) {
	if len(pattern) < 4 || pattern[:2] != "||" || pattern[len(pattern)-1] != '^' {
		return "", false
	}
	return pattern[2 : len(pattern)-1], true
}

var _ RuleSink = (*MemorySink)(nil)
