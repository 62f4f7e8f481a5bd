// Package netrules builds the static match patterns consumed by the host
// platform's declarative request matcher, and defines the sink compiled
// rule sets are installed into.
package netrules

import (
	"fmt"
	"regexp"

	"github.com/sitegate/sitegate/internal/gate/common/hostutil"
)

// BuildPattern returns the declarative match pattern for a host, in the
// anchored filter syntax the platform matcher consumes: "||host^" matches
// the host and any subdomain over http/https at any path, and never an
// unrelated domain that merely contains the host as a substring.
func BuildPattern(host string) string {
	return "||" + hostutil.Canonical(host) + "^"
}

// CompilePattern returns a regular expression equivalent to the pattern
// BuildPattern emits, applied to full navigation URLs. Used by the
// in-process sink and by tests to verify matcher semantics:
// scheme://[anything.]host[:port][/anything], case-insensitive.
func CompilePattern(host string) (*regexp.Regexp, error) {
	cn := hostutil.Canonical(host)
	if cn == "" {
		return nil, fmt.Errorf("cannot build pattern for empty host")
	}
	expr := `(?i)^https?://(?:[^/:@]+\.)?` + regexp.QuoteMeta(cn) + `(?::\d+)?(?:/.*)?$`
	return regexp.Compile(expr)
}
