// Package hostutil provides host name normalization helpers shared by the
// policy loader, the protected-site index, and the enforcement router.
package hostutil

import (
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

// Canonical returns a host name in canonical form:
// - Lowercased
// - Trimmed of surrounding whitespace
// - No trailing dots
// - Punycode (ASCII) form for internationalized names
func Canonical(host string) string {
	host = strings.TrimSpace(host)
	host = strings.ToLower(host)
	for strings.HasSuffix(host, ".") {
		host = strings.TrimSuffix(host, ".")
	}
	if ascii, err := idna.Lookup.ToASCII(host); err == nil && ascii != "" {
		host = ascii
	}
	return host
}

// RegistrableDomain returns the eTLD+1 for a host, falling back to the
// canonical host itself when the public suffix list cannot resolve it
// (single-label hosts, intranet names).
func RegistrableDomain(host string) string {
	host = Canonical(host)
	apex, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return apex
}

// ParentOf strips the leftmost label from a host. Returns "" when there is
// no parent ("com" -> ""). Used for walking suffix candidates.
func ParentOf(host string) string {
	i := strings.IndexByte(host, '.')
	if i < 0 {
		return ""
	}
	return host[i+1:]
}
