package domain

import (
	"fmt"
	"strings"
	"time"
)

// WhitelistEntry is a time-boxed override suspending enforcement for one
// host. Entries are created by an explicit user action and purged by a
// periodic sweep once expired.
type WhitelistEntry struct {
	Host      string    `json:"host"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// NewWhitelistEntry constructs a WhitelistEntry and validates its fields.
func NewWhitelistEntry(host string, expiresAt time.Time) (WhitelistEntry, error) {
	e := WhitelistEntry{Host: strings.TrimSpace(host), ExpiresAt: expiresAt}
	if err := e.Validate(); err != nil {
		return WhitelistEntry{}, err
	}
	return e, nil
}

// Validate checks the entry for required fields.
func (e WhitelistEntry) Validate() error {
	if e.Host == "" {
		return fmt.Errorf("host: must not be empty")
	}
	if e.ExpiresAt.IsZero() {
		return fmt.Errorf("expiresAt: must be set")
	}
	return nil
}

// Live reports whether the entry is still in effect at the given instant.
func (e WhitelistEntry) Live(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}
