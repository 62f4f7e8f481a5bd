package router

import (
	"time"

	"github.com/sitegate/sitegate/internal/gate/domain"
)

// PolicySource supplies the current protected-site configuration. The
// engine re-reads it on every rebuild rather than trusting a cache: the
// host process may be torn down and restarted at any idle point, so the
// persisted configuration is the only durable truth.
type PolicySource interface {
	Sites() ([]domain.ProtectedSite, error)
}

// UsageStore persists usage counters and temporary whitelist entries.
type UsageStore interface {
	// Usage returns the counters for a host, empty when none exist.
	Usage(host string) (domain.UsageCounters, error)

	// RecordVisit durably increments the host's visit count for the
	// current calendar day and returns the counters as they stood before
	// the increment.
	RecordVisit(host string, at time.Time) (domain.UsageCounters, error)

	// AddTimeSpent accumulates minutes spent for the host's current day.
	AddTimeSpent(host string, minutes int, at time.Time) error

	// PutWhitelist stores or replaces a temporary whitelist entry.
	PutWhitelist(e domain.WhitelistEntry) error

	// Whitelist returns the entry for a host when one exists, expired or
	// not.
	Whitelist(host string) (domain.WhitelistEntry, bool, error)

	// AllWhitelist returns every stored whitelist entry.
	AllWhitelist() ([]domain.WhitelistEntry, error)

	// ExpireWhitelist purges entries no longer live at the given instant.
	ExpireWhitelist(now time.Time) (int, error)

	// SetMeta and Meta record and report the rebuild version/timestamp.
	SetMeta(version uint64, updatedUnix int64) error
	Meta() (version uint64, updatedUnix int64)
}

// SiteIndex answers "is this host under any policy" and holds the site
// snapshot rebuilds swap in.
type SiteIndex interface {
	Swap(sites []domain.ProtectedSite)
	Lookup(host string) (domain.ProtectedSite, bool)
}
