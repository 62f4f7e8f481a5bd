// Package usagestore persists per-host usage counters and temporary
// whitelist entries in a Bolt database. It is the durable truth the engine
// re-reads on every operation; nothing is cached across invocations.
package usagestore

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/sitegate/sitegate/internal/gate/domain"
)

var (
	bucketUsage     = []byte("usage")
	bucketWhitelist = []byte("whitelist")
	bucketMeta      = []byte("meta")
)

// Store wraps a Bolt database holding usage counters and whitelist entries.
type Store struct {
	db *bbolt.DB
}

// New opens (or creates) a Bolt database at path and ensures buckets exist.
func New(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketUsage, bucketWhitelist, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// Usage returns the counters for a host, empty counters when none exist.
func (s *Store) Usage(host string) (domain.UsageCounters, error) {
	counters := domain.NewUsageCounters()
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketUsage).Get([]byte(host))
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &counters)
	})
	if err != nil {
		return domain.NewUsageCounters(), fmt.Errorf("read usage for %q: %w", host, err)
	}
	return counters, nil
}

// RecordVisit durably increments the visit count for the host's current
// calendar day and returns the counters as they stood BEFORE the increment.
// The write completes inside one transaction before this returns, so a
// block/allow decision derived from the returned counters is only treated
// as final once the increment is on disk.
func (s *Store) RecordVisit(host string, at time.Time) (domain.UsageCounters, error) {
	before := domain.NewUsageCounters()
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketUsage)
		counters := domain.NewUsageCounters()
		if v := b.Get([]byte(host)); v != nil {
			if err := json.Unmarshal(v, &counters); err != nil {
				return err
			}
		}
		before = snapshot(counters)
		counters.RecordVisit(at.Format("2006-01-02"), at)
		buf, err := json.Marshal(counters)
		if err != nil {
			return err
		}
		return b.Put([]byte(host), buf)
	})
	if err != nil {
		return domain.NewUsageCounters(), fmt.Errorf("record visit for %q: %w", host, err)
	}
	return before, nil
}

// AddTimeSpent accumulates minutes spent for the host's current calendar
// day.
func (s *Store) AddTimeSpent(host string, minutes int, at time.Time) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketUsage)
		counters := domain.NewUsageCounters()
		if v := b.Get([]byte(host)); v != nil {
			if err := json.Unmarshal(v, &counters); err != nil {
				return err
			}
		}
		counters.AddTime(at.Format("2006-01-02"), minutes)
		buf, err := json.Marshal(counters)
		if err != nil {
			return err
		}
		return b.Put([]byte(host), buf)
	})
	if err != nil {
		return fmt.Errorf("add time spent for %q: %w", host, err)
	}
	return nil
}

// PutWhitelist stores (or replaces) a temporary whitelist entry.
func (s *Store) PutWhitelist(e domain.WhitelistEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		buf, err := json.Marshal(e)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketWhitelist).Put([]byte(e.Host), buf)
	})
	if err != nil {
		return fmt.Errorf("put whitelist for %q: %w", e.Host, err)
	}
	return nil
}

// Whitelist returns an entry for the host when one exists, expired or not.
// Callers decide liveness against their own clock.
func (s *Store) Whitelist(host string) (domain.WhitelistEntry, bool, error) {
	var entry domain.WhitelistEntry
	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketWhitelist).Get([]byte(host))
		if v == nil {
			return nil
		}
		if err := json.Unmarshal(v, &entry); err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return domain.WhitelistEntry{}, false, fmt.Errorf("read whitelist for %q: %w", host, err)
	}
	return entry, found, nil
}

// AllWhitelist returns every stored whitelist entry.
func (s *Store) AllWhitelist() ([]domain.WhitelistEntry, error) {
	var entries []domain.WhitelistEntry
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketWhitelist).ForEach(func(_, v []byte) error {
			var e domain.WhitelistEntry
			if err := json.Unmarshal(v, &e); err != nil {
				return err
			}
			entries = append(entries, e)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("read whitelist: %w", err)
	}
	return entries, nil
}

// ExpireWhitelist deletes every entry no longer live at the given instant
// and returns how many were purged.
func (s *Store) ExpireWhitelist(now time.Time) (int, error) {
	purged := 0
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketWhitelist)
		var stale [][]byte
		if err := b.ForEach(func(k, v []byte) error {
			var e domain.WhitelistEntry
			if err := json.Unmarshal(v, &e); err != nil {
				// Unreadable entries are purged too rather than pinning a
				// host in the whitelist forever.
				stale = append(stale, append([]byte(nil), k...))
				return nil
			}
			if !e.Live(now) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		}); err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		purged = len(stale)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("expire whitelist: %w", err)
	}
	return purged, nil
}

// SetMeta records the rebuild version and timestamp.
func (s *Store) SetMeta(version uint64, updatedUnix int64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketMeta)
		vbuf := make([]byte, 8)
		ubuf := make([]byte, 8)
		binary.BigEndian.PutUint64(vbuf, version)
		binary.BigEndian.PutUint64(ubuf, uint64(updatedUnix))
		if err := b.Put([]byte("version"), vbuf); err != nil {
			return err
		}
		return b.Put([]byte("updated"), ubuf)
	})
}

// Meta returns the last recorded rebuild version and timestamp.
func (s *Store) Meta() (version uint64, updatedUnix int64) {
	_ = s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketMeta)
		if v := b.Get([]byte("version")); len(v) == 8 {
			version = binary.BigEndian.Uint64(v)
		}
		if v := b.Get([]byte("updated")); len(v) == 8 {
			updatedUnix = int64(binary.BigEndian.Uint64(v))
		}
		return nil
	})
	return version, updatedUnix
}

// snapshot deep-copies counters so the pre-increment view handed back by
// RecordVisit does not alias the map being mutated.
func snapshot(u domain.UsageCounters) domain.UsageCounters {
	out := u
	out.VisitsByDate = make(map[string]int, len(u.VisitsByDate))
	for k, v := range u.VisitsByDate {
		out.VisitsByDate[k] = v
	}
	if u.LastVisitTime != nil {
		t := *u.LastVisitTime
		out.LastVisitTime = &t
	}
	return out
}
