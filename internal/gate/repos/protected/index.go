// Package protected maintains the in-memory membership index answering "is
// this host under any policy". Navigation events arrive for every host the
// user touches, so lookups run a cache -> bloom -> snapshot pipeline: the
// Bloom filter early-allows unprotected hosts, the LRU caches repeat
// lookups, and the site snapshot is the authority. Rebuilds swap the whole
// snapshot atomically, never patching it incrementally.
package protected

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/sitegate/sitegate/internal/gate/common/hostutil"
	"github.com/sitegate/sitegate/internal/gate/domain"
)

// Stats exposes index-level counters for introspection.
type Stats struct {
	Sites     int
	Version   uint64
	CacheLen  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Index is the protected-site membership index. A configured host covers
// itself and every subdomain, but never an unrelated host that merely
// contains it as a substring.
type Index struct {
	mu      sync.RWMutex
	sites   map[string]domain.ProtectedSite
	bloom   *bloom.BloomFilter
	cache   lookupCache
	fpRate  float64
	version uint64
}

// NewIndex constructs an empty Index. cacheSize <= 0 disables the lookup
// cache; fpRate is the target false-positive rate of the Bloom pre-filter.
func NewIndex(cacheSize int, fpRate float64) (*Index, error) {
	cache, err := newLookupCache(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Index{
		sites:  make(map[string]domain.ProtectedSite),
		cache:  cache,
		fpRate: fpRate,
	}, nil
}

// Swap atomically replaces the site snapshot, rebuilds the Bloom filter
// sized for it, and purges the lookup cache.
func (ix *Index) Swap(sites []domain.ProtectedSite) {
	next := make(map[string]domain.ProtectedSite, len(sites))
	for _, s := range sites {
		next[hostutil.Canonical(s.Host)] = s
	}

	var bf *bloom.BloomFilter
	if len(next) > 0 {
		bf = bloom.NewWithEstimates(uint(len(next)), ix.fpRate)
		for host := range next {
			bf.Add([]byte(host))
		}
	}

	ix.mu.Lock()
	ix.sites = next
	ix.bloom = bf
	ix.version++
	ix.cache.Purge()
	ix.mu.Unlock()
}

// Lookup returns the site whose policy covers the host, preferring the most
// specific match (the host itself, then each parent at a label boundary).
func (ix *Index) Lookup(host string) (domain.ProtectedSite, bool) {
	cn := hostutil.Canonical(host)

	ix.mu.RLock()
	bf := ix.bloom
	ix.mu.RUnlock()

	// Definitive negative from the Bloom filter skips cache and snapshot.
	if bf == nil || !ix.mightMatch(bf, cn) {
		return domain.ProtectedSite{}, false
	}

	if r, ok := ix.cache.Get(cn); ok {
		if !r.ok {
			return domain.ProtectedSite{}, false
		}
		ix.mu.RLock()
		site, present := ix.sites[r.matched]
		ix.mu.RUnlock()
		if present {
			return site, true
		}
		// Cache raced a swap; fall through to the snapshot.
	}

	site, ok := ix.scan(cn)
	if ok {
		ix.cache.Put(cn, lookupResult{matched: site.Host, ok: true})
	} else {
		ix.cache.Put(cn, lookupResult{})
	}
	return site, ok
}

// Len returns the number of sites in the current snapshot.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.sites)
}

// Stats returns counters for the current snapshot and cache.
func (ix *Index) Stats() Stats {
	hits, misses, evictions := ix.cache.Stats()
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return Stats{
		Sites:     len(ix.sites),
		Version:   ix.version,
		CacheLen:  ix.cache.Len(),
		Hits:      hits,
		Misses:    misses,
		Evictions: evictions,
	}
}

// mightMatch tests the host and each parent suffix against the Bloom
// filter. False means definitely not protected; true means the snapshot
// must be consulted.
func (ix *Index) mightMatch(bf *bloom.BloomFilter, cn string) bool {
	for h := cn; h != ""; h = hostutil.ParentOf(h) {
		if bf.Test([]byte(h)) {
			return true
		}
	}
	return false
}

// scan walks the snapshot from the host down to its shortest parent suffix.
func (ix *Index) scan(cn string) (domain.ProtectedSite, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	for h := cn; h != ""; h = hostutil.ParentOf(h) {
		if site, ok := ix.sites[h]; ok {
			return site, true
		}
	}
	return domain.ProtectedSite{}, false
}
