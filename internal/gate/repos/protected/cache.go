package protected

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// lookupResult caches the outcome of one host lookup: whether the host is
// under any policy and, if so, which configured host matched.
type lookupResult struct {
	matched string
	ok      bool
}

// lookupCache caches lookup results by canonical host with basic metrics.
type lookupCache interface {
	Get(host string) (lookupResult, bool)
	Put(host string, r lookupResult)
	Len() int
	Purge()
	Stats() (hits, misses, evictions uint64)
}

// lruCache is an LRU-backed lookupCache tracking hits, misses, and
// evictions.
type lruCache struct {
	lru       *lru.Cache[string, lookupResult]
	hits      uint64
	misses    uint64
	evictions uint64
}

// disabledCache is a no-op lookupCache used when size <= 0.
type disabledCache struct{}

// newLookupCache creates a lookupCache with the given capacity. If size <= 0,
// a disabled no-op cache is returned that always misses and tracks no
// metrics.
func newLookupCache(size int) (lookupCache, error) {
	if size <= 0 {
		return &disabledCache{}, nil
	}

	var lc lruCache
	// Use NewWithEvict to observe evictions, including Purge-induced ones.
	cache, err := lru.NewWithEvict(size, func(_ string, _ lookupResult) {
		atomic.AddUint64(&lc.evictions, 1)
	})
	if err != nil {
		return nil, err
	}
	lc.lru = cache
	return &lc, nil
}

func (c *lruCache) Get(host string) (lookupResult, bool) {
	if val, ok := c.lru.Get(host); ok {
		atomic.AddUint64(&c.hits, 1)
		return val, true
	}
	atomic.AddUint64(&c.misses, 1)
	return lookupResult{}, false
}

func (c *lruCache) Put(host string, r lookupResult) {
	c.lru.Add(host, r)
}

func (c *lruCache) Len() int { return c.lru.Len() }

func (c *lruCache) Purge() { c.lru.Purge() }

func (c *lruCache) Stats() (hits, misses, evictions uint64) {
	return atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses), atomic.LoadUint64(&c.evictions)
}

func (d *disabledCache) Get(string) (lookupResult, bool) { return lookupResult{}, false }

func (d *disabledCache) Put(string, lookupResult) {}

func (d *disabledCache) Len() int { return 0 }

func (d *disabledCache) Purge() {}

func (d *disabledCache) Stats() (uint64, uint64, uint64) { return 0, 0, 0 }

var _ lookupCache = (*lruCache)(nil)
var _ lookupCache = (*disabledCache)(nil)
