package geo

import (
	"sync"
	"time"

	"github.com/swooby/swoo.by/internal/domain"
)

// DefaultCacheTTL is how long a cache epoch lasts before the whole cache is dropped.
const DefaultCacheTTL = 23 * time.Hour

// Cache maps client IPs to lookup results, nil results included.
// It is invalidated as a unit: once the current epoch is older than the TTL,
// the next access clears every entry and starts a new epoch.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*domain.GeoInfo
	epoch   time.Time
	ttl     time.Duration
	now     func() time.Time
}

// NewCache creates a cache whose first epoch starts now. A nil clock means time.Now.
func NewCache(ttl time.Duration, now func() time.Time) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Cache{
		entries: make(map[string]*domain.GeoInfo),
		epoch:   now(),
		ttl:     ttl,
		now:     now,
	}
}

// Get returns the cached result for ip. found is true for cached nil results too.
func (c *Cache) Get(ip string) (info *domain.GeoInfo, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.expireLocked()
	info, found = c.entries[ip]
	return info, found
}

// Put records the result for ip in the current epoch.
func (c *Cache) Put(ip string, info *domain.GeoInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.expireLocked()
	c.entries[ip] = info
}

// Len returns the number of cached IPs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Epoch returns the start of the current epoch.
func (c *Cache) Epoch() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.epoch
}

// TTL returns the epoch length.
func (c *Cache) TTL() time.Duration { return c.ttl }

func (c *Cache) expireLocked() {
	now := c.now()
	if now.Sub(c.epoch) > c.ttl {
		c.entries = make(map[string]*domain.GeoInfo)
		c.epoch = now
	}
}
