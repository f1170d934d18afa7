package timingcache

import (
	"context"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/yanqian/prayer-api/internal/domain/prayer"
)

type entry struct {
	set       prayer.TimeSet
	expiresAt time.Time
}

// MemoryCache keeps time sets in a sharded in-process map.
type MemoryCache struct {
	entries cmap.ConcurrentMap[string, entry]
	now     func() time.Time
}

// NewMemoryCache constructs an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: cmap.New[entry](),
		now:     time.Now,
	}
}

// Get implements prayer.TimingsCache. Expired entries are evicted on read.
func (c *MemoryCache) Get(_ context.Context, key string) (prayer.TimeSet, bool, error) {
	e, ok := c.entries.Get(key)
	if !ok {
		return prayer.TimeSet{}, false, nil
	}
	if c.expired(e) {
		c.entries.RemoveCb(key, func(_ string, current entry, exists bool) bool {
			return exists && c.expired(current)
		})
		return prayer.TimeSet{}, false, nil
	}
	return e.set, true, nil
}

// Set implements prayer.TimingsCache. A non-positive ttl never expires.
func (c *MemoryCache) Set(_ context.Context, key string, set prayer.TimeSet, ttl time.Duration) error {
	var exp time.Time
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	c.entries.Set(key, entry{set: set, expiresAt: exp})
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	return c.entries.Count()
}

func (c *MemoryCache) expired(e entry) bool {
	return !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt)
}

var _ prayer.TimingsCache = (*MemoryCache)(nil)
