package animation

import (
	"fmt"
	"sync"

	"github.com/jellydator/ttlcache/v2"
)

// ClipKey composes the cache key for phase-identical clip data. Angles and
// durations are formatted to fixed precision so equal phase computations
// map to equal keys without relying on float identity.
func ClipKey(hand string, initAngle, catchUpSeconds float64) string {
	return fmt.Sprintf("%s/%.6f/%.6f", hand, initAngle, catchUpSeconds)
}

// ClipCache memoizes clips by structural key so repeated watch
// instantiation with identical phase reuses the same underlying data
// instead of rebuilding and re-registering it.
//
// The cache is owned by the shared asset container, not by any watch
// instance, so cached data outlives every individual watch. Entries never
// expire by time; they live until the container closes the cache.
type ClipCache struct {
	mu     sync.Mutex
	items  *ttlcache.Cache
	closed bool
}

// NewClipCache creates an empty cache.
func NewClipCache() *ClipCache {
	items := ttlcache.NewCache()
	// Entries are bounded by the container lifetime, not by time.
	_ = items.SetTTL(ttlcache.ItemNotExpire)
	items.SkipTTLExtensionOnHit(true)
	return &ClipCache{items: items}
}

// GetOrBuild returns the clip stored under key, invoking build and storing
// the result exactly once on first use. The boolean reports a cache hit.
// The check-then-insert step is atomic, so at most one clip ever exists
// per key even with concurrent callers.
func (c *ClipCache) GetOrBuild(key string, build func() *Clip) (*Clip, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, err := c.items.Get(key); err == nil {
		return v.(*Clip), true
	}
	clip := build()
	_ = c.items.Set(key, clip)
	return clip, false
}

// Len returns the number of cached clips.
func (c *ClipCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items.Count()
}

// Close releases all cached data. Called when the owning asset container
// unloads. Closing twice is a no-op.
func (c *ClipCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.items.Close()
}
