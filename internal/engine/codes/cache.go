package codes

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

type cachedRender struct {
	rendered Rendered
	cachedAt time.Time
}

// RenderCache keeps recently rendered PNGs in memory. A zero ttl disables it.
type RenderCache struct {
	store      sync.Map // map[key]*cachedRender
	ttl        time.Duration
	maxEntries int
	entries    atomic.Int64
}

func NewRenderCache(ttl time.Duration, maxEntries int) *RenderCache {
	return &RenderCache{
		ttl:        ttl,
		maxEntries: maxEntries,
	}
}

// CacheKey identifies a render by every input that affects its pixels.
func CacheKey(content, label string, fontSize int, encoder string) string {
	h := sha256.New()
	for _, part := range []string{content, label, strconv.Itoa(fontSize), encoder} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (c *RenderCache) Get(key string) (*Rendered, bool) {
	if c == nil || c.ttl <= 0 {
		return nil, false
	}

	val, ok := c.store.Load(key)
	if !ok {
		return nil, false
	}

	cached := val.(*cachedRender)
	if time.Since(cached.cachedAt) > c.ttl {
		if _, loaded := c.store.LoadAndDelete(key); loaded {
			c.entries.Add(-1)
		}
		return nil, false
	}

	rendered := cached.rendered
	rendered.CacheHit = true
	return &rendered, true
}

func (c *RenderCache) Set(key string, rendered *Rendered) {
	if c == nil || c.ttl <= 0 {
		return
	}

	cached := &cachedRender{
		rendered: *rendered,
		cachedAt: time.Now(),
	}
	cached.rendered.CacheHit = false

	if _, loaded := c.store.Swap(key, cached); loaded {
		return
	}
	if n := c.entries.Add(1); c.maxEntries > 0 && n > int64(c.maxEntries) {
		c.evictOne(key)
	}
}

// evictOne drops an arbitrary entry other than keep.
func (c *RenderCache) evictOne(keep string) {
	c.store.Range(func(k, _ interface{}) bool {
		if k.(string) == keep {
			return true
		}
		if _, loaded := c.store.LoadAndDelete(k); loaded {
			c.entries.Add(-1)
		}
		return false
	})
}

func (c *RenderCache) Len() int64 {
	if c == nil {
		return 0
	}
	return c.entries.Load()
}
