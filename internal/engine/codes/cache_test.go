package codes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKey(t *testing.T) {
	base := CacheKey("a", "b", 0, "skip2")
	assert.Equal(t, base, CacheKey("a", "b", 0, "skip2"))
	assert.NotEqual(t, base, CacheKey("ab", "", 0, "skip2"))
	assert.NotEqual(t, base, CacheKey("a", "b", 12, "skip2"))
	assert.NotEqual(t, base, CacheKey("a", "b", 0, "boombuler"))
}

func TestRenderCache(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		c := NewRenderCache(time.Minute, 10)
		c.Set("k", &Rendered{PNG: []byte{1, 2}, Width: 3, Height: 4, SHA256: "s"})

		got, ok := c.Get("k")
		require.True(t, ok)
		assert.True(t, got.CacheHit)
		assert.Equal(t, []byte{1, 2}, got.PNG)
		assert.Equal(t, 3, got.Width)
		assert.Equal(t, int64(1), c.Len())

		_, ok = c.Get("other")
		assert.False(t, ok)
	})

	t.Run("expires", func(t *testing.T) {
		c := NewRenderCache(time.Millisecond, 10)
		c.Set("k", &Rendered{})
		time.Sleep(5 * time.Millisecond)

		_, ok := c.Get("k")
		assert.False(t, ok)
		assert.Equal(t, int64(0), c.Len())
	})

	t.Run("disabled", func(t *testing.T) {
		c := NewRenderCache(0, 10)
		c.Set("k", &Rendered{})
		_, ok := c.Get("k")
		assert.False(t, ok)

		var nilCache *RenderCache
		nilCache.Set("k", &Rendered{})
		_, ok = nilCache.Get("k")
		assert.False(t, ok)
		assert.Equal(t, int64(0), nilCache.Len())
	})

	t.Run("bounded", func(t *testing.T) {
		c := NewRenderCache(time.Minute, 2)
		c.Set("a", &Rendered{})
		c.Set("b", &Rendered{})
		c.Set("c", &Rendered{})
		c.Set("c", &Rendered{})

		assert.Equal(t, int64(2), c.Len())
		_, ok := c.Get("c")
		assert.True(t, ok, "newest entry is kept")
	})
}
