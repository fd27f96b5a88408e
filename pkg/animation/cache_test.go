package animation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClip(name string) *Clip {
	return NewRotationClip(name, AxisY, EasingLinear, []Keyframe{
		{At: 0, Angle: 0},
		{At: time.Minute, Angle: 360},
	})
}

func TestClipCacheBuildsOnceVerifiesIdentity(t *testing.T) {
	cache := NewClipCache()
	defer cache.Close()

	builds := 0
	key := ClipKey("second", 6.0, 59.0)

	first, hit := cache.GetOrBuild(key, func() *Clip {
		builds++
		return testClip("second-catchup")
	})
	require.False(t, hit)

	second, hit := cache.GetOrBuild(key, func() *Clip {
		builds++
		return testClip("second-catchup")
	})
	assert.True(t, hit)
	assert.Same(t, first, second, "identical keys must reuse the same clip object")
	assert.Equal(t, 1, builds)
	assert.Equal(t, 1, cache.Len())
}

func TestClipCacheDistinctKeys(t *testing.T) {
	cache := NewClipCache()
	defer cache.Close()

	a, _ := cache.GetOrBuild(ClipKey("minute", 6.1, 3539), func() *Clip { return testClip("a") })
	b, _ := cache.GetOrBuild(ClipKey("minute", 6.2, 3538), func() *Clip { return testClip("b") })

	assert.NotSame(t, a, b)
	assert.Equal(t, 2, cache.Len())
}

func TestClipKeyStableAcrossEqualFloats(t *testing.T) {
	// Keys are formatted to fixed precision, so arithmetic that lands on
	// the same phase produces the same key even when the floats differ in
	// their last bits.
	computed := 61.0 / 3600.0 * 360.0
	assert.Equal(t, ClipKey("minute", 6.1, 3539), ClipKey("minute", computed, 3539))
}
