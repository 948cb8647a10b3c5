package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDynamicWindow_UsesEstimateForUnmeasured(t *testing.T) {
	var cache HeightCache
	w := ComputeDynamicWindow(10, cache.Lookup, 0, 100, 40)
	assert.Equal(t, 0, w.Start)
	assert.Equal(t, 2, w.End)
	assert.Equal(t, 400.0, w.TotalHeight)
}

func TestComputeDynamicWindow_OffsetsStayContiguousAsMeasured(t *testing.T) {
	var cache HeightCache
	heights := []float64{10, 80, 25, 60, 5, 120, 33}
	for step := 0; step <= len(heights); step++ {
		for i := range step {
			cache.Set(i, heights[i])
		}
		w := ComputeDynamicWindow(len(heights), cache.Lookup, 50, 90, 30)
		require.Len(t, w.Offsets, len(heights)+1)
		for i := range heights {
			h, ok := cache.Lookup(i)
			if !ok {
				h = 30
			}
			require.InDelta(t, w.Offsets[i]+h, w.Offsets[i+1], 1e-9, "gap or overlap at %d", i)
		}
		require.Equal(t, w.Offsets[len(heights)], w.TotalHeight)
		require.LessOrEqual(t, w.Start, w.End)
		// The first rendered item must straddle or follow the scroll offset.
		require.Greater(t, w.Offsets[w.Start+1], 50.0)
		require.Less(t, w.Offsets[w.End], 140.0)
	}
	assert.Equal(t, len(heights), cache.Measured())
}

func TestComputeDynamicWindow_EdgeCases(t *testing.T) {
	w := ComputeDynamicWindow(0, nil, 0, 100, 20)
	assert.True(t, w.Empty())

	w = ComputeDynamicWindow(3, nil, 10_000, 100, 20)
	assert.Equal(t, 2, w.Start)
	assert.Equal(t, 2, w.End)

	var cache HeightCache
	cache.Set(0, -5)
	assert.Equal(t, 0, cache.Measured())
	cache.Set(1, 12)
	cache.Invalidate(1)
	assert.Equal(t, 0, cache.Measured())
}
