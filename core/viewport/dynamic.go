package viewport

import "math"

// HeightFunc reports the measured height of item i, if known.
type HeightFunc func(i int) (float64, bool)

// HeightCache remembers measured item heights. The zero value is ready to use.
type HeightCache struct {
	heights map[int]float64
}

// Set records the measured height of item i. Non-positive heights are ignored.
func (c *HeightCache) Set(i int, h float64) {
	if h <= 0 {
		return
	}
	if c.heights == nil {
		c.heights = make(map[int]float64)
	}
	c.heights[i] = h
}

// Lookup implements HeightFunc.
func (c *HeightCache) Lookup(i int) (float64, bool) {
	h, ok := c.heights[i]
	return h, ok
}

// Invalidate forgets the height of item i.
func (c *HeightCache) Invalidate(i int) {
	delete(c.heights, i)
}

// Reset forgets every measurement.
func (c *HeightCache) Reset() {
	clear(c.heights)
}

// Measured returns the number of items with a known height.
func (c *HeightCache) Measured() int {
	return len(c.heights)
}

// DynamicWindow is a window over variable-height items.
// Offsets[i] is the top of item i; Offsets[count] equals TotalHeight.
type DynamicWindow struct {
	Window
	Offsets     []float64
	TotalHeight float64
}

// ComputeDynamicWindow returns the items intersecting the viewport when item
// heights vary. Unmeasured items count as estimatedHeight, so offsets stay
// contiguous as real measurements arrive.
func ComputeDynamicWindow(count int, heights HeightFunc, scrollTop, viewportHeight, estimatedHeight float64) DynamicWindow {
	if count <= 0 {
		return DynamicWindow{Window: emptyWindow, Offsets: []float64{0}}
	}
	if estimatedHeight <= 0 {
		estimatedHeight = 1
	}
	offsets := make([]float64, count+1)
	for i := range count {
		h := estimatedHeight
		if heights != nil {
			if measured, ok := heights(i); ok && measured > 0 {
				h = measured
			}
		}
		offsets[i+1] = offsets[i] + h
	}
	total := offsets[count]

	scrollTop = math.Min(math.Max(scrollTop, 0), total)
	bottom := scrollTop + math.Max(viewportHeight, 0)

	start := count - 1
	for i := range count {
		if offsets[i+1] > scrollTop {
			start = i
			break
		}
	}
	end := start
	for i := start + 1; i < count; i++ {
		if offsets[i] >= bottom {
			break
		}
		end = i
	}
	return DynamicWindow{
		Window:      Window{Start: start, End: end},
		Offsets:     offsets,
		TotalHeight: total,
	}
}
