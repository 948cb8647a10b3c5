// Package viewport holds the pure window math behind the feed, the grid and
// any list that renders only the items intersecting its viewport.
package viewport

import "math"

// Window is an inclusive range of item indices. An empty window has End < Start.
type Window struct {
	Start int
	End   int
}

// Empty reports whether the window holds no items.
func (w Window) Empty() bool {
	return w.End < w.Start
}

// Len returns the number of indices in the window.
func (w Window) Len() int {
	if w.Empty() {
		return 0
	}
	return w.End - w.Start + 1
}

// Contains reports whether idx falls inside the window.
func (w Window) Contains(idx int) bool {
	return !w.Empty() && idx >= w.Start && idx <= w.End
}

var emptyWindow = Window{Start: 0, End: -1}

// ComputeLinearWindow returns the items of a fixed-height list that should be
// rendered for the given scroll position, padded by overscan items on each side.
func ComputeLinearWindow(itemCount int, itemHeight, scrollTop, viewportHeight float64, overscan int) Window {
	if itemCount <= 0 || itemHeight <= 0 {
		return emptyWindow
	}
	overscan = max(overscan, 0)
	scrollTop = math.Max(scrollTop, 0)
	viewportHeight = math.Max(viewportHeight, 0)

	start := max(0, int(math.Floor(scrollTop/itemHeight))-overscan)
	start = min(start, itemCount-1)
	visible := int(math.Ceil(viewportHeight / itemHeight))
	end := min(itemCount-1, start+visible+2*overscan)
	return Window{Start: start, End: end}
}
