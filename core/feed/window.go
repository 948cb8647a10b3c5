package feed

import "github.com/CrestNiraj12/reelhire/core/gesture"

// Slot positions in the three-slot window.
type Slot int

const (
	SlotPrev Slot = iota
	SlotCurrent
	SlotNext
)

// SlotWindow holds the indices mounted around the current video. Prev and
// Next are -1 at the ends of the sequence.
type SlotWindow struct {
	Prev, Current, Next int
}

// Indices returns the mounted indices in order.
func (w SlotWindow) Indices() []int {
	out := make([]int, 0, 3)
	for _, i := range []int{w.Prev, w.Current, w.Next} {
		if i >= 0 {
			out = append(out, i)
		}
	}
	return out
}

// SlotWindow returns the prev/current/next indices. Current is -1 when the
// feed is empty.
func (c *Controller) SlotWindow() SlotWindow {
	n := len(c.videos)
	if n == 0 {
		return SlotWindow{Prev: -1, Current: -1, Next: -1}
	}
	w := SlotWindow{Prev: -1, Current: c.index, Next: -1}
	if c.index > 0 {
		w.Prev = c.index - 1
	}
	if c.index < n-1 {
		w.Next = c.index + 1
	}
	return w
}

// MountedIDs returns the ids that should have handles right now.
func (c *Controller) MountedIDs() []string {
	idx := c.SlotWindow().Indices()
	ids := make([]string, 0, len(idx))
	for _, i := range idx {
		ids = append(ids, c.videos[i].ID)
	}
	return ids
}

// Offset is the drag transform in pixels; zero when no gesture is active.
func (c *Controller) Offset() float64 { return c.engine.Offset() }

// Press starts a drag at y.
func (c *Controller) Press(y float64, nowMs int64) { c.engine.Press(y, nowMs) }

// Move continues a drag.
func (c *Controller) Move(y float64, nowMs int64) { c.engine.Move(y, nowMs) }

// Release ends a drag. Either it navigates right away, or the returned
// outcome asks the host to start stepping a fling.
func (c *Controller) Release() (gesture.Outcome, Ticket, bool) {
	out := c.engine.Release()
	t, ok := c.navigate(out.Nav)
	return out, t, ok
}

// Step advances the fling identified by gen by one frame. Frames of a
// cancelled fling are ignored. running reports whether the host should
// schedule another frame.
func (c *Controller) Step(gen uint64) (t Ticket, navigated, running bool) {
	if gen != c.engine.Generation() || c.engine.Phase() != gesture.Flinging {
		return Ticket{}, false, false
	}
	nav, running := c.engine.Step()
	t, navigated = c.navigate(nav)
	return t, navigated, running
}

func (c *Controller) navigate(nav gesture.Nav) (Ticket, bool) {
	switch nav {
	case gesture.NavNext:
		return c.Next()
	case gesture.NavPrev:
		return c.Prev()
	}
	return Ticket{}, false
}
