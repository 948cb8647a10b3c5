// Package lazyload decides when off-screen media should start loading.
package lazyload

import (
	"math"
	"sort"
)

// Rect is an axis-aligned box in content coordinates.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) area() float64 { return math.Max(r.W, 0) * math.Max(r.H, 0) }

func (r Rect) expand(margin float64) Rect {
	return Rect{X: r.X - margin, Y: r.Y - margin, W: r.W + 2*margin, H: r.H + 2*margin}
}

// IntersectionRatio returns the share of target that lies inside viewport.
func IntersectionRatio(target, viewport Rect) float64 {
	left := math.Max(target.X, viewport.X)
	right := math.Min(target.X+target.W, viewport.X+viewport.W)
	top := math.Max(target.Y, viewport.Y)
	bottom := math.Min(target.Y+target.H, viewport.Y+viewport.H)
	if right < left || bottom < top {
		return 0
	}
	if target.area() == 0 {
		return 1
	}
	return (right - left) * (bottom - top) / target.area()
}

// Options configures an Observer.
type Options struct {
	Threshold  float64 // Minimum ratio counted as visible
	RootMargin float64 // Grows the viewport on every side before testing
	Once       bool    // Stop observing a target after it first becomes visible
}

// Event reports a visibility change of one target.
type Event struct {
	Key     string
	Visible bool
	Ratio   float64
}

type target struct {
	rect    Rect
	visible bool
}

// Observer tracks element rectangles and reports visibility transitions.
type Observer struct {
	opts    Options
	targets map[string]*target
}

// NewObserver creates an observer with the given options.
func NewObserver(opts Options) *Observer {
	if opts.Threshold < 0 {
		opts.Threshold = 0
	}
	if opts.Threshold > 1 {
		opts.Threshold = 1
	}
	return &Observer{opts: opts, targets: make(map[string]*target)}
}

// NewImageObserver returns the image defaults: threshold 0.1, trigger once.
func NewImageObserver(rootMargin float64) *Observer {
	return NewObserver(Options{Threshold: 0.1, RootMargin: rootMargin, Once: true})
}

// NewVideoObserver returns the video defaults: threshold 0.5, trigger once.
func NewVideoObserver() *Observer {
	return NewObserver(Options{Threshold: 0.5, Once: true})
}

// Observe starts tracking key at rect, or moves an already tracked target.
func (o *Observer) Observe(key string, rect Rect) {
	if t, ok := o.targets[key]; ok {
		t.rect = rect
		return
	}
	o.targets[key] = &target{rect: rect}
}

// Unobserve stops tracking key.
func (o *Observer) Unobserve(key string) {
	delete(o.targets, key)
}

// Observing reports whether key is tracked.
func (o *Observer) Observing(key string) bool {
	_, ok := o.targets[key]
	return ok
}

// Len returns the number of tracked targets.
func (o *Observer) Len() int { return len(o.targets) }

// Update tests every target against viewport and returns the transitions,
// ordered by key.
func (o *Observer) Update(viewport Rect) []Event {
	root := viewport.expand(o.opts.RootMargin)
	keys := make([]string, 0, len(o.targets))
	for k := range o.targets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var events []Event
	for _, k := range keys {
		t := o.targets[k]
		ratio := IntersectionRatio(t.rect, root)
		visible := ratio > 0 && ratio >= o.opts.Threshold
		if visible == t.visible {
			continue
		}
		t.visible = visible
		events = append(events, Event{Key: k, Visible: visible, Ratio: ratio})
		if visible && o.opts.Once {
			delete(o.targets, k)
		}
	}
	return events
}
