// Package gesture turns vertical drags into discrete page navigation,
// including inertia ("fling") after the pointer is released.
//
// The engine owns no timers. Hosts call Step once per animation frame while
// Flinging, and use Generation to drop frames that belong to a cancelled fling.
package gesture

import "math"

// Phase is where the engine is within one interaction.
type Phase int

const (
	Idle Phase = iota
	Dragging
	Flinging
)

func (p Phase) String() string {
	switch p {
	case Dragging:
		return "dragging"
	case Flinging:
		return "flinging"
	default:
		return "idle"
	}
}

// Nav is the navigation a gesture resolved into.
type Nav int

const (
	NavNone Nav = iota
	NavNext
	NavPrev
)

// Config holds the physics constants. Units are px and ms.
type Config struct {
	VelocityThreshold float64 // |v| at release that starts a fling
	DistanceThreshold float64 // |delta| that counts as a page turn
	Decay             float64 // velocity multiplier per frame, in (0,1)
	StopThreshold     float64 // |v| under which a fling gives up
	FramePeriodMs     float64
}

// DefaultConfig returns the design values.
func DefaultConfig() Config {
	return Config{
		VelocityThreshold: 0.5,
		DistanceThreshold: 80,
		Decay:             0.95,
		StopThreshold:     0.5,
		FramePeriodMs:     16,
	}
}

func (c Config) sanitized() Config {
	d := DefaultConfig()
	if c.VelocityThreshold <= 0 {
		c.VelocityThreshold = d.VelocityThreshold
	}
	if c.DistanceThreshold <= 0 {
		c.DistanceThreshold = d.DistanceThreshold
	}
	if c.Decay <= 0 || c.Decay >= 1 {
		c.Decay = d.Decay
	}
	if c.StopThreshold <= 0 {
		c.StopThreshold = d.StopThreshold
	}
	if c.FramePeriodMs <= 0 {
		c.FramePeriodMs = d.FramePeriodMs
	}
	return c
}

// State is the per-interaction gesture state.
type State struct {
	StartY             float64
	LastY              float64
	LastTimestampMs    int64
	VelocityPxPerMs    float64
	IsDragging         bool
	AccumulatedDeltaPx float64
}

// Outcome is the result of releasing the pointer.
type Outcome struct {
	Nav        Nav
	Fling      bool   // The engine entered Flinging; the host must start stepping.
	Generation uint64 // Frames for this fling carry this generation.
}

// Engine is the drag/fling state machine for one feed.
type Engine struct {
	cfg        Config
	state      State
	phase      Phase
	generation uint64
}

// New creates an engine with the given constants. Zero fields take design values.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg.sanitized()}
}

// Config returns the constants in use.
func (e *Engine) Config() Config { return e.cfg }

// Phase returns the current phase.
func (e *Engine) Phase() Phase { return e.phase }

// State returns a copy of the gesture state.
func (e *Engine) State() State { return e.state }

// Generation identifies the current interaction. It changes on every press
// and every cancellation.
func (e *Engine) Generation() uint64 { return e.generation }

// Offset is the transform offset the host should apply to the slots.
func (e *Engine) Offset() float64 {
	if e.phase == Idle {
		return 0
	}
	return e.state.AccumulatedDeltaPx
}

// Press starts a new interaction. A running fling is cancelled first.
func (e *Engine) Press(y float64, nowMs int64) {
	if e.phase != Idle {
		e.Cancel()
	}
	e.generation++
	e.state = State{
		StartY:          y,
		LastY:           y,
		LastTimestampMs: nowMs,
		IsDragging:      true,
	}
	e.phase = Dragging
}

// Move records pointer movement. Ignored unless Dragging.
func (e *Engine) Move(y float64, nowMs int64) {
	if e.phase != Dragging {
		return
	}
	dy := y - e.state.LastY
	dt := max(nowMs-e.state.LastTimestampMs, 1)
	e.state.VelocityPxPerMs = dy / float64(dt)
	e.state.AccumulatedDeltaPx = y - e.state.StartY
	e.state.LastY = y
	e.state.LastTimestampMs = nowMs
}

// Release ends the drag. Slow releases resolve immediately by distance;
// fast ones enter Flinging and resolve through Step.
func (e *Engine) Release() Outcome {
	if e.phase != Dragging {
		return Outcome{}
	}
	e.state.IsDragging = false
	if math.Abs(e.state.VelocityPxPerMs) < e.cfg.VelocityThreshold {
		nav := e.navFor(e.state.AccumulatedDeltaPx)
		e.reset()
		return Outcome{Nav: nav, Generation: e.generation}
	}
	e.phase = Flinging
	return Outcome{Fling: true, Generation: e.generation}
}

// Step advances a fling by one frame. It returns the navigation fired on this
// frame, if any, and whether the fling is still running.
func (e *Engine) Step() (Nav, bool) {
	if e.phase != Flinging {
		return NavNone, false
	}
	next, nav, running := StepFling(e.state, e.cfg)
	if !running {
		e.reset()
		return nav, false
	}
	e.state = next
	return NavNone, true
}

// Cancel abandons the current interaction without navigating.
func (e *Engine) Cancel() {
	if e.phase == Idle {
		return
	}
	e.generation++
	e.reset()
}

func (e *Engine) reset() {
	e.state = State{}
	e.phase = Idle
}

func (e *Engine) navFor(delta float64) Nav {
	return navFor(delta, e.cfg.DistanceThreshold)
}

func navFor(delta, threshold float64) Nav {
	switch {
	case delta <= -threshold:
		return NavNext
	case delta >= threshold:
		return NavPrev
	default:
		return NavNone
	}
}

// StepFling is one frame of inertia: decay the velocity, integrate it into the
// accumulated delta, then either fire a navigation, stop, or keep running.
// It does not mutate its input.
func StepFling(s State, cfg Config) (State, Nav, bool) {
	cfg = cfg.sanitized()
	s.VelocityPxPerMs *= cfg.Decay
	s.AccumulatedDeltaPx += s.VelocityPxPerMs * cfg.FramePeriodMs
	if nav := navFor(s.AccumulatedDeltaPx, cfg.DistanceThreshold); nav != NavNone {
		return State{}, nav, false
	}
	if math.Abs(s.VelocityPxPerMs) < cfg.StopThreshold {
		return State{}, NavNone, false
	}
	return s, NavNone, true
}
