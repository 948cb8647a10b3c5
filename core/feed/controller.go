// Package feed is the full-screen video feed: one active video with its
// neighbours mounted, navigation by key, wheel or drag, and the rule that only
// one video ever plays.
//
// The controller holds no timers. Navigation returns a Ticket that the host
// hands back through Settle after SettleDelay, and fling frames are driven by
// the host calling Step with the generation it was given.
package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/CrestNiraj12/reelhire/app"
	"github.com/CrestNiraj12/reelhire/core/gesture"
	"github.com/CrestNiraj12/reelhire/core/media"
	"github.com/CrestNiraj12/reelhire/domain"
)

// DefaultSettleDelay gives a freshly mounted slot time to attach before
// seek and play are issued.
const DefaultSettleDelay = 120 * time.Millisecond

// ErrNoShareTarget is returned when no sharer is available.
var ErrNoShareTarget = errors.New("no share target available")

// Ticket identifies one pending settle. Only the most recent ticket settles.
type Ticket struct {
	Seq   uint64
	Index int
	ID    string
}

// Options configures a Controller.
type Options struct {
	SettleDelay time.Duration
	Gesture     gesture.Config
	Muted       bool
	// Sharers are tried in order; the first available one that succeeds wins.
	Sharers []app.Sharer
}

// Controller owns the feed state. It must only be used from one goroutine.
type Controller struct {
	videos   []domain.VideoRecord
	index    int
	wantPlay bool
	muted    bool
	settled  bool

	liked   map[string]bool
	saved   map[string]bool
	slotErr map[string]error

	pool    *media.Pool
	engine  *gesture.Engine
	sharers []app.Sharer

	settleDelay time.Duration
	settleSeq   uint64
}

// New creates a controller playing through pool.
func New(pool *media.Pool, opts Options) *Controller {
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = DefaultSettleDelay
	}
	return &Controller{
		wantPlay:    true,
		muted:       opts.Muted,
		liked:       make(map[string]bool),
		saved:       make(map[string]bool),
		slotErr:     make(map[string]error),
		pool:        pool,
		engine:      gesture.New(opts.Gesture),
		sharers:     opts.Sharers,
		settleDelay: opts.SettleDelay,
	}
}

// SettleDelay is how long the host waits before calling Settle.
func (c *Controller) SettleDelay() time.Duration { return c.settleDelay }

// Pool returns the media pool the controller activates.
func (c *Controller) Pool() *media.Pool { return c.pool }

// Engine returns the gesture engine.
func (c *Controller) Engine() *gesture.Engine { return c.engine }

// Videos returns the current sequence. Callers must not modify it.
func (c *Controller) Videos() []domain.VideoRecord { return c.videos }

// Len returns the number of videos.
func (c *Controller) Len() int { return len(c.videos) }

// Index returns the current index.
func (c *Controller) Index() int { return c.index }

// Current returns the video at the current index.
func (c *Controller) Current() (domain.VideoRecord, bool) {
	if c.index < 0 || c.index >= len(c.videos) {
		return domain.VideoRecord{}, false
	}
	return c.videos[c.index], true
}

// IsPlaying reports whether the active handle is actually playing.
func (c *Controller) IsPlaying() bool {
	h, ok := c.activeHandle()
	return ok && !h.Paused()
}

// WantsPlay reports whether playback should resume once media is ready.
func (c *Controller) WantsPlay() bool { return c.wantPlay }

// IsMuted mirrors the mute state of the active handle.
func (c *Controller) IsMuted() bool { return c.muted }

// Settled reports whether the last navigation has settled.
func (c *Controller) Settled() bool { return c.settled }

// SetVideos replaces the sequence. The current video keeps its place when it
// is still present; otherwise the index is clamped.
func (c *Controller) SetVideos(videos []domain.VideoRecord) {
	var currentID string
	if v, ok := c.Current(); ok {
		currentID = v.ID
	}
	c.videos = videos
	if currentID != "" {
		for i, v := range videos {
			if v.ID == currentID {
				c.index = i
				return
			}
		}
	}
	c.index = clamp(c.index, len(videos))
}

// Open jumps straight to index and issues the first settle ticket. Unlike
// GoTo it also fires when index is already current.
func (c *Controller) Open(index int) (Ticket, bool) {
	if len(c.videos) == 0 {
		return Ticket{}, false
	}
	c.engine.Cancel()
	c.pool.PauseAll()
	c.index = clamp(index, len(c.videos))
	return c.issueTicket(), true
}

// GoTo moves to target, clamped to the sequence. It cancels any fling, pauses
// playback and returns the settle ticket for the new index. It reports false
// when nothing changed.
func (c *Controller) GoTo(target int) (Ticket, bool) {
	if len(c.videos) == 0 {
		return Ticket{}, false
	}
	target = clamp(target, len(c.videos))
	if target == c.index {
		return Ticket{}, false
	}
	c.engine.Cancel()
	c.pool.PauseAll()
	c.index = target
	return c.issueTicket(), true
}

// Next moves one video forward.
func (c *Controller) Next() (Ticket, bool) { return c.GoTo(c.index + 1) }

// Prev moves one video back.
func (c *Controller) Prev() (Ticket, bool) { return c.GoTo(c.index - 1) }

// Wheel navigates one step per event. Positive delta scrolls down.
func (c *Controller) Wheel(delta float64) (Ticket, bool) {
	switch {
	case delta > 0:
		return c.Next()
	case delta < 0:
		return c.Prev()
	}
	return Ticket{}, false
}

func (c *Controller) issueTicket() Ticket {
	c.settleSeq++
	c.settled = false
	t := Ticket{Seq: c.settleSeq, Index: c.index}
	if v, ok := c.Current(); ok {
		t.ID = v.ID
	}
	return t
}

// Settle completes a navigation: rewind the active handle, apply mute and
// resume playback if wanted. Stale tickets are ignored and report false.
func (c *Controller) Settle(t Ticket) bool {
	if t.Seq != c.settleSeq || c.settled {
		return false
	}
	c.settled = true
	h, ok := c.activeHandle()
	if !ok {
		return true
	}
	h.SeekTo(0)
	h.SetMuted(c.muted)
	if c.wantPlay {
		c.activate()
	}
	return true
}

// MediaReady is called when the handle for id finished loading. A settled
// current video that should be playing starts now.
func (c *Controller) MediaReady(id string) bool {
	v, ok := c.Current()
	if !ok || v.ID != id || !c.settled || !c.wantPlay {
		return false
	}
	if h, ok := c.activeHandle(); ok {
		h.SetMuted(c.muted)
	}
	return c.activate() == nil
}

func (c *Controller) activate() error {
	v, _ := c.Current()
	err := c.pool.Activate(v.ID)
	if errors.Is(err, media.ErrPlayback) || errors.Is(err, media.ErrDetached) {
		c.slotErr[v.ID] = err
	}
	return err
}

// TogglePlayPause pauses a playing video or tries to play a paused one. The
// returned state is what the handle actually reports afterwards.
func (c *Controller) TogglePlayPause() bool {
	h, ok := c.activeHandle()
	if !ok {
		c.wantPlay = !c.wantPlay
		return false
	}
	if !h.Paused() {
		h.Pause()
		c.wantPlay = false
		return false
	}
	c.wantPlay = true
	err := c.activate()
	if err != nil && !errors.Is(err, media.ErrNotReady) {
		c.wantPlay = false
	}
	return !h.Paused()
}

// ToggleMute flips mute on the active handle and mirrors it.
func (c *Controller) ToggleMute() bool {
	c.muted = !c.muted
	if h, ok := c.activeHandle(); ok {
		h.SetMuted(c.muted)
		c.muted = h.Muted()
	}
	return c.muted
}

// PlaybackFailed marks the slot for id as broken. The index does not move.
func (c *Controller) PlaybackFailed(id string, err error) {
	if err == nil {
		err = media.ErrPlayback
	}
	c.slotErr[id] = err
	if h, ok := c.pool.Get(id); ok {
		h.Pause()
	}
}

// SlotError returns the playback error recorded for id.
func (c *Controller) SlotError(id string) error { return c.slotErr[id] }

// ClearSlotError forgets the playback error for id, for a manual retry.
func (c *Controller) ClearSlotError(id string) { delete(c.slotErr, id) }

func (c *Controller) activeHandle() (media.Handle, bool) {
	v, ok := c.Current()
	if !ok {
		return nil, false
	}
	return c.pool.Get(v.ID)
}

// Close cancels gestures, invalidates pending tickets and releases every
// mounted handle.
func (c *Controller) Close() {
	c.engine.Cancel()
	c.settleSeq++
	c.settled = false
	c.pool.ReleaseAll()
}

// HandleShare hands v to the first available sharer, falling back through
// the list on failure.
func (c *Controller) HandleShare(ctx context.Context, v domain.VideoRecord) (Notice, error) {
	req := app.ShareRequest{VideoID: v.ID, Title: v.Title, URL: v.ShareURL}
	if req.URL == "" {
		req.URL = v.MediaURL
	}
	var errs []error
	for _, s := range c.sharers {
		if s == nil || !s.Available() {
			continue
		}
		if err := s.Share(ctx, req); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Channel(), err))
			continue
		}
		return Notice{Kind: NoticeShare, VideoID: v.ID, Active: true, Channel: s.Channel(), Text: shareText(s.Channel())}, nil
	}
	if len(errs) == 0 {
		return Notice{}, ErrNoShareTarget
	}
	return Notice{}, errors.Join(errs...)
}

func shareText(channel string) string {
	if channel == "link" {
		return "Link copied"
	}
	return "Shared"
}

func clamp(i, n int) int {
	if n == 0 {
		return 0
	}
	return min(max(i, 0), n-1)
}
