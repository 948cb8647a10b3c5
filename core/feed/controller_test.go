package feed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrestNiraj12/reelhire/app"
	"github.com/CrestNiraj12/reelhire/core/gesture"
	"github.com/CrestNiraj12/reelhire/core/media"
	"github.com/CrestNiraj12/reelhire/domain"
)

type fakeHandle struct {
	ready    bool
	failed   bool
	paused   bool
	muted    bool
	pos      time.Duration
	detached bool
	plays    int
}

func newFakeHandle(ready bool) *fakeHandle { return &fakeHandle{ready: ready, paused: true} }

func (h *fakeHandle) Play() error {
	h.plays++
	switch {
	case h.failed:
		return media.ErrPlayback
	case !h.ready:
		return media.ErrNotReady
	}
	h.paused = false
	return nil
}
func (h *fakeHandle) Pause()                     { h.paused = true }
func (h *fakeHandle) SeekTo(t time.Duration)     { h.pos = t }
func (h *fakeHandle) SetMuted(m bool)            { h.muted = m }
func (h *fakeHandle) CurrentTime() time.Duration { return h.pos }
func (h *fakeHandle) Paused() bool               { return h.paused }
func (h *fakeHandle) Muted() bool                { return h.muted }
func (h *fakeHandle) Detach()                    { h.detached = true; h.paused = true }

func videos(n int) []domain.VideoRecord {
	out := make([]domain.VideoRecord, n)
	for i := range out {
		out[i] = domain.VideoRecord{ID: fmt.Sprintf("v%d", i), Title: fmt.Sprintf("Video %d", i), Status: domain.StatusCompleted}
	}
	return out
}

func newController(t *testing.T, n int) (*Controller, map[string]*fakeHandle) {
	t.Helper()
	pool := media.NewPool(nil)
	handles := make(map[string]*fakeHandle)
	vs := videos(n)
	for _, v := range vs {
		h := newFakeHandle(true)
		handles[v.ID] = h
		pool.Mount(v.ID, v.MediaURL, h)
	}
	c := New(pool, Options{})
	c.SetVideos(vs)
	return c, handles
}

func TestGoToClampsAndNoops(t *testing.T) {
	c, _ := newController(t, 5)

	_, ok := c.GoTo(0)
	assert.False(t, ok, "same index is a no-op")

	tk, ok := c.GoTo(99)
	require.True(t, ok)
	assert.Equal(t, 4, c.Index())
	assert.Equal(t, Ticket{Seq: tk.Seq, Index: 4, ID: "v4"}, tk)

	tk, ok = c.GoTo(-3)
	require.True(t, ok)
	assert.Equal(t, 0, tk.Index)

	empty := New(media.NewPool(nil), Options{})
	_, ok = empty.GoTo(1)
	assert.False(t, ok)
}

func TestSettleRewindsMutesAndPlays(t *testing.T) {
	c, h := newController(t, 3)
	c.ToggleMute()
	h["v1"].pos = 5 * time.Second

	tk, ok := c.Next()
	require.True(t, ok)
	assert.False(t, c.IsPlaying(), "nothing plays before settle")

	require.True(t, c.Settle(tk))
	assert.Zero(t, h["v1"].pos)
	assert.True(t, h["v1"].muted)
	assert.True(t, c.IsPlaying())
	assert.False(t, c.Settle(tk), "a ticket settles once")
}

func TestStaleSettleNeverResumesWrongVideo(t *testing.T) {
	c, h := newController(t, 5)
	first, _ := c.GoTo(1)
	second, _ := c.GoTo(2)
	third, _ := c.GoTo(3)

	assert.False(t, c.Settle(first))
	assert.False(t, c.Settle(second))
	assert.Zero(t, h["v1"].plays)
	assert.Zero(t, h["v2"].plays)

	require.True(t, c.Settle(third))
	assert.Equal(t, []string{"v3"}, c.Pool().Playing())
}

func TestGoToPausesActiveBeforeMoving(t *testing.T) {
	c, h := newController(t, 3)
	tk, _ := c.Open(0)
	require.True(t, c.Settle(tk))
	require.False(t, h["v0"].paused)

	c.Next()
	assert.True(t, h["v0"].paused)
	assert.Empty(t, c.Pool().Playing())
}

func TestSingleActivePlayerProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for run := range 50 {
		c, _ := newController(t, 8)
		var tickets []Ticket
		for range 40 {
			switch rng.Intn(4) {
			case 0, 1:
				if tk, ok := c.GoTo(rng.Intn(10) - 1); ok {
					tickets = append(tickets, tk)
				}
			case 2:
				if len(tickets) > 0 {
					c.Settle(tickets[rng.Intn(len(tickets))])
				}
			case 3:
				c.TogglePlayPause()
			}
			require.LessOrEqual(t, len(c.Pool().Playing()), 1, "run %d", run)
		}
		if len(tickets) > 0 {
			c.Settle(tickets[len(tickets)-1])
		}
		playing := c.Pool().Playing()
		require.LessOrEqual(t, len(playing), 1)
		if len(playing) == 1 {
			cur, _ := c.Current()
			assert.Equal(t, cur.ID, playing[0])
		}
	}
}

func TestTogglePlayPauseReflectsHandle(t *testing.T) {
	c, h := newController(t, 2)
	tk, _ := c.Open(0)
	c.Settle(tk)
	require.True(t, c.IsPlaying())

	assert.False(t, c.TogglePlayPause())
	assert.True(t, h["v0"].paused)
	assert.False(t, c.WantsPlay())

	h["v0"].ready = false
	assert.False(t, c.TogglePlayPause(), "rejected play leaves the video paused")
	assert.False(t, c.IsPlaying())

	h["v0"].ready = true
	assert.True(t, c.MediaReady("v0"))
	assert.True(t, c.IsPlaying())
}

func TestAutoplayRejectionIsNotAnError(t *testing.T) {
	c, h := newController(t, 2)
	h["v1"].ready = false
	tk, _ := c.Next()
	require.True(t, c.Settle(tk))
	assert.False(t, c.IsPlaying())
	assert.NoError(t, c.SlotError("v1"))

	h["v1"].ready = true
	assert.False(t, c.MediaReady("v0"), "not the current video")
	assert.True(t, c.MediaReady("v1"))
	assert.Equal(t, []string{"v1"}, c.Pool().Playing())
}

func TestPlaybackFailureStaysInSlot(t *testing.T) {
	c, h := newController(t, 3)
	tk, _ := c.Next()
	h["v1"].failed = true
	c.Settle(tk)

	require.ErrorIs(t, c.SlotError("v1"), media.ErrPlayback)
	assert.Equal(t, 1, c.Index())

	c.PlaybackFailed("v1", errors.New("decoder crashed"))
	assert.EqualError(t, c.SlotError("v1"), "decoder crashed")
	assert.Equal(t, 1, c.Index())

	_, ok := c.Next()
	assert.True(t, ok, "user can still navigate away")
	c.ClearSlotError("v1")
	assert.NoError(t, c.SlotError("v1"))
}

func TestToggleMuteMirrorsHandle(t *testing.T) {
	c, h := newController(t, 1)
	assert.True(t, c.ToggleMute())
	assert.True(t, h["v0"].muted)
	assert.False(t, c.ToggleMute())
	assert.False(t, h["v0"].muted)
}

func TestSetVideosKeepsCurrentVideo(t *testing.T) {
	c, _ := newController(t, 5)
	c.GoTo(3)

	vs := videos(5)
	reordered := append([]domain.VideoRecord{vs[3]}, vs[0], vs[1])
	c.SetVideos(reordered)
	assert.Equal(t, 0, c.Index())

	c.SetVideos(videos(2)[1:])
	assert.Equal(t, 0, c.Index())
	c.SetVideos(nil)
	_, ok := c.Current()
	assert.False(t, ok)
}

func TestSlotWindow(t *testing.T) {
	c, _ := newController(t, 3)
	assert.Equal(t, SlotWindow{Prev: -1, Current: 0, Next: 1}, c.SlotWindow())
	assert.Equal(t, []string{"v0", "v1"}, c.MountedIDs())

	c.GoTo(1)
	assert.Equal(t, []int{0, 1, 2}, c.SlotWindow().Indices())
	c.GoTo(2)
	assert.Equal(t, SlotWindow{Prev: 1, Current: 2, Next: -1}, c.SlotWindow())

	empty := New(media.NewPool(nil), Options{})
	assert.Empty(t, empty.SlotWindow().Indices())
}

func TestWheelStepsOncePerEvent(t *testing.T) {
	c, _ := newController(t, 4)
	c.Wheel(3)
	c.Wheel(120)
	assert.Equal(t, 2, c.Index())
	c.Wheel(-1)
	assert.Equal(t, 1, c.Index())
	_, ok := c.Wheel(0)
	assert.False(t, ok)
}

func TestDragReleaseNavigates(t *testing.T) {
	c, _ := newController(t, 3)
	c.Press(400, 0)
	c.Move(350, 100)
	c.Move(300, 400)
	assert.Equal(t, -100.0, c.Offset())

	out, tk, ok := c.Release()
	require.True(t, ok)
	assert.False(t, out.Fling)
	assert.Equal(t, 1, tk.Index)
	assert.Zero(t, c.Offset())
}

func TestFlingStepsAndStaleGenerations(t *testing.T) {
	c, _ := newController(t, 3)
	c.Press(400, 0)
	c.Move(388, 16)
	out, _, ok := c.Release()
	require.False(t, ok)
	require.True(t, out.Fling)

	navs := 0
	for frame := 0; frame < 100; frame++ {
		_, navigated, running := c.Step(out.Generation)
		if navigated {
			navs++
		}
		if !running {
			break
		}
	}
	assert.Equal(t, 1, navs)
	assert.Equal(t, 1, c.Index())
	assert.Equal(t, gesture.Idle, c.Engine().Phase())

	c.Press(400, 1000)
	c.Move(380, 1010)
	stale := c.Engine().Generation()
	c.Release()
	c.Press(400, 2000)
	_, navigated, running := c.Step(stale)
	assert.False(t, navigated)
	assert.False(t, running)
}

func TestGoToCancelsFling(t *testing.T) {
	c, _ := newController(t, 4)
	c.Press(400, 0)
	c.Move(390, 10)
	out, _, _ := c.Release()
	require.True(t, out.Fling)

	c.GoTo(3)
	_, navigated, running := c.Step(out.Generation)
	assert.False(t, navigated)
	assert.False(t, running)
	assert.Equal(t, 3, c.Index())
}

func TestCloseReleasesEverything(t *testing.T) {
	c, h := newController(t, 3)
	tk, _ := c.Open(1)
	c.Close()
	assert.False(t, c.Settle(tk))
	for id, fh := range h {
		assert.True(t, fh.detached, id)
	}
	assert.Empty(t, c.Pool().IDs())
}

func TestLikeAndSaveNotices(t *testing.T) {
	c, _ := newController(t, 1)
	n := c.HandleLike("v0")
	assert.Equal(t, Notice{Kind: NoticeLike, VideoID: "v0", Active: true, Text: "Liked"}, n)
	assert.True(t, c.Liked("v0"))

	c.Revert(n)
	assert.False(t, c.Liked("v0"))

	n = c.HandleSave("v0")
	assert.True(t, n.Active)
	n = c.HandleSave("v0")
	assert.False(t, n.Active)
	assert.Equal(t, "Removed from saved", n.Text)
	assert.False(t, c.Saved("v0"))
}

type fakeSharer struct {
	channel   string
	available bool
	err       error
	got       []app.ShareRequest
}

func (s *fakeSharer) Available() bool { return s.available }
func (s *fakeSharer) Channel() string { return s.channel }
func (s *fakeSharer) Share(_ context.Context, req app.ShareRequest) error {
	s.got = append(s.got, req)
	return s.err
}

func TestHandleShareFallsBackToLink(t *testing.T) {
	native := &fakeSharer{channel: "native"}
	link := &fakeSharer{channel: "link", available: true}
	c := New(media.NewPool(nil), Options{Sharers: []app.Sharer{native, link}})
	v := domain.VideoRecord{ID: "v1", Title: "Intro", ShareURL: "https://reel.example/v/v1"}

	n, err := c.HandleShare(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, "Link copied", n.Text)
	assert.Empty(t, native.got)
	require.Len(t, link.got, 1)
	assert.Equal(t, "https://reel.example/v/v1", link.got[0].URL)

	native.available = true
	native.err = errors.New("no handler")
	n, err = c.HandleShare(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, "link", n.Channel)

	link.available = false
	_, err = c.HandleShare(context.Background(), v)
	require.ErrorContains(t, err, "no handler")

	native.available = false
	_, err = c.HandleShare(context.Background(), v)
	require.ErrorIs(t, err, ErrNoShareTarget)
}
