package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/reelhire/app"
	corefeed "github.com/CrestNiraj12/reelhire/core/feed"
	"github.com/CrestNiraj12/reelhire/domain"
)

type stubVideos struct {
	likeErr error
	calls   []string
}

func (s *stubVideos) FetchVideos(context.Context, app.FilterParams) (app.VideoPage, error) {
	return app.VideoPage{}, nil
}
func (s *stubVideos) FetchVideoStatus(context.Context, string) (app.StatusReport, error) {
	return app.StatusReport{}, nil
}
func (s *stubVideos) LikeVideo(_ context.Context, id string) error {
	s.calls = append(s.calls, "like:"+id)
	return s.likeErr
}
func (s *stubVideos) UnlikeVideo(_ context.Context, id string) error {
	s.calls = append(s.calls, "unlike:"+id)
	return nil
}
func (s *stubVideos) SaveVideo(_ context.Context, id string) error {
	s.calls = append(s.calls, "save:"+id)
	return nil
}
func (s *stubVideos) UnsaveVideo(_ context.Context, id string) error {
	s.calls = append(s.calls, "unsave:"+id)
	return nil
}
func (s *stubVideos) ShareVideo(_ context.Context, id, channel string) error {
	s.calls = append(s.calls, "share:"+id+":"+channel)
	return nil
}

type stubSharer struct {
	channel string
	err     error
	shared  int
}

func (s *stubSharer) Available() bool { return true }
func (s *stubSharer) Channel() string { return s.channel }
func (s *stubSharer) Share(context.Context, app.ShareRequest) error {
	s.shared++
	return s.err
}

var errBoom = errors.New("boom")

func makeVideos(n int) []domain.VideoRecord {
	out := make([]domain.VideoRecord, n)
	for i := range out {
		out[i] = domain.VideoRecord{
			ID:       fmt.Sprintf("v%d", i),
			MediaURL: fmt.Sprintf("https://cdn.example.com/v%d.mp4", i),
			Title:    fmt.Sprintf("Video %d", i),
			Owner:    domain.Owner{ID: "o1", DisplayName: "Ada"},
			Status:   domain.StatusCompleted,
		}
	}
	return out
}

// testClock is a settable clock for gesture timing.
type testClock struct{ t time.Time }

func (c *testClock) now() time.Time { return c.t }

func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestModel(svc app.VideoService, sharers ...app.Sharer) (Model, *testClock) {
	return newTestModelWith(Deps{Videos: svc, Sharers: sharers, CellHeightPx: 16})
}

func newTestModelWith(deps Deps) (Model, *testClock) {
	clock := &testClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := New(deps)
	m.now = clock.now
	m.loadFrames = func(context.Context, string, int, int) ([]string, error) {
		return []string{"frame-0", "frame-1"}, nil
	}
	m.thumbnail = func(context.Context, string, string, int, int) (string, error) {
		return "poster", nil
	}
	m.SetSize(80, 30)
	return m, clock
}

func openAt(m Model, videos []domain.VideoRecord, index int) Model {
	m, _ = m.Open(videos, index)
	return m
}

// settleCurrent delivers the latest settle ticket and the current video's frames.
func settleCurrent(m Model, seq uint64) Model {
	v, _ := m.ctrl.Current()
	m, _ = m.Update(SettleMsg{Ticket: corefeed.Ticket{Seq: seq, Index: m.ctrl.Index(), ID: v.ID}})
	m, _ = m.Update(FramesLoadedMsg{ID: v.ID, Src: v.MediaURL, Frames: []string{"a", "b"}})
	return m
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}
