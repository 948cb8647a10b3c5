package tui

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/reelhire/app"
	"github.com/CrestNiraj12/reelhire/domain"
	"github.com/CrestNiraj12/reelhire/infra/config"
	"github.com/CrestNiraj12/reelhire/tui/feed"
	"github.com/CrestNiraj12/reelhire/tui/grid"
	"github.com/CrestNiraj12/reelhire/tui/upload"
)

type stubVideos struct{}

func (stubVideos) FetchVideos(context.Context, app.FilterParams) (app.VideoPage, error) {
	return app.VideoPage{}, nil
}
func (stubVideos) FetchVideoStatus(context.Context, string) (app.StatusReport, error) {
	return app.StatusReport{}, nil
}
func (stubVideos) LikeVideo(context.Context, string) error          { return nil }
func (stubVideos) UnlikeVideo(context.Context, string) error        { return nil }
func (stubVideos) SaveVideo(context.Context, string) error          { return nil }
func (stubVideos) UnsaveVideo(context.Context, string) error        { return nil }
func (stubVideos) ShareVideo(context.Context, string, string) error { return nil }

type stubUploads struct {
	mu        sync.Mutex
	ch        chan []domain.VideoRecord
	added     []domain.UploadDraft
	submitted []string
	removed   []string
}

func newStubUploads() *stubUploads {
	return &stubUploads{ch: make(chan []domain.VideoRecord, 1)}
}

func (s *stubUploads) Subscribe() (<-chan []domain.VideoRecord, func()) {
	return s.ch, func() {}
}

func (s *stubUploads) AddLocalVideo(d domain.UploadDraft) (domain.VideoRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.added = append(s.added, d)
	return domain.VideoRecord{ID: "tmp-1", Title: d.Title, Status: domain.StatusUploading, IsLocal: true}, nil
}

func (s *stubUploads) Submit(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitted = append(s.submitted, id)
	return nil
}

func (s *stubUploads) RetryUpload(context.Context, string) error { return nil }

func (s *stubUploads) RemoveVideo(id string) error {
	s.removed = append(s.removed, id)
	return nil
}

func newTestApp(t *testing.T, ups *stubUploads) App {
	t.Helper()
	a := NewApp(Deps{
		Videos:    stubVideos{},
		Uploads:   ups,
		StatePath: filepath.Join(t.TempDir(), "ui_state.json"),
	})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m.(App)
}

func step(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := a.Update(msg)
	return m.(App), cmd
}

func TestApp_UploadsChangedReachesGridAndList(t *testing.T) {
	a := newTestApp(t, newStubUploads())
	local := []domain.VideoRecord{{ID: "tmp-1", Title: "Mine", Status: domain.StatusUploading, IsLocal: true}}

	a, cmd := step(t, a, UploadsChangedMsg{Videos: local})
	if cmd == nil {
		t.Fatalf("expected the subscription to be re-armed")
	}
	if items := a.grid.Items(); len(items) != 1 || items[0].ID != "tmp-1" {
		t.Fatalf("grid did not show local record: %+v", items)
	}
	if len(a.list.Records()) != 1 {
		t.Fatalf("uploads list did not receive record")
	}
}

func TestApp_SubmitStagesAndUploads(t *testing.T) {
	ups := newStubUploads()
	a := newTestApp(t, ups)
	a, _ = step(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}})
	if a.active != formView {
		t.Fatalf("expected upload form, got %v", a.active)
	}

	draft := domain.UploadDraft{FilePath: "/tmp/intro.mp4", Title: "Intro"}
	a, cmd := step(t, a, upload.SubmitMsg{Draft: draft})
	if a.active != gridView {
		t.Fatalf("expected to return to grid")
	}
	if len(ups.added) != 1 || ups.added[0].Title != "Intro" {
		t.Fatalf("draft not staged: %+v", ups.added)
	}
	msg := cmd()
	if len(ups.submitted) != 1 || ups.submitted[0] != "tmp-1" {
		t.Fatalf("upload not submitted: %+v", ups.submitted)
	}
	a, _ = step(t, a, msg)
	if a.statusErr || a.status == "" {
		t.Fatalf("unexpected status %q", a.status)
	}
}

func TestApp_FeedRoundTripRestoresCursor(t *testing.T) {
	a := newTestApp(t, newStubUploads())
	videos := []domain.VideoRecord{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}, {ID: "c", Title: "C"}}
	a, _ = step(t, a, UploadsChangedMsg{Videos: videos})

	a, _ = step(t, a, grid.OpenFeedMsg{Videos: videos, Index: 0})
	if a.active != feedView || !a.feed.IsOpen() {
		t.Fatalf("feed did not open")
	}
	a, _ = step(t, a, tea.KeyMsg{Type: tea.KeyDown})
	a, _ = step(t, a, tea.KeyMsg{Type: tea.KeyDown})
	a, cmd := step(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	closed, ok := cmd().(feed.ClosedMsg)
	if !ok {
		t.Fatalf("expected ClosedMsg")
	}
	a, _ = step(t, a, closed)
	if a.active != gridView || a.grid.Cursor() != 2 {
		t.Fatalf("expected grid at 2, got view %v cursor %d", a.active, a.grid.Cursor())
	}
}

func TestApp_QuitSavesMutePreference(t *testing.T) {
	a := newTestApp(t, newStubUploads())
	videos := []domain.VideoRecord{{ID: "a", Title: "A"}}
	a, _ = step(t, a, grid.OpenFeedMsg{Videos: videos, Index: 0})
	a, _ = step(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}})
	_, cmd := step(t, a, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected quit")
	}

	st, err := config.LoadUIState(a.deps.StatePath)
	if err != nil {
		t.Fatal(err)
	}
	if !st.Muted {
		t.Fatalf("expected muted to be saved")
	}
}

func TestApp_RemoveFromUploadsList(t *testing.T) {
	ups := newStubUploads()
	a := newTestApp(t, ups)
	a, _ = step(t, a, UploadsChangedMsg{Videos: []domain.VideoRecord{{ID: "srv-1", Title: "A", IsLocal: true}}})
	a, _ = step(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'U'}})
	if a.active != uploadsView {
		t.Fatalf("expected uploads list")
	}
	a, cmd := step(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	a, _ = step(t, a, cmd())
	if len(ups.removed) != 1 || ups.removed[0] != "srv-1" {
		t.Fatalf("expected removal, got %+v", ups.removed)
	}
	if a.status != "Removed" {
		t.Fatalf("unexpected status %q", a.status)
	}
}
