package feed

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/reelhire/app"
	corefeed "github.com/CrestNiraj12/reelhire/core/feed"
	"github.com/CrestNiraj12/reelhire/core/gesture"
	"github.com/CrestNiraj12/reelhire/core/media"
	"github.com/CrestNiraj12/reelhire/domain"
	"github.com/CrestNiraj12/reelhire/infra/logging"
	"github.com/CrestNiraj12/reelhire/tui/common"
)

// snapDuration is how long a cancelled drag takes to ease back into place.
const snapDuration = 300 * time.Millisecond

// --- Messages ---

// SettleMsg delivers a settle ticket after the settle delay.
type SettleMsg struct {
	Ticket corefeed.Ticket
}

// FlingFrameMsg is one inertia frame of the fling started with Generation.
type FlingFrameMsg struct {
	Generation uint64
}

// SnapFrameMsg animates the slots back to rest after a drag that did not navigate.
type SnapFrameMsg struct {
	Seq int
}

// PlaybackTickMsg advances the playing video by one frame.
type PlaybackTickMsg struct{}

// FramesLoadedMsg carries the decoded frames for a mounted video.
type FramesLoadedMsg struct {
	ID     string
	Src    string
	Frames []string
	Err    error
}

// PosterLoadedMsg carries the poster (or first frame) for a mounted video.
type PosterLoadedMsg struct {
	ID     string
	Src    string
	Poster string
	Err    error
}

// ReactionResultMsg reports the server's answer to a like or save toggle.
type ReactionResultMsg struct {
	Notice corefeed.Notice
	Err    error
}

// ShareResultMsg reports the outcome of a share.
type ShareResultMsg struct {
	Notice corefeed.Notice
	Err    error
}

// ClosedMsg is emitted when the user leaves the feed.
type ClosedMsg struct {
	Index int
	Muted bool
}

// Deps are the collaborators of the feed view.
type Deps struct {
	Videos       app.VideoService
	Blobs        *media.BlobStore // Optional; needed to play local uploads
	Sharers      []app.Sharer
	Logger       logging.Logger
	CellHeightPx float64
	Muted        bool
}

// --- Model ---

// Model hosts the full-screen feed: it turns keys, wheel and mouse drags into
// controller calls and drives the controller's timers with tea.Tick.
type Model struct {
	ctrl    *corefeed.Controller
	videos  app.VideoService
	blobs   *media.BlobStore
	logger  logging.Logger
	keys    common.KeyMap
	spinner spinner.Model

	width  int
	height int
	cellPx float64
	now    func() time.Time

	players       map[string]*media.Player
	framesLoading map[string]bool
	posterLoading map[string]bool

	loadFrames func(ctx context.Context, input string, w, h int) ([]string, error)
	thumbnail  func(ctx context.Context, posterURL, input string, w, h int) (string, error)

	snapping  bool
	snapFrom  float64
	snapStart time.Time
	snapSeq   int

	ticking   bool
	open      bool
	notice    string
	noticeErr bool
}

// New creates a closed feed.
func New(deps Deps) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600"))

	logger := deps.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	cellPx := deps.CellHeightPx
	if cellPx <= 0 {
		cellPx = 16
	}

	players := make(map[string]*media.Player)
	blobs := deps.Blobs
	pool := media.NewPool(func(id, src string) {
		delete(players, id)
		if blobs != nil && strings.HasPrefix(src, domain.BlobScheme) {
			blobs.Release(src)
		}
	})
	ctrl := corefeed.New(pool, corefeed.Options{
		Muted:   deps.Muted,
		Sharers: deps.Sharers,
		Gesture: gesture.DefaultConfig(),
	})

	return Model{
		ctrl:          ctrl,
		videos:        deps.Videos,
		blobs:         blobs,
		logger:        logger,
		keys:          common.FeedKeyMap(),
		spinner:       s,
		cellPx:        cellPx,
		now:           time.Now,
		players:       players,
		framesLoading: make(map[string]bool),
		posterLoading: make(map[string]bool),
		loadFrames: func(ctx context.Context, input string, w, h int) ([]string, error) {
			ctx, cancel := context.WithTimeout(ctx, media.FrameLoadTimeout)
			defer cancel()
			return media.LoadFrames(ctx, input, w, h, media.DefaultMaxFrames)
		},
		thumbnail: media.Thumbnail,
	}
}

// Open shows the feed over videos, starting at index.
func (m Model) Open(videos []domain.VideoRecord, index int) (Model, tea.Cmd) {
	m.ctrl.SetVideos(videos)
	t, ok := m.ctrl.Open(index)
	if !ok {
		return m, nil
	}
	m.open = true
	m.notice = ""
	m.snapping = false
	tick := m.ensureTicking()
	return m, tea.Batch(m.settleCmd(t), m.syncMounts(), tick, m.spinner.Tick)
}

// SetVideos refreshes the sequence while the feed is open, for example when an
// upload finishes processing.
func (m Model) SetVideos(videos []domain.VideoRecord) (Model, tea.Cmd) {
	m.ctrl.SetVideos(videos)
	if !m.open {
		return m, nil
	}
	return m, m.syncMounts()
}

// IsOpen reports whether the feed is showing.
func (m Model) IsOpen() bool { return m.open }

// Index returns the current index.
func (m Model) Index() int { return m.ctrl.Index() }

// Muted reports the mute preference.
func (m Model) Muted() bool { return m.ctrl.IsMuted() }

// Controller exposes the feed controller for the root view.
func (m Model) Controller() *corefeed.Controller { return m.ctrl }

// SetSize updates the terminal size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) close() (Model, tea.Cmd) {
	m.ctrl.Close()
	m.open = false
	m.snapping = false
	m.snapSeq++
	for id := range m.framesLoading {
		delete(m.framesLoading, id)
	}
	for id := range m.posterLoading {
		delete(m.posterLoading, id)
	}
	idx, muted := m.ctrl.Index(), m.ctrl.IsMuted()
	return m, func() tea.Msg { return ClosedMsg{Index: idx, Muted: muted} }
}

// Shutdown releases every mounted player. Called when the program quits.
func (m Model) Shutdown() {
	m.ctrl.Close()
}

func (m *Model) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeErr = isErr
}
