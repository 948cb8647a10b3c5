// Package grid is the browse mode: a virtualized grid of video cards with
// lazy posters, hover previews, search and infinite scroll.
package grid

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/reelhire/app"
	"github.com/CrestNiraj12/reelhire/core/lazyload"
	"github.com/CrestNiraj12/reelhire/core/media"
	"github.com/CrestNiraj12/reelhire/domain"
	"github.com/CrestNiraj12/reelhire/infra/logging"
	"github.com/CrestNiraj12/reelhire/tui/common"
)

const (
	cellWidth      = 30 // columns, border included
	cellHeight     = 9  // rows, border included
	cellGap        = 1
	headerLines    = 2
	footerLines    = 1
	wheelRows      = 3
	pageSize       = 24
	searchDebounce = 300 * time.Millisecond
)

// --- Messages ---

// PageLoadedMsg carries one page of the listing.
type PageLoadedMsg struct {
	Seq    int
	Append bool
	Page   app.VideoPage
}

// PageErrorMsg reports a failed listing request.
type PageErrorMsg struct {
	Seq    int
	Append bool
	Err    error
}

// PosterLoadedMsg carries a rendered card poster.
type PosterLoadedMsg struct {
	ID     string
	Poster string
	Err    error
}

// PreviewFramesMsg carries the frames of a hover preview.
type PreviewFramesMsg struct {
	ID     string
	Src    string
	Frames []string
	Err    error
}

// PreviewTickMsg advances the hover preview.
type PreviewTickMsg struct{}

// SearchDebounceMsg fires once typing has paused.
type SearchDebounceMsg struct {
	Seq int
}

// OpenFeedMsg asks the root to open the full-screen feed.
type OpenFeedMsg struct {
	Videos []domain.VideoRecord
	Index  int
}

// Deps are the collaborators of the grid view.
type Deps struct {
	Videos    app.VideoService
	Blobs     *media.BlobStore
	Logger    logging.Logger
	Query     string
	SavedOnly bool
}

// --- Model ---

// Model holds the browse grid.
type Model struct {
	videos  app.VideoService
	blobs   *media.BlobStore
	logger  logging.Logger
	keys    common.KeyMap
	spinner spinner.Model
	search  textinput.Model

	searching bool
	searchSeq int
	query     string
	savedOnly bool

	remote []domain.VideoRecord
	local  []domain.VideoRecord
	items  []domain.VideoRecord

	cursor    int
	scrollTop int // rows
	width     int
	height    int

	reqSeq      int
	loading     bool
	loadingMore bool
	hasMore     bool
	nextCursor  string
	err         error

	observer *lazyload.Observer
	images   *lazyload.ImageLoader
	posters  map[string]string

	// videoObserver marks cards at least half visible; only those may mount
	// a hover preview.
	videoObserver *lazyload.Observer
	previewReady  map[string]bool

	previews       *media.Pool
	preview        map[string]*media.Player
	hoverID        string
	previewTicking bool

	thumbnail   func(ctx context.Context, posterURL, input string, w, h int) (string, error)
	loadPreview func(ctx context.Context, input string, w, h int) ([]string, error)
}

// New creates the grid. Call Init to fetch the first page.
func New(deps Deps) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600"))

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search titles, people, #tags"
	ti.CharLimit = 120
	ti.SetValue(deps.Query)

	logger := deps.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	players := make(map[string]*media.Player)
	blobs := deps.Blobs
	pool := media.NewPool(func(id, src string) {
		delete(players, id)
		if blobs != nil && strings.HasPrefix(src, domain.BlobScheme) {
			blobs.Release(src)
		}
	})

	return Model{
		videos:    deps.Videos,
		blobs:     blobs,
		logger:    logger,
		keys:      common.DefaultKeyMap(),
		spinner:   s,
		search:    ti,
		query:     deps.Query,
		savedOnly: deps.SavedOnly,
		reqSeq:    1,
		loading:   true,
		observer:  lazyload.NewImageObserver(cellHeight),
		images:    lazyload.NewImageLoader(),
		posters:   make(map[string]string),

		videoObserver: lazyload.NewVideoObserver(),
		previewReady:  make(map[string]bool),
		previews:      pool,
		preview:       players,
		thumbnail:     media.Thumbnail,
		loadPreview: func(ctx context.Context, input string, w, h int) ([]string, error) {
			ctx, cancel := context.WithTimeout(ctx, media.FrameLoadTimeout)
			defer cancel()
			return media.LoadFrames(ctx, input, w, h, media.DefaultMaxFrames)
		},
	}
}

// Init starts the first fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchPage(m.reqSeq, false), m.spinner.Tick)
}

// Refresh reloads from the first page.
func (m Model) Refresh() (Model, tea.Cmd) {
	m.reqSeq++
	m.loading = true
	m.loadingMore = false
	m.err = nil
	return m, tea.Batch(m.fetchPage(m.reqSeq, false), m.spinner.Tick)
}

// SetLocal replaces the optimistic local records shown ahead of the listing.
func (m Model) SetLocal(records []domain.VideoRecord) (Model, tea.Cmd) {
	m.local = records
	m.rebuild()
	cmd := m.afterLayout()
	return m, cmd
}

// Items returns the merged sequence the grid shows.
func (m Model) Items() []domain.VideoRecord { return m.items }

// Cursor returns the selected index.
func (m Model) Cursor() int { return m.cursor }

// Query returns the active search query.
func (m Model) Query() string { return m.query }

// SavedOnly reports whether only saved videos are listed.
func (m Model) SavedOnly() bool { return m.savedOnly }

// Searching reports whether the search box has focus.
func (m Model) Searching() bool { return m.searching }

// SetCursor selects index, typically after the feed closes.
func (m *Model) SetCursor(index int) {
	if len(m.items) == 0 {
		m.cursor = 0
		return
	}
	m.cursor = min(max(index, 0), len(m.items)-1)
	m.ensureCursorVisible()
}

// SetSize updates the terminal size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.search.Width = max(width-6, 10)
	m.clampScroll()
}

// Shutdown stops and releases the hover preview.
func (m Model) Shutdown() {
	m.previews.ReleaseAll()
}

// rebuild merges local records ahead of the server listing. Local records are
// hidden while a filter is active since they have not been indexed yet.
func (m *Model) rebuild() {
	var selected string
	if m.cursor >= 0 && m.cursor < len(m.items) {
		selected = m.items[m.cursor].ID
	}

	var local []domain.VideoRecord
	if m.query == "" && !m.savedOnly {
		local = m.local
	}
	seen := make(map[string]struct{}, len(local)+len(m.remote))
	items := make([]domain.VideoRecord, 0, len(local)+len(m.remote))
	for _, v := range local {
		if _, ok := seen[v.ID]; ok {
			continue
		}
		seen[v.ID] = struct{}{}
		items = append(items, v)
	}
	for _, v := range m.remote {
		if _, ok := seen[v.ID]; ok {
			continue
		}
		seen[v.ID] = struct{}{}
		items = append(items, v)
	}
	m.items = items

	m.cursor = min(m.cursor, max(len(items)-1, 0))
	if selected != "" {
		for i, v := range items {
			if v.ID == selected {
				m.cursor = i
				break
			}
		}
	}
	m.clampScroll()
}
