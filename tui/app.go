package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/reelhire/app"
	"github.com/CrestNiraj12/reelhire/core/debounce"
	"github.com/CrestNiraj12/reelhire/core/media"
	"github.com/CrestNiraj12/reelhire/domain"
	"github.com/CrestNiraj12/reelhire/infra/config"
	"github.com/CrestNiraj12/reelhire/infra/editor"
	"github.com/CrestNiraj12/reelhire/infra/logging"
	"github.com/CrestNiraj12/reelhire/tui/common"
	"github.com/CrestNiraj12/reelhire/tui/feed"
	"github.com/CrestNiraj12/reelhire/tui/grid"
	"github.com/CrestNiraj12/reelhire/tui/upload"
)

const stateSaveDelay = 750 * time.Millisecond

// Uploads is the part of the upload tracker the TUI drives.
type Uploads interface {
	Subscribe() (<-chan []domain.VideoRecord, func())
	AddLocalVideo(draft domain.UploadDraft) (domain.VideoRecord, error)
	Submit(ctx context.Context, id string) error
	RetryUpload(ctx context.Context, id string) error
	RemoveVideo(id string) error
}

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Videos       app.VideoService
	Uploads      Uploads
	Blobs        *media.BlobStore
	Sharers      []app.Sharer
	Editor       *editor.EnvEditor
	Logger       logging.Logger
	Owner        domain.Owner
	CellHeightPx float64
	UIState      config.UIState
	StatePath    string // Empty disables saving UI state
	UploadFile   string // Opens the upload form prefilled with this file
	ShowUploads  bool   // Starts on the uploads list
}

type activeView int

const (
	gridView activeView = iota
	feedView
	formView
	uploadsView
)

// UploadsChangedMsg carries a fresh snapshot of the tracked uploads.
type UploadsChangedMsg struct {
	Videos []domain.VideoRecord
}

type uploadResultMsg struct {
	Title string
	Retry bool
	Err   error
}

// App is the root Bubble Tea model. It routes between sub-views.
type App struct {
	deps     Deps
	logger   logging.Logger
	active   activeView
	feedFrom activeView

	grid  grid.Model
	feed  feed.Model
	form  upload.Form
	list  upload.List
	keys  common.KeyMap
	width int

	status    string
	statusErr bool

	ctx         context.Context
	cancel      context.CancelFunc
	updates     <-chan []domain.VideoRecord
	unsubscribe func()

	state       config.UIState
	saveState   func(config.UIState)
	cancelSave  func()
	initialForm bool
}

// NewApp creates the root model with all dependencies wired.
func NewApp(deps Deps) App {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())

	a := App{
		deps:   deps,
		logger: logger,
		active: gridView,
		grid: grid.New(grid.Deps{
			Videos:    deps.Videos,
			Blobs:     deps.Blobs,
			Logger:    logger.With("view", "grid"),
			Query:     deps.UIState.LastSearch,
			SavedOnly: deps.UIState.SavedOnly,
		}),
		feed: feed.New(feed.Deps{
			Videos:       deps.Videos,
			Blobs:        deps.Blobs,
			Sharers:      deps.Sharers,
			Logger:       logger.With("view", "feed"),
			CellHeightPx: deps.CellHeightPx,
			Muted:        deps.UIState.Muted,
		}),
		list:   upload.NewList(),
		keys:   common.DefaultKeyMap(),
		ctx:    ctx,
		cancel: cancel,
		state:  deps.UIState,
	}
	a.saveState, a.cancelSave = debounce.Debounce(stateSaveDelay, func(st config.UIState) {
		a.writeState(st)
	})
	if deps.Uploads != nil {
		a.updates, a.unsubscribe = deps.Uploads.Subscribe()
	}
	switch {
	case deps.UploadFile != "":
		a.active = formView
		a.form = upload.NewForm(deps.Editor, deps.Owner).WithFile(deps.UploadFile)
		a.initialForm = true
	case deps.ShowUploads:
		a.active = uploadsView
	}
	return a
}

// Init fetches the first page and starts listening for upload changes.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.grid.Init(), waitForUploads(a.updates)}
	if a.initialForm {
		cmds = append(cmds, a.form.Init())
	}
	return tea.Batch(cmds...)
}

// waitForUploads blocks on the tracker subscription. The root re-issues it
// after every snapshot.
func waitForUploads(ch <-chan []domain.VideoRecord) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		videos, ok := <-ch
		if !ok {
			return nil
		}
		return UploadsChangedMsg{Videos: videos}
	}
}

// Update handles messages and routes to the active sub-model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	a, cmd := a.update(msg)
	a.persistState()
	return a, cmd
}

func (a App) update(msg tea.Msg) (App, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a.resize(msg)
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)
	case tea.MouseMsg:
		return a.routeInput(msg)
	case UploadsChangedMsg:
		return a.handleUploadsChanged(msg)
	case uploadResultMsg:
		switch {
		case msg.Err != nil && msg.Retry:
			a.setStatus("Retry failed: "+msg.Err.Error(), true)
		case msg.Err != nil:
			a.setStatus("Upload failed: "+msg.Err.Error(), true)
		default:
			a.setStatus("Uploaded “"+msg.Title+"”, processing", false)
		}
		return a, nil
	}

	if a2, cmd, ok := a.handleViewMsg(msg); ok {
		return a2, cmd
	}

	// Async results are routed to every view; each ignores foreign messages.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.grid, cmd = a.grid.Update(msg)
	cmds = append(cmds, cmd)
	a.feed, cmd = a.feed.Update(msg)
	cmds = append(cmds, cmd)
	if a.active == formView {
		a.form, cmd = a.form.Update(msg)
		cmds = append(cmds, cmd)
	}
	return a, tea.Batch(cmds...)
}

// handleViewMsg handles the requests sub-views send to the root.
func (a App) handleViewMsg(msg tea.Msg) (App, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case grid.OpenFeedMsg:
		a2, cmd := a.openFeed(msg.Videos, msg.Index, gridView)
		return a2, cmd, true

	case upload.WatchMsg:
		a2, cmd := a.openFeed(msg.Videos, msg.Index, uploadsView)
		return a2, cmd, true

	case feed.ClosedMsg:
		a.active = a.feedFrom
		if a.feedFrom == gridView {
			a.grid.SetCursor(msg.Index)
		}
		return a, nil, true

	case upload.SubmitMsg:
		a2, cmd := a.submit(msg.Draft)
		return a2, cmd, true

	case upload.CancelMsg:
		a.active = gridView
		a.setStatus("Upload cancelled", false)
		return a, nil, true

	case upload.BackMsg:
		a.active = gridView
		return a, nil, true

	case upload.RetryMsg:
		if a.deps.Uploads == nil {
			return a, nil, true
		}
		a.setStatus("Retrying...", false)
		ups, ctx, id := a.deps.Uploads, a.ctx, msg.ID
		return a, func() tea.Msg {
			return uploadResultMsg{Retry: true, Err: ups.RetryUpload(ctx, id)}
		}, true

	case upload.RemoveMsg:
		if a.deps.Uploads == nil {
			return a, nil, true
		}
		if err := a.deps.Uploads.RemoveVideo(msg.ID); err != nil {
			a.setStatus("Could not remove: "+err.Error(), true)
		} else {
			a.setStatus("Removed", false)
		}
		return a, nil, true
	}
	return a, nil, false
}

func (a App) resize(msg tea.WindowSizeMsg) (App, tea.Cmd) {
	a.width = msg.Width
	// The last line belongs to the root status line.
	inner := tea.WindowSizeMsg{Width: msg.Width, Height: max(msg.Height-1, 1)}
	var gcmd, fcmd tea.Cmd
	a.grid, gcmd = a.grid.Update(inner)
	a.feed, fcmd = a.feed.Update(inner)
	a.form.SetWidth(msg.Width)
	a.list.SetSize(inner.Width, inner.Height)
	return a, tea.Batch(gcmd, fcmd)
}

func (a App) handleKeyMsg(msg tea.KeyMsg) (App, tea.Cmd) {
	if key.Matches(msg, a.keys.ForceQuit) {
		return a.quit()
	}

	switch a.active {
	case gridView:
		if a.grid.Searching() {
			break
		}
		a.status = ""
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a.quit()
		case key.Matches(msg, a.keys.Uploads):
			a.active = uploadsView
			return a, nil
		case key.Matches(msg, a.keys.Upload):
			a.active = formView
			a.form = upload.NewForm(a.deps.Editor, a.deps.Owner)
			a.form.SetWidth(a.width)
			return a, a.form.Init()
		}
	case uploadsView:
		if key.Matches(msg, a.keys.Quit) {
			return a.quit()
		}
	case feedView:
		if key.Matches(msg, a.keys.Quit) {
			return a.quit()
		}
	}
	return a.routeInput(msg)
}

// routeInput sends keys and mouse events to the active view only.
func (a App) routeInput(msg tea.Msg) (App, tea.Cmd) {
	var cmd tea.Cmd
	switch a.active {
	case gridView:
		a.grid, cmd = a.grid.Update(msg)
	case feedView:
		a.feed, cmd = a.feed.Update(msg)
	case formView:
		a.form, cmd = a.form.Update(msg)
	case uploadsView:
		a.list, cmd = a.list.Update(msg)
	}
	return a, cmd
}

func (a App) handleUploadsChanged(msg UploadsChangedMsg) (App, tea.Cmd) {
	var gcmd, fcmd tea.Cmd
	a.grid, gcmd = a.grid.SetLocal(msg.Videos)
	a.list = a.list.SetRecords(msg.Videos)
	if a.feed.IsOpen() {
		videos := a.grid.Items()
		if a.feedFrom == uploadsView {
			videos = msg.Videos
		}
		if len(videos) > 0 {
			a.feed, fcmd = a.feed.SetVideos(videos)
		}
	}
	return a, tea.Batch(gcmd, fcmd, waitForUploads(a.updates))
}

func (a App) openFeed(videos []domain.VideoRecord, index int, from activeView) (App, tea.Cmd) {
	var cmd tea.Cmd
	a.feed, cmd = a.feed.Open(videos, index)
	if !a.feed.IsOpen() {
		return a, cmd
	}
	a.feedFrom = from
	a.active = feedView
	a.status = ""
	return a, cmd
}

// submit stages the draft as an optimistic record and uploads it in the
// background. The tracker reports progress through the subscription.
func (a App) submit(d domain.UploadDraft) (App, tea.Cmd) {
	if a.deps.Uploads == nil {
		a.setStatus("Uploads are not available", true)
		return a, nil
	}
	v, err := a.deps.Uploads.AddLocalVideo(d)
	if err != nil {
		a.logger.Warn(a.ctx, "staging upload failed", "file", d.FilePath, "error", err)
		a.setStatus("Could not stage upload: "+err.Error(), true)
		return a, nil
	}
	a.active = gridView
	a.setStatus("Uploading “"+v.Title+"”...", false)
	ups, ctx := a.deps.Uploads, a.ctx
	return a, func() tea.Msg {
		err := ups.Submit(ctx, v.ID)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return uploadResultMsg{Title: v.Title, Err: err}
	}
}

// persistState schedules a save when a preference changed.
func (a *App) persistState() {
	st := config.UIState{
		Muted:      a.feed.Muted(),
		LastSearch: a.grid.Query(),
		SavedOnly:  a.grid.SavedOnly(),
	}
	if st == a.state {
		return
	}
	a.state = st
	if a.deps.StatePath != "" {
		a.saveState(st)
	}
}

func (a App) writeState(st config.UIState) {
	if a.deps.StatePath == "" {
		return
	}
	if err := config.SaveUIState(a.deps.StatePath, st); err != nil {
		a.logger.Warn(context.Background(), "saving ui state failed", "error", err)
	}
}

// quit releases players, stops background work and flushes UI state.
func (a App) quit() (App, tea.Cmd) {
	a.feed.Shutdown()
	a.grid.Shutdown()
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	a.cancel()
	a.cancelSave()
	a.writeState(config.UIState{
		Muted:      a.feed.Muted(),
		LastSearch: a.grid.Query(),
		SavedOnly:  a.grid.SavedOnly(),
	})
	return a, tea.Quit
}

func (a *App) setStatus(text string, isErr bool) {
	a.status = text
	a.statusErr = isErr
}

// View renders the active sub-model and the status line.
func (a App) View() string {
	var s string
	switch a.active {
	case gridView:
		s = a.grid.View()
	case feedView:
		s = a.feed.View()
	case formView:
		s = a.form.View()
	case uploadsView:
		s = a.list.View()
	}

	style := common.SuccessStyle
	if a.statusErr {
		style = common.ErrorStyle
	}
	return s + "\n" + style.Render(common.Truncate(a.status, max(a.width, 20)))
}
