package grid

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/reelhire/core/lazyload"
	"github.com/CrestNiraj12/reelhire/core/media"
	"github.com/CrestNiraj12/reelhire/domain"
)

// Update handles messages for the grid view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		cmd := m.afterLayout()
		return m, cmd
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case SearchDebounceMsg:
		if msg.Seq != m.searchSeq {
			return m, nil
		}
		return m.applyQuery(m.search.Value())
	}

	switch msg.(type) {
	case PageLoadedMsg, PageErrorMsg, PosterLoadedMsg:
		return m.handleLoadMsg(msg)
	case PreviewFramesMsg, PreviewTickMsg:
		return m.handlePreviewMsg(msg)
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return m.handleMouseMsg(msg)
	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKey(msg)
		}
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m Model) handleLoadMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PageLoadedMsg:
		if msg.Seq != m.reqSeq {
			return m, nil
		}
		if msg.Append {
			m.loadingMore = false
			m.remote = append(m.remote, msg.Page.Videos...)
		} else {
			m.loading = false
			m.remote = msg.Page.Videos
			m.observer = lazyload.NewImageObserver(cellHeight)
			m.videoObserver = lazyload.NewVideoObserver()
			m.previewReady = make(map[string]bool)
		}
		m.err = nil
		m.hasMore = msg.Page.HasMore
		m.nextCursor = msg.Page.NextCursor
		m.rebuild()
		cmd := m.afterLayout()
		return m, cmd

	case PageErrorMsg:
		if msg.Seq != m.reqSeq {
			return m, nil
		}
		if msg.Append {
			m.loadingMore = false
		} else {
			m.loading = false
		}
		m.err = msg.Err
		m.logger.Warn(context.Background(), "listing videos failed", "append", msg.Append, "error", msg.Err)
		return m, nil

	case PosterLoadedMsg:
		m.images.Finish(msg.ID, msg.Err)
		if msg.Err == nil {
			m.posters[msg.ID] = msg.Poster
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.searchSeq++
		m.search.Blur()
		m.search.SetValue(m.query)
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		m.searchSeq++
		m.search.Blur()
		return m.applyQuery(m.search.Value())
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}
	m.searchSeq++
	return m, tea.Batch(cmd, searchDebounceCmd(m.searchSeq))
}

// applyQuery restarts the listing for q unless it is already active.
func (m Model) applyQuery(q string) (Model, tea.Cmd) {
	q = strings.TrimSpace(q)
	if q == m.query {
		return m, nil
	}
	m.query = q
	return m.reload()
}

func (m Model) reload() (Model, tea.Cmd) {
	m.exitHover()
	m.remote = nil
	m.hasMore = false
	m.nextCursor = ""
	m.cursor = 0
	m.scrollTop = 0
	m.rebuild()
	return m.Refresh()
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	cols := m.columns()
	pageRows := max(m.containerHeight()/rowStride, 1)

	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		cmd := m.search.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Close):
		if m.query == "" {
			return m, nil
		}
		m.search.SetValue("")
		return m.applyQuery("")

	case key.Matches(msg, m.keys.Enter):
		if len(m.items) == 0 {
			return m, nil
		}
		videos := append([]domain.VideoRecord(nil), m.items...)
		index := m.cursor
		m.exitHover()
		return m, func() tea.Msg { return OpenFeedMsg{Videos: videos, Index: index} }

	case key.Matches(msg, m.keys.SavedOnly):
		m.savedOnly = !m.savedOnly
		return m.reload()

	case key.Matches(msg, m.keys.Refresh):
		return m.Refresh()

	case key.Matches(msg, m.keys.Right):
		return m.moveCursor(1)
	case key.Matches(msg, m.keys.Left):
		return m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		return m.moveCursor(cols)
	case key.Matches(msg, m.keys.Up):
		return m.moveCursor(-cols)
	case key.Matches(msg, m.keys.PageDown):
		return m.moveCursor(cols * pageRows)
	case key.Matches(msg, m.keys.PageUp):
		return m.moveCursor(-cols * pageRows)
	}
	return m, nil
}

func (m Model) moveCursor(delta int) (Model, tea.Cmd) {
	if len(m.items) == 0 {
		return m, nil
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.items)-1)
	m.ensureCursorVisible()
	cmd := m.afterLayout()
	return m, cmd
}

func (m Model) handleMouseMsg(msg tea.MouseMsg) (Model, tea.Cmd) {
	switch {
	case msg.Button == tea.MouseButtonWheelDown && msg.Action == tea.MouseActionPress:
		m.scrollBy(wheelRows)
		cmd := m.afterLayout()
		return m, cmd

	case msg.Button == tea.MouseButtonWheelUp && msg.Action == tea.MouseActionPress:
		m.scrollBy(-wheelRows)
		cmd := m.afterLayout()
		return m, cmd

	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		idx, ok := m.hitTest(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		m.cursor = idx
		videos := append([]domain.VideoRecord(nil), m.items...)
		m.exitHover()
		return m, func() tea.Msg { return OpenFeedMsg{Videos: videos, Index: idx} }

	case msg.Action == tea.MouseActionMotion:
		idx, ok := m.hitTest(msg.X, msg.Y)
		if !ok {
			m.exitHover()
			return m, nil
		}
		if m.items[idx].ID == m.hoverID {
			return m, nil
		}
		m.exitHover()
		cmd := m.enterHover(idx)
		return m, cmd
	}
	return m, nil
}

// enterHover mounts a muted preview for the card and plays it once frames
// are in. A card less than half on screen waits until afterLayout sees it.
func (m *Model) enterHover(idx int) tea.Cmd {
	v := m.items[idx]
	m.hoverID = v.ID
	if !m.previewReady[v.ID] {
		return nil
	}
	return m.mountPreview(v)
}

func (m *Model) mountPreview(v domain.VideoRecord) tea.Cmd {
	input := m.mediaInput(v)
	if input == "" {
		return nil
	}
	m.previews.Retain(v.ID)
	p, ok := m.preview[v.ID]
	if !ok || p.Src() != v.MediaURL {
		p = media.NewPlayer(v.MediaURL, media.PreloadAuto)
		if m.blobs != nil && v.IsBlobBacked() && m.blobs.Has(v.MediaURL) {
			m.blobs.Retain(v.MediaURL)
		}
		m.previews.Mount(v.ID, v.MediaURL, p)
		m.preview[v.ID] = p
	}
	p.SetMuted(true)
	if p.Loaded() {
		_ = m.previews.Activate(v.ID)
		return m.ensurePreviewTicking()
	}
	if p.Err() != nil {
		return nil
	}
	return m.previewCmd(v.ID, v.MediaURL, input)
}

// exitHover pauses the preview and rewinds it.
func (m *Model) exitHover() {
	if m.hoverID == "" {
		return
	}
	if h, ok := m.previews.Get(m.hoverID); ok {
		h.Pause()
		h.SeekTo(0)
	}
	m.hoverID = ""
}

func (m Model) handlePreviewMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PreviewFramesMsg:
		p, ok := m.preview[msg.ID]
		if !ok || p.Src() != msg.Src {
			return m, nil
		}
		p.Load(msg.Frames, msg.Err)
		if msg.Err != nil {
			m.logger.Debug(context.Background(), "preview unavailable", "video", msg.ID, "error", msg.Err)
			return m, nil
		}
		if m.hoverID != msg.ID {
			return m, nil
		}
		_ = m.previews.Activate(msg.ID)
		cmd := m.ensurePreviewTicking()
		return m, cmd

	case PreviewTickMsg:
		if m.hoverID == "" {
			m.previewTicking = false
			return m, nil
		}
		for _, id := range m.previews.Playing() {
			if p, ok := m.preview[id]; ok {
				p.Advance()
			}
		}
		return m, previewTickCmd()
	}
	return m, nil
}

func (m *Model) ensurePreviewTicking() tea.Cmd {
	if m.previewTicking {
		return nil
	}
	m.previewTicking = true
	return previewTickCmd()
}
