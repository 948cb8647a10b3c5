package feed

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/reelhire/core/media"
	"github.com/CrestNiraj12/reelhire/domain"
)

// syncMounts keeps exactly the prev/current/next players mounted and starts
// whatever loading the current preload policies ask for.
func (m Model) syncMounts() tea.Cmd {
	pool := m.ctrl.Pool()
	pool.Retain(m.ctrl.MountedIDs()...)

	cur, _ := m.ctrl.Current()
	videos := m.ctrl.Videos()
	var cmds []tea.Cmd
	for _, i := range m.ctrl.SlotWindow().Indices() {
		v := videos[i]
		p, ok := m.players[v.ID]
		if ok && p.Src() != v.MediaURL {
			// The record changed source, typically blob to server URL.
			pool.Unmount(v.ID)
			delete(m.framesLoading, v.ID)
			delete(m.posterLoading, v.ID)
			ok = false
		}
		if !ok {
			p = m.mount(v)
		}
		if v.ID == cur.ID {
			p.SetPreload(media.PreloadAuto)
		}
		cmds = append(cmds, m.loadCmds(v, p)...)
	}
	return tea.Batch(cmds...)
}

func (m Model) mount(v domain.VideoRecord) *media.Player {
	p := media.NewPlayer(v.MediaURL, media.PreloadMetadata)
	p.SetMuted(m.ctrl.IsMuted())
	if m.blobs != nil && v.IsBlobBacked() && m.blobs.Has(v.MediaURL) {
		m.blobs.Retain(v.MediaURL)
	}
	m.ctrl.Pool().Mount(v.ID, v.MediaURL, p)
	m.players[v.ID] = p
	return p
}

func (m Model) loadCmds(v domain.VideoRecord, p *media.Player) []tea.Cmd {
	input := m.mediaInput(v)
	w, h := m.frameSize()
	var cmds []tea.Cmd
	if p.Poster() == "" && !m.posterLoading[v.ID] && (v.PosterURL != "" || input != "") {
		m.posterLoading[v.ID] = true
		cmds = append(cmds, m.posterCmd(v.ID, p.Src(), v.PosterURL, input, w, h))
	}
	if p.Preload() == media.PreloadAuto && !p.Loaded() && p.Err() == nil && !m.framesLoading[v.ID] {
		if input == "" {
			p.Load(nil, media.ErrNotReady)
			m.ctrl.PlaybackFailed(v.ID, media.ErrPlayback)
			return cmds
		}
		m.framesLoading[v.ID] = true
		cmds = append(cmds, m.framesCmd(v.ID, p.Src(), input, w, h))
	}
	return cmds
}

// mediaInput is what ffmpeg reads for v: the staged file for local uploads,
// the media URL otherwise.
func (m Model) mediaInput(v domain.VideoRecord) string {
	if !v.IsBlobBacked() {
		return v.MediaURL
	}
	if m.blobs == nil {
		return ""
	}
	path, err := m.blobs.Path(v.MediaURL)
	if err != nil {
		return ""
	}
	return path
}

// frameSize returns the frame size in render cells. Each cell is two columns wide.
func (m Model) frameSize() (int, int) {
	w := max((m.width-4)/2, 8)
	h := max(m.height-slotChromeLines-1, 4)
	return w, h
}

func (m Model) handleMediaMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FramesLoadedMsg:
		p, ok := m.players[msg.ID]
		if !ok || p.Src() != msg.Src {
			return m, nil
		}
		delete(m.framesLoading, msg.ID)
		p.Load(msg.Frames, msg.Err)
		if msg.Err != nil {
			m.logger.Warn(context.Background(), "frame decode failed", "video", msg.ID, "error", msg.Err)
			m.ctrl.PlaybackFailed(msg.ID, msg.Err)
			return m, nil
		}
		m.ctrl.MediaReady(msg.ID)
		tick := m.ensureTicking()
		return m, tick

	case PosterLoadedMsg:
		p, ok := m.players[msg.ID]
		if !ok || p.Src() != msg.Src {
			return m, nil
		}
		delete(m.posterLoading, msg.ID)
		if msg.Err != nil || msg.Poster == "" {
			w, h := m.frameSize()
			p.SetPoster(media.Placeholder(w, h, 0x22))
			return m, nil
		}
		p.SetPoster(msg.Poster)
		return m, nil

	case PlaybackTickMsg:
		if !m.open {
			m.ticking = false
			return m, nil
		}
		for _, id := range m.ctrl.Pool().Playing() {
			if p, ok := m.players[id]; ok {
				p.Advance()
			}
		}
		return m, playbackTickCmd()
	}
	return m, nil
}

func (m *Model) ensureTicking() tea.Cmd {
	if m.ticking || !m.open {
		return nil
	}
	m.ticking = true
	return playbackTickCmd()
}
