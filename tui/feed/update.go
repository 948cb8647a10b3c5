package feed

import (
	"context"
	"errors"
	"math"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	corefeed "github.com/CrestNiraj12/reelhire/core/feed"
	"github.com/CrestNiraj12/reelhire/core/gesture"
	"github.com/CrestNiraj12/reelhire/tui/common"
)

// Update handles messages for the feed view. Messages arriving while the feed
// is closed are dropped, except media results which are ignored by src.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case spinner.TickMsg:
		if !m.open {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	switch msg.(type) {
	case FramesLoadedMsg, PosterLoadedMsg, PlaybackTickMsg:
		return m.handleMediaMsg(msg)
	}
	if !m.open {
		return m, nil
	}

	switch msg := msg.(type) {
	case SettleMsg:
		m.ctrl.Settle(msg.Ticket)
		return m, nil
	case FlingFrameMsg, SnapFrameMsg, tea.MouseMsg:
		return m.handleGestureMsg(msg)
	case ReactionResultMsg:
		if msg.Err != nil {
			m.ctrl.Revert(msg.Notice)
			m.logger.Warn(context.Background(), "reaction sync failed", "video", msg.Notice.VideoID, "error", msg.Err)
			m.setNotice("Could not sync: "+msg.Err.Error(), true)
		}
		return m, nil
	case ShareResultMsg:
		if msg.Err != nil {
			text := "Share failed"
			if errors.Is(msg.Err, corefeed.ErrNoShareTarget) {
				text = "Nothing to share with"
			}
			m.setNotice(text, true)
			return m, nil
		}
		m.setNotice(msg.Notice.Text, false)
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close):
		return m.close()

	case key.Matches(msg, m.keys.Down):
		t, ok := m.ctrl.Next()
		return m.afterNavigate(t, ok)

	case key.Matches(msg, m.keys.Up):
		t, ok := m.ctrl.Prev()
		return m.afterNavigate(t, ok)

	case key.Matches(msg, m.keys.PlayPause):
		m.ctrl.TogglePlayPause()
		tick := m.ensureTicking()
		return m, tea.Batch(m.syncMounts(), tick)

	case key.Matches(msg, m.keys.Mute):
		if m.ctrl.ToggleMute() {
			m.setNotice("Muted", false)
		} else {
			m.setNotice("Sound on", false)
		}
		return m, nil

	case key.Matches(msg, m.keys.Like), key.Matches(msg, m.keys.Save):
		v, ok := m.ctrl.Current()
		if !ok {
			return m, nil
		}
		if v.IsLocal {
			m.setNotice("Available once processing finishes", true)
			return m, nil
		}
		var n corefeed.Notice
		if key.Matches(msg, m.keys.Like) {
			n = m.ctrl.HandleLike(v.ID)
		} else {
			n = m.ctrl.HandleSave(v.ID)
		}
		m.setNotice(n.Text, false)
		return m, m.reactionCmd(n)

	case key.Matches(msg, m.keys.Share):
		return m, m.shareCmd()

	case key.Matches(msg, m.keys.Open):
		v, ok := m.ctrl.Current()
		if !ok {
			return m, nil
		}
		u := v.ShareURL
		if u == "" {
			u = v.MediaURL
		}
		if !common.IsSafeExternalURL(u) {
			m.setNotice("No link to open", true)
			return m, nil
		}
		return m, common.OpenURL(u)

	case key.Matches(msg, m.keys.Retry):
		v, ok := m.ctrl.Current()
		if !ok || m.ctrl.SlotError(v.ID) == nil {
			return m, nil
		}
		m.ctrl.ClearSlotError(v.ID)
		m.ctrl.Pool().Unmount(v.ID)
		delete(m.framesLoading, v.ID)
		delete(m.posterLoading, v.ID)
		return m, m.syncMounts()
	}
	return m, nil
}

func (m Model) handleGestureMsg(msg tea.Msg) (Model, tea.Cmd) {
	engine := m.ctrl.Engine()
	switch msg := msg.(type) {
	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case FlingFrameMsg:
		if msg.Generation != engine.Generation() || engine.Phase() != gesture.Flinging {
			return m, nil
		}
		from := m.ctrl.Offset()
		t, navigated, running := m.ctrl.Step(msg.Generation)
		switch {
		case navigated:
			return m.afterNavigate(t, true)
		case running:
			return m, m.flingFrameCmd(msg.Generation)
		}
		return m.startSnap(from)

	case SnapFrameMsg:
		if !m.snapping || msg.Seq != m.snapSeq {
			return m, nil
		}
		if m.now().Sub(m.snapStart) >= snapDuration {
			m.snapping = false
			return m, nil
		}
		return m, snapFrameCmd(m.snapSeq)
	}
	return m, nil
}

func (m Model) handleMouseMsg(msg tea.MouseMsg) (Model, tea.Cmd) {
	y := float64(msg.Y) * m.cellPx
	nowMs := m.now().UnixMilli()

	switch {
	case msg.Button == tea.MouseButtonWheelDown && msg.Action == tea.MouseActionPress:
		t, ok := m.ctrl.Wheel(1)
		return m.afterNavigate(t, ok)

	case msg.Button == tea.MouseButtonWheelUp && msg.Action == tea.MouseActionPress:
		t, ok := m.ctrl.Wheel(-1)
		return m.afterNavigate(t, ok)

	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		m.snapping = false
		m.snapSeq++
		m.ctrl.Press(y, nowMs)
		return m, nil

	case msg.Action == tea.MouseActionMotion:
		m.ctrl.Move(y, nowMs)
		return m, nil

	case msg.Action == tea.MouseActionRelease:
		if m.ctrl.Engine().Phase() != gesture.Dragging {
			return m, nil
		}
		from := m.ctrl.Offset()
		out, t, ok := m.ctrl.Release()
		if ok {
			return m.afterNavigate(t, true)
		}
		if out.Fling {
			return m, m.flingFrameCmd(out.Generation)
		}
		return m.startSnap(from)
	}
	return m, nil
}

func (m Model) afterNavigate(t corefeed.Ticket, ok bool) (Model, tea.Cmd) {
	if !ok {
		return m, nil
	}
	m.snapping = false
	m.snapSeq++
	m.notice = ""
	tick := m.ensureTicking()
	return m, tea.Batch(m.settleCmd(t), m.syncMounts(), tick)
}

func (m Model) startSnap(from float64) (Model, tea.Cmd) {
	if from == 0 {
		return m, nil
	}
	m.snapping = true
	m.snapFrom = from
	m.snapStart = m.now()
	m.snapSeq++
	return m, snapFrameCmd(m.snapSeq)
}

// displayOffset is the vertical transform in pixels: the live drag or fling
// offset, or the eased snap back to zero.
func (m Model) displayOffset() float64 {
	if m.ctrl.Engine().Phase() != gesture.Idle {
		return m.ctrl.Offset()
	}
	if !m.snapping {
		return 0
	}
	p := float64(m.now().Sub(m.snapStart)) / float64(snapDuration)
	if p >= 1 {
		return 0
	}
	return m.snapFrom * (1 - easeOutCubic(p))
}

func easeOutCubic(p float64) float64 {
	return 1 - math.Pow(1-p, 3)
}
