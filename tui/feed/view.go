package feed

import (
	"fmt"
	"math"
	"strings"

	"github.com/CrestNiraj12/reelhire/core/media"
	"github.com/CrestNiraj12/reelhire/core/viewport"
	"github.com/CrestNiraj12/reelhire/tui/common"
)

// slotChromeLines is every line of a slot except the frame itself.
const slotChromeLines = 6

// View renders the prev/current/next slots shifted by the drag offset, with
// the status bar underneath.
func (m Model) View() string {
	if !m.open {
		return ""
	}
	h := max(m.height-1, slotChromeLines+4)
	w := max(m.width, 20)

	shift := int(math.Round(m.displayOffset() / m.cellPx))
	shift = min(max(shift, -h), h)
	start := h - shift

	// The prev/current/next slots form a strip three screens tall; only the
	// slots the drag has brought on screen are rendered.
	win := m.ctrl.SlotWindow()
	slots := []int{win.Prev, win.Current, win.Next}
	onScreen := viewport.ComputeLinearWindow(len(slots), float64(h), float64(start), float64(h), 0)
	lines := make([]string, 0, 3*h)
	for i, idx := range slots {
		if !onScreen.Contains(i) {
			idx = -1
		}
		lines = append(lines, m.renderSlot(idx, w, h)...)
	}

	var b strings.Builder
	b.WriteString(strings.Join(lines[start:start+h], "\n"))
	b.WriteString("\n")
	b.WriteString(m.statusBar(w))
	return b.String()
}

func (m Model) renderSlot(i, w, h int) []string {
	out := make([]string, 0, h)
	if i < 0 {
		return padLines(out, h)
	}
	v := m.ctrl.Videos()[i]
	p := m.players[v.ID]
	current := i == m.ctrl.Index()
	fw, fh := m.frameSize()

	title := common.TitleStyle.Render(common.Truncate(v.Title, w-16))
	if badge := common.StatusLabel(v); badge != "" {
		title += " " + common.BadgeStyle.Render(badge)
	}
	out = append(out, " "+title)

	owner := common.OwnerStyle.Render(v.Owner.DisplayName)
	if v.Owner.Role != "" {
		owner += common.MetadataStyle.Render(" · " + v.Owner.Role)
	}
	out = append(out, " "+owner)

	frame := ""
	if p != nil {
		frame = p.Frame()
	}
	if frame == "" {
		frame = media.Placeholder(fw, fh, 0x1a)
	}
	out = append(out, padLines(strings.Split(frame, "\n"), fh)[:fh]...)

	out = append(out, " "+common.HashtagStyle.Render(common.Truncate(common.Hashtags(v.Hashtags), w-2)))
	out = append(out, " "+m.metaLine(i))
	out = append(out, " "+m.stateLine(i, current))
	return padLines(out, h)[:h]
}

func (m Model) metaLine(i int) string {
	v := m.ctrl.Videos()[i]
	heart := common.MetadataStyle.Render("♡ " + common.Count(v.LikesCount))
	if m.ctrl.Liked(v.ID) {
		heart = common.LikeActiveStyle.Render("♥ " + common.Count(v.LikesCount))
	}
	parts := []string{heart, common.MetadataStyle.Render("▶ " + common.Count(v.ViewsCount))}
	if d := common.Duration(v.DurationSeconds); d != "" {
		parts = append(parts, common.MetadataStyle.Render(d))
	}
	if ago := common.Ago(v.SubmittedAt, m.now()); ago != "" {
		parts = append(parts, common.MetadataStyle.Render(ago))
	}
	if m.ctrl.Saved(v.ID) {
		parts = append(parts, common.LikeActiveStyle.Render("★ saved"))
	}
	return strings.Join(parts, common.MetadataStyle.Render(" · "))
}

func (m Model) stateLine(i int, current bool) string {
	v := m.ctrl.Videos()[i]
	if err := m.ctrl.SlotError(v.ID); err != nil {
		return common.ErrorStyle.Render("Playback failed. Press r to retry.")
	}
	if v.ErrorMessage != "" {
		return common.ErrorStyle.Render(v.ErrorMessage)
	}
	if !current {
		return ""
	}
	var state string
	switch {
	case m.framesLoading[v.ID]:
		state = m.spinner.View() + " Loading"
	case m.ctrl.IsPlaying():
		state = "▶ Playing"
	default:
		state = "⏸ Paused"
	}
	if m.ctrl.IsMuted() {
		state += " · muted"
	}
	return common.MetadataStyle.Render(state)
}

func (m Model) statusBar(w int) string {
	pos := fmt.Sprintf("%d/%d", m.ctrl.Index()+1, m.ctrl.Len())
	if m.notice != "" {
		style := common.SuccessStyle
		if m.noticeErr {
			style = common.ErrorStyle
		}
		return common.Truncate(" "+pos+"  "+style.Render(m.notice), w)
	}
	help := "j/k next/prev · space play · m mute · l like · s save · S share · o open · esc back"
	return common.StatusBarStyle.Render(common.Truncate(" "+pos+"  "+help, w))
}

func padLines(lines []string, n int) []string {
	for len(lines) < n {
		lines = append(lines, "")
	}
	return lines
}
