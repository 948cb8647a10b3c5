package upload

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/reelhire/core/viewport"
	"github.com/CrestNiraj12/reelhire/domain"
	"github.com/CrestNiraj12/reelhire/tui/common"
)

const (
	// listChromeLines covers the title, the blank lines and the help bar.
	listChromeLines = 4
	// rowLines is the height of a row; failed rows add a line for the reason.
	rowLines = 2
)

// RetryMsg asks the root to retry a failed upload.
type RetryMsg struct {
	ID string
}

// RemoveMsg asks the root to stop tracking an upload.
type RemoveMsg struct {
	ID string
}

// WatchMsg asks the root to open the feed over the tracked uploads.
type WatchMsg struct {
	Videos []domain.VideoRecord
	Index  int
}

// BackMsg leaves the list.
type BackMsg struct{}

// List shows the locally tracked uploads and their lifecycle state.
type List struct {
	records []domain.VideoRecord
	cursor  int
	keys    common.KeyMap
	width   int
	height  int
	scroll  int // lines
	heights *viewport.HeightCache
	now     func() time.Time
}

// NewList creates an empty list.
func NewList() List {
	return List{keys: common.DefaultKeyMap(), now: time.Now}
}

// SetRecords replaces the tracked records, keeping the selection on the
// same record when it still exists.
func (l List) SetRecords(records []domain.VideoRecord) List {
	var selected string
	if l.cursor < len(l.records) {
		selected = l.records[l.cursor].ID
	}
	l.records = records
	l.cursor = min(l.cursor, max(len(records)-1, 0))
	for i, r := range records {
		if r.ID == selected {
			l.cursor = i
			break
		}
	}
	l.heights = &viewport.HeightCache{}
	for i, r := range records {
		l.heights.Set(i, float64(rowHeight(r)))
	}
	l.ensureCursorVisible()
	return l
}

func rowHeight(r domain.VideoRecord) int {
	if r.Status == domain.StatusFailed {
		return rowLines + 1
	}
	return rowLines
}

// Records returns the records shown.
func (l List) Records() []domain.VideoRecord { return l.records }

// SetSize updates the terminal size.
func (l *List) SetSize(width, height int) {
	l.width = width
	l.height = height
	l.ensureCursorVisible()
}

func (l List) bodyHeight() int {
	return max(l.height-listChromeLines, rowLines+1)
}

func (l List) window() viewport.DynamicWindow {
	var heights viewport.HeightFunc
	if l.heights != nil {
		heights = l.heights.Lookup
	}
	return viewport.ComputeDynamicWindow(len(l.records), heights, float64(l.scroll), float64(l.bodyHeight()), rowLines)
}

// ensureCursorVisible scrolls just enough to show every line of the
// selected row.
func (l *List) ensureCursorVisible() {
	if len(l.records) == 0 {
		l.scroll = 0
		return
	}
	win := l.window()
	top := int(win.Offsets[l.cursor])
	bottom := int(win.Offsets[l.cursor+1])
	if top < l.scroll {
		l.scroll = top
	}
	if bottom > l.scroll+l.bodyHeight() {
		l.scroll = bottom - l.bodyHeight()
	}
	l.scroll = min(max(l.scroll, 0), max(int(win.TotalHeight)-l.bodyHeight(), 0))
}

// Update handles messages for the list.
func (l List) Update(msg tea.Msg) (List, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}
	switch {
	case key.Matches(km, l.keys.Close):
		return l, func() tea.Msg { return BackMsg{} }
	case key.Matches(km, l.keys.Down):
		l.cursor = min(l.cursor+1, max(len(l.records)-1, 0))
		l.ensureCursorVisible()
	case key.Matches(km, l.keys.Up):
		l.cursor = max(l.cursor-1, 0)
		l.ensureCursorVisible()
	case len(l.records) == 0:
		return l, nil
	case key.Matches(km, l.keys.Retry):
		r := l.records[l.cursor]
		if r.Status != domain.StatusFailed {
			return l, nil
		}
		return l, func() tea.Msg { return RetryMsg{ID: r.ID} }
	case key.Matches(km, l.keys.Remove):
		id := l.records[l.cursor].ID
		return l, func() tea.Msg { return RemoveMsg{ID: id} }
	case key.Matches(km, l.keys.Enter):
		videos := append([]domain.VideoRecord(nil), l.records...)
		idx := l.cursor
		return l, func() tea.Msg { return WatchMsg{Videos: videos, Index: idx} }
	}
	return l, nil
}

// View renders the rows intersecting the viewport.
func (l List) View() string {
	var b strings.Builder
	b.WriteString(common.AppTitleStyle.Render("▶ reelhire"))
	b.WriteString("  My uploads\n\n")
	if len(l.records) == 0 {
		b.WriteString("  Nothing uploaded from this device yet. Press u to upload.\n")
	} else {
		win := l.window()
		var lines []string
		for i := win.Start; i <= win.End; i++ {
			lines = append(lines, l.renderRow(i, l.records[i])...)
		}
		skip := min(max(l.scroll-int(win.Offsets[win.Start]), 0), len(lines))
		lines = lines[skip:]
		if len(lines) > l.bodyHeight() {
			lines = lines[:l.bodyHeight()]
		}
		b.WriteString(strings.Join(lines, "\n"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(common.StatusBarStyle.Render("  j/k move · enter watch · r retry failed · x remove · esc back"))
	return b.String()
}

func (l List) renderRow(i int, r domain.VideoRecord) []string {
	marker := "  "
	if i == l.cursor {
		marker = common.LikeActiveStyle.Render("›") + " "
	}
	width := max(l.width-4, 30)
	title := common.TitleStyle.Render(common.Truncate(r.Title, width/2))

	var state string
	switch r.Status {
	case domain.StatusFailed:
		state = common.ErrorStyle.Render("Failed")
	case domain.StatusCompleted:
		state = common.SuccessStyle.Render("Live")
	default:
		state = common.BadgeStyle.Render(common.StatusLabel(r))
	}

	meta := common.MetadataStyle.Render(fmt.Sprintf("%s · %s", r.ID, common.Ago(r.SubmittedAt, l.now())))
	row := []string{marker + title + "  " + state, "    " + meta}
	if r.Status == domain.StatusFailed {
		reason := r.ErrorMessage
		if reason == "" {
			reason = "Upload failed"
		}
		row = append(row, "    "+common.ErrorStyle.Render(common.Truncate(reason+" · r to retry", width-4)))
	}
	return row
}
