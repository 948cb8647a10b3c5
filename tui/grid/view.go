package grid

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/reelhire/core/lazyload"
	"github.com/CrestNiraj12/reelhire/core/media"
	"github.com/CrestNiraj12/reelhire/domain"
	"github.com/CrestNiraj12/reelhire/tui/common"
)

// View renders the header, the visible rows of cards and the status bar.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.body())
	b.WriteString("\n")
	b.WriteString(m.statusBar())
	return b.String()
}

func (m Model) header() string {
	title := common.AppTitleStyle.Render("▶ reelhire")
	tagline := common.TaglineStyle.Render("video resumes")
	line2 := ""
	switch {
	case m.searching:
		line2 = m.search.View()
	case m.query != "":
		line2 = common.MetadataStyle.Render("/ ") + common.TitleStyle.Render(m.query) +
			common.MetadataStyle.Render("  (esc to clear)")
	default:
		line2 = common.MetadataStyle.Render("/ search")
	}
	if m.savedOnly {
		line2 += "  " + common.LikeActiveStyle.Render("★ saved only")
	}
	return title + " " + tagline + "\n" + line2
}

func (m Model) body() string {
	height := m.containerHeight()
	switch {
	case m.loading && len(m.items) == 0:
		return padBlock(fmt.Sprintf("  %s Loading videos...", m.spinner.View()), height)
	case m.err != nil && len(m.items) == 0:
		return padBlock(common.ErrorStyle.Render(fmt.Sprintf("  Error: %v", m.err))+"\n\n  Press ctrl+r to retry.", height)
	case len(m.items) == 0:
		return padBlock("  No videos yet. Press u to upload yours.", height)
	}

	win := m.window()
	if len(win.Cells) == 0 {
		return padBlock("", height)
	}
	firstRow := win.Cells[0].Row
	rows := make(map[int][]string)
	order := []int{}
	for _, c := range win.Cells {
		if _, ok := rows[c.Row]; !ok {
			order = append(order, c.Row)
		}
		rows[c.Row] = append(rows[c.Row], m.renderCard(c.Index))
	}

	gap := strings.Repeat(" ", cellGap)
	var lines []string
	for i, r := range order {
		if i > 0 {
			for range cellGap {
				lines = append(lines, "")
			}
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top, interleave(rows[r], gap)...)
		lines = append(lines, strings.Split(row, "\n")...)
	}

	skip := m.scrollTop - firstRow*rowStride
	skip = min(max(skip, 0), len(lines))
	lines = lines[skip:]
	if len(lines) > height {
		lines = lines[:height]
	}
	return padBlock(strings.Join(lines, "\n"), height)
}

func (m Model) renderCard(i int) string {
	v := m.items[i]
	inner := cellWidth - 2
	pw, ph := posterSize()

	var art string
	if p, ok := m.preview[v.ID]; ok && v.ID == m.hoverID && p.Loaded() {
		art = p.Frame()
	} else {
		switch m.images.State(v.ID) {
		case lazyload.ImageLoaded:
			art = m.posters[v.ID]
		case lazyload.ImageFailed:
			art = media.Placeholder(pw, ph, 0x30)
		default:
			art = media.Placeholder(pw, ph, 0x18)
		}
	}

	title := common.TitleStyle.Render(common.Truncate(v.Title, inner))
	meta := m.cardMeta(v, inner)
	body := lipgloss.JoinVertical(lipgloss.Left, art, title, meta)

	style := common.UnselectedStyle
	if i == m.cursor {
		style = common.SelectedStyle
	}
	return style.Width(inner).Height(cellHeight - 2).MaxHeight(cellHeight).Render(body)
}

func (m Model) cardMeta(v domain.VideoRecord, width int) string {
	if badge := common.StatusLabel(v); badge != "" {
		return common.BadgeStyle.Render(common.Truncate(badge, width-2))
	}
	parts := []string{v.Owner.DisplayName}
	if d := common.Duration(v.DurationSeconds); d != "" {
		parts = append(parts, d)
	}
	parts = append(parts, "♡ "+common.Count(v.LikesCount))
	return common.MetadataStyle.Render(common.Truncate(strings.Join(parts, " · "), width))
}

func (m Model) statusBar() string {
	var status string
	switch {
	case m.loadingMore:
		status = m.spinner.View() + " Loading more..."
	case m.err != nil:
		status = common.ErrorStyle.Render("Error: " + m.err.Error())
	default:
		status = fmt.Sprintf("%d videos", len(m.items))
		if m.hasMore {
			status += "+"
		}
	}
	help := "arrows move · enter watch · / search · v saved · u upload · U uploads · q quit"
	return common.StatusBarStyle.Render(common.Truncate(" "+status+"  "+help, max(m.width, 20)))
}

func interleave(items []string, sep string) []string {
	out := make([]string, 0, 2*len(items))
	for i, s := range items {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, s)
	}
	return out
}

func padBlock(s string, height int) string {
	lines := strings.Split(s, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines[:height], "\n")
}
