package grid

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/reelhire/core/lazyload"
	"github.com/CrestNiraj12/reelhire/core/viewport"
)

const rowStride = cellHeight + cellGap

func (m Model) containerHeight() int {
	return max(m.height-headerLines-footerLines, cellHeight)
}

func (m Model) gridParams() viewport.GridParams {
	return viewport.GridParams{
		ItemCount:       len(m.items),
		ItemWidth:       cellWidth,
		ItemHeight:      cellHeight,
		Gap:             cellGap,
		ContainerWidth:  float64(max(m.width, cellWidth)),
		ContainerHeight: float64(m.containerHeight()),
		ScrollTop:       float64(m.scrollTop),
	}
}

func (m Model) window() viewport.GridWindow {
	return viewport.ComputeGridWindow(m.gridParams())
}

func (m Model) columns() int {
	return viewport.GridColumns(cellWidth, cellGap, float64(max(m.width, cellWidth)))
}

func (m Model) maxScroll() int {
	total := int(m.window().TotalHeight)
	return max(total-m.containerHeight(), 0)
}

func (m *Model) clampScroll() {
	m.scrollTop = min(max(m.scrollTop, 0), m.maxScroll())
}

func (m *Model) scrollBy(rows int) {
	m.scrollTop += rows
	m.clampScroll()
}

// ensureCursorVisible scrolls just enough to show the cursor's row.
func (m *Model) ensureCursorVisible() {
	if len(m.items) == 0 {
		m.scrollTop = 0
		return
	}
	top := int(viewport.RowTop(m.cursor, m.columns(), cellHeight, cellGap))
	bottom := top + cellHeight
	if top < m.scrollTop {
		m.scrollTop = top
	}
	if bottom > m.scrollTop+m.containerHeight() {
		m.scrollTop = bottom - m.containerHeight()
	}
	m.clampScroll()
}

// hitTest maps a terminal position to the index of the card under it.
func (m Model) hitTest(x, y int) (int, bool) {
	cy := y - headerLines
	if cy < 0 || cy >= m.containerHeight() || x < 0 {
		return 0, false
	}
	cy += m.scrollTop
	row, ry := cy/rowStride, cy%rowStride
	col, rx := x/(cellWidth+cellGap), x%(cellWidth+cellGap)
	if ry >= cellHeight || rx >= cellWidth || col >= m.columns() {
		return 0, false
	}
	idx := row*m.columns() + col
	if idx >= len(m.items) {
		return 0, false
	}
	return idx, true
}

// afterLayout runs after anything that moves cards: it feeds the visibility
// observers, starts poster loads, mounts a pending hover preview and decides
// whether to fetch the next page.
func (m *Model) afterLayout() tea.Cmd {
	win := m.window()
	for _, c := range win.Cells {
		id := m.items[c.Index].ID
		rect := lazyload.Rect{X: c.Left, Y: c.Top, W: cellWidth, H: cellHeight}
		if !m.previewReady[id] {
			m.videoObserver.Observe(id, rect)
		}
		if m.images.State(id) != lazyload.ImagePending || m.observer.Observing(id) {
			continue
		}
		m.observer.Observe(id, rect)
	}

	view := lazyload.Rect{
		W: float64(max(m.width, cellWidth)),
		Y: float64(m.scrollTop),
		H: float64(m.containerHeight()),
	}
	var cmds []tea.Cmd
	for _, ev := range m.observer.Update(view) {
		if !ev.Visible || !m.images.Begin(ev.Key) {
			continue
		}
		if v, ok := m.itemByID(ev.Key); ok {
			cmds = append(cmds, m.posterCmd(v))
		}
	}
	for _, ev := range m.videoObserver.Update(view) {
		if !ev.Visible {
			continue
		}
		m.previewReady[ev.Key] = true
		if ev.Key != m.hoverID {
			continue
		}
		if i, ok := m.itemByID(ev.Key); ok {
			cmds = append(cmds, m.mountPreview(m.items[i]))
		}
	}
	if cmd := m.maybeLoadMore(win); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// maybeLoadMore fetches the next page once the last row is on screen. It never
// issues a second request while one is in flight.
func (m *Model) maybeLoadMore(win viewport.GridWindow) tea.Cmd {
	if !m.hasMore || m.loading || m.loadingMore || len(win.Cells) == 0 {
		return nil
	}
	last := win.Cells[len(win.Cells)-1]
	if last.Row < win.Rows-1 {
		return nil
	}
	m.loadingMore = true
	return m.fetchPage(m.reqSeq, true)
}

func (m Model) itemByID(id string) (int, bool) {
	for i, v := range m.items {
		if v.ID == id {
			return i, true
		}
	}
	return 0, false
}
