package grid

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/reelhire/app"
	"github.com/CrestNiraj12/reelhire/core/media"
	"github.com/CrestNiraj12/reelhire/domain"
)

const fetchTimeout = 20 * time.Second

// posterSize is the card poster size in render cells.
func posterSize() (int, int) {
	return (cellWidth - 2) / 2, cellHeight - 4
}

func (m Model) filter(cursor string) app.FilterParams {
	return app.FilterParams{
		Query:    m.query,
		Cursor:   cursor,
		PageSize: pageSize,
		SavedBy:  m.savedOnly,
	}
}

func (m Model) fetchPage(seq int, appendPage bool) tea.Cmd {
	svc := m.videos
	if svc == nil {
		return nil
	}
	cursor := ""
	if appendPage {
		cursor = m.nextCursor
	}
	filter := m.filter(cursor)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		page, err := svc.FetchVideos(ctx, filter)
		if err != nil {
			return PageErrorMsg{Seq: seq, Append: appendPage, Err: err}
		}
		return PageLoadedMsg{Seq: seq, Append: appendPage, Page: page}
	}
}

func (m Model) posterCmd(i int) tea.Cmd {
	v := m.items[i]
	input := m.mediaInput(v)
	thumb := m.thumbnail
	w, h := posterSize()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), media.FirstFrameTimeout+time.Second)
		defer cancel()
		poster, err := thumb(ctx, v.PosterURL, input, w, h)
		return PosterLoadedMsg{ID: v.ID, Poster: poster, Err: err}
	}
}

func (m Model) previewCmd(id, src, input string) tea.Cmd {
	load := m.loadPreview
	w, h := posterSize()
	return func() tea.Msg {
		frames, err := load(context.Background(), input, w, h)
		return PreviewFramesMsg{ID: id, Src: src, Frames: frames, Err: err}
	}
}

func previewTickCmd() tea.Cmd {
	return tea.Tick(media.DefaultFrameInterval, func(time.Time) tea.Msg {
		return PreviewTickMsg{}
	})
}

func searchDebounceCmd(seq int) tea.Cmd {
	return tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return SearchDebounceMsg{Seq: seq}
	})
}

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
