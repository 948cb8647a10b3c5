package feed

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	corefeed "github.com/CrestNiraj12/reelhire/core/feed"
	"github.com/CrestNiraj12/reelhire/core/media"
)

const actionTimeout = 10 * time.Second

func (m Model) settleCmd(t corefeed.Ticket) tea.Cmd {
	return tea.Tick(m.ctrl.SettleDelay(), func(time.Time) tea.Msg {
		return SettleMsg{Ticket: t}
	})
}

func (m Model) flingFrameCmd(gen uint64) tea.Cmd {
	period := time.Duration(m.ctrl.Engine().Config().FramePeriodMs * float64(time.Millisecond))
	return tea.Tick(period, func(time.Time) tea.Msg {
		return FlingFrameMsg{Generation: gen}
	})
}

func snapFrameCmd(seq int) tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(time.Time) tea.Msg {
		return SnapFrameMsg{Seq: seq}
	})
}

func playbackTickCmd() tea.Cmd {
	return tea.Tick(media.DefaultFrameInterval, func(time.Time) tea.Msg {
		return PlaybackTickMsg{}
	})
}

func (m Model) framesCmd(id, src, input string, w, h int) tea.Cmd {
	load := m.loadFrames
	return func() tea.Msg {
		frames, err := load(context.Background(), input, w, h)
		return FramesLoadedMsg{ID: id, Src: src, Frames: frames, Err: err}
	}
}

func (m Model) posterCmd(id, src, posterURL, input string, w, h int) tea.Cmd {
	thumb := m.thumbnail
	return func() tea.Msg {
		poster, err := thumb(context.Background(), posterURL, input, w, h)
		return PosterLoadedMsg{ID: id, Src: src, Poster: poster, Err: err}
	}
}

func (m Model) reactionCmd(n corefeed.Notice) tea.Cmd {
	svc := m.videos
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		var err error
		switch {
		case n.Kind == corefeed.NoticeLike && n.Active:
			err = svc.LikeVideo(ctx, n.VideoID)
		case n.Kind == corefeed.NoticeLike:
			err = svc.UnlikeVideo(ctx, n.VideoID)
		case n.Kind == corefeed.NoticeSave && n.Active:
			err = svc.SaveVideo(ctx, n.VideoID)
		default:
			err = svc.UnsaveVideo(ctx, n.VideoID)
		}
		return ReactionResultMsg{Notice: n, Err: err}
	}
}

// shareCmd runs the share off the update loop. HandleShare only reads the
// controller's sharer list, which never changes after construction.
func (m Model) shareCmd() tea.Cmd {
	v, ok := m.ctrl.Current()
	if !ok {
		return nil
	}
	ctrl := m.ctrl
	svc := m.videos
	logger := m.logger
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		n, err := ctrl.HandleShare(ctx, v)
		if err == nil && svc != nil && !v.IsLocal {
			if rerr := svc.ShareVideo(ctx, v.ID, n.Channel); rerr != nil {
				logger.Warn(ctx, "recording share failed", "video", v.ID, "error", rerr)
			}
		}
		return ShareResultMsg{Notice: n, Err: err}
	}
}
