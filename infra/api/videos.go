package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/CrestNiraj12/reelhire/app"
	"github.com/CrestNiraj12/reelhire/domain"
)

// DefaultPageSize is used when a filter leaves PageSize unset.
const DefaultPageSize = 24

// videoService implements app.VideoService over the REST API.
type videoService struct {
	client *Client
}

// NewVideoService creates a VideoService backed by the API.
func NewVideoService(client *Client) *videoService {
	return &videoService{client: client}
}

func videoPath(id, suffix string) string {
	return "/api/v1/videos/" + url.PathEscape(id) + suffix
}

func (s *videoService) FetchVideos(ctx context.Context, f app.FilterParams) (app.VideoPage, error) {
	q := url.Values{}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	if f.Hashtag != "" {
		q.Set("hashtag", f.Hashtag)
	}
	if f.Role != "" {
		q.Set("role", f.Role)
	}
	if f.Cursor != "" {
		q.Set("cursor", f.Cursor)
	}
	if f.SavedBy {
		q.Set("saved", "true")
	}
	limit := f.PageSize
	if limit <= 0 {
		limit = DefaultPageSize
	}
	q.Set("limit", strconv.Itoa(limit))

	var page wirePage
	if err := s.client.getJSON(ctx, "/api/v1/videos?"+q.Encode(), &page); err != nil {
		return app.VideoPage{}, fmt.Errorf("fetching videos: %w", err)
	}
	out := app.VideoPage{
		Videos:     make([]domain.VideoRecord, 0, len(page.Videos)),
		HasMore:    page.HasMore,
		NextCursor: page.NextCursor,
	}
	for _, v := range page.Videos {
		if v.ID == "" {
			continue
		}
		out.Videos = append(out.Videos, v.toDomain())
	}
	return out, nil
}

func (s *videoService) FetchVideoStatus(ctx context.Context, id string) (app.StatusReport, error) {
	var st wireStatus
	if err := s.client.getJSON(ctx, videoPath(id, "/status"), &st); err != nil {
		return app.StatusReport{}, fmt.Errorf("fetching status of %s: %w", id, err)
	}
	status, ok := domain.ParseStatus(st.Status)
	if !ok {
		return app.StatusReport{}, fmt.Errorf("status of %s: unknown value %q", id, st.Status)
	}
	report := app.StatusReport{Status: status, VideoURL: st.VideoURL, Message: st.Message}
	if st.Video != nil {
		v := st.Video.toDomain()
		report.Video = &v
	}
	return report, nil
}

func (s *videoService) LikeVideo(ctx context.Context, id string) error {
	return s.toggle(ctx, http.MethodPost, id, "/like", "liking")
}

func (s *videoService) UnlikeVideo(ctx context.Context, id string) error {
	return s.toggle(ctx, http.MethodDelete, id, "/like", "unliking")
}

func (s *videoService) SaveVideo(ctx context.Context, id string) error {
	return s.toggle(ctx, http.MethodPost, id, "/save", "saving")
}

func (s *videoService) UnsaveVideo(ctx context.Context, id string) error {
	return s.toggle(ctx, http.MethodDelete, id, "/save", "unsaving")
}

func (s *videoService) toggle(ctx context.Context, method, id, suffix, verb string) error {
	if err := s.client.sendJSON(ctx, method, videoPath(id, suffix), nil, nil); err != nil {
		return fmt.Errorf("%s video %s: %w", verb, id, err)
	}
	return nil
}

func (s *videoService) ShareVideo(ctx context.Context, id, channel string) error {
	body := map[string]string{"channel": channel}
	if err := s.client.sendJSON(ctx, http.MethodPost, videoPath(id, "/share"), body, nil); err != nil {
		return fmt.Errorf("recording share of %s: %w", id, err)
	}
	return nil
}
