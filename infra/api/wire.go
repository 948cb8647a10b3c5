package api

import (
	"strings"
	"time"

	"github.com/CrestNiraj12/reelhire/domain"
)

type wireOwner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
	Role        string `json:"role"`
}

type wireVideo struct {
	ID              string    `json:"id"`
	VideoURL        string    `json:"video_url"`
	ThumbnailURL    string    `json:"thumbnail_url"`
	Title           string    `json:"title"`
	Hashtags        []string  `json:"hashtags"`
	DurationSeconds float64   `json:"duration_seconds"`
	Owner           wireOwner `json:"owner"`
	Status          string    `json:"status"`
	LikesCount      int       `json:"likes_count"`
	ViewsCount      int       `json:"views_count"`
	CreatedAt       time.Time `json:"created_at"`
	ShareURL        string    `json:"share_url"`
	ErrorMessage    string    `json:"error_message"`
}

func (w wireVideo) toDomain() domain.VideoRecord {
	status, ok := domain.ParseStatus(w.Status)
	if !ok {
		status = domain.StatusCompleted
	}
	tags := make([]string, 0, len(w.Hashtags))
	for _, t := range w.Hashtags {
		if t = strings.TrimPrefix(strings.TrimSpace(t), "#"); t != "" {
			tags = append(tags, t)
		}
	}
	return domain.VideoRecord{
		ID:              w.ID,
		MediaURL:        w.VideoURL,
		PosterURL:       w.ThumbnailURL,
		Title:           w.Title,
		Hashtags:        tags,
		DurationSeconds: w.DurationSeconds,
		Owner: domain.Owner{
			ID:          w.Owner.ID,
			DisplayName: w.Owner.DisplayName,
			AvatarURL:   w.Owner.AvatarURL,
			Role:        w.Owner.Role,
		},
		Status:       status,
		LikesCount:   w.LikesCount,
		ViewsCount:   w.ViewsCount,
		SubmittedAt:  w.CreatedAt,
		ShareURL:     w.ShareURL,
		ErrorMessage: w.ErrorMessage,
	}
}

type wirePage struct {
	Videos     []wireVideo `json:"videos"`
	HasMore    bool        `json:"has_more"`
	NextCursor string      `json:"next_cursor"`
}

type wireStatus struct {
	Status   string     `json:"status"`
	VideoURL string     `json:"video_url"`
	Video    *wireVideo `json:"video"`
	Message  string     `json:"message"`
}
