package app

import (
	"context"

	"github.com/CrestNiraj12/reelhire/domain"
)

// FilterParams narrows a video listing.
type FilterParams struct {
	Query    string
	Hashtag  string
	Role     string
	Cursor   string // Opaque page cursor returned by the previous page
	PageSize int
	SavedBy  bool // Only videos saved by the current user
}

// VideoPage is one page of a video listing.
type VideoPage struct {
	Videos     []domain.VideoRecord
	HasMore    bool
	NextCursor string
}

// StatusReport is the server's answer to a status poll.
type StatusReport struct {
	Status   domain.VideoStatus
	VideoURL string
	Video    *domain.VideoRecord // Final metadata, usually only on completion
	Message  string
}

// VideoService is the REST data service the feed and grid consume.
type VideoService interface {
	// FetchVideos returns a page of videos matching the filter.
	FetchVideos(ctx context.Context, filter FilterParams) (VideoPage, error)

	// FetchVideoStatus reports the processing state of one video.
	// Implementations return domain.ErrNotFound when the server has no such video.
	FetchVideoStatus(ctx context.Context, id string) (StatusReport, error)

	LikeVideo(ctx context.Context, id string) error
	UnlikeVideo(ctx context.Context, id string) error
	SaveVideo(ctx context.Context, id string) error
	UnsaveVideo(ctx context.Context, id string) error

	// ShareVideo records a share through the given channel ("native", "link", ...).
	ShareVideo(ctx context.Context, id, channel string) error
}
