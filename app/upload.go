package app

import (
	"context"
	"io"

	"github.com/CrestNiraj12/reelhire/domain"
)

// UploadRequest carries the media and metadata of a new upload.
type UploadRequest struct {
	FileName        string
	Size            int64
	Media           io.Reader
	Title           string
	Hashtags        []string
	DurationSeconds float64
	IdempotencyKey  string
}

// UploadService submits media to the server.
type UploadService interface {
	// UploadVideo sends the media and returns the server-side record.
	// progress receives percentages in [0,100] as bytes are written.
	UploadVideo(ctx context.Context, req UploadRequest, progress func(int)) (domain.VideoRecord, error)

	// RetryVideo asks the server to reprocess an already uploaded video.
	RetryVideo(ctx context.Context, id string) error
}
