package uploads

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/CrestNiraj12/reelhire/app"
	"github.com/CrestNiraj12/reelhire/core/debounce"
	"github.com/CrestNiraj12/reelhire/domain"
)

// NewIdempotencyKey returns a fresh key for one upload attempt.
func NewIdempotencyKey() string {
	return uuid.NewString()
}

// Submit uploads the blob behind a local record, reporting progress into the
// record, and swaps in the server id on success. Failures leave the record
// failed with a message. A record already being uploaded is refused with
// ErrUploadInFlight.
func (t *Tracker) Submit(ctx context.Context, id string) error {
	if !t.begin(id) {
		return ErrUploadInFlight
	}
	defer t.end(id)
	return t.upload(ctx, id)
}

func (t *Tracker) upload(ctx context.Context, id string) error {
	v, ok := t.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownVideo, id)
	}
	if t.opts.Uploader == nil || t.opts.Blobs == nil {
		return t.fail(id, errors.New("uploads are not configured"))
	}
	if !v.IsBlobBacked() {
		return t.fail(id, domain.ErrNoMedia)
	}
	f, size, err := t.opts.Blobs.Open(v.MediaURL)
	if err != nil {
		return t.fail(id, fmt.Errorf("open staged media: %w", err))
	}
	defer f.Close()

	req := app.UploadRequest{
		FileName:        filepath.Base(f.Name()),
		Size:            size,
		Media:           f,
		Title:           v.Title,
		Hashtags:        v.Hashtags,
		DurationSeconds: v.DurationSeconds,
		IdempotencyKey:  t.opts.NewKey(),
	}
	report, stopReport := debounce.Throttle(t.opts.ProgressInterval, func(p int) {
		_ = t.UpdateVideoStatus(id, ProgressPatch(p))
	})
	last := -1
	progress := func(p int) {
		if p == last {
			return
		}
		last = p
		report(p)
	}

	t.log.Info(ctx, "upload started", "video_id", id, "bytes", size)
	server, err := t.opts.Uploader.UploadVideo(ctx, req, progress)
	stopReport()
	if err != nil {
		t.log.Warn(ctx, "upload failed", "video_id", id, "err", err)
		return t.fail(id, err)
	}

	status := server.Status
	if status == "" || status == domain.StatusUploading {
		status = domain.StatusProcessing
	}
	var p Patch
	switch status {
	case domain.StatusCompleted:
		p = CompletedPatch(&server, "")
	case domain.StatusFailed:
		msg := server.ErrorMessage
		if msg == "" {
			msg = "Processing failed"
		}
		p = FailedPatch(msg)
	default:
		p = StatusPatch(status)
	}
	if status != domain.StatusCompleted {
		p.Server = &server
		// Keep playing the local blob until the server copy is ready.
		local := v.MediaURL
		p.MediaURL = &local
	}
	if err := t.UpdateVideoServerID(id, server.ID, p); err != nil {
		// Removed while uploading; the server copy is not ours to track.
		t.log.Info(ctx, "upload finished for removed record", "video_id", id, "server_id", server.ID)
		return nil
	}
	t.log.Info(ctx, "upload accepted", "video_id", id, "server_id", server.ID, "status", status)
	return nil
}

// RetryUpload resets a failed record to uploading and tries again: a
// blob-backed record is uploaded afresh, otherwise the server is asked to
// reprocess the existing id. Other metadata is kept.
func (t *Tracker) RetryUpload(ctx context.Context, id string) error {
	empty := ""
	reset := StatusPatch(domain.StatusUploading)
	reset.Progress = new(int)
	reset.ErrorMessage = &empty

	t.mu.Lock()
	i := t.indexLocked(id)
	if i < 0 {
		t.mu.Unlock()
		return fmt.Errorf("%w: %s", domain.ErrUnknownVideo, id)
	}
	v := t.videos[i]
	if _, busy := t.inflight[id]; busy {
		t.mu.Unlock()
		return ErrUploadInFlight
	}
	if v.Status != domain.StatusFailed {
		t.mu.Unlock()
		return ErrNotRetryable
	}
	t.inflight[id] = struct{}{}
	t.videos[i] = reset.Apply(v)
	t.mu.Unlock()
	defer t.end(id)
	t.changed(true)

	if v.IsBlobBacked() {
		return t.upload(ctx, id)
	}
	if t.opts.Uploader == nil {
		return t.fail(id, errors.New("uploads are not configured"))
	}
	if err := t.opts.Uploader.RetryVideo(ctx, id); err != nil {
		return t.fail(id, err)
	}
	return nil
}

func (t *Tracker) fail(id string, cause error) error {
	_ = t.UpdateVideoStatus(id, FailedPatch(failureMessage(cause)))
	return cause
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "Upload cancelled"
	case errors.Is(err, domain.ErrUnauthorized):
		return "Upload rejected: sign in again"
	case errors.Is(err, domain.ErrNoMedia):
		return "The video file is no longer available"
	}
	return "Upload failed: " + err.Error()
}
