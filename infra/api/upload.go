package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/CrestNiraj12/reelhire/app"
	"github.com/CrestNiraj12/reelhire/domain"
)

// uploadService implements app.UploadService with a streamed multipart POST.
type uploadService struct {
	client *Client
}

// NewUploadService creates an UploadService backed by the API.
func NewUploadService(client *Client) *uploadService {
	return &uploadService{client: client}
}

func (s *uploadService) UploadVideo(ctx context.Context, req app.UploadRequest, progress func(int)) (domain.VideoRecord, error) {
	if req.Media == nil {
		return domain.VideoRecord{}, domain.ErrNoMedia
	}
	if progress == nil {
		progress = func(int) {}
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		pw.CloseWithError(writeUploadForm(mw, req, progress))
	}()

	ctx = withIdempotencyKey(ctx, req.IdempotencyKey)
	data, err := s.client.do(ctx, http.MethodPost, "/api/v1/videos", mw.FormDataContentType(), pr)
	// Unblock the writer if the request ended before the body was consumed.
	pr.CloseWithError(io.ErrClosedPipe)
	wg.Wait()
	if err != nil {
		return domain.VideoRecord{}, fmt.Errorf("uploading video: %w", err)
	}

	var created wireVideo
	if err := decode(data, &created); err != nil {
		return domain.VideoRecord{}, err
	}
	if created.ID == "" {
		return domain.VideoRecord{}, fmt.Errorf("uploading video: response has no id")
	}
	progress(100)
	v := created.toDomain()
	if created.Status == "" {
		v.Status = domain.StatusProcessing
	}
	return v, nil
}

func writeUploadForm(mw *multipart.Writer, req app.UploadRequest, progress func(int)) error {
	fields := [][2]string{
		{"title", req.Title},
		{"hashtags", strings.Join(req.Hashtags, ",")},
	}
	if req.DurationSeconds > 0 {
		fields = append(fields, [2]string{"duration_seconds", strconv.FormatFloat(req.DurationSeconds, 'f', -1, 64)})
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return err
		}
	}
	name := req.FileName
	if name == "" {
		name = "video.mp4"
	}
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return err
	}
	counter := &progressWriter{total: req.Size, report: progress}
	if _, err := io.Copy(io.MultiWriter(part, counter), req.Media); err != nil {
		return err
	}
	return mw.Close()
}

// progressWriter turns bytes written into whole percentages, capped at 99
// until the server has answered.
type progressWriter struct {
	total   int64
	written int64
	last    int
	report  func(int)
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.written += int64(len(b))
	if p.total > 0 {
		pct := min(int(p.written*100/p.total), 99)
		if pct != p.last {
			p.last = pct
			p.report(pct)
		}
	}
	return len(b), nil
}

func (s *uploadService) RetryVideo(ctx context.Context, id string) error {
	if err := s.client.sendJSON(ctx, http.MethodPost, videoPath(id, "/retry"), nil, nil); err != nil {
		return fmt.Errorf("retrying video %s: %w", id, err)
	}
	return nil
}
