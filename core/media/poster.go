package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"time"
)

const maxPosterBytes = 4 * 1024 * 1024

var posterClient = &http.Client{Timeout: 6 * time.Second}

// LoadPoster fetches an image URL and renders it as a w x h ANSI block.
func LoadPoster(ctx context.Context, url string, w, h int) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := posterClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("poster status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPosterBytes))
	if err != nil {
		return "", err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	return RenderANSI(img, w, h), nil
}

// Thumbnail returns the poster when one is set, otherwise the first frame of
// the media itself.
func Thumbnail(ctx context.Context, posterURL, mediaInput string, w, h int) (string, error) {
	if posterURL != "" {
		if s, err := LoadPoster(ctx, posterURL, w, h); err == nil {
			return s, nil
		}
	}
	if mediaInput == "" {
		return "", fmt.Errorf("no poster or media")
	}
	return CaptureFirstFrame(ctx, mediaInput, w, h)
}
