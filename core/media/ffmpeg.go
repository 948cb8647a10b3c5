package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os/exec"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultMaxFrames caps how many frames a preview decodes.
	DefaultMaxFrames = 24
	// FrameLoadTimeout bounds a full frame extraction.
	FrameLoadTimeout = 8 * time.Second
	// FirstFrameTimeout bounds a thumbnail capture.
	FirstFrameTimeout = 5 * time.Second
)

var (
	// ErrFFmpegUnavailable is returned when ffmpeg is not on PATH.
	ErrFFmpegUnavailable = errors.New("ffmpeg unavailable")
	// ErrCaptureTimeout is returned when a thumbnail capture is abandoned.
	ErrCaptureTimeout = errors.New("thumbnail capture timed out")
)

var (
	ffmpegCheckOnce sync.Once
	ffmpegAvailable bool
)

func hasFFmpeg() bool {
	ffmpegCheckOnce.Do(func() {
		_, err := exec.LookPath("ffmpeg")
		ffmpegAvailable = err == nil
	})
	return ffmpegAvailable
}

// runFFmpeg runs ffmpeg and returns stdout. The process is killed when ctx ends.
var runFFmpeg = func(ctx context.Context, args ...string) ([]byte, error) {
	if !hasFFmpeg() {
		return nil, ErrFFmpegUnavailable
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("ffmpeg: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("ffmpeg: %w", err)
	}
	return out, nil
}

// LoadFrames decodes up to maxFrames frames of input (a URL or local path) at
// four frames per second, rendered as w x h ANSI blocks.
func LoadFrames(ctx context.Context, input string, w, h, maxFrames int) ([]string, error) {
	if maxFrames <= 0 {
		maxFrames = DefaultMaxFrames
	}
	ctx, cancel := context.WithTimeout(ctx, FrameLoadTimeout)
	defer cancel()

	filter := fmt.Sprintf("fps=4,scale=%d:%d:flags=lanczos", max(w*2, 16), max(h*2, 8))
	data, err := runFFmpeg(ctx,
		"-hide_banner",
		"-loglevel", "error",
		"-i", input,
		"-vf", filter,
		"-frames:v", fmt.Sprintf("%d", maxFrames),
		"-f", "gif",
		"-",
	)
	if err != nil {
		return nil, err
	}
	return renderGIFFrames(data, w, h, maxFrames)
}

// CaptureFirstFrame grabs the first frame of input as an ANSI thumbnail. It
// gives up after FirstFrameTimeout and the ffmpeg process is killed.
func CaptureFirstFrame(ctx context.Context, input string, w, h int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, FirstFrameTimeout)
	defer cancel()

	data, err := runFFmpeg(ctx,
		"-hide_banner",
		"-loglevel", "error",
		"-ss", "0",
		"-i", input,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", ErrCaptureTimeout
		}
		return "", err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode first frame: %w", err)
	}
	return RenderANSI(img, w, h), nil
}
