package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubFFmpeg(t *testing.T, fn func(ctx context.Context, args ...string) ([]byte, error)) {
	t.Helper()
	orig := runFFmpeg
	runFFmpeg = fn
	t.Cleanup(func() { runFFmpeg = orig })
}

func solid(c color.Color) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, 4, 4), color.Palette{color.Black, color.White, c})
	for y := range 4 {
		for x := range 4 {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestCaptureFirstFrameRendersPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solid(color.White)))
	var gotArgs []string
	stubFFmpeg(t, func(_ context.Context, args ...string) ([]byte, error) {
		gotArgs = args
		return buf.Bytes(), nil
	})

	out, err := CaptureFirstFrame(context.Background(), "/tmp/clip.mp4", 4, 2)
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[48;2;255;255;255m")
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, strings.Join(gotArgs, " "), "-frames:v 1")
}

func TestCaptureFirstFrameTimesOut(t *testing.T) {
	stubFFmpeg(t, func(ctx context.Context, _ ...string) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := CaptureFirstFrame(ctx, "https://cdn.example/v.mp4", 4, 2)
	require.ErrorIs(t, err, ErrCaptureTimeout)
}

func TestLoadFramesDecodesGIF(t *testing.T) {
	anim := &gif.GIF{
		Image: []*image.Paletted{solid(color.White), solid(color.Black), solid(color.White)},
		Delay: []int{0, 0, 0},
	}
	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, anim))
	stubFFmpeg(t, func(context.Context, ...string) ([]byte, error) { return buf.Bytes(), nil })

	frames, err := LoadFrames(context.Background(), "in.mp4", 4, 2, 2)
	require.NoError(t, err)
	require.Len(t, frames, 2)
	assert.NotEqual(t, frames[0], frames[1])
}

func TestRenderANSIEmptyImage(t *testing.T) {
	assert.Empty(t, RenderANSI(image.NewRGBA(image.Rect(0, 0, 0, 0)), 4, 2))
	assert.NotEmpty(t, Placeholder(4, 2, 0x30))
}
