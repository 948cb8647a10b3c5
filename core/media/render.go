package media

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"strings"
)

// RenderANSI draws img as w x h cells of two-space blocks with 24-bit backgrounds.
func RenderANSI(img image.Image, w, h int) string {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return ""
	}
	w = max(w, 4)
	h = max(h, 2)
	var out strings.Builder
	for y := range h {
		for x := range w {
			sx := b.Min.X + x*b.Dx()/w
			sy := b.Min.Y + y*b.Dy()/h
			c := color.NRGBAModel.Convert(img.At(sx, sy)).(color.NRGBA)
			fmt.Fprintf(&out, "\x1b[48;2;%d;%d;%dm  \x1b[0m", c.R, c.G, c.B)
		}
		if y < h-1 {
			out.WriteByte('\n')
		}
	}
	return out.String()
}

// Placeholder draws a flat w x h block used while a poster is pending.
func Placeholder(w, h int, shade uint8) string {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: shade, G: shade, B: shade, A: 0xff})
	return RenderANSI(img, w, h)
}

func renderGIFFrames(data []byte, w, h, maxFrames int) ([]string, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("no frames")
	}
	if maxFrames <= 0 {
		maxFrames = DefaultMaxFrames
	}
	n := min(len(g.Image), maxFrames)
	frames := make([]string, 0, n)
	for i := range n {
		frames = append(frames, RenderANSI(g.Image[i], w, h))
	}
	return frames, nil
}
