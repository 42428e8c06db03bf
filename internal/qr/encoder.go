package qr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"

	qrcode "github.com/skip2/go-qrcode"
)

// Encoder turns text into a scannable PNG.
type Encoder interface {
	Encode(ctx context.Context, text string, opts Options) ([]byte, error)
}

// PNGEncoder renders with go-qrcode. Width is the full image size in pixels
// and Margin is the quiet zone in modules.
type PNGEncoder struct{}

func NewPNGEncoder() *PNGEncoder { return &PNGEncoder{} }

func (PNGEncoder) Encode(ctx context.Context, text string, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	fg, err := parseHex(opts.Foreground)
	if err != nil {
		return nil, err
	}
	bg, err := parseHex(opts.Background)
	if err != nil {
		return nil, err
	}

	q, err := qrcode.New(text, recoveryLevel(opts.Level))
	if err != nil {
		return nil, fmt.Errorf("qr: encode %q: %w", text, err)
	}
	q.DisableBorder = true

	img := render(q.Bitmap(), opts.Width, opts.Margin, fg, bg)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("qr: png: %w", err)
	}
	return buf.Bytes(), nil
}

func recoveryLevel(l Level) qrcode.RecoveryLevel {
	switch l {
	case LevelL:
		return qrcode.Low
	case LevelM:
		return qrcode.Medium
	case LevelQ:
		return qrcode.High
	default:
		return qrcode.Highest
	}
}

// render lays the module grid plus margin over a width x width image. If
// width is too small for one pixel per module it falls back to 4px modules.
func render(bits [][]bool, width, margin int, fg, bg color.RGBA) *image.Paletted {
	modules := len(bits) + 2*margin

	size := width
	if size < modules {
		size = modules * 4
	}
	scale := float64(size) / float64(modules)

	img := image.NewPaletted(image.Rect(0, 0, size, size), color.Palette{bg, fg})
	for y := 0; y < size; y++ {
		my := int(float64(y)/scale) - margin
		for x := 0; x < size; x++ {
			mx := int(float64(x)/scale) - margin
			if my >= 0 && my < len(bits) && mx >= 0 && mx < len(bits) && bits[my][mx] {
				img.SetColorIndex(x, y, 1)
			}
		}
	}
	return img
}
