package qr

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Level is the error-correction level of the symbol.
type Level string

const (
	LevelL Level = "L"
	LevelM Level = "M"
	LevelQ Level = "Q"
	LevelH Level = "H"
)

const (
	InlineWidth   = 200
	ZoomWidth     = 500
	DefaultMargin = 2

	DefaultForeground = "#1f2937"
	DefaultBackground = "#ffffff"
)

var ErrInvalidOptions = errors.New("qr: invalid options")

type Options struct {
	Width      int    `validate:"gt=0"`
	Margin     int    `validate:"gte=0"`
	Level      Level  `validate:"oneof=L M Q H"`
	Foreground string `validate:"hexcolor"`
	Background string `validate:"hexcolor"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return nil
}

func (o Options) key() string {
	return fmt.Sprintf("%d|%d|%s|%s|%s", o.Width, o.Margin, o.Level, o.Foreground, o.Background)
}

// Inline is the small rendering shown on the detail page.
func Inline(fg, bg string) Options {
	return Options{Width: InlineWidth, Margin: DefaultMargin, Level: LevelH, Foreground: fg, Background: bg}
}

// Zoom is the large rendering shown in the modal.
func Zoom(fg, bg string) Options {
	o := Inline(fg, bg)
	o.Width = ZoomWidth
	return o
}

func parseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 || len(h) == 4 {
		var b strings.Builder
		for _, r := range h {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		h = b.String()
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.RGBA{}, fmt.Errorf("%w: color %q", ErrInvalidOptions, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: color %q", ErrInvalidOptions, s)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
