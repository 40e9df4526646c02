// Package export renders dashboard figures as PNG images for clients
// that cannot run plotly.js.
package export

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Image size in pixels at the default 96 DPI.
const (
	Width  = 800
	Height = 500
)

var ErrNoSeries = errors.New("nothing to draw")

// parseHex parses "#rrggbb" or "#rgb".
func parseHex(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// seriesColor falls back to gray for colors that do not parse.
func seriesColor(s string) color.RGBA {
	c, err := parseHex(s)
	if err != nil {
		return color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	}
	return c
}
