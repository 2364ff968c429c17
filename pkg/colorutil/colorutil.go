// Package colorutil provides shared color utilities for the drafting
// application: hex color strings as stored in scenes and preferences,
// and simple channel blending for compositing.
package colorutil

import (
	"fmt"
	"image/color"
)

// Common drawing colors.
var (
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Black  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	Yellow = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	Green  = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Cyan   = color.RGBA{R: 0, G: 200, B: 255, A: 255}
)

// ParseHex parses a #rrggbb string. The second return value reports
// whether the string was well formed.
func ParseHex(s string) (color.RGBA, bool) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, false
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, true
}

// FormatHex renders a color as a #rrggbb string, discarding alpha.
func FormatHex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Blend mixes a source channel over a destination channel with the
// given opacity in [0,1].
func Blend(dst, src uint8, opacity float64) uint8 {
	return uint8(float64(dst)*(1-opacity) + float64(src)*opacity)
}

// Scale darkens a color by the given factor in [0,1].
func Scale(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}
