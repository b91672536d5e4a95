// Package colors holds the RGBA color value used for painting and transitions.
package colors

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit per channel, non-premultiplied RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Common colors.
var (
	Transparent = Color{}
	Black       = Color{0, 0, 0, 255}
	White       = Color{255, 255, 255, 255}
)

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color { return Color{r, g, b, 255} }

// RGBA returns a color with explicit alpha.
func RGBA(r, g, b, a uint8) Color { return Color{r, g, b, a} }

// IsZero reports whether c is the zero value, which means "unset" on properties.
func (c Color) IsZero() bool { return c == Color{} }

// Visible reports whether painting c would change any pixel.
func (c Color) Visible() bool { return c.A > 0 }

// Parse accepts "#rgb", "#rrggbb", "#rrggbbaa" and the same forms without the
// leading '#'.
func Parse(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	var alpha uint8 = 255
	switch len(h) {
	case 3, 6:
	case 4:
		a, err := strconv.ParseUint(strings.Repeat(h[3:], 2), 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("colors: invalid alpha in %q", s)
		}
		alpha = uint8(a)
		h = h[:3]
	case 8:
		a, err := strconv.ParseUint(h[6:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("colors: invalid alpha in %q", s)
		}
		alpha = uint8(a)
		h = h[:6]
	default:
		return Color{}, fmt.Errorf("colors: invalid hex color %q", s)
	}
	c, err := colorful.Hex("#" + h)
	if err != nil {
		return Color{}, fmt.Errorf("colors: invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Color{r, g, b, alpha}, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Color {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats c as "#RRGGBB", or "#RRGGBBAA" when not fully opaque.
func (c Color) Hex() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

func (c Color) String() string { return c.Hex() }

// Lerp interpolates channel-wise from a to b. Channels are rounded half away
// from zero, so Lerp(Black, White, 0.5) is #808080.
func Lerp(a, b Color, t float64) Color {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	ch := func(x, y uint8) uint8 {
		v := math.Round(float64(x) + (float64(y)-float64(x))*t)
		return uint8(math.Max(0, math.Min(255, v)))
	}
	return Color{ch(a.R, b.R), ch(a.G, b.G), ch(a.B, b.B), ch(a.A, b.A)}
}

// WithOpacity returns c with its alpha multiplied by o (clamped to [0,1]).
func (c Color) WithOpacity(o float32) Color {
	if o >= 1 {
		return c
	}
	if o <= 0 {
		c.A = 0
		return c
	}
	c.A = uint8(math.Round(float64(c.A) * float64(o)))
	return c
}
