package core

import (
	"fmt"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a straight (non-premultiplied) RGBA color of a tile cell.
type Color struct {
	R, G, B, A uint8
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 0xff}
}

// Predefined colors for game elements.
var (
	ColorTransparent = Color{}
	ColorBlack       = RGB(0, 0, 0)
	ColorWhite       = RGB(255, 255, 255)
	ColorRed         = RGB(255, 0, 0)
	ColorGreen       = RGB(0, 255, 0)
	ColorBlue        = RGB(0, 0, 255)
	ColorYellow      = RGB(255, 255, 0)
	ColorCyan        = RGB(0, 255, 255)
	ColorMagenta     = RGB(255, 0, 255)
	ColorGray        = RGB(128, 128, 128)
	ColorDarkGray    = RGB(64, 64, 64)
	ColorOrange      = RGB(255, 165, 0)
	ColorNavy        = RGB(0, 0, 128)
	ColorDarkGreen   = RGB(0, 100, 0)
)

// colorful converts to the go-colorful representation, dropping alpha.
func (c Color) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

func fromColorful(cf colorful.Color, a uint8) Color {
	r, g, b := cf.Clamped().RGB255()
	return Color{R: r, G: g, B: b, A: a}
}

// Opaque reports whether the color has full alpha.
func (c Color) Opaque() bool {
	return c.A == 0xff
}

// Hex returns "#rrggbb", or "#rrggbbaa" when the color is not opaque.
func (c Color) Hex() string {
	h := c.colorful().Hex()
	if c.Opaque() {
		return h
	}
	return fmt.Sprintf("%s%02x", h, c.A)
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.Hex()
}

// Lerp blends from c towards to by t in [0, 1], interpolating in RGB space.
func (c Color) Lerp(to Color, t float64) Color {
	t = ClampF(t, 0, 1)
	a := float64(c.A) + (float64(to.A)-float64(c.A))*t
	return fromColorful(c.colorful().BlendRgb(to.colorful(), t), uint8(a+0.5))
}

// ParseHex parses "#rrggbb" or "#rrggbbaa".
func ParseHex(s string) (Color, error) {
	s = strings.TrimSpace(s)
	switch len(s) {
	case 7:
		cf, err := colorful.Hex(s)
		if err != nil {
			return Color{}, fmt.Errorf("color: parse %q: %w", s, err)
		}
		return fromColorful(cf, 0xff), nil
	case 9:
		cf, err := colorful.Hex(s[:7])
		if err != nil {
			return Color{}, fmt.Errorf("color: parse %q: %w", s, err)
		}
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("color: parse alpha %q: %w", s, err)
		}
		return fromColorful(cf, uint8(a)), nil
	default:
		return Color{}, fmt.Errorf("color: parse %q: expected #rrggbb or #rrggbbaa", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so colors can be written
// as hex strings in YAML and JSON.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
