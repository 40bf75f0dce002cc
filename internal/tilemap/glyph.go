package tilemap

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Glyph is a code page 437 character code, the index of a tile in the
// tilesheet.
type Glyph uint8

// Glyphs with a fixed meaning in the renderer.
const (
	GlyphNone       Glyph = 0   // fully invisible cell
	GlyphSpace      Glyph = 32  // blank but opaque
	GlyphLightShade Glyph = 176 // ░
	GlyphShade      Glyph = 177 // ▒ gauge remainder, wall shading
	GlyphDarkShade  Glyph = 178 // ▓
	GlyphBlock      Glyph = 219 // █ backgrounds and gauge fills
)

// cp437Low holds the graphical forms of codes 1..31 and 127. The x/text
// charmap maps those codes to control characters, a tilesheet draws pictures.
var cp437Low = [32]rune{
	0, '☺', '☻', '♥', '♦', '♣', '♠', '•', '◘', '○', '◙', '♂', '♀', '♪', '♫', '☼',
	'►', '◄', '↕', '‼', '¶', '§', '▬', '↨', '↑', '↓', '→', '←', '∟', '↔', '▲', '▼',
}

const cp437House = '⌂'

// lowGlyphs is the reverse of cp437Low.
var lowGlyphs = func() map[rune]Glyph {
	m := make(map[rune]Glyph, len(cp437Low))
	for i, r := range cp437Low {
		if i > 0 {
			m[r] = Glyph(i)
		}
	}
	m[cp437House] = 127
	return m
}()

// GlyphFromRune encodes r into code page 437. Runes with no CP437 form become
// '?'.
func GlyphFromRune(r rune) Glyph {
	if r == 0 {
		return GlyphNone
	}
	if g, ok := lowGlyphs[r]; ok {
		return g
	}
	if b, ok := charmap.CodePage437.EncodeRune(r); ok {
		return Glyph(b)
	}
	return Glyph('?')
}

// Glyphs encodes every rune of s.
func Glyphs(s string) []Glyph {
	out := make([]Glyph, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		out = append(out, GlyphFromRune(r))
	}
	return out
}

// Rune decodes the glyph for display on a Unicode terminal. GlyphNone shows as
// a space.
func (g Glyph) Rune() rune {
	switch {
	case g == GlyphNone:
		return ' '
	case g < 32:
		return cp437Low[g]
	case g == 127:
		return cp437House
	default:
		return charmap.CodePage437.DecodeByte(byte(g))
	}
}

// String implements fmt.Stringer.
func (g Glyph) String() string {
	return string(g.Rune())
}
