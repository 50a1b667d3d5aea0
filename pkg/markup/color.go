// color.go defines text colors, the named palette, and color parsing.
package markup

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mazznoer/csscolorparser"
)

// Color is an RGB text color. Name is set when the color is one of the
// sixteen palette entries and was produced by name or by snapping.
type Color struct {
	Value uint32 // 0xRRGGBB
	Name  string
}

// The named palette.
var (
	Black       = Color{Value: 0x000000, Name: "black"}
	DarkBlue    = Color{Value: 0x0000aa, Name: "dark_blue"}
	DarkGreen   = Color{Value: 0x00aa00, Name: "dark_green"}
	DarkAqua    = Color{Value: 0x00aaaa, Name: "dark_aqua"}
	DarkRed     = Color{Value: 0xaa0000, Name: "dark_red"}
	DarkPurple  = Color{Value: 0xaa00aa, Name: "dark_purple"}
	Gold        = Color{Value: 0xffaa00, Name: "gold"}
	Gray        = Color{Value: 0xaaaaaa, Name: "gray"}
	DarkGray    = Color{Value: 0x555555, Name: "dark_gray"}
	Blue        = Color{Value: 0x5555ff, Name: "blue"}
	Green       = Color{Value: 0x55ff55, Name: "green"}
	Aqua        = Color{Value: 0x55ffff, Name: "aqua"}
	Red         = Color{Value: 0xff5555, Name: "red"}
	LightPurple = Color{Value: 0xff55ff, Name: "light_purple"}
	Yellow      = Color{Value: 0xffff55, Name: "yellow"}
	White       = Color{Value: 0xffffff, Name: "white"}
)

var palette = []Color{
	Black, DarkBlue, DarkGreen, DarkAqua, DarkRed, DarkPurple, Gold, Gray,
	DarkGray, Blue, Green, Aqua, Red, LightPurple, Yellow, White,
}

// colorAliases maps alternative spellings to palette names.
var colorAliases = map[string]string{
	"grey":      "gray",
	"dark_grey": "dark_gray",
}

var (
	namedColors = indexByName()
	colorsByRGB = indexByRGB()
)

func indexByName() map[string]Color {
	m := make(map[string]Color, len(palette)+len(colorAliases))
	for _, c := range palette {
		m[c.Name] = c
	}
	for alias, name := range colorAliases {
		m[alias] = m[name]
	}
	return m
}

func indexByRGB() map[uint32]Color {
	m := make(map[uint32]Color, len(palette))
	for _, c := range palette {
		m[c.Value] = c
	}
	return m
}

// RGB builds an unnamed color from its channels.
func RGB(r, g, b uint8) Color {
	return Color{Value: uint32(r)<<16 | uint32(g)<<8 | uint32(b)}
}

// HexColor builds an unnamed color from a 0xRRGGBB value.
func HexColor(v uint32) Color {
	return Color{Value: v & 0xffffff}
}

// R returns the red channel.
func (c Color) R() uint8 { return uint8(c.Value >> 16) }

// G returns the green channel.
func (c Color) G() uint8 { return uint8(c.Value >> 8) }

// B returns the blue channel.
func (c Color) B() uint8 { return uint8(c.Value) }

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%06x", c.Value)
}

// String returns the palette name, or #rrggbb for unnamed colors.
func (c Color) String() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Hex()
}

// MarshalText encodes the color the way String prints it.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// NamedColor looks up a palette color by name or alias, case-insensitively.
func NamedColor(name string) (Color, bool) {
	c, ok := namedColors[strings.ToLower(name)]
	return c, ok
}

// Palette returns the sixteen named colors in palette order.
func Palette() []Color {
	out := make([]Color, len(palette))
	copy(out, palette)
	return out
}

// Snap returns the palette color with exactly the same RGB value as c, or c
// unchanged when there is none.
func Snap(c Color) Color {
	if named, ok := colorsByRGB[c.Value]; ok {
		return named
	}
	return c
}

// ParseColor parses a palette name, a #rrggbb hex value, or any opaque CSS
// color. Results matching a palette entry exactly carry its name.
func ParseColor(s string) (Color, error) {
	if c, ok := NamedColor(s); ok {
		return c, nil
	}

	if len(s) == 7 && s[0] == '#' {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err == nil {
			return Snap(HexColor(uint32(v))), nil
		}
	}

	parsed, err := csscolorparser.Parse(s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if parsed.A < 1 {
		return Color{}, fmt.Errorf("invalid color %q: text colors cannot be transparent", s)
	}
	return Snap(RGB(channel(parsed.R), channel(parsed.G), channel(parsed.B))), nil
}

// channel converts a [0,1] float channel to a byte.
func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
