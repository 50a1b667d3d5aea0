package markup

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf16"
	"unicode/utf8"
)

// Colorizer assigns one color per code point of a text.
type Colorizer interface {
	Colors(text string) []Color
}

// ColorStop is a gradient stop at a position in [0,1].
type ColorStop struct {
	Position float32
	Color    Color
}

var defaultGradientStops = []Color{White, Black}

// Gradient interpolates between two or more color stops. Phase shifts the
// starting point; values past a segment end reflect back into it.
type Gradient struct {
	stops    []Color
	phase    float32
	negative bool
}

// NewGradient validates stops and phase. No stops selects the default
// white to black gradient; a single stop is an error. Phase must lie in
// [-1, 1]; a negative phase runs the stops in reverse.
func NewGradient(stops []Color, phase float32) (*Gradient, error) {
	if math.IsNaN(float64(phase)) || phase < -1 || phase > 1 {
		return nil, fmt.Errorf("gradient phase %v outside [-1, 1]", phase)
	}
	if len(stops) == 0 {
		stops = defaultGradientStops
	}
	if len(stops) < 2 {
		return nil, errors.New("gradient needs at least two colors")
	}

	g := &Gradient{
		stops: append([]Color(nil), stops...),
		phase: phase,
	}
	if phase < 0 {
		g.negative = true
		g.phase = 1 + phase
		for i, j := 0, len(g.stops)-1; i < j; i, j = i+1, j-1 {
			g.stops[i], g.stops[j] = g.stops[j], g.stops[i]
		}
	}
	return g, nil
}

// Stops returns the stops evenly spaced over [0,1], in the order they are
// applied.
func (g *Gradient) Stops() []ColorStop {
	out := make([]ColorStop, len(g.stops))
	last := float32(len(g.stops) - 1)
	for i, c := range g.stops {
		out[i] = ColorStop{Position: float32(i) / last, Color: c}
	}
	return out
}

// Colors returns one color per code point of text. Segment length is
// derived from the UTF-16 length of text, so characters outside the BMP
// advance the gradient by a single step while counting double toward its
// span. All arithmetic is float32.
func (g *Gradient) Colors(text string) []Color {
	count := utf8.RuneCountInString(text)
	out := make([]Color, 0, count)
	if count == 0 {
		return out
	}

	sector := utf16Len(text) / (len(g.stops) - 1)
	if sector < 1 {
		sector = 1
	}
	step := float32(1 / float32(sector))
	phase := float32(g.phase * float32(sector))
	reversed := g.negative && len(g.stops)%2 != 0

	index := 0
	segment := 0
	for range count {
		if float32(step*float32(index)) > 1 {
			segment++
			index = 0
		}
		factor := float32(step * float32(float32(index)+phase))
		index++
		if factor > 1 {
			factor = float32(1 - float32(factor-1))
		}

		s := min(segment, len(g.stops)-2)
		from, to := g.stops[s], g.stops[s+1]
		if reversed {
			from, to = to, from
		}
		out = append(out, Snap(interpolate(from, to, factor)))
	}
	return out
}

// interpolate blends two colors per channel and rounds half up.
func interpolate(from, to Color, factor float32) Color {
	mix := func(a, b uint8) uint8 {
		delta := float32(factor * float32(int(b)-int(a)))
		v := float32(float32(a) + delta)
		return uint8(math.Floor(float64(v) + 0.5))
	}
	return RGB(mix(from.R(), to.R()), mix(from.G(), to.G()), mix(from.B(), to.B()))
}

// Rainbow walks the hue ring once over the text. Phase rotates the
// starting hue by whole radians.
type Rainbow struct {
	Phase int
}

// Colors returns one color per code point of text. The ring is divided by
// the UTF-16 length of text.
func (r Rainbow) Colors(text string) []Color {
	count := utf8.RuneCountInString(text)
	out := make([]Color, 0, count)
	if count == 0 {
		return out
	}

	freq := math.Pi * 2 / float64(utf16Len(text))
	phase := float64(r.Phase)
	wave := func(i int, offset float64) uint8 {
		x := float64(freq * float64(i))
		return uint8(float64(math.Sin(x+offset+phase)*127) + 128)
	}
	for i := range count {
		out = append(out, RGB(wave(i, 2), wave(i, 0), wave(i, 4)))
	}
	return out
}

// utf16Len returns the number of UTF-16 code units needed to encode s.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
