// Package render draws styled markup trees as ANSI terminal text.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/open-cli-collective/tint-cli/pkg/markup"
)

// ParseProfile maps a color_profile name to a termenv profile. auto reports
// true when the profile should be detected from the output instead.
func ParseProfile(name string) (profile termenv.Profile, auto bool, err error) {
	switch strings.ToLower(name) {
	case "", "auto":
		return termenv.TrueColor, true, nil
	case "ascii", "none":
		return termenv.Ascii, false, nil
	case "ansi":
		return termenv.ANSI, false, nil
	case "ansi256":
		return termenv.ANSI256, false, nil
	case "truecolor":
		return termenv.TrueColor, false, nil
	}
	return termenv.Ascii, false, fmt.Errorf("unknown color profile: %s", name)
}

// Renderer converts nodes to escape sequences for one output.
type Renderer struct {
	out *termenv.Output
}

// New returns a renderer for w. profile is a color_profile name; auto
// detects terminal support and honors NO_COLOR.
func New(w io.Writer, profile string) (*Renderer, error) {
	p, auto, err := ParseProfile(profile)
	if err != nil {
		return nil, err
	}
	if auto {
		return &Renderer{out: termenv.NewOutput(w)}, nil
	}
	return &Renderer{out: termenv.NewOutput(w, termenv.WithProfile(p))}, nil
}

// Profile returns the profile the renderer emits for.
func (r *Renderer) Profile() termenv.Profile {
	return r.out.Profile
}

// Render returns n as styled text. Keybinds and translatables show their
// keys, open_url clicks become OSC 8 hyperlinks and obfuscated text blinks.
func (r *Renderer) Render(n *markup.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	for _, leaf := range n.Leaves() {
		sb.WriteString(r.leaf(leaf))
	}
	return sb.String()
}

// Fprintln writes the rendered node and a newline to the renderer's output.
func (r *Renderer) Fprintln(n *markup.Node) error {
	_, err := fmt.Fprintln(r.out, r.Render(n))
	return err
}

func (r *Renderer) leaf(n *markup.Node) string {
	text := n.PlainText()
	if text == "" || r.out.Profile == termenv.Ascii {
		return text
	}

	st := r.out.String(text)
	if c := n.Style.Color; c != nil {
		st = st.Foreground(r.out.Color(c.Hex()))
	}
	d := n.Style.Decorations
	if d.Has(markup.Bold) {
		st = st.Bold()
	}
	if d.Has(markup.Italic) {
		st = st.Italic()
	}
	if d.Has(markup.Underlined) {
		st = st.Underline()
	}
	if d.Has(markup.Strikethrough) {
		st = st.CrossOut()
	}
	if d.Has(markup.Obfuscated) {
		st = st.Blink()
	}

	styled := st.String()
	if click := n.Style.Click; click != nil && click.Action == markup.OpenURL {
		return r.out.Hyperlink(click.Value, styled)
	}
	return styled
}
