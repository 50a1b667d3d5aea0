package markup

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Decoration is a set of text decorations.
type Decoration uint8

const (
	Bold Decoration = 1 << iota
	Italic
	Underlined
	Strikethrough
	Obfuscated
)

var decorationNames = []struct {
	decoration Decoration
	name       string
}{
	{Bold, "bold"},
	{Italic, "italic"},
	{Underlined, "underlined"},
	{Strikethrough, "strikethrough"},
	{Obfuscated, "obfuscated"},
}

// Has reports whether every decoration in other is set.
func (d Decoration) Has(other Decoration) bool {
	return d&other == other
}

// Names lists the set decorations in canonical order.
func (d Decoration) Names() []string {
	var names []string
	for _, dn := range decorationNames {
		if d.Has(dn.decoration) {
			names = append(names, dn.name)
		}
	}
	return names
}

func (d Decoration) String() string {
	return strings.Join(d.Names(), "|")
}

// MarshalJSON encodes the set as a list of names.
func (d Decoration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Names())
}

// MarshalYAML encodes the set as a list of names.
func (d Decoration) MarshalYAML() (interface{}, error) {
	return d.Names(), nil
}

// ClickAction is the action of a click event.
type ClickAction string

const (
	OpenURL         ClickAction = "open_url"
	OpenFile        ClickAction = "open_file"
	RunCommand      ClickAction = "run_command"
	SuggestCommand  ClickAction = "suggest_command"
	ChangePage      ClickAction = "change_page"
	CopyToClipboard ClickAction = "copy_to_clipboard"
)

var clickActions = map[ClickAction]bool{
	OpenURL:         true,
	OpenFile:        true,
	RunCommand:      true,
	SuggestCommand:  true,
	ChangePage:      true,
	CopyToClipboard: true,
}

// ParseClickAction matches a click action name case-insensitively.
func ParseClickAction(s string) (ClickAction, error) {
	a := ClickAction(strings.ToLower(s))
	if !clickActions[a] {
		return "", fmt.Errorf("unknown click action %q", s)
	}
	return a, nil
}

// ClickEvent is triggered when a player clicks the text.
type ClickEvent struct {
	Action ClickAction `json:"action" yaml:"action"`
	Value  string      `json:"value" yaml:"value"`
}

// HoverAction is the action of a hover event.
type HoverAction string

// ShowText displays a nested tree while the text is hovered.
const ShowText HoverAction = "show_text"

// HoverEvent is shown when the text is hovered.
type HoverEvent struct {
	Action HoverAction `json:"action" yaml:"action"`
	Value  *Node       `json:"value" yaml:"value"`
}

// Style is an immutable set of visual and interactive attributes. The With
// methods return modified copies.
type Style struct {
	Color       *Color      `json:"color,omitempty" yaml:"color,omitempty"`
	Decorations Decoration  `json:"decorations,omitempty" yaml:"decorations,omitempty"`
	Click       *ClickEvent `json:"click,omitempty" yaml:"click,omitempty"`
	Hover       *HoverEvent `json:"hover,omitempty" yaml:"hover,omitempty"`
	Insertion   string      `json:"insertion,omitempty" yaml:"insertion,omitempty"`
	Font        *Key        `json:"font,omitempty" yaml:"font,omitempty"`
}

// IsEmpty reports whether no attribute is set.
func (s Style) IsEmpty() bool {
	return s == Style{}
}

// WithColor returns s with its color replaced.
func (s Style) WithColor(c Color) Style {
	s.Color = &c
	return s
}

// WithDecoration returns s with d added.
func (s Style) WithDecoration(d Decoration) Style {
	s.Decorations |= d
	return s
}

// WithClick returns s with its click event replaced.
func (s Style) WithClick(action ClickAction, value string) Style {
	s.Click = &ClickEvent{Action: action, Value: value}
	return s
}

// WithHover returns s showing text on hover.
func (s Style) WithHover(text *Node) Style {
	s.Hover = &HoverEvent{Action: ShowText, Value: text}
	return s
}

// WithInsertion returns s with its insertion replaced.
func (s Style) WithInsertion(v string) Style {
	s.Insertion = v
	return s
}

// WithFont returns s with its font replaced.
func (s Style) WithFont(k Key) Style {
	s.Font = &k
	return s
}

// Merge overlays child onto s: single-valued attributes set in child win,
// decorations accumulate.
func (s Style) Merge(child Style) Style {
	if child.Color != nil {
		s.Color = child.Color
	}
	s.Decorations |= child.Decorations
	if child.Click != nil {
		s.Click = child.Click
	}
	if child.Hover != nil {
		s.Hover = child.Hover
	}
	if child.Insertion != "" {
		s.Insertion = child.Insertion
	}
	if child.Font != nil {
		s.Font = child.Font
	}
	return s
}
