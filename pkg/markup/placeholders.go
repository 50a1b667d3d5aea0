package markup

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/tidwall/jsonc"
)

// Placeholder is substituted for a zero-argument tag of the same name.
// A string placeholder inserts literal text; a tree placeholder inserts
// the leaves of Tree styled over the ambient style.
type Placeholder struct {
	Text string
	Tree *Node
}

// IsTree reports whether p inserts a tree.
func (p Placeholder) IsTree() bool {
	return p.Tree != nil
}

// Placeholders maps exact, case-sensitive tag names to substitutions.
type Placeholders map[string]Placeholder

// TextPlaceholders builds string placeholders from name, value pairs. A
// trailing name without a value is ignored.
func TextPlaceholders(pairs ...string) Placeholders {
	p := make(Placeholders, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		p[pairs[i]] = Placeholder{Text: pairs[i+1]}
	}
	return p
}

// With returns a copy of p with name bound to a string.
func (p Placeholders) With(name, text string) Placeholders {
	out := p.clone()
	out[name] = Placeholder{Text: text}
	return out
}

// WithTree returns a copy of p with name bound to a tree.
func (p Placeholders) WithTree(name string, tree *Node) Placeholders {
	out := p.clone()
	out[name] = Placeholder{Tree: tree}
	return out
}

// Names returns the bound names in sorted order.
func (p Placeholders) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p Placeholders) clone() Placeholders {
	out := make(Placeholders, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	return out
}

func (p Placeholders) lookup(tok Token) (Placeholder, bool) {
	if len(p) == 0 || tok.Type != TokenOpen || len(tok.Args) != 0 {
		return Placeholder{}, false
	}
	ph, ok := p[tok.Name]
	return ph, ok
}

func (p Placeholders) text(tok Token) (string, bool) {
	ph, ok := p.lookup(tok)
	if !ok || ph.IsTree() {
		return "", false
	}
	return ph.Text, true
}

func (p Placeholders) tree(tok Token) (*Node, bool) {
	ph, ok := p.lookup(tok)
	if !ok || !ph.IsTree() {
		return nil, false
	}
	return ph.Tree, true
}

// substitutePlaceholders replaces string placeholder tags with text tokens.
func substitutePlaceholders(tokens []Token, p Placeholders) []Token {
	if len(p) == 0 {
		return tokens
	}
	out := make([]Token, len(tokens))
	for i, tok := range tokens {
		if text, ok := p.text(tok); ok {
			tok = Token{Type: TokenText, Text: text, Raw: text, Position: tok.Position}
		}
		out[i] = tok
	}
	return out
}

// placeholderFile is one value of a placeholders file: either a plain
// string or an object holding markup.
type placeholderFile struct {
	Markup *string `json:"markup"`
}

// LoadPlaceholders reads a JSON object (comments and trailing commas
// allowed) mapping names to strings or to {"markup": "..."} objects. Markup
// values are parsed with p, or with a lenient parser when p is nil.
func LoadPlaceholders(data []byte, p *Parser) (Placeholders, error) {
	if p == nil {
		p = New()
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return nil, fmt.Errorf("parsing placeholders: %w", err)
	}

	out := make(Placeholders, len(raw))
	for name, value := range raw {
		var text string
		if err := json.Unmarshal(value, &text); err == nil {
			out[name] = Placeholder{Text: text}
			continue
		}

		var entry placeholderFile
		if err := json.Unmarshal(value, &entry); err != nil || entry.Markup == nil {
			return nil, fmt.Errorf("placeholder %q: expected a string or an object with a markup field", name)
		}
		tree, err := p.Parse(*entry.Markup, nil)
		if err != nil {
			return nil, fmt.Errorf("placeholder %q: %w", name, err)
		}
		out[name] = Placeholder{Tree: tree}
	}
	return out, nil
}
