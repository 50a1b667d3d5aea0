// tags.go defines the built-in tag registry.
package markup

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Tag categories. A close tag removes the innermost open scope of its
// category, so every color tag closes every other color tag.
const (
	CategoryColor    = "color"
	CategoryClick    = "click"
	CategoryHover    = "hover"
	CategoryInsert   = "insert"
	CategoryFont     = "font"
	CategoryContent  = "content"
	CategoryPre      = "pre"
	CategoryReset    = "reset"
	CategoryRainbow  = "rainbow"
	CategoryGradient = "gradient"
)

// Unbounded is the MaxArgs of tags that accept any number of arguments.
const Unbounded = -1

// resolution is the outcome of binding a tag. The variants are closed:
// styleChange, contentLeaf, colorTransform, preformatted, resetStyle.
type resolution interface {
	resolution()
}

// styleChange pushes a scope whose style is the ambient style mutated.
type styleChange struct {
	apply func(Style) Style
}

// contentLeaf emits a terminal node merged with the ambient style.
type contentLeaf struct {
	node *Node
}

// colorTransform pushes a scope that recolors its text per code point.
type colorTransform struct {
	colorizer Colorizer
}

// preformatted pushes a scope in which tags are literal text.
type preformatted struct{}

// resetStyle erases the ambient style.
type resetStyle struct{}

func (styleChange) resolution()    {}
func (contentLeaf) resolution()    {}
func (colorTransform) resolution() {}
func (preformatted) resolution()   {}
func (resetStyle) resolution()     {}

// binder turns a tag's arguments into a resolution.
type binder func(s *parseState, tok Token) (resolution, error)

// TagDef defines a registered tag.
type TagDef struct {
	Name     string   // canonical lowercase name
	Aliases  []string // alternative names
	Category string   // close-tag matching class
	MinArgs  int
	MaxArgs  int // Unbounded for no limit
	bind     binder
}

// Arity describes the accepted argument count.
func (d *TagDef) Arity() string {
	switch {
	case d.MaxArgs == Unbounded:
		return fmt.Sprintf("%d+", d.MinArgs)
	case d.MinArgs == d.MaxArgs:
		return strconv.Itoa(d.MinArgs)
	default:
		return fmt.Sprintf("%d-%d", d.MinArgs, d.MaxArgs)
	}
}

func (d *TagDef) acceptsArgs(n int) bool {
	return n >= d.MinArgs && (d.MaxArgs == Unbounded || n <= d.MaxArgs)
}

// tagRegistry maps names and aliases to definitions.
// Adding a new tag = adding one register call in init.
var (
	tagRegistry = map[string]*TagDef{}
	tagDefs     []*TagDef
)

// hexColorTag resolves <#rrggbb> and </#rrggbb>.
var hexColorTag = &TagDef{
	Name:     "#rrggbb",
	Category: CategoryColor,
	bind: func(_ *parseState, tok Token) (resolution, error) {
		c, err := ParseColor(tok.Name)
		if err != nil {
			return nil, err
		}
		return colorChange(c), nil
	},
}

func register(def *TagDef) {
	tagDefs = append(tagDefs, def)
	tagRegistry[def.Name] = def
	for _, alias := range def.Aliases {
		tagRegistry[alias] = def
	}
}

func init() {
	aliasesOf := map[string][]string{}
	for alias, name := range colorAliases {
		aliasesOf[name] = append(aliasesOf[name], alias)
	}
	for _, c := range palette {
		register(&TagDef{
			Name:     c.Name,
			Aliases:  aliasesOf[c.Name],
			Category: CategoryColor,
			bind: func(*parseState, Token) (resolution, error) {
				return colorChange(c), nil
			},
		})
	}

	register(&TagDef{
		Name:     "color",
		Aliases:  []string{"colour", "c"},
		Category: CategoryColor,
		MinArgs:  1,
		MaxArgs:  1,
		bind: func(s *parseState, tok Token) (resolution, error) {
			c, err := ParseColor(s.expand(tok.Args[0]))
			if err != nil {
				return nil, err
			}
			return colorChange(c), nil
		},
	})

	decorations := []struct {
		decoration Decoration
		aliases    []string
	}{
		{Bold, []string{"b"}},
		{Italic, []string{"i", "em"}},
		{Underlined, []string{"u"}},
		{Strikethrough, []string{"st"}},
		{Obfuscated, []string{"obf"}},
	}
	for _, d := range decorations {
		name := d.decoration.String()
		register(&TagDef{
			Name:     name,
			Aliases:  d.aliases,
			Category: name,
			bind: func(*parseState, Token) (resolution, error) {
				return styleChange{apply: func(s Style) Style { return s.WithDecoration(d.decoration) }}, nil
			},
		})
	}

	register(&TagDef{Name: "reset", Category: CategoryReset, bind: func(*parseState, Token) (resolution, error) {
		return resetStyle{}, nil
	}})
	register(&TagDef{Name: "pre", Category: CategoryPre, bind: func(*parseState, Token) (resolution, error) {
		return preformatted{}, nil
	}})

	register(&TagDef{Name: "click", Category: CategoryClick, MinArgs: 2, MaxArgs: Unbounded, bind: bindClick})
	register(&TagDef{Name: "hover", Category: CategoryHover, MinArgs: 2, MaxArgs: Unbounded, bind: bindHover})
	register(&TagDef{Name: "insert", Category: CategoryInsert, MinArgs: 1, MaxArgs: Unbounded, bind: bindInsert})
	register(&TagDef{Name: "font", Category: CategoryFont, MinArgs: 1, MaxArgs: 2, bind: bindFont})
	register(&TagDef{Name: "key", Category: CategoryContent, MinArgs: 1, MaxArgs: 1, bind: bindKeybind})
	register(&TagDef{
		Name:     "lang",
		Aliases:  []string{"tr", "translate"},
		Category: CategoryContent,
		MinArgs:  1,
		MaxArgs:  Unbounded,
		bind:     bindTranslatable,
	})
	register(&TagDef{Name: "rainbow", Category: CategoryRainbow, MaxArgs: 1, bind: bindRainbow})
	register(&TagDef{Name: "gradient", Category: CategoryGradient, MaxArgs: Unbounded, bind: bindGradient})
}

// LookupTag returns the definition for a tag name, normalizing to
// lowercase. Names starting with '#' resolve to the hex color tag.
// Returns ok=false if the tag is not registered.
func LookupTag(name string) (*TagDef, bool) {
	name = strings.ToLower(name)
	if strings.HasPrefix(name, "#") {
		return hexColorTag, true
	}
	def, ok := tagRegistry[name]
	return def, ok
}

// Tags returns the registered definitions sorted by name.
func Tags() []TagDef {
	out := make([]TagDef, 0, len(tagDefs)+1)
	for _, def := range append([]*TagDef{hexColorTag}, tagDefs...) {
		out = append(out, *def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func colorChange(c Color) styleChange {
	return styleChange{apply: func(s Style) Style { return s.WithColor(c) }}
}

func bindClick(s *parseState, tok Token) (resolution, error) {
	action, err := ParseClickAction(tok.Args[0].Value)
	if err != nil {
		return nil, err
	}
	value := s.joinExpanded(tok.Args[1:])
	return styleChange{apply: func(st Style) Style { return st.WithClick(action, value) }}, nil
}

func bindHover(s *parseState, tok Token) (resolution, error) {
	if action := HoverAction(strings.ToLower(tok.Args[0].Value)); action != ShowText {
		return nil, fmt.Errorf("unsupported hover action %q", tok.Args[0].Value)
	}
	text, err := s.nested(joinValues(tok.Args[1:]))
	if err != nil {
		return nil, err
	}
	return styleChange{apply: func(st Style) Style { return st.WithHover(text) }}, nil
}

func bindInsert(s *parseState, tok Token) (resolution, error) {
	value := s.joinExpanded(tok.Args)
	return styleChange{apply: func(st Style) Style { return st.WithInsertion(value) }}, nil
}

func bindFont(s *parseState, tok Token) (resolution, error) {
	var key Key
	var err error
	if len(tok.Args) == 2 {
		key, err = NewKey(s.expand(tok.Args[0]), s.expand(tok.Args[1]))
	} else {
		key, err = NewKey("", s.expand(tok.Args[0]))
	}
	if err != nil {
		return nil, err
	}
	return styleChange{apply: func(st Style) Style { return st.WithFont(key) }}, nil
}

func bindKeybind(s *parseState, tok Token) (resolution, error) {
	key := s.expand(tok.Args[0])
	if key == "" {
		return nil, fmt.Errorf("empty keybind")
	}
	return contentLeaf{node: Keybind(key, Style{})}, nil
}

func bindTranslatable(s *parseState, tok Token) (resolution, error) {
	key := s.expand(tok.Args[0])
	if key == "" {
		return nil, fmt.Errorf("empty translation key")
	}
	var args []*Node
	for _, a := range tok.Args[1:] {
		arg, err := s.nested(a.Value)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return contentLeaf{node: Translatable(key, Style{}, args...)}, nil
}

func bindRainbow(s *parseState, tok Token) (resolution, error) {
	var r Rainbow
	if len(tok.Args) == 1 {
		phase, err := strconv.Atoi(s.expand(tok.Args[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid rainbow phase: %w", err)
		}
		r.Phase = phase
	}
	return colorTransform{colorizer: r}, nil
}

func bindGradient(s *parseState, tok Token) (resolution, error) {
	values := make([]string, len(tok.Args))
	for i, a := range tok.Args {
		values[i] = s.expand(a)
	}

	// The last argument is a phase when it parses as a number
	var phase float32
	if n := len(values); n > 0 {
		if f, err := strconv.ParseFloat(values[n-1], 32); err == nil {
			phase = float32(f)
			values = values[:n-1]
		}
	}

	stops := make([]Color, 0, len(values))
	for _, v := range values {
		c, err := ParseColor(v)
		if err != nil {
			return nil, err
		}
		stops = append(stops, c)
	}

	g, err := NewGradient(stops, phase)
	if err != nil {
		return nil, err
	}
	return colorTransform{colorizer: g}, nil
}

// joinValues joins unquoted argument values with ':'.
func joinValues(args []Arg) string {
	values := make([]string, len(args))
	for i, a := range args {
		values[i] = a.Value
	}
	return strings.Join(values, ":")
}
