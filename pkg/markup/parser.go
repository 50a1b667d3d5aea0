// Package markup compiles tag markup such as "<yellow>Hello <bold>world"
// into trees of styled text nodes.
package markup

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// DefaultMaxDepth bounds how deeply argument markup such as hover text may
// nest.
const DefaultMaxDepth = 128

// Parser compiles markup. A Parser is immutable after New and safe for
// concurrent use.
type Parser struct {
	strict        bool
	requireClosed bool
	inheritStyle  bool
	maxDepth      int
	onError       func(msg string)
	logger        zerolog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithStrict makes unresolvable tags and unmatched closes fatal.
func WithStrict(strict bool) Option {
	return func(p *Parser) { p.strict = strict }
}

// WithRequireClosedTags makes tags left open at end of input fatal in any
// mode. Without it they are closed implicitly, and reported when strict.
func WithRequireClosedTags(require bool) Option {
	return func(p *Parser) { p.requireClosed = require }
}

// WithInheritedArgumentStyle seeds hover text and translation arguments
// with the style around the tag instead of the empty style.
func WithInheritedArgumentStyle(inherit bool) Option {
	return func(p *Parser) { p.inheritStyle = inherit }
}

// WithMaxDepth bounds nested argument parses. Open scopes are not counted:
// re-opening a tag without closing it is ordinary flat markup. Values below
// 1 select DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		if depth < 1 {
			depth = DefaultMaxDepth
		}
		p.maxDepth = depth
	}
}

// WithErrorHandler receives a human-readable message for every diagnostic,
// including the ones lenient mode recovers from.
func WithErrorHandler(fn func(msg string)) Option {
	return func(p *Parser) { p.onError = fn }
}

// WithLogger sets the logger diagnostics are written to at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Parser) { p.logger = logger }
}

// New creates a lenient parser with the given options applied.
func New(opts ...Option) *Parser {
	p := &Parser{
		maxDepth: DefaultMaxDepth,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Strict reports whether p fails on unresolvable markup.
func (p *Parser) Strict() bool {
	return p.strict
}

// Parse compiles input with a one-off parser.
func Parse(input string, placeholders Placeholders, strict bool) (*Node, error) {
	return New(WithStrict(strict)).Parse(input, placeholders)
}

// Parse compiles input into a styled tree. A single resulting leaf is
// returned as is; several are grouped under an unstyled branch; empty
// input yields an empty text leaf.
func (p *Parser) Parse(input string, placeholders Placeholders) (*Node, error) {
	return p.parse(input, placeholders, Style{}, 0)
}

func (p *Parser) parse(input string, placeholders Placeholders, seed Style, depth int) (*Node, error) {
	if depth >= p.maxDepth {
		return nil, &ParseError{
			Kind:    DepthExceeded,
			Message: fmt.Sprintf("markup nested deeper than %d levels", p.maxDepth),
		}
	}

	s := &parseState{
		parser:       p,
		placeholders: placeholders,
		seed:         seed,
		depth:        depth,
	}

	tokens := scanTokens(input, func(pos int, err error) {
		s.report(&ParseError{
			Kind:     UnterminatedTag,
			Token:    firstLine(input[pos:]),
			Position: pos,
			Message:  err.Error(),
		})
	})
	tokens = coalesceText(substitutePlaceholders(tokens, placeholders))

	for _, tok := range tokens {
		if err := s.consume(tok); err != nil {
			return nil, err
		}
	}
	if err := s.finish(); err != nil {
		return nil, err
	}

	p.logger.Trace().Int("tokens", len(tokens)).Int("nodes", len(s.out)).Int("depth", depth).Msg("parsed markup")

	switch len(s.out) {
	case 0:
		return Text("", Style{}), nil
	case 1:
		return s.out[0], nil
	default:
		return Branch(s.out...), nil
	}
}

// scope tracks one open tag.
type scope struct {
	token     Token
	category  string
	apply     func(Style) Style
	colorizer Colorizer
	buffer    []*Node
	pre       bool
	reset     bool

	folded Style // seed with this scope and every outer one applied
	host   int   // innermost color transform at or below this scope, or -1
}

// parseState holds the scope stack and output of one parse call.
type parseState struct {
	parser       *Parser
	placeholders Placeholders
	seed         Style
	depth        int
	scopes       []*scope
	openPre      int
	out          []*Node
}

func (s *parseState) consume(tok Token) error {
	switch tok.Type {
	case TokenText:
		s.emitText(tok.Text)
		return nil
	case TokenOpen:
		return s.open(tok)
	case TokenClose:
		return s.close(tok)
	}
	return nil
}

func (s *parseState) open(tok Token) error {
	if tree, ok := s.placeholders.tree(tok); ok {
		ambient := s.style()
		for _, leaf := range tree.Clone().Leaves() {
			if leaf.Kind == KindText && leaf.Content == "" {
				continue
			}
			leaf.Style = ambient.Merge(leaf.Style)
			s.emit(leaf)
		}
		return nil
	}

	if s.inPre() {
		s.emitText(tok.Raw)
		return nil
	}

	def, ok := LookupTag(tok.Name)
	if !ok {
		return s.unresolved(newParseError(UnknownTag, tok, "unknown tag %q", tok.Name))
	}
	if !def.acceptsArgs(len(tok.Args)) {
		return s.unresolved(newParseError(ArityMismatch, tok,
			"%s takes %s arguments, got %d", def.Name, def.Arity(), len(tok.Args)))
	}

	res, err := def.bind(s, tok)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			// Failures inside nested markup are already fatal
			return err
		}
		perr := newParseError(InvalidArgument, tok, "invalid arguments for %s", def.Name)
		perr.Err = err
		return s.unresolved(perr)
	}

	switch r := res.(type) {
	case styleChange:
		s.push(&scope{token: tok, category: def.Category, apply: r.apply})
	case contentLeaf:
		leaf := r.node
		leaf.Style = s.style().Merge(leaf.Style)
		s.emit(leaf)
	case colorTransform:
		s.push(&scope{token: tok, category: def.Category, colorizer: r.colorizer})
	case preformatted:
		s.push(&scope{token: tok, category: def.Category, pre: true})
	case resetStyle:
		for i := len(s.scopes) - 1; i >= 0; i-- {
			if s.scopes[i].colorizer != nil {
				s.remove(i)
			}
		}
		s.push(&scope{token: tok, category: def.Category, reset: true})
	}
	return nil
}

func (s *parseState) close(tok Token) error {
	if s.inPre() && !strings.EqualFold(tok.Name, "pre") {
		s.emitText(tok.Raw)
		return nil
	}

	def, ok := LookupTag(tok.Name)
	if !ok {
		return s.unresolved(newParseError(UnknownTag, tok, "unknown close tag %q", tok.Name))
	}
	if def.Category == CategoryContent {
		// Content tags open no scope
		return nil
	}

	for i := len(s.scopes) - 1; i >= 0; i-- {
		if s.scopes[i].category == def.Category {
			s.remove(i)
			return nil
		}
	}

	err := newParseError(UnmatchedClose, tok, "no open %s tag to close", def.Name)
	if s.parser.strict {
		return err
	}
	s.report(err)
	return nil
}

// finish closes every scope still open, innermost first.
func (s *parseState) finish() error {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		sc := s.scopes[i]
		if !sc.reset {
			err := newParseError(UnclosedAtEndOfInput, sc.token, "%s was never closed", sc.token.Name)
			if s.parser.requireClosed {
				return err
			}
			if s.parser.strict {
				s.report(err)
			}
		}
		s.remove(i)
	}
	return nil
}

// unresolved applies the error policy to a tag that cannot be resolved:
// fatal when strict, otherwise the raw tag text becomes a literal leaf.
func (s *parseState) unresolved(err *ParseError) error {
	if s.parser.strict {
		return err
	}
	s.report(err)
	s.emitText(err.Token)
	return nil
}

func (s *parseState) report(err *ParseError) {
	s.parser.logger.Debug().
		Str("kind", err.Kind.String()).
		Int("position", err.Position).
		Str("token", err.Token).
		Msg(err.Message)
	if s.parser.onError != nil {
		s.parser.onError(err.Error())
	}
}

func (s *parseState) push(sc *scope) {
	s.scopes = append(s.scopes, sc)
	if sc.pre {
		s.openPre++
	}
	s.refold(len(s.scopes) - 1)
}

// remove drops the scope at index i, leaving scopes opened after it in
// place. A color transform recolors its buffered leaves on removal.
func (s *parseState) remove(i int) {
	sc := s.scopes[i]
	s.scopes = append(s.scopes[:i], s.scopes[i+1:]...)
	if sc.pre {
		s.openPre--
	}
	s.refold(i)
	if sc.colorizer != nil {
		s.emitBelow(i, recolor(sc.colorizer, sc.buffer)...)
	}
}

// refold recomputes the cached style and transform host of every scope
// from index i outward.
func (s *parseState) refold(i int) {
	for ; i < len(s.scopes); i++ {
		style, host := s.seed, -1
		if i > 0 {
			style, host = s.scopes[i-1].folded, s.scopes[i-1].host
		}
		sc := s.scopes[i]
		switch {
		case sc.reset:
			style = Style{}
		case sc.apply != nil:
			style = sc.apply(style)
		}
		if sc.colorizer != nil {
			host = i
		}
		sc.folded, sc.host = style, host
	}
}

// style is the open scopes folded over the seed style.
func (s *parseState) style() Style {
	if len(s.scopes) == 0 {
		return s.seed
	}
	return s.scopes[len(s.scopes)-1].folded
}

func (s *parseState) inPre() bool {
	return s.openPre > 0
}

func (s *parseState) emitText(text string) {
	if text == "" {
		return
	}
	s.emit(Text(text, s.style()))
}

func (s *parseState) emit(n *Node) {
	s.emitBelow(len(s.scopes), n)
}

// emitBelow appends nodes to the innermost color transform below scope
// index limit, or to the output.
func (s *parseState) emitBelow(limit int, nodes ...*Node) {
	if limit > 0 {
		if host := s.scopes[limit-1].host; host >= 0 {
			sc := s.scopes[host]
			sc.buffer = append(sc.buffer, nodes...)
			return
		}
	}
	s.out = append(s.out, nodes...)
}

// expand substitutes string placeholders written as <name> inside a plain
// argument value.
func (s *parseState) expand(a Arg) string {
	if len(s.placeholders) == 0 || !strings.Contains(a.Value, "<") {
		return a.Value
	}
	var sb strings.Builder
	for _, tok := range Tokenize(a.Value) {
		if text, ok := s.placeholders.text(tok); ok {
			sb.WriteString(text)
			continue
		}
		sb.WriteString(tok.Raw)
	}
	return sb.String()
}

func (s *parseState) joinExpanded(args []Arg) string {
	values := make([]string, len(args))
	for i, a := range args {
		values[i] = s.expand(a)
	}
	return strings.Join(values, ":")
}

// nested parses an argument that is itself markup.
func (s *parseState) nested(input string) (*Node, error) {
	seed := Style{}
	if s.parser.inheritStyle {
		seed = s.style()
	}
	return s.parser.parse(input, s.placeholders, seed, s.depth+1)
}

// recolor splits the text leaves of nodes into one leaf per code point,
// each colored by c. Other nodes pass through unchanged.
func recolor(c Colorizer, nodes []*Node) []*Node {
	var sb strings.Builder
	for _, n := range nodes {
		if n.Kind == KindText && n.IsLeaf() {
			sb.WriteString(n.Content)
		}
	}
	colors := c.Colors(sb.String())

	out := make([]*Node, 0, len(colors))
	i := 0
	for _, n := range nodes {
		if n.Kind != KindText || !n.IsLeaf() {
			out = append(out, n)
			continue
		}
		for content := n.Content; content != ""; {
			_, size := utf8.DecodeRuneInString(content)
			out = append(out, Text(content[:size], n.Style.WithColor(colors[i])))
			content = content[size:]
			i++
		}
	}
	return out
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
