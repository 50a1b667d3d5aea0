// tokens.go defines the token stream produced by the tokenizer.
package markup

// TokenType represents the syntactic kind of a token.
type TokenType int

const (
	TokenText  TokenType = iota // literal text between tags
	TokenOpen                   // <name> or <name:arg:...>
	TokenClose                  // </name> or </name:arg:...>
)

func (t TokenType) String() string {
	switch t {
	case TokenText:
		return "text"
	case TokenOpen:
		return "open"
	case TokenClose:
		return "close"
	default:
		return "unknown"
	}
}

// Token is a single unit of the markup grammar.
type Token struct {
	Type     TokenType
	Name     string // tag name as written, without the leading '/' of a close
	Args     []Arg  // tag arguments in order
	Text     string // text content with escapes resolved, set for TokenText
	Raw      string // original source including delimiters and escapes
	Position int    // byte offset in the original input
}

// Arg is one ':'-separated tag argument.
type Arg struct {
	Value string // unquoted and unescaped
	Raw   string // as written
	Quote byte   // quote character, or 0 when unquoted
}

// Values returns the unquoted argument values.
func (t Token) Values() []string {
	values := make([]string, len(t.Args))
	for i, a := range t.Args {
		values[i] = a.Value
	}
	return values
}
