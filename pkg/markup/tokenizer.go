// tokenizer.go implements tokenization of <tag:arg>...</tag> markup.
package markup

import (
	"errors"
	"strings"
)

var (
	errUnterminatedTag = errors.New("unterminated tag")
	errNotATag         = errors.New("not a tag")
)

// Tokenize scans input for markup tags and returns the token stream.
// Recognized forms:
//   - <name> or <name:arg:arg> - open tag
//   - </name> or </name:arg> - close tag
//   - \< and \> - literal brackets in text
//
// Tokenize never fails: anything that does not scan as a tag is text.
// Adjacent text is returned as a single token.
func Tokenize(input string) []Token {
	return scanTokens(input, nil)
}

// scanTokens is Tokenize with a hook for abandoned tag attempts.
func scanTokens(input string, report func(pos int, err error)) []Token {
	var tokens []Token
	var text, raw strings.Builder
	scanner := &tagScanner{input: input}
	textStart := 0

	appendText := func(pos int, content, source string) {
		if raw.Len() == 0 {
			textStart = pos
		}
		text.WriteString(content)
		raw.WriteString(source)
	}
	flushText := func() {
		if raw.Len() == 0 {
			return
		}
		tokens = append(tokens, Token{
			Type:     TokenText,
			Text:     text.String(),
			Raw:      raw.String(),
			Position: textStart,
		})
		text.Reset()
		raw.Reset()
	}

	pos := 0
	for pos < len(input) {
		switch c := input[pos]; {
		case c == '\\' && pos+1 < len(input) && (input[pos+1] == '<' || input[pos+1] == '>'):
			appendText(pos, input[pos+1:pos+2], input[pos:pos+2])
			pos += 2

		case c == '<':
			token, end, err := scanner.scan(pos)
			if err != nil {
				// Not a tag - treat '<' as text and continue from the next byte
				if report != nil && errors.Is(err, errUnterminatedTag) {
					report(pos, err)
				}
				appendText(pos, "<", "<")
				pos++
				continue
			}
			flushText()
			tokens = append(tokens, token)
			pos = end

		default:
			next := pos + 1
			for next < len(input) && input[next] != '<' && input[next] != '\\' {
				next++
			}
			appendText(pos, input[pos:next], input[pos:next])
			pos = next
		}
	}
	flushText()

	return tokens
}

// tagScan is the outcome of scanning a tag body from one '<'.
type tagScan struct {
	end    int // position after the closing '>', or -1 when unterminated
	splits []int
}

// tagScanner scans tag bodies and remembers the outcome for every '<' it
// passes outside quotes. A scan from such a '<' runs in step with the
// enclosing scan, so its outcome is known without scanning again. This keeps
// input full of unmatched brackets linear.
type tagScanner struct {
	input    string
	memo     map[int]*tagScan
	unclosed map[byte]int // lowest position a quote was found unclosed from
}

// scan attempts to scan a tag starting at the '<' at start. It returns
// the token and the position after its closing '>'.
//
// The body ends at the first '>' outside quotes and outside nested
// unquoted '<...>' pairs. A quote opens a quoted span only as the first
// character of an argument.
func (ts *tagScanner) scan(start int) (Token, int, error) {
	r, ok := ts.memo[start]
	if !ok {
		r = ts.run(start)
	}
	if r.end < 0 {
		return Token{}, start, errUnterminatedTag
	}
	token, err := buildTag(ts.input, start, r.end, r.splits)
	return token, r.end, err
}

func (ts *tagScanner) run(start int) *tagScan {
	if ts.memo == nil {
		ts.memo = make(map[int]*tagScan)
	}
	input := ts.input
	root := &tagScan{end: -1}
	ts.memo[start] = root
	// open[i] is the innermost '<' at nesting depth i
	open := []*tagScan{root}

	pos := start + 1
	argStart := false
	for pos < len(input) {
		c := input[pos]
		switch {
		case c == '\n':
			return root

		case c == '\\' && pos+1 < len(input) && input[pos+1] != '\n':
			pos += 2
			argStart = false
			continue

		case (c == '\'' || c == '"') && argStart:
			end := ts.closingQuote(pos)
			if end < 0 {
				return root
			}
			pos = end + 1
			argStart = false
			continue

		case c == ':':
			top := open[len(open)-1]
			top.splits = append(top.splits, pos)
			pos++
			argStart = true
			continue

		case c == '<':
			if known, ok := ts.memo[pos]; ok {
				if known.end < 0 {
					// Nothing below it can close either
					return root
				}
				pos = known.end
				argStart = false
				continue
			}
			nested := &tagScan{end: -1}
			ts.memo[pos] = nested
			open = append(open, nested)

		case c == '>':
			top := open[len(open)-1]
			top.end = pos + 1
			if len(open) == 1 {
				return root
			}
			open = open[:len(open)-1]
		}
		argStart = false
		pos++
	}

	return root
}

// buildTag splits a scanned tag body on its top-level ':' positions.
func buildTag(input string, start, end int, splits []int) (Token, error) {
	bodyEnd := end - 1
	nameEnd := bodyEnd
	if len(splits) > 0 {
		nameEnd = splits[0]
	}

	name := input[start+1 : nameEnd]
	tokenType := TokenOpen
	if strings.HasPrefix(name, "/") {
		tokenType = TokenClose
		name = name[1:]
	}
	if !isValidTagName(name) {
		return Token{}, errNotATag
	}

	var args []Arg
	for i, split := range splits {
		argEnd := bodyEnd
		if i+1 < len(splits) {
			argEnd = splits[i+1]
		}
		args = append(args, newArg(input[split+1:argEnd]))
	}

	return Token{
		Type:     tokenType,
		Name:     name,
		Args:     args,
		Raw:      input[start:end],
		Position: start,
	}, nil
}

// newArg unquotes an argument when a single quoted span covers all of it.
func newArg(raw string) Arg {
	if len(raw) >= 2 && (raw[0] == '\'' || raw[0] == '"') && closingQuote(raw, 0) == len(raw)-1 {
		q := raw[0]
		return Arg{
			Value: strings.ReplaceAll(raw[1:len(raw)-1], `\`+string(q), string(q)),
			Raw:   raw,
			Quote: q,
		}
	}
	return Arg{Value: raw, Raw: raw}
}

// closingQuote is closingQuote over the scanned input. An unescaped quote
// is a match wherever the search starts, so once a search fails every later
// one for the same quote fails too.
func (ts *tagScanner) closingQuote(pos int) int {
	q := ts.input[pos]
	if from, ok := ts.unclosed[q]; ok && pos >= from {
		return -1
	}
	end := closingQuote(ts.input, pos)
	if end < 0 {
		if ts.unclosed == nil {
			ts.unclosed = make(map[byte]int)
		}
		ts.unclosed[q] = pos
	}
	return end
}

// closingQuote returns the index of the unescaped quote matching the one at
// pos, or -1.
func closingQuote(s string, pos int) int {
	q := s[pos]
	for i := pos + 1; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && s[i+1] == q {
			i++
			continue
		}
		if s[i] == q {
			return i
		}
	}
	return -1
}

// isValidTagName rejects empty names and names that look like prose.
func isValidTagName(name string) bool {
	return name != "" && !strings.ContainsAny(name, " \t\r\n'\"<>\\")
}

// coalesceText merges adjacent text tokens.
func coalesceText(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if n := len(out); n > 0 && t.Type == TokenText && out[n-1].Type == TokenText {
			out[n-1].Text += t.Text
			out[n-1].Raw += t.Raw
			continue
		}
		out = append(out, t)
	}
	return out
}
