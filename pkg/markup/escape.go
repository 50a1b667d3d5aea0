package markup

import "strings"

// StripTokens removes every tag from input and keeps the text between
// them, with escaped brackets resolved.
func StripTokens(input string) string {
	var sb strings.Builder
	for _, tok := range Tokenize(input) {
		if tok.Type == TokenText {
			sb.WriteString(tok.Text)
		}
	}
	return sb.String()
}

// EscapeTokens escapes every tag in input, including tags nested inside
// quoted arguments, so that parsing the result yields the input as plain
// text.
func EscapeTokens(input string) string {
	var sb strings.Builder
	for _, tok := range Tokenize(input) {
		if tok.Type == TokenText {
			sb.WriteString(tok.Raw)
			continue
		}
		sb.WriteString(`\<`)
		if tok.Type == TokenClose {
			sb.WriteByte('/')
		}
		sb.WriteString(tok.Name)
		for _, a := range tok.Args {
			sb.WriteByte(':')
			if a.Quote != 0 {
				sb.WriteByte(a.Quote)
				sb.WriteString(EscapeTokens(a.Raw[1 : len(a.Raw)-1]))
				sb.WriteByte(a.Quote)
				continue
			}
			sb.WriteString(EscapeTokens(a.Raw))
		}
		sb.WriteByte('>')
	}
	return sb.String()
}
