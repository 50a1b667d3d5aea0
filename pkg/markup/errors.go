package markup

import (
	"errors"
	"fmt"
)

// ErrorKind classifies parse failures and diagnostics.
type ErrorKind int

const (
	UnterminatedTag ErrorKind = iota
	UnknownTag
	ArityMismatch
	InvalidArgument
	UnmatchedClose
	UnclosedAtEndOfInput
	DepthExceeded
)

// Sentinels matched by errors.Is against a *ParseError of the same kind.
var (
	ErrUnterminatedTag      = errors.New("unterminated tag")
	ErrUnknownTag           = errors.New("unknown tag")
	ErrArityMismatch        = errors.New("wrong number of tag arguments")
	ErrInvalidArgument      = errors.New("invalid tag argument")
	ErrUnmatchedClose       = errors.New("close tag without matching open tag")
	ErrUnclosedAtEndOfInput = errors.New("tag not closed before end of input")
	ErrDepthExceeded        = errors.New("nesting depth exceeded")
)

var kindErrors = map[ErrorKind]error{
	UnterminatedTag:      ErrUnterminatedTag,
	UnknownTag:           ErrUnknownTag,
	ArityMismatch:        ErrArityMismatch,
	InvalidArgument:      ErrInvalidArgument,
	UnmatchedClose:       ErrUnmatchedClose,
	UnclosedAtEndOfInput: ErrUnclosedAtEndOfInput,
	DepthExceeded:        ErrDepthExceeded,
}

func (k ErrorKind) String() string {
	if err, ok := kindErrors[k]; ok {
		return err.Error()
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

// ParseError describes a markup failure at a position in the input. Token
// holds the offending raw tag text.
type ParseError struct {
	Kind     ErrorKind
	Token    string
	Position int
	Message  string
	Err      error // underlying cause, if any
}

func (e *ParseError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Token == "" {
		return fmt.Sprintf("markup: %s at %d", msg, e.Position)
	}
	return fmt.Sprintf("markup: %s at %d: %s", msg, e.Position, e.Token)
}

// Unwrap exposes the kind sentinel and the underlying cause.
func (e *ParseError) Unwrap() []error {
	errs := []error{kindErrors[e.Kind]}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func newParseError(kind ErrorKind, token Token, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Kind:     kind,
		Token:    token.Raw,
		Position: token.Position,
		Message:  fmt.Sprintf(format, args...),
	}
}
