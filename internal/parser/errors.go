package parser

import (
	"errors"
	"fmt"
)

// Structural failures. A parse that fails returns a *ParseError wrapping
// exactly one of these.
var (
	ErrMalformedDrawer         = errors.New("malformed drawer")
	ErrUnterminatedBlock       = errors.New("unterminated block")
	ErrMalformedHeadline       = errors.New("malformed headline")
	ErrInconsistentListNesting = errors.New("inconsistent list nesting")
)

// ParseError reports the line at which parsing stopped.
type ParseError struct {
	Path   string
	Line   int // 1-based
	Err    error
	Detail string
}

func (e *ParseError) Error() string {
	msg := e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	switch {
	case e.Path != "":
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, msg)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
