package script

import (
	"errors"
	"fmt"
)

// Fatal error kinds. Every error returned while interpreting a script is a
// *Error whose Kind is one of these; use errors.Is to test for a kind.
var (
	ErrMalformedLine       = errors.New("malformed line")
	ErrInvalidListOperator = errors.New("list operator outside a choice block")
	ErrInvalidBlockName    = errors.New("invalid block name")
	ErrUnexpectedEnd       = errors.New("unexpected end")
	ErrUnknownKeyword      = errors.New("unknown keyword")
	ErrCommandFailed       = errors.New("command failed")
	ErrChdirFailed         = errors.New("failed to set working directory")
	ErrPromptAborted       = errors.New("prompt aborted")
	ErrNestedBlock         = errors.New("nested block")
	ErrInvalidSelection    = errors.New("invalid selection")
	ErrReadFailed          = errors.New("failed to read script")
)

// Error is a fatal interpretation error tied to a 1-based source line.
type Error struct {
	Kind    error  // one of the Err* sentinels
	Line    int    // 1-based physical line number
	Keyword string // keyword of the failing line, if any
	Detail  string // human-readable specifics
	Err     error  // underlying gateway error, if any
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("line %d: %v", e.Line, e.Kind)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Errorf builds a *Error of the given kind.
func Errorf(kind error, line int, format string, args ...any) *Error {
	return &Error{Kind: kind, Line: line, Detail: fmt.Sprintf(format, args...)}
}

// LineOf returns the source line recorded in err, or 0 if err carries none.
func LineOf(err error) int {
	var se *Error
	if errors.As(err, &se) {
		return se.Line
	}
	return 0
}
