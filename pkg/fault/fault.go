// Package fault categorizes the failures woodfmt reports so that callers can
// decide between skipping, aborting and choosing an exit status.
package fault

import (
	"errors"
	"fmt"
)

// Kind is the failure category.
type Kind int

const (
	// KindUnexpected is anything not otherwise classified.
	KindUnexpected Kind = iota
	// KindMissingDependency means a required tool or library is absent.
	KindMissingDependency
	// KindIO is a read/write failure on a file.
	KindIO
	// KindTimeout means a bounded external call exceeded its budget.
	KindTimeout
	// KindPrecondition covers uninitialized configuration, a missing repository and similar.
	KindPrecondition
	// KindConfig is an invalid configuration file.
	KindConfig
	// KindParse means a transform could not parse the file content.
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindMissingDependency:
		return "missing dependency"
	case KindIO:
		return "i/o failure"
	case KindTimeout:
		return "timeout"
	case KindPrecondition:
		return "precondition failure"
	case KindConfig:
		return "configuration error"
	case KindParse:
		return "parse failure"
	default:
		return "unexpected failure"
	}
}

// Error wraps an underlying error with its category and the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err with a kind. A nil err yields nil.
func New(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf builds a categorized error from a format string.
func Newf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the category of the outermost *Error in the chain, or KindUnexpected.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnexpected
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
