package callsite

import (
	"errors"
	"fmt"
)

var (
	// ErrMisuse is wrapped by every MisuseError.
	ErrMisuse = errors.New("entry point misuse")
	// ErrMalformedStack is wrapped by every MalformedStackError.
	ErrMalformedStack = errors.New("malformed call stack")
)

// MisuseError reports that the resolver was not reached through the expected
// entry function at the expected depth.
type MisuseError struct {
	Entry string // expected entry function name
	Got   string // function found at the entry depth, empty if none
}

func (e *MisuseError) Error() string {
	if e.Got == "" {
		return fmt.Sprintf("%s called outside the package's expected call depth", e.Entry)
	}
	return fmt.Sprintf("%s called outside the package's expected call depth (found %s)", e.Entry, e.Got)
}

func (e *MisuseError) Unwrap() error {
	return ErrMisuse
}

// MalformedStackError reports stack text the resolver could not parse, or a
// stack with no test function in it.
type MalformedStackError struct {
	Frame  string // offending frame text, empty when no frame applies
	Reason string
}

func (e *MalformedStackError) Error() string {
	if e.Frame == "" {
		return "malformed call stack: " + e.Reason
	}
	return fmt.Sprintf("malformed call stack: %s: %q", e.Reason, e.Frame)
}

func (e *MalformedStackError) Unwrap() error {
	return ErrMalformedStack
}
