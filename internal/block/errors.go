package block

import (
	"errors"
	"fmt"
)

var (
	// ErrUnbalancedTokens is wrapped by every UnbalancedTokensError.
	ErrUnbalancedTokens = errors.New("tokens do not balance")
	// ErrSameTokens is returned when the opening and closing delimiters coincide.
	ErrSameTokens = errors.New("opening and closing delimiters must differ")
)

// UnbalancedTokensError reports a scan that reached the end of the text
// without closing every opened delimiter, or a start position out of range.
type UnbalancedTokensError struct {
	Open, Close byte
	Line        uint32
	Column      uint32
	Depth       int // depth left open when the text ended
}

func (e *UnbalancedTokensError) Error() string {
	if e.Depth == 0 {
		return fmt.Sprintf("no %q…%q block at or after %d:%d", e.Open, e.Close, e.Line, e.Column)
	}
	return fmt.Sprintf("%q…%q block starting at or after %d:%d is not closed (depth %d)",
		e.Open, e.Close, e.Line, e.Column, e.Depth)
}

func (e *UnbalancedTokensError) Unwrap() error {
	return ErrUnbalancedTokens
}
