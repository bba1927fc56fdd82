package inlinecheck

import (
	"strings"

	"github.com/vovakirdan/inlinecheck/internal/block"
	"github.com/vovakirdan/inlinecheck/internal/callsite"
	"github.com/vovakirdan/inlinecheck/internal/diag"
	"github.com/vovakirdan/inlinecheck/internal/gocheck"
)

type (
	// MisuseError reports an entry point reached in an unexpected way, or a
	// snippet that is not a function value.
	MisuseError = callsite.MisuseError
	// MalformedStackError reports a traceback the call site could not be read from.
	MalformedStackError = callsite.MalformedStackError
	// UnbalancedTokensError reports a call whose argument list never closes.
	UnbalancedTokensError = block.UnbalancedTokensError
)

var (
	ErrMisuse           = callsite.ErrMisuse
	ErrMalformedStack   = callsite.ErrMalformedStack
	ErrUnbalancedTokens = block.ErrUnbalancedTokens
	// ErrNoPackage is returned when the test file belongs to no package
	// under the requested options (for example, excluded by build tags).
	ErrNoPackage = gocheck.ErrNoPackage
)

// TypeCheckFailure is returned by Infer when the snippet has type errors.
type TypeCheckFailure struct {
	Diagnostics []Diagnostic
}

// Error joins the diagnostic messages, one per line, in reported order.
func (e *TypeCheckFailure) Error() string {
	return strings.Join(diag.Messages(e.Diagnostics), "\n")
}
