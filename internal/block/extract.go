// Package block finds syntactically balanced delimiter regions in source text.
//
// The scan is purely textual: every occurrence of the opening byte counts,
// including ones inside string literals and comments.
package block

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/vovakirdan/inlinecheck/internal/source"
)

// Extract returns the span of the first balanced open…close region whose
// opening delimiter is the first occurrence of open at or after line:col
// (both 1-based). The span covers both delimiters.
func Extract(open, close byte, text []byte, line, col uint32) (source.Span, error) {
	if open == close {
		return source.Span{}, fmt.Errorf("%w: %q", ErrSameTokens, open)
	}
	notFound := &UnbalancedTokensError{Open: open, Close: close, Line: line, Column: col}

	start, ok := Offset(text, line, col)
	if !ok {
		return source.Span{}, notFound
	}

	depth := 0
	var begin int
	for i := int(start); i < len(text); i++ {
		switch text[i] {
		case open:
			if depth == 0 {
				begin = i
			}
			depth++
		case close:
			if depth == 0 {
				// stray closer before the first opener
				continue
			}
			depth--
			if depth == 0 {
				return spanOf(begin, i+1), nil
			}
		}
	}
	notFound.Depth = depth
	return source.Span{}, notFound
}

// Offset converts a 1-based line:col into a flat byte offset into text.
// Lines past the end of text are rejected.
func Offset(text []byte, line, col uint32) (uint32, bool) {
	return source.ToOffset(text, line, col)
}

// ExtractText is Extract returning the enclosed text itself.
func ExtractText(open, close byte, text []byte, line, col uint32) (string, error) {
	sp, err := Extract(open, close, text, line, col)
	if err != nil {
		return "", err
	}
	return string(text[sp.Start:sp.End]), nil
}

func spanOf(begin, end int) source.Span {
	b, err := safecast.Conv[uint32](begin)
	if err != nil {
		panic(fmt.Errorf("block start overflow: %w", err))
	}
	e, err := safecast.Conv[uint32](end)
	if err != nil {
		panic(fmt.Errorf("block end overflow: %w", err))
	}
	return source.Span{Start: b, End: e}
}
