// Package directive handles the "@typecheck-ignore" suppress directive.
//
// A directive is a line comment whose first word is the directive token:
//
//	// @typecheck-ignore
//	//@typecheck-ignore reason text
//
// The type-checker service honours live directives by downgrading diagnostics
// that start on the following line. Neutralize rewrites directives into the inert
// "#typecheck-ignore" form so that the code under test reports its real
// diagnostics. A token that appears anywhere else in a comment is plain text.
package directive

import (
	"bytes"
)

const (
	// Token is the live suppress directive.
	Token = "@typecheck-ignore"
	// Inert is what Neutralize turns Token into.
	Inert = "#typecheck-ignore"
)

// match reports whether line is a directive line and returns the byte offset
// of the token inside it.
func match(line []byte) (int, bool) {
	i := skipSpace(line, 0)
	if !bytes.HasPrefix(line[i:], []byte("//")) {
		return 0, false
	}
	i = skipSpace(line, i+2)
	if !bytes.HasPrefix(line[i:], []byte(Token)) {
		return 0, false
	}
	rest := line[i+len(Token):]
	if len(rest) > 0 && !isSpace(rest[0]) {
		return 0, false
	}
	return i, true
}

// IsDirective reports whether line is a live suppress directive.
func IsDirective(line string) bool {
	_, ok := match([]byte(line))
	return ok
}

// Neutralize returns src with every directive line rewritten to the inert
// marker. Leading whitespace and trailing text are preserved; src is returned
// unchanged (same slice) when it contains no directive.
func Neutralize(src []byte) []byte {
	if !bytes.Contains(src, []byte(Token)) {
		return src
	}
	out := make([]byte, 0, len(src))
	for len(src) > 0 {
		line := src
		next := len(src)
		if nl := bytes.IndexByte(src, '\n'); nl >= 0 {
			line = src[:nl]
			next = nl + 1
		}
		if at, ok := match(line); ok {
			out = append(out, line[:at]...)
			out = append(out, Inert...)
			out = append(out, line[at+len(Token):]...)
			out = append(out, src[len(line):next]...)
		} else {
			out = append(out, src[:next]...)
		}
		src = src[next:]
	}
	return out
}

func skipSpace(b []byte, i int) int {
	for i < len(b) && isSpace(b[i]) {
		i++
	}
	return i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\v' || c == '\f'
}
