package diag

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vovakirdan/inlinecheck/internal/source"
)

type goldenDiagnostic struct {
	Category string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatGoldenDiagnostics renders diagnostics into a stable, single-line-per-entry
// representation suitable for golden files: paths relative to baseDir, entries
// sorted deterministically, empty string when nothing remains.
func FormatGoldenDiagnostics(diags []Diagnostic, baseDir string) string {
	return formatDiagnostics(diags, baseDir, true)
}

// FormatShortDiagnostics renders diagnostics one per line in the order given.
func FormatShortDiagnostics(diags []Diagnostic, baseDir string) string {
	return formatDiagnostics(diags, baseDir, false)
}

func formatDiagnostics(diags []Diagnostic, baseDir string, sorted bool) string {
	if len(diags) == 0 {
		return ""
	}

	rendered := make([]goldenDiagnostic, 0, len(diags))
	for _, d := range diags {
		rendered = append(rendered, goldenDiagnostic{
			Category: d.Category.String(),
			Code:     d.Code.ID(),
			Path:     normalizePath(source.FormatPath(d.File, "relative", baseDir)),
			Line:     d.Line,
			Column:   d.Column,
			Message:  sanitizeMessage(d.Message),
		})
	}

	if sorted {
		sort.SliceStable(rendered, func(i, j int) bool {
			di, dj := rendered[i], rendered[j]
			if di.Path != dj.Path {
				return di.Path < dj.Path
			}
			if di.Line != dj.Line {
				return di.Line < dj.Line
			}
			if di.Column != dj.Column {
				return di.Column < dj.Column
			}
			if di.Category != dj.Category {
				return di.Category < dj.Category
			}
			if di.Code != dj.Code {
				return di.Code < dj.Code
			}
			return di.Message < dj.Message
		})
	}

	var b strings.Builder
	for i, d := range rendered {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Category, d.Code, d.Path, d.Line, d.Column, d.Message)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
