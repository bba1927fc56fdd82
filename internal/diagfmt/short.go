package diagfmt

import (
	"io"

	"github.com/vovakirdan/inlinecheck/internal/diag"
)

// Short writes one line per diagnostic: "category CODE path:line:col message".
func Short(w io.Writer, diags []diag.Diagnostic, baseDir string) error {
	text := diag.FormatShortDiagnostics(diags, baseDir)
	if text == "" {
		return nil
	}
	_, err := io.WriteString(w, text+"\n")
	return err
}
