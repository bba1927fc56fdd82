package diagfmt

import (
	"encoding/json"
	"io"

	"github.com/vovakirdan/inlinecheck/internal/diag"
	"github.com/vovakirdan/inlinecheck/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	Line      uint32 `json:"line,omitempty"`
	Column    uint32 `json:"column,omitempty"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Category string       `json:"category"`
	Code     string       `json:"code"`
	Title    string       `json:"title"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// TargetJSON groups the diagnostics of one checked call site.
type TargetJSON struct {
	Target      string           `json:"target"`
	Options     string           `json:"options,omitempty"`
	Config      string           `json:"config,omitempty"`
	Error       string           `json:"error,omitempty"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Targets []TargetJSON `json:"targets"`
	Count   int          `json:"count"`
}

// BuildDiagnostics converts diags to their JSON form without serializing.
func BuildDiagnostics(diags []diag.Diagnostic, baseDir string, opts JSONOpts) []DiagnosticJSON {
	n := len(diags)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	out := make([]DiagnosticJSON, 0, n)
	for _, d := range diags[:n] {
		loc := LocationJSON{
			File:      source.FormatPath(d.File, opts.PathMode.name(), baseDir),
			StartByte: d.Start,
			EndByte:   d.End(),
		}
		if opts.IncludePositions {
			loc.Line, loc.Column = d.Line, d.Column
		}
		out = append(out, DiagnosticJSON{
			Category: d.Category.String(),
			Code:     d.Code.ID(),
			Title:    d.Code.Title(),
			Message:  d.Message,
			Location: loc,
		})
	}
	return out
}

// JSON пишет вывод с отступами; Count пересчитывается по целям.
func JSON(w io.Writer, out DiagnosticsOutput) error {
	out.Count = 0
	for i := range out.Targets {
		if out.Targets[i].Diagnostics == nil {
			out.Targets[i].Diagnostics = []DiagnosticJSON{}
		}
		out.Count += len(out.Targets[i].Diagnostics)
	}
	if out.Targets == nil {
		out.Targets = []TargetJSON{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
