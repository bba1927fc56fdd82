package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/vovakirdan/inlinecheck/internal/diag"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	_, d := prettyFixture()
	diags := BuildDiagnostics([]diag.Diagnostic{d}, "", JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
	})

	var buf bytes.Buffer
	err := JSON(&buf, DiagnosticsOutput{Targets: []TargetJSON{
		{Target: "a_test.go:4", Diagnostics: diags},
		{Target: "a_test.go:9"},
	}})
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 1 || len(out.Targets) != 2 {
		t.Fatalf("unexpected shape: %+v", out)
	}
	got := out.Targets[0].Diagnostics[0]
	if got.Category != "error" || got.Code != "TYP3001" || got.Title != "Type error" {
		t.Errorf("category/code = %s/%s", got.Category, got.Code)
	}
	want := LocationJSON{File: "a_test.go", StartByte: 36, EndByte: 39, Line: 4, Column: 14}
	if got.Location != want {
		t.Errorf("location = %+v, want %+v", got.Location, want)
	}
	if out.Targets[1].Diagnostics == nil {
		t.Error("empty targets must encode an empty array")
	}
}

func TestJSONMaxAndPositions(t *testing.T) {
	_, d := prettyFixture()
	diags := BuildDiagnostics([]diag.Diagnostic{d, d, d}, "", JSONOpts{Max: 2, PathMode: PathModeBasename})

	if len(diags) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(diags))
	}
	if diags[0].Location.Line != 0 || diags[0].Location.Column != 0 {
		t.Errorf("positions must be omitted: %+v", diags[0].Location)
	}
}

func TestJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, DiagnosticsOutput{}); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "{\n  \"targets\": [],\n  \"count\": 0\n}\n"; got != want {
		t.Errorf("JSON() = %q, want %q", got, want)
	}
}
