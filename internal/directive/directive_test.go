package directive

import (
	"testing"
)

func TestNeutralize(t *testing.T) {
	before := `
		// Not removed
		a := 10
		// @typecheck-ignore
		b := 20
		// @typecheck-ignore - more comment
		c := 30
		// More comment //@typecheck-ignore
		// More comment @typecheck-ignore
		//@typecheck-ignored
		d := 40
	`
	after := `
		// Not removed
		a := 10
		// #typecheck-ignore
		b := 20
		// #typecheck-ignore - more comment
		c := 30
		// More comment //@typecheck-ignore
		// More comment @typecheck-ignore
		//@typecheck-ignored
		d := 40
	`
	if got := string(Neutralize([]byte(before))); got != after {
		t.Fatalf("unexpected rewrite:\nwant:\n%s\ngot:\n%s", after, got)
	}
}

func TestNeutralizeEdges(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"no directive", "x := 1\n", "x := 1\n"},
		{"no space after slashes", "//@typecheck-ignore", "//#typecheck-ignore"},
		{"crlf", "\t// @typecheck-ignore\r\nx\r\n", "\t// #typecheck-ignore\r\nx\r\n"},
		{"last line without newline", "a\n  // @typecheck-ignore", "a\n  // #typecheck-ignore"},
		{"code before comment", "x := 1 // @typecheck-ignore", "x := 1 // @typecheck-ignore"},
		{"block comment", "/* @typecheck-ignore */", "/* @typecheck-ignore */"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(Neutralize([]byte(tt.in))); got != tt.want {
				t.Errorf("Neutralize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNeutralizeReturnsSameSliceWithoutToken(t *testing.T) {
	src := []byte("package a\n")
	if got := Neutralize(src); &got[0] != &src[0] {
		t.Error("expected input slice to be returned untouched")
	}
}

func TestIsDirective(t *testing.T) {
	if !IsDirective("   //   @typecheck-ignore because") {
		t.Error("expected directive")
	}
	if IsDirective("// #typecheck-ignore") {
		t.Error("inert marker must not be a directive")
	}
}

func TestScanAndRegistry(t *testing.T) {
	src := []byte("package a\n\n// @typecheck-ignore\nvar x int = \"s\"\n// text @typecheck-ignore\nvar y int\n")

	found := Scan("a.go", src)
	if len(found) != 1 {
		t.Fatalf("expected 1 suppression, got %d", len(found))
	}
	if found[0].Line != 3 || found[0].Target != 4 {
		t.Errorf("unexpected suppression %+v", found[0])
	}

	r := NewRegistry()
	r.CollectFromFile("a.go", src)
	r.CollectFromFile("a.go", src)
	if r.Len() != 1 {
		t.Errorf("expected duplicate collection to be ignored, got %d", r.Len())
	}
	if !r.Suppressed("a.go", 4) {
		t.Error("expected line 4 suppressed")
	}
	if r.Suppressed("a.go", 6) || r.Suppressed("b.go", 4) {
		t.Error("unexpected suppression")
	}

	var nilRegistry *Registry
	if nilRegistry.Suppressed("a.go", 4) || nilRegistry.Len() != 0 {
		t.Error("nil registry must be empty")
	}
}
