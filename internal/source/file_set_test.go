package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("case_test.go", []byte("package a"), 0)
	id2 := fs.Add("case_test.go", []byte("package b"), 0)
	if id1 == id2 {
		t.Fatal("expected a new FileID for the second Add")
	}

	latest, ok := fs.GetLatest("case_test.go")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d, %v; want %d, true", latest, ok, id2)
	}

	// старая версия остаётся доступной
	if got := string(fs.Get(id1).Content); got != "package a" {
		t.Errorf("first version content = %q", got)
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.go", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("LineIdx length = %d, want %d", len(file.LineIdx), len(expected))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("LineIdx[%d] = %d, want %d", i, file.LineIdx[i], val)
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("expected FileVirtual flag to be set")
	}
}

func TestAddKeepsRawBytes(t *testing.T) {
	fs := NewFileSet()
	content := []byte{0xEF, 0xBB, 0xBF, 'x', '\r', '\n', 'y'}
	file := fs.Get(fs.Add("bom.go", content, 0))

	if len(file.Content) != len(content) {
		t.Fatalf("content was modified: %q", file.Content)
	}
	if file.Flags&FileHadBOM == 0 || file.Flags&FileHasCRLF == 0 {
		t.Errorf("flags = %b, want BOM and CRLF set", file.Flags)
	}
	if got := file.GetLine(1); got != "\ufeffx" {
		t.Errorf("GetLine(1) = %q", got)
	}
}

func TestResolveUTF8(t *testing.T) {
	fs := NewFileSet()
	// α занимает 2 байта
	id := fs.AddVirtual("utf8.go", []byte("α\nb"))

	start, end := fs.Resolve(id, Span{Start: 0, End: 1})
	if start != (LineCol{Line: 1, Col: 1}) {
		t.Errorf("start = %+v", start)
	}
	if end != (LineCol{Line: 1, Col: 2}) {
		t.Errorf("end = %+v", end)
	}

	if pos := fs.Get(id).Position(3); pos != (LineCol{Line: 2, Col: 1}) {
		t.Errorf("Position(3) = %+v, want 2:1", pos)
	}
}

func TestOffsetRoundTrip(t *testing.T) {
	content := []byte("first\n\tsecond line\nthird")
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("x.go", content))

	tests := []struct {
		line, col uint32
		want      uint32
		ok        bool
	}{
		{1, 1, 0, true},
		{1, 6, 5, true},
		{2, 1, 6, true},
		{2, 2, 7, true},
		{3, 1, 19, true},
		{3, 6, 24, true},
		{4, 1, 0, false},
		{0, 1, 0, false},
		{3, 9, 0, false},
		{2, ^uint32(0), 0, false},
	}
	for _, tt := range tests {
		got, ok := file.Offset(tt.line, tt.col)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("Offset(%d, %d) = %d, %v; want %d, %v", tt.line, tt.col, got, ok, tt.want, tt.ok)
			continue
		}
		if ok {
			if pos := file.Position(got); pos.Line != tt.line || pos.Col != tt.col {
				t.Errorf("Position(%d) = %+v, want %d:%d", got, pos, tt.line, tt.col)
			}
		}
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("lines.go", []byte("one\ntwo\n")))

	cases := map[uint32]string{0: "", 1: "one", 2: "two", 3: "", 4: ""}
	for n, want := range cases {
		if got := file.GetLine(n); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestLoadAndRelativePath(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "nested", "file_test.go")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(target, []byte("package nested\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSetWithBase(tmp)
	id, err := fs.Load(target)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := fs.Get(id).FormatPath("relative", fs.BaseDir()); got != "nested/file_test.go" {
		t.Errorf("relative path = %q", got)
	}
	if _, ok := fs.GetByPath(target); !ok {
		t.Error("GetByPath did not find loaded file")
	}

	other := filepath.Join(t.TempDir(), "other.go")
	got, err := RelativePath(other, tmp)
	if err != nil {
		t.Fatalf("RelativePath: %v", err)
	}
	if got != normalizePath(other) {
		t.Errorf("expected absolute fallback %q, got %q", normalizePath(other), got)
	}
}
