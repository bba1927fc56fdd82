package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vovakirdan/inlinecheck/internal/diag"
	"github.com/vovakirdan/inlinecheck/internal/source"
)

const prettySource = "package a\n\nfunc f() {\n\tvar n int = \"x\"\n}\n"

func prettyFixture() (*source.FileSet, diag.Diagnostic) {
	fs := source.NewFileSetWithBase("/home/user/project")
	fs.AddVirtual("/home/user/project/pkg/a_test.go", []byte(prettySource))
	d := diag.NewError(diag.TypeError, "/home/user/project/pkg/a_test.go", 36, 3, `cannot use "x"`).WithPosition(4, 14)
	return fs, d
}

// TestPrettyCaret проверяет заголовок, строку и подчёркивание
func TestPrettyCaret(t *testing.T) {
	fs, d := prettyFixture()

	var buf bytes.Buffer
	Pretty(&buf, []diag.Diagnostic{d}, fs, PrettyOpts{PathMode: PathModeRelative})

	want := "pkg/a_test.go:4:14: ERROR TYP3001: cannot use \"x\"\n" +
		"4 |     var n int = \"x\"\n" +
		"  | " + strings.Repeat(" ", 16) + "^~~\n"
	if got := buf.String(); got != want {
		t.Errorf("Pretty() =\n%q\nwant\n%q", got, want)
	}
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs, d := prettyFixture()

	tests := []struct {
		name   string
		mode   PathMode
		prefix string
	}{
		{"absolute", PathModeAbsolute, "/home/user/project/pkg/a_test.go:4:14:"},
		{"relative", PathModeRelative, "pkg/a_test.go:4:14:"},
		{"basename", PathModeBasename, "a_test.go:4:14:"},
		{"auto keeps short paths", PathModeAuto, "/home/user/project/pkg/a_test.go:4:14:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, []diag.Diagnostic{d}, fs, PrettyOpts{PathMode: tt.mode})
			if !strings.HasPrefix(buf.String(), tt.prefix) {
				t.Errorf("expected prefix %q, got:\n%s", tt.prefix, buf.String())
			}
		})
	}
}

func TestPrettyContextLines(t *testing.T) {
	fs, d := prettyFixture()

	var buf bytes.Buffer
	Pretty(&buf, []diag.Diagnostic{d}, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename})

	out := buf.String()
	for _, want := range []string{"3 | func f() {", "4 |     var n int", "5 | }"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

// без файла в FileSet печатается только заголовок
func TestPrettyWithoutSource(t *testing.T) {
	d := diag.NewError(diag.LoadListError, "/tmp/missing.go", 0, 0, "no such file").WithPosition(1, 1)

	var buf bytes.Buffer
	Pretty(&buf, []diag.Diagnostic{d}, source.NewFileSet(), PrettyOpts{PathMode: PathModeBasename})

	if got, want := buf.String(), "missing.go:1:1: ERROR LOD1001: no such file\n"; got != want {
		t.Errorf("Pretty() = %q, want %q", got, want)
	}
}

func TestUnderlineWideRunes(t *testing.T) {
	line := "s := \"日本語\""
	d := diag.Diagnostic{Column: 7, Length: 6}

	lead, width := underline(line, d)
	if lead != 6 || width != 4 {
		t.Errorf("underline() = (%d, %d), want (6, 4)", lead, width)
	}

	// диапазон за концом строки обрезается
	d = diag.Diagnostic{Column: 40, Length: 3}
	lead, width = underline(line, d)
	if lead != displayWidth(line) || width != 1 {
		t.Errorf("underline() past end = (%d, %d)", lead, width)
	}
}

func TestShort(t *testing.T) {
	_, d := prettyFixture()

	var buf bytes.Buffer
	if err := Short(&buf, []diag.Diagnostic{d}, "/home/user/project"); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "error TYP3001 pkg/a_test.go:4:14 cannot use \"x\"\n"; got != want {
		t.Errorf("Short() = %q, want %q", got, want)
	}

	buf.Reset()
	if err := Short(&buf, nil, ""); err != nil || buf.Len() != 0 {
		t.Errorf("Short(nil) wrote %q, err %v", buf.String(), err)
	}
}
