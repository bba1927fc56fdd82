package snippet

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/inlinecheck/internal/block"
	"github.com/vovakirdan/inlinecheck/internal/source"
)

func TestImports(t *testing.T) {
	src := strings.Join([]string{
		`package demo_test`,
		``,
		`import "fmt"`,
		`var x = 1`,
		`import (`,
		`	"strings" // for Join`,
		``,
		`	m "math";`,
		`)`,
		`// imports wrong from 'wrong'`,
		`imports wrong from 'wrong'`,
		`func importer() {}`,
		`	import _ "embed"`,
		`import ("os"; "io")`,
		`import . "testing"`,
	}, "\n")

	got := Imports([]byte(src))
	assert.Equal(t, []string{
		`import "fmt";`,
		`import "strings";`,
		`import m "math";`,
		`import _ "embed";`,
		`import "os";`,
		`import "io";`,
		`import . "testing";`,
	}, got)
}

func TestImportsNone(t *testing.T) {
	assert.Empty(t, Imports([]byte("package p\n\nfunc f() {}\n")))
}

func TestStripLineComment(t *testing.T) {
	assert.Equal(t, `"a//b"`, stripLineComment(`"a//b" // c`))
	assert.Equal(t, "`x//y`", stripLineComment("`x//y`"))
	assert.Equal(t, `"q\"//"`, stripLineComment(`"q\"//"`))
	assert.Equal(t, "", stripLineComment("// all comment"))
}

const originSrc = `package demo_test

import (
	"testing"

	"example.com/demo/inlinecheck"
)

func TestX(t *testing.T) {
	inlinecheck.Assert(t, func() {
		var n int = "s"
		_ = n
	})
}
`

func originSpan(t *testing.T) source.Span {
	t.Helper()
	sp, err := block.Extract('(', ')', []byte(originSrc), 10, 20)
	require.NoError(t, err)
	return sp
}

func TestAssembleFileMode(t *testing.T) {
	sp := originSpan(t)
	u, err := Assemble(ModeFile, "/w/demo_test.go", []byte(originSrc), sp)
	require.NoError(t, err)

	assert.Equal(t, "/w/demo_test.go", u.Path)
	assert.Equal(t, u.Origin, u.Path)
	assert.Equal(t, sp, u.Span)
	assert.Nil(t, u.Overlay)
	assert.True(t, strings.HasPrefix(string(u.Content[u.Span.Start:u.Span.End]), "(t, func() {"))
}

func TestAssembleSnippetMode(t *testing.T) {
	sp := originSpan(t)
	u, err := Assemble(ModeSnippet, "/w/demo_test.go", []byte(originSrc), sp)
	require.NoError(t, err)

	assert.Equal(t, ModeSnippet, u.Mode)
	assert.Equal(t, "/w", filepath.Dir(u.Path))
	assert.True(t, strings.HasPrefix(filepath.Base(u.Path), "zz_inline_"))
	assert.True(t, strings.HasSuffix(u.Path, "_test.go"))
	require.Contains(t, u.Overlay, u.Path)
	assert.True(t, bytes.Equal(u.Overlay[u.Path], u.Content))

	content := string(u.Content)
	assert.Contains(t, content, "package demo_test\n")
	assert.Contains(t, content, "import \"testing\";\n")
	assert.Contains(t, content, "import \"example.com/demo/inlinecheck\";\n")

	lit := content[u.Span.Start:u.Span.End]
	assert.True(t, strings.HasPrefix(lit, "func() {"), lit)
	assert.True(t, strings.HasSuffix(lit, "}"), lit)
	assert.Contains(t, lit, `var n int = "s"`)
	assert.Equal(t, "var _ = ", content[u.Span.Start-8:u.Span.Start])

	again, err := Assemble(ModeSnippet, "/w/demo_test.go", []byte(originSrc), sp)
	require.NoError(t, err)
	assert.Equal(t, u.Path, again.Path, "synthetic path must be deterministic")

	other, err := Assemble(ModeSnippet, "/w/other_test.go", []byte(originSrc), sp)
	require.NoError(t, err)
	assert.NotEqual(t, u.Path, other.Path)
}

func TestAssembleSnippetWithoutFuncLit(t *testing.T) {
	src := []byte("package p\n\nvar _ = f(1, 2)\n")
	sp, err := block.Extract('(', ')', src, 3, 1)
	require.NoError(t, err)

	_, err = Assemble(ModeSnippet, "/w/p.go", src, sp)
	require.ErrorIs(t, err, ErrNoFuncLit)
}

func TestAssembleRejectsBadSpan(t *testing.T) {
	_, err := Assemble(ModeFile, "/w/p.go", []byte("package p"), source.Span{Start: 2, End: 99})
	require.ErrorIs(t, err, ErrSpanRange)

	_, err = Assemble(ModeFile, "/w/p.go", []byte("package p"), source.Span{Start: 3, End: 3})
	require.ErrorIs(t, err, ErrSpanRange)
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeFile, ModeSnippet} {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseMode("scratch")
	assert.Error(t, err)
}
