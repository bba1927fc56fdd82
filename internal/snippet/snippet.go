// Package snippet turns an extracted block into the unit handed to the
// type-checker: either the origin file itself or a synthetic file holding
// only the snippet's function literal.
package snippet

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"strings"

	"fortio.org/safecast"

	"github.com/vovakirdan/inlinecheck/internal/source"
)

// Mode selects how a block is presented to the type-checker.
type Mode uint8

const (
	// ModeFile checks the origin file verbatim; the span stays as extracted.
	ModeFile Mode = iota
	// ModeSnippet checks a synthetic sibling file with the package clause,
	// the origin imports and the snippet's function literal.
	ModeSnippet
)

func (m Mode) String() string {
	switch m {
	case ModeFile:
		return "file"
	case ModeSnippet:
		return "snippet"
	}
	return "unknown"
}

// ParseMode converts a mode name back to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "file":
		return ModeFile, nil
	case "snippet":
		return ModeSnippet, nil
	}
	return ModeFile, fmt.Errorf("unknown snippet mode %q (want file|snippet)", s)
}

var (
	// ErrNoFuncLit is returned in snippet mode when the block holds no function literal.
	ErrNoFuncLit = errors.New("block contains no function literal")
	// ErrSpanRange is returned when the span does not fit the source.
	ErrSpanRange = errors.New("span out of source range")
)

// Unit is what gets type-checked for one block.
type Unit struct {
	Mode    Mode
	Origin  string      // file the block was extracted from
	Path    string      // file whose diagnostics are kept
	Content []byte      // content of Path as the checker sees it
	Span    source.Span // block range within Content
	// Overlay maps synthetic paths to contents; nil in file mode.
	Overlay map[string][]byte
}

// Assemble builds the unit for the block at span in the file path with content src.
func Assemble(mode Mode, path string, src []byte, span source.Span) (Unit, error) {
	if int(span.End) > len(src) || span.Start >= span.End {
		return Unit{}, fmt.Errorf("%w: %s in %d bytes", ErrSpanRange, span, len(src))
	}
	switch mode {
	case ModeFile:
		return Unit{Mode: mode, Origin: path, Path: path, Content: src, Span: span}, nil
	case ModeSnippet:
		return assembleSnippet(path, src, span)
	}
	return Unit{}, fmt.Errorf("unknown snippet mode %d", mode)
}

const generatedHeader = "// Code generated by inlinecheck. DO NOT EDIT.\n\n"

func assembleSnippet(path string, src []byte, span source.Span) (Unit, error) {
	pkg, err := packageName(path, src)
	if err != nil {
		return Unit{}, err
	}
	lit, err := funcLiteral(src[span.Start:span.End])
	if err != nil {
		return Unit{}, fmt.Errorf("%s:%s: %w", path, span, err)
	}

	var b strings.Builder
	b.WriteString(generatedHeader)
	b.WriteString("package " + pkg + "\n\n")
	for _, imp := range Imports(src) {
		b.WriteString(imp + "\n")
	}
	b.WriteString("\nvar _ = ")
	start := b.Len()
	b.WriteString(lit)
	end := b.Len()
	b.WriteString("\n")

	content := []byte(b.String())
	synth := syntheticPath(path, content)
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		return Unit{}, err
	}
	e, err := safecast.Conv[uint32](end)
	if err != nil {
		return Unit{}, err
	}
	return Unit{
		Mode:    ModeSnippet,
		Origin:  path,
		Path:    synth,
		Content: content,
		Span:    source.Span{Start: s, End: e},
		Overlay: map[string][]byte{synth: content},
	}, nil
}

// syntheticPath names the sibling file; the hash keeps distinct snippets apart
// in the program cache, the suffix keeps test files in the test package.
func syntheticPath(origin string, content []byte) string {
	sum := sha256.Sum256(append([]byte(origin+"\x00"), content...))
	name := "zz_inline_" + hex.EncodeToString(sum[:6])
	if strings.HasSuffix(origin, "_test.go") {
		name += "_test"
	}
	return filepath.Join(filepath.Dir(origin), name+".go")
}

func packageName(path string, src []byte) (string, error) {
	f, err := parser.ParseFile(token.NewFileSet(), path, src, parser.PackageClauseOnly)
	if err != nil {
		return "", fmt.Errorf("reading package clause: %w", err)
	}
	return f.Name.Name, nil
}

// funcLiteral returns the text of the first function literal in block, which
// is an argument list such as "(t, func() { ... })".
func funcLiteral(block []byte) (string, error) {
	const prefix = "f"
	expr, err := parser.ParseExpr(prefix + string(block))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoFuncLit, err)
	}
	var found *ast.FuncLit
	ast.Inspect(expr, func(n ast.Node) bool {
		if found != nil {
			return false
		}
		if lit, ok := n.(*ast.FuncLit); ok {
			found = lit
			return false
		}
		return true
	})
	if found == nil {
		return "", ErrNoFuncLit
	}
	// ParseExpr positions start at 1
	from := int(found.Pos()) - 1 - len(prefix)
	to := int(found.End()) - 1 - len(prefix)
	return string(block[from:to]), nil
}
