// Package gocheck type-checks the package containing a root file through
// golang.org/x/tools/go/packages and reports diagnostics as byte ranges.
package gocheck

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/inlinecheck/internal/diag"
	"github.com/vovakirdan/inlinecheck/internal/options"
	"github.com/vovakirdan/inlinecheck/internal/source"
)

var (
	// ErrNoPackage is returned when the root file belongs to no loaded package.
	ErrNoPackage = errors.New("file belongs to no package")
	// ErrLoad is wrapped by LoadError.
	ErrLoad = errors.New("package loading failed")
)

// LoadError carries go list failures that have no source position.
type LoadError struct {
	Root     string
	Messages []string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s: %s", e.Root, strings.Join(e.Messages, "; "))
}

func (e *LoadError) Unwrap() error {
	return ErrLoad
}

// SourceHook rewrites a file's bytes before the parser sees them.
type SourceHook func(path string, src []byte) []byte

// BuildRequest describes one program build.
type BuildRequest struct {
	Root    string // absolute path of the root file
	Options options.Options
	// Overlay maps absolute paths to contents that replace (or add) files.
	Overlay map[string][]byte
	// Hook is applied to every file the loader parses.
	Hook SourceHook
}

// Compiler builds programs. Implementations must be safe for concurrent use.
type Compiler interface {
	Build(ctx context.Context, req BuildRequest) (*Program, error)
}

// Program is an immutable type-checked package set rooted at one file.
type Program struct {
	root     string
	opts     options.Options
	diags    []diag.Diagnostic
	sources  *source.FileSet
	packages []string
}

// NewProgram assembles a Program. Compilers other than PackagesCompiler
// (fakes in tests, mostly) use it to hand back results.
func NewProgram(root string, opts options.Options, diags []diag.Diagnostic, sources *source.FileSet, packages ...string) *Program {
	if sources == nil {
		sources = source.NewFileSet()
	}
	return &Program{
		root:     root,
		opts:     opts.Clone(),
		diags:    diags,
		sources:  sources,
		packages: packages,
	}
}

// Root returns the file the program was built for.
func (p *Program) Root() string { return p.root }

// Options returns the options the program was built with.
func (p *Program) Options() options.Options { return p.opts.Clone() }

// Diagnostics returns every diagnostic of the program in encounter order.
func (p *Program) Diagnostics() []diag.Diagnostic {
	out := make([]diag.Diagnostic, len(p.diags))
	copy(out, p.diags)
	return out
}

// Sources returns the file contents the checker saw, after the source hook.
func (p *Program) Sources() *source.FileSet { return p.sources }

// Packages returns the IDs of the loaded packages.
func (p *Program) Packages() []string { return p.packages }
