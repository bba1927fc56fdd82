package gocheck

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/tools/go/packages"

	"github.com/vovakirdan/inlinecheck/internal/directive"
	"github.com/vovakirdan/inlinecheck/internal/source"
	"github.com/vovakirdan/inlinecheck/internal/trace"
)

// NeedDeps keeps go list from compiling the package with -export; without it
// type errors arrive as one positionless compiler ListError.
const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedImports |
	packages.NeedDeps |
	packages.NeedTypes |
	packages.NeedTypesSizes |
	packages.NeedSyntax |
	packages.NeedTypesInfo

// PackagesCompiler loads the package of the root file, together with its
// test variants, and type-checks it from source.
type PackagesCompiler struct {
	// Env is the base environment; nil means os.Environ().
	Env []string
}

// Build implements Compiler.
func (c *PackagesCompiler) Build(ctx context.Context, req BuildRequest) (*Program, error) {
	root, err := filepath.Abs(req.Root)
	if err != nil {
		return nil, err
	}
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID

	sources := source.NewFileSet()
	sources.SetBaseDir(filepath.Dir(root))
	suppressed := directive.NewRegistry()
	var parseMu sync.Mutex

	env := c.Env
	if env == nil {
		env = os.Environ()
	}
	cfg := &packages.Config{
		Context:    ctx,
		Mode:       loadMode,
		Dir:        filepath.Dir(root),
		Env:        append(append([]string(nil), env...), req.Options.Environ()...),
		BuildFlags: req.Options.BuildFlags(),
		Tests:      true,
		Overlay:    req.Overlay,
		ParseFile: func(fset *token.FileSet, filename string, src []byte) (*ast.File, error) {
			if req.Hook != nil {
				src = req.Hook(filename, src)
			}
			// dependency files are type-checked but never reported on
			if !sameFile(filepath.Dir(filename), filepath.Dir(root)) {
				return parser.ParseFile(fset, filename, src, parser.AllErrors)
			}
			parseMu.Lock()
			if _, seen := sources.GetLatest(filename); !seen {
				id := sources.Add(filename, src, 0)
				suppressed.CollectFromFile(sources.Get(id).Path, src)
			}
			parseMu.Unlock()
			return parser.ParseFile(fset, filename, src, parser.AllErrors|parser.ParseComments)
		},
	}

	pkgs, err := packages.Load(cfg, "file="+root)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", root, err)
	}

	if !containsFile(pkgs, root) {
		return nil, fmt.Errorf("%w: %s", ErrNoPackage, root)
	}

	col := collector{
		sources:    sources,
		overlay:    req.Overlay,
		suppressed: suppressed,
		seen:       make(map[dedupKey]struct{}),
		opts:       req.Options,
	}
	ids := make([]string, 0, len(pkgs))
	for _, pkg := range pkgs {
		ids = append(ids, pkg.ID)
		before := len(col.diags)
		col.listErrors(pkg)
		col.typeErrors(pkg)
		trace.Point(tracer, trace.ScopeCheck, "package", parent, pkg.ID, map[string]string{
			"diagnostics": fmt.Sprint(len(col.diags) - before),
		})
	}
	if len(col.unplaced) > 0 {
		return nil, &LoadError{Root: root, Messages: col.unplaced}
	}
	return NewProgram(root, req.Options, col.diags, sources, ids...), nil
}

func containsFile(pkgs []*packages.Package, file string) bool {
	for _, pkg := range pkgs {
		for _, list := range [][]string{pkg.GoFiles, pkg.CompiledGoFiles} {
			for _, f := range list {
				if sameFile(f, file) {
					return true
				}
			}
		}
	}
	return false
}

func sameFile(a, b string) bool {
	return source.SamePath(a, b)
}
