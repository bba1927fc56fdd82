package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vovakirdan/inlinecheck/internal/block"
	"github.com/vovakirdan/inlinecheck/internal/diag"
	"github.com/vovakirdan/inlinecheck/internal/options"
	"github.com/vovakirdan/inlinecheck/internal/project"
	"github.com/vovakirdan/inlinecheck/internal/snippet"
	"github.com/vovakirdan/inlinecheck/internal/trace"
)

// Target is the position a balanced block starts at or after.
type Target struct {
	File   string
	Line   uint32 // 1-based
	Column uint32 // 1-based
}

func (t Target) String() string {
	return fmt.Sprintf("%s:%d:%d", t.File, t.Line, t.Column)
}

// Request describes one block check.
type Request struct {
	Target Target
	// Options, when set, is used as is and discovery is skipped.
	Options *options.Options
	// Overrides are merged over discovered options.
	Overrides options.Options
	Mode      snippet.Mode
}

// Result is the outcome of one block check.
type Result struct {
	Target      Target
	Unit        snippet.Unit
	Options     options.Options // effective options, before check overrides
	ConfigPath  string          // inlinecheck.toml the options came from, if any
	Diagnostics []diag.Diagnostic
}

// Session runs block checks against shared caches.
type Session struct {
	Collector *Collector
	Discovery *project.Discovery
}

// NewSession creates a session with its own program and config caches.
func NewSession(cache *ProgramCache) *Session {
	return &Session{
		Collector: NewCollector(cache),
		Discovery: project.NewDiscovery(),
	}
}

// Check extracts the '(' … ')' block at req.Target, assembles the unit and
// collects its diagnostics. The source is re-read on every call.
func (s *Session) Check(ctx context.Context, req Request) (*Result, error) {
	path, err := filepath.Abs(req.Target.File)
	if err != nil {
		return nil, err
	}
	res := &Result{Target: req.Target}
	res.Target.File = path

	opts, err := s.options(path, req, res)
	if err != nil {
		return nil, err
	}
	res.Options = opts

	_, span := trace.BeginCtx(ctx, trace.ScopePass, "extract")
	// #nosec G304 -- the path comes from the caller's own stack or command line
	src, err := os.ReadFile(path)
	if err != nil {
		span.End("error")
		return nil, fmt.Errorf("reading origin: %w", err)
	}
	blockSpan, err := block.Extract('(', ')', src, req.Target.Line, req.Target.Column)
	if err != nil {
		span.End("error")
		return nil, fmt.Errorf("%s: %w", res.Target, err)
	}
	span.WithExtra("span", blockSpan.String()).End("")

	_, span = trace.BeginCtx(ctx, trace.ScopePass, "assemble")
	unit, err := snippet.Assemble(req.Mode, path, src, blockSpan)
	if err != nil {
		span.End("error")
		return nil, err
	}
	span.WithExtra("mode", unit.Mode.String()).WithExtra("path", unit.Path).End("")
	res.Unit = unit

	res.Diagnostics, err = s.Collector.Collect(ctx, unit, opts)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Session) options(path string, req Request, res *Result) (options.Options, error) {
	if req.Options != nil {
		return req.Options.Clone(), nil
	}
	discovered, cfgPath, err := s.Discovery.Options(filepath.Dir(path))
	if err != nil {
		return options.Options{}, err
	}
	res.ConfigPath = cfgPath
	return discovered.Merge(req.Overrides), nil
}
