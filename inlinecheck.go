package inlinecheck

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/vovakirdan/inlinecheck/internal/callsite"
	"github.com/vovakirdan/inlinecheck/internal/diag"
	"github.com/vovakirdan/inlinecheck/internal/driver"
	"github.com/vovakirdan/inlinecheck/internal/gocheck"
	"github.com/vovakirdan/inlinecheck/internal/snippet"
	"github.com/vovakirdan/inlinecheck/internal/trace"
)

// Diagnostic is one finding inside a snippet.
type Diagnostic = diag.Diagnostic

// Category of a Diagnostic.
type Category = diag.Category

const (
	CatMessage    = diag.CatMessage
	CatSuggestion = diag.CatSuggestion
	CatWarning    = diag.CatWarning
	CatError      = diag.CatError
)

// entryName is the function that calls the call-site resolver; the resolver
// insists on finding it directly below itself.
const entryName = "diagnose"

// Checker checks snippets against its own program cache.
// A Checker is safe for concurrent use.
type Checker struct {
	session *driver.Session
	ctx     context.Context
	mode    snippet.Mode
}

// New creates a Checker.
func New(opts ...CheckerOption) *Checker {
	cfg := checkerConfig{
		ctx:      context.Background(),
		tracer:   trace.Nop,
		compiler: &gocheck.PackagesCompiler{},
	}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.ctx == nil {
		cfg.ctx = context.Background()
	}
	mode := snippet.ModeFile
	if cfg.snippet {
		mode = snippet.ModeSnippet
	}
	return &Checker{
		session: driver.NewSession(driver.NewProgramCache(cfg.compiler)),
		ctx:     trace.WithTracer(cfg.ctx, cfg.tracer),
		mode:    mode,
	}
}

var defaultChecker = sync.OnceValue(func() *Checker { return New() })

// Infer type-checks the snippet passed at the call site and returns a
// *TypeCheckFailure when it has type errors.
func Infer(snippet any, opts ...Option) error {
	return defaultChecker().Infer(snippet, opts...)
}

// Diagnose returns the error diagnostics inside the snippet passed at the
// call site. An empty result means the snippet is well-typed.
func Diagnose(snippet any, opts ...Option) ([]Diagnostic, error) {
	return defaultChecker().Diagnose(snippet, opts...)
}

// Assert fails t unless the snippet is well-typed.
func Assert(t testing.TB, snippet any, opts ...Option) {
	t.Helper()
	defaultChecker().Assert(t, snippet, opts...)
}

// AssertFails fails t unless the snippet has type errors.
func AssertFails(t testing.TB, snippet any, opts ...Option) {
	t.Helper()
	defaultChecker().AssertFails(t, snippet, opts...)
}

// Infer is the Checker form of the package-level Infer.
func (c *Checker) Infer(snippet any, opts ...Option) error {
	diags, err := c.diagnose(snippet, opts)
	if err != nil {
		return err
	}
	if len(diags) > 0 {
		return &TypeCheckFailure{Diagnostics: diags}
	}
	return nil
}

// Diagnose is the Checker form of the package-level Diagnose.
func (c *Checker) Diagnose(snippet any, opts ...Option) ([]Diagnostic, error) {
	return c.diagnose(snippet, opts)
}

// Assert is the Checker form of the package-level Assert.
func (c *Checker) Assert(t testing.TB, snippet any, opts ...Option) {
	t.Helper()
	if err := c.Infer(snippet, opts...); err != nil {
		var failure *TypeCheckFailure
		if errors.As(err, &failure) {
			t.Errorf("snippet is not well-typed:\n%s", failure.Error())
			return
		}
		t.Errorf("inlinecheck: %v", err)
	}
}

// AssertFails is the Checker form of the package-level AssertFails.
func (c *Checker) AssertFails(t testing.TB, snippet any, opts ...Option) {
	t.Helper()
	err := c.Infer(snippet, opts...)
	var failure *TypeCheckFailure
	switch {
	case err == nil:
		t.Errorf("snippet is well-typed, expected type errors")
	case !errors.As(err, &failure):
		t.Errorf("inlinecheck: %v", err)
	}
}

// Reset drops every cached program and configuration.
func (c *Checker) Reset() {
	c.session.Collector.Cache.Clear()
	c.session.Discovery.Reset()
}

// CacheLen returns the number of cached programs.
func (c *Checker) CacheLen() int {
	return c.session.Collector.Cache.Len()
}

// diagnose must call callsite.Resolve itself: the resolver checks that the
// frame right below it is named after entryName.
func (c *Checker) diagnose(fn any, opts []Option) ([]Diagnostic, error) {
	if fn == nil || reflect.TypeOf(fn).Kind() != reflect.Func {
		return nil, &MisuseError{Entry: entryName, Got: fmt.Sprintf("snippet of type %T, want a func value", fn)}
	}

	ctx, span := trace.BeginCtx(c.ctx, trace.ScopeDriver, "diagnose")
	_, resolveSpan := trace.BeginCtx(ctx, trace.ScopePass, "resolve")
	origin, err := callsite.Resolve(entryName)
	if err != nil {
		resolveSpan.End("error")
		span.End("error")
		return nil, err
	}
	resolveSpan.WithExtra("origin", fmt.Sprintf("%s:%d:%d", origin.File, origin.Line, origin.Column)).End("")

	cfg := newCallConfig(opts)
	res, err := c.session.Check(ctx, driver.Request{
		Target:    driver.Target{File: origin.File, Line: origin.Line, Column: origin.Column},
		Options:   cfg.explicit,
		Overrides: cfg.overrides,
		Mode:      c.mode,
	})
	if err != nil {
		span.End("error")
		return nil, err
	}
	errs := driver.Errors(res.Diagnostics)
	span.WithExtra("errors", fmt.Sprint(len(errs))).End("")
	return errs, nil
}

