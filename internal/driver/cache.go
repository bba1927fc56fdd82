package driver

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/vovakirdan/inlinecheck/internal/directive"
	"github.com/vovakirdan/inlinecheck/internal/gocheck"
	"github.com/vovakirdan/inlinecheck/internal/options"
	"github.com/vovakirdan/inlinecheck/internal/source"
	"github.com/vovakirdan/inlinecheck/internal/trace"
)

// per-process cache: one program per root path
type cached struct {
	opts options.Options
	prog *gocheck.Program
}

// ProgramCache keeps one built program per root file and rebuilds it only
// when the requested options are not equivalent to the cached ones.
// Safe for concurrent use.
type ProgramCache struct {
	compiler gocheck.Compiler
	hook     gocheck.SourceHook

	mu     sync.Mutex
	byPath map[string]cached // key: cleaned slash path
	group  singleflight.Group
	builds atomic.Int64
}

// CacheOption configures a ProgramCache.
type CacheOption func(*ProgramCache)

// WithSourceHook replaces the default loader hook (directive.Neutralize).
// A nil hook leaves every file as written, so ignore directives stay live.
func WithSourceHook(h gocheck.SourceHook) CacheOption {
	return func(c *ProgramCache) { c.hook = h }
}

// NewProgramCache creates a cache building programs with compiler.
func NewProgramCache(compiler gocheck.Compiler, opts ...CacheOption) *ProgramCache {
	c := &ProgramCache{
		compiler: compiler,
		hook:     neutralizeHook,
		byPath:   make(map[string]cached),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func neutralizeHook(_ string, src []byte) []byte {
	return directive.Neutralize(src)
}

// Get returns the program for path built with options equivalent to opts.
func (c *ProgramCache) Get(ctx context.Context, path string, opts options.Options) (*gocheck.Program, error) {
	return c.GetOverlay(ctx, path, opts, nil)
}

// GetOverlay is Get for roots that live (partly) in an overlay. The overlay
// is only consulted when a build happens.
func (c *ProgramCache) GetOverlay(ctx context.Context, path string, opts options.Options, overlay map[string][]byte) (*gocheck.Program, error) {
	key := source.NormalizePath(path)
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID

	if prog, ok := c.lookup(key, opts); ok {
		trace.Point(tracer, trace.ScopeCheck, "cache", parent, "hit", map[string]string{"path": key})
		return prog, nil
	}

	v, err, shared := c.group.Do(key+"\x00"+opts.Fingerprint(), func() (any, error) {
		return c.load(ctx, key, path, opts, overlay)
	})
	if err != nil {
		return nil, err
	}
	res := v.(loaded)
	detail := "miss"
	switch {
	case res.hit:
		detail = "hit"
	case shared:
		detail = "shared"
	}
	trace.Point(tracer, trace.ScopeCheck, "cache", parent, detail, map[string]string{"path": key})
	return res.prog, nil
}

// loaded is what a singleflight call yields; hit means no build was needed.
type loaded struct {
	prog *gocheck.Program
	hit  bool
}

func (c *ProgramCache) load(ctx context.Context, key, path string, opts options.Options, overlay map[string][]byte) (loaded, error) {
	// a concurrent caller may have stored it between lookup and Do
	if prog, ok := c.lookup(key, opts); ok {
		return loaded{prog: prog, hit: true}, nil
	}
	tracer := trace.FromContext(ctx)
	buildCtx, span := trace.BeginCtx(ctx, trace.ScopePass, "build")
	span.WithExtra("path", key).WithExtra("options", opts.String())
	c.builds.Add(1)
	prog, err := c.compiler.Build(buildCtx, gocheck.BuildRequest{
		Root:    path,
		Options: opts.Clone(),
		Overlay: overlay,
		Hook:    c.hook,
	})
	if err != nil {
		span.End("error")
		return loaded{}, err
	}
	span.End("")

	c.mu.Lock()
	prev, replaced := c.byPath[key]
	c.byPath[key] = cached{opts: opts.Clone(), prog: prog}
	c.mu.Unlock()
	if replaced {
		trace.Point(tracer, trace.ScopeCheck, "cache", trace.CurrentSpan(ctx).SpanID, "replace", map[string]string{
			"path": key,
			"was":  prev.opts.String(),
		})
	}
	return loaded{prog: prog}, nil
}

func (c *ProgramCache) lookup(key string, opts options.Options) (*gocheck.Program, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.byPath[key]
	if !ok || !rec.opts.Equal(opts) {
		return nil, false
	}
	return rec.prog, true
}

// Len returns the number of cached programs, i.e. distinct root paths.
func (c *ProgramCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byPath)
}

// Builds returns how many times the compiler was invoked.
func (c *ProgramCache) Builds() int64 {
	return c.builds.Load()
}

// Clear drops every cached program.
func (c *ProgramCache) Clear() {
	c.mu.Lock()
	c.byPath = make(map[string]cached)
	c.mu.Unlock()
}
