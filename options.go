package inlinecheck

import (
	"context"
	"io"

	"github.com/vovakirdan/inlinecheck/internal/gocheck"
	"github.com/vovakirdan/inlinecheck/internal/options"
	"github.com/vovakirdan/inlinecheck/internal/trace"
)

// Options is the effective build configuration a snippet is checked under.
type Options = options.Options

// Tracer receives trace events of every check.
type Tracer = trace.Tracer

// Option adjusts one Infer or Diagnose call.
type Option func(*callConfig)

type callConfig struct {
	explicit  *options.Options
	overrides options.Options
}

func newCallConfig(opts []Option) callConfig {
	var cfg callConfig
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// WithOptions checks under exactly o; inlinecheck.toml is not consulted and
// the other per-call options are ignored.
func WithOptions(o Options) Option {
	return func(c *callConfig) {
		cp := o.Clone()
		c.explicit = &cp
	}
}

// WithTags adds build tags.
func WithTags(tags ...string) Option {
	return func(c *callConfig) {
		c.overrides.Tags = append(c.overrides.Tags, tags...)
	}
}

// WithGOOS sets the target operating system.
func WithGOOS(goos string) Option {
	return func(c *callConfig) { c.overrides.GOOS = goos }
}

// WithGOARCH sets the target architecture.
func WithGOARCH(goarch string) Option {
	return func(c *callConfig) { c.overrides.GOARCH = goarch }
}

// WithCgo sets CGO_ENABLED.
func WithCgo(enabled bool) Option {
	return func(c *callConfig) { c.overrides.CgoEnabled = options.Bool(enabled) }
}

// WithEnv adds an environment variable for the go command.
func WithEnv(key, value string) Option {
	return func(c *callConfig) {
		if c.overrides.Env == nil {
			c.overrides.Env = make(map[string]string)
		}
		c.overrides.Env[key] = value
	}
}

// CheckerOption configures a Checker.
type CheckerOption func(*checkerConfig)

type checkerConfig struct {
	ctx      context.Context
	tracer   trace.Tracer
	compiler gocheck.Compiler
	snippet  bool
}

// WithTracer sends trace events to t.
func WithTracer(t Tracer) CheckerOption {
	return func(c *checkerConfig) { c.tracer = t }
}

// WithTraceOutput writes a text trace of pass boundaries to w.
func WithTraceOutput(w io.Writer) CheckerOption {
	return WithTracer(trace.NewStreamTracer(w, trace.LevelDetail, trace.FormatText))
}

// WithCompiler replaces the go/packages based type-checker.
func WithCompiler(c gocheck.Compiler) CheckerOption {
	return func(cfg *checkerConfig) { cfg.compiler = c }
}

// WithSnippetMode checks a synthetic file holding only the snippet's function
// literal (plus the package clause and imports) instead of the whole test
// file. The literal may not refer to locals of the enclosing test.
func WithSnippetMode(enabled bool) CheckerOption {
	return func(c *checkerConfig) { c.snippet = enabled }
}

// WithContext sets the context package loading runs under.
func WithContext(ctx context.Context) CheckerOption {
	return func(c *checkerConfig) { c.ctx = ctx }
}
