package driver

import (
	"context"
	"fmt"

	"github.com/vovakirdan/inlinecheck/internal/diag"
	"github.com/vovakirdan/inlinecheck/internal/options"
	"github.com/vovakirdan/inlinecheck/internal/snippet"
	"github.com/vovakirdan/inlinecheck/internal/source"
	"github.com/vovakirdan/inlinecheck/internal/trace"
)

// Collector type-checks units through a ProgramCache and keeps only the
// diagnostics that fall inside the unit's span.
type Collector struct {
	Cache *ProgramCache
}

// NewCollector creates a collector owning a fresh cache.
func NewCollector(cache *ProgramCache) *Collector {
	return &Collector{Cache: cache}
}

// Collect returns every diagnostic of unit's program that starts and ends
// inside unit.Span of unit.Path, in encounter order. The unused and
// missing-return checks are always switched off.
func (c *Collector) Collect(ctx context.Context, unit snippet.Unit, opts options.Options) ([]diag.Diagnostic, error) {
	opts = opts.WithCheckOverrides()

	prog, err := c.Cache.GetOverlay(ctx, unit.Path, opts, unit.Overlay)
	if err != nil {
		return nil, fmt.Errorf("type-checking %s: %w", unit.Origin, err)
	}

	_, span := trace.BeginCtx(ctx, trace.ScopePass, "filter")
	all := prog.Diagnostics()
	kept := Filter(all, unit.Path, unit.Span)
	span.WithExtra("total", fmt.Sprint(len(all))).WithExtra("kept", fmt.Sprint(len(kept))).End("")
	return kept, nil
}

// Filter keeps diagnostics of file whose range lies inside span.
func Filter(diags []diag.Diagnostic, file string, span source.Span) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range diags {
		if source.SamePath(d.File, file) && span.Contains(d.Start, d.Length) {
			out = append(out, d)
		}
	}
	return out
}

// Errors keeps only error-category diagnostics.
func Errors(diags []diag.Diagnostic) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range diags {
		if d.Category == diag.CatError {
			out = append(out, d)
		}
	}
	return out
}
