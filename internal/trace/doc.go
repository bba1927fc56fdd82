// Package trace records what a check did and how long each step took.
//
// Every Diagnose call opens a driver span; resolving the call site, extracting
// the block, building or reusing the program and filtering diagnostics each
// open a pass span beneath it. Cache hits and misses are point events.
//
// # Usage
//
//	blockcheck diag --trace=- --trace-level=phase foo_test.go:42
//
// or, from a test:
//
//	c := inlinecheck.New(inlinecheck.WithTracer(trace.NewStreamTracer(os.Stderr, trace.LevelDetail, trace.FormatText)))
//
// # Implementations
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes each event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events for post-mortem dumps
//   - MultiTracer: fans events out to several tracers
//
// # Levels and scopes
//
// LevelPhase emits driver and pass events, LevelDetail adds check-scoped
// events (cache decisions, per-package loading), LevelDebug emits everything.
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "extract", parentID)
//	defer span.End("")
package trace
