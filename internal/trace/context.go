package trace

import "context"

type (
	tracerKey  struct{}
	spanCtxKey struct{}
)

// SpanContext identifies the span a context runs under: the driver span of
// a check, the pass span of a program build, or nothing.
type SpanContext struct {
	SpanID uint64
	GID    uint64
}

// FromContext returns the tracer the CLI or a test attached to ctx, or Nop.
// Library callers that never attach one pay nothing for the cache and build
// events emitted along the way.
func FromContext(ctx context.Context) Tracer {
	if ctx != nil {
		if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
			return t
		}
	}
	return Nop
}

// WithTracer returns ctx carrying t; a nil t detaches tracing.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// CurrentSpan returns the span started by the nearest BeginCtx up the
// context chain. Cache events use its ID as their parent.
func CurrentSpan(ctx context.Context) SpanContext {
	if ctx != nil {
		if sc, ok := ctx.Value(spanCtxKey{}).(SpanContext); ok {
			return sc
		}
	}
	return SpanContext{}
}

// WithSpanContext returns ctx carrying sc.
func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	if ctx == nil {
		return nil
	}
	return context.WithValue(ctx, spanCtxKey{}, sc)
}
