package oteltrace

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultName is the instrumentation scope used when New gets no name.
const DefaultName = "ledger"

// Tracer starts internal spans for use cases on the global provider set up
// by InitProvider. Server spans are started by the HTTP layer.
type Tracer struct {
	t trace.Tracer
}

func New(name, version string) *Tracer {
	if name == "" {
		name = DefaultName
	}
	return &Tracer{t: otel.Tracer(name, trace.WithInstrumentationVersion(version))}
}

func (t *Tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.t.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}
