package workerpresentation

import (
	"context"
	"time"

	domoutbox "github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/outbox"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/observability"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/observability/logctx"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// WithEventContext scopes base (or the logger already in ctx) to one delivery
// of e: event, event_id, owner_id, the delay since the event was committed and
// the current trace, if any.
func WithEventContext(ctx context.Context, base observability.Logger, e domoutbox.Event) context.Context {
	fields := []observability.Field{
		observability.F("event", e.EventName()),
		observability.F("event_id", uuid.NewString()),
	}
	if owner := e.EventOwner(); owner != "" {
		fields = append(fields, observability.F("owner_id", owner))
	}
	if at := e.EventTime(); !at.IsZero() {
		fields = append(fields, observability.F("event_delay_seconds", time.Since(at).Seconds()))
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			observability.F("trace_id", sc.TraceID().String()),
			observability.F("span_id", sc.SpanID().String()),
		)
	}
	if base == nil {
		base = logctx.FromOr(ctx, nil)
	}
	return logctx.With(ctx, base.With(fields...))
}
