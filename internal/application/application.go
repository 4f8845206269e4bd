package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/outbox"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/product"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/sale"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/txn"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/user"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/validation"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/observability"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	SpanPrefix     = "UC."
	PublishPeer    = "outbox"
	PublishTimeout = 300 * time.Millisecond
)

// ErrNoPrincipal is returned when an operation is called without an owner.
var ErrNoPrincipal = errors.New("application: authenticated principal is required")

type UseCase[C any, R any] interface {
	Execute(ctx context.Context, cmd C) (R, error)
}

type IDGenerator interface {
	NewID() string
}

// StatusOf classifies an error for metrics and logs. Caller mistakes are
// "rejected"; anything else that failed is "error".
func StatusOf(err error) (outcome, status string) {
	switch {
	case err == nil:
		return "success", "OK"
	case errors.Is(err, ErrNoPrincipal):
		return "rejected", "NO_PRINCIPAL"
	case errors.Is(err, validation.ErrFailed):
		return "rejected", "VALIDATION_FAILED"
	case errors.Is(err, product.ErrNotFound), errors.Is(err, sale.ErrNotFound), errors.Is(err, user.ErrNotFound):
		return "rejected", "NOT_FOUND"
	case errors.Is(err, product.ErrDuplicateName):
		return "rejected", "DUPLICATE_NAME"
	case errors.Is(err, product.ErrNegativeStock):
		return "rejected", "NEGATIVE_STOCK"
	case errors.Is(err, product.ErrInvalidQuantity):
		return "rejected", "INVALID_QUANTITY"
	case errors.Is(err, sale.ErrProductsNotFound):
		return "rejected", "PRODUCTS_NOT_FOUND"
	case errors.Is(err, sale.ErrInsufficientStock), errors.Is(err, product.ErrInsufficientStock):
		return "rejected", "INSUFFICIENT_STOCK"
	case errors.Is(err, sale.ErrConflict):
		return "error", "SALE_NUMBER_CONFLICT"
	case errors.Is(err, txn.ErrAborted):
		return "error", "TX_ABORTED"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "error", "CONTEXT_CANCELED"
	}
	return "error", "INTERNAL"
}

// Instrumentation carries the logger, tracer and RED instruments a service
// needs to report each use case the same way.
type Instrumentation struct {
	log    observability.Logger
	tracer observability.Tracer

	reqCounter   observability.Counter   // usecase_requests_total{use_case,outcome}
	durations    *useCaseDurations       // usecase_duration_seconds{use_case}
	extCounter   observability.Counter   // external_requests_total{peer,endpoint,outcome}
	extHistogram observability.Histogram // external_request_duration_seconds{peer,endpoint}
}

// useCaseDurations binds usecase_duration_seconds once per use case name.
type useCaseDurations struct {
	mu     sync.Mutex
	vec    observability.Histogram
	byCase map[string]observability.BoundHistogram
}

func (d *useCaseDurations) of(useCase string) observability.BoundHistogram {
	if d == nil {
		return observability.NopHistogram().Bind()
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	b, ok := d.byCase[useCase]
	if !ok {
		b = d.vec.Bind(observability.L("use_case", useCase))
		d.byCase[useCase] = b
	}
	return b
}

func NewInstrumentation(service string, tel observability.Observability) Instrumentation {
	baseLog := observability.NopLogger()
	tracer := observability.NopTracer()
	metrics := observability.NopMetrics()
	if tel != nil {
		baseLog = tel.Logger()
		tracer = tel.Tracer()
		metrics = tel.Metrics()
	}
	durations := &useCaseDurations{
		vec:    metrics.Histogram(observability.MUsecaseDuration),
		byCase: make(map[string]observability.BoundHistogram),
	}
	return Instrumentation{
		log:          baseLog.With(observability.F("service", service)),
		tracer:       tracer,
		reqCounter:   metrics.Counter(observability.MUsecaseRequests),
		durations:    durations,
		extCounter:   metrics.Counter(observability.MExternalRequests),
		extHistogram: metrics.Histogram(observability.MExternalRequestDuration),
	}
}

// Logger returns the request logger when present, otherwise the service logger.
func (in Instrumentation) Logger(ctx context.Context) observability.Logger {
	return logctx.FromOr(ctx, in.log)
}

func (in Instrumentation) Tracer() observability.Tracer { return in.tracer }

// Run executes fn as useCase inside a span named SpanPrefix+spanName, then
// records RED metrics and a single use_case_done log line.
func (in Instrumentation) Run(
	ctx context.Context,
	useCase, spanName string,
	fields []observability.Field,
	fn func(ctx context.Context, span trace.Span) error,
) (err error) {
	ctx, logger := logctx.Enrich(ctx, in.log, observability.F("use_case", useCase))

	ctx, span := in.tracer.Start(ctx, SpanPrefix+spanName,
		attribute.String("use_case", useCase),
	)
	start := time.Now()

	defer func() {
		lat := time.Since(start).Seconds()
		outcome, statusText := StatusOf(err)
		in.Finish(ctx, span, useCase, outcome, statusText, lat, err)

		all := append([]observability.Field{
			observability.F("outcome", outcome),
			observability.F("status", statusText),
			observability.F("latency_seconds", lat),
		}, fields...)
		all = append(all, TraceFields(ctx)...)
		if err != nil {
			all = append(all, observability.F("error", err.Error()))
		}
		logger.Info("use_case_done", all...)
	}()

	return fn(ctx, span)
}

// Finish ends span and records the RED metrics of one use case run.
func (in Instrumentation) Finish(ctx context.Context, span trace.Span, useCase, outcome, statusText string, latencySeconds float64, err error) {
	if span != nil {
		if outcome == "error" {
			span.RecordError(err)
			span.SetStatus(codes.Error, statusText)
		} else {
			if err != nil {
				span.AddEvent("rejected", trace.WithAttributes(attribute.String("status", statusText)))
			}
			span.SetStatus(codes.Ok, statusText)
		}
		span.End()
	}
	in.reqCounter.Add(1,
		observability.L("use_case", useCase),
		observability.L("outcome", outcome),
	)
	in.durations.of(useCase).Observe(latencySeconds)
}

// Publish hands e to publisher with a short timeout. Failures are logged and
// returned but never undo what the caller committed.
func (in Instrumentation) Publish(ctx context.Context, publisher outbox.Publisher, e outbox.Event) error {
	if publisher == nil || e == nil {
		return nil
	}
	endpoint := e.EventName()

	pubCtx, cancel := context.WithTimeout(ctx, PublishTimeout)
	start := time.Now()
	err := publisher.Publish(pubCtx, e)
	outcome := "success"
	if err != nil {
		outcome = "error"
	} else if pubCtx.Err() != nil {
		outcome = "canceled"
		err = pubCtx.Err()
	}
	cancel()

	in.extCounter.Add(1,
		observability.L("peer", PublishPeer),
		observability.L("endpoint", endpoint),
		observability.L("outcome", outcome),
	)
	in.extHistogram.Observe(time.Since(start).Seconds(),
		observability.L("peer", PublishPeer),
		observability.L("endpoint", endpoint),
	)

	if err != nil {
		in.Logger(ctx).Warn("event_publish_failed",
			observability.F("event", endpoint),
			observability.F("error", err.Error()),
		)
	}
	return err
}

// TraceFields returns trace_id and span_id of the current span, if any.
func TraceFields(ctx context.Context) []observability.Field {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return []observability.Field{
		observability.F("trace_id", sc.TraceID().String()),
		observability.F("span_id", sc.SpanID().String()),
	}
}
