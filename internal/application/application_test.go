package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/product"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/sale"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/txn"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/validation"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/observability"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/observability/logctx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

type durationRecorder struct {
	mu       sync.Mutex
	binds    []string
	observed map[string]int
}

func (r *durationRecorder) Observe(float64, ...observability.Label) {}

func (r *durationRecorder) Bind(labels ...observability.Label) observability.BoundHistogram {
	r.mu.Lock()
	defer r.mu.Unlock()
	useCase := labels[0].Value
	r.binds = append(r.binds, useCase)
	return boundDuration{r: r, useCase: useCase}
}

type boundDuration struct {
	r       *durationRecorder
	useCase string
}

func (b boundDuration) Observe(float64) {
	b.r.mu.Lock()
	defer b.r.mu.Unlock()
	b.r.observed[b.useCase]++
}

type recordingMetrics struct{ durations *durationRecorder }

func (m recordingMetrics) Counter(observability.MetricKey) observability.Counter {
	return observability.NopCounter()
}

func (m recordingMetrics) Histogram(key observability.MetricKey) observability.Histogram {
	if key == observability.MUsecaseDuration {
		return m.durations
	}
	return observability.NopHistogram()
}

type recordingTel struct {
	metrics observability.Metrics
	log     *doneLogger
}

func (t recordingTel) Tracer() observability.Tracer   { return observability.NopTracer() }
func (t recordingTel) Logger() observability.Logger   { return t.log }
func (t recordingTel) Metrics() observability.Metrics { return t.metrics }

type doneLogger struct {
	observability.Logger
	mu   sync.Mutex
	done int
}

func (l *doneLogger) With(...observability.Field) observability.Logger { return l }

func (l *doneLogger) Info(msg string, _ ...observability.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if msg == "use_case_done" {
		l.done++
	}
}

func TestRunBindsDurationOncePerUseCase(t *testing.T) {
	durations := &durationRecorder{observed: map[string]int{}}
	log := &doneLogger{Logger: observability.NopLogger()}
	ins := NewInstrumentation("test-service", recordingTel{metrics: recordingMetrics{durations: durations}, log: log})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ins.Run(context.Background(), "catalog.get", "GetProduct", nil, func(context.Context, trace.Span) error { return nil })
		}()
	}
	wg.Wait()
	err := ins.Run(context.Background(), "catalog.list", "ListProducts", nil, func(context.Context, trace.Span) error {
		return product.ErrNotFound
	})
	require.ErrorIs(t, err, product.ErrNotFound)

	assert.ElementsMatch(t, []string{"catalog.get", "catalog.list"}, durations.binds)
	assert.Equal(t, map[string]int{"catalog.get": 4, "catalog.list": 1}, durations.observed)
	assert.Equal(t, 5, log.done)
}

func TestRunHandsScopedLoggerToUseCase(t *testing.T) {
	ins := NewInstrumentation("test-service", nil)
	var got observability.Logger
	_ = ins.Run(context.Background(), "catalog.get", "GetProduct", nil, func(ctx context.Context, _ trace.Span) error {
		got = logctx.From(ctx)
		return nil
	})
	assert.NotNil(t, got)
}

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err     error
		outcome string
		status  string
	}{
		{nil, "success", "OK"},
		{ErrNoPrincipal, "rejected", "NO_PRINCIPAL"},
		{&validation.Error{Fields: map[string]string{"name": "is required"}}, "rejected", "VALIDATION_FAILED"},
		{fmt.Errorf("catalog: get product: %w", product.ErrNotFound), "rejected", "NOT_FOUND"},
		{&sale.InsufficientStockError{}, "rejected", "INSUFFICIENT_STOCK"},
		{sale.ErrProductsNotFound, "rejected", "PRODUCTS_NOT_FOUND"},
		{txn.ErrAborted, "error", "TX_ABORTED"},
		{context.Canceled, "error", "CONTEXT_CANCELED"},
		{errors.New("boom"), "error", "INTERNAL"},
	}
	for _, tc := range cases {
		outcome, status := StatusOf(tc.err)
		assert.Equal(t, tc.outcome, outcome, "%v", tc.err)
		assert.Equal(t, tc.status, status, "%v", tc.err)
	}
}
