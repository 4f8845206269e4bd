package observability

import (
	"sync"
	"testing"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/observability"
	"github.com/stretchr/testify/assert"
)

type warnLogger struct {
	observability.Logger
	mu    sync.Mutex
	warns []observability.Field
}

func (l *warnLogger) Warn(msg string, fields ...observability.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if msg == "metric_not_registered" {
		l.warns = append(l.warns, fields...)
	}
}

type stubCounter struct {
	observability.Counter
	added float64
}

func (c *stubCounter) Add(d float64, _ ...observability.Label) { c.added += d }

func TestNewFallsBackToNop(t *testing.T) {
	tel := New(nil, nil, nil, nil)

	assert.NotNil(t, tel.Tracer())
	assert.NotNil(t, tel.Logger())
	assert.NotPanics(t, func() {
		tel.Metrics().Counter(observability.MStockAlerts).Add(1)
		tel.Metrics().Histogram(observability.MUsecaseDuration).Observe(0.1)
	})
}

func TestNewResolvesRegisteredInstruments(t *testing.T) {
	alerts := &stubCounter{}
	log := &warnLogger{Logger: observability.NopLogger()}

	tel := New(nil, log, map[observability.MetricKey]observability.Counter{
		observability.MStockAlerts: alerts,
	}, nil)
	tel.Metrics().Counter(observability.MStockAlerts).Add(2)

	assert.Equal(t, 2.0, alerts.added)
	assert.Same(t, log, tel.Logger())
	assert.Len(t, log.warns, len(observability.CounterKeys)+len(observability.HistogramKeys)-1)
	assert.NotContains(t, log.warns, observability.F("metric", string(observability.MStockAlerts)))
	assert.Contains(t, log.warns, observability.F("metric", string(observability.MUsecaseRequests)))
}
