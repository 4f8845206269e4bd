// Package observability assembles the tracer, logger and metric instruments
// built at startup into the observability.Observability handed to services.
package observability

import (
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/observability"
)

type bundle struct {
	tracer  observability.Tracer
	logger  observability.Logger
	metrics instruments
}

func (b *bundle) Tracer() observability.Tracer   { return b.tracer }
func (b *bundle) Logger() observability.Logger   { return b.logger }
func (b *bundle) Metrics() observability.Metrics { return b.metrics }

// instruments resolves metric keys to registered instruments. Keys with no
// instrument get nop ones.
type instruments struct {
	counters   map[observability.MetricKey]observability.Counter
	histograms map[observability.MetricKey]observability.Histogram
}

func (m instruments) Counter(key observability.MetricKey) observability.Counter {
	if c := m.counters[key]; c != nil {
		return c
	}
	return observability.NopCounter()
}

func (m instruments) Histogram(key observability.MetricKey) observability.Histogram {
	if h := m.histograms[key]; h != nil {
		return h
	}
	return observability.NopHistogram()
}

// New bundles tracer, logger and instruments. Nil parts fall back to nop
// implementations. When any instrument is supplied, every ledger metric key
// left without one is reported once as metric_not_registered.
func New(
	tracer observability.Tracer,
	logger observability.Logger,
	counters map[observability.MetricKey]observability.Counter,
	histograms map[observability.MetricKey]observability.Histogram,
) observability.Observability {
	if tracer == nil {
		tracer = observability.NopTracer()
	}
	if logger == nil {
		logger = observability.NopLogger()
	}
	m := instruments{counters: counters, histograms: histograms}

	if len(counters)+len(histograms) > 0 {
		for _, k := range missing(m) {
			logger.Warn("metric_not_registered", observability.F("metric", string(k)))
		}
	}
	return &bundle{tracer: tracer, logger: logger, metrics: m}
}

// missing returns the ledger metric keys m has no instrument for.
func missing(m instruments) []observability.MetricKey {
	var out []observability.MetricKey
	for _, k := range observability.CounterKeys {
		if m.counters[k] == nil {
			out = append(out, k)
		}
	}
	for _, k := range observability.HistogramKeys {
		if m.histograms[k] == nil {
			out = append(out, k)
		}
	}
	return out
}
