package httppresentation

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/application/catalog"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/application/sales"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/observability"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/observability/logctx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

type Handler struct {
	catalog *catalog.Service
	sales   *sales.Service
	log     observability.Logger
	tel     observability.Observability

	reqCounter   observability.Counter   // http_requests_total{method,route,status}
	durHistogram observability.Histogram // http_request_duration_seconds{method,route,status}
}

const (
	componentHTTPHandler = "http_server"
	tracerName           = "ledger.http"
	headerRequestID      = "X-Request-ID"
	headerOwnerID        = "X-Owner-ID"
)

func NewHandler(catalogSvc *catalog.Service, salesSvc *sales.Service, logger observability.Logger, tel observability.Observability) *Handler {
	baseLogger := logger
	if baseLogger == nil && tel != nil {
		baseLogger = tel.Logger()
	}
	if baseLogger == nil {
		baseLogger = observability.NopLogger()
	}
	metrics := observability.NopMetrics()
	if tel != nil {
		metrics = tel.Metrics()
	}
	return &Handler{
		catalog:      catalogSvc,
		sales:        salesSvc,
		log:          baseLogger.With(observability.F("component", componentHTTPHandler)),
		tel:          tel,
		reqCounter:   metrics.Counter(observability.MHTTPRequests),
		durHistogram: metrics.Histogram(observability.MHTTPRequestDuration),
	}
}

func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	h.muxHandle(mux, http.MethodPut, "/me", h.handleRegisterPrincipal)

	h.muxHandle(mux, http.MethodGet, "/products", h.handleListProducts)
	h.muxHandle(mux, http.MethodGet, "/products/available", h.handleListAvailable)
	h.muxHandle(mux, http.MethodPost, "/products/initialize-stock", h.handleInitializeStock)
	h.muxHandle(mux, http.MethodPost, "/products/pack", h.handleCreatePack)
	h.muxHandle(mux, http.MethodPost, "/products/weight", h.handleCreateWeight)
	h.muxHandle(mux, http.MethodPut, "/products/pack/{id}", h.handleUpdatePack)
	h.muxHandle(mux, http.MethodPut, "/products/weight/{id}", h.handleUpdateWeight)
	h.muxHandle(mux, http.MethodGet, "/products/{id}", h.handleGetProduct)
	h.muxHandle(mux, http.MethodDelete, "/products/{id}", h.handleDeleteProduct)
	h.muxHandle(mux, http.MethodPost, "/products/{id}/restock", h.handleRestock)
	h.muxHandle(mux, http.MethodPost, "/products/{id}/adjust", h.handleAdjustStock)
	h.muxHandle(mux, http.MethodGet, "/products/{id}/movements", h.handleListMovements)

	h.muxHandle(mux, http.MethodPost, "/sales", h.handleCreateSale)
	h.muxHandle(mux, http.MethodGet, "/sales", h.handleListSales)
	h.muxHandle(mux, http.MethodGet, "/sales/summary", h.handleSalesSummary)
	h.muxHandle(mux, http.MethodGet, "/sales/{id}", h.handleGetSale)

	mux.HandleFunc("GET /health", h.handleHealth)
	return mux
}

// muxHandle registers handler behind Trace → request logger + metrics → access log.
func (h *Handler) muxHandle(mux *http.ServeMux, method, route string, handler http.HandlerFunc) {
	pattern := method + " " + route
	wrapped := h.withTrace(
		ObservabilityMiddleware(
			h.log,
			func(r *http.Request) string { return r.Header.Get(headerRequestID) },
			ownerID,
			h.reqCounter,
			h.durHistogram,
		)(
			h.withAccessLog(handler),
		),
	)
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		wrapped.ServeHTTP(w, r.WithContext(contextWithRoute(r.Context(), pattern)))
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// withAccessLog writes a single access log after the handler completes.
func (h *Handler) withAccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(lrw, r)

		logctx.FromOr(r.Context(), h.log).Info("http_access",
			observability.F("method", r.Method),
			observability.F("route", routeFromContext(r.Context())),
			observability.F("path", r.URL.Path),
			observability.F("status", lrw.status),
			observability.F("latency_ms", time.Since(start).Milliseconds()),
		)
	})
}

// withTrace creates a server span for the request using OTel and W3C propagation.
func (h *Handler) withTrace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tracer := otel.Tracer(tracerName)
		parentCtx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

		route := routeFromContext(parentCtx)
		ctx, span := tracer.Start(parentCtx, route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
				attribute.String("http.target", r.URL.Path),
				attribute.String("http.user_agent", r.UserAgent()),
			),
		)
		defer span.End()

		lrw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(lrw, r.WithContext(ctx))
		span.SetAttributes(attribute.Int("http.status_code", lrw.status))
	})
}

// ownerID is the authenticated principal forwarded by the gateway.
func ownerID(r *http.Request) string {
	return r.Header.Get(headerOwnerID)
}

func pageParam(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}

type routeKey struct{}

// contextWithRoute stores the stable route template in the context so downstream
// metrics/logging can rely on low-cardinality values.
func contextWithRoute(ctx context.Context, route string) context.Context {
	if route == "" {
		return ctx
	}
	return context.WithValue(ctx, routeKey{}, route)
}

func routeFromContext(ctx context.Context) string {
	if ctx == nil {
		return "unknown"
	}
	if route, ok := ctx.Value(routeKey{}).(string); ok && route != "" {
		return route
	}
	return "unknown"
}
