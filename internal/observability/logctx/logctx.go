// Package logctx carries the request or event logger through a context so
// every log line of one operation shares its request_id, owner_id and trace.
package logctx

import (
	"context"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/observability"
)

type key struct{}

// With returns ctx carrying logger. A nil logger leaves ctx as is.
func With(ctx context.Context, logger observability.Logger) context.Context {
	if ctx == nil || logger == nil {
		return ctx
	}
	return context.WithValue(ctx, key{}, logger)
}

// From returns the logger carried by ctx, or nil.
func From(ctx context.Context) observability.Logger {
	if ctx == nil {
		return nil
	}
	logger, _ := ctx.Value(key{}).(observability.Logger)
	return logger
}

func FromOr(ctx context.Context, fallback observability.Logger) observability.Logger {
	if logger := From(ctx); logger != nil {
		return logger
	}
	if fallback == nil {
		return observability.NopLogger()
	}
	return fallback
}

// Enrich adds fields to the logger in ctx (or fallback) and stores the result
// back, so callees log with the same fields.
func Enrich(ctx context.Context, fallback observability.Logger, fields ...observability.Field) (context.Context, observability.Logger) {
	logger := FromOr(ctx, fallback)
	if len(fields) > 0 {
		logger = logger.With(fields...)
	}
	return With(ctx, logger), logger
}
