package logctx

import (
	"context"
	"testing"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fieldLogger struct {
	observability.Logger
	fields []observability.Field
}

func (l *fieldLogger) With(fs ...observability.Field) observability.Logger {
	return &fieldLogger{Logger: l.Logger, fields: append(append([]observability.Field{}, l.fields...), fs...)}
}

func TestFromOrFallsBack(t *testing.T) {
	assert.Nil(t, From(context.Background()))
	assert.NotNil(t, FromOr(context.Background(), nil))

	base := &fieldLogger{Logger: observability.NopLogger()}
	assert.Same(t, base, FromOr(context.Background(), base))

	ctx := With(context.Background(), base)
	assert.Same(t, base, FromOr(ctx, observability.NopLogger()))
	assert.Equal(t, ctx, With(ctx, nil))
}

func TestEnrichStacksFields(t *testing.T) {
	base := &fieldLogger{Logger: observability.NopLogger()}

	ctx, _ := Enrich(context.Background(), base, observability.F("request_id", "req-1"))
	ctx, logger := Enrich(ctx, nil, observability.F("owner_id", "owner-1"))

	got, ok := From(ctx).(*fieldLogger)
	require.True(t, ok)
	assert.Same(t, logger, From(ctx))
	assert.Equal(t, []observability.Field{
		observability.F("request_id", "req-1"),
		observability.F("owner_id", "owner-1"),
	}, got.fields)
}
