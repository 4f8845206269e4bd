package zaplogger

import (
	"errors"
	"testing"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerForwardsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := Wrap(zap.New(core)).With(observability.F("owner_id", "u-1"))

	l.Info("use_case_done",
		observability.F("outcome", "success"),
		observability.F("error", errors.New("boom")),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "use_case_done", entry.Message)
	ctx := entry.ContextMap()
	assert.Equal(t, "u-1", ctx["owner_id"])
	assert.Equal(t, "success", ctx["outcome"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestWrapNilFallsBackToNop(t *testing.T) {
	l := Wrap(nil)
	assert.NotPanics(t, func() { l.Warn("ignored") })
}
