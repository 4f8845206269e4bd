package logging

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerHonoursLevelAndFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "ledger.log")

	l, err := NewLogger(Options{Service: "ledger", Env: "test", Level: "warn", File: file})
	require.NoError(t, err)
	defer func() { _ = l.Sync() }()

	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
	assert.FileExists(t, file)
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := NewLogger(Options{Service: "ledger", Level: "loud"})
	assert.Error(t, err)
}

func TestWithTraceDefaultsUnknown(t *testing.T) {
	assert.NotPanics(t, func() {
		WithTrace(zap.NewNop(), "", "").Info("x")
	})
}
