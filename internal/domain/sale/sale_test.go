package sale

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlowHappyPath(t *testing.T) {
	f := NewFlow()
	for _, s := range []Stage{StageValidated, StageResolved, StagePriced, StageStockChecked, StageCommitted} {
		require.NoError(t, f.Advance(s))
		assert.Equal(t, s, f.Stage())
	}
	assert.True(t, f.Terminal())
	assert.ErrorIs(t, f.Reject(errors.New("late")), ErrInvalidTransition)
	assert.Equal(t, StageCommitted, f.Stage())
}

func TestFlowRejectsSkippedStage(t *testing.T) {
	f := NewFlow()
	assert.ErrorIs(t, f.Advance(StagePriced), ErrInvalidTransition)
	assert.Equal(t, StageReceived, f.Stage())
}

func TestFlowReject(t *testing.T) {
	f := NewFlow()
	require.NoError(t, f.Advance(StageValidated))

	reason := ErrProductsNotFound
	require.NoError(t, f.Reject(reason))
	assert.Equal(t, StageRejected, f.Stage())
	assert.ErrorIs(t, f.Reason(), ErrProductsNotFound)
	assert.ErrorIs(t, f.Advance(StageResolved), ErrInvalidTransition)
}

func TestInsufficientStockErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("wrap: %w", &InsufficientStockError{Shortages: []Shortage{{
		Index:     0,
		ProductID: "p-1",
		Available: decimal.NewFromInt(10),
		Requested: decimal.NewFromInt(12),
	}}})

	assert.ErrorIs(t, err, ErrInsufficientStock)
	var target *InsufficientStockError
	require.ErrorAs(t, err, &target)
	assert.Len(t, target.Shortages, 1)
	assert.Contains(t, err.Error(), "available 10 requested 12")
}

func TestRangeContains(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	r := Range{From: &from, To: &to}

	assert.True(t, r.Contains(from))
	assert.True(t, r.Contains(to))
	assert.False(t, r.Contains(from.Add(-time.Second)))
	assert.False(t, r.Contains(to.Add(time.Second)))
	assert.True(t, Range{}.Contains(time.Now()))
}

func TestCloneCopiesLines(t *testing.T) {
	s := &Sale{ID: "s-1", Lines: []Line{{ID: "l-1"}}}
	cp := s.Clone()
	cp.Lines[0].ID = "changed"
	assert.Equal(t, "l-1", s.Lines[0].ID)
}
