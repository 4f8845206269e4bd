package sale

import "errors"

var ErrInvalidTransition = errors.New("sale: invalid stage transition")

// Stage is a step of sale processing. Only Committed and Rejected are terminal.
type Stage string

const (
	StageReceived     Stage = "RECEIVED"
	StageValidated    Stage = "VALIDATED"
	StageResolved     Stage = "RESOLVED"
	StagePriced       Stage = "PRICED"
	StageStockChecked Stage = "STOCK_CHECKED"
	StageCommitted    Stage = "COMMITTED"
	StageRejected     Stage = "REJECTED"
)

var next = map[Stage]Stage{
	StageReceived:     StageValidated,
	StageValidated:    StageResolved,
	StageResolved:     StagePriced,
	StagePriced:       StageStockChecked,
	StageStockChecked: StageCommitted,
}

// Flow tracks one request through the stages. It is not safe for concurrent use.
type Flow struct {
	stage  Stage
	reason error
}

func NewFlow() *Flow {
	return &Flow{stage: StageReceived}
}

func (f *Flow) Stage() Stage { return f.stage }

// Reason is the error that rejected the flow, if any.
func (f *Flow) Reason() error { return f.reason }

func (f *Flow) Terminal() bool {
	return f.stage == StageCommitted || f.stage == StageRejected
}

// Advance moves to the stage directly after the current one.
func (f *Flow) Advance(to Stage) error {
	if n, ok := next[f.stage]; !ok || n != to {
		return ErrInvalidTransition
	}
	f.stage = to
	return nil
}

// Reject ends the flow with reason. A committed flow cannot be rejected.
func (f *Flow) Reject(reason error) error {
	if f.Terminal() {
		return ErrInvalidTransition
	}
	f.stage = StageRejected
	f.reason = reason
	return nil
}
