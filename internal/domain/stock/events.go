package stock

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustedEvent is emitted after a restock, adjustment or initialization commits.
type AdjustedEvent struct {
	OwnerID       string
	ProductID     string
	ProductName   string
	Reason        string
	PreviousStock decimal.Decimal
	NewStock      decimal.Decimal
	OccurredAt    time.Time
}

// EventAdjusted names AdjustedEvent on the bus.
const EventAdjusted = "stock.adjusted"

func (AdjustedEvent) EventName() string      { return EventAdjusted }
func (e AdjustedEvent) EventOwner() string   { return e.OwnerID }
func (e AdjustedEvent) EventTime() time.Time { return e.OccurredAt }

func NewAdjustedEvent(m *Movement, productName string) AdjustedEvent {
	return AdjustedEvent{
		OwnerID:       m.OwnerID,
		ProductID:     m.ProductID,
		ProductName:   productName,
		Reason:        m.Reason,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		OccurredAt:    time.Now().UTC(),
	}
}
