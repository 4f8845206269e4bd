package sale

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineStock is the stock a product was left with after a sale line.
type LineStock struct {
	ProductID      string
	ProductName    string
	Quantity       decimal.Decimal
	RemainingStock decimal.Decimal
}

// RecordedEvent is emitted after a sale commits.
type RecordedEvent struct {
	SaleID      string
	SaleNumber  string
	OwnerID     string
	TotalAmount decimal.Decimal
	Lines       []LineStock
	OccurredAt  time.Time
}

// EventRecorded names RecordedEvent on the bus.
const EventRecorded = "sale.recorded"

func (RecordedEvent) EventName() string      { return EventRecorded }
func (e RecordedEvent) EventOwner() string   { return e.OwnerID }
func (e RecordedEvent) EventTime() time.Time { return e.OccurredAt }

func NewRecordedEvent(s *Sale, lines []LineStock) RecordedEvent {
	return RecordedEvent{
		SaleID:      s.ID,
		SaleNumber:  s.SaleNumber,
		OwnerID:     s.OwnerID,
		TotalAmount: s.TotalAmount,
		Lines:       lines,
		OccurredAt:  time.Now().UTC(),
	}
}
