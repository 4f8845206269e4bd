package stock

import (
	"time"

	"github.com/shopspring/decimal"
)

type MovementType string

const (
	MovementIn  MovementType = "IN"
	MovementOut MovementType = "OUT"
)

const (
	ReasonRestock    = "RESTOCK"
	ReasonAdjustment = "ADJUSTMENT"
	ReasonSale       = "SALE"
	ReasonInitial    = "INITIAL"
)

// Movement is one immutable entry of a product's stock history.
type Movement struct {
	ID            string
	ProductID     string
	OwnerID       string
	Type          MovementType
	Quantity      decimal.Decimal
	PreviousStock decimal.Decimal
	NewStock      decimal.Decimal
	Reason        string
	Notes         string
	CreatedAt     time.Time

	// ActorName is filled on read from the principal's profile.
	ActorName string
}

// NewMovement records the change from previous to next. The type follows the
// sign of the delta and Quantity is its magnitude; a zero delta is an IN of 0.
func NewMovement(id, ownerID, productID string, previous, next decimal.Decimal, reason, notes string) *Movement {
	delta := next.Sub(previous)
	typ := MovementIn
	if delta.IsNegative() {
		typ = MovementOut
	}
	return &Movement{
		ID:            id,
		ProductID:     productID,
		OwnerID:       ownerID,
		Type:          typ,
		Quantity:      delta.Abs(),
		PreviousStock: previous,
		NewStock:      next,
		Reason:        reason,
		Notes:         notes,
		CreatedAt:     time.Now().UTC(),
	}
}

func (m *Movement) Clone() *Movement {
	if m == nil {
		return nil
	}
	cp := *m
	return &cp
}
