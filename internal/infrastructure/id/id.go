package id

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// UUIDGenerator issues random version 4 identifiers.
type UUIDGenerator struct{}

func NewUUIDGenerator() UUIDGenerator { return UUIDGenerator{} }

func (UUIDGenerator) NewID() string { return uuid.NewString() }

// SaleNumberGenerator issues display numbers of the form SALE-<unix millis>-<3 digits>.
// Two sales in the same millisecond collide with probability 1/1000; the
// store's unique constraint rejects such a collision.
type SaleNumberGenerator struct {
	now func() time.Time
}

func NewSaleNumberGenerator() SaleNumberGenerator {
	return SaleNumberGenerator{now: time.Now}
}

func (g SaleNumberGenerator) NewSaleNumber() string {
	now := time.Now
	if g.now != nil {
		now = g.now
	}
	return fmt.Sprintf("SALE-%d-%03d", now().UnixMilli(), rand.IntN(1000))
}
