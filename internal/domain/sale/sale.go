package sale

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/product"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("sale: not found")
	ErrProductsNotFound  = errors.New("sale: products not found")
	ErrInsufficientStock = errors.New("sale: insufficient stock")
	ErrConflict          = errors.New("sale: sale number already exists")
)

type Status string

const StatusCompleted Status = "COMPLETED"

type Line struct {
	ID          string
	ProductID   string
	ProductName string
	ProductKind product.Kind
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}

type Sale struct {
	ID          string
	OwnerID     string
	SaleNumber  string
	TotalAmount decimal.Decimal
	TotalItems  decimal.Decimal
	Status      Status
	Notes       string
	Lines       []Line
	CreatedAt   time.Time
}

func (s *Sale) Clone() *Sale {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Lines = append([]Line(nil), s.Lines...)
	return &cp
}

// Summary aggregates the owner's sales within a Range.
type Summary struct {
	TotalSales     int
	TotalRevenue   decimal.Decimal
	TotalItemsSold decimal.Decimal
	AverageSale    decimal.Decimal
}

// Range bounds sales by creation time; nil ends are open and both ends are inclusive.
type Range struct {
	From *time.Time
	To   *time.Time
}

func (r Range) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && t.After(*r.To) {
		return false
	}
	return true
}

// Shortage is one line that asked for more than the product has on hand.
type Shortage struct {
	Index       int
	ProductID   string
	ProductName string
	Available   decimal.Decimal
	Requested   decimal.Decimal
}

// InsufficientStockError lists every short line. It matches ErrInsufficientStock.
type InsufficientStockError struct {
	Shortages []Shortage
}

func (e *InsufficientStockError) Error() string {
	if len(e.Shortages) == 0 {
		return ErrInsufficientStock.Error()
	}
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("%s available %s requested %s", s.ProductID, s.Available, s.Requested))
	}
	return ErrInsufficientStock.Error() + ": " + strings.Join(parts, "; ")
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
