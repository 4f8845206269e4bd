package product

import (
	"context"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/page"
	"github.com/shopspring/decimal"
)

// StockChange brackets a stock mutation.
type StockChange struct {
	Previous decimal.Decimal
	Next     decimal.Decimal
}

// Delta is Next minus Previous.
func (c StockChange) Delta() decimal.Decimal {
	return c.Next.Sub(c.Previous)
}

// Repository persists products. Every lookup is scoped to an owner and a
// product of another owner is reported as ErrNotFound.
type Repository interface {
	// Insert fails with ErrDuplicateName when the owner already has a product of that name.
	Insert(ctx context.Context, p *Product) error
	// Update persists attributes and derived totals, never the current stock.
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, ownerID, id string) error
	Get(ctx context.Context, ownerID, id string) (*Product, error)
	// List returns one page, newest first, and the owner's total product count.
	List(ctx context.Context, ownerID string, req page.Request) ([]*Product, int, error)
	// ListAvailable returns products with stock above zero ordered by name.
	ListAvailable(ctx context.Context, ownerID string) ([]*Product, error)
	// ListUnstocked returns products whose current stock is zero. Inside a
	// transaction the rows stay locked against other stock writers until it ends.
	ListUnstocked(ctx context.Context, ownerID string) ([]*Product, error)
	// FindByIDs returns the owner's products among ids; unknown ids are skipped.
	FindByIDs(ctx context.Context, ownerID string, ids []string) ([]*Product, error)
	// AddStock applies a relative change evaluated against the stored value.
	// It fails with ErrInsufficientStock, leaving stock unchanged, when the
	// result would be negative.
	AddStock(ctx context.Context, ownerID, id string, delta decimal.Decimal) (StockChange, error)
	// SetStock stores an absolute value and reports the value it replaced.
	SetStock(ctx context.Context, ownerID, id string, value decimal.Decimal) (StockChange, error)
}
