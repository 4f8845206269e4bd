package sale

import (
	"context"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/page"
)

type Repository interface {
	// Insert writes the header and every line.
	Insert(ctx context.Context, s *Sale) error
	Get(ctx context.Context, ownerID, id string) (*Sale, error)
	// List returns one page, newest first, and the owner's total sale count.
	List(ctx context.Context, ownerID string, req page.Request) ([]*Sale, int, error)
	// Summarize fills count, revenue and items sold; AverageSale is left to the caller.
	Summarize(ctx context.Context, ownerID string, r Range) (Summary, error)
	// Recent returns up to limit sales within r, newest first.
	Recent(ctx context.Context, ownerID string, r Range, limit int) ([]*Sale, error)
}
