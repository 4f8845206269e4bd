package stock

import (
	"context"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/page"
)

// Repository is the append-only movement log. Append must run inside the
// transaction that mutated the stock it describes.
type Repository interface {
	Append(ctx context.Context, m *Movement) error
	// ListByProduct returns one page, newest first, and the product's movement count.
	ListByProduct(ctx context.Context, ownerID, productID string, req page.Request) ([]*Movement, int, error)
}
