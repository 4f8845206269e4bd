package memory

import (
	"context"
	"fmt"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/page"
	domain "github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/stock"
)

type MovementRepository struct {
	s *Store
}

func (r *MovementRepository) Append(ctx context.Context, m *domain.Movement) error {
	if m == nil || m.ID == "" {
		return fmt.Errorf("movement repository: id is required")
	}
	return r.s.write(ctx, func(st *state) error {
		st.movements = append(st.movements, m.Clone())
		return nil
	})
}

func (r *MovementRepository) ListByProduct(ctx context.Context, ownerID, productID string, req page.Request) ([]*domain.Movement, int, error) {
	var (
		out   []*domain.Movement
		total int
	)
	err := r.s.read(ctx, func(st *state) error {
		all := make([]*domain.Movement, 0)
		for i := len(st.movements) - 1; i >= 0; i-- {
			m := st.movements[i]
			if m.OwnerID == ownerID && m.ProductID == productID {
				all = append(all, m.Clone())
			}
		}
		total = len(all)
		out = page.Slice(all, req)
		return nil
	})
	return out, total, err
}
