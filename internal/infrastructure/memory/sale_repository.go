package memory

import (
	"context"
	"fmt"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/page"
	domain "github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/sale"
	"github.com/shopspring/decimal"
)

type SaleRepository struct {
	s *Store
}

func (r *SaleRepository) Insert(ctx context.Context, s *domain.Sale) error {
	if s == nil || s.ID == "" {
		return fmt.Errorf("sale repository: id is required")
	}
	return r.s.write(ctx, func(st *state) error {
		for _, existing := range st.sales {
			if existing.ID == s.ID {
				return fmt.Errorf("sale repository: id %s already stored", s.ID)
			}
			if existing.OwnerID == s.OwnerID && existing.SaleNumber == s.SaleNumber {
				return domain.ErrConflict
			}
		}
		st.sales = append(st.sales, s.Clone())
		return nil
	})
}

func (r *SaleRepository) Get(ctx context.Context, ownerID, id string) (*domain.Sale, error) {
	var out *domain.Sale
	err := r.s.read(ctx, func(st *state) error {
		for _, s := range st.sales {
			if s.ID == id && s.OwnerID == ownerID {
				out = s.Clone()
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *SaleRepository) List(ctx context.Context, ownerID string, req page.Request) ([]*domain.Sale, int, error) {
	var (
		out   []*domain.Sale
		total int
	)
	err := r.s.read(ctx, func(st *state) error {
		all := salesNewestFirst(st, ownerID, domain.Range{})
		total = len(all)
		out = page.Slice(all, req)
		return nil
	})
	return out, total, err
}

func (r *SaleRepository) Summarize(ctx context.Context, ownerID string, rng domain.Range) (domain.Summary, error) {
	sum := domain.Summary{
		TotalRevenue:   decimal.Zero,
		TotalItemsSold: decimal.Zero,
		AverageSale:    decimal.Zero,
	}
	err := r.s.read(ctx, func(st *state) error {
		for _, s := range st.sales {
			if s.OwnerID != ownerID || !rng.Contains(s.CreatedAt) {
				continue
			}
			sum.TotalSales++
			sum.TotalRevenue = sum.TotalRevenue.Add(s.TotalAmount)
			sum.TotalItemsSold = sum.TotalItemsSold.Add(s.TotalItems)
		}
		return nil
	})
	return sum, err
}

func (r *SaleRepository) Recent(ctx context.Context, ownerID string, rng domain.Range, limit int) ([]*domain.Sale, error) {
	var out []*domain.Sale
	err := r.s.read(ctx, func(st *state) error {
		out = salesNewestFirst(st, ownerID, rng)
		if limit > 0 && len(out) > limit {
			out = out[:limit]
		}
		return nil
	})
	return out, err
}

func salesNewestFirst(st *state, ownerID string, rng domain.Range) []*domain.Sale {
	out := make([]*domain.Sale, 0)
	for i := len(st.sales) - 1; i >= 0; i-- {
		s := st.sales[i]
		if s.OwnerID == ownerID && rng.Contains(s.CreatedAt) {
			out = append(out, s.Clone())
		}
	}
	return out
}
