package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/page"
	domain "github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/product"
	"github.com/shopspring/decimal"
)

type ProductRepository struct {
	s *Store
}

func (r *ProductRepository) Insert(ctx context.Context, p *domain.Product) error {
	if p == nil || p.ID == "" {
		return fmt.Errorf("product repository: id is required")
	}
	return r.s.write(ctx, func(st *state) error {
		if _, exists := st.products[p.ID]; exists {
			return fmt.Errorf("product repository: id %s already stored", p.ID)
		}
		if nameTaken(st, p.OwnerID, p.Name, "") {
			return domain.ErrDuplicateName
		}
		st.products[p.ID] = p.Clone()
		st.productOrder = append(st.productOrder, p.ID)
		return nil
	})
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	if p == nil || p.ID == "" {
		return fmt.Errorf("product repository: id is required")
	}
	return r.s.write(ctx, func(st *state) error {
		stored, err := owned(st, p.OwnerID, p.ID)
		if err != nil {
			return err
		}
		if nameTaken(st, p.OwnerID, p.Name, p.ID) {
			return domain.ErrDuplicateName
		}
		next := p.Clone()
		next.CurrentStock = stored.CurrentStock
		next.CreatedAt = stored.CreatedAt
		st.products[p.ID] = next
		return nil
	})
}

// Delete removes the product and its movement history. Sale lines keep their reference.
func (r *ProductRepository) Delete(ctx context.Context, ownerID, id string) error {
	return r.s.write(ctx, func(st *state) error {
		if _, err := owned(st, ownerID, id); err != nil {
			return err
		}
		delete(st.products, id)
		order := st.productOrder[:0]
		for _, pid := range st.productOrder {
			if pid != id {
				order = append(order, pid)
			}
		}
		st.productOrder = order

		kept := st.movements[:0]
		for _, m := range st.movements {
			if m.ProductID != id {
				kept = append(kept, m)
			}
		}
		st.movements = kept
		return nil
	})
}

func (r *ProductRepository) Get(ctx context.Context, ownerID, id string) (*domain.Product, error) {
	var out *domain.Product
	err := r.s.read(ctx, func(st *state) error {
		p, err := owned(st, ownerID, id)
		if err != nil {
			return err
		}
		out = p.Clone()
		return nil
	})
	return out, err
}

func (r *ProductRepository) List(ctx context.Context, ownerID string, req page.Request) ([]*domain.Product, int, error) {
	var (
		out   []*domain.Product
		total int
	)
	err := r.s.read(ctx, func(st *state) error {
		all := newestFirst(st, ownerID, nil)
		total = len(all)
		out = page.Slice(all, req)
		return nil
	})
	return out, total, err
}

func (r *ProductRepository) ListAvailable(ctx context.Context, ownerID string) ([]*domain.Product, error) {
	var out []*domain.Product
	err := r.s.read(ctx, func(st *state) error {
		out = newestFirst(st, ownerID, func(p *domain.Product) bool { return p.CurrentStock.IsPositive() })
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return nil
	})
	return out, err
}

func (r *ProductRepository) ListUnstocked(ctx context.Context, ownerID string) ([]*domain.Product, error) {
	var out []*domain.Product
	err := r.s.read(ctx, func(st *state) error {
		out = newestFirst(st, ownerID, func(p *domain.Product) bool { return p.CurrentStock.IsZero() })
		return nil
	})
	return out, err
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ownerID string, ids []string) ([]*domain.Product, error) {
	var out []*domain.Product
	err := r.s.read(ctx, func(st *state) error {
		seen := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			if p, err := owned(st, ownerID, id); err == nil {
				out = append(out, p.Clone())
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepository) AddStock(ctx context.Context, ownerID, id string, delta decimal.Decimal) (domain.StockChange, error) {
	var change domain.StockChange
	err := r.s.write(ctx, func(st *state) error {
		p, err := owned(st, ownerID, id)
		if err != nil {
			return err
		}
		next := p.CurrentStock.Add(delta)
		if next.IsNegative() {
			return domain.ErrInsufficientStock
		}
		change = domain.StockChange{Previous: p.CurrentStock, Next: next}
		p.CurrentStock = next
		p.UpdatedAt = time.Now().UTC()
		return nil
	})
	return change, err
}

func (r *ProductRepository) SetStock(ctx context.Context, ownerID, id string, value decimal.Decimal) (domain.StockChange, error) {
	var change domain.StockChange
	if value.IsNegative() {
		return change, domain.ErrNegativeStock
	}
	err := r.s.write(ctx, func(st *state) error {
		p, err := owned(st, ownerID, id)
		if err != nil {
			return err
		}
		change = domain.StockChange{Previous: p.CurrentStock, Next: value}
		p.CurrentStock = value
		p.UpdatedAt = time.Now().UTC()
		return nil
	})
	return change, err
}

func owned(st *state, ownerID, id string) (*domain.Product, error) {
	p, ok := st.products[id]
	if !ok || p.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func nameTaken(st *state, ownerID, name, exceptID string) bool {
	for id, p := range st.products {
		if id != exceptID && p.OwnerID == ownerID && p.Name == name {
			return true
		}
	}
	return false
}

func newestFirst(st *state, ownerID string, keep func(*domain.Product) bool) []*domain.Product {
	out := make([]*domain.Product, 0)
	for i := len(st.productOrder) - 1; i >= 0; i-- {
		p := st.products[st.productOrder[i]]
		if p == nil || p.OwnerID != ownerID {
			continue
		}
		if keep != nil && !keep(p) {
			continue
		}
		out = append(out, p.Clone())
	}
	return out
}
