package memory

import (
	"context"
	"fmt"

	domain "github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/user"
)

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Upsert(ctx context.Context, u *domain.User) error {
	if u == nil || u.ID == "" {
		return fmt.Errorf("user repository: id is required")
	}
	return r.s.write(ctx, func(st *state) error {
		cp := *u
		st.users[u.ID] = &cp
		return nil
	})
}

func (r *UserRepository) Get(ctx context.Context, id string) (*domain.User, error) {
	var out *domain.User
	err := r.s.read(ctx, func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return domain.ErrNotFound
		}
		cp := *u
		out = &cp
		return nil
	})
	return out, err
}
