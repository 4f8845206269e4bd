package postgres

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/user"
	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	s *Store
}

func (r *UserRepository) Upsert(ctx context.Context, u *domain.User) error {
	_, err := r.s.runner(ctx).Exec(ctx, `
		INSERT INTO users (id, full_name, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET full_name = EXCLUDED.full_name, updated_at = EXCLUDED.updated_at
	`, u.ID, u.FullName, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres: upsert user: %w", mapError(err))
	}
	return nil
}

func (r *UserRepository) Get(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.s.runner(ctx).QueryRow(ctx,
		`SELECT id, full_name, updated_at FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.FullName, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: get user: %w", err)
	}
	return &u, nil
}
