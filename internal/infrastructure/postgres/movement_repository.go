package postgres

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
	_, err := r.s.runner(ctx).Exec(ctx, `
		INSERT INTO stock_movements (id, product_id, owner_id, type, quantity,
			previous_stock, new_stock, reason, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, m.ID, m.ProductID, m.OwnerID, string(m.Type), m.Quantity,
		m.PreviousStock, m.NewStock, m.Reason, m.Notes, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres: append movement: %w", mapError(err))
	}
	return nil
}

func (r *MovementRepository) ListByProduct(ctx context.Context, ownerID, productID string, req page.Request) ([]*domain.Movement, int, error) {
	run := r.s.runner(ctx)

	var total int
	if err := run.QueryRow(ctx,
		`SELECT COUNT(*) FROM stock_movements WHERE owner_id = $1 AND product_id = $2`,
		ownerID, productID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres: count movements: %w", err)
	}

	rows, err := run.Query(ctx, `
		SELECT m.id, m.product_id, m.owner_id, m.type, m.quantity,
			m.previous_stock, m.new_stock, m.reason, m.notes, m.created_at,
			COALESCE(u.full_name, '')
		FROM stock_movements m
		LEFT JOIN users u ON u.id = m.owner_id
		WHERE m.owner_id = $1 AND m.product_id = $2
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT $3 OFFSET $4
	`, ownerID, productID, req.Limit, req.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: list movements: %w", mapError(err))
	}
	defer rows.Close()

	var out []*domain.Movement
	for rows.Next() {
		var (
			m   domain.Movement
			typ string
		)
		if err := rows.Scan(&m.ID, &m.ProductID, &m.OwnerID, &typ, &m.Quantity,
			&m.PreviousStock, &m.NewStock, &m.Reason, &m.Notes, &m.CreatedAt,
			&m.ActorName); err != nil {
			return nil, 0, fmt.Errorf("postgres: scan movement: %w", err)
		}
		m.Type = domain.MovementType(typ)
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: list movements: %w", err)
	}
	return out, total, nil
}
