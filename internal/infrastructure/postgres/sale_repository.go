package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/page"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/product"
	domain "github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/sale"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const saleColumns = `id, owner_id, sale_number, total_amount, total_items, status, notes, created_at`

type SaleRepository struct {
	s *Store
}

// Insert writes the header and its lines in one batch inside a transaction.
func (r *SaleRepository) Insert(ctx context.Context, s *domain.Sale) error {
	return r.s.WithinTx(ctx, func(ctx context.Context) error {
		batch := &pgx.Batch{}
		batch.Queue(`
			INSERT INTO sales (`+saleColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, s.ID, s.OwnerID, s.SaleNumber, s.TotalAmount, s.TotalItems, string(s.Status), s.Notes, s.CreatedAt)
		for i, l := range s.Lines {
			batch.Queue(`
				INSERT INTO sale_lines (id, sale_id, position, product_id, product_name, product_kind,
					quantity, unit_price, total_price)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`, l.ID, s.ID, i, l.ProductID, l.ProductName, string(l.ProductKind), l.Quantity, l.UnitPrice, l.TotalPrice)
		}

		br := r.s.runner(ctx).SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				if isViolation(err, codeUniqueViolation, constraintSaleNumber) {
					return domain.ErrConflict
				}
				return fmt.Errorf("postgres: insert sale: %w", mapError(err))
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("postgres: insert sale: %w", mapError(err))
		}
		return nil
	})
}

func (r *SaleRepository) Get(ctx context.Context, ownerID, id string) (*domain.Sale, error) {
	s, err := scanSale(r.s.runner(ctx).QueryRow(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE id = $1 AND owner_id = $2`, id, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: get sale: %w", err)
	}
	if err := r.attachLines(ctx, []*domain.Sale{s}); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SaleRepository) List(ctx context.Context, ownerID string, req page.Request) ([]*domain.Sale, int, error) {
	var total int
	if err := r.s.runner(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM sales WHERE owner_id = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres: count sales: %w", err)
	}
	sales, err := r.query(ctx, `SELECT `+saleColumns+` FROM sales
		WHERE owner_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
		ownerID, req.Limit, req.Offset())
	if err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}

func (r *SaleRepository) Summarize(ctx context.Context, ownerID string, rng domain.Range) (domain.Summary, error) {
	sum := domain.Summary{AverageSale: decimal.Zero}
	err := r.s.runner(ctx).QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total_amount), 0), COALESCE(SUM(total_items), 0)
		FROM sales
		WHERE owner_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at <= $3)
	`, ownerID, rng.From, rng.To).Scan(&sum.TotalSales, &sum.TotalRevenue, &sum.TotalItemsSold)
	if err != nil {
		return sum, fmt.Errorf("postgres: summarize sales: %w", err)
	}
	return sum, nil
}

func (r *SaleRepository) Recent(ctx context.Context, ownerID string, rng domain.Range, limit int) ([]*domain.Sale, error) {
	return r.query(ctx, `SELECT `+saleColumns+` FROM sales
		WHERE owner_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at <= $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4`, ownerID, rng.From, rng.To, limit)
}

func (r *SaleRepository) query(ctx context.Context, sql string, args ...any) ([]*domain.Sale, error) {
	rows, err := r.s.runner(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: query sales: %w", mapError(err))
	}
	var out []*domain.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("postgres: scan sale: %w", err)
		}
		out = append(out, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: query sales: %w", err)
	}
	if err := r.attachLines(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *SaleRepository) attachLines(ctx context.Context, sales []*domain.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	byID := make(map[string]*domain.Sale, len(sales))
	ids := make([]string, 0, len(sales))
	for _, s := range sales {
		byID[s.ID] = s
		ids = append(ids, s.ID)
	}

	rows, err := r.s.runner(ctx).Query(ctx, `
		SELECT sale_id, id, product_id, product_name, product_kind, quantity, unit_price, total_price
		FROM sale_lines WHERE sale_id = ANY($1) ORDER BY sale_id, position
	`, ids)
	if err != nil {
		return fmt.Errorf("postgres: query sale lines: %w", mapError(err))
	}
	defer rows.Close()

	for rows.Next() {
		var (
			saleID, kind string
			l            domain.Line
		)
		if err := rows.Scan(&saleID, &l.ID, &l.ProductID, &l.ProductName, &kind,
			&l.Quantity, &l.UnitPrice, &l.TotalPrice); err != nil {
			return fmt.Errorf("postgres: scan sale line: %w", err)
		}
		l.ProductKind = product.Kind(kind)
		if s := byID[saleID]; s != nil {
			s.Lines = append(s.Lines, l)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("postgres: query sale lines: %w", err)
	}
	return nil
}

func scanSale(row pgx.Row) (*domain.Sale, error) {
	var (
		s      domain.Sale
		status string
	)
	if err := row.Scan(&s.ID, &s.OwnerID, &s.SaleNumber, &s.TotalAmount, &s.TotalItems,
		&status, &s.Notes, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.Status = domain.Status(status)
	return &s, nil
}
