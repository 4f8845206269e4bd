package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/page"
	domain "github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/product"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const productColumns = `id, owner_id, name, kind,
	pack_quantity, products_per_pack, buy_price_per_pack,
	weight_unit, total_weight, buy_price_per_unit,
	sell_price_per_unit, total_units, total_invested, total_profit,
	current_stock, created_at, updated_at`

type ProductRepository struct {
	s *Store
}

func (r *ProductRepository) Insert(ctx context.Context, p *domain.Product) error {
	args := append([]any{p.ID, p.OwnerID}, attributeArgs(p)...)
	args = append(args, p.CurrentStock, p.CreatedAt, p.UpdatedAt)
	_, err := r.s.runner(ctx).Exec(ctx, `
		INSERT INTO products (id, owner_id, name, kind,
			pack_quantity, products_per_pack, buy_price_per_pack,
			weight_unit, total_weight, buy_price_per_unit,
			sell_price_per_unit, total_units, total_invested, total_profit,
			current_stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`, args...)
	if isViolation(err, codeUniqueViolation, constraintProductName) {
		return domain.ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("postgres: insert product: %w", mapError(err))
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	args := append([]any{p.ID, p.OwnerID}, attributeArgs(p)...)
	args = append(args, p.UpdatedAt)
	tag, err := r.s.runner(ctx).Exec(ctx, `
		UPDATE products SET
			name = $3, kind = $4,
			pack_quantity = $5, products_per_pack = $6, buy_price_per_pack = $7,
			weight_unit = $8, total_weight = $9, buy_price_per_unit = $10,
			sell_price_per_unit = $11, total_units = $12, total_invested = $13, total_profit = $14,
			updated_at = $15
		WHERE id = $1 AND owner_id = $2
	`, args...)
	if isViolation(err, codeUniqueViolation, constraintProductName) {
		return domain.ErrDuplicateName
	}
	if err != nil {
		return fmt.Errorf("postgres: update product: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, ownerID, id string) error {
	tag, err := r.s.runner(ctx).Exec(ctx, `DELETE FROM products WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("postgres: delete product: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Get(ctx context.Context, ownerID, id string) (*domain.Product, error) {
	row := r.s.runner(ctx).QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND owner_id = $2`, id, ownerID)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: get product: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context, ownerID string, req page.Request) ([]*domain.Product, int, error) {
	var total int
	if err := r.s.runner(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM products WHERE owner_id = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres: count products: %w", err)
	}
	items, err := r.query(ctx, `SELECT `+productColumns+` FROM products
		WHERE owner_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
		ownerID, req.Limit, req.Offset())
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ProductRepository) ListAvailable(ctx context.Context, ownerID string) ([]*domain.Product, error) {
	return r.query(ctx, `SELECT `+productColumns+` FROM products
		WHERE owner_id = $1 AND current_stock > 0 ORDER BY name ASC`, ownerID)
}

// ListUnstocked locks the returned rows until the surrounding transaction
// ends, so a concurrent restock waits instead of being overwritten.
func (r *ProductRepository) ListUnstocked(ctx context.Context, ownerID string) ([]*domain.Product, error) {
	return r.query(ctx, `SELECT `+productColumns+` FROM products
		WHERE owner_id = $1 AND current_stock = 0 ORDER BY created_at DESC, id DESC
		FOR UPDATE`, ownerID)
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ownerID string, ids []string) ([]*domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.query(ctx, `SELECT `+productColumns+` FROM products
		WHERE owner_id = $1 AND id = ANY($2)`, ownerID, ids)
}

// AddStock applies delta in a single guarded statement so concurrent
// decrements are serialized by the row lock and can never drive stock below zero.
func (r *ProductRepository) AddStock(ctx context.Context, ownerID, id string, delta decimal.Decimal) (domain.StockChange, error) {
	var change domain.StockChange
	run := r.s.runner(ctx)
	err := run.QueryRow(ctx, `
		UPDATE products
		SET current_stock = current_stock + $3, updated_at = now()
		WHERE id = $1 AND owner_id = $2 AND current_stock + $3 >= 0
		RETURNING current_stock - $3, current_stock
	`, id, ownerID, delta).Scan(&change.Previous, &change.Next)
	if err == nil {
		return change, nil
	}
	if isViolation(err, codeCheckViolation, constraintProductStock) {
		return change, domain.ErrInsufficientStock
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return change, fmt.Errorf("postgres: add stock: %w", mapError(err))
	}

	var exists bool
	if err := run.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE id = $1 AND owner_id = $2)`, id, ownerID).Scan(&exists); err != nil {
		return change, fmt.Errorf("postgres: add stock: %w", mapError(err))
	}
	if !exists {
		return change, domain.ErrNotFound
	}
	return change, domain.ErrInsufficientStock
}

func (r *ProductRepository) SetStock(ctx context.Context, ownerID, id string, value decimal.Decimal) (domain.StockChange, error) {
	change := domain.StockChange{Next: value}
	if value.IsNegative() {
		return change, domain.ErrNegativeStock
	}
	err := r.s.WithinTx(ctx, func(ctx context.Context) error {
		run := r.s.runner(ctx)
		err := run.QueryRow(ctx,
			`SELECT current_stock FROM products WHERE id = $1 AND owner_id = $2 FOR UPDATE`, id, ownerID,
		).Scan(&change.Previous)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("postgres: lock product: %w", err)
		}
		if _, err := run.Exec(ctx,
			`UPDATE products SET current_stock = $3, updated_at = now() WHERE id = $1 AND owner_id = $2`,
			id, ownerID, value); err != nil {
			return fmt.Errorf("postgres: set stock: %w", err)
		}
		return nil
	})
	return change, err
}

func (r *ProductRepository) query(ctx context.Context, sql string, args ...any) ([]*domain.Product, error) {
	rows, err := r.s.runner(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: query products: %w", mapError(err))
	}
	defer rows.Close()

	var out []*domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: query products: %w", mapError(err))
	}
	return out, nil
}

// attributeArgs returns the values of columns name through total_profit.
func attributeArgs(p *domain.Product) []any {
	var (
		packQty, perPack *int64
		buyPerPack       decimal.NullDecimal
		unit             *string
		weight, buyPerU  decimal.NullDecimal
	)
	if p.Pack != nil {
		packQty, perPack = &p.Pack.PackQuantity, &p.Pack.ProductsPerPack
		buyPerPack = decimal.NewNullDecimal(p.Pack.BuyPricePerPack)
	}
	if p.Weight != nil {
		u := string(p.Weight.Unit)
		unit = &u
		weight = decimal.NewNullDecimal(p.Weight.TotalWeight)
		buyPerU = decimal.NewNullDecimal(p.Weight.BuyPricePerUnit)
	}
	return []any{
		p.Name, string(p.Kind),
		packQty, perPack, buyPerPack,
		unit, weight, buyPerU,
		p.SellPricePerUnit, p.TotalUnits, p.TotalInvested, p.TotalProfit,
	}
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p                domain.Product
		kind             string
		packQty, perPack *int64
		buyPerPack       decimal.NullDecimal
		unit             *string
		weight, buyPerU  decimal.NullDecimal
	)
	if err := row.Scan(
		&p.ID, &p.OwnerID, &p.Name, &kind,
		&packQty, &perPack, &buyPerPack,
		&unit, &weight, &buyPerU,
		&p.SellPricePerUnit, &p.TotalUnits, &p.TotalInvested, &p.TotalProfit,
		&p.CurrentStock, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Kind = domain.Kind(kind)
	switch p.Kind {
	case domain.KindPack:
		spec := &domain.PackSpec{BuyPricePerPack: buyPerPack.Decimal}
		if packQty != nil {
			spec.PackQuantity = *packQty
		}
		if perPack != nil {
			spec.ProductsPerPack = *perPack
		}
		p.Pack = spec
	case domain.KindWeight:
		spec := &domain.WeightSpec{TotalWeight: weight.Decimal, BuyPricePerUnit: buyPerU.Decimal}
		if unit != nil {
			spec.Unit = domain.WeightUnit(*unit)
		}
		p.Weight = spec
	}
	return &p, nil
}
