// Package catalog is the product ledger: product lifecycle, stock mutations
// and the stock movement log written alongside them.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/application"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/outbox"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/page"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/product"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/stock"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/txn"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/user"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/validation"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/observability"
	"github.com/shopspring/decimal"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const catalogService = "catalog-service"

type Options struct {
	// SeedStockOnCreate sets current stock to total units when a product is created.
	SeedStockOnCreate bool
	DefaultPageLimit  int
	MaxPageLimit      int
}

type Deps struct {
	Products  product.Repository
	Movements stock.Repository
	Users     user.Repository
	Tx        txn.Manager
	IDs       application.IDGenerator
	Publisher outbox.Publisher
	Tel       observability.Observability
}

type Service struct {
	products  product.Repository
	movements stock.Repository
	users     user.Repository
	tx        txn.Manager
	ids       application.IDGenerator
	publisher outbox.Publisher
	opts      Options
	ins       application.Instrumentation
}

func NewService(deps Deps, opts Options) *Service {
	return &Service{
		products:  deps.Products,
		movements: deps.Movements,
		users:     deps.Users,
		tx:        deps.Tx,
		ids:       deps.IDs,
		publisher: deps.Publisher,
		opts:      opts,
		ins:       application.NewInstrumentation(catalogService, deps.Tel),
	}
}

type RestockCommand struct {
	Quantity decimal.Decimal
	Reason   string
	Notes    string
}

type AdjustCommand struct {
	NewStock decimal.Decimal
	Reason   string
	Notes    string
}

func (s *Service) CreatePack(ctx context.Context, ownerID string, a product.PackAttributes) (out *product.Product, err error) {
	err = s.ins.Run(ctx, "catalog.create_pack", "CreatePackProduct", ownerFields(ownerID), func(ctx context.Context, span trace.Span) error {
		if ownerID == "" {
			return application.ErrNoPrincipal
		}
		a = a.Normalize()
		if err := validation.Pack(a).Err(); err != nil {
			return err
		}
		out, err = s.create(ctx, product.NewPack(s.ids.NewID(), ownerID, a))
		if err == nil {
			span.SetAttributes(attribute.String("product.id", out.ID))
		}
		return err
	})
	return out, err
}

func (s *Service) CreateWeight(ctx context.Context, ownerID string, a product.WeightAttributes) (out *product.Product, err error) {
	err = s.ins.Run(ctx, "catalog.create_weight", "CreateWeightProduct", ownerFields(ownerID), func(ctx context.Context, span trace.Span) error {
		if ownerID == "" {
			return application.ErrNoPrincipal
		}
		a = a.Normalize()
		if err := validation.Weight(a).Err(); err != nil {
			return err
		}
		out, err = s.create(ctx, product.NewWeight(s.ids.NewID(), ownerID, a))
		if err == nil {
			span.SetAttributes(attribute.String("product.id", out.ID))
		}
		return err
	})
	return out, err
}

func (s *Service) create(ctx context.Context, p *product.Product) (*product.Product, error) {
	var seeded *stock.Movement
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.products.Insert(ctx, p); err != nil {
			return err
		}
		if !s.opts.SeedStockOnCreate || !p.TotalUnits.IsPositive() {
			return nil
		}
		m, err := s.setStock(ctx, p.OwnerID, p.ID, p.TotalUnits, stock.ReasonInitial, "")
		if err != nil {
			return err
		}
		p.CurrentStock = m.NewStock
		seeded = m
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: create product: %w", err)
	}
	if seeded != nil {
		_ = s.ins.Publish(ctx, s.publisher, stock.NewAdjustedEvent(seeded, p.Name))
	}
	return p, nil
}

func (s *Service) UpdatePack(ctx context.Context, ownerID, id string, a product.PackAttributes) (out *product.Product, err error) {
	err = s.ins.Run(ctx, "catalog.update_pack", "UpdatePackProduct", productFields(ownerID, id), func(ctx context.Context, _ trace.Span) error {
		a = a.Normalize()
		if err := validation.Pack(a).Err(); err != nil {
			return err
		}
		out, err = s.update(ctx, ownerID, id, func(p *product.Product) error { return p.ApplyPack(a) })
		return err
	})
	return out, err
}

func (s *Service) UpdateWeight(ctx context.Context, ownerID, id string, a product.WeightAttributes) (out *product.Product, err error) {
	err = s.ins.Run(ctx, "catalog.update_weight", "UpdateWeightProduct", productFields(ownerID, id), func(ctx context.Context, _ trace.Span) error {
		a = a.Normalize()
		if err := validation.Weight(a).Err(); err != nil {
			return err
		}
		out, err = s.update(ctx, ownerID, id, func(p *product.Product) error { return p.ApplyWeight(a) })
		return err
	})
	return out, err
}

// update applies attributes to a product of the matching kind. A product of
// the other kind is reported as not found.
func (s *Service) update(ctx context.Context, ownerID, id string, apply func(*product.Product) error) (*product.Product, error) {
	var p *product.Product
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if p, err = s.products.Get(ctx, ownerID, id); err != nil {
			return err
		}
		if err := apply(p); err != nil {
			return fmt.Errorf("%w: %w", product.ErrNotFound, err)
		}
		return s.products.Update(ctx, p)
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: update product: %w", err)
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	return s.ins.Run(ctx, "catalog.delete", "DeleteProduct", productFields(ownerID, id), func(ctx context.Context, _ trace.Span) error {
		if err := s.products.Delete(ctx, ownerID, id); err != nil {
			return fmt.Errorf("catalog: delete product: %w", err)
		}
		return nil
	})
}

func (s *Service) Get(ctx context.Context, ownerID, id string) (out *product.Product, err error) {
	err = s.ins.Run(ctx, "catalog.get", "GetProduct", productFields(ownerID, id), func(ctx context.Context, _ trace.Span) error {
		if out, err = s.products.Get(ctx, ownerID, id); err != nil {
			return fmt.Errorf("catalog: get product: %w", err)
		}
		return nil
	})
	return out, err
}

func (s *Service) List(ctx context.Context, ownerID string, req page.Request) (out page.Result[*product.Product], err error) {
	req = req.Normalize(s.opts.DefaultPageLimit, s.opts.MaxPageLimit)
	err = s.ins.Run(ctx, "catalog.list", "ListProducts", pageFields(ownerID, req), func(ctx context.Context, span trace.Span) error {
		items, total, err := s.products.List(ctx, ownerID, req)
		if err != nil {
			return fmt.Errorf("catalog: list products: %w", err)
		}
		span.SetAttributes(attribute.Int("products.total", total))
		out = page.NewResult(items, req, total)
		return nil
	})
	return out, err
}

// ListAvailable returns products that can be sold right now, by name.
func (s *Service) ListAvailable(ctx context.Context, ownerID string) (out []*product.Product, err error) {
	err = s.ins.Run(ctx, "catalog.list_available", "ListAvailableProducts", ownerFields(ownerID), func(ctx context.Context, _ trace.Span) error {
		if out, err = s.products.ListAvailable(ctx, ownerID); err != nil {
			return fmt.Errorf("catalog: list available: %w", err)
		}
		if out == nil {
			out = []*product.Product{}
		}
		return nil
	})
	return out, err
}

func (s *Service) Restock(ctx context.Context, ownerID, id string, cmd RestockCommand) (out *product.Product, err error) {
	fields := append(productFields(ownerID, id), observability.F("quantity", cmd.Quantity.String()))
	err = s.ins.Run(ctx, "catalog.restock", "Restock", fields, func(ctx context.Context, _ trace.Span) error {
		if !cmd.Quantity.IsPositive() {
			return product.ErrInvalidQuantity
		}
		reason := orDefault(cmd.Reason, stock.ReasonRestock)

		var m *stock.Movement
		err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
			change, err := s.products.AddStock(ctx, ownerID, id, cmd.Quantity)
			if err != nil {
				return err
			}
			if m, err = s.appendMovement(ctx, ownerID, id, change, reason, cmd.Notes); err != nil {
				return err
			}
			out, err = s.products.Get(ctx, ownerID, id)
			return err
		})
		if err != nil {
			return fmt.Errorf("catalog: restock: %w", err)
		}
		_ = s.ins.Publish(ctx, s.publisher, stock.NewAdjustedEvent(m, out.Name))
		return nil
	})
	return out, err
}

func (s *Service) AdjustStock(ctx context.Context, ownerID, id string, cmd AdjustCommand) (out *product.Product, err error) {
	fields := append(productFields(ownerID, id), observability.F("new_stock", cmd.NewStock.String()))
	err = s.ins.Run(ctx, "catalog.adjust_stock", "AdjustStock", fields, func(ctx context.Context, _ trace.Span) error {
		if cmd.NewStock.IsNegative() {
			return product.ErrNegativeStock
		}
		reason := orDefault(cmd.Reason, stock.ReasonAdjustment)

		var m *stock.Movement
		err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
			var err error
			if m, err = s.setStock(ctx, ownerID, id, cmd.NewStock, reason, cmd.Notes); err != nil {
				return err
			}
			out, err = s.products.Get(ctx, ownerID, id)
			return err
		})
		if err != nil {
			return fmt.Errorf("catalog: adjust stock: %w", err)
		}
		_ = s.ins.Publish(ctx, s.publisher, stock.NewAdjustedEvent(m, out.Name))
		return nil
	})
	return out, err
}

// ListMovements returns the product's stock history, newest first, with the
// acting principal's display name.
func (s *Service) ListMovements(ctx context.Context, ownerID, productID string, req page.Request) (out page.Result[*stock.Movement], err error) {
	req = req.Normalize(s.opts.DefaultPageLimit, s.opts.MaxPageLimit)
	fields := append(pageFields(ownerID, req), observability.F("product_id", productID))
	err = s.ins.Run(ctx, "catalog.list_movements", "ListMovements", fields, func(ctx context.Context, _ trace.Span) error {
		if _, err := s.products.Get(ctx, ownerID, productID); err != nil {
			return fmt.Errorf("catalog: list movements: %w", err)
		}
		items, total, err := s.movements.ListByProduct(ctx, ownerID, productID, req)
		if err != nil {
			return fmt.Errorf("catalog: list movements: %w", err)
		}

		var actor string
		if s.users != nil {
			if u, err := s.users.Get(ctx, ownerID); err == nil {
				actor = u.FullName
			}
		}
		for _, m := range items {
			if m.ActorName == "" {
				m.ActorName = actor
			}
		}
		out = page.NewResult(items, req, total)
		return nil
	})
	return out, err
}

// InitializeStock sets current stock to total units for every product of the
// owner that has none, in one unit, and reports how many were initialized.
func (s *Service) InitializeStock(ctx context.Context, ownerID string) (count int, err error) {
	err = s.ins.Run(ctx, "catalog.initialize_stock", "InitializeStock", ownerFields(ownerID), func(ctx context.Context, span trace.Span) error {
		if ownerID == "" {
			return application.ErrNoPrincipal
		}
		type seeded struct {
			m    *stock.Movement
			name string
		}
		var done []seeded
		err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
			done = done[:0]
			items, err := s.products.ListUnstocked(ctx, ownerID)
			if err != nil {
				return err
			}
			for _, p := range items {
				if !p.TotalUnits.IsPositive() {
					continue
				}
				m, err := s.setStock(ctx, ownerID, p.ID, p.TotalUnits, stock.ReasonInitial, "")
				if err != nil {
					return err
				}
				done = append(done, seeded{m: m, name: p.Name})
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("catalog: initialize stock: %w", err)
		}
		count = len(done)
		span.SetAttributes(attribute.Int("products.initialized", count))
		for _, d := range done {
			_ = s.ins.Publish(ctx, s.publisher, stock.NewAdjustedEvent(d.m, d.name))
		}
		return nil
	})
	return count, err
}

// RegisterPrincipal stores the display name shown on the principal's movements.
func (s *Service) RegisterPrincipal(ctx context.Context, ownerID string, p user.Profile) (out *user.User, err error) {
	err = s.ins.Run(ctx, "catalog.register_principal", "RegisterPrincipal", ownerFields(ownerID), func(ctx context.Context, _ trace.Span) error {
		if ownerID == "" {
			return application.ErrNoPrincipal
		}
		p = p.Normalize()
		if err := validation.Profile(p).Err(); err != nil {
			return err
		}
		u := &user.User{ID: ownerID, FullName: p.FullName, UpdatedAt: time.Now().UTC()}
		if err := s.users.Upsert(ctx, u); err != nil {
			return fmt.Errorf("catalog: register principal: %w", err)
		}
		out = u
		return nil
	})
	return out, err
}

// setStock must run inside a transaction.
func (s *Service) setStock(ctx context.Context, ownerID, id string, value decimal.Decimal, reason, notes string) (*stock.Movement, error) {
	change, err := s.products.SetStock(ctx, ownerID, id, value)
	if err != nil {
		return nil, err
	}
	return s.appendMovement(ctx, ownerID, id, change, reason, notes)
}

func (s *Service) appendMovement(ctx context.Context, ownerID, productID string, change product.StockChange, reason, notes string) (*stock.Movement, error) {
	m := stock.NewMovement(s.ids.NewID(), ownerID, productID, change.Previous, change.Next, reason, notes)
	if err := s.movements.Append(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func ownerFields(ownerID string) []observability.Field {
	return []observability.Field{observability.F("owner_id", ownerID)}
}

func productFields(ownerID, productID string) []observability.Field {
	return []observability.Field{
		observability.F("owner_id", ownerID),
		observability.F("product_id", productID),
	}
}

func pageFields(ownerID string, req page.Request) []observability.Field {
	return []observability.Field{
		observability.F("owner_id", ownerID),
		observability.F("page", req.Page),
		observability.F("limit", req.Limit),
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
