// Package sales is the sale engine: recording sales against current stock and
// reading them back as lists and summaries.
package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/application"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/outbox"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/page"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/pricing"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/product"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/sale"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/stock"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/txn"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RecentLimit is how many sales a summary lists.
const RecentLimit = 5

type Options struct {
	DefaultPageLimit int
	MaxPageLimit     int
}

type Deps struct {
	Products  product.Repository
	Movements stock.Repository
	Sales     sale.Repository
	Tx        txn.Manager
	IDs       application.IDGenerator
	Numbers   SaleNumberGenerator
	Publisher outbox.Publisher
	Tel       observability.Observability
}

type Service struct {
	create *CreateSaleUseCase
	sales  sale.Repository
	opts   Options
	ins    application.Instrumentation
}

func NewService(deps Deps, opts Options) *Service {
	return &Service{
		create: NewCreateSaleUseCase(deps),
		sales:  deps.Sales,
		opts:   opts,
		ins:    application.NewInstrumentation(salesService, deps.Tel),
	}
}

// Summary is the aggregate over a date range plus its most recent sales.
type Summary struct {
	sale.Summary
	RecentSales []*sale.Sale
}

func (s *Service) Create(ctx context.Context, ownerID string, req sale.Request) (*sale.Sale, error) {
	return s.create.Execute(ctx, CreateSaleInput{OwnerID: ownerID, Request: req})
}

func (s *Service) Get(ctx context.Context, ownerID, id string) (out *sale.Sale, err error) {
	fields := []observability.Field{observability.F("owner_id", ownerID), observability.F("sale_id", id)}
	err = s.ins.Run(ctx, "sale.get", "GetSale", fields, func(ctx context.Context, _ trace.Span) error {
		if out, err = s.sales.Get(ctx, ownerID, id); err != nil {
			return fmt.Errorf("sales: get sale: %w", err)
		}
		return nil
	})
	return out, err
}

func (s *Service) List(ctx context.Context, ownerID string, req page.Request) (out page.Result[*sale.Sale], err error) {
	req = req.Normalize(s.opts.DefaultPageLimit, s.opts.MaxPageLimit)
	fields := []observability.Field{
		observability.F("owner_id", ownerID),
		observability.F("page", req.Page),
		observability.F("limit", req.Limit),
	}
	err = s.ins.Run(ctx, "sale.list", "ListSales", fields, func(ctx context.Context, span trace.Span) error {
		items, total, err := s.sales.List(ctx, ownerID, req)
		if err != nil {
			return fmt.Errorf("sales: list sales: %w", err)
		}
		span.SetAttributes(attribute.Int("sales.total", total))
		out = page.NewResult(items, req, total)
		return nil
	})
	return out, err
}

func (s *Service) Summary(ctx context.Context, ownerID string, r sale.Range) (out Summary, err error) {
	err = s.ins.Run(ctx, "sale.summary", "SalesSummary", rangeFields(ownerID, r), func(ctx context.Context, span trace.Span) error {
		sum, err := s.sales.Summarize(ctx, ownerID, r)
		if err != nil {
			return fmt.Errorf("sales: summarize: %w", err)
		}
		sum.TotalRevenue = pricing.Money(sum.TotalRevenue)
		sum.AverageSale = pricing.Average(sum.TotalRevenue, sum.TotalSales)

		recent, err := s.sales.Recent(ctx, ownerID, r, RecentLimit)
		if err != nil {
			return fmt.Errorf("sales: recent sales: %w", err)
		}
		if recent == nil {
			recent = []*sale.Sale{}
		}
		span.SetAttributes(attribute.Int("sales.count", sum.TotalSales))
		out = Summary{Summary: sum, RecentSales: recent}
		return nil
	})
	return out, err
}

func rangeFields(ownerID string, r sale.Range) []observability.Field {
	fields := []observability.Field{observability.F("owner_id", ownerID)}
	if r.From != nil {
		fields = append(fields, observability.F("from", r.From.Format(time.RFC3339)))
	}
	if r.To != nil {
		fields = append(fields, observability.F("to", r.To.Format(time.RFC3339)))
	}
	return fields
}
