package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/application"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/outbox"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/pricing"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/product"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/sale"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/stock"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/txn"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/validation"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/observability"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
)

const (
	salesService      = "sales-service"
	useCaseSaleCreate = "sale.create"

	// maxNumberAttempts bounds how often a colliding sale number is redrawn.
	maxNumberAttempts = 3
)

type SaleNumberGenerator interface {
	NewSaleNumber() string
}

type CreateSaleInput struct {
	OwnerID string
	Request sale.Request
}

// CreateSaleUseCase validates a sale against current prices and stock and
// commits the sale, its lines, the stock decrements and their movements as
// one unit.
type CreateSaleUseCase struct {
	products  product.Repository
	movements stock.Repository
	sales     sale.Repository
	tx        txn.Manager
	ids       application.IDGenerator
	numbers   SaleNumberGenerator
	publisher outbox.Publisher
	ins       application.Instrumentation
}

var _ application.UseCase[CreateSaleInput, *sale.Sale] = (*CreateSaleUseCase)(nil)

func NewCreateSaleUseCase(deps Deps) *CreateSaleUseCase {
	return &CreateSaleUseCase{
		products:  deps.Products,
		movements: deps.Movements,
		sales:     deps.Sales,
		tx:        deps.Tx,
		ids:       deps.IDs,
		numbers:   deps.Numbers,
		publisher: deps.Publisher,
		ins:       application.NewInstrumentation(salesService, deps.Tel),
	}
}

// Execute runs the sale through its stages. Any failure before the commit
// leaves nothing behind; a failure during the commit rolls all of it back.
func (uc *CreateSaleUseCase) Execute(ctx context.Context, cmd CreateSaleInput) (_ *sale.Sale, err error) {
	ctx, logger := logctx.Enrich(ctx, uc.ins.Logger(ctx), observability.F("use_case", useCaseSaleCreate))

	flow := sale.NewFlow()
	var (
		saleID     string
		saleNumber string
		publishErr error
	)

	ctx, span := uc.ins.Tracer().Start(ctx, application.SpanPrefix+"CreateSale",
		attribute.String("use_case", useCaseSaleCreate),
		attribute.String("sale.owner_id", cmd.OwnerID),
		attribute.Int("sale.lines", len(cmd.Request.Lines)),
	)
	start := time.Now()

	defer func() {
		lat := time.Since(start).Seconds()
		outcome, statusText := application.StatusOf(err)
		uc.ins.Finish(ctx, span, useCaseSaleCreate, outcome, statusText, lat, err)

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("status", statusText),
			observability.F("stage", string(flow.Stage())),
			observability.F("latency_seconds", lat),
			observability.F("owner_id", cmd.OwnerID),
			observability.F("lines", len(cmd.Request.Lines)),
		}
		if saleID != "" {
			fields = append(fields,
				observability.F("sale_id", saleID),
				observability.F("sale_number", saleNumber),
			)
		}
		fields = append(fields, application.TraceFields(ctx)...)
		if publishErr != nil {
			fields = append(fields, observability.F("event_publish_error", publishErr.Error()))
		}
		if err != nil {
			fields = append(fields, observability.F("error", err.Error()))
		}

		logger.Info("use_case_done", fields...)
	}()

	if cmd.OwnerID == "" {
		return nil, reject(flow, application.ErrNoPrincipal)
	}
	req := cmd.Request
	req.Notes = strings.TrimSpace(req.Notes)

	if err := validation.Sale(req).Err(); err != nil {
		return nil, reject(flow, err)
	}
	_ = flow.Advance(sale.StageValidated)

	ids := req.ProductIDs()
	found, err := uc.products.FindByIDs(ctx, cmd.OwnerID, ids)
	if err != nil {
		return nil, fmt.Errorf("sales: resolve products: %w", err)
	}
	if len(found) != len(ids) {
		return nil, reject(flow, fmt.Errorf("%w: requested %d, found %d", sale.ErrProductsNotFound, len(ids), len(found)))
	}
	byID := make(map[string]*product.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	_ = flow.Advance(sale.StageResolved)

	inputs := priceLines(req.Lines, byID)
	_ = flow.Advance(sale.StagePriced)

	if res, shortages := validation.StockAvailability(req.Lines, byID); len(shortages) > 0 {
		return nil, reject(flow, &sale.InsufficientStockError{Shortages: shortages})
	} else if err := res.Err(); err != nil {
		return nil, reject(flow, err)
	}
	_ = flow.Advance(sale.StageStockChecked)

	s := uc.build(cmd.OwnerID, req, byID, pricing.Sale(inputs))
	saleID = s.ID
	span.SetAttributes(attribute.String("sale.id", s.ID))

	var remaining []sale.LineStock
	for attempt := 1; ; attempt++ {
		s.SaleNumber = uc.numbers.NewSaleNumber()
		saleNumber = s.SaleNumber
		remaining, err = uc.commit(ctx, s)
		if errors.Is(err, sale.ErrConflict) && attempt < maxNumberAttempts {
			span.AddEvent("sale.number_collision")
			continue
		}
		break
	}
	if err != nil {
		var short *shortLine
		if errors.As(err, &short) {
			return nil, reject(flow, uc.shortageAfterRollback(ctx, cmd.OwnerID, s, short.index))
		}
		return nil, fmt.Errorf("sales: commit: %w", err)
	}
	_ = flow.Advance(sale.StageCommitted)

	publishErr = uc.ins.Publish(ctx, uc.publisher, sale.NewRecordedEvent(s, remaining))

	span.SetAttributes(
		attribute.String("sale.number", s.SaleNumber),
		attribute.String("sale.total_amount", s.TotalAmount.StringFixed(2)),
	)
	span.AddEvent("sale.recorded")
	return s, nil
}

// priceLines fills missing unit prices with the product's sell price.
func priceLines(lines []sale.LineRequest, byID map[string]*product.Product) []pricing.LineInput {
	out := make([]pricing.LineInput, 0, len(lines))
	for _, l := range lines {
		in := pricing.LineInput{Quantity: l.Quantity}
		if l.UnitPrice != nil {
			in.UnitPrice = *l.UnitPrice
		} else if p, ok := byID[l.ProductID]; ok {
			in.UnitPrice = p.SellPricePerUnit
		}
		out = append(out, in)
	}
	return out
}

func (uc *CreateSaleUseCase) build(ownerID string, req sale.Request, byID map[string]*product.Product, totals pricing.SaleTotals) *sale.Sale {
	s := &sale.Sale{
		ID:          uc.ids.NewID(),
		OwnerID:     ownerID,
		TotalAmount: totals.TotalAmount,
		TotalItems:  totals.TotalItems,
		Status:      sale.StatusCompleted,
		Notes:       req.Notes,
		Lines:       make([]sale.Line, 0, len(req.Lines)),
		CreatedAt:   time.Now().UTC(),
	}
	for i, l := range req.Lines {
		p := byID[l.ProductID]
		t := totals.Lines[i]
		s.Lines = append(s.Lines, sale.Line{
			ID:          uc.ids.NewID(),
			ProductID:   p.ID,
			ProductName: p.Name,
			ProductKind: p.Kind,
			Quantity:    t.Quantity,
			UnitPrice:   t.UnitPrice,
			TotalPrice:  t.TotalPrice,
		})
	}
	return s
}

// shortLine marks the line whose guarded decrement failed.
type shortLine struct {
	index int
	err   error
}

func (e *shortLine) Error() string { return fmt.Sprintf("line %d: %v", e.index, e.err) }
func (e *shortLine) Unwrap() error { return e.err }

// commit writes the sale and, per line, a guarded relative decrement and an
// OUT movement. The storage guard rejects any decrement that would take stock
// below zero, whatever was read earlier.
func (uc *CreateSaleUseCase) commit(ctx context.Context, s *sale.Sale) ([]sale.LineStock, error) {
	var remaining []sale.LineStock
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		remaining = make([]sale.LineStock, 0, len(s.Lines))
		if err := uc.sales.Insert(ctx, s); err != nil {
			return err
		}
		for i, l := range s.Lines {
			change, err := uc.products.AddStock(ctx, s.OwnerID, l.ProductID, l.Quantity.Neg())
			if err != nil {
				if errors.Is(err, product.ErrInsufficientStock) {
					return &shortLine{index: i, err: err}
				}
				return err
			}
			m := stock.NewMovement(uc.ids.NewID(), s.OwnerID, l.ProductID, change.Previous, change.Next, stock.ReasonSale, s.SaleNumber)
			if err := uc.movements.Append(ctx, m); err != nil {
				return err
			}
			remaining = append(remaining, sale.LineStock{
				ProductID:      l.ProductID,
				ProductName:    l.ProductName,
				Quantity:       l.Quantity,
				RemainingStock: change.Next,
			})
		}
		return nil
	})
	return remaining, err
}

// shortageAfterRollback reports the line that lost a race with a concurrent
// writer, using the stock visible once the transaction is gone. Requested is
// the sale's total for that product up to and including the line.
func (uc *CreateSaleUseCase) shortageAfterRollback(ctx context.Context, ownerID string, s *sale.Sale, index int) error {
	l := s.Lines[index]
	sh := sale.Shortage{
		Index:       index,
		ProductID:   l.ProductID,
		ProductName: l.ProductName,
	}
	for _, prev := range s.Lines[:index+1] {
		if prev.ProductID == l.ProductID {
			sh.Requested = sh.Requested.Add(prev.Quantity)
		}
	}
	if p, err := uc.products.Get(ctx, ownerID, l.ProductID); err == nil {
		sh.Available = p.CurrentStock
	}
	return &sale.InsufficientStockError{Shortages: []sale.Shortage{sh}}
}

func reject(flow *sale.Flow, reason error) error {
	_ = flow.Reject(reason)
	return reason
}
