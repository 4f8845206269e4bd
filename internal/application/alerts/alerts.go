// Package alerts raises low-stock alerts from committed stock changes.
package alerts

import (
	"context"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/application"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/sale"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/stock"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/observability"
	"github.com/shopspring/decimal"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	alertsService        = "alerts-service"
	useCaseEvaluateStock = "alerts.evaluate_stock"
)

type Level string

const (
	LevelLow      Level = "low"
	LevelDepleted Level = "depleted"
)

// Reading is the stock a product was left with after a committed change.
type Reading struct {
	OwnerID     string
	ProductID   string
	ProductName string
	Stock       decimal.Decimal
	Source      string
}

type Alert struct {
	Reading
	Level Level
}

// Classify reports the alert level for stock at or below threshold.
func Classify(onHand, threshold decimal.Decimal) (Level, bool) {
	switch {
	case !onHand.IsPositive():
		return LevelDepleted, true
	case onHand.LessThanOrEqual(threshold):
		return LevelLow, true
	}
	return "", false
}

func ReadingsFromSale(e sale.RecordedEvent) []Reading {
	out := make([]Reading, 0, len(e.Lines))
	for _, l := range e.Lines {
		out = append(out, Reading{
			OwnerID:     e.OwnerID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Stock:       l.RemainingStock,
			Source:      e.EventName(),
		})
	}
	return out
}

func ReadingsFromAdjustment(e stock.AdjustedEvent) []Reading {
	return []Reading{{
		OwnerID:     e.OwnerID,
		ProductID:   e.ProductID,
		ProductName: e.ProductName,
		Stock:       e.NewStock,
		Source:      e.EventName(),
	}}
}

// EvaluateStockUseCase logs and counts one alert per reading at or below the threshold.
type EvaluateStockUseCase struct {
	threshold decimal.Decimal
	ins       application.Instrumentation
	raised    map[Level]observability.BoundCounter // stock_alerts_total{level}
}

var _ application.UseCase[[]Reading, []Alert] = (*EvaluateStockUseCase)(nil)

func NewEvaluateStockUseCase(threshold decimal.Decimal, tel observability.Observability) *EvaluateStockUseCase {
	metrics := observability.NopMetrics()
	if tel != nil {
		metrics = tel.Metrics()
	}
	alerts := metrics.Counter(observability.MStockAlerts)
	return &EvaluateStockUseCase{
		threshold: threshold,
		ins:       application.NewInstrumentation(alertsService, tel),
		raised: map[Level]observability.BoundCounter{
			LevelLow:      alerts.Bind(observability.L("level", string(LevelLow))),
			LevelDepleted: alerts.Bind(observability.L("level", string(LevelDepleted))),
		},
	}
}

func (uc *EvaluateStockUseCase) Execute(ctx context.Context, readings []Reading) (out []Alert, err error) {
	fields := []observability.Field{
		observability.F("readings", len(readings)),
		observability.F("threshold", uc.threshold.String()),
	}
	err = uc.ins.Run(ctx, useCaseEvaluateStock, "EvaluateStock", fields, func(ctx context.Context, span trace.Span) error {
		logger := uc.ins.Logger(ctx)
		for _, r := range readings {
			level, ok := Classify(r.Stock, uc.threshold)
			if !ok {
				continue
			}
			out = append(out, Alert{Reading: r, Level: level})
			uc.raised[level].Add(1)

			msg := "stock_low"
			if level == LevelDepleted {
				msg = "stock_depleted"
			}
			logger.Warn(msg,
				observability.F("owner_id", r.OwnerID),
				observability.F("product_id", r.ProductID),
				observability.F("product_name", r.ProductName),
				observability.F("stock", r.Stock.String()),
				observability.F("source", r.Source),
			)
		}
		span.SetAttributes(attribute.Int("alerts.raised", len(out)))
		return nil
	})
	return out, err
}
