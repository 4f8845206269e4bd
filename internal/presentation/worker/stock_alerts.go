package workerpresentation

import (
	"context"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/application"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/application/alerts"
	domoutbox "github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/outbox"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/sale"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/stock"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/observability"
)

const stockAlertWorker = "stock_alert_worker"

// StockAlertWorker feeds committed stock changes to the alert use case.
type StockAlertWorker struct {
	subscriber domoutbox.Subscriber
	useCase    application.UseCase[[]alerts.Reading, []alerts.Alert]
	log        observability.Logger
}

func NewStockAlertWorker(
	subscriber domoutbox.Subscriber,
	useCase application.UseCase[[]alerts.Reading, []alerts.Alert],
	tel observability.Observability,
) *StockAlertWorker {
	base := observability.NopLogger()
	if tel != nil {
		base = tel.Logger()
	}
	return &StockAlertWorker{
		subscriber: subscriber,
		useCase:    useCase,
		log:        base.With(observability.F("service", stockAlertWorker)),
	}
}

func (w *StockAlertWorker) Start() {
	if w.subscriber == nil || w.useCase == nil {
		return
	}
	domoutbox.SubscribeAll(w.subscriber, w.handle, sale.EventRecorded, stock.EventAdjusted)
}

func (w *StockAlertWorker) handle(ctx context.Context, e domoutbox.Event) error {
	var readings []alerts.Reading
	switch evt := e.(type) {
	case sale.RecordedEvent:
		readings = alerts.ReadingsFromSale(evt)
	case stock.AdjustedEvent:
		readings = alerts.ReadingsFromAdjustment(evt)
	default:
		return nil
	}

	_, err := w.useCase.Execute(WithEventContext(ctx, w.log, e), readings)
	return err
}
