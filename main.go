package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/FranshlyS/Sistema-gestion-negocio/internal/application/alerts"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/application/catalog"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/application/sales"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/config"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/product"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/sale"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/stock"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/txn"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/domain/user"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/infrastructure/id"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/infrastructure/memory"
	infraobs "github.com/FranshlyS/Sistema-gestion-negocio/internal/infrastructure/observability"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/infrastructure/observability/oteltrace"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/infrastructure/observability/prometrics"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/infrastructure/observability/zaplogger"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/infrastructure/outbox"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/infrastructure/postgres"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/observability"
	"github.com/FranshlyS/Sistema-gestion-negocio/internal/pkg/logging"
	httppresentation "github.com/FranshlyS/Sistema-gestion-negocio/internal/presentation/http"
	workerpresentation "github.com/FranshlyS/Sistema-gestion-negocio/internal/presentation/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const serviceVersion = "0.1.0"

// stores is the storage backend selected at startup.
type stores struct {
	products  product.Repository
	movements stock.Repository
	sales     sale.Repository
	users     user.Repository
	tx        txn.Manager
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	baseLogger := logging.MustNewLogger(logging.Options{
		Service: cfg.ServiceName,
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
	})
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	systemLogger := zaplogger.Wrap(logging.WithTrace(baseLogger, logging.SystemTraceID, logging.SystemSpanID))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := oteltrace.InitProvider(ctx, oteltrace.ProviderConfig{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: serviceVersion,
		Environment:    cfg.Env,
		Endpoint:       cfg.OTLPEndpoint,
	})
	if err != nil {
		systemLogger.Error("tracing_init_failed", observability.F("error", err))
		os.Exit(1)
	}

	counters, histograms := prometrics.Instruments(prometrics.New("", ""))
	tel := infraobs.New(oteltrace.New(cfg.ServiceName, serviceVersion), zaplogger.Wrap(baseLogger), counters, histograms)

	st, err := openStores(ctx, cfg, systemLogger)
	if err != nil {
		systemLogger.Error("store_open_failed", observability.F("error", err))
		os.Exit(1)
	}
	defer st.close()

	bus := outbox.NewBus(nil, tel, outbox.Options{})
	bus.Start(ctx)

	ids := id.NewUUIDGenerator()
	catalogService := catalog.NewService(catalog.Deps{
		Products:  st.products,
		Movements: st.movements,
		Users:     st.users,
		Tx:        st.tx,
		IDs:       ids,
		Publisher: bus,
		Tel:       tel,
	}, catalog.Options{
		SeedStockOnCreate: cfg.SeedStockOnCreate,
		DefaultPageLimit:  cfg.PageDefaultLimit,
		MaxPageLimit:      cfg.PageMaxLimit,
	})
	salesService := sales.NewService(sales.Deps{
		Products:  st.products,
		Movements: st.movements,
		Sales:     st.sales,
		Tx:        st.tx,
		IDs:       ids,
		Numbers:   id.NewSaleNumberGenerator(),
		Publisher: bus,
		Tel:       tel,
	}, sales.Options{
		DefaultPageLimit: cfg.PageDefaultLimit,
		MaxPageLimit:     cfg.PageMaxLimit,
	})

	alertWorker := workerpresentation.NewStockAlertWorker(bus, alerts.NewEvaluateStockUseCase(cfg.LowStockThreshold, tel), tel)
	alertWorker.Start()

	handler := httppresentation.NewHandler(catalogService, salesService, tel.Logger(), tel)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler.Router())

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	go func() {
		systemLogger.Info("http_server_start", observability.F("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			systemLogger.Error("http_server_error", observability.F("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		systemLogger.Error("http_server_shutdown_error", observability.F("error", err))
	} else {
		systemLogger.Info("http_server_stopped")
	}
	bus.Stop(shutdownCtx)
	if err := shutdownTracing(shutdownCtx); err != nil {
		systemLogger.Warn("tracing_shutdown_error", observability.F("error", err))
	}
}

// openStores uses Postgres when a database URL is configured and the
// in-memory store otherwise.
func openStores(ctx context.Context, cfg config.Config, log observability.Logger) (*stores, error) {
	if cfg.DatabaseURL == "" {
		log.Info("store_selected", observability.F("store", "memory"))
		m := memory.NewStore()
		return &stores{
			products:  m.Products(),
			movements: m.Movements(),
			sales:     m.Sales(),
			users:     m.Users(),
			tx:        m,
			close:     func() {},
		}, nil
	}

	pg, err := postgres.Open(ctx, postgres.Config{
		URL:             cfg.DatabaseURL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLifetime,
	})
	if err != nil {
		return nil, err
	}
	if err := pg.Migrate(ctx); err != nil {
		pg.Close()
		return nil, err
	}
	log.Info("store_selected", observability.F("store", "postgres"))
	return &stores{
		products:  pg.Products(),
		movements: pg.Movements(),
		sales:     pg.Sales(),
		users:     pg.Users(),
		tx:        pg,
		close:     pg.Close,
	}, nil
}
