// Package server assembles the Plume server: storage, domain services,
// the gRPC transport and the Prometheus endpoint, and runs them until
// the process receives a termination signal.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/plume/internal/logging"
	"github.com/dmitrijs2005/plume/internal/server/config"
	"github.com/dmitrijs2005/plume/internal/server/lore"
	"github.com/dmitrijs2005/plume/internal/server/metrics"
	"github.com/dmitrijs2005/plume/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/plume/internal/server/services"
	"github.com/dmitrijs2005/plume/internal/server/symbol"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sethvargo/go-retry"

	gs "github.com/dmitrijs2005/plume/internal/server/grpc"
)

var (
	openDB = func(dsn string) (*sql.DB, error) {
		return sql.Open("pgx", dsn)
	}
	pingDB = func(ctx context.Context, db *sql.DB) error {
		return db.PingContext(ctx)
	}
	pingBackoff = func() retry.Backoff {
		return retry.WithMaxRetries(5, retry.NewExponential(200*time.Millisecond))
	}
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	services gs.Services
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	err = retry.Do(ctx, pingBackoff(), func(ctx context.Context) error {
		if err := pingDB(ctx, db); err != nil {
			logger.Warn(ctx, "database not ready", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	manager := repomanager.NewPostgresRepositoryManager()
	if err := manager.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	catalog, err := lore.Load(c.LoreCatalogPath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("lore catalog error: %w", err)
	}

	resolver, err := symbol.NewResolver(c.SymbolPolicy())
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("symbol policy error: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	opts := []services.Option{services.WithLogger(logger), services.WithMetrics(m)}
	rewards := services.NewRewardService(db, manager, c, resolver, opts...)

	svc := gs.Services{
		Users:  services.NewUserService(db, manager, c, opts...),
		Totems: services.NewTotemService(db, manager, c, opts...),
		Poems:  services.NewPoemService(db, manager, c, resolver, rewards, opts...),
		Votes:  services.NewVoteService(db, manager, c, resolver, rewards, opts...),
		Lore:   catalog,
	}

	return &App{config: c, logger: logger, db: db, registry: registry, metrics: m, services: svc}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.metrics, app.services, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(app.registry))

	srv := &http.Server{
		Addr:              app.config.EndpointAddrMetrics,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "Starting metrics server", "address", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startMetricsServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
