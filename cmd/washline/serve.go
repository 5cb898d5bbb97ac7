package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/spf13/cobra"

	"github.com/washline/washline/internal/app"
	"github.com/washline/washline/internal/customers"
	"github.com/washline/washline/internal/invoices"
	"github.com/washline/washline/internal/observability"
	"github.com/washline/washline/internal/orders"
	"github.com/washline/washline/internal/shared"
	"github.com/washline/washline/jobs"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.InTestMode() {
				slog.Default().Info("test mode detected, skipping runtime startup")
				return nil
			}
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d, err := loadDeps(ctx, false)
	if err != nil {
		return err
	}
	defer d.Close()
	logger := d.logger

	metrics := observability.NewMetrics()
	svc := d.services(metrics.Ledger())
	idempotency := shared.NewIdempotencyStore(d.pool)

	redisOpts := d.redisOptions().AsynqOpts()
	jobClient, err := jobs.NewClient(redisOpts)
	if err != nil {
		return err
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           d.cfg,
		CustomersHandler: customers.NewHandler(logger, svc.customers),
		OrdersHandler:    orders.NewHandler(logger, svc.orders),
		InvoicesHandler:  invoices.NewHandler(logger, svc.invoices, idempotency),
		JobHandler:       jobs.NewHandler(inspector, jobClient, logger),
		Metrics:          metrics,
		DB:               d.pool,
	})

	server := &http.Server{
		Addr:         d.cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  d.cfg.AppReadTimeout,
		WriteTimeout: d.cfg.AppWriteTimeout,
	}

	go pruneIdempotencyKeys(ctx, logger, idempotency, d.cfg.IdempotencyRetention)

	go func() {
		logger.Info("starting http server", slog.String("addr", d.cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
		return err
	}
	return nil
}

func pruneIdempotencyKeys(ctx context.Context, logger *slog.Logger, store *shared.IdempotencyStore, retention time.Duration) {
	if retention <= 0 {
		return
	}
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.Cleanup(ctx, retention); err != nil {
				logger.Warn("idempotency cleanup", slog.Any("error", err))
			}
		}
	}
}
