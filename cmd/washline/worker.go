package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/washline/washline/internal/app"
	jobmetrics "github.com/washline/washline/internal/jobs"
	"github.com/washline/washline/internal/observability"
	"github.com/washline/washline/jobs"
)

func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the background job worker and scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.InTestMode() {
				slog.Default().Info("test mode detected, skipping worker startup")
				return nil
			}
			return runWorker(cmd.Context())
		},
	}
}

func runWorker(parent context.Context) error {
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
	auditJob := jobs.NewReconcileAuditJob(svc.invoices, logger, jobmetrics.NewMetrics(metrics.Registerer()))

	auditTask, err := jobs.NewReconcileAuditTask(jobs.ReconcileAuditPayload{Limit: d.cfg.ReconcileAuditLimit})
	if err != nil {
		return err
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   d.redisOptions().AsynqOpts(),
		Logger:      logger,
		Concurrency: d.cfg.WorkerConcurrency,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskReconcileAudit, Handler: auditJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: d.cfg.ReconcileAuditCron, Task: auditTask},
		},
	})
	if err != nil {
		return err
	}

	metricsServer := &http.Server{
		Addr:              d.cfg.WorkerMetricsAddr,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("starting worker metrics", slog.String("addr", d.cfg.WorkerMetricsAddr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("worker metrics server", slog.Any("error", err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
