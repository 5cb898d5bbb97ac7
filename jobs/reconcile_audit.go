package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	jobmetrics "github.com/washline/washline/internal/jobs"
	"github.com/washline/washline/internal/orders"
)

const defaultAuditLimit = 500

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// LedgerResyncer is the reconciliation surface the audit depends on.
type LedgerResyncer interface {
	DriftedOrders(ctx context.Context, limit int) ([]uuid.UUID, error)
	ResyncOrder(ctx context.Context, orderID uuid.UUID) (*orders.Order, bool, error)
}

// AuditReport summarises one audit run.
type AuditReport struct {
	Scanned  int         `json:"scanned"`
	Repaired []uuid.UUID `json:"repaired"`
	Failed   []uuid.UUID `json:"failed"`
	DryRun   bool        `json:"dry_run"`
}

// ReconcileAuditJob repairs orders whose paid amount no longer matches the
// sum of their invoices.
type ReconcileAuditJob struct {
	Ledger  LedgerResyncer
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewReconcileAuditJob wires dependencies for the audit handler.
func NewReconcileAuditJob(ledger LedgerResyncer, logger *slog.Logger, metrics *jobmetrics.Metrics) *ReconcileAuditJob {
	return &ReconcileAuditJob{
		Ledger:  ledger,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes TaskReconcileAudit tasks.
func (j *ReconcileAuditJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("reconcile audit: handler not configured")
	}
	var payload ReconcileAuditPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	_, err := j.Run(ctx, payload)
	return err
}

// Run executes one audit pass. Individual order failures are reported but do
// not abort the pass; only a failed drift scan fails the run.
func (j *ReconcileAuditJob) Run(ctx context.Context, payload ReconcileAuditPayload) (report AuditReport, resultErr error) {
	if j.Ledger == nil {
		return report, errors.New("reconcile audit: ledger not configured")
	}
	if payload.Limit <= 0 {
		payload.Limit = defaultAuditLimit
	}
	report.DryRun = payload.DryRun

	start := j.now()
	tracker := j.metrics().Track(TaskReconcileAudit)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.Int("limit", payload.Limit), slog.Bool("dry_run", payload.DryRun))
	logger.Info("starting reconcile audit")

	ids, err := j.Ledger.DriftedOrders(ctx, payload.Limit)
	if err != nil {
		logger.Error("drift scan failed", slog.Any("error", err))
		return report, err
	}
	report.Scanned = len(ids)

	if payload.DryRun {
		for _, id := range ids {
			logger.Warn("ledger drift detected", slog.String("order_id", id.String()))
		}
		j.metrics().AddDrift("detected", len(ids))
		return report, nil
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		order, changed, err := j.Ledger.ResyncOrder(ctx, id)
		if err != nil {
			logger.Error("resync order failed", slog.String("order_id", id.String()), slog.Any("error", err))
			report.Failed = append(report.Failed, id)
			continue
		}
		if !changed {
			continue
		}
		logger.Warn("ledger drift repaired",
			slog.String("order_id", id.String()),
			slog.String("paid", order.Paid.String()),
			slog.String("status", string(order.Status)),
		)
		report.Repaired = append(report.Repaired, id)
	}
	j.metrics().AddDrift("repaired", len(report.Repaired))
	j.metrics().AddDrift("failed", len(report.Failed))

	logger.Info("completed reconcile audit",
		slog.Int("scanned", report.Scanned),
		slog.Int("repaired", len(report.Repaired)),
		slog.Int("failed", len(report.Failed)),
		slog.Duration("duration", time.Since(start)),
	)
	return report, nil
}

func (j *ReconcileAuditJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskReconcileAudit))
	}
	return slog.Default().With(slog.String("job", TaskReconcileAudit))
}

func (j *ReconcileAuditJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *ReconcileAuditJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
