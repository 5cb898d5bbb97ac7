package invoices

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/washline/washline/internal/orders"
	"github.com/washline/washline/internal/platform/db"
	"github.com/washline/washline/internal/shared"
)

// Operation names used for metrics and logs.
const (
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
	OpResync = "resync"
)

// Recorder receives reconciliation outcomes.
type Recorder interface {
	ObserveMutation(op, result string)
	ObserveRetry(op string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveMutation(string, string) {}
func (nopRecorder) ObserveRetry(string)            {}

// ServiceConfig tunes the reconciliation service.
type ServiceConfig struct {
	// MaxAttempts bounds transaction retries after serialization conflicts.
	MaxAttempts int
	Backoff     time.Duration
	Recorder    Recorder
	Logger      *slog.Logger
}

// Service is the reconciliation engine. Every mutation runs in one
// transaction that locks the parent order, re-sums all of the order's
// invoices and writes the invoice and order ledger together.
type Service struct {
	repo     Repository
	retry    db.RetryPolicy
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewService builds Service instance.
func NewService(repo Repository, cfg ServiceConfig) *Service {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 20 * time.Millisecond
	}
	if cfg.Recorder == nil {
		cfg.Recorder = nopRecorder{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		retry:    db.RetryPolicy{Attempts: cfg.MaxAttempts, Backoff: cfg.Backoff},
		recorder: cfg.Recorder,
		logger:   cfg.Logger,
		now:      time.Now,
	}
}

// CreateInvoice records a payment against an existing order.
func (s *Service) CreateInvoice(ctx context.Context, req CreateRequest, createdBy uuid.UUID) (*Result, error) {
	inv, err := newInvoice(req)
	if err != nil {
		return nil, err
	}
	inv.CreatedBy = createdBy

	var res Result
	err = s.run(ctx, OpCreate, func(ctx context.Context, tx TxRepository) error {
		order, err := tx.LockOrder(ctx, req.OrderID)
		if err != nil {
			return err
		}
		existing, err := tx.ListByOrder(ctx, order.ID)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		created := inv
		created.ID = uuid.New()
		created.CreatedAt = now
		created.UpdatedAt = now

		ledger := Reconcile(*order, append(existing, created))
		created.Remain = ledger.Remain

		if err := tx.Create(ctx, created); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}
		if err := s.saveLedger(ctx, tx, order, ledger, now); err != nil {
			return err
		}
		res = Result{Invoice: created, Order: *order}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdateInvoice applies a partial edit and re-reconciles the parent order.
func (s *Service) UpdateInvoice(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Result, error) {
	if err := validateUpdate(req); err != nil {
		return nil, err
	}

	var res Result
	err := s.run(ctx, OpUpdate, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		order, err := tx.LockOrder(ctx, current.OrderID)
		if err != nil {
			return err
		}
		// Re-read under the order lock so a concurrent edit cannot slip in.
		current, err = tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		updated := applyUpdate(*current, req)
		updated.UpdatedAt = now

		invs, err := tx.ListByOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		ledger := Reconcile(*order, replaceByID(invs, updated))
		updated.Remain = ledger.Remain

		if err := tx.Update(ctx, updated); err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}
		if err := s.saveLedger(ctx, tx, order, ledger, now); err != nil {
			return err
		}
		res = Result{Invoice: updated, Order: *order}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// DeleteInvoice removes an invoice; every remaining sibling receives the
// recomputed order balance as its remain.
func (s *Service) DeleteInvoice(ctx context.Context, id uuid.UUID) (*DeleteResult, error) {
	var res DeleteResult
	err := s.run(ctx, OpDelete, func(ctx context.Context, tx TxRepository) error {
		current, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		order, err := tx.LockOrder(ctx, current.OrderID)
		if err != nil {
			return err
		}
		deleted, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete invoice: %w", err)
		}

		remaining, err := tx.ListByOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		now := s.now().UTC()
		ledger := Reconcile(*order, remaining)
		if len(remaining) > 0 {
			if err := tx.SetRemainForOrder(ctx, order.ID, ledger.Remain, now); err != nil {
				return fmt.Errorf("update sibling invoices: %w", err)
			}
		}
		for i := range remaining {
			remaining[i].Remain = ledger.Remain
			remaining[i].UpdatedAt = now
		}
		if err := s.saveLedger(ctx, tx, order, ledger, now); err != nil {
			return err
		}
		if remaining == nil {
			remaining = []Invoice{}
		}
		res = DeleteResult{Deleted: *deleted, Order: *order, Siblings: remaining}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ResyncOrder recomputes an order's paid amount and status from its
// invoices without mutating any invoice. It reports whether the stored
// ledger had drifted.
func (s *Service) ResyncOrder(ctx context.Context, orderID uuid.UUID) (*orders.Order, bool, error) {
	var (
		out     orders.Order
		drifted bool
	)
	err := s.run(ctx, OpResync, func(ctx context.Context, tx TxRepository) error {
		order, err := tx.LockOrder(ctx, orderID)
		if err != nil {
			return err
		}
		invs, err := tx.ListByOrder(ctx, order.ID)
		if err != nil {
			return err
		}
		ledger := Reconcile(*order, invs)
		drifted = ledger.Drifted(*order)
		if drifted {
			if err := s.saveLedger(ctx, tx, order, ledger, s.now().UTC()); err != nil {
				return err
			}
		}
		out = *order
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &out, drifted, nil
}

// GetInvoice returns one invoice.
func (s *Service) GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.repo.Get(ctx, id)
}

// ListByOrder returns an order's invoices in creation order.
func (s *Service) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]Invoice, error) {
	return s.repo.ListByOrder(ctx, orderID)
}

// DriftedOrders lists orders whose paid amount disagrees with their invoices.
func (s *Service) DriftedOrders(ctx context.Context, limit int) ([]uuid.UUID, error) {
	return s.repo.ListDriftedOrders(ctx, limit)
}

func (s *Service) saveLedger(ctx context.Context, tx TxRepository, order *orders.Order, ledger Ledger, now time.Time) error {
	if err := tx.SaveOrderLedger(ctx, order.ID, ledger.Paid, ledger.Status, now); err != nil {
		return fmt.Errorf("update order ledger: %w", err)
	}
	order.Paid = ledger.Paid
	order.Status = ledger.Status
	order.UpdatedAt = now
	return nil
}

func (s *Service) run(ctx context.Context, op string, fn func(context.Context, TxRepository) error) error {
	policy := s.retry
	policy.OnRetry = func(attempt int, err error) {
		s.recorder.ObserveRetry(op)
		s.logger.Warn("ledger conflict, retrying",
			slog.String("op", op),
			slog.Int("attempt", attempt),
			slog.Any("error", err),
		)
	}
	err := db.Retry(ctx, policy, func(ctx context.Context) error {
		return s.repo.WithTx(ctx, fn)
	})
	s.recorder.ObserveMutation(op, resultLabel(err))
	return err
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, shared.ErrNotFound):
		return "not_found"
	case errors.Is(err, shared.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, shared.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
