package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/washline/washline/internal/sequence"
	"github.com/washline/washline/internal/shared"
)

// CustomerDirectory resolves customer references.
type CustomerDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service provides business logic for orders. The paid field is owned by
// the invoice reconciliation engine and never written here.
type Service struct {
	repo      Repository
	customers CustomerDirectory
	codes     sequence.Generator
	now       func() time.Time
}

// NewService creates a new service.
func NewService(repo Repository, customers CustomerDirectory, codes sequence.Generator) *Service {
	return &Service{repo: repo, customers: customers, codes: codes, now: time.Now}
}

// Create registers a new order in the received state under the next order_code.
func (s *Service) Create(ctx context.Context, req CreateRequest, createdBy uuid.UUID) (*Order, error) {
	if req.CustomerID == uuid.Nil {
		return nil, shared.InvalidInput("customer", "required")
	}
	total, err := shared.RequireAmount("totalAmount", req.TotalAmount)
	if err != nil {
		return nil, err
	}
	lines, err := buildLines(req.Items)
	if err != nil {
		return nil, err
	}

	ok, err := s.customers.Exists(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("lookup customer: %w", err)
	}
	if !ok {
		return nil, shared.NotFound("customer", req.CustomerID)
	}

	code, err := s.codes.Next(ctx, sequence.OrderCode)
	if err != nil {
		return nil, fmt.Errorf("allocate order code: %w", err)
	}

	now := s.now().UTC()
	o := Order{
		ID:                uuid.New(),
		Code:              code,
		CustomerID:        req.CustomerID,
		Items:             lines,
		TotalAmount:       total,
		Status:            StatusReceived,
		CreatedBy:         createdBy,
		EstimatedDelivery: req.EstimatedDelivery,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return &o, nil
}

// Get returns an order by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	return s.repo.Get(ctx, id)
}

// List returns a page of orders.
func (s *Service) List(ctx context.Context, req ListRequest) ([]Order, shared.Pagination, error) {
	if req.Status != "" && !req.Status.Valid() {
		return nil, shared.Pagination{}, shared.InvalidInput("status", fmt.Sprintf("unknown status %q", req.Status))
	}
	items, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(req.Page, req.PerPage, total), nil
}

// Update edits order details. A new totalAmount re-derives the status from
// the stored paid amount; an explicit status overrides that.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Order, error) {
	if err := ValidateUpdateRequest(req); err != nil {
		return nil, err
	}
	var lines []Line
	if req.Items != nil {
		var err error
		if lines, err = buildLines(*req.Items); err != nil {
			return nil, err
		}
	}

	var updated *Order
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx Repository) error {
		o, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req.Items != nil {
			o.Items = lines
		}
		if req.EstimatedDelivery != nil {
			o.EstimatedDelivery = req.EstimatedDelivery
		}
		if req.TotalAmount.Valid {
			o.TotalAmount = req.TotalAmount.Decimal
			o.Status = StatusForPayment(o.Paid, o.TotalAmount)
		}
		if req.Status != nil {
			o.Status = *req.Status
		}
		o.UpdatedAt = s.now().UTC()
		if err := tx.UpdateDetails(ctx, *o); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an order that has no invoices.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx Repository) error {
		if _, err := tx.GetForUpdate(ctx, id); err != nil {
			return err
		}
		n, err := tx.CountInvoices(ctx, id)
		if err != nil {
			return fmt.Errorf("count invoices: %w", err)
		}
		if n > 0 {
			return ErrHasInvoices
		}
		return tx.Delete(ctx, id)
	})
}
