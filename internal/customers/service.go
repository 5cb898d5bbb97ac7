package customers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/washline/washline/internal/sequence"
	"github.com/washline/washline/internal/shared"
)

// Service handles customer directory operations.
type Service struct {
	repo  Repository
	codes sequence.Generator
	now   func() time.Time
}

// NewService builds Service instance.
func NewService(repo Repository, codes sequence.Generator) *Service {
	return &Service{repo: repo, codes: codes, now: time.Now}
}

// Create registers a customer under the next customer_code.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, shared.InvalidInput("name", "required")
	}
	code, err := s.codes.Next(ctx, sequence.CustomerCode)
	if err != nil {
		return nil, fmt.Errorf("allocate customer code: %w", err)
	}
	now := s.now().UTC()
	c := Customer{
		ID:        uuid.New(),
		Code:      code,
		Name:      name,
		Phone:     strings.TrimSpace(req.Phone),
		Email:     strings.TrimSpace(req.Email),
		Address:   strings.TrimSpace(req.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return &c, nil
}

// Get returns a customer by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

// Exists reports whether a customer id resolves.
func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// List returns a page of customers.
func (s *Service) List(ctx context.Context, req ListRequest) ([]Customer, shared.Pagination, error) {
	items, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return items, shared.NewPagination(req.Page, req.PerPage, total), nil
}
