package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineInput is a requested order line.
type LineInput struct {
	ItemID   uuid.UUID           `json:"item" validate:"required"`
	Quantity int                 `json:"quantity" validate:"required,gt=0"`
	Price    decimal.NullDecimal `json:"price"`
	Services []ServiceKind       `json:"service"`
}

// CreateRequest carries the fields for a new order.
type CreateRequest struct {
	CustomerID        uuid.UUID           `json:"customer" validate:"required"`
	Items             []LineInput         `json:"items" validate:"dive"`
	TotalAmount       decimal.NullDecimal `json:"totalAmount"`
	EstimatedDelivery *time.Time          `json:"estimated_delivery"`
}

// UpdateRequest is a partial order edit. Status, when present, is an operator
// override applied regardless of payment state.
type UpdateRequest struct {
	Items             *[]LineInput        `json:"items"`
	TotalAmount       decimal.NullDecimal `json:"totalAmount"`
	EstimatedDelivery *time.Time          `json:"estimated_delivery"`
	Status            *Status             `json:"status"`
}

// ListRequest filters order listings.
type ListRequest struct {
	Status     Status
	CustomerID uuid.UUID
	Page       int
	PerPage    int
}
