package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the order lifecycle state.
type Status string

const (
	StatusReceived  Status = "received"
	StatusCompleted Status = "completed"
	StatusDelivered Status = "delivered"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusReceived, StatusCompleted, StatusDelivered:
		return true
	}
	return false
}

// StatusForPayment applies the payment rule: fully paid orders are delivered,
// partially paid ones completed, unpaid ones received.
func StatusForPayment(paid, total decimal.Decimal) Status {
	switch {
	case paid.GreaterThanOrEqual(total):
		return StatusDelivered
	case paid.IsPositive():
		return StatusCompleted
	default:
		return StatusReceived
	}
}

// ServiceKind is a treatment applied to a line item.
type ServiceKind string

const (
	ServiceWash   ServiceKind = "wash"
	ServiceIron   ServiceKind = "iron"
	ServiceRepair ServiceKind = "repair"
)

// Valid reports whether k is a known service.
func (k ServiceKind) Valid() bool {
	return k == ServiceWash || k == ServiceIron || k == ServiceRepair
}

// Line is one garment entry on an order.
type Line struct {
	ItemID   uuid.UUID       `json:"item"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Services []ServiceKind   `json:"service"`
}

// Order is a laundry job with its payment ledger.
type Order struct {
	ID                uuid.UUID       `json:"id"`
	Code              int64           `json:"order_code"`
	CustomerID        uuid.UUID       `json:"customer"`
	Items             []Line          `json:"items"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	Paid              decimal.Decimal `json:"paid"`
	Status            Status          `json:"status"`
	CreatedBy         uuid.UUID       `json:"createdBy"`
	EstimatedDelivery *time.Time      `json:"estimated_delivery,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// Balance is the amount still owed on the order, never negative.
func (o Order) Balance() decimal.Decimal {
	b := o.TotalAmount.Sub(o.Paid)
	if b.IsNegative() {
		return decimal.Zero
	}
	return b
}

// View is the API representation of an order.
type View struct {
	Order
	Balance decimal.Decimal `json:"balance"`
}

// NewView pairs o with its outstanding balance.
func NewView(o Order) View {
	return View{Order: o, Balance: o.Balance()}
}
