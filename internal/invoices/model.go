package invoices

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/washline/washline/internal/orders"
)

// Invoice is one payment record against an order.
type Invoice struct {
	ID       uuid.UUID       `json:"id"`
	OrderID  uuid.UUID       `json:"order"`
	NCF      string          `json:"ncf"`
	Location string          `json:"location"`
	Total    decimal.Decimal `json:"total"`
	Paid     decimal.Decimal `json:"paid"`
	// Remain is the order balance as of this invoice's last recompute.
	Remain   decimal.Decimal `json:"remain"`
	ITBIS    decimal.Decimal `json:"itbis"`
	Discount decimal.Decimal `json:"discount"`

	CashAmount         decimal.Decimal `json:"cash_amount"`
	CardAmount         decimal.Decimal `json:"card_amount"`
	BankTransferAmount decimal.Decimal `json:"bank_tranfer_amount"`

	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
	CreatedBy    uuid.UUID  `json:"createdBy"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Result is returned by create and update.
type Result struct {
	Invoice Invoice      `json:"invoice"`
	Order   orders.Order `json:"order"`
}

// DeleteResult carries the removed invoice and the recomputed aggregate.
type DeleteResult struct {
	Deleted  Invoice      `json:"deleted"`
	Order    orders.Order `json:"order"`
	Siblings []Invoice    `json:"invoices"`
}
