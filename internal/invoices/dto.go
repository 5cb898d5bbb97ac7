package invoices

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateRequest records a payment against an order. Total and Paid are
// required; the remaining amounts are informational.
type CreateRequest struct {
	OrderID            uuid.UUID           `json:"order" validate:"required"`
	Total              decimal.NullDecimal `json:"total"`
	Paid               decimal.NullDecimal `json:"paid"`
	NCF                string              `json:"ncf" validate:"max=64"`
	Location           string              `json:"location" validate:"max=120"`
	ITBIS              decimal.NullDecimal `json:"itbis"`
	Discount           decimal.NullDecimal `json:"discount"`
	CashAmount         decimal.NullDecimal `json:"cash_amount"`
	CardAmount         decimal.NullDecimal `json:"card_amount"`
	BankTransferAmount decimal.NullDecimal `json:"bank_tranfer_amount"`
	DeliveryDate       *time.Time          `json:"delivery_date"`
}

// UpdateRequest is a partial invoice edit; absent fields are left unchanged.
type UpdateRequest struct {
	Total              decimal.NullDecimal `json:"total"`
	Paid               decimal.NullDecimal `json:"paid"`
	NCF                *string             `json:"ncf" validate:"omitempty,max=64"`
	Location           *string             `json:"location" validate:"omitempty,max=120"`
	ITBIS              decimal.NullDecimal `json:"itbis"`
	Discount           decimal.NullDecimal `json:"discount"`
	CashAmount         decimal.NullDecimal `json:"cash_amount"`
	CardAmount         decimal.NullDecimal `json:"card_amount"`
	BankTransferAmount decimal.NullDecimal `json:"bank_tranfer_amount"`
	DeliveryDate       *time.Time          `json:"delivery_date"`
}
