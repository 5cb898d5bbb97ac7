package invoices

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/washline/washline/internal/shared"
)

func newInvoice(req CreateRequest) (Invoice, error) {
	if req.OrderID == uuid.Nil {
		return Invoice{}, shared.InvalidInput("order", "required")
	}
	inv := Invoice{
		OrderID:      req.OrderID,
		NCF:          req.NCF,
		Location:     req.Location,
		DeliveryDate: req.DeliveryDate,
	}
	var err error
	if inv.Total, err = shared.RequireAmount("total", req.Total); err != nil {
		return Invoice{}, err
	}
	if inv.Paid, err = shared.RequireAmount("paid", req.Paid); err != nil {
		return Invoice{}, err
	}
	optional := []struct {
		field string
		src   decimal.NullDecimal
		dst   *decimal.Decimal
	}{
		{"itbis", req.ITBIS, &inv.ITBIS},
		{"discount", req.Discount, &inv.Discount},
		{"cash_amount", req.CashAmount, &inv.CashAmount},
		{"card_amount", req.CardAmount, &inv.CardAmount},
		{"bank_tranfer_amount", req.BankTransferAmount, &inv.BankTransferAmount},
	}
	for _, o := range optional {
		v, err := shared.OptionalAmount(o.field, o.src)
		if err != nil {
			return Invoice{}, err
		}
		*o.dst = v
	}
	return inv, nil
}

func validateUpdate(req UpdateRequest) error {
	fields := []struct {
		name string
		v    decimal.NullDecimal
	}{
		{"total", req.Total},
		{"paid", req.Paid},
		{"itbis", req.ITBIS},
		{"discount", req.Discount},
		{"cash_amount", req.CashAmount},
		{"card_amount", req.CardAmount},
		{"bank_tranfer_amount", req.BankTransferAmount},
	}
	for _, f := range fields {
		if _, err := shared.OptionalAmount(f.name, f.v); err != nil {
			return err
		}
	}
	return nil
}

func applyUpdate(inv Invoice, req UpdateRequest) Invoice {
	set := func(dst *decimal.Decimal, v decimal.NullDecimal) {
		if v.Valid {
			*dst = v.Decimal
		}
	}
	set(&inv.Total, req.Total)
	set(&inv.Paid, req.Paid)
	set(&inv.ITBIS, req.ITBIS)
	set(&inv.Discount, req.Discount)
	set(&inv.CashAmount, req.CashAmount)
	set(&inv.CardAmount, req.CardAmount)
	set(&inv.BankTransferAmount, req.BankTransferAmount)
	if req.NCF != nil {
		inv.NCF = *req.NCF
	}
	if req.Location != nil {
		inv.Location = *req.Location
	}
	if req.DeliveryDate != nil {
		inv.DeliveryDate = req.DeliveryDate
	}
	return inv
}
