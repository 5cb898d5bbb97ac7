package shared

import (
	"github.com/shopspring/decimal"
)

// AmountScale is the number of decimal places money columns store.
const AmountScale = 2

// CheckAmount rejects negative amounts and amounts finer than AmountScale.
// Trailing zeros beyond the scale are accepted.
func CheckAmount(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return InvalidInput(field, "must not be negative")
	}
	if !d.Equal(d.Truncate(AmountScale)) {
		return InvalidInput(field, "at most 2 decimal places")
	}
	return nil
}

// RequireAmount validates an optional decimal coming from a JSON payload.
func RequireAmount(field string, v decimal.NullDecimal) (decimal.Decimal, error) {
	if !v.Valid {
		return decimal.Zero, InvalidInput(field, "required")
	}
	if err := CheckAmount(field, v.Decimal); err != nil {
		return decimal.Zero, err
	}
	return v.Decimal, nil
}

// OptionalAmount returns zero for an absent value and validates present ones.
func OptionalAmount(field string, v decimal.NullDecimal) (decimal.Decimal, error) {
	if !v.Valid {
		return decimal.Zero, nil
	}
	return RequireAmount(field, v)
}
