package invoices

import (
	"github.com/shopspring/decimal"

	"github.com/washline/washline/internal/orders"
)

// Ledger is the outcome of reconciling an order against its invoices.
type Ledger struct {
	Paid   decimal.Decimal
	Remain decimal.Decimal
	Status orders.Status
}

// SumPaid totals the paid amount across invoices.
func SumPaid(invs []Invoice) decimal.Decimal {
	sum := decimal.Zero
	for _, inv := range invs {
		sum = sum.Add(inv.Paid)
	}
	return sum
}

// Reconcile recomputes the order ledger from the authoritative invoice set.
// The order's totalAmount is the single source of the amount due.
func Reconcile(order orders.Order, invs []Invoice) Ledger {
	settled := order
	settled.Paid = SumPaid(invs)
	return Ledger{
		Paid:   settled.Paid,
		Remain: settled.Balance(),
		Status: orders.StatusForPayment(settled.Paid, settled.TotalAmount),
	}
}

// Drifted reports whether the stored paid amount disagrees with l. Status
// alone is not compared since operators may override it.
func (l Ledger) Drifted(order orders.Order) bool {
	return !order.Paid.Equal(l.Paid)
}

func replaceByID(invs []Invoice, updated Invoice) []Invoice {
	out := make([]Invoice, 0, len(invs))
	for _, inv := range invs {
		if inv.ID == updated.ID {
			continue
		}
		out = append(out, inv)
	}
	return append(out, updated)
}
