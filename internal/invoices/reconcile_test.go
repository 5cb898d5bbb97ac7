package invoices

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/washline/washline/internal/orders"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func nd(s string) decimal.NullDecimal { return decimal.NewNullDecimal(dec(s)) }

func paidInvoice(paid string) Invoice {
	return Invoice{ID: uuid.New(), Paid: dec(paid)}
}

func TestReconcileStatusTiers(t *testing.T) {
	order := orders.Order{TotalAmount: dec("100")}

	cases := []struct {
		name   string
		invs   []Invoice
		paid   string
		remain string
		status orders.Status
	}{
		{"no invoices", nil, "0", "100", orders.StatusReceived},
		{"partial", []Invoice{paidInvoice("60")}, "60", "40", orders.StatusCompleted},
		{"exact", []Invoice{paidInvoice("60"), paidInvoice("40")}, "100", "0", orders.StatusDelivered},
		{"overpaid clamps remain", []Invoice{paidInvoice("80"), paidInvoice("40")}, "120", "0", orders.StatusDelivered},
		{"zero paid invoice", []Invoice{paidInvoice("0")}, "0", "100", orders.StatusReceived},
		{"fractional", []Invoice{paidInvoice("33.33"), paidInvoice("33.33"), paidInvoice("33.34")}, "100", "0", orders.StatusDelivered},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := Reconcile(order, tc.invs)
			require.True(t, dec(tc.paid).Equal(l.Paid), "paid %s", l.Paid)
			require.True(t, dec(tc.remain).Equal(l.Remain), "remain %s", l.Remain)
			require.Equal(t, tc.status, l.Status)
		})
	}
}

func TestReconcileZeroTotalIsDelivered(t *testing.T) {
	l := Reconcile(orders.Order{TotalAmount: decimal.Zero}, nil)
	require.Equal(t, orders.StatusDelivered, l.Status)
	require.True(t, l.Remain.IsZero())
}

func TestDriftedComparesPaidOnly(t *testing.T) {
	order := orders.Order{TotalAmount: dec("100"), Paid: dec("60"), Status: orders.StatusDelivered}
	l := Reconcile(order, []Invoice{paidInvoice("60")})
	require.False(t, l.Drifted(order), "operator status override is not drift")

	order.Paid = dec("30")
	require.True(t, l.Drifted(order))
}

func TestReplaceByIDKeepsOthers(t *testing.T) {
	a, b := paidInvoice("10"), paidInvoice("20")
	b2 := b
	b2.Paid = dec("50")

	out := replaceByID([]Invoice{a, b}, b2)
	require.Len(t, out, 2)
	require.True(t, dec("60").Equal(SumPaid(out)))
}
