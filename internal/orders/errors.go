package orders

import (
	"fmt"

	"github.com/washline/washline/internal/shared"
)

// Domain errors for orders.
var (
	// ErrHasInvoices blocks deleting an order that still carries payments.
	ErrHasInvoices = fmt.Errorf("%w: order has invoices", shared.ErrConflict)
)

// NotFound reports a missing order.
func NotFound(id any) error {
	return shared.NotFound("order", id)
}
