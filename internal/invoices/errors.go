package invoices

import (
	"github.com/washline/washline/internal/shared"
)

// NotFound reports a missing invoice.
func NotFound(id any) error {
	return shared.NotFound("invoice", id)
}
