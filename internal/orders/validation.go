package orders

import (
	"fmt"

	"github.com/washline/washline/internal/shared"
)

func buildLines(inputs []LineInput) ([]Line, error) {
	lines := make([]Line, 0, len(inputs))
	for i, in := range inputs {
		field := fmt.Sprintf("items[%d]", i)
		if in.Quantity <= 0 {
			return nil, shared.InvalidInput(field+".quantity", "must be greater than zero")
		}
		price, err := shared.RequireAmount(field+".price", in.Price)
		if err != nil {
			return nil, err
		}
		seen := make(map[ServiceKind]bool, len(in.Services))
		services := make([]ServiceKind, 0, len(in.Services))
		for _, s := range in.Services {
			if !s.Valid() {
				return nil, shared.InvalidInput(field+".service", fmt.Sprintf("unknown service %q", s))
			}
			if seen[s] {
				continue
			}
			seen[s] = true
			services = append(services, s)
		}
		lines = append(lines, Line{
			ItemID:   in.ItemID,
			Quantity: in.Quantity,
			Price:    price,
			Services: services,
		})
	}
	return lines, nil
}

// ValidateUpdateRequest rejects malformed partial edits before any lookup.
func ValidateUpdateRequest(req UpdateRequest) error {
	if req.Status != nil && !req.Status.Valid() {
		return shared.InvalidInput("status", fmt.Sprintf("unknown status %q", *req.Status))
	}
	if _, err := shared.OptionalAmount("totalAmount", req.TotalAmount); err != nil {
		return err
	}
	return nil
}
