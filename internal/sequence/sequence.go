// Package sequence issues human-facing sequential codes such as order and
// customer numbers. Counters live in the backing store; nothing is cached in
// process memory, so every call is a single atomic increment-and-read.
package sequence

import (
	"context"
	"strings"

	"github.com/washline/washline/internal/shared"
)

// Well-known sequence names.
const (
	OrderCode    = "order_code"
	CustomerCode = "customer_code"
)

// Generator hands out strictly increasing values per sequence name.
type Generator interface {
	Next(ctx context.Context, name string) (int64, error)
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", shared.InvalidInput("sequence", "name required")
	}
	return name, nil
}
