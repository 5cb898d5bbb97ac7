package sequence

import (
	"context"
	"fmt"

	"github.com/washline/washline/internal/platform/db"
)

const nextSQL = `
	INSERT INTO sequences (name, value) VALUES ($1, 1)
	ON CONFLICT (name) DO UPDATE SET value = sequences.value + 1
	RETURNING value`

// PostgresStore keeps one row per sequence in the sequences table.
type PostgresStore struct {
	db db.DBTX
}

// NewPostgresStore builds a store over a pool or an open transaction.
func NewPostgresStore(conn db.DBTX) *PostgresStore {
	return &PostgresStore{db: conn}
}

// Next increments and returns the counter for name; the first call yields 1.
func (s *PostgresStore) Next(ctx context.Context, name string) (int64, error) {
	name, err := validateName(name)
	if err != nil {
		return 0, err
	}
	var value int64
	if err := s.db.QueryRow(ctx, nextSQL, name).Scan(&value); err != nil {
		return 0, fmt.Errorf("sequence %s: %w", name, err)
	}
	return value, nil
}
