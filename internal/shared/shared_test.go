package shared

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestTaxonomyMatchesSentinels(t *testing.T) {
	nf := NotFound("order", "abc")
	require.ErrorIs(t, nf, ErrNotFound)
	require.EqualError(t, nf, "order abc not found")

	var typed *NotFoundError
	require.True(t, errors.As(nf, &typed))
	require.Equal(t, "order", typed.Entity)

	inv := InvalidInput("paid", "must be numeric")
	require.ErrorIs(t, inv, ErrInvalidInput)
	require.NotErrorIs(t, inv, ErrNotFound)
}

func TestCheckAmountScale(t *testing.T) {
	for _, raw := range []string{"0", "100", "100.5", "100.50", "100.500"} {
		require.NoError(t, CheckAmount("paid", decimal.RequireFromString(raw)), raw)
	}
	for _, raw := range []string{"99.996", "0.001", "-1"} {
		err := CheckAmount("paid", decimal.RequireFromString(raw))
		require.ErrorIs(t, err, ErrInvalidInput, raw)
		var invalid *InvalidInputError
		require.ErrorAs(t, err, &invalid)
		require.Equal(t, "paid", invalid.Field)
	}
}

func TestRequireAmount(t *testing.T) {
	_, err := RequireAmount("paid", decimal.NullDecimal{})
	require.ErrorIs(t, err, ErrInvalidInput)

	v, err := OptionalAmount("discount", decimal.NullDecimal{})
	require.NoError(t, err)
	require.True(t, v.IsZero())

	_, err = OptionalAmount("discount", decimal.NewNullDecimal(decimal.NewFromInt(-5)))
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestPagination(t *testing.T) {
	p := NewPagination(0, 0, 45)
	require.Equal(t, 1, p.Page)
	require.Equal(t, 20, p.PerPage)
	require.Equal(t, 3, p.TotalPages)
	require.Equal(t, 40, Offset(3, 20))
	_, per := NormalizePage(1, 1000)
	require.Equal(t, 100, per)
}

type fakeExecer struct {
	keys map[string]bool
}

func (f *fakeExecer) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	key := args[0].(string) + "/" + args[1].(string)
	if len(args) == 3 {
		if f.keys[key] {
			return pgconn.CommandTag{}, &pgconn.PgError{Code: "23505"}
		}
		f.keys[key] = true
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	}
	delete(f.keys, key)
	return pgconn.NewCommandTag("DELETE 1"), nil
}

func TestIdempotencyClaim(t *testing.T) {
	store := NewIdempotencyStore(&fakeExecer{keys: map[string]bool{}})
	ctx := context.Background()

	require.NoError(t, store.Claim(ctx, "invoices", "k1"))
	err := store.Claim(ctx, "invoices", "k1")
	require.ErrorIs(t, err, ErrIdempotencyConflict)
	require.ErrorIs(t, err, ErrConflict)

	require.NoError(t, store.Release(ctx, "invoices", "k1"))
	require.NoError(t, store.Claim(ctx, "invoices", "k1"))

	require.ErrorIs(t, store.Claim(ctx, "invoices", ""), ErrInvalidInput)
}
