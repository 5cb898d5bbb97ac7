package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/washline/washline/internal/platform/db"
	"github.com/washline/washline/internal/shared"
)

// Repository persists orders. Methods obtained inside WithTx run on the
// transaction.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Create(ctx context.Context, o Order) error
	Get(ctx context.Context, id uuid.UUID) (*Order, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)
	List(ctx context.Context, req ListRequest) ([]Order, int, error)
	UpdateDetails(ctx context.Context, o Order) error
	UpdateLedger(ctx context.Context, id uuid.UUID, paid decimal.Decimal, status Status, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountInvoices(ctx context.Context, id uuid.UUID) (int, error)
}

type repository struct {
	db   db.DBTX
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

// NewTxRepository binds the repository to an open transaction.
func NewTxRepository(tx pgx.Tx) Repository {
	return &repository{db: tx}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	if r.pool == nil {
		return fn(ctx, r)
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx})
	})
}

// Columns lists the order projection shared with other packages' queries.
const Columns = `id, code, customer_id, items, total_amount, paid, status, created_by, estimated_delivery, created_at, updated_at`

func (r *repository) Create(ctx context.Context, o Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO orders (id, code, customer_id, items, total_amount, paid, status, created_by, estimated_delivery, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		o.ID, o.Code, o.CustomerID, items, o.TotalAmount, o.Paid, string(o.Status),
		o.CreatedBy, o.EstimatedDelivery, o.CreatedAt, o.UpdatedAt,
	)
	return err
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	return r.get(ctx, `SELECT `+Columns+` FROM orders WHERE id = $1`, id)
}

func (r *repository) GetForUpdate(ctx context.Context, id uuid.UUID) (*Order, error) {
	return r.get(ctx, `SELECT `+Columns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *repository) get(ctx context.Context, query string, id uuid.UUID) (*Order, error) {
	o, err := Scan(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, NotFound(id)
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *repository) List(ctx context.Context, req ListRequest) ([]Order, int, error) {
	page, perPage := shared.NormalizePage(req.Page, req.PerPage)

	var conds []string
	var args []any
	if req.Status != "" {
		args = append(args, string(req.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if req.CustomerID != uuid.Nil {
		args = append(args, req.CustomerID)
		conds = append(conds, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM orders%s ORDER BY code DESC LIMIT $%d OFFSET $%d`,
		Columns, where, len(args)+1, len(args)+2)
	args = append(args, perPage, shared.Offset(page, perPage))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := Scan(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *o)
	}
	return out, total, rows.Err()
}

func (r *repository) UpdateDetails(ctx context.Context, o Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE orders
		SET items = $2, total_amount = $3, status = $4, estimated_delivery = $5, updated_at = $6
		WHERE id = $1`,
		o.ID, items, o.TotalAmount, string(o.Status), o.EstimatedDelivery, o.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return NotFound(o.ID)
	}
	return nil
}

func (r *repository) UpdateLedger(ctx context.Context, id uuid.UUID, paid decimal.Decimal, status Status, at time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE orders SET paid = $2, status = $3, updated_at = $4 WHERE id = $1`,
		id, paid, string(status), at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return NotFound(id)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return NotFound(id)
	}
	return nil
}

func (r *repository) CountInvoices(ctx context.Context, id uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE order_id = $1`, id).Scan(&n)
	return n, err
}

// Scan reads one row selected with Columns.
func Scan(row pgx.Row) (*Order, error) {
	var (
		o      Order
		items  []byte
		status string
	)
	if err := row.Scan(
		&o.ID, &o.Code, &o.CustomerID, &items, &o.TotalAmount, &o.Paid, &status,
		&o.CreatedBy, &o.EstimatedDelivery, &o.CreatedAt, &o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	o.Status = Status(status)
	if len(items) > 0 {
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("decode items: %w", err)
		}
	}
	return &o, nil
}
