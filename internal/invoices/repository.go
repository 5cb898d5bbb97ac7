package invoices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/washline/washline/internal/orders"
	"github.com/washline/washline/internal/platform/db"
)

// TxRepository is the transaction-scoped view used by the reconciliation
// engine. The parent order row is always locked before any invoice row.
type TxRepository interface {
	LockOrder(ctx context.Context, id uuid.UUID) (*orders.Order, error)
	SaveOrderLedger(ctx context.Context, id uuid.UUID, paid decimal.Decimal, status orders.Status, at time.Time) error
	Get(ctx context.Context, id uuid.UUID) (*Invoice, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*Invoice, error)
	Create(ctx context.Context, inv Invoice) error
	Update(ctx context.Context, inv Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]Invoice, error)
	SetRemainForOrder(ctx context.Context, orderID uuid.UUID, remain decimal.Decimal, at time.Time) error
}

// Repository is the pool-level entry point.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	Get(ctx context.Context, id uuid.UUID) (*Invoice, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]Invoice, error)
	ListDriftedOrders(ctx context.Context, limit int) ([]uuid.UUID, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{db: tx, orders: orders.NewTxRepository(tx)})
	})
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return getInvoice(ctx, r.pool, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

func (r *repository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]Invoice, error) {
	return listByOrder(ctx, r.pool, orderID)
}

// ListDriftedOrders returns orders whose stored paid differs from the sum of
// their invoices.
func (r *repository) ListDriftedOrders(ctx context.Context, limit int) ([]uuid.UUID, error) {
	if limit <= 0 {
		limit = 500
	}
	rows, err := r.pool.Query(ctx, `
		SELECT o.id
		FROM orders o
		LEFT JOIN invoices i ON i.order_id = o.id
		GROUP BY o.id, o.paid
		HAVING o.paid <> COALESCE(SUM(i.paid), 0)
		ORDER BY o.id
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type txRepository struct {
	db     db.DBTX
	orders orders.Repository
}

func (t *txRepository) LockOrder(ctx context.Context, id uuid.UUID) (*orders.Order, error) {
	return t.orders.GetForUpdate(ctx, id)
}

func (t *txRepository) SaveOrderLedger(ctx context.Context, id uuid.UUID, paid decimal.Decimal, status orders.Status, at time.Time) error {
	return t.orders.UpdateLedger(ctx, id, paid, status, at)
}

func (t *txRepository) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return getInvoice(ctx, t.db, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

func (t *txRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return getInvoice(ctx, t.db, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id)
}

func (t *txRepository) Create(ctx context.Context, inv Invoice) error {
	_, err := t.db.Exec(ctx, `
		INSERT INTO invoices (
			id, order_id, ncf, location, total, paid, remain, itbis, discount,
			cash_amount, card_amount, bank_transfer_amount, delivery_date,
			created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		inv.ID, inv.OrderID, inv.NCF, inv.Location, inv.Total, inv.Paid, inv.Remain,
		inv.ITBIS, inv.Discount, inv.CashAmount, inv.CardAmount, inv.BankTransferAmount,
		inv.DeliveryDate, inv.CreatedBy, inv.CreatedAt, inv.UpdatedAt,
	)
	return err
}

func (t *txRepository) Update(ctx context.Context, inv Invoice) error {
	tag, err := t.db.Exec(ctx, `
		UPDATE invoices
		SET ncf = $2, location = $3, total = $4, paid = $5, remain = $6, itbis = $7,
			discount = $8, cash_amount = $9, card_amount = $10, bank_transfer_amount = $11,
			delivery_date = $12, updated_at = $13
		WHERE id = $1`,
		inv.ID, inv.NCF, inv.Location, inv.Total, inv.Paid, inv.Remain, inv.ITBIS,
		inv.Discount, inv.CashAmount, inv.CardAmount, inv.BankTransferAmount,
		inv.DeliveryDate, inv.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return NotFound(inv.ID)
	}
	return nil
}

func (t *txRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := t.db.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return NotFound(id)
	}
	return nil
}

func (t *txRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]Invoice, error) {
	return listByOrder(ctx, t.db, orderID)
}

func (t *txRepository) SetRemainForOrder(ctx context.Context, orderID uuid.UUID, remain decimal.Decimal, at time.Time) error {
	_, err := t.db.Exec(ctx, `UPDATE invoices SET remain = $2, updated_at = $3 WHERE order_id = $1`, orderID, remain, at)
	return err
}

const invoiceColumns = `id, order_id, ncf, location, total, paid, remain, itbis, discount,
	cash_amount, card_amount, bank_transfer_amount, delivery_date, created_by, created_at, updated_at`

func getInvoice(ctx context.Context, conn db.DBTX, query string, id uuid.UUID) (*Invoice, error) {
	inv, err := scanInvoice(conn.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, NotFound(id)
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func listByOrder(ctx context.Context, conn db.DBTX, orderID uuid.UUID) ([]Invoice, error) {
	rows, err := conn.Query(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE order_id = $1 ORDER BY created_at, id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var out []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *inv)
	}
	return out, rows.Err()
}

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	if err := row.Scan(
		&inv.ID, &inv.OrderID, &inv.NCF, &inv.Location, &inv.Total, &inv.Paid, &inv.Remain,
		&inv.ITBIS, &inv.Discount, &inv.CashAmount, &inv.CardAmount, &inv.BankTransferAmount,
		&inv.DeliveryDate, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &inv, nil
}
