package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sinargas/sinargas-backend/internal/domain"
	orderuc "github.com/sinargas/sinargas-backend/internal/usecase/order"
)

type OrderRepo struct {
	db *pgxpool.Pool
}

func NewOrderRepo(db *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{db: db}
}

const orderCols = `id::text, user_id::text, branch_id::text, gas_type, quantity, total_price::text, status, pickup_date, created_at, updated_at`

func scanOrder(row pgx.Row) (*orderuc.Order, error) {
	var o orderuc.Order
	var gas, status, total string
	var pickup *time.Time
	if err := row.Scan(&o.ID, &o.UserID, &o.BranchID, &gas, &o.Quantity, &total, &status, &pickup, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.GasType = domain.GasType(gas)
	o.Status = orderuc.Status(status)
	o.TotalPrice = mustDecimal(total)
	o.PickupDate = pickup
	return &o, nil
}

// Create runs the stock check-and-decrement and the order insert in one
// database transaction. If the decrement is refused nothing is persisted.
func (r *OrderRepo) Create(ctx context.Context, o *orderuc.Order) (*orderuc.Order, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ok, err := rowExists(ctx, tx, `SELECT 1 FROM users WHERE id = $1::uuid AND deleted_at IS NULL`, o.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, orderuc.ErrUserMissing
	}

	ok, err = rowExists(ctx, tx, `SELECT 1 FROM branches WHERE id = $1::uuid AND deleted_at IS NULL`, o.BranchID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, orderuc.ErrBranchMissing
	}

	const deduct = `
UPDATE gas_stocks
SET stock = stock - $3,
    updated_at = now()
WHERE branch_id = $1::uuid
  AND gas_type = $2
  AND deleted_at IS NULL
  AND stock >= $3;`
	ct, err := tx.Exec(ctx, deduct, o.BranchID, o.GasType.String(), o.Quantity)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, orderuc.ErrInsufficientStock
	}

	const insert = `
INSERT INTO orders (user_id, branch_id, gas_type, quantity, total_price, status, pickup_date)
VALUES ($1::uuid, $2::uuid, $3, $4, $5::numeric, $6, $7)
RETURNING ` + orderCols + `;`
	out, err := scanOrder(tx.QueryRow(ctx, insert,
		o.UserID, o.BranchID, o.GasType.String(), o.Quantity,
		o.TotalPrice.StringFixed(2), string(o.Status), o.PickupDate))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*orderuc.Order, error) {
	const q = `
SELECT ` + orderCols + `
FROM orders
WHERE id = $1::uuid AND deleted_at IS NULL;`
	out, err := scanOrder(r.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, orderuc.ErrNotFound
	}
	return out, err
}

func (r *OrderRepo) List(ctx context.Context) ([]orderuc.Order, error) {
	const q = `
SELECT ` + orderCols + `
FROM orders
WHERE deleted_at IS NULL
ORDER BY created_at DESC;`
	return r.listOrders(ctx, q)
}

func (r *OrderRepo) ListByBranch(ctx context.Context, branchID string) ([]orderuc.Order, error) {
	const q = `
SELECT ` + orderCols + `
FROM orders
WHERE branch_id = $1::uuid AND deleted_at IS NULL
ORDER BY created_at DESC;`
	return r.listOrders(ctx, q, branchID)
}

func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]orderuc.Order, error) {
	const q = `
SELECT ` + orderCols + `
FROM orders
WHERE user_id = $1::uuid AND deleted_at IS NULL
ORDER BY created_at DESC;`
	return r.listOrders(ctx, q, userID)
}

func (r *OrderRepo) listOrders(ctx context.Context, q string, args ...any) ([]orderuc.Order, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]orderuc.Order, 0, 16)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// UpdateStatus is conditional on the expected current status, so two racing
// transitions cannot both win.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, from, to orderuc.Status) (*orderuc.Order, error) {
	const q = `
UPDATE orders
SET status = $3,
    updated_at = now()
WHERE id = $1::uuid AND status = $2 AND deleted_at IS NULL
RETURNING ` + orderCols + `;`
	out, err := scanOrder(r.db.QueryRow(ctx, q, id, string(from), string(to)))
	if errors.Is(err, pgx.ErrNoRows) {
		ok, exErr := rowExists(ctx, r.db, `SELECT 1 FROM orders WHERE id = $1::uuid AND deleted_at IS NULL`, id)
		if exErr != nil {
			return nil, exErr
		}
		if !ok {
			return nil, orderuc.ErrNotFound
		}
		return nil, orderuc.ErrInvalidTransition
	}
	return out, err
}

func (r *OrderRepo) UpdatePickupDate(ctx context.Context, id string, pickup *time.Time) (*orderuc.Order, error) {
	const q = `
UPDATE orders
SET pickup_date = $2,
    updated_at = now()
WHERE id = $1::uuid AND deleted_at IS NULL
RETURNING ` + orderCols + `;`
	out, err := scanOrder(r.db.QueryRow(ctx, q, id, pickup))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, orderuc.ErrNotFound
	}
	return out, err
}

func (r *OrderRepo) SoftDelete(ctx context.Context, id string) error {
	const q = `
UPDATE orders
SET deleted_at = now()
WHERE id = $1::uuid AND deleted_at IS NULL;`
	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return orderuc.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) Restore(ctx context.Context, id string) (*orderuc.Order, error) {
	const q = `
UPDATE orders
SET deleted_at = NULL,
    updated_at = now()
WHERE id = $1::uuid AND deleted_at IS NOT NULL
RETURNING ` + orderCols + `;`
	out, err := scanOrder(r.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, orderuc.ErrNotFound
	}
	return out, err
}

var _ orderuc.Store = (*OrderRepo)(nil)
