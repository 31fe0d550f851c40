package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sinargas/sinargas-backend/internal/domain"
	stockuc "github.com/sinargas/sinargas-backend/internal/usecase/stock"
)

type StockRepo struct {
	db *pgxpool.Pool
}

func NewStockRepo(db *pgxpool.Pool) *StockRepo {
	return &StockRepo{db: db}
}

const stockCols = `id::text, branch_id::text, gas_type, stock, created_at, updated_at`

func scanStock(row pgx.Row) (*stockuc.Entry, error) {
	var e stockuc.Entry
	var gas string
	if err := row.Scan(&e.ID, &e.BranchID, &gas, &e.Quantity, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.GasType = domain.GasType(gas)
	return &e, nil
}

// Adjust applies a signed delta in one statement so concurrent adjustments on
// the same (branch_id, gas_type) key serialize on the row and the quantity
// can never pass below zero.
func (r *StockRepo) Adjust(ctx context.Context, branchID string, gas domain.GasType, delta int) (*stockuc.Entry, error) {
	if delta > 0 {
		const q = `
INSERT INTO gas_stocks (branch_id, gas_type, stock)
VALUES ($1::uuid, $2, $3)
ON CONFLICT (branch_id, gas_type) WHERE deleted_at IS NULL
DO UPDATE SET stock = gas_stocks.stock + EXCLUDED.stock, updated_at = now()
RETURNING ` + stockCols + `;`
		return scanStock(r.db.QueryRow(ctx, q, branchID, gas.String(), delta))
	}

	const q = `
UPDATE gas_stocks
SET stock = stock + $3,
    updated_at = now()
WHERE branch_id = $1::uuid
  AND gas_type = $2
  AND deleted_at IS NULL
  AND stock + $3 >= 0
RETURNING ` + stockCols + `;`
	out, err := scanStock(r.db.QueryRow(ctx, q, branchID, gas.String(), delta))
	if errors.Is(err, pgx.ErrNoRows) {
		// row absent or quantity too low; either way the decrement is refused
		return nil, stockuc.ErrInsufficientStock
	}
	return out, err
}

func (r *StockRepo) List(ctx context.Context) ([]stockuc.Entry, error) {
	const q = `
SELECT ` + stockCols + `
FROM gas_stocks
WHERE deleted_at IS NULL
ORDER BY created_at DESC;`
	return r.listStocks(ctx, q)
}

func (r *StockRepo) ListByBranch(ctx context.Context, branchID string) ([]stockuc.Entry, error) {
	const q = `
SELECT ` + stockCols + `
FROM gas_stocks
WHERE branch_id = $1::uuid AND deleted_at IS NULL
ORDER BY gas_type;`
	return r.listStocks(ctx, q, branchID)
}

func (r *StockRepo) listStocks(ctx context.Context, q string, args ...any) ([]stockuc.Entry, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]stockuc.Entry, 0, 8)
	for rows.Next() {
		e, err := scanStock(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *StockRepo) GetByID(ctx context.Context, id string) (*stockuc.Entry, error) {
	const q = `
SELECT ` + stockCols + `
FROM gas_stocks
WHERE id = $1::uuid AND deleted_at IS NULL;`
	out, err := scanStock(r.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, stockuc.ErrNotFound
	}
	return out, err
}

func (r *StockRepo) Update(ctx context.Context, id string, gas *domain.GasType, quantity *int) (*stockuc.Entry, error) {
	const q = `
UPDATE gas_stocks
SET gas_type = COALESCE($2, gas_type),
    stock = COALESCE($3, stock),
    updated_at = now()
WHERE id = $1::uuid AND deleted_at IS NULL
RETURNING ` + stockCols + `;`
	var gasArg *string
	if gas != nil {
		s := gas.String()
		gasArg = &s
	}
	out, err := scanStock(r.db.QueryRow(ctx, q, id, gasArg, quantity))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, stockuc.ErrNotFound
	}
	return out, err
}

func (r *StockRepo) SoftDelete(ctx context.Context, id string) error {
	const q = `
UPDATE gas_stocks
SET deleted_at = now()
WHERE id = $1::uuid AND deleted_at IS NULL;`
	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return stockuc.ErrNotFound
	}
	return nil
}

func (r *StockRepo) Restore(ctx context.Context, id string) (*stockuc.Entry, error) {
	const q = `
UPDATE gas_stocks
SET deleted_at = NULL,
    updated_at = now()
WHERE id = $1::uuid AND deleted_at IS NOT NULL
RETURNING ` + stockCols + `;`
	out, err := scanStock(r.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, stockuc.ErrNotFound
	}
	return out, err
}

func (r *StockRepo) BranchExists(ctx context.Context, branchID string) (bool, error) {
	return rowExists(ctx, r.db, `SELECT 1 FROM branches WHERE id = $1::uuid AND deleted_at IS NULL`, branchID)
}

var _ stockuc.Store = (*StockRepo)(nil)
