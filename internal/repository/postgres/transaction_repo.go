package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	payuc "github.com/sinargas/sinargas-backend/internal/usecase/payment"
)

type TransactionRepo struct {
	db *pgxpool.Pool
}

func NewTransactionRepo(db *pgxpool.Pool) *TransactionRepo {
	return &TransactionRepo{db: db}
}

const trxCols = `id::text, order_id::text, user_id::text, payment_method, status, amount_paid::text, gateway_order_id, created_at, updated_at`

func scanTrx(row pgx.Row) (*payuc.Transaction, error) {
	var t payuc.Transaction
	var method, status, amount string
	var ref *string
	if err := row.Scan(&t.ID, &t.OrderID, &t.UserID, &method, &status, &amount, &ref, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Method = payuc.Method(method)
	t.Status = payuc.Status(status)
	t.AmountPaid = mustDecimal(amount)
	t.GatewayOrderID = ref
	return &t, nil
}

func (r *TransactionRepo) OrderSummary(ctx context.Context, orderID string) (*payuc.OrderInfo, error) {
	const q = `
SELECT id::text, user_id::text, branch_id::text, total_price::text, status
FROM orders
WHERE id = $1::uuid AND deleted_at IS NULL;`
	var info payuc.OrderInfo
	var total string
	err := r.db.QueryRow(ctx, q, orderID).Scan(&info.ID, &info.UserID, &info.BranchID, &total, &info.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, payuc.ErrOrderMissing
	}
	if err != nil {
		return nil, err
	}
	info.TotalPrice = mustDecimal(total)
	info.Completed = info.Status == "completed"
	return &info, nil
}

func (r *TransactionRepo) UserContact(ctx context.Context, userID string) (*payuc.Contact, error) {
	const q = `
SELECT name, email
FROM users
WHERE id = $1::uuid AND deleted_at IS NULL;`
	var c payuc.Contact
	err := r.db.QueryRow(ctx, q, userID).Scan(&c.Name, &c.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, payuc.ErrUserMissing
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *TransactionRepo) HasActiveTransaction(ctx context.Context, orderID string) (bool, error) {
	const q = `
SELECT 1
FROM transactions
WHERE order_id = $1::uuid AND status <> 'failed' AND deleted_at IS NULL
LIMIT 1;`
	return rowExists(ctx, r.db, q, orderID)
}

// CreatePaid inserts an already-settled transaction and completes the owning
// order in the same database transaction.
func (r *TransactionRepo) CreatePaid(ctx context.Context, t *payuc.Transaction) (*payuc.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	out, err := insertTransaction(ctx, tx, t)
	if err != nil {
		return nil, err
	}
	if err := completeOrder(ctx, tx, t.OrderID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TransactionRepo) CreatePending(ctx context.Context, t *payuc.Transaction) (*payuc.Transaction, error) {
	return insertTransaction(ctx, r.db, t)
}

func insertTransaction(ctx context.Context, q queryer, t *payuc.Transaction) (*payuc.Transaction, error) {
	const sql = `
INSERT INTO transactions (order_id, user_id, payment_method, status, amount_paid, gateway_order_id)
VALUES ($1::uuid, $2::uuid, $3, $4, $5::numeric, $6)
RETURNING ` + trxCols + `;`
	out, err := scanTrx(q.QueryRow(ctx, sql,
		t.OrderID, t.UserID, string(t.Method), string(t.Status),
		t.AmountPaid.StringFixed(2), t.GatewayOrderID))
	if isUniqueViolation(err) {
		return nil, payuc.ErrPaymentInProgress
	}
	return out, err
}

// completeOrder cascades a settled payment. Already-completed orders are a
// no-op so webhook replays stay idempotent; any other terminal state aborts
// the enclosing transaction.
func completeOrder(ctx context.Context, tx pgx.Tx, orderID string) error {
	const q = `
UPDATE orders
SET status = 'completed',
    updated_at = now()
WHERE id = $1::uuid
  AND status IN ('pending', 'approved')
  AND deleted_at IS NULL;`
	ct, err := tx.Exec(ctx, q, orderID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 1 {
		return nil
	}

	var status string
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1::uuid AND deleted_at IS NULL`, orderID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return payuc.ErrOrderMissing
	}
	if err != nil {
		return err
	}
	if status == "completed" {
		return nil
	}
	return payuc.ErrAlreadyProcessed
}

func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*payuc.Transaction, error) {
	const q = `
SELECT ` + trxCols + `
FROM transactions
WHERE id = $1::uuid AND deleted_at IS NULL;`
	out, err := scanTrx(r.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, payuc.ErrNotFound
	}
	return out, err
}

func (r *TransactionRepo) GetByGatewayRef(ctx context.Context, ref string) (*payuc.Transaction, error) {
	const q = `
SELECT ` + trxCols + `
FROM transactions
WHERE gateway_order_id = $1 AND deleted_at IS NULL;`
	out, err := scanTrx(r.db.QueryRow(ctx, q, ref))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, payuc.ErrNotFound
	}
	return out, err
}

// MarkPaid settles a pending transaction and completes its order in one
// database transaction. The status guard keeps the write monotonic: a
// transaction that already left pending is reported as ErrAlreadyProcessed.
func (r *TransactionRepo) MarkPaid(ctx context.Context, id string, method *payuc.Method, amount *decimal.Decimal) (*payuc.Transaction, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const q = `
UPDATE transactions
SET status = 'paid',
    payment_method = COALESCE($2, payment_method),
    amount_paid = COALESCE($3::numeric, amount_paid),
    updated_at = now()
WHERE id = $1::uuid AND status = 'pending' AND deleted_at IS NULL
RETURNING ` + trxCols + `;`

	var methodArg, amountArg *string
	if method != nil {
		s := string(*method)
		methodArg = &s
	}
	if amount != nil {
		s := amount.StringFixed(2)
		amountArg = &s
	}

	out, err := scanTrx(tx.QueryRow(ctx, q, id, methodArg, amountArg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.pendingGuardError(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	if err := completeOrder(ctx, tx, out.OrderID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkFailed moves a pending transaction to failed; the order is untouched.
func (r *TransactionRepo) MarkFailed(ctx context.Context, id string) (*payuc.Transaction, error) {
	const q = `
UPDATE transactions
SET status = 'failed',
    updated_at = now()
WHERE id = $1::uuid AND status = 'pending' AND deleted_at IS NULL
RETURNING ` + trxCols + `;`
	out, err := scanTrx(r.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.pendingGuardError(ctx, id)
	}
	return out, err
}

func (r *TransactionRepo) pendingGuardError(ctx context.Context, id string) error {
	ok, err := rowExists(ctx, r.db, `SELECT 1 FROM transactions WHERE id = $1::uuid AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if !ok {
		return payuc.ErrNotFound
	}
	return payuc.ErrAlreadyProcessed
}

func (r *TransactionRepo) List(ctx context.Context) ([]payuc.Transaction, error) {
	const q = `
SELECT ` + trxCols + `
FROM transactions
WHERE deleted_at IS NULL
ORDER BY created_at DESC;`
	return r.listTrx(ctx, q)
}

func (r *TransactionRepo) ListByBranch(ctx context.Context, branchID string) ([]payuc.Transaction, error) {
	const q = `
SELECT t.id::text, t.order_id::text, t.user_id::text, t.payment_method, t.status, t.amount_paid::text, t.gateway_order_id, t.created_at, t.updated_at
FROM transactions t
JOIN orders o ON o.id = t.order_id
WHERE o.branch_id = $1::uuid AND t.deleted_at IS NULL
ORDER BY t.created_at DESC;`
	return r.listTrx(ctx, q, branchID)
}

func (r *TransactionRepo) ListByUser(ctx context.Context, userID string) ([]payuc.Transaction, error) {
	const q = `
SELECT ` + trxCols + `
FROM transactions
WHERE user_id = $1::uuid AND deleted_at IS NULL
ORDER BY created_at DESC;`
	return r.listTrx(ctx, q, userID)
}

func (r *TransactionRepo) listTrx(ctx context.Context, q string, args ...any) ([]payuc.Transaction, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]payuc.Transaction, 0, 16)
	for rows.Next() {
		t, err := scanTrx(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *TransactionRepo) SoftDelete(ctx context.Context, id string) error {
	const q = `
UPDATE transactions
SET deleted_at = now()
WHERE id = $1::uuid AND deleted_at IS NULL;`
	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return payuc.ErrNotFound
	}
	return nil
}

func (r *TransactionRepo) Restore(ctx context.Context, id string) (*payuc.Transaction, error) {
	const q = `
UPDATE transactions
SET deleted_at = NULL,
    updated_at = now()
WHERE id = $1::uuid AND deleted_at IS NOT NULL
RETURNING ` + trxCols + `;`
	out, err := scanTrx(r.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, payuc.ErrNotFound
	}
	return out, err
}

var _ payuc.Store = (*TransactionRepo)(nil)
