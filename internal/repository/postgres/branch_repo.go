package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	branchuc "github.com/sinargas/sinargas-backend/internal/usecase/branch"
)

type BranchRepo struct {
	db *pgxpool.Pool
}

func NewBranchRepo(db *pgxpool.Pool) *BranchRepo {
	return &BranchRepo{db: db}
}

const branchCols = `id::text, name, address, phone, created_at, updated_at`

func scanBranch(row pgx.Row) (*branchuc.Branch, error) {
	var b branchuc.Branch
	if err := row.Scan(&b.ID, &b.Name, &b.Address, &b.Phone, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BranchRepo) Create(ctx context.Context, in branchuc.CreateInput) (*branchuc.Branch, error) {
	const q = `
INSERT INTO branches (name, address, phone)
VALUES ($1, $2, $3)
RETURNING ` + branchCols + `;`
	return scanBranch(r.db.QueryRow(ctx, q, in.Name, in.Address, in.Phone))
}

func (r *BranchRepo) GetByID(ctx context.Context, id string) (*branchuc.Branch, error) {
	const q = `
SELECT ` + branchCols + `
FROM branches
WHERE id = $1::uuid AND deleted_at IS NULL;`
	out, err := scanBranch(r.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, branchuc.ErrNotFound
	}
	return out, err
}

func (r *BranchRepo) List(ctx context.Context) ([]branchuc.Branch, error) {
	const q = `
SELECT ` + branchCols + `
FROM branches
WHERE deleted_at IS NULL
ORDER BY name;`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]branchuc.Branch, 0, 8)
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *BranchRepo) Update(ctx context.Context, id string, in branchuc.UpdateInput) (*branchuc.Branch, error) {
	const q = `
UPDATE branches
SET name       = COALESCE($2, name),
    address    = COALESCE($3, address),
    phone      = COALESCE($4, phone),
    updated_at = now()
WHERE id = $1::uuid AND deleted_at IS NULL
RETURNING ` + branchCols + `;`
	out, err := scanBranch(r.db.QueryRow(ctx, q, id, in.Name, in.Address, in.Phone))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, branchuc.ErrNotFound
	}
	return out, err
}

func (r *BranchRepo) SoftDelete(ctx context.Context, id string) error {
	const q = `
UPDATE branches
SET deleted_at = now()
WHERE id = $1::uuid AND deleted_at IS NULL;`
	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return branchuc.ErrNotFound
	}
	return nil
}

func (r *BranchRepo) Restore(ctx context.Context, id string) (*branchuc.Branch, error) {
	const q = `
UPDATE branches
SET deleted_at = NULL,
    updated_at = now()
WHERE id = $1::uuid AND deleted_at IS NOT NULL
RETURNING ` + branchCols + `;`
	out, err := scanBranch(r.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, branchuc.ErrNotFound
	}
	return out, err
}

var _ branchuc.Store = (*BranchRepo)(nil)
