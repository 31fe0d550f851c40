package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sinargas/sinargas-backend/internal/domain"
	useruc "github.com/sinargas/sinargas-backend/internal/usecase/user"
)

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{db: db}
}

const userCols = `id::text, name, email, phone, nik, kk, role, branch_id::text, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*useruc.User, error) {
	var u useruc.User
	var role string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.NIK, &u.KK, &role, &u.BranchID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	return &u, nil
}

func (r *UserRepo) Create(ctx context.Context, in useruc.CreateInput, passwordHash string) (*useruc.User, error) {
	const q = `
INSERT INTO users (name, email, phone, nik, kk, password_hash, role, branch_id, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8::uuid, true)
RETURNING ` + userCols + `;`
	out, err := scanUser(r.db.QueryRow(ctx, q,
		in.Name, in.Email, in.Phone, in.NIK, in.KK, passwordHash, in.Role, in.BranchID))
	if isUniqueViolation(err) {
		return nil, useruc.ErrConflict
	}
	return out, err
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*useruc.User, error) {
	const q = `
SELECT ` + userCols + `
FROM users
WHERE id = $1::uuid AND deleted_at IS NULL;`
	out, err := scanUser(r.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, useruc.ErrNotFound
	}
	return out, err
}

func (r *UserRepo) List(ctx context.Context) ([]useruc.User, error) {
	const q = `
SELECT ` + userCols + `
FROM users
WHERE deleted_at IS NULL
ORDER BY created_at DESC;`
	return r.listUsers(ctx, q)
}

func (r *UserRepo) ListByBranch(ctx context.Context, branchID string) ([]useruc.User, error) {
	const q = `
SELECT ` + userCols + `
FROM users
WHERE branch_id = $1::uuid AND deleted_at IS NULL
ORDER BY created_at DESC;`
	return r.listUsers(ctx, q, branchID)
}

func (r *UserRepo) listUsers(ctx context.Context, q string, args ...any) ([]useruc.User, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]useruc.User, 0, 16)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *UserRepo) Update(ctx context.Context, id string, in useruc.UpdateInput) (*useruc.User, error) {
	const q = `
UPDATE users
SET name       = COALESCE($2, name),
    email      = COALESCE($3, email),
    phone      = COALESCE($4, phone),
    role       = COALESCE($5, role),
    branch_id  = COALESCE($6::uuid, branch_id),
    updated_at = now()
WHERE id = $1::uuid AND deleted_at IS NULL
RETURNING ` + userCols + `;`
	out, err := scanUser(r.db.QueryRow(ctx, q, id, in.Name, in.Email, in.Phone, in.Role, in.BranchID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, useruc.ErrNotFound
	}
	if isUniqueViolation(err) {
		return nil, useruc.ErrConflict
	}
	return out, err
}

func (r *UserRepo) SoftDelete(ctx context.Context, id string) error {
	const q = `
UPDATE users
SET deleted_at = now()
WHERE id = $1::uuid AND deleted_at IS NULL;`
	ct, err := r.db.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return useruc.ErrNotFound
	}
	return nil
}

func (r *UserRepo) Restore(ctx context.Context, id string) (*useruc.User, error) {
	const q = `
UPDATE users
SET deleted_at = NULL,
    updated_at = now()
WHERE id = $1::uuid AND deleted_at IS NOT NULL
RETURNING ` + userCols + `;`
	out, err := scanUser(r.db.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, useruc.ErrNotFound
	}
	if isUniqueViolation(err) {
		// a live row has since claimed one of the unique fields
		return nil, useruc.ErrConflict
	}
	return out, err
}

var _ useruc.Store = (*UserRepo)(nil)
