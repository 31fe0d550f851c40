package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sinargas/sinargas-backend/internal/domain"
	authuc "github.com/sinargas/sinargas-backend/internal/usecase/auth"
)

type AuthRepo struct {
	db *pgxpool.Pool
}

func NewAuthRepo(db *pgxpool.Pool) *AuthRepo {
	return &AuthRepo{db: db}
}

const accountCols = `id::text, name, email, phone, password_hash, role, branch_id::text, is_active`

func scanAccount(row pgx.Row) (*authuc.Account, error) {
	var a authuc.Account
	var role string
	if err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.PasswordHash, &role, &a.BranchID, &a.IsActive); err != nil {
		return nil, err
	}
	a.Role = domain.Role(role)
	return &a, nil
}

func (r *AuthRepo) CreateAccount(ctx context.Context, in authuc.RegisterInput, passwordHash string) (*authuc.Account, error) {
	const q = `
INSERT INTO users (name, email, phone, nik, kk, password_hash, role, branch_id, is_active,
                   street_address, subdistrict, district, village, city, province, postal_code)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8::uuid, false,
        $9, $10, $11, $12, $13, $14, $15)
RETURNING ` + accountCols + `;`
	out, err := scanAccount(r.db.QueryRow(ctx, q,
		in.Name, in.Email, in.Phone, in.NIK, in.KK, passwordHash, in.Role, in.BranchID,
		in.StreetAddress, in.Subdistrict, in.District, in.Village, in.City, in.Province, in.PostalCode))
	if isUniqueViolation(err) {
		return nil, authuc.ErrConflict
	}
	return out, err
}

func (r *AuthRepo) FindByPhone(ctx context.Context, phone string) (*authuc.Account, error) {
	const q = `
SELECT ` + accountCols + `
FROM users
WHERE phone = $1 AND deleted_at IS NULL;`
	out, err := scanAccount(r.db.QueryRow(ctx, q, phone))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, authuc.ErrUserMissing
	}
	return out, err
}

func (r *AuthRepo) Activate(ctx context.Context, userID string) error {
	const q = `
UPDATE users
SET is_active  = true,
    updated_at = now()
WHERE id = $1::uuid AND deleted_at IS NULL;`
	ct, err := r.db.Exec(ctx, q, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return authuc.ErrUserMissing
	}
	return nil
}

var _ authuc.Store = (*AuthRepo)(nil)
