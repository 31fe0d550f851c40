package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func MustInsertBranch(t *testing.T, db *pgxpool.Pool, name string) string {
	t.Helper()

	var id string
	err := db.QueryRow(context.Background(), `
		INSERT INTO branches (name, address)
		VALUES ($1, 'Jl. Test 1')
		RETURNING id::text
	`, name).Scan(&id)

	require.NoError(t, err)
	require.NotEmpty(t, id)
	return id
}

func MustInsertUser(t *testing.T, db *pgxpool.Pool, name, role string, branchID *string) string {
	t.Helper()

	uniq := fmt.Sprintf("%d", time.Now().UnixNano())

	var id string
	err := db.QueryRow(context.Background(), `
		INSERT INTO users (name, email, phone, nik, kk, password_hash, role, branch_id, is_active)
		VALUES ($1, $2, $3, $4, $5, 'x', $6, $7::uuid, true)
		RETURNING id::text
	`, name,
		fmt.Sprintf("%s@example.test", uniq),
		"08"+uniq[:16],
		uniq[:16], uniq[1:17],
		role, branchID).Scan(&id)

	require.NoError(t, err)
	require.NotEmpty(t, id)
	return id
}

func MustInsertStock(t *testing.T, db *pgxpool.Pool, branchID, gasType string, quantity int) string {
	t.Helper()

	var id string
	err := db.QueryRow(context.Background(), `
		INSERT INTO gas_stocks (branch_id, gas_type, stock)
		VALUES ($1::uuid, $2, $3)
		RETURNING id::text
	`, branchID, gasType, quantity).Scan(&id)

	require.NoError(t, err)
	require.NotEmpty(t, id)
	return id
}

func MustInsertOrder(t *testing.T, db *pgxpool.Pool, userID, branchID, gasType string, quantity int, total, status string) string {
	t.Helper()

	var id string
	err := db.QueryRow(context.Background(), `
		INSERT INTO orders (user_id, branch_id, gas_type, quantity, total_price, status)
		VALUES ($1::uuid, $2::uuid, $3, $4, $5::numeric, $6)
		RETURNING id::text
	`, userID, branchID, gasType, quantity, total, status).Scan(&id)

	require.NoError(t, err)
	require.NotEmpty(t, id)
	return id
}
