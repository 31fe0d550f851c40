package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sinargas/sinargas-backend/internal/domain"
	"github.com/sinargas/sinargas-backend/internal/repository/postgres/testutil"
	stockuc "github.com/sinargas/sinargas-backend/internal/usecase/stock"
)

func TestStockRepoAdjust(t *testing.T) {
	db := testutil.MustOpenDB(t)
	defer db.Close()
	testutil.TruncateAll(t, db)

	repo := NewStockRepo(db)
	branchID := testutil.MustInsertBranch(t, db, "Cabang Utara")
	ctx := context.Background()

	e, err := repo.Adjust(ctx, branchID, domain.Gas3kg, 10)
	require.NoError(t, err)
	require.Equal(t, 10, e.Quantity)

	// positive delta upserts onto the same row
	e, err = repo.Adjust(ctx, branchID, domain.Gas3kg, 5)
	require.NoError(t, err)
	require.Equal(t, 15, e.Quantity)

	e, err = repo.Adjust(ctx, branchID, domain.Gas3kg, -15)
	require.NoError(t, err)
	require.Equal(t, 0, e.Quantity)

	_, err = repo.Adjust(ctx, branchID, domain.Gas3kg, -1)
	require.ErrorIs(t, err, stockuc.ErrInsufficientStock)

	// decrement against a key with no row
	_, err = repo.Adjust(ctx, branchID, domain.Gas12kg, -1)
	require.ErrorIs(t, err, stockuc.ErrInsufficientStock)
}

func TestStockRepoSoftDeleteHidesRow(t *testing.T) {
	db := testutil.MustOpenDB(t)
	defer db.Close()
	testutil.TruncateAll(t, db)

	repo := NewStockRepo(db)
	branchID := testutil.MustInsertBranch(t, db, "Cabang Selatan")
	ctx := context.Background()

	e, err := repo.Adjust(ctx, branchID, domain.Gas5kg, 3)
	require.NoError(t, err)

	require.NoError(t, repo.SoftDelete(ctx, e.ID))

	_, err = repo.GetByID(ctx, e.ID)
	require.ErrorIs(t, err, stockuc.ErrNotFound)

	entries, err := repo.ListByBranch(ctx, branchID)
	require.NoError(t, err)
	require.Empty(t, entries)

	// deleted rows refuse decrements
	_, err = repo.Adjust(ctx, branchID, domain.Gas5kg, -1)
	require.ErrorIs(t, err, stockuc.ErrInsufficientStock)

	restored, err := repo.Restore(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, 3, restored.Quantity)
}
