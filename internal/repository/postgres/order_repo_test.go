package postgres

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/sinargas/sinargas-backend/internal/domain"
	"github.com/sinargas/sinargas-backend/internal/repository/postgres/testutil"
	orderuc "github.com/sinargas/sinargas-backend/internal/usecase/order"
)

func TestOrderRepoCreateDecrementsStock(t *testing.T) {
	db := testutil.MustOpenDB(t)
	defer db.Close()
	testutil.TruncateAll(t, db)

	ctx := context.Background()
	orders := NewOrderRepo(db)
	stocks := NewStockRepo(db)

	branchID := testutil.MustInsertBranch(t, db, "Cabang Timur")
	userID := testutil.MustInsertUser(t, db, "Budi", "user", nil)
	testutil.MustInsertStock(t, db, branchID, "3kg", 10)

	out, err := orders.Create(ctx, &orderuc.Order{
		UserID:     userID,
		BranchID:   branchID,
		GasType:    domain.Gas3kg,
		Quantity:   4,
		TotalPrice: decimal.NewFromInt(80000),
		Status:     orderuc.StatusPending,
	})
	require.NoError(t, err)
	require.Equal(t, orderuc.StatusPending, out.Status)
	require.True(t, out.TotalPrice.Equal(decimal.NewFromInt(80000)))

	entries, err := stocks.ListByBranch(ctx, branchID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 6, entries[0].Quantity)
}

func TestOrderRepoCreateInsufficientStockIsAtomic(t *testing.T) {
	db := testutil.MustOpenDB(t)
	defer db.Close()
	testutil.TruncateAll(t, db)

	ctx := context.Background()
	orders := NewOrderRepo(db)
	stocks := NewStockRepo(db)

	branchID := testutil.MustInsertBranch(t, db, "Cabang Barat")
	userID := testutil.MustInsertUser(t, db, "Sari", "user", nil)
	testutil.MustInsertStock(t, db, branchID, "12kg", 1)

	_, err := orders.Create(ctx, &orderuc.Order{
		UserID:     userID,
		BranchID:   branchID,
		GasType:    domain.Gas12kg,
		Quantity:   2,
		TotalPrice: decimal.NewFromInt(300000),
		Status:     orderuc.StatusPending,
	})
	require.ErrorIs(t, err, orderuc.ErrInsufficientStock)

	// the ledger is unchanged and no order row exists
	entries, err := stocks.ListByBranch(ctx, branchID)
	require.NoError(t, err)
	require.Equal(t, 1, entries[0].Quantity)

	list, err := orders.ListByBranch(ctx, branchID)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestOrderRepoCreateMissingUserOrBranch(t *testing.T) {
	db := testutil.MustOpenDB(t)
	defer db.Close()
	testutil.TruncateAll(t, db)

	ctx := context.Background()
	orders := NewOrderRepo(db)

	branchID := testutil.MustInsertBranch(t, db, "Cabang Pusat")
	userID := testutil.MustInsertUser(t, db, "Dewi", "user", nil)
	testutil.MustInsertStock(t, db, branchID, "3kg", 5)

	o := orderuc.Order{
		UserID:     "00000000-0000-0000-0000-000000000001",
		BranchID:   branchID,
		GasType:    domain.Gas3kg,
		Quantity:   1,
		TotalPrice: decimal.NewFromInt(20000),
		Status:     orderuc.StatusPending,
	}
	_, err := orders.Create(ctx, &o)
	require.ErrorIs(t, err, orderuc.ErrUserMissing)

	o.UserID = userID
	o.BranchID = "00000000-0000-0000-0000-000000000002"
	_, err = orders.Create(ctx, &o)
	require.ErrorIs(t, err, orderuc.ErrBranchMissing)
}

func TestOrderRepoUpdateStatusConditional(t *testing.T) {
	db := testutil.MustOpenDB(t)
	defer db.Close()
	testutil.TruncateAll(t, db)

	ctx := context.Background()
	orders := NewOrderRepo(db)

	branchID := testutil.MustInsertBranch(t, db, "Cabang Kota")
	userID := testutil.MustInsertUser(t, db, "Andi", "user", nil)
	id := testutil.MustInsertOrder(t, db, userID, branchID, "3kg", 1, "20000", "pending")

	out, err := orders.UpdateStatus(ctx, id, orderuc.StatusPending, orderuc.StatusApproved)
	require.NoError(t, err)
	require.Equal(t, orderuc.StatusApproved, out.Status)

	// the expected-status guard refuses a second transition from pending
	_, err = orders.UpdateStatus(ctx, id, orderuc.StatusPending, orderuc.StatusRejected)
	require.ErrorIs(t, err, orderuc.ErrInvalidTransition)

	_, err = orders.UpdateStatus(ctx, "00000000-0000-0000-0000-000000000003", orderuc.StatusPending, orderuc.StatusApproved)
	require.ErrorIs(t, err, orderuc.ErrNotFound)
}
