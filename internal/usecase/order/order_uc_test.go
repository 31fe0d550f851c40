package order

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/sinargas/sinargas-backend/internal/domain"
)

type stockKey struct {
	branch string
	gas    domain.GasType
}

type fakeStore struct {
	mu     sync.Mutex
	stock  map[stockKey]int
	orders map[string]*Order
	nextID int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		stock:  map[stockKey]int{},
		orders: map[string]*Order{},
	}
}

func (s *fakeStore) Create(_ context.Context, o *Order) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := stockKey{o.BranchID, o.GasType}
	if s.stock[key] < o.Quantity {
		return nil, ErrInsufficientStock
	}
	s.stock[key] -= o.Quantity

	s.nextID++
	stored := *o
	stored.ID = fmt.Sprintf("order-%d", s.nextID)
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	s.orders[stored.ID] = &stored

	out := stored
	return &out, nil
}

func (s *fakeStore) GetByID(_ context.Context, id string) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *o
	return &out, nil
}

func (s *fakeStore) List(context.Context) ([]Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (s *fakeStore) ListByBranch(_ context.Context, branchID string) ([]Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Order
	for _, o := range s.orders {
		if o.BranchID == branchID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *fakeStore) ListByUser(_ context.Context, userID string) ([]Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *fakeStore) UpdateStatus(_ context.Context, id string, from, to Status) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	if o.Status != from {
		return nil, ErrInvalidTransition
	}
	o.Status = to
	o.UpdatedAt = time.Now()
	out := *o
	return &out, nil
}

func (s *fakeStore) UpdatePickupDate(_ context.Context, id string, pickup *time.Time) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	o.PickupDate = pickup
	out := *o
	return &out, nil
}

func (s *fakeStore) SoftDelete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

func (s *fakeStore) Restore(_ context.Context, id string) (*Order, error) {
	return nil, ErrNotFound
}

var _ Store = (*fakeStore)(nil)

var (
	superAdmin = domain.Principal{UserID: "root", Role: domain.RoleSuperAdmin}
	customer   = domain.Principal{UserID: "cust-1", Role: domain.RoleUser}

	prices = map[domain.GasType]decimal.Decimal{
		domain.Gas3kg:  decimal.NewFromInt(20000),
		domain.Gas5kg:  decimal.NewFromInt(65000),
		domain.Gas12kg: decimal.NewFromInt(150000),
	}
)

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestCreateDecrementsStock(t *testing.T) {
	store := newFakeStore()
	store.stock[stockKey{"b-1", domain.Gas3kg}] = 10
	uc := New(store, prices, nil)

	_, err := uc.Create(context.Background(), superAdmin, CreateInput{
		UserID: "u-1", BranchID: "b-1", GasType: "3kg", Quantity: 4, TotalPrice: dec(80000),
	})
	require.NoError(t, err)
	require.Equal(t, 6, store.stock[stockKey{"b-1", domain.Gas3kg}])

	_, err = uc.Create(context.Background(), superAdmin, CreateInput{
		UserID: "u-1", BranchID: "b-1", GasType: "3kg", Quantity: 6, TotalPrice: dec(120000),
	})
	require.NoError(t, err)
	require.Equal(t, 0, store.stock[stockKey{"b-1", domain.Gas3kg}])

	_, err = uc.Create(context.Background(), superAdmin, CreateInput{
		UserID: "u-1", BranchID: "b-1", GasType: "3kg", Quantity: 7, TotalPrice: dec(140000),
	})
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Len(t, store.orders, 2)
}

func TestCreateInsufficientStockLeavesNoOrder(t *testing.T) {
	store := newFakeStore()
	store.stock[stockKey{"b-1", domain.Gas12kg}] = 1
	uc := New(store, prices, nil)

	_, err := uc.Create(context.Background(), superAdmin, CreateInput{
		UserID: "u-1", BranchID: "b-1", GasType: "12kg", Quantity: 2, TotalPrice: dec(300000),
	})
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Empty(t, store.orders)
	require.Equal(t, 1, store.stock[stockKey{"b-1", domain.Gas12kg}])
}

func TestCreateValidation(t *testing.T) {
	uc := New(newFakeStore(), prices, nil)

	_, err := uc.Create(context.Background(), superAdmin, CreateInput{
		BranchID: "b-1", GasType: "3kg", Quantity: 1, TotalPrice: dec(1),
	})
	require.ErrorIs(t, err, ErrInvalidInput, "missing user")

	_, err = uc.Create(context.Background(), superAdmin, CreateInput{
		UserID: "u-1", BranchID: "b-1", GasType: "3kg", Quantity: 0, TotalPrice: dec(1),
	})
	require.ErrorIs(t, err, ErrInvalidInput, "zero quantity")

	_, err = uc.Create(context.Background(), superAdmin, CreateInput{
		UserID: "u-1", BranchID: "b-1", GasType: "100kg", Quantity: 1, TotalPrice: dec(1),
	})
	require.ErrorIs(t, err, ErrInvalidInput, "unknown gas type")

	_, err = uc.Create(context.Background(), superAdmin, CreateInput{
		UserID: "u-1", BranchID: "b-1", GasType: "3kg", Quantity: 1,
	})
	require.ErrorIs(t, err, ErrInvalidInput, "admin path requires a total")
}

func TestCreatePickupMustBeFuture(t *testing.T) {
	store := newFakeStore()
	store.stock[stockKey{"b-1", domain.Gas3kg}] = 10
	uc := New(store, prices, nil)

	past := time.Now().Add(-time.Hour)
	_, err := uc.Create(context.Background(), superAdmin, CreateInput{
		UserID: "u-1", BranchID: "b-1", GasType: "3kg", Quantity: 1,
		TotalPrice: dec(20000), PickupDate: &past,
	})
	require.ErrorIs(t, err, ErrPickupInPast)
	require.Empty(t, store.orders)
}

func TestCreateByUserFixedRatePricing(t *testing.T) {
	store := newFakeStore()
	store.stock[stockKey{"b-1", domain.Gas3kg}] = 10
	uc := New(store, prices, nil)

	out, err := uc.CreateByUser(context.Background(), customer, CreateByUserInput{
		BranchID: "b-1", GasType: "3kg", Quantity: 3,
	})
	require.NoError(t, err)
	require.Equal(t, customer.UserID, out.UserID)
	require.True(t, out.TotalPrice.Equal(decimal.NewFromInt(60000)),
		"got %s", out.TotalPrice)
	require.Equal(t, StatusPending, out.Status)
}

func TestUpdateStatusTransitions(t *testing.T) {
	store := newFakeStore()
	store.stock[stockKey{"b-1", domain.Gas3kg}] = 10
	uc := New(store, prices, nil)

	out, err := uc.Create(context.Background(), superAdmin, CreateInput{
		UserID: "u-1", BranchID: "b-1", GasType: "3kg", Quantity: 1, TotalPrice: dec(20000),
	})
	require.NoError(t, err)

	out, err = uc.UpdateStatus(context.Background(), superAdmin, out.ID, "approved")
	require.NoError(t, err)
	require.Equal(t, StatusApproved, out.Status)

	_, err = uc.UpdateStatus(context.Background(), superAdmin, out.ID, "rejected")
	require.ErrorIs(t, err, ErrInvalidTransition, "approved cannot be rejected")

	out, err = uc.UpdateStatus(context.Background(), superAdmin, out.ID, "completed")
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, out.Status)

	for _, to := range []string{"pending", "approved", "rejected", "completed"} {
		_, err = uc.UpdateStatus(context.Background(), superAdmin, out.ID, to)
		require.ErrorIs(t, err, ErrInvalidTransition, "completed is terminal (%s)", to)
	}
}

func TestUpdateStatusRejectedIsTerminal(t *testing.T) {
	store := newFakeStore()
	store.stock[stockKey{"b-1", domain.Gas3kg}] = 10
	uc := New(store, prices, nil)

	out, err := uc.Create(context.Background(), superAdmin, CreateInput{
		UserID: "u-1", BranchID: "b-1", GasType: "3kg", Quantity: 1, TotalPrice: dec(20000),
	})
	require.NoError(t, err)

	_, err = uc.UpdateStatus(context.Background(), superAdmin, out.ID, "rejected")
	require.NoError(t, err)

	_, err = uc.UpdateStatus(context.Background(), superAdmin, out.ID, "completed")
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatusBranchScope(t *testing.T) {
	store := newFakeStore()
	store.stock[stockKey{"b-2", domain.Gas3kg}] = 10
	uc := New(store, prices, nil)

	out, err := uc.Create(context.Background(), superAdmin, CreateInput{
		UserID: "u-1", BranchID: "b-2", GasType: "3kg", Quantity: 1, TotalPrice: dec(20000),
	})
	require.NoError(t, err)

	own := "b-1"
	admin := domain.Principal{UserID: "a", Role: domain.RoleBranchAdmin, BranchID: &own}

	_, err = uc.UpdateStatus(context.Background(), admin, out.ID, "approved")
	require.ErrorIs(t, err, ErrForbidden)
}

func TestGetOwnedHidesOthersOrders(t *testing.T) {
	store := newFakeStore()
	store.stock[stockKey{"b-1", domain.Gas3kg}] = 10
	uc := New(store, prices, nil)

	out, err := uc.Create(context.Background(), superAdmin, CreateInput{
		UserID: "u-1", BranchID: "b-1", GasType: "3kg", Quantity: 1, TotalPrice: dec(20000),
	})
	require.NoError(t, err)

	_, err = uc.GetOwned(context.Background(), customer, out.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
