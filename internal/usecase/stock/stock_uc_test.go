package stock

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sinargas/sinargas-backend/internal/domain"
)

type fakeStore struct {
	mu       sync.Mutex
	entries  map[string]*Entry // by id
	branches map[string]bool
	nextID   int
}

func newFakeStore(branches ...string) *fakeStore {
	s := &fakeStore{
		entries:  map[string]*Entry{},
		branches: map[string]bool{},
	}
	for _, b := range branches {
		s.branches[b] = true
	}
	return s
}

func (s *fakeStore) find(branchID string, gas domain.GasType) *Entry {
	for _, e := range s.entries {
		if e.BranchID == branchID && e.GasType == gas {
			return e
		}
	}
	return nil
}

func (s *fakeStore) Adjust(_ context.Context, branchID string, gas domain.GasType, delta int) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.find(branchID, gas)
	if e == nil {
		if delta < 0 {
			return nil, ErrInsufficientStock
		}
		s.nextID++
		e = &Entry{
			ID:        fmt.Sprintf("stock-%d", s.nextID),
			BranchID:  branchID,
			GasType:   gas,
			CreatedAt: time.Now(),
		}
		s.entries[e.ID] = e
	}
	if e.Quantity+delta < 0 {
		return nil, ErrInsufficientStock
	}
	e.Quantity += delta
	e.UpdatedAt = time.Now()
	out := *e
	return &out, nil
}

func (s *fakeStore) List(context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, *e)
	}
	return out, nil
}

func (s *fakeStore) ListByBranch(_ context.Context, branchID string) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Entry
	for _, e := range s.entries {
		if e.BranchID == branchID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (s *fakeStore) GetByID(_ context.Context, id string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *e
	return &out, nil
}

func (s *fakeStore) Update(_ context.Context, id string, gas *domain.GasType, quantity *int) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if gas != nil {
		e.GasType = *gas
	}
	if quantity != nil {
		e.Quantity = *quantity
	}
	out := *e
	return &out, nil
}

func (s *fakeStore) SoftDelete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *fakeStore) Restore(_ context.Context, id string) (*Entry, error) {
	return nil, ErrNotFound
}

func (s *fakeStore) BranchExists(_ context.Context, branchID string) (bool, error) {
	return s.branches[branchID], nil
}

var _ Store = (*fakeStore)(nil)

var superAdmin = domain.Principal{UserID: "admin", Role: domain.RoleSuperAdmin}

func TestStockInCreatesAndIncrements(t *testing.T) {
	store := newFakeStore("b-1")
	uc := New(store)

	e, err := uc.StockIn(context.Background(), superAdmin, StockInInput{BranchID: "b-1", GasType: "3kg", Quantity: 10})
	require.NoError(t, err)
	require.Equal(t, 10, e.Quantity)

	e, err = uc.StockIn(context.Background(), superAdmin, StockInInput{BranchID: "b-1", GasType: "3kg", Quantity: 5})
	require.NoError(t, err)
	require.Equal(t, 15, e.Quantity)
}

func TestStockInAcceptsLegacyGasNames(t *testing.T) {
	store := newFakeStore("b-1")
	uc := New(store)

	e, err := uc.StockIn(context.Background(), superAdmin, StockInInput{BranchID: "b-1", GasType: "elpiji_3kg", Quantity: 3})
	require.NoError(t, err)
	require.Equal(t, domain.Gas3kg, e.GasType)
}

func TestStockInUnknownBranch(t *testing.T) {
	uc := New(newFakeStore("b-1"))

	_, err := uc.StockIn(context.Background(), superAdmin, StockInInput{BranchID: "b-404", GasType: "3kg", Quantity: 1})
	require.ErrorIs(t, err, ErrBranchMissing)
}

func TestStockInBranchAdminPinnedToOwnBranch(t *testing.T) {
	store := newFakeStore("b-1", "b-2")
	uc := New(store)

	own := "b-1"
	admin := domain.Principal{UserID: "a", Role: domain.RoleBranchAdmin, BranchID: &own}

	// body says b-2, the admin's branch wins
	e, err := uc.StockIn(context.Background(), admin, StockInInput{BranchID: "b-2", GasType: "12kg", Quantity: 4})
	require.NoError(t, err)
	require.Equal(t, "b-1", e.BranchID)
}

func TestAdjustNeverGoesNegative(t *testing.T) {
	store := newFakeStore("b-1")
	uc := New(store)

	_, err := uc.Adjust(context.Background(), "b-1", domain.Gas3kg, 5)
	require.NoError(t, err)

	_, err = uc.Adjust(context.Background(), "b-1", domain.Gas3kg, -6)
	require.ErrorIs(t, err, ErrInsufficientStock)

	// the failed decrement applied nothing
	e, err := uc.Adjust(context.Background(), "b-1", domain.Gas3kg, -5)
	require.NoError(t, err)
	require.Equal(t, 0, e.Quantity)
}

func TestAdjustConcurrentDecrements(t *testing.T) {
	store := newFakeStore("b-1")
	uc := New(store)

	_, err := uc.Adjust(context.Background(), "b-1", domain.Gas3kg, 10)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Adjust(context.Background(), "b-1", domain.Gas3kg, -1)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, ErrInsufficientStock)
		}
	}
	require.Equal(t, 10, succeeded)

	e := store.find("b-1", domain.Gas3kg)
	require.Equal(t, 0, e.Quantity)
}

func TestUpdateRejectsNegativeQuantity(t *testing.T) {
	store := newFakeStore("b-1")
	uc := New(store)

	e, err := uc.StockIn(context.Background(), superAdmin, StockInInput{BranchID: "b-1", GasType: "5kg", Quantity: 2})
	require.NoError(t, err)

	neg := -1
	_, err = uc.Update(context.Background(), superAdmin, e.ID, UpdateInput{Quantity: &neg})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateBranchScope(t *testing.T) {
	store := newFakeStore("b-1", "b-2")
	uc := New(store)

	e, err := uc.StockIn(context.Background(), superAdmin, StockInInput{BranchID: "b-2", GasType: "5kg", Quantity: 2})
	require.NoError(t, err)

	own := "b-1"
	admin := domain.Principal{UserID: "a", Role: domain.RoleBranchAdmin, BranchID: &own}

	q := 7
	_, err = uc.Update(context.Background(), admin, e.ID, UpdateInput{Quantity: &q})
	require.ErrorIs(t, err, ErrForbidden)

	require.ErrorIs(t, uc.Delete(context.Background(), admin, e.ID), ErrForbidden)
}
