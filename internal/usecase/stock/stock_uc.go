package stock

import (
	"context"
	"errors"

	"github.com/sinargas/sinargas-backend/internal/domain"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("gas stock not found")
	ErrBranchMissing     = errors.New("branch not found")
	ErrInsufficientStock = errors.New("insufficient stock at this branch")
	ErrForbidden         = errors.New("not allowed for this branch")
)

// Store is the persistence port for the stock ledger. Adjust must be atomic:
// a negative delta is checked against the current persisted quantity and
// applied only if the result stays non-negative, serialized per
// (branch_id, gas_type) key.
type Store interface {
	Adjust(ctx context.Context, branchID string, gas domain.GasType, delta int) (*Entry, error)
	List(ctx context.Context) ([]Entry, error)
	ListByBranch(ctx context.Context, branchID string) ([]Entry, error)
	GetByID(ctx context.Context, id string) (*Entry, error)
	Update(ctx context.Context, id string, gas *domain.GasType, quantity *int) (*Entry, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) (*Entry, error)
	BranchExists(ctx context.Context, branchID string) (bool, error)
}

type Usecase struct {
	store Store
}

func New(store Store) *Usecase {
	return &Usecase{store: store}
}

// StockIn records received cylinders. If a ledger row for the
// (branch, gas type) pair already exists the quantity is added to it,
// otherwise the row is created.
func (u *Usecase) StockIn(ctx context.Context, actor domain.Principal, in StockInInput) (*Entry, error) {
	gas, ok := domain.ParseGasType(in.GasType)
	if !ok || in.Quantity < 1 {
		return nil, ErrInvalidInput
	}

	branchID := in.BranchID
	if actor.Role == domain.RoleBranchAdmin {
		if actor.BranchID == nil {
			return nil, ErrForbidden
		}
		branchID = *actor.BranchID
	}
	if branchID == "" {
		return nil, ErrInvalidInput
	}

	ok, err := u.store.BranchExists(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrBranchMissing
	}

	return u.store.Adjust(ctx, branchID, gas, in.Quantity)
}

// Adjust applies a signed quantity change. Positive deltas always succeed;
// negative deltas fail with ErrInsufficientStock when they would take the
// ledger below zero, and apply nothing in that case.
func (u *Usecase) Adjust(ctx context.Context, branchID string, gas domain.GasType, delta int) (*Entry, error) {
	if branchID == "" || !gas.Valid() || delta == 0 {
		return nil, ErrInvalidInput
	}
	return u.store.Adjust(ctx, branchID, gas, delta)
}

func (u *Usecase) List(ctx context.Context) ([]Entry, error) {
	return u.store.List(ctx)
}

func (u *Usecase) ListByBranch(ctx context.Context, actor domain.Principal) ([]Entry, error) {
	if actor.BranchID == nil {
		return nil, ErrForbidden
	}
	return u.store.ListByBranch(ctx, *actor.BranchID)
}

func (u *Usecase) GetByID(ctx context.Context, id string) (*Entry, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return u.store.GetByID(ctx, id)
}

func (u *Usecase) Update(ctx context.Context, actor domain.Principal, id string, in UpdateInput) (*Entry, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}

	var gas *domain.GasType
	if in.GasType != nil {
		g, ok := domain.ParseGasType(*in.GasType)
		if !ok {
			return nil, ErrInvalidInput
		}
		gas = &g
	}
	if in.Quantity != nil && *in.Quantity < 0 {
		return nil, ErrInvalidInput
	}
	if gas == nil && in.Quantity == nil {
		return nil, ErrInvalidInput
	}

	if err := u.checkScope(ctx, actor, id); err != nil {
		return nil, err
	}
	return u.store.Update(ctx, id, gas, in.Quantity)
}

func (u *Usecase) Delete(ctx context.Context, actor domain.Principal, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	if err := u.checkScope(ctx, actor, id); err != nil {
		return err
	}
	return u.store.SoftDelete(ctx, id)
}

func (u *Usecase) Restore(ctx context.Context, id string) (*Entry, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return u.store.Restore(ctx, id)
}

func (u *Usecase) checkScope(ctx context.Context, actor domain.Principal, id string) error {
	if actor.Role == domain.RoleSuperAdmin {
		return nil
	}
	cur, err := u.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanActOnBranch(cur.BranchID) {
		return ErrForbidden
	}
	return nil
}
