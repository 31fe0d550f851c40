package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sinargas/sinargas-backend/internal/domain"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("user not found")
	ErrConflict     = errors.New("email, phone, nik or kk already registered")
	ErrForbidden    = errors.New("not allowed")
)

type User struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	NIK       string      `json:"nik"`
	KK        string      `json:"kk"`
	Role      domain.Role `json:"role"`
	BranchID  *string     `json:"branchId,omitempty"`
	IsActive  bool        `json:"isActive"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type CreateInput struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Phone    string  `json:"phone"`
	NIK      string  `json:"nik"`
	KK       string  `json:"kk"`
	Role     string  `json:"role"`
	BranchID *string `json:"branchId"`
}

type UpdateInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Role     *string `json:"role"`
	BranchID *string `json:"branchId"`
}

type Store interface {
	Create(ctx context.Context, in CreateInput, passwordHash string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]User, error)
	ListByBranch(ctx context.Context, branchID string) ([]User, error)
	Update(ctx context.Context, id string, in UpdateInput) (*User, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) (*User, error)
}

type Usecase struct {
	store Store
}

func New(store Store) *Usecase {
	return &Usecase{store: store}
}

// Create is the super-admin path: accounts made here are active immediately,
// no OTP round trip.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*User, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	role, ok := domain.ParseRole(in.Role)
	if !ok ||
		strings.TrimSpace(in.Name) == "" ||
		!strings.Contains(in.Email, "@") ||
		len(in.Password) < 6 ||
		len(in.NIK) != 16 || len(in.KK) != 16 ||
		in.Phone == "" {
		return nil, ErrInvalidInput
	}
	if role == domain.RoleBranchAdmin && in.BranchID == nil {
		return nil, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return u.store.Create(ctx, in, string(hash))
}

func (u *Usecase) GetByID(ctx context.Context, id string) (*User, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return u.store.GetByID(ctx, id)
}

func (u *Usecase) List(ctx context.Context) ([]User, error) {
	return u.store.List(ctx)
}

func (u *Usecase) ListByBranch(ctx context.Context, actor domain.Principal) ([]User, error) {
	if actor.BranchID == nil {
		return nil, ErrForbidden
	}
	return u.store.ListByBranch(ctx, *actor.BranchID)
}

func (u *Usecase) Update(ctx context.Context, id string, in UpdateInput) (*User, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	if in.Role != nil {
		if _, ok := domain.ParseRole(*in.Role); !ok {
			return nil, ErrInvalidInput
		}
	}
	if in.Email != nil {
		e := strings.TrimSpace(strings.ToLower(*in.Email))
		if !strings.Contains(e, "@") {
			return nil, ErrInvalidInput
		}
		in.Email = &e
	}
	return u.store.Update(ctx, id, in)
}

func (u *Usecase) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	return u.store.SoftDelete(ctx, id)
}

func (u *Usecase) Restore(ctx context.Context, id string) (*User, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return u.store.Restore(ctx, id)
}
