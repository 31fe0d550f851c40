package branch

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("branch not found")
)

type Branch struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateInput struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Phone   *string `json:"phone"`
}

type UpdateInput struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

type Store interface {
	Create(ctx context.Context, in CreateInput) (*Branch, error)
	GetByID(ctx context.Context, id string) (*Branch, error)
	List(ctx context.Context) ([]Branch, error)
	Update(ctx context.Context, id string, in UpdateInput) (*Branch, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) (*Branch, error)
}

type Usecase struct {
	store Store
}

func New(store Store) *Usecase {
	return &Usecase{store: store}
}

func (u *Usecase) Create(ctx context.Context, in CreateInput) (*Branch, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Address) == "" {
		return nil, ErrInvalidInput
	}
	return u.store.Create(ctx, in)
}

func (u *Usecase) GetByID(ctx context.Context, id string) (*Branch, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return u.store.GetByID(ctx, id)
}

func (u *Usecase) List(ctx context.Context) ([]Branch, error) {
	return u.store.List(ctx)
}

func (u *Usecase) Update(ctx context.Context, id string, in UpdateInput) (*Branch, error) {
	if id == "" || (in.Name == nil && in.Address == nil && in.Phone == nil) {
		return nil, ErrInvalidInput
	}
	return u.store.Update(ctx, id, in)
}

func (u *Usecase) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	return u.store.SoftDelete(ctx, id)
}

func (u *Usecase) Restore(ctx context.Context, id string) (*Branch, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return u.store.Restore(ctx, id)
}
