package order

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/sinargas/sinargas-backend/internal/domain"
	"github.com/sinargas/sinargas-backend/internal/events"
	"github.com/sinargas/sinargas-backend/internal/metrics"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("order not found")
	ErrUserMissing       = errors.New("user not found")
	ErrBranchMissing     = errors.New("branch not found")
	ErrInsufficientStock = errors.New("insufficient stock at this branch")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("not allowed for this order")
	ErrPickupInPast      = errors.New("pickup date must be in the future")
)

var tracer = otel.Tracer("sinargas/order")

// Store is the persistence port. Create must run the stock check-and-decrement
// and the order insert as one atomic unit: on ErrInsufficientStock no order row
// may exist and the ledger must be unchanged.
type Store interface {
	Create(ctx context.Context, o *Order) (*Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	ListByBranch(ctx context.Context, branchID string) ([]Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	// UpdateStatus applies the transition only if the persisted status still
	// equals from; a lost race surfaces as ErrInvalidTransition.
	UpdateStatus(ctx context.Context, id string, from, to Status) (*Order, error)
	UpdatePickupDate(ctx context.Context, id string, pickup *time.Time) (*Order, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) (*Order, error)
}

type Usecase struct {
	store        Store
	adminPricing Pricing
	userPricing  Pricing
	publisher    events.Publisher
	now          func() time.Time
}

func New(store Store, userPrices map[domain.GasType]decimal.Decimal, publisher events.Publisher) *Usecase {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Usecase{
		store:        store,
		adminPricing: TrustedTotal{},
		userPricing:  FixedRate{Prices: userPrices},
		publisher:    publisher,
		now:          time.Now,
	}
}

// Create places an order on behalf of a given user (administrative path). The
// caller-supplied total is trusted.
func (u *Usecase) Create(ctx context.Context, actor domain.Principal, in CreateInput) (*Order, error) {
	if in.UserID == "" {
		return nil, ErrInvalidInput
	}
	return u.place(ctx, in.UserID, in.BranchID, in.GasType, in.Quantity, in.PickupDate, in.TotalPrice, u.adminPricing)
}

// CreateByUser places an order for the authenticated customer; the total comes
// from the configured per-unit rate.
func (u *Usecase) CreateByUser(ctx context.Context, actor domain.Principal, in CreateByUserInput) (*Order, error) {
	return u.place(ctx, actor.UserID, in.BranchID, in.GasType, in.Quantity, in.PickupDate, nil, u.userPricing)
}

func (u *Usecase) place(ctx context.Context, userID, branchID, gasType string, quantity int, pickup *time.Time, callerTotal *decimal.Decimal, pricing Pricing) (*Order, error) {
	ctx, span := tracer.Start(ctx, "order.place")
	defer span.End()

	gas, ok := domain.ParseGasType(gasType)
	if !ok || branchID == "" || quantity < 1 {
		return nil, ErrInvalidInput
	}
	if pickup != nil && !pickup.After(u.now()) {
		return nil, ErrPickupInPast
	}

	total, err := pricing.Total(gas, quantity, callerTotal)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.String("branch_id", branchID),
		attribute.String("gas_type", gas.String()),
		attribute.Int("quantity", quantity),
	)

	out, err := u.store.Create(ctx, &Order{
		UserID:     userID,
		BranchID:   branchID,
		GasType:    gas,
		Quantity:   quantity,
		TotalPrice: total,
		Status:     StatusPending,
		PickupDate: pickup,
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			metrics.StockRejections.Inc()
		}
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	metrics.OrdersCreated.Inc()
	u.publisher.Publish(events.TopicOrders, out.ID, events.NewEnvelope(events.EventOrderCreated, events.OrderCreatedPayload{
		OrderID:    out.ID,
		UserID:     out.UserID,
		BranchID:   out.BranchID,
		GasType:    out.GasType.String(),
		Quantity:   out.Quantity,
		TotalPrice: out.TotalPrice.String(),
	}))
	return out, nil
}

// UpdateStatus drives the lifecycle. Branch admins may only move orders of
// their own branch.
func (u *Usecase) UpdateStatus(ctx context.Context, actor domain.Principal, id string, status string) (*Order, error) {
	to, ok := ParseStatus(status)
	if !ok || id == "" {
		return nil, ErrInvalidInput
	}

	cur, err := u.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanActOnBranch(cur.BranchID) {
		return nil, ErrForbidden
	}
	if !isValidTransition(cur.Status, to) {
		return nil, ErrInvalidTransition
	}

	out, err := u.store.UpdateStatus(ctx, id, cur.Status, to)
	if err != nil {
		return nil, err
	}

	u.publisher.Publish(events.TopicOrders, out.ID, events.NewEnvelope(events.EventOrderStatusMoved, events.OrderStatusMovedPayload{
		OrderID: out.ID,
		From:    string(cur.Status),
		To:      string(out.Status),
	}))
	return out, nil
}

// Update is the super-admin maintenance endpoint: optional status move plus
// pickup date change.
func (u *Usecase) Update(ctx context.Context, actor domain.Principal, id string, in UpdateInput) (*Order, error) {
	if id == "" || (in.Status == nil && in.PickupDate == nil) {
		return nil, ErrInvalidInput
	}
	if in.PickupDate != nil && !in.PickupDate.After(u.now()) {
		return nil, ErrPickupInPast
	}

	out, err := u.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Status != nil {
		if out, err = u.UpdateStatus(ctx, actor, id, *in.Status); err != nil {
			return nil, err
		}
	}
	if in.PickupDate != nil {
		if out, err = u.store.UpdatePickupDate(ctx, id, in.PickupDate); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (u *Usecase) List(ctx context.Context) ([]Order, error) {
	return u.store.List(ctx)
}

func (u *Usecase) ListByBranch(ctx context.Context, actor domain.Principal) ([]Order, error) {
	if actor.BranchID == nil {
		return nil, ErrForbidden
	}
	return u.store.ListByBranch(ctx, *actor.BranchID)
}

func (u *Usecase) ListByUser(ctx context.Context, actor domain.Principal) ([]Order, error) {
	return u.store.ListByUser(ctx, actor.UserID)
}

func (u *Usecase) GetByID(ctx context.Context, id string) (*Order, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return u.store.GetByID(ctx, id)
}

// GetOwned returns the order only when it belongs to the caller.
func (u *Usecase) GetOwned(ctx context.Context, actor domain.Principal, id string) (*Order, error) {
	out, err := u.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if out.UserID != actor.UserID {
		return nil, ErrNotFound
	}
	return out, nil
}

func (u *Usecase) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	return u.store.SoftDelete(ctx, id)
}

func (u *Usecase) Restore(ctx context.Context, id string) (*Order, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return u.store.Restore(ctx, id)
}
