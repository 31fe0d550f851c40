package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/sinargas/sinargas-backend/internal/domain"
	"github.com/sinargas/sinargas-backend/internal/events"
	"github.com/sinargas/sinargas-backend/internal/gateway"
	"github.com/sinargas/sinargas-backend/internal/metrics"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("transaction not found")
	ErrOrderMissing        = errors.New("order not found")
	ErrUserMissing         = errors.New("user not found")
	ErrInsufficientPayment = errors.New("amount paid is less than total order price")
	ErrAlreadyProcessed    = errors.New("payment has already been processed")
	ErrPaymentInProgress   = errors.New("another payment for this order is in progress")
)

var tracer = otel.Tracer("sinargas/payment")

// Store is the persistence port. CreatePaid and MarkPaid cascade the owning
// order to completed inside the same database transaction as the status
// write; MarkPaid and MarkFailed only apply while the persisted status is
// still pending and return ErrAlreadyProcessed otherwise.
type Store interface {
	OrderSummary(ctx context.Context, orderID string) (*OrderInfo, error)
	UserContact(ctx context.Context, userID string) (*Contact, error)
	HasActiveTransaction(ctx context.Context, orderID string) (bool, error)

	CreatePaid(ctx context.Context, t *Transaction) (*Transaction, error)
	CreatePending(ctx context.Context, t *Transaction) (*Transaction, error)

	GetByID(ctx context.Context, id string) (*Transaction, error)
	GetByGatewayRef(ctx context.Context, ref string) (*Transaction, error)

	MarkPaid(ctx context.Context, id string, method *Method, amount *decimal.Decimal) (*Transaction, error)
	MarkFailed(ctx context.Context, id string) (*Transaction, error)

	List(ctx context.Context) ([]Transaction, error)
	ListByBranch(ctx context.Context, branchID string) ([]Transaction, error)
	ListByUser(ctx context.Context, userID string) ([]Transaction, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) (*Transaction, error)
}

// TokenIssuer requests a client-facing payment token from the gateway.
type TokenIssuer interface {
	CreateToken(ctx context.Context, orderRef string, gross decimal.Decimal, customerName, customerEmail string) (string, error)
}

type Usecase struct {
	store     Store
	snap      TokenIssuer
	publisher events.Publisher
	log       *zap.Logger
	now       func() time.Time
}

func New(store Store, snap TokenIssuer, publisher events.Publisher, log *zap.Logger) *Usecase {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{store: store, snap: snap, publisher: publisher, log: log, now: time.Now}
}

// Initiate records a payment attempt against an order. Direct methods settle
// immediately (transaction paid + order completed in one atomic unit); the
// gateway method leaves a pending transaction behind and hands back a token.
func (u *Usecase) Initiate(ctx context.Context, actor domain.Principal, in InitiateInput) (*InitiateResult, error) {
	ctx, span := tracer.Start(ctx, "payment.initiate")
	defer span.End()

	method, ok := ParseMethod(in.Method)
	if !ok || in.OrderID == "" {
		return nil, ErrInvalidInput
	}

	userID := in.UserID
	if userID == "" {
		userID = actor.UserID
	}

	ord, err := u.store.OrderSummary(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleUser && ord.UserID != actor.UserID {
		return nil, ErrNotFound
	}
	if ord.Completed || ord.Status == "rejected" {
		return nil, ErrAlreadyProcessed
	}

	active, err := u.store.HasActiveTransaction(ctx, ord.ID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, ErrPaymentInProgress
	}

	span.SetAttributes(attribute.String("order_id", ord.ID), attribute.String("method", string(method)))

	if method.Direct() {
		if in.AmountPaid == nil {
			return nil, ErrInvalidInput
		}
		return u.settleDirect(ctx, ord, userID, method, *in.AmountPaid)
	}
	return u.initiateGateway(ctx, ord, userID)
}

func (u *Usecase) settleDirect(ctx context.Context, ord *OrderInfo, userID string, method Method, amount decimal.Decimal) (*InitiateResult, error) {
	if amount.LessThan(ord.TotalPrice) {
		return nil, ErrInsufficientPayment
	}

	t, err := u.store.CreatePaid(ctx, &Transaction{
		OrderID:    ord.ID,
		UserID:     userID,
		Method:     method,
		Status:     StatusPaid,
		AmountPaid: amount,
	})
	if err != nil {
		return nil, err
	}

	metrics.Payments.WithLabelValues(string(method), string(StatusPaid)).Inc()
	u.publishSettled(t)
	return &InitiateResult{Transaction: t}, nil
}

func (u *Usecase) initiateGateway(ctx context.Context, ord *OrderInfo, userID string) (*InitiateResult, error) {
	contact, err := u.store.UserContact(ctx, userID)
	if err != nil {
		return nil, err
	}

	// The nonce lets a retried order carry a fresh reference after an earlier
	// attempt failed; the column stays unique.
	ref := fmt.Sprintf("ORDER-%s-%d", ord.ID, u.now().Unix())

	token, err := u.snap.CreateToken(ctx, ref, ord.TotalPrice, contact.Name, contact.Email)
	if err != nil {
		u.log.Error("gateway token issuance failed", zap.String("order_id", ord.ID), zap.Error(err))
		return nil, err
	}

	t, err := u.store.CreatePending(ctx, &Transaction{
		OrderID:        ord.ID,
		UserID:         userID,
		Method:         MethodGateway,
		Status:         StatusPending,
		AmountPaid:     ord.TotalPrice,
		GatewayOrderID: &ref,
	})
	if err != nil {
		return nil, err
	}

	metrics.Payments.WithLabelValues(string(MethodGateway), string(StatusPending)).Inc()
	return &InitiateResult{Transaction: t, SnapToken: token}, nil
}

// PayExisting settles a pending transaction with a direct method. Only the
// owning user may pay, and only while the transaction is still pending.
func (u *Usecase) PayExisting(ctx context.Context, actor domain.Principal, id string, in PayInput) (*Transaction, error) {
	method, ok := ParseMethod(in.Method)
	if !ok || !method.Direct() || id == "" || in.AmountPaid == nil {
		return nil, ErrInvalidInput
	}

	t, err := u.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != actor.UserID {
		return nil, ErrNotFound
	}
	if t.Status != StatusPending {
		return nil, ErrAlreadyProcessed
	}

	ord, err := u.store.OrderSummary(ctx, t.OrderID)
	if err != nil {
		return nil, err
	}
	if in.AmountPaid.LessThan(ord.TotalPrice) {
		return nil, ErrInsufficientPayment
	}

	out, err := u.store.MarkPaid(ctx, id, &method, in.AmountPaid)
	if err != nil {
		return nil, err
	}

	metrics.Payments.WithLabelValues(string(method), string(StatusPaid)).Inc()
	u.publishSettled(out)
	return out, nil
}

// ConfirmFromGateway reconciles an asynchronous, already signature-verified
// gateway callback. Statuses are monotonic: paid and failed are terminal, a
// replay or out-of-order pending callback is a logged no-op.
func (u *Usecase) ConfirmFromGateway(ctx context.Context, orderRef, gatewayStatus string) (*Transaction, error) {
	ctx, span := tracer.Start(ctx, "payment.confirm_from_gateway")
	defer span.End()

	if orderRef == "" {
		return nil, ErrInvalidInput
	}

	t, err := u.store.GetByGatewayRef(ctx, orderRef)
	if err != nil {
		return nil, err
	}

	if t.Status.Terminal() {
		u.log.Info("webhook replay ignored",
			zap.String("order_ref", orderRef),
			zap.String("status", string(t.Status)),
			zap.String("gateway_status", gatewayStatus))
		metrics.WebhookEvents.WithLabelValues("replay").Inc()
		return t, nil
	}

	switch gatewayStatus {
	case gateway.StatusSettlement:
		out, err := u.store.MarkPaid(ctx, t.ID, nil, nil)
		if errors.Is(err, ErrAlreadyProcessed) {
			// lost the race against another delivery of the same callback
			metrics.WebhookEvents.WithLabelValues("replay").Inc()
			return u.store.GetByID(ctx, t.ID)
		}
		if err != nil {
			return nil, err
		}
		metrics.WebhookEvents.WithLabelValues("settlement").Inc()
		metrics.Payments.WithLabelValues(string(MethodGateway), string(StatusPaid)).Inc()
		u.publishSettled(out)
		return out, nil

	case gateway.StatusCancel, gateway.StatusExpire, gateway.StatusFailure:
		out, err := u.store.MarkFailed(ctx, t.ID)
		if errors.Is(err, ErrAlreadyProcessed) {
			metrics.WebhookEvents.WithLabelValues("replay").Inc()
			return u.store.GetByID(ctx, t.ID)
		}
		if err != nil {
			return nil, err
		}
		metrics.WebhookEvents.WithLabelValues("failed").Inc()
		metrics.Payments.WithLabelValues(string(MethodGateway), string(StatusFailed)).Inc()
		u.publisher.Publish(events.TopicPayments, out.OrderID, events.NewEnvelope(events.EventPaymentFailed, events.PaymentPayload{
			TransactionID: out.ID,
			OrderID:       out.OrderID,
			Method:        string(out.Method),
			Status:        string(out.Status),
			AmountPaid:    out.AmountPaid.String(),
		}))
		return out, nil

	case gateway.StatusPending:
		metrics.WebhookEvents.WithLabelValues("pending").Inc()
		return t, nil

	default:
		// Unknown vocabulary: observable, never a state change.
		u.log.Warn("unrecognized gateway status",
			zap.String("order_ref", orderRef),
			zap.String("gateway_status", gatewayStatus))
		metrics.WebhookEvents.WithLabelValues("unrecognized").Inc()
		return t, nil
	}
}

// AdminUpdateStatus is the maintenance endpoint; it obeys the same monotonic
// rules as the gateway path.
func (u *Usecase) AdminUpdateStatus(ctx context.Context, id string, status string) (*Transaction, error) {
	to, ok := ParseStatus(status)
	if !ok || id == "" {
		return nil, ErrInvalidInput
	}

	t, err := u.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Status.Terminal() {
		return nil, ErrAlreadyProcessed
	}

	switch to {
	case StatusPaid:
		out, err := u.store.MarkPaid(ctx, id, nil, nil)
		if err != nil {
			return nil, err
		}
		metrics.Payments.WithLabelValues(string(out.Method), string(StatusPaid)).Inc()
		u.publishSettled(out)
		return out, nil
	case StatusFailed:
		return u.store.MarkFailed(ctx, id)
	default: // pending -> pending
		return t, nil
	}
}

func (u *Usecase) publishSettled(t *Transaction) {
	u.publisher.Publish(events.TopicPayments, t.OrderID, events.NewEnvelope(events.EventPaymentSettled, events.PaymentPayload{
		TransactionID: t.ID,
		OrderID:       t.OrderID,
		Method:        string(t.Method),
		Status:        string(t.Status),
		AmountPaid:    t.AmountPaid.String(),
	}))
}

func (u *Usecase) List(ctx context.Context) ([]Transaction, error) {
	return u.store.List(ctx)
}

func (u *Usecase) ListByBranch(ctx context.Context, actor domain.Principal) ([]Transaction, error) {
	if actor.BranchID == nil {
		return nil, ErrInvalidInput
	}
	return u.store.ListByBranch(ctx, *actor.BranchID)
}

func (u *Usecase) ListByUser(ctx context.Context, actor domain.Principal) ([]Transaction, error) {
	return u.store.ListByUser(ctx, actor.UserID)
}

func (u *Usecase) GetByID(ctx context.Context, id string) (*Transaction, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return u.store.GetByID(ctx, id)
}

// GetOwned returns the transaction only when it belongs to the caller.
func (u *Usecase) GetOwned(ctx context.Context, actor domain.Principal, id string) (*Transaction, error) {
	t, err := u.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != actor.UserID {
		return nil, ErrNotFound
	}
	return t, nil
}

func (u *Usecase) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidInput
	}
	return u.store.SoftDelete(ctx, id)
}

func (u *Usecase) Restore(ctx context.Context, id string) (*Transaction, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}
	return u.store.Restore(ctx, id)
}
