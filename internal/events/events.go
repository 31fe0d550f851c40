package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventOrderCreated     = "OrderCreated"
	EventOrderStatusMoved = "OrderStatusMoved"
	EventPaymentSettled   = "PaymentSettled"
	EventPaymentFailed    = "PaymentFailed"
)

const (
	TopicOrders   = "gas.orders"
	TopicPayments = "gas.payments"
)

type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	Payload      json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID    string `json:"order_id"`
	UserID     string `json:"user_id"`
	BranchID   string `json:"branch_id"`
	GasType    string `json:"gas_type"`
	Quantity   int    `json:"quantity"`
	TotalPrice string `json:"total_price"`
}

type OrderStatusMovedPayload struct {
	OrderID string `json:"order_id"`
	From    string `json:"from"`
	To      string `json:"to"`
}

type PaymentPayload struct {
	TransactionID string `json:"transaction_id"`
	OrderID       string `json:"order_id"`
	Method        string `json:"method"`
	Status        string `json:"status"`
	AmountPaid    string `json:"amount_paid"`
}

// NewEnvelope wraps a payload; marshal errors cannot happen for the payload
// types above, so they are swallowed.
func NewEnvelope(eventType string, payload any) Envelope {
	raw, _ := json.Marshal(payload)
	return Envelope{
		EventID:      uuid.NewString(),
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     "sinargas-api",
		Payload:      raw,
	}
}
