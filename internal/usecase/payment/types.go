package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

type Method string

const (
	MethodCash         Method = "cash"
	MethodBankTransfer Method = "bank_transfer"
	MethodEwallet      Method = "ewallet"
	MethodGateway      Method = "gateway"
)

func ParseMethod(s string) (Method, bool) {
	switch Method(s) {
	case MethodCash, MethodBankTransfer, MethodEwallet, MethodGateway:
		return Method(s), true
	}
	return "", false
}

func (m Method) Direct() bool { return m != MethodGateway }

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusFailed  Status = "failed"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusPaid, StatusFailed:
		return Status(s), true
	}
	return "", false
}

// Terminal statuses never revert; a late or replayed gateway callback against
// one is a no-op.
func (s Status) Terminal() bool { return s == StatusPaid || s == StatusFailed }

type Transaction struct {
	ID             string          `json:"id"`
	OrderID        string          `json:"orderId"`
	UserID         string          `json:"userId"`
	Method         Method          `json:"paymentMethod"`
	Status         Status          `json:"status"`
	AmountPaid     decimal.Decimal `json:"amountPaid"`
	GatewayOrderID *string         `json:"gatewayOrderId,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// OrderInfo is the slice of the order the reconciler needs.
type OrderInfo struct {
	ID         string
	UserID     string
	BranchID   string
	TotalPrice decimal.Decimal
	Status     string
	Completed  bool
}

// Contact feeds the gateway's customer details.
type Contact struct {
	Name  string
	Email string
}

type InitiateInput struct {
	OrderID    string           `json:"orderId"`
	UserID     string           `json:"userId"`
	Method     string           `json:"paymentMethod"`
	AmountPaid *decimal.Decimal `json:"amountPaid"`
}

type InitiateResult struct {
	Transaction *Transaction `json:"transaction"`
	SnapToken   string       `json:"snapToken,omitempty"`
}

type PayInput struct {
	Method     string           `json:"paymentMethod"`
	AmountPaid *decimal.Decimal `json:"amountPaid"`
}
