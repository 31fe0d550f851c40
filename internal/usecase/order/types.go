package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sinargas/sinargas-backend/internal/domain"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted:
		return Status(s), true
	}
	return "", false
}

// isValidTransition encodes the lifecycle: pending may be approved, rejected
// or completed (payment settlement can land before branch approval), approved
// may only complete. rejected and completed are terminal.
func isValidTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusApproved || to == StatusRejected || to == StatusCompleted
	case StatusApproved:
		return to == StatusCompleted
	}
	return false
}

type Order struct {
	ID         string          `json:"id"`
	UserID     string          `json:"userId"`
	BranchID   string          `json:"branchId"`
	GasType    domain.GasType  `json:"gasType"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Status     Status          `json:"status"`
	PickupDate *time.Time      `json:"pickupDate,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// CreateInput is the administrative path: the caller supplies the total.
type CreateInput struct {
	UserID     string           `json:"userId"`
	BranchID   string           `json:"branchId"`
	GasType    string           `json:"gasType"`
	Quantity   int              `json:"quantity"`
	TotalPrice *decimal.Decimal `json:"totalPrice"`
	PickupDate *time.Time       `json:"pickupDate"`
}

// CreateByUserInput is the customer path: the total is computed from the
// configured per-unit rate.
type CreateByUserInput struct {
	BranchID   string     `json:"branchId"`
	GasType    string     `json:"gasType"`
	Quantity   int        `json:"quantity"`
	PickupDate *time.Time `json:"pickupDate"`
}

type UpdateInput struct {
	Status     *string    `json:"status"`
	PickupDate *time.Time `json:"pickupDate"`
}
