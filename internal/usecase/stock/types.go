package stock

import (
	"time"

	"github.com/sinargas/sinargas-backend/internal/domain"
)

type Entry struct {
	ID        string         `json:"id"`
	BranchID  string         `json:"branchId"`
	GasType   domain.GasType `json:"gasType"`
	Quantity  int            `json:"quantity"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type StockInInput struct {
	BranchID string `json:"branchId"`
	GasType  string `json:"gasType"`
	Quantity int    `json:"quantity"`
}

type UpdateInput struct {
	GasType  *string `json:"gasType"`
	Quantity *int    `json:"quantity"`
}
