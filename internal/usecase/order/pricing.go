package order

import (
	"github.com/shopspring/decimal"

	"github.com/sinargas/sinargas-backend/internal/domain"
)

// Pricing decides an order's total. The two call paths of the API priced
// orders differently, so both strategies exist explicitly instead of being
// spread over handlers.
type Pricing interface {
	Total(gas domain.GasType, quantity int, callerTotal *decimal.Decimal) (decimal.Decimal, error)
}

// TrustedTotal accepts the caller-supplied total as-is. Used by the
// administrative create path.
type TrustedTotal struct{}

func (TrustedTotal) Total(_ domain.GasType, _ int, callerTotal *decimal.Decimal) (decimal.Decimal, error) {
	if callerTotal == nil || callerTotal.IsNegative() {
		return decimal.Zero, ErrInvalidInput
	}
	return *callerTotal, nil
}

// FixedRate multiplies quantity by the configured per-unit price of the gas
// type. Used by the customer path.
type FixedRate struct {
	Prices map[domain.GasType]decimal.Decimal
}

func (f FixedRate) Total(gas domain.GasType, quantity int, _ *decimal.Decimal) (decimal.Decimal, error) {
	unit, ok := f.Prices[gas]
	if !ok {
		return decimal.Zero, ErrInvalidInput
	}
	return unit.Mul(decimal.NewFromInt(int64(quantity))), nil
}
