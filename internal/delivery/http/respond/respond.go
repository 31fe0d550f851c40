// Package respond owns the wire envelope and the translation from usecase
// errors to HTTP statuses, so every handler answers in the same shape.
package respond

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/sinargas/sinargas-backend/internal/gateway"
	authuc "github.com/sinargas/sinargas-backend/internal/usecase/auth"
	branchuc "github.com/sinargas/sinargas-backend/internal/usecase/branch"
	orderuc "github.com/sinargas/sinargas-backend/internal/usecase/order"
	payuc "github.com/sinargas/sinargas-backend/internal/usecase/payment"
	stockuc "github.com/sinargas/sinargas-backend/internal/usecase/stock"
	useruc "github.com/sinargas/sinargas-backend/internal/usecase/user"
)

type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Result  any    `json:"result,omitempty"`
}

func OK(c *fiber.Ctx, status int, message string, result any) error {
	return c.Status(status).JSON(Envelope{Success: true, Message: message, Result: result})
}

func Fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Envelope{Success: false, Message: message})
}

// FailFields is the validation answer: per-field messages under result.
func FailFields(c *fiber.Ctx, message string, fields map[string]string) error {
	return c.Status(fiber.StatusUnprocessableEntity).
		JSON(Envelope{Success: false, Message: message, Result: fields})
}

// UUIDParam reads a path parameter that must be a UUID. A malformed id gets
// the same answer as a missing record so ids are never reflected back raw.
func UUIDParam(c *fiber.Ctx, name string) (string, bool) {
	id := c.Params(name)
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// Error maps a usecase error onto the envelope. Unrecognized errors become an
// opaque 500 so internals never leak to clients.
func Error(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, stockuc.ErrInvalidInput),
		errors.Is(err, orderuc.ErrInvalidInput),
		errors.Is(err, payuc.ErrInvalidInput),
		errors.Is(err, authuc.ErrInvalidInput),
		errors.Is(err, useruc.ErrInvalidInput),
		errors.Is(err, branchuc.ErrInvalidInput):
		return Fail(c, fiber.StatusUnprocessableEntity, err.Error())

	case errors.Is(err, authuc.ErrConflict),
		errors.Is(err, useruc.ErrConflict):
		return Fail(c, fiber.StatusUnprocessableEntity, err.Error())

	case errors.Is(err, stockuc.ErrNotFound),
		errors.Is(err, stockuc.ErrBranchMissing),
		errors.Is(err, orderuc.ErrNotFound),
		errors.Is(err, orderuc.ErrUserMissing),
		errors.Is(err, orderuc.ErrBranchMissing),
		errors.Is(err, payuc.ErrNotFound),
		errors.Is(err, payuc.ErrOrderMissing),
		errors.Is(err, payuc.ErrUserMissing),
		errors.Is(err, authuc.ErrUserMissing),
		errors.Is(err, useruc.ErrNotFound),
		errors.Is(err, branchuc.ErrNotFound):
		return Fail(c, fiber.StatusNotFound, err.Error())

	case errors.Is(err, stockuc.ErrForbidden),
		errors.Is(err, orderuc.ErrForbidden),
		errors.Is(err, useruc.ErrForbidden),
		errors.Is(err, gateway.ErrSignatureMismatch):
		return Fail(c, fiber.StatusForbidden, err.Error())

	case errors.Is(err, authuc.ErrInvalidCredentials),
		errors.Is(err, authuc.ErrInvalidToken):
		return Fail(c, fiber.StatusUnauthorized, err.Error())

	case errors.Is(err, stockuc.ErrInsufficientStock),
		errors.Is(err, orderuc.ErrInsufficientStock),
		errors.Is(err, orderuc.ErrInvalidTransition),
		errors.Is(err, orderuc.ErrPickupInPast),
		errors.Is(err, payuc.ErrInsufficientPayment),
		errors.Is(err, payuc.ErrAlreadyProcessed),
		errors.Is(err, payuc.ErrPaymentInProgress),
		errors.Is(err, authuc.ErrInvalidOTP),
		errors.Is(err, authuc.ErrNotVerified):
		return Fail(c, fiber.StatusBadRequest, err.Error())

	default:
		return Fail(c, fiber.StatusInternalServerError, "internal server error")
	}
}
