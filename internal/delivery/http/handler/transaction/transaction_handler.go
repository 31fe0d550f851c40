package transaction

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sinargas/sinargas-backend/internal/delivery/http/respond"
	"github.com/sinargas/sinargas-backend/internal/delivery/middleware"
	"github.com/sinargas/sinargas-backend/internal/domain"
	payuc "github.com/sinargas/sinargas-backend/internal/usecase/payment"
)

type Handler struct {
	uc *payuc.Usecase
}

func New(uc *payuc.Usecase) *Handler {
	return &Handler{uc: uc}
}

// Initiate starts a payment against an order: direct methods settle
// immediately, the gateway method answers with a snap token.
func (h *Handler) Initiate(c *fiber.Ctx) error {
	var in payuc.InitiateInput
	if err := c.BodyParser(&in); err != nil {
		return respond.Fail(c, fiber.StatusBadRequest, "invalid json")
	}

	p := middleware.Principal(c)
	if p.Role == domain.RoleUser {
		// customers only pay for themselves
		in.UserID = p.UserID
	}

	out, err := h.uc.Initiate(c.Context(), p, in)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusCreated, "payment initiated", out)
}

// Pay settles an existing pending transaction with a direct method.
func (h *Handler) Pay(c *fiber.Ctx) error {
	id, ok := respond.UUIDParam(c, "id")
	if !ok {
		return respond.Fail(c, fiber.StatusNotFound, payuc.ErrNotFound.Error())
	}

	var in payuc.PayInput
	if err := c.BodyParser(&in); err != nil {
		return respond.Fail(c, fiber.StatusBadRequest, "invalid json")
	}

	out, err := h.uc.PayExisting(c.Context(), middleware.Principal(c), id, in)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "payment settled", out)
}

func (h *Handler) List(c *fiber.Ctx) error {
	p := middleware.Principal(c)
	var (
		out []payuc.Transaction
		err error
	)
	switch p.Role {
	case domain.RoleBranchAdmin:
		out, err = h.uc.ListByBranch(c.Context(), p)
	case domain.RoleUser:
		out, err = h.uc.ListByUser(c.Context(), p)
	default:
		out, err = h.uc.List(c.Context())
	}
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "ok", out)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	id, ok := respond.UUIDParam(c, "id")
	if !ok {
		return respond.Fail(c, fiber.StatusNotFound, payuc.ErrNotFound.Error())
	}

	p := middleware.Principal(c)
	var (
		out *payuc.Transaction
		err error
	)
	if p.Role == domain.RoleUser {
		out, err = h.uc.GetOwned(c.Context(), p, id)
	} else {
		out, err = h.uc.GetByID(c.Context(), id)
	}
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "ok", out)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateStatus(c *fiber.Ctx) error {
	id, ok := respond.UUIDParam(c, "id")
	if !ok {
		return respond.Fail(c, fiber.StatusNotFound, payuc.ErrNotFound.Error())
	}

	var in updateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return respond.Fail(c, fiber.StatusBadRequest, "invalid json")
	}

	out, err := h.uc.AdminUpdateStatus(c.Context(), id, in.Status)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "transaction status updated", out)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	id, ok := respond.UUIDParam(c, "id")
	if !ok {
		return respond.Fail(c, fiber.StatusNotFound, payuc.ErrNotFound.Error())
	}

	if err := h.uc.Delete(c.Context(), id); err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "transaction deleted", nil)
}

func (h *Handler) Restore(c *fiber.Ctx) error {
	id, ok := respond.UUIDParam(c, "id")
	if !ok {
		return respond.Fail(c, fiber.StatusNotFound, payuc.ErrNotFound.Error())
	}

	out, err := h.uc.Restore(c.Context(), id)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "transaction restored", out)
}
