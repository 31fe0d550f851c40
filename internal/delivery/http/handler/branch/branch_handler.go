package branch

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sinargas/sinargas-backend/internal/delivery/http/respond"
	branchuc "github.com/sinargas/sinargas-backend/internal/usecase/branch"
)

type Handler struct {
	uc *branchuc.Usecase
}

func New(uc *branchuc.Usecase) *Handler {
	return &Handler{uc: uc}
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var in branchuc.CreateInput
	if err := c.BodyParser(&in); err != nil {
		return respond.Fail(c, fiber.StatusBadRequest, "invalid json")
	}

	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusCreated, "branch created", out)
}

func (h *Handler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "ok", out)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	id, ok := respond.UUIDParam(c, "id")
	if !ok {
		return respond.Fail(c, fiber.StatusNotFound, branchuc.ErrNotFound.Error())
	}

	out, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "ok", out)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	id, ok := respond.UUIDParam(c, "id")
	if !ok {
		return respond.Fail(c, fiber.StatusNotFound, branchuc.ErrNotFound.Error())
	}

	var in branchuc.UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return respond.Fail(c, fiber.StatusBadRequest, "invalid json")
	}

	out, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "branch updated", out)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	id, ok := respond.UUIDParam(c, "id")
	if !ok {
		return respond.Fail(c, fiber.StatusNotFound, branchuc.ErrNotFound.Error())
	}

	if err := h.uc.Delete(c.Context(), id); err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "branch deleted", nil)
}

func (h *Handler) Restore(c *fiber.Ctx) error {
	id, ok := respond.UUIDParam(c, "id")
	if !ok {
		return respond.Fail(c, fiber.StatusNotFound, branchuc.ErrNotFound.Error())
	}

	out, err := h.uc.Restore(c.Context(), id)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "branch restored", out)
}
