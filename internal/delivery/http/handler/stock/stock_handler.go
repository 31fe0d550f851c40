package stock

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sinargas/sinargas-backend/internal/delivery/http/respond"
	"github.com/sinargas/sinargas-backend/internal/delivery/middleware"
	"github.com/sinargas/sinargas-backend/internal/domain"
	stockuc "github.com/sinargas/sinargas-backend/internal/usecase/stock"
)

type Handler struct {
	uc *stockuc.Usecase
}

func New(uc *stockuc.Usecase) *Handler {
	return &Handler{uc: uc}
}

// StockIn records received cylinders. Branch admins are pinned to their own
// branch regardless of the request body.
func (h *Handler) StockIn(c *fiber.Ctx) error {
	var in stockuc.StockInInput
	if err := c.BodyParser(&in); err != nil {
		return respond.Fail(c, fiber.StatusBadRequest, "invalid json")
	}

	out, err := h.uc.StockIn(c.Context(), middleware.Principal(c), in)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusCreated, "stock recorded", out)
}

func (h *Handler) List(c *fiber.Ctx) error {
	p := middleware.Principal(c)
	if p.Role == domain.RoleBranchAdmin {
		out, err := h.uc.ListByBranch(c.Context(), p)
		if err != nil {
			return respond.Error(c, err)
		}
		return respond.OK(c, fiber.StatusOK, "ok", out)
	}

	out, err := h.uc.List(c.Context())
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "ok", out)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	id, ok := respond.UUIDParam(c, "id")
	if !ok {
		return respond.Fail(c, fiber.StatusNotFound, stockuc.ErrNotFound.Error())
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
		return respond.Fail(c, fiber.StatusNotFound, stockuc.ErrNotFound.Error())
	}

	var in stockuc.UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return respond.Fail(c, fiber.StatusBadRequest, "invalid json")
	}

	out, err := h.uc.Update(c.Context(), middleware.Principal(c), id, in)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "stock updated", out)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	id, ok := respond.UUIDParam(c, "id")
	if !ok {
		return respond.Fail(c, fiber.StatusNotFound, stockuc.ErrNotFound.Error())
	}

	if err := h.uc.Delete(c.Context(), middleware.Principal(c), id); err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "stock deleted", nil)
}

func (h *Handler) Restore(c *fiber.Ctx) error {
	id, ok := respond.UUIDParam(c, "id")
	if !ok {
		return respond.Fail(c, fiber.StatusNotFound, stockuc.ErrNotFound.Error())
	}

	out, err := h.uc.Restore(c.Context(), id)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "stock restored", out)
}
