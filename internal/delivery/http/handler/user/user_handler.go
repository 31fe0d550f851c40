package user

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sinargas/sinargas-backend/internal/delivery/http/respond"
	"github.com/sinargas/sinargas-backend/internal/delivery/middleware"
	"github.com/sinargas/sinargas-backend/internal/domain"
	useruc "github.com/sinargas/sinargas-backend/internal/usecase/user"
)

type Handler struct {
	uc *useruc.Usecase
}

func New(uc *useruc.Usecase) *Handler {
	return &Handler{uc: uc}
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var in useruc.CreateInput
	if err := c.BodyParser(&in); err != nil {
		return respond.Fail(c, fiber.StatusBadRequest, "invalid json")
	}

	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusCreated, "user created", out)
}

// List answers with all users for super admins and with the admin's own
// branch otherwise.
func (h *Handler) List(c *fiber.Ctx) error {
	p := middleware.Principal(c)
	var (
		out []useruc.User
		err error
	)
	if p.Role == domain.RoleBranchAdmin {
		out, err = h.uc.ListByBranch(c.Context(), p)
	} else {
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
		return respond.Fail(c, fiber.StatusNotFound, useruc.ErrNotFound.Error())
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
		return respond.Fail(c, fiber.StatusNotFound, useruc.ErrNotFound.Error())
	}

	var in useruc.UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return respond.Fail(c, fiber.StatusBadRequest, "invalid json")
	}

	out, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "user updated", out)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	id, ok := respond.UUIDParam(c, "id")
	if !ok {
		return respond.Fail(c, fiber.StatusNotFound, useruc.ErrNotFound.Error())
	}

	if err := h.uc.Delete(c.Context(), id); err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "user deleted", nil)
}

func (h *Handler) Restore(c *fiber.Ctx) error {
	id, ok := respond.UUIDParam(c, "id")
	if !ok {
		return respond.Fail(c, fiber.StatusNotFound, useruc.ErrNotFound.Error())
	}

	out, err := h.uc.Restore(c.Context(), id)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "user restored", out)
}
