package order

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/sinargas/sinargas-backend/internal/delivery/http/respond"
	"github.com/sinargas/sinargas-backend/internal/delivery/middleware"
	"github.com/sinargas/sinargas-backend/internal/domain"
	orderuc "github.com/sinargas/sinargas-backend/internal/usecase/order"
	payuc "github.com/sinargas/sinargas-backend/internal/usecase/payment"
)

type Handler struct {
	orders   *orderuc.Usecase
	payments *payuc.Usecase
}

func New(orders *orderuc.Usecase, payments *payuc.Usecase) *Handler {
	return &Handler{orders: orders, payments: payments}
}

// Create dispatches on the caller's role: admins place orders on behalf of a
// user with a trusted total, customers get fixed-rate pricing plus an
// immediate payment start.
func (h *Handler) Create(c *fiber.Ctx) error {
	if middleware.Principal(c).Role == domain.RoleUser {
		return h.createByUser(c)
	}
	return h.createAdmin(c)
}

func (h *Handler) createAdmin(c *fiber.Ctx) error {
	var in orderuc.CreateInput
	if err := c.BodyParser(&in); err != nil {
		return respond.Fail(c, fiber.StatusBadRequest, "invalid json")
	}

	out, err := h.orders.Create(c.Context(), middleware.Principal(c), in)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusCreated, "order created", out)
}

type createByUserRequest struct {
	orderuc.CreateByUserInput
	PaymentMethod string           `json:"paymentMethod"`
	AmountPaid    *decimal.Decimal `json:"amountPaid"`
}

// createByUser places the customer's order and immediately starts payment.
// The gateway method hands back a snap token; direct methods settle on the
// spot. The order survives a failed payment start and stays payable through
// the transactions endpoint.
func (h *Handler) createByUser(c *fiber.Ctx) error {
	var in createByUserRequest
	if err := c.BodyParser(&in); err != nil {
		return respond.Fail(c, fiber.StatusBadRequest, "invalid json")
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = string(payuc.MethodGateway)
	}

	p := middleware.Principal(c)
	ord, err := h.orders.CreateByUser(c.Context(), p, in.CreateByUserInput)
	if err != nil {
		return respond.Error(c, err)
	}

	pay, err := h.payments.Initiate(c.Context(), p, payuc.InitiateInput{
		OrderID:    ord.ID,
		Method:     in.PaymentMethod,
		AmountPaid: in.AmountPaid,
	})
	if err != nil {
		return respond.OK(c, fiber.StatusCreated, "order created, payment initiation failed", fiber.Map{
			"order": ord,
		})
	}

	return respond.OK(c, fiber.StatusCreated, "order created", fiber.Map{
		"order":       ord,
		"transaction": pay.Transaction,
		"snapToken":   pay.SnapToken,
	})
}

func (h *Handler) List(c *fiber.Ctx) error {
	p := middleware.Principal(c)
	var (
		out []orderuc.Order
		err error
	)
	switch p.Role {
	case domain.RoleBranchAdmin:
		out, err = h.orders.ListByBranch(c.Context(), p)
	case domain.RoleUser:
		out, err = h.orders.ListByUser(c.Context(), p)
	default:
		out, err = h.orders.List(c.Context())
	}
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "ok", out)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	id, ok := respond.UUIDParam(c, "id")
	if !ok {
		return respond.Fail(c, fiber.StatusNotFound, orderuc.ErrNotFound.Error())
	}

	p := middleware.Principal(c)
	var (
		out *orderuc.Order
		err error
	)
	if p.Role == domain.RoleUser {
		out, err = h.orders.GetOwned(c.Context(), p, id)
	} else {
		out, err = h.orders.GetByID(c.Context(), id)
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
		return respond.Fail(c, fiber.StatusNotFound, orderuc.ErrNotFound.Error())
	}

	var in updateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return respond.Fail(c, fiber.StatusBadRequest, "invalid json")
	}

	out, err := h.orders.UpdateStatus(c.Context(), middleware.Principal(c), id, in.Status)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "order status updated", out)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	id, ok := respond.UUIDParam(c, "id")
	if !ok {
		return respond.Fail(c, fiber.StatusNotFound, orderuc.ErrNotFound.Error())
	}

	var in orderuc.UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return respond.Fail(c, fiber.StatusBadRequest, "invalid json")
	}

	out, err := h.orders.Update(c.Context(), middleware.Principal(c), id, in)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "order updated", out)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	id, ok := respond.UUIDParam(c, "id")
	if !ok {
		return respond.Fail(c, fiber.StatusNotFound, orderuc.ErrNotFound.Error())
	}

	if err := h.orders.Delete(c.Context(), id); err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "order deleted", nil)
}

func (h *Handler) Restore(c *fiber.Ctx) error {
	id, ok := respond.UUIDParam(c, "id")
	if !ok {
		return respond.Fail(c, fiber.StatusNotFound, orderuc.ErrNotFound.Error())
	}

	out, err := h.orders.Restore(c.Context(), id)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "order restored", out)
}
