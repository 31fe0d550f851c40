// Package webhook receives the payment gateway's status callbacks. The
// endpoint is unauthenticated; the sha512 signature over the notification
// body is the only trust anchor.
package webhook

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/sinargas/sinargas-backend/internal/delivery/http/respond"
	"github.com/sinargas/sinargas-backend/internal/gateway"
	payuc "github.com/sinargas/sinargas-backend/internal/usecase/payment"
)

type Handler struct {
	uc        *payuc.Usecase
	serverKey string
	log       *zap.Logger
}

func New(uc *payuc.Usecase, serverKey string, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{uc: uc, serverKey: serverKey, log: log}
}

func (h *Handler) Handle(c *fiber.Ctx) error {
	var n gateway.Notification
	if err := c.BodyParser(&n); err != nil {
		return respond.Fail(c, fiber.StatusBadRequest, "invalid json")
	}

	if err := n.Verify(h.serverKey); err != nil {
		h.log.Warn("webhook signature rejected",
			zap.String("order_id", n.OrderID),
			zap.String("transaction_status", n.TransactionStatus))
		return respond.Error(c, err)
	}

	out, err := h.uc.ConfirmFromGateway(c.Context(), n.OrderID, n.TransactionStatus)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "notification processed", out)
}
