package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/sinargas/sinargas-backend/internal/delivery/http/respond"
	"github.com/sinargas/sinargas-backend/internal/delivery/middleware"
	"github.com/sinargas/sinargas-backend/internal/domain"
	authuc "github.com/sinargas/sinargas-backend/internal/usecase/auth"
)

type Handler struct {
	uc *authuc.Usecase
}

func New(uc *authuc.Usecase) *Handler {
	return &Handler{uc: uc}
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var in authuc.RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return respond.Fail(c, fiber.StatusBadRequest, "invalid json")
	}

	if fields := validateRegister(in); len(fields) > 0 {
		return respond.FailFields(c, "validation failed", fields)
	}

	out, err := h.uc.Register(c.Context(), in)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusCreated, "registered, please verify the otp sent to your phone", out)
}

func validateRegister(in authuc.RegisterInput) map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "name is required"
	}
	if !strings.Contains(in.Email, "@") {
		fields["email"] = "a valid email is required"
	}
	if len(in.Password) < 6 {
		fields["password"] = "password must be at least 6 characters"
	}
	if len(in.NIK) != 16 {
		fields["nik"] = "nik must be 16 characters"
	}
	if len(in.KK) != 16 {
		fields["kk"] = "kk must be 16 characters"
	}
	if p := strings.TrimSpace(in.Phone); p == "" || len(p) > 20 {
		fields["phone"] = "phone is required and at most 20 characters"
	}
	role, ok := domain.ParseRole(in.Role)
	if !ok {
		fields["role"] = "role must be one of super_admin, admin_cabang, user"
	}
	if ok && role == domain.RoleBranchAdmin && in.BranchID == nil {
		fields["branchId"] = "branch is required for admin_cabang"
	}
	return fields
}

type verifyOTPRequest struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

func (h *Handler) VerifyOTP(c *fiber.Ctx) error {
	var in verifyOTPRequest
	if err := c.BodyParser(&in); err != nil {
		return respond.Fail(c, fiber.StatusBadRequest, "invalid json")
	}

	if err := h.uc.VerifyOTP(c.Context(), in.Phone, in.OTP); err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "account verified", nil)
}

type loginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var in loginRequest
	if err := c.BodyParser(&in); err != nil {
		return respond.Fail(c, fiber.StatusBadRequest, "invalid json")
	}

	out, err := h.uc.Login(c.Context(), in.Phone, in.Password)
	if err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "login successful", out)
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	if err := h.uc.Logout(c.Context(), middleware.RawToken(c)); err != nil {
		return respond.Error(c, err)
	}
	return respond.OK(c, fiber.StatusOK, "logged out", nil)
}

func (h *Handler) Me(c *fiber.Ctx) error {
	p := middleware.Principal(c)
	return respond.OK(c, fiber.StatusOK, "ok", fiber.Map{
		"userId":   p.UserID,
		"role":     p.Role,
		"branchId": p.BranchID,
	})
}
