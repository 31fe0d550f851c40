package http

import (
	"github.com/gofiber/fiber/v2"

	authhandler "github.com/sinargas/sinargas-backend/internal/delivery/http/handler/auth"
	branchhandler "github.com/sinargas/sinargas-backend/internal/delivery/http/handler/branch"
	orderhandler "github.com/sinargas/sinargas-backend/internal/delivery/http/handler/order"
	stockhandler "github.com/sinargas/sinargas-backend/internal/delivery/http/handler/stock"
	trxhandler "github.com/sinargas/sinargas-backend/internal/delivery/http/handler/transaction"
	userhandler "github.com/sinargas/sinargas-backend/internal/delivery/http/handler/user"
	webhookhandler "github.com/sinargas/sinargas-backend/internal/delivery/http/handler/webhook"
	"github.com/sinargas/sinargas-backend/internal/delivery/middleware"
	"github.com/sinargas/sinargas-backend/internal/domain"
)

type Handlers struct {
	Auth        *authhandler.Handler
	Branch      *branchhandler.Handler
	User        *userhandler.Handler
	Stock       *stockhandler.Handler
	Order       *orderhandler.Handler
	Transaction *trxhandler.Handler
	Webhook     *webhookhandler.Handler
}

func RegisterRoutes(app *fiber.App, auth *middleware.Auth, h Handlers) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	v1 := app.Group("/v1")

	// public
	v1.Post("/auth/register", h.Auth.Register)
	v1.Post("/auth/verify-otp", h.Auth.VerifyOTP)
	v1.Post("/auth/login", h.Auth.Login)
	v1.Post("/payments/webhook", h.Webhook.Handle)

	sec := v1.Group("", auth.Protect())

	superOnly := middleware.RequireRoles(domain.RoleSuperAdmin)
	admins := middleware.RequireRoles(domain.RoleSuperAdmin, domain.RoleBranchAdmin)
	anyRole := middleware.RequireRoles(domain.RoleSuperAdmin, domain.RoleBranchAdmin, domain.RoleUser)

	sec.Post("/auth/logout", h.Auth.Logout)
	sec.Get("/auth/me", h.Auth.Me)

	// branches: customers may browse, only the super admin mutates
	sec.Get("/branches", anyRole, h.Branch.List)
	sec.Get("/branches/:id", anyRole, h.Branch.Get)
	sec.Post("/branches", superOnly, h.Branch.Create)
	sec.Patch("/branches/:id", superOnly, h.Branch.Update)
	sec.Delete("/branches/:id", superOnly, h.Branch.Delete)
	sec.Post("/branches/:id/restore", superOnly, h.Branch.Restore)

	// users
	sec.Post("/users", superOnly, h.User.Create)
	sec.Get("/users", admins, h.User.List)
	sec.Get("/users/:id", admins, h.User.Get)
	sec.Patch("/users/:id", superOnly, h.User.Update)
	sec.Delete("/users/:id", superOnly, h.User.Delete)
	sec.Post("/users/:id/restore", superOnly, h.User.Restore)

	// gas stocks
	sec.Post("/gas-stocks", admins, h.Stock.StockIn)
	sec.Get("/gas-stocks", admins, h.Stock.List)
	sec.Get("/gas-stocks/:id", admins, h.Stock.Get)
	sec.Patch("/gas-stocks/:id", admins, h.Stock.Update)
	sec.Delete("/gas-stocks/:id", admins, h.Stock.Delete)
	sec.Post("/gas-stocks/:id/restore", superOnly, h.Stock.Restore)

	// orders
	sec.Post("/orders", anyRole, h.Order.Create)
	sec.Get("/orders", anyRole, h.Order.List)
	sec.Get("/orders/:id", anyRole, h.Order.Get)
	sec.Patch("/orders/:id/status", admins, h.Order.UpdateStatus)
	sec.Patch("/orders/:id", superOnly, h.Order.Update)
	sec.Delete("/orders/:id", superOnly, h.Order.Delete)
	sec.Post("/orders/:id/restore", superOnly, h.Order.Restore)

	// transactions
	sec.Post("/transactions", anyRole, h.Transaction.Initiate)
	sec.Post("/transactions/:id/pay", middleware.RequireRoles(domain.RoleUser), h.Transaction.Pay)
	sec.Get("/transactions", anyRole, h.Transaction.List)
	sec.Get("/transactions/:id", anyRole, h.Transaction.Get)
	sec.Patch("/transactions/:id/status", superOnly, h.Transaction.UpdateStatus)
	sec.Delete("/transactions/:id", superOnly, h.Transaction.Delete)
	sec.Post("/transactions/:id/restore", superOnly, h.Transaction.Restore)
}
