package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/visitor-access/internal/api/http/handlers"
	"github.com/spec-kit/visitor-access/internal/auth"
	"github.com/spec-kit/visitor-access/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Staff          *handlers.StaffHandler
	Passes         *handlers.PassesHandler
	CheckIn        *handlers.CheckInHandler
	Bookings       *handlers.BookingsHandler
	Access         *handlers.AccessHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/staff/login", cfg.Staff.Login)

	// Terminal endpoint: the pass token itself is the credential.
	app.Post("/check-in", cfg.CheckIn.CheckIn)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())

	protected.Post("/auth/staff/register", auth.RequireStaffRole(domain.StaffRoleAdmin), cfg.Staff.Register)

	protected.Post("/passes", auth.RequireStaffRole(domain.StaffRoleHost, domain.StaffRoleSecurity, domain.StaffRoleAdmin), cfg.Passes.Issue)
	protected.Post("/visitors/:id/check-out", auth.RequireStaffRole(domain.StaffRoleSecurity, domain.StaffRoleAdmin), cfg.CheckIn.CheckOut)

	protected.Post("/bookings", cfg.Bookings.Create)
	protected.Get("/bookings/conflicts", cfg.Bookings.Conflicts)
	protected.Get("/bookings/:id", cfg.Bookings.Get)

	protected.Post("/access/evaluate", auth.RequireStaffRole(domain.StaffRoleSecurity, domain.StaffRoleAdmin), cfg.Access.Evaluate)
	protected.Post("/access/grants", auth.RequireStaffRole(domain.StaffRoleAdmin), cfg.Access.CreateGrant)
	protected.Delete("/access/grants/:id", auth.RequireStaffRole(domain.StaffRoleAdmin), cfg.Access.RevokeGrant)
}
