package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/gym-access-service/internal/api/http/handlers"
	"github.com/spec-kit/gym-access-service/internal/auth"
	"github.com/spec-kit/gym-access-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Staff          *handlers.StaffHandler
	Members        *handlers.MembersHandler
	Presence       *handlers.PresenceHandler
	Visits         *handlers.VisitsHandler
	FeedWS         fiber.Handler
	LiveWS         fiber.Handler
	WSUpgrade      fiber.Handler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/staff/login", cfg.Staff.Login)
	authGroup.Post("/password/reset/request", cfg.Staff.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Staff.ConfirmPasswordReset)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, cfg.Staff.ChangePassword)

	// Scanner ingress. Gates sit on the facility network; they hold no
	// staff credentials.
	app.Post("/feed/events", cfg.Presence.IngestFrame)
	app.Get("/ws/feed", cfg.WSUpgrade, cfg.FeedWS)
	app.Get("/ws/live", cfg.WSUpgrade, cfg.LiveWS)

	staffOnly := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireStaffRole())

	staffOnly.Get("/presence/snapshot", cfg.Presence.Snapshot)
	staffOnly.Get("/presence/highlights", cfg.Presence.Highlights)

	staffOnly.Get("/visits/today", cfg.Visits.Today)
	staffOnly.Get("/members/:tag/visits", cfg.Visits.ListByTag)

	admin := app.Group("/members", cfg.AuthMiddleware.Handle,
		auth.RequireStaffRole(domain.StaffRoleAdmin, domain.StaffRoleFrontDesk))
	admin.Post("", cfg.Members.Register)
	admin.Get("", cfg.Members.List)
	admin.Get("/:tag", cfg.Members.GetByTag)
	admin.Patch("/:id", cfg.Members.Update)
}
