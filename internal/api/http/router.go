package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/overseer/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Tickets *handlers.TicketsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	tickets := app.Group("/tickets")
	tickets.Post("", cfg.Tickets.Submit)
	tickets.Get("", cfg.Tickets.List)
	tickets.Get("/:key", cfg.Tickets.Get)
	tickets.Get("/:key/run", cfg.Tickets.GetRun)
	tickets.Get("/:key/audit", cfg.Tickets.GetAudit)
}
