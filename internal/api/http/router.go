package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/serenity-care/wellness-api/internal/api/http/handlers"
	"github.com/serenity-care/wellness-api/internal/auth"
	"github.com/serenity-care/wellness-api/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Admin    *handlers.AdminHandler
	Catalog  *handlers.CatalogHandler
	Bookings *handlers.BookingHandler
	Journal  *handlers.JournalHandler
	Guard    *auth.Guard
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", cfg.Guard.Handle, auth.RequireAuthenticated(), cfg.Auth.Me)
	authGroup.Post("/password", cfg.Guard.Handle, auth.RequireAuthenticated(), cfg.Auth.ChangePassword)

	api.Get("/services", cfg.Catalog.List)
	api.Post("/services", cfg.Guard.Handle, auth.Require(domain.RoleAdmin), cfg.Catalog.Create)

	admin := api.Group("/admin", cfg.Guard.Handle, auth.Require(domain.RoleAdmin))
	admin.Post("/employees", cfg.Admin.CreateEmployee)
	admin.Patch("/accounts/:role/:id/deactivate", cfg.Admin.Deactivate)
	admin.Get("/metrics", cfg.Admin.Metrics)

	bookings := api.Group("/bookings", cfg.Guard.Handle, auth.Require(domain.RoleUser))
	bookings.Post("/", cfg.Bookings.Create)
	bookings.Get("/", cfg.Bookings.ListMine)

	journal := api.Group("/mood-entries", cfg.Guard.Handle, auth.Require(domain.RoleUser))
	journal.Post("/", cfg.Journal.Create)
	journal.Get("/", cfg.Journal.List)

	employee := api.Group("/employee", cfg.Guard.Handle, auth.Require(domain.RoleEmployee))
	employee.Get("/bookings", cfg.Bookings.ListAll)
	employee.Patch("/bookings/:id", cfg.Bookings.UpdateStatus)
}
