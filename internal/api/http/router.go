package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/employee-service/internal/api/http/handlers"
	"github.com/spec-kit/employee-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Employees      *handlers.EmployeesHandler
	Meta           *handlers.MetaHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Post("/token/", cfg.Auth.ObtainTokenPair)
	api.Post("/token/refresh/", cfg.Auth.RefreshToken)

	protected := api.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/employees/", cfg.Employees.List)
	protected.Post("/employees/create/", cfg.Employees.Create)
	protected.Get("/employees/:id/", cfg.Employees.Detail)
	protected.Put("/employees/:id/update/", cfg.Employees.Update)
	protected.Patch("/employees/:id/update/", cfg.Employees.Update)
	protected.Delete("/employees/:id/delete/", cfg.Employees.Delete)
	protected.Get("/departments/", cfg.Meta.Departments)
	protected.Get("/roles/", cfg.Meta.Roles)
}
