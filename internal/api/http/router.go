package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/account-service/internal/api/http/handlers"
	"github.com/spec-kit/account-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)

	userGroup := api.Group("/user", cfg.AuthMiddleware.Handle)
	userGroup.Get("/", cfg.Users.CurrentUser)
	userGroup.Get("/users", cfg.Users.List)
	userGroup.Get("/:id", cfg.Users.GetByID)
	userGroup.Patch("/:id", cfg.Users.Update)
	userGroup.Delete("/:id", cfg.Users.Delete)
}
