package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/worldhost-group/support-dashboard/internal/api/http/handlers"
	"github.com/worldhost-group/support-dashboard/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Users             *handlers.UsersHandler
	Tickets           *handlers.TicketsHandler
	Ingest            *handlers.IngestHandler
	Dashboard         *handlers.DashboardHandler
	Notifications     *handlers.NotificationsHandler
	SessionMiddleware *auth.SessionMiddleware
	IngestMiddleware  *auth.IngestMiddleware
	AllowedOrigins    string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	// Extension-facing endpoints allow cross-origin calls from the browser
	// extension; everything else is same-origin dashboard traffic.
	extensionCORS := cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type, Authorization",
	})

	api.Post("/tickets", extensionCORS, cfg.IngestMiddleware.Handle, cfg.Ingest.Ingest)
	api.Post("/extension/login", extensionCORS, cfg.Users.ExtensionLogin)

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", cfg.Users.Signup)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/logout", cfg.Users.Logout)

	session := cfg.SessionMiddleware.Handle

	api.Get("/profile", session, cfg.Users.Profile)
	api.Patch("/profile", session, cfg.Users.UpdateProfile)

	api.Get("/tickets", session, cfg.Tickets.List)
	api.Post("/tickets/restore", session, cfg.Tickets.Restore)
	api.Get("/tickets/:id", session, cfg.Tickets.Get)
	api.Patch("/tickets/:id", session, cfg.Tickets.Update)
	api.Delete("/tickets/:id", session, cfg.Tickets.Delete)
	api.Post("/tickets/:id/claim", session, cfg.Tickets.Claim)

	dashboard := api.Group("/dashboard", session)
	dashboard.Get("/tickets", cfg.Tickets.List)
	dashboard.Get("/brands", cfg.Dashboard.Brands)
	dashboard.Get("/categories", cfg.Dashboard.Categories)
	dashboard.Get("/timeline", cfg.Dashboard.Timeline)
	dashboard.Get("/leaderboard", cfg.Dashboard.Leaderboard)

	api.Get("/notifications", session, cfg.Notifications.List)
	api.Patch("/notifications", session, cfg.Notifications.MarkRead)
	api.Delete("/notifications", session, cfg.Notifications.Delete)
}
