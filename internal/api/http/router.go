package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Session        *handlers.SessionHandler
	Tickets        *handlers.TicketsHandler
	Users          *handlers.UsersHandler
	Billing        *handlers.BillingHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Post("/auth/login", cfg.Session.Login)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)
	api.Get("/me", cfg.Session.Me)

	leadership := auth.RequireRole(domain.RoleAdmin, domain.RoleManager, domain.RoleTeamLead)
	management := auth.RequireRole(domain.RoleAdmin, domain.RoleManager)
	staff := auth.RequireRole(domain.RoleAdmin, domain.RoleManager, domain.RoleTeamLead, domain.RoleAgent)

	tickets := api.Group("/tickets")
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Post("/triage", auth.RequireFeature(auth.FeatureNeuralTriage), cfg.Tickets.Triage)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id/status", cfg.Tickets.UpdateStatus)
	tickets.Post("/:id/comments", cfg.Tickets.AddComment)
	tickets.Post("/:id/assign", leadership, cfg.Tickets.Assign)
	tickets.Post("/:id/escalate", staff, cfg.Tickets.Escalate)
	tickets.Post("/:id/summary", auth.RequireFeature(auth.FeatureNeuralSummary), cfg.Tickets.Summarize)

	api.Get("/dashboard", cfg.Reports.Dashboard)
	api.Get("/performance", management, cfg.Reports.Performance)
	api.Get("/performance/report.csv", management, cfg.Reports.PerformanceCSV)

	api.Get("/directory", leadership, cfg.Users.Directory)
	api.Post("/users", leadership, cfg.Users.CreateUser)
	api.Post("/users/:id/toggle-active", leadership, cfg.Users.ToggleActive)

	api.Get("/billing", management, cfg.Billing.Billing)
	api.Post("/billing/upgrade", management, cfg.Billing.Upgrade)

	api.Get("/companies", auth.RequireRole(domain.RoleAdmin), cfg.Billing.Companies)
	api.Get("/notifications", auth.RequireRole(domain.RoleAdmin), cfg.Billing.Notifications)
	api.Get("/categories", leadership, auth.RequireFeature(auth.FeatureKnowledgeBase), cfg.Billing.Categories)
}
