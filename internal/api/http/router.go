package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-triage/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Analysis  *handlers.AnalysisHandler
	Knowledge *handlers.KnowledgeHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1")

	tickets := api.Group("/tickets")
	tickets.Post("/analyze", cfg.Analysis.Analyze)
	tickets.Post("/classify", cfg.Analysis.Classify)
	tickets.Post("/predict-priority", cfg.Analysis.PredictPriority)
	tickets.Post("/bulk", cfg.Analysis.Bulk)
	tickets.Get("/history", cfg.Analysis.History)
	tickets.Get("/:id", cfg.Analysis.Get)

	agents := api.Group("/agents")
	agents.Post("/feedback", cfg.Analysis.Feedback)
	agents.Get("/performance", cfg.Analysis.Performance)

	api.Get("/review/:id", cfg.Analysis.Review)

	kb := api.Group("/knowledge")
	kb.Post("/documents", cfg.Knowledge.AddDocument)
	kb.Get("/search", cfg.Knowledge.Search)
}
