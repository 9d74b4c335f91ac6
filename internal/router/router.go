package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/skillforge/codelab-api/internal/config"
	"github.com/skillforge/codelab-api/internal/handler"
	"github.com/skillforge/codelab-api/internal/middleware"
	"github.com/skillforge/codelab-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ProblemHandler    *handler.ProblemHandler
	SubmissionHandler *handler.SubmissionHandler
	ReviewHandler     *handler.ReviewHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.ProblemHandler != nil {
		problems := api.Group("/problems", jwtMiddleware)
		deps.ProblemHandler.Register(problems)
	}

	if deps.SubmissionHandler != nil {
		// Sandbox runs are expensive; keep per-user submission pressure bounded.
		submissions := api.Group("/submissions", jwtMiddleware, middleware.RateLimit("submissions", 10, time.Minute))
		deps.SubmissionHandler.Register(submissions)
	}

	if deps.ReviewHandler != nil {
		reviews := api.Group("/ai/code-review", jwtMiddleware)
		deps.ReviewHandler.Register(reviews)
	}
}
