package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"

	"pastebin/internal/hash"
	"pastebin/internal/http/middleware"
	"pastebin/internal/ratelimit"
	"pastebin/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Keep handlers minimal and free of business logic.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.PasteService, limiter ratelimit.Limiter, hasher *hash.IPHasher) {
	// Readiness: checks DB connectivity only.
	app.Get("/health", HealthCheck(db))

	// Plain liveness probe.
	app.Get("/healthz", LivenessProbe())

	app.Post("/pastes",
		middleware.RateLimit(limiter, ratelimit.ActionCreate),
		CreatePaste(svc, hasher))

	app.Get("/pastes/:id",
		middleware.RateLimit(limiter, ratelimit.ActionView),
		GetPaste(svc))

	app.Get("/pastes/:id/meta",
		middleware.RateLimit(limiter, ratelimit.ActionView),
		GetPasteMeta(svc))

	app.Get("/pastes/:id/raw",
		middleware.RateLimit(limiter, ratelimit.ActionView),
		GetRawPaste(svc))
}
