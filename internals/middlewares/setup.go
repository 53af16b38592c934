package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"thesisflow_backend/internals/middlewares/logger"
)

// SetupMiddlewares mounts the global chain: recovery, CORS, access log,
// rate limiting.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(logger.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}
