// middlewares/cors.go

package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"thesisflow_backend/internals/configs"
)

// CorsMiddleware reads the allowed origins from CORS_ORIGINS (comma separated).
func CorsMiddleware() fiber.Handler {
	origins := strings.TrimSpace(configs.CORSOrigins)
	if origins == "" {
		origins = "*"
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowCredentials: origins != "*",
	})
}
