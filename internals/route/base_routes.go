package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func BaseRoutes(app *fiber.App, health HealthFunc) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("thesisflow backend is running")
	})
	app.Get("/health", healthHandler(health))
}

func healthHandler(health HealthFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeStatus := "Connected"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		if health != nil {
			if err := health(c.UserContext()); err != nil {
				storeStatus = "Store unavailable"
				serverStatus = "DOWN"
				httpStatus = fiber.StatusServiceUnavailable
			}
		}

		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"store":          storeStatus,
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int64(time.Since(startTime).Seconds()),
		})
	}
}
