// file: internals/route/index.go
package routes

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"thesisflow_backend/internals/configs"
	authMiddleware "thesisflow_backend/internals/middlewares/auth"
	routeDetails "thesisflow_backend/internals/route/details"
)

var startTime time.Time

// HealthFunc reports whether the backing store is reachable.
type HealthFunc func(ctx context.Context) error

func SetupRoutes(app *fiber.App, svc *routeDetails.Services, health HealthFunc) {
	startTime = time.Now()

	BaseRoutes(app, health)

	// ===================== GROUPS =====================

	log.Println("[INFO] Setting up PUBLIC group...")
	public := app.Group("/api/public")
	public.Get("/health", healthHandler(health))

	jwt := authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		Resolver:            svc.Identity,
		AllowCookieFallback: true,
	})

	log.Println("[INFO] Setting up PRIVATE (user) group...")
	user := app.Group("/api/u", jwt)

	log.Println("[INFO] Setting up ADMIN group (Auth + teacher)...")
	admin := app.Group("/api/a", jwt, authMiddleware.TeacherOnly())

	// ===================== MOUNT ROUTES =====================

	log.Println("[INFO] Mounting Thesis routes...")
	routeDetails.ThesisUserRoutes(user, svc)
	routeDetails.ThesisAdminRoutes(admin, svc)
}
