package route

import (
	"github.com/gofiber/fiber/v2"

	"thesisflow_backend/internals/features/thesis/theses/controller"
	thesisService "thesisflow_backend/internals/features/thesis/theses/service"
	"thesisflow_backend/internals/helpers/storage"
	"thesisflow_backend/internals/middlewares"
)

func ThesisUserRoutes(user fiber.Router, svc *thesisService.ThesisService, blobs storage.BlobStore) {
	ctl := controller.NewThesisController(svc, blobs)

	// Group: /theses
	g := user.Group("/theses")
	g.Get("/list", ctl.List)
	g.Get("/by-proposal/:proposal_id", ctl.GetByProposal)
	g.Get("/:id", ctl.GetByID)
	g.Post("/:id/document", middlewares.UploadRateLimiter(), ctl.UploadDocument)
	g.Post("/:id/request-defense", ctl.RequestDefense)
}

func ThesisAdminRoutes(admin fiber.Router, svc *thesisService.ThesisService, blobs storage.BlobStore) {
	ctl := controller.NewThesisController(svc, blobs)

	g := admin.Group("/theses")
	g.Post("/", ctl.Create)
	g.Post("/:id/defense", ctl.ScheduleDefense)
}
