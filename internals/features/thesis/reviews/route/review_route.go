package route

import (
	"github.com/gofiber/fiber/v2"

	"thesisflow_backend/internals/features/thesis/reviews/controller"
	reviewService "thesisflow_backend/internals/features/thesis/reviews/service"
	thesisService "thesisflow_backend/internals/features/thesis/theses/service"
)

func ReviewUserRoutes(user fiber.Router, svc *reviewService.ReviewService, theses *thesisService.ThesisService) {
	ctl := controller.NewReviewController(svc, theses)

	// per thesis
	th := user.Group("/theses/:id")
	th.Post("/reviews", ctl.Submit)
	th.Get("/reviews", ctl.ListByThesis)
	th.Get("/reviews/latest", ctl.Latest)
	th.Get("/can-defend", ctl.CanDefend)

	// comments
	user.Post("/reviews/:id/comments", ctl.AddComment)
	user.Get("/reviews/:id/comments", ctl.ListComments)
	user.Patch("/comments/:id", ctl.EditComment)
	user.Delete("/comments/:id", ctl.DeleteComment)
}

func ReviewAdminRoutes(admin fiber.Router, svc *reviewService.ReviewService, theses *thesisService.ThesisService) {
	ctl := controller.NewReviewController(svc, theses)

	admin.Patch("/reviews/:id", ctl.CorrectContent)
}
