package route

import (
	"github.com/gofiber/fiber/v2"

	"thesisflow_backend/internals/features/thesis/proposals/controller"
	proposalService "thesisflow_backend/internals/features/thesis/proposals/service"
	identityService "thesisflow_backend/internals/features/users/identity/service"
)

func ProposalUserRoutes(user fiber.Router, svc *proposalService.ProposalService, identity *identityService.Resolver) {
	ctl := controller.NewProposalController(svc, identity)

	// Group: /proposals
	g := user.Group("/proposals")
	g.Post("/", ctl.Create)
	g.Get("/list", ctl.List)
	g.Get("/:id", ctl.GetByID)
	g.Patch("/:id/status", ctl.SetStatus)
}
