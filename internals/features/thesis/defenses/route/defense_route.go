package route

import (
	"github.com/gofiber/fiber/v2"

	"thesisflow_backend/internals/features/thesis/defenses/controller"
	defenseService "thesisflow_backend/internals/features/thesis/defenses/service"
)

func DefenseUserRoutes(user fiber.Router, svc *defenseService.GradingService) {
	ctl := controller.NewDefenseController(svc)

	user.Get("/defense-dates/list", ctl.ListDates)

	s := user.Group("/defense-sessions")
	s.Get("/:id", ctl.Roster)
	s.Put("/:id/grade", ctl.SubmitGrade)
}

func DefenseAdminRoutes(admin fiber.Router, svc *defenseService.GradingService) {
	ctl := controller.NewDefenseController(svc)

	admin.Post("/defense-dates", ctl.CreateDate)

	s := admin.Group("/defense-sessions")
	s.Post("/:id/examiners", ctl.Assign)
	s.Delete("/:id/examiners/:examiner_id", ctl.Unassign)
}
