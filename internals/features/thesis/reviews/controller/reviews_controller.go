// file: internals/features/thesis/reviews/controller/reviews_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"thesisflow_backend/internals/features/thesis/reviews/dto"
	reviewService "thesisflow_backend/internals/features/thesis/reviews/service"
	thesisService "thesisflow_backend/internals/features/thesis/theses/service"
	helper "thesisflow_backend/internals/helpers"
	helperAuth "thesisflow_backend/internals/helpers/auth"
)

type ReviewController struct {
	Svc       *reviewService.ReviewService
	Theses    *thesisService.ThesisService
	Validator *validator.Validate
}

func NewReviewController(svc *reviewService.ReviewService, theses *thesisService.ThesisService) *ReviewController {
	return &ReviewController{Svc: svc, Theses: theses, Validator: validator.New()}
}

/* =========================
   Submit (supervising teacher)
   ========================= */

func (ctl *ReviewController) Submit(c *fiber.Ctx) error {
	_, teacherID, err := helperAuth.RequireTeacher(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	thesisID, err := helperAuth.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}

	var req dto.CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	ctx := c.UserContext()
	ov, err := ctl.Theses.Overview(ctx, thesisID)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	if ov.Proposal.ProposalTeacherID != teacherID {
		return helper.JsonError(c, fiber.StatusForbidden, "only the supervising teacher can review this thesis")
	}

	res, err := ctl.Svc.Submit(ctx, reviewService.SubmitInput{
		ThesisID:     thesisID,
		SupervisorID: teacherID,
		Content:      req.ReviewContent,
		Conclusion:   req.Conclusion(),
	})
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.JsonCreated(c, "review submitted", res)
}

/* =========================
   Reads
   ========================= */

func (ctl *ReviewController) ListByThesis(c *fiber.Ctx) error {
	thesisID, err := helperAuth.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	rows, err := ctl.Svc.ListByThesis(c.UserContext(), thesisID)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.JsonList(c, "ok", rows, nil)
}

// Latest answers 200 with null data when the thesis has no review yet.
func (ctl *ReviewController) Latest(c *fiber.Ctx) error {
	thesisID, err := helperAuth.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	rv, err := ctl.Svc.LatestFor(c.UserContext(), thesisID)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.JsonOK(c, "ok", rv)
}

func (ctl *ReviewController) CanDefend(c *fiber.Ctx) error {
	thesisID, err := helperAuth.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	ok, err := ctl.Svc.CanProceedToDefense(c.UserContext(), thesisID)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.CanDefendResponse{ThesisID: thesisID.String(), CanProceed: ok})
}

/* =========================
   Admin correction
   ========================= */

func (ctl *ReviewController) CorrectContent(c *fiber.Ctx) error {
	id, err := helperAuth.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	var req dto.CorrectReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	rv, err := ctl.Svc.CorrectContent(c.UserContext(), id, req.ReviewContent)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.JsonUpdated(c, "review corrected", rv)
}
