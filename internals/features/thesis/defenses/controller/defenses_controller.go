// file: internals/features/thesis/defenses/controller/defenses_controller.go
package controller

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"thesisflow_backend/internals/features/thesis/defenses/dto"
	defenseService "thesisflow_backend/internals/features/thesis/defenses/service"
	helper "thesisflow_backend/internals/helpers"
	helperAuth "thesisflow_backend/internals/helpers/auth"
)

type DefenseController struct {
	Svc       *defenseService.GradingService
	Validator *validator.Validate
}

func NewDefenseController(svc *defenseService.GradingService) *DefenseController {
	return &DefenseController{Svc: svc, Validator: validator.New()}
}

/* =========================
   Defense dates
   ========================= */

// ListDates: ?from=yyyy-mm-dd
func (ctl *DefenseController) ListDates(c *fiber.Ctx) error {
	var from *time.Time
	if s := strings.TrimSpace(c.Query("from")); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "from must be yyyy-mm-dd")
		}
		from = &d
	}
	rows, err := ctl.Svc.ListDefenseDates(c.UserContext(), from)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.JsonList(c, "ok", rows, nil)
}

func (ctl *DefenseController) CreateDate(c *fiber.Ctx) error {
	var req dto.CreateDefenseDateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	d, err := ctl.Svc.CreateDefenseDate(c.UserContext(), req.Day(), req.DefenseDateVenue, req.DefenseDateNotes)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.JsonCreated(c, "defense date created", d)
}

/* =========================
   Sessions
   ========================= */

func (ctl *DefenseController) Roster(c *fiber.Ctx) error {
	id, err := helperAuth.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	r, err := ctl.Svc.Roster(c.UserContext(), id)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.JsonOK(c, "ok", r)
}

func (ctl *DefenseController) Assign(c *fiber.Ctx) error {
	id, err := helperAuth.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	var req dto.AssignExaminerRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	a, err := ctl.Svc.Assign(c.UserContext(), id, uuid.MustParse(req.ExaminerID))
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.JsonCreated(c, "examiner assigned", a)
}

func (ctl *DefenseController) Unassign(c *fiber.Ctx) error {
	id, err := helperAuth.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	examinerID, err := helperAuth.ParseIDParam(c, "examiner_id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	if err := ctl.Svc.Unassign(c.UserContext(), id, examinerID); err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.JsonDeleted(c, "examiner unassigned", fiber.Map{
		"defense_session_id": id,
		"examiner_id":        examinerID,
	})
}

// SubmitGrade: the examiner is always the calling teacher.
func (ctl *DefenseController) SubmitGrade(c *fiber.Ctx) error {
	_, teacherID, err := helperAuth.RequireTeacher(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	id, err := helperAuth.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	var req dto.SubmitGradeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	res, err := ctl.Svc.SubmitGrade(c.UserContext(), defenseService.GradeInput{
		SessionID:  id,
		ExaminerID: teacherID,
		Grade:      *req.Grade,
		Thoughts:   req.Thoughts,
	})
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.JsonUpdated(c, "grade recorded", res)
}
