// file: internals/features/thesis/proposals/controller/proposals_controller.go
package controller

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"thesisflow_backend/internals/features/thesis/proposals/dto"
	proposalModel "thesisflow_backend/internals/features/thesis/proposals/model"
	proposalService "thesisflow_backend/internals/features/thesis/proposals/service"
	identityService "thesisflow_backend/internals/features/users/identity/service"
	helper "thesisflow_backend/internals/helpers"
	helperAuth "thesisflow_backend/internals/helpers/auth"
	"thesisflow_backend/internals/repository"
)

type ProposalController struct {
	Svc       *proposalService.ProposalService
	Identity  *identityService.Resolver
	Validator *validator.Validate
	Now       func() time.Time
}

func NewProposalController(svc *proposalService.ProposalService, identity *identityService.Resolver) *ProposalController {
	return &ProposalController{
		Svc:       svc,
		Identity:  identity,
		Validator: validator.New(),
		Now:       time.Now,
	}
}

/* =========================
   Create (student)
   ========================= */

func (ctl *ProposalController) Create(c *fiber.Ctx) error {
	_, studentID, err := helperAuth.RequireStudent(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}

	var req dto.CreateProposalRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	p, err := ctl.Svc.Submit(c.UserContext(), req.ToInput(studentID))
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.JsonCreated(c, "proposal submitted", p)
}

/* =========================
   Reads
   ========================= */

// List: ?status=&teacher_id=&department_id=&page=&per_page=
// A student only ever sees their own proposals.
func (ctl *ProposalController) List(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	pg := helper.ResolvePaging(c, 20, 100)
	f := repository.ProposalFilter{Offset: pg.Offset, Limit: pg.Limit}

	if !actor.IsTeacher() {
		f.StudentID = actor.StudentID
	} else if s := strings.TrimSpace(c.Query("student_id")); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "student_id is not a valid id")
		}
		f.StudentID = &id
	}
	if s := strings.TrimSpace(c.Query("teacher_id")); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "teacher_id is not a valid id")
		}
		f.TeacherID = &id
	}
	if s := strings.TrimSpace(c.Query("department_id")); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "department_id is not a valid id")
		}
		f.DepartmentID = &id
	}
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		st := proposalModel.ProposalStatus(strings.ToUpper(s))
		if !st.Valid() {
			return helper.JsonError(c, fiber.StatusBadRequest, "unknown status")
		}
		f.Status = &st
	}

	rows, total, err := ctl.Svc.List(c.UserContext(), f)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	pagination := helper.BuildPagination(total, pg, len(rows))
	return helper.JsonList(c, "ok", rows, &pagination)
}

func (ctl *ProposalController) GetByID(c *fiber.Ctx) error {
	id, err := helperAuth.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	p, err := ctl.Svc.GetByID(c.UserContext(), id)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.JsonOK(c, "ok", p)
}

/* =========================
   Status (teacher / department head)
   ========================= */

func (ctl *ProposalController) SetStatus(c *fiber.Ctx) error {
	_, teacherID, err := helperAuth.RequireTeacher(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	id, err := helperAuth.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}

	var req dto.UpdateProposalStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	ctx := c.UserContext()
	p, err := ctl.Svc.GetByID(ctx, id)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	if p.ProposalTeacherID != teacherID {
		isHead, err := ctl.Identity.IsDepartmentHead(ctx, teacherID, p.ProposalDepartmentID, ctl.Now())
		if err != nil {
			return helper.FromAppError(c, err)
		}
		if !isHead {
			return helper.JsonError(c, fiber.StatusForbidden, "only the proposal's teacher or the department head can decide")
		}
	}

	res, err := ctl.Svc.SetStatus(ctx, id, req.Target())
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.JsonUpdated(c, "proposal status updated", res)
}
