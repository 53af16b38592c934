// file: internals/features/thesis/theses/controller/theses_controller.go
package controller

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"thesisflow_backend/internals/configs"
	"thesisflow_backend/internals/features/thesis/theses/dto"
	thesisModel "thesisflow_backend/internals/features/thesis/theses/model"
	thesisService "thesisflow_backend/internals/features/thesis/theses/service"
	identityModel "thesisflow_backend/internals/features/users/identity/model"
	helper "thesisflow_backend/internals/helpers"
	helperAuth "thesisflow_backend/internals/helpers/auth"
	"thesisflow_backend/internals/helpers/storage"
	"thesisflow_backend/internals/repository"
)

type ThesisController struct {
	Svc       *thesisService.ThesisService
	Blobs     storage.BlobStore
	Validator *validator.Validate
	// MaxDocumentBytes caps uploads; 0 falls back to MAX_DOCUMENT_MB.
	MaxDocumentBytes int64
}

func NewThesisController(svc *thesisService.ThesisService, blobs storage.BlobStore) *ThesisController {
	return &ThesisController{
		Svc:              svc,
		Blobs:            blobs,
		Validator:        validator.New(),
		MaxDocumentBytes: int64(configs.MaxDocumentMB) << 20,
	}
}

func (ctl *ThesisController) maxBytes() int64 {
	if ctl.MaxDocumentBytes > 0 {
		return ctl.MaxDocumentBytes
	}
	return 20 << 20
}

// participant loads the overview and checks the actor is the thesis'
// student or its supervising teacher.
func (ctl *ThesisController) participant(ctx context.Context, actor identityModel.Actor, id uuid.UUID, studentOnly bool) (*thesisService.Overview, error) {
	ov, err := ctl.Svc.Overview(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsStudentID(ov.Proposal.ProposalStudentID) {
		return ov, nil
	}
	if !studentOnly && actor.IsTeacherID(ov.Proposal.ProposalTeacherID) {
		return ov, nil
	}
	return nil, fiber.NewError(fiber.StatusForbidden, "not a participant of this thesis")
}

/* =========================
   Reads
   ========================= */

// List: ?status=&page=&per_page=
func (ctl *ThesisController) List(c *fiber.Ctx) error {
	pg := helper.ResolvePaging(c, 20, 100)
	f := repository.ThesisFilter{Offset: pg.Offset, Limit: pg.Limit}
	if s := strings.TrimSpace(c.Query("status")); s != "" {
		st := thesisModel.ThesisStatus(strings.ToUpper(s))
		f.Status = &st
	}
	rows, total, err := ctl.Svc.List(c.UserContext(), f)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	pagination := helper.BuildPagination(total, pg, len(rows))
	return helper.JsonList(c, "ok", rows, &pagination)
}

func (ctl *ThesisController) GetByID(c *fiber.Ctx) error {
	id, err := helperAuth.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	ov, err := ctl.Svc.Overview(c.UserContext(), id)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.JsonOK(c, "ok", ov)
}

func (ctl *ThesisController) GetByProposal(c *fiber.Ctx) error {
	proposalID, err := helperAuth.ParseIDParam(c, "proposal_id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	th, err := ctl.Svc.GetByProposal(c.UserContext(), proposalID)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.JsonOK(c, "ok", th)
}

/* =========================
   Document upload (student)
   ========================= */

// UploadDocument: multipart field "file", PDF only.
func (ctl *ThesisController) UploadDocument(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	id, err := helperAuth.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	ctx := c.UserContext()
	if _, err := ctl.participant(ctx, actor, id, true); err != nil {
		return helper.FromAppError(c, err)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "file is required")
	}
	if fh.Size > ctl.maxBytes() {
		return helper.JsonError(c, fiber.StatusRequestEntityTooLarge, "document is too large")
	}
	src, err := fh.Open()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "cannot read file")
	}
	defer src.Close()

	ref, err := storage.Upload(ctx, ctl.Blobs, id, src, ctl.maxBytes())
	switch {
	case errors.Is(err, storage.ErrNotPDF):
		return helper.JsonErrorCode(c, fiber.StatusUnsupportedMediaType, "NOT_PDF", "document must be a PDF")
	case errors.Is(err, storage.ErrTooLarge):
		return helper.JsonError(c, fiber.StatusRequestEntityTooLarge, "document is too large")
	case errors.Is(err, storage.ErrEmpty):
		return helper.JsonError(c, fiber.StatusBadRequest, "document is empty")
	case err != nil:
		log.Printf("[ThesisController] store document thesis_id=%s: %v", id, err)
		return helper.JsonError(c, fiber.StatusBadGateway, "document storage unavailable")
	}

	res, err := ctl.Svc.OnDocumentReuploaded(ctx, id, ref)
	if err != nil {
		// the thesis did not take the new document; drop the orphan
		if derr := ctl.Blobs.Delete(context.Background(), ref); derr != nil {
			log.Printf("[ThesisController] cleanup ref=%s: %v", ref, derr)
		}
		return helper.FromAppError(c, err)
	}
	return helper.JsonCreated(c, "document uploaded", dto.ToDocumentUploadResponse(ref, res))
}

/* =========================
   Defense request (student or supervisor)
   ========================= */

func (ctl *ThesisController) RequestDefense(c *fiber.Ctx) error {
	actor, err := helperAuth.ActorFromCtx(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	id, err := helperAuth.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	ctx := c.UserContext()
	if _, err := ctl.participant(ctx, actor, id, false); err != nil {
		return helper.FromAppError(c, err)
	}
	th, err := ctl.Svc.RequestDefense(ctx, id)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.JsonUpdated(c, "defense requested", th)
}

/* =========================
   Admin
   ========================= */

func (ctl *ThesisController) Create(c *fiber.Ctx) error {
	var req dto.CreateThesisRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	th, err := ctl.Svc.Create(c.UserContext(), uuid.MustParse(req.ThesisProposalID))
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.JsonCreated(c, "thesis created", th)
}

func (ctl *ThesisController) ScheduleDefense(c *fiber.Ctx) error {
	id, err := helperAuth.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	var req dto.ScheduleDefenseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	sess, err := ctl.Svc.ScheduleDefense(c.UserContext(), req.ToInput(id))
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.JsonCreated(c, "defense scheduled", sess)
}
