package dto

import (
	"time"

	"github.com/google/uuid"

	thesisModel "thesisflow_backend/internals/features/thesis/theses/model"
	thesisService "thesisflow_backend/internals/features/thesis/theses/service"
)

// ====================
// Request DTO
// ====================

type CreateThesisRequest struct {
	ThesisProposalID string `json:"thesis_proposal_id" validate:"required,uuid"`
}

type ScheduleDefenseRequest struct {
	DefenseDateID string    `json:"defense_date_id" validate:"required,uuid"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	Notes         *string   `json:"notes" validate:"omitempty,max=2000"`
}

func (r ScheduleDefenseRequest) ToInput(thesisID uuid.UUID) thesisService.ScheduleInput {
	return thesisService.ScheduleInput{
		ThesisID:      thesisID,
		DefenseDateID: uuid.MustParse(r.DefenseDateID),
		When:          r.ScheduledAt,
		Notes:         r.Notes,
	}
}

// ====================
// Response DTO
// ====================

type DocumentUploadResponse struct {
	Thesis             *thesisModel.ThesisModel `json:"thesis"`
	PdfRef             string                   `json:"pdf_ref"`
	SupersededReviewID *uuid.UUID               `json:"superseded_review_id,omitempty"`
	CancelledSessionID *uuid.UUID               `json:"cancelled_defense_session_id,omitempty"`
}

func ToDocumentUploadResponse(ref string, r *thesisService.ReuploadResult) DocumentUploadResponse {
	return DocumentUploadResponse{
		Thesis:             r.Thesis,
		PdfRef:             ref,
		SupersededReviewID: r.SupersededReviewID,
		CancelledSessionID: r.CancelledSessionID,
	}
}
