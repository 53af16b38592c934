// file: internals/features/thesis/theses/model/theses_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type ThesisStatus string

const (
	ThesisStatusWaitingForReview  ThesisStatus = "WAITING_FOR_REVIEW"
	ThesisStatusReadyForDefense   ThesisStatus = "READY_FOR_DEFENSE"
	ThesisStatusWaitingForDefense ThesisStatus = "WAITING_FOR_DEFENSE"
	ThesisStatusInDefenseProcess  ThesisStatus = "IN_DEFENSE_PROCESS"
	ThesisStatusDefended          ThesisStatus = "DEFENDED"
	ThesisStatusFailed            ThesisStatus = "FAILED"
)

func (s ThesisStatus) IsTerminal() bool {
	return s == ThesisStatusDefended || s == ThesisStatusFailed
}

type ThesisModel struct {
	ThesisID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:thesis_id" json:"thesis_id"`
	ThesisProposalID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_theses_proposal;column:thesis_proposal_id" json:"thesis_proposal_id"`

	// Object key owned by the document storage
	ThesisPdfRef        *string    `gorm:"type:varchar(512);column:thesis_pdf_ref" json:"thesis_pdf_ref,omitempty"`
	ThesisPdfUploadedAt *time.Time `gorm:"type:timestamptz;column:thesis_pdf_uploaded_at" json:"thesis_pdf_uploaded_at,omitempty"`

	ThesisStatus ThesisStatus `gorm:"type:varchar(24);not null;default:'WAITING_FOR_REVIEW';index;column:thesis_status" json:"thesis_status"`

	// 2.00..6.00, null until the committee has graded
	ThesisFinalGrade  *float64   `gorm:"type:numeric(3,2);column:thesis_final_grade" json:"thesis_final_grade,omitempty"`
	ThesisFinalizedAt *time.Time `gorm:"type:timestamptz;column:thesis_finalized_at" json:"thesis_finalized_at,omitempty"`

	ThesisCreatedAt time.Time `gorm:"type:timestamptz;not null;autoCreateTime;column:thesis_created_at" json:"thesis_created_at"`
	ThesisUpdatedAt time.Time `gorm:"type:timestamptz;not null;autoUpdateTime;column:thesis_updated_at" json:"thesis_updated_at"`
}

func (ThesisModel) TableName() string { return "theses" }
