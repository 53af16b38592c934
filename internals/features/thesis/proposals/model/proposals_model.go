// file: internals/features/thesis/proposals/model/proposals_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "PENDING"
	ProposalStatusApproved ProposalStatus = "APPROVED"
	ProposalStatusRejected ProposalStatus = "REJECTED"
)

func (s ProposalStatus) Valid() bool {
	switch s {
	case ProposalStatusPending, ProposalStatusApproved, ProposalStatusRejected:
		return true
	}
	return false
}

func (s ProposalStatus) IsTerminal() bool {
	return s == ProposalStatusApproved || s == ProposalStatusRejected
}

type ProposalModel struct {
	ProposalID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:proposal_id" json:"proposal_id"`

	ProposalStudentID    uuid.UUID `gorm:"type:uuid;not null;index:idx_proposals_student_teacher,priority:1;column:proposal_student_id" json:"proposal_student_id"`
	ProposalTeacherID    uuid.UUID `gorm:"type:uuid;not null;index:idx_proposals_student_teacher,priority:2;column:proposal_teacher_id" json:"proposal_teacher_id"`
	ProposalDepartmentID uuid.UUID `gorm:"type:uuid;not null;index;column:proposal_department_id" json:"proposal_department_id"`

	ProposalTitle        string         `gorm:"type:varchar(255);not null;column:proposal_title" json:"proposal_title"`
	ProposalGoal         string         `gorm:"type:text;not null;column:proposal_goal" json:"proposal_goal"`
	ProposalObjectives   string         `gorm:"type:text;column:proposal_objectives" json:"proposal_objectives,omitempty"`
	ProposalTechnologies pq.StringArray `gorm:"type:text[];column:proposal_technologies" json:"proposal_technologies,omitempty"`

	ProposalStatus    ProposalStatus `gorm:"type:varchar(16);not null;default:'PENDING';index;column:proposal_status" json:"proposal_status"`
	ProposalDecidedAt *time.Time     `gorm:"type:timestamptz;column:proposal_decided_at" json:"proposal_decided_at,omitempty"`

	ProposalCreatedAt time.Time `gorm:"type:timestamptz;not null;autoCreateTime;column:proposal_created_at" json:"proposal_created_at"`
	ProposalUpdatedAt time.Time `gorm:"type:timestamptz;not null;autoUpdateTime;column:proposal_updated_at" json:"proposal_updated_at"`
}

func (ProposalModel) TableName() string { return "proposals" }
