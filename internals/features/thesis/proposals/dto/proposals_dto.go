package dto

import (
	"strings"

	"github.com/google/uuid"

	proposalModel "thesisflow_backend/internals/features/thesis/proposals/model"
	proposalService "thesisflow_backend/internals/features/thesis/proposals/service"
)

// ====================
// Request DTO
// ====================

type CreateProposalRequest struct {
	ProposalTeacherID    string   `json:"proposal_teacher_id" validate:"required,uuid"`
	ProposalDepartmentID string   `json:"proposal_department_id" validate:"required,uuid"`
	ProposalTitle        string   `json:"proposal_title" validate:"required,min=3,max=255"`
	ProposalGoal         string   `json:"proposal_goal" validate:"required"`
	ProposalObjectives   string   `json:"proposal_objectives"`
	ProposalTechnologies []string `json:"proposal_technologies" validate:"omitempty,max=20,dive,max=64"`
}

func (r CreateProposalRequest) ToInput(studentID uuid.UUID) proposalService.SubmitInput {
	return proposalService.SubmitInput{
		StudentID:    studentID,
		TeacherID:    uuid.MustParse(r.ProposalTeacherID),
		DepartmentID: uuid.MustParse(r.ProposalDepartmentID),
		Title:        r.ProposalTitle,
		Goal:         r.ProposalGoal,
		Objectives:   r.ProposalObjectives,
		Technologies: r.ProposalTechnologies,
	}
}

type UpdateProposalStatusRequest struct {
	ProposalStatus string `json:"proposal_status" validate:"required"`
}

func (r UpdateProposalStatusRequest) Target() proposalModel.ProposalStatus {
	return proposalModel.ProposalStatus(strings.ToUpper(strings.TrimSpace(r.ProposalStatus)))
}
