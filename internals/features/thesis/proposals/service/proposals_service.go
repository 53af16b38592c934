// file: internals/features/thesis/proposals/service/proposals_service.go
package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	proposalModel "thesisflow_backend/internals/features/thesis/proposals/model"
	thesisModel "thesisflow_backend/internals/features/thesis/theses/model"
	"thesisflow_backend/internals/helpers/apperr"
	"thesisflow_backend/internals/repository"
)

// ThesisCreator creates the thesis of a freshly approved proposal inside
// the approval transaction.
type ThesisCreator interface {
	CreateTx(ctx context.Context, tx repository.Tx, proposalID uuid.UUID) (*thesisModel.ThesisModel, error)
}

type ProposalService struct {
	Store  repository.Store
	Theses ThesisCreator
	Now    func() time.Time
}

func NewProposalService(store repository.Store, theses ThesisCreator) *ProposalService {
	return &ProposalService{Store: store, Theses: theses, Now: func() time.Time { return time.Now().UTC() }}
}

func (s *ProposalService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now()
}

// CanTransition is the proposal state machine. PENDING is the only state
// with outgoing edges; an unset status accepts any valid target.
func CanTransition(from, to proposalModel.ProposalStatus) bool {
	if from == "" {
		return to.Valid()
	}
	return from == proposalModel.ProposalStatusPending &&
		(to == proposalModel.ProposalStatusApproved || to == proposalModel.ProposalStatusRejected)
}

type SubmitInput struct {
	StudentID    uuid.UUID
	TeacherID    uuid.UUID
	DepartmentID uuid.UUID
	Title        string
	Goal         string
	Objectives   string
	Technologies []string
}

func (s *ProposalService) Submit(ctx context.Context, in SubmitInput) (*proposalModel.ProposalModel, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Goal = strings.TrimSpace(in.Goal)
	if in.Title == "" {
		return nil, apperr.InvalidArgument("title", "is required")
	}
	if in.Goal == "" {
		return nil, apperr.InvalidArgument("goal", "is required")
	}

	var out *proposalModel.ProposalModel
	err := s.Store.WithinTx(ctx, func(tx repository.Tx) error {
		if _, err := tx.FindStudent(ctx, in.StudentID); err != nil {
			return repository.NotFoundAs(err, "student", in.StudentID)
		}
		if _, err := tx.FindTeacher(ctx, in.TeacherID); err != nil {
			return repository.NotFoundAs(err, "teacher", in.TeacherID)
		}
		if _, err := tx.FindDepartment(ctx, in.DepartmentID); err != nil {
			return repository.NotFoundAs(err, "department", in.DepartmentID)
		}

		techs := make(pq.StringArray, 0, len(in.Technologies))
		for _, t := range in.Technologies {
			if t = strings.TrimSpace(t); t != "" {
				techs = append(techs, t)
			}
		}

		p := &proposalModel.ProposalModel{
			ProposalID:           uuid.New(),
			ProposalStudentID:    in.StudentID,
			ProposalTeacherID:    in.TeacherID,
			ProposalDepartmentID: in.DepartmentID,
			ProposalTitle:        in.Title,
			ProposalGoal:         in.Goal,
			ProposalObjectives:   strings.TrimSpace(in.Objectives),
			ProposalTechnologies: techs,
			ProposalStatus:       proposalModel.ProposalStatusPending,
		}
		if err := tx.CreateProposal(ctx, p); err != nil {
			return err
		}
		log.Printf("[ProposalService] submitted proposal_id=%s student_id=%s teacher_id=%s", p.ProposalID, in.StudentID, in.TeacherID)
		out = p
		return nil
	})
	return out, err
}

type SetStatusResult struct {
	Proposal *proposalModel.ProposalModel `json:"proposal"`
	// set when the proposal was approved
	Thesis *thesisModel.ThesisModel `json:"thesis,omitempty"`
}

// SetStatus applies a status decision. Approval creates the thesis in the
// same transaction, so a failed thesis creation leaves the proposal as it was.
func (s *ProposalService) SetStatus(ctx context.Context, id uuid.UUID, target proposalModel.ProposalStatus) (*SetStatusResult, error) {
	target = proposalModel.ProposalStatus(strings.ToUpper(strings.TrimSpace(string(target))))
	if !target.Valid() {
		return nil, apperr.InvalidArgument("status", "must be PENDING, APPROVED or REJECTED")
	}

	var out SetStatusResult
	err := s.Store.WithinTx(ctx, func(tx repository.Tx) error {
		p, err := tx.FindProposal(ctx, id, true)
		if err != nil {
			return repository.NotFoundAs(err, "proposal", id)
		}
		from := p.ProposalStatus
		if !CanTransition(from, target) {
			log.Printf("[ProposalService] rejected transition proposal_id=%s %q -> %s", id, from, target)
			return apperr.InvalidTransition("proposal", id, string(from), string(target))
		}

		var decidedAt *time.Time
		if target.IsTerminal() {
			now := s.now()
			decidedAt = &now
		}
		if err := tx.UpdateProposalStatus(ctx, id, target, decidedAt); err != nil {
			return repository.NotFoundAs(err, "proposal", id)
		}
		p.ProposalStatus = target
		p.ProposalDecidedAt = decidedAt
		out.Proposal = p

		if target == proposalModel.ProposalStatusApproved && s.Theses != nil {
			th, err := s.Theses.CreateTx(ctx, tx, id)
			if err != nil {
				return err
			}
			out.Thesis = th
		}
		log.Printf("[ProposalService] proposal_id=%s %q -> %s", id, from, target)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ProposalService) GetByID(ctx context.Context, id uuid.UUID) (*proposalModel.ProposalModel, error) {
	var out *proposalModel.ProposalModel
	err := s.Store.View(ctx, func(tx repository.Tx) error {
		p, err := tx.FindProposal(ctx, id, false)
		if err != nil {
			return repository.NotFoundAs(err, "proposal", id)
		}
		out = p
		return nil
	})
	return out, err
}

func (s *ProposalService) List(ctx context.Context, f repository.ProposalFilter) ([]proposalModel.ProposalModel, int64, error) {
	var (
		rows  []proposalModel.ProposalModel
		total int64
	)
	err := s.Store.View(ctx, func(tx repository.Tx) error {
		var err error
		rows, total, err = tx.ListProposals(ctx, f)
		return err
	})
	return rows, total, err
}
