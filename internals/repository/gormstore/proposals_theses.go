package gormstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	proposalModel "thesisflow_backend/internals/features/thesis/proposals/model"
	thesisModel "thesisflow_backend/internals/features/thesis/theses/model"
	"thesisflow_backend/internals/repository"
)

/* =========================
   Proposals
   ========================= */

func (t *tx) CreateProposal(ctx context.Context, m *proposalModel.ProposalModel) error {
	return translate(t.q(ctx).Create(m).Error)
}

func (t *tx) FindProposal(ctx context.Context, id uuid.UUID, forUpdate bool) (*proposalModel.ProposalModel, error) {
	var m proposalModel.ProposalModel
	if err := t.locked(ctx, forUpdate).Where("proposal_id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (t *tx) UpdateProposalStatus(ctx context.Context, id uuid.UUID, status proposalModel.ProposalStatus, decidedAt *time.Time) error {
	res := t.q(ctx).
		Model(&proposalModel.ProposalModel{}).
		Where("proposal_id = ?", id).
		Updates(map[string]any{
			"proposal_status":     status,
			"proposal_decided_at": decidedAt,
			"proposal_updated_at": time.Now().UTC(),
		})
	return affected(res)
}

func (t *tx) ListProposals(ctx context.Context, f repository.ProposalFilter) ([]proposalModel.ProposalModel, int64, error) {
	q := t.q(ctx).Model(&proposalModel.ProposalModel{})
	if f.StudentID != nil {
		q = q.Where("proposal_student_id = ?", *f.StudentID)
	}
	if f.TeacherID != nil {
		q = q.Where("proposal_teacher_id = ?", *f.TeacherID)
	}
	if f.DepartmentID != nil {
		q = q.Where("proposal_department_id = ?", *f.DepartmentID)
	}
	if f.Status != nil {
		q = q.Where("proposal_status = ?", *f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	rows := make([]proposalModel.ProposalModel, 0)
	q = q.Order("proposal_created_at DESC").Offset(f.Offset)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, translate(err)
	}
	return rows, total, nil
}

/* =========================
   Theses
   ========================= */

func (t *tx) CreateThesis(ctx context.Context, m *thesisModel.ThesisModel) error {
	return translate(t.q(ctx).Create(m).Error)
}

func (t *tx) FindThesis(ctx context.Context, id uuid.UUID, forUpdate bool) (*thesisModel.ThesisModel, error) {
	var m thesisModel.ThesisModel
	if err := t.locked(ctx, forUpdate).Where("thesis_id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (t *tx) FindThesisByProposal(ctx context.Context, proposalID uuid.UUID) (*thesisModel.ThesisModel, error) {
	var m thesisModel.ThesisModel
	if err := t.q(ctx).Where("thesis_proposal_id = ?", proposalID).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (t *tx) SaveThesis(ctx context.Context, m *thesisModel.ThesisModel) error {
	now := time.Now().UTC()
	res := t.q(ctx).
		Model(&thesisModel.ThesisModel{}).
		Where("thesis_id = ?", m.ThesisID).
		Updates(map[string]any{
			"thesis_status":          m.ThesisStatus,
			"thesis_pdf_ref":         m.ThesisPdfRef,
			"thesis_pdf_uploaded_at": m.ThesisPdfUploadedAt,
			"thesis_final_grade":     m.ThesisFinalGrade,
			"thesis_finalized_at":    m.ThesisFinalizedAt,
			"thesis_updated_at":      now,
		})
	if err := affected(res); err != nil {
		return err
	}
	m.ThesisUpdatedAt = now
	return nil
}

func (t *tx) ListTheses(ctx context.Context, f repository.ThesisFilter) ([]thesisModel.ThesisModel, int64, error) {
	q := t.q(ctx).Model(&thesisModel.ThesisModel{})
	if f.Status != nil {
		q = q.Where("thesis_status = ?", *f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	rows := make([]thesisModel.ThesisModel, 0)
	q = q.Order("thesis_created_at DESC").Offset(f.Offset)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, translate(err)
	}
	return rows, total, nil
}
