package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	proposalModel "thesisflow_backend/internals/features/thesis/proposals/model"
	thesisModel "thesisflow_backend/internals/features/thesis/theses/model"
	"thesisflow_backend/internals/repository"
)

/* =========================
   Proposals
   ========================= */

func (t *tx) CreateProposal(_ context.Context, m *proposalModel.ProposalModel) error {
	if err := t.writable(); err != nil {
		return err
	}
	newIDIfNil(&m.ProposalID)
	if _, exists := t.st.proposals[m.ProposalID]; exists {
		return repository.ErrDuplicate
	}
	now := t.now()
	stampIfZero(&m.ProposalCreatedAt, now)
	m.ProposalUpdatedAt = now
	row := *m
	row.ProposalTechnologies = append(pq.StringArray(nil), m.ProposalTechnologies...)
	t.st.proposals[m.ProposalID] = row
	return nil
}

func (t *tx) FindProposal(_ context.Context, id uuid.UUID, _ bool) (*proposalModel.ProposalModel, error) {
	m, ok := t.st.proposals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (t *tx) UpdateProposalStatus(_ context.Context, id uuid.UUID, status proposalModel.ProposalStatus, decidedAt *time.Time) error {
	if err := t.writable(); err != nil {
		return err
	}
	m, ok := t.st.proposals[id]
	if !ok {
		return repository.ErrNotFound
	}
	m.ProposalStatus = status
	m.ProposalDecidedAt = decidedAt
	m.ProposalUpdatedAt = t.now()
	t.st.proposals[id] = m
	return nil
}

func (t *tx) ListProposals(_ context.Context, f repository.ProposalFilter) ([]proposalModel.ProposalModel, int64, error) {
	rows := make([]proposalModel.ProposalModel, 0)
	for _, m := range t.st.proposals {
		if f.StudentID != nil && m.ProposalStudentID != *f.StudentID {
			continue
		}
		if f.TeacherID != nil && m.ProposalTeacherID != *f.TeacherID {
			continue
		}
		if f.DepartmentID != nil && m.ProposalDepartmentID != *f.DepartmentID {
			continue
		}
		if f.Status != nil && m.ProposalStatus != *f.Status {
			continue
		}
		rows = append(rows, m)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].ProposalCreatedAt.After(rows[j].ProposalCreatedAt)
	})
	return page(rows, f.Offset, f.Limit), int64(len(rows)), nil
}

/* =========================
   Theses
   ========================= */

func (t *tx) CreateThesis(_ context.Context, m *thesisModel.ThesisModel) error {
	if err := t.writable(); err != nil {
		return err
	}
	for _, existing := range t.st.theses {
		if existing.ThesisProposalID == m.ThesisProposalID {
			return repository.ErrDuplicate
		}
	}
	newIDIfNil(&m.ThesisID)
	now := t.now()
	stampIfZero(&m.ThesisCreatedAt, now)
	m.ThesisUpdatedAt = now
	t.st.theses[m.ThesisID] = *m
	return nil
}

func (t *tx) FindThesis(_ context.Context, id uuid.UUID, _ bool) (*thesisModel.ThesisModel, error) {
	m, ok := t.st.theses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (t *tx) FindThesisByProposal(_ context.Context, proposalID uuid.UUID) (*thesisModel.ThesisModel, error) {
	for _, m := range t.st.theses {
		if m.ThesisProposalID == proposalID {
			out := m
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (t *tx) SaveThesis(_ context.Context, m *thesisModel.ThesisModel) error {
	if err := t.writable(); err != nil {
		return err
	}
	cur, ok := t.st.theses[m.ThesisID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.ThesisStatus = m.ThesisStatus
	cur.ThesisPdfRef = m.ThesisPdfRef
	cur.ThesisPdfUploadedAt = m.ThesisPdfUploadedAt
	cur.ThesisFinalGrade = m.ThesisFinalGrade
	cur.ThesisFinalizedAt = m.ThesisFinalizedAt
	cur.ThesisUpdatedAt = t.now()
	t.st.theses[m.ThesisID] = cur
	m.ThesisUpdatedAt = cur.ThesisUpdatedAt
	return nil
}

func (t *tx) ListTheses(_ context.Context, f repository.ThesisFilter) ([]thesisModel.ThesisModel, int64, error) {
	rows := make([]thesisModel.ThesisModel, 0)
	for _, m := range t.st.theses {
		if f.Status != nil && m.ThesisStatus != *f.Status {
			continue
		}
		rows = append(rows, m)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].ThesisCreatedAt.After(rows[j].ThesisCreatedAt)
	})
	return page(rows, f.Offset, f.Limit), int64(len(rows)), nil
}
