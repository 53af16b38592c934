package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	defenseModel "thesisflow_backend/internals/features/thesis/defenses/model"
	"thesisflow_backend/internals/repository"
)

/* =========================
   Defense dates
   ========================= */

func (t *tx) CreateDefenseDate(_ context.Context, m *defenseModel.DefenseDateModel) error {
	if err := t.writable(); err != nil {
		return err
	}
	newIDIfNil(&m.DefenseDateID)
	stampIfZero(&m.DefenseDateCreatedAt, t.now())
	t.st.defenseDates[m.DefenseDateID] = *m
	return nil
}

func (t *tx) FindDefenseDate(_ context.Context, id uuid.UUID) (*defenseModel.DefenseDateModel, error) {
	m, ok := t.st.defenseDates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (t *tx) ListDefenseDates(_ context.Context, from *time.Time) ([]defenseModel.DefenseDateModel, error) {
	rows := make([]defenseModel.DefenseDateModel, 0)
	for _, m := range t.st.defenseDates {
		if from != nil && time.Time(m.DefenseDateDay).Before(*from) {
			continue
		}
		rows = append(rows, m)
	}
	sort.Slice(rows, func(i, j int) bool {
		return time.Time(rows[i].DefenseDateDay).Before(time.Time(rows[j].DefenseDateDay))
	})
	return rows, nil
}

/* =========================
   Defense sessions
   ========================= */

func (t *tx) CreateDefenseSession(_ context.Context, m *defenseModel.DefenseSessionModel) error {
	if err := t.writable(); err != nil {
		return err
	}
	for _, s := range t.st.sessions {
		if s.DefenseSessionThesisID == m.DefenseSessionThesisID && s.IsLive() {
			return repository.ErrDuplicate
		}
	}
	newIDIfNil(&m.DefenseSessionID)
	now := t.now()
	stampIfZero(&m.DefenseSessionCreatedAt, now)
	m.DefenseSessionUpdatedAt = now
	t.st.sessions[m.DefenseSessionID] = *m
	return nil
}

func (t *tx) FindDefenseSession(_ context.Context, id uuid.UUID, _ bool) (*defenseModel.DefenseSessionModel, error) {
	m, ok := t.st.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (t *tx) FindLiveDefenseSessionByThesis(_ context.Context, thesisID uuid.UUID, _ bool) (*defenseModel.DefenseSessionModel, error) {
	for _, m := range t.st.sessions {
		if m.DefenseSessionThesisID == thesisID && m.IsLive() {
			out := m
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (t *tx) CancelDefenseSession(_ context.Context, id uuid.UUID, at time.Time) error {
	if err := t.writable(); err != nil {
		return err
	}
	m, ok := t.st.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	if m.DefenseSessionCancelledAt == nil {
		m.DefenseSessionCancelledAt = &at
		m.DefenseSessionUpdatedAt = t.now()
		t.st.sessions[id] = m
	}
	return nil
}

func (t *tx) MarkDefenseSessionFinalized(_ context.Context, id uuid.UUID, at time.Time, average float64, snapshot map[string]any) (bool, error) {
	if err := t.writable(); err != nil {
		return false, err
	}
	m, ok := t.st.sessions[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if m.DefenseSessionFinalizedAt != nil {
		return false, nil
	}
	avg := average
	m.DefenseSessionFinalizedAt = &at
	m.DefenseSessionAverageScore = &avg
	m.DefenseSessionGradeSnapshot = datatypes.JSONMap(cloneMap(snapshot))
	m.DefenseSessionUpdatedAt = t.now()
	t.st.sessions[id] = m
	return true, nil
}

/* =========================
   Committee assignments
   ========================= */

func (t *tx) CreateAssignment(_ context.Context, m *defenseModel.CommitteeAssignmentModel) error {
	if err := t.writable(); err != nil {
		return err
	}
	key := assignmentKey{SessionID: m.CommitteeAssignmentSessionID, ExaminerID: m.CommitteeAssignmentExaminerID}
	if _, exists := t.st.assignments[key]; exists {
		return repository.ErrDuplicate
	}
	stampIfZero(&m.CommitteeAssignmentCreatedAt, t.now())
	t.st.assignments[key] = *m
	return nil
}

func (t *tx) FindAssignment(_ context.Context, sessionID, examinerID uuid.UUID) (*defenseModel.CommitteeAssignmentModel, error) {
	m, ok := t.st.assignments[assignmentKey{SessionID: sessionID, ExaminerID: examinerID}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (t *tx) SaveAssignmentGrade(_ context.Context, m *defenseModel.CommitteeAssignmentModel) error {
	if err := t.writable(); err != nil {
		return err
	}
	key := assignmentKey{SessionID: m.CommitteeAssignmentSessionID, ExaminerID: m.CommitteeAssignmentExaminerID}
	cur, ok := t.st.assignments[key]
	if !ok {
		return repository.ErrNotFound
	}
	cur.CommitteeAssignmentGrade = m.CommitteeAssignmentGrade
	cur.CommitteeAssignmentThoughts = m.CommitteeAssignmentThoughts
	cur.CommitteeAssignmentGradedAt = m.CommitteeAssignmentGradedAt
	t.st.assignments[key] = cur
	return nil
}

func (t *tx) DeleteAssignment(_ context.Context, sessionID, examinerID uuid.UUID) error {
	if err := t.writable(); err != nil {
		return err
	}
	key := assignmentKey{SessionID: sessionID, ExaminerID: examinerID}
	if _, ok := t.st.assignments[key]; !ok {
		return repository.ErrNotFound
	}
	delete(t.st.assignments, key)
	return nil
}

// ListAssignments returns the committee in assignment order.
func (t *tx) ListAssignments(_ context.Context, sessionID uuid.UUID) ([]defenseModel.CommitteeAssignmentModel, error) {
	rows := make([]defenseModel.CommitteeAssignmentModel, 0)
	for k, m := range t.st.assignments {
		if k.SessionID == sessionID {
			rows = append(rows, m)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CommitteeAssignmentCreatedAt.Equal(rows[j].CommitteeAssignmentCreatedAt) {
			return rows[i].CommitteeAssignmentCreatedAt.Before(rows[j].CommitteeAssignmentCreatedAt)
		}
		return rows[i].CommitteeAssignmentExaminerID.String() < rows[j].CommitteeAssignmentExaminerID.String()
	})
	return rows, nil
}
