package gormstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	defenseModel "thesisflow_backend/internals/features/thesis/defenses/model"
	"thesisflow_backend/internals/repository"
)

/* =========================
   Defense dates
   ========================= */

func (t *tx) CreateDefenseDate(ctx context.Context, m *defenseModel.DefenseDateModel) error {
	return translate(t.q(ctx).Create(m).Error)
}

func (t *tx) FindDefenseDate(ctx context.Context, id uuid.UUID) (*defenseModel.DefenseDateModel, error) {
	var m defenseModel.DefenseDateModel
	if err := t.q(ctx).Where("defense_date_id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (t *tx) ListDefenseDates(ctx context.Context, from *time.Time) ([]defenseModel.DefenseDateModel, error) {
	q := t.q(ctx)
	if from != nil {
		q = q.Where("defense_date_day >= ?", datatypes.Date(*from))
	}
	rows := make([]defenseModel.DefenseDateModel, 0)
	err := q.Order("defense_date_day ASC").Find(&rows).Error
	return rows, translate(err)
}

/* =========================
   Defense sessions
   ========================= */

func (t *tx) CreateDefenseSession(ctx context.Context, m *defenseModel.DefenseSessionModel) error {
	return translate(t.q(ctx).Create(m).Error)
}

func (t *tx) FindDefenseSession(ctx context.Context, id uuid.UUID, forUpdate bool) (*defenseModel.DefenseSessionModel, error) {
	var m defenseModel.DefenseSessionModel
	if err := t.locked(ctx, forUpdate).Where("defense_session_id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (t *tx) FindLiveDefenseSessionByThesis(ctx context.Context, thesisID uuid.UUID, forUpdate bool) (*defenseModel.DefenseSessionModel, error) {
	var m defenseModel.DefenseSessionModel
	err := t.locked(ctx, forUpdate).
		Where("defense_session_thesis_id = ?", thesisID).
		Where("defense_session_cancelled_at IS NULL").
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (t *tx) CancelDefenseSession(ctx context.Context, id uuid.UUID, at time.Time) error {
	res := t.q(ctx).
		Model(&defenseModel.DefenseSessionModel{}).
		Where("defense_session_id = ?", id).
		Where("defense_session_cancelled_at IS NULL").
		Updates(map[string]any{
			"defense_session_cancelled_at": at,
			"defense_session_updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		// already cancelled is fine; a missing row is not
		var n int64
		if err := t.q(ctx).Model(&defenseModel.DefenseSessionModel{}).
			Where("defense_session_id = ?", id).Count(&n).Error; err != nil {
			return translate(err)
		}
		if n == 0 {
			return repository.ErrNotFound
		}
	}
	return nil
}

// MarkDefenseSessionFinalized only touches a row whose marker is still
// NULL, so of two racing callers at most one sees RowsAffected == 1.
func (t *tx) MarkDefenseSessionFinalized(ctx context.Context, id uuid.UUID, at time.Time, average float64, snapshot map[string]any) (bool, error) {
	res := t.q(ctx).
		Model(&defenseModel.DefenseSessionModel{}).
		Where("defense_session_id = ?", id).
		Where("defense_session_finalized_at IS NULL").
		Updates(map[string]any{
			"defense_session_finalized_at":   at,
			"defense_session_average_score":  average,
			"defense_session_grade_snapshot": datatypes.JSONMap(snapshot),
			"defense_session_updated_at":     time.Now().UTC(),
		})
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

/* =========================
   Committee assignments
   ========================= */

func (t *tx) CreateAssignment(ctx context.Context, m *defenseModel.CommitteeAssignmentModel) error {
	return translate(t.q(ctx).Create(m).Error)
}

func (t *tx) FindAssignment(ctx context.Context, sessionID, examinerID uuid.UUID) (*defenseModel.CommitteeAssignmentModel, error) {
	var m defenseModel.CommitteeAssignmentModel
	err := t.q(ctx).
		Where("committee_assignment_session_id = ?", sessionID).
		Where("committee_assignment_examiner_id = ?", examinerID).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (t *tx) SaveAssignmentGrade(ctx context.Context, m *defenseModel.CommitteeAssignmentModel) error {
	res := t.q(ctx).
		Model(&defenseModel.CommitteeAssignmentModel{}).
		Where("committee_assignment_session_id = ?", m.CommitteeAssignmentSessionID).
		Where("committee_assignment_examiner_id = ?", m.CommitteeAssignmentExaminerID).
		Updates(map[string]any{
			"committee_assignment_grade":     m.CommitteeAssignmentGrade,
			"committee_assignment_thoughts":  m.CommitteeAssignmentThoughts,
			"committee_assignment_graded_at": m.CommitteeAssignmentGradedAt,
		})
	return affected(res)
}

func (t *tx) DeleteAssignment(ctx context.Context, sessionID, examinerID uuid.UUID) error {
	res := t.q(ctx).
		Where("committee_assignment_session_id = ?", sessionID).
		Where("committee_assignment_examiner_id = ?", examinerID).
		Delete(&defenseModel.CommitteeAssignmentModel{})
	return affected(res)
}

func (t *tx) ListAssignments(ctx context.Context, sessionID uuid.UUID) ([]defenseModel.CommitteeAssignmentModel, error) {
	rows := make([]defenseModel.CommitteeAssignmentModel, 0)
	err := t.q(ctx).
		Where("committee_assignment_session_id = ?", sessionID).
		Order("committee_assignment_created_at ASC").
		Order("committee_assignment_examiner_id ASC").
		Find(&rows).Error
	return rows, translate(err)
}
