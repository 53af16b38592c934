// file: internals/features/thesis/defenses/service/grading_service.go
package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	defenseModel "thesisflow_backend/internals/features/thesis/defenses/model"
	"thesisflow_backend/internals/helpers/apperr"
	"thesisflow_backend/internals/repository"
)

const (
	MinGrade = 0
	MaxGrade = 100
)

// ThesisOutcome is what the committee writes back into the thesis.
type ThesisOutcome interface {
	BeginDefenseTx(ctx context.Context, tx repository.Tx, thesisID uuid.UUID) error
	FinalizeTx(ctx context.Context, tx repository.Tx, thesisID uuid.UUID, aggregateScore float64) error
}

type GradingService struct {
	Store  repository.Store
	Theses ThesisOutcome
	Now    func() time.Time
}

func NewGradingService(store repository.Store, theses ThesisOutcome) *GradingService {
	return &GradingService{Store: store, Theses: theses, Now: func() time.Time { return time.Now().UTC() }}
}

func (s *GradingService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now()
}

func assignmentRef(sessionID, examinerID uuid.UUID) string {
	return sessionID.String() + "/" + examinerID.String()
}

// summarize reports whether every assigned examiner has graded and, only
// then, the exact mean. An empty committee is never graded.
func summarize(rows []defenseModel.CommitteeAssignmentModel) (bool, *float64) {
	if len(rows) == 0 {
		return false, nil
	}
	sum := 0
	for _, a := range rows {
		if !a.IsGraded() {
			return false, nil
		}
		sum += *a.CommitteeAssignmentGrade
	}
	avg := float64(sum) / float64(len(rows))
	return true, &avg
}

/* =========================
   Defense dates
   ========================= */

func (s *GradingService) CreateDefenseDate(ctx context.Context, day time.Time, venue string, notes *string) (*defenseModel.DefenseDateModel, error) {
	venue = strings.TrimSpace(venue)
	if day.IsZero() {
		return nil, apperr.InvalidArgument("day", "is required")
	}
	if venue == "" {
		return nil, apperr.InvalidArgument("venue", "is required")
	}
	d := &defenseModel.DefenseDateModel{
		DefenseDateID:    uuid.New(),
		DefenseDateDay:   datatypes.Date(time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)),
		DefenseDateVenue: venue,
		DefenseDateNotes: notes,
	}
	err := s.Store.WithinTx(ctx, func(tx repository.Tx) error {
		return tx.CreateDefenseDate(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *GradingService) ListDefenseDates(ctx context.Context, from *time.Time) ([]defenseModel.DefenseDateModel, error) {
	var out []defenseModel.DefenseDateModel
	err := s.Store.View(ctx, func(tx repository.Tx) error {
		var err error
		out, err = tx.ListDefenseDates(ctx, from)
		return err
	})
	return out, err
}

/* =========================
   Committee
   ========================= */

func (s *GradingService) Assign(ctx context.Context, sessionID, examinerID uuid.UUID) (*defenseModel.CommitteeAssignmentModel, error) {
	var out *defenseModel.CommitteeAssignmentModel
	err := s.Store.WithinTx(ctx, func(tx repository.Tx) error {
		sess, err := tx.FindDefenseSession(ctx, sessionID, true)
		if err != nil {
			return repository.NotFoundAs(err, "defense session", sessionID)
		}
		if _, err := tx.FindTeacher(ctx, examinerID); err != nil {
			return repository.NotFoundAs(err, "examiner", examinerID)
		}
		if !sess.IsLive() {
			return apperr.Conflict("defense session", sessionID, "session was cancelled")
		}
		if sess.IsFinalized() {
			return apperr.Conflict("defense session", sessionID, "session is already finalized")
		}

		switch _, err := tx.FindAssignment(ctx, sessionID, examinerID); {
		case err == nil:
			return apperr.Conflict("committee assignment", assignmentRef(sessionID, examinerID), "examiner is already assigned")
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		a := &defenseModel.CommitteeAssignmentModel{
			CommitteeAssignmentSessionID:  sessionID,
			CommitteeAssignmentExaminerID: examinerID,
			CommitteeAssignmentCreatedAt:  s.now(),
		}
		if err := tx.CreateAssignment(ctx, a); err != nil {
			return repository.DuplicateAs(err, "committee assignment", assignmentRef(sessionID, examinerID), "examiner is already assigned")
		}
		log.Printf("[GradingService] assigned examiner_id=%s defense_session_id=%s", examinerID, sessionID)
		out = a
		return nil
	})
	return out, err
}

// Unassign removes an examiner who has not graded yet. Once any grade
// exists in the session the committee is frozen.
func (s *GradingService) Unassign(ctx context.Context, sessionID, examinerID uuid.UUID) error {
	return s.Store.WithinTx(ctx, func(tx repository.Tx) error {
		if _, err := tx.FindDefenseSession(ctx, sessionID, true); err != nil {
			return repository.NotFoundAs(err, "defense session", sessionID)
		}
		ref := assignmentRef(sessionID, examinerID)
		if _, err := tx.FindAssignment(ctx, sessionID, examinerID); err != nil {
			return repository.NotFoundAs(err, "committee assignment", ref)
		}
		rows, err := tx.ListAssignments(ctx, sessionID)
		if err != nil {
			return err
		}
		for _, a := range rows {
			if a.IsGraded() {
				return apperr.Conflict("committee assignment", ref, "grading has started in this session")
			}
		}
		if err := tx.DeleteAssignment(ctx, sessionID, examinerID); err != nil {
			return repository.NotFoundAs(err, "committee assignment", ref)
		}
		log.Printf("[GradingService] unassigned examiner_id=%s defense_session_id=%s", examinerID, sessionID)
		return nil
	})
}

/* =========================
   Grading
   ========================= */

type GradeInput struct {
	SessionID  uuid.UUID
	ExaminerID uuid.UUID
	Grade      int
	Thoughts   *string
}

type GradeResult struct {
	Assignment *defenseModel.CommitteeAssignmentModel `json:"assignment"`
	AllGraded  bool                                   `json:"all_graded"`
	Average    *float64                               `json:"average,omitempty"`
	// true only for the submission that finalized the session
	Finalized bool `json:"finalized"`
}

// SubmitGrade stores (or overwrites) one examiner's grade. The submission
// that completes the committee flips the session's finalized marker and
// finalizes the thesis; the marker is a compare-and-set under the session
// row lock, so a session is finalized at most once.
func (s *GradingService) SubmitGrade(ctx context.Context, in GradeInput) (*GradeResult, error) {
	if in.Grade < MinGrade || in.Grade > MaxGrade {
		return nil, apperr.InvalidArgument("grade", "must be between 0 and 100")
	}

	var out GradeResult
	err := s.Store.WithinTx(ctx, func(tx repository.Tx) error {
		peek, err := tx.FindDefenseSession(ctx, in.SessionID, false)
		if err != nil {
			return repository.NotFoundAs(err, "defense session", in.SessionID)
		}
		// lock order: thesis, then session (same as document re-upload)
		if _, err := tx.FindThesis(ctx, peek.DefenseSessionThesisID, true); err != nil {
			return repository.NotFoundAs(err, "thesis", peek.DefenseSessionThesisID)
		}
		sess, err := tx.FindDefenseSession(ctx, in.SessionID, true)
		if err != nil {
			return repository.NotFoundAs(err, "defense session", in.SessionID)
		}

		a, err := tx.FindAssignment(ctx, in.SessionID, in.ExaminerID)
		if err != nil {
			return repository.NotFoundAs(err, "committee assignment", assignmentRef(in.SessionID, in.ExaminerID))
		}
		if !sess.IsLive() {
			return apperr.Conflict("defense session", in.SessionID, "session was cancelled")
		}

		now := s.now()
		grade := in.Grade
		a.CommitteeAssignmentGrade = &grade
		a.CommitteeAssignmentThoughts = in.Thoughts
		a.CommitteeAssignmentGradedAt = &now
		if err := tx.SaveAssignmentGrade(ctx, a); err != nil {
			return err
		}
		log.Printf("[GradingService] grade examiner_id=%s defense_session_id=%s grade=%d", in.ExaminerID, in.SessionID, grade)

		if err := s.Theses.BeginDefenseTx(ctx, tx, sess.DefenseSessionThesisID); err != nil {
			return err
		}

		rows, err := tx.ListAssignments(ctx, in.SessionID)
		if err != nil {
			return err
		}
		out.Assignment = a
		out.AllGraded, out.Average = summarize(rows)
		if !out.AllGraded || sess.IsFinalized() {
			return nil
		}

		snapshot := make(map[string]any, len(rows))
		for _, r := range rows {
			snapshot[r.CommitteeAssignmentExaminerID.String()] = *r.CommitteeAssignmentGrade
		}
		won, err := tx.MarkDefenseSessionFinalized(ctx, in.SessionID, now, *out.Average, snapshot)
		if err != nil {
			return err
		}
		if !won {
			return nil
		}
		if err := s.Theses.FinalizeTx(ctx, tx, sess.DefenseSessionThesisID, *out.Average); err != nil {
			return err
		}
		out.Finalized = true
		log.Printf("[GradingService] finalized defense_session_id=%s average=%.3f examiners=%d", in.SessionID, *out.Average, len(rows))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

/* =========================
   Reads
   ========================= */

func (s *GradingService) committee(ctx context.Context, tx repository.Tx, sessionID uuid.UUID) (*defenseModel.DefenseSessionModel, []defenseModel.CommitteeAssignmentModel, error) {
	sess, err := tx.FindDefenseSession(ctx, sessionID, false)
	if err != nil {
		return nil, nil, repository.NotFoundAs(err, "defense session", sessionID)
	}
	rows, err := tx.ListAssignments(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	return sess, rows, nil
}

func (s *GradingService) AllGraded(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	var all bool
	err := s.Store.View(ctx, func(tx repository.Tx) error {
		_, rows, err := s.committee(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		all, _ = summarize(rows)
		return nil
	})
	return all, err
}

// AverageGrade is the mean over the whole committee; nil until every
// assigned examiner has graded.
func (s *GradingService) AverageGrade(ctx context.Context, sessionID uuid.UUID) (*float64, error) {
	var avg *float64
	err := s.Store.View(ctx, func(tx repository.Tx) error {
		_, rows, err := s.committee(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		_, avg = summarize(rows)
		return nil
	})
	return avg, err
}

type Roster struct {
	Session     *defenseModel.DefenseSessionModel       `json:"defense_session"`
	Assignments []defenseModel.CommitteeAssignmentModel `json:"assignments"`
	AllGraded   bool                                    `json:"all_graded"`
	Average     *float64                                `json:"average,omitempty"`
}

func (s *GradingService) Roster(ctx context.Context, sessionID uuid.UUID) (*Roster, error) {
	var out Roster
	err := s.Store.View(ctx, func(tx repository.Tx) error {
		sess, rows, err := s.committee(ctx, tx, sessionID)
		if err != nil {
			return err
		}
		out.Session = sess
		out.Assignments = rows
		out.AllGraded, out.Average = summarize(rows)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
