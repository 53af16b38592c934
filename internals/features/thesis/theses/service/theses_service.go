// file: internals/features/thesis/theses/service/theses_service.go
package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	defenseModel "thesisflow_backend/internals/features/thesis/defenses/model"
	"thesisflow_backend/internals/features/thesis/gradescale"
	proposalModel "thesisflow_backend/internals/features/thesis/proposals/model"
	reviewModel "thesisflow_backend/internals/features/thesis/reviews/model"
	thesisModel "thesisflow_backend/internals/features/thesis/theses/model"
	"thesisflow_backend/internals/helpers/apperr"
	"thesisflow_backend/internals/repository"
)

// ThesisService owns the thesis status machine:
//
//	WAITING_FOR_REVIEW -> READY_FOR_DEFENSE -> WAITING_FOR_DEFENSE -> IN_DEFENSE_PROCESS -> DEFENDED | FAILED
//
// plus the re-upload edge from any non-terminal status back to
// WAITING_FOR_REVIEW. Every status write happens under the thesis row lock.
type ThesisService struct {
	Store repository.Store
	Now   func() time.Time
}

func NewThesisService(store repository.Store) *ThesisService {
	return &ThesisService{Store: store, Now: func() time.Time { return time.Now().UTC() }}
}

func (s *ThesisService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now()
}

/* =========================
   Helpers
   ========================= */

func (s *ThesisService) lock(ctx context.Context, tx repository.Tx, id uuid.UUID) (*thesisModel.ThesisModel, error) {
	th, err := tx.FindThesis(ctx, id, true)
	if err != nil {
		return nil, repository.NotFoundAs(err, "thesis", id)
	}
	return th, nil
}

func (s *ThesisService) moveTo(ctx context.Context, tx repository.Tx, th *thesisModel.ThesisModel, to thesisModel.ThesisStatus) error {
	from := th.ThesisStatus
	th.ThesisStatus = to
	if err := tx.SaveThesis(ctx, th); err != nil {
		return err
	}
	log.Printf("[ThesisService] thesis_id=%s %s -> %s", th.ThesisID, from, to)
	return nil
}

func wrongStatus(th *thesisModel.ThesisModel, op string, want ...thesisModel.ThesisStatus) error {
	names := make([]string, len(want))
	for i, w := range want {
		names[i] = string(w)
	}
	return apperr.Conflict("thesis", th.ThesisID,
		op+" requires status "+strings.Join(names, " or ")+", current "+string(th.ThesisStatus))
}

/* =========================
   Create
   ========================= */

func (s *ThesisService) Create(ctx context.Context, proposalID uuid.UUID) (*thesisModel.ThesisModel, error) {
	var out *thesisModel.ThesisModel
	err := s.Store.WithinTx(ctx, func(tx repository.Tx) error {
		th, err := s.CreateTx(ctx, tx, proposalID)
		out = th
		return err
	})
	return out, err
}

// CreateTx creates the thesis of an APPROVED proposal inside the caller's
// transaction.
func (s *ThesisService) CreateTx(ctx context.Context, tx repository.Tx, proposalID uuid.UUID) (*thesisModel.ThesisModel, error) {
	p, err := tx.FindProposal(ctx, proposalID, true)
	if err != nil {
		return nil, repository.NotFoundAs(err, "proposal", proposalID)
	}
	if p.ProposalStatus != proposalModel.ProposalStatusApproved {
		return nil, apperr.Conflict("proposal", proposalID, "thesis requires an approved proposal, current "+string(p.ProposalStatus))
	}

	switch existing, err := tx.FindThesisByProposal(ctx, proposalID); {
	case err == nil:
		return nil, apperr.Conflict("thesis", existing.ThesisID, "proposal already has a thesis")
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	th := &thesisModel.ThesisModel{
		ThesisID:         uuid.New(),
		ThesisProposalID: proposalID,
		ThesisStatus:     thesisModel.ThesisStatusWaitingForReview,
	}
	if err := tx.CreateThesis(ctx, th); err != nil {
		return nil, repository.DuplicateAs(err, "proposal", proposalID, "proposal already has a thesis")
	}
	log.Printf("[ThesisService] created thesis_id=%s proposal_id=%s", th.ThesisID, proposalID)
	return th, nil
}

/* =========================
   Review outcome
   ========================= */

func (s *ThesisService) OnReviewSubmitted(ctx context.Context, thesisID uuid.UUID, conclusion reviewModel.ReviewConclusion) (*thesisModel.ThesisModel, error) {
	var out *thesisModel.ThesisModel
	err := s.Store.WithinTx(ctx, func(tx repository.Tx) error {
		th, err := s.OnReviewSubmittedTx(ctx, tx, thesisID, conclusion)
		out = th
		return err
	})
	return out, err
}

// OnReviewSubmittedTx applies a review verdict:
// ACCEPTED moves WAITING_FOR_REVIEW to READY_FOR_DEFENSE; REJECTED keeps or
// returns the thesis to WAITING_FOR_REVIEW.
func (s *ThesisService) OnReviewSubmittedTx(ctx context.Context, tx repository.Tx, thesisID uuid.UUID, conclusion reviewModel.ReviewConclusion) (*thesisModel.ThesisModel, error) {
	if !conclusion.Valid() {
		return nil, apperr.InvalidArgument("conclusion", "must be ACCEPTED or REJECTED")
	}
	th, err := s.lock(ctx, tx, thesisID)
	if err != nil {
		return nil, err
	}

	switch conclusion {
	case reviewModel.ReviewConclusionAccepted:
		if th.ThesisStatus != thesisModel.ThesisStatusWaitingForReview {
			return nil, wrongStatus(th, "accepting a review", thesisModel.ThesisStatusWaitingForReview)
		}
		return th, s.moveTo(ctx, tx, th, thesisModel.ThesisStatusReadyForDefense)

	default:
		switch th.ThesisStatus {
		case thesisModel.ThesisStatusWaitingForReview:
			return th, nil
		case thesisModel.ThesisStatusReadyForDefense:
			return th, s.moveTo(ctx, tx, th, thesisModel.ThesisStatusWaitingForReview)
		default:
			return nil, wrongStatus(th, "rejecting a review",
				thesisModel.ThesisStatusWaitingForReview, thesisModel.ThesisStatusReadyForDefense)
		}
	}
}

/* =========================
   Document re-upload
   ========================= */

type ReuploadResult struct {
	Thesis             *thesisModel.ThesisModel
	PreviousPdfRef     *string
	SupersededReviewID *uuid.UUID
	CancelledSessionID *uuid.UUID
}

// OnDocumentReuploaded is invoked after a new document has been stored.
// From any non-terminal status the thesis goes back to WAITING_FOR_REVIEW,
// the latest review is superseded (marked REJECTED) and a live defense
// session is cancelled.
func (s *ThesisService) OnDocumentReuploaded(ctx context.Context, thesisID uuid.UUID, pdfRef string) (*ReuploadResult, error) {
	pdfRef = strings.TrimSpace(pdfRef)
	if pdfRef == "" {
		return nil, apperr.InvalidArgument("pdf_ref", "is required")
	}

	var out *ReuploadResult
	err := s.Store.WithinTx(ctx, func(tx repository.Tx) error {
		th, err := s.lock(ctx, tx, thesisID)
		if err != nil {
			return err
		}
		if th.ThesisStatus.IsTerminal() {
			return apperr.Conflict("thesis", thesisID, "document cannot change after the defense outcome ("+string(th.ThesisStatus)+")")
		}
		now := s.now()
		res := &ReuploadResult{Thesis: th, PreviousPdfRef: th.ThesisPdfRef}

		switch rv, err := tx.LatestReview(ctx, thesisID); {
		case err == nil:
			if rv.ReviewSupersededAt == nil {
				rv.ReviewConclusion = reviewModel.ReviewConclusionRejected
				rv.ReviewSupersededAt = &now
				if err := tx.SaveReview(ctx, rv); err != nil {
					return err
				}
				res.SupersededReviewID = &rv.ReviewID
			}
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		switch sess, err := tx.FindLiveDefenseSessionByThesis(ctx, thesisID, true); {
		case err == nil:
			if err := tx.CancelDefenseSession(ctx, sess.DefenseSessionID, now); err != nil {
				return err
			}
			res.CancelledSessionID = &sess.DefenseSessionID
			log.Printf("[ThesisService] cancelled defense_session_id=%s for re-upload", sess.DefenseSessionID)
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		th.ThesisPdfRef = &pdfRef
		th.ThesisPdfUploadedAt = &now
		if err := s.moveTo(ctx, tx, th, thesisModel.ThesisStatusWaitingForReview); err != nil {
			return err
		}
		out = res
		return nil
	})
	return out, err
}

/* =========================
   Defense
   ========================= */

// RequestDefense moves READY_FOR_DEFENSE to WAITING_FOR_DEFENSE. The
// latest review must still be ACCEPTED.
func (s *ThesisService) RequestDefense(ctx context.Context, thesisID uuid.UUID) (*thesisModel.ThesisModel, error) {
	var out *thesisModel.ThesisModel
	err := s.Store.WithinTx(ctx, func(tx repository.Tx) error {
		th, err := s.lock(ctx, tx, thesisID)
		if err != nil {
			return err
		}
		if th.ThesisStatus != thesisModel.ThesisStatusReadyForDefense {
			return wrongStatus(th, "requesting a defense", thesisModel.ThesisStatusReadyForDefense)
		}
		rv, err := tx.LatestReview(ctx, thesisID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if rv == nil || rv.ReviewConclusion != reviewModel.ReviewConclusionAccepted {
			return apperr.Conflict("thesis", thesisID, "latest review is not ACCEPTED")
		}
		out = th
		return s.moveTo(ctx, tx, th, thesisModel.ThesisStatusWaitingForDefense)
	})
	return out, err
}

type ScheduleInput struct {
	ThesisID      uuid.UUID
	DefenseDateID uuid.UUID
	When          time.Time
	Notes         *string
}

// ScheduleDefense opens the single live defense session of a thesis that
// is WAITING_FOR_DEFENSE.
func (s *ThesisService) ScheduleDefense(ctx context.Context, in ScheduleInput) (*defenseModel.DefenseSessionModel, error) {
	if in.When.IsZero() {
		return nil, apperr.InvalidArgument("scheduled_at", "is required")
	}

	var out *defenseModel.DefenseSessionModel
	err := s.Store.WithinTx(ctx, func(tx repository.Tx) error {
		th, err := s.lock(ctx, tx, in.ThesisID)
		if err != nil {
			return err
		}
		if th.ThesisStatus != thesisModel.ThesisStatusWaitingForDefense {
			return wrongStatus(th, "scheduling a defense", thesisModel.ThesisStatusWaitingForDefense)
		}
		if _, err := tx.FindDefenseDate(ctx, in.DefenseDateID); err != nil {
			return repository.NotFoundAs(err, "defense date", in.DefenseDateID)
		}

		switch live, err := tx.FindLiveDefenseSessionByThesis(ctx, in.ThesisID, true); {
		case err == nil:
			return apperr.Conflict("thesis", in.ThesisID, "defense session "+live.DefenseSessionID.String()+" is already scheduled")
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		sess := &defenseModel.DefenseSessionModel{
			DefenseSessionID:            uuid.New(),
			DefenseSessionThesisID:      in.ThesisID,
			DefenseSessionDefenseDateID: in.DefenseDateID,
			DefenseSessionScheduledAt:   in.When.UTC(),
			DefenseSessionNotes:         in.Notes,
		}
		if err := tx.CreateDefenseSession(ctx, sess); err != nil {
			return repository.DuplicateAs(err, "thesis", in.ThesisID, "a defense session is already scheduled")
		}
		log.Printf("[ThesisService] scheduled defense_session_id=%s thesis_id=%s at=%s",
			sess.DefenseSessionID, in.ThesisID, sess.DefenseSessionScheduledAt.Format(time.RFC3339))
		out = sess
		return nil
	})
	return out, err
}

// BeginDefenseTx marks the defense as started; called with the first grade.
// Already started or decided theses are left alone.
func (s *ThesisService) BeginDefenseTx(ctx context.Context, tx repository.Tx, thesisID uuid.UUID) error {
	th, err := s.lock(ctx, tx, thesisID)
	if err != nil {
		return err
	}
	switch {
	case th.ThesisStatus == thesisModel.ThesisStatusWaitingForDefense:
		return s.moveTo(ctx, tx, th, thesisModel.ThesisStatusInDefenseProcess)
	case th.ThesisStatus == thesisModel.ThesisStatusInDefenseProcess, th.ThesisStatus.IsTerminal():
		return nil
	default:
		return wrongStatus(th, "grading", thesisModel.ThesisStatusWaitingForDefense, thesisModel.ThesisStatusInDefenseProcess)
	}
}

/* =========================
   Finalize
   ========================= */

func (s *ThesisService) Finalize(ctx context.Context, thesisID uuid.UUID, aggregateScore float64) (*thesisModel.ThesisModel, error) {
	var out *thesisModel.ThesisModel
	err := s.Store.WithinTx(ctx, func(tx repository.Tx) error {
		if err := s.FinalizeTx(ctx, tx, thesisID, aggregateScore); err != nil {
			return err
		}
		th, err := tx.FindThesis(ctx, thesisID, false)
		out = th
		return err
	})
	return out, err
}

// FinalizeTx resolves the defense outcome. A thesis that is already
// DEFENDED or FAILED is left untouched and no error is returned.
func (s *ThesisService) FinalizeTx(ctx context.Context, tx repository.Tx, thesisID uuid.UUID, aggregateScore float64) error {
	th, err := s.lock(ctx, tx, thesisID)
	if err != nil {
		return err
	}
	if th.ThesisStatus.IsTerminal() {
		log.Printf("[ThesisService] finalize thesis_id=%s ignored, already %s", thesisID, th.ThesisStatus)
		return nil
	}
	if th.ThesisStatus != thesisModel.ThesisStatusWaitingForDefense && th.ThesisStatus != thesisModel.ThesisStatusInDefenseProcess {
		return wrongStatus(th, "finalizing", thesisModel.ThesisStatusWaitingForDefense, thesisModel.ThesisStatusInDefenseProcess)
	}

	g := gradescale.ToFinalGrade(aggregateScore)
	now := s.now()
	th.ThesisFinalGrade = &g.Numeric
	th.ThesisFinalizedAt = &now

	to := thesisModel.ThesisStatusFailed
	if g.Passed {
		to = thesisModel.ThesisStatusDefended
	}
	log.Printf("[ThesisService] finalize thesis_id=%s score=%.3f grade=%.2f passed=%v", thesisID, aggregateScore, g.Numeric, g.Passed)
	return s.moveTo(ctx, tx, th, to)
}

/* =========================
   Reads
   ========================= */

func (s *ThesisService) GetByID(ctx context.Context, id uuid.UUID) (*thesisModel.ThesisModel, error) {
	var out *thesisModel.ThesisModel
	err := s.Store.View(ctx, func(tx repository.Tx) error {
		th, err := tx.FindThesis(ctx, id, false)
		if err != nil {
			return repository.NotFoundAs(err, "thesis", id)
		}
		out = th
		return nil
	})
	return out, err
}

func (s *ThesisService) GetByProposal(ctx context.Context, proposalID uuid.UUID) (*thesisModel.ThesisModel, error) {
	var out *thesisModel.ThesisModel
	err := s.Store.View(ctx, func(tx repository.Tx) error {
		th, err := tx.FindThesisByProposal(ctx, proposalID)
		if err != nil {
			return repository.NotFoundAs(err, "thesis of proposal", proposalID)
		}
		out = th
		return nil
	})
	return out, err
}

func (s *ThesisService) List(ctx context.Context, f repository.ThesisFilter) ([]thesisModel.ThesisModel, int64, error) {
	var (
		rows  []thesisModel.ThesisModel
		total int64
	)
	err := s.Store.View(ctx, func(tx repository.Tx) error {
		var err error
		rows, total, err = tx.ListTheses(ctx, f)
		return err
	})
	return rows, total, err
}

// Overview is the read projection shown on a thesis page.
type Overview struct {
	Thesis       thesisModel.ThesisModel                 `json:"thesis"`
	Proposal     proposalModel.ProposalModel             `json:"proposal"`
	LatestReview *reviewModel.ReviewModel                `json:"latest_review,omitempty"`
	Session      *defenseModel.DefenseSessionModel       `json:"defense_session,omitempty"`
	Committee    []defenseModel.CommitteeAssignmentModel `json:"committee,omitempty"`
}

func (s *ThesisService) Overview(ctx context.Context, id uuid.UUID) (*Overview, error) {
	var out Overview
	err := s.Store.View(ctx, func(tx repository.Tx) error {
		th, err := tx.FindThesis(ctx, id, false)
		if err != nil {
			return repository.NotFoundAs(err, "thesis", id)
		}
		out.Thesis = *th

		p, err := tx.FindProposal(ctx, th.ThesisProposalID, false)
		if err != nil {
			return repository.NotFoundAs(err, "proposal", th.ThesisProposalID)
		}
		out.Proposal = *p

		switch rv, err := tx.LatestReview(ctx, id); {
		case err == nil:
			out.LatestReview = rv
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		switch sess, err := tx.FindLiveDefenseSessionByThesis(ctx, id, false); {
		case err == nil:
			out.Session = sess
			if out.Committee, err = tx.ListAssignments(ctx, sess.DefenseSessionID); err != nil {
				return err
			}
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
