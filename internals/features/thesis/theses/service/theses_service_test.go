package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	defenseModel "thesisflow_backend/internals/features/thesis/defenses/model"
	proposalModel "thesisflow_backend/internals/features/thesis/proposals/model"
	reviewModel "thesisflow_backend/internals/features/thesis/reviews/model"
	thesisModel "thesisflow_backend/internals/features/thesis/theses/model"
	"thesisflow_backend/internals/helpers/apperr"
	"thesisflow_backend/internals/repository"
	"thesisflow_backend/internals/repository/memstore"
)

func newService(t *testing.T) (*ThesisService, repository.Store) {
	t.Helper()
	store := memstore.New()
	return NewThesisService(store), store
}

func insertProposal(t *testing.T, store repository.Store, st proposalModel.ProposalStatus) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	p := proposalModel.ProposalModel{
		ProposalStudentID:    uuid.New(),
		ProposalTeacherID:    uuid.New(),
		ProposalDepartmentID: uuid.New(),
		ProposalTitle:        "t",
		ProposalGoal:         "g",
		ProposalStatus:       st,
	}
	if err := store.WithinTx(ctx, func(tx repository.Tx) error { return tx.CreateProposal(ctx, &p) }); err != nil {
		t.Fatalf("insert proposal: %v", err)
	}
	return p.ProposalID
}

func newThesis(t *testing.T, svc *ThesisService, store repository.Store) *thesisModel.ThesisModel {
	t.Helper()
	th, err := svc.Create(context.Background(), insertProposal(t, store, proposalModel.ProposalStatusApproved))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return th
}

func addReview(t *testing.T, store repository.Store, thesisID uuid.UUID, c reviewModel.ReviewConclusion) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	rv := reviewModel.ReviewModel{
		ReviewThesisID:     thesisID,
		ReviewSupervisorID: uuid.New(),
		ReviewContent:      "ok",
		ReviewConclusion:   c,
	}
	if err := store.WithinTx(ctx, func(tx repository.Tx) error { return tx.CreateReview(ctx, &rv) }); err != nil {
		t.Fatalf("insert review: %v", err)
	}
	return rv.ReviewID
}

func addDefenseDate(t *testing.T, store repository.Store) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	d := defenseModel.DefenseDateModel{
		DefenseDateDay:   datatypes.Date(time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)),
		DefenseDateVenue: "Hall 2",
	}
	if err := store.WithinTx(ctx, func(tx repository.Tx) error { return tx.CreateDefenseDate(ctx, &d) }); err != nil {
		t.Fatalf("insert defense date: %v", err)
	}
	return d.DefenseDateID
}

func status(t *testing.T, svc *ThesisService, id uuid.UUID) thesisModel.ThesisStatus {
	t.Helper()
	th, err := svc.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	return th.ThesisStatus
}

// waitingForDefense walks a new thesis to WAITING_FOR_DEFENSE.
func waitingForDefense(t *testing.T, svc *ThesisService, store repository.Store) *thesisModel.ThesisModel {
	t.Helper()
	ctx := context.Background()
	th := newThesis(t, svc, store)
	addReview(t, store, th.ThesisID, reviewModel.ReviewConclusionAccepted)
	if _, err := svc.OnReviewSubmitted(ctx, th.ThesisID, reviewModel.ReviewConclusionAccepted); err != nil {
		t.Fatalf("OnReviewSubmitted: %v", err)
	}
	if _, err := svc.RequestDefense(ctx, th.ThesisID); err != nil {
		t.Fatalf("RequestDefense: %v", err)
	}
	return th
}

func TestCreate(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	th := newThesis(t, svc, store)
	if th.ThesisStatus != thesisModel.ThesisStatusWaitingForReview {
		t.Fatalf("status = %s", th.ThesisStatus)
	}
	if _, err := svc.Create(ctx, th.ThesisProposalID); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("second create: err = %v, want CONFLICT", err)
	}
	if _, err := svc.Create(ctx, uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("missing proposal: err = %v", err)
	}
	pending := insertProposal(t, store, proposalModel.ProposalStatusPending)
	if _, err := svc.Create(ctx, pending); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("pending proposal: err = %v", err)
	}

	got, err := svc.GetByProposal(ctx, th.ThesisProposalID)
	if err != nil || got.ThesisID != th.ThesisID {
		t.Fatalf("GetByProposal = %+v, %v", got, err)
	}
	if _, err := svc.GetByProposal(ctx, pending); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("GetByProposal without thesis: err = %v", err)
	}
}

func TestOnReviewSubmitted(t *testing.T) {
	cases := []struct {
		name       string
		conclusion reviewModel.ReviewConclusion
		want       thesisModel.ThesisStatus
	}{
		{"rejected stays", reviewModel.ReviewConclusionRejected, thesisModel.ThesisStatusWaitingForReview},
		{"accepted advances", reviewModel.ReviewConclusionAccepted, thesisModel.ThesisStatusReadyForDefense},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			svc, store := newService(t)
			th := newThesis(t, svc, store)
			got, err := svc.OnReviewSubmitted(context.Background(), th.ThesisID, c.conclusion)
			if err != nil {
				t.Fatalf("OnReviewSubmitted: %v", err)
			}
			if got.ThesisStatus != c.want {
				t.Fatalf("status = %s, want %s", got.ThesisStatus, c.want)
			}
		})
	}
}

func TestAcceptOutsideWaitingForReview(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	th := newThesis(t, svc, store)
	if _, err := svc.OnReviewSubmitted(ctx, th.ThesisID, reviewModel.ReviewConclusionAccepted); err != nil {
		t.Fatalf("first accept: %v", err)
	}
	if _, err := svc.OnReviewSubmitted(ctx, th.ThesisID, reviewModel.ReviewConclusionAccepted); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("second accept: err = %v, want CONFLICT", err)
	}
}

func TestRequestDefenseNeedsAcceptedReview(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	th := newThesis(t, svc, store)

	if _, err := svc.RequestDefense(ctx, th.ThesisID); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("from WAITING_FOR_REVIEW: err = %v", err)
	}
	if _, err := svc.OnReviewSubmitted(ctx, th.ThesisID, reviewModel.ReviewConclusionAccepted); err != nil {
		t.Fatalf("accept: %v", err)
	}
	// status says ready but no review row backs it
	if _, err := svc.RequestDefense(ctx, th.ThesisID); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("without review: err = %v", err)
	}
	addReview(t, store, th.ThesisID, reviewModel.ReviewConclusionAccepted)
	if _, err := svc.RequestDefense(ctx, th.ThesisID); err != nil {
		t.Fatalf("RequestDefense: %v", err)
	}
	if got := status(t, svc, th.ThesisID); got != thesisModel.ThesisStatusWaitingForDefense {
		t.Fatalf("status = %s", got)
	}
}

func TestScheduleDefense(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	dateID := addDefenseDate(t, store)
	when := time.Date(2025, 6, 20, 9, 30, 0, 0, time.UTC)

	early := newThesis(t, svc, store)
	if _, err := svc.ScheduleDefense(ctx, ScheduleInput{ThesisID: early.ThesisID, DefenseDateID: dateID, When: when}); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("not waiting: err = %v", err)
	}

	th := waitingForDefense(t, svc, store)
	if _, err := svc.ScheduleDefense(ctx, ScheduleInput{ThesisID: th.ThesisID, DefenseDateID: uuid.New(), When: when}); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("unknown date: err = %v", err)
	}
	sess, err := svc.ScheduleDefense(ctx, ScheduleInput{ThesisID: th.ThesisID, DefenseDateID: dateID, When: when})
	if err != nil {
		t.Fatalf("ScheduleDefense: %v", err)
	}
	if !sess.DefenseSessionScheduledAt.Equal(when) {
		t.Fatalf("scheduled_at = %s", sess.DefenseSessionScheduledAt)
	}
	if _, err := svc.ScheduleDefense(ctx, ScheduleInput{ThesisID: th.ThesisID, DefenseDateID: dateID, When: when}); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("second session: err = %v", err)
	}
}

func TestDocumentReuploadSupersedesAndCancels(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	th := waitingForDefense(t, svc, store)
	dateID := addDefenseDate(t, store)
	sess, err := svc.ScheduleDefense(ctx, ScheduleInput{ThesisID: th.ThesisID, DefenseDateID: dateID, When: time.Now()})
	if err != nil {
		t.Fatalf("ScheduleDefense: %v", err)
	}

	res, err := svc.OnDocumentReuploaded(ctx, th.ThesisID, "theses/v2.pdf")
	if err != nil {
		t.Fatalf("OnDocumentReuploaded: %v", err)
	}
	if res.Thesis.ThesisStatus != thesisModel.ThesisStatusWaitingForReview {
		t.Fatalf("status = %s", res.Thesis.ThesisStatus)
	}
	if res.CancelledSessionID == nil || *res.CancelledSessionID != sess.DefenseSessionID {
		t.Fatal("live session not cancelled")
	}
	if res.SupersededReviewID == nil {
		t.Fatal("latest review not superseded")
	}

	_ = store.View(ctx, func(tx repository.Tx) error {
		rv, err := tx.LatestReview(ctx, th.ThesisID)
		if err != nil {
			t.Fatalf("LatestReview: %v", err)
		}
		if rv.ReviewConclusion != reviewModel.ReviewConclusionRejected || rv.ReviewSupersededAt == nil {
			t.Fatalf("latest review = %s superseded=%v", rv.ReviewConclusion, rv.ReviewSupersededAt)
		}
		return nil
	})

	// a stale acceptance no longer opens the defense path
	if _, err := svc.RequestDefense(ctx, th.ThesisID); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("RequestDefense after re-upload: err = %v", err)
	}
}

func TestDocumentReuploadFromWaitingForReview(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	th := newThesis(t, svc, store)

	res, err := svc.OnDocumentReuploaded(ctx, th.ThesisID, "theses/v1.pdf")
	if err != nil {
		t.Fatalf("OnDocumentReuploaded: %v", err)
	}
	if res.Thesis.ThesisStatus != thesisModel.ThesisStatusWaitingForReview || res.SupersededReviewID != nil {
		t.Fatalf("result = %+v", res)
	}
	if _, err := svc.OnDocumentReuploaded(ctx, th.ThesisID, " "); !apperr.Is(err, apperr.KindInvalidArgument) {
		t.Fatalf("empty ref: err = %v", err)
	}
}

func TestFinalize(t *testing.T) {
	cases := []struct {
		score float64
		grade float64
		want  thesisModel.ThesisStatus
	}{
		{90, 5.40, thesisModel.ThesisStatusDefended},
		{50, 3.00, thesisModel.ThesisStatusDefended},
		{30, 2.00, thesisModel.ThesisStatusFailed},
	}
	for _, c := range cases {
		svc, store := newService(t)
		th := waitingForDefense(t, svc, store)
		got, err := svc.Finalize(context.Background(), th.ThesisID, c.score)
		if err != nil {
			t.Fatalf("Finalize(%v): %v", c.score, err)
		}
		if got.ThesisStatus != c.want || got.ThesisFinalGrade == nil || *got.ThesisFinalGrade != c.grade {
			t.Fatalf("Finalize(%v) = %s %v, want %s %v", c.score, got.ThesisStatus, got.ThesisFinalGrade, c.want, c.grade)
		}
	}
}

func TestFinalizeIsIdempotent(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	th := waitingForDefense(t, svc, store)

	first, err := svc.Finalize(ctx, th.ThesisID, 80)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := svc.Finalize(ctx, th.ThesisID, 10)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if second.ThesisStatus != first.ThesisStatus || *second.ThesisFinalGrade != *first.ThesisFinalGrade {
		t.Fatalf("second finalize changed state: %s %v", second.ThesisStatus, *second.ThesisFinalGrade)
	}
	if !second.ThesisFinalizedAt.Equal(*first.ThesisFinalizedAt) {
		t.Fatal("finalized_at moved")
	}
	if _, err := svc.OnDocumentReuploaded(ctx, th.ThesisID, "late.pdf"); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("re-upload after outcome: err = %v", err)
	}
}

func TestFinalizeTooEarly(t *testing.T) {
	svc, store := newService(t)
	th := newThesis(t, svc, store)
	if _, err := svc.Finalize(context.Background(), th.ThesisID, 90); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("err = %v, want CONFLICT", err)
	}
}

func TestBeginDefense(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	th := waitingForDefense(t, svc, store)

	for i := 0; i < 2; i++ {
		err := store.WithinTx(ctx, func(tx repository.Tx) error { return svc.BeginDefenseTx(ctx, tx, th.ThesisID) })
		if err != nil {
			t.Fatalf("BeginDefenseTx #%d: %v", i, err)
		}
	}
	if got := status(t, svc, th.ThesisID); got != thesisModel.ThesisStatusInDefenseProcess {
		t.Fatalf("status = %s", got)
	}
}

func TestOverview(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	th := waitingForDefense(t, svc, store)
	if _, err := svc.ScheduleDefense(ctx, ScheduleInput{ThesisID: th.ThesisID, DefenseDateID: addDefenseDate(t, store), When: time.Now()}); err != nil {
		t.Fatalf("ScheduleDefense: %v", err)
	}

	ov, err := svc.Overview(ctx, th.ThesisID)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if ov.LatestReview == nil || ov.Session == nil || ov.Proposal.ProposalID != th.ThesisProposalID {
		t.Fatalf("overview = %+v", ov)
	}
}
