package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	proposalModel "thesisflow_backend/internals/features/thesis/proposals/model"
	reviewModel "thesisflow_backend/internals/features/thesis/reviews/model"
	thesisModel "thesisflow_backend/internals/features/thesis/theses/model"
	thesisService "thesisflow_backend/internals/features/thesis/theses/service"
	"thesisflow_backend/internals/helpers/apperr"
	"thesisflow_backend/internals/repository"
	"thesisflow_backend/internals/repository/memstore"
	identitySeed "thesisflow_backend/internals/seeds/identity"
)

type fixture struct {
	store      repository.Store
	theses     *thesisService.ThesisService
	svc        *ReviewService
	supervisor uuid.UUID
	ds         *identitySeed.Dataset
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()
	ds := identitySeed.Demo(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	if err := identitySeed.Apply(ctx, store, ds); err != nil {
		t.Fatalf("seed: %v", err)
	}
	theses := thesisService.NewThesisService(store)
	return &fixture{
		store:      store,
		theses:     theses,
		svc:        NewReviewService(store, theses),
		supervisor: ds.Teachers[0].ID,
		ds:         ds,
	}
}

func (f *fixture) thesis(t *testing.T) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	p := proposalModel.ProposalModel{
		ProposalStudentID:    f.ds.Students[0].ID,
		ProposalTeacherID:    f.supervisor,
		ProposalDepartmentID: f.ds.Departments[0].ID,
		ProposalTitle:        "t",
		ProposalGoal:         "g",
		ProposalStatus:       proposalModel.ProposalStatusApproved,
	}
	if err := f.store.WithinTx(ctx, func(tx repository.Tx) error { return tx.CreateProposal(ctx, &p) }); err != nil {
		t.Fatalf("proposal: %v", err)
	}
	th, err := f.theses.Create(ctx, p.ProposalID)
	if err != nil {
		t.Fatalf("thesis: %v", err)
	}
	return th.ThesisID
}

func (f *fixture) submit(thesisID uuid.UUID, c reviewModel.ReviewConclusion) (*SubmitResult, error) {
	return f.svc.Submit(context.Background(), SubmitInput{
		ThesisID:     thesisID,
		SupervisorID: f.supervisor,
		Content:      "Chapter 3 needs a baseline.",
		Conclusion:   c,
	})
}

func TestSubmitDrivesThesis(t *testing.T) {
	f := newFixture(t)
	id := f.thesis(t)

	res, err := f.submit(id, reviewModel.ReviewConclusionRejected)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if res.Thesis.ThesisStatus != thesisModel.ThesisStatusWaitingForReview {
		t.Fatalf("after reject: %s", res.Thesis.ThesisStatus)
	}

	res, err = f.submit(id, reviewModel.ReviewConclusionAccepted)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if res.Thesis.ThesisStatus != thesisModel.ThesisStatusReadyForDefense {
		t.Fatalf("after accept: %s", res.Thesis.ThesisStatus)
	}

	// the thesis has moved on; further reviews are refused
	if _, err := f.submit(id, reviewModel.ReviewConclusionRejected); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("late review: err = %v", err)
	}
}

func TestSubmitValidation(t *testing.T) {
	f := newFixture(t)
	id := f.thesis(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   SubmitInput
		kind apperr.Kind
	}{
		{"empty content", SubmitInput{ThesisID: id, SupervisorID: f.supervisor, Content: " ", Conclusion: reviewModel.ReviewConclusionAccepted}, apperr.KindInvalidArgument},
		{"bad conclusion", SubmitInput{ThesisID: id, SupervisorID: f.supervisor, Content: "x", Conclusion: "MAYBE"}, apperr.KindInvalidArgument},
		{"missing thesis", SubmitInput{ThesisID: uuid.New(), SupervisorID: f.supervisor, Content: "x", Conclusion: reviewModel.ReviewConclusionAccepted}, apperr.KindNotFound},
		{"missing supervisor", SubmitInput{ThesisID: id, SupervisorID: uuid.New(), Content: "x", Conclusion: reviewModel.ReviewConclusionAccepted}, apperr.KindNotFound},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := f.svc.Submit(ctx, c.in); !apperr.Is(err, c.kind) {
				t.Fatalf("err = %v, want %s", err, c.kind)
			}
		})
	}
}

func TestLatestForAndCanProceed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.thesis(t)

	rv, err := f.svc.LatestFor(ctx, id)
	if err != nil || rv != nil {
		t.Fatalf("no reviews: %v %v", rv, err)
	}
	if ok, _ := f.svc.CanProceedToDefense(ctx, id); ok {
		t.Fatal("can proceed without a review")
	}

	if _, err := f.submit(id, reviewModel.ReviewConclusionRejected); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if ok, _ := f.svc.CanProceedToDefense(ctx, id); ok {
		t.Fatal("can proceed after reject")
	}
	accepted, err := f.submit(id, reviewModel.ReviewConclusionAccepted)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	rv, err = f.svc.LatestFor(ctx, id)
	if err != nil || rv.ReviewID != accepted.Review.ReviewID {
		t.Fatalf("latest = %v, %v", rv, err)
	}
	if ok, _ := f.svc.CanProceedToDefense(ctx, id); !ok {
		t.Fatal("cannot proceed after accept")
	}

	all, err := f.svc.ListByThesis(ctx, id)
	if err != nil || len(all) != 2 || all[0].ReviewID != accepted.Review.ReviewID {
		t.Fatalf("ListByThesis = %d rows, %v", len(all), err)
	}
	if _, err := f.svc.LatestFor(ctx, uuid.New()); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("missing thesis: err = %v", err)
	}
}

func TestLatestForSameInstant(t *testing.T) {
	f := newFixture(t)
	at := time.Date(2024, 4, 2, 8, 0, 0, 0, time.UTC)
	f.svc.Now = func() time.Time { return at }
	id := f.thesis(t)

	if _, err := f.submit(id, reviewModel.ReviewConclusionRejected); err != nil {
		t.Fatalf("reject: %v", err)
	}
	second, err := f.submit(id, reviewModel.ReviewConclusionAccepted)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	rv, err := f.svc.LatestFor(context.Background(), id)
	if err != nil || rv.ReviewID != second.Review.ReviewID {
		t.Fatalf("latest = %+v, %v; want the later insertion", rv, err)
	}
}

func TestCorrectContentKeepsVerdict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.thesis(t)
	res, _ := f.submit(id, reviewModel.ReviewConclusionAccepted)

	rv, err := f.svc.CorrectContent(ctx, res.Review.ReviewID, "Typo fixed.")
	if err != nil {
		t.Fatalf("CorrectContent: %v", err)
	}
	if rv.ReviewContent != "Typo fixed." || rv.ReviewConclusion != reviewModel.ReviewConclusionAccepted {
		t.Fatalf("review = %+v", rv)
	}
	th, _ := f.theses.GetByID(ctx, id)
	if th.ThesisStatus != thesisModel.ThesisStatusReadyForDefense {
		t.Fatalf("status = %s", th.ThesisStatus)
	}
}

func TestCommentsAuthorOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.thesis(t)
	res, _ := f.submit(id, reviewModel.ReviewConclusionRejected)

	author := f.ds.Students[0].UserID
	other := f.ds.Teachers[0].UserID

	cm, err := f.svc.AddComment(ctx, res.Review.ReviewID, author, "Will fix chapter 3.")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if _, err := f.svc.EditComment(ctx, cm.CommentID, other, "hijack"); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("edit by other: err = %v", err)
	}
	if err := f.svc.DeleteComment(ctx, cm.CommentID, other); !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("delete by other: err = %v", err)
	}
	if _, err := f.svc.EditComment(ctx, cm.CommentID, author, "Fixed chapter 3."); err != nil {
		t.Fatalf("edit by author: %v", err)
	}

	list, err := f.svc.ListComments(ctx, res.Review.ReviewID)
	if err != nil || len(list) != 1 || list[0].CommentText != "Fixed chapter 3." {
		t.Fatalf("ListComments = %+v, %v", list, err)
	}

	if err := f.svc.DeleteComment(ctx, cm.CommentID, author); err != nil {
		t.Fatalf("delete by author: %v", err)
	}
	if err := f.svc.DeleteComment(ctx, cm.CommentID, author); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("second delete: err = %v", err)
	}
	if _, err := f.svc.AddComment(ctx, uuid.New(), author, "x"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("missing review: err = %v", err)
	}
}
