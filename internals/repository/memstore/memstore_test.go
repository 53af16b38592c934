package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	defenseModel "thesisflow_backend/internals/features/thesis/defenses/model"
	reviewModel "thesisflow_backend/internals/features/thesis/reviews/model"
	thesisModel "thesisflow_backend/internals/features/thesis/theses/model"
	"thesisflow_backend/internals/repository"
)

func TestWithinTxRollsBackOnError(t *testing.T) {
	s := New()
	ctx := context.Background()
	boom := errors.New("boom")

	th := thesisModel.ThesisModel{ThesisProposalID: uuid.New(), ThesisStatus: thesisModel.ThesisStatusWaitingForReview}
	err := s.WithinTx(ctx, func(tx repository.Tx) error {
		if err := tx.CreateThesis(ctx, &th); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}

	err = s.View(ctx, func(tx repository.Tx) error {
		_, err := tx.FindThesis(ctx, th.ThesisID, false)
		return err
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("thesis survived rollback: err = %v", err)
	}
}

func TestViewRejectsWrites(t *testing.T) {
	s := New()
	ctx := context.Background()
	err := s.View(ctx, func(tx repository.Tx) error {
		return tx.CreateThesis(ctx, &thesisModel.ThesisModel{ThesisProposalID: uuid.New()})
	})
	if !errors.Is(err, errReadOnly) {
		t.Fatalf("err = %v, want errReadOnly", err)
	}
}

func TestCancelledContext(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := s.WithinTx(ctx, func(repository.Tx) error { called = true; return nil })
	if !errors.Is(err, context.Canceled) || called {
		t.Fatalf("err = %v called = %v", err, called)
	}
}

func TestDuplicates(t *testing.T) {
	s := New()
	ctx := context.Background()
	proposalID := uuid.New()
	sessionID := uuid.New()
	examinerID := uuid.New()

	err := s.WithinTx(ctx, func(tx repository.Tx) error {
		if err := tx.CreateThesis(ctx, &thesisModel.ThesisModel{ThesisProposalID: proposalID}); err != nil {
			return err
		}
		if err := tx.CreateThesis(ctx, &thesisModel.ThesisModel{ThesisProposalID: proposalID}); !errors.Is(err, repository.ErrDuplicate) {
			t.Errorf("second thesis: err = %v", err)
		}

		a := defenseModel.CommitteeAssignmentModel{CommitteeAssignmentSessionID: sessionID, CommitteeAssignmentExaminerID: examinerID}
		if err := tx.CreateAssignment(ctx, &a); err != nil {
			return err
		}
		b := a
		if err := tx.CreateAssignment(ctx, &b); !errors.Is(err, repository.ErrDuplicate) {
			t.Errorf("second assignment: err = %v", err)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}
}

func TestOneLiveSessionPerThesis(t *testing.T) {
	s := New()
	ctx := context.Background()
	thesisID := uuid.New()

	err := s.WithinTx(ctx, func(tx repository.Tx) error {
		first := defenseModel.DefenseSessionModel{DefenseSessionThesisID: thesisID}
		if err := tx.CreateDefenseSession(ctx, &first); err != nil {
			return err
		}
		if err := tx.CreateDefenseSession(ctx, &defenseModel.DefenseSessionModel{DefenseSessionThesisID: thesisID}); !errors.Is(err, repository.ErrDuplicate) {
			t.Errorf("live duplicate: err = %v", err)
		}
		if err := tx.CancelDefenseSession(ctx, first.DefenseSessionID, time.Now()); err != nil {
			return err
		}
		return tx.CreateDefenseSession(ctx, &defenseModel.DefenseSessionModel{DefenseSessionThesisID: thesisID})
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}
}

func TestMarkFinalizedOnce(t *testing.T) {
	s := New()
	ctx := context.Background()
	sess := defenseModel.DefenseSessionModel{DefenseSessionThesisID: uuid.New()}

	var first, second bool
	err := s.WithinTx(ctx, func(tx repository.Tx) error {
		if err := tx.CreateDefenseSession(ctx, &sess); err != nil {
			return err
		}
		var err error
		if first, err = tx.MarkDefenseSessionFinalized(ctx, sess.DefenseSessionID, time.Now(), 90, nil); err != nil {
			return err
		}
		second, err = tx.MarkDefenseSessionFinalized(ctx, sess.DefenseSessionID, time.Now(), 10, nil)
		return err
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}
	if !first || second {
		t.Fatalf("first = %v second = %v, want true false", first, second)
	}
}

func TestLatestReviewTieBreaksOnSequence(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s := New(WithClock(func() time.Time { return at }))
	ctx := context.Background()
	thesisID := uuid.New()

	var second reviewModel.ReviewModel
	err := s.WithinTx(ctx, func(tx repository.Tx) error {
		first := reviewModel.ReviewModel{ReviewThesisID: thesisID, ReviewContent: "a", ReviewConclusion: reviewModel.ReviewConclusionRejected}
		if err := tx.CreateReview(ctx, &first); err != nil {
			return err
		}
		second = reviewModel.ReviewModel{ReviewThesisID: thesisID, ReviewContent: "b", ReviewConclusion: reviewModel.ReviewConclusionAccepted}
		return tx.CreateReview(ctx, &second)
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}

	_ = s.View(ctx, func(tx repository.Tx) error {
		latest, err := tx.LatestReview(ctx, thesisID)
		if err != nil {
			t.Fatalf("latest: %v", err)
		}
		if latest.ReviewID != second.ReviewID {
			t.Fatalf("latest = %s, want %s", latest.ReviewContent, second.ReviewContent)
		}
		return nil
	})
}

func TestPage(t *testing.T) {
	rows := []int{1, 2, 3, 4, 5}
	cases := []struct {
		offset, limit int
		want          int
	}{
		{0, 0, 5},
		{0, 2, 2},
		{4, 10, 1},
		{5, 1, 0},
		{-1, 3, 3},
	}
	for _, c := range cases {
		if got := page(rows, c.offset, c.limit); len(got) != c.want {
			t.Errorf("page(%d,%d) len = %d, want %d", c.offset, c.limit, len(got), c.want)
		}
	}
}
