// file: internals/features/thesis/reviews/service/reviews_service.go
package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	reviewModel "thesisflow_backend/internals/features/thesis/reviews/model"
	thesisModel "thesisflow_backend/internals/features/thesis/theses/model"
	"thesisflow_backend/internals/helpers/apperr"
	"thesisflow_backend/internals/repository"
)

// ReviewOutcomeHandler is the thesis side of a review submission.
type ReviewOutcomeHandler interface {
	OnReviewSubmittedTx(ctx context.Context, tx repository.Tx, thesisID uuid.UUID, conclusion reviewModel.ReviewConclusion) (*thesisModel.ThesisModel, error)
}

type ReviewService struct {
	Store  repository.Store
	Theses ReviewOutcomeHandler
	Now    func() time.Time
}

func NewReviewService(store repository.Store, theses ReviewOutcomeHandler) *ReviewService {
	return &ReviewService{Store: store, Theses: theses, Now: func() time.Time { return time.Now().UTC() }}
}

func (s *ReviewService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now()
}

type SubmitInput struct {
	ThesisID     uuid.UUID
	SupervisorID uuid.UUID
	Content      string
	Conclusion   reviewModel.ReviewConclusion
}

type SubmitResult struct {
	Review *reviewModel.ReviewModel `json:"review"`
	Thesis *thesisModel.ThesisModel `json:"thesis"`
}

// Submit records a review of a thesis that is WAITING_FOR_REVIEW and
// applies its verdict to the thesis in the same transaction.
func (s *ReviewService) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	in.Content = strings.TrimSpace(in.Content)
	in.Conclusion = reviewModel.ReviewConclusion(strings.ToUpper(strings.TrimSpace(string(in.Conclusion))))
	if in.Content == "" {
		return nil, apperr.InvalidArgument("content", "must not be empty")
	}
	if !in.Conclusion.Valid() {
		return nil, apperr.InvalidArgument("conclusion", "must be ACCEPTED or REJECTED")
	}

	var out SubmitResult
	err := s.Store.WithinTx(ctx, func(tx repository.Tx) error {
		th, err := tx.FindThesis(ctx, in.ThesisID, true)
		if err != nil {
			return repository.NotFoundAs(err, "thesis", in.ThesisID)
		}
		if _, err := tx.FindTeacher(ctx, in.SupervisorID); err != nil {
			return repository.NotFoundAs(err, "supervisor", in.SupervisorID)
		}
		if th.ThesisStatus != thesisModel.ThesisStatusWaitingForReview {
			return apperr.Conflict("thesis", in.ThesisID, "reviews are accepted only in WAITING_FOR_REVIEW, current "+string(th.ThesisStatus))
		}

		rv := &reviewModel.ReviewModel{
			ReviewID:           uuid.New(),
			ReviewThesisID:     in.ThesisID,
			ReviewSupervisorID: in.SupervisorID,
			ReviewContent:      in.Content,
			ReviewConclusion:   in.Conclusion,
			ReviewCreatedAt:    s.now(),
		}
		if err := tx.CreateReview(ctx, rv); err != nil {
			return err
		}
		log.Printf("[ReviewService] review_id=%s thesis_id=%s conclusion=%s", rv.ReviewID, in.ThesisID, rv.ReviewConclusion)

		updated, err := s.Theses.OnReviewSubmittedTx(ctx, tx, in.ThesisID, in.Conclusion)
		if err != nil {
			return err
		}
		out.Review = rv
		out.Thesis = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// LatestFor returns the newest review (created_at DESC, review_seq DESC),
// or nil when the thesis has none.
func (s *ReviewService) LatestFor(ctx context.Context, thesisID uuid.UUID) (*reviewModel.ReviewModel, error) {
	var out *reviewModel.ReviewModel
	err := s.Store.View(ctx, func(tx repository.Tx) error {
		if _, err := tx.FindThesis(ctx, thesisID, false); err != nil {
			return repository.NotFoundAs(err, "thesis", thesisID)
		}
		rv, err := tx.LatestReview(ctx, thesisID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		out = rv
		return nil
	})
	return out, err
}

func (s *ReviewService) CanProceedToDefense(ctx context.Context, thesisID uuid.UUID) (bool, error) {
	rv, err := s.LatestFor(ctx, thesisID)
	if err != nil {
		return false, err
	}
	return rv != nil && rv.ReviewConclusion == reviewModel.ReviewConclusionAccepted, nil
}

func (s *ReviewService) ListByThesis(ctx context.Context, thesisID uuid.UUID) ([]reviewModel.ReviewModel, error) {
	var out []reviewModel.ReviewModel
	err := s.Store.View(ctx, func(tx repository.Tx) error {
		if _, err := tx.FindThesis(ctx, thesisID, false); err != nil {
			return repository.NotFoundAs(err, "thesis", thesisID)
		}
		var err error
		out, err = tx.ListReviews(ctx, thesisID)
		return err
	})
	return out, err
}

func (s *ReviewService) GetByID(ctx context.Context, id uuid.UUID) (*reviewModel.ReviewModel, error) {
	var out *reviewModel.ReviewModel
	err := s.Store.View(ctx, func(tx repository.Tx) error {
		rv, err := tx.FindReview(ctx, id)
		if err != nil {
			return repository.NotFoundAs(err, "review", id)
		}
		out = rv
		return nil
	})
	return out, err
}

// CorrectContent is an administrative text fix. The conclusion and the
// thesis status are not touched.
func (s *ReviewService) CorrectContent(ctx context.Context, id uuid.UUID, content string) (*reviewModel.ReviewModel, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.InvalidArgument("content", "must not be empty")
	}
	var out *reviewModel.ReviewModel
	err := s.Store.WithinTx(ctx, func(tx repository.Tx) error {
		rv, err := tx.FindReview(ctx, id)
		if err != nil {
			return repository.NotFoundAs(err, "review", id)
		}
		rv.ReviewContent = content
		if err := tx.SaveReview(ctx, rv); err != nil {
			return err
		}
		out = rv
		return nil
	})
	return out, err
}
