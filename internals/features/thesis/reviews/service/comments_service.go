package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	reviewModel "thesisflow_backend/internals/features/thesis/reviews/model"
	"thesisflow_backend/internals/helpers/apperr"
	"thesisflow_backend/internals/repository"
)

func cleanText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperr.InvalidArgument("text", "must not be empty")
	}
	return text, nil
}

func (s *ReviewService) AddComment(ctx context.Context, reviewID, authorID uuid.UUID, text string) (*reviewModel.CommentModel, error) {
	text, err := cleanText(text)
	if err != nil {
		return nil, err
	}
	var out *reviewModel.CommentModel
	err = s.Store.WithinTx(ctx, func(tx repository.Tx) error {
		if _, err := tx.FindReview(ctx, reviewID); err != nil {
			return repository.NotFoundAs(err, "review", reviewID)
		}
		if _, err := tx.FindUser(ctx, authorID); err != nil {
			return repository.NotFoundAs(err, "user", authorID)
		}
		cm := &reviewModel.CommentModel{
			CommentID:       uuid.New(),
			CommentReviewID: reviewID,
			CommentAuthorID: authorID,
			CommentText:     text,
		}
		if err := tx.CreateComment(ctx, cm); err != nil {
			return err
		}
		out = cm
		return nil
	})
	return out, err
}

// ownComment loads a comment and checks that actorID wrote it.
func ownComment(ctx context.Context, tx repository.Tx, id, actorID uuid.UUID) (*reviewModel.CommentModel, error) {
	cm, err := tx.FindComment(ctx, id)
	if err != nil {
		return nil, repository.NotFoundAs(err, "comment", id)
	}
	if cm.CommentAuthorID != actorID {
		return nil, apperr.Forbidden("comment", id, "only the author may change a comment")
	}
	return cm, nil
}

func (s *ReviewService) EditComment(ctx context.Context, id, actorID uuid.UUID, text string) (*reviewModel.CommentModel, error) {
	text, err := cleanText(text)
	if err != nil {
		return nil, err
	}
	var out *reviewModel.CommentModel
	err = s.Store.WithinTx(ctx, func(tx repository.Tx) error {
		cm, err := ownComment(ctx, tx, id, actorID)
		if err != nil {
			return err
		}
		cm.CommentText = text
		if err := tx.SaveComment(ctx, cm); err != nil {
			return err
		}
		out = cm
		return nil
	})
	return out, err
}

func (s *ReviewService) DeleteComment(ctx context.Context, id, actorID uuid.UUID) error {
	return s.Store.WithinTx(ctx, func(tx repository.Tx) error {
		if _, err := ownComment(ctx, tx, id, actorID); err != nil {
			return err
		}
		return repository.NotFoundAs(tx.DeleteComment(ctx, id), "comment", id)
	})
}

func (s *ReviewService) ListComments(ctx context.Context, reviewID uuid.UUID) ([]reviewModel.CommentModel, error) {
	var out []reviewModel.CommentModel
	err := s.Store.View(ctx, func(tx repository.Tx) error {
		if _, err := tx.FindReview(ctx, reviewID); err != nil {
			return repository.NotFoundAs(err, "review", reviewID)
		}
		var err error
		out, err = tx.ListComments(ctx, reviewID)
		return err
	})
	return out, err
}
