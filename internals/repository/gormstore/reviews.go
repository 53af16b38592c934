package gormstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	reviewModel "thesisflow_backend/internals/features/thesis/reviews/model"
)

func (t *tx) CreateReview(ctx context.Context, m *reviewModel.ReviewModel) error {
	return translate(t.q(ctx).Create(m).Error)
}

func (t *tx) FindReview(ctx context.Context, id uuid.UUID) (*reviewModel.ReviewModel, error) {
	var m reviewModel.ReviewModel
	if err := t.q(ctx).Where("review_id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (t *tx) LatestReview(ctx context.Context, thesisID uuid.UUID) (*reviewModel.ReviewModel, error) {
	var m reviewModel.ReviewModel
	err := t.q(ctx).
		Where("review_thesis_id = ?", thesisID).
		Order("review_created_at DESC").
		Order("review_seq DESC").
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (t *tx) ListReviews(ctx context.Context, thesisID uuid.UUID) ([]reviewModel.ReviewModel, error) {
	rows := make([]reviewModel.ReviewModel, 0)
	err := t.q(ctx).
		Where("review_thesis_id = ?", thesisID).
		Order("review_created_at DESC").
		Order("review_seq DESC").
		Find(&rows).Error
	return rows, translate(err)
}

func (t *tx) SaveReview(ctx context.Context, m *reviewModel.ReviewModel) error {
	res := t.q(ctx).
		Model(&reviewModel.ReviewModel{}).
		Where("review_id = ?", m.ReviewID).
		Updates(map[string]any{
			"review_content":       m.ReviewContent,
			"review_conclusion":    m.ReviewConclusion,
			"review_superseded_at": m.ReviewSupersededAt,
			"review_updated_at":    time.Now().UTC(),
		})
	return affected(res)
}

func (t *tx) CreateComment(ctx context.Context, m *reviewModel.CommentModel) error {
	return translate(t.q(ctx).Create(m).Error)
}

func (t *tx) FindComment(ctx context.Context, id uuid.UUID) (*reviewModel.CommentModel, error) {
	var m reviewModel.CommentModel
	if err := t.q(ctx).Where("comment_id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (t *tx) SaveComment(ctx context.Context, m *reviewModel.CommentModel) error {
	res := t.q(ctx).
		Model(&reviewModel.CommentModel{}).
		Where("comment_id = ?", m.CommentID).
		Updates(map[string]any{
			"comment_text":       m.CommentText,
			"comment_updated_at": time.Now().UTC(),
		})
	return affected(res)
}

func (t *tx) DeleteComment(ctx context.Context, id uuid.UUID) error {
	return affected(t.q(ctx).Where("comment_id = ?", id).Delete(&reviewModel.CommentModel{}))
}

func (t *tx) ListComments(ctx context.Context, reviewID uuid.UUID) ([]reviewModel.CommentModel, error) {
	rows := make([]reviewModel.CommentModel, 0)
	err := t.q(ctx).
		Where("comment_review_id = ?", reviewID).
		Order("comment_created_at ASC").
		Find(&rows).Error
	return rows, translate(err)
}
