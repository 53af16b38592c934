package memstore

import (
	"context"
	"sort"

	"github.com/google/uuid"

	reviewModel "thesisflow_backend/internals/features/thesis/reviews/model"
	"thesisflow_backend/internals/repository"
)

func (t *tx) CreateReview(_ context.Context, m *reviewModel.ReviewModel) error {
	if err := t.writable(); err != nil {
		return err
	}
	newIDIfNil(&m.ReviewID)
	now := t.now()
	t.st.reviewSeq++
	m.ReviewSeq = t.st.reviewSeq
	stampIfZero(&m.ReviewCreatedAt, now)
	m.ReviewUpdatedAt = now
	t.st.reviews[m.ReviewID] = *m
	return nil
}

func (t *tx) FindReview(_ context.Context, id uuid.UUID) (*reviewModel.ReviewModel, error) {
	m, ok := t.st.reviews[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (t *tx) LatestReview(_ context.Context, thesisID uuid.UUID) (*reviewModel.ReviewModel, error) {
	var latest *reviewModel.ReviewModel
	for _, m := range t.st.reviews {
		if m.ReviewThesisID != thesisID {
			continue
		}
		if latest == nil || m.Newer(*latest) {
			cp := m
			latest = &cp
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}

// ListReviews returns newest first.
func (t *tx) ListReviews(_ context.Context, thesisID uuid.UUID) ([]reviewModel.ReviewModel, error) {
	rows := make([]reviewModel.ReviewModel, 0)
	for _, m := range t.st.reviews {
		if m.ReviewThesisID == thesisID {
			rows = append(rows, m)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Newer(rows[j]) })
	return rows, nil
}

func (t *tx) SaveReview(_ context.Context, m *reviewModel.ReviewModel) error {
	if err := t.writable(); err != nil {
		return err
	}
	cur, ok := t.st.reviews[m.ReviewID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.ReviewContent = m.ReviewContent
	cur.ReviewConclusion = m.ReviewConclusion
	cur.ReviewSupersededAt = m.ReviewSupersededAt
	cur.ReviewUpdatedAt = t.now()
	t.st.reviews[m.ReviewID] = cur
	return nil
}

func (t *tx) CreateComment(_ context.Context, m *reviewModel.CommentModel) error {
	if err := t.writable(); err != nil {
		return err
	}
	newIDIfNil(&m.CommentID)
	now := t.now()
	stampIfZero(&m.CommentCreatedAt, now)
	m.CommentUpdatedAt = now
	t.st.comments[m.CommentID] = *m
	return nil
}

func (t *tx) FindComment(_ context.Context, id uuid.UUID) (*reviewModel.CommentModel, error) {
	m, ok := t.st.comments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (t *tx) SaveComment(_ context.Context, m *reviewModel.CommentModel) error {
	if err := t.writable(); err != nil {
		return err
	}
	cur, ok := t.st.comments[m.CommentID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.CommentText = m.CommentText
	cur.CommentUpdatedAt = t.now()
	t.st.comments[m.CommentID] = cur
	return nil
}

func (t *tx) DeleteComment(_ context.Context, id uuid.UUID) error {
	if err := t.writable(); err != nil {
		return err
	}
	if _, ok := t.st.comments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(t.st.comments, id)
	return nil
}

func (t *tx) ListComments(_ context.Context, reviewID uuid.UUID) ([]reviewModel.CommentModel, error) {
	rows := make([]reviewModel.CommentModel, 0)
	for _, m := range t.st.comments {
		if m.CommentReviewID == reviewID {
			rows = append(rows, m)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CommentCreatedAt.Before(rows[j].CommentCreatedAt)
	})
	return rows, nil
}
