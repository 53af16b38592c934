package dto

import (
	"strings"

	reviewModel "thesisflow_backend/internals/features/thesis/reviews/model"
)

type CreateReviewRequest struct {
	ReviewContent    string `json:"review_content" validate:"required"`
	ReviewConclusion string `json:"review_conclusion" validate:"required,oneof=ACCEPTED REJECTED accepted rejected"`
}

func (r CreateReviewRequest) Conclusion() reviewModel.ReviewConclusion {
	return reviewModel.ReviewConclusion(strings.ToUpper(strings.TrimSpace(r.ReviewConclusion)))
}

type CorrectReviewRequest struct {
	ReviewContent string `json:"review_content" validate:"required"`
}

type CommentRequest struct {
	CommentText string `json:"comment_text" validate:"required,max=4000"`
}

type CanDefendResponse struct {
	ThesisID   string `json:"thesis_id"`
	CanProceed bool   `json:"can_proceed"`
}
