// file: internals/features/thesis/reviews/model/reviews_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type ReviewConclusion string

const (
	ReviewConclusionAccepted ReviewConclusion = "ACCEPTED"
	ReviewConclusionRejected ReviewConclusion = "REJECTED"
)

func (c ReviewConclusion) Valid() bool {
	return c == ReviewConclusionAccepted || c == ReviewConclusionRejected
}

type ReviewModel struct {
	ReviewID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:review_id" json:"review_id"`
	// insertion order, tie-break for reviews created in the same instant
	ReviewSeq int64 `gorm:"column:review_seq;autoIncrement;not null" json:"review_seq"`

	ReviewThesisID     uuid.UUID        `gorm:"type:uuid;not null;index:idx_reviews_thesis_created,priority:1;column:review_thesis_id" json:"review_thesis_id"`
	ReviewSupervisorID uuid.UUID        `gorm:"type:uuid;not null;column:review_supervisor_id" json:"review_supervisor_id"`
	ReviewContent      string           `gorm:"type:text;not null;column:review_content" json:"review_content"`
	ReviewConclusion   ReviewConclusion `gorm:"type:varchar(16);not null;column:review_conclusion" json:"review_conclusion"`

	// set when a re-uploaded document invalidates this review
	ReviewSupersededAt *time.Time `gorm:"type:timestamptz;column:review_superseded_at" json:"review_superseded_at,omitempty"`

	ReviewCreatedAt time.Time `gorm:"type:timestamptz;not null;index:idx_reviews_thesis_created,priority:2;column:review_created_at" json:"review_created_at"`
	ReviewUpdatedAt time.Time `gorm:"type:timestamptz;not null;autoUpdateTime;column:review_updated_at" json:"review_updated_at"`
}

func (ReviewModel) TableName() string { return "reviews" }

// Newer reports whether r sorts after other under the latest-review rule:
// greater creation time first, then greater insertion sequence.
func (r ReviewModel) Newer(other ReviewModel) bool {
	if !r.ReviewCreatedAt.Equal(other.ReviewCreatedAt) {
		return r.ReviewCreatedAt.After(other.ReviewCreatedAt)
	}
	return r.ReviewSeq > other.ReviewSeq
}

type CommentModel struct {
	CommentID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:comment_id" json:"comment_id"`
	CommentReviewID uuid.UUID `gorm:"type:uuid;not null;index;column:comment_review_id" json:"comment_review_id"`
	CommentAuthorID uuid.UUID `gorm:"type:uuid;not null;column:comment_author_id" json:"comment_author_id"`
	CommentText     string    `gorm:"type:text;not null;column:comment_text" json:"comment_text"`

	CommentCreatedAt time.Time `gorm:"type:timestamptz;not null;autoCreateTime;column:comment_created_at" json:"comment_created_at"`
	CommentUpdatedAt time.Time `gorm:"type:timestamptz;not null;autoUpdateTime;column:comment_updated_at" json:"comment_updated_at"`
}

func (CommentModel) TableName() string { return "review_comments" }
