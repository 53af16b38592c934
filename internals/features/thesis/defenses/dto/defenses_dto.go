package dto

import (
	"strings"
	"time"
)

type CreateDefenseDateRequest struct {
	// yyyy-mm-dd
	DefenseDateDay   string  `json:"defense_date_day" validate:"required,datetime=2006-01-02"`
	DefenseDateVenue string  `json:"defense_date_venue" validate:"required,max=160"`
	DefenseDateNotes *string `json:"defense_date_notes" validate:"omitempty,max=2000"`
}

func (r CreateDefenseDateRequest) Day() time.Time {
	d, _ := time.Parse("2006-01-02", strings.TrimSpace(r.DefenseDateDay))
	return d
}

type AssignExaminerRequest struct {
	ExaminerID string `json:"examiner_id" validate:"required,uuid"`
}

// Grade is a pointer so a missing field fails validation instead of
// silently grading 0.
type SubmitGradeRequest struct {
	Grade    *int    `json:"grade" validate:"required,min=0,max=100"`
	Thoughts *string `json:"thoughts" validate:"omitempty,max=4000"`
}
