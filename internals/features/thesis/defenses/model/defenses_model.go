// file: internals/features/thesis/defenses/model/defenses_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DefenseDateModel: a day + venue published by the scheduling office.
type DefenseDateModel struct {
	DefenseDateID    uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:defense_date_id" json:"defense_date_id"`
	DefenseDateDay   datatypes.Date `gorm:"type:date;not null;index;column:defense_date_day" json:"defense_date_day"`
	DefenseDateVenue string         `gorm:"type:varchar(160);not null;column:defense_date_venue" json:"defense_date_venue"`
	DefenseDateNotes *string        `gorm:"type:text;column:defense_date_notes" json:"defense_date_notes,omitempty"`

	DefenseDateCreatedAt time.Time `gorm:"type:timestamptz;not null;autoCreateTime;column:defense_date_created_at" json:"defense_date_created_at"`
}

func (DefenseDateModel) TableName() string { return "defense_dates" }

type DefenseSessionModel struct {
	DefenseSessionID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:defense_session_id" json:"defense_session_id"`
	DefenseSessionThesisID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_defense_sessions_live_thesis,where:defense_session_cancelled_at IS NULL;column:defense_session_thesis_id" json:"defense_session_thesis_id"`
	DefenseSessionDefenseDateID uuid.UUID `gorm:"type:uuid;not null;index;column:defense_session_defense_date_id" json:"defense_session_defense_date_id"`

	DefenseSessionScheduledAt time.Time `gorm:"type:timestamptz;not null;column:defense_session_scheduled_at" json:"defense_session_scheduled_at"`
	DefenseSessionNotes       *string   `gorm:"type:text;column:defense_session_notes" json:"defense_session_notes,omitempty"`

	// Set exactly once, by the submission that completes the committee.
	DefenseSessionFinalizedAt   *time.Time        `gorm:"type:timestamptz;column:defense_session_finalized_at" json:"defense_session_finalized_at,omitempty"`
	DefenseSessionAverageScore  *float64          `gorm:"type:numeric(6,3);column:defense_session_average_score" json:"defense_session_average_score,omitempty"`
	DefenseSessionGradeSnapshot datatypes.JSONMap `gorm:"type:jsonb;column:defense_session_grade_snapshot" json:"defense_session_grade_snapshot,omitempty"`

	DefenseSessionCancelledAt *time.Time `gorm:"type:timestamptz;column:defense_session_cancelled_at" json:"defense_session_cancelled_at,omitempty"`

	DefenseSessionCreatedAt time.Time `gorm:"type:timestamptz;not null;autoCreateTime;column:defense_session_created_at" json:"defense_session_created_at"`
	DefenseSessionUpdatedAt time.Time `gorm:"type:timestamptz;not null;autoUpdateTime;column:defense_session_updated_at" json:"defense_session_updated_at"`
}

func (DefenseSessionModel) TableName() string { return "defense_sessions" }

func (s DefenseSessionModel) IsLive() bool { return s.DefenseSessionCancelledAt == nil }

func (s DefenseSessionModel) IsFinalized() bool { return s.DefenseSessionFinalizedAt != nil }

// CommitteeAssignmentModel: one examiner in one defense session.
type CommitteeAssignmentModel struct {
	CommitteeAssignmentSessionID  uuid.UUID `gorm:"type:uuid;primaryKey;column:committee_assignment_session_id" json:"committee_assignment_session_id"`
	CommitteeAssignmentExaminerID uuid.UUID `gorm:"type:uuid;primaryKey;column:committee_assignment_examiner_id" json:"committee_assignment_examiner_id"`

	// 0..100, null until submitted
	CommitteeAssignmentGrade    *int       `gorm:"type:smallint;column:committee_assignment_grade" json:"committee_assignment_grade,omitempty"`
	CommitteeAssignmentThoughts *string    `gorm:"type:text;column:committee_assignment_thoughts" json:"committee_assignment_thoughts,omitempty"`
	CommitteeAssignmentGradedAt *time.Time `gorm:"type:timestamptz;column:committee_assignment_graded_at" json:"committee_assignment_graded_at,omitempty"`

	CommitteeAssignmentCreatedAt time.Time `gorm:"type:timestamptz;not null;autoCreateTime;column:committee_assignment_created_at" json:"committee_assignment_created_at"`
}

func (CommitteeAssignmentModel) TableName() string { return "committee_assignments" }

func (a CommitteeAssignmentModel) IsGraded() bool { return a.CommitteeAssignmentGrade != nil }
