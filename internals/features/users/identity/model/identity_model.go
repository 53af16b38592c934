// file: internals/features/users/identity/model/identity_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

type UserModel struct {
	UserID    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:user_id" json:"user_id"`
	UserName  string    `gorm:"type:varchar(120);not null;column:user_name" json:"user_name"`
	UserEmail string    `gorm:"type:varchar(160);not null;uniqueIndex:uq_users_email;column:user_email" json:"user_email"`

	UserCreatedAt time.Time `gorm:"type:timestamptz;not null;autoCreateTime;column:user_created_at" json:"user_created_at"`
	UserUpdatedAt time.Time `gorm:"type:timestamptz;not null;autoUpdateTime;column:user_updated_at" json:"user_updated_at"`
}

func (UserModel) TableName() string { return "users" }

type DepartmentModel struct {
	DepartmentID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:department_id" json:"department_id"`
	DepartmentName string    `gorm:"type:varchar(160);not null;column:department_name" json:"department_name"`
	DepartmentCode string    `gorm:"type:varchar(32);column:department_code" json:"department_code,omitempty"`

	DepartmentCreatedAt time.Time `gorm:"type:timestamptz;not null;autoCreateTime;column:department_created_at" json:"department_created_at"`
}

func (DepartmentModel) TableName() string { return "departments" }

// StudentModel: one row per user enrolled as a student (1:1 with users).
type StudentModel struct {
	StudentID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:student_id" json:"student_id"`
	StudentUserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_students_user;column:student_user_id" json:"student_user_id"`
	StudentDepartmentID  uuid.UUID `gorm:"type:uuid;not null;index;column:student_department_id" json:"student_department_id"`
	StudentFacultyNumber string    `gorm:"type:varchar(32);column:student_faculty_number" json:"student_faculty_number,omitempty"`

	StudentCreatedAt time.Time `gorm:"type:timestamptz;not null;autoCreateTime;column:student_created_at" json:"student_created_at"`
}

func (StudentModel) TableName() string { return "students" }

type TeacherModel struct {
	TeacherID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:teacher_id" json:"teacher_id"`
	TeacherUserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_teachers_user;column:teacher_user_id" json:"teacher_user_id"`
	TeacherDepartmentID uuid.UUID `gorm:"type:uuid;not null;index;column:teacher_department_id" json:"teacher_department_id"`
	TeacherTitle        string    `gorm:"type:varchar(60);column:teacher_title" json:"teacher_title,omitempty"`

	TeacherCreatedAt time.Time `gorm:"type:timestamptz;not null;autoCreateTime;column:teacher_created_at" json:"teacher_created_at"`
}

func (TeacherModel) TableName() string { return "teachers" }

// DepartmentHeadAppointmentModel is a time-ranged appointment; EndsAt nil
// means the appointment is still open.
type DepartmentHeadAppointmentModel struct {
	AppointmentID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:appointment_id" json:"appointment_id"`
	AppointmentDepartmentID uuid.UUID  `gorm:"type:uuid;not null;index:idx_head_appointments_dept_range,priority:1;column:appointment_department_id" json:"appointment_department_id"`
	AppointmentTeacherID    uuid.UUID  `gorm:"type:uuid;not null;column:appointment_teacher_id" json:"appointment_teacher_id"`
	AppointmentStartsAt     time.Time  `gorm:"type:timestamptz;not null;index:idx_head_appointments_dept_range,priority:2;column:appointment_starts_at" json:"appointment_starts_at"`
	AppointmentEndsAt       *time.Time `gorm:"type:timestamptz;column:appointment_ends_at" json:"appointment_ends_at,omitempty"`
}

func (DepartmentHeadAppointmentModel) TableName() string { return "department_head_appointments" }

// Covers reports whether the appointment is active at asOf.
func (a DepartmentHeadAppointmentModel) Covers(asOf time.Time) bool {
	if asOf.Before(a.AppointmentStartsAt) {
		return false
	}
	return a.AppointmentEndsAt == nil || asOf.Before(*a.AppointmentEndsAt)
}
