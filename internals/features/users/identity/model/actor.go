package model

import "github.com/google/uuid"

type ActorKind string

const (
	ActorStudent ActorKind = "STUDENT"
	ActorTeacher ActorKind = "TEACHER"
	ActorBoth    ActorKind = "BOTH"
)

// Actor is the authenticated user as seen by the workflow: a student, a
// teacher, or both. It is resolved once per request.
type Actor struct {
	UserID    uuid.UUID  `json:"user_id"`
	Kind      ActorKind  `json:"kind"`
	StudentID *uuid.UUID `json:"student_id,omitempty"`
	TeacherID *uuid.UUID `json:"teacher_id,omitempty"`
}

func (a Actor) IsStudent() bool { return a.StudentID != nil }

func (a Actor) IsTeacher() bool { return a.TeacherID != nil }

// IsTeacherID reports whether the actor is the given teacher.
func (a Actor) IsTeacherID(id uuid.UUID) bool {
	return a.TeacherID != nil && *a.TeacherID == id
}

func (a Actor) IsStudentID(id uuid.UUID) bool {
	return a.StudentID != nil && *a.StudentID == id
}
