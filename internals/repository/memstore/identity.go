package memstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	identityModel "thesisflow_backend/internals/features/users/identity/model"
	"thesisflow_backend/internals/repository"
)

func (t *tx) FindUser(_ context.Context, id uuid.UUID) (*identityModel.UserModel, error) {
	m, ok := t.st.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (t *tx) FindStudent(_ context.Context, id uuid.UUID) (*identityModel.StudentModel, error) {
	m, ok := t.st.students[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (t *tx) FindStudentByUser(_ context.Context, userID uuid.UUID) (*identityModel.StudentModel, error) {
	for _, m := range t.st.students {
		if m.StudentUserID == userID {
			out := m
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (t *tx) FindTeacher(_ context.Context, id uuid.UUID) (*identityModel.TeacherModel, error) {
	m, ok := t.st.teachers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (t *tx) FindTeacherByUser(_ context.Context, userID uuid.UUID) (*identityModel.TeacherModel, error) {
	for _, m := range t.st.teachers {
		if m.TeacherUserID == userID {
			out := m
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (t *tx) FindDepartment(_ context.Context, id uuid.UUID) (*identityModel.DepartmentModel, error) {
	m, ok := t.st.departments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

// FindDepartmentHead picks the covering appointment with the latest start.
func (t *tx) FindDepartmentHead(_ context.Context, departmentID uuid.UUID, asOf time.Time) (*identityModel.DepartmentHeadAppointmentModel, error) {
	var best *identityModel.DepartmentHeadAppointmentModel
	for _, m := range t.st.appointments {
		if m.AppointmentDepartmentID != departmentID || !m.Covers(asOf) {
			continue
		}
		if best == nil || m.AppointmentStartsAt.After(best.AppointmentStartsAt) {
			cp := m
			best = &cp
		}
	}
	if best == nil {
		return nil, repository.ErrNotFound
	}
	return best, nil
}

func (t *tx) CreateUser(_ context.Context, m *identityModel.UserModel) error {
	if err := t.writable(); err != nil {
		return err
	}
	newIDIfNil(&m.UserID)
	for _, u := range t.st.users {
		if u.UserEmail == m.UserEmail {
			return repository.ErrDuplicate
		}
	}
	now := t.now()
	stampIfZero(&m.UserCreatedAt, now)
	m.UserUpdatedAt = now
	t.st.users[m.UserID] = *m
	return nil
}

func (t *tx) CreateStudent(_ context.Context, m *identityModel.StudentModel) error {
	if err := t.writable(); err != nil {
		return err
	}
	newIDIfNil(&m.StudentID)
	for _, s := range t.st.students {
		if s.StudentUserID == m.StudentUserID {
			return repository.ErrDuplicate
		}
	}
	stampIfZero(&m.StudentCreatedAt, t.now())
	t.st.students[m.StudentID] = *m
	return nil
}

func (t *tx) CreateTeacher(_ context.Context, m *identityModel.TeacherModel) error {
	if err := t.writable(); err != nil {
		return err
	}
	newIDIfNil(&m.TeacherID)
	for _, s := range t.st.teachers {
		if s.TeacherUserID == m.TeacherUserID {
			return repository.ErrDuplicate
		}
	}
	stampIfZero(&m.TeacherCreatedAt, t.now())
	t.st.teachers[m.TeacherID] = *m
	return nil
}

func (t *tx) CreateDepartment(_ context.Context, m *identityModel.DepartmentModel) error {
	if err := t.writable(); err != nil {
		return err
	}
	newIDIfNil(&m.DepartmentID)
	stampIfZero(&m.DepartmentCreatedAt, t.now())
	t.st.departments[m.DepartmentID] = *m
	return nil
}

func (t *tx) CreateDepartmentHeadAppointment(_ context.Context, m *identityModel.DepartmentHeadAppointmentModel) error {
	if err := t.writable(); err != nil {
		return err
	}
	newIDIfNil(&m.AppointmentID)
	t.st.appointments[m.AppointmentID] = *m
	return nil
}
