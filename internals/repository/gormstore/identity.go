package gormstore

import (
	"context"
	"time"

	"github.com/google/uuid"

	identityModel "thesisflow_backend/internals/features/users/identity/model"
)

func (t *tx) FindUser(ctx context.Context, id uuid.UUID) (*identityModel.UserModel, error) {
	var m identityModel.UserModel
	if err := t.q(ctx).Where("user_id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (t *tx) FindStudent(ctx context.Context, id uuid.UUID) (*identityModel.StudentModel, error) {
	var m identityModel.StudentModel
	if err := t.q(ctx).Where("student_id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (t *tx) FindStudentByUser(ctx context.Context, userID uuid.UUID) (*identityModel.StudentModel, error) {
	var m identityModel.StudentModel
	if err := t.q(ctx).Where("student_user_id = ?", userID).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (t *tx) FindTeacher(ctx context.Context, id uuid.UUID) (*identityModel.TeacherModel, error) {
	var m identityModel.TeacherModel
	if err := t.q(ctx).Where("teacher_id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (t *tx) FindTeacherByUser(ctx context.Context, userID uuid.UUID) (*identityModel.TeacherModel, error) {
	var m identityModel.TeacherModel
	if err := t.q(ctx).Where("teacher_user_id = ?", userID).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (t *tx) FindDepartment(ctx context.Context, id uuid.UUID) (*identityModel.DepartmentModel, error) {
	var m identityModel.DepartmentModel
	if err := t.q(ctx).Where("department_id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (t *tx) FindDepartmentHead(ctx context.Context, departmentID uuid.UUID, asOf time.Time) (*identityModel.DepartmentHeadAppointmentModel, error) {
	var m identityModel.DepartmentHeadAppointmentModel
	err := t.q(ctx).
		Where("appointment_department_id = ?", departmentID).
		Where("appointment_starts_at <= ?", asOf).
		Where("(appointment_ends_at IS NULL OR appointment_ends_at > ?)", asOf).
		Order("appointment_starts_at DESC").
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (t *tx) CreateUser(ctx context.Context, m *identityModel.UserModel) error {
	return translate(t.q(ctx).Create(m).Error)
}

func (t *tx) CreateStudent(ctx context.Context, m *identityModel.StudentModel) error {
	return translate(t.q(ctx).Create(m).Error)
}

func (t *tx) CreateTeacher(ctx context.Context, m *identityModel.TeacherModel) error {
	return translate(t.q(ctx).Create(m).Error)
}

func (t *tx) CreateDepartment(ctx context.Context, m *identityModel.DepartmentModel) error {
	return translate(t.q(ctx).Create(m).Error)
}

func (t *tx) CreateDepartmentHeadAppointment(ctx context.Context, m *identityModel.DepartmentHeadAppointmentModel) error {
	return translate(t.q(ctx).Create(m).Error)
}
