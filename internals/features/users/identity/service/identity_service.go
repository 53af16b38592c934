// file: internals/features/users/identity/service/identity_service.go
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	identityModel "thesisflow_backend/internals/features/users/identity/model"
	"thesisflow_backend/internals/helpers/apperr"
	"thesisflow_backend/internals/repository"
)

// Resolver answers "who is this reference" questions for the workflow.
type Resolver struct {
	Store repository.Store
}

func NewResolver(store repository.Store) *Resolver {
	return &Resolver{Store: store}
}

func (r *Resolver) ResolveUser(ctx context.Context, id uuid.UUID) (*identityModel.UserModel, error) {
	var out *identityModel.UserModel
	err := r.Store.View(ctx, func(tx repository.Tx) error {
		m, err := tx.FindUser(ctx, id)
		if err != nil {
			return repository.NotFoundAs(err, "user", id)
		}
		out = m
		return nil
	})
	return out, err
}

func (r *Resolver) ResolveStudent(ctx context.Context, id uuid.UUID) (*identityModel.StudentModel, error) {
	var out *identityModel.StudentModel
	err := r.Store.View(ctx, func(tx repository.Tx) error {
		m, err := tx.FindStudent(ctx, id)
		if err != nil {
			return repository.NotFoundAs(err, "student", id)
		}
		out = m
		return nil
	})
	return out, err
}

func (r *Resolver) ResolveTeacher(ctx context.Context, id uuid.UUID) (*identityModel.TeacherModel, error) {
	var out *identityModel.TeacherModel
	err := r.Store.View(ctx, func(tx repository.Tx) error {
		m, err := tx.FindTeacher(ctx, id)
		if err != nil {
			return repository.NotFoundAs(err, "teacher", id)
		}
		out = m
		return nil
	})
	return out, err
}

func (r *Resolver) ResolveDepartment(ctx context.Context, id uuid.UUID) (*identityModel.DepartmentModel, error) {
	var out *identityModel.DepartmentModel
	err := r.Store.View(ctx, func(tx repository.Tx) error {
		m, err := tx.FindDepartment(ctx, id)
		if err != nil {
			return repository.NotFoundAs(err, "department", id)
		}
		out = m
		return nil
	})
	return out, err
}

// ResolveActor classifies the user once. A user that is neither a student
// nor a teacher has no business in the workflow and is FORBIDDEN.
func (r *Resolver) ResolveActor(ctx context.Context, userID uuid.UUID) (identityModel.Actor, error) {
	actor := identityModel.Actor{UserID: userID}
	err := r.Store.View(ctx, func(tx repository.Tx) error {
		if _, err := tx.FindUser(ctx, userID); err != nil {
			return repository.NotFoundAs(err, "user", userID)
		}

		st, err := tx.FindStudentByUser(ctx, userID)
		switch {
		case err == nil:
			actor.StudentID = &st.StudentID
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}

		te, err := tx.FindTeacherByUser(ctx, userID)
		switch {
		case err == nil:
			actor.TeacherID = &te.TeacherID
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}
		return nil
	})
	if err != nil {
		return identityModel.Actor{}, err
	}

	switch {
	case actor.IsStudent() && actor.IsTeacher():
		actor.Kind = identityModel.ActorBoth
	case actor.IsStudent():
		actor.Kind = identityModel.ActorStudent
	case actor.IsTeacher():
		actor.Kind = identityModel.ActorTeacher
	default:
		return identityModel.Actor{}, apperr.Forbidden("user", userID, "user is neither a student nor a teacher")
	}
	return actor, nil
}

// DepartmentHead returns the teacher heading the department at asOf.
func (r *Resolver) DepartmentHead(ctx context.Context, departmentID uuid.UUID, asOf time.Time) (*identityModel.TeacherModel, error) {
	var out *identityModel.TeacherModel
	err := r.Store.View(ctx, func(tx repository.Tx) error {
		if _, err := tx.FindDepartment(ctx, departmentID); err != nil {
			return repository.NotFoundAs(err, "department", departmentID)
		}
		appt, err := tx.FindDepartmentHead(ctx, departmentID, asOf)
		if err != nil {
			return repository.NotFoundAs(err, "department head", departmentID)
		}
		t, err := tx.FindTeacher(ctx, appt.AppointmentTeacherID)
		if err != nil {
			return repository.NotFoundAs(err, "teacher", appt.AppointmentTeacherID)
		}
		out = t
		return nil
	})
	return out, err
}

// IsDepartmentHead is DepartmentHead reduced to a yes/no for one teacher.
func (r *Resolver) IsDepartmentHead(ctx context.Context, teacherID, departmentID uuid.UUID, asOf time.Time) (bool, error) {
	head, err := r.DepartmentHead(ctx, departmentID, asOf)
	if apperr.Is(err, apperr.KindNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return head.TeacherID == teacherID, nil
}
