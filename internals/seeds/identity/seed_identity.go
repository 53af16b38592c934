// file: internals/seeds/identity/seed_identity.go
package identity

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	identityModel "thesisflow_backend/internals/features/users/identity/model"
	"thesisflow_backend/internals/repository"
)

type DepartmentSeed struct {
	ID   uuid.UUID `json:"id" yaml:"id"`
	Name string    `json:"name" yaml:"name"`
	Code string    `json:"code" yaml:"code"`
}

type PersonSeed struct {
	UserID       uuid.UUID `json:"user_id" yaml:"user_id"`
	ID           uuid.UUID `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Email        string    `json:"email" yaml:"email"`
	DepartmentID uuid.UUID `json:"department_id" yaml:"department_id"`
	// student faculty number or teacher title
	Extra string `json:"extra" yaml:"extra"`
}

type HeadSeed struct {
	DepartmentID uuid.UUID  `json:"department_id" yaml:"department_id"`
	TeacherID    uuid.UUID  `json:"teacher_id" yaml:"teacher_id"`
	StartsAt     time.Time  `json:"starts_at" yaml:"starts_at"`
	EndsAt       *time.Time `json:"ends_at,omitempty" yaml:"ends_at,omitempty"`
}

type Dataset struct {
	Departments []DepartmentSeed `json:"departments" yaml:"departments"`
	Students    []PersonSeed     `json:"students" yaml:"students"`
	Teachers    []PersonSeed     `json:"teachers" yaml:"teachers"`
	Heads       []HeadSeed       `json:"heads" yaml:"heads"`
}

// LoadDataset reads a .json or .yaml/.yml dataset file.
func LoadDataset(filePath string) (*Dataset, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filePath, err)
	}
	var ds Dataset
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &ds)
	default:
		err = sonic.Unmarshal(raw, &ds)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filePath, err)
	}
	return &ds, nil
}

// Apply inserts the dataset in one transaction. Rows whose primary key
// already exists are skipped so the seed can be re-run.
func Apply(ctx context.Context, store repository.Store, ds *Dataset) error {
	return store.WithinTx(ctx, func(tx repository.Tx) error {
		for _, d := range ds.Departments {
			if _, err := tx.FindDepartment(ctx, d.ID); err == nil {
				continue
			}
			if err := tx.CreateDepartment(ctx, &identityModel.DepartmentModel{
				DepartmentID:   d.ID,
				DepartmentName: d.Name,
				DepartmentCode: d.Code,
			}); err != nil {
				return fmt.Errorf("department %s: %w", d.Code, err)
			}
		}

		for _, s := range ds.Students {
			if _, err := tx.FindStudent(ctx, s.ID); err == nil {
				continue
			}
			if err := createUser(ctx, tx, s); err != nil {
				return err
			}
			if err := tx.CreateStudent(ctx, &identityModel.StudentModel{
				StudentID:            s.ID,
				StudentUserID:        s.UserID,
				StudentDepartmentID:  s.DepartmentID,
				StudentFacultyNumber: s.Extra,
			}); err != nil {
				return fmt.Errorf("student %s: %w", s.Email, err)
			}
		}

		for _, t := range ds.Teachers {
			if _, err := tx.FindTeacher(ctx, t.ID); err == nil {
				continue
			}
			if err := createUser(ctx, tx, t); err != nil {
				return err
			}
			if err := tx.CreateTeacher(ctx, &identityModel.TeacherModel{
				TeacherID:           t.ID,
				TeacherUserID:       t.UserID,
				TeacherDepartmentID: t.DepartmentID,
				TeacherTitle:        t.Extra,
			}); err != nil {
				return fmt.Errorf("teacher %s: %w", t.Email, err)
			}
		}

		for _, h := range ds.Heads {
			if cur, err := tx.FindDepartmentHead(ctx, h.DepartmentID, h.StartsAt); err == nil && cur.AppointmentTeacherID == h.TeacherID {
				continue
			}
			if err := tx.CreateDepartmentHeadAppointment(ctx, &identityModel.DepartmentHeadAppointmentModel{
				AppointmentDepartmentID: h.DepartmentID,
				AppointmentTeacherID:    h.TeacherID,
				AppointmentStartsAt:     h.StartsAt,
				AppointmentEndsAt:       h.EndsAt,
			}); err != nil {
				return fmt.Errorf("head of %s: %w", h.DepartmentID, err)
			}
		}

		log.Printf("[Seed] identity: %d departments, %d students, %d teachers, %d heads",
			len(ds.Departments), len(ds.Students), len(ds.Teachers), len(ds.Heads))
		return nil
	})
}

// createUser tolerates an existing user row: one user may be both a
// student and a teacher.
func createUser(ctx context.Context, tx repository.Tx, p PersonSeed) error {
	if _, err := tx.FindUser(ctx, p.UserID); err == nil {
		return nil
	}
	if err := tx.CreateUser(ctx, &identityModel.UserModel{
		UserID:    p.UserID,
		UserName:  p.Name,
		UserEmail: p.Email,
	}); err != nil {
		return fmt.Errorf("user %s: %w", p.Email, err)
	}
	return nil
}

// Demo is a small deterministic dataset: one department, two students,
// a supervisor, a department head and five examiners.
func Demo(headSince time.Time) *Dataset {
	dept := uuid.MustParse("0b8f9d3e-7a51-4c0e-9a8e-000000000001")
	person := func(n int, name, email, extra string) PersonSeed {
		return PersonSeed{
			UserID:       uuid.MustParse(fmt.Sprintf("1c1d7a52-0000-4000-8000-%012d", n)),
			ID:           uuid.MustParse(fmt.Sprintf("2e2f8b63-0000-4000-8000-%012d", n)),
			Name:         name,
			Email:        email,
			DepartmentID: dept,
			Extra:        extra,
		}
	}

	ds := &Dataset{
		Departments: []DepartmentSeed{{ID: dept, Name: "Computer Science", Code: "CS"}},
		Students: []PersonSeed{
			person(1, "Mira Petrova", "mira@uni.test", "FN-1001"),
			person(2, "Ivo Dimitrov", "ivo@uni.test", "FN-1002"),
		},
		Teachers: []PersonSeed{
			person(10, "Supervisor", "supervisor@uni.test", "Assoc. Prof."),
			person(11, "Head", "head@uni.test", "Prof."),
		},
	}
	for i := 0; i < 5; i++ {
		ds.Teachers = append(ds.Teachers, person(20+i, fmt.Sprintf("Examiner %d", i+1), fmt.Sprintf("examiner%d@uni.test", i+1), "Dr."))
	}
	ds.Heads = []HeadSeed{{DepartmentID: dept, TeacherID: ds.Teachers[1].ID, StartsAt: headSince}}
	return ds
}
