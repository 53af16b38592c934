package pgerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestClassifiesDriverErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		unique     bool
		fk         bool
		constraint string
	}{
		{
			name:       "pgx unique",
			err:        fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "uq_theses_proposal"}),
			unique:     true,
			constraint: "uq_theses_proposal",
		},
		{
			name:       "pq unique",
			err:        &pq.Error{Code: "23505", Constraint: "committee_assignments_pkey"},
			unique:     true,
			constraint: "committee_assignments_pkey",
		},
		{
			name: "pgx fk",
			err:  &pgconn.PgError{Code: "23503"},
			fk:   true,
		},
		{
			name:   "message only",
			err:    errors.New(`ERROR: duplicate key value violates unique constraint "x"`),
			unique: true,
		},
		{
			name: "unrelated",
			err:  errors.New("connection reset"),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUniqueViolation(tc.err); got != tc.unique {
				t.Fatalf("IsUniqueViolation = %v, want %v", got, tc.unique)
			}
			if got := IsForeignKeyViolation(tc.err); got != tc.fk {
				t.Fatalf("IsForeignKeyViolation = %v, want %v", got, tc.fk)
			}
			if got := Constraint(tc.err); got != tc.constraint {
				t.Fatalf("Constraint = %q, want %q", got, tc.constraint)
			}
		})
	}

	if IsUniqueViolation(nil) || Code(nil) != "" {
		t.Fatalf("nil error must not classify")
	}
}
