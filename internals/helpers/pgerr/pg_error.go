// file: internals/helpers/pgerr/pg_error.go
package pgerr

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeCheckViolation      = "23514"
)

// Code returns the SQLSTATE of a postgres error coming from either pgx
// (gorm's postgres driver) or lib/pq, or "" if err is not one.
func Code(err error) string {
	if err == nil {
		return ""
	}
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// IsUniqueViolation also falls back to the message text for drivers that
// wrap the error without keeping the typed value.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if Code(err) == CodeUniqueViolation {
		return true
	}
	le := strings.ToLower(err.Error())
	return strings.Contains(le, "duplicate key") || strings.Contains(le, "unique constraint")
}

func IsForeignKeyViolation(err error) bool {
	return Code(err) == CodeForeignKeyViolation
}

// Constraint returns the violated constraint name when the driver exposes it.
func Constraint(err error) string {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.ConstraintName
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}
