package repository

import (
	"errors"

	"thesisflow_backend/internals/helpers/apperr"
)

// NotFoundAs turns ErrNotFound into an apperr NOT_FOUND for entity/id and
// passes every other error through.
func NotFoundAs(err error, entity string, id any) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound(entity, id)
	}
	return err
}

// DuplicateAs turns ErrDuplicate into an apperr CONFLICT.
func DuplicateAs(err error, entity string, id any, msg string) error {
	if errors.Is(err, ErrDuplicate) {
		return apperr.Conflict(entity, id, msg)
	}
	return err
}
