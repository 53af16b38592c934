// file: internals/helpers/apperr/apperr.go
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

type Kind string

const (
	KindNotFound          Kind = "NOT_FOUND"
	KindConflict          Kind = "CONFLICT"
	KindInvalidTransition Kind = "INVALID_TRANSITION"
	KindInvalidArgument   Kind = "INVALID_ARGUMENT"
	KindForbidden         Kind = "FORBIDDEN"
)

// Error is the single error shape returned by the workflow services.
// Entity/ID identify what the operation was about; From/To are only
// filled for INVALID_TRANSITION.
type Error struct {
	Kind    Kind
	Entity  string
	ID      string
	From    string
	To      string
	Message string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Entity != "" {
		b.WriteString(": ")
		b.WriteString(e.Entity)
		if e.ID != "" {
			b.WriteString(" ")
			b.WriteString(e.ID)
		}
	}
	if e.Kind == KindInvalidTransition {
		fmt.Fprintf(&b, " (%s -> %s)", orUnset(e.From), orUnset(e.To))
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

func orUnset(s string) string {
	if s == "" {
		return "<unset>"
	}
	return s
}

func idString(id any) string {
	if id == nil {
		return ""
	}
	return fmt.Sprint(id)
}

/* =========================
   Constructors
   ========================= */

func NotFound(entity string, id any) *Error {
	return &Error{Kind: KindNotFound, Entity: entity, ID: idString(id), Message: "not found"}
}

func Conflict(entity string, id any, msg string) *Error {
	return &Error{Kind: KindConflict, Entity: entity, ID: idString(id), Message: msg}
}

func InvalidTransition(entity string, id any, from, to string) *Error {
	return &Error{
		Kind:    KindInvalidTransition,
		Entity:  entity,
		ID:      idString(id),
		From:    from,
		To:      to,
		Message: "status change not permitted",
	}
}

func InvalidArgument(field, msg string) *Error {
	return &Error{Kind: KindInvalidArgument, Entity: field, Message: msg}
}

func Forbidden(entity string, id any, msg string) *Error {
	return &Error{Kind: KindForbidden, Entity: entity, ID: idString(id), Message: msg}
}

/* =========================
   Inspection
   ========================= */

// KindOf returns the kind of the first *Error in err's chain, or "" when
// err is not an application error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ""
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
