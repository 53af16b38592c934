package helper

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"thesisflow_backend/internals/helpers/apperr"
)

// ValidationError renders validator.ValidationErrors as 422 with per-field
// tags; anything else is a plain 400.
func ValidationError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return JsonError(c, fiber.StatusBadRequest, "Invalid input")
	}
	fields := make(map[string][]string, len(ve))
	for _, fe := range ve {
		key := strings.ToLower(fe.Field())
		fields[key] = append(fields[key], fe.Tag())
	}
	return JsonValidationError(c, fields)
}

// FromAppError maps a service error to the HTTP error shape.
//
//	NOT_FOUND          -> 404
//	CONFLICT           -> 409
//	INVALID_TRANSITION -> 409
//	INVALID_ARGUMENT   -> 400
//	FORBIDDEN          -> 403
//
// *fiber.Error passes through; everything else is logged and becomes 500.
func FromAppError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}

	ae, ok := apperr.As(err)
	if !ok {
		log.Printf("[HTTP] %s %s: %v", c.Method(), c.Path(), err)
		return JsonError(c, fiber.StatusInternalServerError, "internal error")
	}

	status := fiber.StatusInternalServerError
	switch ae.Kind {
	case apperr.KindNotFound:
		status = fiber.StatusNotFound
	case apperr.KindConflict, apperr.KindInvalidTransition:
		status = fiber.StatusConflict
	case apperr.KindInvalidArgument:
		status = fiber.StatusBadRequest
	case apperr.KindForbidden:
		status = fiber.StatusForbidden
	}
	return JsonErrorCode(c, status, string(ae.Kind), ae.Error())
}
