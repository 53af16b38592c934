// file: internals/helpers/auth/actor_context.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	identityModel "thesisflow_backend/internals/features/users/identity/model"
)

// Locals keys hydrated by the JWT middleware.
const (
	LocUserID    = "user_id"    // string
	LocActor     = "actor"      // identityModel.Actor
	LocJWTClaims = "jwt_claims" // jwt.MapClaims
	LocRequestID = "request_id" // string
)

// ActorFromCtx returns the actor resolved by the JWT middleware.
func ActorFromCtx(c *fiber.Ctx) (identityModel.Actor, error) {
	switch v := c.Locals(LocActor).(type) {
	case identityModel.Actor:
		return v, nil
	case *identityModel.Actor:
		if v != nil {
			return *v, nil
		}
	}
	return identityModel.Actor{}, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
}

func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals(LocUserID).(string)
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return id, nil
}

// RequireTeacher returns the actor's teacher id or 403.
func RequireTeacher(c *fiber.Ctx) (identityModel.Actor, uuid.UUID, error) {
	a, err := ActorFromCtx(c)
	if err != nil {
		return a, uuid.Nil, err
	}
	if !a.IsTeacher() {
		return a, uuid.Nil, fiber.NewError(fiber.StatusForbidden, "teacher role required")
	}
	return a, *a.TeacherID, nil
}

func RequireStudent(c *fiber.Ctx) (identityModel.Actor, uuid.UUID, error) {
	a, err := ActorFromCtx(c)
	if err != nil {
		return a, uuid.Nil, err
	}
	if !a.IsStudent() {
		return a, uuid.Nil, fiber.NewError(fiber.StatusForbidden, "student role required")
	}
	return a, *a.StudentID, nil
}

// ParseIDParam reads a uuid path parameter; 400 when malformed.
func ParseIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, name+" is not a valid id")
	}
	return id, nil
}
