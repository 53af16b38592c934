package auth

import (
	"github.com/gofiber/fiber/v2"

	helper "thesisflow_backend/internals/helpers"
	helperAuth "thesisflow_backend/internals/helpers/auth"
)

// TeacherOnly guards the admin group. Must run after AuthJWT.
func TeacherOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := helperAuth.ActorFromCtx(c)
		if err != nil {
			return helper.FromAppError(c, err)
		}
		if !a.IsTeacher() {
			return helper.JsonError(c, fiber.StatusForbidden, "teacher role required")
		}
		return c.Next()
	}
}
