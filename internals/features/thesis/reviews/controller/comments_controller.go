package controller

import (
	"github.com/gofiber/fiber/v2"

	"thesisflow_backend/internals/features/thesis/reviews/dto"
	helper "thesisflow_backend/internals/helpers"
	helperAuth "thesisflow_backend/internals/helpers/auth"
)

func (ctl *ReviewController) AddComment(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	reviewID, err := helperAuth.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	cm, err := ctl.Svc.AddComment(c.UserContext(), reviewID, userID, req.CommentText)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.JsonCreated(c, "comment added", cm)
}

func (ctl *ReviewController) ListComments(c *fiber.Ctx) error {
	reviewID, err := helperAuth.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	rows, err := ctl.Svc.ListComments(c.UserContext(), reviewID)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.JsonList(c, "ok", rows, nil)
}

func (ctl *ReviewController) EditComment(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	id, err := helperAuth.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	cm, err := ctl.Svc.EditComment(c.UserContext(), id, userID, req.CommentText)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.JsonUpdated(c, "comment updated", cm)
}

func (ctl *ReviewController) DeleteComment(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromAppError(c, err)
	}
	id, err := helperAuth.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromAppError(c, err)
	}
	if err := ctl.Svc.DeleteComment(c.UserContext(), id, userID); err != nil {
		return helper.FromAppError(c, err)
	}
	return helper.JsonDeleted(c, "comment deleted", fiber.Map{"comment_id": id})
}
