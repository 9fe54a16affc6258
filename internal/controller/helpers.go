package controller

import (
	"physio-notes-be/internal/pkg/apperror"
	"physio-notes-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func parseBody(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return apperror.NewInvalidRequest("Invalid request body: " + err.Error())
	}
	return serverutils.ValidateRequest(req)
}

func queryID(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw := ctx.Query("id")
	if raw == "" {
		return uuid.Nil, apperror.NewInvalidRequest("Query parameter 'id' is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.NewInvalidRequest("Query parameter 'id' is not a valid UUID")
	}
	return id, nil
}
