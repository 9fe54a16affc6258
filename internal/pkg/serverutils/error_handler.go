package serverutils

import (
	"physio-notes-be/internal/pkg/apperror"
	"physio-notes-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// WriteError renders err as the error envelope.
func WriteError(ctx *fiber.Ctx, err error) error {
	appErr := apperror.From(err)
	res := ErrorResponse(appErr.Status, appErr.Message)
	res.Kind = appErr.Code
	res.Details = appErr.Details
	return ctx.Status(appErr.Status).JSON(res)
}

// ErrorHandlerMiddleware converts errors returned by later handlers into the
// error envelope. Server-side failures are logged once here.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		appErr := apperror.From(err)
		if log != nil && appErr.Status >= fiber.StatusInternalServerError {
			log.Error("HTTP", appErr.Message, map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"kind":   appErr.Code,
				"error":  err.Error(),
			})
		}
		return WriteError(ctx, appErr)
	}
}

// ErrorHandler is the fiber.Config fallback for errors raised outside the
// middleware chain (body limit, routing).
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	return WriteError(ctx, err)
}
