package serverutils

import (
	"errors"

	"ai-companion-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors returned by handlers into the
// standard response body.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		code, message := StatusFor(err)
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}

// StatusFor maps an error to its HTTP status and client-facing message.
func StatusFor(err error) (int, string) {
	var fiberErr *fiber.Error
	var notFound *apperror.NotFoundError
	var conflict *apperror.ConflictError
	var validation *apperror.ValidationError
	var forbidden *apperror.ForbiddenError

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	case errors.As(err, &notFound):
		return fiber.StatusNotFound, notFound.Error()
	case errors.As(err, &conflict):
		return fiber.StatusConflict, "resource was modified concurrently, retry the request"
	case errors.As(err, &validation):
		return fiber.StatusBadRequest, validation.Error()
	case errors.As(err, &forbidden):
		return fiber.StatusForbidden, forbidden.Error()
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}
