package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"notebooklm-be/internal/repository/contract"
	"notebooklm-be/internal/service"
	"notebooklm-be/pkg/extract"
)

// ErrorHandlerMiddleware converts domain errors into the response envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code, message := mapError(err)
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}

func mapError(err error) (int, string) {
	var validationErr *ValidationError
	var unsupportedErr *extract.UnsupportedTypeError
	var fiberErr *fiber.Error

	switch {
	case errors.Is(err, contract.ErrNotebookNotFound),
		errors.Is(err, contract.ErrSourceNotFound),
		errors.Is(err, contract.ErrStudioItemNotFound):
		return fiber.StatusNotFound, err.Error()

	case errors.Is(err, service.ErrNoReadySources):
		return fiber.StatusUnprocessableEntity, err.Error()

	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest, validationErr.Error()

	case errors.As(err, &unsupportedErr):
		return fiber.StatusBadRequest, unsupportedErr.Error()

	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message

	default:
		return fiber.StatusInternalServerError, err.Error()
	}
}
