package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// Sentinel errors services return; the middleware maps them to status
// codes so controllers can just bubble errors up.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return ctx.Status(fe.Code).JSON(FailResponse(fe.Message))
		}

		switch {
		case errors.Is(err, ErrNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(FailResponse(err.Error()))
		case errors.Is(err, ErrUnauthorized):
			return ctx.Status(fiber.StatusUnauthorized).JSON(FailResponse(err.Error()))
		case errors.Is(err, ErrForbidden):
			return ctx.Status(fiber.StatusForbidden).JSON(FailResponse(err.Error()))
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(FailResponse(err.Error()))
		}
	}
}
