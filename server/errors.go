package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"

	store "github.com/tsubame-dev/store-api"
)

// detailBody is the error envelope every failure uses.
type detailBody struct {
	Detail string `json:"detail"`
}

// newErrorHandler maps rich errors to client-visible responses. Internal
// detail never leaves the process; auth failures keep their fixed
// message so nothing about the account leaks.
func newErrorHandler(logger store.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if fiberErr, ok := err.(*fiber.Error); ok {
			return c.Status(fiberErr.Code).JSON(detailBody{Detail: fiberErr.Message})
		}

		var richErr *errors.Error
		if !errors.As(err, &richErr) {
			logger.Error("unhandled error on %s: %v", c.Path(), err)
			return c.Status(fiber.StatusInternalServerError).JSON(detailBody{Detail: "Internal server error"})
		}

		status := statusForCategory(richErr.Category)
		if status == fiber.StatusInternalServerError {
			logger.Error("internal error on %s: %v", c.Path(), richErr)
			return c.Status(status).JSON(detailBody{Detail: "Internal server error"})
		}

		return c.Status(status).JSON(detailBody{Detail: richErr.Message})
	}
}

func statusForCategory(category errors.Category) int {
	switch category {
	case errors.CategoryNotFound:
		return fiber.StatusNotFound
	case errors.CategoryValidation:
		return fiber.StatusUnprocessableEntity
	case errors.CategoryBadInput:
		return fiber.StatusBadRequest
	case errors.CategoryConflict:
		return fiber.StatusConflict
	case errors.CategoryAuth:
		return fiber.StatusUnauthorized
	case errors.CategoryAuthz:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}
