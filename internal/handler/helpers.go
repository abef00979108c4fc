package handler

import (
	"errors"

	"go-variant-inventory/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps domain error kinds to transport statuses. The services
// only distinguish kinds; this is the single place transport codes are
// decided.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperr.ErrConstraintConflict):
		return fiber.StatusConflict
	case errors.Is(err, apperr.ErrInvalidQuantity),
		errors.Is(err, apperr.ErrInsufficientStock),
		errors.Is(err, apperr.ErrOptionNotFound),
		errors.Is(err, apperr.ErrMalformedInput):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		// Do not leak internal detail for unclassified errors.
		return c.Status(status).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// getUserID reads the acting user from the JWT context set by RequireAuth.
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system" // Non-interactive caller
	}
	return userID.(string)
}
