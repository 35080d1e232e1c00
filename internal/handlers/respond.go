package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/healthycity/compliance/internal/model"
)

// respondErr maps service errors onto HTTP status codes. Unknown errors are
// hidden behind a generic 500 so store internals never leak to clients.
func respondErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, model.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, model.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
}
