package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/workchoque/workchoque-api/internal/services"
)

// respondError maps service errors to HTTP status codes.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrDuplicateResponse):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInactive):
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
