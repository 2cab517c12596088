package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/lawbridge/lawbridge-api/booking"
)

// ErrorResponse is a struct for error response
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// StatusForError maps the core error taxonomy onto HTTP statuses.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, booking.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, booking.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, booking.ErrConflict), errors.Is(err, booking.ErrInvalidTransition):
		return fiber.StatusConflict
	case errors.Is(err, booking.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, booking.ErrRetryable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondError writes the standard error body for a core error.
func RespondError(c *fiber.Ctx, message string, err error) error {
	return c.Status(StatusForError(err)).JSON(ErrorResponse{
		Message: message,
		Error:   err.Error(),
	})
}
