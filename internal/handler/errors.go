package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmednasr/ai-in-action/embed-api/internal/models"
)

// ErrorHandler renders every error as {"detail": "..."}. Errors that are not
// *fiber.Error (including recovered panics) become a bare 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	detail := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		detail = fe.Message
	}

	return c.Status(code).JSON(models.ErrorResponse{Detail: detail})
}
