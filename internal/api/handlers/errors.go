package handlers

import (
	"errors"
	"time"

	"hotelchain/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

const dateLayout = "2006-01-02"

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Invalid request body",
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}

// validationFailed writes the field errors carried by err, if any.
func validationFailed(c *fiber.Ctx, err error) error {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": verr.Fields,
		})
	}
	return badRequest(c, err.Error())
}

// validate runs struct tag validation on a decoded request body.
func validate(req interface{}) error {
	return validation.Struct(req).OrNil()
}

// parseDate accepts RFC 3339 timestamps and plain dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(dateLayout, s)
}
