package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ParseUUIDParam membaca path param sebagai UUID; gagal → 400 ValidationFailed.
func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := uuid.Parse(raw)
	if err != nil {
		e := Validation("Invalid %s", name)
		e.Fields = map[string]string{name: "must be a valid UUID"}
		return uuid.Nil, e
	}
	return id, nil
}

// ParseBody: BodyParser + pesan error seragam.
func ParseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return Validation("Invalid request body")
	}
	return nil
}
