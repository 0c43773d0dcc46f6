package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Nama locals diisi oleh AuthMiddleware
const (
	LocUID      = "uid"
	LocEmail    = "email"
	LocUserName = "user_name"
	LocUserRole = "userRole"
)

// GetUIDFromToken mengambil uid identity provider dari c.Locals("uid").
func GetUIDFromToken(c *fiber.Ctx) (string, error) {
	v, ok := c.Locals(LocUID).(string)
	if !ok || strings.TrimSpace(v) == "" {
		return "", ErrUnauthenticated.WithMessage("User is not logged in")
	}
	return strings.TrimSpace(v), nil
}

// GetRoleFromToken mengembalikan role tersimpan ("" jika user belum terdaftar).
func GetRoleFromToken(c *fiber.Ctx) string {
	v, _ := c.Locals(LocUserRole).(string)
	return v
}

func GetStringLocal(c *fiber.Ctx, key string) string {
	v, _ := c.Locals(key).(string)
	return strings.TrimSpace(v)
}
