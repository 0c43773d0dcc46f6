package helper

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Raw bearer disimpan middleware di Locals supaya bisa dipakai ulang.
const (
	LocRawToken = "raw_token"
	LocTokenExp = "token_exp"
)

// GetRawAccessToken mengambil credential dari:
// 1) Locals("raw_token") yang diset middleware
// 2) Authorization header "Bearer <token>"
// 3) cookie "access_token"
func GetRawAccessToken(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocRawToken).(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	const p = "bearer "
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(auth) > len(p) && strings.EqualFold(auth[:len(p)], p) {
		return strings.TrimSpace(auth[len(p):])
	}
	return strings.TrimSpace(c.Cookies("access_token"))
}

// GetTokenExpiry: exp bearer aktif (zero kalau tidak ada).
func GetTokenExpiry(c *fiber.Ctx) time.Time {
	if v, ok := c.Locals(LocTokenExp).(time.Time); ok {
		return v
	}
	return time.Time{}
}
