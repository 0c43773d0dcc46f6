package auth

import (
	"github.com/gofiber/fiber/v2"

	helper "learnx_backend/internals/helpers"
)

// RoleMiddlewareWithCustomError validasi role + custom error message.
// User yang belum provisioning (tanpa role) dianggap tidak berhak.
func RoleMiddlewareWithCustomError(allowedRoles []string, customForbiddenMessage string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := helper.GetRoleFromToken(c)
		for _, allowed := range allowedRoles {
			if role != "" && role == allowed {
				return c.Next()
			}
		}

		if customForbiddenMessage == "" {
			customForbiddenMessage = "Forbidden: you are not authorized to access this resource"
		}
		return helper.RespondError(c, helper.ErrForbidden.WithMessage("%s", customForbiddenMessage))
	}
}

// OnlyRoles: shortcut, mis. OnlyRoles(msg, constants.TeacherOnly...)
func OnlyRoles(customMessage string, roles ...string) fiber.Handler {
	return RoleMiddlewareWithCustomError(roles, customMessage)
}
