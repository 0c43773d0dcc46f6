package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceRoute "learnx_backend/internals/features/attendance/attendance/route"
)

func AttendanceRoutes(app *fiber.App, db *gorm.DB, authMw fiber.Handler) {
	attendanceRoute.AttendanceRoutes(app.Group("/api/attendance", authMw), db)
}
