package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	attendanceController "learnx_backend/internals/features/attendance/attendance/controller"
	attendanceService "learnx_backend/internals/features/attendance/attendance/service"
)

// Panggil dengan: route.AttendanceRoutes(app.Group("/api/attendance", authMw), db)
func AttendanceRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := attendanceController.NewAttendanceController(attendanceService.NewAttendanceService(db))

	// Semua aksi creator-only dicek service setelah course dimuat,
	// jadi course yang tidak ada tetap 404 untuk role apa pun.
	r.Post("/mark", ctrl.Mark)
	r.Post("/mark-bulk", ctrl.MarkBulk)
	r.Post("/mark-range", ctrl.MarkRange)

	r.Get("/course/:id/report", ctrl.Report)
	r.Get("/course/:id/date/:date", ctrl.DailySheet)
	r.Get("/course/:id/student/:studentId", ctrl.StudentRecords)

	r.Delete("/:id", ctrl.Delete)
}
