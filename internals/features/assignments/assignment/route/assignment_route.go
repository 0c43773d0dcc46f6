package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"learnx_backend/internals/constants"
	assignmentController "learnx_backend/internals/features/assignments/assignment/controller"
	assignmentService "learnx_backend/internals/features/assignments/assignment/service"
	helperOSS "learnx_backend/internals/helpers/oss"
	"learnx_backend/internals/middlewares/auth"
)

// Panggil dengan: route.AssignmentRoutes(app.Group("/api/assignments", authMw), db, blob)
// Semua endpoint wajib bearer. Gate role hanya di endpoint tanpa dokumen;
// sisanya dicek service setelah assignment/course dimuat (404 dulu, baru 403).
func AssignmentRoutes(r fiber.Router, db *gorm.DB, blob helperOSS.BlobService) {
	ctrl := assignmentController.NewAssignmentController(assignmentService.NewAssignmentService(db, blob))

	teacherOnly := auth.OnlyRoles(constants.RoleErrorTeacher("manage assignments"), constants.TeacherOnly...)

	r.Post("/", teacherOnly, ctrl.Create)
	r.Get("/teacher", teacherOnly, ctrl.ListByTeacher)
	r.Get("/course/:courseId", ctrl.ListByCourse)
	r.Get("/:id", ctrl.GetByID)
	r.Get("/:id/submissions", ctrl.Submissions)
	r.Put("/:id", ctrl.Update)
	r.Delete("/:id", ctrl.Delete)

	r.Post("/:id/submit", ctrl.Submit)
	r.Post("/:id/grade/:studentId", ctrl.Grade)
	r.Put("/:id/grade/:studentId", ctrl.Grade)
}
