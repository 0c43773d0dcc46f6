package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"learnx_backend/internals/constants"
	courseController "learnx_backend/internals/features/courses/course/controller"
	courseService "learnx_backend/internals/features/courses/course/service"
	helperOSS "learnx_backend/internals/helpers/oss"
	"learnx_backend/internals/middlewares/auth"
)

// Panggil dengan: route.CourseRoutes(app.Group("/api/courses"), db, blob, authMw)
// Katalog (GET /api/courses) publik, sisanya wajib bearer.
func CourseRoutes(r fiber.Router, db *gorm.DB, blob helperOSS.BlobService, authMw fiber.Handler) {
	ctrl := courseController.NewCourseController(courseService.NewCourseService(db, blob))

	teacherOnly := auth.OnlyRoles(constants.RoleErrorTeacher("this action"), constants.TeacherOnly...)
	studentOnly := auth.OnlyRoles(constants.RoleErrorStudent("this action"), constants.StudentOnly...)

	r.Get("/", ctrl.List)

	r.Get("/mine", authMw, teacherOnly, ctrl.Mine)
	r.Get("/enrolled", authMw, studentOnly, ctrl.Enrolled)
	r.Get("/:id", authMw, ctrl.GetByID)

	r.Post("/", authMw, teacherOnly, ctrl.Create)
	r.Put("/:id", authMw, ctrl.Update)
	r.Delete("/:id", authMw, ctrl.Delete)

	// role dicek service setelah course dimuat (404 lebih dulu dari 403)
	r.Post("/:id/enroll", authMw, ctrl.Enroll)
	r.Delete("/:id/enroll", authMw, ctrl.Leave)

	r.Post("/:id/material", authMw, ctrl.AddMaterial)
	r.Put("/:id/material/:materialId", authMw, ctrl.UpdateMaterial)
	r.Delete("/:id/material/:materialId", authMw, ctrl.DeleteMaterial)
}
