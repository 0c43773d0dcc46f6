package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userController "learnx_backend/internals/features/users/user/controller"
	userService "learnx_backend/internals/features/users/user/service"
)

// Panggil dengan: route.UserRoutes(app.Group("/api/users", auth), db, loginLimiter)
// Hasil endpoint:
//   POST /api/users/verify
//   GET  /api/users/me
//   PUT  /api/users/me
//   GET  /api/users/me/courses
//   POST /api/users/logout
func UserRoutes(r fiber.Router, db *gorm.DB, loginLimiter fiber.Handler) {
	ctrl := userController.NewUserController(userService.NewUserService(db))

	r.Post("/verify", loginLimiter, ctrl.Verify)
	r.Get("/me", ctrl.Me)
	r.Put("/me", ctrl.UpdateMe)
	r.Get("/me/courses", ctrl.MyCourses)
	r.Post("/logout", ctrl.Logout)
}
