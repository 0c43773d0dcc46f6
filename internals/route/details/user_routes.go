package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userRoute "learnx_backend/internals/features/users/user/route"
	rateLimiter "learnx_backend/internals/middlewares"
)

// /api/users/*: semua wajib bearer; /verify memakai limiter login.
func UserRoutes(app *fiber.App, db *gorm.DB, authMw fiber.Handler) {
	users := app.Group("/api/users", authMw)
	userRoute.UserRoutes(users, db, rateLimiter.LoginRateLimiter())
}
