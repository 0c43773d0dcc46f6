package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	courseRoute "learnx_backend/internals/features/courses/course/route"
	helperOSS "learnx_backend/internals/helpers/oss"
)

// /api/courses/*: katalog publik, sisanya bearer per-route.
func CourseRoutes(app *fiber.App, db *gorm.DB, blob helperOSS.BlobService, authMw fiber.Handler) {
	courseRoute.CourseRoutes(app.Group("/api/courses"), db, blob, authMw)
}
