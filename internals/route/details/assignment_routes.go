package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	assignmentRoute "learnx_backend/internals/features/assignments/assignment/route"
	helperOSS "learnx_backend/internals/helpers/oss"
)

func AssignmentRoutes(app *fiber.App, db *gorm.DB, blob helperOSS.BlobService, authMw fiber.Handler) {
	assignmentRoute.AssignmentRoutes(app.Group("/api/assignments", authMw), db, blob)
}
