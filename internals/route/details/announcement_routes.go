package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	announcementRoute "learnx_backend/internals/features/announcements/announcement/route"
)

// /api/announcements/*: list & detail publik.
func AnnouncementRoutes(app *fiber.App, db *gorm.DB, authMw fiber.Handler) {
	announcementRoute.AnnouncementRoutes(app.Group("/api/announcements"), db, authMw)
}
