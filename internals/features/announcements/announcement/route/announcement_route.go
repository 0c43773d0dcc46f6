package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	announcementController "learnx_backend/internals/features/announcements/announcement/controller"
	announcementService "learnx_backend/internals/features/announcements/announcement/service"
)

// Panggil dengan: route.AnnouncementRoutes(app.Group("/api/announcements"), db, authMw)
// List & detail publik; enrolled dan mutasi wajib bearer.
func AnnouncementRoutes(r fiber.Router, db *gorm.DB, authMw fiber.Handler) {
	ctrl := announcementController.NewAnnouncementController(announcementService.NewAnnouncementService(db))

	r.Get("/", ctrl.List)
	r.Get("/enrolled", authMw, ctrl.Enrolled)
	r.Get("/:id", ctrl.GetByID)

	r.Post("/", authMw, ctrl.Create)
	r.Put("/:id", authMw, ctrl.Update)
	r.Delete("/:id", authMw, ctrl.Delete)
}
