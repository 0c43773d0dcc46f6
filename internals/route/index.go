// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	helperAuth "learnx_backend/internals/helpers/auth"
	helperOSS "learnx_backend/internals/helpers/oss"
	"learnx_backend/internals/middlewares/auth"
	routeDetails "learnx_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB, verifier helperAuth.Verifier, blob helperOSS.BlobService) {
	startTime = time.Now()

	BaseRoutes(app, db)

	authMw := auth.AuthMiddleware(db, verifier)

	// ===================== MOUNT ROUTES =====================
	log.Println("[INFO] Mounting User routes...")
	routeDetails.UserRoutes(app, db, authMw)

	log.Println("[INFO] Mounting Course routes...")
	routeDetails.CourseRoutes(app, db, blob, authMw)

	log.Println("[INFO] Mounting Assignment routes...")
	routeDetails.AssignmentRoutes(app, db, blob, authMw)

	log.Println("[INFO] Mounting Attendance routes...")
	routeDetails.AttendanceRoutes(app, db, authMw)

	log.Println("[INFO] Mounting Announcement routes...")
	routeDetails.AnnouncementRoutes(app, db, authMw)
}
