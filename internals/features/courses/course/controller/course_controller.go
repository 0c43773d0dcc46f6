package controller

import (
	"github.com/gofiber/fiber/v2"

	dto "learnx_backend/internals/features/courses/course/dto"
	service "learnx_backend/internals/features/courses/course/service"
	helper "learnx_backend/internals/helpers"
	helperOSS "learnx_backend/internals/helpers/oss"
)

type CourseController struct {
	Svc *service.CourseService
}

func NewCourseController(svc *service.CourseService) *CourseController {
	return &CourseController{Svc: svc}
}

// =========================================================
// GET /api/courses  (katalog publik, course aktif)
// =========================================================
func (h *CourseController) List(c *fiber.Ctx) error {
	var q dto.CourseListQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid query parameters")
	}
	pg := helper.ResolvePaging(c, 20, 100)

	items, total, err := h.Svc.ListCatalog(c.UserContext(), q, pg)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonList(c, "Courses fetched", items,
		helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage, len(items)))
}

// GET /api/courses/mine
func (h *CourseController) Mine(c *fiber.Ctx) error {
	uid, err := helper.GetUIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	items, err := h.Svc.ListByCreator(c.UserContext(), uid)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Courses fetched", items)
}

// GET /api/courses/enrolled
func (h *CourseController) Enrolled(c *fiber.Ctx) error {
	uid, err := helper.GetUIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	items, err := h.Svc.ListEnrolled(c.UserContext(), uid)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Courses fetched", items)
}

// GET /api/courses/:id  (creator / enrolled)
func (h *CourseController) GetByID(c *fiber.Ctx) error {
	uid, err := helper.GetUIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	out, err := h.Svc.Detail(c.UserContext(), id, uid)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Course fetched", out)
}

// =========================================================
// POST /api/courses  (JSON atau multipart dengan file "thumbnail")
// =========================================================
func (h *CourseController) Create(c *fiber.Ctx) error {
	uid, err := helper.GetUIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}

	var req dto.CreateCourseRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.RespondError(c, err)
	}

	m, err := h.Svc.Create(c.UserContext(), uid, helper.GetRoleFromToken(c), req,
		helperOSS.GetFile(c, "thumbnail", "course_thumbnail"))
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonCreated(c, "Course created", dto.ToCourseResponse(m))
}

// PUT /api/courses/:id  (creator)
func (h *CourseController) Update(c *fiber.Ctx) error {
	uid, err := helper.GetUIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.RespondError(c, err)
	}

	var req dto.UpdateCourseRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.RespondError(c, err)
	}
	if helperOSS.IsMultipart(c) {
		// tags di form: "go,backend" atau field berulang
		if form, err := c.MultipartForm(); err == nil {
			if vals, ok := form.Value["course_tags"]; ok {
				tags := append([]string{}, vals...)
				req.CourseTags = &tags
			}
		}
	}

	m, err := h.Svc.Update(c.UserContext(), id, uid, req,
		helperOSS.GetFile(c, "thumbnail", "course_thumbnail"))
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonUpdated(c, "Course updated", dto.ToCourseResponse(m))
}

// DELETE /api/courses/:id  (creator, hard delete)
func (h *CourseController) Delete(c *fiber.Ctx) error {
	uid, err := helper.GetUIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	if err := h.Svc.Delete(c.UserContext(), id, uid); err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonDeleted(c, "Course deleted", fiber.Map{"course_id": id})
}

// =========================================================
// Enrollment
// =========================================================

// POST /api/courses/:id/enroll  (student, idempotent)
func (h *CourseController) Enroll(c *fiber.Ctx) error {
	uid, err := helper.GetUIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.RespondError(c, err)
	}

	course, created, err := h.Svc.Enroll(c.UserContext(), id, uid, helper.GetRoleFromToken(c))
	if err != nil {
		return helper.RespondError(c, err)
	}
	msg := "Enrolled successfully"
	if !created {
		msg = "Already enrolled"
	}
	return helper.JsonOK(c, msg, fiber.Map{
		"course_id":        course.CourseID,
		"already_enrolled": !created,
	})
}

// DELETE /api/courses/:id/enroll
func (h *CourseController) Leave(c *fiber.Ctx) error {
	uid, err := helper.GetUIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	if err := h.Svc.Leave(c.UserContext(), id, uid, helper.GetRoleFromToken(c)); err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonDeleted(c, "Left the course", fiber.Map{"course_id": id})
}
