package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	dto "learnx_backend/internals/features/assignments/assignment/dto"
	service "learnx_backend/internals/features/assignments/assignment/service"
	helper "learnx_backend/internals/helpers"
	helperOSS "learnx_backend/internals/helpers/oss"
)

type AssignmentController struct {
	Svc *service.AssignmentService
}

func NewAssignmentController(svc *service.AssignmentService) *AssignmentController {
	return &AssignmentController{Svc: svc}
}

// =========================================================
// POST /api/assignments  (multipart, file "file" wajib)
// =========================================================
func (h *AssignmentController) Create(c *fiber.Ctx) error {
	uid, err := helper.GetUIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	var req dto.CreateAssignmentRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.RespondError(c, err)
	}

	m, err := h.Svc.Create(c.UserContext(), uid, req, helperOSS.GetFile(c, "file", "assignment_file"))
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonCreated(c, "Assignment created", dto.ToAssignmentResponse(m))
}

// GET /api/assignments/course/:courseId
func (h *AssignmentController) ListByCourse(c *fiber.Ctx) error {
	uid, err := helper.GetUIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	courseID, err := helper.ParseUUIDParam(c, "courseId")
	if err != nil {
		return helper.RespondError(c, err)
	}
	items, err := h.Svc.ListByCourse(c.UserContext(), courseID, uid)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Assignments fetched", items)
}

// GET /api/assignments/teacher
func (h *AssignmentController) ListByTeacher(c *fiber.Ctx) error {
	uid, err := helper.GetUIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	items, err := h.Svc.ListByTeacher(c.UserContext(), uid)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Assignments fetched", items)
}

// GET /api/assignments/:id
func (h *AssignmentController) GetByID(c *fiber.Ctx) error {
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
	return helper.JsonOK(c, "Assignment fetched", out)
}

// GET /api/assignments/:id/submissions  (creator)
func (h *AssignmentController) Submissions(c *fiber.Ctx) error {
	uid, err := helper.GetUIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	items, err := h.Svc.Submissions(c.UserContext(), id, uid)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Submissions fetched", items)
}

// PUT /api/assignments/:id  (creator; file baru opsional)
func (h *AssignmentController) Update(c *fiber.Ctx) error {
	uid, err := helper.GetUIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	var req dto.UpdateAssignmentRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.RespondError(c, err)
	}

	m, err := h.Svc.Update(c.UserContext(), id, uid, req, helperOSS.GetFile(c, "file", "assignment_file"))
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonUpdated(c, "Assignment updated", dto.ToAssignmentResponse(m))
}

// DELETE /api/assignments/:id  (creator)
func (h *AssignmentController) Delete(c *fiber.Ctx) error {
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
	return helper.JsonDeleted(c, "Assignment deleted", fiber.Map{"assignment_id": id})
}

// =========================================================
// POST /api/assignments/:id/submit  (student, multipart "file")
// =========================================================
func (h *AssignmentController) Submit(c *fiber.Ctx) error {
	uid, err := helper.GetUIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.RespondError(c, err)
	}

	sub, err := h.Svc.Submit(c.UserContext(), id, uid, helperOSS.GetFile(c, "file", "submission"))
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonCreated(c, "Assignment submitted", dto.ToSubmissionResponse(sub))
}

// POST /api/assignments/:id/grade/:studentId  (creator)
func (h *AssignmentController) Grade(c *fiber.Ctx) error {
	uid, err := helper.GetUIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	studentUID := strings.TrimSpace(c.Params("studentId"))
	if studentUID == "" {
		return helper.RespondError(c, helper.Validation("studentId is required"))
	}

	var req dto.GradeRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.RespondError(c, err)
	}

	sub, err := h.Svc.Grade(c.UserContext(), id, studentUID, uid, req)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonUpdated(c, "Submission graded", dto.ToSubmissionResponse(sub))
}
