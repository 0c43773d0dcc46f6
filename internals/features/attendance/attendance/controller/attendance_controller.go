package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	dto "learnx_backend/internals/features/attendance/attendance/dto"
	service "learnx_backend/internals/features/attendance/attendance/service"
	helper "learnx_backend/internals/helpers"
	"learnx_backend/internals/helpers/dbtime"
)

type AttendanceController struct {
	Svc *service.AttendanceService
}

func NewAttendanceController(svc *service.AttendanceService) *AttendanceController {
	return &AttendanceController{Svc: svc}
}

// POST /api/attendance/mark  (creator)
func (h *AttendanceController) Mark(c *fiber.Ctx) error {
	uid, err := helper.GetUIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	var req dto.MarkRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.RespondError(c, err)
	}
	rec, err := h.Svc.Mark(c.UserContext(), uid, req)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Attendance marked", dto.ToAttendanceResponse(rec))
}

// POST /api/attendance/mark-bulk  (creator, hasil per student)
func (h *AttendanceController) MarkBulk(c *fiber.Ctx) error {
	uid, err := helper.GetUIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	var req dto.BulkMarkRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.RespondError(c, err)
	}
	results, err := h.Svc.Bulk(c.UserContext(), uid, req)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Bulk attendance processed", fiber.Map{
		"results":   results,
		"succeeded": countSucceeded(results),
		"failed":    len(results) - countSucceeded(results),
	})
}

// POST /api/attendance/mark-range
// Satu bulk mark per hari kalender; store tidak punya operasi range.
func (h *AttendanceController) MarkRange(c *fiber.Ctx) error {
	uid, err := helper.GetUIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	var req dto.RangeMarkRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.RespondError(c, err)
	}
	req.Normalize()
	if err := helper.Validate(&req); err != nil {
		return helper.RespondError(c, err)
	}

	days, err := service.RangeDays(req.StartDate, req.EndDate)
	if err != nil {
		return helper.RespondError(c, err)
	}

	out := make([]dto.DayResult, 0, len(days))
	for _, d := range days {
		results, err := h.Svc.Bulk(c.UserContext(), uid, req.ForDay(d))
		if err != nil {
			// auth/validasi sama untuk setiap hari; gagal di hari pertama = gagal semua
			return helper.RespondError(c, err)
		}
		out = append(out, dto.DayResult{Date: dbtime.FormatDay(d), Results: results})
	}
	return helper.JsonOK(c, "Range attendance processed", out)
}

func countSucceeded(rs []dto.MarkResult) int {
	n := 0
	for _, r := range rs {
		if r.Success {
			n++
		}
	}
	return n
}

// GET /api/attendance/course/:id/report?start_date&end_date&student_id
func (h *AttendanceController) Report(c *fiber.Ctx) error {
	uid, err := helper.GetUIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	courseID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	var q dto.ReportQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid query parameters")
	}
	q.StartDate = strings.TrimSpace(q.StartDate)
	q.EndDate = strings.TrimSpace(q.EndDate)
	q.StudentID = strings.TrimSpace(q.StudentID)

	out, err := h.Svc.Report(c.UserContext(), courseID, uid, q)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Attendance report fetched", out)
}

// GET /api/attendance/course/:id/date/:date  (creator)
func (h *AttendanceController) DailySheet(c *fiber.Ctx) error {
	uid, err := helper.GetUIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	courseID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	out, err := h.Svc.DailySheet(c.UserContext(), courseID, uid, c.Params("date"))
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Attendance sheet fetched", out)
}

// GET /api/attendance/course/:id/student/:studentId
func (h *AttendanceController) StudentRecords(c *fiber.Ctx) error {
	uid, err := helper.GetUIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	courseID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	studentUID := strings.TrimSpace(c.Params("studentId"))
	if studentUID == "" {
		return helper.RespondError(c, helper.Validation("studentId is required"))
	}
	out, err := h.Svc.StudentRecords(c.UserContext(), courseID, studentUID, uid)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Attendance records fetched", out)
}

// DELETE /api/attendance/:id  (creator)
func (h *AttendanceController) Delete(c *fiber.Ctx) error {
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
	return helper.JsonDeleted(c, "Attendance record deleted", fiber.Map{"attendance_id": id})
}
