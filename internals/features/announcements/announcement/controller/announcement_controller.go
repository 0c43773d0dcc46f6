package controller

import (
	"github.com/gofiber/fiber/v2"

	dto "learnx_backend/internals/features/announcements/announcement/dto"
	service "learnx_backend/internals/features/announcements/announcement/service"
	helper "learnx_backend/internals/helpers"
)

type AnnouncementController struct {
	Svc *service.AnnouncementService
}

func NewAnnouncementController(svc *service.AnnouncementService) *AnnouncementController {
	return &AnnouncementController{Svc: svc}
}

// GET /api/announcements?course=&priority=&page=&per_page=
func (h *AnnouncementController) List(c *fiber.Ctx) error {
	var q dto.AnnouncementListQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid query parameters")
	}
	pg := helper.ResolvePaging(c, 20, 100)

	items, total, err := h.Svc.List(c.UserContext(), q, pg)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonList(c, "Announcements fetched", items,
		helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage, len(items)))
}

// GET /api/announcements/enrolled
func (h *AnnouncementController) Enrolled(c *fiber.Ctx) error {
	uid, err := helper.GetUIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	items, err := h.Svc.Enrolled(c.UserContext(), uid)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Announcements fetched", items)
}

// GET /api/announcements/:id
func (h *AnnouncementController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	m, err := h.Svc.Detail(c.UserContext(), id)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Announcement fetched", dto.ToAnnouncementResponse(m))
}

// POST /api/announcements
func (h *AnnouncementController) Create(c *fiber.Ctx) error {
	uid, err := helper.GetUIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	var req dto.CreateAnnouncementRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.RespondError(c, err)
	}
	m, err := h.Svc.Create(c.UserContext(), uid, helper.GetStringLocal(c, "user_name"), req)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonCreated(c, "Announcement created", dto.ToAnnouncementResponse(m))
}

// PUT /api/announcements/:id
func (h *AnnouncementController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	var req dto.UpdateAnnouncementRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.RespondError(c, err)
	}
	m, err := h.Svc.Update(c.UserContext(), id, req)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonUpdated(c, "Announcement updated", dto.ToAnnouncementResponse(m))
}

// DELETE /api/announcements/:id
func (h *AnnouncementController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	if err := h.Svc.Delete(c.UserContext(), id); err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonDeleted(c, "Announcement deleted", fiber.Map{"announcement_id": id})
}
