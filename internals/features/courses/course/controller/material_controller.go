package controller

import (
	"github.com/gofiber/fiber/v2"

	dto "learnx_backend/internals/features/courses/course/dto"
	helper "learnx_backend/internals/helpers"
	helperOSS "learnx_backend/internals/helpers/oss"
)

// POST /api/courses/:id/material  (creator; JSON url atau multipart "file")
func (h *CourseController) AddMaterial(c *fiber.Ctx) error {
	uid, err := helper.GetUIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	courseID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.RespondError(c, err)
	}

	var req dto.MaterialRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.RespondError(c, err)
	}

	m, err := h.Svc.AddMaterial(c.UserContext(), courseID, uid, req, helperOSS.GetFile(c, "file", "material"))
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonCreated(c, "Material added", dto.ToMaterialResponse(m))
}

// PUT /api/courses/:id/material/:materialId
func (h *CourseController) UpdateMaterial(c *fiber.Ctx) error {
	uid, err := helper.GetUIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	courseID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	materialID, err := helper.ParseUUIDParam(c, "materialId")
	if err != nil {
		return helper.RespondError(c, err)
	}

	var req dto.UpdateMaterialRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.RespondError(c, err)
	}

	m, err := h.Svc.UpdateMaterial(c.UserContext(), courseID, materialID, uid, req, helperOSS.GetFile(c, "file", "material"))
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonUpdated(c, "Material updated", dto.ToMaterialResponse(m))
}

// DELETE /api/courses/:id/material/:materialId
func (h *CourseController) DeleteMaterial(c *fiber.Ctx) error {
	uid, err := helper.GetUIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	courseID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.RespondError(c, err)
	}
	materialID, err := helper.ParseUUIDParam(c, "materialId")
	if err != nil {
		return helper.RespondError(c, err)
	}
	if err := h.Svc.DeleteMaterial(c.UserContext(), courseID, materialID, uid); err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonDeleted(c, "Material deleted", fiber.Map{"course_material_id": materialID})
}
