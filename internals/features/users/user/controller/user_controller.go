package controller

import (
	"github.com/gofiber/fiber/v2"

	courseDTO "learnx_backend/internals/features/courses/course/dto"
	dto "learnx_backend/internals/features/users/user/dto"
	service "learnx_backend/internals/features/users/user/service"
	helper "learnx_backend/internals/helpers"
	helperAuth "learnx_backend/internals/helpers/auth"
)

type UserController struct {
	Svc *service.UserService
}

func NewUserController(svc *service.UserService) *UserController {
	return &UserController{Svc: svc}
}

// POST /api/users/verify
// Body: { "role": "student|teacher", "name"?, "image_url"? }
func (h *UserController) Verify(c *fiber.Ctx) error {
	uid, err := helper.GetUIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}

	var req dto.VerifyRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.RespondError(c, err)
	}
	req.Normalize()
	if err := helper.Validate(&req); err != nil {
		return helper.RespondError(c, err)
	}

	id := helperAuth.Identity{
		UID:   uid,
		Email: helper.GetStringLocal(c, helper.LocEmail),
		Name:  helper.GetStringLocal(c, helper.LocUserName),
	}
	u, created, err := h.Svc.VerifyOrProvision(c.UserContext(), id, req)
	if err != nil {
		return helper.RespondError(c, err)
	}

	enrolled, createdCourses, err := h.Svc.CourseRefs(c.UserContext(), u.UID)
	if err != nil {
		return helper.RespondError(c, err)
	}
	resp := dto.ToUserResponse(u, enrolled, createdCourses)
	if created {
		return helper.JsonCreated(c, "User registered", resp)
	}
	return helper.JsonOK(c, "Login successful", resp)
}

// GET /api/users/me
func (h *UserController) Me(c *fiber.Ctx) error {
	uid, err := helper.GetUIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	u, err := h.Svc.GetByUID(c.UserContext(), uid)
	if err != nil {
		return helper.RespondError(c, err)
	}
	enrolled, created, err := h.Svc.CourseRefs(c.UserContext(), uid)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Profile fetched", dto.ToUserResponse(u, enrolled, created))
}

// PUT /api/users/me  (partial; role & email tidak bisa diubah)
func (h *UserController) UpdateMe(c *fiber.Ctx) error {
	uid, err := helper.GetUIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}

	var req dto.UpdateMeRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.RespondError(c, err)
	}
	req.Normalize()
	if err := helper.Validate(&req); err != nil {
		return helper.RespondError(c, err)
	}

	u, err := h.Svc.UpdateMe(c.UserContext(), uid, req)
	if err != nil {
		return helper.RespondError(c, err)
	}
	enrolled, created, err := h.Svc.CourseRefs(c.UserContext(), uid)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonUpdated(c, "Profile updated", dto.ToUserResponse(u, enrolled, created))
}

// GET /api/users/me/courses
func (h *UserController) MyCourses(c *fiber.Ctx) error {
	uid, err := helper.GetUIDFromToken(c)
	if err != nil {
		return helper.RespondError(c, err)
	}
	if _, err := h.Svc.GetByUID(c.UserContext(), uid); err != nil {
		return helper.RespondError(c, err)
	}
	enrolled, created, err := h.Svc.MyCourses(c.UserContext(), uid)
	if err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Courses fetched", fiber.Map{
		"enrolled_courses": courseDTO.ToCourseResponses(enrolled),
		"created_courses":  courseDTO.ToCourseResponses(created),
	})
}

// POST /api/users/logout
func (h *UserController) Logout(c *fiber.Ctx) error {
	if err := h.Svc.Logout(c.UserContext(), helper.GetRawAccessToken(c), helper.GetTokenExpiry(c)); err != nil {
		return helper.RespondError(c, err)
	}
	return helper.JsonOK(c, "Logged out", nil)
}
