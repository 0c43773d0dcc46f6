package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	model "learnx_backend/internals/features/announcements/announcement/model"
)

/* =========================
   REQUEST
   ========================= */

// CreateAnnouncementRequest: course lewat course_id, atau judul course lama ("course").
type CreateAnnouncementRequest struct {
	Title      string  `json:"title"      validate:"required,min=1,max=200"`
	Content    string  `json:"content"    validate:"required,min=1"`
	CourseID   *string `json:"course_id"  validate:"omitempty,uuid"`
	Course     *string `json:"course"     validate:"omitempty,max=200"`
	Instructor *string `json:"instructor" validate:"omitempty,max=100"`
	Priority   string  `json:"priority"   validate:"omitempty,oneof=High Medium Low"`
}

func (r *CreateAnnouncementRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
	r.CourseID = trimPtr(r.CourseID)
	r.Course = trimPtr(r.Course)
	r.Instructor = trimPtr(r.Instructor)
	r.Priority = NormalizePriority(r.Priority)
}

type UpdateAnnouncementRequest struct {
	Title      *string `json:"title"      validate:"omitempty,min=1,max=200"`
	Content    *string `json:"content"    validate:"omitempty,min=1"`
	CourseID   *string `json:"course_id"  validate:"omitempty,uuid"`
	Course     *string `json:"course"     validate:"omitempty,max=200"`
	Instructor *string `json:"instructor" validate:"omitempty,max=100"`
	Priority   *string `json:"priority"   validate:"omitempty,oneof=High Medium Low"`
}

func (r *UpdateAnnouncementRequest) Normalize() {
	r.Title = trimPtr(r.Title)
	r.Content = trimPtr(r.Content)
	r.CourseID = trimPtr(r.CourseID)
	r.Course = trimPtr(r.Course)
	r.Instructor = trimPtr(r.Instructor)
	if r.Priority != nil {
		p := NormalizePriority(*r.Priority)
		r.Priority = &p
		if p == "" {
			r.Priority = nil
		}
	}
}

func (r *UpdateAnnouncementRequest) IsEmpty() bool {
	return r.Title == nil && r.Content == nil && r.CourseID == nil && r.Course == nil &&
		r.Instructor == nil && r.Priority == nil
}

type AnnouncementListQuery struct {
	Course   string `query:"course"`
	Priority string `query:"priority"`
}

// NormalizePriority: "high" → "High". Nilai lain dibiarkan untuk divalidasi.
func NormalizePriority(p string) string {
	p = strings.TrimSpace(p)
	switch strings.ToLower(p) {
	case "high":
		return model.PriorityHigh
	case "medium":
		return model.PriorityMedium
	case "low":
		return model.PriorityLow
	}
	return p
}

/* =========================
   RESPONSE
   ========================= */

type AnnouncementResponse struct {
	AnnouncementID          uuid.UUID  `json:"announcement_id"`
	AnnouncementTitle       string     `json:"announcement_title"`
	AnnouncementContent     string     `json:"announcement_content"`
	AnnouncementCourseID    *uuid.UUID `json:"announcement_course_id,omitempty"`
	AnnouncementCourseTitle string     `json:"announcement_course_title"`
	AnnouncementInstructor  string     `json:"announcement_instructor"`
	AnnouncementPriority    string     `json:"announcement_priority"`
	AnnouncementCreatedBy   string     `json:"announcement_created_by"`
	AnnouncementCreatedAt   time.Time  `json:"announcement_created_at"`
	AnnouncementUpdatedAt   time.Time  `json:"announcement_updated_at"`
}

func ToAnnouncementResponse(m *model.AnnouncementModel) AnnouncementResponse {
	return AnnouncementResponse{
		AnnouncementID:          m.AnnouncementID,
		AnnouncementTitle:       m.AnnouncementTitle,
		AnnouncementContent:     m.AnnouncementContent,
		AnnouncementCourseID:    m.AnnouncementCourseID,
		AnnouncementCourseTitle: m.AnnouncementCourseTitle,
		AnnouncementInstructor:  m.AnnouncementInstructor,
		AnnouncementPriority:    m.AnnouncementPriority,
		AnnouncementCreatedBy:   m.AnnouncementCreatedBy,
		AnnouncementCreatedAt:   m.AnnouncementCreatedAt,
		AnnouncementUpdatedAt:   m.AnnouncementUpdatedAt,
	}
}

func ToAnnouncementResponses(rows []model.AnnouncementModel) []AnnouncementResponse {
	out := make([]AnnouncementResponse, 0, len(rows))
	for i := range rows {
		out = append(out, ToAnnouncementResponse(&rows[i]))
	}
	return out
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
