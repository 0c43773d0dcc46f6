package dto

import (
	"strings"
	"time"

	"learnx_backend/internals/constants"
	model "learnx_backend/internals/features/courses/course/model"

	"github.com/google/uuid"
)

// MaterialRequest: JSON dengan course_material_url, atau multipart dengan file "file".
type MaterialRequest struct {
	CourseMaterialTitle string  `json:"course_material_title" form:"course_material_title" validate:"required,min=1,max=200"`
	CourseMaterialType  string  `json:"course_material_type"  form:"course_material_type"  validate:"omitempty,oneof=video pdf link note"`
	CourseMaterialURL   string  `json:"course_material_url"   form:"course_material_url"   validate:"omitempty,max=2048"`
	CourseMaterialTopic *string `json:"course_material_topic" form:"course_material_topic" validate:"omitempty,max=200"`
}

func (r *MaterialRequest) Normalize() {
	r.CourseMaterialTitle = strings.TrimSpace(r.CourseMaterialTitle)
	r.CourseMaterialType = strings.ToLower(strings.TrimSpace(r.CourseMaterialType))
	r.CourseMaterialURL = strings.TrimSpace(r.CourseMaterialURL)
	r.CourseMaterialTopic = trimPtr(r.CourseMaterialTopic)
}

// ResolveType: type eksplisit menang; kalau kosong tebak dari nama file, lalu link.
func (r *MaterialRequest) ResolveType(filename string) {
	if r.CourseMaterialType != "" {
		return
	}
	if filename != "" {
		r.CourseMaterialType = constants.DetectMaterialTypeFromExt(filename)
		return
	}
	r.CourseMaterialType = constants.MaterialTypeLink
}

type UpdateMaterialRequest struct {
	CourseMaterialTitle *string `json:"course_material_title" form:"course_material_title" validate:"omitempty,min=1,max=200"`
	CourseMaterialType  *string `json:"course_material_type"  form:"course_material_type"  validate:"omitempty,oneof=video pdf link note"`
	CourseMaterialURL   *string `json:"course_material_url"   form:"course_material_url"   validate:"omitempty,min=1,max=2048"`
	CourseMaterialTopic *string `json:"course_material_topic" form:"course_material_topic" validate:"omitempty,max=200"`
}

func (r *UpdateMaterialRequest) Normalize() {
	if r.CourseMaterialTitle != nil {
		v := strings.TrimSpace(*r.CourseMaterialTitle)
		r.CourseMaterialTitle = &v
	}
	if r.CourseMaterialType != nil {
		v := strings.ToLower(strings.TrimSpace(*r.CourseMaterialType))
		r.CourseMaterialType = &v
	}
	if r.CourseMaterialURL != nil {
		v := strings.TrimSpace(*r.CourseMaterialURL)
		r.CourseMaterialURL = &v
	}
	if r.CourseMaterialTopic != nil {
		v := strings.TrimSpace(*r.CourseMaterialTopic)
		r.CourseMaterialTopic = &v
	}
}

func (r *UpdateMaterialRequest) ApplyToModel(m *model.CourseMaterialModel) {
	if r.CourseMaterialTitle != nil && *r.CourseMaterialTitle != "" {
		m.CourseMaterialTitle = *r.CourseMaterialTitle
	}
	if r.CourseMaterialType != nil && *r.CourseMaterialType != "" {
		m.CourseMaterialType = *r.CourseMaterialType
	}
	if r.CourseMaterialURL != nil && *r.CourseMaterialURL != "" {
		m.CourseMaterialURL = *r.CourseMaterialURL
	}
	if r.CourseMaterialTopic != nil {
		m.CourseMaterialTopic = nilIfEmpty(*r.CourseMaterialTopic)
	}
}

type MaterialResponse struct {
	CourseMaterialID         uuid.UUID `json:"course_material_id"`
	CourseMaterialCourseID   uuid.UUID `json:"course_material_course_id"`
	CourseMaterialTitle      string    `json:"course_material_title"`
	CourseMaterialType       string    `json:"course_material_type"`
	CourseMaterialURL        string    `json:"course_material_url"`
	CourseMaterialTopic      *string   `json:"course_material_topic,omitempty"`
	CourseMaterialUploadedAt time.Time `json:"course_material_uploaded_at"`
}

func ToMaterialResponse(m *model.CourseMaterialModel) MaterialResponse {
	return MaterialResponse{
		CourseMaterialID:         m.CourseMaterialID,
		CourseMaterialCourseID:   m.CourseMaterialCourseID,
		CourseMaterialTitle:      m.CourseMaterialTitle,
		CourseMaterialType:       m.CourseMaterialType,
		CourseMaterialURL:        m.CourseMaterialURL,
		CourseMaterialTopic:      m.CourseMaterialTopic,
		CourseMaterialUploadedAt: m.CourseMaterialUploadedAt,
	}
}

func ToMaterialResponses(rows []model.CourseMaterialModel) []MaterialResponse {
	out := make([]MaterialResponse, 0, len(rows))
	for i := range rows {
		out = append(out, ToMaterialResponse(&rows[i]))
	}
	return out
}
