package dto

import (
	"strings"
	"time"

	model "learnx_backend/internals/features/courses/course/model"
	uDTO "learnx_backend/internals/features/users/user/dto"
	helper "learnx_backend/internals/helpers"

	"github.com/google/uuid"
)

/* =========================
   REQUEST
   ========================= */

// CreateCourseRequest: JSON atau multipart (file "thumbnail" diproses di controller).
type CreateCourseRequest struct {
	CourseTitle       string   `json:"course_title"       form:"course_title"       validate:"required,min=1,max=200"`
	CourseCode        *string  `json:"course_code"        form:"course_code"        validate:"omitempty,max=40"`
	CourseDescription *string  `json:"course_description" form:"course_description" validate:"omitempty,max=10000"`
	CourseCategory    *string  `json:"course_category"    form:"course_category"    validate:"omitempty,max=100"`
	CourseThumbnail   *string  `json:"course_thumbnail"   form:"course_thumbnail"   validate:"omitempty,max=2048"`
	CourseStatus      *string  `json:"course_status"      form:"course_status"      validate:"omitempty,oneof=active inactive"`
	CourseTags        []string `json:"course_tags"        form:"course_tags"        validate:"omitempty,max=20,dive,max=40"`
}

func (r *CreateCourseRequest) Normalize() {
	r.CourseTitle = strings.TrimSpace(r.CourseTitle)
	r.CourseCode = normalizeCode(r.CourseCode)
	r.CourseDescription = trimPtr(r.CourseDescription)
	r.CourseCategory = trimPtr(r.CourseCategory)
	r.CourseThumbnail = trimPtr(r.CourseThumbnail)
	if r.CourseStatus != nil {
		v := strings.ToLower(strings.TrimSpace(*r.CourseStatus))
		r.CourseStatus = &v
		if v == "" {
			r.CourseStatus = nil
		}
	}
	r.CourseTags = NormalizeTags(r.CourseTags)
}

func (r *CreateCourseRequest) ToModel(createdBy, thumbnail string) *model.CourseModel {
	m := &model.CourseModel{
		CourseTitle:       r.CourseTitle,
		CourseCode:        r.CourseCode,
		CourseDescription: r.CourseDescription,
		CourseCategory:    r.CourseCategory,
		CourseThumbnail:   thumbnail,
		CourseStatus:      model.CourseStatusActive,
		CourseCreatedBy:   createdBy,
	}
	if r.CourseStatus != nil {
		m.CourseStatus = *r.CourseStatus
	}
	m.SetTags(r.CourseTags)
	return m
}

// UpdateCourseRequest: whitelist field yang boleh diubah; nil = tidak berubah.
type UpdateCourseRequest struct {
	CourseTitle       *string   `json:"course_title"       form:"course_title"       validate:"omitempty,min=1,max=200"`
	CourseCode        *string   `json:"course_code"        form:"course_code"        validate:"omitempty,max=40"`
	CourseDescription *string   `json:"course_description" form:"course_description" validate:"omitempty,max=10000"`
	CourseCategory    *string   `json:"course_category"    form:"course_category"    validate:"omitempty,max=100"`
	CourseThumbnail   *string   `json:"course_thumbnail"   form:"course_thumbnail"   validate:"omitempty,max=2048"`
	CourseStatus      *string   `json:"course_status"      form:"course_status"      validate:"omitempty,oneof=active inactive"`
	CourseTags        *[]string `json:"course_tags"        form:"-"`
}

func (r *UpdateCourseRequest) Normalize() {
	if r.CourseTitle != nil {
		v := strings.TrimSpace(*r.CourseTitle)
		r.CourseTitle = &v
	}
	if r.CourseCode != nil {
		v := helper.NormalizeCode(*r.CourseCode)
		r.CourseCode = &v
	}
	if r.CourseDescription != nil {
		v := strings.TrimSpace(*r.CourseDescription)
		r.CourseDescription = &v
	}
	if r.CourseCategory != nil {
		v := strings.TrimSpace(*r.CourseCategory)
		r.CourseCategory = &v
	}
	if r.CourseThumbnail != nil {
		v := strings.TrimSpace(*r.CourseThumbnail)
		r.CourseThumbnail = &v
	}
	if r.CourseStatus != nil {
		v := strings.ToLower(strings.TrimSpace(*r.CourseStatus))
		r.CourseStatus = &v
	}
	if r.CourseTags != nil {
		v := NormalizeTags(*r.CourseTags)
		r.CourseTags = &v
	}
}

func (r *UpdateCourseRequest) IsEmpty() bool {
	return r.CourseTitle == nil && r.CourseCode == nil && r.CourseDescription == nil &&
		r.CourseCategory == nil && r.CourseThumbnail == nil && r.CourseStatus == nil && r.CourseTags == nil
}

// ApplyToModel: partial update; string kosong mengosongkan field opsional.
// Title kosong diabaikan (title wajib ada).
func (r *UpdateCourseRequest) ApplyToModel(m *model.CourseModel) {
	if r.CourseTitle != nil && *r.CourseTitle != "" {
		m.CourseTitle = *r.CourseTitle
	}
	if r.CourseCode != nil {
		m.CourseCode = nilIfEmpty(*r.CourseCode)
	}
	if r.CourseDescription != nil {
		m.CourseDescription = nilIfEmpty(*r.CourseDescription)
	}
	if r.CourseCategory != nil {
		m.CourseCategory = nilIfEmpty(*r.CourseCategory)
	}
	if r.CourseThumbnail != nil && *r.CourseThumbnail != "" {
		m.CourseThumbnail = *r.CourseThumbnail
	}
	if r.CourseStatus != nil && *r.CourseStatus != "" {
		m.CourseStatus = *r.CourseStatus
	}
	if r.CourseTags != nil {
		m.SetTags(*r.CourseTags)
	}
}

// CourseListQuery: katalog publik.
type CourseListQuery struct {
	Q        string `query:"q"`
	Category string `query:"category"`
	Tag      string `query:"tag"`
}

/* =========================
   RESPONSE
   ========================= */

type CourseResponse struct {
	CourseID          uuid.UUID `json:"course_id"`
	CourseTitle       string    `json:"course_title"`
	CourseCode        *string   `json:"course_code,omitempty"`
	CourseDescription *string   `json:"course_description,omitempty"`
	CourseThumbnail   string    `json:"course_thumbnail"`
	CourseCategory    *string   `json:"course_category,omitempty"`
	CourseStatus      string    `json:"course_status"`
	CourseTags        []string  `json:"course_tags"`
	CourseCreatedBy   string    `json:"course_created_by"`
	InstructorName    string    `json:"instructor_name,omitempty"`
	EnrolledCount     int64     `json:"enrolled_count"`
	CourseCreatedAt   time.Time `json:"course_created_at"`
	CourseUpdatedAt   time.Time `json:"course_updated_at"`
}

func ToCourseResponse(m *model.CourseModel) CourseResponse {
	return CourseResponse{
		CourseID:          m.CourseID,
		CourseTitle:       m.CourseTitle,
		CourseCode:        m.CourseCode,
		CourseDescription: m.CourseDescription,
		CourseThumbnail:   m.CourseThumbnail,
		CourseCategory:    m.CourseCategory,
		CourseStatus:      m.CourseStatus,
		CourseTags:        m.Tags(),
		CourseCreatedBy:   m.CourseCreatedBy,
		CourseCreatedAt:   m.CourseCreatedAt,
		CourseUpdatedAt:   m.CourseUpdatedAt,
	}
}

func ToCourseResponses(rows []model.CourseModel) []CourseResponse {
	out := make([]CourseResponse, 0, len(rows))
	for i := range rows {
		out = append(out, ToCourseResponse(&rows[i]))
	}
	return out
}

// CourseDetailResponse: hasil join saat baca (instructor + enrolled students + materials).
type CourseDetailResponse struct {
	CourseResponse
	Instructor       *uDTO.UserLite     `json:"instructor,omitempty"`
	Materials        []MaterialResponse `json:"materials"`
	EnrolledStudents []uDTO.UserLite    `json:"enrolled_students"`
	IsCreator        bool               `json:"is_creator"`
	IsEnrolled       bool               `json:"is_enrolled"`
}

/* =========================
   HELPERS
   ========================= */

// NormalizeTags: trim, lowercase, pecah "a,b", buang duplikat, urutan dipertahankan.
func NormalizeTags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, raw := range in {
		for _, t := range strings.Split(raw, ",") {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}

func normalizeCode(s *string) *string {
	if s == nil {
		return nil
	}
	v := helper.NormalizeCode(*s)
	if v == "" {
		return nil
	}
	return &v
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
