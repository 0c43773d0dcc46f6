package dto

import (
	"strings"
	"time"

	uModel "learnx_backend/internals/features/users/user/model"

	"github.com/google/uuid"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

// VerifyRequest: body POST /api/users/verify. Role datang dari client, bukan dari token.
type VerifyRequest struct {
	Role     string  `json:"role" form:"role" validate:"required,oneof=student teacher"`
	Name     *string `json:"name,omitempty" form:"name" validate:"omitempty,max=100"`
	ImageURL *string `json:"image_url,omitempty" form:"image_url" validate:"omitempty,url"`
}

func (r *VerifyRequest) Normalize() {
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
	r.Name = trimPtr(r.Name)
	r.ImageURL = trimPtr(r.ImageURL)
}

// UpdateMeRequest: partial update; role & email tidak bisa diubah.
type UpdateMeRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Bio        *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
	ImageURL   *string `json:"image_url,omitempty" validate:"omitempty,max=2048"`
	RollNumber *string `json:"roll_number,omitempty" validate:"omitempty,max=50"`
}

func (r *UpdateMeRequest) Normalize() {
	if r.Name != nil {
		v := strings.TrimSpace(*r.Name)
		r.Name = &v
	}
	if r.Bio != nil {
		v := strings.TrimSpace(*r.Bio)
		r.Bio = &v
	}
	if r.ImageURL != nil {
		v := strings.TrimSpace(*r.ImageURL)
		r.ImageURL = &v
	}
	if r.RollNumber != nil {
		v := strings.TrimSpace(*r.RollNumber)
		r.RollNumber = &v
	}
}

// ApplyToModel: string kosong menghapus nilai opsional.
func (r *UpdateMeRequest) ApplyToModel(m *uModel.UserModel) {
	if r.Name != nil && *r.Name != "" {
		m.Name = *r.Name
	}
	if r.Bio != nil {
		m.Bio = nilIfEmpty(*r.Bio)
	}
	if r.ImageURL != nil {
		m.ImageURL = nilIfEmpty(*r.ImageURL)
	}
	if r.RollNumber != nil {
		m.RollNumber = nilIfEmpty(*r.RollNumber)
	}
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type UserResponse struct {
	ID              uuid.UUID   `json:"id"`
	UID             string      `json:"uid"`
	Name            string      `json:"name"`
	Email           *string     `json:"email,omitempty"`
	ImageURL        *string     `json:"image_url,omitempty"`
	Role            string      `json:"role"`
	Bio             *string     `json:"bio,omitempty"`
	RollNumber      *string     `json:"roll_number,omitempty"`
	EnrolledCourses []uuid.UUID `json:"enrolled_courses"`
	CreatedCourses  []uuid.UUID `json:"created_courses"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func ToUserResponse(m *uModel.UserModel, enrolled, created []uuid.UUID) UserResponse {
	if enrolled == nil {
		enrolled = []uuid.UUID{}
	}
	if created == nil {
		created = []uuid.UUID{}
	}
	return UserResponse{
		ID:              m.ID,
		UID:             m.UID,
		Name:            m.Name,
		Email:           m.Email,
		ImageURL:        m.ImageURL,
		Role:            m.Role,
		Bio:             m.Bio,
		RollNumber:      m.RollNumber,
		EnrolledCourses: enrolled,
		CreatedCourses:  created,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// UserLite: profil ringkas untuk hydrate (enrolled students, instructor).
type UserLite struct {
	UID        string  `json:"uid"`
	Name       string  `json:"name"`
	Email      *string `json:"email,omitempty"`
	ImageURL   *string `json:"image_url,omitempty"`
	RollNumber *string `json:"roll_number,omitempty"`
}

func ToUserLite(m *uModel.UserModel) UserLite {
	return UserLite{
		UID:        m.UID,
		Name:       m.DisplayName(),
		Email:      m.Email,
		ImageURL:   m.ImageURL,
		RollNumber: m.RollNumber,
	}
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
