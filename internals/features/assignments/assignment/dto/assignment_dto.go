package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	model "learnx_backend/internals/features/assignments/assignment/model"
)

/* =========================
   REQUEST
   ========================= */

// CreateAssignmentRequest: multipart; file tugas wajib (field "file").
type CreateAssignmentRequest struct {
	AssignmentCourseID    string  `json:"assignment_course_id"   form:"assignment_course_id"   validate:"required,uuid"`
	AssignmentTitle       string  `json:"assignment_title"       form:"assignment_title"       validate:"required,min=1,max=200"`
	AssignmentDescription *string `json:"assignment_description" form:"assignment_description" validate:"omitempty,max=10000"`
	AssignmentDueDate     string  `json:"assignment_due_date"    form:"assignment_due_date"    validate:"required"`
}

func (r *CreateAssignmentRequest) Normalize() {
	r.AssignmentCourseID = strings.TrimSpace(r.AssignmentCourseID)
	r.AssignmentTitle = strings.TrimSpace(r.AssignmentTitle)
	r.AssignmentDueDate = strings.TrimSpace(r.AssignmentDueDate)
	if r.AssignmentDescription != nil {
		v := strings.TrimSpace(*r.AssignmentDescription)
		r.AssignmentDescription = &v
		if v == "" {
			r.AssignmentDescription = nil
		}
	}
}

type UpdateAssignmentRequest struct {
	AssignmentTitle       *string `json:"assignment_title"       form:"assignment_title"       validate:"omitempty,min=1,max=200"`
	AssignmentDescription *string `json:"assignment_description" form:"assignment_description" validate:"omitempty,max=10000"`
	AssignmentDueDate     *string `json:"assignment_due_date"    form:"assignment_due_date"`
}

func (r *UpdateAssignmentRequest) Normalize() {
	if r.AssignmentTitle != nil {
		v := strings.TrimSpace(*r.AssignmentTitle)
		r.AssignmentTitle = &v
	}
	if r.AssignmentDescription != nil {
		v := strings.TrimSpace(*r.AssignmentDescription)
		r.AssignmentDescription = &v
	}
	if r.AssignmentDueDate != nil {
		v := strings.TrimSpace(*r.AssignmentDueDate)
		r.AssignmentDueDate = &v
		if v == "" {
			r.AssignmentDueDate = nil
		}
	}
}

func (r *UpdateAssignmentRequest) IsEmpty() bool {
	return r.AssignmentTitle == nil && r.AssignmentDescription == nil && r.AssignmentDueDate == nil
}

// GradeRequest: nilai >= 0, feedback opsional.
type GradeRequest struct {
	Grade    *float64 `json:"grade"    form:"grade"    validate:"required,gte=0"`
	Feedback *string  `json:"feedback" form:"feedback" validate:"omitempty,max=5000"`
}

func (r *GradeRequest) Normalize() {
	if r.Feedback != nil {
		v := strings.TrimSpace(*r.Feedback)
		r.Feedback = &v
		if v == "" {
			r.Feedback = nil
		}
	}
}

/* =========================
   RESPONSE
   ========================= */

type SubmissionResponse struct {
	AssignmentSubmissionID          uuid.UUID  `json:"assignment_submission_id"`
	AssignmentSubmissionStudentUID  string     `json:"assignment_submission_student_uid"`
	StudentName                     string     `json:"student_name,omitempty"`
	AssignmentSubmissionFileURL     string     `json:"assignment_submission_file_url"`
	AssignmentSubmissionSubmittedAt time.Time  `json:"assignment_submission_submitted_at"`
	AssignmentSubmissionGrade       *float64   `json:"assignment_submission_grade,omitempty"`
	AssignmentSubmissionFeedback    *string    `json:"assignment_submission_feedback,omitempty"`
	AssignmentSubmissionGradedAt    *time.Time `json:"assignment_submission_graded_at,omitempty"`
}

func ToSubmissionResponse(m *model.AssignmentSubmissionModel) SubmissionResponse {
	return SubmissionResponse{
		AssignmentSubmissionID:          m.AssignmentSubmissionID,
		AssignmentSubmissionStudentUID:  m.AssignmentSubmissionStudentUID,
		AssignmentSubmissionFileURL:     m.AssignmentSubmissionFileURL,
		AssignmentSubmissionSubmittedAt: m.AssignmentSubmissionSubmittedAt,
		AssignmentSubmissionGrade:       m.AssignmentSubmissionGrade,
		AssignmentSubmissionFeedback:    m.AssignmentSubmissionFeedback,
		AssignmentSubmissionGradedAt:    m.AssignmentSubmissionGradedAt,
	}
}

type AssignmentResponse struct {
	AssignmentID          uuid.UUID `json:"assignment_id"`
	AssignmentCourseID    uuid.UUID `json:"assignment_course_id"`
	CourseTitle           string    `json:"course_title,omitempty"`
	AssignmentTitle       string    `json:"assignment_title"`
	AssignmentDescription *string   `json:"assignment_description,omitempty"`
	AssignmentDueDate     time.Time `json:"assignment_due_date"`
	AssignmentCreatedBy   string    `json:"assignment_created_by"`
	CreatorName           string    `json:"creator_name,omitempty"`
	AssignmentFileURL     string    `json:"assignment_file_url"`
	AssignmentCreatedAt   time.Time `json:"assignment_created_at"`
	AssignmentUpdatedAt   time.Time `json:"assignment_updated_at"`

	// Creator: semua submission. Student: hanya miliknya sendiri.
	Submissions     []SubmissionResponse `json:"submissions"`
	SubmissionCount int                  `json:"submission_count"`
}

func ToAssignmentResponse(m *model.AssignmentModel) AssignmentResponse {
	return AssignmentResponse{
		AssignmentID:          m.AssignmentID,
		AssignmentCourseID:    m.AssignmentCourseID,
		AssignmentTitle:       m.AssignmentTitle,
		AssignmentDescription: m.AssignmentDescription,
		AssignmentDueDate:     m.AssignmentDueDate,
		AssignmentCreatedBy:   m.AssignmentCreatedBy,
		AssignmentFileURL:     m.AssignmentFileURL,
		AssignmentCreatedAt:   m.AssignmentCreatedAt,
		AssignmentUpdatedAt:   m.AssignmentUpdatedAt,
		Submissions:           []SubmissionResponse{},
	}
}
