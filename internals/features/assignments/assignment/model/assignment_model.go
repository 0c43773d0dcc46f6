package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssignmentModel struct {
	AssignmentID          uuid.UUID `json:"assignment_id"          gorm:"column:assignment_id;type:uuid;primaryKey"`
	AssignmentCourseID    uuid.UUID `json:"assignment_course_id"   gorm:"column:assignment_course_id;type:uuid;not null;index:idx_assignment_course"`
	AssignmentTitle       string    `json:"assignment_title"       gorm:"column:assignment_title;type:varchar(200);not null"`
	AssignmentDescription *string   `json:"assignment_description,omitempty" gorm:"column:assignment_description;type:text"`
	AssignmentDueDate     time.Time `json:"assignment_due_date"    gorm:"column:assignment_due_date;not null"`
	AssignmentCreatedBy   string    `json:"assignment_created_by"  gorm:"column:assignment_created_by;type:varchar(128);not null;index:idx_assignment_created_by"`
	AssignmentFileURL     string    `json:"assignment_file_url"    gorm:"column:assignment_file_url;type:text;not null"`
	AssignmentCreatedAt   time.Time `json:"assignment_created_at"  gorm:"column:assignment_created_at;autoCreateTime"`
	AssignmentUpdatedAt   time.Time `json:"assignment_updated_at"  gorm:"column:assignment_updated_at;autoUpdateTime"`

	Submissions []AssignmentSubmissionModel `json:"-" gorm:"foreignKey:AssignmentSubmissionAssignmentID;references:AssignmentID;constraint:OnDelete:CASCADE"`
}

func (AssignmentModel) TableName() string { return "assignments" }

func (m *AssignmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.AssignmentID == uuid.Nil {
		m.AssignmentID = uuid.New()
	}
	return nil
}

// IsPastDue: lewat deadline kalau now > due (tepat di due masih boleh).
func (m *AssignmentModel) IsPastDue(now time.Time) bool {
	return now.After(m.AssignmentDueDate)
}

// AssignmentSubmissionModel: maksimal satu per (assignment, student), dijaga unique index.
type AssignmentSubmissionModel struct {
	AssignmentSubmissionID           uuid.UUID  `json:"assignment_submission_id"            gorm:"column:assignment_submission_id;type:uuid;primaryKey"`
	AssignmentSubmissionAssignmentID uuid.UUID  `json:"assignment_submission_assignment_id" gorm:"column:assignment_submission_assignment_id;type:uuid;not null;uniqueIndex:uq_assignment_submission_student,priority:1"`
	AssignmentSubmissionStudentUID   string     `json:"assignment_submission_student_uid"   gorm:"column:assignment_submission_student_uid;type:varchar(128);not null;uniqueIndex:uq_assignment_submission_student,priority:2;index:idx_assignment_submission_student"`
	AssignmentSubmissionFileURL      string     `json:"assignment_submission_file_url"      gorm:"column:assignment_submission_file_url;type:text;not null"`
	AssignmentSubmissionSubmittedAt  time.Time  `json:"assignment_submission_submitted_at"  gorm:"column:assignment_submission_submitted_at;not null"`
	AssignmentSubmissionGrade        *float64   `json:"assignment_submission_grade,omitempty"    gorm:"column:assignment_submission_grade"`
	AssignmentSubmissionFeedback     *string    `json:"assignment_submission_feedback,omitempty" gorm:"column:assignment_submission_feedback;type:text"`
	AssignmentSubmissionGradedAt     *time.Time `json:"assignment_submission_graded_at,omitempty" gorm:"column:assignment_submission_graded_at"`
}

func (AssignmentSubmissionModel) TableName() string { return "assignment_submissions" }

func (m *AssignmentSubmissionModel) BeforeCreate(tx *gorm.DB) error {
	if m.AssignmentSubmissionID == uuid.Nil {
		m.AssignmentSubmissionID = uuid.New()
	}
	return nil
}
