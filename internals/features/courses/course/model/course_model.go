package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	CourseStatusActive   = "active"
	CourseStatusInactive = "inactive"
)

type CourseModel struct {
	CourseID          uuid.UUID      `json:"course_id"           gorm:"column:course_id;type:uuid;primaryKey"`
	CourseTitle       string         `json:"course_title"        gorm:"column:course_title;type:varchar(200);not null;index:idx_course_title"`
	CourseCode        *string        `json:"course_code,omitempty" gorm:"column:course_code;type:varchar(40);index:idx_course_code"`
	CourseDescription *string        `json:"course_description,omitempty" gorm:"column:course_description;type:text"`
	CourseThumbnail   string         `json:"course_thumbnail"    gorm:"column:course_thumbnail;type:text;not null"`
	CourseCategory    *string        `json:"course_category,omitempty" gorm:"column:course_category;type:varchar(100);index:idx_course_category"`
	CourseStatus      string         `json:"course_status"       gorm:"column:course_status;type:varchar(20);not null;default:'active';index:idx_course_status"`
	CourseTags        datatypes.JSON `json:"course_tags"         gorm:"column:course_tags"`
	CourseCreatedBy   string         `json:"course_created_by"   gorm:"column:course_created_by;type:varchar(128);not null;index:idx_course_created_by"`
	CourseCreatedAt   time.Time      `json:"course_created_at"   gorm:"column:course_created_at;autoCreateTime"`
	CourseUpdatedAt   time.Time      `json:"course_updated_at"   gorm:"column:course_updated_at;autoUpdateTime"`

	Materials []CourseMaterialModel `json:"-" gorm:"foreignKey:CourseMaterialCourseID;references:CourseID;constraint:OnDelete:CASCADE"`
}

func (CourseModel) TableName() string { return "courses" }

func (m *CourseModel) BeforeCreate(tx *gorm.DB) error {
	if m.CourseID == uuid.Nil {
		m.CourseID = uuid.New()
	}
	if m.CourseStatus == "" {
		m.CourseStatus = CourseStatusActive
	}
	if len(m.CourseTags) == 0 {
		m.CourseTags = datatypes.JSON("[]")
	}
	return nil
}

func (m *CourseModel) IsActive() bool { return m.CourseStatus == CourseStatusActive }

// Tags decode kolom JSON; data rusak dianggap kosong.
func (m *CourseModel) Tags() []string {
	out := []string{}
	if len(m.CourseTags) == 0 {
		return out
	}
	_ = json.Unmarshal(m.CourseTags, &out)
	if out == nil {
		out = []string{}
	}
	return out
}

func (m *CourseModel) SetTags(tags []string) {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	m.CourseTags = datatypes.JSON(b)
}

// CourseMaterialModel: child milik course; selalu diakses lewat course_id.
type CourseMaterialModel struct {
	CourseMaterialID         uuid.UUID `json:"course_material_id"          gorm:"column:course_material_id;type:uuid;primaryKey"`
	CourseMaterialCourseID   uuid.UUID `json:"course_material_course_id"   gorm:"column:course_material_course_id;type:uuid;not null;index:idx_course_material_course"`
	CourseMaterialTitle      string    `json:"course_material_title"       gorm:"column:course_material_title;type:varchar(200);not null"`
	CourseMaterialType       string    `json:"course_material_type"        gorm:"column:course_material_type;type:varchar(10);not null"`
	CourseMaterialURL        string    `json:"course_material_url"         gorm:"column:course_material_url;type:text;not null"`
	CourseMaterialTopic      *string   `json:"course_material_topic,omitempty" gorm:"column:course_material_topic;type:varchar(200)"`
	CourseMaterialUploadedAt time.Time `json:"course_material_uploaded_at" gorm:"column:course_material_uploaded_at;autoCreateTime"`
	CourseMaterialUpdatedAt  time.Time `json:"course_material_updated_at"  gorm:"column:course_material_updated_at;autoUpdateTime"`
}

func (CourseMaterialModel) TableName() string { return "course_materials" }

func (m *CourseMaterialModel) BeforeCreate(tx *gorm.DB) error {
	if m.CourseMaterialID == uuid.Nil {
		m.CourseMaterialID = uuid.New()
	}
	return nil
}

// CourseEnrollmentModel: satu baris per (course, student).
type CourseEnrollmentModel struct {
	CourseEnrollmentID         uuid.UUID `json:"course_enrollment_id"          gorm:"column:course_enrollment_id;type:uuid;primaryKey"`
	CourseEnrollmentCourseID   uuid.UUID `json:"course_enrollment_course_id"   gorm:"column:course_enrollment_course_id;type:uuid;not null;uniqueIndex:uq_course_enrollment,priority:1"`
	CourseEnrollmentStudentUID string    `json:"course_enrollment_student_uid" gorm:"column:course_enrollment_student_uid;type:varchar(128);not null;uniqueIndex:uq_course_enrollment,priority:2;index:idx_course_enrollment_student"`
	CourseEnrollmentCreatedAt  time.Time `json:"course_enrollment_created_at"  gorm:"column:course_enrollment_created_at;autoCreateTime"`

	Course *CourseModel `json:"-" gorm:"foreignKey:CourseEnrollmentCourseID;references:CourseID;constraint:OnDelete:CASCADE"`
}

func (CourseEnrollmentModel) TableName() string { return "course_enrollments" }

func (m *CourseEnrollmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.CourseEnrollmentID == uuid.Nil {
		m.CourseEnrollmentID = uuid.New()
	}
	return nil
}
