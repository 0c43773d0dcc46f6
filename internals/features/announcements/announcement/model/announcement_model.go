package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// AnnouncementModel menyimpan referensi course (nullable) dan judul course.
// Baris lama hanya punya judul; pencocokan by title tetap didukung.
type AnnouncementModel struct {
	AnnouncementID          uuid.UUID  `json:"announcement_id"           gorm:"column:announcement_id;type:uuid;primaryKey"`
	AnnouncementTitle       string     `json:"announcement_title"        gorm:"column:announcement_title;type:varchar(200);not null"`
	AnnouncementContent     string     `json:"announcement_content"      gorm:"column:announcement_content;type:text;not null"`
	AnnouncementCourseID    *uuid.UUID `json:"announcement_course_id,omitempty" gorm:"column:announcement_course_id;type:uuid;index:idx_announcement_course"`
	AnnouncementCourseTitle string     `json:"announcement_course_title" gorm:"column:announcement_course_title;type:varchar(200);not null;index:idx_announcement_course_title"`
	AnnouncementInstructor  string     `json:"announcement_instructor"   gorm:"column:announcement_instructor;type:varchar(100);not null"`
	AnnouncementPriority    string     `json:"announcement_priority"     gorm:"column:announcement_priority;type:varchar(10);not null;default:'Medium'"`
	AnnouncementCreatedBy   string     `json:"announcement_created_by"   gorm:"column:announcement_created_by;type:varchar(128);not null"`
	AnnouncementCreatedAt   time.Time  `json:"announcement_created_at"   gorm:"column:announcement_created_at;autoCreateTime;index:idx_announcement_created_at"`
	AnnouncementUpdatedAt   time.Time  `json:"announcement_updated_at"   gorm:"column:announcement_updated_at;autoUpdateTime"`
}

func (AnnouncementModel) TableName() string { return "announcements" }

func (m *AnnouncementModel) BeforeCreate(tx *gorm.DB) error {
	if m.AnnouncementID == uuid.Nil {
		m.AnnouncementID = uuid.New()
	}
	if m.AnnouncementPriority == "" {
		m.AnnouncementPriority = PriorityMedium
	}
	return nil
}
