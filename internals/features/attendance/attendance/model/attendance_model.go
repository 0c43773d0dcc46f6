package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AttendanceStatusPresent = "present"
	AttendanceStatusAbsent  = "absent"
	AttendanceStatusLate    = "late"
	AttendanceStatusExcused = "excused"

	// Hanya untuk tampilan (daily sheet / laporan); tidak pernah disimpan.
	AttendanceStatusNotMarked = "not marked"
)

var AttendanceStatuses = []string{
	AttendanceStatusPresent,
	AttendanceStatusAbsent,
	AttendanceStatusLate,
	AttendanceStatusExcused,
}

func IsValidStatus(s string) bool {
	for _, v := range AttendanceStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// AttendanceModel: satu record per (course, student, hari). Tanggal disimpan sebagai
// tengah malam UTC dari hari kalender lokal.
type AttendanceModel struct {
	AttendanceID         uuid.UUID `json:"attendance_id"          gorm:"column:attendance_id;type:uuid;primaryKey"`
	AttendanceCourseID   uuid.UUID `json:"attendance_course_id"   gorm:"column:attendance_course_id;type:uuid;not null;uniqueIndex:uq_attendance_course_student_date,priority:1"`
	AttendanceStudentUID string    `json:"attendance_student_uid" gorm:"column:attendance_student_uid;type:varchar(128);not null;uniqueIndex:uq_attendance_course_student_date,priority:2;index:idx_attendance_student"`
	AttendanceDate       time.Time `json:"attendance_date"        gorm:"column:attendance_date;type:date;not null;uniqueIndex:uq_attendance_course_student_date,priority:3"`
	AttendanceStatus     string    `json:"attendance_status"      gorm:"column:attendance_status;type:varchar(10);not null"`
	AttendanceMarkedBy   string    `json:"attendance_marked_by"   gorm:"column:attendance_marked_by;type:varchar(128);not null"`
	AttendanceNotes      *string   `json:"attendance_notes,omitempty" gorm:"column:attendance_notes;type:text"`
	AttendanceCreatedAt  time.Time `json:"attendance_created_at"  gorm:"column:attendance_created_at;autoCreateTime"`
	AttendanceUpdatedAt  time.Time `json:"attendance_updated_at"  gorm:"column:attendance_updated_at;autoUpdateTime"`
}

func (AttendanceModel) TableName() string { return "attendance" }

func (m *AttendanceModel) BeforeCreate(tx *gorm.DB) error {
	if m.AttendanceID == uuid.Nil {
		m.AttendanceID = uuid.New()
	}
	return nil
}
