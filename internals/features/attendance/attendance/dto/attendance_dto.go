package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	model "learnx_backend/internals/features/attendance/attendance/model"
	"learnx_backend/internals/helpers/dbtime"
)

/* =========================
   REQUEST
   ========================= */

type MarkRequest struct {
	CourseID  string  `json:"course_id"  validate:"required,uuid"`
	StudentID string  `json:"student_id" validate:"required,max=128"`
	Date      string  `json:"date"       validate:"required"`
	Status    string  `json:"status"     validate:"required,oneof=present absent late excused"`
	Notes     *string `json:"notes"      validate:"omitempty,max=1000"`
}

func (r *MarkRequest) Normalize() {
	r.CourseID = strings.TrimSpace(r.CourseID)
	r.StudentID = strings.TrimSpace(r.StudentID)
	r.Date = strings.TrimSpace(r.Date)
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	r.Notes = trimPtr(r.Notes)
}

// BulkMarkRequest: satu status seragam untuk semua student_ids.
type BulkMarkRequest struct {
	CourseID   string   `json:"course_id"   validate:"required,uuid"`
	StudentIDs []string `json:"student_ids" validate:"required,min=1,max=500,dive,required"`
	Date       string   `json:"date"        validate:"required"`
	Status     string   `json:"status"      validate:"required,oneof=present absent late excused"`
	Notes      *string  `json:"notes"       validate:"omitempty,max=1000"`
}

func (r *BulkMarkRequest) Normalize() {
	r.CourseID = strings.TrimSpace(r.CourseID)
	r.Date = strings.TrimSpace(r.Date)
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	r.Notes = trimPtr(r.Notes)
	r.StudentIDs = dedupe(r.StudentIDs)
}

// RangeMarkRequest: dipecah per hari menjadi BulkMarkRequest.
type RangeMarkRequest struct {
	CourseID   string   `json:"course_id"   validate:"required,uuid"`
	StudentIDs []string `json:"student_ids" validate:"required,min=1,max=500,dive,required"`
	StartDate  string   `json:"start_date"  validate:"required"`
	EndDate    string   `json:"end_date"    validate:"required"`
	Status     string   `json:"status"      validate:"required,oneof=present absent late excused"`
	Notes      *string  `json:"notes"       validate:"omitempty,max=1000"`
}

func (r *RangeMarkRequest) Normalize() {
	r.CourseID = strings.TrimSpace(r.CourseID)
	r.StartDate = strings.TrimSpace(r.StartDate)
	r.EndDate = strings.TrimSpace(r.EndDate)
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	r.Notes = trimPtr(r.Notes)
	r.StudentIDs = dedupe(r.StudentIDs)
}

func (r *RangeMarkRequest) ForDay(day time.Time) BulkMarkRequest {
	return BulkMarkRequest{
		CourseID:   r.CourseID,
		StudentIDs: r.StudentIDs,
		Date:       dbtime.FormatDay(day),
		Status:     r.Status,
		Notes:      r.Notes,
	}
}

type ReportQuery struct {
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
	StudentID string `query:"student_id"`
}

/* =========================
   RESPONSE
   ========================= */

type AttendanceResponse struct {
	AttendanceID         uuid.UUID `json:"attendance_id"`
	AttendanceCourseID   uuid.UUID `json:"attendance_course_id"`
	AttendanceStudentUID string    `json:"attendance_student_uid"`
	StudentName          string    `json:"student_name,omitempty"`
	RollNumber           *string   `json:"roll_number,omitempty"`
	AttendanceDate       string    `json:"attendance_date"`
	AttendanceStatus     string    `json:"attendance_status"`
	AttendanceMarkedBy   string    `json:"attendance_marked_by"`
	AttendanceNotes      *string   `json:"attendance_notes,omitempty"`
	AttendanceUpdatedAt  time.Time `json:"attendance_updated_at"`
}

func ToAttendanceResponse(m *model.AttendanceModel) AttendanceResponse {
	return AttendanceResponse{
		AttendanceID:         m.AttendanceID,
		AttendanceCourseID:   m.AttendanceCourseID,
		AttendanceStudentUID: m.AttendanceStudentUID,
		AttendanceDate:       dbtime.FormatDay(m.AttendanceDate),
		AttendanceStatus:     m.AttendanceStatus,
		AttendanceMarkedBy:   m.AttendanceMarkedBy,
		AttendanceNotes:      m.AttendanceNotes,
		AttendanceUpdatedAt:  m.AttendanceUpdatedAt,
	}
}

// MarkResult: hasil per student pada bulk mark.
type MarkResult struct {
	StudentID string `json:"student_id"`
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Status    string `json:"status,omitempty"`
}

type DayResult struct {
	Date    string       `json:"date"`
	Results []MarkResult `json:"results"`
}

type Summary struct {
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Late       int     `json:"late"`
	Excused    int     `json:"excused"`
	Total      int     `json:"total"`
	Percentage float64 `json:"attendance_percentage"`
}

type StudentSummary struct {
	StudentID   string  `json:"student_id"`
	StudentName string  `json:"student_name,omitempty"`
	RollNumber  *string `json:"roll_number,omitempty"`
	Summary
}

type ReportResponse struct {
	CourseID    uuid.UUID            `json:"course_id"`
	CourseTitle string               `json:"course_title"`
	StartDate   string               `json:"start_date,omitempty"`
	EndDate     string               `json:"end_date,omitempty"`
	Summary     Summary              `json:"summary"`
	Students    []StudentSummary     `json:"students"`
	Records     []AttendanceResponse `json:"records"`
}

// SheetEntry: satu baris daily sheet; status "not marked" bila belum ada record.
type SheetEntry struct {
	StudentID    string     `json:"student_id"`
	StudentName  string     `json:"student_name,omitempty"`
	RollNumber   *string    `json:"roll_number,omitempty"`
	AttendanceID *uuid.UUID `json:"attendance_id,omitempty"`
	Status       string     `json:"status"`
	Notes        *string    `json:"notes,omitempty"`
}

type StudentRecordsResponse struct {
	CourseID    uuid.UUID            `json:"course_id"`
	StudentID   string               `json:"student_id"`
	StudentName string               `json:"student_name,omitempty"`
	Summary     Summary              `json:"summary"`
	Records     []AttendanceResponse `json:"records"`
}

/* =========================
   helpers
   ========================= */

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

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
