package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dto "learnx_backend/internals/features/attendance/attendance/dto"
	model "learnx_backend/internals/features/attendance/attendance/model"
	courseService "learnx_backend/internals/features/courses/course/service"
	userModel "learnx_backend/internals/features/users/user/model"
	userService "learnx_backend/internals/features/users/user/service"
	helper "learnx_backend/internals/helpers"
	"learnx_backend/internals/helpers/dbtime"
)

// MaxRangeDays: batas jumlah hari untuk mark-range.
const MaxRangeDays = 62

type AttendanceService struct {
	DB *gorm.DB
}

func NewAttendanceService(db *gorm.DB) *AttendanceService {
	return &AttendanceService{DB: db}
}

func parseDay(field, s string) (time.Time, error) {
	d, err := dbtime.ParseDay(s)
	if err != nil {
		return time.Time{}, helper.ErrValidation.WithMessage("%s must be YYYY-MM-DD or RFC3339", field)
	}
	return d, nil
}

// RangeDays memvalidasi start/end mark-range dan mengembalikan hari-harinya.
// Batas MaxRangeDays dicek sebelum slice dibangun.
func RangeDays(startDate, endDate string) ([]time.Time, error) {
	start, err := parseDay("start_date", startDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDay("end_date", endDate)
	if err != nil {
		return nil, err
	}
	n := dbtime.DayCount(start, end)
	if n == 0 {
		return nil, helper.Validation("end_date must not be before start_date")
	}
	if n > MaxRangeDays {
		return nil, helper.Validation("Date range cannot exceed %d days", MaxRangeDays)
	}
	return dbtime.DaysBetween(start, end, MaxRangeDays), nil
}

/* =========================
   MARK
   ========================= */

// Mark: creator saja; student harus terdaftar. Upsert per (course, student, hari).
func (s *AttendanceService) Mark(ctx context.Context, uid string, req dto.MarkRequest) (*model.AttendanceModel, error) {
	req.Normalize()
	if err := helper.Validate(&req); err != nil {
		return nil, err
	}
	day, err := parseDay("date", req.Date)
	if err != nil {
		return nil, err
	}

	c, err := courseService.LoadForWrite(ctx, s.DB, uuid.MustParse(req.CourseID), uid)
	if err != nil {
		return nil, err
	}
	ok, err := courseService.IsEnrolled(ctx, s.DB, c.CourseID, req.StudentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, helper.Validation("Student is not enrolled in this course")
	}
	return s.upsert(ctx, c.CourseID, req.StudentID, day, req.Status, req.Notes, uid)
}

// Bulk: status seragam untuk semua student. Kegagalan per student tidak
// membatalkan student lain; hasil dikembalikan per student.
func (s *AttendanceService) Bulk(ctx context.Context, uid string, req dto.BulkMarkRequest) ([]dto.MarkResult, error) {
	req.Normalize()
	if err := helper.Validate(&req); err != nil {
		return nil, err
	}
	day, err := parseDay("date", req.Date)
	if err != nil {
		return nil, err
	}

	c, err := courseService.LoadForWrite(ctx, s.DB, uuid.MustParse(req.CourseID), uid)
	if err != nil {
		return nil, err
	}
	enrolled, err := courseService.EnrolledUIDs(ctx, s.DB, c.CourseID)
	if err != nil {
		return nil, err
	}
	isEnrolled := make(map[string]bool, len(enrolled))
	for _, e := range enrolled {
		isEnrolled[e] = true
	}

	results := make([]dto.MarkResult, 0, len(req.StudentIDs))
	for _, sid := range req.StudentIDs {
		if !isEnrolled[sid] {
			results = append(results, dto.MarkResult{StudentID: sid, Message: "Student is not enrolled in this course"})
			continue
		}
		rec, err := s.upsert(ctx, c.CourseID, sid, day, req.Status, req.Notes, uid)
		if err != nil {
			results = append(results, dto.MarkResult{StudentID: sid, Message: "Failed to mark attendance"})
			continue
		}
		results = append(results, dto.MarkResult{StudentID: sid, Success: true, Message: "Attendance marked", Status: rec.AttendanceStatus})
	}
	return results, nil
}

func (s *AttendanceService) upsert(ctx context.Context, courseID uuid.UUID, studentUID string, day time.Time, status string, notes *string, markedBy string) (*model.AttendanceModel, error) {
	rec := &model.AttendanceModel{
		AttendanceCourseID:   courseID,
		AttendanceStudentUID: studentUID,
		AttendanceDate:       day,
		AttendanceStatus:     status,
		AttendanceMarkedBy:   markedBy,
		AttendanceNotes:      notes,
	}
	db := s.DB.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "attendance_course_id"},
			{Name: "attendance_student_uid"},
			{Name: "attendance_date"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"attendance_status", "attendance_notes", "attendance_marked_by", "attendance_updated_at",
		}),
	}).Create(rec).Error
	if err != nil {
		return nil, helper.StoreFailure(err)
	}

	// id hasil BeforeCreate tidak berlaku kalau yang terjadi update; baca ulang by key.
	var out model.AttendanceModel
	if err := db.Where("attendance_course_id = ? AND attendance_student_uid = ? AND attendance_date = ?",
		courseID, studentUID, day).First(&out).Error; err != nil {
		return nil, helper.StoreFailure(err)
	}
	return &out, nil
}

/* =========================
   READ
   ========================= */

// Summarize menghitung jumlah per status dan persentase (present+late)/total*100,
// 0 bila tidak ada record. Dibulatkan 2 desimal.
func Summarize(records []model.AttendanceModel) dto.Summary {
	var sum dto.Summary
	for _, r := range records {
		switch r.AttendanceStatus {
		case model.AttendanceStatusPresent:
			sum.Present++
		case model.AttendanceStatusAbsent:
			sum.Absent++
		case model.AttendanceStatusLate:
			sum.Late++
		case model.AttendanceStatusExcused:
			sum.Excused++
		default:
			continue
		}
		sum.Total++
	}
	if sum.Total > 0 {
		p := float64(sum.Present+sum.Late) / float64(sum.Total) * 100
		sum.Percentage = math.Round(p*100) / 100
	}
	return sum
}

// Report: creator melihat semua (filter student_id opsional); student dipaksa
// hanya ke record miliknya sendiri.
func (s *AttendanceService) Report(ctx context.Context, courseID uuid.UUID, uid string, q dto.ReportQuery) (*dto.ReportResponse, error) {
	c, acc, err := courseService.LoadForRead(ctx, s.DB, courseID, uid)
	if err != nil {
		return nil, err
	}

	studentUID := q.StudentID
	if !acc.IsCreator {
		studentUID = uid
	}

	tx := s.DB.WithContext(ctx).Where("attendance_course_id = ?", c.CourseID)
	out := &dto.ReportResponse{CourseID: c.CourseID, CourseTitle: c.CourseTitle}
	if q.StartDate != "" {
		d, err := parseDay("start_date", q.StartDate)
		if err != nil {
			return nil, err
		}
		tx = tx.Where("attendance_date >= ?", d)
		out.StartDate = dbtime.FormatDay(d)
	}
	if q.EndDate != "" {
		d, err := parseDay("end_date", q.EndDate)
		if err != nil {
			return nil, err
		}
		tx = tx.Where("attendance_date <= ?", d)
		out.EndDate = dbtime.FormatDay(d)
	}
	if studentUID != "" {
		tx = tx.Where("attendance_student_uid = ?", studentUID)
	}

	var rows []model.AttendanceModel
	if err := tx.Order("attendance_date ASC, attendance_student_uid ASC").Find(&rows).Error; err != nil {
		return nil, helper.StoreFailure(err)
	}

	users, err := s.students(ctx, rows)
	if err != nil {
		return nil, err
	}

	out.Summary = Summarize(rows)
	out.Records = s.hydrate(rows, users)

	byStudent := map[string][]model.AttendanceModel{}
	for _, r := range rows {
		byStudent[r.AttendanceStudentUID] = append(byStudent[r.AttendanceStudentUID], r)
	}
	out.Students = make([]dto.StudentSummary, 0, len(byStudent))
	for sid, recs := range byStudent {
		ss := dto.StudentSummary{StudentID: sid, Summary: Summarize(recs)}
		if u := users[sid]; u != nil {
			ss.StudentName = u.DisplayName()
			ss.RollNumber = u.RollNumber
		}
		out.Students = append(out.Students, ss)
	}
	sort.Slice(out.Students, func(i, j int) bool {
		return out.Students[i].StudentID < out.Students[j].StudentID
	})
	return out, nil
}

// DailySheet: creator saja; semua student terdaftar, yang belum ada record
// ditampilkan "not marked".
func (s *AttendanceService) DailySheet(ctx context.Context, courseID uuid.UUID, uid, date string) ([]dto.SheetEntry, error) {
	day, err := parseDay("date", date)
	if err != nil {
		return nil, err
	}
	c, err := courseService.LoadForWrite(ctx, s.DB, courseID, uid)
	if err != nil {
		return nil, err
	}

	enrolled, err := courseService.EnrolledUIDs(ctx, s.DB, c.CourseID)
	if err != nil {
		return nil, err
	}
	var rows []model.AttendanceModel
	if err := s.DB.WithContext(ctx).
		Where("attendance_course_id = ? AND attendance_date = ?", c.CourseID, day).
		Find(&rows).Error; err != nil {
		return nil, helper.StoreFailure(err)
	}
	byStudent := make(map[string]*model.AttendanceModel, len(rows))
	for i := range rows {
		byStudent[rows[i].AttendanceStudentUID] = &rows[i]
	}

	users, err := userService.FindByUIDs(ctx, s.DB, enrolled)
	if err != nil {
		return nil, err
	}

	out := make([]dto.SheetEntry, 0, len(enrolled))
	for _, sid := range enrolled {
		e := dto.SheetEntry{StudentID: sid, Status: model.AttendanceStatusNotMarked}
		if u := users[sid]; u != nil {
			e.StudentName = u.DisplayName()
			e.RollNumber = u.RollNumber
		}
		if r := byStudent[sid]; r != nil {
			id := r.AttendanceID
			e.AttendanceID = &id
			e.Status = r.AttendanceStatus
			e.Notes = r.AttendanceNotes
		}
		out = append(out, e)
	}
	return out, nil
}

// StudentRecords: creator course, atau student itu sendiri (harus terdaftar).
func (s *AttendanceService) StudentRecords(ctx context.Context, courseID uuid.UUID, studentUID, uid string) (*dto.StudentRecordsResponse, error) {
	c, err := courseService.Load(ctx, s.DB, courseID)
	if err != nil {
		return nil, err
	}
	if !courseService.IsCreator(c, uid) {
		if uid != studentUID {
			return nil, helper.ErrForbidden.WithMessage("You can only view your own attendance")
		}
		ok, err := courseService.IsEnrolled(ctx, s.DB, c.CourseID, uid)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, helper.ErrForbidden.WithMessage("You are not enrolled in this course")
		}
	}

	var rows []model.AttendanceModel
	if err := s.DB.WithContext(ctx).
		Where("attendance_course_id = ? AND attendance_student_uid = ?", c.CourseID, studentUID).
		Order("attendance_date ASC").
		Find(&rows).Error; err != nil {
		return nil, helper.StoreFailure(err)
	}
	users, err := userService.FindByUIDs(ctx, s.DB, []string{studentUID})
	if err != nil {
		return nil, err
	}

	out := &dto.StudentRecordsResponse{
		CourseID:  c.CourseID,
		StudentID: studentUID,
		Summary:   Summarize(rows),
		Records:   s.hydrate(rows, users),
	}
	if u := users[studentUID]; u != nil {
		out.StudentName = u.DisplayName()
	}
	return out, nil
}

/* =========================
   DELETE
   ========================= */

func (s *AttendanceService) Delete(ctx context.Context, id uuid.UUID, uid string) error {
	var rec model.AttendanceModel
	if err := s.DB.WithContext(ctx).First(&rec, "attendance_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.NotFound("Attendance record")
		}
		return helper.StoreFailure(err)
	}
	if _, err := courseService.LoadForWrite(ctx, s.DB, rec.AttendanceCourseID, uid); err != nil {
		return err
	}
	if err := s.DB.WithContext(ctx).Delete(&model.AttendanceModel{}, "attendance_id = ?", rec.AttendanceID).Error; err != nil {
		return helper.StoreFailure(err)
	}
	return nil
}

/* =========================
   helpers
   ========================= */

func (s *AttendanceService) students(ctx context.Context, rows []model.AttendanceModel) (map[string]*userModel.UserModel, error) {
	uids := make([]string, 0, len(rows))
	for _, r := range rows {
		uids = append(uids, r.AttendanceStudentUID)
	}
	return userService.FindByUIDs(ctx, s.DB, uids)
}

func (s *AttendanceService) hydrate(rows []model.AttendanceModel, users map[string]*userModel.UserModel) []dto.AttendanceResponse {
	out := make([]dto.AttendanceResponse, 0, len(rows))
	for i := range rows {
		r := dto.ToAttendanceResponse(&rows[i])
		if u := users[rows[i].AttendanceStudentUID]; u != nil {
			r.StudentName = u.DisplayName()
			r.RollNumber = u.RollNumber
		}
		out = append(out, r)
	}
	return out
}
