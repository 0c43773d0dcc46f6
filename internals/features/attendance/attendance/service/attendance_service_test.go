package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	database "learnx_backend/internals/databases"
	dto "learnx_backend/internals/features/attendance/attendance/dto"
	model "learnx_backend/internals/features/attendance/attendance/model"
	courseDTO "learnx_backend/internals/features/courses/course/dto"
	courseModel "learnx_backend/internals/features/courses/course/model"
	courseService "learnx_backend/internals/features/courses/course/service"
	userModel "learnx_backend/internals/features/users/user/model"
	helper "learnx_backend/internals/helpers"
	helperOSS "learnx_backend/internals/helpers/oss"
)

type fixture struct {
	db     *gorm.DB
	svc    *AttendanceService
	ctx    context.Context
	course *courseModel.CourseModel
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := database.NewTestDB(t)
	f := &fixture{db: db, svc: NewAttendanceService(db), ctx: context.Background()}

	roll := "A-01"
	users := []userModel.UserModel{
		{UID: "teacher-1", Role: "teacher", Name: "Teacher One"},
		{UID: "teacher-2", Role: "teacher", Name: "Teacher Two"},
		{UID: "student-1", Role: "student", Name: "Student One", RollNumber: &roll},
		{UID: "student-2", Role: "student", Name: "Student Two"},
		{UID: "student-3", Role: "student", Name: "Student Three"},
	}
	for i := range users {
		require.NoError(t, db.Create(&users[i]).Error)
	}

	code := "CS101X"
	cs := courseService.NewCourseService(db, helperOSS.NewMemoryBlobService())
	c, err := cs.Create(f.ctx, "teacher-1", "teacher", courseDTO.CreateCourseRequest{CourseTitle: "CS101", CourseCode: &code}, nil)
	require.NoError(t, err)
	f.course = c
	for _, sid := range []string{"student-1", "student-2"} {
		_, _, err = cs.Enroll(f.ctx, c.CourseID, sid, "student")
		require.NoError(t, err)
	}
	return f
}

func (f *fixture) mark(t *testing.T, student, date, status string) *model.AttendanceModel {
	t.Helper()
	rec, err := f.svc.Mark(f.ctx, "teacher-1", dto.MarkRequest{
		CourseID: f.course.CourseID.String(), StudentID: student, Date: date, Status: status,
	})
	require.NoError(t, err)
	return rec
}

func TestMarkTwiceSameDayUpserts(t *testing.T) {
	f := newFixture(t)
	first := f.mark(t, "student-1", "2024-03-01", "present")

	notes := "bus delay"
	second, err := f.svc.Mark(f.ctx, "teacher-1", dto.MarkRequest{
		CourseID: f.course.CourseID.String(), StudentID: "student-1",
		Date: "2024-03-01T15:30:00Z", Status: "LATE", Notes: &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, first.AttendanceID, second.AttendanceID)
	assert.Equal(t, "late", second.AttendanceStatus)
	require.NotNil(t, second.AttendanceNotes)
	assert.Equal(t, "bus delay", *second.AttendanceNotes)

	var n int64
	require.NoError(t, f.db.Model(&model.AttendanceModel{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	rep, err := f.svc.Report(f.ctx, f.course.CourseID, "teacher-1", dto.ReportQuery{StartDate: "2024-03-01", EndDate: "2024-03-01"})
	require.NoError(t, err)
	assert.Equal(t, 100.0, rep.Summary.Percentage)
	assert.Equal(t, 1, rep.Summary.Late)
	assert.Equal(t, 1, rep.Summary.Total)
	require.Len(t, rep.Records, 1)
	assert.Equal(t, "Student One", rep.Records[0].StudentName)
	require.NotNil(t, rep.Records[0].RollNumber)
	assert.Equal(t, "A-01", *rep.Records[0].RollNumber)
	assert.Equal(t, "2024-03-01", rep.Records[0].AttendanceDate)
}

func TestMarkRules(t *testing.T) {
	f := newFixture(t)
	base := dto.MarkRequest{CourseID: f.course.CourseID.String(), StudentID: "student-1", Date: "2024-03-01", Status: "present"}

	tests := []struct {
		name    string
		uid     string
		mutate  func(r *dto.MarkRequest)
		wantErr error
	}{
		{"not creator", "teacher-2", func(r *dto.MarkRequest) {}, helper.ErrForbidden},
		{"unknown course", "teacher-1", func(r *dto.MarkRequest) { r.CourseID = uuid.NewString() }, helper.ErrNotFound},
		{"not enrolled", "teacher-1", func(r *dto.MarkRequest) { r.StudentID = "student-3" }, helper.ErrValidation},
		{"bad status", "teacher-1", func(r *dto.MarkRequest) { r.Status = "not marked" }, helper.ErrValidation},
		{"bad date", "teacher-1", func(r *dto.MarkRequest) { r.Date = "03/01/2024" }, helper.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			_, err := f.svc.Mark(f.ctx, tt.uid, req)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestBulkPartialFailure(t *testing.T) {
	f := newFixture(t)
	results, err := f.svc.Bulk(f.ctx, "teacher-1", dto.BulkMarkRequest{
		CourseID:   f.course.CourseID.String(),
		StudentIDs: []string{"student-1", "student-3", "student-2", "student-1"},
		Date:       "2024-03-02",
		Status:     "absent",
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].Success)
	assert.Equal(t, "absent", results[0].Status)
	assert.False(t, results[1].Success)
	assert.Equal(t, "student-3", results[1].StudentID)
	assert.True(t, results[2].Success)

	var n int64
	require.NoError(t, f.db.Model(&model.AttendanceModel{}).Count(&n).Error)
	assert.Equal(t, int64(2), n)

	_, err = f.svc.Bulk(f.ctx, "teacher-2", dto.BulkMarkRequest{
		CourseID: f.course.CourseID.String(), StudentIDs: []string{"student-1"}, Date: "2024-03-02", Status: "absent",
	})
	assert.True(t, errors.Is(err, helper.ErrForbidden))
}

func TestSummarize(t *testing.T) {
	rec := func(s string) model.AttendanceModel { return model.AttendanceModel{AttendanceStatus: s} }

	assert.Equal(t, dto.Summary{}, Summarize(nil))

	sum := Summarize([]model.AttendanceModel{rec("present"), rec("late"), rec("absent")})
	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 66.67, sum.Percentage)

	sum = Summarize([]model.AttendanceModel{rec("excused"), rec("absent")})
	assert.Equal(t, 0.0, sum.Percentage)
	assert.Equal(t, 1, sum.Excused)
}

func TestReportStudentSelfFilter(t *testing.T) {
	f := newFixture(t)
	f.mark(t, "student-1", "2024-03-01", "present")
	f.mark(t, "student-2", "2024-03-01", "absent")
	f.mark(t, "student-2", "2024-03-05", "present")

	rep, err := f.svc.Report(f.ctx, f.course.CourseID, "student-1", dto.ReportQuery{StudentID: "student-2"})
	require.NoError(t, err)
	require.Len(t, rep.Records, 1)
	assert.Equal(t, "student-1", rep.Records[0].AttendanceStudentUID)
	require.Len(t, rep.Students, 1)

	all, err := f.svc.Report(f.ctx, f.course.CourseID, "teacher-1", dto.ReportQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Summary.Total)
	require.Len(t, all.Students, 2)
	assert.Equal(t, "student-2", all.Students[1].StudentID)
	assert.Equal(t, 50.0, all.Students[1].Percentage)

	ranged, err := f.svc.Report(f.ctx, f.course.CourseID, "teacher-1", dto.ReportQuery{StartDate: "2024-03-02"})
	require.NoError(t, err)
	assert.Equal(t, 1, ranged.Summary.Total)

	_, err = f.svc.Report(f.ctx, f.course.CourseID, "student-3", dto.ReportQuery{})
	assert.True(t, errors.Is(err, helper.ErrForbidden))
}

func TestReportWithoutRecordsIsZero(t *testing.T) {
	f := newFixture(t)
	rep, err := f.svc.Report(f.ctx, f.course.CourseID, "teacher-1", dto.ReportQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, rep.Summary.Percentage)
	assert.Empty(t, rep.Records)
}

func TestDailySheet(t *testing.T) {
	f := newFixture(t)
	f.mark(t, "student-2", "2024-03-01", "excused")

	sheet, err := f.svc.DailySheet(f.ctx, f.course.CourseID, "teacher-1", "2024-03-01")
	require.NoError(t, err)
	require.Len(t, sheet, 2)
	assert.Equal(t, "student-1", sheet[0].StudentID)
	assert.Equal(t, model.AttendanceStatusNotMarked, sheet[0].Status)
	assert.Nil(t, sheet[0].AttendanceID)
	assert.Equal(t, "excused", sheet[1].Status)
	assert.NotNil(t, sheet[1].AttendanceID)

	_, err = f.svc.DailySheet(f.ctx, f.course.CourseID, "student-1", "2024-03-01")
	assert.True(t, errors.Is(err, helper.ErrForbidden))
}

func TestStudentRecordsAndDelete(t *testing.T) {
	f := newFixture(t)
	rec := f.mark(t, "student-1", "2024-03-01", "present")

	own, err := f.svc.StudentRecords(f.ctx, f.course.CourseID, "student-1", "student-1")
	require.NoError(t, err)
	require.Len(t, own.Records, 1)
	assert.Equal(t, "Student One", own.StudentName)

	_, err = f.svc.StudentRecords(f.ctx, f.course.CourseID, "student-1", "student-2")
	assert.True(t, errors.Is(err, helper.ErrForbidden))

	_, err = f.svc.StudentRecords(f.ctx, f.course.CourseID, "student-1", "teacher-1")
	require.NoError(t, err)

	assert.True(t, errors.Is(f.svc.Delete(f.ctx, rec.AttendanceID, "teacher-2"), helper.ErrForbidden))
	require.NoError(t, f.svc.Delete(f.ctx, rec.AttendanceID, "teacher-1"))
	assert.True(t, errors.Is(f.svc.Delete(f.ctx, rec.AttendanceID, "teacher-1"), helper.ErrNotFound))
}

func TestRangeDays(t *testing.T) {
	days, err := RangeDays("2024-02-28", "2024-03-01")
	require.NoError(t, err)
	require.Len(t, days, 3)

	tests := []struct {
		name       string
		start, end string
	}{
		{"reversed", "2024-03-02", "2024-03-01"},
		{"over limit", "2024-01-01", "2024-03-03"},
		{"whole calendar", "0001-01-01", "9999-12-31"},
		{"bad start", "01/01/2024", "2024-01-02"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, err := RangeDays(tt.start, tt.end)
			assert.True(t, errors.Is(err, helper.ErrValidation), "got %v", err)
			assert.Nil(t, days)
		})
	}

	days, err = RangeDays("2024-01-01", "2024-03-02")
	require.NoError(t, err)
	assert.Len(t, days, MaxRangeDays)
}
