package service

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	database "learnx_backend/internals/databases"
	dto "learnx_backend/internals/features/assignments/assignment/dto"
	model "learnx_backend/internals/features/assignments/assignment/model"
	courseDTO "learnx_backend/internals/features/courses/course/dto"
	courseModel "learnx_backend/internals/features/courses/course/model"
	courseService "learnx_backend/internals/features/courses/course/service"
	userModel "learnx_backend/internals/features/users/user/model"
	helper "learnx_backend/internals/helpers"
	helperOSS "learnx_backend/internals/helpers/oss"
)

type fixture struct {
	db     *gorm.DB
	blob   *helperOSS.MemoryBlobService
	svc    *AssignmentService
	ctx    context.Context
	course *courseModel.CourseModel
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := database.NewTestDB(t)
	blob := helperOSS.NewMemoryBlobService()
	f := &fixture{db: db, blob: blob, ctx: context.Background(),
		now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	f.svc = NewAssignmentService(db, blob)
	f.svc.Now = func() time.Time { return f.now }

	users := []userModel.UserModel{
		{UID: "teacher-1", Role: "teacher", Name: "Teacher One"},
		{UID: "teacher-2", Role: "teacher", Name: "Teacher Two"},
		{UID: "student-1", Role: "student", Name: "Student One"},
		{UID: "student-2", Role: "student", Name: "Student Two"},
	}
	for i := range users {
		require.NoError(t, db.Create(&users[i]).Error)
	}

	cs := courseService.NewCourseService(db, blob)
	c, err := cs.Create(f.ctx, "teacher-1", "teacher", courseDTO.CreateCourseRequest{CourseTitle: "CS101"}, nil)
	require.NoError(t, err)
	f.course = c
	_, _, err = cs.Enroll(f.ctx, c.CourseID, "student-1", "student")
	require.NoError(t, err)
	return f
}

func newFile(t *testing.T, name string) *multipart.FileHeader {
	t.Helper()
	h, err := helperOSS.NewFileHeader("file", name, []byte("content of "+name))
	require.NoError(t, err)
	return h
}

func (f *fixture) assignment(t *testing.T, due string) *model.AssignmentModel {
	t.Helper()
	a, err := f.svc.Create(f.ctx, "teacher-1", dto.CreateAssignmentRequest{
		AssignmentCourseID: f.course.CourseID.String(),
		AssignmentTitle:    "HW1",
		AssignmentDueDate:  due,
	}, newFile(t, "hw1.pdf"))
	require.NoError(t, err)
	return a
}

func (f *fixture) pendingCount(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&helperOSS.PendingObjectDeletion{}).Count(&n).Error)
	return n
}

func TestCreateAssignment(t *testing.T) {
	f := newFixture(t)
	a := f.assignment(t, "2024-03-10T00:00:00Z")

	assert.Equal(t, f.course.CourseID, a.AssignmentCourseID)
	assert.Equal(t, "teacher-1", a.AssignmentCreatedBy)
	assert.True(t, f.blob.Owns(a.AssignmentFileURL))
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), a.AssignmentDueDate)

	req := dto.CreateAssignmentRequest{
		AssignmentCourseID: f.course.CourseID.String(),
		AssignmentTitle:    "HW2",
		AssignmentDueDate:  "2024-03-10",
	}

	tests := []struct {
		name    string
		uid     string
		req     dto.CreateAssignmentRequest
		file    bool
		wantErr error
	}{
		{"not creator", "teacher-2", req, true, helper.ErrForbidden},
		{"missing file", "teacher-1", req, false, helper.ErrFileRequired},
		{"bad due date", "teacher-1", dto.CreateAssignmentRequest{
			AssignmentCourseID: req.AssignmentCourseID, AssignmentTitle: "x", AssignmentDueDate: "tomorrow"}, true, helper.ErrValidation},
		{"unknown course", "teacher-1", dto.CreateAssignmentRequest{
			AssignmentCourseID: uuid.NewString(), AssignmentTitle: "x", AssignmentDueDate: "2024-03-10"}, true, helper.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var file *multipart.FileHeader
			if tt.file {
				file = newFile(t, "x.pdf")
			}
			_, err := f.svc.Create(f.ctx, tt.uid, tt.req, file)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestSubmitAfterDeadline(t *testing.T) {
	f := newFixture(t)
	a := f.assignment(t, "2024-03-10T00:00:00Z")

	f.now = time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	_, err := f.svc.Submit(f.ctx, a.AssignmentID, "student-1", newFile(t, "late.pdf"))
	assert.True(t, errors.Is(err, helper.ErrDeadlinePassed), "got %v", err)

	subs, err := f.svc.Submissions(f.ctx, a.AssignmentID, "teacher-1")
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestSubmitRules(t *testing.T) {
	f := newFixture(t)
	a := f.assignment(t, "2024-03-10T00:00:00Z")

	_, err := f.svc.Submit(f.ctx, uuid.New(), "student-1", newFile(t, "a.pdf"))
	assert.True(t, errors.Is(err, helper.ErrNotFound))

	_, err = f.svc.Submit(f.ctx, a.AssignmentID, "student-2", newFile(t, "a.pdf"))
	assert.True(t, errors.Is(err, helper.ErrForbidden), "not enrolled")

	_, err = f.svc.Submit(f.ctx, a.AssignmentID, "student-1", nil)
	assert.True(t, errors.Is(err, helper.ErrFileRequired))

	// tepat di deadline masih diterima
	f.now = a.AssignmentDueDate
	sub, err := f.svc.Submit(f.ctx, a.AssignmentID, "student-1", newFile(t, "a.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "student-1", sub.AssignmentSubmissionStudentUID)
	assert.True(t, f.blob.Owns(sub.AssignmentSubmissionFileURL))

	uploads := f.blob.Count()
	_, err = f.svc.Submit(f.ctx, a.AssignmentID, "student-1", newFile(t, "again.pdf"))
	assert.True(t, errors.Is(err, helper.ErrAlreadySubmitted))
	assert.Equal(t, uploads, f.blob.Count(), "no upload on duplicate")
}

func TestListByCourseProjection(t *testing.T) {
	f := newFixture(t)
	a := f.assignment(t, "2024-03-10T00:00:00Z")

	cs := courseService.NewCourseService(f.db, f.blob)
	_, _, err := cs.Enroll(f.ctx, f.course.CourseID, "student-2", "student")
	require.NoError(t, err)

	_, err = f.svc.Submit(f.ctx, a.AssignmentID, "student-1", newFile(t, "s1.pdf"))
	require.NoError(t, err)
	_, err = f.svc.Submit(f.ctx, a.AssignmentID, "student-2", newFile(t, "s2.pdf"))
	require.NoError(t, err)

	teacherView, err := f.svc.ListByCourse(f.ctx, f.course.CourseID, "teacher-1")
	require.NoError(t, err)
	require.Len(t, teacherView, 1)
	assert.Equal(t, 2, teacherView[0].SubmissionCount)
	assert.Equal(t, "CS101", teacherView[0].CourseTitle)
	assert.Equal(t, "Teacher One", teacherView[0].CreatorName)

	studentView, err := f.svc.ListByCourse(f.ctx, f.course.CourseID, "student-1")
	require.NoError(t, err)
	require.Len(t, studentView, 1)
	require.Len(t, studentView[0].Submissions, 1)
	assert.Equal(t, "student-1", studentView[0].Submissions[0].AssignmentSubmissionStudentUID)
	assert.Equal(t, "Student One", studentView[0].Submissions[0].StudentName)

	_, err = f.svc.ListByCourse(f.ctx, f.course.CourseID, "teacher-2")
	assert.True(t, errors.Is(err, helper.ErrForbidden))

	mine, err := f.svc.ListByTeacher(f.ctx, "teacher-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "CS101", mine[0].CourseTitle)

	detail, err := f.svc.Detail(f.ctx, a.AssignmentID, "student-2")
	require.NoError(t, err)
	require.Len(t, detail.Submissions, 1)
	assert.Equal(t, "student-2", detail.Submissions[0].AssignmentSubmissionStudentUID)
}

func TestGrade(t *testing.T) {
	f := newFixture(t)
	a := f.assignment(t, "2024-03-10T00:00:00Z")
	_, err := f.svc.Submit(f.ctx, a.AssignmentID, "student-1", newFile(t, "s1.pdf"))
	require.NoError(t, err)

	grade := 87.5
	fb := "  nice work "
	sub, err := f.svc.Grade(f.ctx, a.AssignmentID, "student-1", "teacher-1", dto.GradeRequest{Grade: &grade, Feedback: &fb})
	require.NoError(t, err)
	require.NotNil(t, sub.AssignmentSubmissionGrade)
	assert.Equal(t, 87.5, *sub.AssignmentSubmissionGrade)
	require.NotNil(t, sub.AssignmentSubmissionFeedback)
	assert.Equal(t, "nice work", *sub.AssignmentSubmissionFeedback)
	assert.NotNil(t, sub.AssignmentSubmissionGradedAt)

	_, err = f.svc.Grade(f.ctx, a.AssignmentID, "student-2", "teacher-1", dto.GradeRequest{Grade: &grade})
	assert.True(t, errors.Is(err, helper.ErrSubmissionNotFound))

	_, err = f.svc.Grade(f.ctx, a.AssignmentID, "student-1", "teacher-2", dto.GradeRequest{Grade: &grade})
	assert.True(t, errors.Is(err, helper.ErrForbidden))

	neg := -1.0
	_, err = f.svc.Grade(f.ctx, a.AssignmentID, "student-1", "teacher-1", dto.GradeRequest{Grade: &neg})
	assert.True(t, errors.Is(err, helper.ErrValidation))
}

func TestUpdateAndDeleteAssignment(t *testing.T) {
	f := newFixture(t)
	a := f.assignment(t, "2024-03-10T00:00:00Z")
	oldURL := a.AssignmentFileURL

	title := "HW1 (revised)"
	due := "2024-03-20"
	up, err := f.svc.Update(f.ctx, a.AssignmentID, "teacher-1", dto.UpdateAssignmentRequest{
		AssignmentTitle: &title, AssignmentDueDate: &due,
	}, newFile(t, "hw1-v2.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "HW1 (revised)", up.AssignmentTitle)
	assert.NotEqual(t, oldURL, up.AssignmentFileURL)
	assert.Equal(t, int64(1), f.pendingCount(t), "old file queued")

	_, err = f.svc.Update(f.ctx, a.AssignmentID, "teacher-1", dto.UpdateAssignmentRequest{}, nil)
	assert.True(t, errors.Is(err, helper.ErrValidation))

	_, err = f.svc.Submit(f.ctx, a.AssignmentID, "student-1", newFile(t, "s1.pdf"))
	require.NoError(t, err)

	assert.True(t, errors.Is(f.svc.Delete(f.ctx, a.AssignmentID, "teacher-2"), helper.ErrForbidden))
	require.NoError(t, f.svc.Delete(f.ctx, a.AssignmentID, "teacher-1"))

	var n int64
	require.NoError(t, f.db.Model(&model.AssignmentSubmissionModel{}).Count(&n).Error)
	assert.Zero(t, n)
	assert.Equal(t, int64(3), f.pendingCount(t))

	_, err = f.svc.Detail(f.ctx, a.AssignmentID, "teacher-1")
	assert.True(t, errors.Is(err, helper.ErrNotFound))
}
