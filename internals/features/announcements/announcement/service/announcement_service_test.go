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
	dto "learnx_backend/internals/features/announcements/announcement/dto"
	model "learnx_backend/internals/features/announcements/announcement/model"
	courseDTO "learnx_backend/internals/features/courses/course/dto"
	courseModel "learnx_backend/internals/features/courses/course/model"
	courseService "learnx_backend/internals/features/courses/course/service"
	userModel "learnx_backend/internals/features/users/user/model"
	helper "learnx_backend/internals/helpers"
	helperOSS "learnx_backend/internals/helpers/oss"
)

type fixture struct {
	db      *gorm.DB
	svc     *AnnouncementService
	courses *courseService.CourseService
	ctx     context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := database.NewTestDB(t)
	f := &fixture{
		db:      db,
		svc:     NewAnnouncementService(db),
		courses: courseService.NewCourseService(db, helperOSS.NewMemoryBlobService()),
		ctx:     context.Background(),
	}
	users := []userModel.UserModel{
		{UID: "teacher-1", Role: "teacher", Name: "Teacher One"},
		{UID: "student-1", Role: "student", Name: "Student One"},
	}
	for i := range users {
		require.NoError(t, db.Create(&users[i]).Error)
	}
	return f
}

func (f *fixture) course(t *testing.T, title string) *courseModel.CourseModel {
	t.Helper()
	c, err := f.courses.Create(f.ctx, "teacher-1", "teacher", courseDTO.CreateCourseRequest{CourseTitle: title}, nil)
	require.NoError(t, err)
	return c
}

func ptr(s string) *string { return &s }

func TestCreateResolvesCourse(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, "CS101")

	byID, err := f.svc.Create(f.ctx, "teacher-1", "", dto.CreateAnnouncementRequest{
		Title: "Quiz", Content: "Friday", CourseID: ptr(c.CourseID.String()),
	})
	require.NoError(t, err)
	require.NotNil(t, byID.AnnouncementCourseID)
	assert.Equal(t, c.CourseID, *byID.AnnouncementCourseID)
	assert.Equal(t, "CS101", byID.AnnouncementCourseTitle)
	assert.Equal(t, "Teacher One", byID.AnnouncementInstructor)
	assert.Equal(t, model.PriorityMedium, byID.AnnouncementPriority)

	byTitle, err := f.svc.Create(f.ctx, "teacher-1", "", dto.CreateAnnouncementRequest{
		Title: "Lab", Content: "Room 4", Course: ptr("CS101"), Priority: "high",
	})
	require.NoError(t, err)
	require.NotNil(t, byTitle.AnnouncementCourseID)
	assert.Equal(t, model.PriorityHigh, byTitle.AnnouncementPriority)

	free, err := f.svc.Create(f.ctx, "teacher-1", "", dto.CreateAnnouncementRequest{
		Title: "Holiday", Content: "No class", Course: ptr("Campus"), Instructor: ptr("Admin"),
	})
	require.NoError(t, err)
	assert.Nil(t, free.AnnouncementCourseID)
	assert.Equal(t, "Campus", free.AnnouncementCourseTitle)
	assert.Equal(t, "Admin", free.AnnouncementInstructor)

	_, err = f.svc.Create(f.ctx, "teacher-1", "", dto.CreateAnnouncementRequest{Title: "x", Content: "y"})
	assert.True(t, errors.Is(err, helper.ErrValidation))

	_, err = f.svc.Create(f.ctx, "teacher-1", "", dto.CreateAnnouncementRequest{Title: "x", Content: "y", CourseID: ptr(uuid.NewString())})
	assert.True(t, errors.Is(err, helper.ErrNotFound))

	_, err = f.svc.Create(f.ctx, "teacher-1", "", dto.CreateAnnouncementRequest{Title: "x", Content: "y", Course: ptr("CS101"), Priority: "urgent"})
	assert.True(t, errors.Is(err, helper.ErrValidation))
}

func TestEnrolledMatchesByIDAndLegacyTitle(t *testing.T) {
	f := newFixture(t)
	cs := f.course(t, "CS101")
	other := f.course(t, "Art")

	_, _, err := f.courses.Enroll(f.ctx, cs.CourseID, "student-1", "student")
	require.NoError(t, err)

	_, err = f.svc.Create(f.ctx, "teacher-1", "", dto.CreateAnnouncementRequest{Title: "by id", Content: "c", CourseID: ptr(cs.CourseID.String())})
	require.NoError(t, err)
	_, err = f.svc.Create(f.ctx, "teacher-1", "", dto.CreateAnnouncementRequest{Title: "other", Content: "c", CourseID: ptr(other.CourseID.String())})
	require.NoError(t, err)
	// baris lama: hanya judul, tanpa referensi
	require.NoError(t, f.db.Create(&model.AnnouncementModel{
		AnnouncementTitle: "legacy", AnnouncementContent: "c", AnnouncementCourseTitle: "CS101",
		AnnouncementInstructor: "T", AnnouncementCreatedBy: "teacher-1",
	}).Error)

	got, err := f.svc.Enrolled(f.ctx, "student-1")
	require.NoError(t, err)
	titles := []string{}
	for _, a := range got {
		titles = append(titles, a.AnnouncementTitle)
	}
	assert.ElementsMatch(t, []string{"by id", "legacy"}, titles)

	none, err := f.svc.Enrolled(f.ctx, "teacher-1")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCourseRenameKeepsReferencedAnnouncements(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, "CS101")
	_, _, err := f.courses.Enroll(f.ctx, c.CourseID, "student-1", "student")
	require.NoError(t, err)
	_, err = f.svc.Create(f.ctx, "teacher-1", "", dto.CreateAnnouncementRequest{Title: "Quiz", Content: "c", Course: ptr("CS101")})
	require.NoError(t, err)

	_, err = f.courses.Update(f.ctx, c.CourseID, "teacher-1", courseDTO.UpdateCourseRequest{CourseTitle: ptr("CS101 Intro")}, nil)
	require.NoError(t, err)

	got, err := f.svc.Enrolled(f.ctx, "student-1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestListUpdateDelete(t *testing.T) {
	f := newFixture(t)
	c := f.course(t, "CS101")
	a, err := f.svc.Create(f.ctx, "teacher-1", "", dto.CreateAnnouncementRequest{Title: "A", Content: "c", Course: ptr("CS101"), Priority: "Low"})
	require.NoError(t, err)
	_, err = f.svc.Create(f.ctx, "teacher-1", "", dto.CreateAnnouncementRequest{Title: "B", Content: "c", Course: ptr("Campus")})
	require.NoError(t, err)

	pg := helper.Paging{Page: 1, PerPage: 10, Offset: 0, Limit: 10}
	all, total, err := f.svc.List(f.ctx, dto.AnnouncementListQuery{}, pg)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	byCourse, total, err := f.svc.List(f.ctx, dto.AnnouncementListQuery{Course: c.CourseID.String()}, pg)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "A", byCourse[0].AnnouncementTitle)

	byTitle, _, err := f.svc.List(f.ctx, dto.AnnouncementListQuery{Course: "Campus"}, pg)
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "B", byTitle[0].AnnouncementTitle)

	low, _, err := f.svc.List(f.ctx, dto.AnnouncementListQuery{Priority: "low"}, pg)
	require.NoError(t, err)
	assert.Len(t, low, 1)

	up, err := f.svc.Update(f.ctx, a.AnnouncementID, dto.UpdateAnnouncementRequest{Title: ptr("A2"), Priority: ptr("high")})
	require.NoError(t, err)
	assert.Equal(t, "A2", up.AnnouncementTitle)
	assert.Equal(t, model.PriorityHigh, up.AnnouncementPriority)
	require.NotNil(t, up.AnnouncementCourseID, "course reference kept")

	_, err = f.svc.Update(f.ctx, a.AnnouncementID, dto.UpdateAnnouncementRequest{})
	assert.True(t, errors.Is(err, helper.ErrValidation))

	require.NoError(t, f.svc.Delete(f.ctx, a.AnnouncementID))
	_, err = f.svc.Detail(f.ctx, a.AnnouncementID)
	assert.True(t, errors.Is(err, helper.ErrNotFound))
	assert.True(t, errors.Is(f.svc.Delete(f.ctx, a.AnnouncementID), helper.ErrNotFound))
}
