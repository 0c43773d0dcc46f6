package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	database "learnx_backend/internals/databases"
	courseModel "learnx_backend/internals/features/courses/course/model"
	dto "learnx_backend/internals/features/users/user/dto"
	helper "learnx_backend/internals/helpers"
	helperAuth "learnx_backend/internals/helpers/auth"
)

func TestVerifyOrProvision(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()
	id := helperAuth.Identity{UID: "google-123", Email: "Ana@Example.com", Name: "Ana"}

	u, created, err := svc.VerifyOrProvision(ctx, id, dto.VerifyRequest{Role: "student"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "student", u.Role)
	assert.Equal(t, "Ana", u.Name)
	require.NotNil(t, u.Email)
	assert.Equal(t, "ana@example.com", *u.Email)

	again, created, err := svc.VerifyOrProvision(ctx, id, dto.VerifyRequest{Role: "student"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, u.ID, again.ID)

	_, _, err = svc.VerifyOrProvision(ctx, id, dto.VerifyRequest{Role: "teacher"})
	assert.True(t, errors.Is(err, helper.ErrRoleMismatch), "got %v", err)

	var n int64
	require.NoError(t, db.Table("users").Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestVerifyOrProvisionRejects(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	_, _, err := svc.VerifyOrProvision(ctx, helperAuth.Identity{UID: "u1"}, dto.VerifyRequest{Role: "admin"})
	assert.True(t, errors.Is(err, helper.ErrValidation))

	_, _, err = svc.VerifyOrProvision(ctx, helperAuth.Identity{}, dto.VerifyRequest{Role: "student"})
	assert.True(t, errors.Is(err, helper.ErrUnauthenticated))

	_, _, err = svc.VerifyOrProvision(ctx, helperAuth.Identity{UID: "u1", Email: "same@example.com"}, dto.VerifyRequest{Role: "student"})
	require.NoError(t, err)
	_, _, err = svc.VerifyOrProvision(ctx, helperAuth.Identity{UID: "u2", Email: "same@example.com"}, dto.VerifyRequest{Role: "student"})
	assert.True(t, errors.Is(err, helper.ErrValidation), "email already taken: %v", err)
}

func TestNameFallbacks(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	name := "Explicit"
	u, _, err := svc.VerifyOrProvision(ctx, helperAuth.Identity{UID: "a", Name: "Token Name"}, dto.VerifyRequest{Role: "teacher", Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Explicit", u.Name)

	u, _, err = svc.VerifyOrProvision(ctx, helperAuth.Identity{UID: "b", Email: "bob@example.com"}, dto.VerifyRequest{Role: "teacher"})
	require.NoError(t, err)
	assert.Equal(t, "bob", u.Name)
}

func TestUpdateMeAndCourseRefs(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	_, _, err := svc.VerifyOrProvision(ctx, helperAuth.Identity{UID: "t1", Name: "Teacher"}, dto.VerifyRequest{Role: "teacher"})
	require.NoError(t, err)
	_, _, err = svc.VerifyOrProvision(ctx, helperAuth.Identity{UID: "s1", Name: "Student"}, dto.VerifyRequest{Role: "student"})
	require.NoError(t, err)

	bio, roll, empty := "Hello", "A-01", ""
	u, err := svc.UpdateMe(ctx, "s1", dto.UpdateMeRequest{Bio: &bio, RollNumber: &roll, Name: &empty})
	require.NoError(t, err)
	assert.Equal(t, "Student", u.Name, "empty name is ignored")
	require.NotNil(t, u.Bio)
	assert.Equal(t, "Hello", *u.Bio)
	assert.Equal(t, "A-01", *u.RollNumber)

	_, err = svc.UpdateMe(ctx, "ghost", dto.UpdateMeRequest{Bio: &bio})
	assert.True(t, errors.Is(err, helper.ErrNotFound))

	course := &courseModel.CourseModel{CourseTitle: "CS101", CourseThumbnail: "x", CourseCreatedBy: "t1"}
	require.NoError(t, db.Create(course).Error)
	require.NoError(t, db.Create(&courseModel.CourseEnrollmentModel{
		CourseEnrollmentCourseID: course.CourseID, CourseEnrollmentStudentUID: "s1",
	}).Error)

	enrolled, created, err := svc.CourseRefs(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, enrolled, 1)
	assert.Equal(t, course.CourseID, enrolled[0])
	assert.Empty(t, created)

	enrolled, created, err = svc.CourseRefs(ctx, "t1")
	require.NoError(t, err)
	assert.Empty(t, enrolled)
	require.Len(t, created, 1)
	assert.Equal(t, course.CourseID, created[0])

	ec, cc, err := svc.MyCourses(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, ec, 1)
	assert.Equal(t, "CS101", ec[0].CourseTitle)
	assert.Empty(t, cc)
}

func TestFindByUIDs(t *testing.T) {
	db := database.NewTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	for _, uid := range []string{"a", "b"} {
		_, _, err := svc.VerifyOrProvision(ctx, helperAuth.Identity{UID: uid, Name: uid}, dto.VerifyRequest{Role: "student"})
		require.NoError(t, err)
	}
	got, err := FindByUIDs(ctx, db, []string{"a", "b", "a", "missing", ""})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "a", got["a"].Name)

	empty, err := FindByUIDs(ctx, db, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
