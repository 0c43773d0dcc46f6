package seeds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	database "learnx_backend/internals/databases"
	courseModel "learnx_backend/internals/features/courses/course/model"
	userModel "learnx_backend/internals/features/users/user/model"
)

func TestRunAllSeedsIsIdempotent(t *testing.T) {
	db := database.NewTestDB(t)

	require.NoError(t, RunAllSeeds(db, "data"))
	require.NoError(t, RunAllSeeds(db, "data"))

	var users, courses, materials, enrollments int64
	require.NoError(t, db.Model(&userModel.UserModel{}).Count(&users).Error)
	require.NoError(t, db.Model(&courseModel.CourseModel{}).Count(&courses).Error)
	require.NoError(t, db.Model(&courseModel.CourseMaterialModel{}).Count(&materials).Error)
	require.NoError(t, db.Model(&courseModel.CourseEnrollmentModel{}).Count(&enrollments).Error)

	assert.Equal(t, int64(3), users)
	assert.Equal(t, int64(2), courses)
	assert.Equal(t, int64(2), materials)
	assert.Equal(t, int64(3), enrollments)

	var c courseModel.CourseModel
	require.NoError(t, db.Where("course_code = ?", "CS101X").First(&c).Error)
	assert.Equal(t, []string{"programming", "beginner"}, c.Tags())
}

func TestRunAllSeedsMissingDir(t *testing.T) {
	db := database.NewTestDB(t)
	assert.Error(t, RunAllSeeds(db, t.TempDir()))
}
