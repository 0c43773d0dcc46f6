package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "learnx_backend/internals/features/courses/course/model"
	helper "learnx_backend/internals/helpers"
)

// Access: hasil dua predicate otorisasi untuk satu (course, uid).
type Access struct {
	IsCreator  bool
	IsEnrolled bool
}

func (a Access) CanRead() bool { return a.IsCreator || a.IsEnrolled }

func IsCreator(c *model.CourseModel, uid string) bool {
	return c != nil && uid != "" && c.CourseCreatedBy == uid
}

func IsEnrolled(ctx context.Context, db *gorm.DB, courseID uuid.UUID, uid string) (bool, error) {
	if uid == "" {
		return false, nil
	}
	var n int64
	if err := db.WithContext(ctx).Model(&model.CourseEnrollmentModel{}).
		Where("course_enrollment_course_id = ? AND course_enrollment_student_uid = ?", courseID, uid).
		Count(&n).Error; err != nil {
		return false, helper.StoreFailure(err)
	}
	return n > 0, nil
}

// EnrolledUIDs: uid student yang terdaftar di course, urut waktu enroll.
func EnrolledUIDs(ctx context.Context, db *gorm.DB, courseID uuid.UUID) ([]string, error) {
	var uids []string
	if err := db.WithContext(ctx).Model(&model.CourseEnrollmentModel{}).
		Where("course_enrollment_course_id = ?", courseID).
		Order("course_enrollment_created_at ASC, course_enrollment_student_uid ASC").
		Pluck("course_enrollment_student_uid", &uids).Error; err != nil {
		return nil, helper.StoreFailure(err)
	}
	return uids, nil
}

// Load: NotFound kalau course tidak ada. Selalu dicek sebelum otorisasi.
func Load(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.CourseModel, error) {
	var c model.CourseModel
	if err := db.WithContext(ctx).First(&c, "course_id = ?", id).Error; err != nil {
		return nil, helper.FromDB(err, "Course")
	}
	return &c, nil
}

// LoadForRead: creator atau student terdaftar.
func LoadForRead(ctx context.Context, db *gorm.DB, id uuid.UUID, uid string) (*model.CourseModel, Access, error) {
	c, err := Load(ctx, db, id)
	if err != nil {
		return nil, Access{}, err
	}
	acc := Access{IsCreator: IsCreator(c, uid)}
	if !acc.IsCreator {
		if acc.IsEnrolled, err = IsEnrolled(ctx, db, c.CourseID, uid); err != nil {
			return nil, Access{}, err
		}
	}
	if !acc.CanRead() {
		return nil, acc, helper.ErrForbidden.WithMessage("You are not enrolled in this course")
	}
	return c, acc, nil
}

// LoadForWrite: hanya creator.
func LoadForWrite(ctx context.Context, db *gorm.DB, id uuid.UUID, uid string) (*model.CourseModel, error) {
	c, err := Load(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if !IsCreator(c, uid) {
		return nil, helper.ErrForbidden.WithMessage("Only the course creator can modify this course")
	}
	return c, nil
}
