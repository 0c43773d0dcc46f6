package service

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"learnx_backend/internals/configs"
	"learnx_backend/internals/constants"
	announcementModel "learnx_backend/internals/features/announcements/announcement/model"
	assignmentModel "learnx_backend/internals/features/assignments/assignment/model"
	attendanceModel "learnx_backend/internals/features/attendance/attendance/model"
	dto "learnx_backend/internals/features/courses/course/dto"
	model "learnx_backend/internals/features/courses/course/model"
	uDTO "learnx_backend/internals/features/users/user/dto"
	userService "learnx_backend/internals/features/users/user/service"
	helper "learnx_backend/internals/helpers"
	helperOSS "learnx_backend/internals/helpers/oss"
)

const thumbnailDir = "courses/thumbnails"

type CourseService struct {
	DB   *gorm.DB
	Blob helperOSS.BlobService
}

func NewCourseService(db *gorm.DB, blob helperOSS.BlobService) *CourseService {
	return &CourseService{DB: db, Blob: blob}
}

/* =========================
   CREATE
   ========================= */

// Create: teacher saja. Thumbnail: file upload > URL di body > default.
func (s *CourseService) Create(ctx context.Context, uid, role string, req dto.CreateCourseRequest, thumb *multipart.FileHeader) (*model.CourseModel, error) {
	if role != constants.RoleTeacher {
		return nil, helper.ErrForbidden.WithMessage("%s", constants.RoleErrorTeacher("course creation"))
	}
	req.Normalize()
	if err := helper.Validate(&req); err != nil {
		return nil, err
	}

	thumbnail := configs.ThumbnailOrDefault(ptrVal(req.CourseThumbnail))
	uploaded := ""
	if thumb != nil {
		url, err := s.Blob.UploadImage(ctx, thumbnailDir, thumb)
		if err != nil {
			return nil, err
		}
		thumbnail, uploaded = url, url
	}

	m := req.ToModel(uid, thumbnail)
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		helperOSS.DiscardUpload(ctx, s.DB, s.Blob, "course_create_failed", uploaded)
		return nil, helper.StoreFailure(err)
	}
	return m, nil
}

/* =========================
   LIST
   ========================= */

// ListCatalog: course aktif, filter q/category/tag, terbaru dulu.
func (s *CourseService) ListCatalog(ctx context.Context, q dto.CourseListQuery, pg helper.Paging) ([]dto.CourseResponse, int64, error) {
	db := s.DB.WithContext(ctx).Model(&model.CourseModel{}).
		Where("course_status = ?", model.CourseStatusActive)

	if term := strings.ToLower(strings.TrimSpace(q.Q)); term != "" {
		like := "%" + term + "%"
		db = db.Where(
			"LOWER(course_title) LIKE ? OR LOWER(COALESCE(course_code, '')) LIKE ? OR LOWER(COALESCE(course_description, '')) LIKE ?",
			like, like, like,
		)
	}
	if cat := strings.TrimSpace(q.Category); cat != "" {
		db = db.Where("LOWER(course_category) = ?", strings.ToLower(cat))
	}
	if tag := strings.ToLower(strings.TrimSpace(q.Tag)); tag != "" {
		// tags disimpan sebagai JSON array string; cocokkan elemen utuh
		db = db.Where("CAST(course_tags AS TEXT) LIKE ?", `%"`+tag+`"%`)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, helper.StoreFailure(err)
	}

	var rows []model.CourseModel
	if err := db.Order("course_created_at DESC").
		Offset(pg.Offset).Limit(pg.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, helper.StoreFailure(err)
	}
	out, err := s.decorate(ctx, rows)
	return out, total, err
}

func (s *CourseService) ListByCreator(ctx context.Context, uid string) ([]dto.CourseResponse, error) {
	var rows []model.CourseModel
	if err := s.DB.WithContext(ctx).
		Where("course_created_by = ?", uid).
		Order("course_created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, helper.StoreFailure(err)
	}
	return s.decorate(ctx, rows)
}

func (s *CourseService) ListEnrolled(ctx context.Context, uid string) ([]dto.CourseResponse, error) {
	db := s.DB.WithContext(ctx)
	var rows []model.CourseModel
	if err := db.
		Where("course_id IN (?)", db.Model(&model.CourseEnrollmentModel{}).
			Select("course_enrollment_course_id").
			Where("course_enrollment_student_uid = ?", uid)).
		Order("course_created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, helper.StoreFailure(err)
	}
	return s.decorate(ctx, rows)
}

// decorate menambahkan instructor_name & enrolled_count (batch, tanpa N+1).
func (s *CourseService) decorate(ctx context.Context, rows []model.CourseModel) ([]dto.CourseResponse, error) {
	out := dto.ToCourseResponses(rows)
	if len(rows) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	creators := make([]string, 0, len(rows))
	for i := range rows {
		ids = append(ids, rows[i].CourseID)
		creators = append(creators, rows[i].CourseCreatedBy)
	}

	counts, err := s.enrolledCounts(ctx, ids)
	if err != nil {
		return nil, err
	}
	users, err := userService.FindByUIDs(ctx, s.DB, creators)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].EnrolledCount = counts[out[i].CourseID]
		if u := users[out[i].CourseCreatedBy]; u != nil {
			out[i].InstructorName = u.DisplayName()
		}
	}
	return out, nil
}

func (s *CourseService) enrolledCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	type row struct {
		CourseID uuid.UUID
		Total    int64
	}
	var rows []row
	if err := s.DB.WithContext(ctx).Model(&model.CourseEnrollmentModel{}).
		Select("course_enrollment_course_id AS course_id, COUNT(*) AS total").
		Where("course_enrollment_course_id IN ?", ids).
		Group("course_enrollment_course_id").
		Scan(&rows).Error; err != nil {
		return nil, helper.StoreFailure(err)
	}
	out := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		out[r.CourseID] = r.Total
	}
	return out, nil
}

/* =========================
   DETAIL
   ========================= */

// Detail: creator atau enrolled. Instructor, materials dan enrolled students di-join saat baca.
func (s *CourseService) Detail(ctx context.Context, id uuid.UUID, uid string) (*dto.CourseDetailResponse, error) {
	c, acc, err := LoadForRead(ctx, s.DB, id, uid)
	if err != nil {
		return nil, err
	}

	base, err := s.decorate(ctx, []model.CourseModel{*c})
	if err != nil {
		return nil, err
	}

	materials, err := s.listMaterials(ctx, c.CourseID)
	if err != nil {
		return nil, err
	}

	studentUIDs, err := EnrolledUIDs(ctx, s.DB, c.CourseID)
	if err != nil {
		return nil, err
	}
	users, err := userService.FindByUIDs(ctx, s.DB, append(studentUIDs, c.CourseCreatedBy))
	if err != nil {
		return nil, err
	}

	out := &dto.CourseDetailResponse{
		CourseResponse:   base[0],
		Materials:        dto.ToMaterialResponses(materials),
		EnrolledStudents: make([]uDTO.UserLite, 0, len(studentUIDs)),
		IsCreator:        acc.IsCreator,
		IsEnrolled:       acc.IsEnrolled,
	}
	if u := users[c.CourseCreatedBy]; u != nil {
		lite := uDTO.ToUserLite(u)
		out.Instructor = &lite
	}
	for _, sid := range studentUIDs {
		if u := users[sid]; u != nil {
			out.EnrolledStudents = append(out.EnrolledStudents, uDTO.ToUserLite(u))
		}
	}
	return out, nil
}

/* =========================
   UPDATE / DELETE
   ========================= */

func (s *CourseService) Update(ctx context.Context, id uuid.UUID, uid string, req dto.UpdateCourseRequest, thumb *multipart.FileHeader) (*model.CourseModel, error) {
	c, err := LoadForWrite(ctx, s.DB, id, uid)
	if err != nil {
		return nil, err
	}
	req.Normalize()
	if err := helper.Validate(&req); err != nil {
		return nil, err
	}
	if req.IsEmpty() && thumb == nil {
		return nil, helper.Validation("Nothing to update")
	}

	uploaded := ""
	if thumb != nil {
		url, err := s.Blob.UploadImage(ctx, thumbnailDir, thumb)
		if err != nil {
			return nil, err
		}
		req.CourseThumbnail = &url
		uploaded = url
	}

	oldThumb := c.CourseThumbnail
	req.ApplyToModel(c)

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(c).Error; err != nil {
			return err
		}
		if oldThumb != c.CourseThumbnail {
			return helperOSS.EnqueueOwned(tx, s.Blob, "course_thumbnail_replaced", oldThumb)
		}
		return nil
	})
	if err != nil {
		helperOSS.DiscardUpload(ctx, s.DB, s.Blob, "course_update_failed", uploaded)
		return nil, helper.StoreFailure(err)
	}
	return c, nil
}

// Delete: hard delete course beserta enrollments, materials, assignments (+submissions)
// dan attendance dalam satu transaksi. File milik storage diantrekan ke reaper.
// Announcement tetap ada tapi kehilangan referensi course (judul tetap tersimpan).
func (s *CourseService) Delete(ctx context.Context, id uuid.UUID, uid string) error {
	c, err := LoadForWrite(ctx, s.DB, id, uid)
	if err != nil {
		return err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		urls := []string{c.CourseThumbnail}

		var materialURLs []string
		if err := tx.Model(&model.CourseMaterialModel{}).
			Where("course_material_course_id = ?", c.CourseID).
			Pluck("course_material_url", &materialURLs).Error; err != nil {
			return err
		}
		urls = append(urls, materialURLs...)

		var assignments []assignmentModel.AssignmentModel
		if err := tx.Where("assignment_course_id = ?", c.CourseID).Find(&assignments).Error; err != nil {
			return err
		}
		assignmentIDs := make([]uuid.UUID, 0, len(assignments))
		for _, a := range assignments {
			assignmentIDs = append(assignmentIDs, a.AssignmentID)
			urls = append(urls, a.AssignmentFileURL)
		}

		if len(assignmentIDs) > 0 {
			var subURLs []string
			if err := tx.Model(&assignmentModel.AssignmentSubmissionModel{}).
				Where("assignment_submission_assignment_id IN ?", assignmentIDs).
				Pluck("assignment_submission_file_url", &subURLs).Error; err != nil {
				return err
			}
			urls = append(urls, subURLs...)

			if err := tx.Where("assignment_submission_assignment_id IN ?", assignmentIDs).
				Delete(&assignmentModel.AssignmentSubmissionModel{}).Error; err != nil {
				return err
			}
			if err := tx.Where("assignment_id IN ?", assignmentIDs).
				Delete(&assignmentModel.AssignmentModel{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("attendance_course_id = ?", c.CourseID).
			Delete(&attendanceModel.AttendanceModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_enrollment_course_id = ?", c.CourseID).
			Delete(&model.CourseEnrollmentModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_material_course_id = ?", c.CourseID).
			Delete(&model.CourseMaterialModel{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&announcementModel.AnnouncementModel{}).
			Where("announcement_course_id = ?", c.CourseID).
			Update("announcement_course_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.CourseModel{}, "course_id = ?", c.CourseID).Error; err != nil {
			return err
		}
		return helperOSS.EnqueueOwned(tx, s.Blob, "course_deleted", urls...)
	})
	if err != nil {
		return helper.StoreFailure(err)
	}
	return nil
}

/* =========================
   ENROLLMENT
   ========================= */

// Enroll: student saja, idempotent. created=false kalau sudah terdaftar.
func (s *CourseService) Enroll(ctx context.Context, id uuid.UUID, uid, role string) (*model.CourseModel, bool, error) {
	c, err := Load(ctx, s.DB, id)
	if err != nil {
		return nil, false, err
	}
	if role != constants.RoleStudent {
		return nil, false, helper.ErrForbidden.WithMessage("%s", constants.RoleErrorStudent("course enrollment"))
	}
	if !c.IsActive() {
		return nil, false, helper.Validation("Course is not open for enrollment")
	}

	res := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.CourseEnrollmentModel{
			CourseEnrollmentCourseID:   c.CourseID,
			CourseEnrollmentStudentUID: uid,
		})
	if res.Error != nil {
		return nil, false, helper.StoreFailure(res.Error)
	}
	return c, res.RowsAffected > 0, nil
}

// Leave: student saja; tidak error kalau memang belum terdaftar.
func (s *CourseService) Leave(ctx context.Context, id uuid.UUID, uid, role string) error {
	if _, err := Load(ctx, s.DB, id); err != nil {
		return err
	}
	if role != constants.RoleStudent {
		return helper.ErrForbidden.WithMessage("%s", constants.RoleErrorStudent("course enrollment"))
	}
	if err := s.DB.WithContext(ctx).
		Where("course_enrollment_course_id = ? AND course_enrollment_student_uid = ?", id, uid).
		Delete(&model.CourseEnrollmentModel{}).Error; err != nil {
		return helper.StoreFailure(err)
	}
	return nil
}

func ptrVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
