package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "learnx_backend/internals/features/announcements/announcement/dto"
	model "learnx_backend/internals/features/announcements/announcement/model"
	courseModel "learnx_backend/internals/features/courses/course/model"
	courseService "learnx_backend/internals/features/courses/course/service"
	userService "learnx_backend/internals/features/users/user/service"
	helper "learnx_backend/internals/helpers"
)

type AnnouncementService struct {
	DB *gorm.DB
}

func NewAnnouncementService(db *gorm.DB) *AnnouncementService {
	return &AnnouncementService{DB: db}
}

/* =========================
   READ
   ========================= */

// List: semua announcement, terbaru dulu. Filter course menerima id atau judul.
func (s *AnnouncementService) List(ctx context.Context, q dto.AnnouncementListQuery, pg helper.Paging) ([]dto.AnnouncementResponse, int64, error) {
	tx := s.DB.WithContext(ctx).Model(&model.AnnouncementModel{})
	if q.Course != "" {
		if id, err := uuid.Parse(q.Course); err == nil {
			tx = tx.Where("announcement_course_id = ?", id)
		} else {
			tx = tx.Where("announcement_course_title = ?", q.Course)
		}
	}
	if p := dto.NormalizePriority(q.Priority); p != "" {
		tx = tx.Where("announcement_priority = ?", p)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, helper.StoreFailure(err)
	}
	var rows []model.AnnouncementModel
	if err := tx.Order("announcement_created_at DESC").
		Offset(pg.Offset).Limit(pg.Limit).
		Find(&rows).Error; err != nil {
		return nil, 0, helper.StoreFailure(err)
	}
	return dto.ToAnnouncementResponses(rows), total, nil
}

// Enrolled: announcement untuk course yang diikuti uid. Baris dengan course_id
// dicocokkan by id; baris lama tanpa referensi dicocokkan by judul course.
func (s *AnnouncementService) Enrolled(ctx context.Context, uid string) ([]dto.AnnouncementResponse, error) {
	var courses []courseModel.CourseModel
	if err := s.DB.WithContext(ctx).
		Model(&courseModel.CourseModel{}).
		Select("courses.course_id", "courses.course_title").
		Joins("JOIN course_enrollments ON course_enrollments.course_enrollment_course_id = courses.course_id").
		Where("course_enrollments.course_enrollment_student_uid = ?", uid).
		Find(&courses).Error; err != nil {
		return nil, helper.StoreFailure(err)
	}
	if len(courses) == 0 {
		return []dto.AnnouncementResponse{}, nil
	}

	ids := make([]uuid.UUID, 0, len(courses))
	titles := make([]string, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.CourseID)
		titles = append(titles, c.CourseTitle)
	}

	var rows []model.AnnouncementModel
	if err := s.DB.WithContext(ctx).
		Where("announcement_course_id IN ?", ids).
		Or("announcement_course_id IS NULL AND announcement_course_title IN ?", titles).
		Order("announcement_created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, helper.StoreFailure(err)
	}
	return dto.ToAnnouncementResponses(rows), nil
}

func (s *AnnouncementService) load(ctx context.Context, id uuid.UUID) (*model.AnnouncementModel, error) {
	var m model.AnnouncementModel
	if err := s.DB.WithContext(ctx).First(&m, "announcement_id = ?", id).Error; err != nil {
		return nil, helper.FromDB(err, "Announcement")
	}
	return &m, nil
}

func (s *AnnouncementService) Detail(ctx context.Context, id uuid.UUID) (*model.AnnouncementModel, error) {
	return s.load(ctx, id)
}

/* =========================
   WRITE
   ========================= */

// resolveCourse: course_id harus ada; judul dicocokkan persis ke course (kalau ada),
// kalau tidak disimpan apa adanya tanpa referensi.
func (s *AnnouncementService) resolveCourse(ctx context.Context, courseID, title *string) (*uuid.UUID, string, error) {
	if courseID != nil {
		c, err := courseService.Load(ctx, s.DB, uuid.MustParse(*courseID))
		if err != nil {
			return nil, "", err
		}
		return &c.CourseID, c.CourseTitle, nil
	}
	if title == nil {
		return nil, "", helper.ErrValidation.WithMessage("course or course_id is required")
	}

	var c courseModel.CourseModel
	err := s.DB.WithContext(ctx).
		Where("course_title = ?", *title).
		Order("course_created_at ASC").
		Limit(1).
		Find(&c).Error
	if err != nil {
		return nil, "", helper.StoreFailure(err)
	}
	if c.CourseID == uuid.Nil {
		return nil, *title, nil
	}
	return &c.CourseID, c.CourseTitle, nil
}

func (s *AnnouncementService) instructorName(ctx context.Context, uid string, fallback string) (string, error) {
	users, err := userService.FindByUIDs(ctx, s.DB, []string{uid})
	if err != nil {
		return "", err
	}
	if u := users[uid]; u != nil && u.DisplayName() != "" {
		return u.DisplayName(), nil
	}
	if fallback != "" {
		return fallback, nil
	}
	return "Instructor", nil
}

// Create: caller terautentikasi mana pun. Instructor default: nama pembuat.
func (s *AnnouncementService) Create(ctx context.Context, uid, displayName string, req dto.CreateAnnouncementRequest) (*model.AnnouncementModel, error) {
	req.Normalize()
	if err := helper.Validate(&req); err != nil {
		return nil, err
	}
	courseID, courseTitle, err := s.resolveCourse(ctx, req.CourseID, req.Course)
	if err != nil {
		return nil, err
	}

	instructor := ""
	if req.Instructor != nil {
		instructor = *req.Instructor
	} else if instructor, err = s.instructorName(ctx, uid, displayName); err != nil {
		return nil, err
	}

	m := &model.AnnouncementModel{
		AnnouncementTitle:       req.Title,
		AnnouncementContent:     req.Content,
		AnnouncementCourseID:    courseID,
		AnnouncementCourseTitle: courseTitle,
		AnnouncementInstructor:  instructor,
		AnnouncementPriority:    req.Priority,
		AnnouncementCreatedBy:   uid,
	}
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		return nil, helper.StoreFailure(err)
	}
	return m, nil
}

func (s *AnnouncementService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateAnnouncementRequest) (*model.AnnouncementModel, error) {
	req.Normalize()
	if err := helper.Validate(&req); err != nil {
		return nil, err
	}
	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.IsEmpty() {
		return nil, helper.Validation("Nothing to update")
	}

	if req.Title != nil {
		m.AnnouncementTitle = *req.Title
	}
	if req.Content != nil {
		m.AnnouncementContent = *req.Content
	}
	if req.Instructor != nil {
		m.AnnouncementInstructor = *req.Instructor
	}
	if req.Priority != nil {
		m.AnnouncementPriority = *req.Priority
	}
	if req.CourseID != nil || req.Course != nil {
		cid, title, err := s.resolveCourse(ctx, req.CourseID, req.Course)
		if err != nil {
			return nil, err
		}
		m.AnnouncementCourseID = cid
		m.AnnouncementCourseTitle = title
	}

	if err := s.DB.WithContext(ctx).Save(m).Error; err != nil {
		return nil, helper.StoreFailure(err)
	}
	return m, nil
}

func (s *AnnouncementService) Delete(ctx context.Context, id uuid.UUID) error {
	m, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.DB.WithContext(ctx).Delete(&model.AnnouncementModel{}, "announcement_id = ?", m.AnnouncementID).Error; err != nil {
		return helper.StoreFailure(err)
	}
	return nil
}
