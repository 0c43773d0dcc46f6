package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dto "learnx_backend/internals/features/assignments/assignment/dto"
	model "learnx_backend/internals/features/assignments/assignment/model"
	courseModel "learnx_backend/internals/features/courses/course/model"
	courseService "learnx_backend/internals/features/courses/course/service"
	userService "learnx_backend/internals/features/users/user/service"
	helper "learnx_backend/internals/helpers"
	"learnx_backend/internals/helpers/dbtime"
	helperOSS "learnx_backend/internals/helpers/oss"
)

type AssignmentService struct {
	DB   *gorm.DB
	Blob helperOSS.BlobService
	// Now bisa diganti di test supaya deadline deterministik.
	Now func() time.Time
}

func NewAssignmentService(db *gorm.DB, blob helperOSS.BlobService) *AssignmentService {
	return &AssignmentService{DB: db, Blob: blob, Now: time.Now}
}

func assignmentDir(courseID uuid.UUID) string {
	return fmt.Sprintf("assignments/%s", courseID)
}

func submissionDir(a *model.AssignmentModel) string {
	return fmt.Sprintf("assignments/%s/%s/submissions", a.AssignmentCourseID, a.AssignmentID)
}

func (s *AssignmentService) load(ctx context.Context, id uuid.UUID) (*model.AssignmentModel, error) {
	var a model.AssignmentModel
	if err := s.DB.WithContext(ctx).First(&a, "assignment_id = ?", id).Error; err != nil {
		return nil, helper.FromDB(err, "Assignment")
	}
	return &a, nil
}

// loadOwned: assignment harus ada, lalu pemanggil harus pembuatnya.
func (s *AssignmentService) loadOwned(ctx context.Context, id uuid.UUID, uid string) (*model.AssignmentModel, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.AssignmentCreatedBy != uid {
		return nil, helper.ErrForbidden.WithMessage("Only the assignment creator can do this")
	}
	return a, nil
}

/* =========================
   CREATE
   ========================= */

// Create: pemilik course saja; file wajib.
func (s *AssignmentService) Create(ctx context.Context, uid string, req dto.CreateAssignmentRequest, fh *multipart.FileHeader) (*model.AssignmentModel, error) {
	req.Normalize()
	if err := helper.Validate(&req); err != nil {
		return nil, err
	}
	due, err := dbtime.ParseTime(req.AssignmentDueDate)
	if err != nil {
		return nil, helper.Validation("assignment_due_date must be RFC3339 or YYYY-MM-DD")
	}
	courseID := uuid.MustParse(req.AssignmentCourseID)

	c, err := courseService.LoadForWrite(ctx, s.DB, courseID, uid)
	if err != nil {
		return nil, err
	}
	if fh == nil {
		return nil, helper.ErrFileRequired.WithMessage("An assignment file is required")
	}

	url, err := s.Blob.UploadAny(ctx, assignmentDir(c.CourseID), fh)
	if err != nil {
		return nil, err
	}

	a := &model.AssignmentModel{
		AssignmentCourseID:    c.CourseID,
		AssignmentTitle:       req.AssignmentTitle,
		AssignmentDescription: req.AssignmentDescription,
		AssignmentDueDate:     due,
		AssignmentCreatedBy:   uid,
		AssignmentFileURL:     url,
	}
	if err := s.DB.WithContext(ctx).Create(a).Error; err != nil {
		helperOSS.DiscardUpload(ctx, s.DB, s.Blob, "assignment_create_failed", url)
		return nil, helper.StoreFailure(err)
	}
	return a, nil
}

/* =========================
   READ
   ========================= */

// ListByCourse: creator melihat semua submission, student hanya miliknya.
func (s *AssignmentService) ListByCourse(ctx context.Context, courseID uuid.UUID, uid string) ([]dto.AssignmentResponse, error) {
	c, acc, err := courseService.LoadForRead(ctx, s.DB, courseID, uid)
	if err != nil {
		return nil, err
	}

	var rows []model.AssignmentModel
	if err := s.DB.WithContext(ctx).
		Where("assignment_course_id = ?", c.CourseID).
		Order("assignment_due_date ASC").
		Find(&rows).Error; err != nil {
		return nil, helper.StoreFailure(err)
	}

	return s.project(ctx, rows, uid, acc.IsCreator, map[uuid.UUID]string{c.CourseID: c.CourseTitle})
}

// ListByTeacher: assignment buatan uid, dengan judul course & nama pembuat.
func (s *AssignmentService) ListByTeacher(ctx context.Context, uid string) ([]dto.AssignmentResponse, error) {
	var rows []model.AssignmentModel
	if err := s.DB.WithContext(ctx).
		Where("assignment_created_by = ?", uid).
		Order("assignment_due_date ASC").
		Find(&rows).Error; err != nil {
		return nil, helper.StoreFailure(err)
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.AssignmentCourseID)
	}
	titles, err := s.courseTitles(ctx, ids)
	if err != nil {
		return nil, err
	}
	return s.project(ctx, rows, uid, true, titles)
}

// Detail: akses sama dengan course (creator / enrolled).
func (s *AssignmentService) Detail(ctx context.Context, id uuid.UUID, uid string) (*dto.AssignmentResponse, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	c, acc, err := courseService.LoadForRead(ctx, s.DB, a.AssignmentCourseID, uid)
	if err != nil {
		return nil, err
	}
	out, err := s.project(ctx, []model.AssignmentModel{*a}, uid, acc.IsCreator || a.AssignmentCreatedBy == uid,
		map[uuid.UUID]string{c.CourseID: c.CourseTitle})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// Submissions: creator saja, dengan nama student.
func (s *AssignmentService) Submissions(ctx context.Context, id uuid.UUID, uid string) ([]dto.SubmissionResponse, error) {
	a, err := s.loadOwned(ctx, id, uid)
	if err != nil {
		return nil, err
	}
	subs, err := s.submissionsFor(ctx, []uuid.UUID{a.AssignmentID}, "")
	if err != nil {
		return nil, err
	}
	return s.hydrateSubmissions(ctx, subs)
}

// project memasang submission sesuai peran pemanggil.
func (s *AssignmentService) project(ctx context.Context, rows []model.AssignmentModel, uid string, seeAll bool, courseTitles map[uuid.UUID]string) ([]dto.AssignmentResponse, error) {
	out := make([]dto.AssignmentResponse, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	creators := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.AssignmentID)
		creators = append(creators, r.AssignmentCreatedBy)
	}

	only := uid
	if seeAll {
		only = ""
	}
	subs, err := s.submissionsFor(ctx, ids, only)
	if err != nil {
		return nil, err
	}
	hydrated, err := s.hydrateSubmissions(ctx, subs)
	if err != nil {
		return nil, err
	}
	byAssignment := make(map[uuid.UUID][]dto.SubmissionResponse, len(rows))
	for i, sub := range subs {
		byAssignment[sub.AssignmentSubmissionAssignmentID] = append(byAssignment[sub.AssignmentSubmissionAssignmentID], hydrated[i])
	}

	users, err := userService.FindByUIDs(ctx, s.DB, creators)
	if err != nil {
		return nil, err
	}

	for i := range rows {
		r := dto.ToAssignmentResponse(&rows[i])
		r.CourseTitle = courseTitles[rows[i].AssignmentCourseID]
		if u := users[rows[i].AssignmentCreatedBy]; u != nil {
			r.CreatorName = u.DisplayName()
		}
		if list := byAssignment[rows[i].AssignmentID]; list != nil {
			r.Submissions = list
		}
		r.SubmissionCount = len(r.Submissions)
		out = append(out, r)
	}
	return out, nil
}

func (s *AssignmentService) submissionsFor(ctx context.Context, assignmentIDs []uuid.UUID, onlyStudent string) ([]model.AssignmentSubmissionModel, error) {
	q := s.DB.WithContext(ctx).
		Where("assignment_submission_assignment_id IN ?", assignmentIDs)
	if onlyStudent != "" {
		q = q.Where("assignment_submission_student_uid = ?", onlyStudent)
	}
	var subs []model.AssignmentSubmissionModel
	if err := q.Order("assignment_submission_submitted_at ASC").Find(&subs).Error; err != nil {
		return nil, helper.StoreFailure(err)
	}
	return subs, nil
}

func (s *AssignmentService) hydrateSubmissions(ctx context.Context, subs []model.AssignmentSubmissionModel) ([]dto.SubmissionResponse, error) {
	uids := make([]string, 0, len(subs))
	for _, sub := range subs {
		uids = append(uids, sub.AssignmentSubmissionStudentUID)
	}
	users, err := userService.FindByUIDs(ctx, s.DB, uids)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SubmissionResponse, 0, len(subs))
	for i := range subs {
		r := dto.ToSubmissionResponse(&subs[i])
		if u := users[subs[i].AssignmentSubmissionStudentUID]; u != nil {
			r.StudentName = u.DisplayName()
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *AssignmentService) courseTitles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := map[uuid.UUID]string{}
	if len(ids) == 0 {
		return out, nil
	}
	var rows []courseModel.CourseModel
	if err := s.DB.WithContext(ctx).
		Select("course_id", "course_title").
		Where("course_id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, helper.StoreFailure(err)
	}
	for _, r := range rows {
		out[r.CourseID] = r.CourseTitle
	}
	return out, nil
}

/* =========================
   UPDATE / DELETE
   ========================= */

func (s *AssignmentService) Update(ctx context.Context, id uuid.UUID, uid string, req dto.UpdateAssignmentRequest, fh *multipart.FileHeader) (*model.AssignmentModel, error) {
	a, err := s.loadOwned(ctx, id, uid)
	if err != nil {
		return nil, err
	}
	req.Normalize()
	if err := helper.Validate(&req); err != nil {
		return nil, err
	}
	if req.IsEmpty() && fh == nil {
		return nil, helper.Validation("Nothing to update")
	}

	if req.AssignmentTitle != nil && *req.AssignmentTitle != "" {
		a.AssignmentTitle = *req.AssignmentTitle
	}
	if req.AssignmentDescription != nil {
		if *req.AssignmentDescription == "" {
			a.AssignmentDescription = nil
		} else {
			a.AssignmentDescription = req.AssignmentDescription
		}
	}
	if req.AssignmentDueDate != nil {
		due, err := dbtime.ParseTime(*req.AssignmentDueDate)
		if err != nil {
			return nil, helper.Validation("assignment_due_date must be RFC3339 or YYYY-MM-DD")
		}
		a.AssignmentDueDate = due
	}

	oldURL := a.AssignmentFileURL
	uploaded := ""
	if fh != nil {
		url, err := s.Blob.UploadAny(ctx, assignmentDir(a.AssignmentCourseID), fh)
		if err != nil {
			return nil, err
		}
		a.AssignmentFileURL = url
		uploaded = url
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(a).Error; err != nil {
			return err
		}
		if oldURL != a.AssignmentFileURL {
			return helperOSS.EnqueueOwned(tx, s.Blob, "assignment_file_replaced", oldURL)
		}
		return nil
	})
	if err != nil {
		helperOSS.DiscardUpload(ctx, s.DB, s.Blob, "assignment_update_failed", uploaded)
		return nil, helper.StoreFailure(err)
	}
	return a, nil
}

func (s *AssignmentService) Delete(ctx context.Context, id uuid.UUID, uid string) error {
	a, err := s.loadOwned(ctx, id, uid)
	if err != nil {
		return err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		urls := []string{a.AssignmentFileURL}
		var subURLs []string
		if err := tx.Model(&model.AssignmentSubmissionModel{}).
			Where("assignment_submission_assignment_id = ?", a.AssignmentID).
			Pluck("assignment_submission_file_url", &subURLs).Error; err != nil {
			return err
		}
		urls = append(urls, subURLs...)

		if err := tx.Where("assignment_submission_assignment_id = ?", a.AssignmentID).
			Delete(&model.AssignmentSubmissionModel{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.AssignmentModel{}, "assignment_id = ?", a.AssignmentID).Error; err != nil {
			return err
		}
		return helperOSS.EnqueueOwned(tx, s.Blob, "assignment_deleted", urls...)
	})
	if err != nil {
		return helper.StoreFailure(err)
	}
	return nil
}

/* =========================
   SUBMIT / GRADE
   ========================= */

// Submit, urutan cek: NotFound → Forbidden (belum enroll) → DeadlinePassed →
// AlreadySubmitted → FileRequired → upload → insert. Unique index
// (assignment, student) menutup race dua request paralel.
func (s *AssignmentService) Submit(ctx context.Context, id uuid.UUID, uid string, fh *multipart.FileHeader) (*model.AssignmentSubmissionModel, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	enrolled, err := courseService.IsEnrolled(ctx, s.DB, a.AssignmentCourseID, uid)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, helper.ErrForbidden.WithMessage("You are not enrolled in this course")
	}

	now := s.Now()
	if a.IsPastDue(now) {
		return nil, helper.ErrDeadlinePassed
	}

	var n int64
	if err := s.DB.WithContext(ctx).Model(&model.AssignmentSubmissionModel{}).
		Where("assignment_submission_assignment_id = ? AND assignment_submission_student_uid = ?", a.AssignmentID, uid).
		Count(&n).Error; err != nil {
		return nil, helper.StoreFailure(err)
	}
	if n > 0 {
		return nil, helper.ErrAlreadySubmitted
	}

	if fh == nil {
		return nil, helper.ErrFileRequired.WithMessage("A submission file is required")
	}
	url, err := s.Blob.UploadAny(ctx, submissionDir(a), fh)
	if err != nil {
		return nil, err
	}

	sub := &model.AssignmentSubmissionModel{
		AssignmentSubmissionAssignmentID: a.AssignmentID,
		AssignmentSubmissionStudentUID:   uid,
		AssignmentSubmissionFileURL:      url,
		AssignmentSubmissionSubmittedAt:  now.UTC(),
	}
	if err := s.DB.WithContext(ctx).Create(sub).Error; err != nil {
		helperOSS.DiscardUpload(ctx, s.DB, s.Blob, "submission_insert_failed", url)
		if helper.IsUniqueViolation(err) {
			return nil, helper.ErrAlreadySubmitted
		}
		return nil, helper.StoreFailure(err)
	}
	return sub, nil
}

// Grade: creator saja; nilai & feedback ditimpa di tempat.
func (s *AssignmentService) Grade(ctx context.Context, id uuid.UUID, studentUID, uid string, req dto.GradeRequest) (*model.AssignmentSubmissionModel, error) {
	a, err := s.loadOwned(ctx, id, uid)
	if err != nil {
		return nil, err
	}
	req.Normalize()
	if err := helper.Validate(&req); err != nil {
		return nil, err
	}

	var sub model.AssignmentSubmissionModel
	if err := s.DB.WithContext(ctx).
		Where("assignment_submission_assignment_id = ? AND assignment_submission_student_uid = ?", a.AssignmentID, studentUID).
		First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ErrSubmissionNotFound
		}
		return nil, helper.StoreFailure(err)
	}

	now := s.Now().UTC()
	sub.AssignmentSubmissionGrade = req.Grade
	sub.AssignmentSubmissionFeedback = req.Feedback
	sub.AssignmentSubmissionGradedAt = &now
	if err := s.DB.WithContext(ctx).Save(&sub).Error; err != nil {
		return nil, helper.StoreFailure(err)
	}
	return &sub, nil
}
