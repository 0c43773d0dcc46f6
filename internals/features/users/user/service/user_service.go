package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"learnx_backend/internals/configs"
	"learnx_backend/internals/constants"
	courseModel "learnx_backend/internals/features/courses/course/model"
	dto "learnx_backend/internals/features/users/user/dto"
	model "learnx_backend/internals/features/users/user/model"
	helper "learnx_backend/internals/helpers"
	helperAuth "learnx_backend/internals/helpers/auth"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// VerifyOrProvision: login pertama membuat user dengan role dari body,
// login berikutnya harus memakai role yang sama.
func (s *UserService) VerifyOrProvision(ctx context.Context, id helperAuth.Identity, req dto.VerifyRequest) (*model.UserModel, bool, error) {
	if strings.TrimSpace(id.UID) == "" {
		return nil, false, helper.ErrUnauthenticated
	}
	if !constants.IsValidRole(req.Role) {
		return nil, false, helper.Validation("role must be one of: student teacher")
	}

	db := s.DB.WithContext(ctx)

	var existing model.UserModel
	err := db.Where("uid = ?", id.UID).First(&existing).Error
	switch {
	case err == nil:
		if existing.Role != req.Role {
			return nil, false, helper.ErrRoleMismatch.WithMessage("This account is registered as %s", existing.Role)
		}
		if changed := fillBlanks(&existing, id, req); changed {
			if err := db.Save(&existing).Error; err != nil {
				return nil, false, helper.StoreFailure(err)
			}
		}
		return &existing, false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, helper.StoreFailure(err)
	}

	email := normalizeEmail(id.Email)
	if email != nil {
		var n int64
		if err := db.Model(&model.UserModel{}).Where("email = ?", *email).Count(&n).Error; err != nil {
			return nil, false, helper.StoreFailure(err)
		}
		if n > 0 {
			return nil, false, helper.Validation("Email is already registered to another account")
		}
	}

	u := &model.UserModel{
		UID:      id.UID,
		Name:     firstNonEmpty(ptrVal(req.Name), id.Name, emailLocal(email), "LearnX User"),
		Email:    email,
		ImageURL: req.ImageURL,
		Role:     req.Role,
	}
	if err := db.Create(u).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			// login paralel untuk uid yang sama, atau email direbut di antara cek & insert
			var again model.UserModel
			if e := db.Where("uid = ?", id.UID).First(&again).Error; e == nil {
				if again.Role != req.Role {
					return nil, false, helper.ErrRoleMismatch.WithMessage("This account is registered as %s", again.Role)
				}
				return &again, false, nil
			}
			return nil, false, helper.Validation("Email is already registered to another account")
		}
		return nil, false, helper.StoreFailure(err)
	}
	return u, true, nil
}

func (s *UserService) GetByUID(ctx context.Context, uid string) (*model.UserModel, error) {
	var u model.UserModel
	if err := s.DB.WithContext(ctx).Where("uid = ?", uid).First(&u).Error; err != nil {
		return nil, helper.FromDB(err, "User")
	}
	return &u, nil
}

// CourseRefs mengembalikan id kursus yang diikuti dan yang dibuat oleh uid.
func (s *UserService) CourseRefs(ctx context.Context, uid string) (enrolled, created []uuid.UUID, err error) {
	db := s.DB.WithContext(ctx)
	if err = db.Model(&courseModel.CourseEnrollmentModel{}).
		Where("course_enrollment_student_uid = ?", uid).
		Order("course_enrollment_created_at ASC").
		Pluck("course_enrollment_course_id", &enrolled).Error; err != nil {
		return nil, nil, helper.StoreFailure(err)
	}
	if err = db.Model(&courseModel.CourseModel{}).
		Where("course_created_by = ?", uid).
		Order("course_created_at ASC").
		Pluck("course_id", &created).Error; err != nil {
		return nil, nil, helper.StoreFailure(err)
	}
	return enrolled, created, nil
}

func (s *UserService) UpdateMe(ctx context.Context, uid string, req dto.UpdateMeRequest) (*model.UserModel, error) {
	u, err := s.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	req.ApplyToModel(u)
	if err := s.DB.WithContext(ctx).Save(u).Error; err != nil {
		return nil, helper.StoreFailure(err)
	}
	return u, nil
}

// MyCourses: kursus yang diikuti (student) dan yang dibuat (teacher), terbaru dulu.
func (s *UserService) MyCourses(ctx context.Context, uid string) (enrolled, created []courseModel.CourseModel, err error) {
	db := s.DB.WithContext(ctx)
	sub := db.Model(&courseModel.CourseEnrollmentModel{}).
		Select("course_enrollment_course_id").
		Where("course_enrollment_student_uid = ?", uid)
	if err = db.Where("course_id IN (?)", sub).
		Order("course_created_at DESC").
		Find(&enrolled).Error; err != nil {
		return nil, nil, helper.StoreFailure(err)
	}
	if err = db.Where("course_created_by = ?", uid).
		Order("course_created_at DESC").
		Find(&created).Error; err != nil {
		return nil, nil, helper.StoreFailure(err)
	}
	return enrolled, created, nil
}

// Logout mencabut bearer aktif sampai exp-nya lewat.
func (s *UserService) Logout(ctx context.Context, rawToken string, expiresAt time.Time) error {
	if strings.TrimSpace(rawToken) == "" {
		return helper.ErrUnauthenticated
	}
	if err := helperAuth.Revoke(ctx, s.DB, rawToken, configs.TokenRevocationKey, expiresAt); err != nil {
		return helper.StoreFailure(err)
	}
	return nil
}

// FindByUIDs memuat profil untuk join saat baca. UID yang tidak ada dilewati.
func FindByUIDs(ctx context.Context, db *gorm.DB, uids []string) (map[string]*model.UserModel, error) {
	out := make(map[string]*model.UserModel, len(uids))
	if len(uids) == 0 {
		return out, nil
	}
	var rows []model.UserModel
	if err := db.WithContext(ctx).Where("uid IN ?", uniqueStrings(uids)).Find(&rows).Error; err != nil {
		return nil, helper.StoreFailure(err)
	}
	for i := range rows {
		out[rows[i].UID] = &rows[i]
	}
	return out, nil
}

/* ===================== helpers ===================== */

func fillBlanks(u *model.UserModel, id helperAuth.Identity, req dto.VerifyRequest) bool {
	changed := false
	if u.Name == "" {
		if n := firstNonEmpty(ptrVal(req.Name), id.Name); n != "" {
			u.Name = n
			changed = true
		}
	}
	if u.ImageURL == nil && req.ImageURL != nil {
		u.ImageURL = req.ImageURL
		changed = true
	}
	return changed
}

func normalizeEmail(s string) *string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil
	}
	return &s
}

func emailLocal(email *string) string {
	if email == nil {
		return ""
	}
	if i := strings.IndexByte(*email, '@'); i > 0 {
		return (*email)[:i]
	}
	return *email
}

func ptrVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok || s == "" {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
