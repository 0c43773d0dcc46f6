package service

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "learnx_backend/internals/features/courses/course/dto"
	model "learnx_backend/internals/features/courses/course/model"
	helper "learnx_backend/internals/helpers"
	helperOSS "learnx_backend/internals/helpers/oss"
)

func materialDir(courseID uuid.UUID) string {
	return fmt.Sprintf("courses/%s/materials", courseID)
}

func (s *CourseService) listMaterials(ctx context.Context, courseID uuid.UUID) ([]model.CourseMaterialModel, error) {
	var rows []model.CourseMaterialModel
	if err := s.DB.WithContext(ctx).
		Where("course_material_course_id = ?", courseID).
		Order("course_material_uploaded_at ASC").
		Find(&rows).Error; err != nil {
		return nil, helper.StoreFailure(err)
	}
	return rows, nil
}

// AddMaterial: creator saja. Sumber: file (diupload) atau course_material_url.
func (s *CourseService) AddMaterial(ctx context.Context, courseID uuid.UUID, uid string, req dto.MaterialRequest, fh *multipart.FileHeader) (*model.CourseMaterialModel, error) {
	c, err := LoadForWrite(ctx, s.DB, courseID, uid)
	if err != nil {
		return nil, err
	}
	req.Normalize()
	if err := helper.Validate(&req); err != nil {
		return nil, err
	}

	filename := ""
	if fh != nil {
		filename = fh.Filename
	}
	req.ResolveType(filename)
	if fh == nil && req.CourseMaterialURL == "" {
		return nil, helper.ErrFileRequired.WithMessage("Provide a file or course_material_url")
	}
	uploaded := ""
	if fh != nil {
		url, err := s.Blob.UploadAny(ctx, materialDir(c.CourseID), fh)
		if err != nil {
			return nil, err
		}
		req.CourseMaterialURL, uploaded = url, url
	}

	m := &model.CourseMaterialModel{
		CourseMaterialCourseID: c.CourseID,
		CourseMaterialTitle:    req.CourseMaterialTitle,
		CourseMaterialType:     req.CourseMaterialType,
		CourseMaterialURL:      req.CourseMaterialURL,
		CourseMaterialTopic:    req.CourseMaterialTopic,
	}
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		helperOSS.DiscardUpload(ctx, s.DB, s.Blob, "material_create_failed", uploaded)
		return nil, helper.StoreFailure(err)
	}
	return m, nil
}

// loadMaterial: material dicari lewat course induknya, bukan id global.
func (s *CourseService) loadMaterial(ctx context.Context, courseID, materialID uuid.UUID) (*model.CourseMaterialModel, error) {
	var m model.CourseMaterialModel
	if err := s.DB.WithContext(ctx).
		Where("course_material_course_id = ? AND course_material_id = ?", courseID, materialID).
		First(&m).Error; err != nil {
		return nil, helper.FromDB(err, "Material")
	}
	return &m, nil
}

func (s *CourseService) UpdateMaterial(ctx context.Context, courseID, materialID uuid.UUID, uid string, req dto.UpdateMaterialRequest, fh *multipart.FileHeader) (*model.CourseMaterialModel, error) {
	c, err := LoadForWrite(ctx, s.DB, courseID, uid)
	if err != nil {
		return nil, err
	}
	m, err := s.loadMaterial(ctx, c.CourseID, materialID)
	if err != nil {
		return nil, err
	}
	req.Normalize()
	if err := helper.Validate(&req); err != nil {
		return nil, err
	}

	uploaded := ""
	if fh != nil {
		url, err := s.Blob.UploadAny(ctx, materialDir(c.CourseID), fh)
		if err != nil {
			return nil, err
		}
		req.CourseMaterialURL = &url
		uploaded = url
	}

	oldURL := m.CourseMaterialURL
	req.ApplyToModel(m)

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(m).Error; err != nil {
			return err
		}
		if oldURL != m.CourseMaterialURL {
			return helperOSS.EnqueueOwned(tx, s.Blob, "material_replaced", oldURL)
		}
		return nil
	})
	if err != nil {
		helperOSS.DiscardUpload(ctx, s.DB, s.Blob, "material_update_failed", uploaded)
		return nil, helper.StoreFailure(err)
	}
	return m, nil
}

func (s *CourseService) DeleteMaterial(ctx context.Context, courseID, materialID uuid.UUID, uid string) error {
	c, err := LoadForWrite(ctx, s.DB, courseID, uid)
	if err != nil {
		return err
	}
	m, err := s.loadMaterial(ctx, c.CourseID, materialID)
	if err != nil {
		return err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.CourseMaterialModel{}, "course_material_id = ?", m.CourseMaterialID).Error; err != nil {
			return err
		}
		return helperOSS.EnqueueOwned(tx, s.Blob, "material_deleted", m.CourseMaterialURL)
	})
	if err != nil {
		return helper.StoreFailure(err)
	}
	return nil
}
