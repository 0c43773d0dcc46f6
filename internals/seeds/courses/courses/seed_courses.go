package courses

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"learnx_backend/internals/configs"
	courseDTO "learnx_backend/internals/features/courses/course/dto"
	"learnx_backend/internals/features/courses/course/model"
	helper "learnx_backend/internals/helpers"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MaterialSeed struct {
	Title string `json:"title"`
	Type  string `json:"type"`
	URL   string `json:"url"`
}

type CourseSeed struct {
	Title       string         `json:"title"`
	Code        string         `json:"code"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Tags        []string       `json:"tags"`
	CreatedBy   string         `json:"created_by"`
	Materials   []MaterialSeed `json:"materials"`
	Enrolled    []string       `json:"enrolled"`
}

// SeedCoursesFromJSON memasukkan course demo; course dengan code yang sama dilewati.
// Pembuat dan student yang di-enroll harus sudah ada (seed users dulu).
func SeedCoursesFromJSON(db *gorm.DB, filePath string) (inserted int, err error) {
	log.Println("[SEED] reading courses:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", filePath, err)
	}
	var inputs []CourseSeed
	if err := json.Unmarshal(file, &inputs); err != nil {
		return 0, fmt.Errorf("decode %s: %w", filePath, err)
	}

	for _, data := range inputs {
		code := helper.NormalizeCode(data.Code)
		if code == "" || data.Title == "" || data.CreatedBy == "" {
			log.Printf("[SEED] skip course %q: title/code/created_by required", data.Title)
			continue
		}
		var n int64
		if err := db.Model(&model.CourseModel{}).Where("course_code = ?", code).Count(&n).Error; err != nil {
			return inserted, err
		}
		if n > 0 {
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			c := model.CourseModel{
				CourseTitle:     data.Title,
				CourseCode:      &code,
				CourseThumbnail: configs.ThumbnailOrDefault(""),
				CourseCreatedBy: data.CreatedBy,
			}
			if data.Description != "" {
				c.CourseDescription = &data.Description
			}
			if data.Category != "" {
				c.CourseCategory = &data.Category
			}
			c.SetTags(courseDTO.NormalizeTags(data.Tags))
			if err := tx.Omit(clause.Associations).Create(&c).Error; err != nil {
				return err
			}

			for _, m := range data.Materials {
				mat := model.CourseMaterialModel{
					CourseMaterialCourseID: c.CourseID,
					CourseMaterialTitle:    m.Title,
					CourseMaterialType:     m.Type,
					CourseMaterialURL:      m.URL,
				}
				if err := tx.Create(&mat).Error; err != nil {
					return err
				}
			}
			for _, sid := range data.Enrolled {
				e := model.CourseEnrollmentModel{
					CourseEnrollmentCourseID:   c.CourseID,
					CourseEnrollmentStudentUID: sid,
				}
				if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&e).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			log.Printf("[SEED] insert course %q failed: %v", code, err)
			continue
		}
		inserted++
	}
	return inserted, nil
}
