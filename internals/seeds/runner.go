package seeds

import (
	"log"
	"path/filepath"

	courses "learnx_backend/internals/seeds/courses/courses"
	users "learnx_backend/internals/seeds/users/users"

	"gorm.io/gorm"
)

// RunAllSeeds mengisi data demo dari dir (users dulu, lalu courses).
// Baris yang sudah ada dilewati, jadi aman dijalankan di setiap start.
func RunAllSeeds(db *gorm.DB, dir string) error {

	//* Users
	n, err := users.SeedUsersFromJSON(db, filepath.Join(dir, "data_users.json"))
	if err != nil {
		return err
	}
	log.Printf("[SEED] users inserted: %d", n)

	//* Courses (+ materials, enrollments)
	n, err = courses.SeedCoursesFromJSON(db, filepath.Join(dir, "data_courses.json"))
	if err != nil {
		return err
	}
	log.Printf("[SEED] courses inserted: %d", n)

	return nil
}
