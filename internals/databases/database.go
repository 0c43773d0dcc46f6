package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"learnx_backend/internals/configs"
	announcementModel "learnx_backend/internals/features/announcements/announcement/model"
	assignmentModel "learnx_backend/internals/features/assignments/assignment/model"
	attendanceModel "learnx_backend/internals/features/attendance/attendance/model"
	courseModel "learnx_backend/internals/features/courses/course/model"
	userModel "learnx_backend/internals/features/users/user/model"
	helperAuth "learnx_backend/internals/helpers/auth"
	helperOSS "learnx_backend/internals/helpers/oss"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Koneksi ke PostgreSQL...")

	// Kalau pakai PgBouncer, arahkan DB_PORT ke pooler dan biarkan PreferSimpleProtocol=true
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=learnx&options=-c statement_timeout=3000",
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			getenv("DB_HOST", "localhost"),
			getenv("DB_PORT", "5432"),
			getenv("DB_NAME", "learnx"),
			getenv("DB_SSLMODE", "disable"),
		)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:         configs.NewGormLogger(),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("❌ Gagal konek DB: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond) // beri waktu server naik
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
			return
		}
		// katalog kursus adalah query paling sering
		var n int64
		DB.Model(&courseModel.CourseModel{}).Where("course_status = ?", courseModel.CourseStatusActive).Count(&n)
	}()
}

// Models yang dimigrasi, urut dari parent ke child.
func Models() []any {
	return []any{
		&userModel.UserModel{},
		&courseModel.CourseModel{},
		&courseModel.CourseMaterialModel{},
		&courseModel.CourseEnrollmentModel{},
		&assignmentModel.AssignmentModel{},
		&assignmentModel.AssignmentSubmissionModel{},
		&attendanceModel.AttendanceModel{},
		&announcementModel.AnnouncementModel{},
		&helperOSS.PendingObjectDeletion{},
		&helperAuth.RevokedTokenModel{},
	}
}

// Migrate membuat tabel + index unik (uid, email, enrollment, attendance per hari, submission).
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
