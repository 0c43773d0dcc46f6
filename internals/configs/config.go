package configs

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

var (
	Port                   string
	IdentityProvider       string
	GoogleClientID         string
	JWTSecret              string
	TokenRevocationKey     string
	DefaultCourseThumbnail string
	CorsAllowOrigins       string
	AppTimezone            string
	ReaperCronSchedule     string
	SeedOnStart            bool
	SeedDir                string
)

const defaultThumbnail = "https://placehold.co/600x400?text=LearnX"

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("[WARN] .env not found, using system environment")
		} else {
			log.Println("[INFO] .env loaded")
		}
	} else {
		log.Println("[INFO] Running on Railway, using system environment")
	}

	Port = GetEnv("PORT", "3000")
	IdentityProvider = strings.ToLower(GetEnv("IDENTITY_PROVIDER", "google"))
	GoogleClientID = GetEnv("GOOGLE_CLIENT_ID")
	JWTSecret = GetEnv("JWT_SECRET")
	TokenRevocationKey = GetEnv("TOKEN_REVOCATION_KEY", JWTSecret)
	DefaultCourseThumbnail = GetEnv("DEFAULT_COURSE_THUMBNAIL", defaultThumbnail)
	CorsAllowOrigins = GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")
	AppTimezone = GetEnv("APP_TIMEZONE", "UTC")
	ReaperCronSchedule = GetEnv("REAPER_CRON_SCHEDULE", "*/15 * * * *")
	SeedOnStart = GetEnvBool("SEED_ON_START", false)
	SeedDir = GetEnv("SEED_DIR", "internals/seeds/data")

	switch IdentityProvider {
	case "google":
		if GoogleClientID == "" {
			log.Println("[ERROR] GOOGLE_CLIENT_ID is not set")
		}
	case "hs256":
		if JWTSecret == "" {
			log.Println("[ERROR] JWT_SECRET is not set")
		}
	default:
		log.Printf("[ERROR] unknown IDENTITY_PROVIDER %q", IdentityProvider)
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || strings.TrimSpace(value) == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return strings.TrimSpace(value)
}

func GetEnvBool(key string, def bool) bool {
	switch strings.ToLower(GetEnv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

// ThumbnailOrDefault: placeholder dari config kalau url kosong.
func ThumbnailOrDefault(url string) string {
	if strings.TrimSpace(url) != "" {
		return url
	}
	if DefaultCourseThumbnail != "" {
		return DefaultCourseThumbnail
	}
	return defaultThumbnail
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	level := gormLogger.Warn
	if GetEnvBool("DB_LOG_QUERIES", false) {
		level = gormLogger.Info
	}
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      level,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	nl := *l
	nl.LogLevel = level
	return &nl
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[INFO] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[WARN] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[ERROR] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && l.LogLevel >= gormLogger.Error && err != gormLogger.ErrRecordNotFound:
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
