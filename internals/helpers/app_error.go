package helper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeRoleMismatch       = "ROLE_MISMATCH"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeFileRequired       = "FILE_REQUIRED"
	CodeDeadlinePassed     = "DEADLINE_PASSED"
	CodeAlreadySubmitted   = "ALREADY_SUBMITTED"
	CodeSubmissionNotFound = "SUBMISSION_NOT_FOUND"
	CodeStoreFailure       = "STORE_FAILURE"
)

// AppError: error yang dikembalikan service ke controller.
// Dua AppError dianggap sama oleh errors.Is kalau Code-nya sama.
type AppError struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return e.Code + ": " + e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithMessage: salinan dengan pesan yang lebih spesifik.
func (e *AppError) WithMessage(format string, args ...any) *AppError {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

var (
	ErrUnauthenticated    = &AppError{Status: fiber.StatusUnauthorized, Code: CodeUnauthenticated, Message: "Unauthenticated"}
	ErrRoleMismatch       = &AppError{Status: fiber.StatusForbidden, Code: CodeRoleMismatch, Message: "Role does not match the registered account"}
	ErrForbidden          = &AppError{Status: fiber.StatusForbidden, Code: CodeForbidden, Message: "You are not allowed to access this resource"}
	ErrNotFound           = &AppError{Status: fiber.StatusNotFound, Code: CodeNotFound, Message: "Resource not found"}
	ErrValidation         = &AppError{Status: fiber.StatusBadRequest, Code: CodeValidationFailed, Message: "Validation failed"}
	ErrFileRequired       = &AppError{Status: fiber.StatusBadRequest, Code: CodeFileRequired, Message: "A file is required"}
	ErrDeadlinePassed     = &AppError{Status: fiber.StatusBadRequest, Code: CodeDeadlinePassed, Message: "The deadline for this assignment has passed"}
	ErrAlreadySubmitted   = &AppError{Status: fiber.StatusConflict, Code: CodeAlreadySubmitted, Message: "You have already submitted this assignment"}
	ErrSubmissionNotFound = &AppError{Status: fiber.StatusNotFound, Code: CodeSubmissionNotFound, Message: "Submission not found for this student"}
	ErrStoreFailure       = &AppError{Status: fiber.StatusInternalServerError, Code: CodeStoreFailure, Message: "Internal server error"}
)

// StoreFailure membungkus error persistence; penyebabnya di-log, tidak dikirim ke client.
func StoreFailure(err error) *AppError {
	cp := *ErrStoreFailure
	cp.Err = err
	return &cp
}

func NotFound(what string) *AppError {
	return ErrNotFound.WithMessage("%s not found", what)
}

func Validation(format string, args ...any) *AppError {
	return ErrValidation.WithMessage(format, args...)
}

// FromDB: ErrRecordNotFound → NotFound(what), error lain → StoreFailure, nil tetap nil.
func FromDB(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(what)
	default:
		return StoreFailure(err)
	}
}

// --- mapping unique violation (pgx/libpq/sqlite) ---
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code == "23505"
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "unique constraint failed")
}
