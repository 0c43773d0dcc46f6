package helper

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"Introducción a la Física", 0, "introduccion-a-la-fisica"},
		{"  ---  ", 0, "item"},
		{"Week 1: Notes.PDF", 0, "week-1-notes-pdf"},
		{"abcdef-ghij", 6, "abcdef"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in, tt.maxLen), tt.in)
	}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "CS101X", NormalizeCode("  cs 101x "))
	assert.Equal(t, "", NormalizeCode("   "))
}

func TestAppErrorIs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ErrDeadlinePassed.WithMessage("late by %d days", 1))
	assert.ErrorIs(t, err, ErrDeadlinePassed)
	assert.NotErrorIs(t, err, ErrAlreadySubmitted)

	var appErr *AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "late by 1 days", appErr.Message)
	assert.Equal(t, 400, appErr.Status)
}

func TestFromDB(t *testing.T) {
	assert.NoError(t, FromDB(nil, "course"))
	assert.ErrorIs(t, FromDB(gorm.ErrRecordNotFound, "course"), ErrNotFound)

	boom := errors.New("connection reset")
	err := FromDB(boom, "course")
	assert.ErrorIs(t, err, ErrStoreFailure)
	assert.ErrorIs(t, err, boom)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: attendances.course_id")))
	assert.True(t, IsUniqueViolation(errors.New(`ERROR: duplicate key value violates unique constraint "uq_x"`)))
	assert.False(t, IsUniqueViolation(errors.New("syntax error")))
	assert.False(t, IsUniqueViolation(nil))
}

type sampleRequest struct {
	Title  string `json:"title" validate:"required,min=3"`
	Status string `json:"status" validate:"omitempty,oneof=active inactive"`
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(sampleRequest{Title: "Algebra"}))

	err := Validate(sampleRequest{Title: "", Status: "archived"})
	var appErr *AppError
	if assert.True(t, errors.As(err, &appErr)) {
		assert.Equal(t, CodeValidationFailed, appErr.Code)
		assert.Equal(t, "is required", appErr.Fields["title"])
		assert.Contains(t, appErr.Fields["status"], "one of")
	}
}

func TestRespondErrorEnvelope(t *testing.T) {
	app := fiber.New()
	app.Get("/invalid", func(c *fiber.Ctx) error {
		return RespondError(c, Validate(sampleRequest{}))
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return RespondError(c, NotFound("Course"))
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return RespondError(c, errors.New("connection reset"))
	})

	tests := []struct {
		path     string
		status   int
		code     string
		message  string
		hasField bool
	}{
		{"/invalid", 400, CodeValidationFailed, "Validation failed", true},
		{"/missing", 404, CodeNotFound, "Course not found", false},
		{"/boom", 500, CodeStoreFailure, "Internal server error", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.False(t, body.Success)
			assert.Equal(t, tt.code, body.ErrorCode)
			assert.Equal(t, tt.message, body.Message)
			if tt.hasField {
				assert.Equal(t, "is required", body.Errors["title"])
			} else {
				assert.Empty(t, body.Errors)
			}
		})
	}
}
