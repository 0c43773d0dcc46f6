package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectMaterialTypeFromExt(t *testing.T) {
	tests := []struct {
		name string
		file string
		want string
	}{
		{"video", "lecture-01.MP4", MaterialTypeVideo},
		{"pdf", "syllabus.pdf", MaterialTypePDF},
		{"link", "reading.url", MaterialTypeLink},
		{"doc falls back to note", "notes.docx", MaterialTypeNote},
		{"no extension", "README", MaterialTypeNote},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectMaterialTypeFromExt(tt.file))
		})
	}
}

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole(RoleStudent))
	assert.True(t, IsValidRole(RoleTeacher))
	assert.False(t, IsValidRole("admin"))
	assert.False(t, IsValidRole(""))
}
