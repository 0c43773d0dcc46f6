package constants

import (
	"path/filepath"
	"strings"
)

const (
	MaterialTypeVideo = "video"
	MaterialTypePDF   = "pdf"
	MaterialTypeLink  = "link"
	MaterialTypeNote  = "note"
)

var MaterialTypes = []string{MaterialTypeVideo, MaterialTypePDF, MaterialTypeLink, MaterialTypeNote}

// DetectMaterialTypeFromExt menebak tipe materi dari nama file upload.
// Selain video, pdf, dan shortcut link dianggap note.
func DetectMaterialTypeFromExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".mp4", ".mov", ".webm", ".mkv", ".avi":
		return MaterialTypeVideo
	case ".pdf":
		return MaterialTypePDF
	case ".url", ".webloc":
		return MaterialTypeLink
	default:
		return MaterialTypeNote
	}
}
