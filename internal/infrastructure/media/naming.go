package media

import (
	"strings"

	"coursecatalog/internal/domain"
)

// PathPrefix returns the storage folder for an entity's uploads.
// Entities addressable by URL store under their own path; anything
// else goes under a per-type folder.
func PathPrefix(entity any) string {
	if loc, ok := entity.(domain.Locatable); ok {
		if p := strings.Trim(loc.Path(), "/"); p != "" {
			return p
		}
	}
	switch e := entity.(type) {
	case *domain.Course:
		if e.PublicID != "" {
			return "courses/" + e.PublicID
		}
		return "courses"
	case *domain.Lesson:
		if e.PublicID != "" {
			return "lessons/" + e.PublicID
		}
		return "lessons"
	default:
		return "uploads"
	}
}

// UploadDisplayName picks the human-readable name recorded with an upload.
func UploadDisplayName(entity any) string {
	if d, ok := entity.(domain.Displayable); ok {
		if name := d.DisplayName(); name != "" {
			return name
		}
	}
	switch entity.(type) {
	case *domain.Course:
		return "Course Upload"
	case *domain.Lesson:
		return "Lesson Upload"
	default:
		return "Upload"
	}
}
