package usecase

import (
	"context"

	"coursecatalog/internal/domain"
	"coursecatalog/internal/infrastructure/media"
	"coursecatalog/internal/infrastructure/repository"
	"coursecatalog/pkg/logger"
)

// CatalogUseCase serves the read side of the catalog.
type CatalogUseCase struct {
	repo    *repository.CourseRepository
	storage *media.Storage
	log     *logger.Logger
}

func NewCatalogUseCase(repo *repository.CourseRepository, storage *media.Storage, log *logger.Logger) *CatalogUseCase {
	return &CatalogUseCase{repo: repo, storage: storage, log: log}
}

func (uc *CatalogUseCase) ListPublishedCourses(ctx context.Context, search string, limit, offset int) ([]domain.Course, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	return uc.repo.ListPublished(ctx, search, limit, offset)
}

// GetCourse resolves a course by public identifier, lessons preloaded
// in default order. Returns domain.ErrCourseNotFound on a miss.
func (uc *CatalogUseCase) GetCourse(ctx context.Context, publicID string) (*domain.Course, error) {
	return uc.repo.GetByPublicID(ctx, publicID)
}

func (uc *CatalogUseCase) GetCourseLessons(ctx context.Context, course *domain.Course) ([]domain.Lesson, error) {
	return uc.repo.GetLessons(ctx, course.ID)
}

// GetLesson resolves a lesson scoped to its course; a stray lesson
// identifier under the wrong course is a miss.
func (uc *CatalogUseCase) GetLesson(ctx context.Context, coursePublicID, lessonPublicID string) (*domain.Lesson, error) {
	return uc.repo.GetLesson(ctx, coursePublicID, lessonPublicID)
}

// MediaURL resolves an object key to a presigned URL. Failures degrade
// to an empty URL rather than failing the whole page.
func (uc *CatalogUseCase) MediaURL(ctx context.Context, objectKey string, width int) string {
	if uc.storage == nil || objectKey == "" {
		return ""
	}
	url, err := uc.storage.ResolveURL(ctx, objectKey, media.ResolveOptions{Width: width})
	if err != nil {
		uc.log.Warn("resolve media url failed", "object_key", objectKey, "error", err)
		return ""
	}
	return url
}
