package usecase

import (
	"context"
	"errors"
	"fmt"

	"coursecatalog/internal/domain"
	"coursecatalog/internal/infrastructure/media"
	"coursecatalog/internal/infrastructure/repository"
	"coursecatalog/pkg/logger"
)

// AdminUseCase is the authoring surface: course/lesson writes and
// media uploads.
type AdminUseCase struct {
	repo    *repository.CourseRepository
	storage *media.Storage
	log     *logger.Logger
}

func NewAdminUseCase(repo *repository.CourseRepository, storage *media.Storage, log *logger.Logger) *AdminUseCase {
	return &AdminUseCase{repo: repo, storage: storage, log: log}
}

// Pointer fields distinguish "leave unchanged" from an explicit new
// value (including clearing a description with "").
type CourseInput struct {
	Title       string
	Description *string
	Access      domain.AccessRequirement
	Status      domain.PublishStatus
}

type LessonInput struct {
	Title       string
	Description *string
	Order       *int
	CanPreview  *bool
	Status      domain.PublishStatus
}

func validAccess(a domain.AccessRequirement) bool {
	return a == domain.AccessAnyone || a == domain.AccessEmailRequired
}

func validStatus(s domain.PublishStatus) bool {
	return s == domain.StatusPublished || s == domain.StatusComingSoon || s == domain.StatusDraft
}

func (uc *AdminUseCase) CreateCourse(ctx context.Context, in CourseInput) (*domain.Course, error) {
	if in.Access == "" {
		in.Access = domain.AccessEmailRequired
	}
	if in.Status == "" {
		in.Status = domain.StatusDraft
	}
	if !validAccess(in.Access) || !validStatus(in.Status) {
		return nil, errors.New("invalid access or status value")
	}

	course := &domain.Course{
		Title:  in.Title,
		Access: in.Access,
		Status: in.Status,
	}
	if in.Description != nil {
		course.Description = *in.Description
	}
	if err := uc.repo.Create(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (uc *AdminUseCase) UpdateCourse(ctx context.Context, publicID string, in CourseInput) (*domain.Course, error) {
	course, err := uc.repo.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		course.Title = in.Title
	}
	if in.Description != nil {
		course.Description = *in.Description
	}
	if in.Access != "" {
		if !validAccess(in.Access) {
			return nil, errors.New("invalid access value")
		}
		course.Access = in.Access
	}
	if in.Status != "" {
		if !validStatus(in.Status) {
			return nil, errors.New("invalid status value")
		}
		course.Status = in.Status
	}

	if err := uc.repo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// DeleteCourse removes a course, its lessons and their stored media.
// Media cleanup is best effort; orphaned objects just cost bucket space.
func (uc *AdminUseCase) DeleteCourse(ctx context.Context, publicID string) error {
	course, err := uc.repo.GetByPublicID(ctx, publicID)
	if err != nil {
		return err
	}

	uc.deleteObject(ctx, course.Image)
	for _, l := range course.Lessons {
		uc.deleteObject(ctx, l.Thumbnail)
		uc.deleteObject(ctx, l.Video)
	}

	return uc.repo.Delete(ctx, course)
}

func (uc *AdminUseCase) CreateLesson(ctx context.Context, coursePublicID string, in LessonInput) (*domain.Lesson, error) {
	course, err := uc.repo.GetByPublicID(ctx, coursePublicID)
	if err != nil {
		return nil, err
	}

	if in.Status == "" {
		in.Status = domain.StatusPublished
	}
	if !validStatus(in.Status) {
		return nil, errors.New("invalid status value")
	}

	lesson := &domain.Lesson{
		CourseID: course.ID,
		Course:   course,
		Title:    in.Title,
		Status:   in.Status,
	}
	if in.Description != nil {
		lesson.Description = *in.Description
	}
	if in.Order != nil {
		lesson.Order = *in.Order
	}
	if in.CanPreview != nil {
		lesson.CanPreview = *in.CanPreview
	}

	if err := uc.repo.CreateLesson(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (uc *AdminUseCase) UpdateLesson(ctx context.Context, coursePublicID, lessonPublicID string, in LessonInput) (*domain.Lesson, error) {
	lesson, err := uc.repo.GetLesson(ctx, coursePublicID, lessonPublicID)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		lesson.Title = in.Title
	}
	if in.Description != nil {
		lesson.Description = *in.Description
	}
	if in.Order != nil {
		lesson.Order = *in.Order
	}
	if in.CanPreview != nil {
		lesson.CanPreview = *in.CanPreview
	}
	if in.Status != "" {
		if !validStatus(in.Status) {
			return nil, errors.New("invalid status value")
		}
		lesson.Status = in.Status
	}

	if err := uc.repo.UpdateLesson(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (uc *AdminUseCase) DeleteLesson(ctx context.Context, coursePublicID, lessonPublicID string) error {
	lesson, err := uc.repo.GetLesson(ctx, coursePublicID, lessonPublicID)
	if err != nil {
		return err
	}

	uc.deleteObject(ctx, lesson.Thumbnail)
	uc.deleteObject(ctx, lesson.Video)

	return uc.repo.DeleteLesson(ctx, lesson)
}

// UploadCourseImage stores a new course image and swaps the object key.
func (uc *AdminUseCase) UploadCourseImage(ctx context.Context, publicID string, in media.UploadInput) (*domain.Course, error) {
	if uc.storage == nil {
		return nil, errors.New("media storage not configured")
	}

	course, err := uc.repo.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	if in.Tags == nil {
		in.Tags = map[string]string{}
	}
	in.Tags["kind"] = "image"

	key, err := uc.storage.Upload(ctx, course, in)
	if err != nil {
		return nil, err
	}

	old := course.Image
	course.Image = key
	if err := uc.repo.Update(ctx, course); err != nil {
		return nil, err
	}
	uc.deleteObject(ctx, old)
	return course, nil
}

// UploadLessonMedia stores a lesson thumbnail or video. Kind must be
// "thumbnail" or "video".
func (uc *AdminUseCase) UploadLessonMedia(ctx context.Context, coursePublicID, lessonPublicID, kind string, in media.UploadInput) (*domain.Lesson, error) {
	if uc.storage == nil {
		return nil, errors.New("media storage not configured")
	}
	if kind != "thumbnail" && kind != "video" {
		return nil, fmt.Errorf("unknown media kind %q", kind)
	}

	lesson, err := uc.repo.GetLesson(ctx, coursePublicID, lessonPublicID)
	if err != nil {
		return nil, err
	}

	if in.Tags == nil {
		in.Tags = map[string]string{}
	}
	in.Tags["kind"] = kind

	key, err := uc.storage.Upload(ctx, lesson, in)
	if err != nil {
		return nil, err
	}

	var old string
	if kind == "thumbnail" {
		old = lesson.Thumbnail
		lesson.Thumbnail = key
	} else {
		old = lesson.Video
		lesson.Video = key
	}

	if err := uc.repo.UpdateLesson(ctx, lesson); err != nil {
		return nil, err
	}
	uc.deleteObject(ctx, old)
	return lesson, nil
}

func (uc *AdminUseCase) deleteObject(ctx context.Context, key string) {
	if uc.storage == nil || key == "" {
		return
	}
	if err := uc.storage.Delete(ctx, key); err != nil {
		uc.log.Warn("media object cleanup failed", "object_key", key, "error", err)
	}
}
