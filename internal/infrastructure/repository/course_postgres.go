package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"coursecatalog/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	listCacheTTL   = 10 * time.Minute
	detailCacheTTL = 1 * time.Hour

	// Attempts for the public_id duplicate retry loop. The 5-char
	// suffix is short, so a collision regenerates and tries again.
	createAttempts = 3
)

type CourseRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewCourseRepository(db *gorm.DB, rdb *redis.Client) *CourseRepository {
	return &CourseRepository{db: db, rdb: rdb}
}

// ListPublished returns published courses only, newest first.
func (r *CourseRepository) ListPublished(ctx context.Context, search string, limit, offset int) ([]domain.Course, int64, error) {
	key := fmt.Sprintf("courses:list:%s:%d:%d", search, limit, offset)

	if r.rdb != nil {
		val, err := r.rdb.Get(ctx, key).Result()
		if err == nil {
			var cached struct {
				Courses []domain.Course
				Total   int64
			}
			if json.Unmarshal([]byte(val), &cached) == nil {
				return cached.Courses, cached.Total, nil
			}
		}
	}

	var courses []domain.Course
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Course{}).
		Where("status = ?", domain.StatusPublished)
	if search != "" {
		// lower() on both sides keeps the match case-insensitive on
		// any dialect; ILIKE is postgres-only.
		query = query.Where("lower(title) LIKE lower(?)", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Limit(limit).Offset(offset).Order("created_at desc").Find(&courses).Error
	if err != nil {
		return nil, 0, err
	}

	if r.rdb != nil {
		cacheData := struct {
			Courses []domain.Course
			Total   int64
		}{courses, total}
		if data, err := json.Marshal(cacheData); err == nil {
			r.rdb.Set(ctx, key, data, listCacheTTL)
		}
	}

	return courses, total, nil
}

// GetByPublicID loads one course with its lessons in default order.
func (r *CourseRepository) GetByPublicID(ctx context.Context, publicID string) (*domain.Course, error) {
	key := "course:detail:" + publicID

	if r.rdb != nil {
		val, err := r.rdb.Get(ctx, key).Result()
		if err == nil {
			var c domain.Course
			if json.Unmarshal([]byte(val), &c) == nil {
				return &c, nil
			}
		}
	}

	var course domain.Course
	err := r.db.WithContext(ctx).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order(domain.LessonOrderClause)
		}).
		First(&course, "public_id = ?", publicID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, err
	}

	if r.rdb != nil {
		if data, err := json.Marshal(course); err == nil {
			r.rdb.Set(ctx, key, data, detailCacheTTL)
		}
	}

	return &course, nil
}

// GetLessons returns a course's lessons in default order (order asc, updated desc).
func (r *CourseRepository) GetLessons(ctx context.Context, courseID uuid.UUID) ([]domain.Lesson, error) {
	var lessons []domain.Lesson
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order(domain.LessonOrderClause).
		Find(&lessons).Error
	return lessons, err
}

// GetLesson resolves a lesson scoped to a course, both by public identifier.
func (r *CourseRepository) GetLesson(ctx context.Context, coursePublicID, lessonPublicID string) (*domain.Lesson, error) {
	var course domain.Course
	err := r.db.WithContext(ctx).First(&course, "public_id = ?", coursePublicID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, err
	}

	var lesson domain.Lesson
	err = r.db.WithContext(ctx).
		First(&lesson, "course_id = ? AND public_id = ?", course.ID, lessonPublicID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLessonNotFound
		}
		return nil, err
	}

	lesson.Course = &course
	return &lesson, nil
}

// Create persists a course, regenerating the public identifier on a
// duplicate-key collision.
func (r *CourseRepository) Create(ctx context.Context, c *domain.Course) error {
	var err error
	for i := 0; i < createAttempts; i++ {
		err = r.db.WithContext(ctx).Create(c).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		c.PublicID = domain.NewPublicID(c.Title)
	}
	return err
}

func (r *CourseRepository) Update(ctx context.Context, c *domain.Course) error {
	if err := r.db.WithContext(ctx).Save(c).Error; err != nil {
		return err
	}
	r.invalidateDetail(ctx, c.PublicID)
	return nil
}

func (r *CourseRepository) Delete(ctx context.Context, c *domain.Course) error {
	r.invalidateDetail(ctx, c.PublicID)
	return r.db.WithContext(ctx).Select("Lessons").Delete(c).Error
}

func (r *CourseRepository) CreateLesson(ctx context.Context, l *domain.Lesson) error {
	var err error
	for i := 0; i < createAttempts; i++ {
		err = r.db.WithContext(ctx).Omit("Course").Create(l).Error
		if err == nil {
			r.invalidateDetailByLesson(ctx, l)
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		l.PublicID = domain.NewPublicID(l.Title)
	}
	return err
}

func (r *CourseRepository) UpdateLesson(ctx context.Context, l *domain.Lesson) error {
	if err := r.db.WithContext(ctx).Omit("Course").Save(l).Error; err != nil {
		return err
	}
	r.invalidateDetailByLesson(ctx, l)
	return nil
}

func (r *CourseRepository) DeleteLesson(ctx context.Context, l *domain.Lesson) error {
	r.invalidateDetailByLesson(ctx, l)
	return r.db.WithContext(ctx).Delete(&domain.Lesson{}, "id = ?", l.ID).Error
}

func (r *CourseRepository) invalidateDetail(ctx context.Context, publicID string) {
	if r.rdb == nil || publicID == "" {
		return
	}
	r.rdb.Del(ctx, "course:detail:"+publicID)
}

func (r *CourseRepository) invalidateDetailByLesson(ctx context.Context, l *domain.Lesson) {
	if r.rdb == nil {
		return
	}
	if l.Course != nil {
		r.invalidateDetail(ctx, l.Course.PublicID)
		return
	}
	var publicID string
	if err := r.db.WithContext(ctx).Model(&domain.Course{}).
		Select("public_id").
		Where("id = ?", l.CourseID).
		Scan(&publicID).Error; err == nil {
		r.invalidateDetail(ctx, publicID)
	}
	// Stale list entries just wait out their TTL.
}
