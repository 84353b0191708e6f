package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"coursecatalog/internal/application/usecase"
	"coursecatalog/internal/domain"
	"coursecatalog/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Image widths requested from the media proxy.
const (
	listImageWidth   = 382
	detailImageWidth = 750
)

type CourseHandler struct {
	catalog *usecase.CatalogUseCase
}

func NewCourseHandler(catalog *usecase.CatalogUseCase) *CourseHandler {
	return &CourseHandler{catalog: catalog}
}

type courseResponse struct {
	PublicID     string `json:"public_id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Path         string `json:"path"`
	Access       string `json:"access"`
	Status       string `json:"status"`
	IsComingSoon bool   `json:"is_coming_soon,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
}

type lessonResponse struct {
	PublicID      string `json:"public_id"`
	Title         string `json:"title"`
	Path          string `json:"path"`
	Order         int    `json:"order"`
	Status        string `json:"status"`
	IsComingSoon  bool   `json:"is_coming_soon"`
	CanPreview    bool   `json:"can_preview"`
	Description   string `json:"description,omitempty"`
	ThumbnailURL  string `json:"thumbnail_url,omitempty"`
	VideoURL      string `json:"video_url,omitempty"`
	RequiresEmail bool   `json:"requires_email,omitempty"`
}

func (h *CourseHandler) courseToResponse(c *gin.Context, course *domain.Course, imageWidth int) courseResponse {
	return courseResponse{
		PublicID:     course.PublicID,
		Title:        course.Title,
		Description:  course.Description,
		Path:         course.Path(),
		Access:       string(course.Access),
		Status:       string(course.Status),
		IsComingSoon: course.IsComingSoon(),
		ImageURL:     h.catalog.MediaURL(c, course.Image, imageWidth),
	}
}

func (h *CourseHandler) lessonToResponse(c *gin.Context, course *domain.Course, lesson *domain.Lesson, verified bool) lessonResponse {
	resp := lessonResponse{
		PublicID:     lesson.PublicID,
		Title:        lesson.Title,
		Path:         lesson.Path(),
		Order:        lesson.Order,
		Status:       string(lesson.Status),
		IsComingSoon: lesson.IsComingSoon(),
		CanPreview:   lesson.CanPreview,
		ThumbnailURL: h.catalog.MediaURL(c, lesson.Thumbnail, listImageWidth),
	}

	if domain.CanViewLesson(course, lesson, verified) {
		resp.Description = lesson.Description
		resp.VideoURL = h.catalog.MediaURL(c, lesson.Video, 0)
	} else if course.Access == domain.AccessEmailRequired && !lesson.IsComingSoon() {
		resp.RequiresEmail = true
	}
	return resp
}

// GET /api/v1/courses
func (h *CourseHandler) List(c *gin.Context) {
	search := c.Query("search")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	courses, total, err := h.catalog.ListPublishedCourses(c, search, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	resp := make([]courseResponse, 0, len(courses))
	for i := range courses {
		resp = append(resp, h.courseToResponse(c, &courses[i], listImageWidth))
	}

	c.JSON(http.StatusOK, gin.H{"courses": resp, "total_count": total})
}

// GET /api/v1/courses/:course_id
func (h *CourseHandler) GetOne(c *gin.Context) {
	course, err := h.catalog.GetCourse(c, c.Param("course_id"))
	if err != nil {
		if errors.Is(err, domain.ErrCourseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	verified := c.GetString(middleware.ViewerEmailKey) != ""

	lessons := make([]lessonResponse, 0, len(course.Lessons))
	for i := range course.Lessons {
		lesson := &course.Lessons[i]
		// Drafts stay invisible; coming-soon lessons are announced.
		if !lesson.IsPublished() && !lesson.IsComingSoon() {
			continue
		}
		lesson.Course = course
		lessons = append(lessons, h.lessonToResponse(c, course, lesson, verified))
	}

	c.JSON(http.StatusOK, gin.H{
		"course":  h.courseToResponse(c, course, detailImageWidth),
		"lessons": lessons,
	})
}

// GET /api/v1/courses/:course_id/lessons/:lesson_id
func (h *CourseHandler) GetLesson(c *gin.Context) {
	lesson, err := h.catalog.GetLesson(c, c.Param("course_id"), c.Param("lesson_id"))
	if err != nil {
		if errors.Is(err, domain.ErrCourseNotFound) || errors.Is(err, domain.ErrLessonNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
		return
	}

	if !lesson.IsPublished() && !lesson.IsComingSoon() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
		return
	}

	verified := c.GetString(middleware.ViewerEmailKey) != ""
	c.JSON(http.StatusOK, gin.H{
		"lesson": h.lessonToResponse(c, lesson.Course, lesson, verified),
	})
}
