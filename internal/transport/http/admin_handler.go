package handlers

import (
	"errors"
	"net/http"

	"coursecatalog/internal/application/usecase"
	"coursecatalog/internal/domain"
	"coursecatalog/internal/infrastructure/media"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	admin *usecase.AdminUseCase
}

func NewAdminHandler(admin *usecase.AdminUseCase) *AdminHandler {
	return &AdminHandler{admin: admin}
}

type courseReq struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Access      string `json:"access"`
	Status      string `json:"status"`
}

// Description is a pointer so a partial update can omit it without
// clearing the stored value.
type courseUpdateReq struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Access      string  `json:"access"`
	Status      string  `json:"status"`
}

type lessonReq struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Order       *int   `json:"order"`
	CanPreview  *bool  `json:"can_preview"`
	Status      string `json:"status"`
}

type lessonUpdateReq struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Order       *int    `json:"order"`
	CanPreview  *bool   `json:"can_preview"`
	Status      string  `json:"status"`
}

func writeAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrCourseNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
	case errors.Is(err, domain.ErrLessonNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// POST /api/v1/admin/courses
func (h *AdminHandler) CreateCourse(c *gin.Context) {
	var req courseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := h.admin.CreateCourse(c, usecase.CourseInput{
		Title:       req.Title,
		Description: &req.Description,
		Access:      domain.AccessRequirement(req.Access),
		Status:      domain.PublishStatus(req.Status),
	})
	if err != nil {
		writeAdminError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"public_id": course.PublicID, "path": course.Path()})
}

// PUT /api/v1/admin/courses/:course_id
func (h *AdminHandler) UpdateCourse(c *gin.Context) {
	var req courseUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := h.admin.UpdateCourse(c, c.Param("course_id"), usecase.CourseInput{
		Title:       req.Title,
		Description: req.Description,
		Access:      domain.AccessRequirement(req.Access),
		Status:      domain.PublishStatus(req.Status),
	})
	if err != nil {
		writeAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"public_id": course.PublicID, "status": course.Status})
}

// DELETE /api/v1/admin/courses/:course_id
func (h *AdminHandler) DeleteCourse(c *gin.Context) {
	if err := h.admin.DeleteCourse(c, c.Param("course_id")); err != nil {
		writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// POST /api/v1/admin/courses/:course_id/lessons
func (h *AdminHandler) CreateLesson(c *gin.Context) {
	var req lessonReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lesson, err := h.admin.CreateLesson(c, c.Param("course_id"), usecase.LessonInput{
		Title:       req.Title,
		Description: &req.Description,
		Order:       req.Order,
		CanPreview:  req.CanPreview,
		Status:      domain.PublishStatus(req.Status),
	})
	if err != nil {
		writeAdminError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"public_id": lesson.PublicID, "path": lesson.Path()})
}

// PUT /api/v1/admin/courses/:course_id/lessons/:lesson_id
func (h *AdminHandler) UpdateLesson(c *gin.Context) {
	var req lessonUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lesson, err := h.admin.UpdateLesson(c, c.Param("course_id"), c.Param("lesson_id"), usecase.LessonInput{
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
		CanPreview:  req.CanPreview,
		Status:      domain.PublishStatus(req.Status),
	})
	if err != nil {
		writeAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"public_id": lesson.PublicID, "status": lesson.Status})
}

// DELETE /api/v1/admin/courses/:course_id/lessons/:lesson_id
func (h *AdminHandler) DeleteLesson(c *gin.Context) {
	if err := h.admin.DeleteLesson(c, c.Param("course_id"), c.Param("lesson_id")); err != nil {
		writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func uploadInputFromForm(c *gin.Context) (media.UploadInput, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return media.UploadInput{}, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return media.UploadInput{}, false
	}

	return media.UploadInput{
		Reader:      file,
		Size:        fileHeader.Size,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
	}, true
}

// POST /api/v1/admin/courses/:course_id/image
func (h *AdminHandler) UploadCourseImage(c *gin.Context) {
	in, ok := uploadInputFromForm(c)
	if !ok {
		return
	}

	course, err := h.admin.UploadCourseImage(c, c.Param("course_id"), in)
	if err != nil {
		writeAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"public_id": course.PublicID, "image": course.Image})
}

// POST /api/v1/admin/courses/:course_id/lessons/:lesson_id/thumbnail
func (h *AdminHandler) UploadLessonThumbnail(c *gin.Context) {
	h.uploadLessonMedia(c, "thumbnail")
}

// POST /api/v1/admin/courses/:course_id/lessons/:lesson_id/video
func (h *AdminHandler) UploadLessonVideo(c *gin.Context) {
	h.uploadLessonMedia(c, "video")
}

func (h *AdminHandler) uploadLessonMedia(c *gin.Context, kind string) {
	in, ok := uploadInputFromForm(c)
	if !ok {
		return
	}

	lesson, err := h.admin.UploadLessonMedia(c, c.Param("course_id"), c.Param("lesson_id"), kind, in)
	if err != nil {
		writeAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"public_id": lesson.PublicID,
		"thumbnail": lesson.Thumbnail,
		"video":     lesson.Video,
	})
}
