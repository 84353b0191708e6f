package handlers

import (
	"coursecatalog/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(
	courseHandler *CourseHandler,
	accessHandler *AccessHandler,
	adminHandler *AdminHandler,
	limiter *middleware.RateLimiter,
	session gin.HandlerFunc,
	adminAuth gin.HandlerFunc,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.Default()

	config := cors.DefaultConfig()
	if len(allowedOrigins) > 0 {
		config.AllowOrigins = allowedOrigins
	} else {
		config.AllowAllOrigins = true
	}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	r.Use(cors.New(config))

	api := r.Group("/api/v1")
	{
		courses := api.Group("/courses")
		if session != nil {
			courses.Use(session)
		}
		{
			courses.GET("", courseHandler.List)
			courses.GET("/:course_id", courseHandler.GetOne)
			courses.GET("/:course_id/lessons/:lesson_id", courseHandler.GetLesson)
		}

		if accessHandler != nil {
			access := api.Group("/access")
			{
				if limiter != nil {
					access.POST("/request", limiter.LimitAccessRequests(), accessHandler.Request)
				} else {
					access.POST("/request", accessHandler.Request)
				}
				access.GET("/verify", accessHandler.Verify)
			}
		}

		if adminHandler != nil {
			admin := api.Group("/admin")
			if adminAuth != nil {
				admin.Use(adminAuth)
			}
			{
				admin.POST("/courses", adminHandler.CreateCourse)
				admin.PUT("/courses/:course_id", adminHandler.UpdateCourse)
				admin.DELETE("/courses/:course_id", adminHandler.DeleteCourse)
				admin.POST("/courses/:course_id/image", adminHandler.UploadCourseImage)

				admin.POST("/courses/:course_id/lessons", adminHandler.CreateLesson)
				admin.PUT("/courses/:course_id/lessons/:lesson_id", adminHandler.UpdateLesson)
				admin.DELETE("/courses/:course_id/lessons/:lesson_id", adminHandler.DeleteLesson)
				admin.POST("/courses/:course_id/lessons/:lesson_id/thumbnail", adminHandler.UploadLessonThumbnail)
				admin.POST("/courses/:course_id/lessons/:lesson_id/video", adminHandler.UploadLessonVideo)
			}
		}
	}

	return r
}
