package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"coursecatalog/internal/application/usecase"
	"coursecatalog/internal/domain"
	"coursecatalog/internal/infrastructure/repository"
	"coursecatalog/internal/infrastructure/security"
	"coursecatalog/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type sessionAdapter struct {
	m *security.SessionManager
}

func (a sessionAdapter) ValidateSession(token string) (string, error) {
	return a.m.Validate(token)
}

type testEnv struct {
	router   *gin.Engine
	repo     *repository.CourseRepository
	sessions *security.SessionManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Course{}, &domain.Lesson{}, &domain.Email{}))

	repo := repository.NewCourseRepository(db, nil)
	sessions := security.NewSessionManager("test-secret")
	hasher := security.NewPasswordHasher()
	adminHash, err := hasher.Hash("hunter2")
	require.NoError(t, err)

	catalogUC := usecase.NewCatalogUseCase(repo, nil, nil)
	adminUC := usecase.NewAdminUseCase(repo, nil, nil)

	router := NewRouter(
		NewCourseHandler(catalogUC),
		nil,
		NewAdminHandler(adminUC),
		nil,
		middleware.ViewerSession(sessionAdapter{sessions}),
		middleware.AdminAuth(hasher, adminHash),
		nil,
	)

	return &testEnv{router: router, repo: repo, sessions: sessions}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var parsed map[string]any
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &parsed)
	}
	return w, parsed
}

func (e *testEnv) seedCourse(t *testing.T, title string, access domain.AccessRequirement, status domain.PublishStatus) *domain.Course {
	t.Helper()
	c := &domain.Course{Title: title, Access: access, Status: status}
	require.NoError(t, e.repo.Create(context.Background(), c))
	return c
}

func (e *testEnv) seedLesson(t *testing.T, course *domain.Course, l domain.Lesson) *domain.Lesson {
	t.Helper()
	l.CourseID = course.ID
	l.Course = course
	require.NoError(t, e.repo.CreateLesson(context.Background(), &l))
	return &l
}

func TestListCourses_PublishedOnly(t *testing.T) {
	env := newTestEnv(t)
	env.seedCourse(t, "Live Course", domain.AccessAnyone, domain.StatusPublished)
	env.seedCourse(t, "Hidden Draft", domain.AccessAnyone, domain.StatusDraft)
	env.seedCourse(t, "Almost There", domain.AccessAnyone, domain.StatusComingSoon)

	w, body := env.do(t, http.MethodGet, "/api/v1/courses", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	courses := body["courses"].([]any)
	require.Len(t, courses, 1)
	course := courses[0].(map[string]any)
	assert.Equal(t, "Live Course", course["title"])
	assert.Equal(t, "publish", course["status"])
	assert.Equal(t, "/courses/"+course["public_id"].(string), course["path"])
	assert.EqualValues(t, 1, body["total_count"])
}

func TestCourseDetail_NotFound(t *testing.T) {
	env := newTestEnv(t)

	w, _ := env.do(t, http.MethodGet, "/api/v1/courses/no-such-course-aaaaa", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCourseDetail_GatesEmailRequiredContent(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, "Gated Course", domain.AccessEmailRequired, domain.StatusPublished)
	env.seedLesson(t, course, domain.Lesson{Title: "Locked", Description: "secret notes", Status: domain.StatusPublished})
	env.seedLesson(t, course, domain.Lesson{Title: "Teaser", Description: "free notes", Status: domain.StatusPublished, CanPreview: true})
	env.seedLesson(t, course, domain.Lesson{Title: "Soon", Status: domain.StatusComingSoon})
	env.seedLesson(t, course, domain.Lesson{Title: "WIP", Status: domain.StatusDraft})

	w, body := env.do(t, http.MethodGet, "/api/v1/courses/"+course.PublicID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	lessons := body["lessons"].([]any)
	// Draft lesson is invisible entirely.
	require.Len(t, lessons, 3)

	byTitle := map[string]map[string]any{}
	for _, raw := range lessons {
		l := raw.(map[string]any)
		byTitle[l["title"].(string)] = l
	}

	locked := byTitle["Locked"]
	assert.Nil(t, locked["description"])
	assert.Equal(t, true, locked["requires_email"])

	teaser := byTitle["Teaser"]
	assert.Equal(t, "free notes", teaser["description"])

	soon := byTitle["Soon"]
	assert.Equal(t, true, soon["is_coming_soon"])
	assert.Nil(t, soon["requires_email"])
}

func TestCourseDetail_VerifiedSessionUnlocks(t *testing.T) {
	env := newTestEnv(t)
	course := env.seedCourse(t, "Gated Course", domain.AccessEmailRequired, domain.StatusPublished)
	env.seedLesson(t, course, domain.Lesson{Title: "Locked", Description: "secret notes", Status: domain.StatusPublished})

	token, err := env.sessions.Generate("viewer@example.com")
	require.NoError(t, err)

	w, body := env.do(t, http.MethodGet, "/api/v1/courses/"+course.PublicID, nil,
		map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, w.Code)

	lessons := body["lessons"].([]any)
	require.Len(t, lessons, 1)
	locked := lessons[0].(map[string]any)
	assert.Equal(t, "secret notes", locked["description"])
	assert.Nil(t, locked["requires_email"])
}

func TestLessonDetail_ScopedToCourse(t *testing.T) {
	env := newTestEnv(t)
	courseA := env.seedCourse(t, "Course A", domain.AccessAnyone, domain.StatusPublished)
	courseB := env.seedCourse(t, "Course B", domain.AccessAnyone, domain.StatusPublished)
	lesson := env.seedLesson(t, courseA, domain.Lesson{Title: "Only in A", Description: "notes", Status: domain.StatusPublished})

	w, body := env.do(t, http.MethodGet, "/api/v1/courses/"+courseA.PublicID+"/lessons/"+lesson.PublicID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := body["lesson"].(map[string]any)
	assert.Equal(t, "Only in A", got["title"])
	assert.Equal(t, courseA.Path()+"/lessons/"+lesson.PublicID, got["path"])
	assert.Equal(t, "notes", got["description"])

	w, _ = env.do(t, http.MethodGet, "/api/v1/courses/"+courseB.PublicID+"/lessons/"+lesson.PublicID, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdmin_RequiresCredentials(t *testing.T) {
	env := newTestEnv(t)

	w, _ := env.do(t, http.MethodPost, "/api/v1/admin/courses",
		gin.H{"title": "New Course"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = env.do(t, http.MethodPost, "/api/v1/admin/courses",
		gin.H{"title": "New Course"}, map[string]string{"Authorization": "Bearer wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdmin_CourseLifecycle(t *testing.T) {
	env := newTestEnv(t)
	auth := map[string]string{"Authorization": "Bearer hunter2"}

	w, body := env.do(t, http.MethodPost, "/api/v1/admin/courses",
		gin.H{"title": "Intro to Testing"}, auth)
	require.Equal(t, http.StatusCreated, w.Code)

	publicID := body["public_id"].(string)
	assert.Regexp(t, `^intro-to-testing-[a-z0-9]{5}$`, publicID)
	assert.Equal(t, "/courses/"+publicID, body["path"])

	// Defaults: draft, email required — so not listed yet.
	w, body = env.do(t, http.MethodGet, "/api/v1/courses", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["courses"].([]any), 0)

	w, _ = env.do(t, http.MethodPut, "/api/v1/admin/courses/"+publicID,
		gin.H{"status": "publish"}, auth)
	require.Equal(t, http.StatusOK, w.Code)

	w, body = env.do(t, http.MethodGet, "/api/v1/courses", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, body["courses"].([]any), 1)
	listed := body["courses"].([]any)[0].(map[string]any)
	assert.Equal(t, "email_required", listed["access"])

	w, _ = env.do(t, http.MethodDelete, "/api/v1/admin/courses/"+publicID, nil, auth)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = env.do(t, http.MethodGet, "/api/v1/courses/"+publicID, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdmin_UpdateWithoutDescriptionKeepsIt(t *testing.T) {
	env := newTestEnv(t)
	auth := map[string]string{"Authorization": "Bearer hunter2"}

	w, body := env.do(t, http.MethodPost, "/api/v1/admin/courses",
		gin.H{"title": "Described Course", "description": "keep me"}, auth)
	require.Equal(t, http.StatusCreated, w.Code)
	publicID := body["public_id"].(string)

	// A status-only update must not touch the description.
	w, _ = env.do(t, http.MethodPut, "/api/v1/admin/courses/"+publicID,
		gin.H{"status": "publish"}, auth)
	require.Equal(t, http.StatusOK, w.Code)

	course, err := env.repo.GetByPublicID(context.Background(), publicID)
	require.NoError(t, err)
	assert.Equal(t, "keep me", course.Description)

	// Sending the key explicitly empty clears it.
	w, _ = env.do(t, http.MethodPut, "/api/v1/admin/courses/"+publicID,
		gin.H{"description": ""}, auth)
	require.Equal(t, http.StatusOK, w.Code)

	course, err = env.repo.GetByPublicID(context.Background(), publicID)
	require.NoError(t, err)
	assert.Equal(t, "", course.Description)
}

func TestAdmin_LessonUpdateWithoutDescriptionKeepsIt(t *testing.T) {
	env := newTestEnv(t)
	auth := map[string]string{"Authorization": "Bearer hunter2"}
	course := env.seedCourse(t, "Host Course", domain.AccessAnyone, domain.StatusPublished)
	lesson := env.seedLesson(t, course, domain.Lesson{Title: "Notes", Description: "keep me", Status: domain.StatusPublished})

	w, _ := env.do(t, http.MethodPut,
		"/api/v1/admin/courses/"+course.PublicID+"/lessons/"+lesson.PublicID,
		gin.H{"order": 3}, auth)
	require.Equal(t, http.StatusOK, w.Code)

	got, err := env.repo.GetLesson(context.Background(), course.PublicID, lesson.PublicID)
	require.NoError(t, err)
	assert.Equal(t, "keep me", got.Description)
	assert.Equal(t, 3, got.Order)
}

func TestAdmin_LessonLifecycle(t *testing.T) {
	env := newTestEnv(t)
	auth := map[string]string{"Authorization": "Bearer hunter2"}
	course := env.seedCourse(t, "Host Course", domain.AccessAnyone, domain.StatusPublished)

	w, body := env.do(t, http.MethodPost, "/api/v1/admin/courses/"+course.PublicID+"/lessons",
		gin.H{"title": "First Steps", "description": "hello"}, auth)
	require.Equal(t, http.StatusCreated, w.Code)

	lessonID := body["public_id"].(string)
	assert.Regexp(t, `^first-steps-[a-z0-9]{5}$`, lessonID)
	assert.Equal(t, course.Path()+"/lessons/"+lessonID, body["path"])

	// Lesson status defaults to published.
	w, body = env.do(t, http.MethodGet, "/api/v1/courses/"+course.PublicID+"/lessons/"+lessonID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := body["lesson"].(map[string]any)
	assert.Equal(t, "publish", got["status"])
	assert.EqualValues(t, 0, got["order"])

	w, _ = env.do(t, http.MethodDelete, "/api/v1/admin/courses/"+course.PublicID+"/lessons/"+lessonID, nil, auth)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = env.do(t, http.MethodGet, "/api/v1/courses/"+course.PublicID+"/lessons/"+lessonID, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = env.do(t, http.MethodPost, "/api/v1/admin/courses/missing-course-ccccc/lessons",
		gin.H{"title": "Nope"}, auth)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
